package noop

import (
	"context"
	"testing"
	"time"
)

func TestCacheIsInert(t *testing.T) {
	cache := Cache()
	ctx := context.Background()

	if err := cache.Set(ctx, "key", "value", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := cache.Get(ctx, "key")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil from noop cache, got %v", got)
	}
	if err := cache.Delete(ctx, "key"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := cache.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
}

func TestTemplateIsInert(t *testing.T) {
	renderer := Template()

	out, err := renderer.RenderTemplate("post.html", nil)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	if out != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
	if _, err := renderer.RenderString("{{ . }}", "x"); err != nil {
		t.Fatalf("render string: %v", err)
	}
}
