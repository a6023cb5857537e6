package memcache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	cache := New(time.Minute)
	ctx := context.Background()

	if err := cache.Set(ctx, "key", "value", 0); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := cache.Get(ctx, "key")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "value" {
		t.Fatalf("expected cached value, got %v", got)
	}

	if err := cache.Delete(ctx, "key"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got, _ := cache.Get(ctx, "key"); got != nil {
		t.Fatalf("expected miss after delete, got %v", got)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	cache := New(time.Minute).(*memoryCache)
	current := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return current }

	ctx := context.Background()
	if err := cache.Set(ctx, "key", "value", 10*time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}

	current = current.Add(5 * time.Second)
	if got, _ := cache.Get(ctx, "key"); got != "value" {
		t.Fatalf("expected hit before expiry, got %v", got)
	}

	current = current.Add(10 * time.Second)
	if got, _ := cache.Get(ctx, "key"); got != nil {
		t.Fatalf("expected miss after expiry, got %v", got)
	}
}

func TestMemoryCacheClear(t *testing.T) {
	cache := New(0)
	ctx := context.Background()

	for _, key := range []string{"a", "b"} {
		if err := cache.Set(ctx, key, key, 0); err != nil {
			t.Fatalf("set %s: %v", key, err)
		}
	}
	if err := cache.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got, _ := cache.Get(ctx, "a"); got != nil {
		t.Fatalf("expected empty cache, got %v", got)
	}
}
