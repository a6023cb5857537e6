package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunNewPostScaffoldsFile(t *testing.T) {
	contentDir := filepath.Join(t.TempDir(), "content")
	if err := os.MkdirAll(contentDir, 0o755); err != nil {
		t.Fatalf("mkdir content: %v", err)
	}

	if err := runNewPost([]string{
		"-content-dir", contentDir,
		"-title", "My First Post",
		"-tags", "go, blogging",
	}); err != nil {
		t.Fatalf("runNewPost returned error: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(contentDir, "posts", "my-first-post.md"))
	if err != nil {
		t.Fatalf("read scaffold: %v", err)
	}
	content := string(raw)
	if !strings.Contains(content, `title: "My First Post"`) {
		t.Fatalf("expected title in front matter, got %q", content)
	}
	if !strings.Contains(content, "- go") || !strings.Contains(content, "- blogging") {
		t.Fatalf("expected tags in front matter, got %q", content)
	}
	if !strings.Contains(content, "draft: true") {
		t.Fatalf("expected draft flag, got %q", content)
	}
}

func TestRunNewPostRequiresTitle(t *testing.T) {
	contentDir := filepath.Join(t.TempDir(), "content")
	if err := os.MkdirAll(contentDir, 0o755); err != nil {
		t.Fatalf("mkdir content: %v", err)
	}

	if err := runNewPost([]string{"-content-dir", contentDir}); err == nil {
		t.Fatal("expected validation error for missing title")
	}
}
