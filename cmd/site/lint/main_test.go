package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePost(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestRunLintPassesOnValidContent(t *testing.T) {
	contentDir := filepath.Join(t.TempDir(), "content")
	writePost(t, contentDir, "posts/valid.md", `---
title: Valid Post
slug: valid-post
date: 2024-06-01T10:00:00Z
---

Body text.
`)

	if err := runLint([]string{"-content-dir", contentDir}); err != nil {
		t.Fatalf("runLint returned error: %v", err)
	}
}

func TestRunLintFailsOnMissingTitle(t *testing.T) {
	contentDir := filepath.Join(t.TempDir(), "content")
	writePost(t, contentDir, "posts/broken.md", `---
slug: broken
date: 2024-06-01T10:00:00Z
---

Body text.
`)

	err := runLint([]string{"-content-dir", contentDir})
	if err == nil {
		t.Fatal("expected lint failure for missing title")
	}
	if !strings.Contains(err.Error(), "lint") {
		t.Fatalf("expected lint error, got %v", err)
	}
}
