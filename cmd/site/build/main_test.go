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

func TestRunBuildRendersSite(t *testing.T) {
	contentDir := filepath.Join(t.TempDir(), "content")
	outputDir := filepath.Join(t.TempDir(), "public")

	writePost(t, contentDir, "posts/hello.md", `---
title: Hello
slug: hello
date: 2024-06-01T10:00:00Z
---

Body text.
`)

	if err := runBuild([]string{
		"-content-dir", contentDir,
		"-output-dir", outputDir,
		"-base-url", "https://blog.example.com",
		"-title", "CLI Blog",
	}); err != nil {
		t.Fatalf("runBuild returned error: %v", err)
	}

	page, err := os.ReadFile(filepath.Join(outputDir, "posts", "hello", "index.html"))
	if err != nil {
		t.Fatalf("read rendered page: %v", err)
	}
	if !strings.Contains(string(page), "Hello") {
		t.Fatalf("expected rendered title, got %q", string(page))
	}
}

func TestRunBuildDryRunWritesNothing(t *testing.T) {
	contentDir := filepath.Join(t.TempDir(), "content")
	outputDir := filepath.Join(t.TempDir(), "public")

	writePost(t, contentDir, "posts/hello.md", `---
title: Hello
slug: hello
date: 2024-06-01T10:00:00Z
---

Body text.
`)

	if err := runBuild([]string{
		"-content-dir", contentDir,
		"-output-dir", outputDir,
		"-base-url", "https://blog.example.com",
		"-dry-run",
	}); err != nil {
		t.Fatalf("runBuild returned error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(outputDir, "posts")); !os.IsNotExist(err) {
		t.Fatalf("expected no output in dry run, got %v", err)
	}
}
