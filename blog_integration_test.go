package blog_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	blog "github.com/goliatone/go-blog"
	sitecmd "github.com/goliatone/go-blog/internal/commands/site"
	"github.com/goliatone/go-blog/internal/di"
	"github.com/goliatone/go-blog/internal/index"
	"github.com/goliatone/go-blog/pkg/testsupport"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

func integrationContent() fstest.MapFS {
	return fstest.MapFS{
		"posts/hello-world.md": &fstest.MapFile{
			Data: []byte(`---
title: Hello World
slug: hello-world
date: 2024-06-01T10:00:00Z
tags:
  - go
aliases:
  - /old/hello/
---

Welcome. {{% notice info %}}Read the [next post](/posts/second-post/).{{% /notice %}}
`),
			ModTime: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
		},
		"posts/second-post.md": &fstest.MapFile{
			Data: []byte(`---
title: Second Post
slug: second-post
date: 2024-06-02T10:00:00Z
tags:
  - go
---

A diagram:

{{< mermaid >}}
graph TD; A-->B;
{{< /mermaid >}}
`),
			ModTime: time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC),
		},
	}
}

func TestModule_BuildPipelineWithBunIndex(t *testing.T) {
	ctx := context.Background()
	outputDir := filepath.Join(t.TempDir(), "public")

	sqlDB, err := testsupport.NewSQLiteMemoryDB()
	if err != nil {
		t.Fatalf("new sqlite db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	bunDB := bun.NewDB(sqlDB, sqlitedialect.New())
	bunDB.SetMaxOpenConns(1)
	registerIndexModels(t, bunDB)

	cfg := blog.DefaultConfig()
	cfg.Site.Title = "Integration Blog"
	cfg.Site.BaseURL = "https://blog.example.com"
	cfg.Generator.Enabled = true
	cfg.Generator.OutputDir = outputDir
	cfg.Features.Index = true
	cfg.Commands.Enabled = true
	cfg.Cache.DefaultTTL = 50 * time.Millisecond

	module, err := blog.New(cfg,
		di.WithBunDB(bunDB),
		di.WithContentFS(integrationContent()),
	)
	if err != nil {
		t.Fatalf("new module: %v", err)
	}

	handlers := module.Commands()
	if handlers == nil {
		t.Fatal("expected command handler set")
	}

	if err := handlers.Build.Execute(ctx, sitecmd.BuildSiteCommand{}); err != nil {
		t.Fatalf("build: %v", err)
	}

	page, err := os.ReadFile(filepath.Join(outputDir, "posts", "hello-world", "index.html"))
	if err != nil {
		t.Fatalf("read rendered page: %v", err)
	}
	if !strings.Contains(string(page), "Hello World") {
		t.Fatalf("expected rendered title, got %q", string(page))
	}
	if !strings.Contains(string(page), "notice") {
		t.Fatalf("expected notice shortcode output, got %q", string(page))
	}

	mermaid, err := os.ReadFile(filepath.Join(outputDir, "posts", "second-post", "index.html"))
	if err != nil {
		t.Fatalf("read second page: %v", err)
	}
	if !strings.Contains(string(mermaid), "mermaid") {
		t.Fatalf("expected mermaid shortcode output, got %q", string(mermaid))
	}

	alias, err := os.ReadFile(filepath.Join(outputDir, "old", "hello", "index.html"))
	if err != nil {
		t.Fatalf("read alias redirect: %v", err)
	}
	if !strings.Contains(string(alias), "/posts/hello-world/") {
		t.Fatalf("expected redirect target, got %q", string(alias))
	}

	// The successful build refreshed the bun-backed index.
	stored, err := module.Index().PostBySlug(ctx, "hello-world")
	if err != nil {
		t.Fatalf("index lookup: %v", err)
	}
	if stored.Title != "Hello World" || stored.Section != "posts" {
		t.Fatalf("unexpected indexed post: %+v", stored)
	}

	if err := handlers.Lint.Execute(ctx, sitecmd.LintSiteCommand{}); err != nil {
		t.Fatalf("lint: %v", err)
	}
	if err := handlers.Links.Execute(ctx, sitecmd.CheckLinksCommand{}); err != nil {
		t.Fatalf("links: %v", err)
	}
}

func TestModule_NewPostScaffold(t *testing.T) {
	ctx := context.Background()
	contentDir := filepath.Join(t.TempDir(), "content")
	if err := os.MkdirAll(filepath.Join(contentDir, "posts"), 0o755); err != nil {
		t.Fatalf("mkdir content: %v", err)
	}

	cfg := blog.DefaultConfig()
	cfg.Content.Dir = contentDir
	cfg.Commands.Enabled = true

	module, err := blog.New(cfg)
	if err != nil {
		t.Fatalf("new module: %v", err)
	}

	err = module.Commands().NewPost.Execute(ctx, sitecmd.NewPostCommand{
		Title: "A Fresh Start",
		Tags:  []string{"meta"},
		Draft: true,
	})
	if err != nil {
		t.Fatalf("new post: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(contentDir, "posts", "a-fresh-start.md"))
	if err != nil {
		t.Fatalf("read scaffold: %v", err)
	}
	content := string(raw)
	if !strings.Contains(content, `title: "A Fresh Start"`) {
		t.Fatalf("expected title in front matter, got %q", content)
	}
	if !strings.Contains(content, "draft: true") {
		t.Fatalf("expected draft flag, got %q", content)
	}
}

func registerIndexModels(t *testing.T, db *bun.DB) {
	t.Helper()
	if err := index.EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("ensure index schema: %v", err)
	}
}
