package theme

import (
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-blog/posts"
)

type siteMeta struct {
	Title       string
	BaseURL     string
	Description string
	Language    string
}

func samplePost() *posts.Post {
	summary := "A short introduction."
	author := "Sam Writer"
	return &posts.Post{
		Title:       "Hello World",
		Slug:        "hello-world",
		Section:     "posts",
		Summary:     &summary,
		Author:      &author,
		Date:        time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC),
		Tags:        []string{"go", "blogging"},
		ReadingTime: 3,
		BodyHTML:    "<p>Welcome to the <strong>blog</strong>.</p>",
	}
}

func newTestRenderer(t *testing.T, cfg Config) *Renderer {
	t.Helper()

	renderer, err := NewRenderer(cfg)
	if err != nil {
		t.Fatalf("create renderer: %v", err)
	}
	return renderer
}

func TestRendererPostTemplate(t *testing.T) {
	renderer := newTestRenderer(t, Config{BaseURL: "https://blog.example.com"})

	data := map[string]any{
		"Site": siteMeta{Title: "Example Blog", BaseURL: "https://blog.example.com", Language: "en"},
		"Post": samplePost(),
	}

	html, err := renderer.RenderTemplate(TemplatePost, data)
	if err != nil {
		t.Fatalf("render post template: %v", err)
	}

	if !strings.Contains(html, "<h1>Hello World</h1>") {
		t.Fatalf("expected the post title, got %s", html)
	}
	if !strings.Contains(html, "<p>Welcome to the <strong>blog</strong>.</p>") {
		t.Fatal("expected the body HTML to pass through unescaped")
	}
	if !strings.Contains(html, `href="https://blog.example.com/posts/hello-world/"`) {
		t.Fatal("expected the canonical URL to be absolute")
	}
	if !strings.Contains(html, `href="/tags/go/"`) {
		t.Fatal("expected a tag link")
	}
	if !strings.Contains(html, "3 min read") {
		t.Fatal("expected the reading time")
	}
}

func TestRendererUnknownTemplate(t *testing.T) {
	renderer := newTestRenderer(t, Config{})

	if _, err := renderer.RenderTemplate("missing.html", nil); err == nil {
		t.Fatal("expected an error for an unknown template")
	}
}

func TestRendererOverrides(t *testing.T) {
	overrides := fstest.MapFS{
		"post.html": &fstest.MapFile{
			Data: []byte(`custom: {{ .Post.Title }}`),
		},
	}

	renderer := newTestRenderer(t, Config{Overrides: overrides})

	html, err := renderer.RenderTemplate(TemplatePost, map[string]any{"Post": samplePost()})
	if err != nil {
		t.Fatalf("render overridden template: %v", err)
	}
	if html != "custom: Hello World" {
		t.Fatalf("expected the override to win, got %q", html)
	}

	// Unrelated built-ins stay registered.
	if !renderer.Has(TemplateList) {
		t.Fatal("expected built-in list template to survive overrides")
	}
}

func TestRendererRedirectTemplate(t *testing.T) {
	renderer := newTestRenderer(t, Config{})

	html, err := renderer.RenderTemplate(TemplateRedirect, map[string]any{
		"Target": "/posts/hello-world/",
	})
	if err != nil {
		t.Fatalf("render redirect template: %v", err)
	}
	if !strings.Contains(html, `url=/posts/hello-world/`) {
		t.Fatalf("expected a refresh target, got %s", html)
	}
	if !strings.Contains(html, `rel="canonical"`) {
		t.Fatal("expected a canonical link")
	}
}

func TestRendererRenderString(t *testing.T) {
	renderer := newTestRenderer(t, Config{BaseURL: "https://blog.example.com/"})

	var sink strings.Builder
	out, err := renderer.RenderString(`{{ absURL "/about/" }}`, nil, &sink)
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if out != "https://blog.example.com/about/" {
		t.Fatalf("unexpected output: %q", out)
	}
	if sink.String() != out {
		t.Fatalf("expected writer to receive the output, got %q", sink.String())
	}
}

func TestHelperFuncs(t *testing.T) {
	renderer := newTestRenderer(t, Config{})

	out, err := renderer.RenderString(`{{ termURL "tags" "Go Modules" }}`, nil)
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if out != "/tags/go-modules/" {
		t.Fatalf("unexpected term URL: %q", out)
	}

	out, err = renderer.RenderString(`{{ "posts" | title }}`, nil)
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if out != "Posts" {
		t.Fatalf("unexpected title case: %q", out)
	}
}
