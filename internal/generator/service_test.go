package generator

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-blog/internal/site"
	"github.com/goliatone/go-blog/internal/theme"
	"github.com/goliatone/go-blog/posts"
)

func buildInstant() time.Time {
	return time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
}

func makePost(section, slug, title string, date time.Time) *posts.Post {
	return &posts.Post{
		Title:    title,
		Slug:     slug,
		Section:  section,
		Date:     date,
		Lastmod:  date,
		Status:   posts.StatusPublished,
		Path:     section + "/" + slug + ".md",
		Checksum: "sum-" + slug,
		BodyHTML: "<p>" + title + "</p>",
	}
}

func newTestSite() *site.Site {
	hello := makePost("posts", "hello-world", "Hello World", buildInstant())
	hello.Tags = []string{"go"}
	hello.Aliases = []string{"/old/hello/"}

	second := makePost("posts", "second-post", "Second Post", buildInstant().AddDate(0, 0, -3))
	second.Tags = []string{"go"}

	note := makePost("notes", "reading-list", "Reading List", buildInstant().AddDate(0, 0, -1))

	return &site.Site{
		Title:       "Example Blog",
		BaseURL:     "https://blog.example.com",
		Description: "Notes on software.",
		Posts:       []*posts.Post{hello, note, second},
		Sections: map[string][]*posts.Post{
			"posts": {hello, second},
			"notes": {note},
		},
		Taxonomies: map[string][]*posts.Term{
			site.TaxonomyTags: {
				{Taxonomy: site.TaxonomyTags, Name: "go", Slug: "go", Posts: []string{"hello-world", "second-post"}, Count: 2},
			},
		},
		GeneratedAt: buildInstant(),
	}
}

func newTestService(t *testing.T, cfg Config) (*service, *memoryWriter) {
	t.Helper()

	renderer, err := theme.NewRenderer(theme.Config{BaseURL: cfg.BaseURL})
	if err != nil {
		t.Fatalf("create renderer: %v", err)
	}

	svc := NewService(cfg, Dependencies{Renderer: renderer}).(*service)
	writer := newMemoryWriter()
	svc.writer = writer
	svc.now = buildInstant
	return svc, writer
}

func defaultConfig() Config {
	return Config{
		OutputDir:       "public",
		BaseURL:         "https://blog.example.com",
		Language:        "en",
		GenerateSitemap: true,
		GenerateRobots:  true,
		GenerateFeeds:   true,
		Workers:         2,
	}
}

func TestBuildWritesPages(t *testing.T) {
	svc, writer := newTestService(t, defaultConfig())

	result, err := svc.Build(context.Background(), newTestSite(), BuildOptions{})
	if err != nil {
		t.Fatalf("build site: %v", err)
	}

	// 3 posts, home, 2 section lists, 1 term page, 1 alias stub.
	if result.PagesBuilt != 8 {
		t.Fatalf("expected 8 pages, got %d", result.PagesBuilt)
	}

	wantFiles := []string{
		"index.html",
		"posts/index.html",
		"posts/hello-world/index.html",
		"posts/second-post/index.html",
		"notes/reading-list/index.html",
		"tags/go/index.html",
		"old/hello/index.html",
		"sitemap.xml",
		"robots.txt",
		"feed.xml",
		"feed.atom.xml",
		"feeds/posts.rss.xml",
		"feeds/notes.atom.xml",
		manifestFileName,
	}
	for _, name := range wantFiles {
		if _, ok := writer.files[name]; !ok {
			t.Fatalf("expected %s to be written, have %v", name, keys(writer.files))
		}
	}

	postHTML := string(writer.files["posts/hello-world/index.html"])
	if !strings.Contains(postHTML, "<h1>Hello World</h1>") {
		t.Fatalf("expected rendered post content, got %s", postHTML)
	}

	aliasHTML := string(writer.files["old/hello/index.html"])
	if !strings.Contains(aliasHTML, "/posts/hello-world/") {
		t.Fatalf("expected redirect target in alias stub, got %s", aliasHTML)
	}

	sitemap := string(writer.files["sitemap.xml"])
	if !strings.Contains(sitemap, "<loc>https://blog.example.com/posts/hello-world/</loc>") {
		t.Fatalf("expected the post in the sitemap, got %s", sitemap)
	}

	robots := string(writer.files["robots.txt"])
	if !strings.Contains(robots, "Sitemap: https://blog.example.com/sitemap.xml") {
		t.Fatalf("expected a sitemap pointer in robots.txt, got %s", robots)
	}
}

func TestBuildWritesToConfiguredOutputDir(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "public")
	cfg := defaultConfig()
	cfg.OutputDir = outputDir

	renderer, err := theme.NewRenderer(theme.Config{BaseURL: cfg.BaseURL})
	if err != nil {
		t.Fatalf("create renderer: %v", err)
	}
	svc := NewService(cfg, Dependencies{Renderer: renderer})

	if _, err := svc.Build(context.Background(), newTestSite(), BuildOptions{}); err != nil {
		t.Fatalf("build site: %v", err)
	}

	for _, name := range []string{
		"index.html",
		"posts/hello-world/index.html",
		"sitemap.xml",
	} {
		target := filepath.Join(outputDir, filepath.FromSlash(name))
		if _, err := os.Stat(target); err != nil {
			t.Fatalf("expected %s under the output dir: %v", name, err)
		}
	}

	if err := svc.Clean(context.Background()); err != nil {
		t.Fatalf("clean output: %v", err)
	}
	if _, err := os.Stat(outputDir); !os.IsNotExist(err) {
		t.Fatalf("expected clean to remove the output dir, got %v", err)
	}
}

func TestBuildDryRun(t *testing.T) {
	svc, writer := newTestService(t, defaultConfig())

	result, err := svc.Build(context.Background(), newTestSite(), BuildOptions{DryRun: true})
	if err != nil {
		t.Fatalf("build site: %v", err)
	}

	if len(writer.files) != 0 {
		t.Fatalf("expected no writes on dry run, got %v", keys(writer.files))
	}
	if len(result.Rendered) == 0 {
		t.Fatal("expected rendered pages in the result")
	}
	if !result.DryRun {
		t.Fatal("expected the result to be marked as dry run")
	}
}

func TestBuildSectionFilter(t *testing.T) {
	svc, writer := newTestService(t, defaultConfig())

	result, err := svc.Build(context.Background(), newTestSite(), BuildOptions{Sections: []string{"notes"}})
	if err != nil {
		t.Fatalf("build site: %v", err)
	}

	if _, ok := writer.files["notes/reading-list/index.html"]; !ok {
		t.Fatal("expected the notes post to be written")
	}
	if _, ok := writer.files["posts/hello-world/index.html"]; ok {
		t.Fatal("expected the posts section to be skipped")
	}
	if len(result.Sections) != 1 || result.Sections[0] != "notes" {
		t.Fatalf("unexpected sections: %v", result.Sections)
	}
}

func TestBuildIncrementalSkips(t *testing.T) {
	cfg := defaultConfig()
	cfg.Incremental = true
	svc, writer := newTestService(t, cfg)

	model := newTestSite()
	if _, err := svc.Build(context.Background(), model, BuildOptions{}); err != nil {
		t.Fatalf("first build: %v", err)
	}

	result, err := svc.Build(context.Background(), model, BuildOptions{})
	if err != nil {
		t.Fatalf("second build: %v", err)
	}

	if result.PagesSkipped != 3 {
		t.Fatalf("expected the 3 posts to be skipped, got %d skipped", result.PagesSkipped)
	}

	// A changed source invalidates the cache entry.
	model.Posts[0].Checksum = "sum-changed"
	result, err = svc.Build(context.Background(), model, BuildOptions{})
	if err != nil {
		t.Fatalf("third build: %v", err)
	}
	if result.PagesSkipped != 2 {
		t.Fatalf("expected 2 posts skipped after a change, got %d", result.PagesSkipped)
	}

	// Skipped pages stay in the sitemap.
	sitemap := string(writer.files["sitemap.xml"])
	if !strings.Contains(sitemap, "/posts/second-post/") {
		t.Fatalf("expected skipped pages in the sitemap, got %s", sitemap)
	}
}

func TestBuildRequiresRenderer(t *testing.T) {
	svc := NewService(defaultConfig(), Dependencies{}).(*service)
	svc.writer = newMemoryWriter()

	if _, err := svc.Build(context.Background(), newTestSite(), BuildOptions{}); err != errRendererRequired {
		t.Fatalf("expected errRendererRequired, got %v", err)
	}
}

func TestCleanRemovesOutput(t *testing.T) {
	svc, writer := newTestService(t, defaultConfig())

	if _, err := svc.Build(context.Background(), newTestSite(), BuildOptions{}); err != nil {
		t.Fatalf("build site: %v", err)
	}
	if err := svc.Clean(context.Background()); err != nil {
		t.Fatalf("clean output: %v", err)
	}
	if len(writer.files) != 0 {
		t.Fatalf("expected clean to remove everything, got %v", keys(writer.files))
	}
}

func TestDisabledService(t *testing.T) {
	svc := NewDisabledService()

	if _, err := svc.Build(context.Background(), newTestSite(), BuildOptions{}); err != ErrServiceDisabled {
		t.Fatalf("expected ErrServiceDisabled, got %v", err)
	}
	if err := svc.Clean(context.Background()); err != ErrServiceDisabled {
		t.Fatalf("expected ErrServiceDisabled, got %v", err)
	}
}

func TestBuildOutputPath(t *testing.T) {
	cases := map[string]string{
		"/":                    "index.html",
		"":                     "index.html",
		"/posts/hello-world/":  "posts/hello-world/index.html",
		"posts/hello-world":    "posts/hello-world/index.html",
		"  /notes/reading/   ": "notes/reading/index.html",
		"/tags/go-modules/":    "tags/go-modules/index.html",
	}
	for route, want := range cases {
		if got := buildOutputPath(route); got != want {
			t.Fatalf("buildOutputPath(%q) = %q, want %q", route, got, want)
		}
	}
}

func TestManifestRoundTrip(t *testing.T) {
	manifest := newBuildManifest()
	manifest.GeneratedAt = buildInstant()
	manifest.setPage(manifestPage{
		Section:  "posts",
		Slug:     "hello-world",
		Route:    "/posts/hello-world/",
		Output:   "posts/hello-world/index.html",
		Checksum: "sum-hello",
	})
	manifest.setAsset(manifestAsset{
		Source:   "images/logo.png",
		Output:   "images/logo.png",
		Checksum: "sum-logo",
	})

	data, err := manifest.marshal()
	if err != nil {
		t.Fatalf("marshal manifest: %v", err)
	}

	parsed, err := parseManifest(data)
	if err != nil {
		t.Fatalf("parse manifest: %v", err)
	}

	if !parsed.shouldSkipPage("posts", "hello-world", "sum-hello", "posts/hello-world/index.html") {
		t.Fatal("expected an unchanged page to be skippable")
	}
	if parsed.shouldSkipPage("posts", "hello-world", "sum-other", "posts/hello-world/index.html") {
		t.Fatal("expected a changed checksum to force a rebuild")
	}
	if parsed.shouldSkipPage("posts", "hello-world", "sum-hello", "elsewhere/index.html") {
		t.Fatal("expected a moved output to force a rebuild")
	}
	if !parsed.shouldSkipAsset("images/logo.png", "sum-logo", "images/logo.png") {
		t.Fatal("expected an unchanged asset to be skippable")
	}
	if parsed.shouldSkipAsset("images/logo.png", "sum-other", "images/logo.png") {
		t.Fatal("expected a changed asset checksum to force a copy")
	}
}

func TestFeedDocuments(t *testing.T) {
	svc, _ := newTestService(t, defaultConfig())

	docs := svc.buildFeedDocuments(newTestSite())
	// Site-wide feed plus one per section.
	if len(docs) != 3 {
		t.Fatalf("expected 3 feed documents, got %d", len(docs))
	}
	if docs[0].Section != "" || len(docs[0].Items) != 3 {
		t.Fatalf("expected the site feed first with 3 items, got %+v", docs[0])
	}
	if docs[0].Items[0].Title != "Hello World" {
		t.Fatalf("expected newest-first ordering, got %s", docs[0].Items[0].Title)
	}

	rss := buildRSSFeed(newTestSite(), "https://blog.example.com", docs[0], buildInstant())
	if !strings.Contains(rss, "<title>Example Blog</title>") {
		t.Fatalf("expected the site title in the RSS feed, got %s", rss)
	}
	if !strings.Contains(rss, "<link>https://blog.example.com/posts/hello-world/</link>") {
		t.Fatalf("expected absolute item links, got %s", rss)
	}

	atom := buildAtomFeed(newTestSite(), "https://blog.example.com", docs[0], buildInstant())
	if !strings.Contains(atom, `<feed xmlns="http://www.w3.org/2005/Atom">`) {
		t.Fatalf("expected an Atom envelope, got %s", atom)
	}
}

func keys(files map[string][]byte) []string {
	out := make([]string, 0, len(files))
	for name := range files {
		out = append(out, name)
	}
	return out
}
