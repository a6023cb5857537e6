package linkcheck

import (
	"context"
	"testing"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

func makeDoc(path, section, slug string, body string) *interfaces.Document {
	return &interfaces.Document{
		FilePath: path,
		Section:  section,
		FrontMatter: interfaces.FrontMatter{
			Title: "Post " + slug,
			Slug:  slug,
		},
		Body: []byte(body),
	}
}

func TestExtractLinks(t *testing.T) {
	body := []byte(`Read [the sequel](/posts/sequel/) or see ![diagram](/images/flow.png).

Also <https://example.com/docs>.`)

	links, err := extractLinks(body)
	if err != nil {
		t.Fatalf("extract links: %v", err)
	}

	if len(links) != 3 {
		t.Fatalf("expected 3 links, got %d: %v", len(links), links)
	}
	if links[0].Destination != "/posts/sequel/" || links[0].Image {
		t.Fatalf("unexpected first link: %+v", links[0])
	}
	if links[1].Destination != "/images/flow.png" || !links[1].Image {
		t.Fatalf("unexpected image link: %+v", links[1])
	}
	if links[2].Destination != "https://example.com/docs" {
		t.Fatalf("unexpected autolink: %+v", links[2])
	}
}

func TestCheckerResolvesPermalinks(t *testing.T) {
	docs := []*interfaces.Document{
		makeDoc("posts/first.md", "posts", "first", `Jump to [the second post](/posts/second/).`),
		makeDoc("posts/second.md", "posts", "second", `Back to [the first](/posts/first/).`),
	}

	report, err := New(Config{}).Check(context.Background(), docs)
	if err != nil {
		t.Fatalf("check links: %v", err)
	}

	if report.HasBroken() {
		t.Fatalf("expected no broken links, got %v", report.Broken)
	}
	if report.Links != 2 {
		t.Fatalf("expected 2 links, got %d", report.Links)
	}
}

func TestCheckerFlagsBrokenPermalink(t *testing.T) {
	docs := []*interfaces.Document{
		makeDoc("posts/first.md", "posts", "first", `See [a ghost](/posts/missing/).`),
	}

	report, err := New(Config{}).Check(context.Background(), docs)
	if err != nil {
		t.Fatalf("check links: %v", err)
	}

	if len(report.Broken) != 1 {
		t.Fatalf("expected 1 broken link, got %v", report.Broken)
	}
	if report.Broken[0].Destination != "/posts/missing/" {
		t.Fatalf("unexpected broken destination: %+v", report.Broken[0])
	}
	if report.Broken[0].SourcePath != "posts/first.md" {
		t.Fatalf("unexpected source path: %+v", report.Broken[0])
	}
}

func TestCheckerResolvesAliases(t *testing.T) {
	docs := []*interfaces.Document{
		makeDoc("posts/renamed.md", "posts", "renamed", ``),
		makeDoc("posts/pointer.md", "posts", "pointer", `The [old address](/posts/previous-name/) still works.`),
	}
	docs[0].FrontMatter.Aliases = []string{"/posts/previous-name/"}

	report, err := New(Config{}).Check(context.Background(), docs)
	if err != nil {
		t.Fatalf("check links: %v", err)
	}

	if report.HasBroken() {
		t.Fatalf("expected alias to resolve, got %v", report.Broken)
	}
}

func TestCheckerDerivesSlugFromFilename(t *testing.T) {
	docs := []*interfaces.Document{
		makeDoc("posts/first.md", "posts", "first", `See the [follow up](/posts/second-look/).`),
		makeDoc("posts/Second Look.md", "posts", "", ``),
	}

	report, err := New(Config{}).Check(context.Background(), docs)
	if err != nil {
		t.Fatalf("check links: %v", err)
	}

	if report.HasBroken() {
		t.Fatalf("expected filename-derived slug to resolve, got %v", report.Broken)
	}
}

func TestCheckerResolvesRelativeFiles(t *testing.T) {
	docs := []*interfaces.Document{
		makeDoc("posts/first.md", "posts", "first", `Continue in [part two](second.md) or [notes](../notes/reading.md). Missing: [gone](lost.md).`),
		makeDoc("posts/second.md", "posts", "second", ``),
		makeDoc("notes/reading.md", "notes", "reading", ``),
	}

	report, err := New(Config{}).Check(context.Background(), docs)
	if err != nil {
		t.Fatalf("check links: %v", err)
	}

	if len(report.Broken) != 1 {
		t.Fatalf("expected 1 broken link, got %v", report.Broken)
	}
	if report.Broken[0].Destination != "lost.md" {
		t.Fatalf("unexpected broken destination: %+v", report.Broken[0])
	}
}

func TestCheckerExternalLinks(t *testing.T) {
	docs := []*interfaces.Document{
		makeDoc("posts/first.md", "posts", "first",
			`Visit [the docs](https://example.com/docs) or write to [us](mailto:team@example.com). Skip [here](#local).`),
	}

	report, err := New(Config{IncludeExternal: true}).Check(context.Background(), docs)
	if err != nil {
		t.Fatalf("check links: %v", err)
	}

	if report.HasBroken() {
		t.Fatalf("expected no broken links, got %v", report.Broken)
	}
	if len(report.External) != 1 || report.External[0] != "https://example.com/docs" {
		t.Fatalf("unexpected external inventory: %v", report.External)
	}

	report, err = New(Config{}).Check(context.Background(), docs)
	if err != nil {
		t.Fatalf("check links: %v", err)
	}
	if len(report.External) != 0 {
		t.Fatalf("expected externals to be skipped, got %v", report.External)
	}
}

func TestCheckerWithExternalOverride(t *testing.T) {
	docs := []*interfaces.Document{
		makeDoc("posts/first.md", "posts", "first", `Visit [the docs](https://example.com/docs).`),
	}

	base := New(Config{})

	report, err := base.WithExternal(true).Check(context.Background(), docs)
	if err != nil {
		t.Fatalf("check links: %v", err)
	}
	if len(report.External) != 1 {
		t.Fatalf("expected the override to collect externals, got %v", report.External)
	}

	report, err = base.Check(context.Background(), docs)
	if err != nil {
		t.Fatalf("check links: %v", err)
	}
	if len(report.External) != 0 {
		t.Fatalf("expected the base checker to stay unchanged, got %v", report.External)
	}
}

func TestCheckerIgnorePatterns(t *testing.T) {
	docs := []*interfaces.Document{
		makeDoc("posts/first.md", "posts", "first", `Tooling link: [api](/api/v1/posts/).`),
	}

	report, err := New(Config{IgnorePatterns: []string{"/api/"}}).Check(context.Background(), docs)
	if err != nil {
		t.Fatalf("check links: %v", err)
	}

	if report.HasBroken() {
		t.Fatalf("expected ignored destination, got %v", report.Broken)
	}
}

func TestCheckerFragmentAndQueryStripped(t *testing.T) {
	docs := []*interfaces.Document{
		makeDoc("posts/first.md", "posts", "first", `See [the section](/posts/second/#details).`),
		makeDoc("posts/second.md", "posts", "second", ``),
	}

	report, err := New(Config{}).Check(context.Background(), docs)
	if err != nil {
		t.Fatalf("check links: %v", err)
	}

	if report.HasBroken() {
		t.Fatalf("expected fragment link to resolve, got %v", report.Broken)
	}
}
