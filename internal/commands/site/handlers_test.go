package sitecmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-blog/internal/generator"
	"github.com/goliatone/go-blog/internal/linkcheck"
	"github.com/goliatone/go-blog/internal/lint"
	"github.com/goliatone/go-blog/internal/site"
	"github.com/goliatone/go-blog/pkg/interfaces"
	goerrors "github.com/goliatone/go-errors"
)

type stubMarkdown struct {
	docs []*interfaces.Document
	err  error
}

func (s *stubMarkdown) Load(context.Context, string, interfaces.LoadOptions) (*interfaces.Document, error) {
	return nil, errors.New("not implemented")
}

func (s *stubMarkdown) LoadDirectory(context.Context, string, interfaces.LoadOptions) ([]*interfaces.Document, error) {
	return s.docs, s.err
}

func (s *stubMarkdown) Render(context.Context, []byte, interfaces.ParseOptions) ([]byte, error) {
	return nil, errors.New("not implemented")
}

func (s *stubMarkdown) RenderDocument(context.Context, *interfaces.Document, interfaces.ParseOptions) ([]byte, error) {
	return nil, errors.New("not implemented")
}

type stubAssembler struct {
	model         *site.Site
	includeDrafts bool
}

func (s *stubAssembler) Assemble(context.Context, []*interfaces.Document) (*site.Site, error) {
	return s.model, nil
}

type stubGenerator struct {
	built   *generator.BuildOptions
	cleaned bool
	err     error
}

func (s *stubGenerator) Build(_ context.Context, _ *site.Site, opts generator.BuildOptions) (*generator.BuildResult, error) {
	s.built = &opts
	if s.err != nil {
		return nil, s.err
	}
	return &generator.BuildResult{PagesBuilt: 1}, nil
}

func (s *stubGenerator) Clean(context.Context) error {
	s.cleaned = true
	return nil
}

type stubLinter struct {
	report *lint.Report
}

func (s *stubLinter) Lint(context.Context, []*interfaces.Document) (*lint.Report, error) {
	return s.report, nil
}

type stubChecker struct {
	report *linkcheck.Report
}

func (s *stubChecker) Check(context.Context, []*interfaces.Document) (*linkcheck.Report, error) {
	return s.report, nil
}

type stubIndexer struct {
	rebuilt bool
}

func (s *stubIndexer) Rebuild(context.Context, *site.Site) error {
	s.rebuilt = true
	return nil
}

func testDeps(gen *stubGenerator) Dependencies {
	assembler := &stubAssembler{model: &site.Site{Title: "Example"}}
	return Dependencies{
		Markdown: &stubMarkdown{},
		NewAssembler: func(includeDrafts, _ bool) Assembler {
			assembler.includeDrafts = includeDrafts
			return assembler
		},
		Generator:      gen,
		Linter:         &stubLinter{report: &lint.Report{}},
		Links:          &stubChecker{report: &linkcheck.Report{}},
		ContentDir:     "content",
		DefaultSection: "posts",
	}
}

func TestBuildSiteHandler(t *testing.T) {
	gen := &stubGenerator{}
	deps := testDeps(gen)
	indexer := &stubIndexer{}
	deps.Indexer = indexer

	handler := NewBuildSiteHandler(deps, nil, FeatureGates{})

	err := handler.Execute(context.Background(), BuildSiteCommand{
		Sections: []string{"posts"},
		Clean:    true,
	})
	if err != nil {
		t.Fatalf("execute build: %v", err)
	}

	if gen.built == nil || len(gen.built.Sections) != 1 {
		t.Fatalf("expected a scoped build, got %+v", gen.built)
	}
	if !gen.cleaned {
		t.Fatal("expected the output to be cleaned first")
	}
	if !indexer.rebuilt {
		t.Fatal("expected the index to be refreshed")
	}
}

func TestBuildSiteHandlerDryRunSkipsIndex(t *testing.T) {
	gen := &stubGenerator{}
	deps := testDeps(gen)
	indexer := &stubIndexer{}
	deps.Indexer = indexer

	handler := NewBuildSiteHandler(deps, nil, FeatureGates{})

	if err := handler.Execute(context.Background(), BuildSiteCommand{DryRun: true, Clean: true}); err != nil {
		t.Fatalf("execute build: %v", err)
	}

	if gen.cleaned {
		t.Fatal("expected dry run to leave the output untouched")
	}
	if indexer.rebuilt {
		t.Fatal("expected dry run to skip the index rebuild")
	}
}

func TestBuildSiteHandlerFeatureGate(t *testing.T) {
	gen := &stubGenerator{}
	handler := NewBuildSiteHandler(testDeps(gen), nil, FeatureGates{
		GeneratorEnabled: func() bool { return false },
	})

	err := handler.Execute(context.Background(), BuildSiteCommand{})
	if err == nil {
		t.Fatal("expected the feature gate to block execution")
	}
	if !errors.Is(err, ErrGeneratorFeatureDisabled) {
		t.Fatalf("expected ErrGeneratorFeatureDisabled, got %v", err)
	}
}

func TestLintSiteHandlerFailsOnErrors(t *testing.T) {
	deps := testDeps(&stubGenerator{})
	deps.Linter = &stubLinter{report: &lint.Report{
		Documents: 1,
		Issues: []lint.Issue{
			{Rule: "title-required", Severity: lint.SeverityError, Path: "posts/bad.md", Message: "front matter is missing a title"},
		},
	}}

	handler := NewLintSiteHandler(deps, nil, FeatureGates{})

	err := handler.Execute(context.Background(), LintSiteCommand{})
	if err == nil {
		t.Fatal("expected lint errors to fail the command")
	}
	if !errors.Is(err, ErrLintFailed) {
		t.Fatalf("expected ErrLintFailed, got %v", err)
	}
}

func TestLintSiteHandlerFailOnWarnings(t *testing.T) {
	deps := testDeps(&stubGenerator{})
	deps.Linter = &stubLinter{report: &lint.Report{
		Documents: 1,
		Issues: []lint.Issue{
			{Rule: "summary-length", Severity: lint.SeverityWarning, Path: "posts/wordy.md", Message: "summary too long"},
		},
	}}

	handler := NewLintSiteHandler(deps, nil, FeatureGates{})

	if err := handler.Execute(context.Background(), LintSiteCommand{}); err != nil {
		t.Fatalf("expected warnings to pass by default, got %v", err)
	}
	if err := handler.Execute(context.Background(), LintSiteCommand{FailOnWarnings: true}); !errors.Is(err, ErrLintFailed) {
		t.Fatalf("expected ErrLintFailed with FailOnWarnings, got %v", err)
	}
}

func TestBuildSiteHandlerValidation(t *testing.T) {
	gen := &stubGenerator{}
	handler := NewBuildSiteHandler(testDeps(gen), nil, FeatureGates{})

	err := handler.Execute(context.Background(), BuildSiteCommand{Sections: []string{"../outside"}})
	if err == nil {
		t.Fatal("expected a validation error for a path-like section")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if gen.built != nil {
		t.Fatal("expected the build to be rejected before rendering")
	}

	if err := handler.Execute(context.Background(), BuildSiteCommand{Sections: []string{"posts"}}); err != nil {
		t.Fatalf("expected a plain section name to pass, got %v", err)
	}
}

func TestCheckLinksHandler(t *testing.T) {
	deps := testDeps(&stubGenerator{})

	handler := NewCheckLinksHandler(deps, nil, FeatureGates{})
	if err := handler.Execute(context.Background(), CheckLinksCommand{}); err != nil {
		t.Fatalf("expected a clean report to pass, got %v", err)
	}

	deps.Links = &stubChecker{report: &linkcheck.Report{
		Links: 2,
		Broken: []linkcheck.BrokenLink{
			{SourcePath: "posts/first.md", Destination: "/posts/missing/", Reason: "no page"},
		},
	}}
	handler = NewCheckLinksHandler(deps, nil, FeatureGates{})
	if err := handler.Execute(context.Background(), CheckLinksCommand{}); !errors.Is(err, ErrBrokenLinks) {
		t.Fatalf("expected ErrBrokenLinks, got %v", err)
	}
}

type togglingChecker struct {
	stubChecker
	external bool
}

func (s *togglingChecker) WithExternal(include bool) *linkcheck.Checker {
	s.external = include
	return linkcheck.New(linkcheck.Config{IncludeExternal: include})
}

func TestCheckLinksHandlerIncludesExternal(t *testing.T) {
	deps := testDeps(&stubGenerator{})
	checker := &togglingChecker{stubChecker: stubChecker{report: &linkcheck.Report{}}}
	deps.Links = checker

	handler := NewCheckLinksHandler(deps, nil, FeatureGates{})

	if err := handler.Execute(context.Background(), CheckLinksCommand{}); err != nil {
		t.Fatalf("execute check links: %v", err)
	}
	if checker.external {
		t.Fatal("expected external collection to stay off by default")
	}

	if err := handler.Execute(context.Background(), CheckLinksCommand{IncludeExternal: true}); err != nil {
		t.Fatalf("execute check links: %v", err)
	}
	if !checker.external {
		t.Fatal("expected the command flag to enable external collection")
	}
}

func TestNewPostHandlerScaffold(t *testing.T) {
	deps := testDeps(&stubGenerator{})
	deps.ContentDir = t.TempDir()
	deps.Now = func() time.Time {
		return time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)
	}

	handler := NewNewPostHandler(deps, nil)

	err := handler.Execute(context.Background(), NewPostCommand{
		Title: "My Great Post",
		Tags:  []string{"go"},
		Draft: true,
	})
	if err != nil {
		t.Fatalf("execute new post: %v", err)
	}

	target := filepath.Join(deps.ContentDir, "posts", "my-great-post.md")
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read scaffold: %v", err)
	}
	content := string(data)
	for _, want := range []string{
		`title: "My Great Post"`,
		"slug: my-great-post",
		"date: 2024-06-01T10:00:00Z",
		"- go",
		"draft: true",
	} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in scaffold, got:\n%s", want, content)
		}
	}

	// Re-running must not overwrite the file.
	err = handler.Execute(context.Background(), NewPostCommand{Title: "My Great Post"})
	if !errors.Is(err, ErrPostExists) {
		t.Fatalf("expected ErrPostExists, got %v", err)
	}
}

func TestNewPostHandlerValidation(t *testing.T) {
	deps := testDeps(&stubGenerator{})
	deps.ContentDir = t.TempDir()

	handler := NewNewPostHandler(deps, nil)

	err := handler.Execute(context.Background(), NewPostCommand{})
	if err == nil {
		t.Fatal("expected a validation error for a missing title")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestRegisterSiteCommands(t *testing.T) {
	registry := &recordingRegistry{}

	set, err := RegisterSiteCommands(registry, testDeps(&stubGenerator{}), nil, FeatureGates{})
	if err != nil {
		t.Fatalf("register commands: %v", err)
	}

	if set.Build == nil || set.Lint == nil || set.Links == nil || set.NewPost == nil {
		t.Fatalf("expected all handlers to be constructed, got %+v", set)
	}
	if len(registry.handlers) != 4 {
		t.Fatalf("expected 4 registrations, got %d", len(registry.handlers))
	}
}

func TestRegisterSiteCommandsRequiresServices(t *testing.T) {
	deps := testDeps(&stubGenerator{})
	deps.Markdown = nil

	if _, err := RegisterSiteCommands(nil, deps, nil, FeatureGates{}); err == nil {
		t.Fatal("expected an error for missing markdown service")
	}
}

type recordingRegistry struct {
	handlers []any
}

func (r *recordingRegistry) RegisterCommand(handler any) error {
	r.handlers = append(r.handlers, handler)
	return nil
}
