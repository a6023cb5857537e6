package sitecmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-blog/internal/commands"
	"github.com/goliatone/go-blog/internal/generator"
	"github.com/goliatone/go-blog/internal/linkcheck"
	"github.com/goliatone/go-blog/internal/lint"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/site"
	"github.com/goliatone/go-blog/pkg/interfaces"
	"github.com/goliatone/go-blog/posts"
	command "github.com/goliatone/go-command"
)

const (
	buildOperation      = "site.build"
	lintOperation       = "site.lint"
	checkLinksOperation = "site.check_links"
	newPostOperation    = "site.new_post"
)

var (
	// ErrGeneratorFeatureDisabled is returned when the generator feature flag is off.
	ErrGeneratorFeatureDisabled = errors.New("site command: generator disabled")
	// ErrLintFeatureDisabled is returned when the lint feature flag is off.
	ErrLintFeatureDisabled = errors.New("site command: lint disabled")
	// ErrLinksFeatureDisabled is returned when the link check feature flag is off.
	ErrLinksFeatureDisabled = errors.New("site command: link check disabled")
	// ErrLintFailed is returned when a lint run finds blocking issues.
	ErrLintFailed = errors.New("site command: lint found errors")
	// ErrBrokenLinks is returned when a link check finds unresolved links.
	ErrBrokenLinks = errors.New("site command: broken internal links")
	// ErrPostExists is returned when a new post would overwrite an existing file.
	ErrPostExists = errors.New("site command: post already exists")
)

var (
	_ command.Commander[BuildSiteCommand]  = (*BuildSiteHandler)(nil)
	_ command.Commander[LintSiteCommand]   = (*LintSiteHandler)(nil)
	_ command.Commander[CheckLinksCommand] = (*CheckLinksHandler)(nil)
	_ command.Commander[NewPostCommand]    = (*NewPostHandler)(nil)
)

// Assembler turns loaded documents into the site model.
type Assembler interface {
	Assemble(ctx context.Context, docs []*interfaces.Document) (*site.Site, error)
}

// AssemblerFactory builds an assembler honouring per-command draft and
// scheduling overrides.
type AssemblerFactory func(includeDrafts, includeFuture bool) Assembler

// Linter checks documents against the content contract.
type Linter interface {
	Lint(ctx context.Context, docs []*interfaces.Document) (*lint.Report, error)
}

// LinkChecker resolves internal Markdown links.
type LinkChecker interface {
	Check(ctx context.Context, docs []*interfaces.Document) (*linkcheck.Report, error)
}

// Indexer persists the assembled site into the query index.
type Indexer interface {
	Rebuild(ctx context.Context, model *site.Site) error
}

// Dependencies lists the collaborators site command handlers draw on.
type Dependencies struct {
	Markdown     interfaces.MarkdownService
	NewAssembler AssemblerFactory
	Generator    generator.Service
	Linter       Linter
	Links        LinkChecker
	// Indexer is optional; when set, successful builds refresh the index.
	Indexer Indexer
	// ContentDir is the root of the Markdown tree.
	ContentDir string
	// DefaultSection receives new posts when the command names none.
	DefaultSection string
	// Now stamps new post front matter; defaults to time.Now.
	Now func() time.Time
}

// BuildSiteHandler orchestrates load, assemble, and render for a full build.
type BuildSiteHandler struct {
	inner *commands.Handler[BuildSiteCommand]
}

// NewBuildSiteHandler creates a handler bound to the supplied services.
func NewBuildSiteHandler(deps Dependencies, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[BuildSiteCommand]) *BuildSiteHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg BuildSiteCommand) error {
		if !gates.generatorEnabled() {
			return ErrGeneratorFeatureDisabled
		}

		docs, err := deps.Markdown.LoadDirectory(ctx, deps.ContentDir, interfaces.LoadOptions{})
		if err != nil {
			return err
		}

		model, err := deps.NewAssembler(msg.IncludeDrafts, msg.IncludeFuture).Assemble(ctx, docs)
		if err != nil {
			return err
		}

		if msg.Clean && !msg.DryRun {
			if err := deps.Generator.Clean(ctx); err != nil {
				return err
			}
		}

		result, err := deps.Generator.Build(ctx, model, generator.BuildOptions{
			Sections: msg.Sections,
			DryRun:   msg.DryRun,
		})
		if err != nil {
			return err
		}

		if deps.Indexer != nil && !msg.DryRun {
			if err := deps.Indexer.Rebuild(ctx, model); err != nil {
				return err
			}
		}

		logging.WithFields(baseLogger, map[string]any{
			"pages_built":   result.PagesBuilt,
			"pages_skipped": result.PagesSkipped,
			"feeds_built":   result.FeedsBuilt,
			"dry_run":       msg.DryRun,
		}).Info("site.command.build.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[BuildSiteCommand]{
		commands.WithLogger[BuildSiteCommand](baseLogger),
		commands.WithOperation[BuildSiteCommand](buildOperation),
		commands.WithMessageFields(func(msg BuildSiteCommand) map[string]any {
			fields := map[string]any{}
			if len(msg.Sections) > 0 {
				fields["sections"] = strings.Join(msg.Sections, ",")
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			if msg.Clean {
				fields["clean"] = true
			}
			if msg.IncludeDrafts {
				fields["include_drafts"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[BuildSiteCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &BuildSiteHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[BuildSiteCommand].
func (h *BuildSiteHandler) Execute(ctx context.Context, msg BuildSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}

// LintSiteHandler runs the content lint rules over the content directory.
type LintSiteHandler struct {
	inner *commands.Handler[LintSiteCommand]
}

// NewLintSiteHandler creates a handler bound to the supplied linter.
func NewLintSiteHandler(deps Dependencies, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[LintSiteCommand]) *LintSiteHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg LintSiteCommand) error {
		if !gates.lintEnabled() {
			return ErrLintFeatureDisabled
		}

		docs, err := deps.Markdown.LoadDirectory(ctx, deps.ContentDir, interfaces.LoadOptions{})
		if err != nil {
			return err
		}

		report, err := deps.Linter.Lint(ctx, docs)
		if err != nil {
			return err
		}

		for _, issue := range report.Issues {
			entry := logging.WithFields(baseLogger, map[string]any{
				"rule": issue.Rule,
				"path": issue.Path,
			})
			if issue.Severity == lint.SeverityError {
				entry.Error("site.command.lint.issue", "message", issue.Message)
			} else {
				entry.Warn("site.command.lint.issue", "message", issue.Message)
			}
		}

		if report.HasErrors() {
			return fmt.Errorf("%w: %d errors in %d documents", ErrLintFailed, report.Errors(), report.Documents)
		}
		if msg.FailOnWarnings && report.Warnings() > 0 {
			return fmt.Errorf("%w: %d warnings in %d documents", ErrLintFailed, report.Warnings(), report.Documents)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[LintSiteCommand]{
		commands.WithLogger[LintSiteCommand](baseLogger),
		commands.WithOperation[LintSiteCommand](lintOperation),
		commands.WithTelemetry(commands.DefaultTelemetry[LintSiteCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &LintSiteHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[LintSiteCommand].
func (h *LintSiteHandler) Execute(ctx context.Context, msg LintSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}

// CheckLinksHandler verifies internal links across the content directory.
type CheckLinksHandler struct {
	inner *commands.Handler[CheckLinksCommand]
}

// NewCheckLinksHandler creates a handler bound to the supplied link checker.
func NewCheckLinksHandler(deps Dependencies, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[CheckLinksCommand]) *CheckLinksHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg CheckLinksCommand) error {
		if !gates.linksEnabled() {
			return ErrLinksFeatureDisabled
		}

		docs, err := deps.Markdown.LoadDirectory(ctx, deps.ContentDir, interfaces.LoadOptions{})
		if err != nil {
			return err
		}

		checker := deps.Links
		if msg.IncludeExternal {
			if toggler, ok := checker.(interface {
				WithExternal(bool) *linkcheck.Checker
			}); ok {
				checker = toggler.WithExternal(true)
			}
		}

		report, err := checker.Check(ctx, docs)
		if err != nil {
			return err
		}

		if msg.IncludeExternal && len(report.External) > 0 {
			logging.WithFields(baseLogger, map[string]any{
				"external": len(report.External),
			}).Info("site.command.links.external")
		}

		for _, broken := range report.Broken {
			logging.WithFields(baseLogger, map[string]any{
				"source":      broken.SourcePath,
				"destination": broken.Destination,
			}).Error("site.command.links.broken", "reason", broken.Reason)
		}

		if report.HasBroken() {
			return fmt.Errorf("%w: %d of %d links", ErrBrokenLinks, len(report.Broken), report.Links)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[CheckLinksCommand]{
		commands.WithLogger[CheckLinksCommand](baseLogger),
		commands.WithOperation[CheckLinksCommand](checkLinksOperation),
		commands.WithTelemetry(commands.DefaultTelemetry[CheckLinksCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CheckLinksHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[CheckLinksCommand].
func (h *CheckLinksHandler) Execute(ctx context.Context, msg CheckLinksCommand) error {
	return h.inner.Execute(ctx, msg)
}

// NewPostHandler scaffolds Markdown files with front matter.
type NewPostHandler struct {
	inner *commands.Handler[NewPostCommand]
}

// NewNewPostHandler creates a handler writing into the content directory.
func NewNewPostHandler(deps Dependencies, logger interfaces.Logger, opts ...commands.HandlerOption[NewPostCommand]) *NewPostHandler {
	baseLogger := commands.EnsureLogger(logger)
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	exec := func(ctx context.Context, msg NewPostCommand) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		section := strings.TrimSpace(msg.Section)
		if section == "" {
			section = deps.DefaultSection
		}
		slug := strings.TrimSpace(msg.Slug)
		if slug == "" {
			normalized, err := posts.NormalizeSlug(msg.Title)
			if err != nil {
				return fmt.Errorf("%w: %v", posts.ErrSlugInvalid, err)
			}
			slug = normalized
		}
		if !posts.IsValidSlug(slug) {
			return posts.ErrSlugInvalid
		}

		target := filepath.Join(deps.ContentDir, section, slug+".md")
		if _, err := os.Stat(target); err == nil {
			return fmt.Errorf("%w: %s", ErrPostExists, target)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}

		content := scaffoldPost(msg, slug, now())
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
			return err
		}

		logging.WithFields(baseLogger, map[string]any{
			"path":    target,
			"section": section,
			"slug":    slug,
		}).Info("site.command.new_post.created")
		return nil
	}

	handlerOpts := []commands.HandlerOption[NewPostCommand]{
		commands.WithLogger[NewPostCommand](baseLogger),
		commands.WithOperation[NewPostCommand](newPostOperation),
		commands.WithMessageFields(func(msg NewPostCommand) map[string]any {
			fields := map[string]any{"title": msg.Title}
			if msg.Section != "" {
				fields["section"] = msg.Section
			}
			if msg.Draft {
				fields["draft"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[NewPostCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &NewPostHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[NewPostCommand].
func (h *NewPostHandler) Execute(ctx context.Context, msg NewPostCommand) error {
	return h.inner.Execute(ctx, msg)
}

func scaffoldPost(msg NewPostCommand, slug string, now time.Time) string {
	var builder strings.Builder
	builder.WriteString("---\n")
	builder.WriteString(fmt.Sprintf("title: %q\n", msg.Title))
	builder.WriteString(fmt.Sprintf("slug: %s\n", slug))
	builder.WriteString(fmt.Sprintf("date: %s\n", now.UTC().Format(time.RFC3339)))
	if len(msg.Tags) > 0 {
		builder.WriteString("tags:\n")
		for _, tag := range msg.Tags {
			builder.WriteString(fmt.Sprintf("  - %s\n", tag))
		}
	}
	if msg.Draft {
		builder.WriteString("draft: true\n")
	}
	builder.WriteString("---\n\n")
	return builder.String()
}
