package blog

import (
	sitecmd "github.com/goliatone/go-blog/internal/commands/site"
	"github.com/goliatone/go-blog/internal/di"
	"github.com/goliatone/go-blog/internal/generator"
	"github.com/goliatone/go-blog/internal/index"
	"github.com/goliatone/go-blog/internal/linkcheck"
	"github.com/goliatone/go-blog/internal/lint"
	"github.com/goliatone/go-blog/internal/site"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// MarkdownService exports the Markdown workflow contract for consumers of the blog package.
type MarkdownService = interfaces.MarkdownService

// ShortcodeService exports the shortcode expansion contract.
type ShortcodeService = interfaces.ShortcodeService

// TemplateRenderer exports the theme rendering contract.
type TemplateRenderer = interfaces.TemplateRenderer

// GeneratorService exports the static site generator contract.
type GeneratorService = generator.Service

// IndexService exports the queryable post index.
type IndexService = *index.Service

// Linter exports the content lint service.
type Linter = *lint.Linter

// LinkChecker exports the internal link checker.
type LinkChecker = *linkcheck.Checker

// SiteCommands exports the command handler set.
type SiteCommands = *sitecmd.HandlerSet

// Module represents the top level blog runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a blog module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Markdown returns the configured Markdown service.
func (m *Module) Markdown() MarkdownService {
	return m.container.MarkdownService()
}

// Shortcodes returns the configured shortcode service.
func (m *Module) Shortcodes() ShortcodeService {
	return m.container.ShortcodeService()
}

// Renderer returns the configured theme renderer.
func (m *Module) Renderer() TemplateRenderer {
	return m.container.TemplateRenderer()
}

// Generator returns the static site generator.
func (m *Module) Generator() GeneratorService {
	return m.container.GeneratorService()
}

// Index returns the post index service; nil when the index feature is disabled.
func (m *Module) Index() IndexService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.IndexService()
}

// Lint returns the content linter.
func (m *Module) Lint() Linter {
	return m.container.Linter()
}

// Links returns the internal link checker.
func (m *Module) Links() LinkChecker {
	return m.container.LinkChecker()
}

// Assembler builds a site assembly service honouring per-call draft and
// future-dated overrides.
func (m *Module) Assembler(includeDrafts, includeFuture bool) *site.Service {
	return m.container.Assembler(includeDrafts, includeFuture)
}

// Commands returns the command handler set; nil when commands are disabled.
func (m *Module) Commands() SiteCommands {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.SiteCommands()
}
