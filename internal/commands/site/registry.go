package sitecmd

import (
	"errors"

	"github.com/goliatone/go-blog/internal/commands"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring
// command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// HandlerSet groups the site command handlers produced by RegisterSiteCommands.
type HandlerSet struct {
	Build   *BuildSiteHandler
	Lint    *LintSiteHandler
	Links   *CheckLinksHandler
	NewPost *NewPostHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	buildHandlerOpts   []commands.HandlerOption[BuildSiteCommand]
	lintHandlerOpts    []commands.HandlerOption[LintSiteCommand]
	linksHandlerOpts   []commands.HandlerOption[CheckLinksCommand]
	newPostHandlerOpts []commands.HandlerOption[NewPostCommand]
}

// WithBuildHandlerOptions forwards options to the BuildSiteHandler constructor.
func WithBuildHandlerOptions(opts ...commands.HandlerOption[BuildSiteCommand]) Option {
	return func(cfg *options) {
		cfg.buildHandlerOpts = append(cfg.buildHandlerOpts, opts...)
	}
}

// WithLintHandlerOptions forwards options to the LintSiteHandler constructor.
func WithLintHandlerOptions(opts ...commands.HandlerOption[LintSiteCommand]) Option {
	return func(cfg *options) {
		cfg.lintHandlerOpts = append(cfg.lintHandlerOpts, opts...)
	}
}

// WithLinksHandlerOptions forwards options to the CheckLinksHandler constructor.
func WithLinksHandlerOptions(opts ...commands.HandlerOption[CheckLinksCommand]) Option {
	return func(cfg *options) {
		cfg.linksHandlerOpts = append(cfg.linksHandlerOpts, opts...)
	}
}

// WithNewPostHandlerOptions forwards options to the NewPostHandler constructor.
func WithNewPostHandlerOptions(opts ...commands.HandlerOption[NewPostCommand]) Option {
	return func(cfg *options) {
		cfg.newPostHandlerOpts = append(cfg.newPostHandlerOpts, opts...)
	}
}

// RegisterSiteCommands builds the site command handlers and registers them with
// the provided registry. The constructed HandlerSet is returned so callers can
// wire additional integrations as needed.
func RegisterSiteCommands(reg CommandRegistry, deps Dependencies, provider interfaces.LoggerProvider, gates FeatureGates, opts ...Option) (*HandlerSet, error) {
	if deps.Markdown == nil {
		return nil, errors.New("site command registration: markdown service is nil")
	}
	if deps.NewAssembler == nil {
		return nil, errors.New("site command registration: assembler factory is nil")
	}
	if deps.Generator == nil {
		return nil, errors.New("site command registration: generator is nil")
	}
	if deps.Linter == nil {
		return nil, errors.New("site command registration: linter is nil")
	}
	if deps.Links == nil {
		return nil, errors.New("site command registration: link checker is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "site")

	set := &HandlerSet{
		Build:   NewBuildSiteHandler(deps, logger, gates, cfg.buildHandlerOpts...),
		Lint:    NewLintSiteHandler(deps, logger, gates, cfg.lintHandlerOpts...),
		Links:   NewCheckLinksHandler(deps, logger, gates, cfg.linksHandlerOpts...),
		NewPost: NewNewPostHandler(deps, logger, cfg.newPostHandlerOpts...),
	}

	if reg != nil {
		for _, handler := range []any{set.Build, set.Lint, set.Links, set.NewPost} {
			if err := reg.RegisterCommand(handler); err != nil {
				return nil, err
			}
		}
	}

	return set, nil
}
