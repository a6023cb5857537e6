package bootstrap

import (
	"fmt"
	"strings"

	blog "github.com/goliatone/go-blog"
	sitecmd "github.com/goliatone/go-blog/internal/commands/site"
	"github.com/goliatone/go-blog/internal/di"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Options captures configuration shared by the site CLI entry points.
type Options struct {
	ContentDir     string
	StaticDir      string
	Pattern        string
	Recursive      bool
	Title          string
	BaseURL        string
	OutputDir      string
	Generator      bool
	Drafts         bool
	Future         bool
	FailOnWarnings bool
	LoggerProvider interfaces.LoggerProvider
}

// Module wraps the blog module with the handler set and logger CLI commands use.
type Module struct {
	Module   *blog.Module
	Commands *sitecmd.HandlerSet
	Logger   interfaces.Logger
}

// BuildModule constructs a blog module configured for command-line operation.
func BuildModule(opts Options) (*Module, error) {
	cfg := blog.DefaultConfig()
	cfg.Commands.Enabled = true

	cfg.Content.Dir = strings.TrimSpace(opts.ContentDir)
	if cfg.Content.Dir == "" {
		cfg.Content.Dir = "content"
	}
	if trimmed := strings.TrimSpace(opts.StaticDir); trimmed != "" {
		cfg.Content.StaticDir = trimmed
	}
	if trimmed := strings.TrimSpace(opts.Pattern); trimmed != "" {
		cfg.Content.Pattern = trimmed
	}
	cfg.Content.Recursive = opts.Recursive

	if trimmed := strings.TrimSpace(opts.Title); trimmed != "" {
		cfg.Site.Title = trimmed
	}
	cfg.Site.BaseURL = strings.TrimSpace(opts.BaseURL)

	if opts.Generator {
		cfg.Generator.Enabled = true
		if trimmed := strings.TrimSpace(opts.OutputDir); trimmed != "" {
			cfg.Generator.OutputDir = trimmed
		}
	}

	cfg.Features.Drafts = opts.Drafts
	cfg.Features.Future = opts.Future
	cfg.Lint.FailOnWarnings = opts.FailOnWarnings

	diOpts := []di.Option{}
	if opts.LoggerProvider != nil {
		diOpts = append(diOpts, di.WithLoggerProvider(opts.LoggerProvider))
	}

	module, err := blog.New(cfg, diOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise blog module: %w", err)
	}

	handlers := module.Commands()
	if handlers == nil {
		return nil, fmt.Errorf("site commands not configured; ensure Commands.Enabled is set")
	}

	logger := logging.SiteLogger(module.Container().LoggerProvider())

	return &Module{
		Module:   module,
		Commands: handlers,
		Logger:   logger,
	}, nil
}

// SplitList parses a comma separated flag value into a trimmed slice.
func SplitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
