package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrSiteBaseURLRequired = errors.New("blog config: site base URL is required when the generator is enabled")
var ErrContentDirRequired = errors.New("blog config: content directory is required")
var ErrGeneratorOutputDirRequired = errors.New("blog config: generator output directory is required when the generator is enabled")
var ErrGeneratorWorkersInvalid = errors.New("blog config: generator workers must be zero or positive")
var ErrIndexFeatureRequired = errors.New("blog config: index feature must be enabled to configure index storage")
var ErrIndexProviderUnknown = errors.New("blog config: index provider is invalid")
var ErrIndexDSNRequired = errors.New("blog config: index dsn is required for the sqlite provider")
var ErrLintSummaryLengthInvalid = errors.New("blog config: lint summary length must be zero or positive")
var ErrLoggingProviderRequired = errors.New("blog config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("blog config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("blog config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("blog config: logging format is invalid")

// Config aggregates feature flags and adapter bindings for the blog module.
// Fields intentionally use simple types so host applications can extend them later.
type Config struct {
	Enabled   bool
	Site      SiteConfig
	Content   ContentConfig
	Markdown  MarkdownConfig
	Shortcode ShortcodeConfig
	Taxonomy  TaxonomyConfig
	Generator GeneratorConfig
	Index     IndexConfig
	Lint      LintConfig
	Links     LinkCheckConfig
	Cache     CacheConfig
	Features  Features
	Commands  CommandsConfig
	Logging   LoggingConfig
}

// SiteConfig identifies the published site.
type SiteConfig struct {
	Title         string
	BaseURL       string
	Description   string
	DefaultAuthor string
	Language      string
}

// ContentConfig captures filesystem layout for the Markdown content tree.
type ContentConfig struct {
	Dir             string
	DefaultSection  string
	Sections        []string
	SectionPatterns map[string]string
	Pattern         string
	Recursive       bool
	StaticDir       string
}

// MarkdownConfig mirrors interfaces.ParseOptions for runtime configuration.
type MarkdownConfig struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// ShortcodeConfig controls which built-in shortcodes are registered.
type ShortcodeConfig struct {
	Enabled  bool
	BuiltIns []string
	CacheTTL time.Duration
}

// TaxonomyConfig tunes taxonomy aggregation and related-post lookups.
type TaxonomyConfig struct {
	RelatedLimit int
}

// GeneratorConfig captures behaviour for the static site generator.
type GeneratorConfig struct {
	Enabled         bool
	OutputDir       string
	CleanBuild      bool
	Incremental     bool
	CopyAssets      bool
	GenerateSitemap bool
	GenerateRobots  bool
	GenerateFeeds   bool
	Workers         int
	RenderTimeout   time.Duration
}

// IndexConfig selects the storage backend for the queryable post index.
type IndexConfig struct {
	Provider string
	DSN      string
	CacheTTL time.Duration
}

// LintConfig tunes content verification rules.
type LintConfig struct {
	Enabled         bool
	SummaryMaxWords int
	RequireDate     bool
	RequireSlug     bool
	ValidateSchema  bool
	FailOnWarnings  bool
	DisabledRules   []string
}

// LinkCheckConfig controls internal link verification.
type LinkCheckConfig struct {
	Enabled         bool
	IncludeExternal bool
	IgnorePatterns  []string
}

// CacheConfig captures cache behaviour toggles.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// Features toggles module functionality.
type Features struct {
	Drafts bool
	Future bool
	Index  bool
	Feeds  bool
	Logger bool
}

// CommandsConfig captures optional command-layer behaviour.
type CommandsConfig struct {
	Enabled                bool
	AutoRegisterDispatcher bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns opinionated defaults for a filesystem-backed blog.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Site: SiteConfig{
			Title:    "Blog",
			Language: "en",
		},
		Content: ContentConfig{
			Dir:             "content",
			DefaultSection:  "posts",
			Sections:        []string{"posts"},
			SectionPatterns: map[string]string{},
			Pattern:         "*.md",
			Recursive:       true,
			StaticDir:       "static",
		},
		Markdown: MarkdownConfig{},
		Shortcode: ShortcodeConfig{
			Enabled:  true,
			CacheTTL: time.Minute,
		},
		Taxonomy: TaxonomyConfig{
			RelatedLimit: 5,
		},
		Generator: GeneratorConfig{
			OutputDir:       "public",
			CleanBuild:      true,
			Incremental:     false,
			CopyAssets:      true,
			GenerateSitemap: true,
			GenerateRobots:  true,
			GenerateFeeds:   true,
			Workers:         0,
		},
		Index: IndexConfig{
			Provider: "memory",
			CacheTTL: time.Minute,
		},
		Lint: LintConfig{
			Enabled:         true,
			SummaryMaxWords: 70,
			RequireDate:     true,
			ValidateSchema:  true,
		},
		Links: LinkCheckConfig{
			Enabled: true,
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Features: Features{
			Feeds: true,
		},
		Commands: CommandsConfig{},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Content.Dir) == "" {
		return ErrContentDirRequired
	}
	if cfg.Generator.Enabled {
		if strings.TrimSpace(cfg.Generator.OutputDir) == "" {
			return ErrGeneratorOutputDirRequired
		}
		if strings.TrimSpace(cfg.Site.BaseURL) == "" {
			return ErrSiteBaseURLRequired
		}
	}
	if cfg.Generator.Workers < 0 {
		return ErrGeneratorWorkersInvalid
	}
	if !cfg.Features.Index {
		if strings.TrimSpace(cfg.Index.DSN) != "" {
			return ErrIndexFeatureRequired
		}
	} else {
		switch normalizeProvider(cfg.Index.Provider) {
		case "", "memory":
		case "sqlite":
			if strings.TrimSpace(cfg.Index.DSN) == "" {
				return ErrIndexDSNRequired
			}
		default:
			return fmt.Errorf("%w: %s", ErrIndexProviderUnknown, cfg.Index.Provider)
		}
	}
	if cfg.Lint.SummaryMaxWords < 0 {
		return ErrLintSummaryLengthInvalid
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
