package blog

import "github.com/goliatone/go-blog/internal/runtimeconfig"

var (
	ErrSiteBaseURLRequired        = runtimeconfig.ErrSiteBaseURLRequired
	ErrContentDirRequired         = runtimeconfig.ErrContentDirRequired
	ErrGeneratorOutputDirRequired = runtimeconfig.ErrGeneratorOutputDirRequired
	ErrGeneratorWorkersInvalid    = runtimeconfig.ErrGeneratorWorkersInvalid
	ErrIndexFeatureRequired       = runtimeconfig.ErrIndexFeatureRequired
	ErrIndexProviderUnknown       = runtimeconfig.ErrIndexProviderUnknown
	ErrIndexDSNRequired           = runtimeconfig.ErrIndexDSNRequired
	ErrLintSummaryLengthInvalid   = runtimeconfig.ErrLintSummaryLengthInvalid
	ErrLoggingProviderRequired    = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown     = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid        = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid       = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config          = runtimeconfig.Config
	SiteConfig      = runtimeconfig.SiteConfig
	ContentConfig   = runtimeconfig.ContentConfig
	MarkdownConfig  = runtimeconfig.MarkdownConfig
	ShortcodeConfig = runtimeconfig.ShortcodeConfig
	TaxonomyConfig  = runtimeconfig.TaxonomyConfig
	GeneratorConfig = runtimeconfig.GeneratorConfig
	IndexConfig     = runtimeconfig.IndexConfig
	LintConfig      = runtimeconfig.LintConfig
	LinkCheckConfig = runtimeconfig.LinkCheckConfig
	CacheConfig     = runtimeconfig.CacheConfig
	Features        = runtimeconfig.Features
	CommandsConfig  = runtimeconfig.CommandsConfig
	LoggingConfig   = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
