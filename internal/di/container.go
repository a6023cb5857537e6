package di

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/goliatone/go-blog/internal/adapters/memcache"
	"github.com/goliatone/go-blog/internal/adapters/noop"
	sitecmd "github.com/goliatone/go-blog/internal/commands/site"
	"github.com/goliatone/go-blog/internal/generator"
	"github.com/goliatone/go-blog/internal/index"
	"github.com/goliatone/go-blog/internal/linkcheck"
	"github.com/goliatone/go-blog/internal/lint"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/logging/console"
	"github.com/goliatone/go-blog/internal/logging/gologger"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/internal/runtimeconfig"
	"github.com/goliatone/go-blog/internal/shortcode"
	"github.com/goliatone/go-blog/internal/site"
	"github.com/goliatone/go-blog/internal/theme"
	"github.com/goliatone/go-blog/pkg/interfaces"
	repocache "github.com/goliatone/go-repository-cache/cache"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// Container wires module dependencies from configuration plus optional
// overrides. Construction is eager: every enabled service exists once
// NewContainer returns.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	cache          interfaces.CacheProvider

	bunDB         *bun.DB
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	postRepo index.PostRepository
	termRepo index.TermRepository

	contentFS fs.FS
	staticFS  fs.FS
	themeFS   fs.FS

	markdownParser interfaces.MarkdownParser
	shortcodeSvc   interfaces.ShortcodeService
	markdownSvc    interfaces.MarkdownService
	renderer       interfaces.TemplateRenderer
	generatorSvc   generator.Service
	indexSvc       *index.Service
	linter         *lint.Linter
	checker        *linkcheck.Checker

	siteFactory func(includeDrafts, includeFuture bool) *site.Service

	commandRegistry sitecmd.CommandRegistry
	handlers        *sitecmd.HandlerSet

	now func() time.Time
}

// Option mutates the container before services are finalised.
type Option func(*Container)

// WithBunDB switches the post index onto bun-backed repositories.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the repository cache service and key serializer.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithCacheProvider overrides the rendering cache used by shortcodes.
func WithCacheProvider(cache interfaces.CacheProvider) Option {
	return func(c *Container) {
		c.cache = cache
	}
}

// WithLoggerProvider overrides the logger provider derived from configuration.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithMarkdownParser overrides the default Goldmark parser.
func WithMarkdownParser(parser interfaces.MarkdownParser) Option {
	return func(c *Container) {
		c.markdownParser = parser
	}
}

// WithMarkdownService overrides the filesystem-backed Markdown service.
func WithMarkdownService(svc interfaces.MarkdownService) Option {
	return func(c *Container) {
		c.markdownSvc = svc
	}
}

// WithShortcodeService overrides the shortcode expansion service.
func WithShortcodeService(svc interfaces.ShortcodeService) Option {
	return func(c *Container) {
		c.shortcodeSvc = svc
	}
}

// WithTemplateRenderer overrides the theme renderer.
func WithTemplateRenderer(renderer interfaces.TemplateRenderer) Option {
	return func(c *Container) {
		c.renderer = renderer
	}
}

// WithGeneratorService overrides the static site generator.
func WithGeneratorService(svc generator.Service) Option {
	return func(c *Container) {
		c.generatorSvc = svc
	}
}

// WithIndexService overrides the post index service.
func WithIndexService(svc *index.Service) Option {
	return func(c *Container) {
		c.indexSvc = svc
	}
}

// WithPostRepository overrides the post index repository.
func WithPostRepository(repo index.PostRepository) Option {
	return func(c *Container) {
		c.postRepo = repo
	}
}

// WithTermRepository overrides the taxonomy term repository.
func WithTermRepository(repo index.TermRepository) Option {
	return func(c *Container) {
		c.termRepo = repo
	}
}

// WithContentFS supplies the Markdown tree as a filesystem instead of the
// configured content directory. Useful for tests and embedded content.
func WithContentFS(fsys fs.FS) Option {
	return func(c *Container) {
		c.contentFS = fsys
	}
}

// WithStaticFS supplies the static asset tree copied into builds.
func WithStaticFS(fsys fs.FS) Option {
	return func(c *Container) {
		c.staticFS = fsys
	}
}

// WithThemeFS supplies site template overrides layered over the built-ins.
func WithThemeFS(fsys fs.FS) Option {
	return func(c *Container) {
		c.themeFS = fsys
	}
}

// WithCommandRegistry wires a dispatcher registry. Handlers are registered
// with it when Commands.AutoRegisterDispatcher is set; otherwise hosts wire
// the SiteCommands handler set themselves.
func WithCommandRegistry(reg sitecmd.CommandRegistry) Option {
	return func(c *Container) {
		c.commandRegistry = reg
	}
}

// WithClock overrides the time source used for build stamps and new posts.
func WithClock(now func() time.Time) Option {
	return func(c *Container) {
		if now != nil {
			c.now = now
		}
	}
}

// NewContainer validates cfg, applies overrides, and constructs every
// enabled service. Disabled features resolve to no-op implementations so
// accessors never return nil services.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:   cfg,
		cacheTTL: cacheTTL,
		postRepo: index.NewMemoryPostRepository(),
		termRepo: index.NewMemoryTermRepository(),
		now:      time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	if err := c.configureRepositories(); err != nil {
		return nil, err
	}

	if err := c.configureMarkdown(); err != nil {
		return nil, err
	}
	c.configureSiteFactory()
	if err := c.configureRendering(); err != nil {
		return nil, err
	}
	if err := c.configureVerification(); err != nil {
		return nil, err
	}
	c.configureIndex()

	if cfg.Commands.Enabled {
		if err := c.configureCommands(); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}

	logCfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(logCfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
			Focus:     logCfg.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		level := console.ParseLevel(logCfg.Level)
		c.loggerProvider = console.NewProvider(console.Options{MinLevel: &level})
	}
	return nil
}

func (c *Container) configureCacheDefaults() {
	if c.cache == nil {
		if c.Config.Cache.Enabled {
			ttl := c.Config.Shortcode.CacheTTL
			if ttl <= 0 {
				ttl = c.cacheTTL
			}
			c.cache = memcache.New(ttl)
		} else {
			c.cache = noop.Cache()
		}
	}

	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() error {
	if c.bunDB == nil && c.Config.Features.Index && c.sqliteIndexConfigured() {
		sqlDB, err := sql.Open("sqlite3", c.Config.Index.DSN)
		if err != nil {
			return fmt.Errorf("di: open index database: %w", err)
		}
		db := bun.NewDB(sqlDB, sqlitedialect.New())
		db.SetMaxOpenConns(1)
		if err := index.EnsureSchema(context.Background(), db); err != nil {
			db.Close()
			return err
		}
		c.bunDB = db
	}
	if c.bunDB == nil {
		return nil
	}
	c.postRepo = index.NewBunPostRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.termRepo = index.NewBunTermRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	return nil
}

func (c *Container) sqliteIndexConfigured() bool {
	provider := strings.ToLower(strings.TrimSpace(c.Config.Index.Provider))
	return provider == "sqlite" && strings.TrimSpace(c.Config.Index.DSN) != ""
}

func (c *Container) configureMarkdown() error {
	if c.markdownParser == nil {
		c.markdownParser = markdown.NewGoldmarkParser(c.parseOptions())
	}

	if c.shortcodeSvc == nil {
		if c.Config.Shortcode.Enabled {
			validator := shortcode.NewValidator()
			registry := shortcode.NewRegistry(validator)
			if err := shortcode.RegisterBuiltIns(registry, c.Config.Shortcode.BuiltIns); err != nil {
				return err
			}
			renderer := shortcode.NewRenderer(registry, validator,
				shortcode.WithRendererCache(c.cache),
			)
			c.shortcodeSvc = shortcode.NewService(registry, renderer,
				shortcode.WithLogger(logging.ModuleLogger(c.loggerProvider, "blog.shortcodes")),
				shortcode.WithMarkdownParser(c.markdownParser),
				shortcode.WithDefaultCache(c.cache),
			)
		} else {
			c.shortcodeSvc = shortcode.NewNoOpService()
		}
	}

	if c.markdownSvc != nil {
		return nil
	}

	content := c.Config.Content
	mdCfg := markdown.Config{
		BasePath:        content.Dir,
		DefaultSection:  content.DefaultSection,
		Sections:        content.Sections,
		SectionPatterns: content.SectionPatterns,
		Pattern:         content.Pattern,
		Recursive:       content.Recursive,
		Parser:          c.parseOptions(),
	}

	mdOpts := []markdown.Option{markdown.WithShortcodes(c.shortcodeSvc)}

	var (
		svc *markdown.Service
		err error
	)
	if c.contentFS != nil {
		svc, err = markdown.NewServiceWithFS(mdCfg, c.markdownParser, c.contentFS, mdOpts...)
	} else {
		svc, err = markdown.NewService(mdCfg, c.markdownParser, mdOpts...)
	}
	if err != nil {
		return err
	}
	c.markdownSvc = svc
	return nil
}

func (c *Container) configureSiteFactory() {
	base := site.Config{
		Title:         c.Config.Site.Title,
		BaseURL:       c.Config.Site.BaseURL,
		Description:   c.Config.Site.Description,
		DefaultAuthor: c.Config.Site.DefaultAuthor,
		Now:           c.now,
		Logger:        logging.SiteLogger(c.loggerProvider),
	}

	c.siteFactory = func(includeDrafts, includeFuture bool) *site.Service {
		cfg := base
		cfg.IncludeDrafts = includeDrafts || c.Config.Features.Drafts
		cfg.IncludeFuture = includeFuture || c.Config.Features.Future
		return site.NewService(cfg)
	}
}

func (c *Container) configureRendering() error {
	if c.renderer == nil {
		renderer, err := theme.NewRenderer(theme.Config{
			BaseURL:   c.Config.Site.BaseURL,
			Overrides: c.themeFS,
		})
		if err != nil {
			return err
		}
		c.renderer = renderer
	}

	if c.generatorSvc != nil {
		return nil
	}

	genCfg := c.Config.Generator
	if !genCfg.Enabled {
		c.generatorSvc = generator.NewDisabledService()
		return nil
	}

	static := c.staticFS
	if static == nil && genCfg.CopyAssets && strings.TrimSpace(c.Config.Content.StaticDir) != "" {
		static = os.DirFS(c.Config.Content.StaticDir)
	}

	c.generatorSvc = generator.NewService(generator.Config{
		OutputDir:       genCfg.OutputDir,
		BaseURL:         c.Config.Site.BaseURL,
		Language:        c.Config.Site.Language,
		CleanBuild:      genCfg.CleanBuild,
		Incremental:     genCfg.Incremental,
		CopyAssets:      genCfg.CopyAssets,
		GenerateSitemap: genCfg.GenerateSitemap,
		GenerateRobots:  genCfg.GenerateRobots,
		GenerateFeeds:   genCfg.GenerateFeeds && c.Config.Features.Feeds,
		Workers:         genCfg.Workers,
		RenderTimeout:   genCfg.RenderTimeout,
	}, generator.Dependencies{
		Renderer: c.renderer,
		Static:   static,
		Logger:   logging.GeneratorLogger(c.loggerProvider),
	})
	return nil
}

func (c *Container) configureVerification() error {
	if c.linter == nil {
		lintCfg := c.Config.Lint
		linter, err := lint.New(lint.Config{
			SummaryMaxWords: lintCfg.SummaryMaxWords,
			RequireDate:     lintCfg.RequireDate,
			RequireSlug:     lintCfg.RequireSlug,
			ValidateSchema:  lintCfg.ValidateSchema,
			DisabledRules:   lintCfg.DisabledRules,
			Logger:          logging.LintLogger(c.loggerProvider),
		})
		if err != nil {
			return err
		}
		c.linter = linter
	}

	if c.checker == nil {
		c.checker = linkcheck.New(linkcheck.Config{
			IncludeExternal: c.Config.Links.IncludeExternal,
			IgnorePatterns:  c.Config.Links.IgnorePatterns,
			Logger:          logging.LinksLogger(c.loggerProvider),
		})
	}
	return nil
}

func (c *Container) configureIndex() {
	if c.indexSvc != nil || !c.Config.Features.Index {
		return
	}
	c.indexSvc = index.NewService(c.postRepo, c.termRepo,
		index.WithLogger(logging.ModuleLogger(c.loggerProvider, "blog.index")),
	)
}

func (c *Container) configureCommands() error {
	deps := sitecmd.Dependencies{
		Markdown: c.markdownSvc,
		NewAssembler: func(includeDrafts, includeFuture bool) sitecmd.Assembler {
			return c.siteFactory(includeDrafts, includeFuture)
		},
		Generator:      c.generatorSvc,
		Linter:         c.linter,
		Links:          c.checker,
		ContentDir:     c.Config.Content.Dir,
		DefaultSection: c.Config.Content.DefaultSection,
		Now:            c.now,
	}
	if c.indexSvc != nil {
		deps.Indexer = c.indexSvc
	}

	gates := sitecmd.FeatureGates{
		GeneratorEnabled: func() bool { return c.Config.Generator.Enabled },
		LintEnabled:      func() bool { return c.Config.Lint.Enabled },
		LinksEnabled:     func() bool { return c.Config.Links.Enabled },
	}

	registry := c.commandRegistry
	if !c.Config.Commands.AutoRegisterDispatcher {
		registry = nil
	}

	handlers, err := sitecmd.RegisterSiteCommands(registry, deps, c.loggerProvider, gates)
	if err != nil {
		return err
	}
	c.handlers = handlers
	return nil
}

func (c *Container) parseOptions() interfaces.ParseOptions {
	md := c.Config.Markdown
	return interfaces.ParseOptions{
		Extensions: md.Extensions,
		Sanitize:   md.Sanitize,
		HardWraps:  md.HardWraps,
		SafeMode:   md.SafeMode,
	}
}

// LoggerProvider exposes the configured logger provider; nil when logging is disabled.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// CacheProvider exposes the rendering cache.
func (c *Container) CacheProvider() interfaces.CacheProvider {
	return c.cache
}

// MarkdownService returns the configured Markdown service.
func (c *Container) MarkdownService() interfaces.MarkdownService {
	return c.markdownSvc
}

// ShortcodeService returns the configured shortcode service.
func (c *Container) ShortcodeService() interfaces.ShortcodeService {
	return c.shortcodeSvc
}

// TemplateRenderer returns the configured theme renderer.
func (c *Container) TemplateRenderer() interfaces.TemplateRenderer {
	return c.renderer
}

// GeneratorService returns the static site generator.
func (c *Container) GeneratorService() generator.Service {
	return c.generatorSvc
}

// IndexService returns the post index service; nil when the index feature is disabled.
func (c *Container) IndexService() *index.Service {
	return c.indexSvc
}

// Linter returns the content linter.
func (c *Container) Linter() *lint.Linter {
	return c.linter
}

// LinkChecker returns the internal link checker.
func (c *Container) LinkChecker() *linkcheck.Checker {
	return c.checker
}

// Assembler builds a site assembly service honouring per-call draft and
// future-dated overrides on top of the configured feature flags.
func (c *Container) Assembler(includeDrafts, includeFuture bool) *site.Service {
	return c.siteFactory(includeDrafts, includeFuture)
}

// SiteCommands returns the command handler set; nil when commands are disabled.
func (c *Container) SiteCommands() *sitecmd.HandlerSet {
	return c.handlers
}

// PostRepository exposes the configured post index repository.
func (c *Container) PostRepository() index.PostRepository {
	return c.postRepo
}

// TermRepository exposes the configured taxonomy term repository.
func (c *Container) TermRepository() index.TermRepository {
	return c.termRepo
}
