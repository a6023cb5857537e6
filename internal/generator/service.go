package generator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/site"
	"github.com/goliatone/go-blog/internal/theme"
	"github.com/goliatone/go-blog/pkg/interfaces"
	"github.com/goliatone/go-blog/posts"
)

var (
	// ErrServiceDisabled indicates the generator feature is disabled.
	ErrServiceDisabled  = errors.New("generator: service disabled")
	errRendererRequired = errors.New("generator: template renderer is required")
	errSiteRequired     = errors.New("generator: site model is required")
)

// Service describes the static site generator contract.
type Service interface {
	Build(ctx context.Context, model *site.Site, opts BuildOptions) (*BuildResult, error)
	Clean(ctx context.Context) error
}

// Config captures runtime behaviour toggles for the generator.
type Config struct {
	OutputDir       string
	BaseURL         string
	Language        string
	CleanBuild      bool
	Incremental     bool
	CopyAssets      bool
	GenerateSitemap bool
	GenerateRobots  bool
	GenerateFeeds   bool
	Workers         int
	RenderTimeout   time.Duration
}

// Dependencies lists the collaborators required by the generator.
type Dependencies struct {
	Renderer interfaces.TemplateRenderer
	// Static optionally supplies files copied verbatim into the output.
	Static fs.FS
	Logger interfaces.Logger
}

// BuildOptions narrows the scope of a generator run.
type BuildOptions struct {
	Sections []string
	DryRun   bool
}

// BuildResult reports aggregated build metadata.
type BuildResult struct {
	PagesBuilt    int
	PagesSkipped  int
	AssetsBuilt   int
	AssetsSkipped int
	FeedsBuilt    int
	Sections      []string
	Duration      time.Duration
	Rendered      []RenderedPage
	Diagnostics   []RenderDiagnostic
	Errors        []error
	DryRun        bool
}

// RenderedPage describes one HTML artifact produced by a build.
type RenderedPage struct {
	Section      string
	Slug         string
	Route        string
	Template     string
	HTML         string
	Output       string
	Checksum     string
	SourcePath   string
	LastModified time.Time
	Duration     time.Duration
}

// RenderDiagnostic captures the outcome of rendering a single page.
type RenderDiagnostic struct {
	Section  string
	Slug     string
	Route    string
	Template string
	Duration time.Duration
	Skipped  bool
	Err      error
}

// SiteMetadata is the site-level payload handed to templates.
type SiteMetadata struct {
	Title       string
	BaseURL     string
	Description string
	Language    string
}

// BuildMetadata surfaces high level build information to templates.
type BuildMetadata struct {
	GeneratedAt time.Time
	Options     BuildOptions
}

// PageContext is the data contract passed to the template renderer.
type PageContext struct {
	Site    SiteMetadata
	Build   BuildMetadata
	Post    *posts.Post
	Posts   []*posts.Post
	Section string
	Term    *posts.Term
	Prev    *posts.Post
	Next    *posts.Post
	Related []*posts.Post
}

type renderOutcome struct {
	page       RenderedPage
	diagnostic RenderDiagnostic
	skipped    bool
	err        error
}

// NewService wires a generator with the provided configuration and dependencies.
func NewService(cfg Config, deps Dependencies) Service {
	logger := deps.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &service{
		cfg:    cfg,
		deps:   deps,
		writer: newOSWriter(cfg.OutputDir),
		logger: logger,
		now:    time.Now,
	}
}

// NewDisabledService returns a Service that fails all operations with
// ErrServiceDisabled.
func NewDisabledService() Service {
	return disabledService{}
}

type service struct {
	cfg    Config
	deps   Dependencies
	writer artifactWriter
	logger interfaces.Logger
	now    func() time.Time
}

type disabledService struct{}

func (disabledService) Build(context.Context, *site.Site, BuildOptions) (*BuildResult, error) {
	return nil, ErrServiceDisabled
}

func (disabledService) Clean(context.Context) error {
	return ErrServiceDisabled
}

func (s *service) Build(ctx context.Context, model *site.Site, opts BuildOptions) (*BuildResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.deps.Renderer == nil {
		return nil, errRendererRequired
	}
	if model == nil {
		return nil, errSiteRequired
	}
	if s.cfg.RenderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RenderTimeout)
		defer cancel()
	}

	start := time.Now()
	generatedAt := s.now().UTC()
	siteMeta := SiteMetadata{
		Title:       model.Title,
		BaseURL:     strings.TrimRight(s.cfg.BaseURL, "/"),
		Description: model.Description,
		Language:    s.cfg.Language,
	}
	buildMeta := BuildMetadata{GeneratedAt: generatedAt, Options: opts}

	sections := s.selectSections(model, opts)
	result := &BuildResult{
		Sections: sections,
		DryRun:   opts.DryRun,
	}

	var errorsSlice []error

	manifest, manifestErr := s.loadManifest(ctx)
	if manifestErr != nil {
		errorsSlice = append(errorsSlice, manifestErr)
	}
	if manifest == nil {
		manifest = newBuildManifest()
	}

	if s.cfg.CleanBuild && !opts.DryRun {
		if err := s.cleanOutput(ctx); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
		manifest = newBuildManifest()
	}

	var (
		mu       sync.Mutex
		rendered []RenderedPage
		pageKeys = map[string]struct{}{}
		skipped  []RenderedPage
	)

	collect := func(outcome renderOutcome) {
		mu.Lock()
		defer mu.Unlock()
		result.Diagnostics = append(result.Diagnostics, outcome.diagnostic)
		if outcome.diagnostic.Slug != "" {
			pageKeys[manifest.pageKey(outcome.diagnostic.Section, outcome.diagnostic.Slug)] = struct{}{}
		}
		if outcome.err != nil {
			errorsSlice = append(errorsSlice, outcome.err)
			return
		}
		if outcome.skipped {
			result.PagesSkipped++
			skipped = append(skipped, outcome.page)
			return
		}
		result.PagesBuilt++
		rendered = append(rendered, outcome.page)
	}

	workerCount := s.effectiveWorkerCount(len(sections))
	if workerCount <= 1 || len(model.Posts) <= 1 {
		for _, section := range sections {
			for _, post := range model.Sections[section] {
				select {
				case <-ctx.Done():
					return result, ctx.Err()
				default:
					collect(s.renderPost(siteMeta, buildMeta, model, post, manifest))
				}
			}
		}
	} else {
		if err := s.renderConcurrently(ctx, siteMeta, buildMeta, model, sections, workerCount, manifest, collect); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	sitePages, siteErrs := s.renderSitePages(ctx, siteMeta, buildMeta, model, sections)
	result.PagesBuilt += len(sitePages)
	rendered = append(rendered, sitePages...)
	errorsSlice = append(errorsSlice, siteErrs...)

	aliasPages, aliasErrs := s.renderAliases(ctx, model, sections)
	result.PagesBuilt += len(aliasPages)
	rendered = append(rendered, aliasPages...)
	errorsSlice = append(errorsSlice, aliasErrs...)

	sortRendered(rendered)

	if opts.DryRun {
		result.Rendered = rendered
		result.Duration = time.Since(start)
		if len(errorsSlice) > 0 {
			result.Errors = append(result.Errors, errorsSlice...)
			return result, errors.Join(errorsSlice...)
		}
		return result, nil
	}

	if err := s.persistPages(ctx, rendered); err != nil {
		errorsSlice = append(errorsSlice, err)
	}

	if s.cfg.CopyAssets {
		assetSummary, err := s.copyAssets(ctx, s.writer, manifest, generatedAt)
		if err != nil {
			errorsSlice = append(errorsSlice, err)
		} else {
			result.AssetsBuilt += assetSummary.Built
			result.AssetsSkipped += assetSummary.Skipped
		}
	}

	if s.cfg.GenerateSitemap {
		sitemapPages := append(append([]RenderedPage(nil), rendered...), skipped...)
		if err := s.writeSitemap(ctx, sitemapPages, generatedAt); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	if s.cfg.GenerateRobots {
		if err := s.writeRobots(ctx); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	if s.cfg.GenerateFeeds {
		feeds, err := s.writeFeeds(ctx, s.writer, model, s.buildFeedDocuments(model), generatedAt)
		if err != nil {
			errorsSlice = append(errorsSlice, err)
		}
		result.FeedsBuilt = feeds
	}

	if len(errorsSlice) == 0 {
		manifest.GeneratedAt = generatedAt
		for _, page := range rendered {
			if page.Slug == "" || page.Checksum == "" {
				continue
			}
			manifest.setPage(manifestPage{
				Section:    page.Section,
				Slug:       page.Slug,
				Route:      page.Route,
				Output:     page.Output,
				Template:   page.Template,
				Source:     page.SourcePath,
				Checksum:   page.Checksum,
				RenderedAt: generatedAt,
			})
		}
		if len(opts.Sections) == 0 {
			manifest.prunePages(pageKeys)
		}
		if err := s.persistManifest(ctx, manifest); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	result.Rendered = rendered
	result.Duration = time.Since(start)

	logging.WithFields(s.logger, map[string]any{
		"operation":     "generator.build",
		"pages_built":   result.PagesBuilt,
		"pages_skipped": result.PagesSkipped,
		"assets_built":  result.AssetsBuilt,
		"feeds_built":   result.FeedsBuilt,
		"duration":      result.Duration.String(),
	}).Info("generator.build.completed")

	if len(errorsSlice) > 0 {
		result.Errors = append(result.Errors, errorsSlice...)
		return result, errors.Join(errorsSlice...)
	}
	return result, nil
}

func (s *service) Clean(ctx context.Context) error {
	return s.cleanOutput(ctx)
}

func (s *service) cleanOutput(ctx context.Context) error {
	if strings.TrimSpace(s.cfg.OutputDir) == "" {
		return errors.New("generator: refusing to clean an empty output dir")
	}
	return s.writer.RemoveAll(ctx, ".")
}

func (s *service) selectSections(model *site.Site, opts BuildOptions) []string {
	var sections []string
	if len(opts.Sections) > 0 {
		for _, name := range opts.Sections {
			name = strings.TrimSpace(name)
			if _, ok := model.Sections[name]; ok {
				sections = append(sections, name)
			}
		}
	} else {
		for name := range model.Sections {
			sections = append(sections, name)
		}
	}
	sort.Strings(sections)
	return sections
}

func (s *service) effectiveWorkerCount(sections int) int {
	workers := s.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if sections > 0 && workers > sections {
		workers = sections
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

func (s *service) renderConcurrently(
	ctx context.Context,
	siteMeta SiteMetadata,
	buildMeta BuildMetadata,
	model *site.Site,
	sections []string,
	workers int,
	manifest *buildManifest,
	collect func(renderOutcome),
) error {
	jobs := make(chan []*posts.Post)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for batch := range jobs {
				for _, post := range batch {
					select {
					case <-ctx.Done():
						return
					default:
						collect(s.renderPost(siteMeta, buildMeta, model, post, manifest))
					}
				}
			}
		}()
	}

	for _, section := range sections {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return ctx.Err()
		case jobs <- model.Sections[section]:
		}
	}
	close(jobs)
	wg.Wait()
	return nil
}

func (s *service) renderPost(
	siteMeta SiteMetadata,
	buildMeta BuildMetadata,
	model *site.Site,
	post *posts.Post,
	manifest *buildManifest,
) renderOutcome {
	route := post.Permalink()
	outcome := renderOutcome{
		diagnostic: RenderDiagnostic{
			Section:  post.Section,
			Slug:     post.Slug,
			Route:    route,
			Template: theme.TemplatePost,
		},
	}

	output := buildOutputPath(route)
	if s.cfg.Incremental && manifest.shouldSkipPage(post.Section, post.Slug, post.Checksum, output) {
		outcome.skipped = true
		outcome.diagnostic.Skipped = true
		outcome.page = RenderedPage{
			Section:      post.Section,
			Slug:         post.Slug,
			Route:        route,
			Output:       output,
			LastModified: post.Lastmod,
		}
		return outcome
	}

	pageCtx := PageContext{
		Site:    siteMeta,
		Build:   buildMeta,
		Post:    post,
		Section: post.Section,
		Prev:    model.Prev(post.Slug),
		Next:    model.Next(post.Slug),
		Related: model.Related(post.Slug, relatedLimit),
	}

	start := time.Now()
	html, err := s.deps.Renderer.RenderTemplate(theme.TemplatePost, pageCtx)
	duration := time.Since(start)
	outcome.diagnostic.Duration = duration
	if err != nil {
		wrapped := fmt.Errorf("generator: render %s/%s: %w", post.Section, post.Slug, err)
		outcome.err = wrapped
		outcome.diagnostic.Err = wrapped
		return outcome
	}

	outcome.page = RenderedPage{
		Section:      post.Section,
		Slug:         post.Slug,
		Route:        route,
		Template:     theme.TemplatePost,
		HTML:         html,
		Output:       output,
		Checksum:     post.Checksum,
		SourcePath:   post.Path,
		LastModified: post.Lastmod,
		Duration:     duration,
	}
	return outcome
}

const relatedLimit = 5

// renderSitePages produces the home page, section lists, and taxonomy term
// pages. These are cheap relative to posts and always rebuilt.
func (s *service) renderSitePages(
	ctx context.Context,
	siteMeta SiteMetadata,
	buildMeta BuildMetadata,
	model *site.Site,
	sections []string,
) ([]RenderedPage, []error) {
	var (
		pages  []RenderedPage
		errs   []error
		render = func(template, route string, data PageContext) {
			select {
			case <-ctx.Done():
				errs = append(errs, ctx.Err())
				return
			default:
			}
			start := time.Now()
			html, err := s.deps.Renderer.RenderTemplate(template, data)
			if err != nil {
				errs = append(errs, fmt.Errorf("generator: render %s: %w", route, err))
				return
			}
			pages = append(pages, RenderedPage{
				Route:    route,
				Template: template,
				HTML:     html,
				Duration: time.Since(start),
			})
		}
	)

	render(theme.TemplateIndex, "/", PageContext{
		Site:  siteMeta,
		Build: buildMeta,
		Posts: model.Posts,
	})

	for _, section := range sections {
		render(theme.TemplateList, "/"+section+"/", PageContext{
			Site:    siteMeta,
			Build:   buildMeta,
			Section: section,
			Posts:   model.Sections[section],
		})
	}

	taxonomies := make([]string, 0, len(model.Taxonomies))
	for taxonomy := range model.Taxonomies {
		taxonomies = append(taxonomies, taxonomy)
	}
	sort.Strings(taxonomies)
	for _, taxonomy := range taxonomies {
		for _, term := range model.Taxonomies[taxonomy] {
			var termPosts []*posts.Post
			for _, slug := range term.Posts {
				if post := model.PostBySlug(slug); post != nil {
					termPosts = append(termPosts, post)
				}
			}
			render(theme.TemplateTerm, "/"+taxonomy+"/"+term.Slug+"/", PageContext{
				Site:  siteMeta,
				Build: buildMeta,
				Term:  term,
				Posts: termPosts,
			})
		}
	}

	return pages, errs
}

// renderAliases writes HTML redirect stubs so old URLs keep working.
func (s *service) renderAliases(
	ctx context.Context,
	model *site.Site,
	sections []string,
) ([]RenderedPage, []error) {
	var pages []RenderedPage
	var errs []error
	for _, section := range sections {
		for _, post := range model.Sections[section] {
			for _, alias := range post.Aliases {
				select {
				case <-ctx.Done():
					errs = append(errs, ctx.Err())
					return pages, errs
				default:
				}
				route := normalizeAliasRoute(alias)
				if route == "" || route == post.Permalink() {
					continue
				}
				html, err := s.deps.Renderer.RenderTemplate(theme.TemplateRedirect, map[string]any{
					"Target": post.Permalink(),
				})
				if err != nil {
					errs = append(errs, fmt.Errorf("generator: render alias %s: %w", alias, err))
					continue
				}
				pages = append(pages, RenderedPage{
					Section:  section,
					Route:    route,
					Template: theme.TemplateRedirect,
					HTML:     html,
				})
			}
		}
	}
	return pages, errs
}

func normalizeAliasRoute(alias string) string {
	trimmed := strings.TrimSpace(alias)
	if trimmed == "" {
		return ""
	}
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	if !strings.HasSuffix(trimmed, "/") {
		trimmed += "/"
	}
	return trimmed
}

func (s *service) persistPages(ctx context.Context, pages []RenderedPage) error {
	if len(pages) == 0 {
		return nil
	}
	dirCache := map[string]struct{}{}
	for i := range pages {
		destRel := buildOutputPath(pages[i].Route)
		if err := ensureDir(ctx, s.writer, dirCache, path.Dir(destRel)); err != nil {
			return err
		}
		pages[i].Output = destRel
		if pages[i].Checksum == "" {
			pages[i].Checksum = computeHashFromString(pages[i].HTML)
		}

		req := writeFileRequest{
			Path:        destRel,
			Content:     strings.NewReader(pages[i].HTML),
			Size:        int64(len(pages[i].HTML)),
			Section:     pages[i].Section,
			Category:    categoryForTemplate(pages[i].Template),
			ContentType: "text/html; charset=utf-8",
			Checksum:    computeHashFromString(pages[i].HTML),
			Metadata: map[string]string{
				"route":    pages[i].Route,
				"template": pages[i].Template,
			},
		}
		if err := s.writer.WriteFile(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

func categoryForTemplate(template string) writeCategory {
	if template == theme.TemplateRedirect {
		return categoryAlias
	}
	return categoryPage
}

func (s *service) writeSitemap(ctx context.Context, pages []RenderedPage, generatedAt time.Time) error {
	content := buildSitemap(s.cfg.BaseURL, pages, generatedAt)
	return s.writer.WriteFile(ctx, writeFileRequest{
		Path:        "sitemap.xml",
		Content:     strings.NewReader(content),
		Size:        int64(len(content)),
		Category:    categorySitemap,
		ContentType: "application/xml",
		Checksum:    computeHashFromString(content),
	})
}

func (s *service) writeRobots(ctx context.Context) error {
	content := buildRobots(s.cfg.BaseURL, s.cfg.GenerateSitemap)
	return s.writer.WriteFile(ctx, writeFileRequest{
		Path:        "robots.txt",
		Content:     strings.NewReader(content),
		Size:        int64(len(content)),
		Category:    categoryRobots,
		ContentType: "text/plain",
		Checksum:    computeHashFromString(content),
	})
}

func (s *service) loadManifest(ctx context.Context) (*buildManifest, error) {
	if !s.cfg.Incremental {
		return newBuildManifest(), nil
	}
	data, err := s.writer.ReadFile(ctx, manifestFileName)
	if err != nil {
		return nil, err
	}
	return parseManifest(data)
}

func (s *service) persistManifest(ctx context.Context, manifest *buildManifest) error {
	data, err := manifest.marshal()
	if err != nil {
		return fmt.Errorf("generator: marshal manifest: %w", err)
	}
	return s.writer.WriteFile(ctx, writeFileRequest{
		Path:        manifestFileName,
		Content:     strings.NewReader(string(data)),
		Size:        int64(len(data)),
		Category:    categoryManifest,
		ContentType: "application/json",
		Checksum:    computeHash(data),
	})
}

func ensureDir(ctx context.Context, writer artifactWriter, cache map[string]struct{}, dir string) error {
	dir = strings.Trim(dir, " ")
	if dir == "" || dir == "." {
		return nil
	}
	if cache != nil {
		if _, ok := cache[dir]; ok {
			return nil
		}
		cache[dir] = struct{}{}
	}
	return writer.EnsureDir(ctx, dir)
}

func sortRendered(pages []RenderedPage) {
	sort.Slice(pages, func(i, j int) bool {
		return pages[i].Route < pages[j].Route
	})
}
