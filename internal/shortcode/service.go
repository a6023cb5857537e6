package shortcode

import (
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/goliatone/go-blog/internal/logging"
	parserpkg "github.com/goliatone/go-blog/internal/shortcode/parser"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// placeholderFormat is the marker emitted by the parser when extracting shortcodes.
const placeholderFormat = "<!-- shortcode:%d -->"

// Service orchestrates shortcode parsing and rendering for arbitrary content.
type Service struct {
	registry         interfaces.ShortcodeRegistry
	renderer         interfaces.ShortcodeRenderer
	parser           interfaces.ShortcodeParser
	markdown         interfaces.MarkdownParser
	defaultSanitizer interfaces.ShortcodeSanitizer
	defaultCache     interfaces.CacheProvider
	logger           interfaces.Logger
	metrics          interfaces.ShortcodeMetrics
}

// ServiceOption customises service behaviour.
type ServiceOption func(*Service)

// WithDefaultSanitizer overrides the fallback sanitizer used when none is supplied at call time.
func WithDefaultSanitizer(sanitizer interfaces.ShortcodeSanitizer) ServiceOption {
	return func(s *Service) {
		if sanitizer != nil {
			s.defaultSanitizer = sanitizer
		}
	}
}

// WithDefaultCache overrides the fallback cache provider used when none is supplied at call time.
func WithDefaultCache(cache interfaces.CacheProvider) ServiceOption {
	return func(s *Service) {
		if cache != nil {
			s.defaultCache = cache
		}
	}
}

// WithLogger attaches a logger used for structured diagnostics.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics wires the metrics recorder used for telemetry.
func WithMetrics(metrics interfaces.ShortcodeMetrics) ServiceOption {
	return func(s *Service) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

// WithParser overrides the Hugo-style parser used to extract shortcodes.
func WithParser(parser interfaces.ShortcodeParser) ServiceOption {
	return func(s *Service) {
		if parser != nil {
			s.parser = parser
		}
	}
}

// WithMarkdownParser supplies the parser used to pre-render the inner content
// of percent-delimited shortcodes before substitution.
func WithMarkdownParser(parser interfaces.MarkdownParser) ServiceOption {
	return func(s *Service) {
		if parser != nil {
			s.markdown = parser
		}
	}
}

// NewService constructs a shortcode service using the supplied registry and renderer.
func NewService(registry interfaces.ShortcodeRegistry, renderer interfaces.ShortcodeRenderer, opts ...ServiceOption) *Service {
	service := &Service{
		registry:         registry,
		renderer:         renderer,
		parser:           parserpkg.NewHugoParser(),
		defaultSanitizer: NewSanitizer(),
		logger:           logging.NoOp(),
		metrics:          NoOpMetrics(),
	}

	for _, opt := range opts {
		opt(service)
	}
	return service
}

// RenderContent renders any shortcodes found within the content string,
// substituting their HTML output in place of the invocations.
func (s *Service) RenderContent(ctx context.Context, content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return content, nil
	}
	if s.renderer == nil || s.parser == nil {
		return "", fmt.Errorf("shortcode: service not initialised")
	}

	logger := logging.WithFields(s.baseLogger(ctx), map[string]any{
		"operation": "shortcode.render_content",
	})

	transformed, parsed, err := s.parser.Extract(content)
	if err != nil {
		logging.WithFields(logger, map[string]any{
			"error": err,
		}).Error("shortcode.service.parse_failed")
		return "", err
	}
	if len(parsed) == 0 {
		return transformed, nil
	}

	shortcodeCtx := interfaces.ShortcodeContext{
		Context:   ctx,
		Cache:     s.defaultCache,
		Sanitizer: s.defaultSanitizer,
	}
	if shortcodeCtx.Context == nil {
		shortcodeCtx.Context = context.Background()
	}

	output := transformed
	for idx, sc := range parsed {
		inner, err := s.prepareInner(sc)
		if err != nil {
			return "", err
		}

		start := time.Now()
		rendered, err := s.renderer.Render(shortcodeCtx, sc.Name, sc.Params, inner)
		elapsed := time.Since(start)
		s.metrics.ObserveRenderDuration(sc.Name, elapsed)

		entryFields := map[string]any{
			"shortcode":   sc.Name,
			"index":       idx,
			"duration_ms": elapsed.Milliseconds(),
		}
		if err != nil {
			s.metrics.IncrementRenderError(sc.Name)
			entryFields["error"] = err
			logging.WithFields(logger, entryFields).Error("shortcode.service.render_failed")
			return "", err
		}
		logging.WithFields(logger, entryFields).Debug("shortcode.service.render_succeeded")

		placeholder := fmt.Sprintf(placeholderFormat, idx)
		output = strings.ReplaceAll(output, placeholder, string(rendered))
	}

	logging.WithFields(logger, map[string]any{
		"shortcodes": len(parsed),
	}).Debug("shortcode.service.render_content_completed")
	return output, nil
}

// prepareInner converts the inner content of percent-delimited (or Markdown
// flagged) shortcodes to HTML before the handler sees it, matching the Hugo
// distinction between {{% %}} and {{< >}}.
func (s *Service) prepareInner(sc interfaces.ParsedShortcode) (string, error) {
	if sc.Inner == "" || s.markdown == nil {
		return sc.Inner, nil
	}

	def, ok := s.registry.Get(sc.Name)
	if !ok {
		return sc.Inner, nil
	}
	if !sc.Percent && !def.Markdown {
		return sc.Inner, nil
	}

	html, err := s.markdown.Parse([]byte(strings.TrimSpace(sc.Inner)))
	if err != nil {
		return "", fmt.Errorf("shortcode: render inner markdown for %s: %w", sc.Name, err)
	}
	return strings.TrimSpace(string(html)), nil
}

// Render executes a single shortcode definition and returns the HTML output.
func (s *Service) Render(ctx interfaces.ShortcodeContext, shortcode string, params map[string]any, inner string) (template.HTML, error) {
	if s.renderer == nil {
		return "", fmt.Errorf("shortcode: service not initialised")
	}
	if ctx.Context == nil {
		ctx.Context = context.Background()
	}
	if ctx.Sanitizer == nil {
		ctx.Sanitizer = s.defaultSanitizer
	}
	if ctx.Cache == nil {
		ctx.Cache = s.defaultCache
	}

	logger := logging.WithFields(s.baseLogger(ctx.Context), map[string]any{
		"operation": "shortcode.render",
		"shortcode": shortcode,
	})

	start := time.Now()
	result, err := s.renderer.Render(ctx, shortcode, params, inner)
	elapsed := time.Since(start)
	s.metrics.ObserveRenderDuration(shortcode, elapsed)

	fields := map[string]any{
		"duration_ms": elapsed.Milliseconds(),
	}
	if err != nil {
		s.metrics.IncrementRenderError(shortcode)
		fields["error"] = err
		logging.WithFields(logger, fields).Error("shortcode.service.render_failed")
		return "", err
	}
	logging.WithFields(logger, fields).Debug("shortcode.service.render_succeeded")

	return result, nil
}

// Registry exposes the underlying shortcode registry.
func (s *Service) Registry() interfaces.ShortcodeRegistry {
	return s.registry
}

var _ interfaces.ShortcodeService = (*Service)(nil)

type noOpService struct{}

// NewNoOpService returns a shortcode service that leaves content untouched.
func NewNoOpService() interfaces.ShortcodeService {
	return noOpService{}
}

func (noOpService) RenderContent(_ context.Context, content string) (string, error) {
	return content, nil
}

func (noOpService) Registry() interfaces.ShortcodeRegistry { return nil }

func (s *Service) baseLogger(ctx context.Context) interfaces.Logger {
	logger := s.logger
	if logger == nil {
		logger = logging.NoOp()
	}
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	return logger
}
