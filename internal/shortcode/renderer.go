package shortcode

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Renderer turns a parsed shortcode invocation into sanitised HTML. Output
// for definitions with a CacheTTL is memoised per page, which keeps repeated
// builds from re-rendering expensive shortcodes like mermaid diagrams.
type Renderer struct {
	registry  interfaces.ShortcodeRegistry
	validator *Validator
	sanitizer interfaces.ShortcodeSanitizer
	cache     interfaces.CacheProvider
}

// RendererOption configures the renderer instance.
type RendererOption func(*Renderer)

// WithRendererSanitizer overrides the default sanitizer.
func WithRendererSanitizer(s interfaces.ShortcodeSanitizer) RendererOption {
	return func(r *Renderer) {
		r.sanitizer = s
	}
}

// WithRendererCache supplies a cache provider used when definitions specify a CacheTTL.
func WithRendererCache(cache interfaces.CacheProvider) RendererOption {
	return func(r *Renderer) {
		r.cache = cache
	}
}

// NewRenderer constructs a renderer backed by the given registry and validator.
func NewRenderer(registry interfaces.ShortcodeRegistry, validator *Validator, opts ...RendererOption) *Renderer {
	r := &Renderer{
		registry:  registry,
		validator: validator,
		sanitizer: NewSanitizer(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render looks up the definition, coerces params, executes the handler or
// template, and sanitises the result.
func (r *Renderer) Render(ctx interfaces.ShortcodeContext, shortcode string, params map[string]any, inner string) (template.HTML, error) {
	def, ok := r.registry.Get(shortcode)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownShortcode, shortcode)
	}

	coerced, err := r.validator.CoerceParams(def, params)
	if err != nil {
		return "", err
	}

	cacheProvider := r.resolveCache(ctx)
	cacheable := cacheProvider != nil && def.CacheTTL > 0

	cacheKey := ""
	if cacheable {
		cacheKey = cacheKeyFor(ctx.Page, shortcode, coerced, inner)
		if cached, err := cacheProvider.Get(r.background(ctx.Context), cacheKey); err == nil {
			if cachedHTML, ok := cached.(string); ok {
				return template.HTML(cachedHTML), nil
			}
		}
	}

	output, err := r.execute(ctx, def, coerced, inner)
	if err != nil {
		return "", err
	}

	if sanitizer := r.resolveSanitizer(ctx); sanitizer != nil {
		output, err = sanitizer.Sanitize(output)
		if err != nil {
			return "", err
		}
	}

	if cacheable {
		_ = cacheProvider.Set(r.background(ctx.Context), cacheKey, output, def.CacheTTL)
	}

	return template.HTML(output), nil
}

func (r *Renderer) execute(ctx interfaces.ShortcodeContext, def interfaces.ShortcodeDefinition, params map[string]any, inner string) (string, error) {
	switch {
	case def.Handler != nil:
		result, err := def.Handler(ctx, params, inner)
		if err != nil {
			return "", err
		}
		return string(result), nil
	case def.Template != "":
		tmpl, err := template.New(def.Name).Parse(def.Template)
		if err != nil {
			return "", err
		}

		data := make(map[string]any, len(params)+1)
		for key, value := range params {
			data[key] = value
		}
		data["Inner"] = inner

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return "", err
		}
		return buf.String(), nil
	default:
		return "", fmt.Errorf("shortcode: definition %s has no handler or template", def.Name)
	}
}

func (r *Renderer) resolveSanitizer(ctx interfaces.ShortcodeContext) interfaces.ShortcodeSanitizer {
	if ctx.Sanitizer != nil {
		return ctx.Sanitizer
	}
	return r.sanitizer
}

func (r *Renderer) resolveCache(ctx interfaces.ShortcodeContext) interfaces.CacheProvider {
	if ctx.Cache != nil {
		return ctx.Cache
	}
	return r.cache
}

// cacheKeyFor hashes the page, shortcode name, sorted params, and inner
// content. Param order from the parser is not stable, the sort keeps
// identical invocations on the same key.
func cacheKeyFor(page, shortcode string, params map[string]any, inner string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var builder strings.Builder
	builder.WriteString(page)
	builder.WriteString("|")
	builder.WriteString(shortcode)
	for _, key := range keys {
		fmt.Fprintf(&builder, "|%s=%v", key, params[key])
	}
	builder.WriteString("|inner=")
	builder.WriteString(inner)

	sum := sha1.Sum([]byte(builder.String()))
	return "shortcode:" + hex.EncodeToString(sum[:])
}

func (r *Renderer) background(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

var _ interfaces.ShortcodeRenderer = (*Renderer)(nil)
