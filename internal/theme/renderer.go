package theme

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/goliatone/go-blog/pkg/interfaces"
	"github.com/goliatone/go-blog/posts"
)

// ErrTemplateNotFound indicates that no built-in or override template matches
// the requested name.
var ErrTemplateNotFound = errors.New("theme: template not found")

// Config controls template resolution for a renderer.
type Config struct {
	// BaseURL is used by the absURL helper to build absolute links.
	BaseURL string
	// Overrides optionally supplies site templates layered over the
	// built-ins. Files are matched by base name (post.html, list.html, ...).
	Overrides fs.FS
	// Pattern selects override files; defaults to "*.html".
	Pattern string
}

// Renderer implements interfaces.TemplateRenderer over html/template with a
// set of built-in blog templates and optional per-site overrides.
type Renderer struct {
	templates map[string]*template.Template
	funcs     template.FuncMap
	mu        sync.RWMutex
}

// NewRenderer parses the built-in templates plus any overrides from cfg.
func NewRenderer(cfg Config) (*Renderer, error) {
	r := &Renderer{
		templates: map[string]*template.Template{},
		funcs:     helperFuncs(cfg.BaseURL),
	}

	for name, content := range builtInTemplates {
		tmpl, err := template.New(name).Funcs(r.funcs).Parse(content)
		if err != nil {
			return nil, fmt.Errorf("theme: parse built-in template %q: %w", name, err)
		}
		r.templates[name] = tmpl
	}

	if cfg.Overrides != nil {
		pattern := strings.TrimSpace(cfg.Pattern)
		if pattern == "" {
			pattern = "*.html"
		}
		matches, err := fs.Glob(cfg.Overrides, pattern)
		if err != nil {
			return nil, fmt.Errorf("theme: glob overrides: %w", err)
		}
		for _, match := range matches {
			content, err := fs.ReadFile(cfg.Overrides, match)
			if err != nil {
				return nil, fmt.Errorf("theme: read override %q: %w", match, err)
			}
			name := path.Base(match)
			tmpl, err := template.New(name).Funcs(r.funcs).Parse(string(content))
			if err != nil {
				return nil, fmt.Errorf("theme: parse override %q: %w", match, err)
			}
			r.templates[name] = tmpl
		}
	}

	return r, nil
}

// RenderTemplate renders the named template with data. When writers are
// supplied the output is streamed to them as well.
func (r *Renderer) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	r.mu.RLock()
	tmpl, ok := r.templates[name]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("theme: %q: %w", name, ErrTemplateNotFound)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("theme: execute template %q: %w", name, err)
	}

	rendered := buf.String()
	for _, w := range out {
		if w == nil {
			continue
		}
		if _, err := io.WriteString(w, rendered); err != nil {
			return rendered, fmt.Errorf("theme: write template output: %w", err)
		}
	}
	return rendered, nil
}

// RenderString parses and renders an ad hoc template with the same helper
// functions available to named templates.
func (r *Renderer) RenderString(templateContent string, data any, out ...io.Writer) (string, error) {
	tmpl, err := template.New("inline").Funcs(r.funcs).Parse(templateContent)
	if err != nil {
		return "", fmt.Errorf("theme: parse inline template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("theme: execute inline template: %w", err)
	}

	rendered := buf.String()
	for _, w := range out {
		if w == nil {
			continue
		}
		if _, err := io.WriteString(w, rendered); err != nil {
			return rendered, fmt.Errorf("theme: write template output: %w", err)
		}
	}
	return rendered, nil
}

// Has reports whether a template with the given name is registered.
func (r *Renderer) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.templates[name]
	return ok
}

func helperFuncs(baseURL string) template.FuncMap {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	return template.FuncMap{
		"safeHTML": func(value string) template.HTML {
			return template.HTML(value)
		},
		"deref": func(value *string) string {
			if value == nil {
				return ""
			}
			return *value
		},
		"title": func(value string) string {
			if value == "" {
				return value
			}
			return strings.ToUpper(value[:1]) + value[1:]
		},
		"absURL": func(route string) string {
			route = strings.TrimSpace(route)
			if route == "" {
				return base
			}
			if !strings.HasPrefix(route, "/") {
				route = "/" + route
			}
			return base + route
		},
		"termURL": func(taxonomy, name string) string {
			normalized, err := posts.NormalizeSlug(name)
			if err != nil || normalized == "" {
				normalized = strings.ToLower(strings.TrimSpace(name))
			}
			return "/" + taxonomy + "/" + normalized + "/"
		},
	}
}

var _ interfaces.TemplateRenderer = (*Renderer)(nil)
