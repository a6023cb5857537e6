package shortcode

import (
	"fmt"
	"html/template"
	"time"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

// BuiltInDefinitions returns the core shortcode catalogue shipped with go-blog.
func BuiltInDefinitions() []interfaces.ShortcodeDefinition {
	return []interfaces.ShortcodeDefinition{
		noticeDefinition(),
		mermaidDefinition(),
		latexDefinition(),
		youTubeDefinition(),
		figureDefinition(),
		codeDefinition(),
	}
}

// noticeDefinition renders callout boxes. It is a percent-style shortcode:
// the inner content is Markdown and flows back through the renderer.
func noticeDefinition() interfaces.ShortcodeDefinition {
	validateKind := func(value any) error {
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("notice kind must be string")
		}
		switch str {
		case "note", "info", "tip", "warning":
			return nil
		default:
			return fmt.Errorf("notice kind %q not supported", str)
		}
	}

	return interfaces.ShortcodeDefinition{
		Name:        "notice",
		Version:     "1.0.0",
		Description: "Displays a callout box with Markdown body content",
		Category:    "content",
		Icon:        "notice",
		AllowInner:  true,
		Markdown:    true,
		Schema: interfaces.ShortcodeSchema{
			Params: []interfaces.ShortcodeParam{
				{
					Name:     "kind",
					Type:     interfaces.ShortcodeParamString,
					Default:  "note",
					Validate: validateKind,
				},
				{
					Name: "title",
					Type: interfaces.ShortcodeParamString,
				},
			},
		},
		Handler: func(_ interfaces.ShortcodeContext, params map[string]any, inner string) (template.HTML, error) {
			kind, _ := params["kind"].(string)
			title, _ := params["title"].(string)
			out := fmt.Sprintf(`<div class="notice notice--%s">`, template.HTMLEscapeString(kind))
			if title != "" {
				out += fmt.Sprintf(`<div class="notice__title">%s</div>`, template.HTMLEscapeString(title))
			}
			out += fmt.Sprintf(`<div class="notice__body">%s</div></div>`, inner)
			return template.HTML(out), nil
		},
	}
}

// mermaidDefinition wraps diagram source in the container the client-side
// mermaid.js runtime looks for. The source is escaped, never executed.
func mermaidDefinition() interfaces.ShortcodeDefinition {
	return interfaces.ShortcodeDefinition{
		Name:        "mermaid",
		Version:     "1.0.0",
		Description: "Mermaid diagram rendered client-side",
		Category:    "diagram",
		Icon:        "diagram",
		AllowInner:  true,
		CacheTTL:    time.Hour,
		Schema: interfaces.ShortcodeSchema{
			Params: []interfaces.ShortcodeParam{
				{
					Name:    "align",
					Type:    interfaces.ShortcodeParamString,
					Default: "center",
				},
			},
		},
		Template: `<div class="mermaid" style="text-align: {{ .align }};">{{ .Inner }}</div>`,
	}
}

// latexDefinition wraps math source for the client-side typesetter.
func latexDefinition() interfaces.ShortcodeDefinition {
	return interfaces.ShortcodeDefinition{
		Name:        "latex",
		Version:     "1.0.0",
		Description: "LaTeX math rendered client-side",
		Category:    "math",
		Icon:        "math",
		AllowInner:  true,
		CacheTTL:    time.Hour,
		Schema: interfaces.ShortcodeSchema{
			Params: []interfaces.ShortcodeParam{
				{
					Name:    "display",
					Type:    interfaces.ShortcodeParamBool,
					Default: true,
				},
			},
		},
		Template: `<div class="latex{{ if .display }} latex--display{{ end }}">{{ .Inner }}</div>`,
	}
}

func youTubeDefinition() interfaces.ShortcodeDefinition {
	return interfaces.ShortcodeDefinition{
		Name:        "youtube",
		Version:     "1.0.0",
		Description: "Embeds a responsive YouTube iframe player",
		Category:    "media",
		Icon:        "youtube",
		AllowInner:  false,
		CacheTTL:    time.Hour,
		Schema: interfaces.ShortcodeSchema{
			Params: []interfaces.ShortcodeParam{
				{
					Name:     "id",
					Type:     interfaces.ShortcodeParamString,
					Required: true,
				},
				{
					Name:    "start",
					Type:    interfaces.ShortcodeParamInt,
					Default: 0,
				},
				{
					Name:    "autoplay",
					Type:    interfaces.ShortcodeParamBool,
					Default: false,
				},
			},
		},
		Template: `{{- $start := printf "?start=%d" .start -}}
<div class="shortcode shortcode--youtube">
  <iframe src="https://www.youtube.com/embed/{{ .id }}{{ if gt .start 0 }}{{ $start }}{{ end }}{{ if .autoplay }}&autoplay=1{{ end }}" title="YouTube video" loading="lazy" allowfullscreen></iframe>
</div>`,
	}
}

func figureDefinition() interfaces.ShortcodeDefinition {
	return interfaces.ShortcodeDefinition{
		Name:        "figure",
		Version:     "1.0.0",
		Description: "Image figure with caption support",
		Category:    "media",
		Icon:        "figure",
		AllowInner:  false,
		Schema: interfaces.ShortcodeSchema{
			Params: []interfaces.ShortcodeParam{
				{
					Name:     "src",
					Type:     interfaces.ShortcodeParamString,
					Required: true,
				},
				{
					Name:    "alt",
					Type:    interfaces.ShortcodeParamString,
					Default: "",
				},
				{
					Name: "caption",
					Type: interfaces.ShortcodeParamString,
				},
			},
		},
		Template: `<figure class="shortcode shortcode--figure">
  <img src="{{ .src }}" alt="{{ .alt }}" loading="lazy" />
  {{ if .caption }}<figcaption>{{ .caption }}</figcaption>{{ end }}
</figure>`,
	}
}

func codeDefinition() interfaces.ShortcodeDefinition {
	return interfaces.ShortcodeDefinition{
		Name:        "code",
		Version:     "1.0.0",
		Description: "Syntax highlighted code block",
		Category:    "content",
		Icon:        "code",
		AllowInner:  true,
		Schema: interfaces.ShortcodeSchema{
			Params: []interfaces.ShortcodeParam{
				{
					Name:     "lang",
					Type:     interfaces.ShortcodeParamString,
					Required: true,
				},
				{
					Name: "title",
					Type: interfaces.ShortcodeParamString,
				},
				{
					Name:    "line_numbers",
					Type:    interfaces.ShortcodeParamBool,
					Default: true,
				},
			},
		},
		Template: `<div class="shortcode shortcode--code">
  {{ if .title }}<div class="shortcode__code-title">{{ .title }}</div>{{ end }}
  <pre class="shortcode__code-block language-{{ .lang }}{{ if .line_numbers }} shortcode__code-block--lines{{ end }}"><code>{{ .Inner }}</code></pre>
</div>`,
	}
}
