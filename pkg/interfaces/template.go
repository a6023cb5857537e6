package interfaces

import "io"

// TemplateRenderer renders named theme templates into HTML strings. When an
// optional writer is supplied the output is also streamed to it.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
}
