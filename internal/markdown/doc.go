// Package markdown implements the filesystem-backed Markdown workflows for a
// blog content repository: front-matter extraction, document discovery, and
// HTML rendering via goldmark. Shortcode expansion plugs in at the service
// level so document bodies reach the renderer with directives resolved.
package markdown
