package linkcheck

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// LinkKind classifies where a link points.
type LinkKind string

const (
	KindInternal LinkKind = "internal"
	KindExternal LinkKind = "external"
	KindAnchor   LinkKind = "anchor"
	KindMailto   LinkKind = "mailto"
)

// ExtractedLink is a single destination found in a document body.
type ExtractedLink struct {
	Destination string
	Image       bool
}

// extractLinks walks the Markdown AST of body and returns every link and
// image destination in document order. Shortcode placeholders and inline
// HTML are left alone; only Markdown link syntax is inspected.
func extractLinks(body []byte) ([]ExtractedLink, error) {
	engine := goldmark.New(goldmark.WithExtensions(extension.GFM))
	root := engine.Parser().Parse(text.NewReader(body))

	var links []ExtractedLink
	err := ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := node.(type) {
		case *ast.Link:
			links = append(links, ExtractedLink{Destination: string(n.Destination)})
		case *ast.Image:
			links = append(links, ExtractedLink{Destination: string(n.Destination), Image: true})
		case *ast.AutoLink:
			links = append(links, ExtractedLink{Destination: string(n.URL(body))})
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	return links, nil
}
