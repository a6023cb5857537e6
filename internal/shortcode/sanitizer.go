package shortcode

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Sanitizer vets rendered shortcode markup before it is embedded in a page.
// Shortcodes like youtube and vimeo emit iframes with author-controlled
// attributes, so the post-render output gets the same scrutiny as raw HTML
// pasted into a post body.
type Sanitizer struct {
	schemes []string
}

// NewSanitizer returns a sanitizer that accepts http, https, and
// scheme-relative URLs.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{schemes: []string{"", "http", "https"}}
}

// Sanitize rejects markup carrying script tags or javascript URLs.
func (s *Sanitizer) Sanitize(html string) (string, error) {
	lower := strings.ToLower(html)
	switch {
	case strings.Contains(lower, "<script"):
		return "", fmt.Errorf("shortcode: script tags are not allowed")
	case strings.Contains(lower, "javascript:"):
		return "", fmt.Errorf("shortcode: javascript urls are not allowed")
	}
	return html, nil
}

// ValidateURL ensures the URL parses and uses an accepted scheme.
func (s *Sanitizer) ValidateURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}

	scheme := strings.ToLower(parsed.Scheme)
	for _, allowed := range s.schemes {
		if scheme == allowed {
			return nil
		}
	}
	return fmt.Errorf("shortcode: url scheme %q not permitted", parsed.Scheme)
}

// ValidateAttributes rejects inline event handlers like onload and onerror.
func (s *Sanitizer) ValidateAttributes(attrs map[string]any) error {
	for key := range attrs {
		if strings.HasPrefix(strings.ToLower(key), "on") {
			return fmt.Errorf("shortcode: attribute %q not permitted", key)
		}
	}
	return nil
}

var _ interfaces.ShortcodeSanitizer = (*Sanitizer)(nil)
