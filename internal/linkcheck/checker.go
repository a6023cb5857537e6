package linkcheck

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
	"github.com/goliatone/go-blog/posts"
)

// Config controls validation behaviour for a check run.
type Config struct {
	// IncludeExternal records external destinations in the report. No network
	// requests are made either way; external links are inventoried, not
	// fetched.
	IncludeExternal bool
	// IgnorePatterns lists path.Match globs for destinations to skip.
	IgnorePatterns []string
	Logger         interfaces.Logger
}

// BrokenLink describes an internal destination that resolves to nothing.
type BrokenLink struct {
	SourcePath  string `json:"source_path"`
	Destination string `json:"destination"`
	Reason      string `json:"reason"`
}

func (b BrokenLink) String() string {
	return fmt.Sprintf("%s: %s (%s)", b.SourcePath, b.Destination, b.Reason)
}

// Report aggregates the findings of one link check run.
type Report struct {
	Documents int          `json:"documents"`
	Links     int          `json:"links"`
	Broken    []BrokenLink `json:"broken"`
	External  []string     `json:"external,omitempty"`
}

// HasBroken reports whether the run found unresolved internal links.
func (r *Report) HasBroken() bool {
	return len(r.Broken) > 0
}

// Checker resolves internal Markdown links against the document set.
type Checker struct {
	includeExternal bool
	ignorePatterns  []string
	logger          interfaces.Logger
}

// New constructs a checker from cfg.
func New(cfg Config) *Checker {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Checker{
		includeExternal: cfg.IncludeExternal,
		ignorePatterns:  cfg.IgnorePatterns,
		logger:          logger,
	}
}

// WithExternal returns a checker whose runs also collect external
// destinations when include is true. The receiver keeps its configuration.
func (c *Checker) WithExternal(include bool) *Checker {
	if c == nil || c.includeExternal == include {
		return c
	}
	clone := *c
	clone.includeExternal = include
	return &clone
}

// Check extracts every link from the documents and verifies that internal
// destinations resolve to a known permalink, alias, or source file.
func (c *Checker) Check(ctx context.Context, docs []*interfaces.Document) (*Report, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	targets := buildTargets(docs)
	report := &Report{Documents: len(docs)}
	external := map[string]struct{}{}

	for _, doc := range docs {
		links, err := extractLinks(doc.Body)
		if err != nil {
			return nil, fmt.Errorf("linkcheck: extract links from %s: %w", doc.FilePath, err)
		}
		report.Links += len(links)

		for _, link := range links {
			if c.ignored(link.Destination) {
				continue
			}
			switch classify(link.Destination) {
			case KindAnchor, KindMailto:
				continue
			case KindExternal:
				if c.includeExternal {
					external[link.Destination] = struct{}{}
				}
				continue
			}

			if reason, ok := targets.resolve(doc, link.Destination); !ok {
				report.Broken = append(report.Broken, BrokenLink{
					SourcePath:  doc.FilePath,
					Destination: link.Destination,
					Reason:      reason,
				})
			}
		}
	}

	for dest := range external {
		report.External = append(report.External, dest)
	}
	sort.Strings(report.External)

	logging.WithFields(c.logger, map[string]any{
		"operation": "linkcheck.run",
		"documents": report.Documents,
		"links":     report.Links,
		"broken":    len(report.Broken),
	}).Info("linkcheck.completed")

	return report, nil
}

func (c *Checker) ignored(dest string) bool {
	for _, pattern := range c.ignorePatterns {
		if ok, err := path.Match(pattern, dest); err == nil && ok {
			return true
		}
		if strings.HasPrefix(dest, pattern) {
			return true
		}
	}
	return false
}

// classify buckets a destination without touching the network.
func classify(dest string) LinkKind {
	trimmed := strings.TrimSpace(dest)
	switch {
	case strings.HasPrefix(trimmed, "#"):
		return KindAnchor
	case strings.HasPrefix(trimmed, "mailto:"):
		return KindMailto
	}
	if u, err := url.Parse(trimmed); err == nil && u.Scheme != "" {
		return KindExternal
	}
	return KindInternal
}

// linkTargets indexes every route a document can be reached through.
type linkTargets struct {
	// routes maps normalized permalinks and aliases to the owning file.
	routes map[string]string
	// files maps cleaned source paths to the owning file.
	files map[string]string
}

func buildTargets(docs []*interfaces.Document) *linkTargets {
	targets := &linkTargets{
		routes: map[string]string{},
		files:  map[string]string{},
	}

	for _, doc := range docs {
		slug := documentSlug(doc)
		if slug != "" {
			targets.routes[normalizeRoute("/"+doc.Section+"/"+slug+"/")] = doc.FilePath
			targets.routes[normalizeRoute("/"+doc.Section+"/")] = doc.FilePath
		}
		for _, alias := range doc.FrontMatter.Aliases {
			targets.routes[normalizeRoute(alias)] = doc.FilePath
		}
		targets.files[path.Clean(doc.FilePath)] = doc.FilePath
	}

	return targets
}

// resolve reports whether dest reaches a known document. Destinations ending
// in .md are resolved as file references relative to the linking document;
// everything else is matched against permalinks and aliases.
func (t *linkTargets) resolve(doc *interfaces.Document, dest string) (string, bool) {
	target := dest
	if i := strings.IndexAny(target, "#?"); i >= 0 {
		target = target[:i]
	}
	if target == "" {
		return "", true
	}

	if strings.HasSuffix(target, ".md") {
		resolved := target
		if !strings.HasPrefix(resolved, "/") {
			resolved = path.Join(path.Dir(doc.FilePath), resolved)
		} else {
			resolved = strings.TrimPrefix(resolved, "/")
		}
		if _, ok := t.files[path.Clean(resolved)]; ok {
			return "", true
		}
		return "no document at " + path.Clean(resolved), false
	}

	if _, ok := t.routes[normalizeRoute(target)]; ok {
		return "", true
	}
	return "no page answers " + normalizeRoute(target), false
}

func normalizeRoute(route string) string {
	trimmed := strings.TrimSpace(route)
	if trimmed == "" {
		return "/"
	}
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	if !strings.HasSuffix(trimmed, "/") {
		trimmed += "/"
	}
	return trimmed
}

func documentSlug(doc *interfaces.Document) string {
	if slug := strings.TrimSpace(doc.FrontMatter.Slug); slug != "" {
		return slug
	}
	base := path.Base(doc.FilePath)
	base = strings.TrimSuffix(base, path.Ext(base))
	if base == "" || base == "." {
		return ""
	}
	normalized, err := posts.NormalizeSlug(base)
	if err != nil {
		return base
	}
	return normalized
}
