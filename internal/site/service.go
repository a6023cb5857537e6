package site

import (
	"context"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-blog/internal/identity"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
	"github.com/goliatone/go-blog/posts"
)

// Config controls site assembly behaviour.
type Config struct {
	Title       string
	BaseURL     string
	Description string
	// DefaultAuthor is applied to posts without an author in front matter.
	DefaultAuthor string
	// IncludeDrafts keeps draft posts in the assembled site.
	IncludeDrafts bool
	// IncludeFuture keeps posts dated after the build instant.
	IncludeFuture bool
	// SummaryWords caps auto-generated summaries (defaults to 70 words).
	SummaryWords int
	// WordsPerMinute calibrates reading time estimates (defaults to 200).
	WordsPerMinute int
	// Now supplies the build instant, overridable in tests.
	Now    func() time.Time
	Logger interfaces.Logger
}

// Service assembles parsed Markdown documents into a Site model.
type Service struct {
	cfg    Config
	logger interfaces.Logger
}

// NewService constructs a site assembly service.
func NewService(cfg Config) *Service {
	if cfg.SummaryWords <= 0 {
		cfg.SummaryWords = 70
	}
	if cfg.WordsPerMinute <= 0 {
		cfg.WordsPerMinute = 200
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}

	return &Service{cfg: cfg, logger: logger}
}

// Assemble converts documents into posts, applies draft and future filtering,
// orders everything newest-first, and aggregates taxonomy terms. Duplicate
// slugs within a section abort the build.
func (s *Service) Assemble(ctx context.Context, docs []*interfaces.Document) (*Site, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	now := s.cfg.Now().UTC()
	logger := logging.WithFields(s.logger, map[string]any{
		"operation": "site.assemble",
		"documents": len(docs),
	})

	seen := make(map[string]string, len(docs))
	assembled := make([]*posts.Post, 0, len(docs))
	var skippedDrafts, skippedFuture int

	for _, doc := range docs {
		post, err := s.buildPost(doc, now)
		if err != nil {
			return nil, err
		}

		key := post.Section + "/" + post.Slug
		if existing, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: %s used by %s and %s", posts.ErrSlugExists, post.Slug, existing, post.Path)
		}
		seen[key] = post.Path

		if post.Status == posts.StatusDraft && !s.cfg.IncludeDrafts {
			skippedDrafts++
			continue
		}
		if post.Status == posts.StatusScheduled && !s.cfg.IncludeFuture {
			skippedFuture++
			continue
		}

		assembled = append(assembled, post)
	}

	sort.SliceStable(assembled, func(i, j int) bool {
		if !assembled[i].Date.Equal(assembled[j].Date) {
			return assembled[i].Date.After(assembled[j].Date)
		}
		return assembled[i].Title < assembled[j].Title
	})

	sections := make(map[string][]*posts.Post)
	for _, post := range assembled {
		sections[post.Section] = append(sections[post.Section], post)
	}

	result := &Site{
		Title:       s.cfg.Title,
		BaseURL:     strings.TrimRight(s.cfg.BaseURL, "/"),
		Description: s.cfg.Description,
		Posts:       assembled,
		Sections:    sections,
		Taxonomies:  buildTaxonomies(assembled),
		GeneratedAt: now,
	}

	logging.WithFields(logger, map[string]any{
		"posts":          len(assembled),
		"skipped_drafts": skippedDrafts,
		"skipped_future": skippedFuture,
		"sections":       len(sections),
	}).Info("site.assemble_completed")

	return result, nil
}

func (s *Service) buildPost(doc *interfaces.Document, now time.Time) (*posts.Post, error) {
	fm := doc.FrontMatter

	if strings.TrimSpace(fm.Title) == "" {
		return nil, fmt.Errorf("%w: %s", posts.ErrTitleRequired, doc.FilePath)
	}

	slug := strings.TrimSpace(fm.Slug)
	if slug == "" {
		base := strings.TrimSuffix(filepath.Base(doc.FilePath), filepath.Ext(doc.FilePath))
		normalized, err := posts.NormalizeSlug(base)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", posts.ErrSlugInvalid, doc.FilePath, err)
		}
		slug = normalized
	} else if !posts.IsValidSlug(slug) {
		return nil, fmt.Errorf("%w: %s: %q", posts.ErrSlugInvalid, doc.FilePath, slug)
	}

	body := string(doc.Body)
	words := len(strings.Fields(body))
	readingTime := (words + s.cfg.WordsPerMinute - 1) / s.cfg.WordsPerMinute
	if readingTime < 1 {
		readingTime = 1
	}

	status := posts.StatusPublished
	switch {
	case fm.Draft:
		status = posts.StatusDraft
	case !fm.Date.IsZero() && fm.Date.After(now):
		status = posts.StatusScheduled
	}

	lastmod := fm.Lastmod
	if lastmod.IsZero() {
		lastmod = doc.LastModified
	}

	post := &posts.Post{
		ID:          identity.PostUUID(doc.Section, slug),
		Slug:        slug,
		Title:       fm.Title,
		Section:     doc.Section,
		Status:      status,
		Draft:       fm.Draft,
		Date:        fm.Date,
		Lastmod:     lastmod,
		Tags:        append([]string(nil), fm.Tags...),
		Categories:  append([]string(nil), fm.Categories...),
		Series:      append([]string(nil), fm.Series...),
		Aliases:     append([]string(nil), fm.Aliases...),
		Path:        doc.FilePath,
		Checksum:    hex.EncodeToString(doc.Checksum),
		WordCount:   words,
		ReadingTime: readingTime,
		Body:        body,
		BodyHTML:    string(doc.BodyHTML),
		Metadata:    fm.Custom,
	}

	if summary := s.resolveSummary(fm, body); summary != "" {
		post.Summary = &summary
	}
	author := strings.TrimSpace(fm.Author)
	if author == "" {
		author = s.cfg.DefaultAuthor
	}
	if author != "" {
		post.Author = &author
	}

	return post, nil
}

// resolveSummary prefers explicit front matter, falling back to a truncated
// first paragraph of the body.
func (s *Service) resolveSummary(fm interfaces.FrontMatter, body string) string {
	if summary := strings.TrimSpace(fm.Summary); summary != "" {
		return summary
	}

	paragraph := firstParagraph(body)
	if paragraph == "" {
		return ""
	}

	words := strings.Fields(paragraph)
	if len(words) <= s.cfg.SummaryWords {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:s.cfg.SummaryWords], " ") + "…"
}

func firstParagraph(body string) string {
	for _, block := range strings.Split(body, "\n\n") {
		trimmed := strings.TrimSpace(block)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "{{") {
			continue
		}
		return trimmed
	}
	return ""
}

func buildTaxonomies(assembled []*posts.Post) map[string][]*posts.Term {
	taxonomies := map[string][]*posts.Term{}
	accumulate := func(taxonomy string, values []string, post *posts.Post) {
		for _, value := range values {
			name := strings.TrimSpace(value)
			if name == "" {
				continue
			}
			term := findTerm(taxonomies[taxonomy], name)
			if term == nil {
				slug, err := posts.NormalizeSlug(name)
				if err != nil {
					slug = strings.ToLower(name)
				}
				term = &posts.Term{
					ID:       identity.TermUUID(taxonomy, name),
					Taxonomy: taxonomy,
					Name:     name,
					Slug:     slug,
				}
				taxonomies[taxonomy] = append(taxonomies[taxonomy], term)
			}
			term.Posts = append(term.Posts, post.Slug)
			term.Count++
		}
	}

	for _, post := range assembled {
		accumulate(TaxonomyTags, post.Tags, post)
		accumulate(TaxonomyCategories, post.Categories, post)
		accumulate(TaxonomySeries, post.Series, post)
	}

	for _, terms := range taxonomies {
		sort.Slice(terms, func(i, j int) bool {
			return terms[i].Name < terms[j].Name
		})
	}
	return taxonomies
}

func findTerm(terms []*posts.Term, name string) *posts.Term {
	for _, term := range terms {
		if strings.EqualFold(term.Name, name) {
			return term
		}
	}
	return nil
}
