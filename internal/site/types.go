package site

import (
	"time"

	"github.com/goliatone/go-blog/posts"
)

// Site is the fully assembled content model for one build: every post ordered
// newest-first, grouped by section, with taxonomy terms aggregated.
type Site struct {
	Title       string
	BaseURL     string
	Description string
	Posts       []*posts.Post
	Sections    map[string][]*posts.Post
	Taxonomies  map[string][]*posts.Term
	GeneratedAt time.Time
}

// Taxonomy names aggregated during assembly.
const (
	TaxonomyTags       = "tags"
	TaxonomyCategories = "categories"
	TaxonomySeries     = "series"
)

// PostBySlug returns the post with the given slug, or nil.
func (s *Site) PostBySlug(slug string) *posts.Post {
	for _, post := range s.Posts {
		if post.Slug == slug {
			return post
		}
	}
	return nil
}

// Prev returns the next-older post within the same section, or nil.
func (s *Site) Prev(slug string) *posts.Post {
	ordered := s.sectionOf(slug)
	for i, post := range ordered {
		if post.Slug == slug && i+1 < len(ordered) {
			return ordered[i+1]
		}
	}
	return nil
}

// Next returns the next-newer post within the same section, or nil.
func (s *Site) Next(slug string) *posts.Post {
	ordered := s.sectionOf(slug)
	for i, post := range ordered {
		if post.Slug == slug && i > 0 {
			return ordered[i-1]
		}
	}
	return nil
}

// Related returns up to limit posts sharing the most tags with the given
// post, ordered by overlap then recency.
func (s *Site) Related(slug string, limit int) []*posts.Post {
	subject := s.PostBySlug(slug)
	if subject == nil || limit <= 0 {
		return nil
	}

	tagSet := make(map[string]struct{}, len(subject.Tags))
	for _, tag := range subject.Tags {
		tagSet[tag] = struct{}{}
	}

	type scored struct {
		post    *posts.Post
		overlap int
	}

	var candidates []scored
	for _, post := range s.Posts {
		if post.Slug == slug {
			continue
		}
		overlap := 0
		for _, tag := range post.Tags {
			if _, ok := tagSet[tag]; ok {
				overlap++
			}
		}
		if overlap > 0 {
			candidates = append(candidates, scored{post: post, overlap: overlap})
		}
	}

	// Posts arrive ordered newest-first, so a stable sort by overlap keeps
	// recency as the tie-breaker.
	for i := 1; i < len(candidates); i++ {
		for j := i; j > 0 && candidates[j].overlap > candidates[j-1].overlap; j-- {
			candidates[j], candidates[j-1] = candidates[j-1], candidates[j]
		}
	}

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	related := make([]*posts.Post, len(candidates))
	for i, c := range candidates {
		related[i] = c.post
	}
	return related
}

func (s *Site) sectionOf(slug string) []*posts.Post {
	subject := s.PostBySlug(slug)
	if subject == nil {
		return nil
	}
	return s.Sections[subject.Section]
}
