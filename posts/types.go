package posts

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Status enumerates the publication lifecycle of a post.
type Status string

const (
	// StatusDraft marks posts excluded from production builds.
	StatusDraft Status = "draft"
	// StatusScheduled marks posts whose publish date lies in the future.
	StatusScheduled Status = "scheduled"
	// StatusPublished marks posts included in production builds.
	StatusPublished Status = "published"
)

// Post is the canonical record for a blog entry backed by a Markdown file.
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:p"`

	ID          uuid.UUID      `bun:",pk,type:uuid"          json:"id"`
	Slug        string         `bun:"slug,notnull"           json:"slug"`
	Title       string         `bun:"title,notnull"          json:"title"`
	Summary     *string        `bun:"summary"                json:"summary,omitempty"`
	Section     string         `bun:"section,notnull"        json:"section"`
	Author      *string        `bun:"author"                 json:"author,omitempty"`
	Status      Status         `bun:"status,notnull,default:'draft'" json:"status"`
	Draft       bool           `bun:"draft,notnull,default:false"    json:"draft"`
	Date        time.Time      `bun:"date,nullzero"          json:"date"`
	Lastmod     time.Time      `bun:"lastmod,nullzero"       json:"lastmod"`
	Tags        []string       `bun:"tags,type:jsonb"        json:"tags,omitempty"`
	Categories  []string       `bun:"categories,type:jsonb"  json:"categories,omitempty"`
	Series      []string       `bun:"series,type:jsonb"      json:"series,omitempty"`
	Aliases     []string       `bun:"aliases,type:jsonb"     json:"aliases,omitempty"`
	Path        string         `bun:"path,notnull"           json:"path"`
	Checksum    string         `bun:"checksum,notnull"       json:"checksum"`
	WordCount   int            `bun:"word_count,notnull,default:0" json:"word_count"`
	ReadingTime int            `bun:"reading_time,notnull,default:0" json:"reading_time"`
	Body        string         `bun:"body,notnull"           json:"body"`
	BodyHTML    string         `bun:"body_html"              json:"body_html,omitempty"`
	Metadata    map[string]any `bun:"metadata,type:jsonb"    json:"metadata,omitempty"`
	CreatedAt   time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Permalink returns the canonical site-relative URL for the post.
func (p *Post) Permalink() string {
	if p.Section == "" {
		return "/" + p.Slug + "/"
	}
	return "/" + p.Section + "/" + p.Slug + "/"
}

// Published reports whether the post is visible at the supplied instant.
func (p *Post) Published(now time.Time) bool {
	if p.Draft {
		return false
	}
	return !p.Date.After(now)
}

// Term is a single taxonomy value (a tag, category, or series name) together
// with the slugs of the posts classified under it.
type Term struct {
	bun.BaseModel `bun:"table:terms,alias:t"`

	ID       uuid.UUID `bun:",pk,type:uuid"    json:"id"`
	Taxonomy string    `bun:"taxonomy,notnull" json:"taxonomy"`
	Name     string    `bun:"name,notnull"     json:"name"`
	Slug     string    `bun:"slug,notnull"     json:"slug"`
	Posts    []string  `bun:"posts,type:jsonb" json:"posts,omitempty"`
	Count    int       `bun:"count,notnull,default:0" json:"count"`
}

// FrontMatterSchema captures the JSON schema used to validate post front-matter.
var FrontMatterSchema = map[string]any{
	"type":     "object",
	"required": []string{"title", "date"},
	"properties": map[string]any{
		"title":   map[string]any{"type": "string", "minLength": 1},
		"slug":    map[string]any{"type": "string"},
		"summary": map[string]any{"type": "string"},
		"author":  map[string]any{"type": "string"},
		"date":    map[string]any{"type": "string"},
		"lastmod": map[string]any{"type": "string"},
		"draft":   map[string]any{"type": "boolean"},
		"tags": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"categories": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"series": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"aliases": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
	},
	"additionalProperties": true,
}
