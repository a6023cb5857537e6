package lint

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-blog/internal/shortcode/parser"
	"github.com/goliatone/go-blog/pkg/interfaces"
	"github.com/goliatone/go-blog/posts"
)

// Rule inspects a single document and reports findings.
type Rule interface {
	Name() string
	Check(doc *interfaces.Document) []Issue
}

// SetRule inspects the full document set, for findings that only make sense
// across posts (duplicate slugs, alias collisions).
type SetRule interface {
	Name() string
	CheckSet(docs []*interfaces.Document) []Issue
}

type titleRule struct{}

func (titleRule) Name() string { return "title-required" }

func (r titleRule) Check(doc *interfaces.Document) []Issue {
	if strings.TrimSpace(doc.FrontMatter.Title) == "" {
		return []Issue{{
			Rule:     r.Name(),
			Severity: SeverityError,
			Path:     doc.FilePath,
			Message:  "front matter is missing a title",
		}}
	}
	return nil
}

type dateRule struct {
	required bool
}

func (dateRule) Name() string { return "date-required" }

func (r dateRule) Check(doc *interfaces.Document) []Issue {
	if !r.required || !doc.FrontMatter.Date.IsZero() {
		return nil
	}
	return []Issue{{
		Rule:     r.Name(),
		Severity: SeverityError,
		Path:     doc.FilePath,
		Message:  "front matter is missing a date",
	}}
}

type slugRule struct {
	required bool
}

func (slugRule) Name() string { return "slug-valid" }

func (r slugRule) Check(doc *interfaces.Document) []Issue {
	slug := strings.TrimSpace(doc.FrontMatter.Slug)
	if slug == "" {
		if !r.required {
			return nil
		}
		return []Issue{{
			Rule:     r.Name(),
			Severity: SeverityError,
			Path:     doc.FilePath,
			Message:  "front matter is missing a slug",
		}}
	}
	if !posts.IsValidSlug(slug) {
		return []Issue{{
			Rule:     r.Name(),
			Severity: SeverityError,
			Path:     doc.FilePath,
			Message:  fmt.Sprintf("slug %q contains invalid characters", slug),
		}}
	}
	return nil
}

type summaryRule struct {
	maxWords int
}

func (summaryRule) Name() string { return "summary-length" }

func (r summaryRule) Check(doc *interfaces.Document) []Issue {
	if r.maxWords <= 0 {
		return nil
	}
	words := len(strings.Fields(doc.FrontMatter.Summary))
	if words <= r.maxWords {
		return nil
	}
	return []Issue{{
		Rule:     r.Name(),
		Severity: SeverityWarning,
		Path:     doc.FilePath,
		Message:  fmt.Sprintf("summary runs %d words, cap is %d", words, r.maxWords),
	}}
}

type lastmodRule struct{}

func (lastmodRule) Name() string { return "lastmod-order" }

func (r lastmodRule) Check(doc *interfaces.Document) []Issue {
	fm := doc.FrontMatter
	if fm.Date.IsZero() || fm.Lastmod.IsZero() || !fm.Lastmod.Before(fm.Date) {
		return nil
	}
	return []Issue{{
		Rule:     r.Name(),
		Severity: SeverityWarning,
		Path:     doc.FilePath,
		Message:  "lastmod predates the publication date",
	}}
}

type schemaRule struct {
	schema *jsonschema.Schema
}

func newSchemaRule() (*schemaRule, error) {
	raw, err := json.Marshal(posts.FrontMatterSchema)
	if err != nil {
		return nil, fmt.Errorf("lint: marshal front matter schema: %w", err)
	}
	compiled, err := jsonschema.CompileString("frontmatter.json", string(raw))
	if err != nil {
		return nil, fmt.Errorf("lint: compile front matter schema: %w", err)
	}
	return &schemaRule{schema: compiled}, nil
}

func (schemaRule) Name() string { return "front-matter-schema" }

func (r schemaRule) Check(doc *interfaces.Document) []Issue {
	// Round-trip through JSON so time.Time values become strings the schema
	// understands.
	raw, err := json.Marshal(doc.FrontMatter.Raw)
	if err != nil {
		return []Issue{{
			Rule:     r.Name(),
			Severity: SeverityError,
			Path:     doc.FilePath,
			Message:  fmt.Sprintf("front matter is not serialisable: %v", err),
		}}
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return []Issue{{
			Rule:     r.Name(),
			Severity: SeverityError,
			Path:     doc.FilePath,
			Message:  fmt.Sprintf("front matter is not serialisable: %v", err),
		}}
	}

	if err := r.schema.Validate(value); err != nil {
		return []Issue{{
			Rule:     r.Name(),
			Severity: SeverityError,
			Path:     doc.FilePath,
			Message:  fmt.Sprintf("front matter schema violation: %v", err),
		}}
	}
	return nil
}

// knownTaxonomies maps common misspellings in raw front matter to the
// taxonomy the author almost certainly meant.
var knownTaxonomies = []struct {
	key       string
	canonical string
}{
	{"tag", "tags"},
	{"category", "categories"},
	{"serie", "series"},
}

type taxonomyRule struct{}

func (taxonomyRule) Name() string { return "taxonomy-known" }

func (r taxonomyRule) Check(doc *interfaces.Document) []Issue {
	var issues []Issue

	values := []struct {
		taxonomy string
		entries  []string
	}{
		{"tags", doc.FrontMatter.Tags},
		{"categories", doc.FrontMatter.Categories},
		{"series", doc.FrontMatter.Series},
	}
	for _, group := range values {
		for _, entry := range group.entries {
			if strings.TrimSpace(entry) == "" {
				issues = append(issues, Issue{
					Rule:     r.Name(),
					Severity: SeverityWarning,
					Path:     doc.FilePath,
					Message:  fmt.Sprintf("%s contains an empty value", group.taxonomy),
				})
			}
		}
	}

	for _, candidate := range knownTaxonomies {
		if _, ok := doc.FrontMatter.Raw[candidate.key]; ok {
			issues = append(issues, Issue{
				Rule:     r.Name(),
				Severity: SeverityWarning,
				Path:     doc.FilePath,
				Message:  fmt.Sprintf("unknown taxonomy %q, did you mean %q", candidate.key, candidate.canonical),
			})
		}
	}
	return issues
}

type noticeTodoRule struct {
	parser *parser.HugoParser
}

func (noticeTodoRule) Name() string { return "notice-todo" }

func (r noticeTodoRule) Check(doc *interfaces.Document) []Issue {
	shortcodes, err := r.parser.Parse(string(doc.Body))
	if err != nil {
		return nil
	}
	var issues []Issue
	for _, sc := range shortcodes {
		if sc.Name != "notice" {
			continue
		}
		if strings.Contains(sc.Inner, "TODO") {
			issues = append(issues, Issue{
				Rule:     r.Name(),
				Severity: SeverityWarning,
				Path:     doc.FilePath,
				Message:  "notice shortcode still carries a TODO marker",
			})
		}
	}
	return issues
}

type duplicateSlugRule struct{}

func (duplicateSlugRule) Name() string { return "duplicate-slug" }

func (r duplicateSlugRule) CheckSet(docs []*interfaces.Document) []Issue {
	var issues []Issue
	seen := map[string]string{}
	for _, doc := range docs {
		slug := strings.TrimSpace(doc.FrontMatter.Slug)
		if slug == "" {
			continue
		}
		key := doc.Section + "/" + slug
		if first, dup := seen[key]; dup {
			issues = append(issues, Issue{
				Rule:     r.Name(),
				Severity: SeverityError,
				Path:     doc.FilePath,
				Message:  fmt.Sprintf("slug %q already used by %s", slug, first),
			})
			continue
		}
		seen[key] = doc.FilePath
	}
	return issues
}

type aliasConflictRule struct{}

func (aliasConflictRule) Name() string { return "alias-conflict" }

func (r aliasConflictRule) CheckSet(docs []*interfaces.Document) []Issue {
	permalinks := map[string]string{}
	for _, doc := range docs {
		slug := strings.TrimSpace(doc.FrontMatter.Slug)
		if slug == "" {
			continue
		}
		permalinks["/"+doc.Section+"/"+slug+"/"] = doc.FilePath
	}

	var issues []Issue
	for _, doc := range docs {
		for _, alias := range doc.FrontMatter.Aliases {
			normalized := normalizeAlias(alias)
			if owner, clash := permalinks[normalized]; clash && owner != doc.FilePath {
				issues = append(issues, Issue{
					Rule:     r.Name(),
					Severity: SeverityError,
					Path:     doc.FilePath,
					Message:  fmt.Sprintf("alias %q collides with the permalink of %s", alias, owner),
				})
			}
		}
	}
	return issues
}

func normalizeAlias(alias string) string {
	trimmed := strings.TrimSpace(alias)
	if trimmed == "" {
		return trimmed
	}
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	if !strings.HasSuffix(trimmed, "/") {
		trimmed += "/"
	}
	return trimmed
}
