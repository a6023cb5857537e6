package sitecmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-blog/posts"
)

const (
	buildSiteMessageType  = "blog.site.build"
	lintSiteMessageType   = "blog.site.lint"
	checkLinksMessageType = "blog.site.check_links"
	newPostMessageType    = "blog.site.new_post"
)

// BuildSiteCommand triggers a full static build: load the content directory,
// assemble the site model, and render it into the output directory.
type BuildSiteCommand struct {
	// Sections optionally restricts the build to the named sections.
	Sections []string `json:"sections,omitempty"`
	// DryRun renders pages without writing artifacts.
	DryRun bool `json:"dry_run,omitempty"`
	// Clean removes the output directory before building.
	Clean bool `json:"clean,omitempty"`
	// IncludeDrafts pulls draft posts into the build.
	IncludeDrafts bool `json:"include_drafts,omitempty"`
	// IncludeFuture pulls future-dated posts into the build.
	IncludeFuture bool `json:"include_future,omitempty"`
}

// Type implements command.Message.
func (BuildSiteCommand) Type() string { return buildSiteMessageType }

// Validate rejects section filters that cannot name a content directory.
func (cmd BuildSiteCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Sections, validation.Each(validation.By(func(value any) error {
			section := strings.TrimSpace(value.(string))
			if section == "" {
				return validation.NewError("blog.site.build.section_empty", "section name is empty")
			}
			if strings.ContainsAny(section, "/\\") {
				return validation.NewError("blog.site.build.section_invalid", "section name must not contain path separators")
			}
			return nil
		}))),
	)
}

// LintSiteCommand runs the front matter and slug rules over the content
// directory without building anything.
type LintSiteCommand struct {
	// FailOnWarnings escalates warning findings to a command error.
	FailOnWarnings bool `json:"fail_on_warnings,omitempty"`
}

// Type implements command.Message.
func (LintSiteCommand) Type() string { return lintSiteMessageType }

// CheckLinksCommand verifies that internal Markdown links resolve to a known
// post, alias, or source file.
type CheckLinksCommand struct {
	// IncludeExternal records external destinations in the report.
	IncludeExternal bool `json:"include_external,omitempty"`
}

// Type implements command.Message.
func (CheckLinksCommand) Type() string { return checkLinksMessageType }

// NewPostCommand scaffolds a Markdown file with front matter in the content
// directory.
type NewPostCommand struct {
	// Title is the post title recorded in front matter.
	Title string `json:"title"`
	// Section selects the content subdirectory; defaults to the configured default section.
	Section string `json:"section,omitempty"`
	// Slug overrides the slug derived from the title.
	Slug string `json:"slug,omitempty"`
	// Tags pre-populates the tags list.
	Tags []string `json:"tags,omitempty"`
	// Draft marks the new post as a draft.
	Draft bool `json:"draft,omitempty"`
}

// Type implements command.Message.
func (NewPostCommand) Type() string { return newPostMessageType }

// Validate ensures the new post input is usable before handlers execute.
func (cmd NewPostCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Title, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("blog.site.new_post.title_required", "title is required")
			}
			return nil
		})),
		validation.Field(&cmd.Slug, validation.By(func(value any) error {
			slug := strings.TrimSpace(value.(string))
			if slug == "" {
				return nil
			}
			if !posts.IsValidSlug(slug) {
				return validation.NewError("blog.site.new_post.slug_invalid", "slug contains invalid characters")
			}
			return nil
		})),
	)
}
