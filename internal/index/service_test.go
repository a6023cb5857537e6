package index

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-blog/internal/identity"
	"github.com/goliatone/go-blog/internal/site"
	"github.com/goliatone/go-blog/posts"
)

func sampleSite() *site.Site {
	date := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	first := &posts.Post{
		ID:      identity.PostUUID("posts", "first"),
		Slug:    "first",
		Title:   "First",
		Section: "posts",
		Status:  posts.StatusPublished,
		Date:    date,
		Tags:    []string{"go"},
		Path:    "posts/first.md",
	}
	second := &posts.Post{
		ID:      identity.PostUUID("posts", "second"),
		Slug:    "second",
		Title:   "Second",
		Section: "posts",
		Status:  posts.StatusPublished,
		Date:    date.AddDate(0, 0, -7),
		Tags:    []string{"go", "web"},
		Path:    "posts/second.md",
	}

	return &site.Site{
		Title: "Test",
		Posts: []*posts.Post{first, second},
		Sections: map[string][]*posts.Post{
			"posts": {first, second},
		},
		Taxonomies: map[string][]*posts.Term{
			site.TaxonomyTags: {
				{
					ID:       identity.TermUUID(site.TaxonomyTags, "go"),
					Taxonomy: site.TaxonomyTags,
					Name:     "go",
					Slug:     "go",
					Posts:    []string{"first", "second"},
					Count:    2,
				},
				{
					ID:       identity.TermUUID(site.TaxonomyTags, "web"),
					Taxonomy: site.TaxonomyTags,
					Name:     "web",
					Slug:     "web",
					Posts:    []string{"second"},
					Count:    1,
				},
			},
		},
		GeneratedAt: date,
	}
}

func TestServiceRebuild_Memory(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryPostRepository(), NewMemoryTermRepository())

	if err := svc.Rebuild(ctx, sampleSite()); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	indexed, err := svc.Posts(ctx)
	if err != nil {
		t.Fatalf("Posts: %v", err)
	}
	if len(indexed) != 2 {
		t.Fatalf("expected 2 indexed posts, got %d", len(indexed))
	}

	post, err := svc.PostBySlug(ctx, "first")
	if err != nil {
		t.Fatalf("PostBySlug: %v", err)
	}
	if post.Title != "First" {
		t.Fatalf("unexpected post: %#v", post)
	}

	terms, err := svc.Terms(ctx)
	if err != nil {
		t.Fatalf("Terms: %v", err)
	}
	if len(terms) != 2 {
		t.Fatalf("expected 2 terms, got %d", len(terms))
	}
}

func TestServiceRebuild_ReplacesPrevious(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPostRepository()
	svc := NewService(repo, NewMemoryTermRepository())

	if err := svc.Rebuild(ctx, sampleSite()); err != nil {
		t.Fatalf("first Rebuild: %v", err)
	}

	smaller := sampleSite()
	smaller.Posts = smaller.Posts[:1]
	smaller.Taxonomies = nil
	if err := svc.Rebuild(ctx, smaller); err != nil {
		t.Fatalf("second Rebuild: %v", err)
	}

	indexed, err := svc.Posts(ctx)
	if err != nil {
		t.Fatalf("Posts: %v", err)
	}
	if len(indexed) != 1 {
		t.Fatalf("expected rebuild to replace index, got %d posts", len(indexed))
	}

	if _, err := svc.PostBySlug(ctx, "second"); !posts.IsNotFound(err) {
		t.Fatalf("expected NotFoundError for dropped post, got %v", err)
	}
}

func TestMemoryPostRepository_CloneSemantics(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPostRepository()

	original := sampleSite().Posts[0]
	if _, err := repo.Create(ctx, original); err != nil {
		t.Fatalf("Create: %v", err)
	}

	original.Tags[0] = "mutated"

	stored, err := repo.GetBySlug(ctx, "first")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if stored.Tags[0] != "go" {
		t.Fatalf("expected stored record isolated from caller mutation, got %v", stored.Tags)
	}
}
