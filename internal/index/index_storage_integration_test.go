package index_test

import (
	"context"
	"testing"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-blog/internal/identity"
	"github.com/goliatone/go-blog/internal/index"
	"github.com/goliatone/go-blog/internal/site"
	"github.com/goliatone/go-blog/pkg/testsupport"
	"github.com/goliatone/go-blog/posts"
)

func TestIndexService_WithBunStorageAndCache(t *testing.T) {
	ctx := context.Background()

	sqlDB, err := testsupport.NewSQLiteMemoryDB()
	if err != nil {
		t.Fatalf("new sqlite db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	bunDB := bun.NewDB(sqlDB, sqlitedialect.New())
	bunDB.SetMaxOpenConns(1)

	registerIndexModels(t, bunDB)

	cacheCfg := repocache.DefaultConfig()
	cacheCfg.TTL = time.Minute
	cacheService, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		t.Fatalf("new cache service: %v", err)
	}
	keySerializer := repocache.NewDefaultKeySerializer()

	postRepo := index.NewBunPostRepositoryWithCache(bunDB, cacheService, keySerializer)
	termRepo := index.NewBunTermRepositoryWithCache(bunDB, cacheService, keySerializer)

	svc := index.NewService(postRepo, termRepo)

	date := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	post := &posts.Post{
		ID:      identity.PostUUID("posts", "stored"),
		Slug:    "stored",
		Title:   "Stored Post",
		Section: "posts",
		Status:  posts.StatusPublished,
		Date:    date,
		Tags:    []string{"go"},
		Path:    "posts/stored.md",
	}
	model := &site.Site{
		Posts:    []*posts.Post{post},
		Sections: map[string][]*posts.Post{"posts": {post}},
		Taxonomies: map[string][]*posts.Term{
			site.TaxonomyTags: {
				{
					ID:       identity.TermUUID(site.TaxonomyTags, "go"),
					Taxonomy: site.TaxonomyTags,
					Name:     "go",
					Slug:     "go",
					Posts:    []string{"stored"},
					Count:    1,
				},
			},
		},
		GeneratedAt: date,
	}

	if err := svc.Rebuild(ctx, model); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	fetched, err := svc.PostBySlug(ctx, "stored")
	if err != nil {
		t.Fatalf("PostBySlug: %v", err)
	}
	if fetched.Title != "Stored Post" || fetched.Section != "posts" {
		t.Fatalf("unexpected stored post: %#v", fetched)
	}

	// second read goes through the cache layer
	if _, err := svc.PostBySlug(ctx, "stored"); err != nil {
		t.Fatalf("PostBySlug cached: %v", err)
	}

	if _, err := svc.PostBySlug(ctx, "missing"); !posts.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}

	terms, err := svc.Terms(ctx)
	if err != nil {
		t.Fatalf("Terms: %v", err)
	}
	if len(terms) != 1 || terms[0].Slug != "go" {
		t.Fatalf("unexpected terms: %#v", terms)
	}
}

func registerIndexModels(t *testing.T, db *bun.DB) {
	t.Helper()
	ctx := context.Background()
	models := []any{
		(*posts.Post)(nil),
		(*posts.Term)(nil),
	}

	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			t.Fatalf("create table %T: %v", model, err)
		}
	}
	if _, err := db.ExecContext(ctx, "CREATE UNIQUE INDEX IF NOT EXISTS idx_posts_section_slug_unique ON posts(section, slug)"); err != nil {
		t.Fatalf("create index idx_posts_section_slug_unique: %v", err)
	}
}
