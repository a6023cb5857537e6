package index

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-blog/posts"
)

// EnsureSchema creates the post and term tables when they do not exist yet.
// The unique index backs slug conflict detection within a section.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*posts.Post)(nil),
		(*posts.Term)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("index schema: create table %T: %w", model, err)
		}
	}
	if _, err := db.ExecContext(ctx, "CREATE UNIQUE INDEX IF NOT EXISTS idx_posts_section_slug_unique ON posts(section, slug)"); err != nil {
		return fmt.Errorf("index schema: create unique slug index: %w", err)
	}
	return nil
}

// BunPostRepository persists posts through bun with optional read caching.
type BunPostRepository struct {
	db   *bun.DB
	repo repository.Repository[*posts.Post]
}

// NewBunPostRepository constructs an uncached repository.
func NewBunPostRepository(db *bun.DB) *BunPostRepository {
	return NewBunPostRepositoryWithCache(db, nil, nil)
}

// NewBunPostRepositoryWithCache wraps reads in the supplied cache service when provided.
func NewBunPostRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunPostRepository {
	base := NewPostRepository(db)
	return &BunPostRepository{
		db:   db,
		repo: wrapWithCache(base, cacheService, keySerializer),
	}
}

func (r *BunPostRepository) Create(ctx context.Context, record *posts.Post) (*posts.Post, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("post repository create: %w", err)
	}
	return created, nil
}

func (r *BunPostRepository) GetByID(ctx context.Context, id uuid.UUID) (*posts.Post, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapPostError(err, id, "")
	}
	return result, nil
}

func (r *BunPostRepository) GetBySlug(ctx context.Context, slug string) (*posts.Post, error) {
	result, err := r.repo.GetByIdentifier(ctx, slug)
	if err != nil {
		return nil, mapPostError(err, uuid.Nil, slug)
	}
	return result, nil
}

func (r *BunPostRepository) List(ctx context.Context) ([]*posts.Post, error) {
	records, _, err := r.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("post repository list: %w", err)
	}
	return records, nil
}

// Reset drops every indexed post ahead of a rebuild.
func (r *BunPostRepository) Reset(ctx context.Context) error {
	_, err := r.db.NewDelete().Model((*posts.Post)(nil)).Where("1 = 1").Exec(ctx)
	if err != nil {
		return fmt.Errorf("post repository reset: %w", err)
	}
	return nil
}

// BunTermRepository persists taxonomy terms through bun.
type BunTermRepository struct {
	db   *bun.DB
	repo repository.Repository[*posts.Term]
}

// NewBunTermRepository constructs an uncached repository.
func NewBunTermRepository(db *bun.DB) *BunTermRepository {
	return NewBunTermRepositoryWithCache(db, nil, nil)
}

// NewBunTermRepositoryWithCache wraps reads in the supplied cache service when provided.
func NewBunTermRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunTermRepository {
	base := NewTermRepository(db)
	return &BunTermRepository{
		db:   db,
		repo: wrapWithCache(base, cacheService, keySerializer),
	}
}

func (r *BunTermRepository) Create(ctx context.Context, record *posts.Term) (*posts.Term, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("term repository create: %w", err)
	}
	return created, nil
}

func (r *BunTermRepository) List(ctx context.Context) ([]*posts.Term, error) {
	records, _, err := r.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("term repository list: %w", err)
	}
	return records, nil
}

func (r *BunTermRepository) Reset(ctx context.Context) error {
	_, err := r.db.NewDelete().Model((*posts.Term)(nil)).Where("1 = 1").Exec(ctx)
	if err != nil {
		return fmt.Errorf("term repository reset: %w", err)
	}
	return nil
}

func mapPostError(err error, id uuid.UUID, slug string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &posts.NotFoundError{ID: id, Slug: slug}
	}
	return fmt.Errorf("post repository error: %w", err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}

var (
	_ PostRepository = (*BunPostRepository)(nil)
	_ TermRepository = (*BunTermRepository)(nil)
)
