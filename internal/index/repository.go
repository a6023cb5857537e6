package index

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-blog/posts"
)

// PostRepository is the storage contract for the site index.
type PostRepository interface {
	Create(ctx context.Context, record *posts.Post) (*posts.Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (*posts.Post, error)
	GetBySlug(ctx context.Context, slug string) (*posts.Post, error)
	List(ctx context.Context) ([]*posts.Post, error)
	Reset(ctx context.Context) error
}

// TermRepository stores aggregated taxonomy terms.
type TermRepository interface {
	Create(ctx context.Context, record *posts.Term) (*posts.Term, error)
	List(ctx context.Context) ([]*posts.Term, error)
	Reset(ctx context.Context) error
}

// NewPostRepository builds the bun-backed repository for posts.
func NewPostRepository(db *bun.DB) repository.Repository[*posts.Post] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*posts.Post]{
		NewRecord: func() *posts.Post { return &posts.Post{} },
		GetID: func(p *posts.Post) uuid.UUID {
			return p.ID
		},
		SetID: func(p *posts.Post, id uuid.UUID) {
			p.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(p *posts.Post) string {
			return p.Slug
		},
	})
}

// NewTermRepository builds the bun-backed repository for taxonomy terms.
func NewTermRepository(db *bun.DB) repository.Repository[*posts.Term] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*posts.Term]{
		NewRecord: func() *posts.Term { return &posts.Term{} },
		GetID: func(t *posts.Term) uuid.UUID {
			return t.ID
		},
		SetID: func(t *posts.Term, id uuid.UUID) {
			t.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(t *posts.Term) string {
			return t.Slug
		},
	})
}
