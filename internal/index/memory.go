package index

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-blog/posts"
)

// MemoryPostRepository is an in-memory implementation for scaffolding and tests.
type MemoryPostRepository struct {
	mu        sync.RWMutex
	records   map[uuid.UUID]*posts.Post
	slugIndex map[string]uuid.UUID
}

// NewMemoryPostRepository creates an empty in-memory post repository.
func NewMemoryPostRepository() *MemoryPostRepository {
	return &MemoryPostRepository{
		records:   make(map[uuid.UUID]*posts.Post),
		slugIndex: make(map[string]uuid.UUID),
	}
}

func (m *MemoryPostRepository) Create(_ context.Context, record *posts.Post) (*posts.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := clonePost(record)
	m.records[copied.ID] = copied
	m.slugIndex[copied.Slug] = copied.ID
	return clonePost(copied), nil
}

func (m *MemoryPostRepository) GetByID(_ context.Context, id uuid.UUID) (*posts.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, &posts.NotFoundError{ID: id}
	}
	return clonePost(rec), nil
}

func (m *MemoryPostRepository) GetBySlug(_ context.Context, slug string) (*posts.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.slugIndex[slug]
	if !ok {
		return nil, &posts.NotFoundError{Slug: slug}
	}
	return clonePost(m.records[id]), nil
}

func (m *MemoryPostRepository) List(_ context.Context) ([]*posts.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*posts.Post, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, clonePost(rec))
	}
	return out, nil
}

func (m *MemoryPostRepository) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = make(map[uuid.UUID]*posts.Post)
	m.slugIndex = make(map[string]uuid.UUID)
	return nil
}

func clonePost(src *posts.Post) *posts.Post {
	if src == nil {
		return nil
	}

	copied := *src
	copied.Tags = append([]string(nil), src.Tags...)
	copied.Categories = append([]string(nil), src.Categories...)
	copied.Series = append([]string(nil), src.Series...)
	copied.Aliases = append([]string(nil), src.Aliases...)
	if src.Metadata != nil {
		copied.Metadata = make(map[string]any, len(src.Metadata))
		for key, value := range src.Metadata {
			copied.Metadata[key] = value
		}
	}
	return &copied
}

// MemoryTermRepository stores taxonomy terms in-memory.
type MemoryTermRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*posts.Term
}

// NewMemoryTermRepository constructs the repository.
func NewMemoryTermRepository() *MemoryTermRepository {
	return &MemoryTermRepository{
		records: make(map[uuid.UUID]*posts.Term),
	}
}

func (m *MemoryTermRepository) Create(_ context.Context, record *posts.Term) (*posts.Term, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneTerm(record)
	m.records[copied.ID] = copied
	return cloneTerm(copied), nil
}

func (m *MemoryTermRepository) List(_ context.Context) ([]*posts.Term, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*posts.Term, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, cloneTerm(rec))
	}
	return out, nil
}

func (m *MemoryTermRepository) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = make(map[uuid.UUID]*posts.Term)
	return nil
}

func cloneTerm(src *posts.Term) *posts.Term {
	if src == nil {
		return nil
	}
	copied := *src
	copied.Posts = append([]string(nil), src.Posts...)
	return &copied
}

var (
	_ PostRepository = (*MemoryPostRepository)(nil)
	_ TermRepository = (*MemoryTermRepository)(nil)
)
