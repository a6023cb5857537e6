package index

import (
	"context"
	"fmt"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/site"
	"github.com/goliatone/go-blog/pkg/interfaces"
	"github.com/goliatone/go-blog/posts"
)

// Service maintains the queryable post index derived from an assembled site.
type Service struct {
	postRepo PostRepository
	termRepo TermRepository
	logger   interfaces.Logger
}

// ServiceOption customises index service construction.
type ServiceOption func(*Service)

// WithLogger attaches a logger used for structured diagnostics.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService constructs an index service over the supplied repositories.
func NewService(postRepo PostRepository, termRepo TermRepository, opts ...ServiceOption) *Service {
	svc := &Service{
		postRepo: postRepo,
		termRepo: termRepo,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Rebuild replaces the index contents with the posts and terms of the
// assembled site. The rebuild is not transactional: callers that need
// atomicity should wrap the repositories accordingly.
func (s *Service) Rebuild(ctx context.Context, model *site.Site) error {
	if model == nil {
		return fmt.Errorf("index: site is required")
	}

	logger := logging.WithFields(s.logger, map[string]any{
		"operation": "index.rebuild",
		"posts":     len(model.Posts),
	})

	if err := s.postRepo.Reset(ctx); err != nil {
		return err
	}
	if err := s.termRepo.Reset(ctx); err != nil {
		return err
	}

	for _, post := range model.Posts {
		if _, err := s.postRepo.Create(ctx, post); err != nil {
			return fmt.Errorf("index post %s: %w", post.Slug, err)
		}
	}

	var termCount int
	for _, terms := range model.Taxonomies {
		for _, term := range terms {
			if _, err := s.termRepo.Create(ctx, term); err != nil {
				return fmt.Errorf("index term %s/%s: %w", term.Taxonomy, term.Slug, err)
			}
			termCount++
		}
	}

	logging.WithFields(logger, map[string]any{
		"terms": termCount,
	}).Info("index.rebuild_completed")
	return nil
}

// PostBySlug fetches a single indexed post.
func (s *Service) PostBySlug(ctx context.Context, slug string) (*posts.Post, error) {
	return s.postRepo.GetBySlug(ctx, slug)
}

// Posts lists every indexed post.
func (s *Service) Posts(ctx context.Context) ([]*posts.Post, error) {
	return s.postRepo.List(ctx)
}

// Terms lists every indexed taxonomy term.
func (s *Service) Terms(ctx context.Context) ([]*posts.Term, error) {
	return s.termRepo.List(ctx)
}
