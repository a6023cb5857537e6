package posts

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrTitleRequired     = errors.New("posts: title is required")
	ErrDateRequired      = errors.New("posts: date is required")
	ErrSlugRequired      = errors.New("posts: slug is required")
	ErrSlugInvalid       = errors.New("posts: slug contains invalid characters")
	ErrSlugExists        = errors.New("posts: slug already exists")
	ErrPathRequired      = errors.New("posts: source path is required")
	ErrSectionUnknown    = errors.New("posts: unknown section")
	ErrFrontMatterInvalid = errors.New("posts: front matter validation failed")
	ErrAliasConflict     = errors.New("posts: alias collides with an existing permalink")
)

// NotFoundError indicates a post lookup failed.
type NotFoundError struct {
	ID   uuid.UUID
	Slug string
}

func (e *NotFoundError) Error() string {
	if e.Slug != "" {
		return fmt.Sprintf("posts: post %q not found", e.Slug)
	}
	return fmt.Sprintf("posts: post %s not found", e.ID)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}
