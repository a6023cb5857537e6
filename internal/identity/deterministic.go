package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// PostUUID derives the identifier for a post from its section and slug, so
// rebuilding a site from the same content tree yields stable IDs.
func PostUUID(section, slug string) uuid.UUID {
	return UUID("go-blog:post:" + strings.ToLower(strings.TrimSpace(section)) + ":" + strings.ToLower(strings.TrimSpace(slug)))
}

// TermUUID derives the identifier for a taxonomy term.
func TermUUID(taxonomy, name string) uuid.UUID {
	return UUID("go-blog:term:" + strings.ToLower(strings.TrimSpace(taxonomy)) + ":" + strings.ToLower(strings.TrimSpace(name)))
}

// SectionUUID derives the identifier for a content section.
func SectionUUID(name string) uuid.UUID {
	return UUID("go-blog:section:" + strings.ToLower(strings.TrimSpace(name)))
}
