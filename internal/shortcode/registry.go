package shortcode

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

// DefinitionValidator checks a definition before the registry accepts it.
type DefinitionValidator interface {
	ValidateDefinition(def interfaces.ShortcodeDefinition) error
}

// Registry holds the shortcode catalogue for a site. Lookups are
// case-insensitive, so a post writing {{< YouTube >}} still resolves the
// youtube builtin. Safe for concurrent use.
type Registry struct {
	mu          sync.RWMutex
	definitions map[string]interfaces.ShortcodeDefinition
	validator   DefinitionValidator
}

// NewRegistry constructs an empty registry using the supplied validator.
func NewRegistry(validator DefinitionValidator) *Registry {
	return &Registry{
		definitions: make(map[string]interfaces.ShortcodeDefinition),
		validator:   validator,
	}
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register validates and stores a definition. A name can only be claimed
// once; builtins and site-provided shortcodes share the same namespace.
func (r *Registry) Register(def interfaces.ShortcodeDefinition) error {
	name := normalizeName(def.Name)
	if name == "" {
		return ErrInvalidDefinition
	}
	if r.validator != nil {
		if err := r.validator.ValidateDefinition(def); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.definitions[name]; taken {
		return ErrDuplicateDefinition
	}
	r.definitions[name] = def
	return nil
}

// Get resolves a definition by name.
func (r *Registry) Get(name string) (interfaces.ShortcodeDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.definitions[normalizeName(name)]
	return def, ok
}

// List returns the catalogue sorted by name.
func (r *Registry) List() []interfaces.ShortcodeDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]interfaces.ShortcodeDefinition, 0, len(r.definitions))
	for _, def := range r.definitions {
		result = append(result, def)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Remove drops a definition; removing an unknown name is a no-op.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.definitions, normalizeName(name))
}

var _ interfaces.ShortcodeRegistry = (*Registry)(nil)
