package template

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	orionerrors "github.com/orionvision/orion/internal/errors"
)

// Registry provides thread-safe access to scenario templates.
type Registry struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewRegistry creates a registry pre-populated with the built-in templates.
func NewRegistry() *Registry {
	r := &Registry{templates: make(map[string]*Template)}
	for _, t := range builtinTemplates() {
		r.templates[t.Name] = t
	}
	return r
}

// Get retrieves a template by name. The returned template is a clone, safe
// to mutate. Returns ErrTemplateNotFound if the name is unknown.
func (r *Registry) Get(name string) (*Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.templates[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", orionerrors.ErrTemplateNotFound, name)
	}
	return t.Clone(), nil
}

// Register adds or replaces a template. User templates loaded from disk
// shadow built-ins of the same name.
func (r *Registry) Register(t *Template) error {
	if t == nil || strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: template name", orionerrors.ErrEmptyValue)
	}
	if len(t.Steps) == 0 {
		return fmt.Errorf("%w: template %q has no steps", orionerrors.ErrEmptyValue, t.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[t.Name] = t.Clone()
	return nil
}

// Names returns the registered template names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns clones of all registered templates, sorted by name.
func (r *Registry) List() []*Template {
	names := r.Names()

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Template, 0, len(names))
	for _, name := range names {
		out = append(out, r.templates[name].Clone())
	}
	return out
}
