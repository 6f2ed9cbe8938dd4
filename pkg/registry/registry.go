package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/aretw0/pagedform/pkg/schema"
)

// Registry manages named field types that form definitions can refer to
// (e.g. `type: phone`). Names not registered fall back to schema.ParseType.
type Registry struct {
	mu    sync.RWMutex
	types map[string]schema.Type
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		types: make(map[string]schema.Type),
	}
}

// Register adds a type to the registry.
// If a type with the same name exists, it is overwritten.
func (r *Registry) Register(name string, t schema.Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[strings.TrimSpace(name)] = t
}

// Resolve looks up a type by name. Registered names win over built-ins.
// A trailing "!" marks the resolved type as required.
func (r *Registry) Resolve(name string) (schema.Type, error) {
	name = strings.TrimSpace(name)
	if base, ok := strings.CutSuffix(name, "!"); ok {
		t, err := r.Resolve(base)
		if err != nil {
			return nil, err
		}
		return schema.Required(t), nil
	}

	if r != nil {
		r.mu.RLock()
		t, ok := r.types[name]
		r.mu.RUnlock()
		if ok {
			return t, nil
		}
	}

	t, err := schema.ParseType(name)
	if err != nil {
		return nil, fmt.Errorf("field type not found: %s", name)
	}
	return t, nil
}

// Names returns the registered type names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
