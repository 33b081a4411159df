package registry

import (
	"fmt"
	"sort"
)

type Component interface {
	any
}

// Registry maps names to components. Registration happens at construction time and is not
// synchronised; lookups are safe for concurrent use once registration is done.
type Registry[C Component] struct {
	kind       string
	components map[string]C
}

func NewRegistry[C Component](kind string) *Registry[C] {
	return &Registry[C]{
		kind:       kind,
		components: make(map[string]C),
	}
}

func (r *Registry[C]) Register(id string, component C) {
	if _, ok := r.components[id]; ok {
		panic(fmt.Sprintf("%s already registered: %s", r.kind, id))
	}
	r.components[id] = component
}

func (r *Registry[C]) Get(id string) (C, error) {
	component, ok := r.components[id]
	if !ok {
		var zero C
		return zero, fmt.Errorf("%s not found: %s", r.kind, id)
	}
	return component, nil
}

func (r *Registry[C]) Names() []string {
	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
