// Package panel keeps at most one live panel per kind. Reopening a panel reveals the existing
// instance instead of constructing a second one.
package panel

import (
	"fmt"
	"sort"
	"sync"
)

// Panel is a UI surface owned by the registry.
type Panel interface {
	Kind() string
	Reveal()
	Dispose()
}

// Factory constructs the panel for a kind.
type Factory func() (Panel, error)

// Registry maps panel kinds to their live instances.
type Registry struct {
	mu        sync.Mutex
	factories map[string]Factory
	live      map[string]Panel
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		live:      make(map[string]Panel),
	}
}

// Register installs the factory for kind, replacing any previous one.
func (r *Registry) Register(kind string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[kind] = factory
}

// CreateOrShow reveals the live panel of kind, constructing it first when none exists.
// created reports whether a new instance was built.
func (r *Registry) CreateOrShow(kind string) (p Panel, created bool, err error) {
	r.mu.Lock()
	p, ok := r.live[kind]
	if !ok {
		factory, known := r.factories[kind]
		if !known {
			r.mu.Unlock()
			return nil, false, fmt.Errorf("unknown panel kind %q", kind)
		}
		if p, err = factory(); err != nil {
			r.mu.Unlock()
			return nil, false, fmt.Errorf("create %s panel: %w", kind, err)
		}
		r.live[kind] = p
		created = true
	}
	r.mu.Unlock()

	p.Reveal()
	return p, created, nil
}

// Get returns the live panel of kind without revealing it.
func (r *Registry) Get(kind string) (Panel, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.live[kind]
	return p, ok
}

// Dispose closes the live panel of kind; the next CreateOrShow builds a fresh one.
func (r *Registry) Dispose(kind string) {
	r.mu.Lock()
	p, ok := r.live[kind]
	delete(r.live, kind)
	r.mu.Unlock()
	if ok {
		p.Dispose()
	}
}

// DisposeAll closes every live panel.
func (r *Registry) DisposeAll() {
	for _, kind := range r.Kinds() {
		r.Dispose(kind)
	}
}

// Kinds lists the live panel kinds in sorted order.
func (r *Registry) Kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]string, 0, len(r.live))
	for k := range r.live {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
