package simulation

import (
	"fmt"
	"sort"
	"sync"
)

// Registry manages the available boards.
type Registry struct {
	mu      sync.RWMutex
	factory map[string]func() Simulation
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factory: make(map[string]func() Simulation)}
}

// Register adds a board factory under name.
func (r *Registry) Register(name string, factory func() Simulation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factory[name]; exists {
		return fmt.Errorf("board %s already registered", name)
	}
	r.factory[name] = factory
	return nil
}

// Get returns a fresh instance of the named board.
func (r *Registry) Get(name string) (Simulation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, exists := r.factory[name]
	if !exists {
		return nil, fmt.Errorf("board %s not found", name)
	}
	return factory(), nil
}

// List returns all registered board names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factory))
	for name := range r.factory {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global board registry.
var DefaultRegistry = NewRegistry()
