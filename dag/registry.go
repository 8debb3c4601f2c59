package dag

import (
	"sort"
	"sync"
)

// Registry maps capability locators to unit builders. Capabilities are
// registered at initialization time; there is no runtime string-based
// module lookup.
type Registry struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{builders: make(map[string]Builder)}
}

// Register adds a capability builder to the registry. Registering the same
// capability twice overwrites the previous builder.
func (r *Registry) Register(capability string, b Builder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builders[capability] = b
}

// Get retrieves a builder by capability locator.
func (r *Registry) Get(capability string) (Builder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.builders[capability]
	return b, ok
}

// Has reports whether a capability is registered.
func (r *Registry) Has(capability string) bool {
	_, ok := r.Get(capability)
	return ok
}

// Capabilities returns sorted locators of all registered capabilities.
func (r *Registry) Capabilities() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
