package host

import (
	"fmt"
	"sort"
	"sync"

	"github.com/strandmedia/pluginhost/script"
)

// Registry maps plugin ids to their live script contexts. It is
// constructed explicitly and passed to the Loader, so tests can run against
// an isolated instance. Its lock is never held while a context mutex is
// acquired.
type Registry struct {
	mu      sync.Mutex
	plugins map[string]*script.Context
}

// NewRegistry creates an empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{plugins: make(map[string]*script.Context)}
}

func (reg *Registry) add(id string, ec *script.Context) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, exists := reg.plugins[id]; exists {
		return fmt.Errorf("plugin %q already loaded", id)
	}
	reg.plugins[id] = ec
	return nil
}

func (reg *Registry) remove(id string) *script.Context {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	ec := reg.plugins[id]
	delete(reg.plugins, id)
	return ec
}

// Lookup resolves a plugin id to its context, retaining it on behalf of the
// caller. The caller must Release the context when done.
func (reg *Registry) Lookup(id string) (*script.Context, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	ec, ok := reg.plugins[id]
	if !ok {
		return nil, false
	}
	return ec.Retain(), true
}

// Has reports whether a plugin id is currently registered.
func (reg *Registry) Has(id string) bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	_, ok := reg.plugins[id]
	return ok
}

// IDs returns the sorted ids of all registered plugins.
func (reg *Registry) IDs() []string {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	ids := make([]string, 0, len(reg.plugins))
	for id := range reg.plugins {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered plugins.
func (reg *Registry) Len() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.plugins)
}
