package backend

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/metatex"
	"github.com/gogpu/metatex/bake"
)

var (
	registryMu sync.RWMutex
	backends   = make(map[string]Factory)
	// Priority order for Default (first available wins).
	backendPriority = []string{NameGPU, NameSoftware}
)

// Register registers a backend factory with the given name.
// Backend packages call it from init or from an explicit setup function.
// A factory registered under an existing name replaces it.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// Unregister removes a backend from the registry.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available returns the registered backend names in sorted order.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// Get creates the named backend.
func Get(name string) (bake.Backend, error) {
	registryMu.RLock()
	factory, ok := backends[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotAvailable, name)
	}
	b, err := factory()
	if err != nil {
		return nil, fmt.Errorf("backend %s: %w", name, err)
	}
	return b, nil
}

// Default creates the best available backend: gpu, then software, then any
// other registered backend in name order. Factories that fail are skipped.
func Default() (bake.Backend, error) {
	order := append([]string(nil), backendPriority...)
	for _, name := range Available() {
		if name != NameGPU && name != NameSoftware {
			order = append(order, name)
		}
	}

	for _, name := range order {
		if !IsRegistered(name) {
			continue
		}
		b, err := Get(name)
		if err != nil {
			metatex.Logger().Warn("backend: skipping unavailable backend", "name", name, "err", err)
			continue
		}
		return b, nil
	}
	return nil, ErrBackendNotAvailable
}
