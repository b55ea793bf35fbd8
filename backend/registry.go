package backend

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Factory opens a backend.
type Factory func(cfg Config) (Backend, error)

var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
	// Priority order for Open with no name (first that opens wins).
	priority = []string{NameWebGPU, NameNative, NameSoftware}
)

// Register registers a backend factory with the given name.
// It is typically called from init() functions in backend packages.
// A factory registered under an existing name replaces it.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[name] = factory
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, name)
}

// Available returns the registered backend names in sorted order.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := factories[name]
	return ok
}

// Open opens the named backend. With an empty name the registered backends
// are tried in priority order and the first one that opens is returned.
func Open(name string, cfg Config) (Backend, error) {
	if name != "" {
		registryMu.RLock()
		factory, ok := factories[name]
		registryMu.RUnlock()
		if !ok {
			return nil, fmt.Errorf("%w: %q (registered: %v)", ErrBackendNotAvailable, name, Available())
		}
		b, err := factory(cfg)
		if err != nil {
			return nil, fmt.Errorf("backend %s: %w", name, err)
		}
		return b, nil
	}

	registryMu.RLock()
	order := make([]Factory, 0, len(priority))
	for _, n := range priority {
		if f, ok := factories[n]; ok {
			order = append(order, f)
		}
	}
	registryMu.RUnlock()

	var errs []error
	for _, f := range order {
		b, err := f(cfg)
		if err == nil {
			return b, nil
		}
		errs = append(errs, err)
	}
	return nil, fmt.Errorf("%w: %w", ErrBackendNotAvailable, errors.Join(errs...))
}
