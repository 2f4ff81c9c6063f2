package backend

import (
	"sync"

	"github.com/gogpu/zdraw"
)

// registry holds registered backends.
var (
	registryMu sync.RWMutex
	backends   = make(map[string]Factory)
	// Priority order for backend selection (first available wins).
	backendPriority = []string{BackendWgpu, BackendSoftware}
)

// Register registers a backend factory with the given name.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it will be replaced.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available returns a list of registered backend names.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// New creates a backend instance by name.
// Returns ErrBackendNotAvailable if the backend is not registered, or the
// factory's error if creation fails.
func New(name string, width, height int) (zdraw.RenderBackend, error) {
	registryMu.RLock()
	factory, ok := backends[name]
	registryMu.RUnlock()

	if !ok {
		return nil, ErrBackendNotAvailable
	}
	return factory(width, height)
}

// Default creates the best available backend based on priority.
// Priority order: wgpu > software. A backend whose factory fails is
// skipped with a warning, so a missing GPU degrades to the CPU path.
func Default(width, height int) (zdraw.RenderBackend, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	var lastErr error = ErrBackendNotAvailable
	for _, name := range backendPriority {
		factory, ok := backends[name]
		if !ok {
			continue
		}
		b, err := factory(width, height)
		if err != nil {
			zdraw.Logger().Warn("backend: factory failed, trying next", "backend", name, "err", err)
			lastErr = err
			continue
		}
		zdraw.Logger().Info("backend: selected", "backend", name)
		return b, nil
	}
	return nil, lastErr
}

// MustDefault creates the default backend or panics.
func MustDefault(width, height int) zdraw.RenderBackend {
	b, err := Default(width, height)
	if err != nil {
		panic("backend: no backend available: " + err.Error())
	}
	return b
}
