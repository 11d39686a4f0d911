package backend

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/batch"
)

var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
	// First entry that opens wins.
	priority = []string{WGPU, Software}
)

// Register adds a factory under name, replacing any previous one. It is
// normally called from an init function.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[name] = f
}

// Unregister removes name. Used by tests.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, name)
}

// Available returns the registered names in sorted order.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered reports whether name has a factory.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := factories[name]
	return ok
}

// Open creates the device registered under name.
func Open(name string, width, height int) (batch.Device, error) {
	registryMu.RLock()
	f, ok := factories[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrNotAvailable, name, Available())
	}
	dev, err := f(width, height)
	if err != nil {
		return nil, fmt.Errorf("backend: open %s: %w", name, err)
	}
	return dev, nil
}

// Default opens the first backend in priority order that succeeds, then
// any other registered backend. It returns the device and its name.
func Default(width, height int) (batch.Device, string, error) {
	tried := make(map[string]bool)
	order := append([]string(nil), priority...)
	order = append(order, Available()...)

	for _, name := range order {
		if tried[name] || !IsRegistered(name) {
			continue
		}
		tried[name] = true
		dev, err := Open(name, width, height)
		if err == nil {
			return dev, name, nil
		}
		batch.Logger().Warn("backend: falling back", "backend", name, "err", err)
	}
	return nil, "", ErrNotAvailable
}
