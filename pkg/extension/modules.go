package extension

import (
	"context"
	"sync"
)

// Function is the signature for extension functions served in-process.
// The returned value becomes the reply and must be JSON-encodable.
type Function func(ctx context.Context, call Call) (any, error)

// Module groups functions by name, e.g. the DIY module or one connector's module.
type Module map[string]Function

// Modules is a registry of in-process modules, keyed by module name.
type Modules struct {
	mu   sync.RWMutex
	mods map[string]Module
}

func NewModules() *Modules { return &Modules{mods: map[string]Module{}} }

// Register adds fn to module, creating the module when needed.
func (m *Modules) Register(module, name string, fn Function) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mod, ok := m.mods[module]
	if !ok {
		mod = Module{}
		m.mods[module] = mod
	}
	mod[name] = fn
}

// RegisterModule replaces a whole module.
func (m *Modules) RegisterModule(module string, mod Module) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make(Module, len(mod))
	for k, v := range mod {
		cp[k] = v
	}
	m.mods[module] = cp
}

// Lookup returns the named function of a module.
func (m *Modules) Lookup(module, name string) (Function, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fn, ok := m.mods[module][name]
	return fn, ok
}

// Has reports whether a module is registered.
func (m *Modules) Has(module string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.mods[module]
	return ok
}

// Default is the process registry used by the fx wiring.
var Default = NewModules()

// Register makes fn available under module/name in the Default registry.
func Register(module, name string, fn Function) { Default.Register(module, name, fn) }
