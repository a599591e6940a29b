package uci

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Registry is the engine's option table. Its key set is fixed by the
// declarations the engine printed before acknowledging the handshake;
// afterwards only values change, and only through Engine.SetOption.
//
// Registry is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	values map[string]string
	decls  map[string]OptionDecl
	order  []string
	sealed bool
}

func newRegistry() *Registry {
	return &Registry{
		values: make(map[string]string),
		decls:  make(map[string]OptionDecl),
	}
}

// Get returns the current value of name.
func (r *Registry) Get(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[name]
	return v, ok
}

// Has reports whether the engine declared name.
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Declaration returns the parsed declaration of name.
func (r *Registry) Declaration(name string) (OptionDecl, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.decls[name]
	if ok {
		d.Vars = slices.Clone(d.Vars)
	}
	return d, ok
}

// Names returns the option names in declaration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// Snapshot returns a copy of all current values.
func (r *Registry) Snapshot() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.values)
}

// Len returns the number of declared options.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.values)
}

// declare records a declaration. It reports false once the registry is
// sealed. A repeated declaration replaces the earlier one.
func (r *Registry) declare(d OptionDecl) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return false
	}
	if _, exists := r.values[d.Name]; !exists {
		r.order = append(r.order, d.Name)
	}
	r.values[d.Name] = d.Default
	r.decls[d.Name] = d
	return true
}

// seal closes the bootstrap window.
func (r *Registry) seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

// checkKnown returns an ErrUnknownOption error for undeclared names.
func (r *Registry) checkKnown(name string) error {
	if !r.Has(name) {
		return fmt.Errorf("%w: %q", ErrUnknownOption, name)
	}
	return nil
}

// update stores value for an existing name. It never inserts.
func (r *Registry) update(name, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.values[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownOption, name)
	}
	r.values[name] = value
	return nil
}
