package deps

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// Function is a helper callable from rule expressions through
// call("name", args...).
type Function func(args ...any) (any, error)

var registrySeq atomic.Uint64

// FunctionRegistry stores rule helpers keyed by case-insensitive name.
//
// Compiled programs bind the helpers of the registry they were compiled
// with, so every registry carries an identity and a version that program
// caches fold into their keys.
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]Function
	id        uint64
	version   uint64
}

// NewFunctionRegistry constructs an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{
		functions: make(map[string]Function),
		id:        registrySeq.Add(1),
	}
}

// Register stores fn under name guarding against duplicates.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("deps: function name must not be empty")
	}
	if fn == nil {
		return fmt.Errorf("deps: function %q is nil", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.functions == nil {
		r.functions = make(map[string]Function)
	}
	if r.id == 0 {
		r.id = registrySeq.Add(1)
	}
	key := strings.ToLower(name)
	if _, exists := r.functions[key]; exists {
		return fmt.Errorf("deps: function %q already registered", name)
	}
	r.functions[key] = fn
	r.version++
	return nil
}

// Fingerprint identifies the function set a program compiled against r
// would bind. It is empty when r holds no functions, changes on every
// Register, and differs between registries, clones included.
func (r *FunctionRegistry) Fingerprint() string {
	if r == nil {
		return ""
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.functions) == 0 {
		return ""
	}
	return fmt.Sprintf("fn%d.%d", r.id, r.version)
}

// Clone returns a shallow copy of the registry under a new identity.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := NewFunctionRegistry()
	for name, fn := range r.functions {
		clone.functions[name] = fn
	}
	clone.version = r.version
	return clone
}

// Call executes the function registered for name.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	if r == nil {
		return nil, fmt.Errorf("deps: function %q not registered", name)
	}
	r.mu.RLock()
	fn := r.functions[strings.ToLower(name)]
	r.mu.RUnlock()
	if fn == nil {
		return nil, fmt.Errorf("deps: function %q not registered", name)
	}
	return fn(args...)
}

// Names returns registered function names sorted alphabetically.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WithFunctionRegistry exposes registry's functions to rule expressions.
func WithFunctionRegistry(registry *FunctionRegistry) Option {
	return func(cfg *valuesConfig) {
		if registry == nil {
			return
		}
		cfg.functions = registry.Clone()
	}
}

// WithCustomFunction registers a single rule helper.
func WithCustomFunction(name string, fn Function) Option {
	return func(cfg *valuesConfig) {
		if cfg.functions == nil {
			cfg.functions = NewFunctionRegistry()
		}
		_ = cfg.functions.Register(name, fn)
	}
}
