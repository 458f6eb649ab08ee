package capability

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Keyword names understood by the resolver and the shim.
const (
	KwConfigPath = "config_path"
	KwVisualize  = "gorsellestir"
)

// Kwargs carries optional keyword arguments for constructors and targets.
type Kwargs map[string]any

// Names returns the keyword names in sorted order.
func (kw Kwargs) Names() []string {
	names := make([]string, 0, len(kw))
	for k := range kw {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// String returns the value of a string keyword.
func (kw Kwargs) String(name string) (string, bool) {
	v, ok := kw[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Bool returns the value of a boolean keyword.
func (kw Kwargs) Bool(name string) (bool, bool) {
	v, ok := kw[name]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// Target is a bound analysis entry point: a method on a constructed engine
// or a free function exported by a module.
type Target func(ctx context.Context, path string, kw Kwargs) (any, error)

// Constructor builds an engine instance. It returns an error wrapping
// ErrSignatureMismatch when it does not accept one of the given keywords.
type Constructor func(kw Kwargs) (any, error)

// Module is a named unit of engine code: classes that can be constructed
// and free functions that can be called directly.
//
// Init, when set, runs on every import and may fail, the way loading a
// vendored package can fail on a missing dependency.
type Module struct {
	Name    string
	Init    func() error
	Classes map[string]Constructor
	Funcs   map[string]Target
}

// Registry holds the modules engine adapters make available to the resolver.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]*Module
}

func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]*Module)}
}

// Register adds a module. Registering the same name twice is an error.
func (r *Registry) Register(m *Module) error {
	if m == nil || m.Name == "" {
		return fmt.Errorf("register: module must have a name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.modules[m.Name]; dup {
		return fmt.Errorf("register: module %q already registered", m.Name)
	}
	r.modules[m.Name] = m
	return nil
}

// Import returns the named module after running its Init hook.
func (r *Registry) Import(name string) (*Module, error) {
	r.mu.RLock()
	m, ok := r.modules[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, name)
	}
	if m.Init != nil {
		if err := m.Init(); err != nil {
			return nil, fmt.Errorf("import %s: %w", name, err)
		}
	}
	return m, nil
}

// Modules lists registered module names, sorted.
func (r *Registry) Modules() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.modules))
	for name := range r.modules {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
