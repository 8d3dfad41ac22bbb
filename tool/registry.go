package tool

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/casualjim/palaver/pkg/slogx"
)

// Module contributes a set of tool definitions. Modules are re-run on Rebuild,
// so they should return freshly built definitions.
type Module func() []Definition

// Registry is the catalog of callable tools keyed by name.
type Registry struct {
	mu      sync.RWMutex
	modules []Module
	order   []string
	byName  map[string]Definition
}

// NewRegistry builds a registry from modules.
func NewRegistry(modules ...Module) *Registry {
	r := &Registry{modules: modules}
	r.Rebuild()
	return r
}

// Static wraps fixed definitions as a Module.
func Static(defs ...Definition) Module {
	return func() []Definition { return defs }
}

// AddModule registers another module and rebuilds the catalog.
func (r *Registry) AddModule(m Module) {
	r.mu.Lock()
	r.modules = append(r.modules, m)
	r.mu.Unlock()
	r.Rebuild()
}

// Rebuild re-runs every module and replaces the catalog wholesale. When two
// definitions share a name the later one wins and keeps the position of the
// first.
func (r *Registry) Rebuild() {
	r.mu.RLock()
	modules := slices.Clone(r.modules)
	r.mu.RUnlock()

	order := make([]string, 0)
	byName := make(map[string]Definition)
	for _, m := range modules {
		for _, def := range m() {
			if _, exists := byName[def.Name]; exists {
				slog.Debug("tool registered twice, keeping the last definition", slogx.LoggerName("tool.registry"), slog.String(slogx.KeyTool, def.Name))
			} else {
				order = append(order, def.Name)
			}
			byName[def.Name] = def
		}
	}

	r.mu.Lock()
	r.order = order
	r.byName = byName
	r.mu.Unlock()
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.byName[name]
	return def, ok
}

// Len returns the number of tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Definitions returns the catalog in registration order.
func (r *Registry) Definitions() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]Definition, len(r.order))
	for i, name := range r.order {
		defs[i] = r.byName[name]
	}
	return defs
}

// Export renders the catalog in registration order.
func (r *Registry) Export() []Exported {
	defs := r.Definitions()
	out := make([]Exported, len(defs))
	for i, d := range defs {
		out[i] = d.Export()
	}
	return out
}
