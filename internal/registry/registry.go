package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/vk/transitionsim/internal/component"
	"github.com/vk/transitionsim/internal/config"
)

// ErrUnknownComponent is returned by Build for a name nobody registered.
var ErrUnknownComponent = errors.New("unknown component")

// Module is the interface that all domain modules implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Factory creates a fresh component instance.
type Factory func() component.Component

// RegisteredComponent holds what a module contributed for one component.
type RegisteredComponent struct {
	New Factory
	// Defaults is merged under the user's configuration namespace for the
	// component. It may be nil.
	Defaults config.Config
	// Order is the default position when a run does not list components
	// explicitly. Lower runs first; ties keep registration order.
	Order int
}

// Registry holds all registered component factories for a single
// application instance.
type Registry struct {
	components map[string]*RegisteredComponent
	order      []string
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{components: make(map[string]*RegisteredComponent)}
}

// RegisterComponent registers a component factory under name.
func (r *Registry) RegisterComponent(name string, rc *RegisteredComponent) {
	if _, exists := r.components[name]; exists {
		panic(fmt.Sprintf("component with name '%s' already registered", name))
	}
	if rc == nil || rc.New == nil {
		panic(fmt.Sprintf("component '%s' registered without a factory", name))
	}
	slog.Debug("Registering component.", "name", name)
	r.components[name] = rc
	r.order = append(r.order, name)
}

// Register applies every module to r.
func (r *Registry) Register(modules ...Module) {
	for _, m := range modules {
		m.Register(r)
	}
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.components[name]
	return ok
}

// Names returns the registered names in default run order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	sort.SliceStable(out, func(i, j int) bool {
		return r.components[out[i]].Order < r.components[out[j]].Order
	})
	return out
}

// Defaults returns the default configuration of every registered component,
// keyed by component name.
func (r *Registry) Defaults() config.Config {
	out := config.Config{}
	for _, name := range r.order {
		if d := r.components[name].Defaults; d != nil {
			out[name] = config.Clone(d)
		}
	}
	return out
}

// Build returns new component instances for names, in the given order. With
// no names it builds every registered component in default order.
func (r *Registry) Build(names ...string) ([]component.Component, error) {
	if len(names) == 0 {
		names = r.Names()
	}
	seen := make(map[string]struct{}, len(names))
	out := make([]component.Component, 0, len(names))
	for _, name := range names {
		rc, ok := r.components[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownComponent, name)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("component %q listed twice", name)
		}
		seen[name] = struct{}{}
		c := rc.New()
		if c.Name() != name {
			return nil, fmt.Errorf("component registered as %q reports name %q", name, c.Name())
		}
		out = append(out, c)
	}
	return out, nil
}
