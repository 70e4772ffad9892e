package testutil

import (
	"github.com/vk/transitionsim/internal/component"
	"github.com/vk/transitionsim/internal/config"
	"github.com/vk/transitionsim/internal/registry"
)

// SimpleModule is a test helper for easily creating a module that registers
// a single component factory.
type SimpleModule struct {
	Name     string
	New      func() component.Component
	Defaults config.Config
	Order    int
}

// Register implements the registry.Module interface.
func (m *SimpleModule) Register(r *registry.Registry) {
	r.RegisterComponent(m.Name, &registry.RegisteredComponent{
		New:      m.New,
		Defaults: m.Defaults,
		Order:    m.Order,
	})
}

// Linear returns a module registering a LinearComponent under name.
func Linear(name string, order int) *SimpleModule {
	return &SimpleModule{
		Name:  name,
		New:   func() component.Component { return NewLinear(name) },
		Order: order,
	}
}
