// Package grid models transmission capacity and the curtailment of
// renewable output that exceeds it.
package grid

import (
	"github.com/vk/transitionsim/internal/component"
	"github.com/vk/transitionsim/internal/config"
	"github.com/vk/transitionsim/internal/registry"
	"github.com/vk/transitionsim/modules/renewable"
)

// Name is the registry and configuration namespace of this component.
const Name = "grid"

const (
	ColumnCapacity    = "capacity_gw"
	ColumnCurtailed   = "curtailed_gw"
	ColumnCurtailment = "curtailment_rate"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the component with the registry.
func (Module) Register(r *registry.Registry) {
	r.RegisterComponent(Name, &registry.RegisteredComponent{
		New: func() component.Component { return New() },
		Defaults: config.Config{
			"transmission_gw": 1200.0,
			"expansion_rate":  0.06,
		},
		Order: 20,
	})
}

// Integration is the grid component. It must run after renewable in the
// same year, because it reads that year's total capacity.
type Integration struct {
	component.History
	capacity float64
	rate     float64
}

// New returns an uninitialized component.
func New() *Integration { return &Integration{} }

func (g *Integration) Name() string { return Name }

func (g *Integration) Initialize(cfg config.Config) error {
	var err error
	if g.capacity, err = component.RequireFloat(Name, cfg, "transmission_gw"); err != nil {
		return err
	}
	if g.capacity <= 0 {
		return component.Configf(Name, "transmission_gw", "must be positive, got %g", g.capacity)
	}
	if g.rate, err = component.OptionalFloat(Name, cfg, "expansion_rate", 0); err != nil {
		return err
	}
	if g.rate <= -1 {
		return component.Configf(Name, "expansion_rate", "must be greater than -1, got %g", g.rate)
	}
	g.Reset(Name, ColumnCapacity, ColumnCurtailed, ColumnCurtailment)
	return nil
}

// Step curtails whatever renewable capacity exceeds transmission capacity,
// then expands transmission for the next year. The curtailment rate is a
// percentage of renewable capacity.
func (g *Integration) Step(year int, view component.View) (component.Record, error) {
	renewables := component.ValueOr(view, renewable.Name, renewable.ColumnTotal, 0)

	var curtailed, rate float64
	if renewables > g.capacity {
		curtailed = renewables - g.capacity
		rate = curtailed / renewables * 100
	}
	rec, err := g.Record(year, map[string]float64{
		ColumnCapacity:    g.capacity,
		ColumnCurtailed:   curtailed,
		ColumnCurtailment: rate,
	})
	if err != nil {
		return component.Record{}, err
	}
	g.capacity *= 1 + g.rate
	return rec, nil
}
