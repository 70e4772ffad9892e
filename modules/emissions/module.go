// Package emissions models coal capacity displaced by integrated renewable
// additions and the resulting power sector CO2 emissions.
package emissions

import (
	"math"

	"github.com/vk/transitionsim/internal/component"
	"github.com/vk/transitionsim/internal/config"
	"github.com/vk/transitionsim/internal/registry"
	"github.com/vk/transitionsim/modules/grid"
	"github.com/vk/transitionsim/modules/renewable"
)

// Name is the registry and configuration namespace of this component.
const Name = "emissions"

const (
	ColumnCoal      = "coal_gw"
	ColumnDisplaced = "displaced_gw"
	ColumnEmissions = "emissions_mt"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the component with the registry.
func (Module) Register(r *registry.Registry) {
	r.RegisterComponent(Name, &registry.RegisteredComponent{
		New: func() component.Component { return New() },
		Defaults: config.Config{
			"coal_gw":            1150.0,
			"emission_factor":    4.8,
			"displacement_ratio": 0.3,
		},
		Order: 40,
	})
}

// Coal is the emissions component.
type Coal struct {
	component.History
	coal   float64
	factor float64
	ratio  float64
}

// New returns an uninitialized component.
func New() *Coal { return &Coal{} }

func (c *Coal) Name() string { return Name }

// Initialize reads coal_gw, emission_factor in Mt CO2 per GW-year and
// displacement_ratio, the GW of coal retired per GW of integrated
// renewable additions.
func (c *Coal) Initialize(cfg config.Config) error {
	var err error
	if c.coal, err = component.RequireFloat(Name, cfg, "coal_gw"); err != nil {
		return err
	}
	if c.factor, err = component.RequireFloat(Name, cfg, "emission_factor"); err != nil {
		return err
	}
	if c.ratio, err = component.OptionalFloat(Name, cfg, "displacement_ratio", 0); err != nil {
		return err
	}
	if c.coal < 0 || c.factor < 0 || c.ratio < 0 {
		return component.Configf(Name, "", "coal_gw, emission_factor and displacement_ratio must be non-negative")
	}
	c.Reset(Name, ColumnCoal, ColumnDisplaced, ColumnEmissions)
	return nil
}

// Step retires coal against this year's renewable additions, discounted
// by the grid's curtailment rate when the grid component ran.
func (c *Coal) Step(year int, view component.View) (component.Record, error) {
	additions := component.ValueOr(view, renewable.Name, renewable.ColumnAdditions, 0)
	curtailment := component.ValueOr(view, grid.Name, grid.ColumnCurtailment, 0)

	displaced := math.Max(0, math.Min(c.coal, additions*(1-curtailment/100)*c.ratio))
	c.coal -= displaced
	return c.Record(year, map[string]float64{
		ColumnCoal:      c.coal,
		ColumnDisplaced: displaced,
		ColumnEmissions: c.coal * c.factor,
	})
}
