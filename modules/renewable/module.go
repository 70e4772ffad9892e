// Package renewable models installed renewable generation capacity per
// technology. Capacity compounds every year at a per-technology growth rate
// scaled by the innovation boost the finance component published most
// recently.
package renewable

import (
	"fmt"
	"log/slog"

	"github.com/vk/transitionsim/internal/component"
	"github.com/vk/transitionsim/internal/config"
	"github.com/vk/transitionsim/internal/registry"
)

// Name is the registry and configuration namespace of this component.
const Name = "renewable"

// Output columns besides the per-technology "<tech>_gw" columns.
const (
	ColumnTotal     = "total_gw"
	ColumnAdditions = "additions_gw"
	ColumnBoost     = "innovation_boost"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the component with the registry.
func (Module) Register(r *registry.Registry) {
	r.RegisterComponent(Name, &registry.RegisteredComponent{
		New: func() component.Component { return New() },
		Defaults: config.Config{
			"initial":      map[string]any{"solar": 600.0, "wind": 440.0},
			"growth_rates": map[string]any{"solar": 0.10, "wind": 0.07},
			"boost_source": "finance",
		},
		Order: 10,
	})
}

// Capacity is the renewable capacity component.
type Capacity struct {
	component.History
	techs       []string
	capacity    map[string]float64
	growth      map[string]float64
	boostSource string
}

// New returns an uninitialized component.
func New() *Capacity { return &Capacity{} }

func (c *Capacity) Name() string { return Name }

// Initialize reads "initial" and "growth_rates", two mappings keyed by
// technology, and the optional "boost_source" component name.
func (c *Capacity) Initialize(cfg config.Config) error {
	if err := component.RequireNamespace(Name, cfg); err != nil {
		return err
	}
	initial, err := component.RequireFloatMap(Name, cfg, "initial")
	if err != nil {
		return err
	}
	growth, err := component.RequireFloatMap(Name, cfg, "growth_rates")
	if err != nil {
		return err
	}
	if len(initial) == 0 {
		return component.Configf(Name, "initial", "at least one technology is required")
	}

	c.techs = config.SortedKeys(initial)
	columns := make([]string, 0, len(c.techs)+3)
	for _, tech := range c.techs {
		if initial[tech] < 0 {
			return component.Configf(Name, "initial."+tech, "capacity must be non-negative, got %g", initial[tech])
		}
		if _, ok := growth[tech]; !ok {
			return component.Configf(Name, "growth_rates."+tech, "required key is missing")
		}
		columns = append(columns, tech+"_gw")
	}
	for tech := range growth {
		if _, ok := initial[tech]; !ok {
			return component.Configf(Name, "growth_rates."+tech, "no initial capacity for technology %q", tech)
		}
	}

	c.boostSource = ""
	if v, ok := config.Lookup(cfg, "boost_source"); ok {
		s, ok := v.(string)
		if !ok {
			return component.Configf(Name, "boost_source", "expected a component name, got %T", v)
		}
		c.boostSource = s
	}

	c.capacity = initial
	c.growth = growth
	c.Reset(Name, append(columns, ColumnTotal, ColumnAdditions, ColumnBoost)...)
	slog.Debug("Renewable capacity initialized.", "technologies", c.techs)
	return nil
}

// Step grows every technology by capacity * rate * boost.
func (c *Capacity) Step(year int, view component.View) (component.Record, error) {
	boost := 1.0
	if c.boostSource != "" {
		boost = component.ValueOr(view, c.boostSource, ColumnBoost, 1)
	}
	if boost < 0 {
		return component.Record{}, fmt.Errorf("negative innovation boost %g from %s", boost, c.boostSource)
	}

	values := make(map[string]float64, len(c.techs)+3)
	var total, additions float64
	for _, tech := range c.techs {
		added := c.capacity[tech] * c.growth[tech] * boost
		c.capacity[tech] += added
		values[tech+"_gw"] = c.capacity[tech]
		total += c.capacity[tech]
		additions += added
	}
	values[ColumnTotal] = total
	values[ColumnAdditions] = additions
	values[ColumnBoost] = boost
	return c.Record(year, values)
}
