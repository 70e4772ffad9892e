// Package finance models green bond and credit volumes, the capacity they
// fund, and the innovation boost that feeds back into renewable growth in
// the following year.
package finance

import (
	"github.com/vk/transitionsim/internal/component"
	"github.com/vk/transitionsim/internal/config"
	"github.com/vk/transitionsim/internal/registry"
	"github.com/vk/transitionsim/modules/renewable"
)

// Name is the registry and configuration namespace of this component.
const Name = "finance"

const (
	ColumnBonds      = "bonds_b"
	ColumnCredit     = "credit_b"
	ColumnInvestment = "investment_b"
	ColumnFunded     = "funded_gw"
	ColumnBoost      = renewable.ColumnBoost
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the component with the registry.
func (Module) Register(r *registry.Registry) {
	r.RegisterComponent(Name, &registry.RegisteredComponent{
		New: func() component.Component { return New() },
		Defaults: config.Config{
			"bonds_initial":            500.0,
			"credit_initial":           1000.0,
			"bond_growth":              0.20,
			"credit_growth":            0.15,
			"investment_effectiveness": 0.05,
			"capex_per_gw":             3.5,
			"innovation_factor":        0.0002,
		},
		Order: 30,
	})
}

// GreenFinance is the finance component.
type GreenFinance struct {
	component.History
	bonds, credit            float64
	bondGrowth, creditGrowth float64
	effectiveness            float64
	capexPerGW               float64
	innovation               float64
}

// New returns an uninitialized component.
func New() *GreenFinance { return &GreenFinance{} }

func (f *GreenFinance) Name() string { return Name }

func (f *GreenFinance) Initialize(cfg config.Config) error {
	fields := []struct {
		path string
		dst  *float64
		def  float64
	}{
		{"bonds_initial", &f.bonds, 0},
		{"credit_initial", &f.credit, 0},
		{"bond_growth", &f.bondGrowth, 0},
		{"credit_growth", &f.creditGrowth, 0},
		{"investment_effectiveness", &f.effectiveness, 0},
		{"capex_per_gw", &f.capexPerGW, 0},
		{"innovation_factor", &f.innovation, 0},
	}
	for _, fd := range fields {
		v, err := component.OptionalFloat(Name, cfg, fd.path, fd.def)
		if err != nil {
			return err
		}
		if v < 0 {
			return component.Configf(Name, fd.path, "must be non-negative, got %g", v)
		}
		*fd.dst = v
	}
	f.Reset(Name, ColumnBonds, ColumnCredit, ColumnInvestment, ColumnFunded, ColumnBoost)
	return nil
}

// Step grows bonds and credit, adds the capital spent on this year's
// renewable additions and converts the total into funded capacity and an
// innovation boost of 1 + funded_gw * innovation_factor.
func (f *GreenFinance) Step(year int, view component.View) (component.Record, error) {
	f.bonds *= 1 + f.bondGrowth
	f.credit *= 1 + f.creditGrowth
	additions := component.ValueOr(view, renewable.Name, renewable.ColumnAdditions, 0)

	investment := f.bonds + f.credit + additions*f.capexPerGW
	funded := investment * f.effectiveness
	return f.Record(year, map[string]float64{
		ColumnBonds:      f.bonds,
		ColumnCredit:     f.credit,
		ColumnInvestment: investment,
		ColumnFunded:     funded,
		ColumnBoost:      1 + funded*f.innovation,
	})
}
