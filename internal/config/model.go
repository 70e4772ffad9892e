package config

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoInputFiles is returned by loaders when none of the given paths
// names a file they can read.
var ErrNoInputFiles = errors.New("no simulation files found")

// Loader is the interface for a format-specific simulation file loader.
type Loader interface {
	// Load reads every given path and translates the files into a single
	// Model. Later files are merged over earlier ones.
	Load(ctx context.Context, paths ...string) (*Model, error)
}

// Model is the unified, format-agnostic representation of a simulation
// input file.
type Model struct {
	Simulation Simulation
	Base       Config
	Scenarios  []ScenarioSpec
	MonteCarlo *MonteCarloSpec
}

// Simulation holds the run horizon and the ordered component list.
type Simulation struct {
	StartYear  int
	EndYear    int
	Components []string
}

// ScenarioSpec is a scenario declared in a simulation file.
type ScenarioSpec struct {
	Name        string
	Description string
	Overrides   Config
}

// MonteCarloSpec configures an ensemble declared in a simulation file.
type MonteCarloSpec struct {
	Iterations       int
	Seed             uint64
	Workers          int
	FailureTolerance *float64
	Parameters       []ParameterSpec
}

// ParameterSpec attaches a distribution to a configuration path.
type ParameterSpec struct {
	Path         string
	Distribution string
	Params       map[string]float64
	Values       []float64
	Weights      []float64
}

// NewModel returns an empty model ready to be populated by a loader.
func NewModel() *Model {
	return &Model{Base: Config{}}
}

// Absorb merges other into m. Scalars from other win when set, base
// configurations are deep-merged, and scenarios are appended with later
// definitions replacing earlier ones of the same name.
func (m *Model) Absorb(other *Model) {
	if other == nil {
		return
	}
	if other.Simulation.StartYear != 0 {
		m.Simulation.StartYear = other.Simulation.StartYear
	}
	if other.Simulation.EndYear != 0 {
		m.Simulation.EndYear = other.Simulation.EndYear
	}
	if len(other.Simulation.Components) > 0 {
		m.Simulation.Components = append([]string(nil), other.Simulation.Components...)
	}
	m.Base = Merge(m.Base, other.Base)
	for _, s := range other.Scenarios {
		replaced := false
		for i := range m.Scenarios {
			if m.Scenarios[i].Name == s.Name {
				m.Scenarios[i] = s
				replaced = true
				break
			}
		}
		if !replaced {
			m.Scenarios = append(m.Scenarios, s)
		}
	}
	if other.MonteCarlo != nil {
		m.MonteCarlo = other.MonteCarlo
	}
}

// Validate checks the structural invariants a loader cannot express.
func (m *Model) Validate() error {
	var errs []error
	if m.Simulation.StartYear == 0 || m.Simulation.EndYear == 0 {
		errs = append(errs, errors.New("simulation: start_year and end_year are required"))
	} else if m.Simulation.StartYear > m.Simulation.EndYear {
		errs = append(errs, fmt.Errorf("simulation: start_year %d is after end_year %d", m.Simulation.StartYear, m.Simulation.EndYear))
	}
	if len(m.Simulation.Components) == 0 {
		errs = append(errs, errors.New("simulation: at least one component is required"))
	}
	seen := make(map[string]struct{}, len(m.Scenarios))
	for _, s := range m.Scenarios {
		if s.Name == "" {
			errs = append(errs, errors.New("scenario: name is required"))
			continue
		}
		if _, dup := seen[s.Name]; dup {
			errs = append(errs, fmt.Errorf("scenario %q: declared more than once", s.Name))
		}
		seen[s.Name] = struct{}{}
	}
	if mc := m.MonteCarlo; mc != nil {
		if mc.Iterations < 1 {
			errs = append(errs, fmt.Errorf("monte_carlo: iterations must be at least 1, got %d", mc.Iterations))
		}
		if mc.FailureTolerance != nil && (*mc.FailureTolerance < 0 || *mc.FailureTolerance > 1) {
			errs = append(errs, fmt.Errorf("monte_carlo: failure_tolerance must be within [0,1], got %g", *mc.FailureTolerance))
		}
		for _, p := range mc.Parameters {
			if p.Path == "" {
				errs = append(errs, errors.New("monte_carlo: parameter path is required"))
			}
		}
	}
	return errors.Join(errs...)
}
