// Package component defines the contract every domain module satisfies to
// take part in a simulation run, together with the per-run state shared
// between components and the result tables they produce.
//
// A component is created fresh for each run. The engine calls Initialize
// once with the component's own configuration namespace, Step once per
// simulated year in registration order, and Finalize once after the last
// year.
package component

//go:generate mockgen -source=component.go -destination=mocks/mocks.go -package=mocks Component,Seeded

import (
	"errors"

	"github.com/vk/transitionsim/internal/config"
	"github.com/vk/transitionsim/internal/rng"
)

// ErrSkipYear is returned by Step when a component has no output for the
// given year, for example because it only activates later in the horizon.
// The engine records nothing for that year and continues.
var ErrSkipYear = errors.New("component: no output for year")

// Component is a pluggable domain module advanced one year at a time.
type Component interface {
	// Name is the component's unique name within a run. It is also the
	// configuration namespace passed to Initialize and the column prefix in
	// the KPI table.
	Name() string

	// Initialize receives only the component's configuration namespace.
	// It returns a *ConfigurationError when required keys are missing or
	// malformed.
	Initialize(cfg config.Config) error

	// Step advances the component by exactly one year and returns that
	// year's output. Other components' outputs are visible through view,
	// read only.
	Step(year int, view View) (Record, error)

	// Finalize returns the accumulated per-year records. It is called
	// exactly once, after the last Step.
	Finalize() (*ResultTable, error)
}

// Seeded is implemented by components that consume randomness. The engine
// injects a dedicated, deterministically seeded source before Initialize.
type Seeded interface {
	SetSource(src rng.Source)
}

// Record is one year's output of a component.
type Record struct {
	Year   int
	Values map[string]float64
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	values := make(map[string]float64, len(r.Values))
	for k, v := range r.Values {
		values[k] = v
	}
	return Record{Year: r.Year, Values: values}
}

// Value returns the named column.
func (r Record) Value(column string) (float64, bool) {
	v, ok := r.Values[column]
	return v, ok
}
