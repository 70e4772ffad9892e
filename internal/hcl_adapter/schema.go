package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Simulation *Simulation       `hcl:"simulation,block"`
	Components []*ComponentBlock `hcl:"component,block"`
	Scenarios  []*ScenarioBlock  `hcl:"scenario,block"`
	MonteCarlo *MonteCarloBlock  `hcl:"monte_carlo,block"`
	Remain     hcl.Body          `hcl:",remain"`
}

// Simulation is the run horizon and the component order. Without a
// component list every registered component runs in default order.
type Simulation struct {
	StartYear  int      `hcl:"start_year"`
	EndYear    int      `hcl:"end_year"`
	Components []string `hcl:"components,optional"`
}

// ComponentBlock holds the base configuration namespace of one component.
// Every attribute in the body becomes a key of that namespace.
type ComponentBlock struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

// ScenarioBlock declares a named set of overrides.
type ScenarioBlock struct {
	Name        string         `hcl:"name,label"`
	Description string         `hcl:"description,optional"`
	Overrides   hcl.Expression `hcl:"overrides,optional"`
}

// MonteCarloBlock configures an ensemble.
type MonteCarloBlock struct {
	Iterations       int               `hcl:"iterations"`
	Seed             uint64            `hcl:"seed,optional"`
	Workers          int               `hcl:"workers,optional"`
	FailureTolerance hcl.Expression    `hcl:"failure_tolerance,optional"`
	Parameters       []*ParameterBlock `hcl:"parameter,block"`
}

// ParameterBlock attaches a distribution to the configuration path in its
// label.
type ParameterBlock struct {
	Path         string             `hcl:"path,label"`
	Distribution string             `hcl:"distribution"`
	Params       map[string]float64 `hcl:"params,optional"`
	Values       []float64          `hcl:"values,optional"`
	Weights      []float64          `hcl:"weights,optional"`
}
