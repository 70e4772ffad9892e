// Package yaml_adapter reads simulation files written in YAML into the
// format-agnostic config.Model.
//
// A file may carry any of the top-level keys below; files are merged in
// path order.
//
//	simulation:
//	  start_year: 2025
//	  end_year: 2050
//	  components: [renewable, grid]
//	config:
//	  renewable: {growth_rate: 0.08}
//	scenarios:
//	  - name: high_solar
//	    overrides: {renewable.growth_rate: 0.12}
//	monte_carlo:
//	  iterations: 500
//	  parameters:
//	    - path: renewable.growth_rate
//	      distribution: normal
//	      params: {mean: 0.08, std: 0.02}
package yaml_adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vk/transitionsim/internal/config"
	"github.com/vk/transitionsim/internal/ctxlog"
	"github.com/vk/transitionsim/internal/fsutil"
	"gopkg.in/yaml.v3"
)

// Extensions are the file extensions handled by this loader.
var Extensions = []string{".yaml", ".yml"}

type fileRoot struct {
	Simulation *simulation    `yaml:"simulation"`
	Config     map[string]any `yaml:"config"`
	Scenarios  []scenario     `yaml:"scenarios"`
	MonteCarlo *monteCarlo    `yaml:"monte_carlo"`
}

type simulation struct {
	StartYear  int      `yaml:"start_year"`
	EndYear    int      `yaml:"end_year"`
	Components []string `yaml:"components"`
}

type scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Overrides   map[string]any `yaml:"overrides"`
}

type monteCarlo struct {
	Iterations       int         `yaml:"iterations"`
	Seed             uint64      `yaml:"seed"`
	Workers          int         `yaml:"workers"`
	FailureTolerance *float64    `yaml:"failure_tolerance"`
	Parameters       []parameter `yaml:"parameters"`
}

type parameter struct {
	Path         string             `yaml:"path"`
	Distribution string             `yaml:"distribution"`
	Params       map[string]float64 `yaml:"params"`
	Values       []float64          `yaml:"values"`
	Weights      []float64          `yaml:"weights"`
}

// Loader is the YAML implementation of config.Loader.
type Loader struct{}

// NewLoader creates a new YAML configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

var _ config.Loader = (*Loader)(nil)

// Load parses every YAML file found under paths and merges them into one
// Model. Unknown keys are rejected.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML loader started.", "path_count", len(paths))

	files, err := fsutil.ResolvePaths(paths, Extensions...)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %v", config.ErrNoInputFiles, paths)
	}

	model := config.NewModel()
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read YAML file %s: %w", file, err)
		}
		part, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("in YAML file %s: %w", file, err)
		}
		model.Absorb(part)
	}

	logger.Debug("YAML loading complete.", "files", len(files), "scenarios", len(model.Scenarios))
	return model, nil
}

// Parse decodes one YAML document. An empty document yields an empty
// Model.
func Parse(data []byte) (*config.Model, error) {
	var root fileRoot
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&root); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	model := config.NewModel()
	if s := root.Simulation; s != nil {
		model.Simulation = config.Simulation{
			StartYear:  s.StartYear,
			EndYear:    s.EndYear,
			Components: s.Components,
		}
	}
	model.Base = config.Merge(nil, root.Config)

	seen := make(map[string]struct{}, len(root.Scenarios))
	for _, s := range root.Scenarios {
		if _, dup := seen[s.Name]; dup {
			return nil, fmt.Errorf("scenario %q declared more than once", s.Name)
		}
		seen[s.Name] = struct{}{}
		overrides := config.Config(s.Overrides)
		if overrides == nil {
			overrides = config.Config{}
		}
		model.Scenarios = append(model.Scenarios, config.ScenarioSpec{
			Name:        s.Name,
			Description: s.Description,
			Overrides:   overrides,
		})
	}

	if mc := root.MonteCarlo; mc != nil {
		spec := &config.MonteCarloSpec{
			Iterations:       mc.Iterations,
			Seed:             mc.Seed,
			Workers:          mc.Workers,
			FailureTolerance: mc.FailureTolerance,
		}
		for _, p := range mc.Parameters {
			spec.Parameters = append(spec.Parameters, config.ParameterSpec(p))
		}
		model.MonteCarlo = spec
	}
	return model, nil
}
