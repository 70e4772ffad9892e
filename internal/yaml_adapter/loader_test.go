package yaml_adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/transitionsim/internal/config"
)

const fullDocument = `
simulation:
  start_year: 2025
  end_year: 2030
  components: [renewable, grid]
config:
  renewable:
    solar_capacity: 100
    growth_rate: 0.08
  grid.capacity: 250
scenarios:
  - name: high_solar
    description: Faster solar build-out
    overrides:
      renewable.growth_rate: 0.12
  - name: empty
monte_carlo:
  iterations: 200
  seed: 7
  failure_tolerance: 0.05
  parameters:
    - path: renewable.growth_rate
      distribution: normal
      params: {mean: 0.08, std: 0.02}
    - path: grid.capacity
      distribution: discrete
      values: [200, 250, 300]
`

func TestParse_FullDocument(t *testing.T) {
	model, err := Parse([]byte(fullDocument))

	require.NoError(t, err)
	require.NoError(t, model.Validate())
	assert.Equal(t, []string{"renewable", "grid"}, model.Simulation.Components)
	assert.Equal(t, config.Config{
		"renewable": map[string]any{"solar_capacity": 100, "growth_rate": 0.08},
		"grid":      map[string]any{"capacity": 250},
	}, model.Base)

	require.Len(t, model.Scenarios, 2)
	assert.Equal(t, config.Config{"renewable.growth_rate": 0.12}, model.Scenarios[0].Overrides)
	assert.Equal(t, config.Config{}, model.Scenarios[1].Overrides)

	mc := model.MonteCarlo
	require.NotNil(t, mc)
	assert.Equal(t, 200, mc.Iterations)
	assert.Equal(t, uint64(7), mc.Seed)
	require.NotNil(t, mc.FailureTolerance)
	assert.Equal(t, 0.05, *mc.FailureTolerance)
	assert.Equal(t, map[string]float64{"mean": 0.08, "std": 0.02}, mc.Parameters[0].Params)
	assert.Equal(t, []float64{200, 250, 300}, mc.Parameters[1].Values)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{name: "unknown top-level key", doc: "simulations: {}", want: "simulations"},
		{name: "wrong type", doc: "simulation: {start_year: soon}", want: "cannot unmarshal"},
		{name: "duplicate scenario", doc: "scenarios: [{name: a}, {name: a}]", want: `scenario "a" declared more than once`},
		{name: "malformed", doc: "simulation: [", want: "yaml"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc))

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	model, err := Parse(nil)

	require.NoError(t, err)
	assert.Equal(t, config.Config{}, model.Base)
	assert.Nil(t, model.MonteCarlo)
}

func TestLoader_MergesFiles(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(fullDocument), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yml"), []byte(`
config:
  renewable: {growth_rate: 0.1}
scenarios:
  - name: high_solar
    overrides: {grid.capacity: 900}
`), 0o644))

	// Act
	model, err := NewLoader().Load(context.Background(), dir)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0.1, model.Base.Section("renewable")["growth_rate"])
	assert.Equal(t, 100, model.Base.Section("renewable")["solar_capacity"])
	require.Len(t, model.Scenarios, 2)
	assert.Equal(t, config.Config{"grid.capacity": 900}, model.Scenarios[0].Overrides, "later definition replaces earlier")
}

func TestLoader_NoFiles(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), t.TempDir())

	require.ErrorIs(t, err, config.ErrNoInputFiles)
}
