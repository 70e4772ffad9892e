package renewable_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/transitionsim/internal/component"
	"github.com/vk/transitionsim/internal/config"
	"github.com/vk/transitionsim/internal/engine"
	"github.com/vk/transitionsim/internal/registry"
	"github.com/vk/transitionsim/internal/scenario"
	"github.com/vk/transitionsim/modules/renewable"
)

func baseConfig() config.Config {
	return config.Config{
		"initial":      map[string]any{"solar": 100.0, "wind": 50.0},
		"growth_rates": map[string]any{"solar": 0.10, "wind": 0.05},
	}
}

func TestCapacity_StepCompoundsGrowth(t *testing.T) {
	// Arrange
	c := renewable.New()
	require.NoError(t, c.Initialize(baseConfig()))
	state := component.NewState()

	// Act
	first, err := c.Step(2025, state)
	require.NoError(t, err)
	second, err := c.Step(2026, state)
	require.NoError(t, err)

	// Assert
	assert.InDelta(t, 110.0, first.Values["solar_gw"], 1e-9)
	assert.InDelta(t, 52.5, first.Values["wind_gw"], 1e-9)
	assert.InDelta(t, 162.5, first.Values[renewable.ColumnTotal], 1e-9)
	assert.InDelta(t, 12.5, first.Values[renewable.ColumnAdditions], 1e-9)
	assert.Equal(t, 1.0, first.Values[renewable.ColumnBoost])
	assert.InDelta(t, 121.0, second.Values["solar_gw"], 1e-9)

	table, err := c.Finalize()
	require.NoError(t, err)
	assert.Equal(t, []string{"solar_gw", "wind_gw", "total_gw", "additions_gw", "innovation_boost"}, table.Columns())
	assert.Equal(t, []int{2025, 2026}, table.Years())
}

func TestCapacity_ReadsInnovationBoost(t *testing.T) {
	// Arrange
	cfg := baseConfig()
	cfg["boost_source"] = "finance"
	c := renewable.New()
	require.NoError(t, c.Initialize(cfg))
	state := component.NewState()
	state.Publish("finance", component.Record{Year: 2024, Values: map[string]float64{"innovation_boost": 2}})

	// Act
	rec, err := c.Step(2025, state)

	// Assert
	require.NoError(t, err)
	assert.InDelta(t, 120.0, rec.Values["solar_gw"], 1e-9)
	assert.Equal(t, 2.0, rec.Values[renewable.ColumnBoost])
}

func TestCapacity_InitializeRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(config.Config) config.Config
		wantPath string
	}{
		{name: "no namespace", mutate: func(config.Config) config.Config { return nil }},
		{name: "missing initial", mutate: func(c config.Config) config.Config { delete(c, "initial"); return c }, wantPath: "initial"},
		{
			name:     "growth rate missing for technology",
			mutate:   func(c config.Config) config.Config { return config.SetPath(c, "initial.hydro", 10.0) },
			wantPath: "growth_rates.hydro",
		},
		{
			name:     "growth rate without capacity",
			mutate:   func(c config.Config) config.Config { return config.SetPath(c, "growth_rates.nuclear", 0.01) },
			wantPath: "growth_rates.nuclear",
		},
		{
			name:     "negative capacity",
			mutate:   func(c config.Config) config.Config { return config.SetPath(c, "initial.solar", -1.0) },
			wantPath: "initial.solar",
		},
		{
			name:     "non numeric rate",
			mutate:   func(c config.Config) config.Config { return config.SetPath(c, "growth_rates.wind", "fast") },
			wantPath: "growth_rates.wind",
		},
		{
			name:     "boost source not a name",
			mutate:   func(c config.Config) config.Config { c["boost_source"] = 3.0; return c },
			wantPath: "boost_source",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := renewable.New().Initialize(tc.mutate(baseConfig()))

			var cerr *component.ConfigurationError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, renewable.Name, cerr.Component)
			assert.Equal(t, tc.wantPath, cerr.Path)
		})
	}
}

func TestCapacity_ScenarioOverrideChangesOnlySolar(t *testing.T) {
	// Arrange
	reg := registry.New()
	reg.Register(renewable.Module{})
	base := config.Merge(reg.Defaults(), config.Config{
		"renewable.growth_rates": map[string]any{"solar": 0.10, "wind": 0.07},
		"renewable.boost_source": "",
	})
	s, err := scenario.New("fast_solar", "", config.Config{"renewable.growth_rates.solar": 0.15})
	require.NoError(t, err)
	effective := s.ApplyTo(base)

	// Act
	baseRes, err := engine.Simulate(context.Background(), base, 2025, 2030, engine.WithComponents(renewable.New()))
	require.NoError(t, err)
	scenRes, err := engine.Simulate(context.Background(), effective, 2025, 2030, engine.WithComponents(renewable.New()))
	require.NoError(t, err)

	// Assert
	solar, _ := config.Lookup(effective, "renewable.growth_rates.solar")
	wind, _ := config.Lookup(effective, "renewable.growth_rates.wind")
	assert.Equal(t, 0.15, solar)
	assert.Equal(t, 0.07, wind)

	assert.Equal(t, 6, baseRes.KPI.Len())
	assert.Greater(t, scenRes.KPI.Cell(2030, "renewable.solar_gw").Value, baseRes.KPI.Cell(2030, "renewable.solar_gw").Value)
	assert.Equal(t, baseRes.KPI.Cell(2030, "renewable.wind_gw"), scenRes.KPI.Cell(2030, "renewable.wind_gw"))
}
