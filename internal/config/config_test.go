package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	c := baseConfig()

	testCases := []struct {
		name   string
		path   string
		want   any
		wantOK bool
	}{
		{name: "leaf", path: "renewable.growth_rates.wind", want: 0.08, wantOK: true},
		{name: "top level scalar", path: "label", want: "baseline", wantOK: true},
		{name: "missing leaf", path: "renewable.growth_rates.hydro", wantOK: false},
		{name: "through scalar", path: "label.x", wantOK: false},
		{name: "missing root", path: "finance", wantOK: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Lookup(c, tc.path)
			require.Equal(t, tc.wantOK, ok)
			if tc.wantOK {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestSection(t *testing.T) {
	c := baseConfig()

	grid := c.Section("grid")
	require.NotNil(t, grid)
	assert.Equal(t, 1500.0, grid["capacity_gw"])

	assert.Nil(t, c.Section("label"), "scalar is not a section")
	assert.Nil(t, c.Section("missing"))

	grid["capacity_gw"] = 1.0
	again := c.Section("grid")
	assert.Equal(t, 1500.0, again["capacity_gw"], "section must be a copy")
}

func TestFlattenExpandRoundTrip(t *testing.T) {
	c := baseConfig()

	flat := Flatten(c)
	assert.Equal(t, 0.10, flat["renewable.growth_rates.solar"])
	assert.Equal(t, []any{"north", "south"}, flat["grid.regions"])

	back := Expand(Config(flat))
	assert.Equal(t, c, back)
}

func TestToFloat(t *testing.T) {
	for _, v := range []any{1, int64(1), int32(1), uint64(1), float32(1), 1.0} {
		f, ok := ToFloat(v)
		assert.True(t, ok, "%T", v)
		assert.Equal(t, 1.0, f)
	}
	_, ok := ToFloat("1")
	assert.False(t, ok)
}

func TestModel_AbsorbAndValidate(t *testing.T) {
	m := NewModel()
	m.Absorb(&Model{
		Simulation: Simulation{StartYear: 2025, EndYear: 2030, Components: []string{"renewable"}},
		Base:       Config{"renewable": map[string]any{"x": 1.0}},
		Scenarios:  []ScenarioSpec{{Name: "a", Overrides: Config{"x": 1.0}}},
	})
	m.Absorb(&Model{
		Base:      Config{"renewable": map[string]any{"y": 2.0}},
		Scenarios: []ScenarioSpec{{Name: "a", Description: "replaced"}, {Name: "b"}},
	})

	require.NoError(t, m.Validate())
	assert.Equal(t, Config{"renewable": map[string]any{"x": 1.0, "y": 2.0}}, m.Base)
	require.Len(t, m.Scenarios, 2)
	assert.Equal(t, "replaced", m.Scenarios[0].Description)
	assert.Equal(t, 2025, m.Simulation.StartYear)

	m.Simulation.StartYear = 2040
	err := m.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is after end_year")
}
