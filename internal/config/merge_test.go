package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() Config {
	return Config{
		"renewable": map[string]any{
			"initial": map[string]any{"solar": 600.0, "wind": 400.0},
			"growth_rates": map[string]any{
				"solar": 0.10,
				"wind":  0.08,
			},
		},
		"grid": map[string]any{
			"capacity_gw": 1500.0,
			"regions":     []any{"north", "south"},
		},
		"label": "baseline",
	}
}

func TestMerge_EmptyOverridesIsIdentity(t *testing.T) {
	a := baseConfig()

	got := Merge(a, Config{})

	if diff := cmp.Diff(a, got); diff != "" {
		t.Fatalf("Merge(a, {}) mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	a := baseConfig()
	b := Config{
		"renewable": map[string]any{"growth_rates": map[string]any{"solar": 0.2}},
		"grid.regions": []any{"east"},
	}
	aBefore := Clone(a)
	bBefore := Clone(b)

	got := Merge(a, b)
	// Mutating the result must not leak back into the inputs either.
	got["label"] = "changed"
	got["renewable"].(map[string]any)["initial"] = nil
	got["grid"].(map[string]any)["regions"].([]any)[0] = "west"

	assert.Equal(t, aBefore, a)
	assert.Equal(t, bBefore, b)
}

func TestMerge_Semantics(t *testing.T) {
	testCases := []struct {
		name      string
		base      Config
		overrides Config
		want      Config
	}{
		{
			name:      "leaf scalar replaced",
			base:      Config{"a": 1.0},
			overrides: Config{"a": 2.0},
			want:      Config{"a": 2.0},
		},
		{
			name:      "nested mapping merged recursively",
			base:      Config{"a": map[string]any{"x": 1.0, "y": 2.0}},
			overrides: Config{"a": map[string]any{"y": 3.0, "z": 4.0}},
			want:      Config{"a": map[string]any{"x": 1.0, "y": 3.0, "z": 4.0}},
		},
		{
			name:      "mapping replaced by scalar",
			base:      Config{"a": map[string]any{"x": 1.0}},
			overrides: Config{"a": "flat"},
			want:      Config{"a": "flat"},
		},
		{
			name:      "scalar replaced by mapping",
			base:      Config{"a": 1.0},
			overrides: Config{"a": map[string]any{"x": 1.0}},
			want:      Config{"a": map[string]any{"x": 1.0}},
		},
		{
			name:      "sequence replaced not appended",
			base:      Config{"a": []any{1.0, 2.0}},
			overrides: Config{"a": []any{3.0}},
			want:      Config{"a": []any{3.0}},
		},
		{
			name:      "override-only key added",
			base:      Config{"a": 1.0},
			overrides: Config{"b": 2.0},
			want:      Config{"a": 1.0, "b": 2.0},
		},
		{
			name:      "dotted path creates intermediates",
			base:      Config{},
			overrides: Config{"a.b.c": 1.0},
			want:      Config{"a": map[string]any{"b": map[string]any{"c": 1.0}}},
		},
		{
			name:      "dotted path through a scalar replaces it",
			base:      Config{"a": 5.0},
			overrides: Config{"a.b": 1.0},
			want:      Config{"a": map[string]any{"b": 1.0}},
		},
		{
			name:      "dotted key inside nested override",
			base:      Config{"a": map[string]any{"b": map[string]any{"c": 1.0, "d": 2.0}}},
			overrides: Config{"a": map[string]any{"b.c": 9.0}},
			want:      Config{"a": map[string]any{"b": map[string]any{"c": 9.0, "d": 2.0}}},
		},
		{
			name:      "specific path wins over mapping at same prefix",
			base:      Config{},
			overrides: Config{"a": map[string]any{"b": 1.0, "c": 2.0}, "a.b": 5.0},
			want:      Config{"a": map[string]any{"b": 5.0, "c": 2.0}},
		},
		{
			name:      "empty segment is literal",
			base:      Config{},
			overrides: Config{"a..b": 1.0},
			want:      Config{"a..b": 1.0},
		},
		{
			name:      "nil base",
			base:      nil,
			overrides: Config{"a": 1.0},
			want:      Config{"a": 1.0},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Merge(tc.base, tc.overrides)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Merge mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMerge_SolarOverrideLeavesWindUntouched(t *testing.T) {
	// --- Arrange ---
	base := baseConfig()
	overrides := Config{"renewable.growth_rates.solar": 0.15}

	// --- Act ---
	effective := Merge(base, overrides)

	// --- Assert ---
	solar, ok := Lookup(effective, "renewable.growth_rates.solar")
	require.True(t, ok)
	assert.Equal(t, 0.15, solar)

	wind, ok := Lookup(effective, "renewable.growth_rates.wind")
	require.True(t, ok)
	assert.Equal(t, 0.08, wind)

	initial, ok := Lookup(effective, "renewable.initial")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"solar": 600.0, "wind": 400.0}, initial)
}

func TestSetPath(t *testing.T) {
	base := baseConfig()

	got := SetPath(base, "grid.capacity_gw", 2000.0)

	v, ok := Lookup(got, "grid.capacity_gw")
	require.True(t, ok)
	assert.Equal(t, 2000.0, v)
	orig, _ := Lookup(base, "grid.capacity_gw")
	assert.Equal(t, 1500.0, orig)
}

func TestMergeAll(t *testing.T) {
	got := MergeAll(Config{"a": 1.0}, Config{"b": 2.0}, Config{"a": 3.0})
	assert.Equal(t, Config{"a": 3.0, "b": 2.0}, got)
}
