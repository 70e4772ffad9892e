package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/transitionsim/internal/config"
	"github.com/vk/transitionsim/internal/scenario"
)

func TestStore_RoundTrip(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store, err := Open(filepath.Join(t.TempDir(), "scenarios"))
	require.NoError(t, err)
	sc, err := scenario.New("high_solar", "Faster solar uptake", config.Config{
		"renewable": map[string]any{"growth_rates": map[string]any{"solar": 0.15}},
	})
	require.NoError(t, err)

	// Act
	require.NoError(t, store.Save(ctx, sc, false))
	got, err := store.Load(ctx, "high_solar")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "high_solar", got.Name)
	assert.Equal(t, "Faster solar uptake", got.Description)
	v, ok := config.Lookup(got.Overrides, "renewable.growth_rates.solar")
	require.True(t, ok)
	assert.Equal(t, 0.15, v)
}

func TestStore_DuplicateAndOverwrite(t *testing.T) {
	ctx := context.Background()
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	first := scenario.Scenario{Name: "s", Description: "one", Overrides: config.Config{"a": 1}}
	second := scenario.Scenario{Name: "s", Description: "two", Overrides: config.Config{"a": 2}}

	require.NoError(t, store.Save(ctx, first, false))
	require.ErrorIs(t, store.Save(ctx, second, false), scenario.ErrDuplicateName)

	got, err := store.Load(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, "one", got.Description)

	require.NoError(t, store.Save(ctx, second, true))
	got, err = store.Load(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, "two", got.Description)
}

func TestStore_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := Open(dir)
	require.NoError(t, err)
	for _, name := range []string{"b", "a"} {
		require.NoError(t, store.Save(ctx, scenario.Scenario{Name: name}, false))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	require.NoError(t, store.Delete(ctx, "a"))
	require.ErrorIs(t, store.Delete(ctx, "a"), scenario.ErrNotFound)
	_, err = store.Load(ctx, "a")
	require.ErrorIs(t, err, scenario.ErrNotFound)
}

func TestStore_RejectsUnsafeNames(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load(context.Background(), "../etc/passwd")
	require.ErrorIs(t, err, scenario.ErrInvalidScenario)
	err = store.Save(context.Background(), scenario.Scenario{Name: "a/b"}, false)
	require.ErrorIs(t, err, scenario.ErrInvalidScenario)
}

func TestStore_NameMismatch(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.yaml"), []byte("name: y\noverrides: {}\n"), 0o644))

	_, err = store.Load(context.Background(), "x")
	require.ErrorIs(t, err, scenario.ErrInvalidScenario)
}

func TestStore_WithDefault(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	reg := scenario.WithDefault(store)

	got, err := reg.Load(context.Background(), scenario.DefaultName)
	require.NoError(t, err)
	assert.Empty(t, got.Overrides)

	names, err := reg.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{scenario.DefaultName}, names)
}
