package sqlitestore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/transitionsim/internal/config"
	"github.com/vk/transitionsim/internal/scenario"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "scenarios.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_SaveLoad(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := openTestStore(t)
	sc := scenario.Scenario{
		Name:        "net_zero",
		Description: "Aggressive decarbonisation",
		Overrides: config.Config{
			"renewable.growth_rates.solar": 0.2,
			"emissions":                    map[string]any{"coal_phaseout_year": 2035},
		},
	}

	// Act
	require.NoError(t, store.Save(ctx, sc, false))
	got, err := store.Load(ctx, "net_zero")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, sc.Description, got.Description)
	base := config.Config{"renewable": map[string]any{"growth_rates": map[string]any{"solar": 0.1, "wind": 0.05}}}
	assert.Equal(t, sc.ApplyTo(base), got.ApplyTo(base))
}

func TestStore_Duplicate(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	require.NoError(t, store.Save(ctx, scenario.Scenario{Name: "a", Description: "1"}, false))
	require.ErrorIs(t, store.Save(ctx, scenario.Scenario{Name: "a", Description: "2"}, false), scenario.ErrDuplicateName)
	require.NoError(t, store.Save(ctx, scenario.Scenario{Name: "a", Description: "3"}, true))

	got, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "3", got.Description)
}

func TestStore_NotFoundListDelete(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	_, err := store.Load(ctx, "missing")
	require.ErrorIs(t, err, scenario.ErrNotFound)
	require.ErrorIs(t, store.Delete(ctx, "missing"), scenario.ErrNotFound)

	require.NoError(t, store.Save(ctx, scenario.Scenario{Name: "z"}, false))
	require.NoError(t, store.Save(ctx, scenario.Scenario{Name: "m"}, false))
	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"m", "z"}, names)

	require.NoError(t, store.Delete(ctx, "m"))
	names, err = store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"z"}, names)
}

func TestStore_InvalidName(t *testing.T) {
	store := openTestStore(t)
	err := store.Save(context.Background(), scenario.Scenario{Name: ""}, false)
	require.ErrorIs(t, err, scenario.ErrInvalidScenario)
}

func TestStore_NilIsNotConfigured(t *testing.T) {
	var store *Store
	require.Error(t, store.Save(context.Background(), scenario.Scenario{Name: "a"}, false))
	require.NoError(t, store.Close())
}
