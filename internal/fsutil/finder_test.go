package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func TestResolvePaths(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	a := filepath.Join(dir, "b.yaml")
	b := filepath.Join(dir, "sub", "a.yml")
	c := filepath.Join(dir, "sub", ".hidden.yaml")
	d := filepath.Join(dir, "readme.md")
	for _, p := range []string{a, b, c, d} {
		touch(t, p)
	}

	// Act
	got, err := ResolvePaths([]string{d, b, dir, filepath.Join(dir, "missing")}, ".yaml", ".yml")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{b, a}, got, "explicit file first, then the directory without repeats")
}

func TestFindFilesByExtension_Sorted(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "z.hcl"))
	touch(t, filepath.Join(dir, "a.hcl"))
	touch(t, filepath.Join(dir, "m", "x.hcl"))

	got, err := FindFilesByExtension(dir, ".hcl")

	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.hcl"),
		filepath.Join(dir, "m", "x.hcl"),
		filepath.Join(dir, "z.hcl"),
	}, got)
}

func TestFindFilesByExtension_PanicsOnEmptyExtension(t *testing.T) {
	assert.Panics(t, func() { _, _ = FindFilesByExtension(t.TempDir(), "") })
}
