// Package filestore persists scenarios as one YAML file per scenario in a
// directory.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vk/transitionsim/internal/scenario"
)

const ext = ".yaml"

// Store is a directory-backed scenario.Registry.
type Store struct {
	dir string
}

// Open returns a store rooted at dir, creating the directory if needed.
func Open(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("scenario directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create scenario directory: %w", err)
	}
	return &Store{dir: filepath.Clean(dir)}, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+ext)
}

// Save writes the scenario file atomically.
func (s *Store) Save(ctx context.Context, sc scenario.Scenario, overwrite bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := scenario.EncodeYAML(sc)
	if err != nil {
		return err
	}
	target := s.path(sc.Name)
	if !overwrite {
		if _, err := os.Stat(target); err == nil {
			return fmt.Errorf("%w: %q", scenario.ErrDuplicateName, sc.Name)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("stat scenario %q: %w", sc.Name, err)
		}
	}

	tmp, err := os.CreateTemp(s.dir, ".scenario-*")
	if err != nil {
		return fmt.Errorf("save scenario %q: %w", sc.Name, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("save scenario %q: %w", sc.Name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save scenario %q: %w", sc.Name, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("save scenario %q: %w", sc.Name, err)
	}
	return nil
}

// Load reads one scenario file.
func (s *Store) Load(ctx context.Context, name string) (scenario.Scenario, error) {
	if err := ctx.Err(); err != nil {
		return scenario.Scenario{}, err
	}
	if err := (scenario.Scenario{Name: name}).Validate(); err != nil {
		return scenario.Scenario{}, err
	}
	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return scenario.Scenario{}, fmt.Errorf("%w: %q", scenario.ErrNotFound, name)
	}
	if err != nil {
		return scenario.Scenario{}, fmt.Errorf("load scenario %q: %w", name, err)
	}
	sc, err := scenario.DecodeYAML(data)
	if err != nil {
		return scenario.Scenario{}, fmt.Errorf("load scenario %q: %w", name, err)
	}
	if sc.Name != name {
		return scenario.Scenario{}, fmt.Errorf("%w: file %s declares name %q", scenario.ErrInvalidScenario, s.path(name), sc.Name)
	}
	return sc, nil
}

// List returns the names of all scenario files.
func (s *Store) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || filepath.Ext(e.Name()) != ext {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ext))
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes one scenario file.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := (scenario.Scenario{Name: name}).Validate(); err != nil {
		return err
	}
	err := os.Remove(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %q", scenario.ErrNotFound, name)
	}
	return err
}

var _ scenario.Registry = (*Store)(nil)
