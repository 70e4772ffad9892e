package config

import (
	"context"
	"errors"
)

// MultiLoader runs several format loaders over the same paths and merges
// their models in loader order. A loader that finds no files of its format
// is skipped; ErrNoInputFiles is returned only when none of them finds any.
type MultiLoader []Loader

var _ Loader = MultiLoader(nil)

// Load implements Loader.
func (ml MultiLoader) Load(ctx context.Context, paths ...string) (*Model, error) {
	model := NewModel()
	found := false
	for _, l := range ml {
		part, err := l.Load(ctx, paths...)
		if errors.Is(err, ErrNoInputFiles) {
			continue
		}
		if err != nil {
			return nil, err
		}
		found = true
		model.Absorb(part)
	}
	if !found {
		return nil, ErrNoInputFiles
	}
	return model, nil
}
