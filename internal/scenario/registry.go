package scenario

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Registry stores scenarios by name.
type Registry interface {
	// Save stores s. Without overwrite an existing name fails with
	// ErrDuplicateName.
	Save(ctx context.Context, s Scenario, overwrite bool) error
	// Load returns the named scenario or ErrNotFound.
	Load(ctx context.Context, name string) (Scenario, error)
	// List returns all stored names in lexical order.
	List(ctx context.Context) ([]string, error)
	// Delete removes the named scenario or returns ErrNotFound.
	Delete(ctx context.Context, name string) error
}

// MemoryRegistry is an in-process Registry. The default scenario is always
// loadable from it, even after being deleted or before anything is saved.
type MemoryRegistry struct {
	mu        sync.RWMutex
	scenarios map[string]Scenario
}

// NewMemoryRegistry returns a registry seeded with the default scenario.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{scenarios: map[string]Scenario{DefaultName: Default()}}
}

func (r *MemoryRegistry) Save(ctx context.Context, s Scenario, overwrite bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.scenarios[s.Name]; exists && !overwrite {
		return fmt.Errorf("%w: %q", ErrDuplicateName, s.Name)
	}
	r.scenarios[s.Name] = s.Clone()
	return nil
}

func (r *MemoryRegistry) Load(ctx context.Context, name string) (Scenario, error) {
	if err := ctx.Err(); err != nil {
		return Scenario{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.scenarios[name]
	if !ok {
		if name == DefaultName {
			return Default(), nil
		}
		return Scenario{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return s.Clone(), nil
}

func (r *MemoryRegistry) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.scenarios))
	for name := range r.scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (r *MemoryRegistry) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.scenarios[name]; !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	delete(r.scenarios, name)
	return nil
}

// WithDefault wraps a persistent registry so the default scenario is
// loadable from it without being stored.
func WithDefault(reg Registry) Registry {
	return defaultFallback{Registry: reg}
}

type defaultFallback struct {
	Registry
}

func (d defaultFallback) Load(ctx context.Context, name string) (Scenario, error) {
	s, err := d.Registry.Load(ctx, name)
	if err != nil && name == DefaultName && errors.Is(err, ErrNotFound) {
		return Default(), nil
	}
	return s, err
}

func (d defaultFallback) List(ctx context.Context) ([]string, error) {
	names, err := d.Registry.List(ctx)
	if err != nil {
		return nil, err
	}
	i := sort.SearchStrings(names, DefaultName)
	if i < len(names) && names[i] == DefaultName {
		return names, nil
	}
	names = append(names, "")
	copy(names[i+1:], names[i:])
	names[i] = DefaultName
	return names, nil
}

var _ Registry = (*MemoryRegistry)(nil)
