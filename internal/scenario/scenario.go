// Package scenario models named configuration override sets and the
// registries that store them.
//
// A Scenario is pure data. Applying it to a base configuration never
// mutates either side, and applying the same scenario to the same base
// always yields deep-equal results.
package scenario

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vk/transitionsim/internal/config"
)

// DefaultName is the name of the baseline scenario every MemoryRegistry can
// load.
const DefaultName = "default"

var (
	// ErrDuplicateName is returned by Save when a scenario with the same
	// name exists and overwrite was not requested.
	ErrDuplicateName = errors.New("scenario already exists")
	// ErrNotFound is returned when a named scenario does not exist.
	ErrNotFound = errors.New("scenario not found")
	// ErrInvalidScenario is returned for malformed scenarios and requests.
	ErrInvalidScenario = errors.New("invalid scenario")
)

// Scenario is a named, described override mapping.
type Scenario struct {
	Name        string
	Description string
	Overrides   config.Config
}

// New validates name and returns a scenario holding its own copy of
// overrides.
func New(name, description string, overrides config.Config) (Scenario, error) {
	s := Scenario{Name: name, Description: description, Overrides: config.Clone(overrides)}
	if err := s.Validate(); err != nil {
		return Scenario{}, err
	}
	return s, nil
}

// Default returns the baseline scenario with no overrides.
func Default() Scenario {
	return Scenario{
		Name:        DefaultName,
		Description: "Baseline configuration without overrides",
		Overrides:   config.Config{},
	}
}

// Validate checks that the name is usable as a registry key and file name.
func (s Scenario) Validate() error {
	name := strings.TrimSpace(s.Name)
	switch {
	case name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidScenario)
	case name != s.Name:
		return fmt.Errorf("%w: name %q has surrounding whitespace", ErrInvalidScenario, s.Name)
	case strings.ContainsAny(name, `/\`) || name == "." || name == "..":
		return fmt.Errorf("%w: name %q is not a plain identifier", ErrInvalidScenario, s.Name)
	}
	return nil
}

// ApplyTo returns the effective configuration for this scenario.
func (s Scenario) ApplyTo(base config.Config) config.Config {
	return config.Merge(base, s.Overrides)
}

// Clone returns a deep copy of s.
func (s Scenario) Clone() Scenario {
	s.Overrides = config.Clone(s.Overrides)
	return s
}

// FromSpec converts a loaded scenario block.
func FromSpec(spec config.ScenarioSpec) (Scenario, error) {
	return New(spec.Name, spec.Description, spec.Overrides)
}
