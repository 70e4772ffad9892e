package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrComponentStep is wrapped by every StepError.
	ErrComponentStep = errors.New("component step failed")
	// ErrInvalidYearRange is returned by Run when start is after end.
	ErrInvalidYearRange = errors.New("invalid year range")
	// ErrYearMismatch is the cause recorded when a component returns a
	// record for a year other than the one it was asked to simulate.
	ErrYearMismatch = errors.New("record year mismatch")
	// ErrDuplicateComponent is returned by New for two components sharing
	// a name.
	ErrDuplicateComponent = errors.New("duplicate component name")
)

// StepError reports the component, year and cause of a failed run.
type StepError struct {
	Component string
	Year      int
	// Phase is "step" or "finalize".
	Phase string
	Err   error
}

func (e *StepError) Error() string {
	if e.Phase == phaseFinalize {
		return fmt.Sprintf("component %q failed to finalize: %v", e.Component, e.Err)
	}
	return fmt.Sprintf("component %q failed in year %d: %v", e.Component, e.Year, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *StepError) Unwrap() []error { return []error{ErrComponentStep, e.Err} }

const (
	phaseStep     = "step"
	phaseFinalize = "finalize"
)
