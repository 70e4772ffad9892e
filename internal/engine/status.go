package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidState is returned when an operation is not allowed in the
// engine's current lifecycle state.
var ErrInvalidState = errors.New("invalid engine state")

// Status is the engine lifecycle state.
type Status int

const (
	Unconfigured Status = iota
	Configured
	Running
	Complete
	Failed
)

func (s Status) String() string {
	switch s {
	case Unconfigured:
		return "UNCONFIGURED"
	case Configured:
		return "CONFIGURED"
	case Running:
		return "RUNNING"
	case Complete:
		return "COMPLETE"
	case Failed:
		return "FAILED"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == Complete || s == Failed
}

func isAllowedTransition(from, to Status) bool {
	switch from {
	case Unconfigured:
		return to == Configured
	case Configured:
		return to == Running || to == Failed
	case Running:
		return to == Complete || to == Failed
	default:
		return false
	}
}

// transition moves the engine from one state to another, validating both the
// expected prior state and the edge.
func (e *Engine) transition(from, to Status) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status != from {
		return fmt.Errorf("%w: expected %s, got %s", ErrInvalidState, from, e.status)
	}
	if !isAllowedTransition(from, to) {
		return fmt.Errorf("%w: disallowed transition %s -> %s", ErrInvalidState, from, to)
	}
	e.status = to
	return nil
}
