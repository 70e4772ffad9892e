package component

import (
	"errors"
	"fmt"
)

// ErrConfiguration is the sentinel wrapped by every ConfigurationError.
var ErrConfiguration = errors.New("configuration error")

// ConfigurationError reports a missing or malformed configuration key
// detected while a component initializes. It is never recoverable without
// the caller fixing the input.
type ConfigurationError struct {
	Component string
	Path      string
	Msg       string
}

func (e *ConfigurationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("component %q: %s: %s", e.Component, ErrConfiguration, e.Msg)
	}
	return fmt.Sprintf("component %q: %s at %q: %s", e.Component, ErrConfiguration, e.Path, e.Msg)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// Configf builds a ConfigurationError.
func Configf(component, path, format string, args ...any) error {
	return &ConfigurationError{Component: component, Path: path, Msg: fmt.Sprintf(format, args...)}
}
