// Package config defines the nested configuration mapping consumed by the
// simulation engine, the deep-merge rules used to derive effective
// configurations from scenarios and sampled parameters, and the
// format-agnostic Model produced by the configuration loaders.
//
// A Config is an arbitrarily nested map from string keys to scalars,
// mappings or sequences. Configs are immutable by convention: every
// function in this package returns a new structure and never mutates its
// inputs. Nested mappings in returned values are always map[string]any.
//
// Concrete loaders for HCL and YAML live in separate packages and satisfy
// the Loader interface.
package config
