// Package registry provides the central "glue" for the component system.
//
// Domain modules register a named factory for each component they provide.
// The registry never hands out the same component instance twice: Build
// calls the factories again, so every engine run (and every Monte Carlo
// member) gets fresh component state.
//
// Duplicate registrations are programmer errors and panic at startup.
package registry
