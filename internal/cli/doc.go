// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes. It
// translates CLI flags into the application's internal configuration.
// Flag defaults come from TRANSITIONSIM_* environment variables, and an
// explicit flag always wins over its variable.
package cli
