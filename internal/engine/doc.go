// Package engine is the simulation run layer of the application.
//
// An Engine owns an ordered list of components, the effective configuration
// for one run and the per-run state. It moves through a small lifecycle:
//
//	Unconfigured -> Configured -> Running -> Complete
//	                     \            \
//	                      `-> Failed <-'
//
// Years are simulated strictly one at a time. Within a year every
// component steps in registration order, so a component sees the same-year
// output of everything registered before it and the previous year's output
// of everything after it. Ordering is the caller's contract; the engine does
// not infer dependencies.
//
// A step failure aborts the run. No partial results are exposed: Results
// only succeeds once the run is Complete.
package engine
