package montecarlo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vk/transitionsim/internal/collector"
)

// ErrAggregation is wrapped by every AggregationError.
var ErrAggregation = errors.New("monte carlo aggregation failed")

// maxCauses bounds how many representative failures an AggregationError
// carries.
const maxCauses = 5

// AggregationError reports an ensemble with no successful iterations or a
// failure rate above tolerance.
type AggregationError struct {
	Failed    int
	Succeeded int
	Total     int
	Tolerance float64
	// Causes holds up to five representative iteration errors, in
	// iteration order.
	Causes []error
}

func (e *AggregationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d of %d iterations failed", ErrAggregation, e.Failed, e.Total)
	if e.Succeeded == 0 {
		b.WriteString(", none succeeded")
	} else {
		fmt.Fprintf(&b, " (tolerance %.0f%%)", e.Tolerance*100)
	}
	for i, c := range e.Causes {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(c.Error())
	}
	return b.String()
}

// Unwrap exposes the sentinel and the representative causes.
func (e *AggregationError) Unwrap() []error {
	return append([]error{ErrAggregation}, e.Causes...)
}

func newAggregationError(r *Result, tolerance float64) *AggregationError {
	aerr := &AggregationError{
		Failed:    r.Failed,
		Succeeded: r.Succeeded,
		Total:     len(r.Iterations),
		Tolerance: tolerance,
	}
	for _, it := range r.Iterations {
		if it.Status == Failed && len(aerr.Causes) < maxCauses {
			aerr.Causes = append(aerr.Causes, fmt.Errorf("iteration %d: %w", it.Index, it.Err))
		}
	}
	return aerr
}

// Result is the outcome of an ensemble.
type Result struct {
	EnsembleID string
	Seed       uint64
	Parameters []string
	Iterations []Iteration

	Succeeded int
	Failed    int
	Skipped   int

	Summary     *Summary
	Sensitivity []Coefficient
}

func newResult(id string, opts Options, iterations []Iteration) *Result {
	r := &Result{
		EnsembleID: id,
		Seed:       opts.Seed,
		Iterations: iterations,
	}
	for _, d := range opts.Distributions {
		r.Parameters = append(r.Parameters, d.Path)
	}
	for _, it := range iterations {
		switch it.Status {
		case Succeeded:
			r.Succeeded++
		case Failed:
			r.Failed++
		default:
			r.Skipped++
		}
	}
	ok := r.successful()
	r.Summary = summarize(ok)
	r.Sensitivity = sensitivity(r.Parameters, ok, r.Summary)
	return r
}

func (r *Result) successful() []Iteration {
	var out []Iteration
	for _, it := range r.Iterations {
		if it.Status == Succeeded {
			out = append(out, it)
		}
	}
	return out
}

// KPITables returns the KPI table of each successful iteration in
// iteration order.
func (r *Result) KPITables() []*collector.KPITable {
	var out []*collector.KPITable
	for _, it := range r.successful() {
		out = append(out, it.KPI)
	}
	return out
}

// Samples returns the sampled values of one parameter across successful
// iterations, in iteration order.
func (r *Result) Samples(path string) []float64 {
	var out []float64
	for _, it := range r.successful() {
		if v, ok := it.Params[path]; ok {
			out = append(out, v)
		}
	}
	return out
}

// Coefficient returns the sensitivity of target to parameter.
func (r *Result) Coefficient(parameter, target string) (Coefficient, bool) {
	for _, c := range r.Sensitivity {
		if c.Parameter == parameter && c.Target == target {
			return c, true
		}
	}
	return Coefficient{}, false
}

// Errors returns the errors of failed iterations keyed by index.
func (r *Result) Errors() map[int]error {
	out := make(map[int]error)
	for _, it := range r.Iterations {
		if it.Status == Failed {
			out[it.Index] = it.Err
		}
	}
	return out
}
