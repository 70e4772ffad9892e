// Package metrics exposes Prometheus instruments for simulation runs and
// Monte Carlo ensembles. All methods are safe to call on a nil *Metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeComplete  = "complete"
	OutcomeFailed    = "failed"
	OutcomeCancelled = "cancelled"
)

// Metrics tracks engine runs and ensemble iterations.
type Metrics struct {
	EngineRuns          *prometheus.CounterVec
	EngineRunDuration   prometheus.Histogram
	YearsSimulated      prometheus.Counter
	ComponentStepErrors *prometheus.CounterVec
	Iterations          *prometheus.CounterVec
	EnsembleDuration    prometheus.Histogram
}

// New creates a Metrics instance registered with reg. A nil reg uses a
// private registry, which keeps tests from colliding on the global one.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	return &Metrics{
		EngineRuns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "transitionsim_engine_runs_total",
			Help: "Total number of engine runs by outcome",
		}, []string{"outcome"}),
		EngineRunDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "transitionsim_engine_run_duration_seconds",
			Help:    "Duration of a single engine run",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		YearsSimulated: f.NewCounter(prometheus.CounterOpts{
			Name: "transitionsim_years_simulated_total",
			Help: "Total number of simulated years across all runs",
		}),
		ComponentStepErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "transitionsim_component_step_errors_total",
			Help: "Total number of failed component steps",
		}, []string{"component"}),
		Iterations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "transitionsim_montecarlo_iterations_total",
			Help: "Total number of Monte Carlo iterations by outcome",
		}, []string{"outcome"}),
		EnsembleDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "transitionsim_montecarlo_duration_seconds",
			Help:    "Duration of a whole Monte Carlo ensemble",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
	}
}

// ObserveRun records a finished engine run.
// Call with time.Now() at the start of the run.
func (m *Metrics) ObserveRun(outcome string, years int, start time.Time) {
	if m == nil {
		return
	}
	m.EngineRuns.WithLabelValues(outcome).Inc()
	m.EngineRunDuration.Observe(time.Since(start).Seconds())
	if years > 0 {
		m.YearsSimulated.Add(float64(years))
	}
}

// IncrementStepError records a component step failure.
func (m *Metrics) IncrementStepError(component string) {
	if m == nil {
		return
	}
	m.ComponentStepErrors.WithLabelValues(component).Inc()
}

// IncrementIteration records one finished Monte Carlo iteration.
func (m *Metrics) IncrementIteration(outcome string) {
	if m == nil {
		return
	}
	m.Iterations.WithLabelValues(outcome).Inc()
}

// ObserveEnsemble records the duration of a whole ensemble.
func (m *Metrics) ObserveEnsemble(start time.Time) {
	if m == nil {
		return
	}
	m.EnsembleDuration.Observe(time.Since(start).Seconds())
}
