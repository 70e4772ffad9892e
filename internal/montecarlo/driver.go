// Package montecarlo drives ensembles of independent simulation runs under
// randomly sampled parameters and reduces them to summary statistics and
// sensitivity coefficients.
//
// Every iteration derives its own seed from the ensemble seed and its
// index, so an ensemble is reproducible bit for bit regardless of how many
// workers execute it or in which order iterations finish.
package montecarlo

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/vk/transitionsim/internal/collector"
	"github.com/vk/transitionsim/internal/config"
	"github.com/vk/transitionsim/internal/ctxlog"
	"github.com/vk/transitionsim/internal/engine"
	"github.com/vk/transitionsim/internal/metrics"
	"github.com/vk/transitionsim/internal/registry"
	"github.com/vk/transitionsim/internal/rng"
	"github.com/vk/transitionsim/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidOptions is returned for unusable ensemble options.
var ErrInvalidOptions = errors.New("invalid monte carlo options")

// errToleranceExceeded stops the worker group once too many iterations
// have failed.
var errToleranceExceeded = errors.New("failure tolerance exceeded")

// EngineFactory returns a fresh, Unconfigured engine with fresh components
// for one iteration. seed is the iteration's sub-seed.
type EngineFactory func(iteration int, seed uint64) (*engine.Engine, error)

// RegistryFactory builds engines over fresh instances of the named
// registered components.
func RegistryFactory(reg *registry.Registry, names []string, opts ...engine.Option) EngineFactory {
	return func(_ int, seed uint64) (*engine.Engine, error) {
		return engine.NewFromRegistry(reg, names, append([]engine.Option{engine.WithSeed(seed)}, opts...)...)
	}
}

// Options configures an ensemble.
type Options struct {
	Base          config.Config
	Distributions []Distribution
	Iterations    int
	Seed          uint64
	StartYear     int
	EndYear       int
	// Workers bounds concurrent iterations. Defaults to GOMAXPROCS.
	Workers int
	// FailureTolerance is the largest acceptable fraction of failed
	// iterations. nil means 1: failures are reported but never abort.
	FailureTolerance *float64
	EngineFactory    EngineFactory
	Metrics          *metrics.Metrics
	// NewSource builds the sampling source for a seed. Defaults to rng.New.
	NewSource rng.Factory
}

// Tolerance is a helper for Options.FailureTolerance.
func Tolerance(f float64) *float64 { return &f }

func (o *Options) validate() error {
	if o.Iterations < 1 {
		return fmt.Errorf("%w: iterations must be at least 1, got %d", ErrInvalidOptions, o.Iterations)
	}
	if o.StartYear > o.EndYear {
		return fmt.Errorf("%w: %w: %d > %d", ErrInvalidOptions, engine.ErrInvalidYearRange, o.StartYear, o.EndYear)
	}
	if o.EngineFactory == nil {
		return fmt.Errorf("%w: engine factory is required", ErrInvalidOptions)
	}
	if o.FailureTolerance != nil && (*o.FailureTolerance < 0 || *o.FailureTolerance > 1) {
		return fmt.Errorf("%w: failure tolerance %g outside [0, 1]", ErrInvalidOptions, *o.FailureTolerance)
	}
	seen := make(map[string]struct{}, len(o.Distributions))
	for _, d := range o.Distributions {
		if err := d.Validate(); err != nil {
			return err
		}
		if _, dup := seen[d.Path]; dup {
			return fmt.Errorf("%w: path %q sampled twice", ErrInvalidDistribution, d.Path)
		}
		seen[d.Path] = struct{}{}
	}
	return nil
}

func (o *Options) tolerance() float64 {
	if o.FailureTolerance == nil {
		return 1
	}
	return *o.FailureTolerance
}

func (o *Options) workers() int {
	w := o.Workers
	if w <= 0 {
		w = runtime.GOMAXPROCS(0)
	}
	if w > o.Iterations {
		w = o.Iterations
	}
	return w
}

// Sample draws the parameter values of one iteration. Each distribution
// uses its own stream derived from the iteration seed and its path, so
// adding a distribution does not shift the draws of the others.
func Sample(dists []Distribution, seed uint64, newSource rng.Factory) (map[string]float64, error) {
	if newSource == nil {
		newSource = rng.New
	}
	out := make(map[string]float64, len(dists))
	for _, d := range dists {
		draw, err := d.Sampler(newSource(rng.Stream(seed, d.Path)))
		if err != nil {
			return nil, err
		}
		out[d.Path] = draw()
	}
	return out, nil
}

// Run executes the ensemble. The returned Result is never nil once the
// options validate: on cancellation or an AggregationError it still holds
// every finished iteration and the aggregates computable from them.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	ensembleID := uuid.NewString()
	ctx = ctxlog.With(ctx, "ensemble_id", ensembleID)
	logger := ctxlog.FromContext(ctx)
	began := time.Now()
	defer opts.Metrics.ObserveEnsemble(began)

	ctx, span := tracing.Tracer().Start(ctx, "montecarlo.Run", trace.WithAttributes(
		attribute.String("ensemble_id", ensembleID),
		attribute.Int("iterations", opts.Iterations),
		attribute.Int64("seed", int64(opts.Seed)),
	))
	defer span.End()

	workers := opts.workers()
	tolerance := opts.tolerance()
	logger.Info("▶️ Monte Carlo ensemble started.",
		"iterations", opts.Iterations, "workers", workers, "parameters", len(opts.Distributions),
		"start_year", opts.StartYear, "end_year", opts.EndYear)

	iterations := make([]Iteration, opts.Iterations)
	for i := range iterations {
		iterations[i] = Iteration{Index: i, Seed: rng.DeriveSeed(opts.Seed, i), Status: Skipped}
	}

	var failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range iterations {
		if gctx.Err() != nil {
			break
		}
		it := &iterations[i]
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			runIteration(gctx, &opts, it)
			switch it.Status {
			case Failed:
				opts.Metrics.IncrementIteration(metrics.OutcomeFailed)
				logger.Warn("Monte Carlo iteration failed.", "iteration", it.Index, "error", it.Err)
				if float64(failed.Add(1))/float64(opts.Iterations) > tolerance {
					return errToleranceExceeded
				}
			case Succeeded:
				opts.Metrics.IncrementIteration(metrics.OutcomeComplete)
			case Skipped:
				opts.Metrics.IncrementIteration(metrics.OutcomeCancelled)
			}
			return nil
		})
	}
	groupErr := g.Wait()

	res := newResult(ensembleID, opts, iterations)
	logger.Info("🏁 Monte Carlo ensemble finished.",
		"succeeded", res.Succeeded, "failed", res.Failed, "skipped", res.Skipped,
		"duration", time.Since(began))

	if err := ctx.Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return res, fmt.Errorf("monte carlo cancelled after %d of %d iterations: %w", res.Succeeded+res.Failed, opts.Iterations, err)
	}
	if errors.Is(groupErr, errToleranceExceeded) || res.Succeeded == 0 {
		aerr := newAggregationError(res, tolerance)
		span.RecordError(aerr)
		span.SetStatus(codes.Error, aerr.Error())
		logger.Error("Monte Carlo aggregation failed.", "error", aerr)
		return res, aerr
	}
	return res, nil
}

// runIteration samples, configures and runs one engine. The outcome is
// written into it; nothing else is shared between iterations.
func runIteration(ctx context.Context, opts *Options, it *Iteration) {
	ctx = ctxlog.With(ctx, "iteration", it.Index)
	ctx, span := tracing.Tracer().Start(ctx, "montecarlo.iteration", trace.WithAttributes(
		attribute.Int("iteration", it.Index),
	))
	defer span.End()

	fail := func(err error) {
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			it.Status = Skipped
			it.Err = err
			return
		}
		it.Status = Failed
		it.Err = err
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	params, err := Sample(opts.Distributions, it.Seed, opts.NewSource)
	if err != nil {
		fail(err)
		return
	}
	it.Params = params

	overrides := make(config.Config, len(params))
	for path, v := range params {
		overrides[path] = v
	}
	effective := config.Merge(opts.Base, overrides)

	eng, err := opts.EngineFactory(it.Index, it.Seed)
	if err != nil {
		fail(fmt.Errorf("build engine: %w", err))
		return
	}
	it.RunID = eng.RunID()
	if err := eng.Configure(ctx, effective); err != nil {
		fail(err)
		return
	}
	if err := eng.Run(ctx, opts.StartYear, opts.EndYear); err != nil {
		fail(err)
		return
	}
	res, err := eng.Results()
	if err != nil {
		fail(err)
		return
	}
	it.KPI = res.KPI
	it.Status = Succeeded
}

// IterationStatus is the outcome of one ensemble member.
type IterationStatus int

const (
	// Skipped iterations never ran or were interrupted by cancellation.
	Skipped IterationStatus = iota
	Succeeded
	Failed
)

func (s IterationStatus) String() string {
	switch s {
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "skipped"
	}
}

// Iteration records one ensemble member.
type Iteration struct {
	Index  int
	Seed   uint64
	RunID  string
	Params map[string]float64
	Status IterationStatus
	KPI    *collector.KPITable
	Err    error
}
