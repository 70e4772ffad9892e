package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vk/transitionsim/internal/collector"
	"github.com/vk/transitionsim/internal/component"
	"github.com/vk/transitionsim/internal/config"
	"github.com/vk/transitionsim/internal/ctxlog"
	"github.com/vk/transitionsim/internal/metrics"
	"github.com/vk/transitionsim/internal/registry"
	"github.com/vk/transitionsim/internal/rng"
	"github.com/vk/transitionsim/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Engine runs one simulation. It is single-use: once Complete or Failed it
// cannot be configured again.
type Engine struct {
	mu     sync.Mutex
	status Status
	err    error

	runID      string
	components []component.Component
	seed       uint64
	newSource  rng.Factory
	metrics    *metrics.Metrics

	cfg     config.Config
	state   *component.State
	results *Results
}

// Option configures an Engine.
type Option func(*Engine)

// WithComponents appends components in the order they must step.
func WithComponents(cs ...component.Component) Option {
	return func(e *Engine) { e.components = append(e.components, cs...) }
}

// WithSeed sets the seed from which every Seeded component gets its own
// stream.
func WithSeed(seed uint64) Option {
	return func(e *Engine) { e.seed = seed }
}

// WithSourceFactory replaces the random source constructor.
func WithSourceFactory(f rng.Factory) Option {
	return func(e *Engine) {
		if f != nil {
			e.newSource = f
		}
	}
}

// WithMetrics records run outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithRunID overrides the generated run ID.
func WithRunID(id string) Option {
	return func(e *Engine) { e.runID = id }
}

// New creates an Unconfigured engine.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		runID:     uuid.NewString(),
		newSource: rng.New,
	}
	for _, opt := range opts {
		opt(e)
	}

	seen := make(map[string]struct{}, len(e.components))
	for _, c := range e.components {
		if c == nil {
			return nil, errors.New("engine: nil component")
		}
		if _, dup := seen[c.Name()]; dup {
			return nil, fmt.Errorf("engine: %w: %q", ErrDuplicateComponent, c.Name())
		}
		seen[c.Name()] = struct{}{}
	}
	return e, nil
}

// NewFromRegistry builds fresh component instances for names (all
// registered components when empty) and returns an engine over them.
func NewFromRegistry(reg *registry.Registry, names []string, opts ...Option) (*Engine, error) {
	comps, err := reg.Build(names...)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	return New(append([]Option{WithComponents(comps...)}, opts...)...)
}

// RunID returns the unique identifier of this run.
func (e *Engine) RunID() string { return e.runID }

// Status returns the current lifecycle state.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// Err returns the error that moved the engine to Failed, if any.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// Components returns the component names in step order.
func (e *Engine) Components() []string {
	out := make([]string, len(e.components))
	for i, c := range e.components {
		out[i] = c.Name()
	}
	return out
}

// Configure hands each component its namespace of cfg. When any component
// rejects its slice the engine stays Unconfigured and the returned error
// is a *component.ConfigurationError.
func (e *Engine) Configure(ctx context.Context, cfg config.Config) error {
	logger := ctxlog.FromContext(ctx).With("run_id", e.runID)

	if s := e.Status(); s != Unconfigured {
		return fmt.Errorf("engine: configure: %w: %s", ErrInvalidState, s)
	}

	for _, c := range e.components {
		name := c.Name()
		if s, ok := c.(component.Seeded); ok {
			s.SetSource(e.newSource(rng.Stream(e.seed, name)))
		}
		if err := c.Initialize(cfg.Section(name)); err != nil {
			var cerr *component.ConfigurationError
			if !errors.As(err, &cerr) {
				err = &component.ConfigurationError{Component: name, Msg: err.Error()}
			}
			logger.Error("Component rejected its configuration.", "component", name, "error", err)
			return err
		}
		logger.Debug("Component initialized.", "component", name)
	}

	e.cfg = config.Clone(cfg)
	e.state = component.NewState()
	if err := e.transition(Unconfigured, Configured); err != nil {
		return err
	}
	logger.Debug("Engine configured.", "components", len(e.components))
	return nil
}

// Run simulates start..end inclusive. On success the engine is Complete
// and Results is available.
func (e *Engine) Run(ctx context.Context, start, end int) (err error) {
	logger := ctxlog.FromContext(ctx).With("run_id", e.runID)

	if s := e.Status(); s != Configured {
		return fmt.Errorf("engine: run: %w: %s", ErrInvalidState, s)
	}
	if start > end {
		return fmt.Errorf("engine: %w: %d > %d", ErrInvalidYearRange, start, end)
	}

	began := time.Now()
	ctx, span := tracing.Tracer().Start(ctx, "engine.Run", trace.WithAttributes(
		attribute.String("run_id", e.runID),
		attribute.Int("start_year", start),
		attribute.Int("end_year", end),
		attribute.Int("components", len(e.components)),
	))
	defer span.End()

	if cerr := ctx.Err(); cerr != nil {
		e.fail(Configured, cerr)
		e.metrics.ObserveRun(metrics.OutcomeCancelled, 0, began)
		return fmt.Errorf("engine: run cancelled before start: %w", cerr)
	}
	if err := e.transition(Configured, Running); err != nil {
		return err
	}

	logger.Debug("Simulation run started.", "start_year", start, "end_year", end)
	defer func() {
		if err == nil {
			return
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		outcome := metrics.OutcomeFailed
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			outcome = metrics.OutcomeCancelled
		}
		e.metrics.ObserveRun(outcome, 0, began)
	}()

	for year := start; year <= end; year++ {
		e.state.SetYear(year)
		for _, c := range e.components {
			if cerr := ctx.Err(); cerr != nil {
				e.fail(Running, cerr)
				logger.Warn("Simulation run cancelled.", "year", year, "error", cerr)
				return fmt.Errorf("engine: run cancelled in year %d: %w", year, cerr)
			}
			if serr := e.step(c, year); serr != nil {
				e.fail(Running, serr)
				e.metrics.IncrementStepError(c.Name())
				logger.Error("Component step failed.", "component", c.Name(), "year", year, "error", serr)
				return serr
			}
			logger.Debug("Component stepped.", "component", c.Name(), "year", year)
		}
	}

	tables := make(map[string]*component.ResultTable, len(e.components))
	for _, c := range e.components {
		table, ferr := c.Finalize()
		if ferr == nil && table == nil {
			ferr = errors.New("finalize returned no table")
		}
		if ferr != nil {
			serr := &StepError{Component: c.Name(), Year: end, Phase: phaseFinalize, Err: ferr}
			e.fail(Running, serr)
			logger.Error("Component finalize failed.", "component", c.Name(), "error", ferr)
			return serr
		}
		tables[c.Name()] = table
	}

	e.results = &Results{
		RunID:      e.runID,
		StartYear:  start,
		EndYear:    end,
		Components: e.Components(),
		Tables:     tables,
		KPI:        collector.Collect(tables),
	}
	if err := e.transition(Running, Complete); err != nil {
		return err
	}
	e.metrics.ObserveRun(metrics.OutcomeComplete, end-start+1, began)
	logger.Debug("Simulation run completed.", "years", end-start+1, "duration", time.Since(began))
	return nil
}

// step advances one component by one year and publishes its record.
func (e *Engine) step(c component.Component, year int) error {
	rec, err := c.Step(year, e.state)
	if errors.Is(err, component.ErrSkipYear) {
		return nil
	}
	if err != nil {
		return &StepError{Component: c.Name(), Year: year, Phase: phaseStep, Err: err}
	}
	if rec.Year != year {
		return &StepError{
			Component: c.Name(),
			Year:      year,
			Phase:     phaseStep,
			Err:       fmt.Errorf("%w: got %d", ErrYearMismatch, rec.Year),
		}
	}
	e.state.Publish(c.Name(), rec)
	return nil
}

func (e *Engine) fail(from Status, cause error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status != from || !isAllowedTransition(from, Failed) {
		return
	}
	e.status = Failed
	e.err = cause
	e.state = nil
}

// Results returns the run output. It is only valid once Complete.
func (e *Engine) Results() (*Results, error) {
	if s := e.Status(); s != Complete {
		return nil, fmt.Errorf("engine: results: %w: %s", ErrInvalidState, s)
	}
	return e.results, nil
}

// Config returns a copy of the effective configuration the engine was
// configured with.
func (e *Engine) Config() config.Config { return config.Clone(e.cfg) }

// Simulate is a convenience wrapper around New, Configure, Run and Results.
func Simulate(ctx context.Context, cfg config.Config, start, end int, opts ...Option) (*Results, error) {
	e, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err := e.Configure(ctx, cfg); err != nil {
		return nil, err
	}
	if err := e.Run(ctx, start, end); err != nil {
		return nil, err
	}
	return e.Results()
}
