package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/transitionsim/internal/config"
	"github.com/vk/transitionsim/internal/ctxlog"
	"github.com/vk/transitionsim/internal/engine"
	"github.com/vk/transitionsim/internal/hcl_adapter"
	"github.com/vk/transitionsim/internal/montecarlo"
	"github.com/vk/transitionsim/internal/scenario"
	"github.com/vk/transitionsim/internal/tracing"
)

const serviceName = "transitionsim"

// Run executes the mode selected by the configuration: scenario export,
// scenario comparison, a Monte Carlo ensemble or a single simulation.
func (a *App) Run(ctx context.Context) (err error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	shutdown, err := tracing.Setup(ctx, serviceName, a.config.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() {
		if serr := shutdown(context.WithoutCancel(ctx)); serr != nil {
			a.logger.Warn("Tracer shutdown failed.", "error", serr)
		}
	}()

	if a.config.HealthcheckPort > 0 {
		a.startHealthcheckServer(a.config.HealthcheckPort)
	}

	switch {
	case a.config.ExportScenario != "":
		err = a.exportScenario(ctx, a.config.ExportScenario)
	case len(a.config.CompareScenarios) > 0:
		err = a.compareScenarios(ctx, a.config.CompareScenarios)
	case a.config.MonteCarlo:
		err = a.runEnsemble(ctx)
	default:
		err = a.runSingle(ctx)
	}

	a.logger.Debug("App.Run method finished.")
	return err
}

// effectiveConfig applies the selected scenario to the base configuration.
func (a *App) effectiveConfig(ctx context.Context) (config.Config, error) {
	s, err := a.scenarios.Load(ctx, a.config.Scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to load scenario: %w", err)
	}
	a.logger.Info("📋 Scenario selected.", "scenario", s.Name, "overrides", len(config.Flatten(s.Overrides)))
	return s.ApplyTo(a.base), nil
}

func (a *App) runSingle(ctx context.Context) error {
	cfg, err := a.effectiveConfig(ctx)
	if err != nil {
		return err
	}

	opts := []engine.Option{engine.WithMetrics(a.metrics)}
	if a.config.Seed != nil {
		opts = append(opts, engine.WithSeed(*a.config.Seed))
	}
	e, err := engine.NewFromRegistry(a.registry, a.model.Simulation.Components, opts...)
	if err != nil {
		return fmt.Errorf("failed to build engine: %w", err)
	}
	if err := e.Configure(ctx, cfg); err != nil {
		return fmt.Errorf("configuration failed: %w", err)
	}

	sim := a.model.Simulation
	if err := e.Run(ctx, sim.StartYear, sim.EndYear); err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}
	res, err := e.Results()
	if err != nil {
		return err
	}
	return printResults(a.outW, res)
}

// ensembleOptions combines the monte_carlo block with command line
// overrides.
func (a *App) ensembleOptions(cfg config.Config) (montecarlo.Options, error) {
	spec := config.MonteCarloSpec{}
	if a.model.MonteCarlo != nil {
		spec = *a.model.MonteCarlo
	}
	if a.config.Iterations > 0 {
		spec.Iterations = a.config.Iterations
	}
	if a.config.Seed != nil {
		spec.Seed = *a.config.Seed
	}
	if a.config.Workers > 0 {
		spec.Workers = a.config.Workers
	}
	if spec.Iterations < 1 {
		return montecarlo.Options{}, errors.New("monte carlo needs an iteration count: set monte_carlo.iterations or -iterations")
	}

	sim := a.model.Simulation
	return montecarlo.Options{
		Base:             cfg,
		Distributions:    montecarlo.FromSpecs(spec.Parameters),
		Iterations:       spec.Iterations,
		Seed:             spec.Seed,
		StartYear:        sim.StartYear,
		EndYear:          sim.EndYear,
		Workers:          spec.Workers,
		FailureTolerance: spec.FailureTolerance,
		EngineFactory:    montecarlo.RegistryFactory(a.registry, sim.Components, engine.WithMetrics(a.metrics)),
		Metrics:          a.metrics,
	}, nil
}

func (a *App) runEnsemble(ctx context.Context) error {
	cfg, err := a.effectiveConfig(ctx)
	if err != nil {
		return err
	}
	opts, err := a.ensembleOptions(cfg)
	if err != nil {
		return err
	}

	res, runErr := montecarlo.Run(ctx, opts)
	if res != nil {
		if err := printEnsemble(a.outW, res); err != nil {
			return errors.Join(runErr, err)
		}
	}
	if runErr != nil {
		return fmt.Errorf("monte carlo failed: %w", runErr)
	}
	return nil
}

func (a *App) compareScenarios(ctx context.Context, names []string) error {
	cmp, err := scenario.Compare(ctx, a.scenarios, names...)
	if err != nil {
		return fmt.Errorf("failed to compare scenarios: %w", err)
	}
	return printComparison(a.outW, cmp)
}

func (a *App) exportScenario(ctx context.Context, name string) error {
	s, err := a.scenarios.Load(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}
	return hcl_adapter.WriteScenario(a.outW, s)
}
