package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vk/transitionsim/internal/config"
	"github.com/vk/transitionsim/internal/ctxlog"
	"github.com/vk/transitionsim/internal/metrics"
	"github.com/vk/transitionsim/internal/registry"
	"github.com/vk/transitionsim/internal/scenario"
	"github.com/vk/transitionsim/internal/scenario/filestore"
	"github.com/vk/transitionsim/internal/scenario/sqlitestore"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config

	registry   *registry.Registry
	model      *config.Model
	base       config.Config
	scenarios  scenario.Registry
	closeStore func() error

	promRegistry *prometheus.Registry
	metrics      *metrics.Metrics
	httpServer   *http.Server
}

// NewApp loads the simulation files named by cfg, registers the component
// modules (the core modules when none are given) and opens the scenario
// store. Results are written to outW and logs to logW. The caller must
// Close the returned App.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader, modules ...registry.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, cfg.ConfigPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Debug("Configuration loaded and translated into unified model.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	reg.Register(modules...)
	logger.Debug("All component modules registered.", "count", len(modules))

	if len(model.Simulation.Components) == 0 {
		model.Simulation.Components = reg.Names()
	}
	if cfg.StartYear != 0 {
		model.Simulation.StartYear = cfg.StartYear
	}
	if cfg.EndYear != 0 {
		model.Simulation.EndYear = cfg.EndYear
	}
	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation configuration: %w", err)
	}
	for _, name := range model.Simulation.Components {
		if !reg.Has(name) {
			return nil, fmt.Errorf("invalid simulation configuration: %w: %q", registry.ErrUnknownComponent, name)
		}
	}

	promReg := prometheus.NewRegistry()
	a := &App{
		outW:         outW,
		logger:       logger,
		config:       cfg,
		registry:     reg,
		model:        model,
		base:         config.MergeAll(reg.Defaults(), model.Base),
		promRegistry: promReg,
		metrics:      metrics.New(promReg),
		closeStore:   func() error { return nil },
	}

	if err := a.openScenarios(ctx); err != nil {
		_ = a.closeStore()
		return nil, err
	}
	return a, nil
}

// openScenarios selects the scenario store and saves every scenario
// declared in the simulation files into it. Declared scenarios replace
// stored ones of the same name.
func (a *App) openScenarios(ctx context.Context) error {
	var store scenario.Registry
	switch {
	case a.config.ScenarioDir != "":
		fs, err := filestore.Open(a.config.ScenarioDir)
		if err != nil {
			return err
		}
		store = fs
		a.logger.Debug("Using scenario directory.", "dir", a.config.ScenarioDir)
	case a.config.ScenarioDB != "":
		db, err := sqlitestore.Open(a.config.ScenarioDB)
		if err != nil {
			return err
		}
		store = db
		a.closeStore = db.Close
		a.logger.Debug("Using scenario database.", "path", a.config.ScenarioDB)
	default:
		store = scenario.NewMemoryRegistry()
	}

	for _, spec := range a.model.Scenarios {
		s, err := scenario.FromSpec(spec)
		if err != nil {
			return err
		}
		if err := store.Save(ctx, s, true); err != nil {
			return fmt.Errorf("save scenario %q: %w", s.Name, err)
		}
	}
	a.scenarios = scenario.WithDefault(store)
	a.logger.Debug("Scenarios registered.", "declared", len(a.model.Scenarios))
	return nil
}

// Registry returns the application's component registry. This is primarily
// for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Scenarios returns the scenario registry in use.
func (a *App) Scenarios() scenario.Registry {
	return a.scenarios
}

// Model returns the loaded simulation model after command line overrides.
func (a *App) Model() *config.Model {
	return a.model
}

// Close stops the health check server and releases the scenario store.
func (a *App) Close() error {
	return errors.Join(a.closeHealthcheckServer(), a.closeStore())
}
