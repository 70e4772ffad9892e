package app

import (
	"errors"
	"fmt"

	"github.com/vk/transitionsim/internal/scenario"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// ConfigPaths are simulation files or directories (.hcl, .yaml, .yml).
	ConfigPaths []string

	// Scenario is the scenario applied to the base configuration.
	Scenario string
	// ScenarioDir, when set, stores scenarios as YAML files in that
	// directory. ScenarioDB, when set, stores them in a SQLite database.
	// At most one of the two may be set; without either scenarios live in
	// memory for the duration of the run.
	ScenarioDir string
	ScenarioDB  string
	// CompareScenarios prints the override differences between the named
	// scenarios instead of running a simulation.
	CompareScenarios []string
	// ExportScenario prints the named scenario as HCL instead of running a
	// simulation.
	ExportScenario string

	// StartYear and EndYear override the simulation horizon when non-zero.
	StartYear int
	EndYear   int

	MonteCarlo bool
	// Iterations, Seed and Workers override the monte_carlo block when set.
	Iterations int
	Seed       *uint64
	Workers    int

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
	OTelEndpoint    string
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.ConfigPaths) == 0 {
		return nil, errors.New("at least one simulation file or directory is required")
	}
	if cfg.ScenarioDir != "" && cfg.ScenarioDB != "" {
		return nil, errors.New("scenario directory and scenario database are mutually exclusive")
	}
	if cfg.Scenario == "" {
		cfg.Scenario = scenario.DefaultName
	}
	if cfg.Iterations < 0 {
		return nil, fmt.Errorf("iterations must be positive, got %d", cfg.Iterations)
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("workers must be positive, got %d", cfg.Workers)
	}
	if cfg.StartYear != 0 && cfg.EndYear != 0 && cfg.StartYear > cfg.EndYear {
		return nil, fmt.Errorf("start year %d is after end year %d", cfg.StartYear, cfg.EndYear)
	}
	if len(cfg.CompareScenarios) == 1 {
		return nil, errors.New("comparing scenarios needs at least two names")
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("healthcheck port %d out of range", cfg.HealthcheckPort)
	}
	return &cfg, nil
}
