// This file contains the logic for translating HCL schema structs into the
// format-agnostic configuration model defined in the config package.

package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/vk/transitionsim/internal/config"
	"github.com/vk/transitionsim/internal/ctxlog"
)

// translateSimulation converts the simulation block into the agnostic model.
func (l *Loader) translateSimulation(s *Simulation) config.Simulation {
	return config.Simulation{
		StartYear:  s.StartYear,
		EndYear:    s.EndYear,
		Components: append([]string(nil), s.Components...),
	}
}

// translateComponent converts one component block into its configuration
// namespace.
func (l *Loader) translateComponent(ctx context.Context, c *ComponentBlock) (config.Config, error) {
	ctxlog.FromContext(ctx).Debug("Translating HCL component block.", "component", c.Name)

	attrs, err := l.extractBodyAttributes(c.Body)
	if err != nil {
		return nil, fmt.Errorf("component %q: %w", c.Name, err)
	}
	return config.Config{c.Name: attrs}, nil
}

// translateScenario converts a scenario block into the agnostic model.
func (l *Loader) translateScenario(ctx context.Context, s *ScenarioBlock) (config.ScenarioSpec, error) {
	logger := ctxlog.FromContext(ctx).With("scenario", s.Name)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Translating HCL scenario block.")

	spec := config.ScenarioSpec{
		Name:        s.Name,
		Description: s.Description,
		Overrides:   config.Config{},
	}
	if !isExprDefined(ctx, s.Overrides, "overrides") {
		return spec, nil
	}
	v, err := l.evaluate(s.Overrides)
	if err != nil {
		return spec, fmt.Errorf("scenario %q: overrides: %w", s.Name, err)
	}
	if v == nil {
		return spec, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return spec, fmt.Errorf("scenario %q: overrides must be an object, got %T", s.Name, v)
	}
	spec.Overrides = m
	return spec, nil
}

// translateMonteCarlo converts the monte_carlo block into the agnostic model.
func (l *Loader) translateMonteCarlo(ctx context.Context, mc *MonteCarloBlock) (*config.MonteCarloSpec, error) {
	spec := &config.MonteCarloSpec{
		Iterations: mc.Iterations,
		Seed:       mc.Seed,
		Workers:    mc.Workers,
	}
	if isExprDefined(ctx, mc.FailureTolerance, "failure_tolerance") {
		v, err := l.evaluate(mc.FailureTolerance)
		if err != nil {
			return nil, fmt.Errorf("monte_carlo: failure_tolerance: %w", err)
		}
		f, ok := v.(float64)
		if !ok && v != nil {
			return nil, fmt.Errorf("monte_carlo: failure_tolerance must be a number, got %T", v)
		}
		if ok {
			spec.FailureTolerance = &f
		}
	}
	for _, p := range mc.Parameters {
		spec.Parameters = append(spec.Parameters, config.ParameterSpec{
			Path:         p.Path,
			Distribution: p.Distribution,
			Params:       p.Params,
			Values:       p.Values,
			Weights:      p.Weights,
		})
	}
	return spec, nil
}
