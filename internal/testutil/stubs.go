package testutil

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/vk/transitionsim/internal/component"
	"github.com/vk/transitionsim/internal/config"
	"github.com/vk/transitionsim/internal/rng"
)

// ErrInjected is the default error returned by FailingComponent.
var ErrInjected = errors.New("injected failure")

// LinearComponent emits intercept + slope*param + growth*(year-first) every
// year. All coefficients are read from its namespace and default to
// slope=1, everything else 0.
type LinearComponent struct {
	component.History
	name      string
	param     float64
	slope     float64
	intercept float64
	growth    float64
	first     int
	started   bool
}

// NewLinear returns an uninitialized LinearComponent.
func NewLinear(name string) *LinearComponent { return &LinearComponent{name: name} }

func (c *LinearComponent) Name() string { return c.name }

func (c *LinearComponent) Initialize(cfg config.Config) error {
	var err error
	if c.param, err = component.OptionalFloat(c.name, cfg, "param", 0); err != nil {
		return err
	}
	if c.slope, err = component.OptionalFloat(c.name, cfg, "slope", 1); err != nil {
		return err
	}
	if c.intercept, err = component.OptionalFloat(c.name, cfg, "intercept", 0); err != nil {
		return err
	}
	if c.growth, err = component.OptionalFloat(c.name, cfg, "growth", 0); err != nil {
		return err
	}
	c.started = false
	c.Reset(c.name, "value", "param")
	return nil
}

func (c *LinearComponent) Step(year int, _ component.View) (component.Record, error) {
	if !c.started {
		c.first, c.started = year, true
	}
	v := c.intercept + c.slope*c.param + c.growth*float64(year-c.first)
	return c.Record(year, map[string]float64{"value": v, "param": c.param})
}

// FailingComponent outputs the year as "value" until FailYear, where Step
// returns Err. A positive "fail_year" in its namespace overrides FailYear.
// RequiredKey, when set, makes Initialize reject a namespace without it.
type FailingComponent struct {
	component.History
	ID          string
	FailYear    int
	Err         error
	RequiredKey string
}

func (c *FailingComponent) Name() string { return c.ID }

func (c *FailingComponent) Initialize(cfg config.Config) error {
	if c.RequiredKey != "" {
		if _, err := component.RequireFloat(c.ID, cfg, c.RequiredKey); err != nil {
			return err
		}
	}
	fy, err := component.OptionalFloat(c.ID, cfg, "fail_year", 0)
	if err != nil {
		return err
	}
	if fy > 0 {
		c.FailYear = int(fy)
	}
	c.Reset(c.ID, "value")
	return nil
}

func (c *FailingComponent) Step(year int, _ component.View) (component.Record, error) {
	if c.FailYear != 0 && year == c.FailYear {
		if c.Err != nil {
			return component.Record{}, c.Err
		}
		return component.Record{}, ErrInjected
	}
	return c.Record(year, map[string]float64{"value": float64(year)})
}

// LateStartComponent has no output before StartYear.
type LateStartComponent struct {
	component.History
	ID        string
	StartYear int
}

func (c *LateStartComponent) Name() string { return c.ID }

func (c *LateStartComponent) Initialize(config.Config) error {
	c.Reset(c.ID, "value")
	return nil
}

func (c *LateStartComponent) Step(year int, _ component.View) (component.Record, error) {
	if year < c.StartYear {
		return component.Record{}, component.ErrSkipYear
	}
	return c.Record(year, map[string]float64{"value": float64(year - c.StartYear + 1)})
}

// ProbeComponent records what it could see of Source.Column in the view
// during each step. Unseen values are recorded as NaN.
type ProbeComponent struct {
	component.History
	ID     string
	Source string
	Column string

	mu   sync.Mutex
	Seen map[int]float64
}

func (c *ProbeComponent) Name() string { return c.ID }

func (c *ProbeComponent) Initialize(config.Config) error {
	c.mu.Lock()
	c.Seen = make(map[int]float64)
	c.mu.Unlock()
	c.Reset(c.ID, "seen")
	return nil
}

func (c *ProbeComponent) Step(year int, view component.View) (component.Record, error) {
	v, ok := view.Value(c.Source, c.Column)
	if !ok {
		v = math.NaN()
	}
	c.mu.Lock()
	c.Seen[year] = v
	c.mu.Unlock()
	return c.Record(year, map[string]float64{"seen": v})
}

// SeenAt returns the value observed in year.
func (c *ProbeComponent) SeenAt(year int) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Seen[year]
}

// NoisyComponent draws one uniform number per year from its injected source.
type NoisyComponent struct {
	component.History
	ID  string
	rnd *rand.Rand
}

func (c *NoisyComponent) Name() string { return c.ID }

func (c *NoisyComponent) SetSource(src rng.Source) { c.rnd = rand.New(src) }

func (c *NoisyComponent) Initialize(config.Config) error {
	if c.rnd == nil {
		return fmt.Errorf("%s: no random source injected", c.ID)
	}
	c.Reset(c.ID, "draw")
	return nil
}

func (c *NoisyComponent) Step(year int, _ component.View) (component.Record, error) {
	return c.Record(year, map[string]float64{"draw": c.rnd.Float64()})
}
