package montecarlo

import (
	"errors"
	"fmt"
	"math"

	"github.com/vk/transitionsim/internal/config"
	"github.com/vk/transitionsim/internal/rng"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrInvalidDistribution is wrapped by every distribution validation error.
var ErrInvalidDistribution = errors.New("invalid distribution")

// Kind names a distribution family.
type Kind string

const (
	Normal     Kind = "normal"     // mean, std
	Uniform    Kind = "uniform"    // min, max
	Triangular Kind = "triangular" // min, mode, max
	LogNormal  Kind = "lognormal"  // mu, sigma of the underlying normal
	Discrete   Kind = "discrete"   // Values with optional Weights
	Constant   Kind = "constant"   // value
)

// Distribution attaches a sampling distribution to a configuration path.
type Distribution struct {
	Path    string
	Kind    Kind
	Params  map[string]float64
	Values  []float64
	Weights []float64
}

// FromSpecs converts loaded parameter blocks.
func FromSpecs(specs []config.ParameterSpec) []Distribution {
	out := make([]Distribution, len(specs))
	for i, s := range specs {
		out[i] = Distribution{
			Path:    s.Path,
			Kind:    Kind(s.Distribution),
			Params:  s.Params,
			Values:  s.Values,
			Weights: s.Weights,
		}
	}
	return out
}

func (d Distribution) param(name string) (float64, error) {
	v, ok := d.Params[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s %q: missing parameter %q", ErrInvalidDistribution, d.Kind, d.Path, name)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s %q: parameter %q is not finite", ErrInvalidDistribution, d.Kind, d.Path, name)
	}
	return v, nil
}

func (d Distribution) invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s %q: %s", ErrInvalidDistribution, d.Kind, d.Path, fmt.Sprintf(format, args...))
}

// Validate checks the parameters without sampling.
func (d Distribution) Validate() error {
	_, err := d.Sampler(rng.Constant(0))
	return err
}

// Sampler returns a function drawing from d using src. A distribution with
// zero spread always returns its single possible value.
func (d Distribution) Sampler(src rng.Source) (func() float64, error) {
	if d.Path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidDistribution)
	}
	constant := func(v float64) func() float64 { return func() float64 { return v } }

	switch d.Kind {
	case Constant:
		v, err := d.param("value")
		if err != nil {
			return nil, err
		}
		return constant(v), nil

	case Normal:
		mean, err := d.param("mean")
		if err != nil {
			return nil, err
		}
		std, err := d.param("std")
		if err != nil {
			return nil, err
		}
		if std < 0 {
			return nil, d.invalid("std must be non-negative")
		}
		if std == 0 {
			return constant(mean), nil
		}
		return distuv.Normal{Mu: mean, Sigma: std, Src: src}.Rand, nil

	case Uniform:
		lo, err := d.param("min")
		if err != nil {
			return nil, err
		}
		hi, err := d.param("max")
		if err != nil {
			return nil, err
		}
		if lo > hi {
			return nil, d.invalid("min %g is greater than max %g", lo, hi)
		}
		if lo == hi {
			return constant(lo), nil
		}
		return distuv.Uniform{Min: lo, Max: hi, Src: src}.Rand, nil

	case Triangular:
		lo, err := d.param("min")
		if err != nil {
			return nil, err
		}
		mode, err := d.param("mode")
		if err != nil {
			return nil, err
		}
		hi, err := d.param("max")
		if err != nil {
			return nil, err
		}
		if lo > hi || mode < lo || mode > hi {
			return nil, d.invalid("need min <= mode <= max, got %g, %g, %g", lo, mode, hi)
		}
		if lo == hi {
			return constant(lo), nil
		}
		return distuv.NewTriangle(lo, hi, mode, src).Rand, nil

	case LogNormal:
		mu, err := d.param("mu")
		if err != nil {
			return nil, err
		}
		sigma, err := d.param("sigma")
		if err != nil {
			return nil, err
		}
		if sigma < 0 {
			return nil, d.invalid("sigma must be non-negative")
		}
		if sigma == 0 {
			return constant(math.Exp(mu)), nil
		}
		return distuv.LogNormal{Mu: mu, Sigma: sigma, Src: src}.Rand, nil

	case Discrete:
		if len(d.Values) == 0 {
			return nil, d.invalid("values are required")
		}
		weights := d.Weights
		if len(weights) == 0 {
			weights = make([]float64, len(d.Values))
			for i := range weights {
				weights[i] = 1
			}
		}
		if len(weights) != len(d.Values) {
			return nil, d.invalid("%d weights for %d values", len(weights), len(d.Values))
		}
		var total float64
		for _, w := range weights {
			if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
				return nil, d.invalid("weights must be finite and non-negative")
			}
			total += w
		}
		if total == 0 {
			return nil, d.invalid("weights sum to zero")
		}
		values := append([]float64(nil), d.Values...)
		if len(values) == 1 {
			return constant(values[0]), nil
		}
		cat := distuv.NewCategorical(weights, src)
		return func() float64 { return values[int(cat.Rand())] }, nil

	default:
		return nil, fmt.Errorf("%w: %q: unknown kind %q", ErrInvalidDistribution, d.Path, d.Kind)
	}
}
