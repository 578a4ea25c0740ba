package scenario

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// DistSpec parameterizes a scalar distribution used for disease parameters
// and NPI reductions.
type DistSpec struct {
	Type   string             `yaml:"type"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

// Sampler draws values from a parameterized distribution. Implementations
// are stateless; all randomness flows through the supplied source so that
// draws stay on the caller's deterministic stream.
type Sampler interface {
	Sample(src rand.Source) float64
}

// NewSampler builds a Sampler from a DistSpec. Supported types:
//
//	fixed:     value
//	uniform:   min, max
//	gamma:     shape, rate
//	lognormal: mu, sigma
//	truncnorm: mean, std_dev, min, max
func NewSampler(spec DistSpec) (Sampler, error) {
	p := func(key string) (float64, error) {
		v, ok := spec.Params[key]
		if !ok {
			return 0, fmt.Errorf("distribution %q missing param %q", spec.Type, key)
		}
		return v, nil
	}

	switch spec.Type {
	case "fixed":
		v, err := p("value")
		if err != nil {
			return nil, err
		}
		return &fixedSampler{value: v}, nil

	case "uniform":
		lo, err := p("min")
		if err != nil {
			return nil, err
		}
		hi, err := p("max")
		if err != nil {
			return nil, err
		}
		if hi < lo {
			return nil, fmt.Errorf("uniform: max (%g) < min (%g)", hi, lo)
		}
		return &uniformSampler{min: lo, max: hi}, nil

	case "gamma":
		shape, err := p("shape")
		if err != nil {
			return nil, err
		}
		rate, err := p("rate")
		if err != nil {
			return nil, err
		}
		if shape <= 0 || rate <= 0 {
			return nil, fmt.Errorf("gamma: shape and rate must be > 0")
		}
		return &gammaSampler{shape: shape, rate: rate}, nil

	case "lognormal":
		mu, err := p("mu")
		if err != nil {
			return nil, err
		}
		sigma, err := p("sigma")
		if err != nil {
			return nil, err
		}
		if sigma <= 0 {
			return nil, fmt.Errorf("lognormal: sigma must be > 0")
		}
		return &logNormalSampler{mu: mu, sigma: sigma}, nil

	case "truncnorm":
		mean, err := p("mean")
		if err != nil {
			return nil, err
		}
		stdDev, err := p("std_dev")
		if err != nil {
			return nil, err
		}
		lo, err := p("min")
		if err != nil {
			return nil, err
		}
		hi, err := p("max")
		if err != nil {
			return nil, err
		}
		if stdDev <= 0 {
			return nil, fmt.Errorf("truncnorm: std_dev must be > 0")
		}
		if hi < lo {
			return nil, fmt.Errorf("truncnorm: max (%g) < min (%g)", hi, lo)
		}
		return &truncNormSampler{mean: mean, stdDev: stdDev, min: lo, max: hi}, nil

	default:
		return nil, fmt.Errorf("unknown distribution type %q", spec.Type)
	}
}

type fixedSampler struct {
	value float64
}

func (s *fixedSampler) Sample(rand.Source) float64 {
	return s.value
}

type uniformSampler struct {
	min, max float64
}

func (s *uniformSampler) Sample(src rand.Source) float64 {
	if s.min == s.max {
		return s.min
	}
	return distuv.Uniform{Min: s.min, Max: s.max, Src: src}.Rand()
}

type gammaSampler struct {
	shape, rate float64
}

func (s *gammaSampler) Sample(src rand.Source) float64 {
	return distuv.Gamma{Alpha: s.shape, Beta: s.rate, Src: src}.Rand()
}

type logNormalSampler struct {
	mu, sigma float64
}

func (s *logNormalSampler) Sample(src rand.Source) float64 {
	return distuv.LogNormal{Mu: s.mu, Sigma: s.sigma, Src: src}.Rand()
}

// truncNormSampler clamps Gaussian draws to [min, max].
type truncNormSampler struct {
	mean, stdDev float64
	min, max     float64
}

func (s *truncNormSampler) Sample(src rand.Source) float64 {
	val := distuv.Normal{Mu: s.mean, Sigma: s.stdDev, Src: src}.Rand()
	if val < s.min {
		return s.min
	}
	if val > s.max {
		return s.max
	}
	return val
}
