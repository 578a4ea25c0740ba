package epi

import (
	"fmt"
	"math/rand/v2"

	"github.com/epiplan/epiplan/epi/scenario"
)

// Parameters is one realization's draw of the disease model: scalar rates
// plus the NPI-scaled transmission series.
type Parameters struct {
	// Alpha is the fraction of exposure occurring at the home node.
	Alpha float64
	// Sigma is the E -> I1 rate (1/incubation period, per day).
	Sigma float64
	// Gamma is the per-stage exit rate for I1..I3 (per day), already scaled
	// by the number of infectious stages.
	Gamma float64
	// R0 is the drawn basic reproduction number.
	R0 float64
	// Beta[t][i] is the transmission rate at step t in node i, after NPI
	// reductions. Never negative.
	Beta [][]float64
}

// DrawParameters draws one realization's parameters. gamma is scaled by
// NumInfComp so that the mean total infectious period matches the drawn
// rate, and beta0 = R0 * gamma / NumInfComp. The NPI series scales beta
// per step and node: beta = beta0 * (1 - reduction).
func DrawParameters(disease scenario.DiseaseSpec, npi *NPISeries, src rand.Source) (*Parameters, error) {
	if npi == nil || npi.Steps <= 0 || npi.K <= 0 {
		return nil, fmt.Errorf("invalid npi series dimensions")
	}

	alpha := 1.0
	if disease.Alpha != nil {
		alpha = *disease.Alpha
	}

	sigmaSampler, err := scenario.NewSampler(disease.Sigma)
	if err != nil {
		return nil, fmt.Errorf("sigma: %w", err)
	}
	gammaSampler, err := scenario.NewSampler(disease.Gamma)
	if err != nil {
		return nil, fmt.Errorf("gamma: %w", err)
	}
	r0Sampler, err := scenario.NewSampler(disease.R0)
	if err != nil {
		return nil, fmt.Errorf("r0: %w", err)
	}

	sigma := sigmaSampler.Sample(src)
	gamma := gammaSampler.Sample(src) * NumInfComp
	r0 := r0Sampler.Sample(src)
	if sigma <= 0 || gamma <= 0 || r0 <= 0 {
		return nil, fmt.Errorf("non-positive parameter draw: sigma=%g gamma=%g r0=%g", sigma, gamma, r0)
	}

	beta0 := r0 * gamma / NumInfComp
	beta := make([][]float64, npi.Steps)
	for t := range beta {
		beta[t] = make([]float64, npi.K)
		for i := range beta[t] {
			beta[t][i] = beta0 * (1.0 - npi.Reduction[t][i])
		}
	}

	return &Parameters{
		Alpha: alpha,
		Sigma: sigma,
		Gamma: gamma,
		R0:    r0,
		Beta:  beta,
	}, nil
}
