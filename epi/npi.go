package epi

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/epiplan/epiplan/epi/scenario"
)

// NPISeries is the realized transmission reduction per step per node.
// Reduction[t][i] is in [0, 1); beta at step t in node i is scaled by
// (1 - Reduction[t][i]).
type NPISeries struct {
	Steps     int
	K         int
	Reduction [][]float64
}

// NPIActivation records one realized intervention draw, for tracing.
type NPIActivation struct {
	Name      string
	Reduction float64
	StartDay  int
	EndDay    int
}

// BuildNPISeries draws one reduction per NPI and spreads it over the dt
// grid for the NPI's date window, clamped to the scenario span. Overlapping
// NPIs combine on the retained transmission fraction: retained = Π(1 - r),
// so stacked interventions can never drive beta negative.
func BuildNPISeries(npis []scenario.NPISpec, start, end time.Time, dtPerDay, k int, geo *Geography, src rand.Source) (*NPISeries, []NPIActivation, error) {
	days := int(end.Sub(start).Hours() / 24)
	steps := days * dtPerDay

	retained := make([][]float64, steps)
	for t := range retained {
		retained[t] = make([]float64, k)
		for i := range retained[t] {
			retained[t][i] = 1.0
		}
	}

	var activations []NPIActivation
	for _, npi := range npis {
		sampler, err := scenario.NewSampler(npi.Reduction)
		if err != nil {
			return nil, nil, fmt.Errorf("npi %q reduction: %w", npi.Name, err)
		}
		r := sampler.Sample(src)
		if r < 0 {
			r = 0
		}
		if r > 1 {
			r = 1
		}

		npiStart, err := time.Parse(scenario.DateLayout, npi.StartDate)
		if err != nil {
			return nil, nil, fmt.Errorf("npi %q start_date: %w", npi.Name, err)
		}
		npiEnd, err := time.Parse(scenario.DateLayout, npi.EndDate)
		if err != nil {
			return nil, nil, fmt.Errorf("npi %q end_date: %w", npi.Name, err)
		}

		startDay := int(npiStart.Sub(start).Hours() / 24)
		endDay := int(npiEnd.Sub(start).Hours() / 24)
		if startDay < 0 {
			startDay = 0
		}
		if endDay > days {
			endDay = days
		}
		if startDay >= days || endDay <= 0 || startDay >= endDay {
			continue // window entirely outside the span
		}

		nodes, err := resolveNodes(npi, geo)
		if err != nil {
			return nil, nil, err
		}

		for t := startDay * dtPerDay; t < endDay*dtPerDay; t++ {
			for _, i := range nodes {
				retained[t][i] *= 1.0 - r
			}
		}
		activations = append(activations, NPIActivation{
			Name: npi.Name, Reduction: r, StartDay: startDay, EndDay: endDay,
		})
	}

	series := &NPISeries{Steps: steps, K: k, Reduction: retained}
	for t := range series.Reduction {
		for i := range series.Reduction[t] {
			series.Reduction[t][i] = 1.0 - series.Reduction[t][i]
		}
	}
	return series, activations, nil
}

// resolveNodes maps an NPI's node-name list to indices; an empty list means
// every node.
func resolveNodes(npi scenario.NPISpec, geo *Geography) ([]int, error) {
	if len(npi.Nodes) == 0 {
		all := make([]int, geo.NumNodes)
		for i := range all {
			all[i] = i
		}
		return all, nil
	}
	nodes := make([]int, 0, len(npi.Nodes))
	for _, name := range npi.Nodes {
		i, ok := geo.NodeIndex(name)
		if !ok {
			return nil, fmt.Errorf("npi %q targets unknown node %q", npi.Name, name)
		}
		nodes = append(nodes, i)
	}
	return nodes, nil
}
