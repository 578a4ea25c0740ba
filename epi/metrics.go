// Tracks realization-wide planning metrics: peak infections and their
// timing, attack rates, and importation totals per node.

package epi

import (
	"fmt"

	"github.com/epiplan/epiplan/epi/trace"
)

// Metrics aggregates statistics about one realization for final reporting.
// These are the planning quantities: when the epidemic peaks in each
// jurisdiction, how high the peak is, and what share of the population is
// eventually infected.
type Metrics struct {
	PeakInfectious []float64 // per-node maximum simultaneous infectious count
	PeakDay        []int     // per-node day of that maximum
	AttackRate     []float64 // per-node cumI / population at the end
	FinalCumI      []float64 // per-node cumulative infections

	TotalImportations float64
	TotalInfected     float64 // sum of FinalCumI
}

// NewMetrics creates zeroed metrics for k nodes.
func NewMetrics(k int) *Metrics {
	return &Metrics{
		PeakInfectious: make([]float64, k),
		PeakDay:        make([]int, k),
		AttackRate:     make([]float64, k),
		FinalCumI:      make([]float64, k),
	}
}

// ObserveStep updates the per-node peaks from the post-step state.
func (m *Metrics) ObserveStep(day int, s *State) {
	for i := 0; i < s.K; i++ {
		if inf := s.Infectious(i); inf > m.PeakInfectious[i] {
			m.PeakInfectious[i] = inf
			m.PeakDay[i] = day
		}
	}
}

// Finalize fills end-of-run fields from the final state and records peaks
// into the run trace.
func (m *Metrics) Finalize(geo *Geography, s *State, rt *trace.RunTrace) {
	m.TotalInfected = 0
	for i := 0; i < s.K; i++ {
		m.FinalCumI[i] = s.Comp[CompCumI][i]
		m.AttackRate[i] = m.FinalCumI[i] / geo.Populations[i]
		m.TotalInfected += m.FinalCumI[i]
		rt.RecordPeak(trace.PeakRecord{
			Node:       geo.NodeNames[i],
			Day:        m.PeakDay[i],
			Infectious: m.PeakInfectious[i],
		})
	}
}

// Print displays aggregated metrics at the end of a realization.
func (m *Metrics) Print(geo *Geography) {
	fmt.Println("=== Scenario Metrics ===")
	fmt.Printf("Total Importations   : %.0f\n", m.TotalImportations)
	fmt.Printf("Total Infected       : %.0f\n", m.TotalInfected)
	for i, name := range geo.NodeNames {
		fmt.Printf("%-12s peak %.0f infectious on day %d, attack rate %.1f%%\n",
			name, m.PeakInfectious[i], m.PeakDay[i], 100*m.AttackRate[i])
	}
}
