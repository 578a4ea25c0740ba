package ensemble

import (
	"fmt"

	"github.com/epiplan/epiplan/epi"
)

// PrintReport displays ensemble-level planning numbers: how many
// realizations were kept, and the mean peak size, peak day, and attack rate
// per node across the accepted ones.
func PrintReport(results []*Result, geo *epi.Geography) {
	var accepted []*Result
	for _, res := range results {
		if !res.Rejected {
			accepted = append(accepted, res)
		}
	}

	fmt.Println("=== Ensemble Report ===")
	fmt.Printf("Realizations         : %d accepted, %d rejected\n", len(accepted), len(results)-len(accepted))
	if len(accepted) == 0 {
		return
	}

	n := float64(len(accepted))
	for i, name := range geo.NodeNames {
		var peak, peakDay, attack float64
		for _, res := range accepted {
			peak += res.Metrics.PeakInfectious[i]
			peakDay += float64(res.Metrics.PeakDay[i])
			attack += res.Metrics.AttackRate[i]
		}
		fmt.Printf("%-12s mean peak %.0f infectious around day %.0f, mean attack rate %.1f%%\n",
			name, peak/n, peakDay/n, 100*attack/n)
	}
}
