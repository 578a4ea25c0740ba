package epi

// BedNeeds is the estimated hospital bed occupancy implied by an incidence
// curve: a fixed fraction of new infections is admitted and stays for a
// fixed number of days.
type BedNeeds struct {
	Days     int
	K        int
	Occupied [][]float64 // Occupied[day][node]
	PeakBeds []float64   // per-node maximum simultaneous occupancy
	PeakDay  []int       // per-node day of that maximum
}

// EstimateBedNeeds converts daily new infections into occupied-bed curves.
// hospRate is the admitted fraction of new infections; losDays is the
// length of stay in whole days.
func EstimateBedNeeds(dailyIncidence [][]float64, hospRate float64, losDays int) *BedNeeds {
	days := len(dailyIncidence)
	if days == 0 {
		return &BedNeeds{}
	}
	k := len(dailyIncidence[0])

	bn := &BedNeeds{
		Days:     days,
		K:        k,
		Occupied: make([][]float64, days),
		PeakBeds: make([]float64, k),
		PeakDay:  make([]int, k),
	}

	for d := 0; d < days; d++ {
		bn.Occupied[d] = make([]float64, k)
		// beds on day d hold admissions from the last losDays days
		lo := d - losDays + 1
		if lo < 0 {
			lo = 0
		}
		for i := 0; i < k; i++ {
			var occupied float64
			for a := lo; a <= d; a++ {
				occupied += dailyIncidence[a][i] * hospRate
			}
			bn.Occupied[d][i] = occupied
			if occupied > bn.PeakBeds[i] {
				bn.PeakBeds[i] = occupied
				bn.PeakDay[i] = d
			}
		}
	}
	return bn
}
