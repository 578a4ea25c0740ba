package epi

// Trajectory is the full time series of one realization: every compartment
// in every node at every tick, starting with the pre-importation state at
// tick 0.
type Trajectory struct {
	TicksPerDay int
	K           int
	// Comp[c][sample][node]; sample s corresponds to time s/TicksPerDay days.
	Comp [NumComp][][]float64
}

// NewTrajectory creates an empty trajectory with capacity for steps+1
// samples.
func NewTrajectory(ticksPerDay, k, steps int) *Trajectory {
	tr := &Trajectory{TicksPerDay: ticksPerDay, K: k}
	for c := 0; c < NumComp; c++ {
		tr.Comp[c] = make([][]float64, 0, steps+1)
	}
	return tr
}

// Record appends a snapshot of the state.
func (tr *Trajectory) Record(s *State) {
	for c := 0; c < NumComp; c++ {
		row := make([]float64, tr.K)
		copy(row, s.Comp[c])
		tr.Comp[c] = append(tr.Comp[c], row)
	}
}

// Len returns the number of recorded samples.
func (tr *Trajectory) Len() int {
	return len(tr.Comp[CompS])
}

// Days returns the number of whole days covered by the trajectory.
func (tr *Trajectory) Days() int {
	if tr.Len() == 0 {
		return 0
	}
	return (tr.Len() - 1) / tr.TicksPerDay
}

// Time returns the time of sample s in days.
func (tr *Trajectory) Time(s int) float64 {
	return float64(s) / float64(tr.TicksPerDay)
}

// DaySample returns the last sample index belonging to the given day.
func (tr *Trajectory) DaySample(day int) int {
	s := (day + 1) * tr.TicksPerDay
	if s >= tr.Len() {
		s = tr.Len() - 1
	}
	return s
}

// DailySeries returns the per-day values of one compartment, sampled at
// day boundaries: out[day][node].
func (tr *Trajectory) DailySeries(comp int) [][]float64 {
	days := tr.Days()
	out := make([][]float64, days)
	for d := 0; d < days; d++ {
		row := make([]float64, tr.K)
		copy(row, tr.Comp[comp][tr.DaySample(d)])
		out[d] = row
	}
	return out
}

// DailyIncidence returns new infections per day per node, derived from the
// cumulative infection counter. Day 0 includes the initial importations.
func (tr *Trajectory) DailyIncidence() [][]float64 {
	days := tr.Days()
	out := make([][]float64, days)
	prev := make([]float64, tr.K) // tick-0 cumI is zero by construction
	for d := 0; d < days; d++ {
		row := make([]float64, tr.K)
		cum := tr.Comp[CompCumI][tr.DaySample(d)]
		for i := 0; i < tr.K; i++ {
			row[i] = cum[i] - prev[i]
			prev[i] = cum[i]
		}
		out[d] = row
	}
	return out
}
