package epi

// Compartment indices into a State. The ordering is fixed and shared with
// the CSV output format: S, E, I1, I2, I3, R, cumI.
const (
	CompS = iota
	CompE
	CompI1
	CompI2
	CompI3
	CompR
	CompCumI
	NumComp
)

// NumInfComp is the number of infectious stages (I1, I2, I3).
const NumInfComp = 3

// CompartmentNames maps compartment indices to their output column names.
var CompartmentNames = [NumComp]string{"S", "E", "I1", "I2", "I3", "R", "cumI"}

// State holds per-compartment counts for every node in the geography.
// Counts are stored as float64 but remain whole numbers: all transitions
// are integer-valued binomial or Poisson draws.
type State struct {
	// Comp[c][i] is the count of compartment c in node i.
	Comp [NumComp][]float64
	// K is the number of nodes.
	K int
}

// NewState creates an all-zero State for k nodes.
func NewState(k int) *State {
	s := &State{K: k}
	for c := 0; c < NumComp; c++ {
		s.Comp[c] = make([]float64, k)
	}
	return s
}

// NewInitialState creates a fully susceptible State from node populations.
func NewInitialState(populations []float64) *State {
	s := NewState(len(populations))
	copy(s.Comp[CompS], populations)
	return s
}

// Clone returns a deep copy of the State.
func (s *State) Clone() *State {
	out := NewState(s.K)
	for c := 0; c < NumComp; c++ {
		copy(out.Comp[c], s.Comp[c])
	}
	return out
}

// Infectious returns the total infectious count (I1+I2+I3) in node i.
func (s *State) Infectious(i int) float64 {
	return s.Comp[CompI1][i] + s.Comp[CompI2][i] + s.Comp[CompI3][i]
}

// Population returns the living population of node i. cumI is a counter,
// not a compartment of people, so it is excluded.
func (s *State) Population(i int) float64 {
	var total float64
	for c := CompS; c <= CompR; c++ {
		total += s.Comp[c][i]
	}
	return total
}
