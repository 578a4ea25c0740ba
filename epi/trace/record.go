// Package trace provides run-event recording for scenario analysis.
// This package has no dependencies on epi/ or epi/ensemble/ — it stores
// pure data types.
package trace

// SeedingRecord captures one importation applied by the engine.
type SeedingRecord struct {
	Node   string
	Day    int
	Amount float64
}

// NPIActivationRecord captures one realized intervention draw.
type NPIActivationRecord struct {
	Name      string
	Reduction float64
	StartDay  int
	EndDay    int
}

// PeakRecord captures the infectious peak of one node in one realization.
type PeakRecord struct {
	Node       string
	Day        int
	Infectious float64
}
