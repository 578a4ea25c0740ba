package trace

// TraceSummary aggregates statistics from a RunTrace.
type TraceSummary struct {
	TotalSeedings    int
	SeededNodes      int
	TotalImported    float64
	ActivationCount  int
	MeanReduction    float64
	MaxReduction     float64
	PeakDistribution map[string]int // node -> peak day
}

// Summarize computes aggregate statistics from a RunTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(rt *RunTrace) *TraceSummary {
	summary := &TraceSummary{
		PeakDistribution: make(map[string]int),
	}
	if rt == nil {
		return summary
	}

	summary.TotalSeedings = len(rt.Seedings)
	seededNodes := make(map[string]bool)
	for _, s := range rt.Seedings {
		seededNodes[s.Node] = true
		summary.TotalImported += s.Amount
	}
	summary.SeededNodes = len(seededNodes)

	if len(rt.Activations) > 0 {
		totalReduction := 0.0
		for _, a := range rt.Activations {
			totalReduction += a.Reduction
			if a.Reduction > summary.MaxReduction {
				summary.MaxReduction = a.Reduction
			}
		}
		summary.ActivationCount = len(rt.Activations)
		summary.MeanReduction = totalReduction / float64(len(rt.Activations))
	}

	for _, p := range rt.Peaks {
		summary.PeakDistribution[p.Node] = p.Day
	}

	return summary
}
