package trace

import (
	"testing"
)

func TestSummarize_NilTrace_ReturnsZeroValues(t *testing.T) {
	summary := Summarize(nil)
	if summary.TotalSeedings != 0 || summary.ActivationCount != 0 {
		t.Errorf("nil trace summary not zero: %+v", summary)
	}
	if summary.PeakDistribution == nil {
		t.Error("PeakDistribution must be non-nil")
	}
}

func TestSummarize_AggregatesSeedingsAndActivations(t *testing.T) {
	// GIVEN a trace with seedings into two nodes and two activations
	rt := NewRunTrace(TraceConfig{Level: TraceLevelEvents})
	rt.RecordSeeding(SeedingRecord{Node: "24001", Day: 0, Amount: 5})
	rt.RecordSeeding(SeedingRecord{Node: "24001", Day: 1, Amount: 3})
	rt.RecordSeeding(SeedingRecord{Node: "24003", Day: 2, Amount: 2})
	rt.RecordActivation(NPIActivationRecord{Name: "stay-at-home", Reduction: 0.5})
	rt.RecordActivation(NPIActivationRecord{Name: "distancing", Reduction: 0.25})

	// WHEN summarized
	summary := Summarize(rt)

	// THEN totals and reduction stats are aggregated
	if summary.TotalSeedings != 3 {
		t.Errorf("TotalSeedings = %d, want 3", summary.TotalSeedings)
	}
	if summary.SeededNodes != 2 {
		t.Errorf("SeededNodes = %d, want 2", summary.SeededNodes)
	}
	if summary.TotalImported != 10 {
		t.Errorf("TotalImported = %g, want 10", summary.TotalImported)
	}
	if summary.ActivationCount != 2 {
		t.Errorf("ActivationCount = %d, want 2", summary.ActivationCount)
	}
	if got, want := summary.MeanReduction, 0.375; got != want {
		t.Errorf("MeanReduction = %g, want %g", got, want)
	}
	if summary.MaxReduction != 0.5 {
		t.Errorf("MaxReduction = %g, want 0.5", summary.MaxReduction)
	}
}

func TestSummarize_PeakDistribution(t *testing.T) {
	rt := NewRunTrace(TraceConfig{Level: TraceLevelEvents})
	rt.RecordPeak(PeakRecord{Node: "24001", Day: 42, Infectious: 900})
	rt.RecordPeak(PeakRecord{Node: "24003", Day: 55, Infectious: 120})

	summary := Summarize(rt)
	if len(summary.PeakDistribution) != 2 {
		t.Fatalf("PeakDistribution has %d entries, want 2", len(summary.PeakDistribution))
	}
	if summary.PeakDistribution["24001"] != 42 {
		t.Errorf("peak day for 24001 = %d, want 42", summary.PeakDistribution["24001"])
	}
}
