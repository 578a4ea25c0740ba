package trace

// TraceLevel controls the verbosity of run tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelEvents captures seeding, NPI activation, and peak records.
	TraceLevelEvents TraceLevel = "events"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:   true,
	TraceLevelEvents: true,
	"":               true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// Enabled reports whether records should be collected at all.
func (c TraceConfig) Enabled() bool {
	return c.Level == TraceLevelEvents
}

// RunTrace collects event records during one scenario realization.
type RunTrace struct {
	Config      TraceConfig
	Seedings    []SeedingRecord
	Activations []NPIActivationRecord
	Peaks       []PeakRecord
}

// NewRunTrace creates a RunTrace ready for recording.
func NewRunTrace(config TraceConfig) *RunTrace {
	return &RunTrace{
		Config:      config,
		Seedings:    make([]SeedingRecord, 0),
		Activations: make([]NPIActivationRecord, 0),
		Peaks:       make([]PeakRecord, 0),
	}
}

// RecordSeeding appends a seeding record when tracing is enabled.
func (rt *RunTrace) RecordSeeding(record SeedingRecord) {
	if rt == nil || !rt.Config.Enabled() {
		return
	}
	rt.Seedings = append(rt.Seedings, record)
}

// RecordActivation appends an NPI activation record when tracing is enabled.
func (rt *RunTrace) RecordActivation(record NPIActivationRecord) {
	if rt == nil || !rt.Config.Enabled() {
		return
	}
	rt.Activations = append(rt.Activations, record)
}

// RecordPeak appends a peak record when tracing is enabled.
func (rt *RunTrace) RecordPeak(record PeakRecord) {
	if rt == nil || !rt.Config.Enabled() {
		return
	}
	rt.Peaks = append(rt.Peaks, record)
}
