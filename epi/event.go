package epi

import "github.com/sirupsen/logrus"

// Event defines the interface for all simulation events.
// Each event must have a Timestamp (in ticks) and an Execute method
// that advances simulation state when invoked.
type Event interface {
	Timestamp() int64
	Execute(*Simulator)
}

// ImportationEvent represents seeded infections arriving in a node:
// travelers importing the disease from outside the modeled geography.
type ImportationEvent struct {
	time   int64   // Simulation time of the importation (in ticks)
	Node   int     // Index of the receiving node
	Amount float64 // Number of imported infections
}

// Timestamp returns the scheduled time of the ImportationEvent.
func (e *ImportationEvent) Timestamp() int64 {
	return e.time
}

// Execute moves the imported infections from S to E in the target node.
// At most the remaining susceptibles can be imported.
func (e *ImportationEvent) Execute(sim *Simulator) {
	logrus.Infof("<< Importation: %s at %d ticks (%g cases)", sim.Geo.NodeNames[e.Node], e.time, e.Amount)
	sim.ApplyImportation(e.Node, e.Amount, e.time)
}

// StepEvent represents one transition step of the SEIR engine across all
// nodes: force-of-infection computation, binomial compartment flows, and
// bookkeeping. Steps chain themselves until the horizon.
type StepEvent struct {
	time int64 // Scheduled execution time (in ticks)
}

// Timestamp returns the scheduled time of the StepEvent.
func (e *StepEvent) Timestamp() int64 {
	return e.time
}

// Execute the StepEvent.
func (e *StepEvent) Execute(sim *Simulator) {
	logrus.Infof("<< StepEvent at %d ticks", e.time)
	sim.Step(e.time)
}

// eventOrder breaks timestamp ties: importations apply before the step that
// shares their tick, so seeded cases can transition in the same step.
func eventOrder(ev Event) int {
	switch ev.(type) {
	case *ImportationEvent:
		return 0
	default:
		return 1
	}
}
