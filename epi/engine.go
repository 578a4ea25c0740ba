// epi/engine.go
package epi

import (
	"container/heap"
	"math"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/epiplan/epiplan/epi/trace"
)

// EventQueue implements heap.Interface and orders events by timestamp.
// Timestamp ties resolve importations before steps.
type EventQueue []Event

func (eq EventQueue) Len() int { return len(eq) }
func (eq EventQueue) Less(i, j int) bool {
	if eq[i].Timestamp() != eq[j].Timestamp() {
		return eq[i].Timestamp() < eq[j].Timestamp()
	}
	return eventOrder(eq[i]) < eventOrder(eq[j])
}
func (eq EventQueue) Swap(i, j int) { eq[i], eq[j] = eq[j], eq[i] }

func (eq *EventQueue) Push(x any) {
	*eq = append(*eq, x.(Event))
}

func (eq *EventQueue) Pop() any {
	old := *eq
	n := len(old)
	item := old[n-1]
	*eq = old[0 : n-1]
	return item
}

// Simulator is the core object that holds simulation time, compartment
// state, and the event loop for one realization.
type Simulator struct {
	Clock   int64
	Horizon int64
	// EventQueue has all the simulator events: importations and step events
	EventQueue EventQueue
	State      *State
	Geo        *Geography
	Params     *Parameters
	// TicksPerDay is the number of transition steps per day (1/dt).
	TicksPerDay int
	Metrics     *Metrics
	Trajectory  *Trajectory
	// Filter is the optional dynamics filter; a realization falling below
	// it is marked FilterFailed and excluded from ensemble summaries.
	Filter       *DynFilter
	FilterFailed bool
	Trace        *trace.RunTrace
	StepEvent    Event
	StepCount    int

	// commute[i][j] is the off-diagonal visiting fraction; stay[i] is the
	// remainder of node i's population that mixes at home.
	commute [][]float64
	stay    []float64
	src     rand.Source
}

// NewSimulator assembles a realization from a drawn parameter set and
// seeding schedule. The horizon is the length of the beta series in ticks.
func NewSimulator(geo *Geography, params *Parameters, sched *SeedingSchedule, ticksPerDay int, src rand.Source, runTrace *trace.RunTrace) *Simulator {
	steps := len(params.Beta)
	k := geo.NumNodes

	commute := make([][]float64, k)
	stay := make([]float64, k)
	fractions := geo.CommuteFractions()
	for i := 0; i < k; i++ {
		commute[i] = make([]float64, k)
		out := 0.0
		for j := 0; j < k; j++ {
			if i == j {
				continue
			}
			commute[i][j] = fractions.At(i, j)
			out += commute[i][j]
		}
		stay[i] = math.Max(0, 1.0-out)
	}

	s := &Simulator{
		Clock:       0,
		Horizon:     int64(steps),
		EventQueue:  make(EventQueue, 0),
		State:       NewInitialState(geo.Populations),
		Geo:         geo,
		Params:      params,
		TicksPerDay: ticksPerDay,
		Metrics:     NewMetrics(k),
		Trajectory:  NewTrajectory(ticksPerDay, k, steps),
		Trace:       runTrace,
		commute:     commute,
		stay:        stay,
		src:         src,
	}

	// sample at tick 0, before any importation or transition
	s.Trajectory.Record(s.State)

	for day := 0; day < len(sched.Amounts); day++ {
		for node, amount := range sched.Amounts[day] {
			if amount > 0 {
				s.Schedule(&ImportationEvent{
					time:   int64(day * ticksPerDay),
					Node:   node,
					Amount: amount,
				})
			}
		}
	}
	s.Schedule(&StepEvent{time: 0})

	return s
}

// Schedule pushes an event into the simulator's EventQueue.
func (sim *Simulator) Schedule(ev Event) {
	heap.Push(&sim.EventQueue, ev)
}

// Run drives the event loop until the horizon is reached or the queue
// drains.
func (sim *Simulator) Run() {
	for len(sim.EventQueue) > 0 {
		// get the next event to be simulated
		ev := heap.Pop(&sim.EventQueue).(Event)
		// advance the clock
		sim.Clock = ev.Timestamp()
		if sim.Clock >= sim.Horizon {
			break
		}
		logrus.Infof("[tick %07d] Executing %T", sim.Clock, ev)
		// process the event
		ev.Execute(sim)
	}
	sim.Metrics.Finalize(sim.Geo, sim.State, sim.Trace)
	logrus.Infof("[tick %07d] Simulation ended", sim.Clock)
}

// ApplyImportation moves imported infections from S to E, capped at the
// remaining susceptibles, and counts them into cumI.
func (sim *Simulator) ApplyImportation(node int, amount float64, now int64) {
	seeded := math.Min(amount, sim.State.Comp[CompS][node])
	if seeded <= 0 {
		logrus.Warnf("importation into %q at tick %d dropped: no susceptibles left", sim.Geo.NodeNames[node], now)
		return
	}
	sim.State.Comp[CompS][node] -= seeded
	sim.State.Comp[CompE][node] += seeded
	sim.State.Comp[CompCumI][node] += seeded
	sim.Metrics.TotalImportations += seeded
	sim.Trace.RecordSeeding(trace.SeedingRecord{
		Node:   sim.Geo.NodeNames[node],
		Day:    int(now) / sim.TicksPerDay,
		Amount: seeded,
	})
}

// binomial draws from Binomial(floor(n), p) on the realization's
// transition stream.
func (sim *Simulator) binomial(n, p float64) float64 {
	n = math.Floor(n)
	if n <= 0 || p <= 0 {
		return 0
	}
	if p >= 1 {
		return n
	}
	return distuv.Binomial{N: n, P: p, Src: sim.src}.Rand()
}

// forceOfInfection computes the per-node infection hazard for the current
// state at step t. Exposure splits between the home node (alpha) and the
// mobility-weighted mix of visited nodes (1-alpha).
func (sim *Simulator) forceOfInfection(t int) []float64 {
	k := sim.Geo.NumNodes
	prevalence := make([]float64, k)
	for i := 0; i < k; i++ {
		if pop := sim.State.Population(i); pop > 0 {
			prevalence[i] = sim.State.Infectious(i) / pop
		}
	}

	lambda := make([]float64, k)
	for i := 0; i < k; i++ {
		mixed := sim.stay[i] * prevalence[i]
		for j := 0; j < k; j++ {
			if j != i {
				mixed += sim.commute[i][j] * prevalence[j]
			}
		}
		alpha := sim.Params.Alpha
		lambda[i] = sim.Params.Beta[t][i] * (alpha*prevalence[i] + (1.0-alpha)*mixed)
	}
	return lambda
}

// Step executes one SEIR transition step across all nodes: staged binomial
// flows S->E->I1->I2->I3->R computed from the pre-step state, then applied
// at once.
func (sim *Simulator) Step(now int64) {
	sim.StepCount++

	t := int(now)
	dt := 1.0 / float64(sim.TicksPerDay)
	lambda := sim.forceOfInfection(t)

	pSigma := 1.0 - math.Exp(-sim.Params.Sigma*dt)
	pGamma := 1.0 - math.Exp(-sim.Params.Gamma*dt)

	st := sim.State
	for i := 0; i < sim.Geo.NumNodes; i++ {
		pInfect := 1.0 - math.Exp(-lambda[i]*dt)

		newE := sim.binomial(st.Comp[CompS][i], pInfect)
		newI1 := sim.binomial(st.Comp[CompE][i], pSigma)
		out1 := sim.binomial(st.Comp[CompI1][i], pGamma)
		out2 := sim.binomial(st.Comp[CompI2][i], pGamma)
		out3 := sim.binomial(st.Comp[CompI3][i], pGamma)

		st.Comp[CompS][i] -= newE
		st.Comp[CompE][i] += newE - newI1
		st.Comp[CompI1][i] += newI1 - out1
		st.Comp[CompI2][i] += out1 - out2
		st.Comp[CompI3][i] += out2 - out3
		st.Comp[CompR][i] += out3
		st.Comp[CompCumI][i] += newI1
	}

	sim.Trajectory.Record(st)
	day := t / sim.TicksPerDay
	sim.Metrics.ObserveStep(day, st)

	// dynamics filter is checked once per completed day
	if sim.Filter != nil && (t+1)%sim.TicksPerDay == 0 {
		if !sim.Filter.Check(day, st.Comp[CompCumI]) {
			if !sim.FilterFailed {
				logrus.Warnf("realization fell below the dynamics filter on day %d", day)
			}
			sim.FilterFailed = true
		}
	}

	// push the next step event as needed
	if now+1 < sim.Horizon {
		se := &StepEvent{time: now + 1}
		sim.Schedule(se)
		sim.StepEvent = se
	} else {
		sim.StepEvent = nil
	}
}
