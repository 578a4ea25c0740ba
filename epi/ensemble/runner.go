// Package ensemble runs many stochastic realizations of one scenario and
// reduces them into planning summaries.
package ensemble

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/epiplan/epiplan/epi"
	"github.com/epiplan/epiplan/epi/scenario"
	"github.com/epiplan/epiplan/epi/trace"
)

// Result is the outcome of one realization.
type Result struct {
	Index    int
	Traj     *epi.Trajectory
	Metrics  *epi.Metrics
	Trace    *trace.RunTrace
	Rejected bool // realization fell below the dynamics filter
}

// Runner executes the realizations of a scenario on a bounded worker pool.
// Results are deterministic for a given (spec, seed) regardless of the
// worker count: every realization owns seed-derived RNG streams and results
// are ordered by index.
type Runner struct {
	Spec       *scenario.ScenarioSpec
	Geo        *epi.Geography
	Filter     *epi.DynFilter
	TraceLevel trace.TraceLevel
	Workers    int
}

// NewRunner creates a Runner with a worker per CPU.
func NewRunner(spec *scenario.ScenarioSpec, geo *epi.Geography) *Runner {
	return &Runner{
		Spec:    spec,
		Geo:     geo,
		Workers: runtime.NumCPU(),
	}
}

// Run executes all realizations and returns their results ordered by index.
// A realization that cannot even be set up (bad seeding file, bad NPI node)
// aborts the whole ensemble: every realization reads the same inputs, so
// the rest would fail the same way.
func (r *Runner) Run() ([]*Result, error) {
	n := r.Spec.Realizations
	workers := r.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	results := make([]*Result, n)
	errs := make([]error, n)
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				res, err := r.runOne(idx)
				results[idx] = res
				errs[idx] = err
			}
		}()
	}
	for idx := 0; idx < n; idx++ {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	for idx, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("realization %d: %w", idx, err)
		}
	}

	rejected := 0
	for _, res := range results {
		if res.Rejected {
			rejected++
		}
	}
	if rejected > 0 {
		logrus.Warnf("%d of %d realizations fell below the dynamics filter and are excluded from summaries", rejected, n)
	}
	return results, nil
}

// runOne executes realization idx with its own deterministic RNG streams.
func (r *Runner) runOne(idx int) (*Result, error) {
	rng := epi.NewPartitionedRNG(epi.NewSimulationKey(r.Spec.Seed))
	prefix := epi.SubsystemRealization(idx)
	seedSrc := rng.SourceFor(prefix + "_" + epi.SubsystemSeeding)
	paramSrc := rng.SourceFor(prefix + "_" + epi.SubsystemParameters)
	stepSrc := rng.SourceFor(prefix + "_" + epi.SubsystemTransitions)

	runTrace := trace.NewRunTrace(trace.TraceConfig{Level: r.TraceLevel})

	sched, err := epi.DrawSeeding(r.Spec.Seeding, r.Geo, r.Spec.Start(), r.Spec.Days(), idx, seedSrc)
	if err != nil {
		return nil, fmt.Errorf("seeding: %w", err)
	}

	npiSeries, activations, err := epi.BuildNPISeries(
		r.Spec.NPIs, r.Spec.Start(), r.Spec.End(), r.Spec.DtPerDay, r.Geo.NumNodes, r.Geo, paramSrc)
	if err != nil {
		return nil, fmt.Errorf("npi series: %w", err)
	}
	for _, a := range activations {
		runTrace.RecordActivation(trace.NPIActivationRecord{
			Name: a.Name, Reduction: a.Reduction, StartDay: a.StartDay, EndDay: a.EndDay,
		})
	}

	params, err := epi.DrawParameters(r.Spec.Disease, npiSeries, paramSrc)
	if err != nil {
		return nil, fmt.Errorf("parameters: %w", err)
	}

	sim := epi.NewSimulator(r.Geo, params, sched, r.Spec.DtPerDay, stepSrc, runTrace)
	sim.Filter = r.Filter
	sim.Run()

	return &Result{
		Index:    idx,
		Traj:     sim.Trajectory,
		Metrics:  sim.Metrics,
		Trace:    runTrace,
		Rejected: sim.FilterFailed,
	}, nil
}
