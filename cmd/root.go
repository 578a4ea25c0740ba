package cmd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/epiplan/epiplan/epi"
	"github.com/epiplan/epiplan/epi/ensemble"
	"github.com/epiplan/epiplan/epi/scenario"
	"github.com/epiplan/epiplan/epi/trace"
)

var (
	// CLI flags for the run command
	scenarioPath string    // Path to the scenario spec YAML
	seed         int64     // Master seed override (0 = use the spec's seed)
	realizations int       // Realization count override (0 = use the spec's)
	logLevel     string    // Log verbosity level
	outputDir    string    // Output directory override
	quantiles    []float64 // Quantile bands for the ensemble summary
	traceLevel   string    // Run trace level (none, events)
	workers      int       // Worker pool size (0 = one per CPU)
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "epiplan",
	Short: "Spatial SEIR scenario simulator for NPI planning",
}

// runCmd executes a scenario ensemble using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a planning scenario ensemble",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level: %s", traceLevel)
		}

		spec, err := scenario.LoadScenarioSpec(scenarioPath)
		if err != nil {
			logrus.Fatalf("Failed to load scenario: %v", err)
		}
		if seed != 0 {
			spec.Seed = seed
		}
		if realizations != 0 {
			spec.Realizations = realizations
		}
		if outputDir != "" {
			spec.Output.Dir = outputDir
		}

		geo, filter := loadInputs(spec)

		logrus.Infof("Starting scenario %q: %d nodes, %d days, %d realizations, seed=%d",
			spec.Name, geo.NumNodes, spec.Days(), spec.Realizations, spec.Seed)

		startTime := time.Now()

		runner := ensemble.NewRunner(spec, geo)
		runner.Filter = filter
		runner.TraceLevel = trace.TraceLevel(traceLevel)
		if workers > 0 {
			runner.Workers = workers
		}

		results, err := runner.Run()
		if err != nil {
			logrus.Fatalf("Ensemble failed: %v", err)
		}

		summary, err := ensemble.Reduce(results, quantiles)
		if err != nil {
			logrus.Fatalf("Summary failed: %v", err)
		}

		if spec.Output.WriteCSV {
			writeOutputs(spec, geo, results)
		}
		path, err := summary.WriteCSV(spec.Output.Dir, spec.Name, geo)
		if err != nil {
			logrus.Fatalf("Failed to write quantile summary: %v", err)
		}
		logrus.Infof("Wrote quantile summary to %s", path)

		ensemble.PrintReport(results, geo)
		logrus.Infof("Scenario complete in %s.", time.Since(startTime).Round(time.Millisecond))
	},
}

// loadInputs loads the geography and optional dynamics filter for a spec.
func loadInputs(spec *scenario.ScenarioSpec) (*epi.Geography, *epi.DynFilter) {
	geo, err := epi.LoadGeography(spec.Name,
		spec.Geography.Geodata, spec.Geography.Mobility,
		spec.Geography.PopulationKey, spec.Geography.NodeNameKey)
	if err != nil {
		logrus.Fatalf("Failed to load geography: %v", err)
	}

	var filter *epi.DynFilter
	if spec.FilterFile != "" {
		filter, err = epi.LoadDynFilter(spec.FilterFile, spec.Days(), geo.NumNodes)
		if err != nil {
			logrus.Fatalf("Failed to load dynamics filter: %v", err)
		}
	}
	return geo, filter
}

// writeOutputs writes per-realization trajectory (and bed-needs) CSVs for
// the accepted realizations.
func writeOutputs(spec *scenario.ScenarioSpec, geo *epi.Geography, results []*ensemble.Result) {
	for _, res := range results {
		if res.Rejected {
			continue
		}
		if _, err := epi.WriteRealizationCSV(spec.Output.Dir, spec.Name, res.Index, res.Traj, geo); err != nil {
			logrus.Fatalf("Failed to write realization %d: %v", res.Index, err)
		}
		if spec.Hospital != nil {
			beds := epi.EstimateBedNeeds(res.Traj.DailyIncidence(), spec.Hospital.Rate, spec.Hospital.LengthOfStayDays)
			if _, err := epi.WriteBedNeedsCSV(spec.Output.Dir, spec.Name, res.Index, beds, geo); err != nil {
				logrus.Fatalf("Failed to write bed needs for realization %d: %v", res.Index, err)
			}
		}
	}
	logrus.Infof("Wrote realization CSVs to %s/%s", spec.Output.Dir, spec.Name)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to the scenario spec YAML")
	_ = runCmd.MarkFlagRequired("scenario")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "Master seed override (0 = use the spec's seed)")
	runCmd.Flags().IntVar(&realizations, "realizations", 0, "Realization count override (0 = use the spec's)")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&outputDir, "output-dir", "", "Output directory override")
	runCmd.Flags().Float64SliceVar(&quantiles, "quantiles", []float64{0.05, 0.25, 0.5, 0.75, 0.95}, "Quantile bands for the ensemble summary")
	runCmd.Flags().StringVar(&traceLevel, "trace", "none", "Run trace level (none, events)")
	runCmd.Flags().IntVar(&workers, "workers", 0, "Worker pool size (0 = one per CPU)")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
