package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/epiplan/epiplan/epi/scenario"
)

var validateScenarioPath string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a scenario spec and its input files",
	Long:  "Load a ScenarioSpec YAML file, its geodata and mobility inputs, and the optional dynamics filter, and report the first problem found.",
	Run: func(cmd *cobra.Command, args []string) {
		spec, err := scenario.LoadScenarioSpec(validateScenarioPath)
		if err != nil {
			logrus.Fatalf("Scenario invalid: %v", err)
		}

		geo, filter := loadInputs(spec)

		fmt.Printf("scenario %q OK: %d nodes, %d days, %d realizations",
			spec.Name, geo.NumNodes, spec.Days(), spec.Realizations)
		if filter != nil {
			fmt.Printf(", dynamics filter (%d x %d)", filter.Days, filter.K)
		}
		fmt.Println()
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateScenarioPath, "scenario", "", "Path to the scenario spec YAML")
	_ = validateCmd.MarkFlagRequired("scenario")

	rootCmd.AddCommand(validateCmd)
}
