package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/epiplan/epiplan/epi/scenario"
)

var composeFromPaths []string

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Merge the NPI lists of multiple scenario specs",
	Long:  "Load multiple ScenarioSpec YAML files sharing a base configuration and merge their NPI lists. Output is written to stdout.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(composeFromPaths) == 0 {
			logrus.Fatalf("at least one --from flag is required")
		}

		var specs []*scenario.ScenarioSpec
		for _, path := range composeFromPaths {
			spec, err := scenario.LoadScenarioSpec(path)
			if err != nil {
				logrus.Fatalf("Failed to load spec %s: %v", path, err)
			}
			specs = append(specs, spec)
		}

		merged, err := scenario.ComposeSpecs(specs)
		if err != nil {
			logrus.Fatalf("Compose failed: %v", err)
		}
		if err := merged.MarshalTo(os.Stdout); err != nil {
			logrus.Fatalf("Failed to write merged spec: %v", err)
		}
	},
}

func init() {
	composeCmd.Flags().StringArrayVar(&composeFromPaths, "from", nil, "Path to a ScenarioSpec YAML file (can be repeated)")
	_ = composeCmd.MarkFlagRequired("from")

	rootCmd.AddCommand(composeCmd)
}
