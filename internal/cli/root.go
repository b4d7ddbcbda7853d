// Package cli holds the flightsim cobra commands.
package cli

import (
	"github.com/spf13/cobra"
)

// RootCmd assembles the command tree.
func RootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:     "flightsim",
		Short:   "Flight Simulator - AI training scenarios for pharma supply-chain crises",
		Version: version,
		Long: `flightsim serves the training simulator API and exposes its building
blocks (scenario generation, prompt rendering, JSON extraction) on the command line.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "path to config.yaml (defaults to FLIGHTSIM_CONFIG_PATH or ./config/config.yaml)")

	root.AddCommand(ServeCmd(version))
	root.AddCommand(ScenarioCmd())
	root.AddCommand(PromptCmd())
	root.AddCommand(ExtractCmd())
	return root
}
