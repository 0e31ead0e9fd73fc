package root

import (
	"github.com/spf13/cobra"
)

// rootCmd is the base command for the back-office admin CLI. Subcommands
// (registry, bootstrap, etc.) are attached here.
var rootCmd = &cobra.Command{
	Use:           "freshfleet",
	Short:         "FreshFleet back-office admin CLI",
	Long:          "Administrative utilities for the FreshFleet back-office (registry inspection, data seeding).",
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

// Root returns the mutable root command for wiring from subpackages.
func Root() *cobra.Command {
	return rootCmd
}
