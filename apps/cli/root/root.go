package root

import (
	"github.com/spf13/cobra"
)

// rootCmd is the base command for the admin CLI. Subcommands (bootstrap, gym) are attached here.
var rootCmd = &cobra.Command{
	Use:           "gymgate",
	Short:         "Gymgate admin CLI",
	Long:          "Administrative utilities for Gymgate (control-plane bootstrap, gym provisioning).",
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
