package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

func main() {
	root := &cobra.Command{
		Use:   "workshop-console",
		Short: "Session-aware console for the workshop management API",
		Long: "workshop-console keeps the operator's session for the workshop API, guards the console " +
			"views by role and forwards every call with the stored bearer token.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if cfgFile != "" {
				_ = os.Setenv("CONFIG_FILE", cfgFile)
			}
		},
		// Running with no subcommand serves the console.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "YAML config file (overrides CONFIG_FILE)")

	root.AddCommand(newServeCmd())
	root.AddCommand(newLoginCmd())
	root.AddCommand(newLogoutCmd())
	root.AddCommand(newWhoamiCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
