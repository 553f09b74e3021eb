package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/oss-sched/csopesy-sim/internal/logging"
	"github.com/oss-sched/csopesy-sim/internal/shell"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "csopesysim [config-path]",
	Short: "Interactive multi-core CPU scheduling and demand-paging simulator",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.SetLevel(logLevel); err != nil {
			return err
		}

		var initialConfig string
		if len(args) == 1 {
			initialConfig = args[0]
		}

		sh, err := shell.New(os.Stdout, initialConfig)
		if err != nil {
			return err
		}
		return sh.Run(os.Stdin)
	},
}

func init() {
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "log verbosity (trace, debug, info, warn, error)")
}

// Execute runs the root command, exiting non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
