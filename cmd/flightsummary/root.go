package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

const usageLine = "Usage: flightsummary <site> <yyyymmdd> <parent folder> <output folder>"

// errUsage is returned after the usage line has already been printed.
var errUsage = errors.New("wrong number of arguments")

func newRootCommand() *cobra.Command {
	var configFlag string
	var opts runOptions

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "flightsummary <site> <yyyymmdd> <parent folder> <output folder>",
		Short:         "Generate a debugging summary for one aerial survey processing run",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 4 {
				fmt.Fprintln(cmd.OutOrStdout(), usageLine)
				return fmt.Errorf("%w: expected 4, got %d", errUsage, len(args))
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(cmd, ctx, opts, args)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.Flags().IntVar(&opts.workers, "workers", 0, "Batches gathered concurrently (overrides summary.workers)")
	rootCmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides logging.level)")
	rootCmd.Flags().BoolVar(&opts.table, "table", false, "Print the batch table even when stdout is not a terminal")

	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))

	return rootCmd
}
