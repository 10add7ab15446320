package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"flightsummary/internal/config"
	"flightsummary/internal/preflight"
	"flightsummary/internal/runlayout"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check [<site> <yyyymmdd> <parent folder> [<output folder>]]",
		Short: "Report tool availability and folder access",
		Args: func(cmd *cobra.Command, args []string) error {
			switch len(args) {
			case 0, 3, 4:
				return nil
			default:
				return fmt.Errorf("check takes 0, 3 or 4 arguments, got %d", len(args))
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var run *runlayout.Run
			var output string
			if len(args) >= 3 {
				run, err = runlayout.Open(args[0], args[1], args[2])
				if err != nil {
					return err
				}
			}
			if len(args) == 4 {
				output, err = config.ExpandPath(args[3])
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config: %s\n", ctx.configPath)

			statuses := preflight.CheckSystemDeps(cfg)
			toolRows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				location := status.Resolved
				if !status.Available {
					location = status.Detail
				}
				toolRows = append(toolRows, []string{status.Name, yesNo(status.Available), yesNo(!status.Optional), location})
			}
			fmt.Fprintln(out, renderTable([]string{"Tool", "Available", "Required", "Location"}, toolRows, nil))

			failed := preflight.MissingRequired(statuses) != nil
			results := preflight.RunAll(cfg, run, output)
			if len(results) > 0 {
				pathRows := make([][]string, 0, len(results))
				for _, result := range results {
					pathRows = append(pathRows, []string{result.Name, yesNo(result.Passed), result.Detail})
					failed = failed || !result.Passed
				}
				fmt.Fprintln(out, renderTable([]string{"Check", "Passed", "Detail"}, pathRows, nil))
			}

			if failed {
				return errors.New("preflight checks failed")
			}
			fmt.Fprintln(out, "All checks passed")
			return nil
		},
	}
}
