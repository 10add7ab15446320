package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"flightsummary/internal/config"
	"flightsummary/internal/fileutil"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or check the flightsummary configuration",
	}
	cmd.AddCommand(newConfigInitCommand(), newConfigValidateCommand(ctx))
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var (
		targetPath string
		overwrite  bool
	)

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write the sample configuration",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := initTarget(targetPath)
			if err != nil {
				return err
			}
			exists, err := fileutil.Exists(target)
			if err != nil {
				return fmt.Errorf("check config path: %w", err)
			}
			if exists && !overwrite {
				return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("create config directory: %w", err)
			}
			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Set tools.search_dirs to your StereoPipeline install if the tools are not on PATH.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing configuration file")
	return cmd
}

// initTarget expands an explicit --path or falls back to the per-user default.
func initTarget(path string) (string, error) {
	if path = strings.TrimSpace(path); path != "" {
		expanded, err := config.ExpandPath(path)
		if err != nil {
			return "", fmt.Errorf("resolve config path: %w", err)
		}
		return expanded, nil
	}
	target, err := config.DefaultConfigPath()
	if err != nil {
		return "", fmt.Errorf("determine default config path: %w", err)
	}
	return target, nil
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the configuration and print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()
			source := ctx.configPath
			if _, err := os.Stat(source); errors.Is(err, os.ErrNotExist) {
				source += " (not found, defaults used)"
			}
			fmt.Fprintf(out, "Config: %s\n", source)
			fmt.Fprintln(out, renderTable([]string{"Setting", "Value"}, settingsRows(cfg), []columnAlignment{alignLeft, alignLeft}))
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func settingsRows(cfg *config.Config) [][]string {
	catalog := yesNo(cfg.Catalog.Enabled)
	if cfg.Catalog.Enabled {
		catalog += " (" + cfg.Catalog.Path + ")"
	}
	return [][]string{
		{"gdaltransform", cfg.Tools.GDALTransform},
		{"gdalinfo", cfg.Tools.GDALInfo},
		{"merge_orbitviz", cfg.Tools.MergeOrbitviz},
		{"search_dirs", strings.Join(cfg.Tools.SearchDirs, ", ")},
		{"discovery", cfg.Tools.Discovery},
		{"transform timeout", cfg.TransformTimeout().String()},
		{"workers", strconv.Itoa(cfg.Summary.Workers)},
		{"catalog", catalog},
		{"logging", cfg.Logging.Format + "/" + cfg.Logging.Level},
	}
}
