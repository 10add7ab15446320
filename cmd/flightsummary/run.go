package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"flightsummary/internal/catalog"
	"flightsummary/internal/config"
	"flightsummary/internal/discovery"
	"flightsummary/internal/logging"
	"flightsummary/internal/preflight"
	"flightsummary/internal/runlayout"
	"flightsummary/internal/services"
	"flightsummary/internal/services/gdal"
	"flightsummary/internal/services/orbitviz"
	"flightsummary/internal/summary"
)

type runOptions struct {
	workers  int
	logLevel string
	table    bool
}

func runSummary(cmd *cobra.Command, ctx *commandContext, opts runOptions, args []string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	cfg = applyOverrides(*cfg, opts)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	run, err := runlayout.Open(args[0], args[1], args[2])
	if err != nil {
		return err
	}
	outputFolder, err := config.ExpandPath(args[3])
	if err != nil {
		return fmt.Errorf("resolve output folder: %w", err)
	}

	gen, err := buildGenerator(cfg, logger)
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	runCtx = services.WithRequestID(runCtx, uuid.NewString())

	report, err := gen.Generate(runCtx, run, outputFolder)
	if err != nil {
		return err
	}

	if cfg.Catalog.Enabled {
		recordReport(runCtx, cfg, report, logger)
	}

	out := cmd.OutOrStdout()
	if opts.table || isTerminal(out) {
		fmt.Fprintln(out, renderReport(report))
	}
	fmt.Fprintf(out, "Finished generating flight summary in folder: %s\n", report.OutputDir)
	return nil
}

func applyOverrides(cfg config.Config, opts runOptions) *config.Config {
	if opts.workers != 0 {
		cfg.Summary.Workers = opts.workers
	}
	if level := strings.ToLower(strings.TrimSpace(opts.logLevel)); level != "" {
		cfg.Logging.Level = level
	}
	return &cfg
}

// buildGenerator resolves every tool against the configured search
// directories and hands the absolute paths to the clients.
func buildGenerator(cfg *config.Config, logger *slog.Logger) (*summary.Generator, error) {
	statuses := preflight.CheckSystemDeps(cfg)
	if err := preflight.MissingRequired(statuses); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "cli", "resolve tools", "run `flightsummary check` for details", err)
	}

	transformer, err := gdal.NewTransformer(preflight.ResolvedCommand(statuses, "gdaltransform"), cfg.TransformTimeout())
	if err != nil {
		return nil, err
	}
	info, err := gdal.NewInfo(preflight.ResolvedCommand(statuses, "gdalinfo"))
	if err != nil {
		return nil, err
	}
	merger, err := orbitviz.New(preflight.ResolvedCommand(statuses, "merge_orbitviz"))
	if err != nil {
		return nil, err
	}
	finder, err := discovery.New(cfg.Tools.Discovery, preflight.ResolvedCommand(statuses, "find"), nil)
	if err != nil {
		return nil, err
	}

	return summary.New(transformer, info, merger, finder,
		summary.WithLogger(logger),
		summary.WithWorkers(cfg.Summary.Workers),
	)
}

func recordReport(ctx context.Context, cfg *config.Config, report summary.Report, logger *slog.Logger) {
	store, err := catalog.Open(ctx, cfg.Catalog.Path)
	if err != nil {
		logger.Warn("catalog unavailable; summary not recorded",
			logging.Error(err),
			logging.String(logging.FieldEventType, "catalog_open_failed"),
			logging.String(logging.FieldErrorHint, "check catalog.path or delete the database"),
		)
		return
	}
	defer store.Close()

	id, err := store.Record(ctx, report)
	if err != nil {
		logger.Warn("catalog record failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "catalog_record_failed"),
		)
		return
	}
	logger.Info("summary recorded", logging.String("summary_id", id), logging.Path(store.Path()))
}
