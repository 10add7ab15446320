package preflight

import (
	"path/filepath"

	"flightsummary/internal/config"
	"flightsummary/internal/runlayout"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the filesystem checks for a run. run and outputDir may be
// nil/empty, in which case the corresponding checks are skipped.
func RunAll(cfg *config.Config, run *runlayout.Run, outputDir string) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	if run != nil {
		results = append(results,
			CheckReadableDirectory("Run folder", run.Folder()),
			CheckReadableDirectory("Processing folder", run.ProcessFolder()),
			CheckReadableFile("Input cameras", run.CamerasInPath()),
		)
	}
	if outputDir != "" {
		results = append(results, CheckOutputDirectory("Output folder", outputDir))
	}
	if cfg.Catalog.Enabled {
		results = append(results, CheckOutputDirectory("Catalog folder", filepath.Dir(cfg.Catalog.Path)))
	}
	if cfg.Logging.Dir != "" {
		results = append(results, CheckOutputDirectory("Log folder", cfg.Logging.Dir))
	}
	return results
}
