package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"flightsummary/internal/runlayout"
)

// RunFixture lays out a processing run on disk the way the pipeline does.
type RunFixture struct {
	t      testing.TB
	Parent string
	Run    *runlayout.Run
}

// BatchSpec describes one batch folder to create.
type BatchSpec struct {
	Start, Stop int
	// Means holds the Mean written to the lidar, inter, fireball and
	// fireball-lidar diff summaries, in that order.
	Means [4]float64
	// Hillshade creates the browse image when true.
	Hillshade bool
	// CamerasOut is written as the batch's cameras_out.kml when non-empty.
	CamerasOut string
	// OmitDiff names a diff file (e.g. runlayout.FireDiffName) to leave out.
	OmitDiff string
}

// NewRun creates <tmp>/<SITE>_<date>/processed with an input camera KML and
// an optional packed error log.
func NewRun(t testing.TB, site, date string, withErrorLog bool) *RunFixture {
	t.Helper()

	parent := t.TempDir()
	run, err := runlayout.Open(site, date, parent)
	if err != nil {
		t.Fatalf("open run: %v", err)
	}
	if err := os.MkdirAll(run.ProcessFolder(), 0o755); err != nil {
		t.Fatalf("mkdir process folder: %v", err)
	}
	WriteFile(t, run.CamerasInPath(), "<kml><Document><name>cameras_in</name></Document></kml>\n")
	if withErrorLog {
		WriteFile(t, run.ErrorLogPath(), "batch_105_106: bundle_adjust failed\n")
	}
	return &RunFixture{t: t, Parent: parent, Run: run}
}

// BatchDir returns the folder name used for a frame range.
func BatchDir(start, stop int) string {
	return fmt.Sprintf("batch_%05d_%05d_2", start, stop)
}

// AddBatch creates a batch folder holding a DEM and its companion files and
// returns the DEM path.
func (f *RunFixture) AddBatch(spec BatchSpec) string {
	f.t.Helper()

	dir := filepath.Join(f.Run.ProcessFolder(), BatchDir(spec.Start, spec.Stop))
	paths := runlayout.PathsForDEM(filepath.Join(dir, runlayout.DEMName))
	WriteFile(f.t, paths.DEM, "dem")

	diffs := []string{paths.LidarDiff, paths.InterDiff, paths.FireDiff, paths.FireLidarDiff}
	for i, path := range diffs {
		if spec.OmitDiff != "" && filepath.Base(path) == spec.OmitDiff {
			continue
		}
		WriteFile(f.t, path, DiffSummary(spec.Means[i]))
	}
	if spec.Hillshade {
		WriteFile(f.t, paths.Hillshade, "hillshade")
	}
	if spec.CamerasOut != "" {
		WriteFile(f.t, paths.CamerasOut, spec.CamerasOut)
	}
	return paths.DEM
}

// DiffSummary renders a geodiff CSV summary with the given mean.
func DiffSummary(mean float64) string {
	return fmt.Sprintf("# Max difference: %f\n# Min difference: %f\n# Mean difference: %f\n# StdDev of difference: 0.5\n0, 0, %f\n",
		mean+2, mean-2, mean, mean)
}
