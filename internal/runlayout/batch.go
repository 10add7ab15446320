package runlayout

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"flightsummary/internal/fileutil"
)

// Frames is an inclusive frame range. Values are passed through exactly as
// the pipeline named the batch folder.
type Frames struct {
	Start int
	Stop  int
}

// String renders the range as "start-stop".
func (f Frames) String() string {
	return strconv.Itoa(f.Start) + "-" + strconv.Itoa(f.Stop)
}

// BatchPaths bundles every file the pipeline writes next to a batch DEM.
type BatchPaths struct {
	DEM           string
	Hillshade     string
	LidarDiff     string
	InterDiff     string
	FireDiff      string
	FireLidarDiff string
	CamerasOut    string
}

// PathsForDEM derives the sibling files of an aligned DEM.
func PathsForDEM(dem string) BatchPaths {
	dir := filepath.Dir(dem)
	return BatchPaths{
		DEM:           dem,
		Hillshade:     filepath.Join(dir, HillshadeName),
		LidarDiff:     filepath.Join(dir, LidarDiffName),
		InterDiff:     filepath.Join(dir, InterDiffName),
		FireDiff:      filepath.Join(dir, FireDiffName),
		FireLidarDiff: filepath.Join(dir, FireLidarDiffName),
		CamerasOut:    filepath.Join(dir, CamerasOutName),
	}
}

// Batch is one completed frame range of the run.
type Batch struct {
	Frames Frames
	Paths  BatchPaths
}

// ThumbnailName returns the name of the browse link created for the batch.
func (b Batch) ThumbnailName() string {
	return fmt.Sprintf("dem_%d_%d_browse.tif", b.Frames.Start, b.Frames.Stop)
}

// ParseBatchFolder extracts the frame range from a batch_<start>_<stop>[_...]
// folder name.
func ParseBatchFolder(name string) (Frames, bool) {
	if !strings.HasPrefix(name, batchPrefix) {
		return Frames{}, false
	}
	parts := strings.Split(name, "_")
	if len(parts) < 3 {
		return Frames{}, false
	}
	start, err := strconv.Atoi(parts[1])
	if err != nil {
		return Frames{}, false
	}
	stop, err := strconv.Atoi(parts[2])
	if err != nil {
		return Frames{}, false
	}
	return Frames{Start: start, Stop: stop}, true
}

// Batches lists the completed batches of the run: batch folders under the
// processing folder that contain an aligned DEM. The result is ordered by
// start frame, then stop frame, then folder name. Folder names that do not
// parse are reported through skipped (when non-nil) and left out.
func (r *Run) Batches(skipped func(name string)) ([]Batch, error) {
	entries, err := os.ReadDir(r.ProcessFolder())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list batches: %w", err)
	}

	type candidate struct {
		name  string
		batch Batch
	}
	found := make([]candidate, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), batchPrefix) {
			continue
		}
		frames, ok := ParseBatchFolder(entry.Name())
		if !ok {
			if skipped != nil {
				skipped(entry.Name())
			}
			continue
		}
		dem := filepath.Join(r.ProcessFolder(), entry.Name(), DEMName)
		complete, err := fileutil.Exists(dem)
		if err != nil {
			return nil, fmt.Errorf("check %s: %w", dem, err)
		}
		if !complete {
			continue
		}
		found = append(found, candidate{
			name:  entry.Name(),
			batch: Batch{Frames: frames, Paths: PathsForDEM(dem)},
		})
	}

	sort.SliceStable(found, func(i, j int) bool {
		a, b := found[i].batch.Frames, found[j].batch.Frames
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.Stop != b.Stop {
			return a.Stop < b.Stop
		}
		return found[i].name < found[j].name
	})

	batches := make([]Batch, len(found))
	for i, c := range found {
		batches[i] = c.batch
	}
	return batches, nil
}
