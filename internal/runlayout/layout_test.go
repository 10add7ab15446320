package runlayout_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"flightsummary/internal/runlayout"
)

func TestOpenResolvesFolders(t *testing.T) {
	parent := t.TempDir()
	run, err := runlayout.Open("gr", "2015-03-25", parent)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if run.Site() != "GR" || run.Date() != "20150325" {
		t.Fatalf("unexpected identity %s/%s", run.Site(), run.Date())
	}
	wantFolder := filepath.Join(parent, "GR_20150325")
	if run.Folder() != wantFolder {
		t.Fatalf("unexpected folder %q", run.Folder())
	}
	if run.ProcessFolder() != filepath.Join(wantFolder, "processed") {
		t.Fatalf("unexpected process folder %q", run.ProcessFolder())
	}
	if run.ErrorLogPath() != filepath.Join(wantFolder, "packedErrors.log") {
		t.Fatalf("unexpected error log %q", run.ErrorLogPath())
	}
	if run.CamerasInPath() != filepath.Join(wantFolder, "processed", "cameras_in.kml") {
		t.Fatalf("unexpected cameras_in path %q", run.CamerasInPath())
	}
	if run.String() != "GR_20150325" {
		t.Fatalf("unexpected String %q", run.String())
	}
}

func TestOpenRejectsBadInput(t *testing.T) {
	tests := []struct {
		name, site, date string
	}{
		{"empty site", " ", "20150325"},
		{"path site", "GR/AN", "20150325"},
		{"bad date", "GR", "2015-13-40"},
		{"short date", "GR", "201503"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runlayout.Open(tt.site, tt.date, t.TempDir()); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestPathsForDEM(t *testing.T) {
	dem := filepath.Join("/runs", "GR_20150325", "processed", "batch_100_110_10", "out-align-DEM.tif")
	dir := filepath.Dir(dem)
	got := runlayout.PathsForDEM(dem)
	want := runlayout.BatchPaths{
		DEM:           dem,
		Hillshade:     filepath.Join(dir, "out-DEM_HILLSHADE_browse.tif"),
		LidarDiff:     filepath.Join(dir, "out-diff.csv"),
		InterDiff:     filepath.Join(dir, "out_inter_diff_summary.csv"),
		FireDiff:      filepath.Join(dir, "out_fireball_diff_summary.csv"),
		FireLidarDiff: filepath.Join(dir, "out_fireLidar_diff_summary.csv"),
		CamerasOut:    filepath.Join(dir, "cameras_out.kml"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected paths:\n got %+v\nwant %+v", got, want)
	}
}

func TestParseBatchFolder(t *testing.T) {
	tests := []struct {
		name string
		want runlayout.Frames
		ok   bool
	}{
		{"batch_100_110", runlayout.Frames{Start: 100, Stop: 110}, true},
		{"batch_111_120_10", runlayout.Frames{Start: 111, Stop: 120}, true},
		{"batch_120_111", runlayout.Frames{Start: 120, Stop: 111}, true},
		{"batch_abc_110", runlayout.Frames{}, false},
		{"batch_100", runlayout.Frames{}, false},
		{"other_100_110", runlayout.Frames{}, false},
	}
	for _, tt := range tests {
		got, ok := runlayout.ParseBatchFolder(tt.name)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("ParseBatchFolder(%q) = %+v, %v; want %+v, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestBatchesListsCompletedBatchesInFrameOrder(t *testing.T) {
	parent := t.TempDir()
	run, err := runlayout.Open("AN", "20161110", parent)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	proc := run.ProcessFolder()
	makeBatch := func(name string, withDEM bool) {
		dir := filepath.Join(proc, name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		if withDEM {
			if err := os.WriteFile(filepath.Join(dir, runlayout.DEMName), []byte("dem"), 0o644); err != nil {
				t.Fatal(err)
			}
		}
	}
	makeBatch("batch_111_120_10", true)
	makeBatch("batch_100_110_10", true)
	makeBatch("batch_90_99_10", false)
	makeBatch("batch_bad_name", true)
	if err := os.WriteFile(filepath.Join(proc, "batch_notes.txt"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	var skipped []string
	batches, err := run.Batches(func(name string) { skipped = append(skipped, name) })
	if err != nil {
		t.Fatalf("Batches returned error: %v", err)
	}
	if len(batches) != 2 {
		t.Fatalf("expected 2 completed batches, got %d", len(batches))
	}
	if batches[0].Frames != (runlayout.Frames{Start: 100, Stop: 110}) || batches[1].Frames != (runlayout.Frames{Start: 111, Stop: 120}) {
		t.Fatalf("unexpected order: %+v", batches)
	}
	if batches[0].ThumbnailName() != "dem_100_110_browse.tif" {
		t.Fatalf("unexpected thumbnail name %q", batches[0].ThumbnailName())
	}
	if batches[1].Paths.DEM != filepath.Join(proc, "batch_111_120_10", runlayout.DEMName) {
		t.Fatalf("unexpected DEM path %q", batches[1].Paths.DEM)
	}
	if !reflect.DeepEqual(skipped, []string{"batch_bad_name"}) {
		t.Fatalf("unexpected skipped folders %v", skipped)
	}
}

func TestBatchesMissingProcessFolder(t *testing.T) {
	run, err := runlayout.Open("GR", "20150325", t.TempDir())
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	batches, err := run.Batches(nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(batches) != 0 {
		t.Fatalf("expected no batches, got %d", len(batches))
	}
}

func TestBatchesReportsUnreadableBatch(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits do not apply to root")
	}
	run, err := runlayout.Open("GR", "20150325", t.TempDir())
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	dir := filepath.Join(run.ProcessFolder(), "batch_100_110_10")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, runlayout.DEMName), []byte("dem"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(dir, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	batches, err := run.Batches(nil)
	if !errors.Is(err, fs.ErrPermission) {
		t.Fatalf("expected permission error, got %v (batches %v)", err, batches)
	}
	if !strings.Contains(err.Error(), dir) {
		t.Fatalf("error should name the batch folder: %v", err)
	}
}
