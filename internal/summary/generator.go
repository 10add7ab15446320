package summary

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"flightsummary/internal/discovery"
	"flightsummary/internal/fileutil"
	"flightsummary/internal/geodiff"
	"flightsummary/internal/logging"
	"flightsummary/internal/projection"
	"flightsummary/internal/runlayout"
	"flightsummary/internal/services"
	"flightsummary/internal/services/gdal"
	"flightsummary/internal/services/orbitviz"
)

// Output names inside the summary folder.
const (
	CSVName  = "batchInfoSummary.csv"
	LockName = ".flightsummary.lock"
)

// ErrBusy is returned when another generator holds the output folder.
var ErrBusy = errors.New("summary folder is locked by another process")

// Report describes a completed summary.
type Report struct {
	Site      string
	Date      string
	OutputDir string
	CSVPath   string
	// ErrorLog is empty when the run had no packed error log.
	ErrorLog   string
	CamerasIn  string
	CamerasOut string
	// MergedKML lists the per-batch camera files handed to the merge tool.
	MergedKML  []string
	Rows       []Row
	Thumbnails []string
	Started    time.Time
	Finished   time.Time
}

// Generator produces flight summaries. Collaborators are injected so tests
// never spawn processes.
type Generator struct {
	converter gdal.CoordinateConverter
	inspector gdal.Inspector
	merger    orbitviz.Merger
	finder    discovery.Finder
	logger    *slog.Logger
	workers   int
	now       func() time.Time
}

// Option customises a Generator.
type Option func(*Generator)

// WithLogger sets the logger; nil keeps the no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithWorkers bounds concurrent batch gathering. Values below 1 mean 1.
func WithWorkers(n int) Option {
	return func(g *Generator) {
		if n < 1 {
			n = 1
		}
		g.workers = n
	}
}

// WithClock overrides the report timestamps source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// New wires a Generator. Every collaborator is required.
func New(converter gdal.CoordinateConverter, inspector gdal.Inspector, merger orbitviz.Merger, finder discovery.Finder, opts ...Option) (*Generator, error) {
	if converter == nil || inspector == nil || merger == nil || finder == nil {
		return nil, errors.New("summary generator requires converter, inspector, merger, and finder")
	}
	g := &Generator{
		converter: converter,
		inspector: inspector,
		merger:    merger,
		finder:    finder,
		logger:    logging.NewNop(),
		workers:   1,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = logging.NewComponentLogger(g.logger, "summary")
	return g, nil
}

// Generate writes the summary of run into dest.
func (g *Generator) Generate(ctx context.Context, run *runlayout.Run, dest string) (Report, error) {
	if run == nil {
		return Report{}, services.Wrap(services.ErrValidation, "summary", "generate", "run required", nil)
	}
	if dest == "" {
		return Report{}, services.Wrap(services.ErrValidation, "summary", "generate", "output folder required", nil)
	}
	ctx = services.WithRun(ctx, run.Site(), run.Date())
	logger := logging.WithContext(ctx, g.logger)

	report := Report{
		Site:       run.Site(),
		Date:       run.Date(),
		OutputDir:  dest,
		CSVPath:    filepath.Join(dest, CSVName),
		CamerasIn:  filepath.Join(dest, runlayout.CamerasInName),
		CamerasOut: filepath.Join(dest, runlayout.CamerasOutName),
		Started:    g.now(),
	}

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return report, fmt.Errorf("create output folder: %w", err)
	}
	lock := flock.New(filepath.Join(dest, LockName))
	locked, err := lock.TryLock()
	if err != nil {
		return report, fmt.Errorf("acquire output lock: %w", err)
	}
	if !locked {
		return report, fmt.Errorf("%w: %s", ErrBusy, dest)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("release output lock failed", logging.Error(err))
			return
		}
		_ = os.Remove(lock.Path())
	}()

	logger.Info("copying log files", logging.String("output", dest))
	if err := g.copyLogs(run, dest, &report, logger); err != nil {
		return report, err
	}

	logger.Info("merging output camera kml files")
	if err := g.mergeCameras(ctx, run, &report, logger); err != nil {
		return report, err
	}

	logger.Info("consolidating batch information")
	batches, err := run.Batches(func(name string) {
		logger.Debug("skipping unparseable batch folder", logging.String("folder", name))
	})
	if err != nil {
		return report, err
	}
	if err := g.writeBatches(ctx, batches, dest, &report, logger); err != nil {
		return report, err
	}

	report.Finished = g.now()
	logger.Info("flight summary complete",
		logging.String("output", dest),
		logging.Int("batches", len(report.Rows)),
		logging.Int("thumbnails", len(report.Thumbnails)),
		logging.Duration("elapsed", report.Finished.Sub(report.Started)),
	)
	return report, nil
}

func (g *Generator) copyLogs(run *runlayout.Run, dest string, report *Report, logger *slog.Logger) error {
	errorLog := run.ErrorLogPath()
	exists, err := fileutil.Exists(errorLog)
	if err != nil {
		return fmt.Errorf("check %s: %w", errorLog, err)
	}
	if exists {
		copied, err := copyArtifact(errorLog, dest, logger)
		if err != nil {
			return err
		}
		report.ErrorLog = copied
	} else {
		logger.Debug("no packed error log", logging.Path(errorLog))
	}

	camerasIn := run.CamerasInPath()
	exists, err = fileutil.Exists(camerasIn)
	if err != nil {
		return fmt.Errorf("check %s: %w", camerasIn, err)
	}
	if !exists {
		return services.MissingArtifact("summary", "cameras_in", camerasIn)
	}
	_, err = copyArtifact(camerasIn, dest, logger)
	return err
}

// copyArtifact copies src into dest. A source that already lives in dest is
// left as is.
func copyArtifact(src, dest string, logger *slog.Logger) (string, error) {
	copied, err := fileutil.CopyInto(src, dest)
	if errors.Is(err, fileutil.ErrSameFile) {
		logger.Debug("artifact already in output folder", logging.Path(src))
		return filepath.Join(dest, filepath.Base(src)), nil
	}
	if err != nil {
		return "", fmt.Errorf("copy %s: %w", src, err)
	}
	return copied, nil
}

func (g *Generator) mergeCameras(ctx context.Context, run *runlayout.Run, report *Report, logger *slog.Logger) error {
	inputs, err := g.finder.Find(ctx, run.ProcessFolder(), runlayout.CamerasOutName)
	if err != nil {
		return err
	}
	report.MergedKML = inputs
	logger.Debug("merging camera kml", logging.Int("inputs", len(inputs)), logging.Path(report.CamerasOut))
	return g.merger.Merge(ctx, report.CamerasOut, inputs)
}

// gathered is the read-only outcome for one batch.
type gathered struct {
	row          Row
	hasHillshade bool
	err          error
}

func (g *Generator) writeBatches(ctx context.Context, batches []runlayout.Batch, dest string, report *Report, logger *slog.Logger) error {
	file, err := os.OpenFile(report.CSVPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", report.CSVPath, err)
	}
	defer file.Close()
	w := bufio.NewWriter(file)
	if _, err := fmt.Fprintln(w, CSVHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	results := g.gatherAll(ctx, batches)

	var failure error
	for i, batch := range batches {
		res := results[i]
		if res.err != nil {
			failure = fmt.Errorf("batch %s: %w", batch.Frames, res.err)
			break
		}
		if _, err := fmt.Fprintln(w, res.row.CSV()); err != nil {
			failure = fmt.Errorf("write row %s: %w", batch.Frames, err)
			break
		}
		report.Rows = append(report.Rows, res.row)

		if !res.hasHillshade {
			continue
		}
		link := filepath.Join(dest, batch.ThumbnailName())
		if err := fileutil.ReplaceSymlink(batch.Paths.Hillshade, link); err != nil {
			failure = fmt.Errorf("link thumbnail for %s: %w", batch.Frames, err)
			break
		}
		report.Thumbnails = append(report.Thumbnails, link)
	}

	if err := w.Flush(); err != nil && failure == nil {
		failure = fmt.Errorf("flush %s: %w", report.CSVPath, err)
	}
	if err := file.Close(); err != nil && failure == nil {
		failure = fmt.Errorf("close %s: %w", report.CSVPath, err)
	}
	if failure != nil {
		logging.ErrorWithContext(logger, "batch summary aborted", services.Classify(failure),
			logging.Error(failure),
			logging.Int("rows_written", len(report.Rows)),
			logging.String(logging.FieldErrorHint, "inspect the named batch folder"),
		)
	}
	return failure
}

// gatherAll runs gather for every batch on g.workers goroutines. Batches are
// handed out in list order, and batches after the lowest failed index are not
// started, so a single worker never touches a batch past the first failure.
func (g *Generator) gatherAll(ctx context.Context, batches []runlayout.Batch) []gathered {
	results := make([]gathered, len(batches))
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		firstFail = len(batches)
	)
	indices := make(chan int)

	for w := 0; w < min(g.workers, len(batches)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indices {
				mu.Lock()
				skip := idx > firstFail
				mu.Unlock()
				if skip {
					results[idx] = gathered{err: errors.New("not gathered after earlier failure")}
					continue
				}

				res := g.gather(ctx, batches[idx])
				results[idx] = res
				if res.err != nil {
					mu.Lock()
					if idx < firstFail {
						firstFail = idx
					}
					mu.Unlock()
				}
			}
		}()
	}
	for i := range batches {
		indices <- i
	}
	close(indices)
	wg.Wait()
	return results
}

func (g *Generator) gather(ctx context.Context, batch runlayout.Batch) gathered {
	ctx = services.WithFrames(ctx, batch.Frames.String())
	logger := logging.WithContext(ctx, g.logger)
	if err := ctx.Err(); err != nil {
		return gathered{err: err}
	}

	paths := batch.Paths
	exists, err := fileutil.Exists(paths.DEM)
	if err != nil {
		return gathered{err: fmt.Errorf("check %s: %w", paths.DEM, err)}
	}
	if !exists {
		return gathered{err: services.MissingArtifact("summary", "dem", paths.DEM)}
	}

	means := make([]float64, 4)
	for i, path := range []string{paths.LidarDiff, paths.InterDiff, paths.FireDiff, paths.FireLidarDiff} {
		result, err := geodiff.Read(path)
		if err != nil {
			return gathered{err: err}
		}
		means[i] = result.Mean
	}

	info, err := g.inspector.GeoInfo(ctx, paths.DEM)
	if err != nil {
		return gathered{err: err}
	}
	stats, err := g.inspector.Stats(ctx, paths.DEM)
	if err != nil {
		return gathered{err: err}
	}

	source := projection.SourceFrame(info.ProjString)
	center, err := g.converter.Convert(ctx, info.Center, source, projection.WGS84)
	if err != nil {
		return gathered{err: err}
	}

	hasHillshade, err := fileutil.Exists(paths.Hillshade)
	if err != nil {
		return gathered{err: fmt.Errorf("check %s: %w", paths.Hillshade, err)}
	}

	logger.Debug("batch gathered",
		logging.String("source_frame", source),
		logging.Float64("mean_alt", stats.Mean),
		logging.Bool("hillshade", hasHillshade),
	)
	return gathered{
		row: Row{
			Frames:        batch.Frames,
			Center:        center,
			MeanAlt:       stats.Mean,
			LidarDiff:     means[0],
			InterDiff:     means[1],
			FireDiff:      means[2],
			FireLidarDiff: means[3],
		},
		hasHillshade: hasHillshade,
	}
}
