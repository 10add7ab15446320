package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	_ "modernc.org/sqlite"

	"flightsummary/internal/summary"
)

// Entry is one recorded summary.
type Entry struct {
	ID         string
	Site       string
	Date       string
	OutputDir  string
	BatchCount int
	Thumbnails int
	StartedAt  time.Time
	FinishedAt time.Time
	CreatedAt  time.Time
}

// Store persists summaries in SQLite.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open creates or opens the catalog database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("catalog path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create catalog directory: %w", err)
	}
	// Connection pragmas go in the DSN so every pooled connection gets them;
	// foreign_keys is per connection and the batch cascade depends on it.
	db, err := sql.Open("sqlite", dataSource(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable wal: %w", err)
	}

	store := &Store{db: db, path: path, now: time.Now}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func dataSource(path string) string {
	return path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record stores report and returns the new entry ID.
func (s *Store) Record(ctx context.Context, report summary.Report) (string, error) {
	id := uuid.NewString()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin record tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO summaries (
            id, site, survey_date, output_dir, batch_count, thumbnails,
            started_at, finished_at, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		report.Site,
		report.Date,
		report.OutputDir,
		len(report.Rows),
		len(report.Thumbnails),
		formatTime(report.Started),
		formatTime(report.Finished),
		formatTime(s.now()),
	)
	if err != nil {
		return "", fmt.Errorf("insert summary: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO batches (
            summary_id, position, start_frame, stop_frame, center_lon, center_lat,
            mean_alt, lidar_diff, inter_diff, fire_diff, fire_lidar_diff
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare batch insert: %w", err)
	}
	defer stmt.Close()
	for i, row := range report.Rows {
		if _, err := stmt.ExecContext(ctx,
			id, i,
			row.Frames.Start, row.Frames.Stop,
			row.Center.Lon(), row.Center.Lat(),
			row.MeanAlt, row.LidarDiff, row.InterDiff, row.FireDiff, row.FireLidarDiff,
		); err != nil {
			return "", fmt.Errorf("insert batch %s: %w", row.Frames, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit summary: %w", err)
	}
	return id, nil
}

const entryColumns = "id, site, survey_date, output_dir, batch_count, thumbnails, started_at, finished_at, created_at"

// List returns the most recent entries first. A non-positive limit lists all.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM summaries ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Get returns the entry with the given ID, or nil when none exists.
func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM summaries WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get summary: %w", err)
	}
	return &entry, nil
}

// Batches returns the rows of one entry in CSV order.
func (s *Store) Batches(ctx context.Context, id string) ([]summary.Row, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT start_frame, stop_frame, center_lon, center_lat, mean_alt,
                lidar_diff, inter_diff, fire_diff, fire_lidar_diff
         FROM batches WHERE summary_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("query batches: %w", err)
	}
	defer rows.Close()

	var out []summary.Row
	for rows.Next() {
		var (
			row      summary.Row
			lon, lat float64
		)
		if err := rows.Scan(
			&row.Frames.Start, &row.Frames.Stop, &lon, &lat, &row.MeanAlt,
			&row.LidarDiff, &row.InterDiff, &row.FireDiff, &row.FireLidarDiff,
		); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		row.Center = orb.Point{lon, lat}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Remove deletes an entry and its rows.
func (s *Store) Remove(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM summaries WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete summary: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (Entry, error) {
	var (
		entry                      Entry
		started, finished, created string
	)
	if err := scanner.Scan(
		&entry.ID, &entry.Site, &entry.Date, &entry.OutputDir,
		&entry.BatchCount, &entry.Thumbnails,
		&started, &finished, &created,
	); err != nil {
		return Entry{}, err
	}
	entry.StartedAt = parseTime(started)
	entry.FinishedAt = parseTime(finished)
	entry.CreatedAt = parseTime(created)
	return entry, nil
}

// timeLayout has fixed-width fractions so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) time.Time {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
