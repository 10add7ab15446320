package catalog

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/paulmach/orb"

	"flightsummary/internal/runlayout"
	"flightsummary/internal/summary"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "catalog.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleReport(site string) summary.Report {
	start := time.Date(2015, 3, 25, 12, 0, 0, 0, time.UTC)
	return summary.Report{
		Site:      site,
		Date:      "20150325",
		OutputDir: "/summaries/" + site,
		Rows: []summary.Row{
			{Frames: runlayout.Frames{Start: 100, Stop: 110}, Center: orb.Point{-49.5, 69.1}, MeanAlt: 512.5, LidarDiff: 1.23, InterDiff: 0.5, FireDiff: -0.25, FireLidarDiff: 0.75},
			{Frames: runlayout.Frames{Start: 111, Stop: 120}, Center: orb.Point{-49.6, 69.2}, MeanAlt: 498.0, LidarDiff: 1.5, InterDiff: 0.4, FireDiff: -0.1, FireLidarDiff: 0.6},
		},
		Thumbnails: []string{"/summaries/dem_100_110_browse.tif"},
		Started:    start,
		Finished:   start.Add(90 * time.Second),
	}
}

func TestRecordAndReadBack(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	report := sampleReport("GR")

	id, err := store.Record(ctx, report)
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if len(id) != 36 {
		t.Fatalf("expected uuid id, got %q", id)
	}

	entry, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if entry == nil {
		t.Fatal("expected entry")
	}
	if entry.Site != "GR" || entry.Date != "20150325" || entry.BatchCount != 2 || entry.Thumbnails != 1 {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if !entry.StartedAt.Equal(report.Started) || !entry.FinishedAt.Equal(report.Finished) {
		t.Fatalf("timestamps not preserved: %+v", entry)
	}

	rows, err := store.Batches(ctx, id)
	if err != nil {
		t.Fatalf("Batches returned error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	for i := range rows {
		if rows[i] != report.Rows[i] {
			t.Fatalf("row %d mismatch: got %+v want %+v", i, rows[i], report.Rows[i])
		}
	}
}

func TestListNewestFirstWithLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Millisecond)
	}

	var ids []string
	for _, site := range []string{"AN", "GR", "GR"} {
		id, err := store.Record(ctx, sampleReport(site))
		if err != nil {
			t.Fatalf("Record returned error: %v", err)
		}
		ids = append(ids, id)
	}

	entries, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(entries) != 2 || entries[0].ID != ids[2] || entries[1].ID != ids[1] {
		t.Fatalf("unexpected order %+v", entries)
	}

	all, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(all) != 3 || all[2].Site != "AN" {
		t.Fatalf("unexpected entries %+v", all)
	}
}

func TestGetMissingReturnsNil(t *testing.T) {
	store := openTestStore(t)
	entry, err := store.Get(context.Background(), "0b9f0d2e-0000-0000-0000-000000000000")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if entry != nil {
		t.Fatalf("expected nil entry, got %+v", entry)
	}
}

func TestRemoveCascadesBatches(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	id, err := store.Record(ctx, sampleReport("GR"))
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	removed, err := store.Remove(ctx, id)
	if err != nil || !removed {
		t.Fatalf("Remove = %v, %v", removed, err)
	}
	rows, err := store.Batches(ctx, id)
	if err != nil {
		t.Fatalf("Batches returned error: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected batches removed, got %d", len(rows))
	}
	removed, err = store.Remove(ctx, id)
	if err != nil || removed {
		t.Fatalf("second Remove = %v, %v", removed, err)
	}
}

func TestForeignKeysOnEveryConnection(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	id, err := store.Record(ctx, sampleReport("GR"))
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}

	// Holding two connections forces the pool to open fresh ones.
	held := make([]*sql.Conn, 2)
	for i := range held {
		conn, err := store.db.Conn(ctx)
		if err != nil {
			t.Fatalf("Conn returned error: %v", err)
		}
		defer conn.Close()
		held[i] = conn
		var enabled int
		if err := conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&enabled); err != nil {
			t.Fatalf("query pragma: %v", err)
		}
		if enabled != 1 {
			t.Fatalf("connection %d has foreign_keys=%d", i, enabled)
		}
	}

	if removed, err := store.Remove(ctx, id); err != nil || !removed {
		t.Fatalf("Remove = %v, %v", removed, err)
	}
	var remaining int
	if err := held[0].QueryRowContext(ctx, "SELECT COUNT(*) FROM batches WHERE summary_id = ?", id).Scan(&remaining); err != nil {
		t.Fatalf("count batches: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("expected cascade to remove batches, %d left", remaining)
	}
}

func TestOpenRejectsOtherSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	store, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if _, err := store.db.Exec("UPDATE schema_version SET version = ?", schemaVersion+1); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	_ = store.Close()

	if _, err := Open(context.Background(), path); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected schema mismatch, got %v", err)
	}
}
