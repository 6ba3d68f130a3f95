//go:build integration

package integration_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/devdeck/devdeck/internal/adapter/sqlite"
)

// The full up, down, up cycle on a throwaway database proves every Down
// section actually reverses its Up. The shared catalog is untouched.
func TestMigrationCycle(t *testing.T) {
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	const latest = 1

	version := func(want int64, stage string) {
		t.Helper()
		v, err := sqlite.MigrationVersion(ctx, db)
		if err != nil {
			t.Fatalf("version %s: %v", stage, err)
		}
		if v != want {
			t.Fatalf("version %s = %d, want %d", stage, v, want)
		}
	}

	if err := sqlite.RunMigrations(ctx, db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	version(latest, "after up")

	// The schema exists now; leave a row behind to prove the rollback
	// really drops it.
	_, err = db.ExecContext(ctx,
		`INSERT INTO projects (path, name, first_seen, last_seen) VALUES (?, ?, ?, ?)`,
		"/tmp/alpha", "alpha", "2026-01-01T00:00:00Z", "2026-01-01T00:00:00Z")
	if err != nil {
		t.Fatalf("insert into migrated schema: %v", err)
	}

	if err := sqlite.RollbackMigrations(ctx, db, latest); err != nil {
		t.Fatalf("migrate down: %v", err)
	}
	version(0, "after down")

	if _, err := db.QueryContext(ctx, `SELECT path FROM projects`); err == nil {
		t.Fatal("projects table survived a full rollback")
	}

	if err := sqlite.RunMigrations(ctx, db); err != nil {
		t.Fatalf("migrate up again: %v", err)
	}
	version(latest, "after re-up")

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&count); err != nil {
		t.Fatalf("count after re-up: %v", err)
	}
	if count != 0 {
		t.Fatalf("re-created schema carries %d stale rows", count)
	}
}
