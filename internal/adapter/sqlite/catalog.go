package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/devdeck/devdeck/internal/domain/project"
	"github.com/devdeck/devdeck/internal/port/database"
)

// Catalog implements database.CatalogStore on the embedded SQLite file.
type Catalog struct {
	db *sql.DB
}

// NewCatalog opens the catalog at path and applies pending migrations.
func NewCatalog(ctx context.Context, path string) (*Catalog, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Catalog{db: db}, nil
}

// UpsertProjects records the given projects, keeping first_seen from the
// earliest scan that found each path.
func (c *Catalog) UpsertProjects(ctx context.Context, projects []*project.Project) error {
	if len(projects) == 0 {
		return nil
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, p := range projects {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO projects (path, name, description, compose, script_count, first_seen, last_seen)
			 VALUES (?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT (path) DO UPDATE SET
			   name = excluded.name,
			   description = excluded.description,
			   compose = excluded.compose,
			   script_count = excluded.script_count,
			   last_seen = excluded.last_seen`,
			p.Path, p.Name, p.Description, p.Compose, len(p.Scripts), now, now)
		if err != nil {
			return fmt.Errorf("upsert project %s: %w", p.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert: %w", err)
	}
	return nil
}

// PruneExcept deletes every row whose path is not in keep.
func (c *Catalog) PruneExcept(ctx context.Context, keep []string) error {
	if len(keep) == 0 {
		if _, err := c.db.ExecContext(ctx, `DELETE FROM projects`); err != nil {
			return fmt.Errorf("prune catalog: %w", err)
		}
		return nil
	}

	placeholders := strings.Repeat("?, ", len(keep)-1) + "?"
	args := make([]any, len(keep))
	for i, p := range keep {
		args[i] = p
	}

	_, err := c.db.ExecContext(ctx,
		`DELETE FROM projects WHERE path NOT IN (`+placeholders+`)`, args...)
	if err != nil {
		return fmt.Errorf("prune catalog: %w", err)
	}
	return nil
}

// ListProjects returns all recorded rows ordered by name.
func (c *Catalog) ListProjects(ctx context.Context) ([]database.CatalogRow, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT path, name, description, compose, script_count, first_seen, last_seen
		 FROM projects ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	defer rows.Close()

	var result []database.CatalogRow
	for rows.Next() {
		var row database.CatalogRow
		if err := rows.Scan(&row.Path, &row.Name, &row.Description, &row.Compose,
			&row.ScriptCount, &row.FirstSeen, &row.LastSeen); err != nil {
			return nil, fmt.Errorf("scan catalog row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// Close releases the underlying connection.
func (c *Catalog) Close() error {
	return c.db.Close()
}
