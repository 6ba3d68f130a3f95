// Package database defines the catalog store port (interface).
package database

import (
	"context"

	"github.com/devdeck/devdeck/internal/domain/project"
)

// CatalogRow is one persisted project record.
type CatalogRow struct {
	Path        string `json:"path"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Compose     bool   `json:"compose"`
	ScriptCount int    `json:"script_count"`
	FirstSeen   string `json:"first_seen"`
	LastSeen    string `json:"last_seen"`
}

// CatalogStore mirrors scan results into a durable store so the deck can
// report project history across restarts. Every method must be safe to call
// after a failed one; a catalog failure never aborts a scan.
type CatalogStore interface {
	// UpsertProjects records the given projects, keyed by path.
	UpsertProjects(ctx context.Context, projects []*project.Project) error

	// PruneExcept deletes every row whose path is not in keep.
	PruneExcept(ctx context.Context, keep []string) error

	// ListProjects returns all recorded rows ordered by name.
	ListProjects(ctx context.Context) ([]CatalogRow, error)

	// Close releases the underlying connection.
	Close() error
}
