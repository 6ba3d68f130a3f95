// Package projectcache defines the port for persisting scan results between
// runs.
package projectcache

import (
	"context"
	"time"
)

// Store saves and restores the list of discovered project paths. Load drops
// paths that no longer exist on disk, so a stale cache can only shrink the
// deck, never point it at dead directories.
type Store interface {
	// Load returns the cached project paths and when they were saved.
	Load(ctx context.Context) (paths []string, savedAt time.Time, err error)

	// Save replaces the cache with the given paths.
	Save(ctx context.Context, paths []string) error
}
