// Package service implements business logic on top of ports.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/devdeck/devdeck/internal/adapter/otel"
	"github.com/devdeck/devdeck/internal/adapter/ws"
	"github.com/devdeck/devdeck/internal/domain"
	"github.com/devdeck/devdeck/internal/domain/project"
	"github.com/devdeck/devdeck/internal/port/broadcast"
	"github.com/devdeck/devdeck/internal/port/database"
	"github.com/devdeck/devdeck/internal/port/projectcache"
)

// RegistryService owns the in-memory project list. A scan replaces the list
// wholesale, which also resets each project's cached git state; the next git
// query re-confirms the repository from scratch.
type RegistryService struct {
	root    string
	opts    project.ScanOptions
	cache   projectcache.Store    // optional
	catalog database.CatalogStore // optional
	hub     broadcast.Broadcaster // optional
	metrics *otel.Metrics

	mu       sync.RWMutex
	projects []*project.Project
	byName   map[string]*project.Project

	scanning atomic.Bool
}

// NewRegistryService creates a registry over the given workspace root.
// cache, catalog, and hub may each be nil.
func NewRegistryService(root string, opts project.ScanOptions, cache projectcache.Store,
	catalog database.CatalogStore, hub broadcast.Broadcaster, metrics *otel.Metrics) *RegistryService {
	return &RegistryService{
		root:    root,
		opts:    opts,
		cache:   cache,
		catalog: catalog,
		hub:     hub,
		metrics: metrics,
		byName:  make(map[string]*project.Project),
	}
}

// List returns a snapshot of all known projects, ordered by name.
func (s *RegistryService) List(_ context.Context) []*project.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*project.Project, len(s.projects))
	copy(out, s.projects)
	return out
}

// Get returns the project with the given name.
func (s *RegistryService) Get(_ context.Context, name string) (*project.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("project %q: %w", name, domain.ErrNotFound)
	}
	return p, nil
}

// Restore loads the last scan's project list from the cache file without
// walking the workspace. Missing or stale cache entries are skipped.
func (s *RegistryService) Restore(ctx context.Context) int {
	if s.cache == nil {
		return 0
	}

	paths, savedAt, err := s.cache.Load(ctx)
	if err != nil {
		slog.Warn("project cache unreadable", "error", err)
		return 0
	}
	if len(paths) == 0 {
		return 0
	}

	projects := loadProjects(paths)
	s.swap(projects)

	slog.Info("projects restored from cache",
		"projects", len(projects),
		"saved_at", savedAt.Format(time.RFC3339),
	)
	return len(projects)
}

// Scan walks the workspace root, replaces the project list, persists the
// result, and broadcasts the outcome. Only one scan runs at a time; a
// concurrent call fails with domain.ErrConflict.
func (s *RegistryService) Scan(ctx context.Context) ([]*project.Project, error) {
	if !s.scanning.CompareAndSwap(false, true) {
		return nil, fmt.Errorf("scan already running: %w", domain.ErrConflict)
	}
	defer s.scanning.Store(false)

	ctx, span := otel.StartScanSpan(ctx, s.root)
	defer span.End()

	start := time.Now()

	paths, err := project.ScanRoot(s.root, s.opts)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", s.root, err)
	}

	projects := loadProjects(paths)
	s.swap(projects)
	s.metrics.RecordScan(ctx, len(projects), time.Since(start))

	s.persist(ctx, projects)

	names := make([]string, len(projects))
	for i, p := range projects {
		names[i] = p.Name
	}
	s.broadcast(ctx, ws.EventProjectsScanned, ws.ProjectsScannedEvent{
		Projects: len(projects),
		Names:    names,
	})

	slog.Info("workspace scanned",
		"root", s.root,
		"projects", len(projects),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return projects, nil
}

// persist saves the scan result to the cache file and mirrors it into the
// catalog. Neither failure aborts the scan that produced the data.
func (s *RegistryService) persist(ctx context.Context, projects []*project.Project) {
	paths := make([]string, len(projects))
	for i, p := range projects {
		paths[i] = p.Path
	}

	if s.cache != nil {
		if err := s.cache.Save(ctx, paths); err != nil {
			slog.Warn("project cache save failed", "error", err)
		}
	}

	if s.catalog != nil {
		if err := s.catalog.UpsertProjects(ctx, projects); err != nil {
			slog.Warn("catalog upsert failed", "error", err)
		} else if err := s.catalog.PruneExcept(ctx, paths); err != nil {
			slog.Warn("catalog prune failed", "error", err)
		}
	}
}

// Catalog returns the durable scan history, or ErrUnavailable when no
// catalog is configured.
func (s *RegistryService) Catalog(ctx context.Context) ([]database.CatalogRow, error) {
	if s.catalog == nil {
		return nil, fmt.Errorf("catalog: %w", domain.ErrUnavailable)
	}
	return s.catalog.ListProjects(ctx)
}

func (s *RegistryService) swap(projects []*project.Project) {
	byName := make(map[string]*project.Project, len(projects))
	for _, p := range projects {
		byName[p.Name] = p
	}

	s.mu.Lock()
	s.projects = projects
	s.byName = byName
	s.mu.Unlock()
}

func (s *RegistryService) broadcast(ctx context.Context, event string, payload any) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastEvent(ctx, event, payload)
}

// loadProjects builds Project values for each marker path, sorted by name.
// A directory that fails to load entirely is still listed under its basename
// so the deck shows it rather than silently dropping it.
func loadProjects(paths []string) []*project.Project {
	projects := make([]*project.Project, 0, len(paths))
	for _, path := range paths {
		projects = append(projects, project.Load(path))
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].Name < projects[j].Name })
	return projects
}
