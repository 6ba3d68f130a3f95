package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/devdeck/devdeck/internal/adapter/ws"
	"github.com/devdeck/devdeck/internal/domain"
	"github.com/devdeck/devdeck/internal/domain/project"
	"github.com/devdeck/devdeck/internal/domain/vcs"
	"github.com/devdeck/devdeck/internal/port/broadcast"
	"github.com/devdeck/devdeck/internal/port/gitprovider"
)

// GitInfo is the API view of one project's repository state.
type GitInfo struct {
	Repository bool        `json:"repository"`
	State      string      `json:"state"`
	Branch     string      `json:"branch"`
	Changes    int         `json:"changes"`
	Status     *vcs.Status `json:"status,omitempty"`
}

// GitService runs git operations against registry projects. Each project's
// cached GitState is guarded by a per-path mutex; operations on different
// projects proceed in parallel, bounded only by the provider's process pool.
type GitService struct {
	registry *RegistryService
	provider gitprovider.Provider
	hub      broadcast.Broadcaster // optional

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewGitService creates a GitService. hub may be nil.
func NewGitService(registry *RegistryService, provider gitprovider.Provider, hub broadcast.Broadcaster) *GitService {
	return &GitService{
		registry: registry,
		provider: provider,
		hub:      hub,
		locks:    make(map[string]*sync.Mutex),
	}
}

// Info returns the project's git state, confirming the repository on first
// call. Already confirmed projects are not re-checked.
func (s *GitService) Info(ctx context.Context, name string) (GitInfo, error) {
	p, err := s.registry.Get(ctx, name)
	if err != nil {
		return GitInfo{}, err
	}

	unlock := s.lock(p.Path)
	defer unlock()

	p.Git.LoadGitInfo(ctx, s.provider)
	return snapshotGitInfo(p), nil
}

// Refresh re-queries branch and status and broadcasts the new state.
func (s *GitService) Refresh(ctx context.Context, name string) (GitInfo, error) {
	p, err := s.registry.Get(ctx, name)
	if err != nil {
		return GitInfo{}, err
	}

	unlock := s.lock(p.Path)
	defer unlock()

	p.Git.Refresh(ctx, s.provider)
	info := snapshotGitInfo(p)
	s.broadcastRefresh(ctx, p, info)
	return info, nil
}

// Summary returns the cached git state without touching git. List views use
// it so reads take the same per-project lock as mutations.
func (s *GitService) Summary(p *project.Project) GitInfo {
	unlock := s.lock(p.Path)
	defer unlock()

	info := snapshotGitInfo(p)
	info.Status = nil
	return info
}

// Branches lists local and remote branches.
func (s *GitService) Branches(ctx context.Context, name string) (vcs.Branches, vcs.OpResult, error) {
	p, err := s.registry.Get(ctx, name)
	if err != nil {
		return vcs.Branches{}, vcs.OpResult{}, err
	}
	branches, res := s.provider.Branches(ctx, p.Path)
	return branches, res, nil
}

// Commits returns the latest count commit lines. count <= 0 uses the
// provider default.
func (s *GitService) Commits(ctx context.Context, name string, count int) ([]string, vcs.OpResult, error) {
	p, err := s.registry.Get(ctx, name)
	if err != nil {
		return nil, vcs.OpResult{}, err
	}
	commits, res := s.provider.RecentCommits(ctx, p.Path, count)
	return commits, res, nil
}

// Stage stages one file, or everything when file is empty.
func (s *GitService) Stage(ctx context.Context, name, file string) (vcs.OpResult, error) {
	return s.mutate(ctx, name, func(ctx context.Context, path string) vcs.OpResult {
		var ok bool
		if file == "" {
			ok = s.provider.StageAll(ctx, path)
		} else {
			ok = s.provider.StageFile(ctx, path, file)
		}
		return vcs.OpResult{OK: ok}
	})
}

// Unstage removes one file from the index, or resets it when file is empty.
func (s *GitService) Unstage(ctx context.Context, name, file string) (vcs.OpResult, error) {
	return s.mutate(ctx, name, func(ctx context.Context, path string) vcs.OpResult {
		var ok bool
		if file == "" {
			ok = s.provider.UnstageAll(ctx, path)
		} else {
			ok = s.provider.UnstageFile(ctx, path, file)
		}
		return vcs.OpResult{OK: ok}
	})
}

// Commit records the staged changes, optionally pushing afterwards. An empty
// message is rejected before any process is spawned.
func (s *GitService) Commit(ctx context.Context, name, message string, push bool) (vcs.OpResult, error) {
	if message == "" {
		return vcs.OpResult{}, fmt.Errorf("commit message is required: %w", domain.ErrValidation)
	}
	return s.mutate(ctx, name, func(ctx context.Context, path string) vcs.OpResult {
		return s.provider.Commit(ctx, path, message, push)
	})
}

// Push sends local commits to the remote.
func (s *GitService) Push(ctx context.Context, name string) (vcs.OpResult, error) {
	return s.mutate(ctx, name, s.provider.Push)
}

// Pull fetches and merges from the remote.
func (s *GitService) Pull(ctx context.Context, name string) (vcs.OpResult, error) {
	return s.mutate(ctx, name, s.provider.Pull)
}

// Stash saves the working tree; PopStash restores the latest stash.
func (s *GitService) Stash(ctx context.Context, name string) (vcs.OpResult, error) {
	return s.mutate(ctx, name, s.provider.Stash)
}

// PopStash restores the most recently stashed changes.
func (s *GitService) PopStash(ctx context.Context, name string) (vcs.OpResult, error) {
	return s.mutate(ctx, name, s.provider.PopStash)
}

// Checkout switches to an existing branch.
func (s *GitService) Checkout(ctx context.Context, name, branch string) (vcs.OpResult, error) {
	if branch == "" {
		return vcs.OpResult{}, fmt.Errorf("branch is required: %w", domain.ErrValidation)
	}
	return s.mutate(ctx, name, func(ctx context.Context, path string) vcs.OpResult {
		return s.provider.CheckoutBranch(ctx, path, branch)
	})
}

// CreateBranch makes a new branch, optionally checking it out.
func (s *GitService) CreateBranch(ctx context.Context, name, branch string, checkout bool) (vcs.OpResult, error) {
	if branch == "" {
		return vcs.OpResult{}, fmt.Errorf("branch name is required: %w", domain.ErrValidation)
	}
	return s.mutate(ctx, name, func(ctx context.Context, path string) vcs.OpResult {
		return s.provider.CreateBranch(ctx, path, branch, checkout)
	})
}

// mutate resolves the project, runs op under the project lock, and refreshes
// the cached state after a successful operation. A failed operation leaves
// the cache untouched: the next explicit refresh reports the truth.
func (s *GitService) mutate(ctx context.Context, name string, op func(context.Context, string) vcs.OpResult) (vcs.OpResult, error) {
	p, err := s.registry.Get(ctx, name)
	if err != nil {
		return vcs.OpResult{}, err
	}

	unlock := s.lock(p.Path)
	defer unlock()

	res := op(ctx, p.Path)
	if res.OK {
		p.Git.Refresh(ctx, s.provider)
		s.broadcastRefresh(ctx, p, snapshotGitInfo(p))
	}
	return res, nil
}

func (s *GitService) broadcastRefresh(ctx context.Context, p *project.Project, info GitInfo) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastEvent(ctx, ws.EventGitRefreshed, ws.GitRefreshedEvent{
		Project: p.Name,
		Branch:  info.Branch,
		Changes: info.Changes,
	})
}

// lock acquires the project's mutex and returns its release function.
func (s *GitService) lock(path string) func() {
	s.mu.Lock()
	m, ok := s.locks[path]
	if !ok {
		m = &sync.Mutex{}
		s.locks[path] = m
	}
	s.mu.Unlock()

	m.Lock()
	return m.Unlock
}

func snapshotGitInfo(p *project.Project) GitInfo {
	g := p.Git
	return GitInfo{
		Repository: g.IsRepository(),
		State:      string(g.State()),
		Branch:     g.Branch(),
		Changes:    g.ModifiedFileCount(),
		Status:     g.Status(),
	}
}
