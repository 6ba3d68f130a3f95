package project

import (
	"context"

	"github.com/devdeck/devdeck/internal/domain/vcs"
)

// BranchUnknown is the branch shown before the first successful git query.
const BranchUnknown = "Unknown"

// GitInfoSource is the subset of a git provider a GitState needs to
// populate itself.
type GitInfoSource interface {
	IsRepository(ctx context.Context, path string) bool
	CurrentBranch(ctx context.Context, path string) string
	Status(ctx context.Context, path string) vcs.Status
}

// RepoState names where a directory sits in the repository lifecycle.
type RepoState string

const (
	RepoUnknown RepoState = "unknown"    // never queried
	RepoAbsent  RepoState = "absent"     // queried, not a repository
	RepoPresent RepoState = "repository" // confirmed
)

// GitState caches what is known about one project's repository. Once a
// directory is confirmed as a repository it stays confirmed for the
// lifetime of the state; a later failing check never demotes it.
type GitState struct {
	path    string
	checked bool
	repo    bool
	branch  string
	status  *vcs.Status
}

// NewGitState returns an empty state bound to the project at path.
func NewGitState(path string) *GitState {
	return &GitState{path: path, branch: BranchUnknown}
}

// Path returns the project directory the state is bound to.
func (g *GitState) Path() string { return g.path }

// IsRepository reports whether the directory is a confirmed repository.
func (g *GitState) IsRepository() bool { return g.repo }

// Branch returns the last observed branch, or BranchUnknown before the
// first query.
func (g *GitState) Branch() string { return g.branch }

// Status returns the last observed working tree status, or nil before the
// first query.
func (g *GitState) Status() *vcs.Status { return g.status }

// State returns the current lifecycle position.
func (g *GitState) State() RepoState {
	switch {
	case g.repo:
		return RepoPresent
	case g.checked:
		return RepoAbsent
	default:
		return RepoUnknown
	}
}

// LoadGitInfo confirms the repository once and populates branch and status.
// A directory already confirmed is not re-checked. Returns whether the
// directory is a repository.
func (g *GitState) LoadGitInfo(ctx context.Context, src GitInfoSource) bool {
	if !g.repo {
		g.repo = src.IsRepository(ctx, g.path)
		g.checked = true
	}
	if !g.repo {
		return false
	}
	g.populate(ctx, src)
	return true
}

// Refresh re-queries branch and status. An unconfirmed directory is
// re-checked first; a confirmed one stays confirmed even when the check
// would now fail.
func (g *GitState) Refresh(ctx context.Context, src GitInfoSource) bool {
	if !g.repo && !src.IsRepository(ctx, g.path) {
		g.checked = true
		return false
	}
	g.repo = true
	g.checked = true
	g.populate(ctx, src)
	return true
}

func (g *GitState) populate(ctx context.Context, src GitInfoSource) {
	g.branch = src.CurrentBranch(ctx, g.path)
	st := src.Status(ctx, g.path)
	g.status = &st
}

// ModifiedFileCount counts distinct pending files: staged entries, worktree
// modifications not already staged, and untracked files.
func (g *GitState) ModifiedFileCount() int {
	if g.status == nil {
		return 0
	}
	staged := make(map[string]struct{}, len(g.status.Staged))
	for _, f := range g.status.Staged {
		staged[f] = struct{}{}
	}
	count := len(g.status.Staged) + len(g.status.Untracked)
	for _, f := range g.status.Modified {
		if _, ok := staged[f]; !ok {
			count++
		}
	}
	return count
}
