// Package gitprovider defines the git provider port (interface) and its
// factory registry.
package gitprovider

import (
	"context"

	"github.com/devdeck/devdeck/internal/domain/vcs"
)

// Provider is the port interface for querying and mutating local git
// repositories. Implementations never return Go errors for failed git
// commands: a failure is a normal vcs.OpResult or a zero-value answer, so
// a broken repository can not take the whole deck down.
type Provider interface {
	// Name returns the unique identifier for this provider (e.g. "cli").
	Name() string

	// IsRepository reports whether path is inside a git work tree. A
	// non-existent path is answered without spawning a process.
	IsRepository(ctx context.Context, path string) bool

	// CurrentBranch returns the checked out branch, "unknown" when git
	// refuses the question, or "error" when git could not be run at all.
	CurrentBranch(ctx context.Context, path string) string

	// Status returns the parsed working tree state. Failures and
	// non-existent paths yield an empty status.
	Status(ctx context.Context, path string) vcs.Status

	// Branches lists local and remote branches. A remote listing failure
	// is swallowed; a local listing failure fails the whole call.
	Branches(ctx context.Context, path string) (vcs.Branches, vcs.OpResult)

	// RecentCommits returns the latest count commits as formatted lines.
	RecentCommits(ctx context.Context, path string, count int) ([]string, vcs.OpResult)

	// StageFile stages a single file; UnstageFile removes it from the index.
	StageFile(ctx context.Context, path, file string) bool
	UnstageFile(ctx context.Context, path, file string) bool

	// StageAll stages everything; UnstageAll resets the whole index.
	StageAll(ctx context.Context, path string) bool
	UnstageAll(ctx context.Context, path string) bool

	// Commit records the staged changes. With push set, a successful commit
	// is followed by a push and both must succeed; the outputs are joined
	// with a newline. A failed commit short-circuits and the commit stays
	// local when only the push fails.
	Commit(ctx context.Context, path, message string, push bool) vcs.OpResult

	Push(ctx context.Context, path string) vcs.OpResult
	Pull(ctx context.Context, path string) vcs.OpResult

	Stash(ctx context.Context, path string) vcs.OpResult
	PopStash(ctx context.Context, path string) vcs.OpResult

	// CheckoutBranch switches branches. CreateBranch makes a new one,
	// optionally checking it out in the same step.
	CheckoutBranch(ctx context.Context, path, name string) vcs.OpResult
	CreateBranch(ctx context.Context, path, name string, checkout bool) vcs.OpResult
}
