// Package gitcli implements the gitprovider.Provider interface by shelling
// out to the git binary.
package gitcli

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/devdeck/devdeck/internal/domain/vcs"
	"github.com/devdeck/devdeck/internal/git"
	"github.com/devdeck/devdeck/internal/port/command"
	"github.com/devdeck/devdeck/internal/port/gitprovider"
)

const providerName = "cli"

// Branch answers for repositories git refuses to describe.
const (
	branchUnknown = "unknown"
	branchError   = "error"
)

const defaultRecentCommits = 5

// Provider runs git through a command.Runner, bounded by a shared
// concurrency pool.
type Provider struct {
	runner         command.Runner
	pool           *git.Pool
	binary         string
	timeout        time.Duration
	defaultCommits int
}

// NewProvider creates a Provider from the registry deps. Zero values fall
// back to the git binary on PATH, a 30 second timeout and five commits.
func NewProvider(deps gitprovider.Deps) *Provider {
	p := &Provider{
		runner:         deps.Runner,
		pool:           deps.Pool,
		binary:         deps.Binary,
		timeout:        deps.Timeout,
		defaultCommits: deps.DefaultCommits,
	}
	if p.binary == "" {
		p.binary = "git"
	}
	if p.timeout <= 0 {
		p.timeout = 30 * time.Second
	}
	if p.defaultCommits <= 0 {
		p.defaultCommits = defaultRecentCommits
	}
	return p
}

// Name returns "cli".
func (p *Provider) Name() string { return providerName }

// IsRepository reports whether path is inside a git work tree. A
// non-existent path is answered without spawning git.
func (p *Provider) IsRepository(ctx context.Context, path string) bool {
	if _, err := os.Stat(path); err != nil {
		return false
	}
	res := p.run(ctx, path, "rev-parse", "--is-inside-work-tree")
	return res.Succeeded() && strings.TrimSpace(res.Stdout) == "true"
}

// CurrentBranch returns the checked out branch. A git refusal (not a
// repository, detached state on old versions) yields "unknown"; not being
// able to run git at all yields "error".
func (p *Provider) CurrentBranch(ctx context.Context, path string) string {
	res := p.run(ctx, path, "branch", "--show-current")
	switch {
	case res.Err != nil || res.TimedOut:
		return branchError
	case res.ExitCode != 0:
		return branchUnknown
	}
	return strings.TrimSpace(res.Stdout)
}

// Status returns the parsed working tree state. Non-existent paths and
// failed commands yield an empty status.
func (p *Provider) Status(ctx context.Context, path string) vcs.Status {
	empty := vcs.Status{Staged: []string{}, Modified: []string{}, Untracked: []string{}}
	if _, err := os.Stat(path); err != nil {
		return empty
	}
	res := p.run(ctx, path, "status", "--porcelain")
	if !res.Succeeded() {
		return empty
	}
	st := vcs.ParseStatus(res.Stdout)
	st.Branch = p.CurrentBranch(ctx, path)
	return st
}

// Branches lists local and remote branches. The remote listing is best
// effort: offline is a normal workstation state, so its failure is
// swallowed. A local listing failure fails the call.
func (p *Provider) Branches(ctx context.Context, path string) (vcs.Branches, vcs.OpResult) {
	local := p.run(ctx, path, "branch", "--list")
	if !local.Succeeded() {
		return vcs.Branches{Local: []string{}, Remote: []string{}}, failure(local)
	}
	current, locals := vcs.ParseLocalBranches(local.Stdout)
	branches := vcs.Branches{Current: current, Local: locals, Remote: []string{}}

	remote := p.run(ctx, path, "branch", "-r")
	if remote.Succeeded() {
		branches.Remote = vcs.ParseRemoteBranches(remote.Stdout)
	}
	return branches, vcs.OpResult{OK: true}
}

// RecentCommits returns the latest count commits as "hash relative-date:
// subject" lines. count <= 0 uses the configured default.
func (p *Provider) RecentCommits(ctx context.Context, path string, count int) ([]string, vcs.OpResult) {
	if count <= 0 {
		count = p.defaultCommits
	}
	res := p.run(ctx, path, "log", "-"+strconv.Itoa(count), "--pretty=format:%h %cr: %s")
	if !res.Succeeded() {
		return nil, failure(res)
	}
	return vcs.ParseCommitLines(res.Stdout), vcs.OpResult{OK: true}
}

// StageFile stages a single file.
func (p *Provider) StageFile(ctx context.Context, path, file string) bool {
	return p.run(ctx, path, "add", file).Succeeded()
}

// UnstageFile removes a single file from the index.
func (p *Provider) UnstageFile(ctx context.Context, path, file string) bool {
	return p.run(ctx, path, "reset", "HEAD", file).Succeeded()
}

// StageAll stages every pending change, deletions included.
func (p *Provider) StageAll(ctx context.Context, path string) bool {
	return p.run(ctx, path, "add", "-A").Succeeded()
}

// UnstageAll resets the whole index.
func (p *Provider) UnstageAll(ctx context.Context, path string) bool {
	return p.run(ctx, path, "reset", "HEAD").Succeeded()
}

// Commit records the staged changes. With push set, a successful commit is
// followed by a push; the overall result is OK only when both succeed, and
// the outputs are joined with a newline. A failed push leaves the commit in
// place and reports failure, so the caller sees the local/remote split.
func (p *Provider) Commit(ctx context.Context, path, message string, push bool) vcs.OpResult {
	commit := p.run(ctx, path, "commit", "-m", message)
	if !commit.Succeeded() {
		return opCombined(commit)
	}
	if !push {
		return vcs.OpResult{OK: true, Output: commit.Stdout}
	}
	pushed := opCombined(p.run(ctx, path, "push"))
	return vcs.OpResult{
		OK:     pushed.OK,
		Output: commit.Stdout + "\n" + pushed.Output,
	}
}

// Push pushes the current branch.
func (p *Provider) Push(ctx context.Context, path string) vcs.OpResult {
	return opCombined(p.run(ctx, path, "push"))
}

// Pull fetches and merges updates.
func (p *Provider) Pull(ctx context.Context, path string) vcs.OpResult {
	return opCombined(p.run(ctx, path, "pull"))
}

// Stash saves the working tree.
func (p *Provider) Stash(ctx context.Context, path string) vcs.OpResult {
	return opStdout(p.run(ctx, path, "stash"))
}

// PopStash restores the most recent stash.
func (p *Provider) PopStash(ctx context.Context, path string) vcs.OpResult {
	return opCombined(p.run(ctx, path, "stash", "pop"))
}

// CheckoutBranch switches to an existing branch. On failure the cached
// state of the caller is untouched; the output carries git's stderr.
func (p *Provider) CheckoutBranch(ctx context.Context, path, name string) vcs.OpResult {
	res := p.run(ctx, path, "checkout", name)
	if !res.Succeeded() {
		return failure(res)
	}
	return vcs.OpResult{OK: true, Output: res.Stdout}
}

// CreateBranch makes a new branch, optionally checking it out in the same
// step.
func (p *Provider) CreateBranch(ctx context.Context, path, name string, checkout bool) vcs.OpResult {
	args := []string{"branch", name}
	if checkout {
		args = []string{"checkout", "-b", name}
	}
	res := p.run(ctx, path, args...)
	if !res.Succeeded() {
		return failure(res)
	}
	return vcs.OpResult{OK: true, Output: res.Stdout}
}

// run executes one git command inside the shared pool. A context cancelled
// while waiting for a slot is reported as a spawn failure.
func (p *Provider) run(ctx context.Context, dir string, args ...string) command.Result {
	var res command.Result
	err := p.pool.Run(ctx, func() error {
		res = p.runner.Run(ctx, command.Spec{
			Name:    p.binary,
			Args:    args,
			Dir:     dir,
			Timeout: p.timeout,
		})
		return nil
	})
	if err != nil {
		return command.Result{ExitCode: -1, Err: err}
	}
	return res
}

// failure converts a failed command into an operation result carrying the
// most useful text: stderr when the command ran, the error otherwise.
func failure(res command.Result) vcs.OpResult {
	return vcs.OpResult{OK: false, Output: res.Message()}
}

// opStdout reports the command's own stdout, the shape stash-style
// operations surface.
func opStdout(res command.Result) vcs.OpResult {
	if res.Err != nil || res.TimedOut {
		return failure(res)
	}
	return vcs.OpResult{OK: res.Succeeded(), Output: res.Stdout}
}

// opCombined reports stdout and stderr together; git writes progress for
// push and pull to stderr even on success.
func opCombined(res command.Result) vcs.OpResult {
	if res.Err != nil || res.TimedOut {
		return failure(res)
	}
	return vcs.OpResult{OK: res.Succeeded(), Output: res.Combined()}
}
