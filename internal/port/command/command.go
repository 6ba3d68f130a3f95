// Package command defines the external process execution port (interface).
package command

import (
	"context"
	"strings"
	"time"
)

// Spec describes one external process invocation. Args are passed as an
// argument vector and never shell-interpreted; callers that want a shell
// must name it explicitly.
type Spec struct {
	Name    string
	Args    []string
	Dir     string        // working directory; empty = inherited
	Timeout time.Duration // per-invocation deadline; <= 0 means no limit
}

// Result is the complete outcome of one invocation. A non-zero exit status
// is a normal, representable outcome: Err is set only when the process could
// not be run at all (missing executable, permission, bad working directory).
// TimedOut is reported distinctly from both.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	TimedOut bool
	Err      error
}

// Succeeded reports whether the process ran to completion and exited zero.
func (r Result) Succeeded() bool {
	return r.Err == nil && !r.TimedOut && r.ExitCode == 0
}

// Failed is the negation of Succeeded.
func (r Result) Failed() bool { return !r.Succeeded() }

// Message returns stdout on success, otherwise the most specific failure
// text available: stderr, the spawn error, or a timeout notice.
func (r Result) Message() string {
	if r.Succeeded() {
		return r.Stdout
	}
	if r.TimedOut {
		return "command timed out"
	}
	if s := strings.TrimSpace(r.Stderr); s != "" {
		return r.Stderr
	}
	if r.Err != nil {
		return r.Err.Error()
	}
	return r.Stdout
}

// Combined returns stdout followed by stderr, the shape read-only queries
// surface to their callers.
func (r Result) Combined() string {
	return r.Stdout + r.Stderr
}

// Outcome returns a low-cardinality label for metrics.
func (r Result) Outcome() string {
	switch {
	case r.TimedOut:
		return "timeout"
	case r.Err != nil:
		return "error"
	case r.ExitCode != 0:
		return "failed"
	default:
		return "ok"
	}
}

// Runner executes external commands, one subprocess per call.
type Runner interface {
	Run(ctx context.Context, spec Spec) Result
}
