// Package oscmd executes external commands via os/exec, implementing the
// command.Runner port.
package oscmd

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"time"

	"github.com/devdeck/devdeck/internal/adapter/otel"
	"github.com/devdeck/devdeck/internal/logger"
	"github.com/devdeck/devdeck/internal/port/command"
)

// Runner spawns exactly one subprocess per Run call. There is no retry and
// no process reuse; the per-call timeout is the only cancellation mechanism
// beyond the caller's context.
type Runner struct {
	log     *slog.Logger
	metrics *otel.Metrics
}

// New creates a Runner. metrics may be nil.
func New(log *slog.Logger, metrics *otel.Metrics) *Runner {
	return &Runner{
		log:     log.With("component", "oscmd"),
		metrics: metrics,
	}
}

// Run executes spec and waits for the process to finish. Non-zero exit is
// reported through Result.ExitCode, a deadline hit through Result.TimedOut,
// and a process that could not be started at all through Result.Err; Run
// itself never fails.
func (r *Runner) Run(ctx context.Context, spec command.Spec) command.Result {
	if spec.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, spec.Timeout)
		defer cancel()
	}

	ctx, span := otel.StartCommandSpan(ctx, spec.Name, spec.Dir)
	defer span.End()

	cmd := exec.CommandContext(ctx, spec.Name, spec.Args...) //nolint:gosec // G204: argument vectors are constructed internally, not from user input
	if spec.Dir != "" {
		cmd.Dir = spec.Dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	res := command.Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	switch {
	case err == nil:
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		res.ExitCode = -1
		res.TimedOut = true
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else {
			res.ExitCode = -1
			res.Err = err
		}
	}

	r.metrics.RecordCommand(ctx, spec.Name, res.Outcome(), elapsed)

	log := r.log
	if id := logger.RunID(ctx); id != "" {
		log = log.With("run_id", id)
	}
	log.Debug("command finished",
		"name", spec.Name,
		"dir", spec.Dir,
		"exit", res.ExitCode,
		"outcome", res.Outcome(),
		"duration_ms", elapsed.Milliseconds())

	return res
}
