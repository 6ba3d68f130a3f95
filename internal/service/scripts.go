package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/devdeck/devdeck/internal/adapter/otel"
	"github.com/devdeck/devdeck/internal/adapter/ws"
	"github.com/devdeck/devdeck/internal/domain"
	"github.com/devdeck/devdeck/internal/domain/project"
	"github.com/devdeck/devdeck/internal/domain/vcs"
	"github.com/devdeck/devdeck/internal/logger"
	"github.com/devdeck/devdeck/internal/port/broadcast"
	"github.com/devdeck/devdeck/internal/port/command"
)

// ScriptRun is the result of one whitelisted script execution.
type ScriptRun struct {
	RunID  string `json:"run_id"`
	Action string `json:"action"`
	vcs.OpResult
}

// ScriptService executes commands from a project's scripts file. Only
// registered script actions run; arbitrary input never reaches the shell.
type ScriptService struct {
	registry   *RegistryService
	runner     command.Runner
	shell      string
	timeout    time.Duration
	restricted []string
	hub        broadcast.Broadcaster // optional
	metrics    *otel.Metrics
}

// NewScriptService creates a ScriptService. An empty restricted list falls
// back to the built-in defaults at validation time. hub may be nil.
func NewScriptService(registry *RegistryService, runner command.Runner, shell string,
	timeout time.Duration, restricted []string, hub broadcast.Broadcaster, metrics *otel.Metrics) *ScriptService {
	if shell == "" {
		shell = "sh"
	}
	return &ScriptService{
		registry:   registry,
		runner:     runner,
		shell:      shell,
		timeout:    timeout,
		restricted: restricted,
		hub:        hub,
		metrics:    metrics,
	}
}

// Run looks up the action in the project's scripts, validates it, and
// executes it in the project directory.
func (s *ScriptService) Run(ctx context.Context, projectName, action string) (ScriptRun, error) {
	p, err := s.registry.Get(ctx, projectName)
	if err != nil {
		return ScriptRun{}, err
	}

	cmd, ok := p.Script(action)
	if !ok {
		return ScriptRun{}, fmt.Errorf("script %q: %w", action, domain.ErrNotFound)
	}

	if err := project.ValidateScript(cmd, s.restricted); err != nil {
		return ScriptRun{}, err
	}

	ctx, span := otel.StartScriptSpan(ctx, p.Name, action)
	defer span.End()

	runID := uuid.NewString()
	ctx = logger.WithRunID(ctx, runID)
	slog.Info("script starting",
		"run_id", runID,
		"project", p.Name,
		"action", action,
	)

	res := s.runner.Run(ctx, command.Spec{
		Name:    s.shell,
		Args:    []string{"-c", cmd},
		Dir:     p.Path,
		Timeout: s.timeout,
	})

	s.metrics.RecordScriptRun(ctx, action, res.Outcome())

	run := ScriptRun{
		RunID:  runID,
		Action: action,
		OpResult: vcs.OpResult{
			OK:     res.Succeeded(),
			Output: res.Combined(),
		},
	}

	if s.hub != nil {
		s.hub.BroadcastEvent(ctx, ws.EventScriptFinished, ws.ScriptFinishedEvent{
			RunID:   runID,
			Project: p.Name,
			Action:  action,
			OK:      run.OK,
		})
	}

	slog.Info("script finished",
		"run_id", runID,
		"project", p.Name,
		"action", action,
		"outcome", res.Outcome(),
	)
	return run, nil
}
