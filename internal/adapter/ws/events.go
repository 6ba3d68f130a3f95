package ws

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
)

// Event types carried in the Message envelope's Type field.
const (
	EventProjectsScanned = "projects.scanned"
	EventGitRefreshed    = "git.refreshed"
	EventScriptFinished  = "script.finished"
	EventDockerRefreshed = "docker.refreshed"
)

// ProjectsScannedEvent is broadcast after a workspace scan completes.
type ProjectsScannedEvent struct {
	Projects int      `json:"projects"`
	Names    []string `json:"names"`
}

// GitRefreshedEvent is broadcast when a project's git state changes.
type GitRefreshedEvent struct {
	Project string `json:"project"`
	Branch  string `json:"branch"`
	Changes int    `json:"changes"`
}

// ScriptFinishedEvent is broadcast when a project script run finishes.
type ScriptFinishedEvent struct {
	RunID   string `json:"run_id"`
	Project string `json:"project"`
	Action  string `json:"action"`
	OK      bool   `json:"ok"`
}

// DockerRefreshedEvent is broadcast when the engine listing is refetched.
type DockerRefreshedEvent struct {
	Available  bool `json:"available"`
	Containers int  `json:"containers"`
}

// BroadcastEvent wraps payload in an envelope with a fresh message ID and
// fans it out.
func (h *Hub) BroadcastEvent(ctx context.Context, eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("event payload not marshalable", "type", eventType, "error", err)
		return
	}

	h.Broadcast(ctx, Message{
		Type:    eventType,
		ID:      uuid.NewString(),
		Payload: json.RawMessage(data),
	})
}
