// Package broadcast defines the port for pushing events to live dashboards.
package broadcast

import "context"

// Broadcaster fans one event out to every subscribed dashboard client.
// Implementations must not block the caller; slow consumers are theirs
// to shed.
type Broadcaster interface {
	BroadcastEvent(ctx context.Context, eventType string, payload any)
}
