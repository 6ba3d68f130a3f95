// Package dockerprovider defines the container engine port (interface).
package dockerprovider

import (
	"context"

	"github.com/devdeck/devdeck/internal/domain/docker"
)

// Provider is the port interface for querying a container engine. Listing
// failures are reported through the ok flag, never as errors: an absent or
// stopped daemon is an expected workstation state.
type Provider interface {
	// Name returns the unique identifier for this provider (e.g. "cli").
	Name() string

	// Available probes the daemon with a short timeout.
	Available(ctx context.Context) bool

	// Containers lists all containers, running or not.
	Containers(ctx context.Context) ([]docker.Container, bool)

	// Images lists local images.
	Images(ctx context.Context) ([]docker.Image, bool)
}
