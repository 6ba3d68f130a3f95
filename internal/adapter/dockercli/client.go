// Package dockercli implements the dockerprovider.Provider interface by
// shelling out to the docker binary.
package dockercli

import (
	"context"
	"time"

	"github.com/devdeck/devdeck/internal/domain/docker"
	"github.com/devdeck/devdeck/internal/port/command"
)

const providerName = "cli"

// Tab-separated format templates keep the listings machine-splittable.
const (
	psFormat    = "{{.ID}}\t{{.Image}}\t{{.Command}}\t{{.RunningFor}}\t{{.Status}}\t{{.Ports}}\t{{.Names}}"
	imageFormat = "{{.Repository}}\t{{.Tag}}\t{{.ID}}\t{{.CreatedSince}}\t{{.Size}}"
)

// Client queries the docker daemon through its CLI.
type Client struct {
	runner       command.Runner
	binary       string
	timeout      time.Duration
	probeTimeout time.Duration
}

// New creates a Client. Zero values fall back to the docker binary on PATH,
// a 30 second listing timeout and a 5 second probe timeout.
func New(runner command.Runner, binary string, timeout, probeTimeout time.Duration) *Client {
	c := &Client{
		runner:       runner,
		binary:       binary,
		timeout:      timeout,
		probeTimeout: probeTimeout,
	}
	if c.binary == "" {
		c.binary = "docker"
	}
	if c.timeout <= 0 {
		c.timeout = 30 * time.Second
	}
	if c.probeTimeout <= 0 {
		c.probeTimeout = 5 * time.Second
	}
	return c
}

// Name returns "cli".
func (c *Client) Name() string { return providerName }

// Available probes the daemon with `docker info` under the short probe
// timeout. A hung daemon must not stall the deck for the full listing
// timeout.
func (c *Client) Available(ctx context.Context) bool {
	res := c.runner.Run(ctx, command.Spec{
		Name:    c.binary,
		Args:    []string{"info"},
		Timeout: c.probeTimeout,
	})
	return res.Succeeded()
}

// Containers lists all containers, running or stopped. A failed listing is
// an empty slice with ok=false, never an error.
func (c *Client) Containers(ctx context.Context) ([]docker.Container, bool) {
	res := c.runner.Run(ctx, command.Spec{
		Name:    c.binary,
		Args:    []string{"ps", "--all", "--no-trunc", "--format", psFormat},
		Timeout: c.timeout,
	})
	if !res.Succeeded() {
		return []docker.Container{}, false
	}
	return docker.ParseContainers(res.Stdout), true
}

// Images lists local images.
func (c *Client) Images(ctx context.Context) ([]docker.Image, bool) {
	res := c.runner.Run(ctx, command.Spec{
		Name:    c.binary,
		Args:    []string{"images", "--format", imageFormat},
		Timeout: c.timeout,
	})
	if !res.Succeeded() {
		return []docker.Image{}, false
	}
	return docker.ParseImages(res.Stdout), true
}
