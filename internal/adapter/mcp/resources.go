package mcp

import (
	"context"
	"encoding/json"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/devdeck/devdeck/internal/domain/docker"
	"github.com/devdeck/devdeck/internal/domain/project"
)

// Resources are read-only snapshots; anything that mutates state is a tool.
func (s *Server) registerResources() {
	resources := []struct {
		uri, name, desc string
		handler         func(context.Context, mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error)
	}{
		{
			"devdeck://projects", "Project List",
			"All projects registered with DevDeck",
			s.handleProjectsResource,
		},
		{
			"devdeck://docker/containers", "Docker Containers",
			"Containers known to the local Docker engine",
			s.handleContainersResource,
		},
	}

	for _, r := range resources {
		s.mcpServer.AddResource(
			mcplib.NewResource(r.uri, r.name,
				mcplib.WithResourceDescription(r.desc),
				mcplib.WithMIMEType("application/json"),
			),
			r.handler,
		)
	}
}

func (s *Server) handleProjectsResource(ctx context.Context, req mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	if s.deps.Projects == nil {
		return degraded(req.Params.URI, "project registry not configured"), nil
	}
	projects := s.deps.Projects.List(ctx)
	if projects == nil {
		projects = []*project.Project{}
	}
	return asJSON(req.Params.URI, projects)
}

func (s *Server) handleContainersResource(ctx context.Context, req mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	if s.deps.Docker == nil {
		return degraded(req.Params.URI, "docker service not configured"), nil
	}
	containers, ok := s.deps.Docker.Containers(ctx)
	if !ok {
		return degraded(req.Params.URI, "docker engine unavailable"), nil
	}
	if containers == nil {
		containers = []docker.Container{}
	}
	return asJSON(req.Params.URI, containers)
}

// asJSON wraps v as a single JSON text block under uri.
func asJSON(uri string, v any) ([]mcplib.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// degraded reports an unavailable backend as resource content rather than a
// protocol error, so clients can still read the URI.
func degraded(uri, msg string) []mcplib.ResourceContents {
	contents, _ := asJSON(uri, map[string]string{"error": msg})
	return contents
}
