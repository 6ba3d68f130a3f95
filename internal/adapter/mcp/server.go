// Package mcp exposes DevDeck to coding agents over the Model Context
// Protocol: a stdio server with tools and resources backed by the same
// services the HTTP API uses.
package mcp

import (
	"context"
	"log/slog"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/devdeck/devdeck/internal/domain/docker"
	"github.com/devdeck/devdeck/internal/domain/project"
	"github.com/devdeck/devdeck/internal/domain/vcs"
	"github.com/devdeck/devdeck/internal/service"
)

// ProjectLister is the slice of the registry the tools need.
type ProjectLister interface {
	List(ctx context.Context) []*project.Project
}

// GitReader runs git reads and commits against registry projects.
type GitReader interface {
	Info(ctx context.Context, name string) (service.GitInfo, error)
	Commits(ctx context.Context, name string, count int) ([]string, vcs.OpResult, error)
	Commit(ctx context.Context, name, message string, push bool) (vcs.OpResult, error)
}

// DockerLister lists containers from the local engine.
type DockerLister interface {
	Containers(ctx context.Context) ([]docker.Container, bool)
}

// ServerDeps carries the services the tools call. A nil dependency degrades
// the matching tools to a "not configured" error result instead of panicking.
type ServerDeps struct {
	Projects ProjectLister
	Git      GitReader
	Docker   DockerLister
}

// ServerConfig holds the identity the server reports during initialize.
type ServerConfig struct {
	Name    string
	Version string
}

// Server exposes DevDeck tools and resources over MCP stdio.
type Server struct {
	cfg       ServerConfig
	deps      ServerDeps
	mcpServer *mcpserver.MCPServer
}

// NewServer builds the server and registers all tools and resources.
func NewServer(cfg ServerConfig, deps ServerDeps) *Server {
	s := &Server{cfg: cfg, deps: deps}
	s.mcpServer = mcpserver.NewMCPServer(cfg.Name, cfg.Version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, true),
		mcpserver.WithLogging(),
	)
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcpServer
}

// ServeStdio serves requests over stdin/stdout and blocks until the client
// closes the stream or the process is interrupted.
func (s *Server) ServeStdio() error {
	slog.Info("mcp server listening on stdio", "name", s.cfg.Name, "version", s.cfg.Version)
	return mcpserver.ServeStdio(s.mcpServer)
}

// toolResultJSON wraps a marshaled JSON payload as a text result. MCP has no
// native JSON content type; clients receive the payload as a text block.
func toolResultJSON(data string) *mcplib.CallToolResult {
	return mcplib.NewToolResultText(data)
}
