package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/devdeck/devdeck/internal/domain/docker"
	"github.com/devdeck/devdeck/internal/domain/project"
)

// registerTools declares every mutating or on-demand operation as an MCP tool.
func (s *Server) registerTools() {
	s.mcpServer.AddTools(
		s.listProjectsTool(),
		s.gitStatusTool(),
		s.gitCommitsTool(),
		s.gitCommitTool(),
		s.dockerContainersTool(),
	)
}

func (s *Server) listProjectsTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("list_projects",
		mcplib.WithDescription("List all projects registered with DevDeck"),
	)
	return mcpserver.ServerTool{
		Tool:    tool,
		Handler: s.handleListProjects,
	}
}

func (s *Server) gitStatusTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("git_status",
		mcplib.WithDescription("Get the git state of a project: branch, change count and per-file status"),
		mcplib.WithString("project",
			mcplib.Required(),
			mcplib.Description("The project name"),
		),
	)
	return mcpserver.ServerTool{
		Tool:    tool,
		Handler: s.handleGitStatus,
	}
}

func (s *Server) gitCommitsTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("git_commits",
		mcplib.WithDescription("List recent commits of a project"),
		mcplib.WithString("project",
			mcplib.Required(),
			mcplib.Description("The project name"),
		),
		mcplib.WithNumber("count",
			mcplib.Description("How many commits to return; omit for the configured default"),
		),
	)
	return mcpserver.ServerTool{
		Tool:    tool,
		Handler: s.handleGitCommits,
	}
}

func (s *Server) gitCommitTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("git_commit",
		mcplib.WithDescription("Commit the staged changes of a project, optionally pushing afterwards"),
		mcplib.WithString("project",
			mcplib.Required(),
			mcplib.Description("The project name"),
		),
		mcplib.WithString("message",
			mcplib.Required(),
			mcplib.Description("The commit message"),
		),
		mcplib.WithBoolean("push",
			mcplib.Description("Push to the remote after committing"),
		),
	)
	return mcpserver.ServerTool{
		Tool:    tool,
		Handler: s.handleGitCommit,
	}
}

func (s *Server) dockerContainersTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("docker_containers",
		mcplib.WithDescription("List containers known to the local Docker engine"),
	)
	return mcpserver.ServerTool{
		Tool:    tool,
		Handler: s.handleDockerContainers,
	}
}

func (s *Server) handleListProjects(ctx context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) { //nolint:gocritic // hugeParam: mcp-go handler signature
	if s.deps.Projects == nil {
		return mcplib.NewToolResultError("project registry not configured"), nil
	}
	projects := s.deps.Projects.List(ctx)
	if projects == nil {
		projects = []*project.Project{}
	}
	data, err := json.Marshal(projects)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("marshal project list", err), nil
	}
	return toolResultJSON(string(data)), nil
}

func (s *Server) handleGitStatus(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) { //nolint:gocritic // hugeParam: mcp-go handler signature
	if s.deps.Git == nil {
		return mcplib.NewToolResultError("git service not configured"), nil
	}
	args := req.GetArguments()
	name, ok := args["project"].(string)
	if !ok || name == "" {
		return mcplib.NewToolResultError("project is required"), nil
	}
	info, err := s.deps.Git.Info(ctx, name)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr(
			fmt.Sprintf("failed to get git state for %s", name), err,
		), nil
	}
	data, err := json.Marshal(info)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("failed to marshal git state", err), nil
	}
	return toolResultJSON(string(data)), nil
}

func (s *Server) handleGitCommits(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) { //nolint:gocritic // hugeParam: mcp-go handler signature
	if s.deps.Git == nil {
		return mcplib.NewToolResultError("git service not configured"), nil
	}
	args := req.GetArguments()
	name, ok := args["project"].(string)
	if !ok || name == "" {
		return mcplib.NewToolResultError("project is required"), nil
	}
	count := 0
	switch v := args["count"].(type) {
	case float64:
		count = int(v)
	case int:
		count = v
	}
	commits, res, err := s.deps.Git.Commits(ctx, name, count)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr(
			fmt.Sprintf("failed to list commits for %s", name), err,
		), nil
	}
	if !res.OK {
		return mcplib.NewToolResultError("git log failed: " + res.Output), nil
	}
	if commits == nil {
		commits = []string{}
	}
	data, err := json.Marshal(commits)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("failed to marshal commits", err), nil
	}
	return toolResultJSON(string(data)), nil
}

func (s *Server) handleGitCommit(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) { //nolint:gocritic // hugeParam: mcp-go handler signature
	if s.deps.Git == nil {
		return mcplib.NewToolResultError("git service not configured"), nil
	}
	args := req.GetArguments()
	name, ok := args["project"].(string)
	if !ok || name == "" {
		return mcplib.NewToolResultError("project is required"), nil
	}
	message, ok := args["message"].(string)
	if !ok || message == "" {
		return mcplib.NewToolResultError("message is required"), nil
	}
	push, _ := args["push"].(bool)
	res, err := s.deps.Git.Commit(ctx, name, message, push)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr(
			fmt.Sprintf("failed to commit in %s", name), err,
		), nil
	}
	data, err := json.Marshal(res)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("failed to marshal result", err), nil
	}
	return toolResultJSON(string(data)), nil
}

func (s *Server) handleDockerContainers(ctx context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) { //nolint:gocritic // hugeParam: mcp-go handler signature
	if s.deps.Docker == nil {
		return mcplib.NewToolResultError("docker service not configured"), nil
	}
	containers, ok := s.deps.Docker.Containers(ctx)
	if !ok {
		return mcplib.NewToolResultError("docker engine unavailable"), nil
	}
	if containers == nil {
		containers = []docker.Container{}
	}
	data, err := json.Marshal(containers)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("failed to marshal containers", err), nil
	}
	return toolResultJSON(string(data)), nil
}
