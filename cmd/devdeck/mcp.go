package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/devdeck/devdeck/internal/adapter/dockercli"
	"github.com/devdeck/devdeck/internal/adapter/jsoncache"
	"github.com/devdeck/devdeck/internal/adapter/mcp"
	"github.com/devdeck/devdeck/internal/adapter/oscmd"
	"github.com/devdeck/devdeck/internal/config"
	"github.com/devdeck/devdeck/internal/domain/project"
	"github.com/devdeck/devdeck/internal/git"
	"github.com/devdeck/devdeck/internal/port/gitprovider"
	"github.com/devdeck/devdeck/internal/port/projectcache"
	"github.com/devdeck/devdeck/internal/resilience"
	"github.com/devdeck/devdeck/internal/service"
)

// runMCP serves the MCP tools over stdio. The protocol owns stdout, so
// logging is forced to stderr for the lifetime of the process.
func runMCP(args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if !cfg.MCP.Enabled {
		return errors.New("mcp is disabled; set mcp.enabled or DEVDECK_MCP_ENABLED=true")
	}

	ctx := context.Background()
	runner := oscmd.New(slog.Default(), nil)

	provider, err := gitprovider.New(cfg.Git.Provider, gitprovider.Deps{
		Runner:         runner,
		Pool:           git.NewPool(cfg.Git.MaxConcurrent),
		Binary:         cfg.Git.Binary,
		Timeout:        cfg.Git.Timeout,
		DefaultCommits: cfg.Git.RecentCommits,
	})
	if err != nil {
		return fmt.Errorf("git provider: %w", err)
	}

	var pcache projectcache.Store
	if cfg.Registry.CacheFile != "" {
		pcache = jsoncache.New(cfg.Registry.CacheFile)
	}

	registry := service.NewRegistryService(cfg.Registry.Root, project.ScanOptions{
		MarkerFile: cfg.Registry.MarkerFile,
		MaxDepth:   cfg.Registry.ScanDepth,
	}, pcache, nil, nil, nil)

	// Agents query right after initialize; populate the registry before
	// serving rather than in the background.
	if registry.Restore(ctx) == 0 {
		if _, err := registry.Scan(ctx); err != nil {
			slog.Warn("initial scan failed", "error", err)
		}
	}

	deps := mcp.ServerDeps{
		Projects: registry,
		Git:      service.NewGitService(registry, provider, nil),
	}
	if cfg.Docker.Enabled {
		breaker := resilience.NewBreaker(cfg.Docker.BreakerMaxFailures, cfg.Docker.BreakerCooldown)
		client := dockercli.New(runner, cfg.Docker.Binary, cfg.Docker.Timeout, cfg.Docker.ProbeTimeout)
		deps.Docker = service.NewDockerService(client, nil, breaker, cfg.Docker.ProbeTTL, nil)
	}

	srv := mcp.NewServer(mcp.ServerConfig{Name: "devdeck", Version: version}, deps)
	return srv.ServeStdio()
}
