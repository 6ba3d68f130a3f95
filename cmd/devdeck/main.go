package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/devdeck/devdeck/internal/adapter/dockercli"
	ddhttp "github.com/devdeck/devdeck/internal/adapter/http"
	"github.com/devdeck/devdeck/internal/adapter/jsoncache"
	"github.com/devdeck/devdeck/internal/adapter/oscmd"
	"github.com/devdeck/devdeck/internal/adapter/otel"
	"github.com/devdeck/devdeck/internal/adapter/ristretto"
	"github.com/devdeck/devdeck/internal/adapter/sqlite"
	"github.com/devdeck/devdeck/internal/adapter/ws"
	"github.com/devdeck/devdeck/internal/config"
	"github.com/devdeck/devdeck/internal/domain/project"
	"github.com/devdeck/devdeck/internal/git"
	"github.com/devdeck/devdeck/internal/logger"
	"github.com/devdeck/devdeck/internal/middleware"
	"github.com/devdeck/devdeck/internal/port/database"
	"github.com/devdeck/devdeck/internal/port/gitprovider"
	"github.com/devdeck/devdeck/internal/port/projectcache"
	"github.com/devdeck/devdeck/internal/resilience"
	"github.com/devdeck/devdeck/internal/service"
)

// version is stamped at release time via -ldflags "-X main.version=...".
var version = "dev"

// dockerCacheSize bounds the in-process listing cache; docker payloads are
// a few kilobytes each.
const dockerCacheSize int64 = 16 << 20

func main() {
	// Subcommands own stdout (scan prints JSON, mcp speaks the protocol),
	// so bootstrap logging goes to stderr.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	if err := run(os.Args[1:]); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

// run dispatches subcommands (serve, scan, mcp).
func run(args []string) error {
	cmd := "serve"
	if len(args) > 0 {
		cmd = args[0]
		args = args[1:]
	}

	switch cmd {
	case "serve":
		return runServe()
	case "scan":
		return runScan(args)
	case "mcp":
		return runMCP(args)
	case "help", "--help", "-h":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: devdeck [command]

Commands:
  serve   Run the HTTP/WebSocket daemon (default)
  scan    Scan the workspace once and print the projects
  mcp     Serve MCP tools over stdio
  help    Show this help message

Examples:
  devdeck
  devdeck scan --root ~/Sites --json
  devdeck mcp
`)
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, logCloser := logger.New(cfg.Logging)
	slog.SetDefault(log)
	defer logCloser.Close()

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	slog.Info("config loaded",
		"root", cfg.Registry.Root,
		"addr", addr,
		"git_provider", cfg.Git.Provider,
		"docker", cfg.Docker.Enabled,
		"scripts", cfg.Scripts.Enabled,
	)

	ctx := context.Background()

	// --- Telemetry ---
	var metrics *otel.Metrics
	if cfg.Telemetry.Metrics {
		metrics, err = otel.NewMetrics()
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
	}

	// --- Infrastructure ---
	runner := oscmd.New(log, metrics)

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

	var catalog database.CatalogStore
	if cfg.Registry.SyncCatalog && cfg.Catalog.Path != "" {
		cat, err := sqlite.NewCatalog(ctx, cfg.Catalog.Path)
		if err != nil {
			return fmt.Errorf("catalog: %w", err)
		}
		defer func() { _ = cat.Close() }()
		catalog = cat
		slog.Info("catalog opened", "path", cfg.Catalog.Path)
	}

	// --- Services ---
	hub := ws.NewHub(metrics)

	registry := service.NewRegistryService(cfg.Registry.Root, project.ScanOptions{
		MarkerFile: cfg.Registry.MarkerFile,
		MaxDepth:   cfg.Registry.ScanDepth,
	}, pcache, catalog, hub, metrics)

	handlers := &ddhttp.Handlers{
		Registry: registry,
		Git:      service.NewGitService(registry, provider, hub),
		Version:  version,
	}

	if cfg.Docker.Enabled {
		dcache, err := ristretto.New(dockerCacheSize)
		if err != nil {
			return fmt.Errorf("docker cache: %w", err)
		}
		defer dcache.Close()
		breaker := resilience.NewBreaker(cfg.Docker.BreakerMaxFailures, cfg.Docker.BreakerCooldown)
		client := dockercli.New(runner, cfg.Docker.Binary, cfg.Docker.Timeout, cfg.Docker.ProbeTimeout)
		handlers.Docker = service.NewDockerService(client, dcache, breaker, cfg.Docker.ProbeTTL, hub)
	}

	if cfg.Scripts.Enabled {
		handlers.Scripts = service.NewScriptService(registry, runner,
			cfg.Scripts.Shell, cfg.Scripts.Timeout, cfg.Scripts.Restricted, hub, metrics)
	}

	// Serve the cached project list immediately; a fresh install scans in
	// the background instead of blocking startup.
	if registry.Restore(ctx) == 0 {
		go func() {
			if _, err := registry.Scan(ctx); err != nil {
				slog.Warn("initial scan failed", "error", err)
			}
		}()
	}

	// --- HTTP ---
	limiter := middleware.NewRateLimiter(cfg.Rate.RequestsPerSecond, cfg.Rate.Burst)
	stopCleanup := limiter.StartCleanup(time.Minute, 10*time.Minute)
	defer stopCleanup()

	r := chi.NewRouter()

	// Middleware
	r.Use(ddhttp.CORS(cfg.Server.CORSOrigin))
	r.Use(ddhttp.SecurityHeaders)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(ddhttp.Logger)
	r.Use(chimw.Recoverer)
	if cfg.Telemetry.Metrics {
		r.Use(otel.HTTPMiddleware("devdeck"))
	}
	r.Use(limiter.Handler)

	r.Get("/healthz", healthHandler(registry, hub))

	// WebSocket endpoint
	r.Get("/ws", hub.HandleWS)

	// API routes get a request deadline; /ws stays outside the group so
	// upgraded connections are not killed by the timeout.
	r.Group(func(api chi.Router) {
		api.Use(chimw.Timeout(30 * time.Second))
		ddhttp.MountRoutes(api, handlers)
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-done
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// healthHandler returns an http.HandlerFunc that reports daemon liveness
// and the state clients care about before their first API call.
func healthHandler(registry *service.RegistryService, hub *ws.Hub) http.HandlerFunc {
	type healthStatus struct {
		Status    string `json:"status"`
		Version   string `json:"version"`
		Projects  int    `json:"projects"`
		WSClients int    `json:"ws_clients"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		status := healthStatus{
			Status:    "ok",
			Version:   version,
			Projects:  len(registry.List(r.Context())),
			WSClients: hub.ConnectionCount(),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(status)
	}
}
