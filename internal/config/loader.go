package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "devdeck.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// YAML file is optional; missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)
	normalize(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Host, "DEVDECK_HOST")
	setString(&cfg.Server.Port, "DEVDECK_PORT")
	setString(&cfg.Server.CORSOrigin, "DEVDECK_CORS_ORIGIN")

	setString(&cfg.Logging.Level, "DEVDECK_LOG_LEVEL")
	setString(&cfg.Logging.Service, "DEVDECK_LOG_SERVICE")
	setString(&cfg.Logging.File, "DEVDECK_LOG_FILE")
	setBool(&cfg.Logging.Async, "DEVDECK_LOG_ASYNC")
	setInt(&cfg.Logging.Buffer, "DEVDECK_LOG_BUFFER")
	setInt(&cfg.Logging.Workers, "DEVDECK_LOG_WORKERS")

	setString(&cfg.Registry.Root, "DEVDECK_ROOT")
	setInt(&cfg.Registry.ScanDepth, "DEVDECK_SCAN_DEPTH")
	setString(&cfg.Registry.MarkerFile, "DEVDECK_MARKER_FILE")
	setString(&cfg.Registry.CacheFile, "DEVDECK_CACHE_FILE")
	setBool(&cfg.Registry.SyncCatalog, "DEVDECK_SYNC_CATALOG")

	setString(&cfg.Git.Provider, "DEVDECK_GIT_PROVIDER")
	setString(&cfg.Git.Binary, "DEVDECK_GIT_BINARY")
	setDuration(&cfg.Git.Timeout, "DEVDECK_GIT_TIMEOUT")
	setInt(&cfg.Git.MaxConcurrent, "DEVDECK_GIT_MAX_CONCURRENT")
	setInt(&cfg.Git.RecentCommits, "DEVDECK_GIT_RECENT_COMMITS")

	setBool(&cfg.Docker.Enabled, "DEVDECK_DOCKER_ENABLED")
	setString(&cfg.Docker.Binary, "DEVDECK_DOCKER_BINARY")
	setDuration(&cfg.Docker.Timeout, "DEVDECK_DOCKER_TIMEOUT")
	setDuration(&cfg.Docker.ProbeTimeout, "DEVDECK_DOCKER_PROBE_TIMEOUT")
	setDuration(&cfg.Docker.ProbeTTL, "DEVDECK_DOCKER_PROBE_TTL")
	setInt(&cfg.Docker.BreakerMaxFailures, "DEVDECK_DOCKER_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Docker.BreakerCooldown, "DEVDECK_DOCKER_BREAKER_COOLDOWN")

	setBool(&cfg.Scripts.Enabled, "DEVDECK_SCRIPTS_ENABLED")
	setString(&cfg.Scripts.Shell, "DEVDECK_SCRIPTS_SHELL")
	setDuration(&cfg.Scripts.Timeout, "DEVDECK_SCRIPTS_TIMEOUT")

	setString(&cfg.Catalog.Path, "DEVDECK_CATALOG_PATH")

	setFloat64(&cfg.Rate.RequestsPerSecond, "DEVDECK_RATE_RPS")
	setInt(&cfg.Rate.Burst, "DEVDECK_RATE_BURST")

	setBool(&cfg.MCP.Enabled, "DEVDECK_MCP_ENABLED")
	setBool(&cfg.Telemetry.Metrics, "DEVDECK_METRICS")
}

// normalize expands "~" path prefixes against the user's home directory.
func normalize(cfg *Config) {
	cfg.Registry.Root = expandHome(cfg.Registry.Root)
	cfg.Registry.CacheFile = expandHome(cfg.Registry.CacheFile)
	cfg.Catalog.Path = expandHome(cfg.Catalog.Path)
	cfg.Logging.File = expandHome(cfg.Logging.File)
}

func expandHome(path string) string {
	if path == "" || !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if cfg.Registry.Root == "" {
		return errors.New("registry.root is required")
	}
	if cfg.Registry.ScanDepth < 1 {
		return errors.New("registry.scan_depth must be >= 1")
	}
	if cfg.Registry.MarkerFile == "" {
		return errors.New("registry.marker_file is required")
	}
	if cfg.Git.Provider == "" {
		return errors.New("git.provider is required")
	}
	if cfg.Git.Binary == "" {
		return errors.New("git.binary is required")
	}
	if cfg.Git.MaxConcurrent < 1 {
		return errors.New("git.max_concurrent must be >= 1")
	}
	if cfg.Git.Timeout <= 0 {
		return errors.New("git.timeout must be positive")
	}
	if cfg.Docker.Enabled && cfg.Docker.BreakerMaxFailures < 1 {
		return errors.New("docker.breaker_max_failures must be >= 1")
	}
	if cfg.Scripts.Enabled && cfg.Scripts.Shell == "" {
		return errors.New("scripts.shell is required")
	}
	if cfg.Rate.Burst < 1 {
		return errors.New("rate.burst must be >= 1")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
