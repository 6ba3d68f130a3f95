// Package config provides hierarchical configuration loading for DevDeck.
// Precedence: defaults < YAML file < environment variables.
package config

import "time"

// Config holds all runtime configuration for the DevDeck daemon.
type Config struct {
	Server    Server    `yaml:"server"`
	Logging   Logging   `yaml:"logging"`
	Registry  Registry  `yaml:"registry"`
	Git       Git       `yaml:"git"`
	Docker    Docker    `yaml:"docker"`
	Scripts   Scripts   `yaml:"scripts"`
	Catalog   Catalog   `yaml:"catalog"`
	Rate      Rate      `yaml:"rate"`
	MCP       MCP       `yaml:"mcp"`
	Telemetry Telemetry `yaml:"telemetry"`
}

// Server holds HTTP server configuration. The daemon binds loopback by
// default; exposing it beyond the workstation is a deliberate act.
type Server struct {
	Host       string `yaml:"host"`
	Port       string `yaml:"port"`
	CORSOrigin string `yaml:"cors_origin"`
}

// Logging holds structured logging configuration.
type Logging struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
	File    string `yaml:"file"` // empty = stdout only
	Async   bool   `yaml:"async"`
	Buffer  int    `yaml:"buffer"`
	Workers int    `yaml:"workers"`
}

// Registry holds project discovery configuration.
type Registry struct {
	Root        string `yaml:"root"`         // directory scanned for projects
	ScanDepth   int    `yaml:"scan_depth"`   // max directory levels below root
	MarkerFile  string `yaml:"marker_file"`  // file identifying a project dir
	CacheFile   string `yaml:"cache_file"`   // JSON cache of the last scan
	SyncCatalog bool   `yaml:"sync_catalog"` // mirror scans into the SQLite catalog
}

// Git holds version-control invocation configuration.
type Git struct {
	Provider      string        `yaml:"provider"` // registered gitprovider name
	Binary        string        `yaml:"binary"`
	Timeout       time.Duration `yaml:"timeout"`
	MaxConcurrent int           `yaml:"max_concurrent"`
	RecentCommits int           `yaml:"recent_commits"` // default -n for log queries
}

// Docker holds container-runtime inspection configuration.
type Docker struct {
	Enabled            bool          `yaml:"enabled"`
	Binary             string        `yaml:"binary"`
	Timeout            time.Duration `yaml:"timeout"`
	ProbeTimeout       time.Duration `yaml:"probe_timeout"` // short timeout for `docker info`
	ProbeTTL           time.Duration `yaml:"probe_ttl"`     // availability cache lifetime
	BreakerMaxFailures int           `yaml:"breaker_max_failures"`
	BreakerCooldown    time.Duration `yaml:"breaker_cooldown"`
}

// Scripts holds whitelisted project-script execution configuration.
type Scripts struct {
	Enabled    bool          `yaml:"enabled"`
	Shell      string        `yaml:"shell"`
	Timeout    time.Duration `yaml:"timeout"`
	Restricted []string      `yaml:"restricted"` // substrings that reject a script
}

// Catalog holds the SQLite secondary-store configuration.
type Catalog struct {
	Path string `yaml:"path"`
}

// Rate holds API rate limiter configuration.
type Rate struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// MCP holds Model Context Protocol server configuration.
type MCP struct {
	Enabled bool `yaml:"enabled"`
}

// Telemetry holds metrics configuration.
type Telemetry struct {
	Metrics bool `yaml:"metrics"`
}

// Defaults returns a Config with sensible default values for a workstation.
func Defaults() Config {
	return Config{
		Server: Server{
			Host:       "127.0.0.1",
			Port:       "8070",
			CORSOrigin: "http://localhost:5173",
		},
		Logging: Logging{
			Level:   "info",
			Service: "devdeck",
			Buffer:  1024,
			Workers: 1,
		},
		Registry: Registry{
			Root:        "~/Sites",
			ScanDepth:   3,
			MarkerFile:  "project_info.json",
			CacheFile:   "~/.devdeck/projects.json",
			SyncCatalog: true,
		},
		Git: Git{
			Provider:      "cli",
			Binary:        "git",
			Timeout:       30 * time.Second,
			MaxConcurrent: 4,
			RecentCommits: 5,
		},
		Docker: Docker{
			Enabled:            true,
			Binary:             "docker",
			Timeout:            30 * time.Second,
			ProbeTimeout:       5 * time.Second,
			ProbeTTL:           10 * time.Second,
			BreakerMaxFailures: 3,
			BreakerCooldown:    30 * time.Second,
		},
		Scripts: Scripts{
			Enabled: true,
			Shell:   "sh",
			Timeout: 30 * time.Second,
			Restricted: []string{
				"rm -rf",
				"sudo",
				"chmod",
				"chown",
				"> /dev/null",
				"/etc/passwd",
				"/etc/shadow",
			},
		},
		Catalog: Catalog{
			Path: "~/.devdeck/catalog.db",
		},
		Rate: Rate{
			RequestsPerSecond: 10,
			Burst:             100,
		},
		MCP: MCP{
			Enabled: true,
		},
		Telemetry: Telemetry{
			Metrics: true,
		},
	}
}
