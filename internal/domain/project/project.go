// Package project defines the project entities DevDeck tracks on disk.
package project

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// InfoFile marks a directory as a DevDeck project and carries its metadata.
const InfoFile = "project_info.json"

// ScriptsFile holds the per-project script commands.
const ScriptsFile = "scripts.json"

// composeFiles flag docker compose support when present in the project root.
var composeFiles = []string{
	"docker-compose.yml",
	"docker-compose.yaml",
	"compose.yml",
	"compose.yaml",
}

// Project is one tracked directory under the scan root. The name is always
// the directory basename; metadata comes from the marker file.
type Project struct {
	Name        string            `json:"name"`
	Path        string            `json:"path"`
	Description string            `json:"description,omitempty"`
	Info        map[string]any    `json:"info,omitempty"`
	Scripts     map[string]string `json:"scripts,omitempty"`
	Compose     bool              `json:"compose"`
	Stack       []Language        `json:"stack,omitempty"`

	// Git caches repository knowledge. Serializing access is the caller's
	// job; the entity itself is not safe for concurrent mutation.
	Git *GitState `json:"-"`
}

// New builds a Project for the directory at path without reading anything
// from disk beyond the path itself.
func New(path string) *Project {
	return &Project{
		Name:    filepath.Base(path),
		Path:    path,
		Scripts: map[string]string{},
		Git:     NewGitState(path),
	}
}

// Load builds a Project and reads its metadata, scripts, compose flag and
// language stack from disk. Missing or malformed files leave the affected
// fields at their zero values.
func Load(path string) *Project {
	p := New(path)
	p.LoadInfo()
	p.LoadScripts()
	p.Compose = hasComposeFile(path)
	p.Stack = DetectStack(path)
	return p
}

// LoadInfo reads the marker file into Info and derives Description from it.
func (p *Project) LoadInfo() bool {
	data, err := os.ReadFile(filepath.Join(p.Path, InfoFile)) //nolint:gosec // path comes from the configured scan root
	if err != nil {
		return false
	}
	var info map[string]any
	if err := json.Unmarshal(data, &info); err != nil {
		return false
	}
	p.Info = info
	if desc, ok := info["description"].(string); ok {
		p.Description = desc
	}
	return true
}

// LoadScripts reads the scripts file and replaces the Scripts map.
func (p *Project) LoadScripts() bool {
	data, err := os.ReadFile(filepath.Join(p.Path, ScriptsFile)) //nolint:gosec // path comes from the configured scan root
	if err != nil {
		return false
	}
	var file struct {
		Scripts map[string]string `json:"scripts"`
	}
	if err := json.Unmarshal(data, &file); err != nil {
		return false
	}
	if file.Scripts == nil {
		file.Scripts = map[string]string{}
	}
	p.Scripts = file.Scripts
	return true
}

// Script returns the command registered under action.
func (p *Project) Script(action string) (string, bool) {
	cmd, ok := p.Scripts[action]
	return cmd, ok
}

func hasComposeFile(path string) bool {
	for _, name := range composeFiles {
		if _, err := os.Stat(filepath.Join(path, name)); err == nil {
			return true
		}
	}
	return false
}
