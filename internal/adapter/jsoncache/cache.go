// Package jsoncache persists the discovered project list as a small JSON
// file, so restarts skip the initial workspace walk.
package jsoncache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// fileFormat is the on-disk shape. Timestamp uses RFC 3339 so the file stays
// readable and diffable by hand.
type fileFormat struct {
	Timestamp string   `json:"timestamp"`
	Projects  []string `json:"projects"`
}

// Store reads and writes the project path cache at a fixed location.
type Store struct {
	path string
}

// New returns a Store backed by the given file path.
func New(path string) *Store {
	return &Store{path: path}
}

// Load reads the cache and returns the paths that still exist on disk.
// A missing cache file is not an error: it returns an empty list.
func (s *Store) Load(_ context.Context) ([]string, time.Time, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, time.Time{}, nil
		}
		return nil, time.Time{}, fmt.Errorf("read project cache: %w", err)
	}

	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, time.Time{}, fmt.Errorf("parse project cache: %w", err)
	}

	savedAt, err := time.Parse(time.RFC3339, f.Timestamp)
	if err != nil {
		savedAt = time.Time{}
	}

	paths := make([]string, 0, len(f.Projects))
	for _, p := range f.Projects {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			paths = append(paths, p)
		}
	}
	return paths, savedAt, nil
}

// Save replaces the cache with the given paths, creating the parent
// directory if needed.
func (s *Store) Save(_ context.Context, paths []string) error {
	if paths == nil {
		paths = []string{}
	}
	f := fileFormat{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Projects:  paths,
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encode project cache: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create cache dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write project cache: %w", err)
	}
	return nil
}
