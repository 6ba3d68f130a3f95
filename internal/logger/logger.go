// Package logger provides structured logging setup for DevDeck.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/devdeck/devdeck/internal/config"
)

// New creates a *slog.Logger from the given Logging config. Output is JSON
// to stdout, duplicated to cfg.File when set. With cfg.Async the handler is
// wrapped in a buffered channel so logging never blocks request paths; the
// returned Closer drains it. Callers must Close before exit.
func New(cfg config.Logging) (*slog.Logger, Closer) {
	level := parseLevel(cfg.Level)

	var w io.Writer = os.Stdout
	var file *os.File
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err == nil {
			f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644) //nolint:gosec // G304: operator-configured path
			if err == nil {
				file = f
				w = io.MultiWriter(os.Stdout, f)
			}
		}
	}

	var handler slog.Handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})

	closer := Closer(nopCloser{})
	if cfg.Async {
		ah := NewAsyncHandler(handler, cfg.Buffer, cfg.Workers)
		handler = ah
		closer = ah
	}
	if file != nil {
		inner := closer
		closer = closeFunc(func() {
			inner.Close()
			_ = file.Close()
		})
	}

	return slog.New(handler).With("service", cfg.Service), closer
}

// closeFunc adapts a func() to the Closer interface.
type closeFunc func()

func (f closeFunc) Close() { f() }

// parseLevel converts a string log level to slog.Level.
func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
