// Package obslog sets up the structured logger shared by every layer of the
// client pipeline.
package obslog

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config controls where and how logs are written. The zero value logs
// text-formatted, info-level output to stdout.
type Config struct {
	// Writer overrides the output destination. Defaults to os.Stdout.
	Writer io.Writer
	// Level overrides LOG_LEVEL. Empty means read the environment.
	Level string
	// JSON selects slog.NewJSONHandler over the default text handler.
	JSON bool
}

// New builds a *slog.Logger from cfg. It never touches slog's global default
// logger: the client library is an import, not a process, and must not
// clobber a host application's logging setup.
func New(cfg Config) *slog.Logger {
	level := cfg.Level
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}

	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}

	var handler slog.Handler
	if cfg.JSON || os.Getenv("LOG_FORMAT") == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// Discard returns a logger that drops everything, used as the default when
// no logger is supplied to a constructor.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
