package config

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger returns a slog.Logger configured from GO_ENV and LOG_LEVEL.
// Production uses JSON handler; otherwise text handler.
// A non-empty levelOverride (from the --log-level flag) wins over LOG_LEVEL.
func NewLogger(levelOverride string) *slog.Logger {
	return newLogger(os.Stdout, os.Getenv("GO_ENV"), levelOverride)
}

func newLogger(w io.Writer, env, levelOverride string) *slog.Logger {
	lvl := levelOverride
	if lvl == "" {
		lvl = os.Getenv("LOG_LEVEL")
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(lvl)}
	if env == "production" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLevel maps debug, info, warn and error to slog levels. Anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
