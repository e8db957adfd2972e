package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config contains logger configuration options
type Config struct {
	// Level is the minimum level to log: debug, info, warn or error
	Level string
	// Format is "json" or "text"
	Format string
	// Output defaults to os.Stderr
	Output io.Writer
}

// New builds a slog logger from cfg. Unknown levels fall back to info.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}

	return slog.New(handler)
}

// Setup builds a logger and installs it as the process default, so
// package-level slog calls and the std log bridge share one sink.
func Setup(cfg Config) *slog.Logger {
	l := New(cfg)
	slog.SetDefault(l)
	return l
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
