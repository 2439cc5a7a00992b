// Package logging configures structured logging with log/slog.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config holds logging options.
type Config struct {
	// Level is the minimum level to output.
	Level slog.Level
	// JSON switches to JSON output, used in production.
	JSON bool
	// Output defaults to os.Stderr.
	Output io.Writer
}

// ConfigFor returns the logging configuration for the given runtime
// environment. LOG_LEVEL overrides the level; valid values are DEBUG,
// INFO, WARN and ERROR.
func ConfigFor(production bool) Config {
	level := slog.LevelInfo
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		level = parseLevel(v)
	}
	return Config{
		Level:  level,
		JSON:   production,
		Output: os.Stderr,
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup installs the default slog logger and returns it.
func Setup(cfg Config) *slog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: cfg.Level}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(cfg.Output, opts)
	} else {
		handler = slog.NewTextHandler(cfg.Output, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
