// Package logging configures colored structured logging with tint.
//
// Usage:
//
//	logging.Setup(cfg.LogLevel)                 // from LOG_LEVEL
//	logger := logging.New(os.Stderr, "debug")   // standalone logger
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup installs a colored stderr logger as the slog default and returns it.
func Setup(level string) *slog.Logger {
	logger := New(os.Stderr, level)
	slog.SetDefault(logger)
	return logger
}

// New builds a tint logger writing to w at the named level.
func New(w io.Writer, level string) *slog.Logger {
	return slog.New(
		tint.NewHandler(w, &tint.Options{
			Level:      ParseLevel(level),
			TimeFormat: time.Kitchen,
			AddSource:  true,
			NoColor:    w != os.Stderr && w != os.Stdout,
		}),
	)
}

// ParseLevel maps debug, info, warn and error to slog levels.
// Anything else is treated as info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
