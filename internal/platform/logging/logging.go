package logging

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// New builds the process logger: tinted console output for terminals, keyed
// the way the rest of the codebase logs (event/module/layer attributes).
func New(service string, process string) *slog.Logger {
	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level(),
		TimeFormat: time.TimeOnly,
	})
	return slog.New(handler).With("service", service, "process", process)
}

func level() slog.Level {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))) {
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
