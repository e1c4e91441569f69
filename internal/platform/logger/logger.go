// Package logger builds the process-wide slog logger. Services receive it via
// options so tests can inject their own.
package logger

import (
	"log/slog"
	"os"
)

// New returns a structured logger. Development gets human-readable text,
// everything else JSON for log collectors.
func New(env string) *slog.Logger {
	var handler slog.Handler
	if env == "development" {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return slog.New(handler)
}
