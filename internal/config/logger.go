package config

import (
	"log/slog"
	"os"
)

// NewLogger returns the structured logger for domain events:
// text output in dev, JSON in prod.
func NewLogger(cfg *Config) *slog.Logger {
	if cfg.IsProd() {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
