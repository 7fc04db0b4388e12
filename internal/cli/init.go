// Package cli provides common initialization shared by cmd/outlay and
// cmd/outlay-worker.
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"outlay/internal/backend"
	"outlay/internal/config"
)

// SetupLogger initializes structured logging with default settings and
// installs it as the process default.
func SetupLogger() *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development. Errors are
// ignored silently as the file is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it, exiting the
// process on validation failure.
func LoadAndValidateConfig(logger *slog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// OpenBackend constructs the configured persistence backend, exiting the
// process on failure.
func OpenBackend(logger *slog.Logger, cfg *config.Config) *backend.Result {
	res, err := backend.Open(backend.Config{
		Type:         backend.Type(cfg.DataBackend),
		SQLiteDBPath: cfg.SQLiteDBPath,
		StatePath:    cfg.StatePath,
	}, logger)
	if err != nil {
		logger.Error("Failed to open data backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	return res
}
