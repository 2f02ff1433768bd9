package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskqueue/internal/config"
)

// loadAppConfig loads the application configuration from environment variables or config file.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"queue_capacity", cfg.Queue.Capacity,
		"processing_delay", cfg.Worker.ProcessingDelay,
		"history_retention", cfg.History.Retention,
		"history_max_size", cfg.History.MaxSize)

	if cfg.Auth.Enabled() {
		slog.Debug("Auth configuration", "jwt_secret_present", true)
	}

	return cfg, nil
}
