package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"  validate:"required"`
	Queue   QueueConfig   `mapstructure:"queue"   validate:"required"`
	Worker  WorkerConfig  `mapstructure:"worker"  validate:"required"`
	History HistoryConfig `mapstructure:"history" validate:"required"`
	Auth    AuthConfig    `mapstructure:"auth"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// ShutdownTimeout is the grace period the host gives the worker to reach Stopped.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`

	// SubmitTimeout bounds how long a submission may wait for queue capacity.
	SubmitTimeout time.Duration `mapstructure:"submit_timeout" validate:"gt=0"`
}

// QueueConfig contains settings for the bounded work queue.
type QueueConfig struct {
	Capacity int `mapstructure:"capacity" validate:"required,gt=0"`
}

// WorkerConfig contains settings for the processing worker.
type WorkerConfig struct {
	// ProcessingDelay is the simulated work duration for each item.
	ProcessingDelay time.Duration `mapstructure:"processing_delay" validate:"gte=0"`
}

// HistoryConfig contains retention settings for processed work items.
type HistoryConfig struct {
	Retention time.Duration `mapstructure:"retention" validate:"gt=0"`
	MaxSize   int           `mapstructure:"max_size"  validate:"required,gt=0"`
}

// AuthConfig contains submitter authentication settings.
// Authentication is disabled when JWTSecret is empty.
type AuthConfig struct {
	JWTSecret     string        `mapstructure:"jwt_secret"     validate:"omitempty,min=32"`
	TokenLifetime time.Duration `mapstructure:"token_lifetime" validate:"gt=0"`
}

// Enabled reports whether submitter authentication is configured.
func (c AuthConfig) Enabled() bool {
	return c.JWTSecret != ""
}
