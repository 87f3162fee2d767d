// Package config loads and validates application configuration from
// environment variables and optional config files.
package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Review   ReviewConfig   `mapstructure:"review"   validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// ReviewConfig contains review scheduling policy settings.
type ReviewConfig struct {
	// RejectDuplicateOutcome makes RecordOutcome fail when an outcome has
	// already been recorded inside the item's current window. The default
	// (false) accepts repeated submissions.
	RejectDuplicateOutcome bool `mapstructure:"reject_duplicate_outcome"`

	// LockTimeoutMillis bounds how long a mutation waits for the per-item
	// lock before reporting a concurrency conflict.
	LockTimeoutMillis int `mapstructure:"lock_timeout_millis" validate:"required,gt=0"`
}
