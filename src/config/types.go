package config

import "time"

// Config represents the complete configuration for quill
type Config struct {
	// Version of the configuration format
	Version string `json:"version"`

	// API configuration for the platform backend
	API APIConfig `json:"api"`

	// Client behavior settings
	Client ClientConfig `json:"client"`

	// Logging configuration
	Log LogConfig `json:"log"`

	// Data directory configuration
	Data DataConfig `json:"data,omitempty"`
}

// APIConfig configures the connection to the platform backend.
type APIConfig struct {
	// BaseURL of the platform API
	BaseURL string `json:"base_url" validate:"omitempty,url"`

	// TokenEnvVar names the environment variable holding the session token
	TokenEnvVar string `json:"token_env_var"`

	// Timeout for individual API calls
	Timeout time.Duration `json:"timeout" validate:"min=0"`
}

// ClientConfig holds client-side behavior settings.
type ClientConfig struct {
	// DefaultTitle for conversations created without one
	DefaultTitle string `json:"default_title"`

	// PollInterval between translation job status checks
	PollInterval time.Duration `json:"poll_interval" validate:"min=0"`
}

// LogConfig configures logging output.
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `json:"level" validate:"omitempty,log_level"`

	// Format is "text" or "json"
	Format string `json:"format" validate:"omitempty,oneof=text json"`
}

// DataConfig defines data directory configuration
type DataConfig struct {
	// Directory where client-local state is stored
	Directory string `json:"directory,omitempty"`
}
