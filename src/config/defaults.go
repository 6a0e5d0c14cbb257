package config

import "time"

// DefaultConfig returns a default configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		API: APIConfig{
			BaseURL:     "https://api.socialquill.io/v1",
			TokenEnvVar: "QUILL_TOKEN",
			Timeout:     30 * time.Second,
		},
		Client: ClientConfig{
			DefaultTitle: "New conversation",
			PollInterval: 5 * time.Second,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}
