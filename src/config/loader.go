package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Loader reads and merges configuration from disk. The filesystem is an
// afero.Fs so tests can run against an in-memory one.
type Loader struct {
	fs        afero.Fs
	validator *Validator
}

// NewLoader creates a configuration loader over the given filesystem. A nil
// fs means the host filesystem.
func NewLoader(fs afero.Fs) *Loader {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Loader{
		fs:        fs,
		validator: NewValidator(),
	}
}

// Load reads the config file at path layered over the defaults. A missing
// file is not an error: the defaults are returned as-is. The result is
// validated before being returned.
func (l *Loader) Load(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := afero.ReadFile(l.fs, path)
		switch {
		case os.IsNotExist(err):
			// fall through to defaults
		case err != nil:
			return nil, fmt.Errorf("failed to read config from %s: %w", path, err)
		default:
			var file Config
			if err := json.Unmarshal(data, &file); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", path, err)
			}
			config = mergeConfigs(config, &file)
		}
	}

	if err := l.validator.Validate(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// SaveFile saves configuration to a file
func (l *Loader) SaveFile(config *Config, path string) error {
	if err := l.validator.Validate(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	dir := filepath.Dir(path)
	if err := l.fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := afero.WriteFile(l.fs, path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// mergeConfigs merges two configurations with the second taking precedence
func mergeConfigs(base, override *Config) *Config {
	result := *base

	if override.Version != "" {
		result.Version = override.Version
	}
	if override.API.BaseURL != "" {
		result.API.BaseURL = override.API.BaseURL
	}
	if override.API.TokenEnvVar != "" {
		result.API.TokenEnvVar = override.API.TokenEnvVar
	}
	if override.API.Timeout != 0 {
		result.API.Timeout = override.API.Timeout
	}
	if override.Client.DefaultTitle != "" {
		result.Client.DefaultTitle = override.Client.DefaultTitle
	}
	if override.Client.PollInterval != 0 {
		result.Client.PollInterval = override.Client.PollInterval
	}
	if override.Log.Level != "" {
		result.Log.Level = override.Log.Level
	}
	if override.Log.Format != "" {
		result.Log.Format = override.Log.Format
	}
	if override.Data.Directory != "" {
		result.Data.Directory = override.Data.Directory
	}

	return &result
}
