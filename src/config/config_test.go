package config

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "1.0", cfg.Version)
	assert.Equal(t, "QUILL_TOKEN", cfg.API.TokenEnvVar)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, 5*time.Second, cfg.Client.PollInterval)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	fs := afero.NewMemMapFs()
	loader := NewLoader(fs)

	cfg, err := loader.Load("/home/user/.config/quill/config.json")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().API.BaseURL, cfg.API.BaseURL)
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/config.json", []byte(`{
		"api": {"base_url": "https://staging.example.com/v1"},
		"log": {"level": "debug"}
	}`), 0644))

	cfg, err := NewLoader(fs).Load("/config.json")
	require.NoError(t, err)

	assert.Equal(t, "https://staging.example.com/v1", cfg.API.BaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Unset fields keep their defaults.
	assert.Equal(t, "QUILL_TOKEN", cfg.API.TokenEnvVar)
	assert.Equal(t, 5*time.Second, cfg.Client.PollInterval)
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/config.json", []byte(`{not json`), 0644))

	_, err := NewLoader(fs).Load("/config.json")
	assert.Error(t, err)
}

func TestValidation(t *testing.T) {
	validator := NewValidator()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid defaults",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Log.Level = "loud" },
			wantErr: true,
		},
		{
			name:    "invalid log format",
			mutate:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: true,
		},
		{
			name:    "invalid base url",
			mutate:  func(c *Config) { c.API.BaseURL = "not a url" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := validator.Validate(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveFileRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	loader := NewLoader(fs)

	cfg := DefaultConfig()
	cfg.API.BaseURL = "https://example.com/v1"
	require.NoError(t, loader.SaveFile(cfg, "/nested/dir/config.json"))

	loaded, err := loader.Load("/nested/dir/config.json")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/v1", loaded.API.BaseURL)
}
