package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// StoragePaths contains paths for application storage
type StoragePaths struct {
	DatabasePath string
	LogPath      string
}

// GetDefaultStoragePaths returns default storage paths using XDG base directories
func GetDefaultStoragePaths() StoragePaths {
	// XDG_STATE_HOME holds runtime state data
	return StoragePaths{
		DatabasePath: filepath.Join(xdg.StateHome, "quill", "localstate.db"),
		LogPath:      filepath.Join(xdg.StateHome, "quill", "logs"),
	}
}

// GetDefaultConfigPath returns the path of the user configuration file
func GetDefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "quill", "config.json")
}
