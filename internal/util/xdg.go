package util

import (
	"os"
	"path/filepath"
)

// AppName names the per-user data directory.
const AppName = "exportview"

// GetXDGDataHome returns XDG_DATA_HOME, falling back to ~/.local/share.
// When the home directory is unknown it falls back to the working directory.
func GetXDGDataHome() string {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return dataHome
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(homeDir, ".local", "share")
}

// GetXDGDataDir returns the data directory for exportview.
func GetXDGDataDir() string {
	return filepath.Join(GetXDGDataHome(), AppName)
}
