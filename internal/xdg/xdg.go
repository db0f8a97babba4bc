// Package xdg provides XDG Base Directory paths for SkyCast.
package xdg

import (
	"os"
	"path/filepath"
)

const appName = "skycast"

// ConfigDir returns the XDG config directory for skycast.
// Checks XDG_CONFIG_HOME first, falls back to ~/.config.
func ConfigDir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		base = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(base, appName)
}

// DefaultConfigPath returns the path of the default config file inside
// ConfigDir, or "" when no file exists there.
func DefaultConfigPath() string {
	path := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
