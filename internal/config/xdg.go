// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

const appName = "fingermath"

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// XDGStateHome returns the XDG state home or a default fallback.
func XDGStateHome() string {
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "state")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), appName, "config.toml")
}

// DefaultDBPath returns the default path for the recordings database.
func DefaultDBPath() string {
	return filepath.Join(XDGDataHome(), appName, "recordings.db")
}

// DefaultSoundDir returns the default directory holding the cue WAV files.
func DefaultSoundDir() string {
	return filepath.Join(XDGDataHome(), appName, "sounds")
}

// DefaultLogPath returns where the terminal UI writes its log.
func DefaultLogPath() string {
	return filepath.Join(XDGStateHome(), appName, "fingermath.log")
}
