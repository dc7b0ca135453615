package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath is the environment variable for an explicit config path.
	EnvConfigPath = "WEAVR_CONFIG"
	// ConfigFileName is the config file name looked up in the working directory.
	ConfigFileName = "weavr.toml"
	// ConfigDirName is the config directory name under XDG.
	ConfigDirName = "weavr"
)

// FindConfigPath searches for a config file in priority order:
//  1. $WEAVR_CONFIG (explicit path)
//  2. ./weavr.toml (working directory)
//  3. $XDG_CONFIG_HOME/weavr/config.toml
//  4. ~/.config/weavr/config.toml
//
// Returns empty string if no config file found.
func FindConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		if fileExists(path) {
			return path
		}
	}

	if fileExists(ConfigFileName) {
		if abs, err := filepath.Abs(ConfigFileName); err == nil {
			return abs
		}
		return ConfigFileName
	}

	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		path := filepath.Join(xdgHome, ConfigDirName, "config.toml")
		if fileExists(path) {
			return path
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".config", ConfigDirName, "config.toml")
		if fileExists(path) {
			return path
		}
	}

	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
