package config

import (
	"os"
	"path/filepath"
)

const (
	// ProjectConfigFile is the project-level config, relative to the repository root.
	ProjectConfigFile = ".bumpversion.yml"
	// LegacyProjectConfigFile is the deprecated JSON project config.
	LegacyProjectConfigFile = ".bumpversion.json"
)

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/bumpversion/config.yml
// - macOS: ~/Library/Application Support/bumpversion/config.yml
// - Windows: %APPDATA%\bumpversion\config.yml
func UserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "bumpversion", "config.yml"), nil
}
