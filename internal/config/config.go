// Package config provides hierarchical configuration management for bump_version using koanf.
// Configuration is loaded with priority: environment variables (including a project .env file)
// > explicit --config file > project config (.bumpversion.yml) > user config
// (~/.config/bumpversion/config.yml) > defaults. Project config may also be legacy JSON.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables that override config keys.
const EnvPrefix = "BUMPVERSION_"

// Configuration represents the bump_version tool configuration.
// All paths are relative to the host repository root.
type Configuration struct {
	// VersionFile holds the version declaration that gets rewritten.
	VersionFile string `koanf:"version_file" validate:"required"`
	// VersionPattern is a regular expression with exactly one capture group
	// around the dotted-numeric version literal.
	VersionPattern string `koanf:"version_pattern" validate:"required"`
	// ScopedVersionRewrite limits the rewrite to the matched declaration.
	// The default (false) replaces every occurrence of the old version in the file.
	ScopedVersionRewrite bool `koanf:"scoped_version_rewrite"`

	// SubmodulePath is the web dashboard submodule, relative to the repository root.
	SubmodulePath string `koanf:"submodule_path" validate:"required"`
	// Remote is the remote whose tracking refs are used for official branches.
	Remote string `koanf:"remote" validate:"required"`
	// OfficialBranches are glob patterns of branches checked out from the remote.
	OfficialBranches []string `koanf:"official_branches" validate:"min=1"`
	// FetchTimeout bounds fetching the submodule remotes.
	FetchTimeout time.Duration `koanf:"fetch_timeout"`

	// ReleaseMergePattern locates the previous release merge; {{version}} is
	// replaced with the old version.
	ReleaseMergePattern string `koanf:"release_merge_pattern" validate:"required"`
	// PRMergeMarker identifies pull request merges by their summary line.
	PRMergeMarker string `koanf:"pr_merge_marker" validate:"required"`
	// LenientParsing skips malformed PR merge commits instead of failing.
	LenientParsing bool `koanf:"lenient_parsing"`

	DebianChangelog string `koanf:"debian_changelog" validate:"required"`
	RPMSpec         string `koanf:"rpm_spec" validate:"required"`
	PackageName     string `koanf:"package_name" validate:"required"`
	// Packager is the "Name <email>" identity written into both package changelogs.
	Packager string `koanf:"packager" validate:"required"`

	// Editor overrides $VISUAL/$EDITOR for the review step.
	Editor string `koanf:"editor"`
	Debug  bool   `koanf:"debug"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ConfigPath is an explicit config file (from --config). YAML or JSON by extension.
	ConfigPath string
	// ProjectDir is where .bumpversion.yml and .env are looked up (default: cwd).
	ProjectDir string
	// SkipUserConfig ignores the user-level config file (used by tests).
	SkipUserConfig bool
	// WarningWriter receives deprecation warnings (default: os.Stderr)
	WarningWriter io.Writer
}

// Load loads configuration from user, project, and environment sources.
func Load(configPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ConfigPath: configPath})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	warningWriter := getWarningWriter(opts.WarningWriter)

	loadDefaults(k)

	if !opts.SkipUserConfig {
		if err := loadUserConfig(k); err != nil {
			return nil, err
		}
	}

	if err := loadProjectConfig(k, opts.ProjectDir, warningWriter); err != nil {
		return nil, err
	}

	if opts.ConfigPath != "" {
		if !fileExists(opts.ConfigPath) {
			return nil, fmt.Errorf("config file not found: %s", opts.ConfigPath)
		}
		if err := loadConfigFile(k, opts.ConfigPath, "explicit"); err != nil {
			return nil, err
		}
	}

	if err := loadDotEnv(opts.ProjectDir); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	return finalizeConfig(k)
}

// getWarningWriter returns the warning writer or defaults to stderr
func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadUserConfig loads ~/.config/bumpversion/config.yml when present.
func loadUserConfig(k *koanf.Koanf) error {
	userPath, err := UserConfigPath()
	if err != nil || !fileExists(userPath) {
		return nil
	}
	return loadConfigFile(k, userPath, "user")
}

// loadProjectConfig loads .bumpversion.yml, falling back to legacy .bumpversion.json.
func loadProjectConfig(k *koanf.Koanf, projectDir string, warningWriter io.Writer) error {
	yamlPath := filepath.Join(projectDir, ProjectConfigFile)
	legacyPath := filepath.Join(projectDir, LegacyProjectConfigFile)

	switch {
	case fileExists(yamlPath):
		if fileExists(legacyPath) {
			fmt.Fprintf(warningWriter, "Warning: Legacy JSON config found at %s (ignored, using %s)\n\n", legacyPath, yamlPath)
		}
		return loadConfigFile(k, yamlPath, "project")
	case fileExists(legacyPath):
		fmt.Fprintf(warningWriter, "Warning: Using deprecated JSON config at %s\n", legacyPath)
		fmt.Fprintf(warningWriter, "  Convert it to %s; JSON support will be removed.\n\n", ProjectConfigFile)
		return loadConfigFile(k, legacyPath, "project")
	}
	return nil
}

// loadConfigFile validates and loads a YAML or JSON config file based on its extension.
func loadConfigFile(k *koanf.Koanf, path, configType string) error {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
		}
		return nil
	}

	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax for %s config: %w", configType, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return nil
}

// loadDotEnv exports variables from the project .env file without
// overriding variables already set in the environment.
func loadDotEnv(projectDir string) error {
	path := filepath.Join(projectDir, ".env")
	if !fileExists(path) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// envTransform converts environment variable names to config keys.
// Example: BUMPVERSION_VERSION_FILE -> version_file.
// List values are comma separated: BUMPVERSION_OFFICIAL_BRANCHES=master,release-*
func envTransform(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	if key == "official_branches" {
		var parts []string
		for _, p := range strings.Split(value, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		return key, parts
	}
	return key, value
}

// finalizeConfig unmarshals and validates the merged configuration.
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// DefaultFetchTimeout is used when fetch_timeout is unset or zero.
const DefaultFetchTimeout = 60 * time.Second

// EffectiveFetchTimeout returns FetchTimeout or DefaultFetchTimeout when unset.
func (c *Configuration) EffectiveFetchTimeout() time.Duration {
	if c.FetchTimeout <= 0 {
		return DefaultFetchTimeout
	}
	return c.FetchTimeout
}
