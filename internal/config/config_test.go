package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFrom(t *testing.T, dir string, explicit string) (*Configuration, string, error) {
	t.Helper()
	var warnings bytes.Buffer
	cfg, err := LoadWithOptions(LoadOptions{
		ConfigPath:     explicit,
		ProjectDir:     dir,
		SkipUserConfig: true,
		WarningWriter:  &warnings,
	})
	return cfg, warnings.String(), err
}

func TestLoad_Defaults(t *testing.T) {
	cfg, warnings, err := loadFrom(t, t.TempDir(), "")
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, "package.json", cfg.VersionFile)
	assert.Equal(t, "web", cfg.SubmodulePath)
	assert.Equal(t, "origin", cfg.Remote)
	assert.Equal(t, []string{"master", "dev", "release-*", "hotfix-*"}, cfg.OfficialBranches)
	assert.Equal(t, "Merge pull request", cfg.PRMergeMarker)
	assert.Equal(t, 60*time.Second, cfg.FetchTimeout)
	assert.False(t, cfg.ScopedVersionRewrite)
	assert.Equal(t, "release-{{version}}", cfg.ReleaseMergePattern)
}

func TestLoad_ProjectYAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	content := `
version_file: src/version.xml
version_pattern: 'version="(\d+(?:\.\d+)+)"'
package_name: dashboard
official_branches: [main, "release/*"]
fetch_timeout: 5s
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectConfigFile), []byte(content), 0o644))

	cfg, _, err := loadFrom(t, dir, "")
	require.NoError(t, err)
	assert.Equal(t, "src/version.xml", cfg.VersionFile)
	assert.Equal(t, "dashboard", cfg.PackageName)
	assert.Equal(t, []string{"main", "release/*"}, cfg.OfficialBranches)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	// Untouched keys keep their defaults.
	assert.Equal(t, "debian/changelog", cfg.DebianChangelog)
}

func TestLoad_LegacyJSONWarns(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, LegacyProjectConfigFile), []byte(`{"package_name": "legacy"}`), 0o644))

	cfg, warnings, err := loadFrom(t, dir, "")
	require.NoError(t, err)
	assert.Equal(t, "legacy", cfg.PackageName)
	assert.Contains(t, warnings, "deprecated JSON config")
}

func TestLoad_ExplicitFileWins(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectConfigFile), []byte("package_name: project\n"), 0o644))
	explicit := filepath.Join(dir, "ci.yml")
	require.NoError(t, os.WriteFile(explicit, []byte("package_name: ci\n"), 0o644))

	cfg, _, err := loadFrom(t, dir, explicit)
	require.NoError(t, err)
	assert.Equal(t, "ci", cfg.PackageName)

	_, _, err = loadFrom(t, dir, filepath.Join(dir, "missing.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectConfigFile), []byte("packager: File <file@example.com>\n"), 0o644))
	t.Setenv("BUMPVERSION_PACKAGER", "Env <env@example.com>")
	t.Setenv("BUMPVERSION_OFFICIAL_BRANCHES", "main, release-*")

	cfg, _, err := loadFrom(t, dir, "")
	require.NoError(t, err)
	assert.Equal(t, "Env <env@example.com>", cfg.Packager)
	assert.Equal(t, []string{"main", "release-*"}, cfg.OfficialBranches)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BUMPVERSION_PACKAGE_NAME=fromdotenv\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("BUMPVERSION_PACKAGE_NAME") })

	cfg, _, err := loadFrom(t, dir, "")
	require.NoError(t, err)
	assert.Equal(t, "fromdotenv", cfg.PackageName)
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := map[string]struct {
		content   string
		wantField string
	}{
		"pattern without group": {
			content:   `version_pattern: 'version="\d+"'`,
			wantField: "version_pattern",
		},
		"pattern with two groups": {
			content:   `version_pattern: '(version)="(\d+)"'`,
			wantField: "version_pattern",
		},
		"release pattern without placeholder": {
			content:   `release_merge_pattern: release-branch`,
			wantField: "release_merge_pattern",
		},
		"empty packager": {
			content:   `packager: ""`,
			wantField: "packager",
		},
		"empty rpm spec": {
			content:   `rpm_spec: ""`,
			wantField: "rpm_spec",
		},
		"bad branch glob": {
			content:   `official_branches: ["release-["]`,
			wantField: "official_branches",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectConfigFile), []byte(tt.content+"\n"), 0o644))

			_, _, err := loadFrom(t, dir, "")
			require.Error(t, err)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}

func TestValidateYAMLSyntaxFromBytes(t *testing.T) {
	assert.NoError(t, ValidateYAMLSyntaxFromBytes([]byte("   \n"), "empty.yml"))
	assert.NoError(t, ValidateYAMLSyntaxFromBytes([]byte("a: b\n"), "ok.yml"))

	err := ValidateYAMLSyntaxFromBytes([]byte("a: [b\n"), "bad.yml")
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "bad.yml", ve.FilePath)
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"VersionFile":      "version_file",
		"RPMSpec":          "rpm_spec",
		"PRMergeMarker":    "pr_merge_marker",
		"OfficialBranches": "official_branches",
		"Packager":         "packager",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, toSnakeCase(in))
		})
	}
}
