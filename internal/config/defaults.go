package config

import "time"

// VersionPlaceholder is substituted with the old version in release_merge_pattern.
const VersionPlaceholder = "{{version}}"

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# bump_version configuration (.bumpversion.yml)
# Every key can be overridden with a BUMPVERSION_<KEY> environment variable.

# Version declaration
version_file: package.json                          # File holding the version declaration
version_pattern: '"version"\s*:\s*"(\d+(?:\.\d+)+)"' # Regex, one capture group around the version
scoped_version_rewrite: false                       # true: rewrite only the declaration, not every occurrence

# Web dashboard submodule
submodule_path: web
remote: origin
official_branches:                                  # Checked out from the remote-tracking ref
  - master
  - dev
  - release-*
  - hotfix-*
fetch_timeout: 60s

# Merge history
release_merge_pattern: release-{{version}}          # Summary marker of the previous release merge
pr_merge_marker: Merge pull request
lenient_parsing: false                              # true: skip malformed PR merges with a warning

# Packaging
debian_changelog: debian/changelog
rpm_spec: rpm/product.spec
package_name: product
packager: Release Team <release@example.com>

# Review
editor: ""                                          # Defaults to $VISUAL, then $EDITOR
`
}

// GetDefaults returns the default configuration values as a map
// suitable for loading into koanf.
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"version_file":           "package.json",
		"version_pattern":        `"version"\s*:\s*"(\d+(?:\.\d+)+)"`,
		"scoped_version_rewrite": false,
		"submodule_path":         "web",
		"remote":                 "origin",
		"official_branches":      []string{"master", "dev", "release-*", "hotfix-*"},
		"fetch_timeout":          60 * time.Second,
		"release_merge_pattern":  "release-" + VersionPlaceholder,
		"pr_merge_marker":        "Merge pull request",
		"lenient_parsing":        false,
		"debian_changelog":       "debian/changelog",
		"rpm_spec":               "rpm/product.spec",
		"package_name":           "product",
		"packager":               "Release Team <release@example.com>",
		"editor":                 "",
		"debug":                  false,
	}
}
