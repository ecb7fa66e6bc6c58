package errors

import "fmt"

// Common error messages for the bump_version CLI.
// These templates ensure consistent, actionable error messages.

// Usage is the one-line synopsis shown with argument errors.
const Usage = "bump_version [-b|--web-branch <branch>] <new_version>"

// MissingVersion creates an error for a missing new-version argument.
func MissingVersion() *CLIError {
	return NewArgumentErrorWithUsage(
		"new version is required",
		Usage,
		"Pass the version being released as the only positional argument",
		"Example: bump_version 10.8.0",
	)
}

// InvalidVersion creates an error for a malformed new-version argument.
func InvalidVersion(provided string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("invalid version %q (expected dotted numbers, e.g. 10.8.0)", provided),
		Usage,
		"Use only digits separated by dots",
	)
}

// DirtySubmodule creates an error when the submodule has uncommitted changes.
func DirtySubmodule(path string) *CLIError {
	return NewPreconditionError(
		fmt.Sprintf("submodule %s has uncommitted changes", path),
		"Commit or stash the changes in "+path+" before bumping the version",
		"Inspect them with: git -C "+path+" status",
	)
}

// InvalidBranch creates an error when a branch cannot be checked out.
func InvalidBranch(branch, path string, err error) *CLIError {
	return WrapWithMessage(err, Reference,
		fmt.Sprintf("cannot check out branch %q in %s", branch, path),
		"Check the branch name: git -C "+path+" branch -a",
		"Pass the correct branch with --web-branch <branch>",
	)
}

// DetachedHead creates an error when no branch can be inferred.
func DetachedHead() *CLIError {
	return NewReferenceError(
		"current repository is in detached HEAD state",
		"Check out a branch first, or pass --web-branch <branch>",
	)
}

// VersionNotFound creates an error when the version declaration is missing.
func VersionNotFound(path, pattern string) *CLIError {
	return &CLIError{
		Category: Extraction,
		Message:  fmt.Sprintf("no version declaration matching %q found in %s", pattern, path),
		Remediation: []string{
			"Check version_file and version_pattern in .bumpversion.yml",
		},
	}
}

// ReviewNotConfirmed creates an error when the reviewer left the instruction line in place.
func ReviewNotConfirmed(path string) *CLIError {
	return NewPreconditionError(
		fmt.Sprintf("review of %s was not confirmed", path),
		"Delete the instruction line at the top of the file in the editor to confirm",
		"No files were modified",
	)
}

// EditorNotSet creates an error when no editor can be resolved.
func EditorNotSet() *CLIError {
	return NewConfigError(
		"no editor configured for the review step",
		"Set the EDITOR environment variable, e.g. export EDITOR=vim",
		"Or set editor in .bumpversion.yml",
		"Or pass --yes to approve the generated changelogs without review",
	)
}

// ConfigParseError creates an error for an invalid config file.
func ConfigParseError(err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		"failed to load configuration",
		"Check .bumpversion.yml for syntax errors",
		"Environment overrides use the BUMPVERSION_ prefix",
	)
}

// SubmoduleNotRegistered creates an error when submodule_path names no submodule.
func SubmoduleNotRegistered(path string, err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		fmt.Sprintf("no submodule registered at %s", path),
		"Check submodule_path in .bumpversion.yml against .gitmodules",
		"Pass --skip-submodule if the submodule is checked out by other means",
	)
}

// MalformedMerge creates an error for a pull request merge commit that does
// not follow the expected header shape.
func MalformedMerge(err error) *CLIError {
	return WrapWithMessage(err, Extraction,
		"cannot parse pull request merge commit",
		"Expected header: Merge pull request #<number> from <branch>, followed by a description",
		"Set lenient_parsing: true to skip malformed merges with a warning",
	)
}

// NoChangelogMarker creates an error when the RPM spec lacks a %changelog line.
func NoChangelogMarker(path string, err error) *CLIError {
	return WrapWithMessage(err, Extraction,
		fmt.Sprintf("%s has no %%changelog section", path),
		"Add a %changelog line to the spec file, or fix rpm_spec in .bumpversion.yml",
	)
}
