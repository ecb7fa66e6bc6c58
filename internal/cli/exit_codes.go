package cli

import (
	cerrors "github.com/ariel-frischer/bumpversion/internal/errors"
)

// Exit codes for the bump_version CLI
// These codes let release scripts tell failure classes apart
const (
	// ExitSuccess indicates the release files were prepared
	ExitSuccess = 0

	// ExitUsage indicates a usage error or an unexpected failure
	ExitUsage = 1

	// ExitPrecondition indicates the run stopped before touching any file
	// (dirty submodule, unconfirmed review)
	ExitPrecondition = 2

	// ExitInvalidReference indicates a branch or ref that does not exist
	ExitInvalidReference = 3

	// ExitExtraction indicates a version, marker or merge header could not be parsed
	ExitExtraction = 4

	// ExitConfig indicates invalid configuration or a missing editor
	ExitConfig = 5
)

// ExitCodeFor maps an error category to the process exit code.
func ExitCodeFor(category cerrors.ErrorCategory) int {
	switch category {
	case cerrors.Precondition:
		return ExitPrecondition
	case cerrors.Reference:
		return ExitInvalidReference
	case cerrors.Extraction:
		return ExitExtraction
	case cerrors.Configuration:
		return ExitConfig
	default:
		return ExitUsage
	}
}
