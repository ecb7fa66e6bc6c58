package git

import "github.com/bmatcuk/doublestar/v4"

// IsOfficialBranch reports whether branch matches one of the glob patterns
// (e.g. "master", "release-*"). Official branches are checked out from their
// remote-tracking ref; anything else is treated as a local test branch.
func IsOfficialBranch(branch string, patterns []string) bool {
	for _, pattern := range patterns {
		ok, err := doublestar.Match(pattern, branch)
		if err != nil {
			logDebug("[git] IsOfficialBranch: bad pattern %q: %v", pattern, err)
			continue
		}
		if ok {
			return true
		}
	}
	return false
}
