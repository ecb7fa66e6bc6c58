// Package version finds and rewrites the product version declared in the
// version file.
package version

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrVersionNotFound is returned when the version pattern does not match.
var ErrVersionNotFound = errors.New("version declaration not found")

var dottedNumeric = regexp.MustCompile(`^\d+(\.\d+)+$`)

// IsValid reports whether v is a dotted-numeric version such as "10.8" or "1.2.3".
func IsValid(v string) bool {
	return dottedNumeric.MatchString(v)
}

// Compile compiles a version pattern and checks it has exactly one capture group.
func Compile(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid version pattern: %w", err)
	}
	if re.NumSubexp() != 1 {
		return nil, fmt.Errorf("version pattern %q must have exactly one capture group, has %d", pattern, re.NumSubexp())
	}
	return re, nil
}

// Extract returns the version captured by the first match of pattern.
func Extract(content, pattern string) (string, error) {
	re, err := Compile(pattern)
	if err != nil {
		return "", err
	}
	m := re.FindStringSubmatch(content)
	if m == nil || m[1] == "" {
		return "", ErrVersionNotFound
	}
	if !IsValid(m[1]) {
		return "", fmt.Errorf("%w: captured %q is not a dotted-numeric version", ErrVersionNotFound, m[1])
	}
	return m[1], nil
}

// Replace substitutes every literal occurrence of old with new, including
// occurrences outside the version declaration.
func Replace(content, old, new string) string {
	if old == "" {
		return content
	}
	return strings.ReplaceAll(content, old, new)
}

// ReplaceScoped rewrites only the capture group of the first match of pattern.
func ReplaceScoped(content, pattern, new string) (string, error) {
	re, err := Compile(pattern)
	if err != nil {
		return "", err
	}
	loc := re.FindStringSubmatchIndex(content)
	if loc == nil || loc[2] < 0 {
		return "", ErrVersionNotFound
	}
	return content[:loc[2]] + new + content[loc[3]:], nil
}

// Bump is the result of rewriting a version file.
type Bump struct {
	Old     string
	New     string
	Content string
}

// Rewrite extracts the old version from content and returns the rewritten
// content. scoped selects ReplaceScoped over Replace.
func Rewrite(content, pattern, newVersion string, scoped bool) (Bump, error) {
	old, err := Extract(content, pattern)
	if err != nil {
		return Bump{}, err
	}

	b := Bump{Old: old, New: newVersion}
	if scoped {
		b.Content, err = ReplaceScoped(content, pattern, newVersion)
		if err != nil {
			return Bump{}, err
		}
		return b, nil
	}
	b.Content = Replace(content, old, newVersion)
	return b, nil
}
