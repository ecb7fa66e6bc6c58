package packaging

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ariel-frischer/bumpversion/internal/review"
	"github.com/ariel-frischer/bumpversion/internal/version"
)

// ChangelogMarker starts the %changelog section of an RPM spec.
const ChangelogMarker = "%changelog"

// rpmDateLayout is the date format of RPM changelog entry lines.
const rpmDateLayout = "Mon Jan 02 2006"

// ErrNoChangelogMarker is returned when a spec has no %changelog line.
var ErrNoChangelogMarker = errors.New("no " + ChangelogMarker + " line in spec file")

// SplitSpec splits a spec at its first %changelog line. before ends with the
// newline that precedes the marker; after starts on the line following it.
func SplitSpec(content string) (before, after string, err error) {
	offset := 0
	for offset < len(content) {
		end := strings.IndexByte(content[offset:], '\n')
		next := len(content)
		line := content[offset:]
		if end >= 0 {
			next = offset + end + 1
			line = content[offset : offset+end]
		}
		if strings.TrimRight(line, " \t\r") == ChangelogMarker {
			return content[:offset], content[next:], nil
		}
		offset = next
	}
	return "", "", ErrNoChangelogMarker
}

// RPMEntry renders the %changelog marker and one dated entry around body,
// which is the Yum rendering of the changelog sections.
func RPMEntry(r Release, body string) string {
	var sb strings.Builder
	sb.WriteString(ChangelogMarker + "\n")
	fmt.Fprintf(&sb, "* %s %s - %s\n", r.Date.Format(rpmDateLayout), r.Packager, r.PackageVersion())
	sb.WriteString(body)
	if body != "" && !strings.HasSuffix(body, "\n") {
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	return sb.String()
}

// RPMReviewInput rebuilds the whole spec for review: the preamble with the
// old version replaced, the instruction line, the new entry, then the
// existing changelog untouched.
func RPMReviewInput(r Release, body, existing string) (string, error) {
	before, after, err := SplitSpec(existing)
	if err != nil {
		return "", err
	}
	before = version.Replace(before, r.OldVersion, r.NewVersion)
	return before + review.WithInstruction(RPMEntry(r, body)) + after, nil
}
