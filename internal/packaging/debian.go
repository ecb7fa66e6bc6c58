// Package packaging splices rendered changelog fragments into the Debian
// changelog and the RPM spec file.
package packaging

import (
	"fmt"
	"strings"
	"time"

	"github.com/ariel-frischer/bumpversion/internal/review"
)

// Release describes the package release being prepared.
type Release struct {
	Package    string
	OldVersion string
	NewVersion string
	// Packager is the "Name <email>" identity of the changelog trailer.
	Packager string
	// Date stamps the new entries.
	Date time.Time
}

// PackageVersion is the Debian/RPM version of the release, e.g. "10.8-1".
func (r Release) PackageVersion() string {
	return r.NewVersion + "-1"
}

// DebianStanza renders one debian/changelog stanza around body, which is
// the Debian rendering of the changelog sections.
func DebianStanza(r Release, body string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s) unstable; urgency=medium\n\n", r.Package, r.PackageVersion())
	if body != "" {
		sb.WriteString(body)
		if !strings.HasSuffix(body, "\n") {
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, " -- %s  %s\n\n", r.Packager, r.Date.Format(time.RFC1123Z))
	return sb.String()
}

// DebianReviewInput is what the reviewer sees for debian/changelog: the
// instruction line, the new stanza, then the existing file.
func DebianReviewInput(r Release, body, existing string) string {
	return review.WithInstruction(DebianStanza(r, body)) + existing
}
