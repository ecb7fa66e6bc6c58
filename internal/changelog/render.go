package changelog

import (
	"fmt"
	"strings"
)

// Target selects the changelog dialect.
type Target int

const (
	// GitHub renders markdown for release notes.
	GitHub Target = iota
	// Debian renders the body of a debian/changelog stanza.
	Debian
	// Yum renders the body of an RPM spec %changelog entry.
	Yum
)

func (t Target) String() string {
	switch t {
	case GitHub:
		return "github"
	case Debian:
		return "debian"
	case Yum:
		return "yum"
	default:
		return "unknown"
	}
}

// Fragments holds one rendering of the same sections per target.
type Fragments struct {
	GitHub string
	Debian string
	Yum    string
}

// RenderAll renders sections for every target.
func RenderAll(sections []Section) Fragments {
	return Fragments{
		GitHub: Render(GitHub, sections),
		Debian: Render(Debian, sections),
		Yum:    Render(Yum, sections),
	}
}

// Render formats sections for the given target. Sections without entries
// contribute nothing. Every rendered line ends with a newline.
func Render(target Target, sections []Section) string {
	var sb strings.Builder
	first := true
	for _, s := range sections {
		if s.IsEmpty() {
			continue
		}
		switch target {
		case GitHub:
			if !first {
				sb.WriteString("\n")
			}
			fmt.Fprintf(&sb, "### %s\n", s.Repo)
			for _, e := range s.Entries {
				fmt.Fprintf(&sb, "* %s: %s\n", e.ID, e.Description)
			}
		case Debian:
			fmt.Fprintf(&sb, "  [ %s ]\n", s.Repo)
			for _, e := range s.Entries {
				fmt.Fprintf(&sb, "  * %s %s\n", packageRef(e), e.Description)
			}
		case Yum:
			for _, e := range s.Entries {
				fmt.Fprintf(&sb, "- %s %s\n", packageRef(e), e.Description)
			}
		}
		first = false
	}
	return sb.String()
}

// packageRef is the identifier with its leading '#' replaced by "PR".
func packageRef(e Entry) string {
	return "PR" + strings.TrimPrefix(e.ID, "#")
}
