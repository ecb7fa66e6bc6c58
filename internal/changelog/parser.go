package changelog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ariel-frischer/bumpversion/internal/git"
)

// DefaultPRMarker is the summary text GitHub writes for pull request merges.
const DefaultPRMarker = "Merge pull request"

// ErrMalformedMerge is matched by every ParseError via errors.Is.
var ErrMalformedMerge = errors.New("malformed pull request merge")

// ParseError describes a merge commit that carries the PR marker but does
// not follow the expected shape:
//
//	Merge pull request #<n> from <ref>
//
//	<title and body lines>
type ParseError struct {
	Hash    string
	Summary string
	Reason  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("commit %s: %s %q: %s", shortHash(e.Hash), ErrMalformedMerge, e.Summary, e.Reason)
}

// Is lets errors.Is(err, ErrMalformedMerge) match any ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrMalformedMerge
}

// IsPRMerge reports whether the commit summary carries the marker.
func IsPRMerge(c git.Commit, marker string) bool {
	return strings.Contains(c.Summary(), marker)
}

// ParseMergeCommit parses a pull request merge commit into an Entry.
// The identifier is the token right after the marker words ("#1234" for the
// default marker, i.e. the 4th whitespace token of the header). Every other
// non-empty line of the message is description; the lines are joined with
// single spaces and whitespace runs are collapsed.
func ParseMergeCommit(c git.Commit, marker string) (Entry, error) {
	if marker == "" {
		marker = DefaultPRMarker
	}

	lines := strings.Split(c.Message, "\n")
	headerIdx := -1
	for i, line := range lines {
		if strings.Contains(line, marker) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return Entry{}, &ParseError{Hash: c.Hash, Summary: c.Summary(), Reason: "no header line containing " + strconv.Quote(marker)}
	}

	header := strings.TrimSpace(lines[headerIdx])
	id, number, err := parseHeader(header, marker)
	if err != nil {
		return Entry{}, &ParseError{Hash: c.Hash, Summary: header, Reason: err.Error()}
	}

	var body []string
	for i, line := range lines {
		if i == headerIdx {
			continue
		}
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			body = append(body, trimmed)
		}
	}

	description := collapseSpaces(strings.Join(body, " "))
	if description == "" {
		return Entry{}, &ParseError{Hash: c.Hash, Summary: header, Reason: "empty description"}
	}

	return Entry{ID: id, Number: number, Description: description}, nil
}

// parseHeader validates "<marker> #<n> from <ref>" and returns "#<n>" and n.
func parseHeader(header, marker string) (string, int, error) {
	prefix := header[:strings.Index(header, marker)]
	if strings.TrimSpace(prefix) != "" {
		return "", 0, fmt.Errorf("unexpected text %q before the marker", strings.TrimSpace(prefix))
	}

	fields := strings.Fields(header)
	idIdx := len(strings.Fields(marker))
	if len(fields) <= idIdx {
		return "", 0, errors.New("missing pull request identifier")
	}

	id := fields[idIdx]
	if !strings.HasPrefix(id, "#") {
		return "", 0, fmt.Errorf("identifier %q does not start with '#'", id)
	}
	number, err := strconv.Atoi(id[1:])
	if err != nil || number <= 0 {
		return "", 0, fmt.Errorf("identifier %q is not a positive number", id)
	}

	rest := fields[idIdx+1:]
	if len(rest) != 2 || rest[0] != "from" {
		return "", 0, errors.New("expected \"from <branch>\" after the identifier")
	}

	return id, number, nil
}

// collapseSpaces replaces every run of whitespace with a single space.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
