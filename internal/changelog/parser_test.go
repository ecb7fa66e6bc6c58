package changelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/bumpversion/internal/git"
)

func TestParseMergeCommit(t *testing.T) {
	tests := map[string]struct {
		message string
		want    Entry
	}{
		"title only": {
			message: "Merge pull request #100 from org/fix-crash\n\nFix crash on startup\n",
			want:    Entry{ID: "#100", Number: 100, Description: "Fix crash on startup"},
		},
		"title and body joined": {
			message: "Merge pull request #42 from org/feature\n\nAdd export\n\nSupports CSV and JSON.\n",
			want:    Entry{ID: "#42", Number: 42, Description: "Add export Supports CSV and JSON."},
		},
		"whitespace runs collapse": {
			message: "Merge pull request #7 from org/x\n\n   Tidy    up\tlogging   \n",
			want:    Entry{ID: "#7", Number: 7, Description: "Tidy up logging"},
		},
		"header with surrounding whitespace": {
			message: "  Merge pull request #8 from org/y  \n\nDocs\n",
			want:    Entry{ID: "#8", Number: 8, Description: "Docs"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseMergeCommit(git.Commit{Hash: "abc", Message: tt.message}, "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMergeCommit_Malformed(t *testing.T) {
	tests := map[string]struct {
		message string
		reason  string
	}{
		"missing identifier": {
			message: "Merge pull request\n\nSomething\n",
			reason:  "missing pull request identifier",
		},
		"identifier without hash": {
			message: "Merge pull request 12 from org/x\n\nSomething\n",
			reason:  "does not start with '#'",
		},
		"non numeric identifier": {
			message: "Merge pull request #abc from org/x\n\nSomething\n",
			reason:  "not a positive number",
		},
		"missing from clause": {
			message: "Merge pull request #12\n\nSomething\n",
			reason:  "expected \"from <branch>\"",
		},
		"text before marker": {
			message: "Revert Merge pull request #12 from org/x\n\nSomething\n",
			reason:  "before the marker",
		},
		"empty description": {
			message: "Merge pull request #12 from org/x\n\n\n",
			reason:  "empty description",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseMergeCommit(git.Commit{Hash: "0123456789abcdef", Message: tt.message}, DefaultPRMarker)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedMerge)

			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Contains(t, perr.Reason, tt.reason)
			assert.Contains(t, err.Error(), "01234567")
		})
	}
}

func TestParseMergeCommit_CustomMarker(t *testing.T) {
	c := git.Commit{Message: "Merged PR #31 from team/topic\n\nFaster builds\n"}

	assert.True(t, IsPRMerge(c, "Merged PR"))
	assert.False(t, IsPRMerge(c, DefaultPRMarker))

	got, err := ParseMergeCommit(c, "Merged PR")
	require.NoError(t, err)
	assert.Equal(t, Entry{ID: "#31", Number: 31, Description: "Faster builds"}, got)
}
