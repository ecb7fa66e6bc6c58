package changelog

import (
	"context"
	"sort"

	"github.com/ariel-frischer/bumpversion/internal/git"
)

//go:generate mockgen -destination=mocks/history_mock.go -package=mocks github.com/ariel-frischer/bumpversion/internal/changelog History

// History lists merge commits of one repository.
type History interface {
	// Label is the short repository name used as a section header.
	Label() string
	// MergeCommits returns merge commits reachable from HEAD but not from
	// since (all of them when since is empty), newest first.
	MergeCommits(ctx context.Context, since string) ([]git.Commit, error)
}

// Entry is one merged pull request.
type Entry struct {
	// ID is the identifier as written in the merge header, e.g. "#1234".
	ID string
	// Number is the numeric part of ID, used for ordering.
	Number int
	// Description is the pull request title and body collapsed to one line.
	Description string
}

// Section holds the entries contributed by one repository.
type Section struct {
	Repo    string
	Entries []Entry
}

// IsEmpty returns true if the section contributes no entries.
func (s Section) IsEmpty() bool {
	return len(s.Entries) == 0
}

// sortEntries orders entries by ascending PR number; equal numbers keep
// their history order.
func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Number < entries[j].Number
	})
}
