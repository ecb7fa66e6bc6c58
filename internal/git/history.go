package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Commit is a merge commit as seen by the changelog miner.
type Commit struct {
	Hash    string
	Message string
}

// Summary returns the first line of the commit message.
func (c Commit) Summary() string {
	summary, _, _ := strings.Cut(c.Message, "\n")
	return strings.TrimSpace(summary)
}

// MergeCommits returns the merge commits reachable from HEAD, newest first
// by committer time. When since is non-empty, commits reachable from since
// (including since itself) are excluded, i.e. the range since..HEAD.
func (r *Repo) MergeCommits(ctx context.Context, since string) ([]Commit, error) {
	head, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("getting HEAD reference: %w", err)
	}

	exclude, err := r.ancestors(ctx, since)
	if err != nil {
		return nil, err
	}

	iter, err := r.repo.Log(&git.LogOptions{
		From:  head.Hash(),
		Order: git.LogOrderCommitterTime,
	})
	if err != nil {
		return nil, fmt.Errorf("reading log of %s: %w", r.root, err)
	}
	defer iter.Close()

	var commits []Commit
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, skip := exclude[c.Hash]; skip {
			return nil
		}
		if c.NumParents() < 2 {
			return nil
		}
		commits = append(commits, Commit{Hash: c.Hash.String(), Message: c.Message})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking log of %s: %w", r.root, err)
	}

	logDebug("[git] MergeCommits: %d merges in %s since %q", len(commits), r.Label(), since)
	return commits, nil
}

// ancestors collects since and every commit reachable from it.
func (r *Repo) ancestors(ctx context.Context, since string) (map[plumbing.Hash]struct{}, error) {
	seen := make(map[plumbing.Hash]struct{})
	if since == "" {
		return seen, nil
	}

	hash, err := r.repo.ResolveRevision(plumbing.Revision(since))
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, fmt.Errorf("%s: %w", since, ErrReferenceNotFound)
		}
		return nil, fmt.Errorf("resolving %s: %w", since, err)
	}

	base, err := r.repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("loading commit %s: %w", since, err)
	}

	iter := object.NewCommitPreorderIter(base, nil, nil)
	defer iter.Close()

	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		seen[c.Hash] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking ancestors of %s: %w", since, err)
	}
	return seen, nil
}
