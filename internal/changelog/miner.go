package changelog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ariel-frischer/bumpversion/internal/config"
	"github.com/ariel-frischer/bumpversion/internal/git"
	"github.com/ariel-frischer/bumpversion/internal/logger"
)

// Miner collects the pull requests merged into a repository since its
// previous release merge.
type Miner struct {
	// ReleasePattern locates the previous release merge; config.VersionPlaceholder
	// is replaced with the old version.
	ReleasePattern string
	// PRMarker identifies pull request merges (DefaultPRMarker when empty).
	PRMarker string
	// Lenient skips malformed pull request merges with a warning instead of
	// failing the run.
	Lenient bool
}

// NewMiner builds a Miner from the loaded configuration.
func NewMiner(cfg *config.Configuration) *Miner {
	return &Miner{
		ReleasePattern: cfg.ReleaseMergePattern,
		PRMarker:       cfg.PRMergeMarker,
		Lenient:        cfg.LenientParsing,
	}
}

// ReleaseMarker renders the release pattern for oldVersion.
func (m *Miner) ReleaseMarker(oldVersion string) string {
	return strings.ReplaceAll(m.ReleasePattern, config.VersionPlaceholder, oldVersion)
}

func (m *Miner) prMarker() string {
	if m.PRMarker == "" {
		return DefaultPRMarker
	}
	return m.PRMarker
}

// Mine returns the section of pull requests merged after the newest release
// merge of oldVersion. The bool is false when the repository has no such
// release merge; that is not an error and the repository contributes nothing.
func (m *Miner) Mine(ctx context.Context, h History, oldVersion string) (Section, bool, error) {
	label := h.Label()
	marker := m.ReleaseMarker(oldVersion)

	all, err := h.MergeCommits(ctx, "")
	if err != nil {
		return Section{}, false, fmt.Errorf("listing merge commits of %s: %w", label, err)
	}

	release, found := findRelease(all, marker)
	if !found {
		logger.Info().Str("repo", label).Str("marker", marker).Msg("no release merge found, skipping changelog")
		return Section{}, false, nil
	}
	logger.Debug().Str("repo", label).Str("commit", shortHash(release.Hash)).Msg("found release merge")

	merges, err := h.MergeCommits(ctx, release.Hash)
	if err != nil {
		return Section{}, false, fmt.Errorf("listing merge commits of %s since %s: %w", label, shortHash(release.Hash), err)
	}

	section := Section{Repo: label}
	prMarker := m.prMarker()
	for _, c := range merges {
		if !IsPRMerge(c, prMarker) {
			continue
		}
		entry, err := ParseMergeCommit(c, prMarker)
		if err != nil {
			var perr *ParseError
			if m.Lenient && errors.As(err, &perr) {
				logger.Warn().Str("repo", label).Err(err).Msg("skipping malformed pull request merge")
				continue
			}
			return Section{}, true, fmt.Errorf("%s: %w", label, err)
		}
		section.Entries = append(section.Entries, entry)
	}

	sortEntries(section.Entries)
	logger.Debug().Str("repo", label).Int("entries", len(section.Entries)).Msg("mined pull requests")
	return section, true, nil
}

// findRelease returns the newest commit whose summary contains marker.
// commits are ordered newest first.
func findRelease(commits []git.Commit, marker string) (git.Commit, bool) {
	for _, c := range commits {
		if strings.Contains(c.Summary(), marker) {
			return c, true
		}
	}
	return git.Commit{}, false
}
