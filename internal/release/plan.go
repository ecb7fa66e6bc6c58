package release

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/ariel-frischer/bumpversion/internal/changelog"
	"github.com/ariel-frischer/bumpversion/internal/diff"
	cerrors "github.com/ariel-frischer/bumpversion/internal/errors"
	"github.com/ariel-frischer/bumpversion/internal/fsutil"
	"github.com/ariel-frischer/bumpversion/internal/git"
	"github.com/ariel-frischer/bumpversion/internal/logger"
	"github.com/ariel-frischer/bumpversion/internal/packaging"
	"github.com/ariel-frischer/bumpversion/internal/review"
	"github.com/ariel-frischer/bumpversion/internal/version"
)

// change is one file's current and reviewed content.
type change struct {
	rel      string
	abs      string
	current  string
	proposed string
}

// plan holds every file change of the run, in install order.
type plan struct {
	changes []change
}

func (p *plan) paths() []string {
	paths := make([]string, 0, len(p.changes))
	for _, c := range p.changes {
		paths = append(paths, c.rel)
	}
	return paths
}

func (p *plan) printDiffs(w io.Writer, colorize bool) error {
	for _, c := range p.changes {
		if err := diff.File(w, c.rel, c.current, c.proposed, colorize); err != nil {
			return err
		}
	}
	return nil
}

func (p *plan) install() error {
	tx := fsutil.NewTransaction()
	for _, c := range p.changes {
		tx.Stage(c.abs, []byte(c.proposed))
	}
	return tx.Commit()
}

// plan builds both package changelogs, then runs them through review.
// Both are built before the first review so a broken spec file fails the run
// before anyone is asked to review.
func (b *Bumper) plan(ctx context.Context, host *git.Repo, bump version.Bump, frags changelog.Fragments) (*plan, error) {
	rel := packaging.Release{
		Package:    b.Config.PackageName,
		OldVersion: bump.Old,
		NewVersion: bump.New,
		Packager:   b.Config.Packager,
		Date:       b.Clock.Now(),
	}
	root := host.Root()

	versionFile := filepath.Join(root, b.Config.VersionFile)
	versionCurrent, err := os.ReadFile(versionFile)
	if err != nil {
		return nil, cerrors.WrapWithMessage(err, cerrors.Runtime, "reading "+b.Config.VersionFile)
	}

	debPath := filepath.Join(root, b.Config.DebianChangelog)
	debCurrent, err := readOptional(debPath)
	if err != nil {
		return nil, cerrors.WrapWithMessage(err, cerrors.Runtime, "reading "+b.Config.DebianChangelog)
	}
	debInput := packaging.DebianReviewInput(rel, frags.Debian, debCurrent)

	rpmPath := filepath.Join(root, b.Config.RPMSpec)
	rpmCurrent, err := os.ReadFile(rpmPath)
	if err != nil {
		return nil, cerrors.WrapWithMessage(err, cerrors.Configuration, "reading "+b.Config.RPMSpec,
			"Check rpm_spec in .bumpversion.yml")
	}
	rpmInput, err := packaging.RPMReviewInput(rel, frags.Yum, string(rpmCurrent))
	if errors.Is(err, packaging.ErrNoChangelogMarker) {
		return nil, cerrors.NoChangelogMarker(b.Config.RPMSpec, err)
	}
	if err != nil {
		return nil, cerrors.Wrap(err, cerrors.Runtime)
	}

	debReviewed, err := b.review(ctx, b.Config.DebianChangelog, debInput)
	if err != nil {
		return nil, err
	}
	rpmReviewed, err := b.review(ctx, b.Config.RPMSpec, rpmInput)
	if err != nil {
		return nil, err
	}

	return &plan{changes: []change{
		{rel: b.Config.VersionFile, abs: versionFile, current: string(versionCurrent), proposed: bump.Content},
		{rel: b.Config.DebianChangelog, abs: debPath, current: debCurrent, proposed: debReviewed},
		{rel: b.Config.RPMSpec, abs: rpmPath, current: string(rpmCurrent), proposed: rpmReviewed},
	}}, nil
}

func (b *Bumper) review(ctx context.Context, name, content string) (string, error) {
	reviewed, err := review.Gate(ctx, b.Reviewer, name, content)
	if errors.Is(err, review.ErrReviewNotConfirmed) {
		b.Progress.Fail("Review of " + name + " not confirmed")
		return "", cerrors.ReviewNotConfirmed(name)
	}
	if err != nil {
		b.Progress.Fail("Review of " + name + " failed")
		return "", cerrors.Wrap(err, cerrors.Runtime)
	}
	b.Progress.Done("Reviewed " + name)
	return reviewed, nil
}

// readOptional reads path, treating a missing file as empty.
func readOptional(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Warn().Str("path", path).Msg("file does not exist yet, it will be created")
		return "", nil
	}
	return string(data), err
}
