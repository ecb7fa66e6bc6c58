// Package release runs the version bump pipeline: branch resolution,
// submodule sync, version rewrite, changelog mining and rendering, review,
// and the transactional install of the three release files.
package release

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jonboulle/clockwork"

	"github.com/ariel-frischer/bumpversion/internal/changelog"
	"github.com/ariel-frischer/bumpversion/internal/config"
	cerrors "github.com/ariel-frischer/bumpversion/internal/errors"
	"github.com/ariel-frischer/bumpversion/internal/git"
	"github.com/ariel-frischer/bumpversion/internal/logger"
	"github.com/ariel-frischer/bumpversion/internal/progress"
	"github.com/ariel-frischer/bumpversion/internal/review"
	"github.com/ariel-frischer/bumpversion/internal/version"
)

// Options are the per-run inputs from the command line.
type Options struct {
	// NewVersion is the dotted-numeric version being released.
	NewVersion string
	// WebBranch is checked out in the submodule. Empty means the host
	// repository's current branch.
	WebBranch string
	// DryRun prints diffs instead of installing files and leaves the
	// submodule checkout alone.
	DryRun bool
	// SkipSubmodule skips init, fetch and checkout of the submodule.
	SkipSubmodule bool
}

// Result describes a finished run.
type Result struct {
	OldVersion string
	NewVersion string
	Branch     string
	Sections   []changelog.Section
	Fragments  changelog.Fragments
	// Files are the repository-relative paths that were (or, on a dry run,
	// would be) rewritten.
	Files []string
}

// Bumper runs the pipeline against one host repository.
type Bumper struct {
	Config   *config.Configuration
	Root     string
	Reviewer review.Reviewer
	Clock    clockwork.Clock
	Stdout   io.Writer
	Progress *progress.Reporter
	// ColorDiff colors dry-run diffs.
	ColorDiff bool
}

// New returns a Bumper for the repository containing root with real clock
// and standard output.
func New(cfg *config.Configuration, root string, reviewer review.Reviewer) *Bumper {
	return &Bumper{
		Config:   cfg,
		Root:     root,
		Reviewer: reviewer,
		Clock:    clockwork.NewRealClock(),
		Stdout:   os.Stdout,
		Progress: progress.NewReporter(),
	}
}

// Run executes the pipeline. Nothing is written before every review gate
// has passed; the three files are then installed together or not at all.
func (b *Bumper) Run(ctx context.Context, opts Options) (*Result, error) {
	if !version.IsValid(opts.NewVersion) {
		return nil, cerrors.InvalidVersion(opts.NewVersion)
	}

	host, err := git.Open(b.Root)
	if err != nil {
		return nil, cerrors.WrapWithMessage(err, cerrors.Runtime, "opening host repository")
	}

	branch, err := b.resolveBranch(host, opts.WebBranch)
	if err != nil {
		return nil, err
	}
	res := &Result{NewVersion: opts.NewVersion, Branch: branch}

	web, err := b.syncSubmodule(ctx, host, branch, opts)
	if err != nil {
		return nil, err
	}

	bump, err := b.bumpVersionFile(host, opts.NewVersion)
	if err != nil {
		return nil, err
	}
	res.OldVersion = bump.Old

	res.Sections, err = b.mine(ctx, bump.Old, host, web)
	if err != nil {
		return nil, err
	}
	res.Fragments = changelog.RenderAll(res.Sections)

	plan, err := b.plan(ctx, host, bump, res.Fragments)
	if err != nil {
		return nil, err
	}
	res.Files = plan.paths()

	if opts.DryRun {
		if err := plan.printDiffs(b.Stdout, b.ColorDiff); err != nil {
			return nil, cerrors.Wrap(err, cerrors.Runtime)
		}
		fmt.Fprint(b.Stdout, res.Fragments.GitHub)
		return res, nil
	}

	if err := plan.install(); err != nil {
		return nil, cerrors.WrapWithMessage(err, cerrors.Runtime, "installing release files",
			"Files already replaced were restored; check permissions and retry")
	}
	if err := b.finalize(host, plan.paths(), res.Fragments.GitHub); err != nil {
		return nil, err
	}
	return res, nil
}

// resolveBranch returns the requested branch or the host's current branch.
func (b *Bumper) resolveBranch(host *git.Repo, requested string) (string, error) {
	if requested != "" {
		return requested, nil
	}
	branch, err := host.CurrentBranch()
	if errors.Is(err, git.ErrDetachedHead) {
		return "", cerrors.DetachedHead()
	}
	if err != nil {
		return "", cerrors.WrapWithMessage(err, cerrors.Runtime, "reading current branch")
	}
	logger.Debug().Str("branch", branch).Msg("using host branch for submodule")
	return branch, nil
}

// bumpVersionFile reads the version file and computes its new content.
func (b *Bumper) bumpVersionFile(host *git.Repo, newVersion string) (version.Bump, error) {
	path := filepath.Join(host.Root(), b.Config.VersionFile)
	content, err := os.ReadFile(path)
	if err != nil {
		return version.Bump{}, cerrors.WrapWithMessage(err, cerrors.Configuration,
			"reading version file", "Check version_file in .bumpversion.yml")
	}

	bump, err := version.Rewrite(string(content), b.Config.VersionPattern, newVersion, b.Config.ScopedVersionRewrite)
	if errors.Is(err, version.ErrVersionNotFound) {
		return version.Bump{}, cerrors.VersionNotFound(b.Config.VersionFile, b.Config.VersionPattern)
	}
	if err != nil {
		return version.Bump{}, cerrors.Wrap(err, cerrors.Configuration)
	}

	if bump.Old == bump.New {
		logger.Warn().Str("version", bump.Old).Msg("new version equals current version")
	}
	logger.Info().Str("from", bump.Old).Str("to", bump.New).Str("file", b.Config.VersionFile).Msg("version bump")
	return bump, nil
}

// mine collects one section per repository that has a previous release
// merge, host first.
func (b *Bumper) mine(ctx context.Context, oldVersion string, repos ...*git.Repo) ([]changelog.Section, error) {
	miner := changelog.NewMiner(b.Config)
	var sections []changelog.Section
	for _, repo := range repos {
		if repo == nil {
			continue
		}
		section, found, err := miner.Mine(ctx, repo, oldVersion)
		if errors.Is(err, changelog.ErrMalformedMerge) {
			return nil, cerrors.MalformedMerge(err)
		}
		if err != nil {
			return nil, cerrors.WrapWithMessage(err, cerrors.Runtime, "reading merge history")
		}
		if found {
			sections = append(sections, section)
		}
	}
	return sections, nil
}

// finalize stages the installed files, prints the status and the GitHub
// changelog.
func (b *Bumper) finalize(host *git.Repo, paths []string, github string) error {
	if err := host.Add(paths...); err != nil {
		return cerrors.WrapWithMessage(err, cerrors.Runtime, "staging release files",
			"Files are installed; stage them manually with git add")
	}
	status, err := host.Status()
	if err != nil {
		return cerrors.WrapWithMessage(err, cerrors.Runtime, "reading repository status")
	}
	fmt.Fprint(b.Stdout, status)
	if status != "" && github != "" {
		fmt.Fprintln(b.Stdout)
	}
	fmt.Fprint(b.Stdout, github)
	return nil
}
