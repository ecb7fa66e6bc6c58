package release

import (
	"context"
	"errors"
	"path/filepath"

	cerrors "github.com/ariel-frischer/bumpversion/internal/errors"
	"github.com/ariel-frischer/bumpversion/internal/git"
	"github.com/ariel-frischer/bumpversion/internal/logger"
)

// syncSubmodule initializes the submodule, refuses to continue when it has
// local changes, then fetches and checks out branch. Official branches come
// from the remote-tracking ref, anything else from the local branch.
// Dry runs and --skip-submodule only open the submodule (and guard against
// local changes on dry runs) so its history can be mined.
func (b *Bumper) syncSubmodule(ctx context.Context, host *git.Repo, branch string, opts Options) (*git.Repo, error) {
	path := b.Config.SubmodulePath
	mutate := !opts.DryRun && !opts.SkipSubmodule

	if mutate {
		if err := host.InitSubmodule(ctx, path); err != nil {
			if errors.Is(err, git.ErrSubmoduleNotFound) {
				return nil, cerrors.SubmoduleNotRegistered(path, err)
			}
			return nil, cerrors.WrapWithMessage(err, cerrors.Runtime, "initializing submodule "+path)
		}
	}

	web, err := git.Open(filepath.Join(host.Root(), path))
	if err != nil {
		if opts.SkipSubmodule {
			logger.Warn().Str("path", path).Err(err).Msg("submodule not available, its changes are left out")
			return nil, nil
		}
		return nil, cerrors.WrapWithMessage(err, cerrors.Runtime, "opening submodule "+path)
	}
	if web.Root() == host.Root() {
		// DetectDotGit walked up to the host: the submodule is not checked out.
		if opts.SkipSubmodule || opts.DryRun {
			logger.Warn().Str("path", path).Msg("submodule not checked out, its changes are left out")
			return nil, nil
		}
		return nil, cerrors.SubmoduleNotRegistered(path, git.ErrSubmoduleNotFound)
	}
	if opts.SkipSubmodule {
		return web, nil
	}

	dirty, err := web.IsDirty()
	if err != nil {
		return nil, cerrors.WrapWithMessage(err, cerrors.Runtime, "checking submodule "+path)
	}
	if dirty {
		return nil, cerrors.DirtySubmodule(path)
	}
	if !mutate {
		return web, nil
	}

	b.Progress.Start("Fetching " + path)
	fetchCtx, cancel := context.WithTimeout(ctx, b.Config.EffectiveFetchTimeout())
	err = web.FetchAll(fetchCtx)
	cancel()
	if err != nil {
		b.Progress.Fail("Some remotes of " + path + " could not be fetched")
		logger.Warn().Str("submodule", path).Err(err).Msg("continuing with existing remote-tracking refs")
	} else {
		b.Progress.Done("Fetched " + path)
	}

	remote := ""
	if git.IsOfficialBranch(branch, b.Config.OfficialBranches) {
		remote = b.Config.Remote
	}
	if err := web.Checkout(branch, remote); err != nil {
		return nil, cerrors.InvalidBranch(branch, path, err)
	}
	logger.Info().Str("submodule", path).Str("branch", branch).Bool("official", remote != "").Msg("submodule checked out")
	return web, nil
}
