// Package git provides the repository operations bump_version needs: branch
// detection, dirty-tree checks, fetch, checkout, submodule initialization,
// merge history and staging. It uses the go-git library throughout so the
// tool does not depend on a git CLI being installed.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

var (
	// ErrReferenceNotFound is returned when a branch or revision does not exist.
	ErrReferenceNotFound = errors.New("reference not found")
	// ErrSubmoduleNotFound is returned when no submodule is registered at a path.
	ErrSubmoduleNotFound = errors.New("submodule not found")
	// ErrDetachedHead is returned by CurrentBranch when HEAD is not a branch.
	ErrDetachedHead = errors.New("HEAD is detached")
)

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging. The logger function should format
// and output the message (similar to log.Printf signature).
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

// logDebug logs a debug message if the debug logger is set.
func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// Repo is an opened repository together with its worktree root.
type Repo struct {
	repo *git.Repository
	root string
}

// Open opens the git repository containing path (or the current working
// directory when path is empty). It traverses up the directory tree to find
// the repository root.
func Open(path string) (*Repo, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree for %s: %w", path, err)
	}

	root := worktree.Filesystem.Root()
	logDebug("[git] repository opened at root %s", root)
	return &Repo{repo: repo, root: root}, nil
}

// Root returns the absolute path to the repository root.
func (r *Repo) Root() string {
	return r.root
}

// Label returns the short repository name used as a changelog section header.
func (r *Repo) Label() string {
	return filepath.Base(r.root)
}

// CurrentBranch returns the name of the checked-out branch.
// Returns ErrDetachedHead when HEAD does not point at a branch.
func (r *Repo) CurrentBranch() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}

	if !head.Name().IsBranch() {
		logDebug("[git] CurrentBranch: detached HEAD state in %s", r.root)
		return "", ErrDetachedHead
	}

	branch := head.Name().Short()
	logDebug("[git] CurrentBranch: %s", branch)
	return branch, nil
}

// IsDirty reports whether any tracked file differs from HEAD, either in the
// index or in the working tree. Untracked files are ignored, matching
// `git diff-index --quiet HEAD`.
func (r *Repo) IsDirty() (bool, error) {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("getting worktree: %w", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return false, fmt.Errorf("getting status of %s: %w", r.root, err)
	}

	for path, fs := range status {
		if fs.Staging == git.Untracked && fs.Worktree == git.Untracked {
			continue
		}
		if fs.Staging != git.Unmodified || fs.Worktree != git.Unmodified {
			logDebug("[git] IsDirty: %s changed (%c%c)", path, fs.Staging, fs.Worktree)
			return true, nil
		}
	}
	return false, nil
}

// Checkout switches the worktree to branch. When remote is non-empty the
// remote-tracking ref refs/remotes/<remote>/<branch> is checked out (detached
// HEAD); otherwise the local branch refs/heads/<branch> is used.
// A missing ref is reported as ErrReferenceNotFound.
func (r *Repo) Checkout(branch, remote string) error {
	refName := plumbing.NewBranchReferenceName(branch)
	if remote != "" {
		refName = plumbing.NewRemoteReferenceName(remote, branch)
	}

	if _, err := r.repo.Reference(refName, true); err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return fmt.Errorf("%s: %w", refName, ErrReferenceNotFound)
		}
		return fmt.Errorf("resolving %s: %w", refName, err)
	}

	worktree, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	if err := worktree.Checkout(&git.CheckoutOptions{Branch: refName}); err != nil {
		return fmt.Errorf("checking out %s: %w", refName, err)
	}

	logDebug("[git] Checkout: %s now at %s", r.root, refName)
	return nil
}

// InitSubmodule makes sure the submodule registered at path is cloned and
// checked out. An already-initialized submodule is left untouched so local
// work is never reset.
func (r *Repo) InitSubmodule(ctx context.Context, path string) error {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	submodules, err := worktree.Submodules()
	if err != nil {
		return fmt.Errorf("listing submodules: %w", err)
	}

	clean := filepath.ToSlash(filepath.Clean(path))
	for _, sub := range submodules {
		if sub.Config().Path != clean {
			continue
		}

		status, err := sub.Status()
		if err != nil {
			return fmt.Errorf("getting status of submodule %s: %w", path, err)
		}
		if !status.Current.IsZero() {
			logDebug("[git] InitSubmodule: %s already initialized at %s", path, status.Current)
			return nil
		}

		logDebug("[git] InitSubmodule: initializing %s", path)
		if err := sub.UpdateContext(ctx, &git.SubmoduleUpdateOptions{Init: true}); err != nil {
			return fmt.Errorf("initializing submodule %s: %w", path, err)
		}
		return nil
	}

	return fmt.Errorf("%s: %w", path, ErrSubmoduleNotFound)
}

// Add stages the given paths. Absolute paths must lie inside the repository.
func (r *Repo) Add(paths ...string) error {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	for _, p := range paths {
		rel, err := r.relative(p)
		if err != nil {
			return err
		}
		if _, err := worktree.Add(rel); err != nil {
			return fmt.Errorf("staging %s: %w", rel, err)
		}
		logDebug("[git] Add: staged %s", rel)
	}
	return nil
}

// Status returns the short status listing of the worktree.
func (r *Repo) Status() (string, error) {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return "", fmt.Errorf("getting status of %s: %w", r.root, err)
	}
	return status.String(), nil
}

// relative converts p into a slash-separated path relative to the root.
func (r *Repo) relative(p string) (string, error) {
	if !filepath.IsAbs(p) {
		return filepath.ToSlash(filepath.Clean(p)), nil
	}
	rel, err := filepath.Rel(r.root, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%s is outside repository %s", p, r.root)
	}
	return filepath.ToSlash(rel), nil
}

// FetchAll fetches from all configured remotes with context support.
// A remote that cannot be fetched does not stop the others: the returned
// error joins one error per failed remote, each naming the remote. Callers
// may treat it as a warning, since a stale remote-tracking ref shows up later
// as a checkout failure naming the branch.
func (r *Repo) FetchAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		logDebug("[git] FetchAll: context already cancelled")
		return nil
	}

	remotes, err := r.repo.Remotes()
	if err != nil {
		logDebug("[git] FetchAll: no remotes: %v", err)
		return nil
	}

	if len(remotes) == 0 {
		logDebug("[git] FetchAll: no remotes configured")
		return nil
	}

	var failures []error
	for _, remote := range remotes {
		if err := ctx.Err(); err != nil {
			logDebug("[git] FetchAll: context cancelled, stopping fetch")
			break
		}
		if err := fetchRemoteWithContext(ctx, r.repo, remote); err != nil {
			failures = append(failures, fmt.Errorf("fetching remote %q: %w", remote.Config().Name, err))
		}
	}

	logDebug("[git] FetchAll: completed, %d of %d remotes failed", len(failures), len(remotes))
	return errors.Join(failures...)
}

// getAuthForURL returns the appropriate authentication method for a remote URL.
// SSH URLs use SSH agent auth, HTTPS URLs use environment credentials.
func getAuthForURL(url string) transport.AuthMethod {
	if isSSHURL(url) {
		auth, err := ssh.NewSSHAgentAuth("git")
		if err != nil {
			logDebug("[git] SSH agent auth failed: %v", err)
			return nil
		}
		return auth
	}

	username := os.Getenv("GIT_USERNAME")
	password := os.Getenv("GIT_PASSWORD")
	if username == "" {
		username = os.Getenv("GITHUB_TOKEN")
		if username != "" {
			password = "" // GitHub token can be used as username with empty password
		}
	}

	if username != "" {
		return &http.BasicAuth{
			Username: username,
			Password: password,
		}
	}

	return nil
}

// isSSHURL checks if a URL is an SSH URL.
// Detects git@ (SCP-style), ssh://, and git+ssh:// schemes.
func isSSHURL(url string) bool {
	return strings.HasPrefix(url, "git@") ||
		strings.HasPrefix(url, "ssh://") ||
		strings.HasPrefix(url, "git+ssh://")
}

// isSSHAgentAvailable checks if an SSH agent is available.
// Returns true only if SSH_AUTH_SOCK is set and non-empty.
func isSSHAgentAvailable() bool {
	return strings.TrimSpace(os.Getenv("SSH_AUTH_SOCK")) != ""
}

// fetchRemoteWithContext fetches from a single remote with context and authentication.
// Skips SSH remotes when no SSH agent is available. Handles timeout gracefully.
func fetchRemoteWithContext(ctx context.Context, repo *git.Repository, remote *git.Remote) error {
	remoteConfig := remote.Config()
	if len(remoteConfig.URLs) == 0 {
		return nil
	}

	url := remoteConfig.URLs[0]

	if isSSHURL(url) && !isSSHAgentAvailable() {
		logDebug("[git] skipping fetch from remote '%s': SSH URL without SSH agent available", remoteConfig.Name)
		return nil
	}

	auth := getAuthForURL(url)
	logDebug("[git] fetching from remote '%s' (%s)", remoteConfig.Name, url)

	err := repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: remoteConfig.Name,
		Auth:       auth,
		Prune:      true,
		RefSpecs:   []config.RefSpec{config.RefSpec("+refs/heads/*:refs/remotes/" + remoteConfig.Name + "/*")},
	})

	if ctx.Err() != nil {
		logDebug("[git] fetch from remote '%s' timed out or cancelled", remoteConfig.Name)
		return nil
	}

	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}

	return err
}
