package testutil

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// GitRepo is an on-disk repository for tests. Commits get increasing
// timestamps so history order is deterministic.
type GitRepo struct {
	t       *testing.T
	Dir     string
	Repo    *git.Repository
	wt      *git.Worktree
	tracked []string
	tick    int
}

// NewGitRepo initializes a repository at dir, creating the directory.
func NewGitRepo(t *testing.T, dir string) *GitRepo {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("creating %s: %v", dir, err)
	}
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("initializing repository: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("getting worktree: %v", err)
	}
	return &GitRepo{t: t, Dir: dir, Repo: repo, wt: wt}
}

// WriteFile writes a file relative to the repository root and marks it to be
// included in the next commit.
func (g *GitRepo) WriteFile(rel, content string) {
	g.t.Helper()
	path := filepath.Join(g.Dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		g.t.Fatalf("creating directory for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		g.t.Fatalf("writing %s: %v", rel, err)
	}
	g.tracked = append(g.tracked, filepath.ToSlash(rel))
}

// ReadFile returns the content of a file relative to the repository root.
func (g *GitRepo) ReadFile(rel string) string {
	g.t.Helper()
	data, err := os.ReadFile(filepath.Join(g.Dir, rel))
	if err != nil {
		g.t.Fatalf("reading %s: %v", rel, err)
	}
	return string(data)
}

// Commit stages the files written since the last commit and commits them
// with the given parents (HEAD when none). The current branch moves to the
// new commit.
func (g *GitRepo) Commit(msg string, parents ...plumbing.Hash) plumbing.Hash {
	g.t.Helper()
	g.tick++
	if len(g.tracked) == 0 {
		g.WriteFile(fmt.Sprintf("history/%03d.txt", g.tick), msg+"\n")
	}
	for _, rel := range g.tracked {
		if _, err := g.wt.Add(rel); err != nil {
			g.t.Fatalf("staging %s: %v", rel, err)
		}
	}
	g.tracked = nil

	hash, err := g.wt.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test",
			Email: "test@test.com",
			When:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(g.tick) * time.Minute),
		},
		Parents: parents,
	})
	if err != nil {
		g.t.Fatalf("committing %q: %v", msg, err)
	}
	return hash
}

// Head returns the commit HEAD points at.
func (g *GitRepo) Head() plumbing.Hash {
	g.t.Helper()
	ref, err := g.Repo.Head()
	if err != nil {
		g.t.Fatalf("resolving HEAD: %v", err)
	}
	return ref.Hash()
}

// Merge commits a side change on top of HEAD and merges it back with msg.
func (g *GitRepo) Merge(msg string) plumbing.Hash {
	g.t.Helper()
	base := g.Head()
	side := g.Commit("side work for: "+msg, base)
	return g.Commit(msg, base, side)
}

// MergePR merges a pull request in GitHub's merge commit format.
func (g *GitRepo) MergePR(number int, branch, title string) plumbing.Hash {
	g.t.Helper()
	return g.Merge(fmt.Sprintf("Merge pull request #%d from org/%s\n\n%s\n", number, branch, title))
}

// Detach checks out hash without a branch.
func (g *GitRepo) Detach(hash plumbing.Hash) {
	g.t.Helper()
	if err := g.wt.Checkout(&git.CheckoutOptions{Hash: hash}); err != nil {
		g.t.Fatalf("checking out %s: %v", hash, err)
	}
}

// Branch points the local branch name at HEAD without checking it out.
func (g *GitRepo) Branch(name string) {
	g.t.Helper()
	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), g.Head())
	if err := g.Repo.Storer.SetReference(ref); err != nil {
		g.t.Fatalf("creating branch %s: %v", name, err)
	}
}

// AddSubmodule registers url as a submodule at path and commits it. It uses
// the git binary because go-git cannot add submodules; callers should skip
// with RequireGit first.
func (g *GitRepo) AddSubmodule(url, path string) {
	g.t.Helper()
	g.Git("-c", "protocol.file.allow=always", "submodule", "add", "-q", url, path)
	g.Git("commit", "-q", "-m", "Add "+path+" submodule")
}

// Git runs the git binary in the repository and returns its trimmed output.
func (g *GitRepo) Git(args ...string) string {
	g.t.Helper()
	return RunGit(g.t, g.Dir, args...)
}

// RequireGit skips the test when the git binary is not installed.
func RequireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
}

// RunGit runs git in dir with a fixed identity and no user or system config.
func RunGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_CONFIG_NOSYSTEM=1",
		"GIT_CONFIG_GLOBAL="+os.DevNull,
		"GIT_AUTHOR_NAME=Test",
		"GIT_AUTHOR_EMAIL=test@test.com",
		"GIT_COMMITTER_NAME=Test",
		"GIT_COMMITTER_EMAIL=test@test.com",
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return strings.TrimSpace(string(out))
}
