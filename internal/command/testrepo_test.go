package command

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/git-loom/loom/internal/vcsexec"
)

// requireGit skips the test when no git binary is on PATH.
func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found on PATH")
	}
}

// runGit runs git in dir, failing the test on error.
func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.CommandContext(context.Background(), "git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=loom", "GIT_AUTHOR_EMAIL=loom@example.com",
		"GIT_COMMITTER_NAME=loom", "GIT_COMMITTER_EMAIL=loom@example.com",
	)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
}

// newIntegrationRepo builds a repo with a "main" branch (one commit),
// a "feature" branch with one commit merged into "integration" via a
// merge commit, and "integration" checked out at that merge tracking
// "main" — the minimal shape topology.Build needs.
func newIntegrationRepo(t *testing.T) *vcsexec.Repo {
	t.Helper()
	requireGit(t)

	dir := t.TempDir()
	runGit(t, dir, "init", "--initial-branch=main", ".")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("one\n"), 0o644))
	runGit(t, dir, "add", "a.txt")
	runGit(t, dir, "commit", "-m", "initial")

	runGit(t, dir, "checkout", "-b", "integration")
	runGit(t, dir, "checkout", "-b", "feature")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("b\n"), 0o644))
	runGit(t, dir, "add", "b.txt")
	runGit(t, dir, "commit", "-m", "add b")

	runGit(t, dir, "checkout", "integration")
	runGit(t, dir, "merge", "--no-ff", "-m", "merge feature", "feature")
	runGit(t, dir, "branch", "--set-upstream-to=main", "integration")

	repo, err := vcsexec.Open(context.Background(), dir)
	require.NoError(t, err)
	return repo
}

// newLinearRepo builds a repo with a single "main" branch and no
// configured upstream, for tests that need no upstream or that expect
// topology.Build to fail without one.
func newLinearRepo(t *testing.T) *vcsexec.Repo {
	t.Helper()
	requireGit(t)

	dir := t.TempDir()
	runGit(t, dir, "init", "--initial-branch=main", ".")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("one\n"), 0o644))
	runGit(t, dir, "add", "a.txt")
	runGit(t, dir, "commit", "-m", "initial")

	repo, err := vcsexec.Open(context.Background(), dir)
	require.NoError(t, err)
	return repo
}

func testEnv(repo *vcsexec.Repo) *Env {
	return &Env{
		Repo:    repo,
		Out:     io.Discard,
		Globals: &Globals{},
	}
}
