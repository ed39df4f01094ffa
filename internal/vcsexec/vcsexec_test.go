package vcsexec

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// requireGit skips the test when no git binary is on PATH, so this
// suite degrades gracefully on a minimal CI image instead of failing.
func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found on PATH")
	}
}

// initRepo creates a throwaway repository with one commit on "main"
// and returns its Repo handle.
func initRepo(t *testing.T) *Repo {
	t.Helper()
	requireGit(t)

	dir := t.TempDir()
	ctx := context.Background()
	run := func(args ...string) {
		cmd := exec.CommandContext(ctx, "git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=loom", "GIT_AUTHOR_EMAIL=loom@example.com",
			"GIT_COMMITTER_NAME=loom", "GIT_COMMITTER_EMAIL=loom@example.com",
		)
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "git %v: %s", args, out)
	}

	run("init", "--initial-branch=main", ".")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("one\n"), 0o644))
	run("add", "a.txt")
	run("commit", "-m", "initial")

	repo, err := Open(ctx, dir)
	require.NoError(t, err)
	return repo
}

func TestOpenResolvesWorkTree(t *testing.T) {
	repo := initRepo(t)
	require.NotEmpty(t, repo.WorkTree)
	require.NotEmpty(t, repo.GitDir)
}

func TestCurrentBranchAndResolve(t *testing.T) {
	repo := initRepo(t)
	ctx := context.Background()

	branch, err := repo.CurrentBranch(ctx)
	require.NoError(t, err)
	require.Equal(t, "main", branch)

	head, err := repo.Resolve(ctx, "HEAD")
	require.NoError(t, err)
	require.Len(t, string(head), 40)

	oid, ok, err := repo.ResolveRevision(ctx, "HEAD")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, head, oid)

	_, ok, err = repo.ResolveRevision(ctx, "not-a-revision")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCommitInfoAndChangedFileCount(t *testing.T) {
	repo := initRepo(t)
	ctx := context.Background()

	head, err := repo.Resolve(ctx, "HEAD")
	require.NoError(t, err)

	info, err := repo.CommitInfo(ctx, head)
	require.NoError(t, err)
	require.Equal(t, "initial", info.Subject)
	require.Empty(t, info.Parents)

	n, err := repo.ChangedFileCount(ctx, head)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestBranchExistsAndBranchesAt(t *testing.T) {
	repo := initRepo(t)
	ctx := context.Background()

	require.True(t, repo.BranchExists(ctx, "main"))
	require.False(t, repo.BranchExists(ctx, "nope"))

	head, err := repo.Resolve(ctx, "HEAD")
	require.NoError(t, err)
	names, err := repo.BranchesAt(ctx, head)
	require.NoError(t, err)
	require.Equal(t, []string{"main"}, names)
}

func TestHasWorkingTreeChange(t *testing.T) {
	repo := initRepo(t)
	ctx := context.Background()

	dirty, err := repo.HasWorkingTreeChange(ctx, "a.txt")
	require.NoError(t, err)
	require.False(t, dirty)

	require.NoError(t, os.WriteFile(filepath.Join(repo.WorkTree, "a.txt"), []byte("two\n"), 0o644))
	dirty, err = repo.HasWorkingTreeChange(ctx, "a.txt")
	require.NoError(t, err)
	require.True(t, dirty)
}

func TestIsBareFalseForWorkingCopy(t *testing.T) {
	repo := initRepo(t)
	bare, err := repo.IsBare(context.Background())
	require.NoError(t, err)
	require.False(t, bare)
}
