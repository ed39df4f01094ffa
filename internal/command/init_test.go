package command

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/git-loom/loom/internal/vcsexec"
)

func TestInvalidBranchNameRejectsReservedLoomErr(t *testing.T) {
	reason, bad := invalidBranchName("onto")
	assert.True(t, bad)
	assert.NotEmpty(t, reason)
}

// newRepoWithOrigin builds a repo whose "origin" remote has a "main"
// branch, but whose own current branch has no configured upstream —
// the shape Init's fallback-branch-list detection needs.
func newRepoWithOrigin(t *testing.T) *vcsexec.Repo {
	t.Helper()
	requireGit(t)

	originDir := t.TempDir()
	runGit(t, originDir, "init", "--initial-branch=main", ".")
	require.NoError(t, os.WriteFile(filepath.Join(originDir, "a.txt"), []byte("one\n"), 0o644))
	runGit(t, originDir, "add", "a.txt")
	runGit(t, originDir, "commit", "-m", "initial")

	workDir := t.TempDir()
	runGit(t, workDir, "clone", originDir, ".")
	runGit(t, workDir, "branch", "--unset-upstream")

	repo, err := vcsexec.Open(context.Background(), workDir)
	require.NoError(t, err)
	return repo
}

func TestInitCreatesIntegrationBranchFromFallbackRemote(t *testing.T) {
	repo := newRepoWithOrigin(t)
	env := testEnv(repo)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	err := Init(context.Background(), env, InitOptions{Name: "integration"})
	require.NoError(t, err)

	branch, err := repo.CurrentBranch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "integration", branch)

	up, ok, err := repo.Upstream(context.Background(), "integration")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "origin/main", up)
}

func TestInitRejectsDuplicateName(t *testing.T) {
	repo := newRepoWithOrigin(t)
	env := testEnv(repo)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	err := Init(context.Background(), env, InitOptions{Name: "main"})
	require.Error(t, err)
}

func TestInitFailsWithoutPrompterWhenNoCandidateResolves(t *testing.T) {
	repo := newLinearRepo(t)
	env := testEnv(repo)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	err := Init(context.Background(), env, InitOptions{Name: "integration"})
	require.Error(t, err)
}
