package loomcfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenNoConfigFilePresent(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	f, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"main", "master", "develop"}, f.IntegrationBranches)
}

func TestLoadReadsTOMLOverlay(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "git-loom"), 0o755))
	contents := "remote_type = \"fork\"\nintegration_branches = [\"trunk\"]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "git-loom", "config.toml"), []byte(contents), 0o644))

	f, err := Load()
	require.NoError(t, err)
	assert.Equal(t, RemoteFork, f.RemoteType)
	assert.Equal(t, []string{"trunk"}, f.IntegrationBranches)
}

func TestTrimRefStripsHeadsPrefix(t *testing.T) {
	assert.Equal(t, "main", TrimRef("refs/heads/main"))
	assert.Equal(t, "main", TrimRef("main"))
}
