// Package loomcfg reads configuration layered over the host VCS: git
// config values read through a subprocess (the same `git config --get`
// pattern modules/git uses for core.bare), with an optional TOML file
// under $XDG_CONFIG_HOME/git-loom for settings git config has no home
// for, such as the candidate branch list init tries when none is
// given explicitly.
package loomcfg

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/git-loom/loom/modules/command"
)

// GitConfig reads a single git config key via `git config --get`,
// returning ok=false when the key is unset rather than treating that
// as an error.
func GitConfig(ctx context.Context, workTree, key string) (string, bool, error) {
	out, err := command.New(ctx, workTree, "git", "config", "--get", key).OneLine()
	if err != nil {
		if code := command.FromErrorCode(err); code == 1 {
			return "", false, nil
		}
		return "", false, err
	}
	return out, true, nil
}

// RemoteType is the push destination classification §4.9 describes:
// a shared origin remote, vs. a per-developer fork remote needing
// different push defaults.
type RemoteType string

const (
	RemoteShared RemoteType = "shared"
	RemoteFork   RemoteType = "fork"
)

// File is the optional $XDG_CONFIG_HOME/git-loom/config.toml document.
type File struct {
	// RemoteType overrides automatic push-destination detection.
	RemoteType RemoteType `toml:"remote_type"`
	// IntegrationBranches lists fallback candidates init tries, in
	// order, when no upstream is configured yet and none is given on
	// the command line.
	IntegrationBranches []string `toml:"integration_branches"`
}

// defaultIntegrationBranches is used when no config file is present
// and the caller gave no explicit candidate.
var defaultIntegrationBranches = []string{"main", "master", "develop"}

// Load reads the user's git-loom config file, returning a zero-value
// File with defaultIntegrationBranches when none exists.
func Load() (File, error) {
	f := File{IntegrationBranches: defaultIntegrationBranches}
	path, err := configPath()
	if err != nil {
		return f, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return f, err
	}
	if _, err := toml.Decode(string(data), &f); err != nil {
		return f, err
	}
	if len(f.IntegrationBranches) == 0 {
		f.IntegrationBranches = defaultIntegrationBranches
	}
	return f, nil
}

func configPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "git-loom", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "git-loom", "config.toml"), nil
}

// RemoteForBranch reads branch.<name>.remote from git config, the
// value `init` consults to decide the upstream remote for a freshly
// woven integration branch.
func RemoteForBranch(ctx context.Context, workTree, branch string) (string, bool, error) {
	return GitConfig(ctx, workTree, "branch."+branch+".remote")
}

// MergeRefForBranch reads branch.<name>.merge.
func MergeRefForBranch(ctx context.Context, workTree, branch string) (string, bool, error) {
	return GitConfig(ctx, workTree, "branch."+branch+".merge")
}

// TrimRef strips the refs/heads/ prefix git config stores merge refs
// with, e.g. "refs/heads/main" -> "main".
func TrimRef(ref string) string {
	return strings.TrimPrefix(ref, "refs/heads/")
}
