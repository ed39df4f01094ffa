package vcsexec

import (
	"context"
	"fmt"
	"strings"

	"github.com/git-loom/loom/modules/command"
)

// CreateBranch creates name at startPoint without switching to it.
func (r *Repo) CreateBranch(ctx context.Context, name, startPoint string) error {
	stderr := command.NewStderr()
	cmd := command.NewFromOptions(ctx, &command.RunOpts{RepoPath: r.dir(), Stderr: stderr}, "git", "branch", name, startPoint)
	if err := cmd.RunEx(); err != nil {
		return fmt.Errorf("create branch %s: %s", name, stderr.String())
	}
	return nil
}

// CreateTrackingBranch creates name at startPoint with an upstream set
// to startPoint, then switches to it, for init (§4.7).
func (r *Repo) CreateTrackingBranch(ctx context.Context, name, startPoint string) error {
	stderr := command.NewStderr()
	cmd := command.NewFromOptions(ctx, &command.RunOpts{RepoPath: r.dir(), Stderr: stderr},
		"git", "checkout", "-b", name, "--track", startPoint)
	if err := cmd.RunEx(); err != nil {
		return fmt.Errorf("create tracking branch %s: %s", name, stderr.String())
	}
	return nil
}

// DeleteBranch force-deletes a local branch ref.
func (r *Repo) DeleteBranch(ctx context.Context, name string) error {
	stderr := command.NewStderr()
	cmd := command.NewFromOptions(ctx, &command.RunOpts{RepoPath: r.dir(), Stderr: stderr}, "git", "branch", "-D", name)
	if err := cmd.RunEx(); err != nil {
		return fmt.Errorf("delete branch %s: %s", name, stderr.String())
	}
	return nil
}

// RenameBranch renames from to to.
func (r *Repo) RenameBranch(ctx context.Context, from, to string) error {
	stderr := command.NewStderr()
	cmd := command.NewFromOptions(ctx, &command.RunOpts{RepoPath: r.dir(), Stderr: stderr}, "git", "branch", "-m", from, to)
	if err := cmd.RunEx(); err != nil {
		return fmt.Errorf("rename branch %s to %s: %s", from, to, stderr.String())
	}
	return nil
}

// Switch checks out an existing local branch.
func (r *Repo) Switch(ctx context.Context, name string) error {
	stderr := command.NewStderr()
	cmd := command.NewFromOptions(ctx, &command.RunOpts{RepoPath: r.dir(), Stderr: stderr}, "git", "switch", name)
	if err := cmd.RunEx(); err != nil {
		return fmt.Errorf("switch to %s: %s", name, stderr.String())
	}
	return nil
}

// StageAll stages every change, untracked files included (`zz`).
func (r *Repo) StageAll(ctx context.Context) error {
	return r.git(ctx, "add", "-A").RunEx()
}

// StagePaths stages the given paths only.
func (r *Repo) StagePaths(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	return command.New(ctx, r.dir(), "git", append([]string{"add", "--"}, paths...)...).RunEx()
}

// HasStagedChanges reports whether the index differs from HEAD.
func (r *Repo) HasStagedChanges(ctx context.Context) (bool, error) {
	err := r.git(ctx, "diff", "--cached", "--quiet").RunEx()
	if err == nil {
		return false, nil
	}
	if code := command.FromErrorCode(err); code == 1 {
		return true, nil
	}
	return false, err
}

// Commit creates a commit from the current index with message.
func (r *Repo) Commit(ctx context.Context, message string) (string, error) {
	stderr := command.NewStderr()
	cmd := command.NewFromOptions(ctx, &command.RunOpts{RepoPath: r.dir(), Stderr: stderr}, "git", "commit", "-m", message)
	if err := cmd.RunEx(); err != nil {
		return "", fmt.Errorf("commit: %s", stderr.String())
	}
	return r.headOID(ctx)
}

// CommitAmendNoEdit amends HEAD with the currently staged changes,
// keeping the existing message (fold's File→HEAD-commit path, §4.7).
func (r *Repo) CommitAmendNoEdit(ctx context.Context) error {
	stderr := command.NewStderr()
	cmd := command.NewFromOptions(ctx, &command.RunOpts{RepoPath: r.dir(), Stderr: stderr}, "git", "commit", "--amend", "--no-edit")
	if err := cmd.RunEx(); err != nil {
		return fmt.Errorf("amend: %s", stderr.String())
	}
	return nil
}

// CommitAmendMessage amends HEAD's message to message, used when
// reword's rebase pauses on an Edit stop.
func (r *Repo) CommitAmendMessage(ctx context.Context, message string) error {
	stderr := command.NewStderr()
	cmd := command.NewFromOptions(ctx, &command.RunOpts{RepoPath: r.dir(), Stderr: stderr}, "git", "commit", "--amend", "-m", message)
	if err := cmd.RunEx(); err != nil {
		return fmt.Errorf("amend message: %s", stderr.String())
	}
	return nil
}

func (r *Repo) headOID(ctx context.Context) (string, error) {
	return r.git(ctx, "rev-parse", "HEAD").OneLine()
}

// MixedResetN runs a mixed reset n commits back (split's HEAD path,
// §4.7): `git reset HEAD~n`.
func (r *Repo) MixedResetN(ctx context.Context, n int) error {
	return r.git(ctx, "reset", fmt.Sprintf("HEAD~%d", n)).RunEx()
}

// DiffOf returns the unified diff introduced by oid relative to its
// first parent, used by fold's non-HEAD uncommit path to capture the
// content being dropped before reapplying it to the working tree.
func (r *Repo) DiffOf(ctx context.Context, oid string) (string, error) {
	out, err := r.git(ctx, "show", "--format=", oid).Output()
	if err != nil {
		return "", fmt.Errorf("diff of %s: %w", oid, err)
	}
	return string(out), nil
}

// ApplyPatch applies a unified diff to the working tree and index.
func (r *Repo) ApplyPatch(ctx context.Context, patch string) error {
	stderr := command.NewStderr()
	cmd := command.NewFromOptions(ctx, &command.RunOpts{
		RepoPath: r.dir(),
		Stderr:   stderr,
		Stdin:    strings.NewReader(patch),
	}, "git", "apply", "--index")
	if err := cmd.RunEx(); err != nil {
		return fmt.Errorf("apply patch: %s", stderr.String())
	}
	return nil
}

// RestorePathFromParent checks path out from HEAD^ and stages it,
// undoing whatever change the commit currently paused at Edit made to
// it (fold's CommitFile->Unstaged path).
func (r *Repo) RestorePathFromParent(ctx context.Context, path string) error {
	stderr := command.NewStderr()
	cmd := command.NewFromOptions(ctx, &command.RunOpts{RepoPath: r.dir(), Stderr: stderr}, "git", "checkout", "HEAD^", "--", path)
	if err := cmd.RunEx(); err != nil {
		return fmt.Errorf("restore %s from parent: %s", path, stderr.String())
	}
	return r.StagePaths(ctx, []string{path})
}

// CheckoutPathFromRevision checks path out from rev into the working
// tree and index without moving HEAD, used by fold's CommitFile->Commit
// path to materialize a file's version at the source commit.
func (r *Repo) CheckoutPathFromRevision(ctx context.Context, rev, path string) error {
	stderr := command.NewStderr()
	cmd := command.NewFromOptions(ctx, &command.RunOpts{RepoPath: r.dir(), Stderr: stderr}, "git", "checkout", rev, "--", path)
	if err := cmd.RunEx(); err != nil {
		return fmt.Errorf("checkout %s from %s: %s", path, rev, stderr.String())
	}
	return nil
}

// ChangedFiles lists the paths oid's commit changed.
func (r *Repo) ChangedFiles(ctx context.Context, oid string) ([]string, error) {
	out, err := r.git(ctx, "diff-tree", "--root", "--no-commit-id", "--name-only", "-r", oid).Output()
	if err != nil {
		return nil, fmt.Errorf("changed files %s: %w", oid, err)
	}
	var files []string
	for _, line := range strings.Split(strings.TrimRight(string(out), "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

// StatusPorcelain returns the non-empty lines of
// `git status --porcelain=v1`, for absorb's change discovery.
func (r *Repo) StatusPorcelain(ctx context.Context) ([]string, error) {
	out, err := r.git(ctx, "status", "--porcelain=v1").Output()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	var lines []string
	for _, line := range strings.Split(strings.TrimRight(string(out), "\n"), "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// BlamePorcelain returns, for each line of path at HEAD, the
// introducing commit OID, for absorb's line-to-commit mapping (§4.7).
func (r *Repo) BlamePorcelain(ctx context.Context, path string) ([]string, error) {
	out, err := r.git(ctx, "blame", "--porcelain", "HEAD", "--", path).Output()
	if err != nil {
		return nil, fmt.Errorf("blame %s: %w", path, err)
	}
	var oids []string
	for _, line := range strings.Split(string(out), "\n") {
		if len(line) == 40 || (len(line) > 40 && line[40] == ' ') {
			if isHex(line[:40]) {
				oids = append(oids, line[:40])
			}
		}
	}
	return oids, nil
}

func isHex(s string) bool {
	for _, r := range s {
		if !((r >= '0' && r <= '9') || (r >= 'a' && r <= 'f')) {
			return false
		}
	}
	return true
}

// Remotes lists configured remote names.
func (r *Repo) Remotes(ctx context.Context) ([]string, error) {
	out, err := r.git(ctx, "remote").Output()
	if err != nil {
		return nil, fmt.Errorf("remote: %w", err)
	}
	var names []string
	for _, line := range strings.Split(strings.TrimRight(string(out), "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}

// FetchAll fetches all remotes, pruning stale refs, for update (§4.7).
func (r *Repo) FetchAll(ctx context.Context) error {
	stderr := command.NewStderr()
	cmd := command.NewFromOptions(ctx, &command.RunOpts{RepoPath: r.dir(), Stderr: stderr},
		"git", "fetch", "--all", "--prune", "--tags", "--force")
	if err := cmd.RunEx(); err != nil {
		return fmt.Errorf("fetch: %s", stderr.String())
	}
	return nil
}

// HasSubmodules reports whether the worktree has a .gitmodules file.
func (r *Repo) HasSubmodules(ctx context.Context) (bool, error) {
	err := r.git(ctx, "config", "--file", ".gitmodules", "--list").RunEx()
	return err == nil, nil
}

// UpdateSubmodules runs a recursive submodule update.
func (r *Repo) UpdateSubmodules(ctx context.Context) error {
	stderr := command.NewStderr()
	cmd := command.NewFromOptions(ctx, &command.RunOpts{RepoPath: r.dir(), Stderr: stderr},
		"git", "submodule", "update", "--init", "--recursive")
	if err := cmd.RunEx(); err != nil {
		return fmt.Errorf("submodule update: %s", stderr.String())
	}
	return nil
}
