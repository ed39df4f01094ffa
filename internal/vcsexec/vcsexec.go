// Package vcsexec is the concrete host-VCS backend: it implements
// topology.Query and resolve.Query by shelling out to the git binary
// found on PATH, the way modules/git wraps git for IsBareRepository.
// Reads live in this file and single-command mutations (branches,
// staging, commits, resets) in mutate.go; the rebase drive itself
// lives in internal/rebase.
package vcsexec

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/git-loom/loom/internal/loomerr"
	"github.com/git-loom/loom/internal/topology"
	"github.com/git-loom/loom/internal/weave"
	"github.com/git-loom/loom/modules/command"
)

// Repo is a handle on a git worktree, resolved once at startup via
// `git rev-parse --git-dir --show-toplevel`.
type Repo struct {
	GitDir   string
	WorkTree string
}

// Open resolves cwd to its enclosing repository. It returns
// loomerr.NewNotARepo if cwd is not inside a git worktree or bare repo.
func Open(ctx context.Context, cwd string) (*Repo, error) {
	out, err := command.New(ctx, cwd, "git", "rev-parse", "--git-dir", "--show-toplevel").Output()
	if err != nil {
		return nil, loomerr.NewNotARepo(cwd)
	}
	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	r := &Repo{GitDir: lines[0]}
	if len(lines) > 1 {
		r.WorkTree = lines[1]
	}
	return r, nil
}

func (r *Repo) dir() string {
	if r.WorkTree != "" {
		return r.WorkTree
	}
	return r.GitDir
}

func (r *Repo) git(ctx context.Context, args ...string) *command.Command {
	return command.New(ctx, r.dir(), "git", args...)
}

// IsBare reports whether the repository has no working tree, mirroring
// modules/git.IsBareRepository's `git config --get core.bare` check.
func (r *Repo) IsBare(ctx context.Context) (bool, error) {
	v, err := command.New(ctx, command.NoDir, "git", "--git-dir", r.GitDir, "config", "--get", "core.bare").OneLine()
	if err != nil {
		return false, nil
	}
	return strings.EqualFold(v, "true"), nil
}

// CurrentBranch returns the branch HEAD points at.
func (r *Repo) CurrentBranch(ctx context.Context) (string, error) {
	out, err := r.git(ctx, "symbolic-ref", "--short", "-q", "HEAD").OneLine()
	if err != nil {
		head, _ := r.git(ctx, "rev-parse", "--short", "HEAD").OneLine()
		return "", loomerr.NewDetachedHead(head)
	}
	return out, nil
}

// Upstream reports branch's configured upstream, following the same
// two-key (branch.<name>.remote / .merge) convention the host VCS
// itself reads.
func (r *Repo) Upstream(ctx context.Context, branch string) (string, bool, error) {
	out, err := r.git(ctx, "rev-parse", "--abbrev-ref", "--symbolic-full-name", branch+"@{upstream}").OneLine()
	if err != nil {
		return "", false, nil
	}
	return out, true, nil
}

// MergeBase returns the merge-base of a and b.
func (r *Repo) MergeBase(ctx context.Context, a, b string) (weave.OID, error) {
	out, err := r.git(ctx, "merge-base", a, b).OneLine()
	if err != nil {
		return "", fmt.Errorf("merge-base %s %s: %w", a, b, err)
	}
	return weave.OID(out), nil
}

// Resolve resolves a revision expression to a full OID.
func (r *Repo) Resolve(ctx context.Context, rev string) (weave.OID, error) {
	out, err := r.git(ctx, "rev-parse", "--verify", "-q", rev+"^{commit}").OneLine()
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", rev, err)
	}
	return weave.OID(out), nil
}

// ResolveRevision is the non-erroring variant resolve.Query wants:
// ok=false (not an error) when the token simply isn't a revision.
func (r *Repo) ResolveRevision(ctx context.Context, token string) (weave.OID, bool, error) {
	out, err := r.git(ctx, "rev-parse", "--verify", "-q", token+"^{commit}").OneLine()
	if err != nil {
		return "", false, nil
	}
	return weave.OID(out), true, nil
}

const logFieldSep = "\x1f"

// CommitInfo returns metadata for oid.
func (r *Repo) CommitInfo(ctx context.Context, oid weave.OID) (topology.CommitInfo, error) {
	format := "%H" + logFieldSep + "%h" + logFieldSep + "%s" + logFieldSep + "%P"
	out, err := r.git(ctx, "show", "-s", "--format="+format, string(oid)).OneLine()
	if err != nil {
		return topology.CommitInfo{}, fmt.Errorf("commit info %s: %w", oid, err)
	}
	fields := strings.Split(out, logFieldSep)
	if len(fields) != 4 {
		return topology.CommitInfo{}, fmt.Errorf("commit info %s: unexpected format output %q", oid, out)
	}
	info := topology.CommitInfo{OID: weave.OID(fields[0]), Abbrev: fields[1], Subject: fields[2]}
	for _, p := range strings.Fields(fields[3]) {
		info.Parents = append(info.Parents, weave.OID(p))
	}
	return info, nil
}

// BranchesAt returns every local branch whose tip equals oid.
func (r *Repo) BranchesAt(ctx context.Context, oid weave.OID) ([]string, error) {
	out, err := r.git(ctx, "for-each-ref", "--points-at", string(oid), "--format=%(refname:short)", "refs/heads").Output()
	if err != nil {
		return nil, fmt.Errorf("branches at %s: %w", oid, err)
	}
	var names []string
	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}

// BranchExists reports whether name is a local branch.
func (r *Repo) BranchExists(ctx context.Context, name string) bool {
	err := r.git(ctx, "show-ref", "--verify", "-q", "refs/heads/"+name).RunEx()
	return err == nil
}

// ChangedFileCount returns how many files oid's commit changed
// relative to its first parent (or, for a root commit, the empty tree).
func (r *Repo) ChangedFileCount(ctx context.Context, oid weave.OID) (int, error) {
	out, err := r.git(ctx, "diff-tree", "--root", "--no-commit-id", "--name-only", "-r", string(oid)).Output()
	if err != nil {
		return 0, fmt.Errorf("changed files %s: %w", oid, err)
	}
	n := 0
	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) != "" {
			n++
		}
	}
	return n, nil
}

// HasWorkingTreeChange reports whether path is a tracked file with
// uncommitted working-tree modifications.
func (r *Repo) HasWorkingTreeChange(ctx context.Context, path string) (bool, error) {
	err := r.git(ctx, "diff", "--quiet", "--", path).RunEx()
	if err == nil {
		return false, nil
	}
	if code := command.FromErrorCode(err); code == 1 {
		return true, nil
	}
	return false, fmt.Errorf("working tree change %s: %w", path, err)
}

// DiffUnified returns the unified diff of path between HEAD and the
// working tree (including anything already staged), for absorb's
// touched-line discovery (§4.7 "absorb").
func (r *Repo) DiffUnified(ctx context.Context, path string) (string, error) {
	out, err := r.git(ctx, "diff", "HEAD", "--unified=0", "--", path).Output()
	if err != nil {
		return "", fmt.Errorf("diff %s: %w", path, err)
	}
	return string(out), nil
}

// RevParseInt runs `git rev-list --count` with args and returns the
// count, e.g. the number of commits between two revisions.
func (r *Repo) RevParseInt(ctx context.Context, args ...string) (int, error) {
	out, err := r.git(ctx, append([]string{"rev-list", "--count"}, args...)...).OneLine()
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(out)
}
