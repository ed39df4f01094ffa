// Package resolve implements the target resolver (§4.6): it maps a
// user-supplied token to a Target, trying rules in the precedence
// order the spec prescribes (branch, revision, short-ID, path,
// reserved "zz", commit-file).
package resolve

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/git-loom/loom/internal/loomerr"
	"github.com/git-loom/loom/internal/shortid"
	"github.com/git-loom/loom/internal/weave"
)

// Kind discriminates the Target tagged union.
type Kind int

const (
	KindCommit Kind = iota
	KindBranch
	KindFile
	KindUnstaged
	KindCommitFile
)

// Target is the resolver's output (§3 "Target").
type Target struct {
	Kind   Kind
	OID    weave.OID
	Branch string
	Path   string
	Index  int
}

// Query is the minimal repository surface the resolver needs beyond
// the short-ID allocator.
type Query interface {
	// BranchExists reports whether name is a local branch.
	BranchExists(ctx context.Context, name string) bool
	// ResolveRevision parses token with the host VCS's revision syntax
	// and returns its OID, or ok=false if it does not resolve.
	ResolveRevision(ctx context.Context, token string) (oid weave.OID, ok bool, err error)
	// ChangedFileCount returns how many files oid's commit changed.
	ChangedFileCount(ctx context.Context, oid weave.OID) (int, error)
	// HasWorkingTreeChange reports whether path is a tracked file with
	// working-tree modifications.
	HasWorkingTreeChange(ctx context.Context, path string) (bool, error)
}

const unstagedToken = "zz"

// Resolve applies the precedence rules in §4.6, in the order the spec
// lists them: branch name, revision, short-ID, path (when allowed),
// the reserved "zz" unstaged token, then the "<commit>:<index>"
// commit-file shape. Each rule is tried in full before falling
// through to the next, so an ambiguous token favors the earlier rule
// (a branch named "zz" still resolves as a branch).
func Resolve(ctx context.Context, q Query, alloc *shortid.Allocator, token string, allowFilePath bool) (Target, error) {
	if q.BranchExists(ctx, token) {
		return Target{Kind: KindBranch, Branch: token}, nil
	}

	if oid, ok, err := q.ResolveRevision(ctx, token); err != nil {
		return Target{}, err
	} else if ok {
		return Target{Kind: KindCommit, OID: oid}, nil
	}

	if alloc != nil {
		if e, ok := alloc.Resolve(token); ok {
			return fromEntity(e), nil
		}
	}

	if allowFilePath && existsOnDisk(token) {
		if ok, err := q.HasWorkingTreeChange(ctx, token); err == nil && ok {
			return Target{Kind: KindFile, Path: token}, nil
		}
	}

	if token == unstagedToken {
		return Target{Kind: KindUnstaged}, nil
	}

	if oid, idx, ok := splitCommitFileToken(token); ok {
		if resolved, found, err := q.ResolveRevision(ctx, oid); err == nil && found {
			n, err := q.ChangedFileCount(ctx, resolved)
			if err == nil && n > idx {
				return Target{Kind: KindCommitFile, OID: resolved, Index: idx}, nil
			}
		}
	}

	return Target{}, loomerr.NewUnresolvedTarget(token)
}

// splitCommitFileToken recognises the "<commit-id>:<index>" shape.
func splitCommitFileToken(token string) (string, int, bool) {
	oid, idxStr, found := strings.Cut(token, ":")
	if !found {
		return "", 0, false
	}
	idx, err := strconv.Atoi(idxStr)
	if err != nil || idx < 0 {
		return "", 0, false
	}
	return oid, idx, true
}

func fromEntity(e shortid.Entity) Target {
	switch e.Kind {
	case shortid.Unstaged:
		return Target{Kind: KindUnstaged}
	case shortid.Branch:
		return Target{Kind: KindBranch, Branch: e.Name}
	case shortid.Commit:
		return Target{Kind: KindCommit, OID: weave.OID(e.Name)}
	case shortid.File:
		return Target{Kind: KindFile, Path: e.Name}
	case shortid.CommitFile:
		return Target{Kind: KindCommitFile, OID: weave.OID(e.Name), Index: e.Index}
	default:
		return Target{}
	}
}

// existsOnDisk is a small helper orchestrators use to decide whether a
// token could plausibly be a path fallback before asking the VCS
// whether it is tracked and modified (rule 4 is "a path pointing at a
// tracked file with working-tree changes", so a token that is not even
// a filesystem entry can short-circuit without a VCS round-trip).
func existsOnDisk(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
