// Package topology builds a *weave.Weave from the state of a
// repository (§4.1): it walks the first-parent line from the
// merge-base to HEAD and recognises second-parent forks as woven
// branch sections. It depends only on the small Query interface below,
// so it can run against a real host VCS subprocess
// (internal/vcsexec) or against an in-memory fake in tests.
package topology

import (
	"context"

	"github.com/git-loom/loom/internal/weave"
)

// CommitInfo is the subset of a commit's metadata the builder needs.
type CommitInfo struct {
	OID     weave.OID
	Abbrev  string
	Subject string
	Parents []weave.OID
}

// Query is the read-only repository surface the topology builder
// requires. Implementations must be pure reads: the builder never
// mutates the repository.
type Query interface {
	// CurrentBranch returns the branch HEAD points at, or an error
	// implementing loomerr.DetachedHead semantics if HEAD is detached.
	CurrentBranch(ctx context.Context) (string, error)

	// Upstream returns the configured upstream ref for branch (e.g.
	// "origin/main"), and false if none is configured.
	Upstream(ctx context.Context, branch string) (ref string, ok bool, err error)

	// MergeBase returns the merge-base of a and b.
	MergeBase(ctx context.Context, a, b string) (weave.OID, error)

	// Resolve resolves a revision expression (branch, "HEAD", etc) to
	// an OID.
	Resolve(ctx context.Context, rev string) (weave.OID, error)

	// CommitInfo returns metadata for oid.
	CommitInfo(ctx context.Context, oid weave.OID) (CommitInfo, error)

	// BranchesAt returns every local branch whose tip equals oid.
	BranchesAt(ctx context.Context, oid weave.OID) ([]string, error)

	// IsBare reports whether the repository has no working tree.
	IsBare(ctx context.Context) (bool, error)
}
