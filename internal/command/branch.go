package command

import (
	"context"

	"github.com/git-loom/loom/internal/loomerr"
	"github.com/git-loom/loom/internal/resolve"
	"github.com/git-loom/loom/internal/weave"
)

// BranchOptions mirrors §6's `branch [name] [-t target]`.
type BranchOptions struct {
	Name   string
	Target string
}

// Branch creates name at the resolved target (default: merge-base). If
// the target lies strictly between merge-base and HEAD on the
// first-parent line, it invokes weave_branch(name); otherwise the
// topology is left untouched (§4.7 "branch").
func Branch(ctx context.Context, env *Env, opts BranchOptions) error {
	if env.Repo.BranchExists(ctx, opts.Name) {
		return loomerr.NewDuplicateBranch(opts.Name)
	}
	if reason, bad := invalidBranchName(opts.Name); bad {
		return loomerr.NewInvalidName(opts.Name, reason)
	}

	w, err := buildWeave(ctx, env)
	if err != nil {
		return err
	}

	targetToken := opts.Target
	if targetToken == "" {
		targetToken = string(w.Base)
	}
	entities := entitiesForStatus(w)
	target, _, err := resolveTarget(ctx, env, entities, targetToken, false)
	if err != nil {
		return err
	}
	if target.Kind != resolve.KindCommit {
		return loomerr.NewUnresolvedTarget(targetToken)
	}

	if err := env.Repo.CreateBranch(ctx, opts.Name, string(target.OID)); err != nil {
		return err
	}

	// No-op weave when target is at HEAD, at merge-base, or already on
	// a side-branch commit (not on the first-parent integration line).
	if target.OID == w.Base {
		return nil
	}
	if !onIntegrationLine(w, target.OID) {
		return nil
	}
	head, err := env.Repo.Resolve(ctx, "HEAD")
	if err != nil {
		return err
	}
	if target.OID == head {
		return nil
	}

	if err := w.WeaveBranch(opts.Name); err != nil {
		return err
	}
	return executeWeave(ctx, env, w)
}

// onIntegrationLine reports whether oid appears as a Pick entry on
// w.Line (i.e. strictly between base and HEAD on the first-parent
// chain, not already folded into a section).
func onIntegrationLine(w *weave.Weave, oid weave.OID) bool {
	for _, e := range w.Line {
		if e.Kind == weave.EntryPick && e.Commit.OID == oid {
			return true
		}
	}
	return false
}

// executeWeave serializes w and drives it through env's rebase
// driver using a scoped temp file. None of executeWeave's callers mark
// any commit Edit, so a pause can only mean an unexpected conflict:
// on any failure it aborts the in-progress rebase before returning,
// restoring the working tree to its pre-call state (§4.4).
func executeWeave(ctx context.Context, env *Env, w *weave.Weave) error {
	todoPath, cleanup, err := scratchTodoFile()
	if err != nil {
		return err
	}
	defer cleanup()
	result, err := runRebase(ctx, env, w, todoPath)
	if err != nil {
		if result.Stopped {
			_ = env.Driver.Abort(ctx)
		}
		return err
	}
	return nil
}
