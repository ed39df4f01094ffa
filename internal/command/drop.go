package command

import (
	"context"
	"fmt"
	"sort"

	"github.com/git-loom/loom/internal/loomerr"
	"github.com/git-loom/loom/internal/resolve"
	"github.com/git-loom/loom/internal/weave"
)

// DropOptions mirrors §6's `drop [-y] <target>`.
type DropOptions struct {
	Target string
	Yes    bool
}

// Drop resolves target and dispatches on its kind (§4.7 "drop"). A
// commit that is the sole commit on a branch is delegated to the
// branch-drop path instead of a plain drop_commit, so the emptied
// section and its ref are cleaned up together. A branch is classified
// by how it sits in the topology before deciding which mutation (or
// none) the Weave needs.
func Drop(ctx context.Context, env *Env, opts DropOptions) error {
	w, err := buildWeave(ctx, env)
	if err != nil {
		return err
	}
	entities := entitiesForStatus(w)

	target, _, err := resolveTarget(ctx, env, entities, opts.Target, false)
	if err != nil {
		return err
	}
	if target.Kind != resolve.KindCommit && target.Kind != resolve.KindBranch {
		return loomerr.NewUnresolvedTarget(opts.Target)
	}

	if !opts.Yes {
		if env.Prompter == nil {
			return loomerr.NewUnresolvedTarget("drop requires confirmation (-y) when no prompter is available")
		}
		ok, err := env.Prompter.Confirm(fmt.Sprintf("drop %s?", opts.Target))
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	if target.Kind == resolve.KindCommit {
		return dropCommitTarget(ctx, env, w, target.OID)
	}
	return dropBranch(ctx, env, w, target.Branch)
}

func dropCommitTarget(ctx context.Context, env *Env, w *weave.Weave, oid weave.OID) error {
	section, _, _, found := w.FindCommit(oid)
	if found && section != nil && len(section.Commits) == 1 {
		return dropBranch(ctx, env, w, primaryBranch(section.BranchNames))
	}

	if err := w.DropCommit(oid); err != nil {
		return err
	}
	return executeWeave(ctx, env, w)
}

// dropBranch classifies name against the Weave and the host VCS before
// deciding what, if anything, needs to mutate before the ref itself is
// deleted (§4.7 "drop"):
//
//   - points at the merge-base with no commits of its own: ref only
//   - woven, co-located with siblings: reassign_branch, then ref
//   - woven, sole owner of its section: drop_branch, then ref
//   - non-woven, co-located with another non-woven ref: ref only
//   - non-woven, sole ref at its commit: drop the commits unique to it
//     since the previous branch point on the integration line, then ref
func dropBranch(ctx context.Context, env *Env, w *weave.Weave, name string) error {
	if section := w.SectionByBranch(name); section != nil {
		if len(section.BranchNames) > 1 {
			if err := w.ReassignBranch(name, primaryBranch(otherNames(section.BranchNames, name))); err != nil {
				return err
			}
		} else if err := w.DropBranch(name); err != nil {
			return err
		}
		if err := executeWeave(ctx, env, w); err != nil {
			return err
		}
		return env.Repo.DeleteBranch(ctx, name)
	}

	tipOID, ok, err := env.Repo.ResolveRevision(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		return loomerr.NewUnresolvedTarget(name)
	}
	if weave.OID(tipOID) == w.Base {
		return env.Repo.DeleteBranch(ctx, name)
	}

	lineIdx := -1
	for i, e := range w.Line {
		if e.Kind != weave.EntryPick {
			continue
		}
		for _, n := range e.Commit.UpdateRefs {
			if n == name {
				lineIdx = i
			}
		}
	}
	if lineIdx < 0 {
		// Not reachable anywhere in the tracked merge-base..HEAD range:
		// delete the ref and leave the Weave untouched.
		return env.Repo.DeleteBranch(ctx, name)
	}
	if len(otherNames(w.Line[lineIdx].Commit.UpdateRefs, name)) > 0 {
		return env.Repo.DeleteBranch(ctx, name)
	}

	boundary := previousBoundary(w.Line, lineIdx)
	for i := lineIdx; i > boundary; i-- {
		e := w.Line[i]
		if e.Kind != weave.EntryPick {
			continue
		}
		if err := w.DropCommit(e.Commit.OID); err != nil {
			return err
		}
	}
	if err := executeWeave(ctx, env, w); err != nil {
		return err
	}
	return env.Repo.DeleteBranch(ctx, name)
}

// previousBoundary returns the index of the nearest Line entry before
// idx that is a Merge, or a Pick carrying some other branch's
// update-ref, marking where the commits unique to idx's branch begin.
// Returns -1 when no such boundary exists.
func previousBoundary(line []weave.IntegrationEntry, idx int) int {
	for i := idx - 1; i >= 0; i-- {
		e := line[i]
		if e.Kind == weave.EntryMerge {
			return i
		}
		if e.Kind == weave.EntryPick && len(e.Commit.UpdateRefs) > 0 {
			return i
		}
	}
	return -1
}

func primaryBranch(names []string) string {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	return sorted[0]
}

func otherNames(names []string, exclude string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n != exclude {
			out = append(out, n)
		}
	}
	return out
}
