package command

import (
	"context"

	"github.com/git-loom/loom/internal/loomerr"
	"github.com/git-loom/loom/internal/resolve"
	"github.com/git-loom/loom/internal/weave"
)

// FoldOptions mirrors §6's `fold <source…> <target>`.
type FoldOptions struct {
	Sources []string
	Target  string
}

// Fold dispatches on the resolved types of its sources and target per
// the §6 fold dispatch table (§4.7 "fold"):
//
//	File(s)      -> Commit     amend (HEAD: amend-no-edit; else temp-commit + fixup)
//	Commit       -> Commit     fixup
//	Commit       -> Branch     move
//	Commit       -> Unstaged   uncommit
//	CommitFile   -> Commit     move one file between commits
//	CommitFile   -> Unstaged   uncommit that single file
func Fold(ctx context.Context, env *Env, opts FoldOptions) error {
	w, err := buildWeave(ctx, env)
	if err != nil {
		return err
	}
	entities := entitiesForStatus(w)

	target, alloc, err := resolveTarget(ctx, env, entities, opts.Target, false)
	if err != nil {
		return err
	}

	sourceTargets := make([]resolve.Target, 0, len(opts.Sources))
	for _, s := range opts.Sources {
		st, err := resolve.Resolve(ctx, env.Repo, alloc, s, true)
		if err != nil {
			return err
		}
		sourceTargets = append(sourceTargets, st)
	}

	if allFiles(sourceTargets) && target.Kind == resolve.KindCommit {
		return foldFiles(ctx, env, w, pathsOf(sourceTargets), target.OID)
	}

	if len(sourceTargets) != 1 {
		return loomerr.NewUnresolvedTarget("fold requires exactly one non-file source")
	}
	src := sourceTargets[0]

	switch {
	case src.Kind == resolve.KindCommit && target.Kind == resolve.KindCommit:
		if err := w.FixupCommit(src.OID, target.OID); err != nil {
			return err
		}
		return executeWeave(ctx, env, w)

	case src.Kind == resolve.KindCommit && target.Kind == resolve.KindBranch:
		if err := w.MoveCommit(src.OID, target.Branch); err != nil {
			return err
		}
		return executeWeave(ctx, env, w)

	case src.Kind == resolve.KindCommit && target.Kind == resolve.KindUnstaged:
		return uncommit(ctx, env, w, src.OID)

	case src.Kind == resolve.KindCommitFile && target.Kind == resolve.KindCommit:
		return moveFileBetweenCommits(ctx, env, w, src, target.OID)

	case src.Kind == resolve.KindCommitFile && target.Kind == resolve.KindUnstaged:
		return uncommitFile(ctx, env, w, src)

	default:
		return loomerr.NewUnresolvedTarget("unsupported fold source/target combination")
	}
}

func allFiles(ts []resolve.Target) bool {
	if len(ts) == 0 {
		return false
	}
	for _, t := range ts {
		if t.Kind != resolve.KindFile {
			return false
		}
	}
	return true
}

func pathsOf(ts []resolve.Target) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Path
	}
	return out
}

// foldFiles implements the File(s)->Commit row: amend-no-edit directly
// when target is HEAD (no rebase needed), otherwise stage the files
// into a temporary commit and fixup_commit it onto target.
func foldFiles(ctx context.Context, env *Env, w *weave.Weave, paths []string, target weave.OID) error {
	if err := env.Repo.StagePaths(ctx, paths); err != nil {
		return err
	}
	head, err := env.Repo.Resolve(ctx, "HEAD")
	if err != nil {
		return err
	}
	if head == target {
		return env.Repo.CommitAmendNoEdit(ctx)
	}

	tempOID, err := env.Repo.Commit(ctx, "loom: temporary fold commit")
	if err != nil {
		return err
	}
	if err := w.FixupCommit(weave.OID(tempOID), target); err != nil {
		return err
	}
	return executeWeave(ctx, env, w)
}

// uncommit implements Commit->Unstaged: HEAD uses a mixed reset by
// one; a non-HEAD commit has its diff captured, is dropped from the
// Weave, then the diff is reapplied to the working tree.
func uncommit(ctx context.Context, env *Env, w *weave.Weave, oid weave.OID) error {
	head, err := env.Repo.Resolve(ctx, "HEAD")
	if err != nil {
		return err
	}
	if head == oid {
		return env.Repo.MixedResetN(ctx, 1)
	}

	patch, err := env.Repo.DiffOf(ctx, string(oid))
	if err != nil {
		return err
	}
	if err := w.DropCommit(oid); err != nil {
		return err
	}
	if err := executeWeave(ctx, env, w); err != nil {
		return err
	}
	return env.Repo.ApplyPatch(ctx, patch)
}

// moveFileBetweenCommits implements CommitFile->Commit: the named
// file's version at src is captured, removed from src via an Edit
// stop (the same way uncommitFile does), then staged and fixed up
// onto target.
func moveFileBetweenCommits(ctx context.Context, env *Env, w *weave.Weave, src resolve.Target, target weave.OID) error {
	files, err := env.Repo.ChangedFiles(ctx, string(src.OID))
	if err != nil {
		return err
	}
	if src.Index < 0 || src.Index >= len(files) {
		return loomerr.NewUnresolvedTarget("commit-file index out of range")
	}
	path := files[src.Index]

	if err := w.EditCommit(src.OID); err != nil {
		return err
	}
	todoPath, cleanup, err := scratchTodoFile()
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := runRebase(ctx, env, w, todoPath)
	if err != nil && !result.Stopped {
		return err
	}
	if !result.Stopped {
		return loomerr.NewUnresolvedTarget("move-file fold requires an Edit stop on the source commit")
	}

	// At the Edit stop, strip the file's change out of src by restoring
	// it to its pre-src content and amending, then let the rebase run
	// to completion before starting the second, independent pass that
	// fixes the file's content up onto target.
	if err := env.Repo.RestorePathFromParent(ctx, path); err != nil {
		_ = env.Driver.Abort(ctx)
		return err
	}
	if err := env.Repo.CommitAmendNoEdit(ctx); err != nil {
		_ = env.Driver.Abort(ctx)
		return err
	}
	if _, err := env.Driver.Continue(ctx); err != nil {
		return err
	}

	if err := env.Repo.CheckoutPathFromRevision(ctx, string(src.OID), path); err != nil {
		return err
	}
	if err := env.Repo.StagePaths(ctx, []string{path}); err != nil {
		return err
	}
	tempOID, err := env.Repo.Commit(ctx, "loom: temporary fold commit")
	if err != nil {
		return err
	}
	w2, err := buildWeave(ctx, env)
	if err != nil {
		return err
	}
	if err := w2.FixupCommit(weave.OID(tempOID), target); err != nil {
		return err
	}
	return executeWeave(ctx, env, w2)
}

// uncommitFile implements CommitFile->Unstaged: uncommit just the
// named file, leaving the rest of the source commit intact. It marks
// the source commit Edit, and at the pause restores the file to its
// pre-commit content before continuing, leaving the removed change
// unstaged in the working tree.
func uncommitFile(ctx context.Context, env *Env, w *weave.Weave, src resolve.Target) error {
	files, err := env.Repo.ChangedFiles(ctx, string(src.OID))
	if err != nil {
		return err
	}
	if src.Index < 0 || src.Index >= len(files) {
		return loomerr.NewUnresolvedTarget("commit-file index out of range")
	}
	path := files[src.Index]

	if err := w.EditCommit(src.OID); err != nil {
		return err
	}
	todoPath, cleanup, err := scratchTodoFile()
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := runRebase(ctx, env, w, todoPath)
	if err != nil && !result.Stopped {
		return err
	}
	if !result.Stopped {
		return nil
	}

	if err := env.Repo.RestorePathFromParent(ctx, path); err != nil {
		_ = env.Driver.Abort(ctx)
		return err
	}
	if err := env.Repo.CommitAmendNoEdit(ctx); err != nil {
		_ = env.Driver.Abort(ctx)
		return err
	}
	_, err = env.Driver.Continue(ctx)
	return err
}
