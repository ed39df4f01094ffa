package command

import (
	"context"

	"github.com/git-loom/loom/internal/loomerr"
	"github.com/git-loom/loom/internal/weave"
)

// CommitOptions mirrors §6's `commit [-b branch] [-m message] [files…]`.
type CommitOptions struct {
	Branch  string
	Message string
	Files   []string
}

// Commit resolves staging (zz stages everything; otherwise the listed
// files only), then either commits directly on integration (when -b is
// absent and HEAD equals the merge-base, i.e. local matches remote) or
// resolves/creates the target branch, commits at HEAD, and weaves the
// new commit into that branch's section (§4.7 "commit").
func Commit(ctx context.Context, env *Env, opts CommitOptions) error {
	if err := stageFor(ctx, env, opts.Files); err != nil {
		return err
	}
	staged, err := env.Repo.HasStagedChanges(ctx)
	if err != nil {
		return err
	}
	if !staged {
		return loomerr.NewNothingToCommit()
	}

	if opts.Branch == "" {
		w, err := buildWeave(ctx, env)
		if err == nil {
			head, herr := env.Repo.Resolve(ctx, "HEAD")
			if herr == nil && head == w.Base {
				_, err := env.Repo.Commit(ctx, opts.Message)
				return err
			}
		} else if !loomerr.IsNoUpstream(err) && !loomerr.IsDetachedHead(err) {
			return err
		}
		return loomerr.NewInvalidName("", "a target branch (-b) is required once HEAD has diverged from the merge-base")
	}

	return commitOnBranch(ctx, env, opts)
}

func stageFor(ctx context.Context, env *Env, files []string) error {
	if len(files) == 0 {
		return nil
	}
	if len(files) == 1 && files[0] == "zz" {
		return env.Repo.StageAll(ctx)
	}
	return env.Repo.StagePaths(ctx, files)
}

func commitOnBranch(ctx context.Context, env *Env, opts CommitOptions) error {
	branch := opts.Branch
	newSection := !env.Repo.BranchExists(ctx, branch)
	if newSection {
		if reason, bad := invalidBranchName(branch); bad {
			return loomerr.NewInvalidName(branch, reason)
		}
		base, err := mergeBaseOf(ctx, env)
		if err != nil {
			return err
		}
		if err := env.Repo.CreateBranch(ctx, branch, string(base)); err != nil {
			return err
		}
	}

	oid, err := env.Repo.Commit(ctx, opts.Message)
	if err != nil {
		return err
	}

	w, err := buildWeave(ctx, env)
	if err != nil {
		return err
	}

	if newSection {
		if err := w.AddBranchSection(branch, []string{branch}, nil, weave.OntoLabel); err != nil {
			return err
		}
		if err := w.AddMerge(branch, "", -1); err != nil {
			return err
		}
	}

	if err := w.MoveCommit(weave.OID(oid), branch); err != nil {
		return err
	}
	return executeWeave(ctx, env, w)
}

// mergeBaseOf returns the Weave base (merge-base of HEAD and upstream)
// without needing a full topology build, for creating a new branch
// before the commit that will live on it exists.
func mergeBaseOf(ctx context.Context, env *Env) (weave.OID, error) {
	current, err := env.Repo.CurrentBranch(ctx)
	if err != nil {
		return "", err
	}
	upstream, ok, err := env.Repo.Upstream(ctx, current)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", loomerr.NewNoUpstream(current)
	}
	head, err := env.Repo.Resolve(ctx, "HEAD")
	if err != nil {
		return "", err
	}
	return env.Repo.MergeBase(ctx, string(head), upstream)
}
