package command

import "context"

// Update fetches every remote (prune, tags, force), rebases the
// current branch onto its upstream's new tip with autostash, and, when
// the working tree has submodules configured, updates them recursively
// afterward. All three steps run or none does from the caller's point
// of view: a failure during the rebase leaves the driver's own abort
// path to restore the working tree, and the submodule step never runs
// unless the rebase itself completed cleanly (§4.7 "update").
func Update(ctx context.Context, env *Env) error {
	if err := env.Repo.FetchAll(ctx); err != nil {
		return err
	}

	w, err := buildWeave(ctx, env)
	if err != nil {
		return err
	}

	current, err := env.Repo.CurrentBranch(ctx)
	if err != nil {
		return err
	}
	upstream, ok, err := env.Repo.Upstream(ctx, current)
	if err != nil {
		return err
	}
	if ok {
		newBase, err := env.Repo.Resolve(ctx, upstream)
		if err != nil {
			return err
		}
		w.Base = newBase
	}

	todoPath, cleanup, err := scratchTodoFile()
	if err != nil {
		return err
	}
	defer cleanup()

	if result, err := runRebase(ctx, env, w, todoPath); err != nil {
		if result.Stopped {
			_ = env.Driver.Abort(ctx)
		}
		return err
	}

	hasSubmodules, err := env.Repo.HasSubmodules(ctx)
	if err != nil {
		return err
	}
	if hasSubmodules {
		return env.Repo.UpdateSubmodules(ctx)
	}
	return nil
}
