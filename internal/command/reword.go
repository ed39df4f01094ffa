package command

import (
	"context"

	"github.com/git-loom/loom/internal/loomerr"
	"github.com/git-loom/loom/internal/resolve"
	"github.com/git-loom/loom/internal/topology"
	"github.com/git-loom/loom/internal/weave"
)

// RewordOptions mirrors §6's `reword <target> [-m message]`.
type RewordOptions struct {
	Token   string
	Message string
}

// Reword renames a branch ref directly (interactive if Message is
// empty) when the target resolves to a Branch; otherwise it builds a
// Weave, marks the target commit Edit, runs the rebase, and amends the
// message when the rebase pauses on it. Falls back to the linear Weave
// (§4.1) when the repository has no configured upstream (§4.7
// "reword").
func Reword(ctx context.Context, env *Env, opts RewordOptions) error {
	w, err := buildWeave(ctx, env)
	if err != nil {
		if !loomerr.IsNoUpstream(err) && !loomerr.IsDetachedHead(err) {
			return err
		}
		root, rootErr := env.Repo.Resolve(ctx, "HEAD")
		if rootErr != nil {
			return rootErr
		}
		w, err = topology.BuildLinear(ctx, env.Repo, root)
		if err != nil {
			return err
		}
	}

	entities := entitiesForStatus(w)
	target, _, err := resolveTarget(ctx, env, entities, opts.Token, false)
	if err != nil {
		return err
	}

	switch target.Kind {
	case resolve.KindBranch:
		return rewordBranch(ctx, env, target.Branch, opts.Message)
	case resolve.KindCommit:
		return rewordCommit(ctx, env, w, target.OID, opts.Message)
	default:
		return loomerr.NewUnresolvedTarget(opts.Token)
	}
}

func rewordBranch(ctx context.Context, env *Env, name, message string) error {
	newName := message
	if newName == "" {
		if env.Prompter == nil {
			return loomerr.NewInvalidName(name, "no replacement name given and no prompter available")
		}
		var err error
		newName, err = env.Prompter.EditMessage(name)
		if err != nil {
			return err
		}
	}
	if reason, bad := invalidBranchName(newName); bad {
		return loomerr.NewInvalidName(newName, reason)
	}
	return env.Repo.RenameBranch(ctx, name, newName)
}

func rewordCommit(ctx context.Context, env *Env, w *weave.Weave, oid weave.OID, message string) error {
	if err := w.EditCommit(oid); err != nil {
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

	msg := message
	if msg == "" {
		if env.Prompter == nil {
			_ = env.Driver.Abort(ctx)
			return loomerr.NewRebaseConflict("edit stop reached but no message given and no editor prompter available")
		}
		msg, err = env.Prompter.EditMessage("")
		if err != nil {
			_ = env.Driver.Abort(ctx)
			return err
		}
	}
	if err := env.Repo.CommitAmendMessage(ctx, msg); err != nil {
		_ = env.Driver.Abort(ctx)
		return err
	}
	_, err = env.Driver.Continue(ctx)
	return err
}
