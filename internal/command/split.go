package command

import (
	"context"
	"fmt"

	"github.com/git-loom/loom/internal/loomerr"
	"github.com/git-loom/loom/internal/resolve"
)

// SplitOptions mirrors §6's `split [-m message] <target>`.
type SplitOptions struct {
	Token   string
	Message string
}

// Split resolves target to a commit, validates it is splittable (not a
// merge, at least two changed files), gathers an interactive file
// selection through the Prompter, then splits it into two commits: a
// parent holding the selected files under Message (or a prompted
// message), and a child holding the rest under the original subject
// (§4.7 "split"). A non-HEAD target is reached via an Edit stop, the
// same split performed at the pause, then the rebase resumes.
func Split(ctx context.Context, env *Env, opts SplitOptions) error {
	w, err := buildWeave(ctx, env)
	if err != nil {
		return err
	}
	entities := entitiesForStatus(w)

	target, _, err := resolveTarget(ctx, env, entities, opts.Token, false)
	if err != nil {
		return err
	}
	if target.Kind != resolve.KindCommit {
		return loomerr.NewUnresolvedTarget(opts.Token)
	}

	info, err := env.Repo.CommitInfo(ctx, target.OID)
	if err != nil {
		return err
	}
	if len(info.Parents) > 1 {
		return loomerr.NewMergeNotSplittable(string(target.OID))
	}
	files, err := env.Repo.ChangedFiles(ctx, string(target.OID))
	if err != nil {
		return err
	}
	if len(files) < 2 {
		return loomerr.NewSingleFileNotSplittable(string(target.OID))
	}

	if env.Prompter == nil {
		return loomerr.NewUnresolvedTarget("split requires an interactive file selection and no prompter is available")
	}
	selected, err := env.Prompter.SelectFiles(fmt.Sprintf("select files to keep together with %s", info.Abbrev), files)
	if err != nil {
		return err
	}
	if len(selected) == 0 || len(selected) >= len(files) {
		return loomerr.NewUnresolvedTarget("split selection must choose at least one file and leave at least one behind")
	}

	message := opts.Message
	if message == "" {
		message, err = env.Prompter.EditMessage("")
		if err != nil {
			return err
		}
	}

	head, err := env.Repo.Resolve(ctx, "HEAD")
	if err != nil {
		return err
	}
	if head == target.OID {
		return splitAtHead(ctx, env, files, selected, message, info.Subject)
	}

	if err := w.EditCommit(target.OID); err != nil {
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
		return loomerr.NewUnresolvedTarget("split requires an Edit stop on the source commit")
	}

	if err := splitAtHead(ctx, env, files, selected, message, info.Subject); err != nil {
		_ = env.Driver.Abort(ctx)
		return err
	}
	_, err = env.Driver.Continue(ctx)
	return err
}

// splitAtHead performs the split once HEAD is exactly the commit being
// split (either it already was, or an Edit stop placed it there): a
// mixed reset by one moves the index back a commit while leaving the
// working tree at the original content, then the selected subset is
// committed first under message and the remainder under the original
// subject, so the remainder becomes the new tip.
func splitAtHead(ctx context.Context, env *Env, allFiles, selected []string, message, originalSubject string) error {
	if err := env.Repo.MixedResetN(ctx, 1); err != nil {
		return err
	}
	if err := env.Repo.StagePaths(ctx, selected); err != nil {
		return err
	}
	if _, err := env.Repo.Commit(ctx, message); err != nil {
		return err
	}
	if err := env.Repo.StagePaths(ctx, remainingFiles(allFiles, selected)); err != nil {
		return err
	}
	_, err := env.Repo.Commit(ctx, originalSubject)
	return err
}

func remainingFiles(all, selected []string) []string {
	chosen := make(map[string]bool, len(selected))
	for _, f := range selected {
		chosen[f] = true
	}
	out := make([]string, 0, len(all)-len(selected))
	for _, f := range all {
		if !chosen[f] {
			out = append(out, f)
		}
	}
	return out
}
