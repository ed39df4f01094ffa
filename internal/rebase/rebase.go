// Package rebase drives `git rebase -i --rebase-merges` with a
// programmatically generated todo list (§4.4): it writes the todo
// text produced by weave.Serialize to a temp file, points
// SEQUENCE_EDITOR at the hidden "internal-write-todo" subcommand so
// git's own todo-parsing and execution machinery does the work, and
// reports the outcome through the loomerr taxonomy instead of
// inspecting exit codes at call sites.
package rebase

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kballard/go-shellquote"

	"github.com/git-loom/loom/internal/loomerr"
	"github.com/git-loom/loom/internal/weave"
	"github.com/git-loom/loom/modules/command"
	"github.com/git-loom/loom/modules/env"
)

// Driver runs rebases against a single worktree.
type Driver struct {
	// WorkTree is the repository's working directory.
	WorkTree string
	// SelfPath is the path of the loom binary re-invoked as the
	// SEQUENCE_EDITOR so the generated todo text reaches git without a
	// second temp file. cmd/loom passes os.Executable(); the path is
	// used as given, and a binary inside a deps/ directory is not
	// re-resolved to the directory above it.
	SelfPath string
}

// New builds a Driver for worktree that re-invokes selfPath as given.
func New(workTree, selfPath string) *Driver {
	return &Driver{WorkTree: workTree, SelfPath: selfPath}
}

// Result reports what happened after a rebase completed or stopped.
type Result struct {
	// Stopped is true if git rebase stopped for `edit` rather than
	// running to completion.
	Stopped bool
}

// Run serializes w and drives `git rebase -i --rebase-merges
// --autostash --keep-empty --no-autosquash --update-refs` against it,
// rooted at w.Base. todoPath is a caller-provided scratch file (the
// orchestrator owns its lifecycle so it can be inspected after a
// failure); Run writes the serialized todo there before starting git.
func (d *Driver) Run(ctx context.Context, w *weave.Weave, todoPath string) (Result, error) {
	todo, err := weave.Serialize(w)
	if err != nil {
		return Result{}, err
	}
	if err := os.WriteFile(todoPath, []byte(todo), 0o600); err != nil {
		return Result{}, fmt.Errorf("write todo file: %w", err)
	}

	editorCmd := shellquote.Join(d.SelfPath, "internal-write-todo", todoPath)

	stderr := command.NewStderr()
	cmd := command.NewFromOptions(ctx, &command.RunOpts{
		RepoPath: d.WorkTree,
		Stderr:   stderr,
		ExtraEnv: []string{
			"GIT_SEQUENCE_EDITOR=" + editorCmd,
			"EDITOR=true",
			// git drives this subprocess non-interactively; a
			// Prompter reached from inside it would hang.
			env.LOOM_TERMINAL_PROMPT.WithBool(false),
		},
	}, "git", "rebase", "-i", "--rebase-merges", "--autostash", "--keep-empty",
		"--no-autosquash", "--update-refs", string(w.Base))

	runErr := cmd.RunEx()
	captured := stderr.String()
	if runErr == nil {
		return Result{}, nil
	}

	if inProgress, checkErr := d.inProgress(ctx); checkErr == nil && inProgress {
		return Result{Stopped: true}, loomerr.NewRebaseConflict(captured)
	}
	return Result{}, loomerr.NewRebaseFailed(captured)
}

// Abort runs `git rebase --abort`, surfacing a
// WorkingTreePreservationFailed if even that fails.
func (d *Driver) Abort(ctx context.Context) error {
	stderr := command.NewStderr()
	cmd := command.NewFromOptions(ctx, &command.RunOpts{
		RepoPath: d.WorkTree,
		Stderr:   stderr,
	}, "git", "rebase", "--abort")
	if err := cmd.RunEx(); err != nil {
		return loomerr.NewWorkingTreePreservationFailed(stderr.String())
	}
	return nil
}

// Continue runs `git rebase --continue`, for resuming after the user
// has resolved a conflict or finished an `edit` stop.
func (d *Driver) Continue(ctx context.Context) (Result, error) {
	stderr := command.NewStderr()
	cmd := command.NewFromOptions(ctx, &command.RunOpts{
		RepoPath: d.WorkTree,
		Stderr:   stderr,
		ExtraEnv: []string{"EDITOR=true", env.LOOM_TERMINAL_PROMPT.WithBool(false)},
	}, "git", "rebase", "--continue")
	runErr := cmd.RunEx()
	captured := stderr.String()
	if runErr == nil {
		return Result{}, nil
	}
	if inProgress, checkErr := d.inProgress(ctx); checkErr == nil && inProgress {
		return Result{Stopped: true}, loomerr.NewRebaseConflict(captured)
	}
	return Result{}, loomerr.NewRebaseFailed(captured)
}

// inProgress reports whether a rebase is mid-flight by checking for
// git's own state directory, the same signal `git status` relies on.
func (d *Driver) inProgress(ctx context.Context) (bool, error) {
	out, err := command.New(ctx, d.WorkTree, "git", "rev-parse", "--git-path", "rebase-merge").OneLine()
	if err != nil {
		return false, err
	}
	path := out
	if !filepath.IsAbs(path) {
		path = filepath.Join(d.WorkTree, path)
	}
	_, statErr := os.Stat(path)
	return statErr == nil, nil
}

// WriteTodo implements the internal-write-todo hidden subcommand
// (§4.4): git invokes the SEQUENCE_EDITOR with the path to the todo
// file it generated; this replaces that file's contents wholesale with
// the program captured at srcPath, discarding whatever git wrote.
func WriteTodo(srcPath, gitTodoPath string) error {
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("read captured todo: %w", err)
	}
	if err := os.WriteFile(gitTodoPath, data, 0o600); err != nil {
		return fmt.Errorf("write git todo file: %w", err)
	}
	return nil
}

// StripHints removes git's own "Rebase ... onto ..." and "# Commands:"
// hint block that it prepends to the todo file before invoking the
// sequence editor, since WriteTodo overwrites wholesale and never
// needs to parse them; exposed for callers that want to diff an
// in-flight todo file against the generated one for diagnostics.
func StripHints(raw []byte) []byte {
	var out bytes.Buffer
	for _, line := range bytes.Split(raw, []byte("\n")) {
		if bytes.HasPrefix(line, []byte("#")) {
			continue
		}
		out.Write(line)
		out.WriteByte('\n')
	}
	return out.Bytes()
}
