// Package command composes the weave/topology/rebase/resolve/shortid
// packages into the ten user-facing orchestrators (§4.7): status,
// init, branch, reword, commit, fold, drop, split, absorb, update.
// Each orchestrator is a short recipe, never partially committing
// state: a mutating orchestrator that fails between mutating its Weave
// and completing a rebase leaves the repository exactly as it found
// it, because every such orchestrator aborts the in-progress rebase
// before returning its error (executeWeave does this for the
// orchestrators that never pause mid-rebase; reword/split/fold abort
// the same way around their own manual edit-pause handling).
package command

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/git-loom/loom/internal/loomcfg"
	"github.com/git-loom/loom/internal/rebase"
	"github.com/git-loom/loom/internal/resolve"
	"github.com/git-loom/loom/internal/shortid"
	"github.com/git-loom/loom/internal/topology"
	"github.com/git-loom/loom/internal/vcsexec"
	"github.com/git-loom/loom/internal/weave"
	"github.com/git-loom/loom/internal/xtrace"
)

// Globals mirrors pkg/command/command.go's Globals: flags every
// subcommand shares, threaded through rather than read from package
// state (§9 "no shared mutable state").
type Globals struct {
	Verbose bool
	Debug   bool
	CWD     string
	NoColor bool
}

func (g *Globals) DbgPrint(format string, args ...any) {
	if !g.Verbose {
		return
	}
	logrus.Debugf(format, args...)
}

// Prompter is the out-of-scope interactive-prompt collaborator (§1
// non-goals: "interactive prompts"). init falls back to it only when
// neither an existing upstream nor the configured fallback branch list
// resolves a candidate; drop consults it for the confirmation prompt
// unless -y is given.
type Prompter interface {
	Confirm(prompt string) (bool, error)
	Choose(prompt string, options []string) (string, error)
	EditMessage(initial string) (string, error)
	// SelectFiles is split's interactive multi-select: the caller must
	// choose a non-empty, non-total subset of files.
	SelectFiles(prompt string, files []string) ([]string, error)
}

// Pusher is the out-of-scope push-strategy collaborator (§1 non-goals:
// "push strategies"). The core never implements it; `push` is external
// to this package entirely, but orchestrators that need to know the
// configured remote type (§6 loom.remote-type) read it through
// internal/loomcfg directly rather than through this interface.
type Pusher interface {
	Push(ctx context.Context, branch string) error
}

// Env bundles the collaborators an orchestrator needs beyond the pure
// engine packages: the opened repository, the rebase driver, the
// interactive Prompter, an output stream, and the shared Globals.
type Env struct {
	Repo     *vcsexec.Repo
	Driver   *rebase.Driver
	Prompter Prompter
	Out      io.Writer
	Globals  *Globals
}

// resolveTarget is the shared entry point every orchestrator uses to
// turn a CLI token into a resolve.Target, given the entity list already
// assembled for this invocation's short-ID allocation.
func resolveTarget(ctx context.Context, env *Env, entities []shortid.Entity, token string, allowFilePath bool) (resolve.Target, *shortid.Allocator, error) {
	alloc := shortid.New(entities)
	t, err := resolve.Resolve(ctx, env.Repo, alloc, token, allowFilePath)
	return t, alloc, err
}

// buildWeave builds the integration Weave for the repository env wraps,
// per §4.1.
func buildWeave(ctx context.Context, env *Env) (*weave.Weave, error) {
	return topology.Build(ctx, env.Repo)
}

// runRebase serializes w and drives it through env's rebase driver,
// using a scratch file the caller is responsible for cleaning up (the
// orchestrators below delete it via defer immediately after creation).
func runRebase(ctx context.Context, env *Env, w *weave.Weave, todoPath string) (rebase.Result, error) {
	env.Globals.DbgPrint("executing rebase todo for %d sections, %d line entries", len(w.Sections), len(w.Line))
	tr := xtrace.NewTracker(env.Globals.Debug)
	res, err := env.Driver.Run(ctx, w, todoPath)
	tr.StepNext("rebase")
	return res, err
}

// entitiesForStatus builds the full entity list status (and every
// other orchestrator that needs short IDs for commits+branches) feeds
// to shortid.New: one entity per section branch name, one per
// non-woven update-ref, one per commit OID, plus the reserved Unstaged
// sentinel.
func entitiesForStatus(w *weave.Weave) []shortid.Entity {
	var out []shortid.Entity
	seenBranch := map[string]bool{}
	addBranch := func(name string) {
		if !seenBranch[name] {
			seenBranch[name] = true
			out = append(out, shortid.Entity{Kind: shortid.Branch, Name: name})
		}
	}
	addCommit := func(oid weave.OID) {
		out = append(out, shortid.Entity{Kind: shortid.Commit, Name: string(oid)})
	}

	for _, s := range w.Sections {
		for _, n := range s.BranchNames {
			addBranch(n)
		}
		for _, c := range s.Commits {
			addCommit(c.OID)
		}
	}
	for _, e := range w.Line {
		if e.Kind == weave.EntryPick {
			addCommit(e.Commit.OID)
			for _, n := range e.Commit.UpdateRefs {
				addBranch(n)
			}
		}
	}
	out = append(out, shortid.Entity{Kind: shortid.Unstaged})
	return out
}

// loadFallbackBranches reads the user's configured fallback branch
// list for init's upstream auto-detection (§4.7, SUPPLEMENTED
// FEATURES "Config precedence").
func loadFallbackBranches() ([]string, error) {
	f, err := loomcfg.Load()
	if err != nil {
		return nil, fmt.Errorf("load git-loom config: %w", err)
	}
	return f.IntegrationBranches, nil
}
