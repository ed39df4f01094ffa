// Command loom is the git-loom CLI: a thin kong front-end over
// internal/command's orchestrators. Argument parsing, interactive
// prompting, colour rendering and push strategies are deliberately
// kept out of the core packages; this file is where they would plug
// in, left as stubs where the behaviour is genuinely external.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"github.com/git-loom/loom/internal/command"
	"github.com/git-loom/loom/internal/loomerr"
	"github.com/git-loom/loom/internal/rebase"
	"github.com/git-loom/loom/internal/vcsexec"
)

// Globals holds the flags every subcommand shares.
type Globals struct {
	Verbose bool `short:"V" help:"Make the operation more talkative."`
	Debug   bool `help:"Print rebase step timing to stderr."`
	NoColor bool `name:"no-color" help:"Disable coloured output."`
}

// App is the root kong command tree, one field per §6 subcommand.
type App struct {
	Globals

	Status StatusCmd `cmd:"" name:"status" help:"Show the integration topology."`
	Init   InitCmd   `cmd:"" name:"init" help:"Start tracking a branch as the integration line."`
	Branch BranchCmd `cmd:"" name:"branch" help:"Create a branch woven into the topology."`
	Reword RewordCmd `cmd:"" name:"reword" help:"Reword a commit message or rename a branch."`
	Commit CommitCmd `cmd:"" name:"commit" help:"Commit staged (or given) files onto a branch."`
	Fold   FoldCmd   `cmd:"" name:"fold" help:"Fold sources into a target commit, branch, or zz."`
	Drop   DropCmd   `cmd:"" name:"drop" help:"Remove a commit or branch from the topology."`
	Split  SplitCmd  `cmd:"" name:"split" help:"Split a commit into two."`
	Absorb AbsorbCmd `cmd:"" name:"absorb" help:"Fold working tree changes into their introducing commits."`
	Update UpdateCmd `cmd:"" name:"update" help:"Fetch and rebase the current branch onto its upstream."`

	InternalWriteTodo InternalWriteTodoCmd `cmd:"" name:"internal-write-todo" hidden:"" help:"SEQUENCE_EDITOR target invoked by the rebase driver."`
}

func main() {
	var app App
	ctx := kong.Parse(&app,
		kong.Name("loom"),
		kong.Description("git-loom - weave feature branches into a single integration branch"),
		kong.UsageOnError(),
	)
	if app.Verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	err := ctx.Run(&app.Globals)
	if err != nil {
		reportError(err)
		os.Exit(1)
	}
}

// reportError renders a loomerr value as a one-line diagnostic,
// mirroring the teacher's diev-style convention of surfacing the
// typed error's own message without a stack trace.
func reportError(err error) {
	fmt.Fprintln(os.Stderr, "loom: "+err.Error())
}

// openEnv opens the repository rooted at the current working
// directory and assembles the Env every orchestrator needs. Prompter
// is left nil: interactive prompting is out of scope for the core, so
// commands that would need one surface a descriptive error instead.
func openEnv(g *Globals) (context.Context, *command.Env, error) {
	ctx := context.Background()
	cwd, err := os.Getwd()
	if err != nil {
		return nil, nil, err
	}
	repo, err := vcsexec.Open(ctx, cwd)
	if err != nil {
		return nil, nil, err
	}
	if repo.WorkTree == "" {
		return nil, nil, loomerr.NewBareRepo(repo.GitDir)
	}
	selfPath, err := os.Executable()
	if err != nil {
		return nil, nil, err
	}
	env := &command.Env{
		Repo:   repo,
		Driver: rebase.New(repo.WorkTree, selfPath),
		Out:    os.Stdout,
		Globals: &command.Globals{
			Verbose: g.Verbose,
			Debug:   g.Debug,
			CWD:     cwd,
			NoColor: g.NoColor,
		},
	}
	return ctx, env, nil
}
