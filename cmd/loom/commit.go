package main

import "github.com/git-loom/loom/internal/command"

// CommitCmd mirrors §6's `commit [-b branch] [-m message] [files…]`.
type CommitCmd struct {
	Branch  string   `short:"b" name:"branch" optional:"" help:"Target branch; required once HEAD has diverged from the merge-base."`
	Message string   `short:"m" name:"message" optional:"" help:"Commit message."`
	Files   []string `arg:"" name:"files" help:"Files to stage, or zz to stage everything."`
}

func (c *CommitCmd) Run(g *Globals) error {
	ctx, env, err := openEnv(g)
	if err != nil {
		return err
	}
	return command.Commit(ctx, env, command.CommitOptions{Branch: c.Branch, Message: c.Message, Files: c.Files})
}
