package main

import "github.com/git-loom/loom/internal/command"

// BranchCmd mirrors §6's `branch <name> [target]`.
type BranchCmd struct {
	Name   string `arg:"" name:"name" help:"Name of the branch to create."`
	Target string `arg:"" name:"target" optional:"" help:"Commit, branch, or short-ID to fork from (defaults to the integration base)."`
}

func (c *BranchCmd) Run(g *Globals) error {
	ctx, env, err := openEnv(g)
	if err != nil {
		return err
	}
	return command.Branch(ctx, env, command.BranchOptions{Name: c.Name, Target: c.Target})
}
