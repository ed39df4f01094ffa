package main

import "github.com/git-loom/loom/internal/command"

// AbsorbCmd mirrors §6's `absorb [-n|--dry-run] [files…]`.
type AbsorbCmd struct {
	DryRun bool     `short:"n" name:"dry-run" help:"Report the plan without mutating anything."`
	Files  []string `arg:"" name:"files" help:"Restrict absorb to these tracked files."`
}

func (c *AbsorbCmd) Run(g *Globals) error {
	ctx, env, err := openEnv(g)
	if err != nil {
		return err
	}
	w, plans, err := command.Absorb(ctx, env, command.AbsorbOptions{Files: c.Files, DryRun: c.DryRun})
	if w != nil {
		command.RenderAbsorbPlan(env, w, plans)
	}
	return err
}
