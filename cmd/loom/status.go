package main

import "github.com/git-loom/loom/internal/command"

// StatusCmd mirrors §6's `status [-f|--files] [N]`.
type StatusCmd struct {
	Files bool `short:"f" name:"files" help:"Show per-commit file counts."`
	Limit int  `arg:"" name:"limit" optional:"" help:"Cap the number of sections shown."`
}

func (c *StatusCmd) Run(g *Globals) error {
	ctx, env, err := openEnv(g)
	if err != nil {
		return err
	}
	opts := command.StatusOptions{Files: c.Files, Limit: c.Limit}
	report, err := command.Status(ctx, env, opts)
	if err != nil {
		return err
	}
	command.Render(env, report, opts)
	return nil
}
