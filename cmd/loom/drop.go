package main

import "github.com/git-loom/loom/internal/command"

// DropCmd mirrors §6's `drop [-y|--yes] <target>`.
type DropCmd struct {
	Yes    bool   `short:"y" name:"yes" help:"Skip the confirmation prompt."`
	Target string `arg:"" name:"target" help:"Commit or branch to drop."`
}

func (c *DropCmd) Run(g *Globals) error {
	ctx, env, err := openEnv(g)
	if err != nil {
		return err
	}
	return command.Drop(ctx, env, command.DropOptions{Target: c.Target, Yes: c.Yes})
}
