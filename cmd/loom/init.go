package main

import "github.com/git-loom/loom/internal/command"

// InitCmd mirrors §6's `init <name>`.
type InitCmd struct {
	Name string `arg:"" name:"name" help:"Name of the branch to start tracking."`
}

func (c *InitCmd) Run(g *Globals) error {
	ctx, env, err := openEnv(g)
	if err != nil {
		return err
	}
	return command.Init(ctx, env, command.InitOptions{Name: c.Name})
}
