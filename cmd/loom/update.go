package main

import "github.com/git-loom/loom/internal/command"

// UpdateCmd mirrors §6's `update`.
type UpdateCmd struct{}

func (c *UpdateCmd) Run(g *Globals) error {
	ctx, env, err := openEnv(g)
	if err != nil {
		return err
	}
	return command.Update(ctx, env)
}
