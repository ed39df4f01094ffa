package main

import "github.com/git-loom/loom/internal/command"

// RewordCmd mirrors §6's `reword <target> [-m message]`.
type RewordCmd struct {
	Target  string `arg:"" name:"target" help:"Commit or branch to reword."`
	Message string `short:"m" name:"message" optional:"" help:"New message or branch name."`
}

func (c *RewordCmd) Run(g *Globals) error {
	ctx, env, err := openEnv(g)
	if err != nil {
		return err
	}
	return command.Reword(ctx, env, command.RewordOptions{Token: c.Target, Message: c.Message})
}
