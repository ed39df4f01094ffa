package main

import "github.com/git-loom/loom/internal/command"

// SplitCmd mirrors §6's `split [-m message] <target>`.
type SplitCmd struct {
	Message string `short:"m" name:"message" optional:"" help:"Message for the split-out commit."`
	Target  string `arg:"" name:"target" help:"Commit to split."`
}

func (c *SplitCmd) Run(g *Globals) error {
	ctx, env, err := openEnv(g)
	if err != nil {
		return err
	}
	return command.Split(ctx, env, command.SplitOptions{Token: c.Target, Message: c.Message})
}
