package main

import (
	"github.com/git-loom/loom/internal/command"
	"github.com/git-loom/loom/internal/loomerr"
)

// FoldCmd mirrors §6's `fold <sources…> <target>`: a single trailing
// positional list, since kong (like most flag parsers) cannot parse
// two adjacent variable-length/singular positional groups. The last
// token is the target; everything before it is a source.
type FoldCmd struct {
	Args []string `arg:"" name:"args" help:"One or more sources followed by the fold target."`
}

func (c *FoldCmd) Run(g *Globals) error {
	if len(c.Args) < 2 {
		return loomerr.NewUnresolvedTarget("fold requires at least one source and a target")
	}
	ctx, env, err := openEnv(g)
	if err != nil {
		return err
	}
	sources, target := c.Args[:len(c.Args)-1], c.Args[len(c.Args)-1]
	return command.Fold(ctx, env, command.FoldOptions{Sources: sources, Target: target})
}
