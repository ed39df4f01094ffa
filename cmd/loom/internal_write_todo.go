package main

import "github.com/git-loom/loom/internal/rebase"

// InternalWriteTodoCmd is the hidden SEQUENCE_EDITOR target (§4.4): git
// invokes it with the path to the todo file it generated appended
// after Source, the one positional argument the rebase driver passes
// explicitly.
type InternalWriteTodoCmd struct {
	Source  string `arg:"" name:"source" help:"Path to the todo program captured by the rebase driver."`
	GitTodo string `arg:"" name:"git-todo" help:"Path to the todo file git generated, passed in by git itself."`
}

func (c *InternalWriteTodoCmd) Run(g *Globals) error {
	return rebase.WriteTodo(c.Source, c.GitTodo)
}
