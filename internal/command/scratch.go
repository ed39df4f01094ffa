package command

import (
	"os"
)

// scratchTodoFile creates the temp file the rebase driver writes its
// generated todo program to, scoped to a single rebase and deleted on
// all exit paths (§5 "Temporary todo file").
func scratchTodoFile() (string, func(), error) {
	f, err := os.CreateTemp("", "git-loom-todo-*")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	_ = f.Close()
	return path, func() { _ = os.Remove(path) }, nil
}
