package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemainingFilesExcludesSelected(t *testing.T) {
	all := []string{"a.go", "b.go", "c.go"}
	selected := []string{"b.go"}
	assert.Equal(t, []string{"a.go", "c.go"}, remainingFiles(all, selected))
}

func TestRemainingFilesAllSelectedLeavesEmpty(t *testing.T) {
	all := []string{"a.go", "b.go"}
	assert.Empty(t, remainingFiles(all, all))
}

func TestRemainingFilesNoneSelectedReturnsAll(t *testing.T) {
	all := []string{"a.go", "b.go"}
	assert.Equal(t, all, remainingFiles(all, nil))
}
