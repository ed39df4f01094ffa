package command

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScratchTodoFileCreatesAndCleansUp(t *testing.T) {
	path, cleanup, err := scratchTodoFile()
	require.NoError(t, err)
	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)

	cleanup()
	_, statErr = os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
