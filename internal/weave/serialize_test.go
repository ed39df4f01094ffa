package weave

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeProducesRebaseMergesProgram(t *testing.T) {
	w := simpleWeave()
	todo, err := Serialize(w)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(todo, "\n"), "\n")
	assert.Equal(t, "label onto", lines[0])
	assert.Equal(t, "reset onto", lines[1])
	assert.Contains(t, todo, "label feature")
	assert.Contains(t, todo, "update-ref refs/heads/feature")
	assert.Contains(t, todo, "merge feature")
	assert.Contains(t, todo, "pick c3 msg c3")
}

func TestSerializePrunesEmptySections(t *testing.T) {
	w := simpleWeave()
	require.NoError(t, w.DropCommit("c1"))
	require.NoError(t, w.DropCommit("c2"))

	todo, err := Serialize(w)
	require.NoError(t, err)
	assert.NotContains(t, todo, "label feature")
	assert.NotContains(t, todo, "merge feature")
}

func TestSerializeRejectsInvalidWeave(t *testing.T) {
	w := New("base")
	w.Line = []IntegrationEntry{MergeEntry("", "ghost")}
	_, err := Serialize(w)
	assert.Error(t, err)
}

func TestSerializePreservesMergeOriginalOID(t *testing.T) {
	w := New("base")
	require.NoError(t, w.AddBranchSection("a", []string{"a"}, []CommitEntry{pick("c1")}, OntoLabel))
	require.NoError(t, w.AddMerge("a", "orig123", -1))

	todo, err := Serialize(w)
	require.NoError(t, err)
	assert.Contains(t, todo, "merge -C orig123 a")
}
