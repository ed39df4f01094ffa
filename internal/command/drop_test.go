package command

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/git-loom/loom/internal/weave"
)

func TestPrimaryBranchPicksAlphabeticallyFirst(t *testing.T) {
	assert.Equal(t, "alpha", primaryBranch([]string{"zeta", "alpha", "mid"}))
}

func TestOtherNamesExcludesGivenName(t *testing.T) {
	assert.Equal(t, []string{"a", "c"}, otherNames([]string{"a", "b", "c"}, "b"))
}

func TestPreviousBoundaryStopsAtMerge(t *testing.T) {
	line := []weave.IntegrationEntry{
		weave.MergeEntry("", "feature"),
		weave.PickEntry(weave.CommitEntry{OID: "c1"}),
		weave.PickEntry(weave.CommitEntry{OID: "c2"}),
	}
	assert.Equal(t, 0, previousBoundary(line, 2))
}

func TestPreviousBoundaryStopsAtOtherUpdateRef(t *testing.T) {
	line := []weave.IntegrationEntry{
		weave.PickEntry(weave.CommitEntry{OID: "c1", UpdateRefs: []string{"other"}}),
		weave.PickEntry(weave.CommitEntry{OID: "c2"}),
		weave.PickEntry(weave.CommitEntry{OID: "c3"}),
	}
	assert.Equal(t, 0, previousBoundary(line, 2))
}

func TestPreviousBoundaryReturnsNegativeOneWhenNoneExists(t *testing.T) {
	line := []weave.IntegrationEntry{
		weave.PickEntry(weave.CommitEntry{OID: "c1"}),
		weave.PickEntry(weave.CommitEntry{OID: "c2"}),
	}
	assert.Equal(t, -1, previousBoundary(line, 1))
}
