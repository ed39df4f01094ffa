package weave

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/git-loom/loom/internal/loomerr"
)

func pick(oid OID) CommitEntry {
	return CommitEntry{OID: oid, AbbrevHash: string(oid), MessageFirstLine: "msg " + string(oid)}
}

func simpleWeave() *Weave {
	w := New("base")
	w.Sections = append(w.Sections, &BranchSection{
		ResetTarget: OntoLabel,
		Commits:     []CommitEntry{pick("c1"), pick("c2")},
		Label:       "feature",
		BranchNames: []string{"feature"},
	})
	w.Line = []IntegrationEntry{
		MergeEntry("", "feature"),
		PickEntry(pick("c3")),
	}
	return w
}

func TestDropCommitFromSectionEmptiesSection(t *testing.T) {
	w := simpleWeave()
	require.NoError(t, w.DropCommit("c1"))
	require.NoError(t, w.DropCommit("c2"))
	assert.Nil(t, w.SectionByLabel("feature"))
	assert.Equal(t, -1, w.MergeIndexForLabel("feature"))
}

func TestDropCommitFromLine(t *testing.T) {
	w := simpleWeave()
	require.NoError(t, w.DropCommit("c3"))
	for _, e := range w.Line {
		if e.Kind == EntryPick {
			assert.NotEqual(t, OID("c3"), e.Commit.OID)
		}
	}
}

func TestDropCommitNotFound(t *testing.T) {
	w := simpleWeave()
	assert.Error(t, w.DropCommit("missing"))
}

func TestDropBranchNotWoven(t *testing.T) {
	w := simpleWeave()
	err := w.DropBranch("never-woven")
	assert.True(t, loomerr.IsBranchNotWoven(err))
}

func TestMoveCommitToOtherSection(t *testing.T) {
	w := simpleWeave()
	w.Sections = append(w.Sections, &BranchSection{
		ResetTarget: OntoLabel,
		Commits:     []CommitEntry{pick("d1")},
		Label:       "other",
		BranchNames: []string{"other"},
	})
	require.NoError(t, w.MoveCommit("c1", "other"))

	feature := w.SectionByLabel("feature")
	require.NotNil(t, feature)
	assert.Len(t, feature.Commits, 1)
	assert.Equal(t, OID("c2"), feature.Commits[0].OID)

	other := w.SectionByLabel("other")
	require.NotNil(t, other)
	require.Len(t, other.Commits, 2)
	assert.Equal(t, OID("c1"), other.Commits[1].OID)
	assert.Equal(t, Pick, other.Commits[1].Command)
}

func TestMoveCommitSplitsCoLocatedSection(t *testing.T) {
	w := New("base")
	w.Sections = append(w.Sections, &BranchSection{
		ResetTarget: OntoLabel,
		Commits:     []CommitEntry{pick("c1")},
		Label:       "feature",
		BranchNames: []string{"feature", "sibling"},
	})
	w.Line = []IntegrationEntry{MergeEntry("", "feature")}

	require.NoError(t, w.MoveCommit("c1", "sibling"))

	base := w.SectionByLabel("feature")
	require.NotNil(t, base)
	assert.Equal(t, []string{"feature"}, base.BranchNames)
	assert.Empty(t, base.Commits)

	stacked := w.SectionByLabel("sibling")
	require.NotNil(t, stacked)
	assert.Equal(t, "feature", stacked.ResetTarget)
	assert.Equal(t, []string{"sibling"}, stacked.BranchNames)
	require.Len(t, stacked.Commits, 1)
	assert.Equal(t, OID("c1"), stacked.Commits[0].OID)

	assert.Equal(t, -1, w.MergeIndexForLabel("feature"))
	assert.NotEqual(t, -1, w.MergeIndexForLabel("sibling"))
}

func TestFixupCommitInSection(t *testing.T) {
	w := simpleWeave()
	w.Sections[0].Commits = append(w.Sections[0].Commits, pick("c4"))

	require.NoError(t, w.FixupCommit("c4", "c1"))

	feature := w.SectionByLabel("feature")
	require.Len(t, feature.Commits, 3)
	assert.Equal(t, OID("c1"), feature.Commits[0].OID)
	assert.Equal(t, OID("c4"), feature.Commits[1].OID)
	assert.Equal(t, Fixup, feature.Commits[1].Command)
	assert.Equal(t, OID("c2"), feature.Commits[2].OID)
}

func TestFixupCommitOnLine(t *testing.T) {
	w := simpleWeave()
	w.Line = append(w.Line, PickEntry(pick("c5")))

	require.NoError(t, w.FixupCommit("c5", "c3"))

	found := false
	for i, e := range w.Line {
		if e.Kind == EntryPick && e.Commit.OID == "c5" {
			found = true
			assert.Equal(t, Fixup, e.Commit.Command)
			require.Greater(t, i, 0)
			assert.Equal(t, OID("c3"), w.Line[i-1].Commit.OID)
		}
	}
	assert.True(t, found)
}

func TestFixupCommitTargetNotFound(t *testing.T) {
	w := simpleWeave()
	w.Line = append(w.Line, PickEntry(pick("c5")))
	assert.Error(t, w.FixupCommit("c5", "missing"))
}

func TestEditCommitIsIdempotent(t *testing.T) {
	w := simpleWeave()
	require.NoError(t, w.EditCommit("c1"))
	require.NoError(t, w.EditCommit("c1"))
	section, _, idx, found := w.FindCommit("c1")
	require.True(t, found)
	assert.Equal(t, Edit, section.Commits[idx].Command)
}

func TestWeaveBranchCutsLineIntoSection(t *testing.T) {
	w := New("base")
	c1 := pick("c1")
	c2 := pick("c2")
	c2.UpdateRefs = []string{"topic"}
	w.Line = []IntegrationEntry{PickEntry(c1), PickEntry(c2), PickEntry(pick("c3"))}

	require.NoError(t, w.WeaveBranch("topic"))

	section := w.SectionByLabel("topic")
	require.NotNil(t, section)
	require.Len(t, section.Commits, 2)
	assert.Equal(t, OID("c1"), section.Commits[0].OID)
	assert.Equal(t, OID("c2"), section.Commits[1].OID)
	assert.Empty(t, section.Commits[1].UpdateRefs)

	require.Len(t, w.Line, 2)
	assert.Equal(t, OID("c3"), w.Line[0].Commit.OID)
	assert.Equal(t, EntryMerge, w.Line[1].Kind)
	assert.Equal(t, "topic", w.Line[1].Label)
}

func TestWeaveBranchNotInRange(t *testing.T) {
	w := New("base")
	w.Line = []IntegrationEntry{PickEntry(pick("c1"))}
	assert.Error(t, w.WeaveBranch("nope"))
}

func TestReassignBranchRelabelsSection(t *testing.T) {
	w := New("base")
	w.Sections = append(w.Sections, &BranchSection{
		ResetTarget: OntoLabel,
		Commits:     []CommitEntry{pick("c1")},
		Label:       "a",
		BranchNames: []string{"a", "b"},
	})
	w.Sections = append(w.Sections, &BranchSection{
		ResetTarget: "a",
		Commits:     []CommitEntry{pick("c2")},
		Label:       "stacked",
		BranchNames: []string{"stacked"},
	})
	w.Line = []IntegrationEntry{MergeEntry("", "a")}

	require.NoError(t, w.ReassignBranch("a", "b"))

	section := w.SectionByBranch("b")
	require.NotNil(t, section)
	assert.Equal(t, "b", section.Label)
	assert.Equal(t, []string{"b"}, section.BranchNames)
	assert.Equal(t, "b", w.Sections[1].ResetTarget)
	assert.Equal(t, "b", w.Line[0].Label)
}

func TestAddBranchSectionRejectsDuplicateLabel(t *testing.T) {
	w := simpleWeave()
	err := w.AddBranchSection("feature", []string{"feature"}, nil, OntoLabel)
	assert.Error(t, err)
}

func TestAddBranchSectionRejectsUnknownReset(t *testing.T) {
	w := New("base")
	err := w.AddBranchSection("feature", []string{"feature"}, []CommitEntry{pick("c1")}, "ghost")
	assert.Error(t, err)
}

func TestAddMergeAppendsOrInserts(t *testing.T) {
	w := New("base")
	require.NoError(t, w.AddBranchSection("a", []string{"a"}, []CommitEntry{pick("c1")}, OntoLabel))
	require.NoError(t, w.AddMerge("a", "", -1))
	require.Len(t, w.Line, 1)

	require.NoError(t, w.AddBranchSection("b", []string{"b"}, []CommitEntry{pick("c2")}, OntoLabel))
	require.NoError(t, w.AddMerge("b", "orig", 0))
	require.Len(t, w.Line, 2)
	assert.Equal(t, "b", w.Line[0].Label)
	assert.Equal(t, OID("orig"), w.Line[0].OriginalOID)
}
