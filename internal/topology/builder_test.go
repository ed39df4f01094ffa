package topology_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/git-loom/loom/internal/topology"
	"github.com/git-loom/loom/internal/vcsexec/vcsfake"
	"github.com/git-loom/loom/internal/weave"
)

func TestBuildLinearHistoryNoSections(t *testing.T) {
	repo := vcsfake.New()
	repo.Current = "main"
	repo.Upstreams["main"] = "origin/main"
	repo.AddCommit(vcsfake.Commit{OID: "base", Abbrev: "ba", Subject: "base commit"})
	repo.AddCommit(vcsfake.Commit{OID: "c1", Abbrev: "c1", Subject: "first", Parents: []weave.OID{"base"}})
	repo.AddCommit(vcsfake.Commit{OID: "c2", Abbrev: "c2", Subject: "second", Parents: []weave.OID{"c1"}})
	repo.SetBranch("main", "c2")
	repo.SetBranch("origin/main", "base")

	w, err := topology.Build(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, weave.OID("base"), w.Base)
	assert.Empty(t, w.Sections)
	require.Len(t, w.Line, 2)
	assert.Equal(t, weave.OID("c1"), w.Line[0].Commit.OID)
	assert.Equal(t, weave.OID("c2"), w.Line[1].Commit.OID)
}

func TestBuildWeavesMergedSideBranchIntoSection(t *testing.T) {
	repo := vcsfake.New()
	repo.Current = "main"
	repo.Upstreams["main"] = "origin/main"
	repo.AddCommit(vcsfake.Commit{OID: "base", Abbrev: "ba", Subject: "base commit"})
	repo.AddCommit(vcsfake.Commit{OID: "f1", Abbrev: "f1", Subject: "feature work", Parents: []weave.OID{"base"}})
	repo.AddCommit(vcsfake.Commit{OID: "merge1", Abbrev: "me", Subject: "Merge branch 'feature'", Parents: []weave.OID{"base", "f1"}})
	repo.SetBranch("main", "merge1")
	repo.SetBranch("origin/main", "base")
	repo.SetBranch("feature", "f1")

	w, err := topology.Build(context.Background(), repo)
	require.NoError(t, err)
	require.Len(t, w.Sections, 1)
	section := w.Sections[0]
	assert.Equal(t, "feature", section.Label)
	assert.Equal(t, []string{"feature"}, section.BranchNames)
	require.Len(t, section.Commits, 1)
	assert.Equal(t, weave.OID("f1"), section.Commits[0].OID)

	require.Len(t, w.Line, 1)
	assert.Equal(t, weave.EntryMerge, w.Line[0].Kind)
	assert.Equal(t, "feature", w.Line[0].Label)
	assert.Equal(t, weave.OID("merge1"), w.Line[0].OriginalOID)
}

func TestBuildRecordsNonWovenUpdateRefs(t *testing.T) {
	repo := vcsfake.New()
	repo.Current = "main"
	repo.Upstreams["main"] = "origin/main"
	repo.AddCommit(vcsfake.Commit{OID: "base", Abbrev: "ba", Subject: "base commit"})
	repo.AddCommit(vcsfake.Commit{OID: "c1", Abbrev: "c1", Subject: "first", Parents: []weave.OID{"base"}})
	repo.SetBranch("main", "c1")
	repo.SetBranch("origin/main", "base")
	repo.SetBranch("inline-topic", "c1")

	w, err := topology.Build(context.Background(), repo)
	require.NoError(t, err)
	require.Len(t, w.Line, 1)
	assert.Equal(t, []string{"inline-topic"}, w.Line[0].Commit.UpdateRefs)
}

func TestBuildFailsWithoutUpstream(t *testing.T) {
	repo := vcsfake.New()
	repo.Current = "main"
	repo.AddCommit(vcsfake.Commit{OID: "base", Abbrev: "ba", Subject: "base commit"})
	repo.SetBranch("main", "base")

	_, err := topology.Build(context.Background(), repo)
	assert.Error(t, err)
}

func TestBuildFailsOnBareRepo(t *testing.T) {
	repo := vcsfake.New()
	repo.Bare = true
	_, err := topology.Build(context.Background(), repo)
	assert.Error(t, err)
}

func TestBuildLinearFromRoot(t *testing.T) {
	repo := vcsfake.New()
	repo.Current = "main"
	repo.AddCommit(vcsfake.Commit{OID: "root", Abbrev: "ro", Subject: "root commit"})
	repo.AddCommit(vcsfake.Commit{OID: "c1", Abbrev: "c1", Subject: "first", Parents: []weave.OID{"root"}})
	repo.SetBranch("main", "c1")

	w, err := topology.BuildLinear(context.Background(), repo, "root")
	require.NoError(t, err)
	assert.Equal(t, weave.OID("root"), w.Base)
	require.Len(t, w.Line, 1)
	assert.Equal(t, weave.OID("c1"), w.Line[0].Commit.OID)
}
