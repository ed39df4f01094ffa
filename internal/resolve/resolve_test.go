package resolve

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/git-loom/loom/internal/loomerr"
	"github.com/git-loom/loom/internal/shortid"
	"github.com/git-loom/loom/internal/weave"
)

type fakeQuery struct {
	branches     map[string]bool
	revisions    map[string]weave.OID
	changedFiles map[weave.OID]int
	dirty        map[string]bool
}

func newFakeQuery() *fakeQuery {
	return &fakeQuery{
		branches:     map[string]bool{},
		revisions:    map[string]weave.OID{},
		changedFiles: map[weave.OID]int{},
		dirty:        map[string]bool{},
	}
}

func (f *fakeQuery) BranchExists(ctx context.Context, name string) bool { return f.branches[name] }

func (f *fakeQuery) ResolveRevision(ctx context.Context, token string) (weave.OID, bool, error) {
	oid, ok := f.revisions[token]
	return oid, ok, nil
}

func (f *fakeQuery) ChangedFileCount(ctx context.Context, oid weave.OID) (int, error) {
	return f.changedFiles[oid], nil
}

func (f *fakeQuery) HasWorkingTreeChange(ctx context.Context, path string) (bool, error) {
	return f.dirty[path], nil
}

func TestResolveBranchTakesPrecedenceOverEverythingElse(t *testing.T) {
	q := newFakeQuery()
	q.branches["zz"] = true // deliberately shadows the reserved token
	q.revisions["zz"] = "deadbeef"

	target, err := Resolve(context.Background(), q, nil, "zz", false)
	require.NoError(t, err)
	assert.Equal(t, KindBranch, target.Kind)
	assert.Equal(t, "zz", target.Branch)
}

func TestResolveFallsThroughToRevision(t *testing.T) {
	q := newFakeQuery()
	q.revisions["HEAD~1"] = "abc123"

	target, err := Resolve(context.Background(), q, nil, "HEAD~1", false)
	require.NoError(t, err)
	assert.Equal(t, KindCommit, target.Kind)
	assert.Equal(t, weave.OID("abc123"), target.OID)
}

func TestResolveFallsThroughToShortID(t *testing.T) {
	q := newFakeQuery()
	alloc := shortid.New([]shortid.Entity{{Kind: shortid.Branch, Name: "feature"}})
	id := alloc.ID(0)

	target, err := Resolve(context.Background(), q, alloc, id, false)
	require.NoError(t, err)
	assert.Equal(t, KindBranch, target.Kind)
	assert.Equal(t, "feature", target.Branch)
}

func TestResolveUnstagedReservedToken(t *testing.T) {
	q := newFakeQuery()
	target, err := Resolve(context.Background(), q, nil, "zz", false)
	require.NoError(t, err)
	assert.Equal(t, KindUnstaged, target.Kind)
}

func TestResolveCommitFileShape(t *testing.T) {
	q := newFakeQuery()
	q.revisions["abc123"] = "abc123"
	q.changedFiles["abc123"] = 3

	target, err := Resolve(context.Background(), q, nil, "abc123:1", false)
	require.NoError(t, err)
	assert.Equal(t, KindCommitFile, target.Kind)
	assert.Equal(t, weave.OID("abc123"), target.OID)
	assert.Equal(t, 1, target.Index)
}

func TestResolveCommitFileOutOfRangeIndexFails(t *testing.T) {
	q := newFakeQuery()
	q.revisions["abc123"] = "abc123"
	q.changedFiles["abc123"] = 1

	_, err := Resolve(context.Background(), q, nil, "abc123:5", false)
	assert.True(t, loomerr.IsUnresolvedTarget(err))
}

func TestResolveUnknownTokenIsUnresolved(t *testing.T) {
	q := newFakeQuery()
	_, err := Resolve(context.Background(), q, nil, "nonsense", false)
	assert.True(t, loomerr.IsUnresolvedTarget(err))
}

func TestResolvePathRequiresAllowFilePath(t *testing.T) {
	q := newFakeQuery()
	q.dirty["README.md"] = true

	_, err := Resolve(context.Background(), q, nil, "README.md", false)
	assert.True(t, loomerr.IsUnresolvedTarget(err), "path rule must be skipped when allowFilePath is false")
}
