package command

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusReportsWovenMergeSection(t *testing.T) {
	repo := newIntegrationRepo(t)
	env := testEnv(repo)

	r, err := Status(context.Background(), env, StatusOptions{})
	require.NoError(t, err)

	assert.Equal(t, "integration", r.CurrentBranch)
	require.Len(t, r.Sections, 1)
	assert.Equal(t, "feature", r.Sections[0].Label)
	assert.Equal(t, []string{"feature"}, r.Sections[0].BranchNames)
	assert.Equal(t, 1, r.Sections[0].CommitCount)
	assert.False(t, r.Sections[0].CoLocated)
	assert.False(t, r.Sections[0].Empty)
}

func TestStatusFailsWithoutUpstream(t *testing.T) {
	repo := newLinearRepo(t)
	env := testEnv(repo)

	_, err := Status(context.Background(), env, StatusOptions{})
	require.Error(t, err)
}

func TestRenderShowsSectionTagAndNoTruncationWhenUnlimited(t *testing.T) {
	repo := newIntegrationRepo(t)
	env := testEnv(repo)
	r, err := Status(context.Background(), env, StatusOptions{})
	require.NoError(t, err)

	var buf bytes.Buffer
	env.Out = &buf
	Render(env, r, StatusOptions{Limit: 0})
	assert.Contains(t, buf.String(), "[woven] feature")

	buf.Reset()
	Render(env, r, StatusOptions{Limit: 0})
	assert.NotContains(t, buf.String(), "more section(s)")
}
