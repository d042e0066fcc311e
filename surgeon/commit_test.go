package surgeon

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	surgexec "github.com/surgeonkit/surgeon/exec"
	"github.com/surgeonkit/surgeon/patch"
)

func mockDirtyIndex(mock *surgexec.MockExecutor) {
	mock.AddExactMatch("git", []string{"diff", "--cached", "--quiet"}, surgexec.MockResponse{
		Err: errors.New("exit status 1"),
	})
}

func TestCommitStagesAndCommits(t *testing.T) {
	s, mock, _, progress := newTestSurgeon(t, "/repo")
	mockWorkingDiff(mock, oneHunkDiff)

	id := hunkIDs(oneHunkDiff)[0]
	require.NoError(t, s.Commit(context.Background(), []Pick{{ID: id}}, "add greeting"))

	calls := mock.GetCalls()
	applyCall := findCall(calls, "apply")
	require.NotNil(t, applyCall)
	assert.Equal(t, []string{"apply", "--cached"}, applyCall.Args)

	commitCall := findCall(calls, "commit")
	require.NotNil(t, commitCall)
	assert.Equal(t, []string{"commit", "-m", "add greeting"}, commitCall.Args)

	assert.Equal(t, id+"\n", progress.String())
}

func TestCommitRefusesDirtyIndex(t *testing.T) {
	s, mock, _, _ := newTestSurgeon(t, "/repo")
	mockDirtyIndex(mock)
	mockWorkingDiff(mock, oneHunkDiff)

	id := hunkIDs(oneHunkDiff)[0]
	err := s.Commit(context.Background(), []Pick{{ID: id}}, "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "staged changes")
	assert.Nil(t, findCall(mock.GetCalls(), "apply"))
}

func TestCommitWithRangesSlicesHunk(t *testing.T) {
	s, mock, _, _ := newTestSurgeon(t, "/repo")
	mockWorkingDiff(mock, oneHunkDiff)

	id := hunkIDs(oneHunkDiff)[0]
	picks := []Pick{{ID: id, Ranges: []patch.Range{{Start: 2, End: 2}}}}
	require.NoError(t, s.Commit(context.Background(), picks, "partial"))

	call := findCall(mock.GetCalls(), "apply")
	require.NotNil(t, call)
	assert.Contains(t, string(call.Input), "-old line\n")
	assert.NotContains(t, string(call.Input), "+new line")
}

func TestCommitFailureRestoresIndex(t *testing.T) {
	s, mock, _, _ := newTestSurgeon(t, "/repo")
	mockWorkingDiff(mock, oneHunkDiff)
	mock.AddPrefixMatch("git", []string{"commit"}, surgexec.MockResponse{
		Stderr: []byte("fatal: empty ident"),
		Err:    errors.New("exit status 128"),
	})

	id := hunkIDs(oneHunkDiff)[0]
	err := s.Commit(context.Background(), []Pick{{ID: id}}, "doomed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index restored")

	// The staged patch is reverse-applied against the index.
	calls := mock.GetCalls()
	var applies []surgexec.MockCall
	for _, c := range calls {
		if len(c.Args) > 0 && c.Args[0] == "apply" {
			applies = append(applies, c)
		}
	}
	require.Len(t, applies, 2)
	assert.Equal(t, []string{"apply", "--cached"}, applies[0].Args)
	assert.Equal(t, []string{"apply", "--cached", "--reverse"}, applies[1].Args)
	assert.Equal(t, applies[0].Input, applies[1].Input)
}

func TestCommitUnknownID(t *testing.T) {
	s, mock, _, _ := newTestSurgeon(t, "/repo")
	mockWorkingDiff(mock, oneHunkDiff)

	err := s.Commit(context.Background(), []Pick{{ID: "fffffff"}}, "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.Nil(t, findCall(mock.GetCalls(), "apply"))
}
