package git

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	surgexec "github.com/surgeonkit/surgeon/exec"
)

func newMockService() (*GitService, *surgexec.MockExecutor) {
	mock := surgexec.NewMockExecutor(nil)
	return NewGitServiceWithExecutor(mock, "/repo"), mock
}

func TestDiffArgs(t *testing.T) {
	s, mock := newMockService()

	_, err := s.Diff(context.Background(), false, "")
	require.NoError(t, err)

	calls := mock.GetCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{
		"diff", "--no-color", "--no-ext-diff", "--src-prefix=a/", "--dst-prefix=b/",
	}, calls[0].Args)
	assert.Equal(t, "/repo", calls[0].Dir)
}

func TestDiffStagedWithFile(t *testing.T) {
	s, mock := newMockService()

	_, err := s.Diff(context.Background(), true, "main.go")
	require.NoError(t, err)

	args := mock.GetCalls()[0].Args
	assert.Contains(t, args, "--cached")
	assert.Equal(t, []string{"--", "main.go"}, args[len(args)-2:])
}

func TestDiffCommitArgs(t *testing.T) {
	s, mock := newMockService()

	_, err := s.DiffCommit(context.Background(), "abc1234", "")
	require.NoError(t, err)

	args := mock.GetCalls()[0].Args
	assert.Equal(t, "show", args[0])
	assert.Contains(t, args, "--pretty=")
	assert.Contains(t, args, "abc1234")
}

func TestApplyModes(t *testing.T) {
	tests := []struct {
		mode ApplyMode
		want []string
	}{
		{ApplyStage, []string{"apply", "--cached"}},
		{ApplyUnstage, []string{"apply", "--cached", "--reverse"}},
		{ApplyDiscard, []string{"apply", "--reverse"}},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			s, mock := newMockService()

			err := s.Apply(context.Background(), "patch body\n", tt.mode)
			require.NoError(t, err)

			calls := mock.GetCalls()
			require.Len(t, calls, 1)
			assert.Equal(t, tt.want, calls[0].Args)
			assert.Equal(t, []byte("patch body\n"), calls[0].Input)
		})
	}
}

func TestApplyFailureSurfacesStderr(t *testing.T) {
	s, mock := newMockService()
	mock.AddPrefixMatch("git", []string{"apply"}, surgexec.MockResponse{
		Stderr: []byte("error: patch does not apply\n"),
		Err:    errors.New("exit status 1"),
	})

	err := s.Apply(context.Background(), "bad patch", ApplyStage)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "patch does not apply")
}

func TestCommitOptions(t *testing.T) {
	s, mock := newMockService()

	err := s.Commit(context.Background(), CommitOptions{
		Message:    "subject",
		AllowEmpty: true,
		Author:     "Jo Dev <jo@example.com>",
		Date:       "Mon, 1 Jan 2024 10:00:00 +0000",
	})
	require.NoError(t, err)

	args := mock.GetCalls()[0].Args
	assert.Equal(t, "commit", args[0])
	assert.Contains(t, args, "--allow-empty")
	assert.Contains(t, args, "--author")
	assert.Contains(t, args, "Jo Dev <jo@example.com>")
	assert.NotContains(t, args, "--amend")
	assert.Equal(t, []string{"-m", "subject"}, args[len(args)-2:])
}

func TestCommitAmendNoEdit(t *testing.T) {
	s, mock := newMockService()

	err := s.Commit(context.Background(), CommitOptions{Amend: true, NoEdit: true})
	require.NoError(t, err)

	args := mock.GetCalls()[0].Args
	assert.Equal(t, []string{"commit", "--amend", "--no-edit"}, args)
}

func TestRevParse(t *testing.T) {
	s, mock := newMockService()
	mock.AddPrefixMatch("git", []string{"rev-parse", "--verify"}, surgexec.MockResponse{
		Stdout: []byte("0123456789abcdef0123456789abcdef01234567\n"),
	})

	hash, err := s.RevParse(context.Background(), "HEAD")
	require.NoError(t, err)
	assert.Equal(t, "0123456789abcdef0123456789abcdef01234567", hash)
}

func TestRevParseUnknownRev(t *testing.T) {
	s, mock := newMockService()
	mock.AddPrefixMatch("git", []string{"rev-parse"}, surgexec.MockResponse{
		Stderr: []byte("fatal: Needed a single revision\n"),
		Err:    errors.New("exit status 128"),
	})

	_, err := s.RevParse(context.Background(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot resolve nope")
}

func TestCommitAuthor(t *testing.T) {
	s, mock := newMockService()
	mock.AddPrefixMatch("git", []string{"log"}, surgexec.MockResponse{
		Stdout: []byte("Jo Dev\njo@example.com\nMon, 1 Jan 2024 10:00:00 +0000\n"),
	})

	author, err := s.CommitAuthor(context.Background(), "abc1234")
	require.NoError(t, err)
	assert.Equal(t, "Jo Dev", author.Name)
	assert.Equal(t, "jo@example.com", author.Email)
	assert.Equal(t, "Mon, 1 Jan 2024 10:00:00 +0000", author.Date)
	assert.Equal(t, "Jo Dev <jo@example.com>", author.Ident())
}

func TestIsAncestor(t *testing.T) {
	s, mock := newMockService()

	ok, err := s.IsAncestor(context.Background(), "abc", "HEAD")
	require.NoError(t, err)
	assert.True(t, ok)

	mock.AddPrefixMatch("git", []string{"merge-base"}, surgexec.MockResponse{
		Err: errors.New("exit status 1"),
	})
	ok, err = s.IsAncestor(context.Background(), "abc", "HEAD")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDistance(t *testing.T) {
	s, mock := newMockService()
	mock.AddPrefixMatch("git", []string{"rev-list", "--count"}, surgexec.MockResponse{
		Stdout: []byte("3\n"),
	})

	n, err := s.Distance(context.Background(), "abc1234", "HEAD")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	args := mock.GetCalls()[0].Args
	assert.Contains(t, args, "abc1234..HEAD")
}

func TestHasStagedChanges(t *testing.T) {
	s, mock := newMockService()

	// Mock default: exit 0 → no staged changes.
	staged, err := s.HasStagedChanges(context.Background())
	require.NoError(t, err)
	assert.False(t, staged)

	mock.AddExactMatch("git", []string{"diff", "--cached", "--quiet"}, surgexec.MockResponse{
		Err: errors.New("exit status 1"),
	})
	staged, err = s.HasStagedChanges(context.Background())
	require.NoError(t, err)
	assert.True(t, staged)
}

func TestIsClean(t *testing.T) {
	s, mock := newMockService()

	clean, err := s.IsClean(context.Background())
	require.NoError(t, err)
	assert.True(t, clean)

	mock.AddExactMatch("git", []string{"diff", "--quiet"}, surgexec.MockResponse{
		Err: errors.New("exit status 1"),
	})
	clean, err = s.IsClean(context.Background())
	require.NoError(t, err)
	assert.False(t, clean)
}

func TestRebaseInProgress(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tmp, ".git", "rebase-merge"), 0755))

	mock := surgexec.NewMockExecutor(nil)
	mock.AddExactMatch("git", []string{"rev-parse", "--git-path", "rebase-merge"}, surgexec.MockResponse{
		Stdout: []byte(".git/rebase-merge\n"),
	})
	mock.AddExactMatch("git", []string{"rev-parse", "--git-path", "rebase-apply"}, surgexec.MockResponse{
		Stdout: []byte(".git/rebase-apply\n"),
	})

	s := NewGitServiceWithExecutor(mock, tmp)
	assert.True(t, s.RebaseInProgress(context.Background()))

	require.NoError(t, os.Remove(filepath.Join(tmp, ".git", "rebase-merge")))
	assert.False(t, s.RebaseInProgress(context.Background()))
}

func TestStashPush(t *testing.T) {
	s, mock := newMockService()
	marker := NewStashMarker("squash")
	assert.Contains(t, string(marker), "git-surgeon squash ")

	stashed, err := s.StashPush(context.Background(), marker)
	require.NoError(t, err)
	assert.True(t, stashed)

	args := mock.GetCalls()[0].Args
	assert.Equal(t, []string{"stash", "push", "-m", string(marker)}, args)
}

func TestStashPushNothingToStash(t *testing.T) {
	s, mock := newMockService()
	mock.AddPrefixMatch("git", []string{"stash", "push"}, surgexec.MockResponse{
		Stdout: []byte("No local changes to save\n"),
	})

	stashed, err := s.StashPush(context.Background(), "marker")
	require.NoError(t, err)
	assert.False(t, stashed)
}

func TestStashPopFindsMarkedEntry(t *testing.T) {
	s, mock := newMockService()
	marker := StashMarker("git-surgeon squash 123e4567")
	mock.AddPrefixMatch("git", []string{"stash", "list"}, surgexec.MockResponse{
		Stdout: []byte("stash@{0} WIP on main\nstash@{1} On main: git-surgeon squash 123e4567\n"),
	})

	err := s.StashPop(context.Background(), marker)
	require.NoError(t, err)

	calls := mock.GetCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, []string{"stash", "pop", "stash@{1}"}, calls[1].Args)
}

func TestStashPopMissingEntry(t *testing.T) {
	s, mock := newMockService()
	mock.AddPrefixMatch("git", []string{"stash", "list"}, surgexec.MockResponse{
		Stdout: []byte("stash@{0} WIP on main\n"),
	})

	err := s.StashPop(context.Background(), "git-surgeon squash gone")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestResetCommands(t *testing.T) {
	s, mock := newMockService()

	require.NoError(t, s.ResetSoft(context.Background(), "abc1234~1"))
	require.NoError(t, s.ResetMixed(context.Background(), "HEAD~1"))
	require.NoError(t, s.DeleteHeadRef(context.Background()))

	calls := mock.GetCalls()
	require.Len(t, calls, 3)
	assert.Equal(t, []string{"reset", "--soft", "abc1234~1"}, calls[0].Args)
	assert.Equal(t, []string{"reset", "HEAD~1"}, calls[1].Args)
	assert.Equal(t, []string{"update-ref", "-d", "HEAD"}, calls[2].Args)
}

func TestRebaseAutosquashNeutralizesEditors(t *testing.T) {
	s, mock := newMockService()

	result := s.RebaseAutosquash(context.Background(), "abc1234~1")
	assert.True(t, result.OK())

	calls := mock.GetCalls()
	require.NotEmpty(t, calls)
	assert.Equal(t, []string{"rebase", "-i", "--autosquash", "--autostash", "abc1234~1"}, calls[0].Args)
	assert.Contains(t, calls[0].Env, "GIT_SEQUENCE_EDITOR=true")
	assert.Contains(t, calls[0].Env, "GIT_EDITOR=true")
}

func TestRebaseAutosquashRoot(t *testing.T) {
	s, mock := newMockService()

	result := s.RebaseAutosquash(context.Background(), "")
	assert.True(t, result.OK())
	assert.Contains(t, mock.GetCalls()[0].Args, "--root")
}

func TestRebaseFailedOutright(t *testing.T) {
	s, mock := newMockService()
	mock.AddPrefixMatch("git", []string{"rebase"}, surgexec.MockResponse{
		Stderr: []byte("fatal: invalid upstream\n"),
		Err:    errors.New("exit status 128"),
	})
	// No rebase dirs exist → not in progress → Failed.
	result := s.RebaseAutosquash(context.Background(), "bad")
	assert.Equal(t, RebaseFailed, result.Outcome)
	assert.Error(t, result.Err)
}

func TestRebaseConflictDetected(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tmp, ".git", "rebase-merge"), 0755))

	mock := surgexec.NewMockExecutor(nil)
	mock.AddPrefixMatch("git", []string{"rebase"}, surgexec.MockResponse{
		Stderr: []byte("CONFLICT (content): Merge conflict in main.go\n"),
		Err:    errors.New("exit status 1"),
	})
	mock.AddExactMatch("git", []string{"rev-parse", "--git-path", "rebase-merge"}, surgexec.MockResponse{
		Stdout: []byte(".git/rebase-merge\n"),
	})

	s := NewGitServiceWithExecutor(mock, tmp)
	result := s.RebaseAutosquash(context.Background(), "abc~1")
	assert.Equal(t, RebaseConflict, result.Outcome)
	assert.Contains(t, result.Guidance, "git rebase --continue")
	assert.Contains(t, result.Guidance, "git rebase --abort")
}

func TestMarkTodoEdit(t *testing.T) {
	todo := strings.Join([]string{
		"pick 1111111 first commit",
		"pick 2222222 second commit",
		"pick 3333333 third commit",
		"",
	}, "\n")

	out, err := MarkTodoEdit(todo, "2222222222222222222222222222222222222222")
	require.NoError(t, err)
	assert.Contains(t, out, "edit 2222222 second commit")
	assert.Contains(t, out, "pick 1111111 first commit")
	assert.Contains(t, out, "pick 3333333 third commit")
}

func TestMarkTodoEditAbbreviatedForms(t *testing.T) {
	out, err := MarkTodoEdit("p 2222222 second\n", "2222222222222222222222222222222222222222")
	require.NoError(t, err)
	assert.Contains(t, out, "edit 2222222 second")
}

func TestMarkTodoEditMissingCommit(t *testing.T) {
	_, err := MarkTodoEdit("pick 1111111 first\n", "2222222222222222222222222222222222222222")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found in rebase todo")
}

func TestMarkTodoEditOnlyFirstMatch(t *testing.T) {
	// Fixup steps for the same commit keep their action.
	todo := "pick 2222222 second\nfixup 2222222 second again\n"
	out, err := MarkTodoEdit(todo, "2222222222222222222222222222222222222222")
	require.NoError(t, err)
	assert.Contains(t, out, "edit 2222222 second")
	assert.Contains(t, out, "fixup 2222222 second again")
}
