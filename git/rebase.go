package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/surgeonkit/surgeon/logger"
)

// RebaseOutcome classifies how a rebase invocation ended.
type RebaseOutcome int

const (
	// RebaseOK means the rebase completed (or paused exactly as requested).
	RebaseOK RebaseOutcome = iota
	// RebaseConflict means the rebase stopped on conflicts and is still in
	// progress; the caller must continue or abort.
	RebaseConflict
	// RebaseFailed means the rebase did not start or failed outright.
	RebaseFailed
)

// RebaseResult is the explicit outcome of a rebase step. Conflicts are a
// normal mid-rewrite state, not a plain error: the repository is left
// mid-rebase on purpose so the caller can resolve and continue.
type RebaseResult struct {
	Outcome  RebaseOutcome
	Guidance string // operator guidance for conflict/failure states
	Err      error
}

// OK reports whether the rebase step succeeded.
func (r RebaseResult) OK() bool {
	return r.Outcome == RebaseOK
}

const conflictGuidance = "resolve the conflicts, then run 'git rebase --continue' (or 'git rebase --abort' to give up)"

func (s *GitService) classifyRebase(ctx context.Context, err error) RebaseResult {
	if err == nil {
		return RebaseResult{Outcome: RebaseOK}
	}
	if s.RebaseInProgress(ctx) {
		return RebaseResult{Outcome: RebaseConflict, Guidance: conflictGuidance, Err: err}
	}
	return RebaseResult{Outcome: RebaseFailed, Err: err}
}

// RebaseAutosquash runs a non-interactive autosquash rebase onto upstream
// (or from the root when upstream is empty). The sequence editor and the
// commit message editor are both neutralized so the todo list generated by
// --autosquash runs unmodified and amend! bodies are taken as-is.
func (s *GitService) RebaseAutosquash(ctx context.Context, upstream string) RebaseResult {
	args := []string{"rebase", "-i", "--autosquash", "--autostash"}
	if upstream == "" {
		args = append(args, "--root")
	} else {
		args = append(args, upstream)
	}

	logger.WithComponent("git").Debug("autosquash rebase", "upstream", upstream)

	env := []string{"GIT_SEQUENCE_EDITOR=true", "GIT_EDITOR=true"}
	_, _, err := s.runEnv(ctx, env, args...)
	return s.classifyRebase(ctx, err)
}

// RebaseEditAt starts an interactive rebase paused at target for editing.
// sequenceEditor is the command git invokes on the todo list; it is expected
// to mark exactly the target step as "edit" and leave the rest picked.
func (s *GitService) RebaseEditAt(ctx context.Context, target, sequenceEditor string) RebaseResult {
	logger.WithComponent("git").Debug("edit-pause rebase", "target", target)

	env := []string{"GIT_SEQUENCE_EDITOR=" + sequenceEditor}
	_, _, err := s.runEnv(ctx, env, "rebase", "-i", target+"^")
	if err != nil {
		return s.classifyRebase(ctx, err)
	}
	// A pause for editing is the wanted outcome here; not being mid-rebase
	// means git never stopped at the target.
	if !s.RebaseInProgress(ctx) {
		return RebaseResult{
			Outcome: RebaseFailed,
			Err:     fmt.Errorf("rebase did not pause at %s", target),
		}
	}
	return RebaseResult{Outcome: RebaseOK}
}

// RebaseContinue resumes a paused rebase. The editor is neutralized so
// already-written commit messages are kept.
func (s *GitService) RebaseContinue(ctx context.Context) RebaseResult {
	env := []string{"GIT_EDITOR=true", "GIT_SEQUENCE_EDITOR=true"}
	_, _, err := s.runEnv(ctx, env, "rebase", "--continue")
	return s.classifyRebase(ctx, err)
}

// RebaseAbort abandons an in-progress rebase.
func (s *GitService) RebaseAbort(ctx context.Context) error {
	_, err := s.run(ctx, "rebase", "--abort")
	return err
}

// MarkTodoEdit rewrites a rebase todo list, changing the step for the given
// commit from pick to edit. This is the implementation of the sequence
// editor used by RebaseEditAt: the binary re-invokes itself with the todo
// path and the target hash.
func MarkTodoEdit(todo, targetHash string) (string, error) {
	short := targetHash
	if len(short) > 7 {
		short = short[:7]
	}

	marked := false
	lines := strings.Split(todo, "\n")
	for i, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		if fields[0] != "pick" && fields[0] != "p" {
			continue
		}
		if strings.HasPrefix(fields[1], short) || strings.HasPrefix(targetHash, fields[1]) {
			fields[0] = "edit"
			lines[i] = strings.Join(fields, " ")
			marked = true
			break
		}
	}
	if !marked {
		return "", fmt.Errorf("commit %s not found in rebase todo", targetHash)
	}
	return strings.Join(lines, "\n"), nil
}
