package surgeon

import (
	"context"
	"errors"
	"fmt"

	"github.com/surgeonkit/surgeon/git"
)

// Fixup folds the currently staged changes into an earlier commit. The
// current tip is amended directly; any older commit gets a fixup! commit
// followed by an autosquash rebase onto its parent. On a rebase conflict
// the repository is deliberately left mid-rebase with recovery guidance,
// since aborting could discard the operator's work.
func (s *Surgeon) Fixup(ctx context.Context, commit string) error {
	staged, err := s.git.HasStagedChanges(ctx)
	if err != nil {
		return err
	}
	if !staged {
		return errors.New("no staged changes to fix up")
	}
	if s.git.RebaseInProgress(ctx) {
		return errors.New("a rebase is already in progress")
	}

	target, err := s.git.RevParse(ctx, commit)
	if err != nil {
		return err
	}

	isHead, err := s.git.IsSameCommit(ctx, target, "HEAD")
	if err != nil {
		return err
	}
	if isHead {
		if err := s.git.Commit(ctx, git.CommitOptions{Amend: true, NoEdit: true}); err != nil {
			return err
		}
		fmt.Fprintf(s.stderr, "amended %s\n", shortRef(target))
		return nil
	}

	subject, err := s.git.Subject(ctx, target)
	if err != nil {
		return err
	}
	if err := s.git.Commit(ctx, git.CommitOptions{Message: "fixup! " + subject}); err != nil {
		return err
	}

	upstream := ""
	if s.git.HasParent(ctx, target) {
		upstream = target + "^"
	}
	if err := s.finishAutosquash(ctx, target, upstream); err != nil {
		return err
	}

	fmt.Fprintf(s.stderr, "fixed up %s %s\n", shortRef(target), subject)
	return nil
}

// finishAutosquash runs the autosquash rebase shared by fixup and reword
// and translates its outcome: conflicts surface the target's short ref and
// the continue/abort instructions without touching the paused rebase.
func (s *Surgeon) finishAutosquash(ctx context.Context, target, upstream string) error {
	res := s.git.RebaseAutosquash(ctx, upstream)
	switch res.Outcome {
	case git.RebaseOK:
		return nil
	case git.RebaseConflict:
		return fmt.Errorf("rebase conflict at %s: %s: %w", shortRef(target), res.Guidance, res.Err)
	default:
		return res.Err
	}
}

func shortRef(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
