package surgeon

import (
	"context"
	"errors"
	"fmt"

	"github.com/surgeonkit/surgeon/git"
)

// Reword replaces the message of an existing commit. The current tip is
// amended in place; an older commit gets an empty amend! marker commit
// carrying the new message, folded in by an autosquash rebase. The target
// commit keeps its distance from the tip through the rewrite, which is how
// its new hash is reported afterwards.
func (s *Surgeon) Reword(ctx context.Context, commit, message string) error {
	if s.git.RebaseInProgress(ctx) {
		return errors.New("a rebase is already in progress")
	}
	staged, err := s.git.HasStagedChanges(ctx)
	if err != nil {
		return err
	}
	if staged {
		return errors.New("index has staged changes; commit or unstage them before rewording")
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
		if err := s.git.Commit(ctx, git.CommitOptions{Amend: true, Message: message}); err != nil {
			return err
		}
		fmt.Fprintf(s.stderr, "reworded %s\n", shortRef(target))
		return nil
	}

	distance, err := s.git.Distance(ctx, target, "HEAD")
	if err != nil {
		return err
	}
	subject, err := s.git.Subject(ctx, target)
	if err != nil {
		return err
	}

	marker := fmt.Sprintf("amend! %s\n\n%s", subject, message)
	if err := s.git.Commit(ctx, git.CommitOptions{Message: marker, AllowEmpty: true}); err != nil {
		return err
	}

	upstream := ""
	if s.git.HasParent(ctx, target) {
		upstream = target + "^"
	}
	if err := s.finishAutosquash(ctx, target, upstream); err != nil {
		return err
	}

	newHash, err := s.git.ShortHash(ctx, fmt.Sprintf("HEAD~%d", distance))
	if err != nil {
		return err
	}
	fmt.Fprintf(s.stderr, "reworded %s (now %s)\n", shortRef(target), newHash)
	return nil
}
