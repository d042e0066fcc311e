package surgeon

import (
	"context"
	"errors"
	"fmt"

	"github.com/surgeonkit/surgeon/git"
)

// SquashOptions controls how a commit range is combined.
type SquashOptions struct {
	Message string
	// Force allows merge commits in the range; they are flattened away.
	Force bool
	// PreserveAuthor keeps the author identity and date of the oldest
	// commit in the range instead of the current user.
	PreserveAuthor bool
}

// Squash combines target..HEAD into a single commit sitting on the
// target's parent. Uncommitted tracked changes are stashed under a marked
// entry and restored afterwards; a failed restore warns instead of
// failing, because the squash itself already succeeded.
func (s *Surgeon) Squash(ctx context.Context, commit string, opts SquashOptions) error {
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
		return errors.New("nothing to squash: target commit is HEAD")
	}

	ancestor, err := s.git.IsAncestor(ctx, target, "HEAD")
	if err != nil {
		return err
	}
	if !ancestor {
		return fmt.Errorf("%s is not an ancestor of HEAD", shortRef(target))
	}

	merges, err := s.git.MergeCount(ctx, target, "HEAD")
	if err != nil {
		return err
	}
	if merges > 0 && !opts.Force {
		return fmt.Errorf("range contains %d merge commit(s); use --force to flatten them", merges)
	}

	var author git.Author
	if opts.PreserveAuthor {
		author, err = s.git.CommitAuthor(ctx, target)
		if err != nil {
			return err
		}
	}

	dirty, err := s.git.HasTrackedChanges(ctx)
	if err != nil {
		return err
	}
	var marker git.StashMarker
	stashed := false
	if dirty {
		marker = git.NewStashMarker("squash")
		stashed, err = s.git.StashPush(ctx, marker)
		if err != nil {
			return err
		}
	}

	if s.git.HasParent(ctx, target) {
		err = s.git.ResetSoft(ctx, target+"^")
	} else {
		// The target is the root commit: there is no parent to reset
		// onto, so drop the branch ref and recommit from the index.
		err = s.git.DeleteHeadRef(ctx)
	}
	if err != nil {
		return err
	}

	commitOpts := git.CommitOptions{Message: opts.Message}
	if opts.PreserveAuthor {
		commitOpts.Author = author.Ident()
		commitOpts.Date = author.Date
	}
	if err := s.git.Commit(ctx, commitOpts); err != nil {
		return err
	}

	if stashed {
		if err := s.git.StashPop(ctx, marker); err != nil {
			fmt.Fprintf(s.stderr, "warning: could not restore stashed changes: %v\n", err)
			fmt.Fprintln(s.stderr, "your changes are kept in the stash; run 'git stash pop' to retry")
		}
	}

	newHash, err := s.git.ShortHash(ctx, "HEAD")
	if err != nil {
		return err
	}
	fmt.Fprintf(s.stderr, "squashed %s..HEAD into %s\n", shortRef(target), newHash)
	return nil
}
