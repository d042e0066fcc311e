package surgeon

import (
	"context"
	"errors"
	"fmt"

	"github.com/surgeonkit/surgeon/diff"
	"github.com/surgeonkit/surgeon/git"
	"github.com/surgeonkit/surgeon/patch"
)

// Pick names one hunk, optionally restricted to hunk-relative line ranges.
type Pick struct {
	ID     string
	Ranges []patch.Range
}

// Commit stages the picked hunks and commits them in one step. It refuses
// to run when the index already holds staged content, so the new commit
// can never absorb unrelated work. If the commit call itself fails, the
// staged patch is reverse-applied to put the index back the way it was.
func (s *Surgeon) Commit(ctx context.Context, picks []Pick, message string) error {
	if len(picks) == 0 {
		return errors.New("no hunk ids given")
	}

	dirty, err := s.git.HasStagedChanges(ctx)
	if err != nil {
		return err
	}
	if dirty {
		return errors.New("index already has staged changes; commit or unstage them first")
	}

	identified, err := s.loadHunks(ctx, false, "", "")
	if err != nil {
		return err
	}

	var hunks []*diff.Hunk
	for _, pick := range picks {
		h, err := findHunk(identified, pick.ID, "")
		if err != nil {
			return err
		}
		if len(pick.Ranges) > 0 {
			sliced, err := patch.Slice(h, pick.Ranges, false)
			if err != nil {
				return err
			}
			if !patch.HasChanges(sliced) {
				return fmt.Errorf("selected ranges of hunk %s contain no changes", pick.ID)
			}
			h = sliced
		}
		hunks = append(hunks, h)
	}

	for _, pick := range picks {
		fmt.Fprintln(s.stderr, pick.ID)
	}

	combined := patch.Combine(hunks)
	if err := s.git.Apply(ctx, combined, git.ApplyStage); err != nil {
		return err
	}

	if err := s.git.Commit(ctx, git.CommitOptions{Message: message}); err != nil {
		if restoreErr := s.git.Apply(ctx, combined, git.ApplyUnstage); restoreErr != nil {
			return fmt.Errorf("commit failed: %w (index could not be restored: %v)", err, restoreErr)
		}
		return fmt.Errorf("commit failed, index restored: %w", err)
	}
	return nil
}
