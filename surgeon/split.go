package surgeon

import (
	"context"
	"errors"
	"fmt"

	"github.com/surgeonkit/surgeon/diff"
	"github.com/surgeonkit/surgeon/git"
	"github.com/surgeonkit/surgeon/patch"
)

// PickGroup is one commit-to-be of a split: the hunk selections that form
// its content plus its message.
type PickGroup struct {
	Picks   []Pick
	Message string
}

// hunkState tracks one hunk of the commit being split across the group
// loop: which of its lines earlier groups have already committed.
type hunkState struct {
	id      string
	hunk    *diff.Hunk
	applied []bool
}

// remaining marks every changed line not yet committed.
func (st *hunkState) remaining() []bool {
	wanted := make([]bool, len(st.hunk.Lines))
	any := false
	for i, line := range st.hunk.Lines {
		if line.Changed() && !st.applied[i] {
			wanted[i] = true
			any = true
		}
	}
	if !any {
		return nil
	}
	return wanted
}

// Split partitions one commit into several sequential commits, each built
// from a PickGroup's hunk selection; whatever no group picked becomes a
// final rest commit (falling back to the original message when restMessage
// is empty). A non-tip target rides an interactive rebase paused exactly
// at the target, which is resumed once the new commits exist. Everything
// is validated before the first mutation: the working tree must be clean,
// every id must resolve in the target's diff, and no two groups may pick
// the same changed line.
func (s *Surgeon) Split(ctx context.Context, commit string, groups []PickGroup, restMessage string) error {
	if len(groups) == 0 {
		return errors.New("at least one pick group is required")
	}
	if s.git.RebaseInProgress(ctx) {
		return errors.New("a rebase is already in progress")
	}
	clean, err := s.git.IsClean(ctx)
	if err != nil {
		return err
	}
	if !clean {
		return errors.New("working tree is dirty: commit or stash your changes before splitting")
	}

	target, err := s.git.RevParse(ctx, commit)
	if err != nil {
		return err
	}
	isHead, err := s.git.IsSameCommit(ctx, target, "HEAD")
	if err != nil {
		return err
	}

	identified, err := s.loadHunks(ctx, false, target, "")
	if err != nil {
		return err
	}
	originalMessage, err := s.git.Message(ctx, target)
	if err != nil {
		return err
	}

	states := make([]*hunkState, len(identified))
	byID := make(map[string]*hunkState, len(identified))
	for i, entry := range identified {
		states[i] = &hunkState{
			id:      entry.ID,
			hunk:    entry.Hunk,
			applied: make([]bool, len(entry.Hunk.Lines)),
		}
		byID[entry.ID] = states[i]
	}

	groupWants, err := planGroups(groups, states, byID, target)
	if err != nil {
		return err
	}

	// Preconditions hold and every selection is valid: un-commit the
	// target. A non-tip target first needs the rebase paused on it.
	inRebase := false
	if !isHead {
		res := s.git.RebaseEditAt(ctx, target, s.seqEditorFor(shortRef(target)))
		switch res.Outcome {
		case git.RebaseConflict:
			return fmt.Errorf("rebase conflict before reaching %s: %s: %w", shortRef(target), res.Guidance, res.Err)
		case git.RebaseFailed:
			return res.Err
		}
		inRebase = true
	}
	if err := s.git.ResetMixed(ctx, "HEAD~1"); err != nil {
		return err
	}

	for gi, g := range groups {
		if err := s.commitGroup(ctx, states, groupWants[gi], g.Message); err != nil {
			return err
		}
		fmt.Fprintf(s.stderr, "created commit %d of %d\n", gi+1, len(groups))
	}

	// Rest commit from whatever no group picked.
	var rest []*diff.Hunk
	for _, st := range states {
		wanted := st.remaining()
		if wanted == nil {
			continue
		}
		h, err := sliceState(st, wanted)
		if err != nil {
			return err
		}
		rest = append(rest, h)
	}
	if len(rest) > 0 {
		msg := restMessage
		if msg == "" {
			msg = originalMessage
		}
		if err := s.git.Apply(ctx, patch.Combine(rest), git.ApplyStage); err != nil {
			return err
		}
		if err := s.git.Commit(ctx, git.CommitOptions{Message: msg}); err != nil {
			return err
		}
		fmt.Fprintln(s.stderr, "created rest commit")
	}

	if inRebase {
		res := s.git.RebaseContinue(ctx)
		switch res.Outcome {
		case git.RebaseConflict:
			return fmt.Errorf("rebase conflict while replaying commits after %s: %s: %w", shortRef(target), res.Guidance, res.Err)
		case git.RebaseFailed:
			return res.Err
		}
	}
	return nil
}

// planGroups turns every group's picks into per-hunk wanted masks,
// failing on unknown ids, selections of no changed line, unsliceable
// hunks, and any changed line picked by two groups.
func planGroups(groups []PickGroup, states []*hunkState, byID map[string]*hunkState, target string) ([]map[*hunkState][]bool, error) {
	planned := make(map[*hunkState][]bool, len(states))
	wants := make([]map[*hunkState][]bool, len(groups))

	for gi, g := range groups {
		if len(g.Picks) == 0 {
			return nil, errors.New("pick group has no hunk ids")
		}
		wants[gi] = make(map[*hunkState][]bool)

		for _, pick := range g.Picks {
			st, ok := byID[pick.ID]
			if !ok {
				return nil, fmt.Errorf("hunk %s not found in commit %s", pick.ID, target)
			}
			if st.hunk.Unsupported && len(pick.Ranges) > 0 {
				return nil, fmt.Errorf("hunk %s has rename/mode/binary metadata and cannot be split by lines", pick.ID)
			}

			wanted := wants[gi][st]
			if wanted == nil {
				wanted = make([]bool, len(st.hunk.Lines))
				wants[gi][st] = wanted
			}
			already := planned[st]
			if already == nil {
				already = make([]bool, len(st.hunk.Lines))
				planned[st] = already
			}

			picked := false
			for i, line := range st.hunk.Lines {
				if !line.Changed() {
					continue
				}
				if len(pick.Ranges) > 0 && !inRanges(pick.Ranges, i+1) {
					continue
				}
				if already[i] {
					return nil, fmt.Errorf("line %d of hunk %s is picked by more than one group", i+1, pick.ID)
				}
				wanted[i] = true
				already[i] = true
				picked = true
			}
			if !picked {
				return nil, fmt.Errorf("selection of hunk %s contains no changed lines", pick.ID)
			}
		}
	}
	return wants, nil
}

func inRanges(ranges []patch.Range, idx int) bool {
	for _, r := range ranges {
		if r.Contains(idx) {
			return true
		}
	}
	return false
}

// commitGroup stages one group's slices and commits them, then records
// the committed lines in each hunk's applied mask.
func (s *Surgeon) commitGroup(ctx context.Context, states []*hunkState, wants map[*hunkState][]bool, message string) error {
	var parts []*diff.Hunk
	for _, st := range states {
		wanted, ok := wants[st]
		if !ok {
			continue
		}
		h, err := sliceState(st, wanted)
		if err != nil {
			return err
		}
		parts = append(parts, h)
	}

	if err := s.git.Apply(ctx, patch.Combine(parts), git.ApplyStage); err != nil {
		return err
	}
	if err := s.git.Commit(ctx, git.CommitOptions{Message: message}); err != nil {
		return err
	}

	for st, wanted := range wants {
		for i, w := range wanted {
			if w {
				st.applied[i] = true
			}
		}
	}
	return nil
}

// sliceState produces the patch for one hunk's wanted lines given what is
// already committed. Hunks with unsupported metadata can only move whole,
// which the up-front validation guarantees.
func sliceState(st *hunkState, wanted []bool) (*diff.Hunk, error) {
	if st.hunk.Unsupported {
		return st.hunk.Clone(), nil
	}
	return patch.SliceMask(st.hunk, st.applied, wanted)
}
