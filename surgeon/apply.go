package surgeon

import (
	"context"
	"errors"
	"fmt"

	"github.com/surgeonkit/surgeon/diff"
	"github.com/surgeonkit/surgeon/git"
	"github.com/surgeonkit/surgeon/patch"
)

// Stage applies the named hunks to the index. A lines range restricts the
// patch to a hunk-relative slice and is only legal with exactly one id.
func (s *Surgeon) Stage(ctx context.Context, ids []string, lines *patch.Range) error {
	return s.applyHunks(ctx, ids, lines, git.ApplyStage)
}

// Unstage reverse-applies the named hunks against the index, resolving
// them from the staged diff.
func (s *Surgeon) Unstage(ctx context.Context, ids []string, lines *patch.Range) error {
	return s.applyHunks(ctx, ids, lines, git.ApplyUnstage)
}

// Discard reverse-applies the named hunks against the working tree,
// throwing the changes away.
func (s *Surgeon) Discard(ctx context.Context, ids []string, lines *patch.Range) error {
	return s.applyHunks(ctx, ids, lines, git.ApplyDiscard)
}

func (s *Surgeon) applyHunks(ctx context.Context, ids []string, lines *patch.Range, mode git.ApplyMode) error {
	if len(ids) == 0 {
		return errors.New("no hunk ids given")
	}
	if lines != nil && len(ids) != 1 {
		return errors.New("--lines requires exactly one id")
	}

	// Unstaging resolves against the index diff; everything else against
	// the working tree diff.
	staged := mode == git.ApplyUnstage
	identified, err := s.loadHunks(ctx, staged, "", "")
	if err != nil {
		return err
	}

	hunks, err := s.resolveSelection(identified, ids, lines, mode != git.ApplyStage, "")
	if err != nil {
		return err
	}
	return s.git.Apply(ctx, patch.Combine(hunks), mode)
}

// Undo reverse-applies hunks taken from a historical commit's diff against
// the working tree.
func (s *Surgeon) Undo(ctx context.Context, ids []string, from string, lines *patch.Range) error {
	if len(ids) == 0 {
		return errors.New("no hunk ids given")
	}
	if lines != nil && len(ids) != 1 {
		return errors.New("--lines requires exactly one id")
	}

	identified, err := s.loadHunks(ctx, false, from, "")
	if err != nil {
		return err
	}

	hunks, err := s.resolveSelection(identified, ids, lines, true, from)
	if err != nil {
		return err
	}
	return s.git.Apply(ctx, patch.Combine(hunks), git.ApplyDiscard)
}

// resolveSelection maps every id to its hunk, slicing to the lines range
// when one is given, and echoes each resolved id to the progress stream.
// All ids are resolved before anything is reported or applied.
func (s *Surgeon) resolveSelection(identified []diff.Identified, ids []string, lines *patch.Range, reverse bool, commit string) ([]*diff.Hunk, error) {
	var hunks []*diff.Hunk
	for _, id := range ids {
		h, err := findHunk(identified, id, commit)
		if err != nil {
			return nil, err
		}
		if lines != nil {
			sliced, err := patch.Slice(h, []patch.Range{*lines}, reverse)
			if err != nil {
				return nil, err
			}
			if !patch.HasChanges(sliced) {
				return nil, fmt.Errorf("lines %d-%d of hunk %s contain no changes", lines.Start, lines.End, id)
			}
			h = sliced
		}
		hunks = append(hunks, h)
	}
	for _, id := range ids {
		fmt.Fprintln(s.stderr, id)
	}
	return hunks, nil
}

// UndoFiles reverse-applies every hunk of the named files from a commit's
// diff against the working tree. Every requested path must match at least
// one hunk (by display, old or new path) or nothing is applied.
func (s *Surgeon) UndoFiles(ctx context.Context, files []string, from string) error {
	if len(files) == 0 {
		return errors.New("no files given")
	}

	text, err := s.git.DiffCommit(ctx, from, "")
	if err != nil {
		return err
	}
	hunks := diff.Parse(text)

	matched := make(map[string]bool)
	var selected []*diff.Hunk
	for _, h := range hunks {
		for _, f := range files {
			if f == h.File || f == h.OldFile || f == h.NewFile {
				selected = append(selected, h)
				matched[f] = true
				break
			}
		}
	}

	for _, f := range files {
		if !matched[f] {
			return fmt.Errorf("file %s not found in commit %s", f, from)
		}
	}

	for _, f := range files {
		fmt.Fprintln(s.stderr, f)
	}
	return s.git.Apply(ctx, patch.Combine(selected), git.ApplyDiscard)
}
