// Package patch slices hunks down to subsets of their changed lines and
// reconstructs standalone unified-diff patches from them.
package patch

import (
	"fmt"

	"github.com/surgeonkit/surgeon/diff"
)

// Range is a 1-based inclusive line range over a hunk's lines.
type Range struct {
	Start int
	End   int
}

// Contains reports whether the 1-based index falls inside the range.
func (r Range) Contains(idx int) bool {
	return idx >= r.Start && idx <= r.End
}

func inAny(ranges []Range, idx int) bool {
	for _, r := range ranges {
		if r.Contains(idx) {
			return true
		}
	}
	return false
}

// Slice reduces a hunk to the changes inside the given 1-based line ranges.
// Lines outside the ranges have their changes neutralized so the result is
// still a valid patch:
//
//   - excluded additions are dropped in the forward direction and become
//     context in reverse (they already exist in the tree being reverse-patched)
//   - excluded deletions become context in the forward direction (the line is
//     still present) and are dropped in reverse
//
// Context lines are always preserved for patch validity.
func Slice(h *diff.Hunk, ranges []Range, reverse bool) (*diff.Hunk, error) {
	if h.Unsupported {
		return nil, fmt.Errorf("hunk for %s has rename/mode/binary metadata and cannot be sliced", h.File)
	}

	var lines []diff.Line
	for i, line := range h.Lines {
		selected := inAny(ranges, i+1)

		switch line.Kind {
		case diff.Addition:
			switch {
			case selected:
				lines = append(lines, line)
			case reverse:
				lines = append(lines, diff.Line{Kind: diff.Context, Raw: " " + line.Content()})
			}
		case diff.Deletion:
			switch {
			case selected:
				lines = append(lines, line)
			case !reverse:
				lines = append(lines, diff.Line{Kind: diff.Context, Raw: " " + line.Content()})
			}
		default:
			lines = append(lines, line)
		}
	}

	return rebuild(h, lines)
}

// SliceMask reduces a hunk using per-line masks instead of ranges. It is the
// stateful form used by split: applied records which changed lines earlier
// commits already materialized in the index, wanted selects the lines for
// the current commit.
//
//   - an addition becomes context when already applied, stays an addition
//     when wanted, and is dropped otherwise (it does not exist in the index)
//   - a deletion is dropped when already applied (the line is gone), stays a
//     deletion when wanted, and becomes context otherwise (still present)
func SliceMask(h *diff.Hunk, applied, wanted []bool) (*diff.Hunk, error) {
	if h.Unsupported {
		return nil, fmt.Errorf("hunk for %s has rename/mode/binary metadata and cannot be sliced", h.File)
	}
	if len(applied) != len(h.Lines) || len(wanted) != len(h.Lines) {
		return nil, fmt.Errorf("mask length %d/%d does not match %d hunk lines", len(applied), len(wanted), len(h.Lines))
	}

	var lines []diff.Line
	for i, line := range h.Lines {
		switch line.Kind {
		case diff.Addition:
			switch {
			case applied[i]:
				lines = append(lines, diff.Line{Kind: diff.Context, Raw: " " + line.Content()})
			case wanted[i]:
				lines = append(lines, line)
			}
		case diff.Deletion:
			switch {
			case applied[i]:
				// Already removed by an earlier commit.
			case wanted[i]:
				lines = append(lines, line)
			default:
				lines = append(lines, diff.Line{Kind: diff.Context, Raw: " " + line.Content()})
			}
		default:
			lines = append(lines, line)
		}
	}

	return rebuild(h, lines)
}

// rebuild recomputes the counts from the new line set and re-emits the @@
// header, preserving the original start offsets and function context.
func rebuild(h *diff.Hunk, lines []diff.Line) (*diff.Hunk, error) {
	r, ok := diff.ParseHeader(h.Header)
	if !ok {
		return nil, fmt.Errorf("cannot parse hunk header %q", h.Header)
	}

	r.OldCount = 0
	r.NewCount = 0
	for _, line := range lines {
		switch line.Kind {
		case diff.Context:
			r.OldCount++
			r.NewCount++
		case diff.Deletion:
			r.OldCount++
		case diff.Addition:
			r.NewCount++
		}
	}

	out := h.Clone()
	out.Header = diff.FormatHeader(r, diff.FuncContext(h.Header))
	out.Lines = lines
	return out, nil
}

// HasChanges reports whether the hunk still contains any addition or
// deletion line. A slice that neutralized everything is a no-op patch.
func HasChanges(h *diff.Hunk) bool {
	for _, line := range h.Lines {
		if line.Changed() {
			return true
		}
	}
	return false
}
