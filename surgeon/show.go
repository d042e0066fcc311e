package surgeon

import (
	"context"
	"fmt"
	"io"

	"github.com/surgeonkit/surgeon/diff"
)

// Show prints one hunk in full: the @@ header followed by every line with
// its hunk-relative number, the same numbers --lines ranges address. With
// commit set the hunk is looked up in that commit's diff; otherwise the
// unstaged diff is searched first, then the staged one.
func (s *Surgeon) Show(ctx context.Context, id, commit string) error {
	var h *diff.Hunk

	if commit != "" {
		identified, err := s.loadHunks(ctx, false, commit, "")
		if err != nil {
			return err
		}
		h, err = findHunk(identified, id, commit)
		if err != nil {
			return err
		}
	} else {
		for _, staged := range []bool{false, true} {
			identified, err := s.loadHunks(ctx, staged, "", "")
			if err != nil {
				return err
			}
			if h = diff.Find(identified, id); h != nil {
				break
			}
		}
		if h == nil {
			return fmt.Errorf("hunk %s not found (re-run 'hunks')", id)
		}
	}

	printNumbered(s.stdout, h)
	return nil
}

func printNumbered(w io.Writer, h *diff.Hunk) {
	fmt.Fprintln(w, h.Header)
	for i, line := range h.Lines {
		fmt.Fprintf(w, "%3d: %s\n", i+1, line.Raw)
	}
}
