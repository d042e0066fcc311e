package surgeon

import (
	"context"
	"fmt"
	"strings"

	"github.com/surgeonkit/surgeon/diff"
)

// ListOptions selects which diff the hunk listing reads and how each hunk
// is rendered.
type ListOptions struct {
	Staged bool
	File   string
	Commit string
	Full   bool
	Blame  bool
}

// Hunks prints every hunk of the selected diff: an id line with the file,
// any function context and the change counts, then a short preview of the
// changed lines. Full mode prints every line with hunk-relative numbers
// (the numbers --lines ranges refer to); blame mode prints per-line
// attribution hashes instead. Empty diffs produce no output.
func (s *Surgeon) Hunks(ctx context.Context, opts ListOptions) error {
	identified, err := s.loadHunks(ctx, opts.Staged, opts.Commit, opts.File)
	if err != nil {
		return err
	}

	for _, entry := range identified {
		h := entry.Hunk
		fmt.Fprintf(s.stdout, "%s %s%s (+%d -%d)\n",
			entry.ID, h.File, funcSuffix(h.Header), h.Additions(), h.Deletions())

		switch {
		case opts.Blame:
			if err := s.printBlame(ctx, h, opts.Commit); err != nil {
				return err
			}
		case opts.Full:
			printNumbered(s.stdout, h)
		default:
			s.printPreview(h)
		}
		fmt.Fprintln(s.stdout)
	}
	return nil
}

// funcSuffix normalizes a hunk header's function context to exactly one
// leading space, so the listing line stays `<id> <file> <context> (+A -D)`.
func funcSuffix(header string) string {
	if fc := strings.TrimSpace(diff.FuncContext(header)); fc != "" {
		return " " + fc
	}
	return ""
}

// printPreview shows up to previewLines changed lines, then a count of
// what was elided.
func (s *Surgeon) printPreview(h *diff.Hunk) {
	var changed []string
	for _, line := range h.Lines {
		if line.Changed() {
			changed = append(changed, line.Raw)
		}
	}

	show := len(changed)
	if show > s.previewLines {
		show = s.previewLines
	}
	for _, raw := range changed[:show] {
		fmt.Fprintf(s.stdout, "  %s\n", raw)
	}
	if len(changed) > show {
		fmt.Fprintf(s.stdout, "  ... (+%d more lines)\n", len(changed)-show)
	}
}

func (s *Surgeon) printBlame(ctx context.Context, h *diff.Hunk, commit string) error {
	annotations, err := s.annotator.Annotate(ctx, h, commit)
	if err != nil {
		return err
	}
	for _, a := range annotations {
		fmt.Fprintf(s.stdout, "  %s %s\n", a.Hash, a.Line.Raw)
	}
	return nil
}
