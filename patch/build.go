package patch

import (
	"strings"

	"github.com/surgeonkit/surgeon/diff"
)

// Build renders a single hunk as a standalone patch that git apply accepts.
func Build(h *diff.Hunk) string {
	return Combine([]*diff.Hunk{h})
}

// Combine renders several hunks as one patch, emitting each file header only
// once for consecutive hunks of the same file. Hunks must already be in diff
// order so that per-file hunks stay adjacent and ascending.
func Combine(hunks []*diff.Hunk) string {
	var b strings.Builder
	lastFile := ""
	for _, h := range hunks {
		if h.File != lastFile {
			b.WriteString(h.FileHeader)
			if !strings.HasSuffix(h.FileHeader, "\n") {
				b.WriteByte('\n')
			}
			lastFile = h.File
		}
		b.WriteString(h.Header)
		b.WriteByte('\n')
		for _, line := range h.Lines {
			b.WriteString(line.Raw)
			b.WriteByte('\n')
		}
	}
	return b.String()
}
