// Package blame attributes each line of a hunk to the commit that last
// touched it, by aligning git blame output for the hunk's old-side and
// new-side line ranges against the hunk's line stream.
package blame

import (
	"context"
	"fmt"
	"strings"

	"github.com/surgeonkit/surgeon/diff"
	"github.com/surgeonkit/surgeon/exec"
)

// UnknownHash is reported for lines whose attribution could not be resolved:
// uncommitted additions, metadata lines, or failed blame lookups.
const UnknownHash = "0000000"

// Annotation pairs a hunk line with its 7-hex attribution hash.
type Annotation struct {
	Line diff.Line
	Hash string
}

// Annotator resolves line attributions by running git blame.
type Annotator struct {
	executor exec.CommandExecutor
	dir      string
}

// NewAnnotator creates an Annotator that runs git in the given directory.
func NewAnnotator(executor exec.CommandExecutor, dir string) *Annotator {
	return &Annotator{executor: executor, dir: dir}
}

// Annotate returns one annotation per hunk line, in order. For a working-tree
// hunk pass commit == "": the old side is blamed at HEAD and the new side
// against the working tree. For a committed hunk the old side is blamed at
// the commit's parent and the new side at the commit itself.
func (a *Annotator) Annotate(ctx context.Context, h *diff.Hunk, commit string) ([]Annotation, error) {
	r, ok := diff.ParseHeader(h.Header)
	if !ok {
		out := make([]Annotation, len(h.Lines))
		for i, line := range h.Lines {
			out[i] = Annotation{Line: line, Hash: UnknownHash}
		}
		return out, nil
	}

	oldRev := "HEAD"
	newRev := ""
	if commit != "" {
		oldRev = commit + "^"
		newRev = commit
	}

	oldHashes := a.lineHashes(ctx, h.File, r.OldStart, r.OldCount, oldRev)
	newHashes := a.lineHashes(ctx, h.File, r.NewStart, r.NewCount, newRev)

	take := func(hashes []string, idx *int) string {
		if *idx < len(hashes) {
			hash := hashes[*idx]
			*idx++
			return hash
		}
		*idx++
		return UnknownHash
	}

	out := make([]Annotation, 0, len(h.Lines))
	oldIdx, newIdx := 0, 0
	for _, line := range h.Lines {
		var hash string
		switch line.Kind {
		case diff.Context:
			take(oldHashes, &oldIdx)
			hash = take(newHashes, &newIdx)
		case diff.Deletion:
			hash = take(oldHashes, &oldIdx)
		case diff.Addition:
			hash = take(newHashes, &newIdx)
		default:
			hash = UnknownHash
		}
		out = append(out, Annotation{Line: line, Hash: hash})
	}
	return out, nil
}

// lineHashes runs git blame --line-porcelain over a line range and returns
// one 7-hex hash per line. Failures degrade to an empty slice so the caller
// falls back to the unknown sentinel.
func (a *Annotator) lineHashes(ctx context.Context, file string, from, count int, revision string) []string {
	if count == 0 {
		return nil
	}

	args := []string{"blame", "--line-porcelain", "-L", fmt.Sprintf("%d,+%d", from, count)}
	if revision != "" {
		args = append(args, revision)
	}
	args = append(args, "--", file)

	stdout, err := a.executor.Output(ctx, a.dir, "git", args...)
	if err != nil {
		return nil
	}
	return parseHashes(string(stdout))
}

// parseHashes extracts the 7-hex attribution prefix from each porcelain
// header line. Content lines start with a tab and are skipped so file text
// that happens to look like a hash never produces a false match. A leading ^
// marks a boundary commit and is stripped.
func parseHashes(output string) []string {
	var hashes []string
	for _, line := range strings.Split(output, "\n") {
		if strings.HasPrefix(line, "\t") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		hash := strings.TrimPrefix(fields[0], "^")
		if len(hash) < 40 || !isHex(hash[:40]) {
			continue
		}
		hashes = append(hashes, hash[:7])
	}
	return hashes
}

func isHex(s string) bool {
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
