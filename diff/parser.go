package diff

import "strings"

// metadataPrefixes mark file sections whose hunks cannot be fragmented:
// renames, copies, mode-only changes, and binary content. New/deleted file
// modes are normal and stay sliceable.
var metadataPrefixes = []string{
	"old mode ",
	"new mode ",
	"rename from ",
	"rename to ",
	"copy from ",
	"copy to ",
	"similarity index ",
	"Binary files ",
	"GIT binary patch",
}

// stripPathPrefix extracts a file path from a "--- a/..." or "+++ b/..."
// line, tolerating the /dev/null sentinel and prefix-less forms.
func stripPathPrefix(line string) string {
	for _, prefix := range []string{
		"--- a/", "+++ b/", "--- /", "+++ /", "+++ a/", "--- ", "+++ ",
	} {
		if rest, ok := strings.CutPrefix(line, prefix); ok {
			return rest
		}
	}
	return line
}

// Parse scans unified diff text into an ordered sequence of hunks.
//
// The parser is intentionally lenient: the backing engine is trusted to
// produce well-formed diffs, so unrecognized lines before a hunk opens are
// skipped and malformed input never fails, it just yields fewer hunks.
func Parse(input string) []*Hunk {
	var hunks []*Hunk

	var (
		oldFile     string
		newFile     string
		fileHeader  string
		header      string
		lines       []Line
		unsupported bool
		open        bool
	)

	flush := func() {
		if !open {
			return
		}
		hunks = append(hunks, &Hunk{
			File:        displayFile(oldFile, newFile),
			OldFile:     oldFile,
			NewFile:     newFile,
			FileHeader:  fileHeader,
			Header:      header,
			Lines:       lines,
			Unsupported: unsupported,
		})
		lines = nil
		open = false
	}

	scanLines := strings.Split(input, "\n")
	if n := len(scanLines); n > 0 && scanLines[n-1] == "" {
		// Trailing newline artifact, not a diff line.
		scanLines = scanLines[:n-1]
	}

	for _, line := range scanLines {
		switch {
		case strings.HasPrefix(line, "diff --git"):
			flush()
			fileHeader = ""
			oldFile = ""
			newFile = ""
			unsupported = false
		case strings.HasPrefix(line, "--- ") && !open:
			fileHeader = line
			oldFile = stripPathPrefix(line)
		case strings.HasPrefix(line, "+++ ") && !open:
			fileHeader += "\n" + line
			newFile = stripPathPrefix(line)
		case strings.HasPrefix(line, "@@ "):
			// A new hunk in the same file flushes the previous one.
			flush()
			header = line
			lines = nil
			open = true
		case open:
			lines = append(lines, classifyLine(line))
		default:
			if isMetadataLine(line) {
				unsupported = true
			}
			// Anything else outside a hunk is skipped.
		}
	}

	flush()
	return hunks
}

func isMetadataLine(line string) bool {
	for _, prefix := range metadataPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
