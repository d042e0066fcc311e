// Package diff parses unified diff output into structured hunks and assigns
// content-derived identifiers to them.
package diff

// LineKind classifies a single diff line by its prefix character.
// The kind is assigned once at parse time so downstream algorithms can
// switch over a closed set instead of re-inspecting prefixes.
type LineKind int

const (
	// Context is an unchanged line (leading space).
	Context LineKind = iota
	// Addition is an added line (leading '+').
	Addition
	// Deletion is a removed line (leading '-').
	Deletion
	// Other is a marker line such as "\ No newline at end of file".
	Other
)

// Line is one raw diff line with its classified kind. Raw keeps the prefix
// character so hunks can be reassembled verbatim.
type Line struct {
	Kind LineKind
	Raw  string
}

// Content returns the line text without its diff prefix. Marker lines are
// returned unchanged.
func (l Line) Content() string {
	switch l.Kind {
	case Context, Addition, Deletion:
		return l.Raw[1:]
	default:
		return l.Raw
	}
}

// Changed reports whether the line is an addition or deletion.
func (l Line) Changed() bool {
	return l.Kind == Addition || l.Kind == Deletion
}

// classifyLine assigns a LineKind from the leading character.
func classifyLine(raw string) Line {
	if raw == "" {
		// git emits empty context lines for blank lines in some
		// whitespace configurations; treat them as context.
		return Line{Kind: Context, Raw: " "}
	}
	switch raw[0] {
	case ' ':
		return Line{Kind: Context, Raw: raw}
	case '+':
		return Line{Kind: Addition, Raw: raw}
	case '-':
		return Line{Kind: Deletion, Raw: raw}
	default:
		return Line{Kind: Other, Raw: raw}
	}
}

// Hunk is one contiguous @@ block of a unified diff.
type Hunk struct {
	// File is the primary path for display and matching. Prefers the
	// new-side path, falling back to the old side for deletions where the
	// new side is /dev/null.
	File string
	// OldFile is the old-side path from the "--- a/..." line.
	OldFile string
	// NewFile is the new-side path from the "+++ b/..." line.
	NewFile string
	// FileHeader is the verbatim ---/+++ block preceding the hunk.
	FileHeader string
	// Header is the verbatim @@ line, e.g. "@@ -12,4 +12,6 @@ func main".
	Header string
	// Lines holds every line in the hunk in original order.
	Lines []Line
	// Unsupported marks hunks in files with metadata changes (renames,
	// mode changes, binary content) that can only be applied whole.
	Unsupported bool
}

// Additions returns the number of added lines in the hunk.
func (h *Hunk) Additions() int {
	n := 0
	for _, l := range h.Lines {
		if l.Kind == Addition {
			n++
		}
	}
	return n
}

// Deletions returns the number of removed lines in the hunk.
func (h *Hunk) Deletions() int {
	n := 0
	for _, l := range h.Lines {
		if l.Kind == Deletion {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the hunk.
func (h *Hunk) Clone() *Hunk {
	c := *h
	c.Lines = make([]Line, len(h.Lines))
	copy(c.Lines, h.Lines)
	return &c
}

// displayFile chooses the display path for a hunk. Prefer new-side, fall
// back to old-side for deletions where new is /dev/null.
func displayFile(old, new string) string {
	if new == "dev/null" || new == "/dev/null" || new == "" {
		return old
	}
	return new
}
