package diff

import (
	"fmt"
	"strconv"
	"strings"
)

// HunkRange holds the line ranges encoded in an @@ header.
type HunkRange struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
}

// ParseHeader extracts the old/new line ranges from an @@ header line such
// as "@@ -10,3 +10,4 @@ func main". A count defaults to 1 when omitted
// (e.g. "@@ -5 +5 @@").
func ParseHeader(header string) (HunkRange, bool) {
	rest, ok := strings.CutPrefix(header, "@@ ")
	if !ok {
		return HunkRange{}, false
	}
	end := strings.Index(rest, " @@")
	if end < 0 {
		return HunkRange{}, false
	}

	parts := strings.Fields(rest[:end])
	if len(parts) != 2 {
		return HunkRange{}, false
	}

	oldPart, ok := strings.CutPrefix(parts[0], "-")
	if !ok {
		return HunkRange{}, false
	}
	newPart, ok := strings.CutPrefix(parts[1], "+")
	if !ok {
		return HunkRange{}, false
	}

	oldStart, oldCount, ok := parseRange(oldPart)
	if !ok {
		return HunkRange{}, false
	}
	newStart, newCount, ok := parseRange(newPart)
	if !ok {
		return HunkRange{}, false
	}

	return HunkRange{
		OldStart: oldStart,
		OldCount: oldCount,
		NewStart: newStart,
		NewCount: newCount,
	}, true
}

func parseRange(s string) (start, count int, ok bool) {
	startStr, countStr, hasCount := strings.Cut(s, ",")
	start, err := strconv.Atoi(startStr)
	if err != nil {
		return 0, 0, false
	}
	count = 1
	if hasCount {
		count, err = strconv.Atoi(countStr)
		if err != nil {
			return 0, 0, false
		}
	}
	return start, count, true
}

// FuncContext returns the trailing function-context text after the closing
// @@ of a hunk header, including its leading separator. Empty when the
// header carries no trailing text.
func FuncContext(header string) string {
	rest, ok := strings.CutPrefix(header, "@@ ")
	if !ok {
		return ""
	}
	end := strings.Index(rest, "@@")
	if end < 0 {
		return ""
	}
	return rest[end+2:]
}

// FormatHeader re-emits an @@ header from a range and an optional trailing
// function-context suffix (as returned by FuncContext).
func FormatHeader(r HunkRange, tail string) string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@%s", r.OldStart, r.OldCount, r.NewStart, r.NewCount, tail)
}
