package diff

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
)

// idLength is the number of hex characters in a hunk identifier.
const idLength = 7

// Identified pairs a hunk with its assigned identifier.
type Identified struct {
	ID   string
	Hunk *Hunk
}

// rawID computes the content hash for a hunk before collision suffixing.
// It hashes the display path plus every hunk line, each terminated by a
// separator byte so differently-split lines never collide. The @@ header is
// excluded so identifiers survive line-number shifts caused by unrelated
// edits earlier in the file.
func rawID(h *Hunk) string {
	hasher := sha1.New()
	hasher.Write([]byte(h.File))
	for _, line := range h.Lines {
		hasher.Write([]byte(line.Raw))
		hasher.Write([]byte{'\n'})
	}
	sum := hasher.Sum(nil)
	return hex.EncodeToString(sum)[:idLength]
}

// AssignIDs gives every hunk a unique identifier, in input order.
// Duplicate content hashes get a -2, -3, ... suffix in diff order.
func AssignIDs(hunks []*Hunk) []Identified {
	seen := make(map[string]int)
	result := make([]Identified, 0, len(hunks))

	for _, h := range hunks {
		raw := rawID(h)
		seen[raw]++
		id := raw
		if n := seen[raw]; n > 1 {
			id = fmt.Sprintf("%s-%d", raw, n)
		}
		result = append(result, Identified{ID: id, Hunk: h})
	}

	return result
}

// Find returns the hunk with the given identifier, or nil.
func Find(identified []Identified, id string) *Hunk {
	for _, entry := range identified {
		if entry.ID == id {
			return entry.Hunk
		}
	}
	return nil
}
