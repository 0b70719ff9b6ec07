package mindmap

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// idLength matches the identifier length XMind itself writes
const idLength = 26

// IDGenerator produces a fresh identifier on every call
type IDGenerator func() string

// NewID returns a random opaque identifier
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:idLength]
}

// Sequential returns a deterministic generator yielding prefix-1, prefix-2, ...
func Sequential(prefix string) IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// EnsureIDs assigns identifiers to sheets and topics that have none and
// replaces identifiers already used elsewhere in the same document.
func EnsureIDs(d *Document, newID IDGenerator) {
	seen := make(map[string]bool)
	claim := func(id string) string {
		for id == "" || seen[id] {
			id = newID()
		}
		seen[id] = true
		return id
	}

	for _, s := range d.Sheets {
		s.ID = claim(s.ID)
	}
	d.Walk(func(_ *Sheet, t *Topic, _ int) bool {
		t.ID = claim(t.ID)
		return true
	})
}
