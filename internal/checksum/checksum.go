package checksum

import (
	"fmt"
	"hash/fnv"
)

// Calculate computes an FNV-1a checksum of data as an 8-character hex string
func Calculate(data []byte) string {
	h := fnv.New32a()
	h.Write(data)
	return fmt.Sprintf("%08x", h.Sum32())
}

// Tracker remembers the last checksum seen per key
type Tracker struct {
	seen map[string]string
}

// NewTracker creates an empty tracker
func NewTracker() *Tracker {
	return &Tracker{seen: make(map[string]string)}
}

// Changed reports whether data's checksum differs from the one last marked
// under key. A key never marked is always changed.
func (t *Tracker) Changed(key string, data []byte) bool {
	prev, ok := t.seen[key]
	return !ok || prev != Calculate(data)
}

// Mark records data's checksum under key
func (t *Tracker) Mark(key string, data []byte) {
	t.seen[key] = Calculate(data)
}
