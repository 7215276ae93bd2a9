package console

import (
	"hash/fnv"
	"strconv"

	"github.com/Qendolin/proxy-log-console/pkg/logstore"
)

// EntryKey derives a stable synthetic identity for an entry at snapshot
// position seq. The key is deterministic across fetches that return the same
// records in the same order, so expansion state survives filter changes and
// snapshot refreshes. seq disambiguates byte-identical records.
func EntryKey(entry logstore.Entry, seq int) uint64 {
	h := fnv.New64a()
	h.Write([]byte(entry.Timestamp))
	h.Write([]byte{0})
	h.Write([]byte(entry.Level))
	h.Write([]byte{0})
	h.Write([]byte(entry.Category))
	h.Write([]byte{0})
	h.Write([]byte(entry.Message))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(seq)))
	return h.Sum64()
}

// ExpansionSet tracks which entries are showing their structured payload,
// keyed by EntryKey. Keys that no longer resolve to a visible entry are
// harmless and are not proactively pruned.
type ExpansionSet struct {
	expanded map[uint64]struct{}
}

// NewExpansionSet creates an empty expansion set.
func NewExpansionSet() *ExpansionSet {
	return &ExpansionSet{expanded: make(map[uint64]struct{})}
}

// Toggle flips the expansion state for key and returns the new state.
func (s *ExpansionSet) Toggle(key uint64) bool {
	if _, ok := s.expanded[key]; ok {
		delete(s.expanded, key)
		return false
	}
	s.expanded[key] = struct{}{}
	return true
}

// IsExpanded reports whether key is expanded.
func (s *ExpansionSet) IsExpanded(key uint64) bool {
	_, ok := s.expanded[key]
	return ok
}

// Clear collapses all entries.
func (s *ExpansionSet) Clear() {
	s.expanded = make(map[uint64]struct{})
}

// Len returns the number of expanded keys, including stale ones.
func (s *ExpansionSet) Len() int {
	return len(s.expanded)
}
