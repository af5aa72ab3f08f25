package simulation

import (
	"slices"
	"time"
)

// ManualEntry is an operator hypothesis about a draw that is not in the table yet.
type ManualEntry struct {
	DrawNumber int64     `json:"drawNumber"`
	HasEvent   bool      `json:"hasEvent"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ManualSet holds manual entries keyed by draw number. The zero value is an
// empty set. A ManualSet is not safe for concurrent mutation; share it through
// Clone snapshots.
type ManualSet struct {
	entries map[int64]ManualEntry
}

// NewManualSet builds a set from entries, later duplicates winning.
func NewManualSet(entries ...ManualEntry) *ManualSet {
	s := &ManualSet{}
	for _, e := range entries {
		s.Upsert(e)
	}
	return s
}

// Upsert adds the entry, replacing any entry with the same draw number.
func (s *ManualSet) Upsert(e ManualEntry) {
	if s.entries == nil {
		s.entries = make(map[int64]ManualEntry)
	}
	s.entries[e.DrawNumber] = e
}

// Remove deletes the entry for a draw number, reporting whether it existed.
func (s *ManualSet) Remove(drawNumber int64) bool {
	if _, ok := s.entries[drawNumber]; !ok {
		return false
	}
	delete(s.entries, drawNumber)
	return true
}

// Reset empties the set.
func (s *ManualSet) Reset() {
	s.entries = nil
}

// Len returns the number of entries.
func (s *ManualSet) Len() int {
	return len(s.entries)
}

// Get returns the entry for a draw number.
func (s *ManualSet) Get(drawNumber int64) (ManualEntry, bool) {
	e, ok := s.entries[drawNumber]
	return e, ok
}

// Entries returns the entries ordered by draw number.
func (s *ManualSet) Entries() []ManualEntry {
	out := make([]ManualEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b ManualEntry) int {
		switch {
		case a.DrawNumber < b.DrawNumber:
			return -1
		case a.DrawNumber > b.DrawNumber:
			return 1
		}
		return 0
	})
	return out
}

// Clone returns an independent copy.
func (s *ManualSet) Clone() *ManualSet {
	return NewManualSet(s.Entries()...)
}

// ShouldReset reports whether a newly loaded table supersedes the manual
// entries made against the previous one: only when both maxima are known and
// the new one is strictly greater.
func ShouldReset(prevMax, newMax *int64) bool {
	return prevMax != nil && newMax != nil && *newMax > *prevMax
}
