package models

import (
	"encoding/json"
	"fmt"
	"sort"
)

// WindowSet is the collection of calendar windows a user has opened.
// Window numbers are positive integers; each number appears at most once.
//
// The set only ever grows: windows are added when opened locally or learned
// from the backend, and no operation removes a member. Merging two sets is
// therefore a plain union, which makes reconciliation between local and
// remote state order-independent.
//
// The zero value is an empty, ready-to-use set.
type WindowSet struct {
	windows map[int]struct{}
}

// NewWindowSet builds a set from the given window numbers.
// Non-positive numbers are ignored.
func NewWindowSet(windows ...int) WindowSet {
	s := WindowSet{windows: make(map[int]struct{}, len(windows))}
	for _, n := range windows {
		s.Add(n)
	}

	return s
}

// Add inserts the window number into the set.
// It reports whether the set changed: false means the number was already
// present or is not a valid window number (zero or negative).
func (s *WindowSet) Add(n int) bool {
	if n <= 0 {
		return false
	}
	if s.windows == nil {
		s.windows = make(map[int]struct{})
	}
	if _, ok := s.windows[n]; ok {
		return false
	}

	s.windows[n] = struct{}{}

	return true
}

// Contains reports whether the window number is a member of the set.
func (s WindowSet) Contains(n int) bool {
	_, ok := s.windows[n]
	return ok
}

// Union returns a new set holding every window present in either operand.
// Neither operand is modified.
func (s WindowSet) Union(other WindowSet) WindowSet {
	merged := WindowSet{windows: make(map[int]struct{}, len(s.windows)+len(other.windows))}
	for n := range s.windows {
		merged.windows[n] = struct{}{}
	}
	for n := range other.windows {
		merged.windows[n] = struct{}{}
	}

	return merged
}

// Sorted returns the member window numbers in ascending order.
// An empty set yields an empty (non-nil) slice.
func (s WindowSet) Sorted() []int {
	sorted := make([]int, 0, len(s.windows))
	for n := range s.windows {
		sorted = append(sorted, n)
	}
	sort.Ints(sorted)

	return sorted
}

// Len returns the number of windows in the set.
func (s WindowSet) Len() int {
	return len(s.windows)
}

// Clone returns an independent copy of the set.
func (s WindowSet) Clone() WindowSet {
	clone := WindowSet{windows: make(map[int]struct{}, len(s.windows))}
	for n := range s.windows {
		clone.windows[n] = struct{}{}
	}

	return clone
}

// MarshalJSON serializes the set as a JSON array of window numbers
// in ascending order, so the persisted form is deterministic.
func (s WindowSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON restores the set from a JSON array of window numbers.
// Non-positive numbers are dropped, JSON null produces an empty set.
func (s *WindowSet) UnmarshalJSON(data []byte) error {
	var windows []int
	if err := json.Unmarshal(data, &windows); err != nil {
		return fmt.Errorf("error decoding window set: %w", err)
	}

	s.windows = make(map[int]struct{}, len(windows))
	for _, n := range windows {
		s.Add(n)
	}

	return nil
}
