package roster

import "sort"

// Set is the accumulating result set of one run. It is owned
// exclusively by the run loop; there is no concurrent access and no
// locking. Names are only ever added, never removed, so every
// materialized snapshot is a superset of the previous one.
type Set struct {
	names map[Name]struct{}
}

// NewSet returns an empty result set.
func NewSet() *Set {
	return &Set{names: make(map[Name]struct{})}
}

// Add inserts a name and reports whether it was new. Re-inserting an
// existing name is a no-op, which is what makes re-scraping an
// already-seen identifier idempotent.
func (s *Set) Add(n Name) bool {
	if _, ok := s.names[n]; ok {
		return false
	}
	s.names[n] = struct{}{}
	return true
}

// Contains reports whether the set holds the exact name pair.
func (s *Set) Contains(n Name) bool {
	_, ok := s.names[n]
	return ok
}

// Len returns the number of distinct names accumulated so far.
func (s *Set) Len() int {
	return len(s.names)
}

// Sorted returns the names ordered by last name then first name, the
// order checkpoint files are written in.
func (s *Set) Sorted() []Name {
	out := make([]Name, 0, len(s.names))
	for n := range s.names {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Last != out[j].Last {
			return out[i].Last < out[j].Last
		}
		return out[i].First < out[j].First
	})
	return out
}
