package selection

import (
	"math"

	"github.com/tidwall/btree"
)

// Range is a half-open span of positions [Begin, End)
type Range struct {
	Begin int
	End   int
}

// Len returns the number of positions in the range
func (r Range) Len() int { return r.End - r.Begin }

// RangeSet is an ordered set of non-negative positions stored as disjoint,
// non-adjacent ranges in a B-tree keyed by range start.
type RangeSet struct {
	tree  *btree.BTreeG[Range]
	count int
}

func byBegin(a, b Range) bool { return a.Begin < b.Begin }

// NewRangeSet creates an empty set
func NewRangeSet() *RangeSet {
	return &RangeSet{
		tree: btree.NewBTreeGOptions(byBegin, btree.Options{NoLocks: true}),
	}
}

// Len returns the number of positions in the set
func (s *RangeSet) Len() int { return s.count }

// floor returns the range with the greatest Begin <= i
func (s *RangeSet) floor(i int) (Range, bool) {
	var found Range
	var ok bool
	s.tree.Descend(Range{Begin: i}, func(r Range) bool {
		found, ok = r, true
		return false
	})
	return found, ok
}

// Contains reports whether i is in the set
func (s *RangeSet) Contains(i int) bool {
	r, ok := s.floor(i)
	return ok && i < r.End
}

// Add inserts i and reports whether the set changed
func (s *RangeSet) Add(i int) bool {
	if i < 0 || s.Contains(i) {
		return false
	}
	return s.AddRange(i, i+1) > 0
}

// Remove deletes i and reports whether the set changed
func (s *RangeSet) Remove(i int) bool {
	return len(s.RemoveRange(i, i+1)) > 0
}

// AddRange inserts every position in [begin, end) and returns how many were new
func (s *RangeSet) AddRange(begin, end int) int {
	if begin < 0 {
		begin = 0
	}
	if begin >= end {
		return 0
	}

	// Collect every range overlapping or touching [begin, end)
	var touching []Range
	pivot := Range{Begin: begin}
	if r, ok := s.floor(begin); ok && r.End >= begin {
		pivot = r
	}
	s.tree.Ascend(pivot, func(r Range) bool {
		if r.Begin > end {
			return false
		}
		touching = append(touching, r)
		return true
	})

	merged := Range{Begin: begin, End: end}
	covered := 0
	for _, r := range touching {
		s.tree.Delete(r)
		covered += max(0, min(r.End, end)-max(r.Begin, begin))
		merged.Begin = min(merged.Begin, r.Begin)
		merged.End = max(merged.End, r.End)
	}
	s.tree.Set(merged)

	added := (end - begin) - covered
	s.count += added
	return added
}

// RemoveRange deletes every position in [begin, end) and returns the removed
// positions in ascending order
func (s *RangeSet) RemoveRange(begin, end int) []int {
	if begin < 0 {
		begin = 0
	}
	if begin >= end {
		return nil
	}

	var hit []Range
	if r, ok := s.floor(begin); ok && r.Begin < begin && r.End > begin {
		hit = append(hit, r)
	}
	s.tree.Ascend(Range{Begin: begin}, func(r Range) bool {
		if r.Begin >= end {
			return false
		}
		hit = append(hit, r)
		return true
	})

	var removed []int
	for _, r := range hit {
		s.tree.Delete(r)
		lo, hi := max(r.Begin, begin), min(r.End, end)
		for i := lo; i < hi; i++ {
			removed = append(removed, i)
		}
		if r.Begin < begin {
			s.tree.Set(Range{Begin: r.Begin, End: begin})
		}
		if r.End > end {
			s.tree.Set(Range{Begin: end, End: r.End})
		}
	}
	s.count -= len(removed)
	return removed
}

// Truncate removes every position >= n and returns them
func (s *RangeSet) Truncate(n int) []int {
	return s.RemoveRange(n, math.MaxInt)
}

// Shift moves positions to account for an insertion (delta > 0) or a
// removal (delta < 0) at start. For a removal the positions in
// [start, start-delta) are dropped and returned. It reports whether any
// surviving position moved.
func (s *RangeSet) Shift(start, delta int) (moved bool, removed []int) {
	if delta == 0 {
		return false, nil
	}
	if delta < 0 {
		removed = s.RemoveRange(start, start-delta)
	}

	var tail []Range
	if r, ok := s.floor(start); ok && r.Begin < start && r.End > start {
		tail = append(tail, r)
	}
	s.tree.Ascend(Range{Begin: start}, func(r Range) bool {
		tail = append(tail, r)
		return true
	})

	for _, r := range tail {
		s.tree.Delete(r)
		s.count -= r.Len()
	}
	for _, r := range tail {
		if r.Begin < start {
			s.AddRange(r.Begin, start)
			r.Begin = start
		}
		s.AddRange(r.Begin+delta, r.End+delta)
		moved = true
	}
	return moved, removed
}

// Min returns the lowest position
func (s *RangeSet) Min() (int, bool) {
	r, ok := s.tree.Min()
	return r.Begin, ok
}

// Max returns the highest position
func (s *RangeSet) Max() (int, bool) {
	r, ok := s.tree.Max()
	return r.End - 1, ok
}

// Ranges returns the ranges in ascending order
func (s *RangeSet) Ranges() []Range {
	return s.tree.Items()
}

// Indexes returns every position in ascending order
func (s *RangeSet) Indexes() []int {
	out := make([]int, 0, s.count)
	s.tree.Scan(func(r Range) bool {
		for i := r.Begin; i < r.End; i++ {
			out = append(out, i)
		}
		return true
	})
	return out
}

// Clear removes every position
func (s *RangeSet) Clear() {
	s.tree.Clear()
	s.count = 0
}

// Clone returns an independent copy
func (s *RangeSet) Clone() *RangeSet {
	return &RangeSet{tree: s.tree.Copy(), count: s.count}
}
