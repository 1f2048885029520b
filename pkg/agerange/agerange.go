// Package agerange provides half-open age intervals [From, To) and
// validated, non-overlapping interval sets for plan configuration.
package agerange

import (
	"fmt"
	"sort"
)

// Range is a half-open age interval [From, To).
type Range struct {
	From int `yaml:"from" json:"from"`
	To   int `yaml:"to" json:"to"`
}

// New creates a Range and rejects empty or inverted intervals.
func New(from, to int) (Range, error) {
	if to <= from {
		return Range{}, fmt.Errorf("age range [%d, %d) is empty or inverted", from, to)
	}
	return Range{From: from, To: to}, nil
}

// Contains reports whether age falls inside the interval.
func (r Range) Contains(age int) bool {
	return age >= r.From && age < r.To
}

// Overlaps reports whether two intervals share any age.
func (r Range) Overlaps(other Range) bool {
	return r.From < other.To && other.From < r.To
}

// Years returns the interval length in years.
func (r Range) Years() int {
	return r.To - r.From
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d)", r.From, r.To)
}

// Validate checks a single range in isolation.
func (r Range) Validate() error {
	if r.To <= r.From {
		return fmt.Errorf("age range [%d, %d) is empty or inverted", r.From, r.To)
	}
	if r.From < 0 {
		return fmt.Errorf("age range %s starts before age 0", r)
	}
	return nil
}

// Set is a sorted list of non-overlapping ranges. A Set built through
// NewSet is safe for lookup without further checks.
type Set struct {
	ranges []Range
}

// NewSet validates and sorts the given ranges, rejecting overlaps.
func NewSet(ranges []Range) (Set, error) {
	sorted := make([]Range, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].From < sorted[j].From })

	for i, r := range sorted {
		if err := r.Validate(); err != nil {
			return Set{}, err
		}
		if i > 0 && sorted[i-1].To > r.From {
			return Set{}, fmt.Errorf("age ranges %s and %s overlap", sorted[i-1], r)
		}
	}
	return Set{ranges: sorted}, nil
}

// NewCoveringSet additionally requires the ranges to cover [from, to)
// without gaps. Exactly one range then matches every age in the span.
func NewCoveringSet(ranges []Range, from, to int) (Set, error) {
	set, err := NewSet(ranges)
	if err != nil {
		return Set{}, err
	}
	if len(set.ranges) == 0 {
		return Set{}, fmt.Errorf("no age ranges given for span [%d, %d)", from, to)
	}
	if set.ranges[0].From > from {
		return Set{}, fmt.Errorf("ages [%d, %d) are not covered by any range", from, set.ranges[0].From)
	}
	for i := 1; i < len(set.ranges); i++ {
		if set.ranges[i-1].To < set.ranges[i].From && set.ranges[i-1].To < to {
			return Set{}, fmt.Errorf("ages [%d, %d) are not covered by any range", set.ranges[i-1].To, set.ranges[i].From)
		}
	}
	last := set.ranges[len(set.ranges)-1]
	if last.To < to {
		return Set{}, fmt.Errorf("ages [%d, %d) are not covered by any range", last.To, to)
	}
	return set, nil
}

// Find returns the index of the range containing age, or -1.
func (s Set) Find(age int) int {
	i := sort.Search(len(s.ranges), func(i int) bool { return s.ranges[i].To > age })
	if i < len(s.ranges) && s.ranges[i].Contains(age) {
		return i
	}
	return -1
}

// Ranges returns the sorted ranges.
func (s Set) Ranges() []Range {
	return s.ranges
}

// Len returns the number of ranges in the set.
func (s Set) Len() int {
	return len(s.ranges)
}
