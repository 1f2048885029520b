package agerange

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeContains(t *testing.T) {
	r, err := New(30, 40)
	require.NoError(t, err)

	assert.True(t, r.Contains(30))
	assert.True(t, r.Contains(39))
	assert.False(t, r.Contains(40))
	assert.False(t, r.Contains(29))
	assert.Equal(t, 10, r.Years())
}

func TestNewRejectsEmptyOrInverted(t *testing.T) {
	_, err := New(40, 40)
	assert.Error(t, err)
	_, err = New(40, 30)
	assert.Error(t, err)
}

func TestOverlaps(t *testing.T) {
	a := Range{From: 30, To: 40}
	assert.True(t, a.Overlaps(Range{From: 35, To: 45}))
	assert.True(t, a.Overlaps(Range{From: 39, To: 40}))
	assert.False(t, a.Overlaps(Range{From: 40, To: 50}), "adjacent ranges do not overlap")
	assert.False(t, a.Overlaps(Range{From: 20, To: 30}))
}

func TestNewSetRejectsOverlap(t *testing.T) {
	_, err := NewSet([]Range{{From: 30, To: 40}, {From: 38, To: 50}})
	assert.Error(t, err)
}

func TestNewSetSorts(t *testing.T) {
	set, err := NewSet([]Range{{From: 50, To: 61}, {From: 30, To: 40}, {From: 40, To: 50}})
	require.NoError(t, err)
	ranges := set.Ranges()
	require.Equal(t, 3, set.Len())
	assert.Equal(t, 30, ranges[0].From)
	assert.Equal(t, 50, ranges[2].From)
}

func TestNewCoveringSet(t *testing.T) {
	tests := []struct {
		name    string
		ranges  []Range
		from    int
		to      int
		wantErr bool
	}{
		{
			name:   "exact cover",
			ranges: []Range{{From: 30, To: 40}, {From: 40, To: 61}},
			from:   30, to: 61,
		},
		{
			name:   "cover extends past span",
			ranges: []Range{{From: 25, To: 70}},
			from:   30, to: 61,
		},
		{
			name:    "gap inside span",
			ranges:  []Range{{From: 30, To: 40}, {From: 45, To: 61}},
			from:    30, to: 61,
			wantErr: true,
		},
		{
			name:    "starts too late",
			ranges:  []Range{{From: 35, To: 61}},
			from:    30, to: 61,
			wantErr: true,
		},
		{
			name:    "ends too early",
			ranges:  []Range{{From: 30, To: 55}},
			from:    30, to: 61,
			wantErr: true,
		},
		{
			name:    "empty",
			ranges:  nil,
			from:    30, to: 61,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCoveringSet(tt.ranges, tt.from, tt.to)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// randomPartition splits [from, to) into contiguous ranges at random cuts.
func randomPartition(rng *rand.Rand, from, to int) []Range {
	cuts := []int{from}
	for cur := from; cur < to; {
		step := 1 + rng.Intn(to-cur)
		cur += step
		cuts = append(cuts, cur)
	}
	ranges := make([]Range, 0, len(cuts)-1)
	for i := 1; i < len(cuts); i++ {
		ranges = append(ranges, Range{From: cuts[i-1], To: cuts[i]})
	}
	return ranges
}

func TestNewCoveringSetRandomPartitions(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for trial := 0; trial < 250; trial++ {
		from := rng.Intn(50)
		to := from + 2 + rng.Intn(60)
		ranges := randomPartition(rng, from, to)

		// Shuffle: order must not matter.
		rng.Shuffle(len(ranges), func(i, j int) { ranges[i], ranges[j] = ranges[j], ranges[i] })
		set, err := NewCoveringSet(ranges, from, to)
		require.NoError(t, err, "trial %d: exact partition of [%d, %d) must cover", trial, from, to)
		for age := from; age < to; age++ {
			require.NotEqual(t, -1, set.Find(age), "trial %d: age %d uncovered", trial, age)
		}

		if len(ranges) < 2 {
			continue
		}

		// Removing any single range opens a gap or shortens the span.
		drop := rng.Intn(len(ranges))
		gapped := make([]Range, 0, len(ranges)-1)
		for i, r := range ranges {
			if i != drop {
				gapped = append(gapped, r)
			}
		}
		_, err = NewCoveringSet(gapped, from, to)
		assert.Error(t, err, "trial %d: dropping a range must break coverage", trial)

		// Widening any non-final range into its neighbor is an overlap.
		sorted, err := NewSet(ranges)
		require.NoError(t, err)
		overlapped := append([]Range(nil), sorted.Ranges()...)
		overlapped[rng.Intn(len(overlapped)-1)].To++
		_, err = NewCoveringSet(overlapped, from, to)
		assert.Error(t, err, "trial %d: widened range must overlap its neighbor", trial)
	}
}

func TestFind(t *testing.T) {
	set, err := NewSet([]Range{{From: 30, To: 40}, {From: 40, To: 50}, {From: 55, To: 61}})
	require.NoError(t, err)

	assert.Equal(t, 0, set.Find(30))
	assert.Equal(t, 1, set.Find(49))
	assert.Equal(t, 2, set.Find(55))
	assert.Equal(t, -1, set.Find(52), "gap between sets")
	assert.Equal(t, -1, set.Find(61))
	assert.Equal(t, -1, set.Find(10))
}
