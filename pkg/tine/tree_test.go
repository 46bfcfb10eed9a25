package tine

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/henderiw/idxinterval/pkg/interval"
	"github.com/henderiw/idxinterval/pkg/scalar"
	"github.com/tj/assert"
)

var ints = scalar.Integer[int32]()

func build(ivs ...interval.Interval[int32]) *Tree[int32] {
	t := New[int32](ints)
	for _, iv := range ivs {
		t.Insert(iv)
	}
	return t
}

func TestInsert(t *testing.T) {
	cases := map[string]struct {
		insert   []interval.Interval[int32]
		expected []interval.Interval[int32]
	}{
		"Disjoint": {
			insert: []interval.Interval[int32]{
				interval.UpTo(ints, 0),
				interval.Point(ints, 1),
				interval.Empty(ints),
				interval.Open(ints, 2, 5),
				interval.LeftOpen(ints, 6, 8),
				interval.RightOpen(ints, 10, 12),
				interval.Empty(ints),
				interval.Closed(ints, 14, 15),
				interval.UpFrom(ints, 17),
			},
			expected: []interval.Interval[int32]{
				interval.To(ints, -1),
				interval.Point(ints, 1),
				interval.Closed(ints, 3, 4),
				interval.Closed(ints, 7, 8),
				interval.Closed(ints, 10, 11),
				interval.Closed(ints, 14, 15),
				interval.From(ints, 18),
			},
		},
		"LeftAggregation": {
			insert: []interval.Interval[int32]{
				interval.UpTo(ints, 1),
				interval.Point(ints, 1),
				interval.Open(ints, 0, 3),
				interval.LeftOpen(ints, 2, 5),
				interval.RightOpen(ints, 4, 7),
				interval.Closed(ints, 6, 9),
				interval.UpFrom(ints, 8),
			},
			expected: []interval.Interval[int32]{interval.Full(ints)},
		},
		"RightAggregation": {
			insert: []interval.Interval[int32]{
				interval.UpFrom(ints, 8),
				interval.Closed(ints, 6, 9),
				interval.RightOpen(ints, 4, 7),
				interval.LeftOpen(ints, 2, 5),
				interval.Open(ints, 0, 3),
				interval.Point(ints, 1),
				interval.UpTo(ints, 1),
			},
			expected: []interval.Interval[int32]{interval.Full(ints)},
		},
		"CenterAggregation": {
			insert: []interval.Interval[int32]{
				interval.UpTo(ints, 10),
				interval.Point(ints, 5),
				interval.Open(ints, 0, 7),
				interval.LeftOpen(ints, 2, 8),
				interval.RightOpen(ints, 4, 6),
				interval.Closed(ints, 1, 9),
			},
			expected: []interval.Interval[int32]{interval.To(ints, 9)},
		},
		"Bridge": {
			insert: []interval.Interval[int32]{
				interval.Closed(ints, 0, 2),
				interval.Closed(ints, 6, 8),
				interval.Closed(ints, 12, 14),
				interval.Closed(ints, 3, 11),
			},
			expected: []interval.Interval[int32]{interval.Closed(ints, 0, 14)},
		},
		"Extremes": {
			insert: []interval.Interval[int32]{
				interval.Point(ints, math.MaxInt32),
				interval.Point(ints, math.MinInt32),
			},
			expected: []interval.Interval[int32]{
				interval.To(ints, math.MinInt32),
				interval.From(ints, math.MaxInt32),
			},
		},
		"FullAggregation": {
			insert: []interval.Interval[int32]{
				interval.Full(ints),
				interval.UpTo(ints, 1),
				interval.Closed(ints, 7, 9),
				interval.Full(ints),
			},
			expected: []interval.Interval[int32]{interval.Full(ints)},
		},
		"Nothing": {
			insert:   []interval.Interval[int32]{interval.Empty(ints)},
			expected: []interval.Interval[int32]{},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			tr := build(tc.insert...)
			assert.NoError(t, tr.Validate())
			if diff := cmp.Diff(tc.expected, tr.Intervals()); diff != "" {
				t.Errorf("%s: -want, +got:\n%s", name, diff)
			}
			assert.Equal(t, len(tc.expected), tr.Count())

			// insertion order does not change the tines
			rev := New[int32](ints)
			for i := len(tc.insert) - 1; i >= 0; i-- {
				rev.Insert(tc.insert[i])
			}
			assert.True(t, tr.Equal(rev))
		})
	}
}

func TestRemove(t *testing.T) {
	cases := map[string]struct {
		start    []interval.Interval[int32]
		remove   interval.Interval[int32]
		expected []interval.Interval[int32]
	}{
		"Split": {
			start:  []interval.Interval[int32]{interval.Closed(ints, 0, 10)},
			remove: interval.Closed(ints, 4, 6),
			expected: []interval.Interval[int32]{
				interval.Closed(ints, 0, 3),
				interval.Closed(ints, 7, 10),
			},
		},
		"ClipAcross": {
			start: []interval.Interval[int32]{
				interval.Closed(ints, 0, 4),
				interval.Closed(ints, 8, 12),
			},
			remove: interval.Closed(ints, 3, 9),
			expected: []interval.Interval[int32]{
				interval.Closed(ints, 0, 2),
				interval.Closed(ints, 10, 12),
			},
		},
		"Swallow": {
			start: []interval.Interval[int32]{
				interval.Closed(ints, 0, 4),
				interval.Closed(ints, 8, 12),
			},
			remove:   interval.Closed(ints, -5, 20),
			expected: []interval.Interval[int32]{},
		},
		"FromFull": {
			start:  []interval.Interval[int32]{interval.Full(ints)},
			remove: interval.Point(ints, 0),
			expected: []interval.Interval[int32]{
				interval.To(ints, -1),
				interval.From(ints, 1),
			},
		},
		"LowerRay": {
			start:    []interval.Interval[int32]{interval.Closed(ints, 0, 10)},
			remove:   interval.To(ints, 5),
			expected: []interval.Interval[int32]{interval.Closed(ints, 6, 10)},
		},
		"UpperRay": {
			start:    []interval.Interval[int32]{interval.To(ints, 10)},
			remove:   interval.From(ints, 5),
			expected: []interval.Interval[int32]{interval.To(ints, 4)},
		},
		"Uncovered": {
			start:    []interval.Interval[int32]{interval.Closed(ints, 0, 2)},
			remove:   interval.Closed(ints, 4, 6),
			expected: []interval.Interval[int32]{interval.Closed(ints, 0, 2)},
		},
		"Empty": {
			start:    []interval.Interval[int32]{interval.Closed(ints, 0, 2)},
			remove:   interval.Empty(ints),
			expected: []interval.Interval[int32]{interval.Closed(ints, 0, 2)},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			tr := build(tc.start...)
			tr.Remove(tc.remove)
			assert.NoError(t, tr.Validate())
			if diff := cmp.Diff(tc.expected, tr.Intervals()); diff != "" {
				t.Errorf("%s: -want, +got:\n%s", name, diff)
			}
		})
	}
}

func TestCombine(t *testing.T) {
	a := build(interval.Closed(ints, 0, 10), interval.Closed(ints, 20, 30))
	b := build(interval.Closed(ints, 5, 25), interval.From(ints, 40))

	cases := map[string]struct {
		op       func(r, o *Tree[int32])
		expected []interval.Interval[int32]
	}{
		"Union": {
			op: (*Tree[int32]).Union,
			expected: []interval.Interval[int32]{
				interval.Closed(ints, 0, 30),
				interval.From(ints, 40),
			},
		},
		"Intersect": {
			op: (*Tree[int32]).Intersect,
			expected: []interval.Interval[int32]{
				interval.Closed(ints, 5, 10),
				interval.Closed(ints, 20, 25),
			},
		},
		"Subtract": {
			op: (*Tree[int32]).Subtract,
			expected: []interval.Interval[int32]{
				interval.Closed(ints, 0, 4),
				interval.Closed(ints, 26, 30),
			},
		},
		"SymmetricDifference": {
			op: (*Tree[int32]).SymmetricDifference,
			expected: []interval.Interval[int32]{
				interval.Closed(ints, 0, 4),
				interval.Closed(ints, 11, 19),
				interval.Closed(ints, 26, 30),
				interval.From(ints, 40),
			},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			r := a.Clone()
			tc.op(r, b)
			assert.NoError(t, r.Validate())
			if diff := cmp.Diff(tc.expected, r.Intervals()); diff != "" {
				t.Errorf("%s: -want, +got:\n%s", name, diff)
			}
			// operands are untouched
			assert.Equal(t, 4, a.Len())
			assert.Equal(t, 3, b.Len())
		})
	}
}

func TestCombineMatchesInsert(t *testing.T) {
	a := build(interval.To(ints, 3), interval.Closed(ints, 8, 9))
	b := build(interval.Closed(ints, 4, 7), interval.Closed(ints, 12, 20))

	u := a.Clone()
	u.Union(b)
	assert.True(t, u.Equal(build(interval.To(ints, 9), interval.Closed(ints, 12, 20))))

	i := a.Clone()
	for iv := range b.All() {
		i.Insert(iv)
	}
	assert.True(t, u.Equal(i))
}

func TestComplement(t *testing.T) {
	tr := build(interval.To(ints, 3), interval.Closed(ints, 8, 9))
	tr.Complement()
	assert.NoError(t, tr.Validate())
	expected := []interval.Interval[int32]{
		interval.Closed(ints, 4, 7),
		interval.From(ints, 10),
	}
	if diff := cmp.Diff(expected, tr.Intervals()); diff != "" {
		t.Errorf("-want, +got:\n%s", diff)
	}

	tr.Complement()
	assert.True(t, tr.Equal(build(interval.To(ints, 3), interval.Closed(ints, 8, 9))))

	empty := New[int32](ints)
	empty.Complement()
	assert.True(t, empty.IsFull())
}

func TestContains(t *testing.T) {
	tr := build(interval.To(ints, -10), interval.Closed(ints, 0, 4), interval.From(ints, 100))
	cases := map[int32]bool{
		math.MinInt32: true,
		-10:           true,
		-9:            false,
		0:             true,
		4:             true,
		5:             false,
		99:            false,
		100:           true,
		math.MaxInt32: true,
	}
	for p, expected := range cases {
		if got := tr.Contains(p); got != expected {
			t.Errorf("contains %d: -want %t, +got: %t\n", p, expected, got)
		}
	}
}

func TestBackward(t *testing.T) {
	tr := build(interval.To(ints, -10), interval.Closed(ints, 0, 4), interval.From(ints, 100))
	var got []interval.Interval[int32]
	for iv := range tr.Backward() {
		got = append(got, iv)
	}
	expected := []interval.Interval[int32]{
		interval.From(ints, 100),
		interval.Closed(ints, 0, 4),
		interval.To(ints, -10),
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("-want, +got:\n%s", diff)
	}

	// stopping early yields one interval
	n := 0
	for range tr.All() {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestClone(t *testing.T) {
	tr := build(interval.Closed(ints, 0, 4))
	c := tr.Clone()
	c.Insert(interval.Closed(ints, 10, 14))
	assert.Equal(t, 1, tr.Count())
	assert.Equal(t, 2, c.Count())
	assert.False(t, tr.Equal(c))
}

func TestNoDomain(t *testing.T) {
	tr := New[int32](nil)
	tr.Complement()
	tr.Remove(interval.Closed(ints, 1, 5))
	assert.NoError(t, tr.Validate())
	assert.False(t, tr.Contains(3))
	assert.True(t, tr.Contains(6))
	assert.Equal(t, 2, tr.Count())

	tr = New[int32](nil)
	tr.Insert(interval.Closed(ints, 1, 2))
	assert.True(t, tr.Equal(build(interval.Closed(ints, 1, 2))))
}
