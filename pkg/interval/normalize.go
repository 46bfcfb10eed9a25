package interval

import (
	"github.com/henderiw/idxinterval/pkg/bound"
	"github.com/henderiw/idxinterval/pkg/scalar"
)

// Normalize converts r to its canonical form over d:
//   - an open bound is closed onto its neighbour: (v becomes [Next(v) and
//     v) becomes Prev(v)]. If the neighbour does not exist the interval is
//     empty.
//   - crossed closed bounds give the empty interval.
//   - a closed bound at the minimum (lower) or maximum (upper) of d covers
//     the whole side and becomes unbounded, so [MIN,MAX] is the full interval.
//
// Normalize is idempotent.
func Normalize[T any](d scalar.Discrete[T], r Raw[T]) Interval[T] {
	lower, ok := closeLower(d, r.Lower)
	if !ok {
		return Empty(d)
	}
	upper, ok := closeUpper(d, r.Upper)
	if !ok {
		return Empty(d)
	}
	l, lok := lower.Value()
	u, uok := upper.Value()
	if lok && uok && d.Compare(l, u) > 0 {
		return Empty(d)
	}
	return Interval[T]{d: d, valid: true, lower: lower, upper: upper}
}

// NormalizeFrom normalizes r when o is a discrete domain. For any other domain
// it returns scalar.ErrNotDiscrete: the interval can only be used raw.
func NormalizeFrom[T any](o scalar.Ordered[T], r Raw[T]) (Interval[T], error) {
	d, err := scalar.AsDiscrete(o)
	if err != nil {
		return Interval[T]{}, err
	}
	return Normalize(d, r), nil
}

func closeLower[T any](d scalar.Discrete[T], b bound.Bound[T]) (bound.Bound[T], bool) {
	v, ok := b.Value()
	if !ok {
		return b, true
	}
	if b.IsOpen() {
		if v, ok = d.Next(v); !ok {
			return b, false
		}
	}
	if scalar.IsMin(d, v) {
		return bound.Unbounded[T](), true
	}
	return bound.Closed(v), true
}

func closeUpper[T any](d scalar.Discrete[T], b bound.Bound[T]) (bound.Bound[T], bool) {
	v, ok := b.Value()
	if !ok {
		return b, true
	}
	if b.IsOpen() {
		if v, ok = d.Prev(v); !ok {
			return b, false
		}
	}
	if scalar.IsMax(d, v) {
		return bound.Unbounded[T](), true
	}
	return bound.Closed(v), true
}
