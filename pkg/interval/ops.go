package interval

import (
	"sort"

	"github.com/henderiw/idxinterval/pkg/bound"
	"github.com/henderiw/idxinterval/pkg/scalar"
)

// Intersect returns the points that lie in both r and o.
func (r Interval[T]) Intersect(o Interval[T]) Interval[T] {
	r.d = r.domain(o)
	if !r.valid || !o.valid {
		return Empty(r.d)
	}
	lower := r.lower
	if r.compareLower(o.lower, lower) > 0 {
		lower = o.lower
	}
	upper := r.upper
	if r.compareUpper(o.upper, upper) < 0 {
		upper = o.upper
	}
	if !r.lowerNotAfter(lower, upper) {
		return Empty(r.d)
	}
	return Interval[T]{d: r.d, valid: true, lower: lower, upper: upper}
}

// Enclose returns the smallest interval that holds every point of r and o.
func (r Interval[T]) Enclose(o Interval[T]) Interval[T] {
	r.d = r.domain(o)
	switch {
	case !r.valid:
		return o
	case !o.valid:
		return r
	}
	lower := r.lower
	if r.compareLower(o.lower, lower) < 0 {
		lower = o.lower
	}
	upper := r.upper
	if r.compareUpper(o.upper, upper) > 0 {
		upper = o.upper
	}
	return Interval[T]{d: r.d, valid: true, lower: lower, upper: upper}
}

// Union returns r and o merged into one interval when they overlap or are
// adjacent. Otherwise both are returned, lowest first; a Selection is needed
// to hold them as one value. The union with an empty interval is the other
// operand.
func (r Interval[T]) Union(o Interval[T]) []Interval[T] {
	r.d = r.domain(o)
	switch {
	case !r.valid:
		return []Interval[T]{o}
	case !o.valid:
		return []Interval[T]{r}
	case r.Overlaps(o) || r.IsAdjacent(o):
		return []Interval[T]{r.Enclose(o)}
	case r.compareLower(r.lower, o.lower) < 0:
		return []Interval[T]{r, o}
	}
	return []Interval[T]{o, r}
}

// Complement returns the points of the domain outside r, lowest first.
func (r Interval[T]) Complement() []Interval[T] {
	if !r.valid {
		return []Interval[T]{Full(r.d)}
	}
	var out []Interval[T]
	// a finite lower bound is never the domain minimum, so Prev succeeds
	if l, ok := r.lower.Value(); ok {
		if p, ok := r.d.Prev(l); ok {
			out = append(out, Interval[T]{d: r.d, valid: true, lower: bound.Unbounded[T](), upper: bound.Closed(p)})
		}
	}
	if u, ok := r.upper.Value(); ok {
		if n, ok := r.d.Next(u); ok {
			out = append(out, Interval[T]{d: r.d, valid: true, lower: bound.Closed(n), upper: bound.Unbounded[T]()})
		}
	}
	return out
}

// Difference returns the points of r that are not in o. Removing a part in
// the middle of r splits it in two.
func (r Interval[T]) Difference(o Interval[T]) []Interval[T] {
	r.d = r.domain(o)
	if !r.valid {
		return nil
	}
	if !o.valid {
		return []Interval[T]{r}
	}
	var out []Interval[T]
	for _, c := range o.Complement() {
		if x := r.Intersect(c); x.valid {
			out = append(out, x)
		}
	}
	return out
}

// domain returns the domain of r, or of o when r has none, as for the zero
// value.
func (r Interval[T]) domain(o Interval[T]) scalar.Discrete[T] {
	if r.d != nil {
		return r.d
	}
	return o.d
}

// EncloseAll returns the smallest interval holding all of ivs.
func EncloseAll[T any](d scalar.Discrete[T], ivs ...Interval[T]) Interval[T] {
	out := Empty(d)
	for _, iv := range ivs {
		out = out.Enclose(iv)
	}
	return out
}

// IntersectAll returns the points common to all of ivs. The intersection of
// nothing is the full interval.
func IntersectAll[T any](d scalar.Discrete[T], ivs ...Interval[T]) Interval[T] {
	out := Full(d)
	for _, iv := range ivs {
		out = out.Intersect(iv)
	}
	return out
}

// UnionAll returns the minimal, sorted set of disjoint intervals covering
// ivs. Overlapping and adjacent intervals are merged; empty ones dropped.
func UnionAll[T any](d scalar.Discrete[T], ivs ...Interval[T]) []Interval[T] {
	rr := make([]Interval[T], 0, len(ivs))
	for _, iv := range ivs {
		if iv.valid {
			rr = append(rr, iv)
		}
	}
	if len(rr) < 2 {
		return rr
	}
	cmp := Empty(d)
	sort.Slice(rr, func(i, j int) bool {
		return cmp.compareLower(rr[i].lower, rr[j].lower) < 0
	})
	out := make([]Interval[T], 1, len(rr))
	out[0] = rr[0]
	for _, r := range rr[1:] {
		prev := &out[len(out)-1]
		if prev.Overlaps(r) || prev.IsAdjacent(r) {
			// prev and r overlap or touch, merge them.
			*prev = prev.Enclose(r)
			continue
		}
		out = append(out, r)
	}
	return out
}
