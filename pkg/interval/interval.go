package interval

import (
	"github.com/henderiw/idxinterval/pkg/bound"
	"github.com/henderiw/idxinterval/pkg/scalar"
)

// Interval is a normalized contiguous interval over a discrete domain.
//
// An Interval is immutable. Every finite bound is closed, the lower bound is
// never after the upper bound and a side that reaches the extreme of the
// domain is unbounded. The zero value is the empty interval.
type Interval[T any] struct {
	d     scalar.Discrete[T]
	valid bool
	lower bound.Bound[T]
	upper bound.Bound[T]
}

// New returns the normalized interval between lower and upper.
func New[T any](d scalar.Discrete[T], lower, upper bound.Bound[T]) Interval[T] {
	return Normalize(d, Raw[T]{Lower: lower, Upper: upper})
}

func Empty[T any](d scalar.Discrete[T]) Interval[T] {
	return Interval[T]{d: d}
}

func Full[T any](d scalar.Discrete[T]) Interval[T] {
	return Interval[T]{d: d, valid: true}
}

func Point[T any](d scalar.Discrete[T], p T) Interval[T] {
	return New(d, bound.Closed(p), bound.Closed(p))
}

// Closed returns [l,u].
func Closed[T any](d scalar.Discrete[T], l, u T) Interval[T] {
	return New(d, bound.Closed(l), bound.Closed(u))
}

// Open returns (l,u).
func Open[T any](d scalar.Discrete[T], l, u T) Interval[T] {
	return New(d, bound.Open(l), bound.Open(u))
}

// LeftOpen returns (l,u].
func LeftOpen[T any](d scalar.Discrete[T], l, u T) Interval[T] {
	return New(d, bound.Open(l), bound.Closed(u))
}

// RightOpen returns [l,u).
func RightOpen[T any](d scalar.Discrete[T], l, u T) Interval[T] {
	return New(d, bound.Closed(l), bound.Open(u))
}

// UpTo returns (-inf,u).
func UpTo[T any](d scalar.Discrete[T], u T) Interval[T] {
	return New(d, bound.Unbounded[T](), bound.Open(u))
}

// UpFrom returns (l,+inf).
func UpFrom[T any](d scalar.Discrete[T], l T) Interval[T] {
	return New(d, bound.Open(l), bound.Unbounded[T]())
}

// To returns (-inf,u].
func To[T any](d scalar.Discrete[T], u T) Interval[T] {
	return New(d, bound.Unbounded[T](), bound.Closed(u))
}

// From returns [l,+inf).
func From[T any](d scalar.Discrete[T], l T) Interval[T] {
	return New(d, bound.Closed(l), bound.Unbounded[T]())
}

// Domain returns the domain the interval was normalized over.
func (r Interval[T]) Domain() scalar.Discrete[T] { return r.d }

func (r Interval[T]) IsEmpty() bool { return !r.valid }

func (r Interval[T]) IsFull() bool {
	return r.valid && !r.lower.IsFinite() && !r.upper.IsFinite()
}

// IsPoint reports whether the interval holds exactly one point.
func (r Interval[T]) IsPoint() bool {
	l, lok := r.lower.Value()
	u, uok := r.upper.Value()
	return r.valid && lok && uok && r.d.Compare(l, u) == 0
}

// Lower returns the lower bound; false for the empty interval.
func (r Interval[T]) Lower() (bound.Bound[T], bool) { return r.lower, r.valid }

// Upper returns the upper bound; false for the empty interval.
func (r Interval[T]) Upper() (bound.Bound[T], bool) { return r.upper, r.valid }

// Infimum returns the smallest point of the interval. An unbounded side
// resolves to the minimum of the domain when the domain is Bounded.
func (r Interval[T]) Infimum() (T, bool) {
	return r.extreme(r.lower, func(b scalar.Bounded[T]) T { return b.Min() })
}

// Supremum returns the largest point of the interval. An unbounded side
// resolves to the maximum of the domain when the domain is Bounded.
func (r Interval[T]) Supremum() (T, bool) {
	return r.extreme(r.upper, func(b scalar.Bounded[T]) T { return b.Max() })
}

func (r Interval[T]) extreme(b bound.Bound[T], limit func(scalar.Bounded[T]) T) (T, bool) {
	var zero T
	if !r.valid {
		return zero, false
	}
	if v, ok := b.Value(); ok {
		return v, true
	}
	if lb, ok := r.d.(scalar.Bounded[T]); ok {
		return limit(lb), true
	}
	return zero, false
}

// Contains reports whether p lies within the interval.
func (r Interval[T]) Contains(p T) bool {
	if !r.valid {
		return false
	}
	if l, ok := r.lower.Value(); ok && r.d.Compare(p, l) < 0 {
		return false
	}
	if u, ok := r.upper.Value(); ok && r.d.Compare(p, u) > 0 {
		return false
	}
	return true
}

// ContainsInterval reports whether every point of o lies within r.
func (r Interval[T]) ContainsInterval(o Interval[T]) bool {
	r.d = r.domain(o)
	if !o.valid {
		return true
	}
	if !r.valid {
		return false
	}
	return r.compareLower(r.lower, o.lower) <= 0 && r.compareUpper(o.upper, r.upper) <= 0
}

// Overlaps reports whether r and o share at least one point.
func (r Interval[T]) Overlaps(o Interval[T]) bool {
	r.d = r.domain(o)
	return r.valid && o.valid &&
		r.lowerNotAfter(r.lower, o.upper) &&
		r.lowerNotAfter(o.lower, r.upper)
}

// IsAdjacent reports whether r and o do not overlap but no point of the
// domain lies between them.
func (r Interval[T]) IsAdjacent(o Interval[T]) bool {
	r.d = r.domain(o)
	if !r.valid || !o.valid || r.Overlaps(o) {
		return false
	}
	return r.touches(r.upper, o.lower) || r.touches(o.upper, r.lower)
}

// Equal reports whether r and o hold the same points. All empty intervals are
// equal.
func (r Interval[T]) Equal(o Interval[T]) bool {
	r.d = r.domain(o)
	if !r.valid || !o.valid {
		return r.valid == o.valid
	}
	return r.compareLower(r.lower, o.lower) == 0 && r.compareUpper(r.upper, o.upper) == 0
}

// Raw returns the bounds of the interval. The empty interval has no bounds
// and returns false.
func (r Interval[T]) Raw() (Raw[T], bool) {
	return Raw[T]{Lower: r.lower, Upper: r.upper}, r.valid
}

func (r Interval[T]) String() string {
	if !r.valid {
		return "empty"
	}
	return formatBounds(r.lower, r.upper)
}

// touches reports whether the successor of upper is lower.
func (r Interval[T]) touches(upper, lower bound.Bound[T]) bool {
	u, uok := upper.Value()
	l, lok := lower.Value()
	if !uok || !lok {
		return false
	}
	n, ok := r.d.Next(u)
	return ok && r.d.Compare(n, l) == 0
}

// lowerNotAfter reports lower <= upper, where an unbounded lower is -inf and
// an unbounded upper is +inf.
func (r Interval[T]) lowerNotAfter(lower, upper bound.Bound[T]) bool {
	l, lok := lower.Value()
	u, uok := upper.Value()
	if !lok || !uok {
		return true
	}
	return r.d.Compare(l, u) <= 0
}

// compareLower orders two lower bounds, unbounded first.
func (r Interval[T]) compareLower(a, b bound.Bound[T]) int {
	av, aok := a.Value()
	bv, bok := b.Value()
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return -1
	case !bok:
		return 1
	}
	return r.d.Compare(av, bv)
}

// compareUpper orders two upper bounds, unbounded last.
func (r Interval[T]) compareUpper(a, b bound.Bound[T]) int {
	av, aok := a.Value()
	bv, bok := b.Value()
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return 1
	case !bok:
		return -1
	}
	return r.d.Compare(av, bv)
}
