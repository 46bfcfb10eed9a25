package interval

import (
	"fmt"

	"github.com/henderiw/idxinterval/pkg/bound"
	"github.com/henderiw/idxinterval/pkg/scalar"
)

// Raw is an interval exactly as it was constructed. Its bounds may be open,
// and the lower bound may sit after the upper bound.
type Raw[T any] struct {
	Lower bound.Bound[T]
	Upper bound.Bound[T]
}

func NewRaw[T any](lower, upper bound.Bound[T]) Raw[T] {
	return Raw[T]{Lower: lower, Upper: upper}
}

// IsEmpty reports whether no point of o lies between the bounds. Gaps between
// neighbouring values are not taken into account: (1,2) over the integers is
// not reported as empty. Normalize the interval for that.
func (r Raw[T]) IsEmpty(o scalar.Ordered[T]) bool {
	l, lok := r.Lower.Value()
	u, uok := r.Upper.Value()
	if !lok || !uok {
		return false
	}
	switch c := o.Compare(l, u); {
	case c > 0:
		return true
	case c == 0:
		return r.Lower.IsOpen() || r.Upper.IsOpen()
	}
	return false
}

// Contains reports whether p lies within the bounds, honouring openness.
func (r Raw[T]) Contains(o scalar.Ordered[T], p T) bool {
	if l, ok := r.Lower.Value(); ok {
		c := o.Compare(l, p)
		if c > 0 || (c == 0 && r.Lower.IsOpen()) {
			return false
		}
	}
	if u, ok := r.Upper.Value(); ok {
		c := o.Compare(p, u)
		if c > 0 || (c == 0 && r.Upper.IsOpen()) {
			return false
		}
	}
	return true
}

// Normalize is a shorthand for Normalize(d, r).
func (r Raw[T]) Normalize(d scalar.Discrete[T]) Interval[T] {
	return Normalize(d, r)
}

func (r Raw[T]) String() string {
	return formatBounds(r.Lower, r.Upper)
}

func formatBounds[T any](lower, upper bound.Bound[T]) string {
	var l, u string
	switch v, _ := lower.Value(); lower.Kind() {
	case bound.Inclusive:
		l = fmt.Sprintf("[%v", v)
	case bound.Exclusive:
		l = fmt.Sprintf("(%v", v)
	default:
		l = "(-inf"
	}
	switch v, _ := upper.Value(); upper.Kind() {
	case bound.Inclusive:
		u = fmt.Sprintf("%v]", v)
	case bound.Exclusive:
		u = fmt.Sprintf("%v)", v)
	default:
		u = "+inf)"
	}
	return l + "," + u
}
