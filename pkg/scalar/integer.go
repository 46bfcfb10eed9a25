package scalar

import (
	"golang.org/x/exp/constraints"
)

// IntegerDomain is the discrete domain of a Go integer type.
type IntegerDomain[T constraints.Integer] struct {
	min T
	max T
}

// Integer returns the domain of T, covering its full representable range.
func Integer[T constraints.Integer]() IntegerDomain[T] {
	// find the top bit: it is the minimum for signed types
	top := T(1)
	for top<<1 != 0 {
		top <<= 1
	}
	if top < 0 {
		return IntegerDomain[T]{min: top, max: ^top}
	}
	var zero T
	return IntegerDomain[T]{min: zero, max: ^zero}
}

func (r IntegerDomain[T]) Compare(a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Next returns v+1, or false when v is the maximum.
func (r IntegerDomain[T]) Next(v T) (T, bool) {
	if v == r.max {
		return v, false
	}
	return v + 1, true
}

// Prev returns v-1, or false when v is the minimum.
func (r IntegerDomain[T]) Prev(v T) (T, bool) {
	if v == r.min {
		return v, false
	}
	return v - 1, true
}

func (r IntegerDomain[T]) Min() T { return r.min }
func (r IntegerDomain[T]) Max() T { return r.max }
