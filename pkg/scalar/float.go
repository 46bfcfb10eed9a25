package scalar

import (
	"cmp"

	"golang.org/x/exp/constraints"
)

// FloatDomain orders floating point values. It is not Discrete: intervals
// over floats can only be used in pass-through mode.
type FloatDomain[T constraints.Float] struct{}

func Float[T constraints.Float]() FloatDomain[T] { return FloatDomain[T]{} }

func (r FloatDomain[T]) Compare(a, b T) int { return cmp.Compare(a, b) }
