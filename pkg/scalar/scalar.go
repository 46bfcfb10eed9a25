package scalar

import (
	"github.com/pkg/errors"
)

// ErrNotDiscrete is returned when a domain has no successor/predecessor and
// intervals over it can therefore not be normalized.
var ErrNotDiscrete = errors.New("domain is not discrete")

// Ordered is a total order over T.
type Ordered[T any] interface {
	// Compare returns -1 if a < b, 0 if a == b and +1 if a > b.
	Compare(a, b T) int
}

// Discrete is an ordered domain where every value has a well defined
// neighbour. Next and Prev return false at the maximum and minimum value of
// the domain; where both are defined they are inverses of each other.
type Discrete[T any] interface {
	Ordered[T]
	Next(v T) (T, bool)
	Prev(v T) (T, bool)
}

// Bounded is implemented by domains with representable extremes.
type Bounded[T any] interface {
	Min() T
	Max() T
}

// AsDiscrete checks whether o can be used to normalize intervals.
func AsDiscrete[T any](o Ordered[T]) (Discrete[T], error) {
	if o == nil {
		return nil, errors.Wrap(ErrNotDiscrete, "nil domain")
	}
	d, ok := o.(Discrete[T])
	if !ok {
		return nil, errors.Wrapf(ErrNotDiscrete, "domain %T", o)
	}
	return d, nil
}

// Less reports whether a sorts before b in o.
func Less[T any](o Ordered[T], a, b T) bool { return o.Compare(a, b) < 0 }

// Equal reports whether a and b are the same point in o.
func Equal[T any](o Ordered[T], a, b T) bool { return o.Compare(a, b) == 0 }

// IsMin reports whether v has no predecessor.
func IsMin[T any](d Discrete[T], v T) bool {
	_, ok := d.Prev(v)
	return !ok
}

// IsMax reports whether v has no successor.
func IsMax[T any](d Discrete[T], v T) bool {
	_, ok := d.Next(v)
	return !ok
}
