package bound

import "fmt"

// Kind is the type of an interval boundary.
type Kind uint8

const (
	// Unbound means there is no boundary on that side.
	Unbound Kind = iota
	// Inclusive means the boundary point belongs to the interval.
	Inclusive
	// Exclusive means the boundary point does not belong to the interval.
	Exclusive
)

func (k Kind) String() string {
	switch k {
	case Unbound:
		return "unbounded"
	case Inclusive:
		return "closed"
	case Exclusive:
		return "open"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Bound is one side of an interval: a value and whether it is included, or
// no value at all.
type Bound[T any] struct {
	kind  Kind
	value T
}

// Unbounded returns a bound that does not limit the interval.
func Unbounded[T any]() Bound[T] { return Bound[T]{} }

// Closed returns a bound that includes v.
func Closed[T any](v T) Bound[T] { return Bound[T]{kind: Inclusive, value: v} }

// Open returns a bound that excludes v.
func Open[T any](v T) Bound[T] { return Bound[T]{kind: Exclusive, value: v} }

func (r Bound[T]) Kind() Kind { return r.kind }

// Value returns the boundary point; false for an unbounded side.
func (r Bound[T]) Value() (T, bool) {
	if r.kind == Unbound {
		var zero T
		return zero, false
	}
	return r.value, true
}

// IsFinite reports whether the bound has a boundary point.
func (r Bound[T]) IsFinite() bool { return r.kind != Unbound }

func (r Bound[T]) IsClosed() bool { return r.kind == Inclusive }

func (r Bound[T]) IsOpen() bool { return r.kind == Exclusive }

// WithValue keeps the kind of r and swaps the boundary point.
func (r Bound[T]) WithValue(v T) Bound[T] {
	if r.kind == Unbound {
		return r
	}
	return Bound[T]{kind: r.kind, value: v}
}

func (r Bound[T]) String() string {
	switch r.kind {
	case Inclusive:
		return fmt.Sprintf("closed(%v)", r.value)
	case Exclusive:
		return fmt.Sprintf("open(%v)", r.value)
	}
	return "unbounded"
}
