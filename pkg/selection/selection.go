package selection

import (
	"iter"
	"strings"

	"github.com/henderiw/idxinterval/pkg/bound"
	"github.com/henderiw/idxinterval/pkg/interval"
	"github.com/henderiw/idxinterval/pkg/scalar"
	"github.com/henderiw/idxinterval/pkg/tine"
)

// Selection is an immutable set of points of a discrete domain, held as the
// minimal sorted list of disjoint intervals. Two selections holding the same
// points are structurally equal.
//
// Every operation returns a new Selection; the receiver is never changed, so
// a Selection can be shared between goroutines.
type Selection[T any] struct {
	t *tine.Tree[T]
}

func Empty[T any](d scalar.Discrete[T]) Selection[T] {
	return Selection[T]{t: tine.New(d)}
}

func Full[T any](d scalar.Discrete[T]) Selection[T] {
	return From(interval.Full(d))
}

// From returns the selection holding the points of iv.
func From[T any](iv interval.Interval[T]) Selection[T] {
	t := tine.New(iv.Domain())
	t.Insert(iv)
	return Selection[T]{t: t}
}

// FromIntervals returns the union of ivs.
func FromIntervals[T any](d scalar.Discrete[T], ivs ...interval.Interval[T]) Selection[T] {
	t := tine.New(d)
	for _, iv := range ivs {
		t.Insert(iv)
	}
	return Selection[T]{t: t}
}

// FromDomain returns an empty selection over o. It fails with
// scalar.ErrNotDiscrete when o cannot be normalized.
func FromDomain[T any](o scalar.Ordered[T]) (Selection[T], error) {
	d, err := scalar.AsDiscrete(o)
	if err != nil {
		return Selection[T]{}, err
	}
	return Empty(d), nil
}

// Domain returns the domain of the selection.
func (r Selection[T]) Domain() scalar.Discrete[T] {
	if r.t == nil {
		return nil
	}
	return r.t.Domain()
}

func (r Selection[T]) tree() *tine.Tree[T] {
	if r.t == nil {
		return tine.New[T](nil)
	}
	return r.t
}

// with applies fn to a copy of the selection.
func (r Selection[T]) with(fn func(t *tine.Tree[T])) Selection[T] {
	t := r.tree().Clone()
	fn(t)
	return Selection[T]{t: t}
}

// Union returns the points in r or o.
func (r Selection[T]) Union(o Selection[T]) Selection[T] {
	return r.with(func(t *tine.Tree[T]) { t.Union(o.tree()) })
}

// Intersect returns the points in both r and o.
func (r Selection[T]) Intersect(o Selection[T]) Selection[T] {
	return r.with(func(t *tine.Tree[T]) { t.Intersect(o.tree()) })
}

// Subtract returns the points of r that are not in o.
func (r Selection[T]) Subtract(o Selection[T]) Selection[T] {
	return r.with(func(t *tine.Tree[T]) { t.Subtract(o.tree()) })
}

// SymmetricDifference returns the points in exactly one of r and o.
func (r Selection[T]) SymmetricDifference(o Selection[T]) Selection[T] {
	return r.with(func(t *tine.Tree[T]) { t.SymmetricDifference(o.tree()) })
}

// AddInterval returns r with the points of iv added.
func (r Selection[T]) AddInterval(iv interval.Interval[T]) Selection[T] {
	if iv.IsEmpty() {
		return r
	}
	if r.t == nil {
		return From(iv)
	}
	return r.with(func(t *tine.Tree[T]) { t.Insert(iv) })
}

// RemoveInterval returns r without the points of iv.
func (r Selection[T]) RemoveInterval(iv interval.Interval[T]) Selection[T] {
	if iv.IsEmpty() || r.IsEmpty() {
		return r
	}
	return r.with(func(t *tine.Tree[T]) { t.Remove(iv) })
}

// Complement returns the points of the domain that are not in r.
func (r Selection[T]) Complement() Selection[T] {
	return r.with(func(t *tine.Tree[T]) { t.Complement() })
}

func (r Selection[T]) Contains(p T) bool {
	return r.t != nil && r.t.Contains(p)
}

// ContainsInterval reports whether every point of iv is selected.
func (r Selection[T]) ContainsInterval(iv interval.Interval[T]) bool {
	if iv.IsEmpty() {
		return true
	}
	for s := range r.All() {
		if s.ContainsInterval(iv) {
			return true
		}
	}
	return false
}

// Overlaps reports whether any point of iv is selected.
func (r Selection[T]) Overlaps(iv interval.Interval[T]) bool {
	for s := range r.All() {
		if s.Overlaps(iv) {
			return true
		}
	}
	return false
}

// Intersects reports whether r and o share at least one point. Both
// selections are walked once, stopping at the first overlap.
func (r Selection[T]) Intersects(o Selection[T]) bool {
	d := r.Domain()
	if d == nil {
		d = o.Domain()
	}
	next, stop := iter.Pull(o.All())
	defer stop()
	b, ok := next()
	for a := range r.All() {
		for ok && !a.Overlaps(b) && startsBefore(d, b, a) {
			b, ok = next()
		}
		if !ok {
			return false
		}
		if a.Overlaps(b) {
			return true
		}
	}
	return false
}

// startsBefore reports whether a starts before b, an unbounded lower bound
// first.
func startsBefore[T any](d scalar.Ordered[T], a, b interval.Interval[T]) bool {
	al, _ := a.Lower()
	bl, _ := b.Lower()
	av, aok := al.Value()
	bv, bok := bl.Value()
	switch {
	case !bok:
		return false
	case !aok:
		return true
	}
	return d.Compare(av, bv) < 0
}

func (r Selection[T]) IsEmpty() bool { return r.t == nil || r.t.IsEmpty() }

func (r Selection[T]) IsFull() bool { return r.t != nil && r.t.IsFull() }

// Count returns the number of disjoint intervals.
func (r Selection[T]) Count() int {
	if r.t == nil {
		return 0
	}
	return r.t.Count()
}

// Lower returns the lower bound of the first interval; false when empty.
func (r Selection[T]) Lower() (bound.Bound[T], bool) {
	for iv := range r.All() {
		return iv.Lower()
	}
	return bound.Bound[T]{}, false
}

// Upper returns the upper bound of the last interval; false when empty.
func (r Selection[T]) Upper() (bound.Bound[T], bool) {
	for iv := range r.Backward() {
		return iv.Upper()
	}
	return bound.Bound[T]{}, false
}

// Infimum returns the smallest selected point, see interval.Infimum.
func (r Selection[T]) Infimum() (T, bool) {
	for iv := range r.All() {
		return iv.Infimum()
	}
	var zero T
	return zero, false
}

// Supremum returns the largest selected point, see interval.Supremum.
func (r Selection[T]) Supremum() (T, bool) {
	for iv := range r.Backward() {
		return iv.Supremum()
	}
	var zero T
	return zero, false
}

// Enclosure returns the smallest interval holding every selected point.
func (r Selection[T]) Enclosure() interval.Interval[T] {
	var first, last interval.Interval[T]
	for iv := range r.All() {
		first = iv
		break
	}
	for iv := range r.Backward() {
		last = iv
		break
	}
	if first.IsEmpty() {
		return interval.Empty(r.Domain())
	}
	return first.Enclose(last)
}

// Equal reports whether r and o hold the same points.
func (r Selection[T]) Equal(o Selection[T]) bool {
	if r.IsEmpty() || o.IsEmpty() {
		return r.IsEmpty() == o.IsEmpty()
	}
	return r.t.Equal(o.t)
}

// All returns the intervals in ascending order.
func (r Selection[T]) All() iter.Seq[interval.Interval[T]] {
	return r.tree().All()
}

// Backward returns the intervals in descending order.
func (r Selection[T]) Backward() iter.Seq[interval.Interval[T]] {
	return r.tree().Backward()
}

// Intervals returns the intervals in ascending order.
func (r Selection[T]) Intervals() []interval.Interval[T] {
	return r.tree().Intervals()
}

func (r Selection[T]) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	first := true
	for iv := range r.All() {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(iv.String())
	}
	sb.WriteString("}")
	return sb.String()
}
