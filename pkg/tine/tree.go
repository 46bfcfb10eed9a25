package tine

import (
	"iter"
	"sync"

	"github.com/google/btree"
	"github.com/henderiw/idxinterval/pkg/bound"
	"github.com/henderiw/idxinterval/pkg/interval"
	"github.com/henderiw/idxinterval/pkg/scalar"
	"github.com/pkg/errors"
)

// degree of the btree nodes holding the tines.
const degree = 32

// Tree holds a set of disjoint intervals as an ordered sequence of tines.
//
// A covered run starts at an Enter tine and stops right before the next Exit
// tine. The head flag tells whether the points before the first tine are
// covered, which is how a run reaching down to -inf is stored. A trailing
// Enter without an Exit is a run up to +inf.
//
// Tines are kept canonical: positions strictly increase, kinds alternate
// starting with Enter (Exit when head is set), and no tine sits at the
// minimum of the domain. Two trees holding the same points therefore hold the
// same tines.
//
// A Tree is not safe for concurrent mutation. Clone may be called while other
// goroutines read the tree.
type Tree[T any] struct {
	m     sync.Mutex
	d     scalar.Discrete[T]
	head  bool
	tines *btree.BTreeG[Tine[T]]
}

// edge is a position in the domain extended with -inf and +inf.
type edge[T any] struct {
	pos T
	inf bool
}

func New[T any](d scalar.Discrete[T]) *Tree[T] {
	return &Tree[T]{d: d, tines: newTines(d)}
}

func newTines[T any](d scalar.Discrete[T]) *btree.BTreeG[Tine[T]] {
	return btree.NewG(degree, func(a, b Tine[T]) bool {
		return d.Compare(a.Pos, b.Pos) < 0
	})
}

// Domain returns the domain of the positions.
func (r *Tree[T]) Domain() scalar.Discrete[T] { return r.d }

// Clone returns a copy of the tree. Nodes are shared until either tree is
// changed.
func (r *Tree[T]) Clone() *Tree[T] {
	r.m.Lock()
	defer r.m.Unlock()
	return &Tree[T]{d: r.d, head: r.head, tines: r.tines.Clone()}
}

// Len returns the number of tines.
func (r *Tree[T]) Len() int { return r.tines.Len() }

// Count returns the number of disjoint intervals.
func (r *Tree[T]) Count() int {
	n := r.tines.Len()
	if r.head {
		return n/2 + 1
	}
	return (n + 1) / 2
}

func (r *Tree[T]) IsEmpty() bool { return !r.head && r.tines.Len() == 0 }

func (r *Tree[T]) IsFull() bool { return r.head && r.tines.Len() == 0 }

// Tines returns the tines in ascending order.
func (r *Tree[T]) Tines() []Tine[T] {
	out := make([]Tine[T], 0, r.tines.Len())
	r.tines.Ascend(func(t Tine[T]) bool {
		out = append(out, t)
		return true
	})
	return out
}

// Insert adds the points of iv. Runs that overlap or touch iv are merged with
// it.
func (r *Tree[T]) Insert(iv interval.Interval[T]) {
	r.adopt(iv.Domain())
	if a, b, ok := r.edges(iv); ok {
		r.paint(a, b, true)
	}
}

// Remove drops the points of iv, clipping or splitting the runs it crosses.
func (r *Tree[T]) Remove(iv interval.Interval[T]) {
	r.adopt(iv.Domain())
	if a, b, ok := r.edges(iv); ok {
		r.paint(a, b, false)
	}
}

// adopt sets the domain of a tree created without one. Such a tree holds no
// tines, so only the ordering of the btree has to be rebuilt.
func (r *Tree[T]) adopt(d scalar.Discrete[T]) {
	if r.d != nil || d == nil {
		return
	}
	r.d, r.tines = d, newTines(d)
}

// edges returns iv as the half open range [a,b).
func (r *Tree[T]) edges(iv interval.Interval[T]) (edge[T], edge[T], bool) {
	var a, b edge[T]
	if iv.IsEmpty() {
		return a, b, false
	}
	lower, _ := iv.Lower()
	upper, _ := iv.Upper()
	if l, ok := lower.Value(); ok {
		a.pos = l
	} else {
		a.inf = true
	}
	b.inf = true
	if u, ok := upper.Value(); ok {
		if n, ok := r.d.Next(u); ok {
			b = edge[T]{pos: n}
		}
	}
	return a, b, true
}

// paint sets the coverage of [a,b) and restores the coverage at b.
func (r *Tree[T]) paint(a, b edge[T], covered bool) {
	before := r.head
	if !a.inf {
		before = r.coveredBefore(a.pos)
	}
	after := covered
	if !b.inf {
		after = r.Contains(b.pos)
	}

	var drop []Tine[T]
	collect := func(t Tine[T]) bool {
		if !b.inf && r.d.Compare(t.Pos, b.pos) > 0 {
			return false
		}
		drop = append(drop, t)
		return true
	}
	if a.inf {
		r.tines.Ascend(collect)
	} else {
		r.tines.AscendGreaterOrEqual(Tine[T]{Pos: a.pos}, collect)
	}
	for _, t := range drop {
		r.tines.Delete(t)
	}

	if a.inf {
		r.head = covered
	} else if before != covered {
		r.tines.ReplaceOrInsert(Tine[T]{Pos: a.pos, Kind: transitionTo(covered)})
	}
	if !b.inf && after != covered {
		r.tines.ReplaceOrInsert(Tine[T]{Pos: b.pos, Kind: transitionTo(after)})
	}
}

// Contains reports whether p is covered.
func (r *Tree[T]) Contains(p T) bool {
	covered := r.head
	r.tines.DescendLessOrEqual(Tine[T]{Pos: p}, func(t Tine[T]) bool {
		covered = t.Kind == Enter
		return false
	})
	return covered
}

// coveredBefore reports whether the point right before p is covered.
func (r *Tree[T]) coveredBefore(p T) bool {
	covered := r.head
	r.tines.DescendLessOrEqual(Tine[T]{Pos: p}, func(t Tine[T]) bool {
		if r.d.Compare(t.Pos, p) == 0 {
			return true
		}
		covered = t.Kind == Enter
		return false
	})
	return covered
}

// Union adds the points of o.
func (r *Tree[T]) Union(o *Tree[T]) {
	r.combine(o, func(a, b bool) bool { return a || b })
}

// Intersect keeps the points that are also in o.
func (r *Tree[T]) Intersect(o *Tree[T]) {
	r.combine(o, func(a, b bool) bool { return a && b })
}

// Subtract drops the points of o.
func (r *Tree[T]) Subtract(o *Tree[T]) {
	r.combine(o, func(a, b bool) bool { return a && !b })
}

// SymmetricDifference keeps the points that are in exactly one of r and o.
func (r *Tree[T]) SymmetricDifference(o *Tree[T]) {
	r.combine(o, func(a, b bool) bool { return a != b })
}

// combine walks the tines of both trees once and keeps the points for which
// op holds. The walk is linear in the number of tines; each emitted tine
// costs a btree insert, so the whole is O(n log n).
func (r *Tree[T]) combine(o *Tree[T], op func(a, b bool) bool) {
	d := r.d
	if d == nil {
		d = o.d
	}
	at, bt := r.Tines(), o.Tines()
	ca, cb := r.head, o.head
	head := op(ca, cb)
	out := newTines(d)

	cur := head
	i, j := 0, 0
	for i < len(at) || j < len(bt) {
		var p T
		if i < len(at) && (j == len(bt) || d.Compare(at[i].Pos, bt[j].Pos) <= 0) {
			p = at[i].Pos
		} else {
			p = bt[j].Pos
		}
		if i < len(at) && d.Compare(at[i].Pos, p) == 0 {
			ca = at[i].Kind == Enter
			i++
		}
		if j < len(bt) && d.Compare(bt[j].Pos, p) == 0 {
			cb = bt[j].Kind == Enter
			j++
		}
		if v := op(ca, cb); v != cur {
			cur = v
			out.ReplaceOrInsert(Tine[T]{Pos: p, Kind: transitionTo(v)})
		}
	}
	r.d, r.head, r.tines = d, head, out
}

// Complement flips the coverage of every point.
func (r *Tree[T]) Complement() {
	out := newTines(r.d)
	r.tines.Ascend(func(t Tine[T]) bool {
		out.ReplaceOrInsert(Tine[T]{Pos: t.Pos, Kind: t.Kind.flip()})
		return true
	})
	r.head, r.tines = !r.head, out
}

// Equal reports whether r and o hold the same tines.
func (r *Tree[T]) Equal(o *Tree[T]) bool {
	if r.head != o.head || r.tines.Len() != o.tines.Len() {
		return false
	}
	bt := o.Tines()
	i, equal := 0, true
	r.tines.Ascend(func(t Tine[T]) bool {
		equal = t.Kind == bt[i].Kind && r.d.Compare(t.Pos, bt[i].Pos) == 0
		i++
		return equal
	})
	return equal
}

// All returns the intervals of the tree in ascending order.
func (r *Tree[T]) All() iter.Seq[interval.Interval[T]] {
	return func(yield func(interval.Interval[T]) bool) {
		lower := bound.Unbounded[T]()
		open, more := r.head, true
		r.tines.Ascend(func(t Tine[T]) bool {
			if t.Kind == Enter {
				lower, open = bound.Closed(t.Pos), true
				return true
			}
			open = false
			last, _ := r.d.Prev(t.Pos)
			more = yield(interval.New(r.d, lower, bound.Closed(last)))
			return more
		})
		if more && open {
			yield(interval.New(r.d, lower, bound.Unbounded[T]()))
		}
	}
}

// Backward returns the intervals of the tree in descending order.
func (r *Tree[T]) Backward() iter.Seq[interval.Interval[T]] {
	return func(yield func(interval.Interval[T]) bool) {
		upper, more := bound.Unbounded[T](), true
		r.tines.Descend(func(t Tine[T]) bool {
			if t.Kind == Exit {
				last, _ := r.d.Prev(t.Pos)
				upper = bound.Closed(last)
				return true
			}
			more = yield(interval.New(r.d, bound.Closed(t.Pos), upper))
			return more
		})
		if more && r.head {
			yield(interval.New(r.d, bound.Unbounded[T](), upper))
		}
	}
}

// Intervals returns the intervals of the tree in ascending order.
func (r *Tree[T]) Intervals() []interval.Interval[T] {
	out := make([]interval.Interval[T], 0, r.Count())
	for iv := range r.All() {
		out = append(out, iv)
	}
	return out
}

// Validate checks that the tines are canonical.
func (r *Tree[T]) Validate() error {
	want := Enter
	if r.head {
		want = Exit
	}
	var prev *Tine[T]
	var err error
	r.tines.Ascend(func(t Tine[T]) bool {
		switch {
		case t.Kind != want:
			err = errors.Errorf("tine %s: expected %s", t, want)
		case prev != nil && r.d.Compare(prev.Pos, t.Pos) >= 0:
			err = errors.Errorf("tine %s: not after %s", t, prev)
		case scalar.IsMin(r.d, t.Pos):
			err = errors.Errorf("tine %s: at the domain minimum", t)
		}
		if err != nil {
			return false
		}
		prev = &t
		want = want.flip()
		return true
	})
	return err
}
