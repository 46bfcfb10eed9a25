package claimtable

import (
	"fmt"

	"github.com/henderiw/idxinterval/pkg/interval"
	"github.com/henderiw/idxinterval/pkg/scalar"
	"k8s.io/apimachinery/pkg/labels"
)

// Claim is a run of points owned by one claimant, identified by its labels.
type Claim[T any] struct {
	Interval interval.Interval[T]
	Labels   labels.Set
}

type Claims[T any] []Claim[T]

func NewClaim[T any](iv interval.Interval[T], l labels.Set) Claim[T] {
	return Claim[T]{Interval: iv, Labels: l}
}

func (r Claim[T]) String() string {
	return fmt.Sprintf("%s %s", r.Interval.String(), r.Labels.String())
}

// lowerLess orders intervals by their lower bound, unbounded first.
func lowerLess[T any](d scalar.Ordered[T], a, b interval.Interval[T]) bool {
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
