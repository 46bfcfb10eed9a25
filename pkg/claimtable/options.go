package claimtable

import (
	"github.com/go-logr/logr"
	"github.com/henderiw/idxinterval/pkg/interval"
)

// ValidationFn rejects claims the table must not hand out. It is not applied
// to reserved claims.
type ValidationFn[T any] func(iv interval.Interval[T]) error

type Option[T any] func(*table[T])

func WithLogger[T any](l logr.Logger) Option[T] {
	return func(r *table[T]) {
		r.log = l
	}
}

func WithValidation[T any](fn ValidationFn[T]) Option[T] {
	return func(r *table[T]) {
		r.validateFn = fn
	}
}

// WithReserved claims the given entries when the table is created.
func WithReserved[T any](claims ...Claim[T]) Option[T] {
	return func(r *table[T]) {
		r.reserved = append(r.reserved, claims...)
	}
}
