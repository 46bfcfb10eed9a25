package claimtable

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-logr/logr"
	"github.com/google/btree"
	"github.com/henderiw/idxinterval/pkg/interval"
	"github.com/henderiw/idxinterval/pkg/scalar"
	"github.com/henderiw/idxinterval/pkg/selection"
	"k8s.io/apimachinery/pkg/labels"
)

var (
	ErrOutOfPool      = errors.New("outside of the pool")
	ErrAlreadyClaimed = errors.New("already claimed")
	ErrNotFound       = errors.New("not found")
	ErrExhausted      = errors.New("no free entry found")
)

type Table[T any] interface {
	Get(p T) (Claim[T], error)
	Claim(iv interval.Interval[T], l labels.Set) error
	ClaimFree(l labels.Set) (T, error)
	ClaimSize(size uint64, l labels.Set) (interval.Interval[T], error)
	Release(iv interval.Interval[T]) error
	ReleaseByLabel(selector labels.Selector) Claims[T]
	Update(iv interval.Interval[T], l labels.Set) error

	Count() int
	Has(p T) bool

	IsFree(p T) bool
	FindFree() (T, error)

	Pool() interval.Interval[T]
	Claimed() selection.Selection[T]
	Free() selection.Selection[T]

	GetAll() Claims[T]
	GetByLabel(selector labels.Selector) Claims[T]
}

// degree of the btree nodes holding the claims.
const degree = 16

// New returns a table handing out the points of pool. Reserved claims that
// cannot be added are reported together; the table is usable regardless.
func New[T any](name string, pool interval.Interval[T], opts ...Option[T]) (Table[T], error) {
	d := pool.Domain()
	r := &table[T]{
		m:       new(sync.RWMutex),
		name:    name,
		d:       d,
		pool:    pool,
		claimed: selection.Empty(d),
		claims: btree.NewG(degree, func(a, b Claim[T]) bool {
			return lowerLess[T](d, a.Interval, b.Interval)
		}),
		log: logr.Discard(),
	}
	for _, o := range opts {
		o(r)
	}

	var errm error
	for _, c := range r.reserved {
		if err := r.add(c.Interval, c.Labels, true); err != nil {
			errm = errors.Join(errm, err)
		}
	}
	return r, errm
}

type table[T any] struct {
	m          *sync.RWMutex
	name       string
	d          scalar.Discrete[T]
	pool       interval.Interval[T]
	claimed    selection.Selection[T]
	claims     *btree.BTreeG[Claim[T]]
	validateFn ValidationFn[T]
	reserved   Claims[T]
	log        logr.Logger
}

func (r *table[T]) validate(iv interval.Interval[T], init bool) error {
	if !r.pool.ContainsInterval(iv) {
		return fmt.Errorf("%s: %s does not fit in pool %s: %w", r.name, iv, r.pool, ErrOutOfPool)
	}
	if r.validateFn != nil && !init {
		if err := r.validateFn(iv); err != nil {
			return err
		}
	}
	return nil
}

func (r *table[T]) Get(p T) (Claim[T], error) {
	r.m.RLock()
	defer r.m.RUnlock()

	if !r.pool.Contains(p) {
		return Claim[T]{}, fmt.Errorf("%s: %v does not fit in pool %s: %w", r.name, p, r.pool, ErrOutOfPool)
	}
	c, ok := r.get(p)
	if !ok {
		return Claim[T]{}, fmt.Errorf("%s: no claim for %v: %w", r.name, p, ErrNotFound)
	}
	return c, nil
}

// get returns the claim holding p.
func (r *table[T]) get(p T) (Claim[T], bool) {
	var c Claim[T]
	found := false
	r.claims.DescendLessOrEqual(Claim[T]{Interval: interval.Point(r.d, p)}, func(item Claim[T]) bool {
		c, found = item, item.Interval.Contains(p)
		return false
	})
	return c, found
}

func (r *table[T]) Claim(iv interval.Interval[T], l labels.Set) error {
	r.m.Lock()
	defer r.m.Unlock()

	return r.add(iv, l, false)
}

func (r *table[T]) ClaimFree(l labels.Set) (T, error) {
	r.m.Lock()
	defer r.m.Unlock()

	p, err := r.findFree()
	if err != nil {
		return p, err
	}
	if err := r.add(interval.Point(r.d, p), l, false); err != nil {
		return p, err
	}
	return p, nil
}

// ClaimSize claims the first free run of size points.
func (r *table[T]) ClaimSize(size uint64, l labels.Set) (interval.Interval[T], error) {
	r.m.Lock()
	defer r.m.Unlock()

	iv, err := r.findFreeSize(size)
	if err != nil {
		return iv, err
	}
	// getting an error is unlikely as we have a lock
	if err := r.add(iv, l, false); err != nil {
		return iv, err
	}
	return iv, nil
}

// Release frees the points of iv. Claims partly covered by iv are clipped
// and keep their labels.
func (r *table[T]) Release(iv interval.Interval[T]) error {
	r.m.Lock()
	defer r.m.Unlock()

	return r.delete(iv)
}

// ReleaseByLabel frees every claim matching selector and returns them.
func (r *table[T]) ReleaseByLabel(selector labels.Selector) Claims[T] {
	r.m.Lock()
	defer r.m.Unlock()

	released := r.getByLabel(selector)
	for _, c := range released {
		r.claims.Delete(c)
		r.claimed = r.claimed.RemoveInterval(c.Interval)
		r.log.V(1).Info("released", "table", r.name, "interval", c.Interval.String(), "labels", c.Labels.String())
	}
	return released
}

// Update replaces the labels of the claim that holds exactly iv.
func (r *table[T]) Update(iv interval.Interval[T], l labels.Set) error {
	r.m.Lock()
	defer r.m.Unlock()

	return r.update(iv, l)
}

func (r *table[T]) Count() int {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.claims.Len()
}

func (r *table[T]) Has(p T) bool {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.claimed.Contains(p)
}

func (r *table[T]) IsFree(p T) bool {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.pool.Contains(p) && !r.claimed.Contains(p)
}

func (r *table[T]) FindFree() (T, error) {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.findFree()
}

// findFree returns the lowest free point.
func (r *table[T]) findFree() (T, error) {
	p, ok := r.free().Infimum()
	if !ok {
		return p, fmt.Errorf("%s: %w", r.name, ErrExhausted)
	}
	return p, nil
}

func (r *table[T]) findFreeSize(size uint64) (interval.Interval[T], error) {
	if size == 0 {
		return interval.Empty(r.d), fmt.Errorf("%s: size must be at least 1", r.name)
	}
	for iv := range r.free().All() {
		if fit, ok := r.fit(iv, size); ok {
			return fit, nil
		}
	}
	return interval.Empty(r.d), fmt.Errorf("%s: could not find free entries that fit in size %d: %w", r.name, size, ErrExhausted)
}

// fit returns the first size points of iv.
func (r *table[T]) fit(iv interval.Interval[T], size uint64) (interval.Interval[T], bool) {
	first, ok := iv.Infimum()
	if !ok {
		return iv, false
	}
	last := first
	for i := uint64(1); i < size; i++ {
		n, ok := r.d.Next(last)
		if !ok || !iv.Contains(n) {
			return iv, false
		}
		last = n
	}
	return interval.Closed(r.d, first, last), true
}

func (r *table[T]) Pool() interval.Interval[T] { return r.pool }

func (r *table[T]) Claimed() selection.Selection[T] {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.claimed
}

func (r *table[T]) Free() selection.Selection[T] {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.free()
}

func (r *table[T]) free() selection.Selection[T] {
	return selection.From(r.pool).Subtract(r.claimed)
}

func (r *table[T]) GetAll() Claims[T] {
	r.m.RLock()
	defer r.m.RUnlock()

	claims := make(Claims[T], 0, r.claims.Len())
	r.claims.Ascend(func(c Claim[T]) bool {
		claims = append(claims, c)
		return true
	})
	return claims
}

func (r *table[T]) GetByLabel(selector labels.Selector) Claims[T] {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.getByLabel(selector)
}

func (r *table[T]) getByLabel(selector labels.Selector) Claims[T] {
	var claims Claims[T]
	r.claims.Ascend(func(c Claim[T]) bool {
		if selector.Matches(c.Labels) {
			claims = append(claims, c)
		}
		return true
	})
	return claims
}

// overlapping returns the claims sharing points with iv, ascending.
func (r *table[T]) overlapping(iv interval.Interval[T]) Claims[T] {
	start := Claim[T]{Interval: iv}
	r.claims.DescendLessOrEqual(start, func(c Claim[T]) bool {
		start = c
		return false
	})
	var claims Claims[T]
	r.claims.AscendGreaterOrEqual(start, func(c Claim[T]) bool {
		if c.Interval.Overlaps(iv) {
			claims = append(claims, c)
			return true
		}
		return !lowerLess(r.d, iv, c.Interval)
	})
	return claims
}

func (r *table[T]) add(iv interval.Interval[T], l labels.Set, init bool) error {
	if iv.IsEmpty() {
		return nil
	}
	if err := r.validate(iv, init); err != nil {
		return err
	}
	if r.claimed.Overlaps(iv) {
		return fmt.Errorf("%s: %s: %w", r.name, iv, ErrAlreadyClaimed)
	}
	r.claims.ReplaceOrInsert(NewClaim(iv, l))
	r.claimed = r.claimed.AddInterval(iv)
	r.log.V(1).Info("claimed", "table", r.name, "interval", iv.String(), "labels", l.String())
	return nil
}

func (r *table[T]) update(iv interval.Interval[T], l labels.Set) error {
	c, ok := r.claims.Get(Claim[T]{Interval: iv})
	if !ok || !c.Interval.Equal(iv) {
		return fmt.Errorf("%s: %s: %w", r.name, iv, ErrNotFound)
	}
	r.claims.ReplaceOrInsert(NewClaim(iv, l))
	return nil
}

func (r *table[T]) delete(iv interval.Interval[T]) error {
	if iv.IsEmpty() {
		return nil
	}
	if err := r.validate(iv, false); err != nil {
		return err
	}
	claims := r.overlapping(iv)
	if len(claims) == 0 {
		return fmt.Errorf("%s: %s: %w", r.name, iv, ErrNotFound)
	}
	for _, c := range claims {
		r.claims.Delete(c)
		for _, rest := range c.Interval.Difference(iv) {
			r.claims.ReplaceOrInsert(NewClaim(rest, c.Labels))
		}
	}
	r.claimed = r.claimed.RemoveInterval(iv)
	r.log.V(1).Info("released", "table", r.name, "interval", iv.String())
	return nil
}
