package claimtable

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/henderiw/idxinterval/pkg/interval"
	"github.com/henderiw/idxinterval/pkg/scalar"
	"github.com/henderiw/idxinterval/pkg/selection"
	"github.com/stretchr/testify/assert"
	"k8s.io/apimachinery/pkg/labels"
)

var ints = scalar.Integer[int64]()

func closed(l, u int64) interval.Interval[int64] { return interval.Closed(ints, l, u) }

func intervals(claims Claims[int64]) []interval.Interval[int64] {
	ivs := make([]interval.Interval[int64], 0, len(claims))
	for _, c := range claims {
		ivs = append(ivs, c.Interval)
	}
	return ivs
}

func TestNew(t *testing.T) {
	cases := map[string]struct {
		reserved      Claims[int64]
		expectedCount int
		expectedErr   error
	}{
		"Normal": {
			reserved: Claims[int64]{
				NewClaim(closed(0, 0), labels.Set{"status": "reserved"}),
				NewClaim(closed(99, 99), labels.Set{"status": "reserved"}),
			},
			expectedCount: 2,
		},
		"OutOfPool": {
			reserved: Claims[int64]{
				NewClaim(closed(0, 0), labels.Set{"status": "reserved"}),
				NewClaim(closed(100, 100), labels.Set{"status": "reserved"}),
			},
			expectedCount: 1,
			expectedErr:   ErrOutOfPool,
		},
		"Overlap": {
			reserved: Claims[int64]{
				NewClaim(closed(0, 5), labels.Set{"status": "reserved"}),
				NewClaim(closed(5, 10), labels.Set{"status": "reserved"}),
			},
			expectedCount: 1,
			expectedErr:   ErrAlreadyClaimed,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			r, err := New("test", closed(0, 99), WithReserved(tc.reserved...))
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
			} else {
				assert.NoError(t, err)
			}
			if r.Count() != tc.expectedCount {
				t.Errorf("%s: -want %d, +got: %d\n", name, tc.expectedCount, r.Count())
			}
		})
	}
}

func TestClaim(t *testing.T) {
	cases := map[string]struct {
		newSuccessEntries []interval.Interval[int64]
		newFailedEntries  []interval.Interval[int64]
		expectedEntries   int
		expectedFree      []interval.Interval[int64]
	}{
		"Normal": {
			newSuccessEntries: []interval.Interval[int64]{closed(10, 10), closed(11, 20)},
			newFailedEntries:  []interval.Interval[int64]{closed(100, 100), closed(15, 25), closed(-1, 0)},
			expectedEntries:   2,
			expectedFree:      []interval.Interval[int64]{closed(0, 9), closed(21, 99)},
		},
		"Whole": {
			newSuccessEntries: []interval.Interval[int64]{closed(0, 99)},
			newFailedEntries:  []interval.Interval[int64]{closed(50, 50)},
			expectedEntries:   1,
			expectedFree:      []interval.Interval[int64]{},
		},
		"Validation": {
			newSuccessEntries: []interval.Interval[int64]{closed(0, 41)},
			newFailedEntries:  []interval.Interval[int64]{closed(42, 42), closed(40, 50)},
			expectedEntries:   1,
			expectedFree:      []interval.Interval[int64]{closed(42, 99)},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			r, err := New("test", closed(0, 99), WithValidation(func(iv interval.Interval[int64]) error {
				if iv.Contains(42) {
					return fmt.Errorf("42 is reserved")
				}
				return nil
			}))
			assert.NoError(t, err)

			for _, iv := range tc.newSuccessEntries {
				assert.NoError(t, r.Claim(iv, labels.Set{"name": iv.String()}))
			}
			for _, iv := range tc.newFailedEntries {
				assert.Error(t, r.Claim(iv, nil))
			}
			for _, iv := range tc.newSuccessEntries {
				p, _ := iv.Infimum()
				if !r.Has(p) {
					t.Errorf("%s expecting success claim entry: %s\n", name, iv)
				}
				c, err := r.Get(p)
				assert.NoError(t, err)
				assert.True(t, c.Interval.Equal(iv))
				assert.Equal(t, iv.String(), c.Labels["name"])
			}
			if r.Count() != tc.expectedEntries {
				t.Errorf("%s: -want %d, +got: %d\n", name, tc.expectedEntries, len(r.GetAll()))
			}
			if diff := cmp.Diff(tc.expectedFree, r.Free().Intervals()); diff != "" {
				t.Errorf("%s: free -want, +got:\n%s", name, diff)
			}
			assert.True(t, r.Free().Union(r.Claimed()).Equal(selection.From(r.Pool())))
			assert.True(t, r.Free().Intersect(r.Claimed()).IsEmpty())
		})
	}
}

func TestGetErrors(t *testing.T) {
	r, err := New("test", closed(0, 99))
	assert.NoError(t, err)

	_, err = r.Get(5)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.Get(500)
	assert.ErrorIs(t, err, ErrOutOfPool)
	assert.False(t, r.IsFree(500))
	assert.True(t, r.IsFree(5))
}

func TestClaimFree(t *testing.T) {
	r, err := New("test", closed(10, 13), WithReserved(NewClaim(closed(11, 11), nil)))
	assert.NoError(t, err)

	var got []int64
	for {
		p, err := r.ClaimFree(labels.Set{"dynamic": "true"})
		if err != nil {
			assert.ErrorIs(t, err, ErrExhausted)
			break
		}
		got = append(got, p)
	}
	assert.Equal(t, []int64{10, 12, 13}, got)
	assert.True(t, r.Free().IsEmpty())

	_, err = r.FindFree()
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestClaimSize(t *testing.T) {
	r, err := New("test", closed(0, 99), WithReserved(
		NewClaim(closed(3, 3), nil),
		NewClaim(closed(8, 9), nil),
	))
	assert.NoError(t, err)

	iv, err := r.ClaimSize(4, labels.Set{"size": "4"})
	assert.NoError(t, err)
	assert.True(t, closed(4, 7).Equal(iv), "got %s", iv)

	iv, err = r.ClaimSize(3, labels.Set{"size": "3"})
	assert.NoError(t, err)
	assert.True(t, closed(0, 2).Equal(iv), "got %s", iv)

	_, err = r.ClaimSize(100, nil)
	assert.ErrorIs(t, err, ErrExhausted)

	_, err = r.ClaimSize(0, nil)
	assert.Error(t, err)
}

func TestRelease(t *testing.T) {
	r, err := New("test", closed(0, 99))
	assert.NoError(t, err)
	assert.NoError(t, r.Claim(closed(0, 10), labels.Set{"owner": "a"}))
	assert.NoError(t, r.Claim(closed(20, 30), labels.Set{"owner": "b"}))

	// clip a and split b
	assert.NoError(t, r.Release(closed(5, 25)))
	assert.NoError(t, r.Release(closed(27, 28)))

	expected := []interval.Interval[int64]{closed(0, 4), closed(26, 26), closed(29, 30)}
	if diff := cmp.Diff(expected, intervals(r.GetAll())); diff != "" {
		t.Errorf("-want, +got:\n%s", diff)
	}
	c, err := r.Get(30)
	assert.NoError(t, err)
	assert.Equal(t, "b", c.Labels["owner"])

	assert.ErrorIs(t, r.Release(closed(50, 60)), ErrNotFound)
	assert.NoError(t, r.Release(interval.Empty(ints)))
	assert.NoError(t, r.Claim(interval.Empty(ints), nil))
	assert.Equal(t, 3, r.Count())
	assert.ErrorIs(t, r.Release(closed(50, 600)), ErrOutOfPool)
}

func TestUpdate(t *testing.T) {
	r, err := New("test", closed(0, 99))
	assert.NoError(t, err)
	assert.NoError(t, r.Claim(closed(0, 10), labels.Set{"owner": "a"}))

	assert.NoError(t, r.Update(closed(0, 10), labels.Set{"owner": "c"}))
	c, err := r.Get(3)
	assert.NoError(t, err)
	assert.Equal(t, "c", c.Labels["owner"])

	assert.ErrorIs(t, r.Update(closed(0, 9), nil), ErrNotFound)
	assert.ErrorIs(t, r.Update(closed(50, 50), nil), ErrNotFound)
}

func TestByLabel(t *testing.T) {
	r, err := New("test", closed(0, 99))
	assert.NoError(t, err)
	assert.NoError(t, r.Claim(closed(0, 1), labels.Set{"owner": "a"}))
	assert.NoError(t, r.Claim(closed(5, 6), labels.Set{"owner": "b"}))
	assert.NoError(t, r.Claim(closed(10, 11), labels.Set{"owner": "a"}))

	sel := labels.SelectorFromSet(labels.Set{"owner": "a"})
	expected := []interval.Interval[int64]{closed(0, 1), closed(10, 11)}
	if diff := cmp.Diff(expected, intervals(r.GetByLabel(sel))); diff != "" {
		t.Errorf("-want, +got:\n%s", diff)
	}

	released := r.ReleaseByLabel(sel)
	assert.Equal(t, 2, len(released))
	assert.Equal(t, 1, r.Count())
	assert.True(t, r.IsFree(0))
	assert.False(t, r.IsFree(5))
}

func TestConcurrentClaims(t *testing.T) {
	r, err := New("test", closed(0, 999))
	assert.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, err := r.ClaimFree(nil)
				if err != nil && !errors.Is(err, ErrExhausted) {
					t.Error(err)
				}
				_ = r.Free()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 500, r.Count())
	assert.Equal(t, 1, r.Claimed().Count())
}
