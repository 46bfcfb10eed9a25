package vlantable

import (
	"fmt"
	"math"

	"github.com/go-logr/logr"
	"github.com/henderiw/idxinterval/pkg/claimtable"
	"github.com/henderiw/idxinterval/pkg/interval"
	"github.com/henderiw/idxinterval/pkg/scalar"
	"k8s.io/apimachinery/pkg/labels"
)

type VLANTable interface {
	Get(id uint16) (labels.Set, error)
	Claim(id uint16, d labels.Set) error
	ClaimDynamic(d labels.Set) (uint16, error)
	ClaimRange(start, size uint16, d labels.Set) error
	ClaimSize(size uint16, d labels.Set) (uint16, error)
	Release(id uint16) error
	ReleaseRange(start, size uint16) error
	Update(id uint16, d labels.Set) error

	Count() int
	Has(id uint16) bool

	IsFree(id uint16) bool
	FindFree() (uint16, error)

	GetAll() map[uint16]labels.Set
	GetByLabel(selector labels.Selector) map[uint16]labels.Set
}

const maxVLAN = 4095

var vlans = scalar.Integer[uint16]()

var initEntries = map[uint16]labels.Set{
	0:       map[string]string{"type": "untagged", "status": "reserved"},
	1:       map[string]string{"type": "untagged", "status": "reserved"},
	maxVLAN: map[string]string{"type": "untagged", "status": "reserved"},
}

func validate(iv interval.Interval[uint16]) error {
	switch {
	case iv.Contains(0):
		return fmt.Errorf("VLAN %d is the untagged VLAN, cannot be added to the database", 0)
	case iv.Contains(1):
		return fmt.Errorf("VLAN %d is the default VLAN, cannot be added to the database", 1)
	case iv.Contains(maxVLAN):
		return fmt.Errorf("VLAN %d is reserved, cannot be added to the database", maxVLAN)
	}
	return nil
}

func New(log logr.Logger) (VLANTable, error) {
	reserved := make(claimtable.Claims[uint16], 0, len(initEntries))
	for id, d := range initEntries {
		reserved = append(reserved, claimtable.NewClaim(interval.Point(vlans, id), d))
	}
	t, err := claimtable.New("vlan",
		interval.Closed(vlans, 0, maxVLAN),
		claimtable.WithLogger[uint16](log),
		claimtable.WithValidation(validate),
		claimtable.WithReserved(reserved...),
	)
	if err != nil {
		return nil, err
	}
	return &vlanTable{table: t}, nil
}

type vlanTable struct {
	table claimtable.Table[uint16]
}

func (r *vlanTable) Get(id uint16) (labels.Set, error) {
	c, err := r.table.Get(id)
	if err != nil {
		return nil, err
	}
	return c.Labels, nil
}

func (r *vlanTable) Claim(id uint16, d labels.Set) error {
	return r.table.Claim(interval.Point(vlans, id), d)
}

func (r *vlanTable) ClaimDynamic(d labels.Set) (uint16, error) {
	return r.table.ClaimFree(d)
}

func (r *vlanTable) ClaimRange(start, size uint16, d labels.Set) error {
	iv, err := rangeOf(start, size)
	if err != nil {
		return err
	}
	return r.table.Claim(iv, d)
}

// ClaimSize claims the first free run of size VLANs and returns its first id.
func (r *vlanTable) ClaimSize(size uint16, d labels.Set) (uint16, error) {
	iv, err := r.table.ClaimSize(uint64(size), d)
	if err != nil {
		return 0, err
	}
	id, _ := iv.Infimum()
	return id, nil
}

func (r *vlanTable) Release(id uint16) error {
	return r.table.Release(interval.Point(vlans, id))
}

func (r *vlanTable) ReleaseRange(start, size uint16) error {
	iv, err := rangeOf(start, size)
	if err != nil {
		return err
	}
	return r.table.Release(iv)
}

// Update replaces the labels of a VLAN claimed on its own.
func (r *vlanTable) Update(id uint16, d labels.Set) error {
	return r.table.Update(interval.Point(vlans, id), d)
}

// Count returns the number of claimed VLANs.
func (r *vlanTable) Count() int {
	n := 0
	for iv := range r.table.Claimed().All() {
		first, _ := iv.Infimum()
		last, _ := iv.Supremum()
		n += int(last-first) + 1
	}
	return n
}

func (r *vlanTable) Has(id uint16) bool {
	return r.table.Has(id)
}

func (r *vlanTable) IsFree(id uint16) bool {
	return r.table.IsFree(id)
}

func (r *vlanTable) FindFree() (uint16, error) {
	return r.table.FindFree()
}

func (r *vlanTable) GetAll() map[uint16]labels.Set {
	return expand(r.table.GetAll())
}

func (r *vlanTable) GetByLabel(selector labels.Selector) map[uint16]labels.Set {
	return expand(r.table.GetByLabel(selector))
}

func rangeOf(start, size uint16) (interval.Interval[uint16], error) {
	if size == 0 || int(start)+int(size)-1 > math.MaxUint16 {
		return interval.Empty(vlans), fmt.Errorf("invalid range start %d, size %d", start, size)
	}
	return interval.Closed(vlans, start, start+size-1), nil
}

// expand returns an entry per VLAN of the claims.
func expand(claims claimtable.Claims[uint16]) map[uint16]labels.Set {
	entries := map[uint16]labels.Set{}
	for _, c := range claims {
		first, _ := c.Interval.Infimum()
		last, _ := c.Interval.Supremum()
		for id := int(first); id <= int(last); id++ {
			entries[uint16(id)] = c.Labels
		}
	}
	return entries
}
