package vxlantable

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/henderiw/idxinterval/pkg/claimtable"
	"github.com/henderiw/idxinterval/pkg/interval"
	"github.com/henderiw/idxinterval/pkg/scalar"
	"k8s.io/apimachinery/pkg/labels"
)

// maxVNI is the largest 24 bit VXLAN network identifier.
const maxVNI = 1<<24 - 1

type VXLANTable interface {
	Get(id uint32) (labels.Set, error)
	Claim(id uint32, d labels.Set) error
	ClaimDynamic(d labels.Set) (uint32, error)
	Release(id uint32) error
	Update(id uint32, d labels.Set) error

	Count() int
	Has(id uint32) bool

	IsFree(id uint32) bool
	FindFree() (uint32, error)

	GetAll() map[uint32]labels.Set
}

var vnis = scalar.Integer[uint32]()

// New returns a table handing out the VNIs offset to max.
func New(offset, max uint32, log logr.Logger) (VXLANTable, error) {
	if offset > max || max > maxVNI {
		return nil, fmt.Errorf("invalid vni range %d-%d, must be within 0-%d", offset, max, maxVNI)
	}
	t, err := claimtable.New("vxlan",
		interval.Closed(vnis, offset, max),
		claimtable.WithLogger[uint32](log),
	)
	if err != nil {
		return nil, err
	}
	return &vxlanTable{table: t}, nil
}

type vxlanTable struct {
	table claimtable.Table[uint32]
}

func (r *vxlanTable) Get(id uint32) (labels.Set, error) {
	c, err := r.table.Get(id)
	if err != nil {
		return nil, err
	}
	return c.Labels, nil
}

func (r *vxlanTable) Claim(id uint32, d labels.Set) error {
	return r.table.Claim(interval.Point(vnis, id), d)
}

func (r *vxlanTable) ClaimDynamic(d labels.Set) (uint32, error) {
	return r.table.ClaimFree(d)
}

func (r *vxlanTable) Release(id uint32) error {
	return r.table.Release(interval.Point(vnis, id))
}

func (r *vxlanTable) Update(id uint32, d labels.Set) error {
	return r.table.Update(interval.Point(vnis, id), d)
}

func (r *vxlanTable) Count() int {
	return r.table.Count()
}

func (r *vxlanTable) Has(id uint32) bool {
	return r.table.Has(id)
}

func (r *vxlanTable) IsFree(id uint32) bool {
	return r.table.IsFree(id)
}

func (r *vxlanTable) FindFree() (uint32, error) {
	return r.table.FindFree()
}

func (r *vxlanTable) GetAll() map[uint32]labels.Set {
	entries := map[uint32]labels.Set{}
	for _, c := range r.table.GetAll() {
		id, _ := c.Interval.Infimum()
		entries[id] = c.Labels
	}
	return entries
}
