package iptable

import (
	"fmt"
	"net/netip"

	"github.com/go-logr/logr"
	"github.com/hansthienpondt/nipam/pkg/table"
	"github.com/henderiw/idxinterval/pkg/claimtable"
	"github.com/henderiw/idxinterval/pkg/interval"
	"github.com/henderiw/idxinterval/pkg/ipselection"
	"github.com/henderiw/idxinterval/pkg/scalar"
	"github.com/henderiw/idxinterval/pkg/selection"
	"go4.org/netipx"
	"k8s.io/apimachinery/pkg/labels"
)

type IPTable interface {
	Get(addr string) (table.Route, error)
	Claim(addr string, d table.Route) error
	ClaimRange(rng string, d labels.Set) error
	ClaimFree(d labels.Set) (netip.Addr, error)
	Release(addr string) error
	ReleaseRange(rng string) error
	Update(addr string, d table.Route) error

	Count() int
	Has(addr string) bool

	IsFree(addr string) bool
	FindFree() (netip.Addr, error)
	Free() []netipx.IPRange

	GetAll() table.Routes
	GetByLabel(selector labels.Selector) table.Routes
}

func New(from, to netip.Addr, log logr.Logger) (IPTable, error) {
	ipRange := netipx.IPRangeFrom(from, to)
	if !ipRange.IsValid() {
		return nil, fmt.Errorf("invalid ip range from %s to %s", from, to)
	}
	d := scalar.AddrFamily(from)
	t, err := claimtable.New(ipRange.String(),
		interval.Closed[netip.Addr](d, from, to),
		claimtable.WithLogger[netip.Addr](log),
	)
	if err != nil {
		return nil, err
	}
	return &ipTable{
		table:   t,
		d:       d,
		ipRange: ipRange,
	}, nil
}

type ipTable struct {
	table   claimtable.Table[netip.Addr]
	d       scalar.AddrDomain
	ipRange netipx.IPRange
}

func (r *ipTable) Get(addr string) (table.Route, error) {
	// Validate IP address
	claimIP, err := r.validateIP(addr)
	if err != nil {
		return table.Route{}, err
	}
	c, err := r.table.Get(claimIP)
	if err != nil {
		return table.Route{}, err
	}
	return table.NewRoute(netip.PrefixFrom(claimIP, claimIP.BitLen()), c.Labels, nil), nil
}

func (r *ipTable) Claim(addr string, d table.Route) error {
	// Validate IP address
	claimIP, err := r.validateIP(addr)
	if err != nil {
		return err
	}
	return r.table.Claim(interval.Point[netip.Addr](r.d, claimIP), d.Labels())
}

// ClaimRange claims every address of rng, given as "from-to" or as a prefix.
func (r *ipTable) ClaimRange(rng string, d labels.Set) error {
	iv, err := r.parseRange(rng)
	if err != nil {
		return err
	}
	return r.table.Claim(iv, d)
}

func (r *ipTable) ClaimFree(d labels.Set) (netip.Addr, error) {
	return r.table.ClaimFree(d)
}

func (r *ipTable) Release(addr string) error {
	// Validate IP address
	claimIP, err := r.validateIP(addr)
	if err != nil {
		return err
	}
	return r.table.Release(interval.Point[netip.Addr](r.d, claimIP))
}

func (r *ipTable) ReleaseRange(rng string) error {
	iv, err := r.parseRange(rng)
	if err != nil {
		return err
	}
	return r.table.Release(iv)
}

func (r *ipTable) Update(addr string, d table.Route) error {
	// Validate IP address
	claimIP, err := r.validateIP(addr)
	if err != nil {
		return err
	}
	return r.table.Update(interval.Point[netip.Addr](r.d, claimIP), d.Labels())
}

// Count returns the number of claims.
func (r *ipTable) Count() int {
	return r.table.Count()
}

func (r *ipTable) Has(addr string) bool {
	// Validate IP address
	claimIP, err := r.validateIP(addr)
	if err != nil {
		return false
	}
	return r.table.Has(claimIP)
}

func (r *ipTable) IsFree(addr string) bool {
	// Validate IP address
	claimIP, err := r.validateIP(addr)
	if err != nil {
		return false
	}
	return r.table.IsFree(claimIP)
}

func (r *ipTable) FindFree() (netip.Addr, error) {
	return r.table.FindFree()
}

// Free returns the unclaimed addresses as ranges.
func (r *ipTable) Free() []netipx.IPRange {
	return ipselection.Ranges(r.table.Free())
}

// GetAll returns the claims as routes, one per prefix of each claim.
func (r *ipTable) GetAll() table.Routes {
	return routes(r.table.GetAll())
}

func (r *ipTable) GetByLabel(selector labels.Selector) table.Routes {
	return routes(r.table.GetByLabel(selector))
}

func routes(claims claimtable.Claims[netip.Addr]) table.Routes {
	var rr table.Routes
	for _, c := range claims {
		rr = append(rr, ipselection.Routes(selection.From(c.Interval), c.Labels)...)
	}
	return rr
}

func (r *ipTable) validateIP(addr string) (netip.Addr, error) {
	// Parse IP address
	claimIP, err := netip.ParseAddr(addr)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("ip address %s is invalid", addr)
	}
	if !r.ipRange.Contains(claimIP) {
		return netip.Addr{}, fmt.Errorf("ip address %s, does not fit in the range from %s to %s: %w", addr, r.ipRange.From().String(), r.ipRange.To().String(), claimtable.ErrOutOfPool)
	}
	return claimIP, nil
}

func (r *ipTable) parseRange(rng string) (interval.Interval[netip.Addr], error) {
	ipRange, err := netipx.ParseIPRange(rng)
	if err != nil {
		p, perr := netip.ParsePrefix(rng)
		if perr != nil {
			return interval.Interval[netip.Addr]{}, fmt.Errorf("ip range %s is invalid", rng)
		}
		ipRange = netipx.RangeOfPrefix(p.Masked())
	}
	if !r.d.Contains(ipRange.From()) {
		return interval.Interval[netip.Addr]{}, fmt.Errorf("ip range %s is not in the address family of %s", rng, r.ipRange)
	}
	return interval.Closed[netip.Addr](r.d, ipRange.From(), ipRange.To()), nil
}
