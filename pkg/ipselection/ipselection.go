// Package ipselection converts address selections to and from the netipx
// range, prefix and set types and the nipam route table.
package ipselection

import (
	"net/netip"

	"github.com/hansthienpondt/nipam/pkg/table"
	"github.com/henderiw/idxinterval/pkg/interval"
	"github.com/henderiw/idxinterval/pkg/scalar"
	"github.com/henderiw/idxinterval/pkg/selection"
	"go4.org/netipx"
	"k8s.io/apimachinery/pkg/labels"
)

type Selection = selection.Selection[netip.Addr]

// FromRange returns the addresses of r. An invalid range gives an empty
// selection.
func FromRange(r netipx.IPRange) Selection {
	d := scalar.AddrFamily(r.From())
	if !r.IsValid() {
		return selection.Empty[netip.Addr](d)
	}
	return selection.From(interval.Closed[netip.Addr](d, r.From(), r.To()))
}

// FromPrefix returns the addresses of p.
func FromPrefix(p netip.Prefix) Selection {
	return FromRange(netipx.RangeOfPrefix(p.Masked()))
}

// FromIPSet returns the addresses of s that belong to the family of d.
func FromIPSet(d scalar.AddrDomain, s *netipx.IPSet) Selection {
	ivs := []interval.Interval[netip.Addr]{}
	for _, r := range s.Ranges() {
		if !d.Contains(r.From()) {
			continue
		}
		ivs = append(ivs, interval.Closed[netip.Addr](d, r.From(), r.To()))
	}
	return selection.FromIntervals[netip.Addr](d, ivs...)
}

// Ranges returns the selected addresses as ascending ranges. Unbounded sides
// resolve to the first or last address of the family.
func Ranges(sel Selection) []netipx.IPRange {
	var rr []netipx.IPRange
	for iv := range sel.All() {
		from, _ := iv.Infimum()
		to, _ := iv.Supremum()
		rr = append(rr, netipx.IPRangeFrom(from, to))
	}
	return rr
}

// IPSet returns the selected addresses as a netipx.IPSet.
func IPSet(sel Selection) (*netipx.IPSet, error) {
	var b netipx.IPSetBuilder
	for _, r := range Ranges(sel) {
		b.AddRange(r)
	}
	return b.IPSet()
}

// Prefixes returns the minimal list of prefixes covering the selection.
func Prefixes(sel Selection) []netip.Prefix {
	var pp []netip.Prefix
	for _, r := range Ranges(sel) {
		pp = r.AppendPrefixes(pp)
	}
	return pp
}

// Routes returns one route per prefix of the selection, carrying l.
func Routes(sel Selection, l labels.Set) table.Routes {
	var routes table.Routes
	for _, p := range Prefixes(sel) {
		routes = append(routes, table.NewRoute(p, l, nil))
	}
	return routes
}
