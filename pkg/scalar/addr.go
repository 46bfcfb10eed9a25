package scalar

import (
	"net/netip"
)

// AddrDomain is the discrete domain of the addresses of one IP family.
type AddrDomain struct {
	min netip.Addr
	max netip.Addr
}

// IPv4 returns the domain 0.0.0.0 - 255.255.255.255.
func IPv4() AddrDomain {
	return AddrDomain{
		min: netip.IPv4Unspecified(),
		max: netip.AddrFrom4([4]byte{0xff, 0xff, 0xff, 0xff}),
	}
}

// IPv6 returns the domain :: - ffff:ffff:ffff:ffff:ffff:ffff:ffff:ffff.
func IPv6() AddrDomain {
	var last [16]byte
	for i := range last {
		last[i] = 0xff
	}
	return AddrDomain{
		min: netip.IPv6Unspecified(),
		max: netip.AddrFrom16(last),
	}
}

// AddrFamily returns the domain matching the family of addr.
func AddrFamily(addr netip.Addr) AddrDomain {
	if addr.Is4() {
		return IPv4()
	}
	return IPv6()
}

func (r AddrDomain) Compare(a, b netip.Addr) int { return a.Compare(b) }

func (r AddrDomain) Next(v netip.Addr) (netip.Addr, bool) {
	if v == r.max {
		return v, false
	}
	n := v.Next()
	if !n.IsValid() {
		return v, false
	}
	return n, true
}

func (r AddrDomain) Prev(v netip.Addr) (netip.Addr, bool) {
	if v == r.min {
		return v, false
	}
	p := v.Prev()
	if !p.IsValid() {
		return v, false
	}
	return p, true
}

func (r AddrDomain) Min() netip.Addr { return r.min }
func (r AddrDomain) Max() netip.Addr { return r.max }

// Contains reports whether addr belongs to the family of the domain.
func (r AddrDomain) Contains(addr netip.Addr) bool {
	return addr.IsValid() && addr.Is4() == r.min.Is4()
}
