package main

import (
	"fmt"
	"log"
	"net/netip"
	"os"

	"github.com/go-logr/stdr"
	"github.com/henderiw/idxinterval/pkg/interval"
	"github.com/henderiw/idxinterval/pkg/iptable"
	"github.com/henderiw/idxinterval/pkg/scalar"
	"github.com/henderiw/idxinterval/pkg/selection"
	"github.com/henderiw/idxinterval/pkg/vlantable"
	"k8s.io/apimachinery/pkg/labels"
	lselection "k8s.io/apimachinery/pkg/selection"
)

var values = []struct {
	id     uint16
	labels map[string]string
}{
	{id: 100, labels: map[string]string{"a": "b"}},
	{id: 101, labels: map[string]string{"a": "b"}},
	{id: 200},
	{id: 300},
	{id: 4000},
	{id: 3000},
	{id: 2000},
}

func main() {
	stdr.SetVerbosity(1)
	logger := stdr.New(log.New(os.Stderr, "", log.LstdFlags))

	ints := scalar.Integer[int]()
	s := selection.FromIntervals(ints,
		interval.LeftOpen(ints, 0, 15),
		interval.Closed(ints, 16, 20),
		interval.Open(ints, 30, 40),
	)
	fmt.Println("selection", s)
	fmt.Println("complement", s.Complement())
	fmt.Println("minus [5,35]", s.Subtract(selection.From(interval.Closed(ints, 5, 35))))

	vt, err := vlantable.New(logger.WithName("vlan"))
	if err != nil {
		panic(err)
	}
	for _, v := range values {
		if err := vt.Claim(v.id, v.labels); err != nil {
			panic(err)
		}
	}
	if err := vt.ClaimRange(1000, 1000, map[string]string{"range": "range1"}); err != nil {
		panic(err)
	}
	handleId(vt, 1000)
	handleId(vt, 1)

	ls, err := GetLabelSelector(map[string]string{"a": "b"})
	if err != nil {
		panic(err)
	}
	fmt.Println("entries by label", vt.GetByLabel(ls))

	it, err := iptable.New(netip.MustParseAddr("10.0.0.0"), netip.MustParseAddr("10.0.0.255"), logger.WithName("ip"))
	if err != nil {
		panic(err)
	}
	if err := it.ClaimRange("10.0.0.0/28", map[string]string{"pool": "infra"}); err != nil {
		panic(err)
	}
	addr, err := it.ClaimFree(map[string]string{"pool": "dynamic"})
	if err != nil {
		panic(err)
	}
	fmt.Println("claimed", addr, "free", it.Free())
	for _, route := range it.GetAll() {
		fmt.Println("route", route.Prefix(), route.Labels())
	}
}

func handleId(vt vlantable.VLANTable, id uint16) {
	d, err := vt.Get(id)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("vlan", id, "labels", d)
}

func GetLabelSelector(l map[string]string) (labels.Selector, error) {
	fullselector := labels.NewSelector()
	for k, v := range l {
		req, err := labels.NewRequirement(k, lselection.Equals, []string{v})
		if err != nil {
			return nil, err
		}
		fullselector = fullselector.Add(*req)
	}
	return fullselector, nil
}
