package main

import (
	"fmt"
	"net/netip"

	"github.com/hansthienpondt/nipam/pkg/table"
	"github.com/henderiw/intervaltree/pkg/interval"
	"github.com/henderiw/intervaltree/pkg/intervaltable"
	"github.com/henderiw/intervaltree/pkg/iptable"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/apimachinery/pkg/selection"
)

var values = []struct {
	iv     interval.Interval[int]
	labels map[string]string
}{
	{iv: interval.Closed(100, 200), labels: map[string]string{"a": "b"}},
	{iv: interval.ClosedOpen(300, 400), labels: map[string]string{"a": "b"}},
	{iv: interval.Open(1000, 2000)},
	{iv: interval.Point(2500)},
	{iv: interval.GreaterThan(3000)},
}

func main() {
	t := interval.New[int]()
	for _, v := range values {
		if err := t.Insert(v.iv); err != nil {
			panic(err)
		}
	}
	fmt.Println("tree", t)
	fmt.Println("overlaps [150,350]", t.Overlaps(interval.Closed(150, 350)))
	fmt.Println("overlaps point 2500", t.OverlapsPoint(2500))
	fmt.Println("difference (-inf,+inf)", t.Difference(interval.All[int]()))

	iter := t.Iterate()
	for iter.Next() {
		fmt.Println("iter", iter.Interval())
	}

	vt, err := intervaltable.New(interval.Closed(0, 4095))
	if err != nil {
		panic(err)
	}
	for _, v := range values {
		if v.iv.End.Kind == interval.BoundUnbounded {
			continue
		}
		if err := vt.Claim(v.iv, v.labels); err != nil {
			panic(err)
		}
	}
	if err := vt.Claim(interval.Closed(150, 250), nil); err != nil {
		fmt.Println(err)
	}
	fmt.Println("free", vt.Free())

	ls, err := GetLabelSelector(map[string]string{"a": "b"})
	if err != nil {
		panic(err)
	}
	for _, e := range vt.GetByLabel(ls) {
		fmt.Println("entries by label", e.String())
	}

	it, err := iptable.New(netip.MustParseAddr("10.0.0.0"), netip.MustParseAddr("10.0.0.255"))
	if err != nil {
		panic(err)
	}
	if err := it.Claim("10.0.0.0/26", table.Route{}); err != nil {
		panic(err)
	}
	if err := it.Claim("10.0.0.100-10.0.0.120", table.Route{}); err != nil {
		panic(err)
	}
	if err := it.Claim("10.0.0.110", table.Route{}); err != nil {
		fmt.Println(err)
	}
	fmt.Println("free ranges", it.FreeRanges())
	fmt.Println("free prefixes", it.FreePrefixes())
}

func GetLabelSelector(l map[string]string) (labels.Selector, error) {
	fullselector := labels.NewSelector()
	for k, v := range l {
		req, err := labels.NewRequirement(k, selection.Equals, []string{v})
		if err != nil {
			return nil, err
		}
		fullselector = fullselector.Add(*req)
	}
	return fullselector, nil
}
