package iptable

import (
	"fmt"
	"net/netip"
	"strings"
	"sync"

	"github.com/hansthienpondt/nipam/pkg/table"
	"github.com/henderiw/intervaltree/pkg/interval"
	"go4.org/netipx"
	"k8s.io/apimachinery/pkg/labels"
)

// IPTable claims address ranges inside a from/to boundary. A claim is a
// prefix ("10.0.0.0/24"), a range ("10.0.0.10-10.0.0.20") or a single
// address; claims may not overlap.
type IPTable interface {
	Get(rng string) (table.Route, error)
	Claim(rng string, d table.Route) error
	Release(rng string) error
	Update(rng string, d table.Route) error

	Count() int
	Has(rng string) bool
	IsFree(rng string) bool

	FindOverlaps(rng string) table.Routes
	FreeRanges() []netipx.IPRange
	FreePrefixes() []netip.Prefix

	GetAll() table.Routes
	GetByLabel(selector labels.Selector) table.Routes
}

func New(from, to netip.Addr) (IPTable, error) {
	if !from.IsValid() || !to.IsValid() {
		return nil, fmt.Errorf("invalid boundary from %s to %s", from, to)
	}
	if from.Is4() != to.Is4() {
		return nil, fmt.Errorf("boundary from %s to %s mixes address families", from, to)
	}
	if to.Less(from) {
		return nil, fmt.Errorf("invalid boundary, %s is before %s", to, from)
	}
	return &ipTable{
		m:       new(sync.RWMutex),
		tree:    interval.NewFunc(netip.Addr.Compare),
		routes:  map[string]table.Route{},
		ipRange: netipx.IPRangeFrom(from, to),
	}, nil
}

type ipTable struct {
	m *sync.RWMutex
	// the tree holds one closed address interval per claimed range and
	// answers overlap and free-space queries; the routes map carries the
	// claim data keyed by the canonical range string
	tree    *interval.Tree[netip.Addr]
	routes  map[string]table.Route
	ipRange netipx.IPRange
}

func (r *ipTable) Get(rng string) (table.Route, error) {
	claimRange, err := r.validateRange(rng)
	if err != nil {
		return table.Route{}, err
	}
	r.m.RLock()
	defer r.m.RUnlock()
	route, ok := r.routes[claimRange.String()]
	if !ok {
		return table.Route{}, fmt.Errorf("range %s not found", rng)
	}
	return route, nil
}

func (r *ipTable) Claim(rng string, d table.Route) error {
	claimRange, err := r.validateRange(rng)
	if err != nil {
		return err
	}
	r.m.Lock()
	defer r.m.Unlock()

	iv := rangeToInterval(claimRange)
	if overlaps := r.tree.Overlaps(iv); len(overlaps) != 0 {
		return fmt.Errorf("claim failed, range %s overlaps claimed range %s", rng, intervalToRange(overlaps[0]))
	}
	if err := r.tree.Insert(iv); err != nil {
		return err
	}
	r.routes[claimRange.String()] = d
	return nil
}

func (r *ipTable) Release(rng string) error {
	claimRange, err := r.validateRange(rng)
	if err != nil {
		return err
	}
	r.m.Lock()
	defer r.m.Unlock()

	if !r.tree.Remove(rangeToInterval(claimRange)) {
		return fmt.Errorf("release failed, range %s not claimed", rng)
	}
	delete(r.routes, claimRange.String())
	return nil
}

func (r *ipTable) Update(rng string, d table.Route) error {
	claimRange, err := r.validateRange(rng)
	if err != nil {
		return err
	}
	r.m.Lock()
	defer r.m.Unlock()

	key := claimRange.String()
	if _, ok := r.routes[key]; !ok {
		return fmt.Errorf("update failed, range %s not claimed", rng)
	}
	r.routes[key] = d
	return nil
}

func (r *ipTable) Count() int {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.tree.Len()
}

func (r *ipTable) Has(rng string) bool {
	claimRange, err := r.validateRange(rng)
	if err != nil {
		return false
	}
	r.m.RLock()
	defer r.m.RUnlock()

	_, ok := r.routes[claimRange.String()]
	return ok
}

// IsFree reports whether no claimed range overlaps rng.
func (r *ipTable) IsFree(rng string) bool {
	claimRange, err := r.validateRange(rng)
	if err != nil {
		return false
	}
	r.m.RLock()
	defer r.m.RUnlock()

	return len(r.tree.Overlaps(rangeToInterval(claimRange))) == 0
}

// FindOverlaps returns the routes of the claimed ranges overlapping rng,
// in address order.
func (r *ipTable) FindOverlaps(rng string) table.Routes {
	claimRange, err := r.validateRange(rng)
	if err != nil {
		return nil
	}
	r.m.RLock()
	defer r.m.RUnlock()

	var routes table.Routes
	for _, ov := range r.tree.Overlaps(rangeToInterval(claimRange)) {
		if route, ok := r.routes[intervalToRange(ov).String()]; ok {
			routes = append(routes, route)
		}
	}
	return routes
}

// FreeRanges returns the unclaimed address ranges inside the boundary,
// in address order.
func (r *ipTable) FreeRanges() []netipx.IPRange {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.freeRanges()
}

func (r *ipTable) freeRanges() []netipx.IPRange {
	span := interval.Closed(r.ipRange.From(), r.ipRange.To())
	var freeRanges []netipx.IPRange
	for _, gap := range r.tree.Difference(span) {
		from := gap.Start.Value
		if gap.Start.Kind == interval.BoundExclusive {
			from = from.Next()
		}
		to := gap.End.Value
		if gap.End.Kind == interval.BoundExclusive {
			to = to.Prev()
		}
		// an open gap between adjacent addresses holds no address
		if !from.IsValid() || !to.IsValid() || to.Less(from) {
			continue
		}
		freeRanges = append(freeRanges, netipx.IPRangeFrom(from, to))
	}
	return freeRanges
}

// FreePrefixes returns the unclaimed space inside the boundary as a
// minimal set of CIDR prefixes.
func (r *ipTable) FreePrefixes() []netip.Prefix {
	r.m.RLock()
	defer r.m.RUnlock()

	var b netipx.IPSetBuilder
	for _, freeRange := range r.freeRanges() {
		b.AddRange(freeRange)
	}
	set, err := b.IPSet()
	if err != nil {
		return nil
	}
	return set.Prefixes()
}

func (r *ipTable) GetAll() table.Routes {
	r.m.RLock()
	defer r.m.RUnlock()

	var routes table.Routes
	iter := r.tree.Iterate()
	for iter.Next() {
		if route, ok := r.routes[intervalToRange(iter.Interval()).String()]; ok {
			routes = append(routes, route)
		}
	}
	return routes
}

func (r *ipTable) GetByLabel(selector labels.Selector) table.Routes {
	r.m.RLock()
	defer r.m.RUnlock()

	var routes table.Routes
	iter := r.tree.Iterate()
	for iter.Next() {
		route, ok := r.routes[intervalToRange(iter.Interval()).String()]
		if ok && selector.Matches(route.Labels()) {
			routes = append(routes, route)
		}
	}
	return routes
}

// validateRange parses a prefix, a from-to range or a single address and
// checks it against the table boundary.
func (r *ipTable) validateRange(rng string) (netipx.IPRange, error) {
	claimRange, err := parseRange(rng)
	if err != nil {
		return netipx.IPRange{}, err
	}
	if claimRange.From().Is4() != r.ipRange.From().Is4() {
		return netipx.IPRange{}, fmt.Errorf("range %s does not match the table address family", rng)
	}
	if !r.ipRange.Contains(claimRange.From()) || !r.ipRange.Contains(claimRange.To()) {
		return netipx.IPRange{}, fmt.Errorf("range %s, does not fit in the range from %s to %s", rng, r.ipRange.From().String(), r.ipRange.To().String())
	}
	return claimRange, nil
}

func parseRange(rng string) (netipx.IPRange, error) {
	switch {
	case strings.Contains(rng, "/"):
		pfx, err := netip.ParsePrefix(rng)
		if err != nil {
			return netipx.IPRange{}, fmt.Errorf("prefix %s is invalid", rng)
		}
		return netipx.RangeOfPrefix(pfx.Masked()), nil
	case strings.Contains(rng, "-"):
		ipRange, err := netipx.ParseIPRange(rng)
		if err != nil {
			return netipx.IPRange{}, fmt.Errorf("range %s is invalid", rng)
		}
		return ipRange, nil
	default:
		addr, err := netip.ParseAddr(rng)
		if err != nil {
			return netipx.IPRange{}, fmt.Errorf("ip address %s is invalid", rng)
		}
		return netipx.IPRangeFrom(addr, addr), nil
	}
}

func rangeToInterval(rng netipx.IPRange) interval.Interval[netip.Addr] {
	return interval.Closed(rng.From(), rng.To())
}

func intervalToRange(iv interval.Interval[netip.Addr]) netipx.IPRange {
	return netipx.IPRangeFrom(iv.Start.Value, iv.End.Value)
}
