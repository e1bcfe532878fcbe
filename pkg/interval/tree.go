// Package interval implements an in-memory augmented search tree over a
// multiset of intervals whose endpoints may be inclusive, exclusive, or
// unbounded. The tree answers overlap queries ("which stored intervals
// intersect this interval or point"), supports insertion and removal, and
// computes the difference between a query interval and everything stored
// (the subsegments of the query not covered by any interval).
//
// The tree is a treap: a random priority per node keeps the expected height
// logarithmic in the number of stored intervals regardless of insertion
// order. Each node additionally carries the maximum end bound of its
// subtree, which lets searches prune subtrees that cannot overlap a query.
//
// Any value type can be stored; NewFunc takes an explicit comparator while
// New covers the natively ordered types. A Tree is not safe for concurrent
// use: callers sharing one across goroutines must serialize mutations
// themselves, the way the table packages in this module do.
package interval

import (
	"cmp"
	"strings"
)

// Tree is the handle owning the root node and the count of stored
// intervals. The zero value is not usable; construct with New or NewFunc.
type Tree[T any] struct {
	cmp  Cmp[T]
	root *node[T]
	size int
}

// New returns an empty tree over a natively ordered type.
func New[T cmp.Ordered]() *Tree[T] {
	return NewFunc(cmp.Compare[T])
}

// NewFunc returns an empty tree using the given comparator.
func NewFunc[T any](cmp Cmp[T]) *Tree[T] {
	return &Tree[T]{cmp: cmp}
}

// NewFrom builds a tree from the given intervals, equivalent to repeated
// Insert.
func NewFrom[T cmp.Ordered](ivs ...Interval[T]) (*Tree[T], error) {
	return NewFromFunc(cmp.Compare[T], ivs...)
}

// NewFromFunc builds a tree with a custom comparator from the given
// intervals.
func NewFromFunc[T any](cmp Cmp[T], ivs ...Interval[T]) (*Tree[T], error) {
	t := NewFunc(cmp)
	for _, iv := range ivs {
		if err := t.Insert(iv); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Len returns the number of stored intervals.
func (t *Tree[T]) Len() int {
	return t.size
}

// IsEmpty reports whether the tree stores no intervals.
func (t *Tree[T]) IsEmpty() bool {
	return t.size == 0
}

// Clear removes all stored intervals.
func (t *Tree[T]) Clear() {
	t.root = nil
	t.size = 0
}

// Clone returns a structural copy of the tree. The copied nodes keep their
// priorities, so the clone has the identical shape.
func (t *Tree[T]) Clone() *Tree[T] {
	return &Tree[T]{
		cmp:  t.cmp,
		root: cloneNode(t.root),
		size: t.size,
	}
}

// Insert adds the interval to the tree. Duplicate intervals are permitted
// and stored as separate nodes. Empty intervals are rejected with
// ErrInvalidInterval.
func (t *Tree[T]) Insert(iv Interval[T]) error {
	if err := Validate(t.cmp, iv); err != nil {
		return err
	}
	t.root = t.insert(t.root, newNode(iv))
	t.size++
	return nil
}

func (t *Tree[T]) insert(n, nu *node[T]) *node[T] {
	if n == nil {
		return nu
	}
	if Compare(t.cmp, nu.key, n.key) < 0 {
		n.left = t.insert(n.left, nu)
		if n.left.priority > n.priority {
			return t.rotateRight(n)
		}
	} else {
		// duplicates go right, which keeps removal and in-order
		// traversal deterministic
		n.right = t.insert(n.right, nu)
		if n.right.priority > n.priority {
			return t.rotateLeft(n)
		}
	}
	t.update(n)
	return n
}

// Remove deletes one stored interval exactly equal to iv, returning false
// when no such interval is stored. When duplicates exist, the first exact
// match on the root-to-leaf search path is removed.
func (t *Tree[T]) Remove(iv Interval[T]) bool {
	var removed bool
	t.root = t.remove(t.root, iv, &removed)
	if removed {
		t.size--
	}
	return removed
}

func (t *Tree[T]) remove(n *node[T], iv Interval[T], removed *bool) *node[T] {
	if n == nil {
		return nil
	}
	switch c := Compare(t.cmp, iv, n.key); {
	case c < 0:
		n.left = t.remove(n.left, iv, removed)
	case c > 0:
		n.right = t.remove(n.right, iv, removed)
	default:
		*removed = true
		switch {
		case n.left == nil:
			return n.right
		case n.right == nil:
			return n.left
		case n.left.priority > n.right.priority:
			// rotate the node down towards the higher-priority
			// child until it can be spliced out
			n = t.rotateRight(n)
			n.right = t.removeNode(n.right)
		default:
			n = t.rotateLeft(n)
			n.left = t.removeNode(n.left)
		}
	}
	t.update(n)
	return n
}

// removeNode continues rotating the already matched node down until it is
// a leaf or half-leaf, then detaches it.
func (t *Tree[T]) removeNode(n *node[T]) *node[T] {
	switch {
	case n.left == nil:
		return n.right
	case n.right == nil:
		return n.left
	case n.left.priority > n.right.priority:
		n = t.rotateRight(n)
		n.right = t.removeNode(n.right)
	default:
		n = t.rotateLeft(n)
		n.left = t.removeNode(n.left)
	}
	t.update(n)
	return n
}

// Overlaps returns every stored interval overlapping the query, in order.
func (t *Tree[T]) Overlaps(q Interval[T]) []Interval[T] {
	var acc []Interval[T]
	t.overlaps(t.root, q, &acc)
	return acc
}

// OverlapsPoint returns every stored interval containing the point p.
func (t *Tree[T]) OverlapsPoint(p T) []Interval[T] {
	return t.Overlaps(Point(p))
}

// ContainsPoint reports whether any stored interval contains the point p.
func (t *Tree[T]) ContainsPoint(p T) bool {
	return t.contains(t.root, Point(p))
}

// ContainsInterval reports whether the query is fully covered by the union
// of the stored intervals.
func (t *Tree[T]) ContainsInterval(q Interval[T]) bool {
	return len(t.Difference(q)) == 0
}

func (t *Tree[T]) overlaps(n *node[T], q Interval[T], acc *[]Interval[T]) {
	if n == nil {
		return
	}
	// everything below n ends before the query starts
	if CompareEndToStart(t.cmp, n.maxEnd, q.Start) < 0 {
		return
	}
	t.overlaps(n.left, q, acc)
	// right subtree starts are >= n's start, so nothing right of here
	// can reach back into the query
	if CompareStartToEnd(t.cmp, n.key.Start, q.End) > 0 {
		return
	}
	if CompareEndToStart(t.cmp, n.key.End, q.Start) >= 0 {
		*acc = append(*acc, n.key)
	}
	t.overlaps(n.right, q, acc)
}

// contains is the overlap search cut short at the first hit.
func (t *Tree[T]) contains(n *node[T], q Interval[T]) bool {
	if n == nil {
		return false
	}
	if CompareEndToStart(t.cmp, n.maxEnd, q.Start) < 0 {
		return false
	}
	if t.contains(n.left, q) {
		return true
	}
	if CompareStartToEnd(t.cmp, n.key.Start, q.End) > 0 {
		return false
	}
	if CompareEndToStart(t.cmp, n.key.End, q.Start) >= 0 {
		return true
	}
	return t.contains(n.right, q)
}

// Difference returns the ordered, maximal, disjoint subintervals of the
// query not covered by any stored interval. A fully covered query yields
// an empty result; a query overlapping nothing is returned unchanged.
func (t *Tree[T]) Difference(q Interval[T]) []Interval[T] {
	overlaps := t.Overlaps(q)
	if len(overlaps) == 0 {
		return []Interval[T]{q}
	}

	var gaps []Interval[T]

	// gap before the first covering interval
	first := overlaps[0]
	if CompareStarts(t.cmp, q.Start, first.Start) < 0 {
		gaps = append(gaps, Interval[T]{Start: q.Start, End: flip(first.Start)})
	}

	// sweep left to right, merging contiguous coverage and emitting a
	// gap whenever the next covering interval starts past the coverage
	// reached so far
	cover := first.End
	for _, ov := range overlaps[1:] {
		if cover.Kind == BoundUnbounded {
			return gaps
		}
		if gapBetween(t.cmp, cover, ov.Start) {
			gaps = append(gaps, Interval[T]{Start: flip(cover), End: flip(ov.Start)})
			cover = ov.End
		} else if CompareEnds(t.cmp, ov.End, cover) > 0 {
			cover = ov.End
		}
	}

	// gap between the end of coverage and the end of the query
	if CompareEnds(t.cmp, cover, q.End) < 0 {
		gaps = append(gaps, Interval[T]{Start: flip(cover), End: q.End})
	}
	return gaps
}

// Intervals returns all stored intervals in order. Together with NewFrom
// this is the persistence surface of the tree: rebuilding from the walk
// restores the stored set, with fresh balancing priorities.
func (t *Tree[T]) Intervals() []Interval[T] {
	ivs := make([]Interval[T], 0, t.size)
	iter := t.Iterate()
	for iter.Next() {
		ivs = append(ivs, iter.Interval())
	}
	return ivs
}

func (t *Tree[T]) String() string {
	if t.IsEmpty() {
		return "empty tree"
	}
	var sb strings.Builder
	for i, iv := range t.Intervals() {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(iv.String())
	}
	return sb.String()
}
