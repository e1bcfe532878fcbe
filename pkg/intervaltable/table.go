// Package intervaltable claims and releases labeled intervals inside a
// configured span. Claims may not overlap each other; the uncovered
// subsegments of the span are available through Free. Lookup by label
// selector works the same way as in the id tables this module grew out of.
package intervaltable

import (
	"cmp"
	"fmt"
	"sync"

	"github.com/henderiw/intervaltree/pkg/interval"
	"k8s.io/apimachinery/pkg/labels"
)

type Table[T any] struct {
	m    *sync.RWMutex
	cmp  interval.Cmp[T]
	span interval.Interval[T]
	// the tree answers overlap and free-space queries; the entries map
	// carries the labels per claimed interval, keyed by the interval's
	// string form
	tree    *interval.Tree[T]
	entries map[string]Entry[T]
}

// New creates a table over a natively ordered type, claiming inside span.
func New[T cmp.Ordered](span interval.Interval[T]) (*Table[T], error) {
	return NewFunc(cmp.Compare[T], span)
}

// NewFunc creates a table with a custom comparator, claiming inside span.
// Entries are keyed by the interval's string form, so distinct values of T
// must render distinctly through %v; comparator types whose renderings
// collide would alias entries.
func NewFunc[T any](cmpFn interval.Cmp[T], span interval.Interval[T]) (*Table[T], error) {
	if err := interval.Validate(cmpFn, span); err != nil {
		return nil, err
	}
	return &Table[T]{
		m:       new(sync.RWMutex),
		cmp:     cmpFn,
		span:    span,
		tree:    interval.NewFunc(cmpFn),
		entries: map[string]Entry[T]{},
	}, nil
}

// Span returns the interval claims are validated against.
func (r *Table[T]) Span() interval.Interval[T] {
	return r.span
}

// Claim stores the interval with its labels. It fails when the interval is
// invalid, falls outside the span, or overlaps an existing claim.
func (r *Table[T]) Claim(iv interval.Interval[T], l labels.Set) error {
	r.m.Lock()
	defer r.m.Unlock()

	if err := r.validate(iv); err != nil {
		return err
	}
	if overlaps := r.tree.Overlaps(iv); len(overlaps) != 0 {
		return fmt.Errorf("claim failed, interval %s overlaps existing claim %s", iv, overlaps[0])
	}
	if err := r.tree.Insert(iv); err != nil {
		return err
	}
	r.entries[iv.String()] = NewEntry(iv, l)
	return nil
}

// Release removes a claimed interval. Releasing an interval that was never
// claimed is an error.
func (r *Table[T]) Release(iv interval.Interval[T]) error {
	r.m.Lock()
	defer r.m.Unlock()

	if !r.tree.Remove(iv) {
		return fmt.Errorf("release failed, interval %s not claimed", iv)
	}
	delete(r.entries, iv.String())
	return nil
}

// Update replaces the labels of an existing claim.
func (r *Table[T]) Update(iv interval.Interval[T], l labels.Set) error {
	r.m.Lock()
	defer r.m.Unlock()

	key := iv.String()
	if _, ok := r.entries[key]; !ok {
		return fmt.Errorf("update failed, interval %s not claimed", iv)
	}
	r.entries[key] = NewEntry(iv, l)
	return nil
}

// Get returns the entry claimed for exactly this interval.
func (r *Table[T]) Get(iv interval.Interval[T]) (Entry[T], error) {
	r.m.RLock()
	defer r.m.RUnlock()

	e, ok := r.entries[iv.String()]
	if !ok {
		return nil, fmt.Errorf("entry %s not found", iv)
	}
	return e, nil
}

func (r *Table[T]) Has(iv interval.Interval[T]) bool {
	r.m.RLock()
	defer r.m.RUnlock()

	_, ok := r.entries[iv.String()]
	return ok
}

// IsFree reports whether the interval overlaps no claim.
func (r *Table[T]) IsFree(iv interval.Interval[T]) bool {
	r.m.RLock()
	defer r.m.RUnlock()

	return len(r.tree.Overlaps(iv)) == 0
}

func (r *Table[T]) Count() int {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.tree.Len()
}

// FindOverlaps returns the entries whose interval overlaps iv, in interval
// order.
func (r *Table[T]) FindOverlaps(iv interval.Interval[T]) Entries[T] {
	r.m.RLock()
	defer r.m.RUnlock()

	entries := Entries[T]{}
	for _, ov := range r.tree.Overlaps(iv) {
		if e, ok := r.entries[ov.String()]; ok {
			entries = append(entries, e)
		}
	}
	return entries
}

// Free returns the subsegments of the span not covered by any claim.
func (r *Table[T]) Free() []interval.Interval[T] {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.tree.Difference(r.span)
}

// GetAll returns all entries in interval order.
func (r *Table[T]) GetAll() Entries[T] {
	r.m.RLock()
	defer r.m.RUnlock()

	entries := Entries[T]{}
	iter := r.tree.Iterate()
	for iter.Next() {
		if e, ok := r.entries[iter.Interval().String()]; ok {
			entries = append(entries, e)
		}
	}
	return entries
}

// GetByLabel returns the entries whose labels match the selector, in
// interval order.
func (r *Table[T]) GetByLabel(selector labels.Selector) Entries[T] {
	r.m.RLock()
	defer r.m.RUnlock()

	entries := Entries[T]{}
	iter := r.tree.Iterate()
	for iter.Next() {
		e, ok := r.entries[iter.Interval().String()]
		if ok && selector.Matches(e.Labels()) {
			entries = append(entries, e)
		}
	}
	return entries
}

func (r *Table[T]) validate(iv interval.Interval[T]) error {
	if err := interval.Validate(r.cmp, iv); err != nil {
		return err
	}
	if interval.CompareStarts(r.cmp, iv.Start, r.span.Start) < 0 ||
		interval.CompareEnds(r.cmp, iv.End, r.span.End) > 0 {
		return fmt.Errorf("interval %s does not fit in the span %s", iv, r.span)
	}
	return nil
}
