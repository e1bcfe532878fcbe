package interval

import (
	"errors"
	"fmt"
)

// ErrInvalidInterval is returned when an interval contains no value.
var ErrInvalidInterval = errors.New("invalid interval")

// Interval is a range delimited by a start and an end bound. Intervals
// stored in a tree are immutable: mutating a stored key would break the
// search order and the subtree max-end augmentation.
type Interval[T any] struct {
	Start Bound[T] `json:"start"`
	End   Bound[T] `json:"end"`
}

// Closed returns [from,to].
func Closed[T any](from, to T) Interval[T] {
	return Interval[T]{Start: Incl(from), End: Incl(to)}
}

// ClosedOpen returns [from,to).
func ClosedOpen[T any](from, to T) Interval[T] {
	return Interval[T]{Start: Incl(from), End: Excl(to)}
}

// OpenClosed returns (from,to].
func OpenClosed[T any](from, to T) Interval[T] {
	return Interval[T]{Start: Excl(from), End: Incl(to)}
}

// Open returns (from,to).
func Open[T any](from, to T) Interval[T] {
	return Interval[T]{Start: Excl(from), End: Excl(to)}
}

// AtLeast returns [from,+inf).
func AtLeast[T any](from T) Interval[T] {
	return Interval[T]{Start: Incl(from), End: Unbound[T]()}
}

// GreaterThan returns (from,+inf).
func GreaterThan[T any](from T) Interval[T] {
	return Interval[T]{Start: Excl(from), End: Unbound[T]()}
}

// AtMost returns (-inf,to].
func AtMost[T any](to T) Interval[T] {
	return Interval[T]{Start: Unbound[T](), End: Incl(to)}
}

// LessThan returns (-inf,to).
func LessThan[T any](to T) Interval[T] {
	return Interval[T]{Start: Unbound[T](), End: Excl(to)}
}

// Point returns the degenerate interval [p,p].
func Point[T any](p T) Interval[T] {
	return Interval[T]{Start: Incl(p), End: Incl(p)}
}

// All returns (-inf,+inf).
func All[T any]() Interval[T] {
	return Interval[T]{Start: Unbound[T](), End: Unbound[T]()}
}

func (i Interval[T]) String() string {
	start := "(-inf"
	switch i.Start.Kind {
	case BoundInclusive:
		start = fmt.Sprintf("[%v", i.Start.Value)
	case BoundExclusive:
		start = fmt.Sprintf("(%v", i.Start.Value)
	}
	end := "+inf)"
	switch i.End.Kind {
	case BoundInclusive:
		end = fmt.Sprintf("%v]", i.End.Value)
	case BoundExclusive:
		end = fmt.Sprintf("%v)", i.End.Value)
	}
	return start + "," + end
}

// Validate reports whether the interval contains at least one value under
// the given comparator. Empty intervals such as (5,5) or [7,3] are rejected
// with ErrInvalidInterval.
func Validate[T any](cmp Cmp[T], iv Interval[T]) error {
	if iv.Start.Kind == BoundUnbounded || iv.End.Kind == BoundUnbounded {
		return nil
	}
	switch c := cmp(iv.Start.Value, iv.End.Value); {
	case c > 0:
		return fmt.Errorf("%w: start after end in %s", ErrInvalidInterval, iv)
	case c == 0 && (iv.Start.Kind != BoundInclusive || iv.End.Kind != BoundInclusive):
		return fmt.Errorf("%w: %s contains no value", ErrInvalidInterval, iv)
	}
	return nil
}

// Compare orders two intervals by start bound, with the end bound as a
// tie-break. This is the search order of the tree.
func Compare[T any](cmp Cmp[T], a, b Interval[T]) int {
	if c := CompareStarts(cmp, a.Start, b.Start); c != 0 {
		return c
	}
	return CompareEnds(cmp, a.End, b.End)
}

// Overlaps reports whether a and b share at least one value: a.Start must
// not be past b.End and b.Start must not be past a.End. Two bounds meeting
// at the same value overlap only when both are inclusive.
func Overlaps[T any](cmp Cmp[T], a, b Interval[T]) bool {
	return CompareStartToEnd(cmp, a.Start, b.End) <= 0 &&
		CompareEndToStart(cmp, a.End, b.Start) >= 0
}

// Covers reports whether the interval contains the point p.
func Covers[T any](cmp Cmp[T], iv Interval[T], p T) bool {
	return Overlaps(cmp, iv, Point(p))
}
