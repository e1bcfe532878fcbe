package interval

// Cmp compares two values: negative when a sorts before b, zero when
// equal, positive when a sorts after b.
type Cmp[T any] func(a, b T) int

type BoundKind uint8

const (
	BoundInclusive BoundKind = iota
	BoundExclusive
	BoundUnbounded
)

// Bound is one endpoint of an interval. An unbounded start extends to
// -infinity while an unbounded end extends to +infinity, so every
// comparison below is parameterized by the position of its operands.
type Bound[T any] struct {
	Kind  BoundKind
	Value T // zero value when Kind is BoundUnbounded
}

// Incl returns an inclusive bound at v.
func Incl[T any](v T) Bound[T] { return Bound[T]{Kind: BoundInclusive, Value: v} }

// Excl returns an exclusive bound at v.
func Excl[T any](v T) Bound[T] { return Bound[T]{Kind: BoundExclusive, Value: v} }

// Unbound returns an unbounded bound.
func Unbound[T any]() Bound[T] { return Bound[T]{Kind: BoundUnbounded} }

// CompareStarts orders two start bounds. An unbounded start sorts before
// every other start; at equal values an inclusive start sorts before an
// exclusive one, since it admits a value the exclusive start does not.
func CompareStarts[T any](cmp Cmp[T], a, b Bound[T]) int {
	switch {
	case a.Kind == BoundUnbounded && b.Kind == BoundUnbounded:
		return 0
	case a.Kind == BoundUnbounded:
		return -1
	case b.Kind == BoundUnbounded:
		return 1
	}
	if c := cmp(a.Value, b.Value); c != 0 {
		return c
	}
	return startRank(a.Kind) - startRank(b.Kind)
}

// CompareEnds orders two end bounds. An unbounded end sorts after every
// other end; at equal values an inclusive end sorts after an exclusive one.
func CompareEnds[T any](cmp Cmp[T], a, b Bound[T]) int {
	switch {
	case a.Kind == BoundUnbounded && b.Kind == BoundUnbounded:
		return 0
	case a.Kind == BoundUnbounded:
		return 1
	case b.Kind == BoundUnbounded:
		return -1
	}
	if c := cmp(a.Value, b.Value); c != 0 {
		return c
	}
	return endRank(a.Kind) - endRank(b.Kind)
}

// CompareEndToStart orders an end bound against a start bound on the value
// axis. At equal values the end sorts before the start unless both bounds
// are inclusive: an exclusive bound on either side means the two positions
// share no value.
func CompareEndToStart[T any](cmp Cmp[T], end, start Bound[T]) int {
	if end.Kind == BoundUnbounded || start.Kind == BoundUnbounded {
		return 1
	}
	if c := cmp(end.Value, start.Value); c != 0 {
		return c
	}
	if end.Kind == BoundInclusive && start.Kind == BoundInclusive {
		return 0
	}
	return -1
}

// CompareStartToEnd is the mirror of CompareEndToStart.
func CompareStartToEnd[T any](cmp Cmp[T], start, end Bound[T]) int {
	if start.Kind == BoundUnbounded || end.Kind == BoundUnbounded {
		return -1
	}
	if c := cmp(start.Value, end.Value); c != 0 {
		return c
	}
	if start.Kind == BoundInclusive && end.Kind == BoundInclusive {
		return 0
	}
	return 1
}

func startRank(k BoundKind) int {
	if k == BoundInclusive {
		return 1
	}
	return 2
}

func endRank(k BoundKind) int {
	if k == BoundInclusive {
		return 2
	}
	return 1
}

// flip inverts the inclusivity of a bounded bound. A gap next to a covering
// interval takes the opposite inclusivity of the covering bound at the same
// value. Never called on an unbounded bound.
func flip[T any](b Bound[T]) Bound[T] {
	if b.Kind == BoundInclusive {
		return Excl(b.Value)
	}
	return Incl(b.Value)
}

// gapBetween reports whether at least one value sits between a covering end
// and the next covering start. An inclusive and an exclusive bound meeting
// at the same value are contiguous; two exclusive bounds leave the value
// itself uncovered.
func gapBetween[T any](cmp Cmp[T], end, start Bound[T]) bool {
	if end.Kind == BoundUnbounded || start.Kind == BoundUnbounded {
		return false
	}
	if c := cmp(end.Value, start.Value); c != 0 {
		return c < 0
	}
	return end.Kind == BoundExclusive && start.Kind == BoundExclusive
}
