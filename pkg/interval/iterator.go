package interval

// Iterator is a stateful in-order iterator over a tree. It is important
// for the tree to not be modified while using the iterator.
type Iterator[T any] struct {
	stack []*node[T]
	curr  *node[T]
	n     *node[T]
}

// Iterate returns an iterator positioned before the first interval.
func (t *Tree[T]) Iterate() *Iterator[T] {
	return &Iterator[T]{
		stack: []*node[T]{},
		curr:  t.root,
	}
}

// Next advances to the next interval in order. It returns false if there
// is none.
func (it *Iterator[T]) Next() bool {
	for it.curr != nil {
		it.stack = append(it.stack, it.curr)
		it.curr = it.curr.left
	}
	if len(it.stack) == 0 {
		it.n = nil
		return false
	}
	it.n = it.stack[len(it.stack)-1]
	it.stack = it.stack[:len(it.stack)-1]
	it.curr = it.n.right
	return true
}

// Interval returns the interval at the current iterator position.
func (it *Iterator[T]) Interval() Interval[T] {
	return it.n.key
}
