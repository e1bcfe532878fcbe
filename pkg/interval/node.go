package interval

import "math/rand"

// node is a treap node: ordered as a binary search tree on the interval
// key, ordered as a heap on the random priority, and augmented with the
// maximum end bound across its subtree.
type node[T any] struct {
	key      Interval[T]
	priority uint32
	maxEnd   Bound[T]
	left     *node[T]
	right    *node[T]
}

func newNode[T any](key Interval[T]) *node[T] {
	return &node[T]{
		key:      key,
		priority: rand.Uint32(),
		maxEnd:   key.End,
	}
}

// update recomputes maxEnd from the node's own end and both children.
// Must be called bottom-up after any change to the subtree composition.
func (t *Tree[T]) update(n *node[T]) {
	max := n.key.End
	if n.left != nil && CompareEnds(t.cmp, n.left.maxEnd, max) > 0 {
		max = n.left.maxEnd
	}
	if n.right != nil && CompareEnds(t.cmp, n.right.maxEnd, max) > 0 {
		max = n.right.maxEnd
	}
	n.maxEnd = max
}

// rotateRight promotes the left child over n and returns the new subtree
// root. Both reparented nodes get their augmentation recomputed.
func (t *Tree[T]) rotateRight(n *node[T]) *node[T] {
	l := n.left
	n.left = l.right
	l.right = n
	t.update(n)
	t.update(l)
	return l
}

// rotateLeft promotes the right child over n and returns the new subtree
// root.
func (t *Tree[T]) rotateLeft(n *node[T]) *node[T] {
	r := n.right
	n.right = r.left
	r.left = n
	t.update(n)
	t.update(r)
	return r
}

func cloneNode[T any](n *node[T]) *node[T] {
	if n == nil {
		return nil
	}
	c := *n
	c.left = cloneNode(n.left)
	c.right = cloneNode(n.right)
	return &c
}
