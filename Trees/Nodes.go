package Trees

import "golang.org/x/exp/constraints"

// Node of a persistent BST. A node owns its element, a per-node occurrence
// count, its two children, and subtree aggregates (total occurrences and
// distinct elements) fixed at construction. Nodes are never mutated in place;
// nil is the absent subtree. S should be a wide upper bound for the totals a
// tree can reach, like the size types of the other trees in this module:
// a too-narrow S silently wraps the aggregates.
type Node[T any, S constraints.Unsigned] struct {
	v    T
	c    S // occurrences of v; always > 0 in a live tree
	tot  S // total occurrences in this subtree
	dst  S // distinct elements in this subtree
	l, r *Node[T, S]
}

func (u *Node[T, S]) Elem() T {
	return u.v
}
func (u *Node[T, S]) Count() S {
	return u.c
}
func (u *Node[T, S]) Left() *Node[T, S] {
	return u.l
}
func (u *Node[T, S]) Right() *Node[T, S] {
	return u.r
}

// Total occurrences in the subtree. Defined on nil as 0.
func (u *Node[T, S]) Total() S {
	if u == nil {
		return 0
	}
	return u.tot
}

// Distinct elements in the subtree. Defined on nil as 0.
func (u *Node[T, S]) Distinct() S {
	if u == nil {
		return 0
	}
	return u.dst
}

// CountingFactory is the standard NodeFactory: aggregates are the sum of the
// children's plus the node's own count and one distinct element.
type CountingFactory[T any, S constraints.Unsigned] struct{}

func (CountingFactory[T, S]) Leaf(v T, c S) *Node[T, S] {
	return &Node[T, S]{v: v, c: c, tot: c, dst: 1}
}
func (CountingFactory[T, S]) Node(src, l, r *Node[T, S]) *Node[T, S] {
	return &Node[T, S]{src.v, src.c, l.Total() + r.Total() + src.c, l.Distinct() + r.Distinct() + 1, l, r}
}

// rotateLeft builds the left rotation of n through f. n.r mustn't be nil.
// Time: O(1); Space: O(1)
func rotateLeft[T any, S constraints.Unsigned](f NodeFactory[T, S], n *Node[T, S]) *Node[T, S] {
	rc := n.r
	return f.Node(rc, f.Node(n, n.l, rc.l), rc.r)
}

// rotateRight builds the right rotation of n through f. n.l mustn't be nil.
// Time: O(1); Space: O(1)
func rotateRight[T any, S constraints.Unsigned](f NodeFactory[T, S], n *Node[T, S]) *Node[T, S] {
	lc := n.l
	return f.Node(lc, lc.l, f.Node(n, lc.r, n.r))
}
