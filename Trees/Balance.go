package Trees

import "golang.org/x/exp/constraints"

// PointRebalance restores size balance after a single insertion or deletion.
// Balance is the persistent form of the classic size-balanced-tree maintain:
// it checks the sizes (distinct-element counts) of the subtrees' children
// against the sibling and rotates accordingly, allocating new nodes instead of
// editing in place. Its inputs must differ from a balanced state by at most
// one point edit; use FullRebalance for bulk changes.
type PointRebalance[T any, S constraints.Unsigned] struct{}

// Balance src between l and r. Recursive.
// Time: amortized O(1)
func (u PointRebalance[T, S]) Balance(f NodeFactory[T, S], src, l, r *Node[T, S]) *Node[T, S] {
	n := maintain(f, f.Node(src, l, r), false)
	return maintain(f, n, true)
}

// Combine two sibling subtrees after their parent's deletion by hoisting the
// border element of the bigger side. Recursive.
// Time: O(D)
func (u PointRebalance[T, S]) Combine(f NodeFactory[T, S], l, r *Node[T, S]) *Node[T, S] {
	switch {
	case l == nil:
		return r
	case r == nil:
		return l
	case l.dst >= r.dst:
		rem, top := removeFurthest(f, u, l, Right)
		return u.Balance(f, top, rem, r)
	default:
		rem, top := removeFurthest(f, u, r, Left)
		return u.Balance(f, top, l, rem)
	}
}

// removeFurthest detaches the node furthest toward s from n's subtree,
// returning the rebalanced remainder and the detached node.
func removeFurthest[T any, S constraints.Unsigned](f NodeFactory[T, S], p BalancePolicy[T, S], n *Node[T, S], s Side) (rem, top *Node[T, S]) {
	if s == Right {
		if n.r == nil {
			return n.l, n
		}
		rem, top = removeFurthest(f, p, n.r, s)
		return p.Balance(f, n, n.l, rem), top
	}
	if n.l == nil {
		return n.r, n
	}
	rem, top = removeFurthest(f, p, n.l, s)
	return p.Balance(f, n, rem, n.r), top
}

// maintain the subtree rooting at n to satisfy the size-balanced-tree
// properties using rotateLeft and rotateRight, building new nodes through f.
// rightBigger indicates which side may have grown, removing redundant size
// comparisons.
// Time: amortized O(1)
func maintain[T any, S constraints.Unsigned](f NodeFactory[T, S], n *Node[T, S], rightBigger bool) *Node[T, S] {
	if n == nil {
		return nil
	}
	if l, r := n.l, n.r; rightBigger {
		if r == nil {
			return n
		}
		if r.r.Distinct() > l.Distinct() {
			n = rotateLeft(f, n)
		} else if r.l.Distinct() > l.Distinct() {
			n = rotateLeft(f, f.Node(n, l, rotateRight(f, r)))
		} else {
			return n
		}
	} else {
		if l == nil {
			return n
		}
		if l.l.Distinct() > r.Distinct() {
			n = rotateRight(f, n)
		} else if l.r.Distinct() > r.Distinct() {
			n = rotateRight(f, f.Node(n, rotateLeft(f, l), r))
		} else {
			return n
		}
	}
	n = f.Node(n, maintain(f, n.l, false), maintain(f, n.r, true))
	n = maintain(f, n, false)
	return maintain(f, n, true)
}

// FullRebalance rebuilds edited subtrees from scratch: flatten in order, then
// split at midpoints like building from a sorted slice. Meant for bulk
// operations (range deletion) where many nodes change at once and point
// rotations would be wasted work.
type FullRebalance[T any, S constraints.Unsigned] struct{}

// Balance src between l and r by rebuilding. Recursive.
// Time: O(n)
func (FullRebalance[T, S]) Balance(f NodeFactory[T, S], src, l, r *Node[T, S]) *Node[T, S] {
	ns := flatten(l, make([]*Node[T, S], 0, l.Distinct()+r.Distinct()+1))
	ns = append(ns, src)
	return rebuild(f, flatten(r, ns))
}

// Combine l and r by rebuilding. Recursive.
// Time: O(n)
func (FullRebalance[T, S]) Combine(f NodeFactory[T, S], l, r *Node[T, S]) *Node[T, S] {
	ns := flatten(l, make([]*Node[T, S], 0, l.Distinct()+r.Distinct()))
	return rebuild(f, flatten(r, ns))
}

func flatten[T any, S constraints.Unsigned](n *Node[T, S], ns []*Node[T, S]) []*Node[T, S] {
	if n == nil {
		return ns
	}
	ns = append(flatten(n.l, ns), n)
	return flatten(n.r, ns)
}

func rebuild[T any, S constraints.Unsigned](f NodeFactory[T, S], ns []*Node[T, S]) *Node[T, S] {
	if len(ns) == 0 {
		return nil
	}
	mid := len(ns) >> 1
	return f.Node(ns[mid], rebuild(f, ns[:mid]), rebuild(f, ns[mid+1:]))
}
