package Trees

import "golang.org/x/exp/constraints"

// beyond reports whether v falls outside rng past side s.
func beyond[T any](rng Range[T], v T, s Side) bool {
	if s == Left {
		return rng.TooLow(v)
	}
	return rng.TooHigh(v)
}

// TotalInRange sums agg over exactly the entries of root inside rng. Subtrees
// entirely inside or outside the range are charged through their cached
// totals instead of being visited.
// Time: O(D); Space: O(1)
func TotalInRange[T any, S constraints.Unsigned](agg Aggregate[T, S], rng Range[T], root *Node[T, S]) S {
	t := agg.Total(root)
	if rng.HasLowerBound() {
		t -= totalBeyond(agg, rng, Left, root)
	}
	if rng.HasUpperBound() {
		t -= totalBeyond(agg, rng, Right, root)
	}
	return t
}

// totalBeyond sums agg over the entries outside rng past side s: for Left
// a too-low node drags its whole left subtree with it, mirrored for Right.
func totalBeyond[T any, S constraints.Unsigned](agg Aggregate[T, S], rng Range[T], s Side, n *Node[T, S]) S {
	var acc S
	for n != nil {
		if beyond(rng, n.v, s) {
			if acc += agg.Value(n); s == Left {
				acc += agg.Total(n.l)
				n = n.r
			} else {
				acc += agg.Total(n.r)
				n = n.l
			}
		} else if s == Left {
			n = n.l
		} else {
			n = n.r
		}
	}
	return acc
}

// MinusRange returns root with every entry inside rng removed: the too-low
// and too-high remainders are carved out and combined. Many nodes may change,
// so p should be FullRebalance. When nothing matches the result is equal to
// root but not necessarily the same pointer.
// Time: O(n) flattening work on the kept remainders, worst case.
func MinusRange[T any, S constraints.Unsigned](rng Range[T], p BalancePolicy[T, S], f NodeFactory[T, S], root *Node[T, S]) *Node[T, S] {
	var lo, hi *Node[T, S]
	if rng.HasLowerBound() {
		lo = subTreeBeyond(rng, p, f, Left, root)
	}
	if rng.HasUpperBound() {
		hi = subTreeBeyond(rng, p, f, Right, root)
	}
	return p.Combine(f, lo, hi)
}

// subTreeBeyond builds the subtree of entries outside rng past side s,
// preserving their order. Recursive.
func subTreeBeyond[T any, S constraints.Unsigned](rng Range[T], p BalancePolicy[T, S], f NodeFactory[T, S], s Side, n *Node[T, S]) *Node[T, S] {
	if n == nil {
		return nil
	}
	if beyond(rng, n.v, s) {
		if s == Left {
			return p.Balance(f, n, n.l, subTreeBeyond(rng, p, f, s, n.r))
		}
		return p.Balance(f, n, subTreeBeyond(rng, p, f, s, n.l), n.r)
	}
	if s == Left {
		return subTreeBeyond(rng, p, f, s, n.l)
	}
	return subTreeBeyond(rng, p, f, s, n.r)
}

// FurthestPath returns the root-to-tip Path of the first in-range entry
// approaching from side s (s==Left gives the smallest in-range entry), the
// starting point for directional iteration. The Path is empty when no entry
// of root lies in rng. Recursive.
// Time: O(D)
func FurthestPath[T any, S constraints.Unsigned](rng Range[T], s Side, root *Node[T, S]) *Path[T, S] {
	p := new(Path[T, S])
	furthest(rng, s, root, p)
	return p
}

func furthest[T any, S constraints.Unsigned](rng Range[T], s Side, n *Node[T, S], p *Path[T, S]) bool {
	if n == nil {
		return false
	}
	p.ns = append(p.ns, n)
	if beyond(rng, n.v, s) {
		// n sits before the range: only the far-side child can hold a hit.
		var far *Node[T, S]
		if s == Left {
			far = n.r
		} else {
			far = n.l
		}
		if furthest(rng, s, far, p) {
			return true
		}
	} else {
		var near *Node[T, S]
		if s == Left {
			near = n.l
		} else {
			near = n.r
		}
		if furthest(rng, s, near, p) {
			return true
		}
		if rng.Contains(n.v) {
			return true
		}
	}
	p.ns = p.ns[:len(p.ns)-1]
	return false
}
