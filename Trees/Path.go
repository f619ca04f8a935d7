package Trees

import "golang.org/x/exp/constraints"

// Path is the chain of nodes from a tree root down to one entry, kept as an
// explicit stack. It pins a snapshot of the tree version it was built from:
// advancing it never consults anything but the immutable nodes already
// reachable, so a Path stays valid while the live root moves on.
type Path[T any, S constraints.Unsigned] struct {
	ns []*Node[T, S]
}

// Empty reports whether the path has run off the tree.
func (u *Path[T, S]) Empty() bool {
	return len(u.ns) == 0
}

// Tip is the entry the path currently ends at. Undefined when Empty.
func (u *Path[T, S]) Tip() *Node[T, S] {
	return u.ns[len(u.ns)-1]
}

// Next advances the tip to its in-order neighbor toward s. The path becomes
// empty after stepping past the last entry on that side.
// Time: amortized O(1); Space: O(1)
func (u *Path[T, S]) Next(s Side) {
	tip := u.Tip()
	if s == Right {
		if tip.r != nil {
			for n := tip.r; n != nil; n = n.l {
				u.ns = append(u.ns, n)
			}
			return
		}
		for n := u.pop(); len(u.ns) > 0 && u.Tip().r == n; {
			n = u.pop()
		}
	} else {
		if tip.l != nil {
			for n := tip.l; n != nil; n = n.r {
				u.ns = append(u.ns, n)
			}
			return
		}
		for n := u.pop(); len(u.ns) > 0 && u.Tip().l == n; {
			n = u.pop()
		}
	}
}

// Drain empties the path, ending iteration early.
func (u *Path[T, S]) Drain() {
	u.ns = u.ns[:0]
}

func (u *Path[T, S]) pop() *Node[T, S] {
	n := u.ns[len(u.ns)-1]
	u.ns = u.ns[:len(u.ns)-1]
	return n
}
