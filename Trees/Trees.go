// Package Trees implements a persistent, size-balanced binary search tree
// engine for sorted multiset/map collections. Nodes are immutable once
// constructed; every logical change path-copies from the edited position up to
// the root, so an old root remains a complete, consistent snapshot forever.
// That discipline is what lets a façade publish roots through a single atomic
// reference and detect concurrent modification with one compare-and-swap.
//
// The engine itself holds no shared state. Callers supply the collaborators
// below: a comparator, a NodeFactory recomputing aggregates, a BalancePolicy
// restructuring edited subtrees, and a Modifier describing the edit at one key.
package Trees

import "golang.org/x/exp/constraints"

// Side selects one end or direction of the in-order sequence.
type Side byte

const (
	Left Side = iota
	Right
)

// Aggregate reads one subtree statistic off a node. Total must be the sum of
// Value over the subtree; nodes cache their totals at construction so both
// calls are O(1). Total is defined on nil (absent) subtrees as 0.
type Aggregate[T any, S constraints.Unsigned] interface {
	//Value is the contribution of the node itself.
	Value(*Node[T, S]) S
	//Total is the cached sum over the node's whole subtree.
	Total(*Node[T, S]) S
}

// Occurrences aggregates the per-node occurrence counts.
type Occurrences[T any, S constraints.Unsigned] struct{}

func (Occurrences[T, S]) Value(n *Node[T, S]) S { return n.c }
func (Occurrences[T, S]) Total(n *Node[T, S]) S { return n.Total() }

// DistinctElems aggregates the number of distinct elements.
type DistinctElems[T any, S constraints.Unsigned] struct{}

func (DistinctElems[T, S]) Value(*Node[T, S]) S   { return 1 }
func (DistinctElems[T, S]) Total(n *Node[T, S]) S { return n.Distinct() }

// NodeFactory produces nodes with aggregates recomputed from their children.
// Both receivers must be pure and O(1).
type NodeFactory[T any, S constraints.Unsigned] interface {
	//Leaf is a childless node holding c occurrences of v.
	Leaf(v T, c S) *Node[T, S]
	//Node keeps src's element and occurrence count but substitutes the given
	//children, recomputing the subtree aggregates. src's own children are not
	//consulted.
	Node(src, l, r *Node[T, S]) *Node[T, S]
}

// BalancePolicy restructures subtrees after edits. Implementations must
// preserve the in-order element sequence and terminate.
type BalancePolicy[T any, S constraints.Unsigned] interface {
	//Balance arranges src between subtrees l (all elements smaller) and r
	//(all larger) into a balanced subtree.
	Balance(f NodeFactory[T, S], src, l, r *Node[T, S]) *Node[T, S]
	//Combine merges subtrees l and r, every element of l smaller than every
	//element of r, into one balanced subtree.
	Combine(f NodeFactory[T, S], l, r *Node[T, S]) *Node[T, S]
}

// Modifier decides the edit at one key position. orig is the entry currently
// at the key, nil if absent; the returned Modification must echo orig and must
// not change the key, only the associated count. Violating either is a
// programming error, not a runtime condition.
type Modifier[T any, S constraints.Unsigned] interface {
	Modify(v T, orig *Node[T, S]) Modification[T, S]
}

// MutationRule bundles the collaborators for one call to Mutate.
type MutationRule[T any, S constraints.Unsigned] struct {
	Mod     Modifier[T, S]
	Policy  BalancePolicy[T, S]
	Factory NodeFactory[T, S]
}
