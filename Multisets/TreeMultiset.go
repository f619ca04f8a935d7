package Multisets

import (
	"cmp"

	Go_Collect "github.com/g-m-twostay/go-collect"
	"github.com/g-m-twostay/go-collect/Trees"
	"golang.org/x/exp/constraints"
)

// TreeMultiset is a sorted multiset over a persistent size-balanced BST. The
// current root lives in a single atomic Ref; every mutator reads the root,
// computes a whole new subtree path functionally, then compare-and-swaps the
// root. A lost swap surfaces as ErrConcurrentMod instead of being retried
// silently, so interference is observable and no update is ever lost without
// notice. Readers racing with writers always see a fully formed pre- or
// post-mutation tree.
//
// Sub-range views share the root Ref of the multiset they were cut from and
// narrow the range; a write through any view is visible to all views over the
// same underlying data. S should be a wide upper bound for the total
// occurrence count, as with the size types of the other trees in this module.
type TreeMultiset[T any, S constraints.Unsigned] struct {
	root *Go_Collect.Ref[Trees.Node[T, S]]
	rng  Trees.Range[T]
	cmp  func(T, T) int
}

// New TreeMultiset under the natural ordering of T.
func New[T cmp.Ordered, S constraints.Unsigned]() *TreeMultiset[T, S] {
	return New1[T, S](cmp.Compare[T])
}

// New1 is the version of New for a caller-supplied ordering, which must be a
// side-effect-free total order.
func New1[T any, S constraints.Unsigned](compare func(T, T) int) *TreeMultiset[T, S] {
	return &TreeMultiset[T, S]{new(Go_Collect.Ref[Trees.Node[T, S]]), Trees.All(compare), compare}
}

// Count [Multiset.Count]
// Time: O(D); Space: O(1)
func (u *TreeMultiset[T, S]) Count(v T) S {
	if !u.rng.Contains(v) {
		return 0
	}
	for cur := u.root.Load(); cur != nil; {
		if c := u.cmp(v, cur.Elem()); c < 0 {
			cur = cur.Left()
		} else if c > 0 {
			cur = cur.Right()
		} else {
			return cur.Count()
		}
	}
	return 0
}

// Add [Multiset.Add]. Rejects elements outside the view's range with
// ElemRangeError. occs==0 degenerates to a read.
// Time: O(D)
func (u *TreeMultiset[T, S]) Add(v T, occs S) (S, error) {
	if !u.rng.Contains(v) {
		return 0, ElemRangeError[T]{v}
	}
	return u.mutate(v, func(old S) S { return old + occs })
}

// Remove [Multiset.Remove]. Clamps at zero; removing an absent or
// out-of-range element is a no-op returning 0.
// Time: O(D)
func (u *TreeMultiset[T, S]) Remove(v T, occs S) (S, error) {
	if !u.rng.Contains(v) {
		return 0, nil
	}
	return u.mutate(v, func(old S) S {
		if old <= occs {
			return 0
		}
		return old - occs
	})
}

// SetCount [Multiset.SetCount]. Rejects elements outside the view's range
// with ElemRangeError.
// Time: O(D)
func (u *TreeMultiset[T, S]) SetCount(v T, occs S) (S, error) {
	if !u.rng.Contains(v) {
		return 0, ElemRangeError[T]{v}
	}
	return u.mutate(v, func(S) S { return occs })
}

// SetCountIf [Multiset.SetCountIf]. The condition is checked against the same
// root snapshot the swap is attempted on, so a true return means the count
// went from exp to occs atomically.
// Time: O(D)
func (u *TreeMultiset[T, S]) SetCountIf(v T, exp, occs S) (bool, error) {
	if !u.rng.Contains(v) {
		return false, ElemRangeError[T]{v}
	}
	prev, err := u.mutate(v, func(old S) S {
		if old != exp {
			return old
		}
		return occs
	})
	return err == nil && prev == exp, err
}

// mutate runs one point mutation mapping the old count of v to f(old) and
// publishes it with a single compare-and-swap of the root.
func (u *TreeMultiset[T, S]) mutate(v T, f func(S) S) (S, error) {
	res := Trees.Mutate(u.cmp, Trees.MutationRule[T, S]{
		Mod:     countModifier[T, S]{f},
		Policy:  Trees.PointRebalance[T, S]{},
		Factory: Trees.CountingFactory[T, S]{},
	}, u.root.Load(), v)
	var prev S
	if e := res.OrigEntry(); e != nil {
		prev = e.Count()
	}
	if res.NewRoot() == res.OrigRoot() {
		return prev, nil
	}
	if !u.root.CompareAndSwap(res.OrigRoot(), res.NewRoot()) {
		return prev, ErrConcurrentMod
	}
	return prev, nil
}

// Size [Multiset.Size]
// Time: O(D); Space: O(1)
func (u *TreeMultiset[T, S]) Size() S {
	return Trees.TotalInRange[T, S](Trees.Occurrences[T, S]{}, u.rng, u.root.Load())
}

// Distinct [Multiset.Distinct]
// Time: O(D); Space: O(1)
func (u *TreeMultiset[T, S]) Distinct() S {
	return Trees.TotalInRange[T, S](Trees.DistinctElems[T, S]{}, u.rng, u.root.Load())
}

// Minimum [Multiset.Minimum]
// Time: O(D)
func (u *TreeMultiset[T, S]) Minimum() (T, bool) {
	if p := Trees.FurthestPath(u.rng, Trees.Left, u.root.Load()); !p.Empty() {
		return p.Tip().Elem(), true
	}
	return *new(T), false
}

// Maximum [Multiset.Maximum]
// Time: O(D)
func (u *TreeMultiset[T, S]) Maximum() (T, bool) {
	if p := Trees.FurthestPath(u.rng, Trees.Right, u.root.Load()); !p.Empty() {
		return p.Tip().Elem(), true
	}
	return *new(T), false
}

// HeadMultiset is the view of the elements below hi. The view shares this
// multiset's root, so writes through either are visible to both.
// Time: O(1)
func (u *TreeMultiset[T, S]) HeadMultiset(hi T, bt Trees.BoundType) *TreeMultiset[T, S] {
	return &TreeMultiset[T, S]{u.root, u.rng.Intersect(Trees.UpTo(u.cmp, hi, bt)), u.cmp}
}

// TailMultiset is the view of the elements above lo, sharing this multiset's
// root like HeadMultiset.
// Time: O(1)
func (u *TreeMultiset[T, S]) TailMultiset(lo T, bt Trees.BoundType) *TreeMultiset[T, S] {
	return &TreeMultiset[T, S]{u.root, u.rng.Intersect(Trees.DownTo(u.cmp, lo, bt)), u.cmp}
}

// SubMultiset is the view of the elements between lo and hi, sharing this
// multiset's root. Panics with InvalidRangeError when lo is above hi.
// Time: O(1)
func (u *TreeMultiset[T, S]) SubMultiset(lo T, loT Trees.BoundType, hi T, hiT Trees.BoundType) *TreeMultiset[T, S] {
	return &TreeMultiset[T, S]{u.root, u.rng.Intersect(Trees.Between(u.cmp, lo, loT, hi, hiT)), u.cmp}
}

// Clear [Multiset.Clear]. Removes the view's whole range in one bulk
// deletion, published with the same single root swap as point mutations.
// Calling it again without intervening writes is a no-op.
// Time: O(n)
func (u *TreeMultiset[T, S]) Clear() error {
	root := u.root.Load()
	if Trees.TotalInRange[T, S](Trees.DistinctElems[T, S]{}, u.rng, root) == 0 {
		return nil
	}
	nr := Trees.MinusRange(u.rng, Trees.FullRebalance[T, S]{}, Trees.CountingFactory[T, S]{}, root)
	if !u.root.CompareAndSwap(root, nr) {
		return ErrConcurrentMod
	}
	return nil
}

// Ascend [Multiset.Ascend]. The returned closure walks the tree version
// current at the call to Ascend for everything it hasn't yielded yet; entries
// already returned are immutable snapshots regardless of later writes.
// Time: f(): amortized O(1) at each call to the returned function.
func (u *TreeMultiset[T, S]) Ascend() func() (Entry[T, S], bool) {
	p := Trees.FurthestPath(u.rng, Trees.Left, u.root.Load())
	return func() (e Entry[T, S], ok bool) {
		if p.Empty() {
			return
		}
		tip := p.Tip()
		if u.rng.TooHigh(tip.Elem()) {
			p.Drain()
			return
		}
		e, ok = Entry[T, S]{tip.Elem(), tip.Count()}, true
		p.Next(Trees.Right)
		return
	}
}

// Descend [Multiset.Descend]
// Time: f(): amortized O(1) at each call to the returned function.
func (u *TreeMultiset[T, S]) Descend() func() (Entry[T, S], bool) {
	p := Trees.FurthestPath(u.rng, Trees.Right, u.root.Load())
	return func() (e Entry[T, S], ok bool) {
		if p.Empty() {
			return
		}
		tip := p.Tip()
		if u.rng.TooLow(tip.Elem()) {
			p.Drain()
			return
		}
		e, ok = Entry[T, S]{tip.Elem(), tip.Count()}, true
		p.Next(Trees.Left)
		return
	}
}

// countModifier turns a pure old-count-to-new-count function into a Modifier:
// 0 to nonzero inserts, nonzero to 0 deletes, nonzero to nonzero rebuilds in
// place, and a fixed point changes nothing.
type countModifier[T any, S constraints.Unsigned] struct {
	f func(S) S
}

func (m countModifier[T, S]) Modify(v T, orig *Trees.Node[T, S]) Trees.Modification[T, S] {
	var old S
	if orig != nil {
		old = orig.Count()
	}
	switch n := m.f(old); {
	case n == old:
		return Trees.Unchanged(orig)
	case old == 0:
		return Trees.Rebalanced(orig, Trees.CountingFactory[T, S]{}.Leaf(v, n))
	case n == 0:
		return Trees.Rebalanced[T, S](orig, nil)
	default:
		return Trees.Rebuilt(orig, Trees.CountingFactory[T, S]{}.Leaf(v, n))
	}
}
