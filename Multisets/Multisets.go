// Package Multisets provides sorted multisets: collections of ordered
// elements with per-element occurrence counts and sub-range views.
package Multisets

import (
	"errors"
	"fmt"

	"golang.org/x/exp/constraints"
)

// ErrConcurrentMod reports a mutation that lost its root swap to another
// goroutine. Nothing was changed; the caller decides whether to retry.
var ErrConcurrentMod = errors.New("Multisets: tree modified concurrently")

// ElemRangeError reports an element handed to a view's mutator that lies
// outside the view's range.
type ElemRangeError[T any] struct {
	Elem T
}

func (e ElemRangeError[T]) Error() string {
	return fmt.Sprintf("Multisets: element %v outside the view's range", e.Elem)
}

// Entry is an immutable snapshot of one element and its occurrence count at
// the time it was enumerated. Later changes to the multiset don't reflect
// into already-returned entries.
type Entry[T any, S constraints.Unsigned] struct {
	Elem  T
	Count S
}

// Multiset of ordered elements. Mutators returning an error surface
// ErrConcurrentMod when they lose a concurrent root swap; they never retry on
// their own, so a caller wanting last-writer-wins semantics wraps them in its
// own retry loop. All operations are synchronous and bounded.
type Multiset[T any, S constraints.Unsigned] interface {
	//Count of occurrences of v, 0 if absent or outside the view's range.
	Count(v T) S
	//Add occs occurrences of v, returning the count before.
	Add(v T, occs S) (S, error)
	//Remove up to occs occurrences of v, returning the count before.
	Remove(v T, occs S) (S, error)
	//SetCount of v to occs regardless of the count before, which is returned.
	//occs==0 removes v.
	SetCount(v T, occs S) (S, error)
	//SetCountIf sets the count of v to occs only if it is exp at the time of
	//the swap; reports whether it was.
	SetCountIf(v T, exp, occs S) (bool, error)
	//Size is the total number of occurrences.
	Size() S
	//Distinct is the number of distinct elements.
	Distinct() S
	//Minimum element of the multiset.
	Minimum() (T, bool)
	//Maximum element of the multiset.
	Maximum() (T, bool)
	//Ascend returns a closure iterator over the entries in ascending order,
	//like the InOrder iterators of the trees in this module.
	Ascend() func() (Entry[T, S], bool)
	//Descend is Ascend in descending order.
	Descend() func() (Entry[T, S], bool)
	//Clear removes every element within the view's range.
	Clear() error
}
