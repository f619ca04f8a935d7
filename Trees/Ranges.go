package Trees

import "fmt"

// BoundType tells whether a range endpoint itself belongs to the range.
type BoundType byte

const (
	Open BoundType = iota
	Closed
)

// InvalidRangeError reports a range constructed with lower above upper.
type InvalidRangeError[T any] struct {
	Lower, Upper T
}

func (e InvalidRangeError[T]) Error() string {
	return fmt.Sprintf("Trees: range lower bound %v above upper bound %v", e.Lower, e.Upper)
}

// Range is an immutable interval filter over an ordered type: an optional
// lower and upper cut, each open or closed, plus the ordering they are
// evaluated under. The zero value is meaningless; build Ranges with All,
// DownTo, UpTo or Between.
type Range[T any] struct {
	cmp          func(T, T) int
	lo, hi       T
	loT, hiT     BoundType
	hasLo, hasHi bool
}

// All elements under the given ordering.
func All[T any](cmp func(T, T) int) Range[T] {
	return Range[T]{cmp: cmp}
}

// DownTo holds the elements from lo upward.
func DownTo[T any](cmp func(T, T) int, lo T, bt BoundType) Range[T] {
	return Range[T]{cmp: cmp, lo: lo, loT: bt, hasLo: true}
}

// UpTo holds the elements from hi downward.
func UpTo[T any](cmp func(T, T) int, hi T, bt BoundType) Range[T] {
	return Range[T]{cmp: cmp, hi: hi, hiT: bt, hasHi: true}
}

// Between holds the elements between lo and hi. Panics with
// InvalidRangeError if lo is above hi, or equal with both ends open.
func Between[T any](cmp func(T, T) int, lo T, loT BoundType, hi T, hiT BoundType) Range[T] {
	if c := cmp(lo, hi); c > 0 || (c == 0 && loT == Open && hiT == Open) {
		panic(InvalidRangeError[T]{lo, hi})
	}
	return Range[T]{cmp: cmp, lo: lo, hi: hi, loT: loT, hiT: hiT, hasLo: true, hasHi: true}
}

func (u Range[T]) HasLowerBound() bool {
	return u.hasLo
}
func (u Range[T]) HasUpperBound() bool {
	return u.hasHi
}

// TooLow reports whether v falls below the lower cut.
func (u Range[T]) TooLow(v T) bool {
	if !u.hasLo {
		return false
	}
	c := u.cmp(u.lo, v)
	return c > 0 || (c == 0 && u.loT == Open)
}

// TooHigh reports whether v falls above the upper cut.
func (u Range[T]) TooHigh(v T) bool {
	if !u.hasHi {
		return false
	}
	c := u.cmp(u.hi, v)
	return c < 0 || (c == 0 && u.hiT == Open)
}

func (u Range[T]) Contains(v T) bool {
	return !u.TooLow(v) && !u.TooHigh(v)
}

// Intersect returns the range holding exactly the elements in both u and o.
// Both ranges must be under the same ordering; this isn't checkable on
// functions, so it is the caller's responsibility. A contradictory result
// normalizes to a canonical empty encoding (lower==upper, open lower, closed
// upper) instead of failing; it contains no element.
func (u Range[T]) Intersect(o Range[T]) Range[T] {
	n := Range[T]{cmp: u.cmp, lo: u.lo, hi: u.hi, loT: u.loT, hiT: u.hiT, hasLo: u.hasLo, hasHi: u.hasHi}
	if !n.hasLo {
		n.lo, n.loT, n.hasLo = o.lo, o.loT, o.hasLo
	} else if o.hasLo {
		if c := u.cmp(o.lo, n.lo); c > 0 || (c == 0 && o.loT == Open) {
			n.lo, n.loT = o.lo, o.loT
		}
	}
	if !n.hasHi {
		n.hi, n.hiT, n.hasHi = o.hi, o.hiT, o.hasHi
	} else if o.hasHi {
		if c := u.cmp(o.hi, n.hi); c < 0 || (c == 0 && o.hiT == Open) {
			n.hi, n.hiT = o.hi, o.hiT
		}
	}
	if n.hasLo && n.hasHi {
		if c := u.cmp(n.lo, n.hi); c > 0 || (c == 0 && n.loT == Open && n.hiT == Open) {
			n.lo, n.loT, n.hiT = n.hi, Open, Closed
		}
	}
	return n
}

// Reverse returns the same logical range under the reversed ordering, bounds
// swapped.
func (u Range[T]) Reverse() Range[T] {
	cmp := u.cmp
	return Range[T]{func(a, b T) int { return cmp(b, a) }, u.hi, u.lo, u.hiT, u.loT, u.hasHi, u.hasLo}
}
