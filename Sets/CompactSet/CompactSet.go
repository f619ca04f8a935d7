package CompactSet

import (
	Go_Collect "github.com/g-m-twostay/go-collect"
)

// CompactSet is the regular result of a Builder: an immutable open-addressed
// table probed linearly from the smeared hash, plus the elements in insertion
// order for Range. Built tables are guaranteed free of probe runs reaching
// the flooding threshold.
type CompactSet[E comparable] struct {
	elems []E
	table []E
	used  Go_Collect.BitArray
	hash  func(E) uint
	mask  uint
}

// Has [Sets.Set.Has]
// Time: expected O(1), O(log n) worst case on a built table.
func (u *CompactSet[E]) Has(e E) bool {
	for i := Go_Collect.Smear(u.hash(e)) & u.mask; u.used.Get(int(i)); i = (i + 1) & u.mask {
		if u.table[i] == e {
			return true
		}
	}
	return false
}

// Size [Sets.Set.Size]
func (u *CompactSet[E]) Size() uint {
	return uint(len(u.elems))
}

// Range [Sets.Set.Range]
func (u *CompactSet[E]) Range(f func(E) bool) {
	for _, e := range u.elems {
		if !f(e) {
			return
		}
	}
}

// fallbackSet is the flooding-resistant result: the runtime map's per-process
// seeded hashing can't be steered into long collision chains by element
// choice alone.
type fallbackSet[E comparable] struct {
	m     map[E]struct{}
	elems []E
}

func (u *fallbackSet[E]) Has(e E) bool {
	_, in := u.m[e]
	return in
}
func (u *fallbackSet[E]) Size() uint {
	return uint(len(u.elems))
}
func (u *fallbackSet[E]) Range(f func(E) bool) {
	for _, e := range u.elems {
		if !f(e) {
			return
		}
	}
}

type emptySet[E comparable] struct{}

func (emptySet[E]) Has(E) bool         { return false }
func (emptySet[E]) Size() uint         { return 0 }
func (emptySet[E]) Range(func(E) bool) {}

type singleton[E comparable] struct {
	e E
}

func (u singleton[E]) Has(e E) bool { return u.e == e }
func (singleton[E]) Size() uint     { return 1 }
func (u singleton[E]) Range(f func(E) bool) {
	f(u.e)
}
