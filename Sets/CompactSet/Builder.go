// Package CompactSet builds immutable sets over an open-addressed,
// linear-probing hash table, with detection of hash flooding. A probe run
// longer than the table size justifies switches the builder, one-way and for
// good, onto the runtime map, whose per-process seeded hashing shrugs off the
// collision patterns that degrade a plain table; the caller only ever sees a
// Sets.Set with a possibly different performance profile.
package CompactSet

import (
	"fmt"
	"math/bits"
	"slices"
	"unsafe"

	Go_Collect "github.com/g-m-twostay/go-collect"
	"github.com/g-m-twostay/go-collect/Sets"
)

const (
	// desiredLoadFactor is the fraction of the table allowed to fill before
	// doubling.
	desiredLoadFactor = 0.7
	// maxRunMultiplier scales log2(tableSize) into the probe-run length
	// treated as probable flooding.
	maxRunMultiplier = 13
	// maxTableSize caps table growth; the element indexes must fit uint32.
	maxTableSize = 1 << 30
)

// TooLargeError reports a requested size beyond what the largest table can
// hold under the load factor.
type TooLargeError struct {
	Size uint
}

func (e TooLargeError) Error() string {
	return fmt.Sprintf("CompactSet: %d elements exceed the largest table", e.Size)
}

// maxRunBeforeFallback for a power-of-two table size.
func maxRunBeforeFallback(tableSize uint) uint {
	return maxRunMultiplier * uint(bits.Len(tableSize)-1)
}

// chooseTableSize returns the smallest power of two keeping size elements
// under desiredLoadFactor, always at least size+2 slots. Panics with
// TooLargeError past maxTableSize.
func chooseTableSize(size uint) uint {
	if float64(size) > desiredLoadFactor*maxTableSize {
		panic(TooLargeError{size})
	}
	t := uint(1) << bits.Len(size+1)
	for float64(size) > desiredLoadFactor*float64(t) {
		t <<= 1
	}
	return t
}

// Builder accumulates distinct elements for one or more Build calls. Not
// thread-safe. The zero value is meaningless; use New or New1.
type Builder[E comparable] struct {
	elems  []E      // deduplicated, insertion order
	table  []uint32 // 1-based indexes into elems; 0 is empty; nil once fb took over
	hash   func(E) uint
	maxRun uint
	fb     map[E]struct{} // non-nil once flooding was detected
}

// New Builder expecting roughly size elements, hashing with a per-process
// random seed like the hash tables elsewhere in this module. Strings hash by
// content; every other type hashes by memory representation, which is only
// sound when equal values are bit-identical. For element types carrying
// internal pointers (structs with string fields, interfaces) supply a
// content-based hash through New1 instead.
func New[E comparable](size uint) *Builder[E] {
	seed := Go_Collect.NewHasher()
	if _, s := any(*new(E)).(string); s {
		return New1[E](size, func(e E) uint { return seed.HashString(any(e).(string)) })
	}
	return New1[E](size, func(e E) uint { return seed.HashMem(unsafe.Pointer(&e), unsafe.Sizeof(e)) })
}

// New1 is the version of New for a caller-supplied hash function.
func New1[E comparable](size uint, hash func(E) uint) *Builder[E] {
	ts := chooseTableSize(max(size, 2))
	return &Builder[E]{elems: make([]E, 0, size), table: make([]uint32, ts), hash: hash, maxRun: maxRunBeforeFallback(ts)}
}

// Put e into the builder. Returns true if e wasn't already present.
// Time: expected O(1)
func (u *Builder[E]) Put(e E) bool {
	if u.fb != nil {
		if _, in := u.fb[e]; in {
			return false
		}
		u.fb[e] = struct{}{}
		u.elems = append(u.elems, e)
		return true
	}
	mask := uint(len(u.table)) - 1
	for i, run := Go_Collect.Smear(u.hash(e))&mask, uint(0); ; i, run = (i+1)&mask, run+1 {
		if run > u.maxRun {
			u.degrade()
			return u.Put(e)
		}
		if ti := u.table[i]; ti == 0 {
			u.elems = append(u.elems, e)
			u.table[i] = uint32(len(u.elems))
			if float64(len(u.elems)) > desiredLoadFactor*float64(len(u.table)) {
				u.rebuild(uint(len(u.table)) << 1)
			}
			return true
		} else if u.elems[ti-1] == e {
			return false
		}
	}
}

// rebuild the table at size ts by replaying the deduplicated elements in
// insertion order; probe chains are never rehashed in place.
func (u *Builder[E]) rebuild(ts uint) {
	if ts > maxTableSize {
		panic(TooLargeError{uint(len(u.elems))})
	}
	u.table = make([]uint32, ts)
	u.maxRun = maxRunBeforeFallback(ts)
	mask := ts - 1
	for x, e := range u.elems {
		for i, run := Go_Collect.Smear(u.hash(e))&mask, uint(0); ; i, run = (i+1)&mask, run+1 {
			if run > u.maxRun {
				u.degrade()
				return
			}
			if u.table[i] == 0 {
				u.table[i] = uint32(x + 1)
				break
			}
		}
	}
}

// degrade is the one-way switch onto the fallback store, replaying every
// deduplicated element. Never reversed.
func (u *Builder[E]) degrade() {
	u.fb = make(map[E]struct{}, len(u.elems))
	for _, e := range u.elems {
		u.fb[e] = struct{}{}
	}
	u.table = nil
}

// Clone returns an independent Builder with the same contents and mode.
func (u *Builder[E]) Clone() *Builder[E] {
	c := *u
	c.elems = slices.Clone(u.elems)
	c.table = slices.Clone(u.table)
	if u.fb != nil {
		c.fb = make(map[E]struct{}, len(u.fb))
		for e := range u.fb {
			c.fb[e] = struct{}{}
		}
	}
	return &c
}

// Build an immutable set of everything Put so far. The builder stays usable.
// Empty and singleton results carry no table at all. Before freezing a
// regular table the whole of it is rescanned for flooding the incremental
// check couldn't see; a flagged table is built on the fallback store instead,
// so a regular result never holds an occupied run reaching the threshold and
// lookups on it stay within O(log n) probes.
// Time: O(n)
func (u *Builder[E]) Build() Sets.Set[E] {
	switch len(u.elems) {
	case 0:
		return emptySet[E]{}
	case 1:
		return singleton[E]{u.elems[0]}
	}
	if u.fb != nil || floodingDetected(u.table, u.maxRun) {
		m := make(map[E]struct{}, len(u.elems))
		for _, e := range u.elems {
			m[e] = struct{}{}
		}
		return &fallbackSet[E]{m, slices.Clone(u.elems)}
	}
	c := &CompactSet[E]{
		elems: slices.Clone(u.elems),
		table: make([]E, len(u.table)),
		used:  Go_Collect.NewBitArray(len(u.table)),
		hash:  u.hash,
		mask:  uint(len(u.table)) - 1,
	}
	for i, ti := range u.table {
		if ti != 0 {
			c.table[i] = u.elems[ti-1]
			c.used.Set(i)
		}
	}
	return c
}

// floodingDetected scans for any run of occupied slots, wraparound included,
// of length at least maxRun. An ungapped stretch of that length anywhere in
// the table means some probe sequence crosses all of it.
func floodingDetected(table []uint32, maxRun uint) bool {
	n := uint(len(table))
	start := n
	for i := uint(0); i < n; i++ {
		if table[i] == 0 {
			start = i
			break
		}
	}
	if start == n { // no empty slot at all
		return true
	}
	for i, run := start, uint(0); ; {
		if i = (i + 1) & (n - 1); i == start {
			return false
		}
		if table[i] != 0 {
			if run++; run >= maxRun {
				return true
			}
		} else {
			run = 0
		}
	}
}
