package Go_Collect

import (
	"sync/atomic"
	"unsafe"
)

// Ref is an atomic cell holding a *T. It is the single point of shared
// mutable state for structures that publish immutable versions of themselves:
// writers compute a new version off to the side and CompareAndSwap it in,
// readers Load a snapshot and need no further synchronization.
// The zero value holds nil.
type Ref[T any] struct {
	p unsafe.Pointer
}

func (u *Ref[T]) Load() *T {
	return (*T)(atomic.LoadPointer(&u.p))
}
func (u *Ref[T]) Store(v *T) {
	atomic.StorePointer(&u.p, unsafe.Pointer(v))
}
func (u *Ref[T]) Swap(v *T) *T {
	return (*T)(atomic.SwapPointer(&u.p, unsafe.Pointer(v)))
}
func (u *Ref[T]) CompareAndSwap(exp, v *T) bool {
	return atomic.CompareAndSwapPointer(&u.p, unsafe.Pointer(exp), unsafe.Pointer(v))
}
