package Sets

// Set is an immutable collection of distinct elements.
type Set[E any] interface {
	//Has element e.
	Has(e E) bool
	//Size of the set.
	Size() uint
	//Range over the elements in insertion order and call f on them.
	//Stops when f returns false.
	Range(f func(E) bool)
}
