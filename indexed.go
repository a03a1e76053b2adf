package kukan

// IndexedData is implemented by handles that can key an external
// acceleration structure directly. DenseIndex must be a small zero-based
// integer suitable for indexing a slice; Sentinel returns the value such
// structures use as a tombstone or "no key" marker.
//
// Structures must compare against Sentinel before using DenseIndex: the
// sentinel's dense index is not a real slot.
type IndexedData[K any] interface {
	comparable
	DenseIndex() int
	Sentinel() K
}

// DenseIndex returns the slot position of the handle.
func (i Index) DenseIndex() int {
	return int(i.position)
}

// Sentinel returns InvalidIndex.
func (Index) Sentinel() Index {
	return invalidIndex
}
