package kukan

// growSlots returns s lengthened by n slots. The backing array at least
// doubles when it has to be reallocated, but never past maxCapacity slots;
// the caller has already checked that len(s)+n fits.
func growSlots[T any](s []entry[T], n int) []entry[T] {
	want := len(s) + n
	if cap(s) >= want {
		return s[:want]
	}
	newCap := int(min(uint64(max(2*cap(s), want)), maxCapacity))
	grown := make([]entry[T], want, newCap)
	copy(grown, s)
	return grown
}
