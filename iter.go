package kukan

import "iter"

// Iter walks the live values of a Space in position order, skipping free
// slots. It borrows the Space: inserting or removing while iterating is not
// supported.
//
// Usage:
//
//	it := space.Iter()
//	for it.Next() {
//		idx, v := it.Index(), it.Value()
//		...
//	}
type Iter[T any] struct {
	items     []entry[T]
	pos       int // next position to examine
	remaining int // live values not yet yielded
	index     Index
	value     *T
}

// Iter returns a borrowing iterator over the live values of s.
func (s *Space[T]) Iter() *Iter[T] {
	return &Iter[T]{items: s.items, remaining: s.len}
}

// Next advances to the next live value. Once it returns false it keeps
// returning false.
func (it *Iter[T]) Next() bool {
	for it.remaining > 0 && it.pos < len(it.items) {
		p := it.pos
		it.pos++
		e := &it.items[p]
		if !e.used {
			continue
		}
		it.remaining--
		it.index = Index{position: uint32(p), generation: e.generation}
		it.value = &e.value
		return true
	}
	it.remaining = 0
	it.pos = len(it.items)
	it.value = nil
	return false
}

// Index returns the handle of the current value.
func (it *Iter[T]) Index() Index {
	return it.index
}

// Value returns a pointer to the current value, or nil before the first
// call to Next and after exhaustion.
func (it *Iter[T]) Value() *T {
	return it.value
}

// Len returns the exact number of live values not yet yielded.
func (it *Iter[T]) Len() int {
	return it.remaining
}

// All returns a range-over-func sequence of handles and value pointers.
func (s *Space[T]) All() iter.Seq2[Index, *T] {
	return func(yield func(Index, *T) bool) {
		it := s.Iter()
		for it.Next() {
			if !yield(it.index, it.value) {
				return
			}
		}
	}
}

// Values returns a range-over-func sequence of value pointers.
func (s *Space[T]) Values() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		it := s.Iter()
		for it.Next() {
			if !yield(it.value) {
				return
			}
		}
	}
}

// Drain is a consuming iterator: it owns the slots taken from a Space and
// hands each live value out exactly once.
type Drain[T any] struct {
	items     []entry[T]
	pos       int
	remaining int
	index     Index
	value     T
}

// Drain moves every value out of s into the returned iterator. s is left
// empty with no storage, and its generation advances so handles issued
// before the drain stay stale after s grows again. Abandoning the iterator
// early simply drops the remaining values.
func (s *Space[T]) Drain() *Drain[T] {
	d := &Drain[T]{items: s.items, remaining: s.len}
	s.items = nil
	s.free = 0
	s.len = 0
	s.bumpGeneration()
	return d
}

// Next advances to the next live value. Once it returns false it keeps
// returning false.
func (d *Drain[T]) Next() bool {
	var zero T
	for d.remaining > 0 && d.pos < len(d.items) {
		p := d.pos
		d.pos++
		e := &d.items[p]
		if !e.used {
			continue
		}
		d.remaining--
		d.index = Index{position: uint32(p), generation: e.generation}
		d.value = e.value
		e.value = zero
		return true
	}
	d.remaining = 0
	d.items = nil
	d.value = zero
	return false
}

// Index returns the handle the current value was stored under.
func (d *Drain[T]) Index() Index {
	return d.index
}

// Value returns the current value.
func (d *Drain[T]) Value() T {
	return d.value
}

// Len returns the exact number of values not yet yielded.
func (d *Drain[T]) Len() int {
	return d.remaining
}
