// Package kukan implements a generational slot arena.
//
// A Space stores values in a dense slice of slots and hands out Index values
// that pair a slot position with a generation stamp. Unused slots are chained
// into an intrusive free list, so insertion and removal are O(1) and no slot
// is ever moved once allocated. A handle whose slot has been freed and reused
// no longer matches the slot's generation and is rejected by every lookup.
//
// Features:
//   - O(1) Insert, Get, At and Remove.
//   - Stale-handle detection through per-allocation generation stamps.
//   - Borrowing and consuming iterators with exact remaining counts.
//   - Index doubles as a dense key for external acceleration structures
//     through IndexedData.
//
// A Space is not safe for concurrent mutation; one owner drives all writes.
package kukan

import (
	"fmt"
	"math"
)

// DefaultCapacity is the number of slots reserved by New.
const DefaultCapacity = 4

// maxCapacity keeps math.MaxUint32 free for the sentinel position.
const maxCapacity = math.MaxUint32

// link is a free-list pointer: 0 means none, otherwise position+1. Encoding
// it this way makes the zero Space an empty, valid arena.
type link uint32

func linkTo(position uint32) link {
	return link(position + 1)
}

func (l link) position() (uint32, bool) {
	if l == 0 {
		return 0, false
	}
	return uint32(l - 1), true
}

// entry is one slot. A free entry holds only next; a used entry holds the
// generation it was allocated under and the value.
type entry[T any] struct {
	value      T
	generation uint32
	next       link
	used       bool
}

// Space is a generational slot arena of T values.
type Space[T any] struct {
	items      []entry[T]
	generation uint32 // stamp for the next allocation, never 0
	free       link   // head of the free list
	len        int    // number of used entries
}

// New creates a Space with DefaultCapacity free slots.
func New[T any]() *Space[T] {
	return WithCapacity[T](DefaultCapacity)
}

// WithCapacity creates a Space with n free slots already reserved, so the
// first n insertions do not grow the backing store.
//
// Parameters:
//   - n: The number of slots to pre-allocate. Values below 1 reserve 1.
//
// Returns:
//   - The newly created Space.
func WithCapacity[T any](n int) *Space[T] {
	s := &Space[T]{}
	s.Reserve(max(n, 1))
	return s
}

// Len returns the number of live values.
func (s *Space[T]) Len() int {
	return s.len
}

// Cap returns the number of slots, used or free.
func (s *Space[T]) Cap() int {
	return len(s.items)
}

// Reserve grows the backing store by n free slots. The new slots are linked
// in ascending position order and placed in front of the existing free list,
// so freshly reserved capacity is handed out before previously freed slots.
// Existing positions are never moved or invalidated.
//
// Parameters:
//   - n: The number of slots to add. Values below 1 are ignored.
func (s *Space[T]) Reserve(n int) {
	if n <= 0 {
		return
	}
	start := len(s.items)
	if uint64(n) > maxCapacity-uint64(start) {
		panic("kukan: capacity overflow")
	}
	end := start + n
	s.items = growSlots(s.items, n)
	for i := start; i < end-1; i++ {
		s.items[i] = entry[T]{next: linkTo(uint32(i + 1))}
	}
	s.items[end-1] = entry[T]{next: s.free}
	s.free = linkTo(uint32(start))
	if s.generation == 0 {
		s.generation = 1
	}
}

// tryAllocNextIndex pops the free-list head.
func (s *Space[T]) tryAllocNextIndex() (Index, bool) {
	pos, ok := s.free.position()
	if !ok {
		return Index{}, false
	}
	e := &s.items[pos]
	if e.used {
		panic("kukan: corrupt free list")
	}
	s.free = e.next
	s.len++
	return Index{position: pos, generation: s.generation}, true
}

// TryInsert stores value in the free-list head slot without growing the
// backing store.
//
// Parameters:
//   - value: The value to store.
//
// Returns:
//   - The handle of the stored value.
//   - false if no free slot was available. The Space keeps nothing in that
//     case, and the caller still owns value.
func (s *Space[T]) TryInsert(value T) (Index, bool) {
	idx, ok := s.tryAllocNextIndex()
	if !ok {
		return Index{}, false
	}
	s.items[idx.position] = entry[T]{value: value, generation: idx.generation, used: true}
	return idx, true
}

// Insert stores value and returns its handle, doubling capacity first if no
// free slot is available.
func (s *Space[T]) Insert(value T) Index {
	if idx, ok := s.TryInsert(value); ok {
		return idx
	}
	return s.insertSlowPath(value)
}

func (s *Space[T]) insertSlowPath(value T) Index {
	s.Reserve(max(len(s.items), 1))
	idx, ok := s.TryInsert(value)
	if !ok {
		panic("kukan: insert failed after reserve")
	}
	return idx
}

// lookup returns the used entry idx refers to, or nil when idx is out of
// range, free, or stale.
func (s *Space[T]) lookup(idx Index) *entry[T] {
	if int64(idx.position) >= int64(len(s.items)) {
		return nil
	}
	e := &s.items[idx.position]
	if !e.used || e.generation != idx.generation {
		return nil
	}
	return e
}

// Get returns the value idx refers to. The pointer stays valid until the
// next call that grows the Space (Insert, Reserve).
//
// Parameters:
//   - idx: The handle to look up.
//
// Returns:
//   - A pointer to the stored value.
//   - false if idx is stale, out of range or refers to a free slot.
func (s *Space[T]) Get(idx Index) (*T, bool) {
	e := s.lookup(idx)
	if e == nil {
		return nil, false
	}
	return &e.value, true
}

// Contains reports whether idx refers to a live value.
func (s *Space[T]) Contains(idx Index) bool {
	return s.lookup(idx) != nil
}

// At returns the value idx refers to and panics if the handle is not live.
// Use it only where liveness is already established; otherwise use Get.
func (s *Space[T]) At(idx Index) *T {
	e := s.lookup(idx)
	if e == nil {
		panic(fmt.Sprintf("kukan: invalid index %v", idx))
	}
	return &e.value
}

// Remove frees the slot idx refers to and returns the value it held. The
// space's generation advances, so idx and every copy of it become stale
// before the slot can be handed out again.
//
// Parameters:
//   - idx: The handle to remove.
//
// Returns:
//   - The removed value.
//   - false if idx was not live; nothing is changed in that case.
func (s *Space[T]) Remove(idx Index) (T, bool) {
	e := s.lookup(idx)
	if e == nil {
		var zero T
		return zero, false
	}
	value := e.value
	*e = entry[T]{next: s.free}
	s.free = linkTo(idx.position)
	s.len--
	s.bumpGeneration()
	return value, true
}

// Clear frees every slot, keeping the capacity. All outstanding handles
// become stale.
func (s *Space[T]) Clear() {
	n := len(s.items)
	if n == 0 {
		return
	}
	s.items = s.items[:0]
	s.free = 0
	s.len = 0
	s.Reserve(n)
	s.bumpGeneration()
}

// bumpGeneration advances the allocation stamp, skipping 0 on wrap so the
// zero Index is never handed out.
func (s *Space[T]) bumpGeneration() {
	s.generation++
	if s.generation == 0 {
		s.generation = 1
	}
}
