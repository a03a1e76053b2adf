package kukan

import (
	"strings"
	"testing"
)

// checkInvariants walks the free list and the slots and verifies that they
// agree with each other and with Len.
func checkInvariants[T any](t *testing.T, s *Space[T]) {
	t.Helper()
	seen := make(map[uint32]bool)
	l := s.free
	for {
		pos, ok := l.position()
		if !ok {
			break
		}
		if int(pos) >= len(s.items) {
			t.Fatalf("free list points out of range: %d >= %d", pos, len(s.items))
		}
		if seen[pos] {
			t.Fatalf("free list is cyclic at position %d", pos)
		}
		seen[pos] = true
		if s.items[pos].used {
			t.Fatalf("free list references used slot %d", pos)
		}
		l = s.items[pos].next
	}
	used := 0
	for i, e := range s.items {
		if e.used {
			used++
			continue
		}
		if !seen[uint32(i)] {
			t.Fatalf("free slot %d is not on the free list", i)
		}
	}
	if used != s.Len() {
		t.Fatalf("Len() = %d, but %d slots are used", s.Len(), used)
	}
}

func expectPanic(t *testing.T, contains string, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected panic containing %q", contains)
		}
		msg, _ := r.(string)
		if !strings.Contains(msg, contains) {
			t.Fatalf("expected panic containing %q, got %v", contains, r)
		}
	}()
	fn()
}

// go test -run ^TestInsertGet$ . -count 1
func TestInsertGet(t *testing.T) {
	s := New[string]()
	a := s.Insert("a")
	b := s.Insert("b")

	if a == b {
		t.Fatalf("expected distinct handles, got %v twice", a)
	}
	if v, ok := s.Get(a); !ok || *v != "a" {
		t.Errorf("Get(a) = %v, %v; want a, true", v, ok)
	}
	if v, ok := s.Get(b); !ok || *v != "b" {
		t.Errorf("Get(b) = %v, %v; want b, true", v, ok)
	}
	if s.Len() != 2 {
		t.Errorf("expected Len 2, got %d", s.Len())
	}
	checkInvariants(t, s)
}

func TestGetMutatesInPlace(t *testing.T) {
	s := New[int]()
	idx := s.Insert(1)
	v, _ := s.Get(idx)
	*v = 42
	if got := *s.At(idx); got != 42 {
		t.Errorf("expected 42 after mutation, got %d", got)
	}
}

func TestCapacityScenario(t *testing.T) {
	s := WithCapacity[int](4)
	values := []int{10, 20, 30, 40, 50}
	handles := make([]Index, 0, len(values))
	growths := 0
	for _, v := range values {
		before := s.Cap()
		handles = append(handles, s.Insert(v))
		if s.Cap() != before {
			growths++
		}
	}
	if growths != 1 {
		t.Errorf("expected exactly one growth, got %d", growths)
	}
	if s.Cap() != 8 {
		t.Errorf("expected capacity 8 after growth, got %d", s.Cap())
	}
	for i, h := range handles {
		v, ok := s.Get(h)
		if !ok || *v != values[i] {
			t.Errorf("Get(%v) = %v, %v; want %d", h, v, ok, values[i])
		}
	}
	checkInvariants(t, s)
}

func TestExhaustionThenGrowth(t *testing.T) {
	for _, n := range []int{1, 2, 7, 64} {
		s := WithCapacity[int](n)
		for i := range n + 1 {
			s.Insert(i)
		}
		if s.Len() != n+1 {
			t.Errorf("n=%d: expected Len %d, got %d", n, n+1, s.Len())
		}
		if s.Cap() < n+1 {
			t.Errorf("n=%d: expected Cap >= %d, got %d", n, n+1, s.Cap())
		}
		checkInvariants(t, s)
	}
}

func TestTryInsert(t *testing.T) {
	s := WithCapacity[int](2)
	if _, ok := s.TryInsert(1); !ok {
		t.Fatal("first TryInsert failed")
	}
	if _, ok := s.TryInsert(2); !ok {
		t.Fatal("second TryInsert failed")
	}

	t.Run("Exhausted", func(t *testing.T) {
		idx, ok := s.TryInsert(3)
		if ok {
			t.Fatalf("expected TryInsert to fail on a full space, got %v", idx)
		}
		if s.Len() != 2 || s.Cap() != 2 {
			t.Errorf("full space changed: Len %d Cap %d", s.Len(), s.Cap())
		}
		checkInvariants(t, s)
	})

	t.Run("AfterReserve", func(t *testing.T) {
		s.Reserve(1)
		idx, ok := s.TryInsert(3)
		if !ok {
			t.Fatal("TryInsert failed after Reserve")
		}
		if *s.At(idx) != 3 {
			t.Errorf("expected 3, got %d", *s.At(idx))
		}
	})
}

func TestWithCapacityMinimum(t *testing.T) {
	for _, n := range []int{-5, 0, 1} {
		if c := WithCapacity[int](n).Cap(); c != 1 {
			t.Errorf("WithCapacity(%d).Cap() = %d, want 1", n, c)
		}
	}
	if c := New[int]().Cap(); c != DefaultCapacity {
		t.Errorf("New().Cap() = %d, want %d", c, DefaultCapacity)
	}
}

func TestZeroSpace(t *testing.T) {
	var s Space[int]
	if _, ok := s.TryInsert(1); ok {
		t.Fatal("expected TryInsert on zero space to fail")
	}
	idx := s.Insert(7)
	if v, ok := s.Get(idx); !ok || *v != 7 {
		t.Errorf("Get = %v, %v; want 7, true", v, ok)
	}
	if idx == (Index{}) {
		t.Error("zero Index handed out")
	}
	checkInvariants(t, &s)
}

func TestAllocationOrder(t *testing.T) {
	s := WithCapacity[int](3)
	for i := range 3 {
		if idx := s.Insert(i); idx.Position() != uint32(i) {
			t.Errorf("insert %d landed at position %d", i, idx.Position())
		}
	}

	t.Run("ReservedBeforeFreed", func(t *testing.T) {
		s := WithCapacity[int](2)
		a := s.Insert(0)
		s.Insert(1)
		s.Remove(a)
		s.Reserve(2)
		var got []uint32
		for i := range 3 {
			got = append(got, s.Insert(i).Position())
		}
		want := []uint32{2, 3, 0}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("allocation order = %v, want %v", got, want)
			}
		}
		checkInvariants(t, s)
	})

	t.Run("FreedLIFO", func(t *testing.T) {
		s := WithCapacity[int](4)
		h := []Index{s.Insert(0), s.Insert(1), s.Insert(2), s.Insert(3)}
		s.Remove(h[1])
		s.Remove(h[3])
		if p := s.Insert(9).Position(); p != 3 {
			t.Errorf("expected most recently freed slot 3, got %d", p)
		}
		if p := s.Insert(9).Position(); p != 1 {
			t.Errorf("expected slot 1, got %d", p)
		}
	})
}

func TestStaleHandle(t *testing.T) {
	s := New[string]()
	old := s.Insert("old")
	if v, ok := s.Remove(old); !ok || v != "old" {
		t.Fatalf("Remove = %q, %v; want old, true", v, ok)
	}
	fresh := s.Insert("new")

	if fresh.Position() != old.Position() {
		t.Fatalf("expected slot reuse, got positions %d and %d", old.Position(), fresh.Position())
	}
	if fresh.Generation() <= old.Generation() {
		t.Errorf("expected generation to advance, old %d new %d", old.Generation(), fresh.Generation())
	}
	if _, ok := s.Get(old); ok {
		t.Error("stale handle resolved after reuse")
	}
	if s.Contains(old) {
		t.Error("Contains(stale) = true")
	}
	if v, ok := s.Get(fresh); !ok || *v != "new" {
		t.Errorf("Get(fresh) = %v, %v", v, ok)
	}
	expectPanic(t, "kukan: invalid index", func() { s.At(old) })
	checkInvariants(t, s)
}

func TestStaleAcrossManyReuses(t *testing.T) {
	s := WithCapacity[int](3)
	seen := make(map[Index]bool)
	live := []Index{s.Insert(0), s.Insert(1), s.Insert(2)}
	for _, h := range live {
		seen[h] = true
	}
	for round := range 200 {
		victim := live[round%len(live)]
		s.Remove(victim)
		h := s.Insert(round)
		if seen[h] {
			t.Fatalf("handle %v issued twice", h)
		}
		seen[h] = true
		live[round%len(live)] = h
	}
	alive := 0
	for h := range seen {
		if s.Contains(h) {
			alive++
		}
	}
	if alive != 3 {
		t.Errorf("expected exactly 3 resolvable handles, got %d", alive)
	}
	checkInvariants(t, s)
}

func TestRemove(t *testing.T) {
	s := New[int]()
	a := s.Insert(1)
	b := s.Insert(2)

	if _, ok := s.Remove(a); !ok {
		t.Fatal("first Remove failed")
	}
	if _, ok := s.Remove(a); ok {
		t.Error("second Remove of the same handle succeeded")
	}
	if _, ok := s.Remove(FromRawParts(100, 1)); ok {
		t.Error("Remove of out-of-range handle succeeded")
	}
	if _, ok := s.Remove(InvalidIndex()); ok {
		t.Error("Remove of sentinel succeeded")
	}
	if s.Len() != 1 {
		t.Errorf("expected Len 1, got %d", s.Len())
	}
	if *s.At(b) != 2 {
		t.Errorf("remaining value changed: %d", *s.At(b))
	}
	checkInvariants(t, s)
}

func TestRemoveReleasesValue(t *testing.T) {
	s := New[*int]()
	x := 5
	idx := s.Insert(&x)
	s.Remove(idx)
	if s.items[idx.position].value != nil {
		t.Error("freed slot still references the removed value")
	}
}

func TestGetUnknown(t *testing.T) {
	s := New[int]()
	s.Insert(1)
	cases := map[string]Index{
		"out of range": FromRawParts(1000, 1),
		"free slot":    FromRawParts(2, 1),
		"wrong gen":    FromRawParts(0, 99),
		"sentinel":     InvalidIndex(),
		"zero":         {},
	}
	for name, idx := range cases {
		t.Run(name, func(t *testing.T) {
			if v, ok := s.Get(idx); ok {
				t.Errorf("Get(%v) = %v, want absent", idx, *v)
			}
			expectPanic(t, "invalid index", func() { s.At(idx) })
		})
	}
}

func TestCorruptFreeList(t *testing.T) {
	s := WithCapacity[int](2)
	pos, _ := s.free.position()
	s.items[pos].used = true
	expectPanic(t, "kukan: corrupt free list", func() { s.TryInsert(1) })
}

func TestReserveOverflow(t *testing.T) {
	s := &Space[int]{}
	expectPanic(t, "kukan: capacity overflow", func() { s.Reserve(maxCapacity + 1) })
}

func TestSentinelDistinct(t *testing.T) {
	s := New[int]()
	sentinel := InvalidIndex()
	for i := range 10_000 {
		if idx := s.Insert(i); idx == sentinel || idx.IsInvalid() {
			t.Fatalf("insert %d returned the sentinel", i)
		}
	}
}

func TestOrderIndependence(t *testing.T) {
	s := WithCapacity[string](2)
	filler := []Index{s.Insert("x"), s.Insert("y"), s.Insert("z")}
	s.Remove(filler[0])
	s.Remove(filler[2])

	a := s.Insert("A")
	b := s.Insert("B")
	c := s.Insert("C")
	for want, h := range map[string]Index{"A": a, "B": b, "C": c} {
		if got := *s.At(h); got != want {
			t.Errorf("At(%v) = %q, want %q", h, got, want)
		}
	}
	checkInvariants(t, s)
}

func TestClear(t *testing.T) {
	s := New[int]()
	var handles []Index
	for i := range 6 {
		handles = append(handles, s.Insert(i))
	}
	capacity := s.Cap()
	s.Clear()

	if s.Len() != 0 {
		t.Errorf("expected Len 0 after Clear, got %d", s.Len())
	}
	if s.Cap() != capacity {
		t.Errorf("Clear changed capacity from %d to %d", capacity, s.Cap())
	}
	for _, h := range handles {
		if s.Contains(h) {
			t.Errorf("handle %v still live after Clear", h)
		}
	}
	fresh := s.Insert(100)
	if fresh.Position() != 0 {
		t.Errorf("expected first slot after Clear, got %d", fresh.Position())
	}
	if s.Contains(handles[0]) {
		t.Error("old handle resolves to the value inserted after Clear")
	}
	checkInvariants(t, s)
}
