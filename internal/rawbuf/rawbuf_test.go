package rawbuf

import (
	"math"
	"testing"

	"github.com/ordbuf/ordmap/alloc"
)

func newCounting(t *testing.T) *alloc.Counting[int] {
	t.Helper()
	return alloc.NewCounting[int](nil)
}

func TestNewInIsUnallocated(t *testing.T) {
	b := NewIn[int](alloc.Heap[int]{})
	if b.Cap() != 0 || b.Len() != 0 || b.Storage() != nil {
		t.Fatalf("fresh buffer: cap=%d len=%d storage=%v", b.Cap(), b.Len(), b.Storage())
	}
	// Releasing an unallocated buffer is a no-op.
	b.Release()
}

func TestZeroValueDefaultsToHeap(t *testing.T) {
	var b Buffer[int]
	b.Reserve(2)
	b.InsertAt(0, 7)
	if b.Len() != 1 || b.Cap() != 2 {
		t.Fatalf("len=%d cap=%d", b.Len(), b.Cap())
	}
	if b.Allocator() == nil {
		t.Fatal("allocator still nil after use")
	}
	b.Release()
}

func TestWithCapacity(t *testing.T) {
	c := newCounting(t)
	b := WithCapacityIn(10, c)
	if b.Cap() != 10 || b.Len() != 0 {
		t.Fatalf("cap=%d len=%d", b.Cap(), b.Len())
	}
	if c.Allocs() != 1 {
		t.Fatalf("allocs = %d", c.Allocs())
	}
	b.Release()
	if c.Outstanding() != 0 {
		t.Fatalf("outstanding = %d", c.Outstanding())
	}
}

func TestWithCapacityZeroStaysUnallocated(t *testing.T) {
	c := newCounting(t)
	b := WithCapacityIn(0, c)
	if b.Storage() != nil || c.Allocs() != 0 {
		t.Fatal("zero capacity should not allocate")
	}
	b.Release()
}

func TestReserveFreshAndGrow(t *testing.T) {
	c := newCounting(t)
	b := NewIn[int](c)

	b.Reserve(4)
	if b.Cap() != 4 || c.Allocs() != 1 || c.Grows() != 0 {
		t.Fatalf("fresh reserve: cap=%d allocs=%d grows=%d", b.Cap(), c.Allocs(), c.Grows())
	}

	b.InsertAt(0, 7)
	b.InsertAt(1, 9)
	b.Reserve(4)
	if b.Cap() != 8 || c.Grows() != 1 {
		t.Fatalf("grow reserve: cap=%d grows=%d", b.Cap(), c.Grows())
	}
	// Contents preserved across growth.
	if s := b.Slice(); s[0] != 7 || s[1] != 9 {
		t.Fatalf("contents lost on grow: %v", s)
	}

	b.Release()
	if c.Outstanding() != 0 {
		t.Fatalf("outstanding = %d", c.Outstanding())
	}
}

func TestInsertRemoveShifts(t *testing.T) {
	b := WithCapacityIn(8, alloc.Heap[int]{})
	b.InsertAt(0, 2)
	b.InsertAt(1, 4)
	b.InsertAt(1, 3) // middle
	b.InsertAt(0, 1) // front

	want := []int{1, 2, 3, 4}
	s := b.Slice()
	for i, v := range want {
		if s[i] != v {
			t.Fatalf("slice = %v, want %v", s, want)
		}
	}

	if got := b.RemoveAt(1); got != 2 {
		t.Fatalf("RemoveAt(1) = %d", got)
	}
	if b.Len() != 3 || b.Slice()[1] != 3 {
		t.Fatalf("after remove: len=%d slice=%v", b.Len(), b.Slice())
	}
	// The vacated slot is zeroed.
	if b.Storage()[3] != 0 {
		t.Fatalf("vacated slot not zeroed: %v", b.Storage())
	}
}

func TestTruncateZeroesTail(t *testing.T) {
	b := WithCapacityIn(4, alloc.Heap[int]{})
	for i := range 4 {
		b.InsertAt(i, i+1)
	}
	b.Truncate(1)
	if b.Len() != 1 {
		t.Fatalf("len = %d", b.Len())
	}
	for i, v := range b.Storage() {
		if i >= 1 && v != 0 {
			t.Fatalf("slot %d not zeroed: %v", i, b.Storage())
		}
	}
	// Truncate above the length is a no-op.
	b.Truncate(5)
	if b.Len() != 1 {
		t.Fatalf("len = %d after oversized truncate", b.Len())
	}
}

func TestSetLen(t *testing.T) {
	b := WithCapacityIn(4, alloc.Heap[int]{})
	b.Storage()[0] = 10
	b.Storage()[1] = 20
	b.SetLen(2)
	if s := b.Slice(); len(s) != 2 || s[1] != 20 {
		t.Fatalf("slice = %v", s)
	}
	b.SetLen(0)
	if b.Len() != 0 {
		t.Fatal("SetLen(0) ignored")
	}
}

func TestClone(t *testing.T) {
	c := newCounting(t)
	b := WithCapacityIn(8, c)
	b.InsertAt(0, 1)
	b.InsertAt(1, 2)

	dup := b.Clone()
	if dup.Cap() != 8 || dup.Len() != 2 {
		t.Fatalf("clone cap=%d len=%d", dup.Cap(), dup.Len())
	}
	dup.Slice()[0] = 99
	if b.Slice()[0] != 1 {
		t.Fatal("clone aliases original storage")
	}

	b.Release()
	dup.Release()
	if c.Outstanding() != 0 {
		t.Fatalf("outstanding = %d", c.Outstanding())
	}
}

func TestCloneUnallocated(t *testing.T) {
	b := NewIn[int](alloc.Heap[int]{})
	dup := b.Clone()
	if dup.Cap() != 0 || dup.Len() != 0 {
		t.Fatal("clone of unallocated buffer allocated")
	}
}

func TestShrink(t *testing.T) {
	c := newCounting(t)
	b := WithCapacityIn(16, c)
	for i := range 4 {
		b.InsertAt(i, i)
	}

	b.Shrink(8)
	if b.Cap() != 8 || b.Len() != 4 {
		t.Fatalf("cap=%d len=%d", b.Cap(), b.Len())
	}
	if c.Outstanding() != 1 {
		t.Fatalf("outstanding = %d (old allocation leaked?)", c.Outstanding())
	}

	b.Truncate(0)
	b.Shrink(0)
	if b.Cap() != 0 || b.Storage() != nil {
		t.Fatal("shrink to zero should release the allocation")
	}
	if c.Outstanding() != 0 {
		t.Fatalf("outstanding = %d", c.Outstanding())
	}
}

func TestShrinkBelowLengthPanics(t *testing.T) {
	b := WithCapacityIn(4, alloc.Heap[int]{})
	b.InsertAt(0, 1)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	b.Shrink(0)
}

func TestReleaseZeroesLivePrefix(t *testing.T) {
	// Capture the storage before release to observe the zeroing.
	var captured []int
	spy := spyAllocator{onRelease: func(buf []int) { captured = buf }}
	b := WithCapacityIn(4, spy)
	b.InsertAt(0, 7)
	b.InsertAt(1, 8)
	b.Release()

	if captured == nil {
		t.Fatal("release not forwarded to allocator")
	}
	for i, v := range captured {
		if v != 0 {
			t.Fatalf("slot %d not zeroed at release: %v", i, captured)
		}
	}
}

func TestTakeRawParts(t *testing.T) {
	c := newCounting(t)
	b := WithCapacityIn(4, c)
	b.InsertAt(0, 5)

	storage, n, a := b.TakeRawParts()
	if n != 1 || len(storage) != 4 || storage[0] != 5 {
		t.Fatalf("parts: n=%d storage=%v", n, storage)
	}
	if b.Cap() != 0 || b.Len() != 0 {
		t.Fatal("buffer not reset by TakeRawParts")
	}
	// Ownership moved: the buffer must not release on its own.
	b.Release()
	if c.Outstanding() != 1 {
		t.Fatalf("outstanding = %d, want 1 (caller owns)", c.Outstanding())
	}

	rebuilt := FromRawParts(storage, n, a)
	if rebuilt.Len() != 1 || rebuilt.Slice()[0] != 5 {
		t.Fatal("rebuilt buffer wrong")
	}
	rebuilt.Release()
	if c.Outstanding() != 0 {
		t.Fatalf("outstanding = %d", c.Outstanding())
	}
}

func TestAllocatePanicsOnAbsurdCapacity(t *testing.T) {
	b := NewIn[int](alloc.Heap[int]{})
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	// Would overflow the byte size of the allocation.
	b.Allocate(math.MaxInt/8 + 1)
}

// spyAllocator forwards to the heap and records releases.
type spyAllocator struct {
	onRelease func([]int)
}

func (spyAllocator) Allocate(n int) []int { return make([]int, n) }

func (spyAllocator) Grow(buf []int, n int) []int {
	next := make([]int, n)
	copy(next, buf)
	return next
}

func (s spyAllocator) Release(buf []int) {
	if s.onRelease != nil {
		s.onRelease(buf)
	}
}
