// Package rawbuf implements the growable typed buffer backing the
// ordmap containers.
//
// A Buffer owns a single allocation of element slots obtained from an
// alloc.Allocator. Exactly the first Len slots are live; the remainder
// is spare capacity that is never read or exposed. The buffer is the
// only component that talks to the allocator, and it upholds two
// lifecycle rules on behalf of the whole library:
//
//   - every element leaves the buffer exactly once: it is either moved
//     out to the caller (RemoveAt, TakeRawParts) or zeroed in place
//     (Truncate, Release) so the garbage collector can reclaim anything
//     it references;
//   - every allocation is returned to its allocator through exactly one
//     Release, unless ownership is transferred out via TakeRawParts.
//
// Several methods are unchecked primitives with documented caller
// contracts rather than runtime validation; they are for the container
// layer, not general use.
package rawbuf

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/ordbuf/ordmap/alloc"
)

// Buffer owns a contiguous run of element slots.
//
// The zero value is an empty, unallocated buffer; it defaults to the
// heap allocator on its first allocation. Construct with NewIn or
// WithCapacityIn to use a different allocator.
type Buffer[E any] struct {
	storage []E // full capacity; nil when unallocated
	n       int // live prefix length, n <= len(storage)
	a       alloc.Allocator[E]
}

// NewIn returns an empty, unallocated buffer using a.
func NewIn[E any](a alloc.Allocator[E]) Buffer[E] {
	return Buffer[E]{a: a}
}

// WithCapacityIn returns an empty buffer with one allocation sized for
// capacity elements.
//
// Panics if the allocation fails or capacity exceeds the maximum
// representable buffer size.
func WithCapacityIn[E any](capacity int, a alloc.Allocator[E]) Buffer[E] {
	b := NewIn(a)
	b.Allocate(capacity)
	return b
}

// FromRawParts reassembles a buffer from a storage slice, a live
// length, and the allocator that produced the storage.
//
// Caller contract: storage was returned by a, 0 <= n <= len(storage),
// and the first n slots hold valid elements. None of this is checked.
func FromRawParts[E any](storage []E, n int, a alloc.Allocator[E]) Buffer[E] {
	return Buffer[E]{storage: storage, n: n, a: a}
}

// maxCapacity returns the largest element count whose byte size fits in
// an int.
func maxCapacity[E any]() int {
	size := int(unsafe.Sizeof(*new(E)))
	if size == 0 {
		return math.MaxInt
	}
	return math.MaxInt / size
}

// Allocate replaces the buffer's storage with a fresh allocation sized
// for capacity elements and resets the length to zero.
//
// Any previous allocation is leaked, not released: Allocate is a
// low-level primitive for construction paths that have already dealt
// with the old storage.
//
// Panics if capacity exceeds the maximum representable buffer size or
// the allocator fails.
func (b *Buffer[E]) Allocate(capacity int) {
	if capacity < 0 || capacity > maxCapacity[E]() {
		panic(fmt.Sprintf("rawbuf: capacity %d out of range for element size %d", capacity, unsafe.Sizeof(*new(E))))
	}
	if capacity == 0 {
		b.storage = nil
		b.n = 0
		return
	}
	b.storage = b.Allocator().Allocate(capacity)
	b.n = 0
}

// Reserve grows the buffer by additional element slots, preserving the
// live prefix. On an unallocated buffer it performs a fresh allocation
// of exactly additional slots.
//
// Panics if the new capacity exceeds the maximum representable buffer
// size or the allocator fails.
func (b *Buffer[E]) Reserve(additional int) {
	if additional <= 0 {
		return
	}
	if b.storage == nil {
		b.Allocate(additional)
		return
	}
	newCap := len(b.storage) + additional
	if newCap < 0 || newCap > maxCapacity[E]() {
		panic(fmt.Sprintf("rawbuf: capacity %d out of range for element size %d", newCap, unsafe.Sizeof(*new(E))))
	}
	b.storage = b.a.Grow(b.storage, newCap)
}

// SetLen sets the live length to n without touching any slot.
//
// Caller contract: n <= Cap(), and the slots being added were written
// beforehand, or the slots being dropped will never be read again.
func (b *Buffer[E]) SetLen(n int) {
	b.n = n
}

// InsertAt opens a gap at index i by shifting the tail up one slot and
// writes e into it, growing the length by one.
//
// Caller contract: 0 <= i <= Len() and Len() < Cap().
func (b *Buffer[E]) InsertAt(i int, e E) {
	copy(b.storage[i+1:b.n+1], b.storage[i:b.n])
	b.storage[i] = e
	b.n++
}

// RemoveAt moves the element at index i out of the buffer, closes the
// gap by shifting the tail down one slot, and shrinks the length by
// one. The vacated slot is zeroed.
//
// Caller contract: 0 <= i < Len().
func (b *Buffer[E]) RemoveAt(i int) E {
	e := b.storage[i]
	copy(b.storage[i:b.n-1], b.storage[i+1:b.n])
	var zero E
	b.storage[b.n-1] = zero
	b.n--
	return e
}

// Truncate drops the live elements at indices [n, Len()), zeroing their
// slots, and sets the length to n. A no-op if n >= Len().
func (b *Buffer[E]) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	var zero E
	for i := n; i < b.n; i++ {
		b.storage[i] = zero
	}
	if n < b.n {
		b.n = n
	}
}

// Slice returns the live prefix. The slice aliases the buffer and is
// invalidated by any mutation.
func (b *Buffer[E]) Slice() []E {
	return b.storage[:b.n]
}

// Storage returns the full-capacity backing slice, or nil when
// unallocated. Slots beyond Len are spare capacity and must not be
// read as elements.
func (b *Buffer[E]) Storage() []E {
	return b.storage
}

// Len returns the number of live elements.
func (b *Buffer[E]) Len() int {
	return b.n
}

// Cap returns the total slot count of the current allocation.
func (b *Buffer[E]) Cap() int {
	return len(b.storage)
}

// Allocator returns the buffer's allocator, defaulting a zero-value
// buffer to the heap.
func (b *Buffer[E]) Allocator() alloc.Allocator[E] {
	if b.a == nil {
		b.a = alloc.Heap[E]{}
	}
	return b.a
}

// Clone returns a buffer with the same capacity, allocator, and a copy
// of the live prefix.
func (b *Buffer[E]) Clone() Buffer[E] {
	if b.storage == nil {
		return NewIn(b.a)
	}
	next := WithCapacityIn(len(b.storage), b.a)
	copy(next.storage, b.storage[:b.n])
	next.n = b.n
	return next
}

// Shrink reallocates the buffer down to capacity slots, which must be
// at least Len(). Shrinking to zero releases the allocation entirely.
//
// Panics if capacity < Len().
func (b *Buffer[E]) Shrink(capacity int) {
	if capacity < b.n {
		panic(fmt.Sprintf("rawbuf: shrink to %d below live length %d", capacity, b.n))
	}
	if b.storage == nil || capacity >= len(b.storage) {
		return
	}
	old := b.storage
	if capacity == 0 {
		b.storage = nil
	} else {
		next := b.a.Allocate(capacity)
		copy(next, old[:b.n])
		b.storage = next
	}
	b.a.Release(old)
}

// Release drops all live elements and returns the allocation to the
// allocator, leaving the buffer empty and unallocated. Safe to call on
// an unallocated buffer.
func (b *Buffer[E]) Release() {
	if b.storage == nil {
		b.n = 0
		return
	}
	b.Truncate(0)
	storage := b.storage
	b.storage = nil
	b.a.Release(storage)
}

// TakeRawParts transfers ownership of the allocation out of the buffer,
// leaving it empty and unallocated. The caller assumes responsibility
// for releasing the returned storage to the returned allocator.
func (b *Buffer[E]) TakeRawParts() (storage []E, n int, a alloc.Allocator[E]) {
	storage, n, a = b.storage, b.n, b.a
	b.storage = nil
	b.n = 0
	return storage, n, a
}
