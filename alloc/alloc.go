// Package alloc defines the allocator abstraction backing the ordmap
// containers, together with the allocators shipped with the library.
//
// An Allocator hands out typed slices whose full capacity belongs to the
// requesting container. The container is responsible for returning every
// allocation through exactly one Release call; allocators are free to
// treat Release as a hard reclaim (see Arena), so reading a slice after
// releasing it is a contract violation.
//
// Allocation failure is not a recoverable condition: allocators panic
// rather than return an error. Callers of a general-purpose container are
// not expected to recover from heap exhaustion, only to avoid it by
// sizing requests sanely.
package alloc

import "fmt"

// Allocator provides backing storage for a container of E elements.
//
// All three methods operate on whole allocations: the slices passed to
// Grow and Release must be exactly the slices previously returned by
// Allocate or Grow, never subslices.
type Allocator[E any] interface {
	// Allocate returns a zeroed slice with len == cap == n.
	// Panics if the request cannot be satisfied.
	Allocate(n int) []E

	// Grow returns a slice with len == cap == n holding the contents of
	// buf in its prefix. n must be greater than len(buf). The returned
	// slice replaces buf, which must not be used afterwards.
	// Panics if the request cannot be satisfied.
	Grow(buf []E, n int) []E

	// Release returns an allocation to the allocator. Releasing the same
	// allocation twice, or using it after release, is a contract
	// violation.
	Release(buf []E)
}

// Heap is the default allocator. It allocates from the Go heap and
// leaves reclamation to the garbage collector.
//
// The zero value is ready to use.
type Heap[E any] struct{}

func (Heap[E]) Allocate(n int) []E {
	if n < 0 {
		panic(fmt.Sprintf("alloc: negative allocation size %d", n))
	}
	return make([]E, n)
}

func (Heap[E]) Grow(buf []E, n int) []E {
	if n <= len(buf) {
		panic(fmt.Sprintf("alloc: grow from %d to %d is not a growth", len(buf), n))
	}
	next := make([]E, n)
	copy(next, buf)
	return next
}

// Release is a no-op: the garbage collector reclaims heap allocations
// once the container drops its reference.
func (Heap[E]) Release(buf []E) {}
