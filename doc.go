// Package ordmap implements ordered associative containers backed by a
// single contiguous sorted buffer: Map, an ordered map, and Set, an
// ordered set built on top of it.
//
// Keys are compared directly through their natural ordering; this is a
// sorted-array container, not a hash table. Lookup is O(log n) by
// binary search; insertion and removal are O(n) due to shifting;
// iteration is O(n) and always yields key order.
//
// # Basic Usage
//
//	m := ordmap.New[int, string]()
//	m.Insert(5, "a")
//	m.Insert(1, "b")
//	for k, v := range m.All() {
//	    fmt.Println(k, v) // 1 b, then 5 a
//	}
//
// Storage is pluggable: every container owns exactly one allocation
// obtained from an alloc.Allocator, growing it as needed and releasing
// it exactly once. The default is the Go heap; alloc.Arena keeps
// pointer-free containers in anonymous memory mappings outside the
// garbage-collected heap:
//
//	arena := alloc.NewArena[ordmap.Entry[uint64, uint64]]()
//	m := ordmap.NewIn[uint64, uint64](arena)
//	defer m.Release()
//
// # Iterators
//
// Borrowing iteration (All, Backward, Keys, Values, Iter) reads
// entries in place. Drain empties the container up front and yields
// the removed entries. Extract takes the whole allocation with it and
// must be closed so the allocation is returned to the allocator; the
// seq adapters (DrainAll, ExtractAll, ...) close themselves even on
// early break. Iterators are invalidated by mutation and panic rather
// than observe a shifted buffer.
//
// Containers are single-threaded: they may move between goroutines,
// and read-only access may be shared, but mutation is never
// synchronized internally.
//
// # Package Structure
//
//   - Public API: map.go (Map), set.go (Set), iter.go (iterator
//     family), merge.go (set algebra), codec.go (JSON), hash.go
//     (structural hashing)
//   - Allocators: alloc/ (Allocator, Heap, Arena, Counting)
//   - Storage engine: internal/rawbuf/ (the growable typed buffer)
//   - Benchmarks: cmd/bench
package ordmap
