package ordmap

import (
	"cmp"
	"iter"

	"github.com/ordbuf/ordmap/alloc"
)

// Iterators over a Map come in four flavours with different ownership:
//
//   - borrowing (All, Backward, Keys, Values, Iter): read the live
//     entries in place; any mutation of the map invalidates them;
//   - mutable (IterMut, AllMut, ValuesMut): yield value pointers for
//     in-place update; at most one may be live, and it is invalidated
//     by any mutation through the map itself;
//   - draining (Drain, DrainAll): detach every entry from the map up
//     front and yield them; the map is empty the moment the iterator is
//     created;
//   - owning (Extract, ExtractAll, ExtractKeys, ExtractValues): take
//     the map's allocation with them; Close returns it to the
//     allocator.
//
// Invalidation is enforced at runtime through the map's generation
// counter: a stale iterator panics on its next use rather than reading
// shifted or dead slots.

const errModified = "ordmap: container modified during iteration"

// All returns an in-order key-value sequence borrowing from the map.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		gen := m.gen
		for _, e := range m.buf.Slice() {
			if m.gen != gen {
				panic(errModified)
			}
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// Backward returns a reverse-order key-value sequence borrowing from
// the map.
func (m *Map[K, V]) Backward() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		gen := m.gen
		s := m.buf.Slice()
		for i := len(s) - 1; i >= 0; i-- {
			if m.gen != gen {
				panic(errModified)
			}
			if !yield(s[i].Key, s[i].Value) {
				return
			}
		}
	}
}

// Keys returns an in-order key sequence borrowing from the map.
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range m.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// Values returns an in-order value sequence borrowing from the map.
func (m *Map[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		gen := m.gen
		for _, e := range m.buf.Slice() {
			if m.gen != gen {
				panic(errModified)
			}
			if !yield(e.Value) {
				return
			}
		}
	}
}

// Iter is a borrowing cursor over a map's entries. It is double-ended
// (Next and NextBack consume opposite ends of the remaining window),
// exact-size (Len is the exact remaining count), and fused (once
// exhausted it stays exhausted).
type Iter[K cmp.Ordered, V any] struct {
	m   *Map[K, V]
	gen uint64
	s   []Entry[K, V] // remaining window of the live slice
}

// Iter returns a cursor over the map's entries in key order.
func (m *Map[K, V]) Iter() *Iter[K, V] {
	return &Iter[K, V]{m: m, gen: m.gen, s: m.buf.Slice()}
}

// Next yields the smallest remaining entry.
func (it *Iter[K, V]) Next() (Entry[K, V], bool) {
	if len(it.s) == 0 {
		var zero Entry[K, V]
		return zero, false
	}
	if it.m.gen != it.gen {
		panic(errModified)
	}
	e := it.s[0]
	it.s = it.s[1:]
	return e, true
}

// NextBack yields the largest remaining entry.
func (it *Iter[K, V]) NextBack() (Entry[K, V], bool) {
	if len(it.s) == 0 {
		var zero Entry[K, V]
		return zero, false
	}
	if it.m.gen != it.gen {
		panic(errModified)
	}
	e := it.s[len(it.s)-1]
	it.s = it.s[:len(it.s)-1]
	return e, true
}

// Len returns the exact number of entries not yet yielded.
func (it *Iter[K, V]) Len() int {
	return len(it.s)
}

// IterMut is a mutable cursor over a map's entries. It yields value
// pointers for in-place update; keys stay immutable so the sorted
// invariant cannot be broken through it.
//
// Creating an IterMut invalidates every other live iterator over the
// map, and any mutation through the map (including creating another
// IterMut) invalidates it. A stale IterMut panics on use.
type IterMut[K cmp.Ordered, V any] struct {
	m      *Map[K, V]
	gen    uint64
	lo, hi int
}

// IterMut returns a mutable cursor over the map's entries in key
// order.
func (m *Map[K, V]) IterMut() *IterMut[K, V] {
	m.gen++
	return &IterMut[K, V]{m: m, gen: m.gen, hi: m.buf.Len()}
}

// Next yields the smallest remaining key and a pointer to its value.
func (it *IterMut[K, V]) Next() (K, *V, bool) {
	if it.lo >= it.hi {
		var zero K
		return zero, nil, false
	}
	if it.m.gen != it.gen {
		panic(errModified)
	}
	e := &it.m.buf.Slice()[it.lo]
	it.lo++
	return e.Key, &e.Value, true
}

// NextBack yields the largest remaining key and a pointer to its
// value.
func (it *IterMut[K, V]) NextBack() (K, *V, bool) {
	if it.lo >= it.hi {
		var zero K
		return zero, nil, false
	}
	if it.m.gen != it.gen {
		panic(errModified)
	}
	it.hi--
	e := &it.m.buf.Slice()[it.hi]
	return e.Key, &e.Value, true
}

// Len returns the exact number of entries not yet yielded.
func (it *IterMut[K, V]) Len() int {
	return it.hi - it.lo
}

// AllMut returns an in-order sequence of keys and value pointers.
func (m *Map[K, V]) AllMut() iter.Seq2[K, *V] {
	return func(yield func(K, *V) bool) {
		it := m.IterMut()
		for {
			k, v, ok := it.Next()
			if !ok {
				return
			}
			if !yield(k, v) {
				return
			}
		}
	}
}

// ValuesMut returns an in-order sequence of value pointers for
// in-place update.
func (m *Map[K, V]) ValuesMut() iter.Seq[*V] {
	return func(yield func(*V) bool) {
		for _, v := range m.AllMut() {
			if !yield(v) {
				return
			}
		}
	}
}

// Drain is a draining cursor. Creating it removes every entry from the
// source map immediately; the entries are then yielded in key order.
// Whatever is not yielded is dropped by Close, so after the cursor is
// either exhausted or closed the map is empty and no entry has been
// yielded twice.
//
// The map retains its capacity. Mutating the map while a Drain is live
// makes the cursor panic on its next use.
type Drain[K cmp.Ordered, V any] struct {
	m   *Map[K, V]
	gen uint64
	s   []Entry[K, V] // detached live prefix, still in the map's storage
}

// Drain empties the map and returns a cursor over the removed entries.
// Close the cursor if it may not be fully consumed.
func (m *Map[K, V]) Drain() *Drain[K, V] {
	s := m.buf.Slice()
	m.buf.SetLen(0)
	m.gen++
	return &Drain[K, V]{m: m, gen: m.gen, s: s}
}

// Next yields the smallest remaining entry.
func (d *Drain[K, V]) Next() (Entry[K, V], bool) {
	var zero Entry[K, V]
	if len(d.s) == 0 {
		return zero, false
	}
	if d.m.gen != d.gen {
		panic(errModified)
	}
	e := d.s[0]
	d.s[0] = zero
	d.s = d.s[1:]
	return e, true
}

// NextBack yields the largest remaining entry.
func (d *Drain[K, V]) NextBack() (Entry[K, V], bool) {
	var zero Entry[K, V]
	if len(d.s) == 0 {
		return zero, false
	}
	if d.m.gen != d.gen {
		panic(errModified)
	}
	e := d.s[len(d.s)-1]
	d.s[len(d.s)-1] = zero
	d.s = d.s[:len(d.s)-1]
	return e, true
}

// Len returns the exact number of entries not yet yielded.
func (d *Drain[K, V]) Len() int {
	return len(d.s)
}

// Close drops the entries not yet yielded. Idempotent.
//
// Panics if the map was mutated since the drain began: the detached
// window may then overlap slots the map has reclaimed, and zeroing
// them would corrupt live entries.
func (d *Drain[K, V]) Close() {
	if len(d.s) != 0 && d.m.gen != d.gen {
		panic(errModified)
	}
	var zero Entry[K, V]
	for i := range d.s {
		d.s[i] = zero
	}
	d.s = nil
}

// DrainAll empties the map and returns a key-value sequence over the
// removed entries. Entries not consumed (early break) are dropped when
// the sequence ends.
func (m *Map[K, V]) DrainAll() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		d := m.Drain()
		defer d.Close()
		for {
			e, ok := d.Next()
			if !ok {
				return
			}
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// Extract is an owning cursor. Creating it moves the map's whole
// allocation into the cursor, leaving the map empty and unallocated.
// Entries are yielded by move; Close drops whatever was not yielded
// and returns the allocation to the allocator, exactly once.
//
// Always close an Extract, even a fully consumed one: the allocation
// is not returned until Close.
type Extract[K cmp.Ordered, V any] struct {
	storage []Entry[K, V]
	lo, hi  int
	a       alloc.Allocator[Entry[K, V]]
	closed  bool
}

// Extract consumes the map's contents and storage, returning an owning
// cursor over the entries in key order. Taking the storage counts as a
// mutation, so any live borrowing iterator is invalidated.
func (m *Map[K, V]) Extract() *Extract[K, V] {
	storage, n, a := m.TakeRawParts()
	return &Extract[K, V]{storage: storage, hi: n, a: a}
}

// Next yields the smallest remaining entry, moving it out of the
// buffer.
func (it *Extract[K, V]) Next() (Entry[K, V], bool) {
	var zero Entry[K, V]
	if it.lo >= it.hi {
		return zero, false
	}
	e := it.storage[it.lo]
	it.storage[it.lo] = zero
	it.lo++
	return e, true
}

// NextBack yields the largest remaining entry, moving it out of the
// buffer.
func (it *Extract[K, V]) NextBack() (Entry[K, V], bool) {
	var zero Entry[K, V]
	if it.lo >= it.hi {
		return zero, false
	}
	it.hi--
	e := it.storage[it.hi]
	it.storage[it.hi] = zero
	return e, true
}

// Len returns the exact number of entries not yet yielded.
func (it *Extract[K, V]) Len() int {
	return it.hi - it.lo
}

// Close drops the entries not yet yielded and releases the allocation
// to the allocator. Idempotent.
func (it *Extract[K, V]) Close() {
	if it.closed {
		return
	}
	it.closed = true
	var zero Entry[K, V]
	for i := it.lo; i < it.hi; i++ {
		it.storage[i] = zero
	}
	it.lo, it.hi = 0, 0
	if it.storage != nil {
		it.a.Release(it.storage)
		it.storage = nil
	}
}

// ExtractAll consumes the map and returns a key-value sequence over
// its entries. The allocation is released when the sequence ends, even
// on early break.
func (m *Map[K, V]) ExtractAll() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		it := m.Extract()
		defer it.Close()
		for {
			e, ok := it.Next()
			if !ok {
				return
			}
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// ExtractKeys consumes the map and returns a key sequence.
func (m *Map[K, V]) ExtractKeys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range m.ExtractAll() {
			if !yield(k) {
				return
			}
		}
	}
}

// ExtractValues consumes the map and returns a value sequence.
func (m *Map[K, V]) ExtractValues() iter.Seq[V] {
	return func(yield func(V) bool) {
		it := m.Extract()
		defer it.Close()
		for {
			e, ok := it.Next()
			if !ok {
				return
			}
			if !yield(e.Value) {
				return
			}
		}
	}
}
