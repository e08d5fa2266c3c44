package ordmap

import (
	"cmp"
	"fmt"
	"iter"
	"slices"

	"github.com/ordbuf/ordmap/alloc"
	"github.com/ordbuf/ordmap/internal/rawbuf"
)

// minGrowth is the smallest capacity granted to a map growing from
// empty or near-empty storage.
const minGrowth = 4

// Entry is a key-value pair as stored by a Map: value-inline, no
// indirection.
type Entry[K cmp.Ordered, V any] struct {
	Key   K
	Value V
}

// Map is an ordered map from K to V backed by a single contiguous
// sorted buffer. Keys are compared directly through their natural
// ordering; there is no hashing.
//
// Lookup runs in O(log n); insertion and removal run in O(n) due to
// shifting, with amortized buffer growth. Iteration yields entries in
// ascending key order.
//
// A Map is not safe for concurrent use. It may be moved between
// goroutines, and read-only access may be shared across goroutines, as
// long as no mutation happens concurrently.
//
// The zero value is an empty map on the heap allocator, ready to use.
type Map[K cmp.Ordered, V any] struct {
	buf rawbuf.Buffer[Entry[K, V]]

	// gen counts mutations. Live iterators capture it at creation and
	// panic when it moves, the runtime stand-in for exclusive borrows.
	gen uint64
}

// New constructs an empty map on the default heap allocator. No memory
// is allocated until the first insertion.
func New[K cmp.Ordered, V any]() *Map[K, V] {
	return NewIn[K, V](alloc.Heap[Entry[K, V]]{})
}

// NewIn constructs an empty map using a for all storage.
func NewIn[K cmp.Ordered, V any](a alloc.Allocator[Entry[K, V]]) *Map[K, V] {
	return &Map[K, V]{buf: rawbuf.NewIn(a)}
}

// WithCapacity constructs an empty map pre-sized for capacity entries.
//
// Panics if the allocation fails.
func WithCapacity[K cmp.Ordered, V any](capacity int) *Map[K, V] {
	return WithCapacityIn[K, V](capacity, alloc.Heap[Entry[K, V]]{})
}

// WithCapacityIn constructs an empty map pre-sized for capacity entries
// using a for all storage.
//
// Panics if the allocation fails.
func WithCapacityIn[K cmp.Ordered, V any](capacity int, a alloc.Allocator[Entry[K, V]]) *Map[K, V] {
	return &Map[K, V]{buf: rawbuf.WithCapacityIn(capacity, a)}
}

// FromRawParts reassembles a map from storage previously produced by a
// (or handed out by TakeRawParts).
//
// Caller contract: storage came from a, 0 <= n <= len(storage), and the
// first n entries are sorted in strictly ascending key order with no
// duplicate keys. None of this is checked; a map built from
// inconsistent parts behaves unpredictably.
func FromRawParts[K cmp.Ordered, V any](storage []Entry[K, V], n int, a alloc.Allocator[Entry[K, V]]) *Map[K, V] {
	return &Map[K, V]{buf: rawbuf.FromRawParts(storage, n, a)}
}

// From constructs a map from a list of entries. Duplicate keys resolve
// last-wins, matching Insert's overwrite semantics.
func From[K cmp.Ordered, V any](entries []Entry[K, V]) *Map[K, V] {
	m := WithCapacity[K, V](len(entries))
	for _, e := range entries {
		m.Insert(e.Key, e.Value)
	}
	return m
}

// Collect constructs a map from a key-value sequence. Duplicate keys
// resolve last-wins.
func Collect[K cmp.Ordered, V any](seq iter.Seq2[K, V]) *Map[K, V] {
	m := New[K, V]()
	seq(func(k K, v V) bool {
		m.Insert(k, v)
		return true
	})
	return m
}

// search is the single lookup primitive: binary search over the live
// entries by key. Returns the entry index and true on a hit, or the
// index at which the key would be inserted and false on a miss.
func (m *Map[K, V]) search(key K) (int, bool) {
	return slices.BinarySearchFunc(m.buf.Slice(), key, func(e Entry[K, V], k K) int {
		return cmp.Compare(e.Key, k)
	})
}

// grow ensures at least additional spare slots, doubling the capacity
// when the buffer is full.
func (m *Map[K, V]) grow(additional int) {
	spare := m.buf.Cap() - m.buf.Len()
	if spare >= additional {
		return
	}
	need := additional - spare
	if amortized := m.buf.Cap(); amortized > need {
		need = amortized
	}
	if need < minGrowth {
		need = minGrowth
	}
	m.buf.Reserve(need)
}

// Insert associates value with key.
//
// If key is already present, its value is overwritten in place and the
// previous value is returned with replaced == true; the map does not
// grow or reorder. Otherwise the pair is inserted at its sorted
// position, growing the buffer if needed.
//
// Panics only if the buffer cannot be grown (allocation failure or
// capacity overflow).
func (m *Map[K, V]) Insert(key K, value V) (old V, replaced bool) {
	i, found := m.search(key)
	if found {
		slot := &m.buf.Slice()[i]
		old = slot.Value
		slot.Value = value
		m.gen++
		return old, true
	}
	m.grow(1)
	m.buf.InsertAt(i, Entry[K, V]{Key: key, Value: value})
	m.gen++
	return old, false
}

// Get returns the value associated with key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	if i, found := m.search(key); found {
		return m.buf.Slice()[i].Value, true
	}
	var zero V
	return zero, false
}

// GetMut returns a pointer to the value associated with key. The
// pointer aliases the map's buffer and is invalidated by any mutation
// of the map.
func (m *Map[K, V]) GetMut(key K) (*V, bool) {
	if i, found := m.search(key); found {
		return &m.buf.Slice()[i].Value, true
	}
	return nil, false
}

// GetKeyValue returns the stored key-value pair for key.
func (m *Map[K, V]) GetKeyValue(key K) (Entry[K, V], bool) {
	if i, found := m.search(key); found {
		return m.buf.Slice()[i], true
	}
	var zero Entry[K, V]
	return zero, false
}

// ContainsKey reports whether key is present.
func (m *Map[K, V]) ContainsKey(key K) bool {
	_, found := m.search(key)
	return found
}

// Remove removes key and returns its value. The map is unchanged on a
// miss.
func (m *Map[K, V]) Remove(key K) (V, bool) {
	e, ok := m.RemoveEntry(key)
	return e.Value, ok
}

// RemoveEntry removes key and returns the stored pair. The map is
// unchanged on a miss.
func (m *Map[K, V]) RemoveEntry(key K) (Entry[K, V], bool) {
	i, found := m.search(key)
	if !found {
		var zero Entry[K, V]
		return zero, false
	}
	e := m.buf.RemoveAt(i)
	m.gen++
	return e, true
}

// First returns the entry with the smallest key.
func (m *Map[K, V]) First() (Entry[K, V], bool) {
	if m.buf.Len() == 0 {
		var zero Entry[K, V]
		return zero, false
	}
	return m.buf.Slice()[0], true
}

// Last returns the entry with the largest key.
func (m *Map[K, V]) Last() (Entry[K, V], bool) {
	n := m.buf.Len()
	if n == 0 {
		var zero Entry[K, V]
		return zero, false
	}
	return m.buf.Slice()[n-1], true
}

// PopFirst removes and returns the entry with the smallest key.
func (m *Map[K, V]) PopFirst() (Entry[K, V], bool) {
	if m.buf.Len() == 0 {
		var zero Entry[K, V]
		return zero, false
	}
	e := m.buf.RemoveAt(0)
	m.gen++
	return e, true
}

// PopLast removes and returns the entry with the largest key.
func (m *Map[K, V]) PopLast() (Entry[K, V], bool) {
	n := m.buf.Len()
	if n == 0 {
		var zero Entry[K, V]
		return zero, false
	}
	e := m.buf.RemoveAt(n - 1)
	m.gen++
	return e, true
}

// Append moves all entries from other into m, leaving other empty.
// Keys present in both maps take other's value. When either map is
// empty the internal storage is swapped instead of inserting
// element-wise, so both maps must share an allocator (or the caller
// must not care which allocator ends up where).
func (m *Map[K, V]) Append(other *Map[K, V]) {
	if other == m || other.buf.Len() == 0 {
		return
	}
	if m.buf.Len() == 0 {
		m.buf, other.buf = other.buf, m.buf
		m.gen++
		other.gen++
		return
	}
	for _, e := range other.buf.Slice() {
		m.Insert(e.Key, e.Value)
	}
	other.Clear()
}

// Retain removes every entry for which keep returns false, preserving
// the order of the rest. keep may mutate the value through the pointer.
func (m *Map[K, V]) Retain(keep func(key K, value *V) bool) {
	s := m.buf.Slice()
	w := 0
	for i := range s {
		if keep(s[i].Key, &s[i].Value) {
			if w != i {
				s[w] = s[i]
			}
			w++
		}
	}
	m.buf.Truncate(w)
	m.gen++
}

// Clear removes all entries. The capacity is retained.
func (m *Map[K, V]) Clear() {
	m.buf.Truncate(0)
	m.gen++
}

// Reserve grows the buffer by additional spare entry slots.
//
// Panics if the buffer cannot be grown.
func (m *Map[K, V]) Reserve(additional int) {
	m.buf.Reserve(additional)
	m.gen++
}

// ShrinkToFit reallocates the buffer down to the current length.
func (m *Map[K, V]) ShrinkToFit() {
	m.ShrinkTo(0)
}

// ShrinkTo reduces the capacity to at least capacity, clamped up to the
// current length.
func (m *Map[K, V]) ShrinkTo(capacity int) {
	if capacity < m.buf.Len() {
		capacity = m.buf.Len()
	}
	m.buf.Shrink(capacity)
	m.gen++
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	return m.buf.Len()
}

// Cap returns the total entry capacity of the current allocation.
func (m *Map[K, V]) Cap() int {
	return m.buf.Cap()
}

// IsEmpty reports whether the map holds no entries.
func (m *Map[K, V]) IsEmpty() bool {
	return m.buf.Len() == 0
}

// Allocator returns the map's allocator.
func (m *Map[K, V]) Allocator() alloc.Allocator[Entry[K, V]] {
	return m.buf.Allocator()
}

// Entries returns the live entries in key order. The slice aliases the
// map's buffer: it is invalidated by any mutation, and writing to it
// can break the sorted-unique invariant. Treat it as read-only.
func (m *Map[K, V]) Entries() []Entry[K, V] {
	return m.buf.Slice()
}

// Clone returns a map with the same entries, capacity, and allocator.
func (m *Map[K, V]) Clone() *Map[K, V] {
	return &Map[K, V]{buf: m.buf.Clone()}
}

// Release drops all entries and returns the allocation to the
// allocator, leaving the map empty and unallocated. The map remains
// usable; the next insertion allocates afresh.
func (m *Map[K, V]) Release() {
	m.buf.Release()
	m.gen++
}

// TakeRawParts transfers the map's storage to the caller, leaving the
// map empty and unallocated. The caller assumes responsibility for the
// storage's lifecycle; see FromRawParts for the inverse.
func (m *Map[K, V]) TakeRawParts() (storage []Entry[K, V], n int, a alloc.Allocator[Entry[K, V]]) {
	m.gen++
	return m.buf.TakeRawParts()
}

// String formats the map as ordered key-value pairs.
func (m *Map[K, V]) String() string {
	return fmt.Sprintf("%v", m.buf.Slice())
}

// Equal reports whether a and b hold the same sorted sequence of
// key-value pairs.
func Equal[K cmp.Ordered, V comparable](a, b *Map[K, V]) bool {
	return slices.Equal(a.buf.Slice(), b.buf.Slice())
}

// EqualFunc is Equal with a caller-supplied value comparison.
func EqualFunc[K cmp.Ordered, V any](a, b *Map[K, V], eq func(V, V) bool) bool {
	return slices.EqualFunc(a.buf.Slice(), b.buf.Slice(), func(x, y Entry[K, V]) bool {
		return x.Key == y.Key && eq(x.Value, y.Value)
	})
}

// Compare orders two maps lexicographically over their sorted entry
// sequences, comparing keys before values.
func Compare[K, V cmp.Ordered](a, b *Map[K, V]) int {
	return slices.CompareFunc(a.buf.Slice(), b.buf.Slice(), func(x, y Entry[K, V]) int {
		if c := cmp.Compare(x.Key, y.Key); c != 0 {
			return c
		}
		return cmp.Compare(x.Value, y.Value)
	})
}
