package ordmap

import (
	"cmp"
	"fmt"
	"iter"

	"github.com/ordbuf/ordmap/alloc"
)

// unit is the zero-size value type a Set stores per key.
type unit = struct{}

// SetEntry is the entry type a Set's allocator deals in. A set is a
// map with a zero-size value, so the entry carries no payload beyond
// the key.
type SetEntry[T cmp.Ordered] = Entry[T, unit]

// Set is an ordered set of T: a Map with a zero-size value type. Every
// operation forwards to the underlying map; iteration yields keys in
// ascending order.
//
// Like Map, a Set is single-threaded: it may be moved between
// goroutines and shared read-only, but never mutated concurrently.
// The zero value is an empty set on the heap allocator, ready to use.
type Set[T cmp.Ordered] struct {
	m Map[T, unit]
}

// NewSet constructs an empty set on the default heap allocator.
func NewSet[T cmp.Ordered]() *Set[T] {
	return &Set[T]{m: *New[T, unit]()}
}

// NewSetIn constructs an empty set using a for all storage.
func NewSetIn[T cmp.Ordered](a alloc.Allocator[SetEntry[T]]) *Set[T] {
	return &Set[T]{m: *NewIn[T, unit](a)}
}

// SetWithCapacity constructs an empty set pre-sized for capacity keys.
//
// Panics if the allocation fails.
func SetWithCapacity[T cmp.Ordered](capacity int) *Set[T] {
	return &Set[T]{m: *WithCapacity[T, unit](capacity)}
}

// SetWithCapacityIn constructs an empty set pre-sized for capacity
// keys using a for all storage.
//
// Panics if the allocation fails.
func SetWithCapacityIn[T cmp.Ordered](capacity int, a alloc.Allocator[SetEntry[T]]) *Set[T] {
	return &Set[T]{m: *WithCapacityIn[T, unit](capacity, a)}
}

// SetFrom constructs a set from a list of keys. Duplicates collapse.
func SetFrom[T cmp.Ordered](keys []T) *Set[T] {
	s := SetWithCapacity[T](len(keys))
	for _, k := range keys {
		s.Insert(k)
	}
	return s
}

// CollectSet constructs a set from a key sequence. Duplicates
// collapse.
func CollectSet[T cmp.Ordered](seq iter.Seq[T]) *Set[T] {
	s := NewSet[T]()
	for k := range seq {
		s.Insert(k)
	}
	return s
}

// SetFromRawParts reassembles a set from storage previously produced
// by a. Same caller contract as FromRawParts: sorted, unique, n within
// bounds, nothing checked.
func SetFromRawParts[T cmp.Ordered](storage []SetEntry[T], n int, a alloc.Allocator[SetEntry[T]]) *Set[T] {
	return &Set[T]{m: *FromRawParts(storage, n, a)}
}

// Insert adds key to the set and reports whether it was already
// present. (Note the convention: true means the set did not change.)
//
// Panics only if the buffer cannot be grown.
func (s *Set[T]) Insert(key T) bool {
	_, present := s.m.Insert(key, unit{})
	return present
}

// Remove removes key and reports whether it was present.
func (s *Set[T]) Remove(key T) bool {
	_, ok := s.m.Remove(key)
	return ok
}

// Take removes key and returns the stored key. Useful when T carries
// state beyond its ordering identity.
func (s *Set[T]) Take(key T) (T, bool) {
	e, ok := s.m.RemoveEntry(key)
	return e.Key, ok
}

// Get returns the stored key equal to key.
func (s *Set[T]) Get(key T) (T, bool) {
	e, ok := s.m.GetKeyValue(key)
	return e.Key, ok
}

// Contains reports whether key is in the set.
func (s *Set[T]) Contains(key T) bool {
	return s.m.ContainsKey(key)
}

// First returns the smallest key.
func (s *Set[T]) First() (T, bool) {
	e, ok := s.m.First()
	return e.Key, ok
}

// Last returns the largest key.
func (s *Set[T]) Last() (T, bool) {
	e, ok := s.m.Last()
	return e.Key, ok
}

// PopFirst removes and returns the smallest key.
func (s *Set[T]) PopFirst() (T, bool) {
	e, ok := s.m.PopFirst()
	return e.Key, ok
}

// PopLast removes and returns the largest key.
func (s *Set[T]) PopLast() (T, bool) {
	e, ok := s.m.PopLast()
	return e.Key, ok
}

// Append moves all keys from other into s, leaving other empty.
func (s *Set[T]) Append(other *Set[T]) {
	s.m.Append(&other.m)
}

// Retain removes every key for which keep returns false.
func (s *Set[T]) Retain(keep func(key T) bool) {
	s.m.Retain(func(k T, _ *unit) bool {
		return keep(k)
	})
}

// Clear removes all keys. The capacity is retained.
func (s *Set[T]) Clear() { s.m.Clear() }

// Reserve grows the buffer by additional spare key slots.
func (s *Set[T]) Reserve(additional int) { s.m.Reserve(additional) }

// ShrinkToFit reallocates the buffer down to the current length.
func (s *Set[T]) ShrinkToFit() { s.m.ShrinkToFit() }

// ShrinkTo reduces the capacity to at least capacity, clamped up to
// the current length.
func (s *Set[T]) ShrinkTo(capacity int) { s.m.ShrinkTo(capacity) }

// Len returns the number of keys.
func (s *Set[T]) Len() int { return s.m.Len() }

// Cap returns the total key capacity of the current allocation.
func (s *Set[T]) Cap() int { return s.m.Cap() }

// IsEmpty reports whether the set holds no keys.
func (s *Set[T]) IsEmpty() bool { return s.m.IsEmpty() }

// Allocator returns the set's allocator.
func (s *Set[T]) Allocator() alloc.Allocator[SetEntry[T]] {
	return s.m.Allocator()
}

// Release drops all keys and returns the allocation to the allocator.
func (s *Set[T]) Release() { s.m.Release() }

// TakeRawParts transfers the set's storage to the caller; see
// Map.TakeRawParts.
func (s *Set[T]) TakeRawParts() (storage []SetEntry[T], n int, a alloc.Allocator[SetEntry[T]]) {
	return s.m.TakeRawParts()
}

// Clone returns a set with the same keys, capacity, and allocator.
func (s *Set[T]) Clone() *Set[T] {
	return &Set[T]{m: *s.m.Clone()}
}

// Equal reports whether both sets hold the same sorted key sequence.
func (s *Set[T]) Equal(other *Set[T]) bool {
	return EqualFunc(&s.m, &other.m, func(unit, unit) bool { return true })
}

// Compare orders two sets lexicographically over their sorted keys.
func (s *Set[T]) Compare(other *Set[T]) int {
	a, b := s.m.buf.Slice(), other.m.buf.Slice()
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := cmp.Compare(a[i].Key, b[i].Key); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}

// AppendTo appends the keys in order to dst and returns it.
func (s *Set[T]) AppendTo(dst []T) []T {
	for _, e := range s.m.buf.Slice() {
		dst = append(dst, e.Key)
	}
	return dst
}

// All returns an in-order key sequence borrowing from the set.
func (s *Set[T]) All() iter.Seq[T] {
	return s.m.Keys()
}

// Backward returns a reverse-order key sequence borrowing from the
// set.
func (s *Set[T]) Backward() iter.Seq[T] {
	return func(yield func(T) bool) {
		for k := range s.m.Backward() {
			if !yield(k) {
				return
			}
		}
	}
}

// SetIter is a borrowing cursor over a set's keys: double-ended,
// exact-size, fused.
type SetIter[T cmp.Ordered] struct {
	it Iter[T, unit]
}

// Iter returns a cursor over the set's keys in ascending order.
func (s *Set[T]) Iter() *SetIter[T] {
	return &SetIter[T]{it: *s.m.Iter()}
}

// Next yields the smallest remaining key.
func (it *SetIter[T]) Next() (T, bool) {
	e, ok := it.it.Next()
	return e.Key, ok
}

// NextBack yields the largest remaining key.
func (it *SetIter[T]) NextBack() (T, bool) {
	e, ok := it.it.NextBack()
	return e.Key, ok
}

// Len returns the exact number of keys not yet yielded.
func (it *SetIter[T]) Len() int { return it.it.Len() }

// SetDrain is a draining cursor over a set; see Drain.
type SetDrain[T cmp.Ordered] struct {
	d Drain[T, unit]
}

// Drain empties the set and returns a cursor over the removed keys.
func (s *Set[T]) Drain() *SetDrain[T] {
	return &SetDrain[T]{d: *s.m.Drain()}
}

// Next yields the smallest remaining key.
func (d *SetDrain[T]) Next() (T, bool) {
	e, ok := d.d.Next()
	return e.Key, ok
}

// NextBack yields the largest remaining key.
func (d *SetDrain[T]) NextBack() (T, bool) {
	e, ok := d.d.NextBack()
	return e.Key, ok
}

// Len returns the exact number of keys not yet yielded.
func (d *SetDrain[T]) Len() int { return d.d.Len() }

// Close drops the keys not yet yielded. Idempotent.
func (d *SetDrain[T]) Close() { d.d.Close() }

// SetExtract is an owning cursor over a set; see Extract.
type SetExtract[T cmp.Ordered] struct {
	it Extract[T, unit]
}

// Extract consumes the set's contents and storage, returning an
// owning cursor over the keys in ascending order. Always close it.
func (s *Set[T]) Extract() *SetExtract[T] {
	return &SetExtract[T]{it: *s.m.Extract()}
}

// Next yields the smallest remaining key, moving it out of the buffer.
func (it *SetExtract[T]) Next() (T, bool) {
	e, ok := it.it.Next()
	return e.Key, ok
}

// NextBack yields the largest remaining key, moving it out of the
// buffer.
func (it *SetExtract[T]) NextBack() (T, bool) {
	e, ok := it.it.NextBack()
	return e.Key, ok
}

// Len returns the exact number of keys not yet yielded.
func (it *SetExtract[T]) Len() int { return it.it.Len() }

// Close drops the keys not yet yielded and releases the allocation.
// Idempotent.
func (it *SetExtract[T]) Close() { it.it.Close() }

// ExtractAll consumes the set and returns a key sequence. The
// allocation is released when the sequence ends, even on early break.
func (s *Set[T]) ExtractAll() iter.Seq[T] {
	return s.m.ExtractKeys()
}

// String formats the set as an ordered key list.
func (s *Set[T]) String() string {
	return fmt.Sprintf("%v", s.AppendTo(nil))
}
