package ordmap

import (
	"cmp"
	"iter"
)

// Set algebra is implemented as lazy two-pointer merges over the two
// sets' sorted, duplicate-free key slices. No intermediate set is
// allocated and every operation runs in O(n+m). When both heads
// compare equal the left operand's key is yielded and both cursors
// advance.
//
// The sequences borrow from both sets: mutating either set while a
// merge sequence is live panics on the next step.

// mergePair holds the iteration state shared by the merge sequences.
type mergePair[T cmp.Ordered] struct {
	a, b       []SetEntry[T]
	genA, genB uint64
	sa, sb     *Set[T]
}

func newMergePair[T cmp.Ordered](a, b *Set[T]) *mergePair[T] {
	return &mergePair[T]{
		a: a.m.buf.Slice(), b: b.m.buf.Slice(),
		genA: a.m.gen, genB: b.m.gen,
		sa: a, sb: b,
	}
}

func (p *mergePair[T]) check() {
	if p.sa.m.gen != p.genA || p.sb.m.gen != p.genB {
		panic(errModified)
	}
}

// Union returns the keys present in either set, in ascending order.
func (s *Set[T]) Union(other *Set[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		p := newMergePair(s, other)
		i, j := 0, 0
		for i < len(p.a) && j < len(p.b) {
			p.check()
			var k T
			switch c := cmp.Compare(p.a[i].Key, p.b[j].Key); {
			case c < 0:
				k = p.a[i].Key
				i++
			case c > 0:
				k = p.b[j].Key
				j++
			default:
				k = p.a[i].Key
				i, j = i+1, j+1
			}
			if !yield(k) {
				return
			}
		}
		if !yieldTail(p, p.a[i:], yield) {
			return
		}
		yieldTail(p, p.b[j:], yield)
	}
}

// Intersection returns the keys present in both sets, in ascending
// order.
func (s *Set[T]) Intersection(other *Set[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		p := newMergePair(s, other)
		i, j := 0, 0
		for i < len(p.a) && j < len(p.b) {
			p.check()
			switch c := cmp.Compare(p.a[i].Key, p.b[j].Key); {
			case c < 0:
				i++
			case c > 0:
				j++
			default:
				if !yield(p.a[i].Key) {
					return
				}
				i, j = i+1, j+1
			}
		}
	}
}

// Difference returns the keys present in s but not in other, in
// ascending order.
func (s *Set[T]) Difference(other *Set[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		p := newMergePair(s, other)
		i, j := 0, 0
		for i < len(p.a) && j < len(p.b) {
			p.check()
			switch c := cmp.Compare(p.a[i].Key, p.b[j].Key); {
			case c < 0:
				if !yield(p.a[i].Key) {
					return
				}
				i++
			case c > 0:
				j++
			default:
				i, j = i+1, j+1
			}
		}
		yieldTail(p, p.a[i:], yield)
	}
}

// SymmetricDifference returns the keys present in exactly one of the
// two sets, in ascending order.
func (s *Set[T]) SymmetricDifference(other *Set[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		p := newMergePair(s, other)
		i, j := 0, 0
		for i < len(p.a) && j < len(p.b) {
			p.check()
			switch c := cmp.Compare(p.a[i].Key, p.b[j].Key); {
			case c < 0:
				if !yield(p.a[i].Key) {
					return
				}
				i++
			case c > 0:
				if !yield(p.b[j].Key) {
					return
				}
				j++
			default:
				i, j = i+1, j+1
			}
		}
		if !yieldTail(p, p.a[i:], yield) {
			return
		}
		yieldTail(p, p.b[j:], yield)
	}
}

// IsSubset reports whether every key of s is in other.
func (s *Set[T]) IsSubset(other *Set[T]) bool {
	n := 0
	for range s.Intersection(other) {
		n++
	}
	return n == s.Len()
}

// IsDisjoint reports whether the two sets share no key.
func (s *Set[T]) IsDisjoint(other *Set[T]) bool {
	for range s.Intersection(other) {
		return false
	}
	return true
}

// yieldTail feeds the remainder of one side to yield, checking for
// concurrent modification at each step. Reports whether iteration may
// continue.
func yieldTail[T cmp.Ordered](p *mergePair[T], tail []SetEntry[T], yield func(T) bool) bool {
	for _, e := range tail {
		p.check()
		if !yield(e.Key) {
			return false
		}
	}
	return true
}
