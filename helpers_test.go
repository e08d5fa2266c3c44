package ordmap

import (
	"encoding/binary"
	"hash/fnv"
	randv2 "math/rand/v2"
	"slices"
	"testing"
)

// Named seeds for deterministic reproduction.
const (
	testSeed1 = 0x1234567890ABCDEF
	testSeed2 = 0xFEDCBA9876543210
)

func newTestRNG(t testing.TB) *randv2.Rand {
	t.Helper()
	h := fnv.New128a()
	h.Write([]byte(t.Name()))
	sum := h.Sum(nil)
	s1 := binary.LittleEndian.Uint64(sum[:8])
	s2 := binary.LittleEndian.Uint64(sum[8:])
	return randv2.New(randv2.NewPCG(testSeed1^s1, testSeed2^s2))
}

// checkSorted fails the test unless the map's entries are strictly
// ascending by key, i.e. sorted with no duplicates.
func checkSorted[K interface {
	~int | ~uint64 | ~string
}, V any](t *testing.T, m *Map[K, V]) {
	t.Helper()
	s := m.Entries()
	for i := 1; i < len(s); i++ {
		if s[i-1].Key >= s[i].Key {
			t.Fatalf("entries out of order at %d: %v >= %v", i, s[i-1].Key, s[i].Key)
		}
	}
	if m.Len() > m.Cap() {
		t.Fatalf("length %d exceeds capacity %d", m.Len(), m.Cap())
	}
}

// keysOf returns the map's keys in iteration order.
func keysOf[K interface {
	~int | ~uint64 | ~string
}, V any](m *Map[K, V]) []K {
	var out []K
	for k := range m.Keys() {
		out = append(out, k)
	}
	return out
}

// expectPanic runs f and fails the test unless it panics.
func expectPanic(t *testing.T, what string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("%s: expected panic, got none", what)
		}
	}()
	f()
}

// collectSeq drains a single-value sequence into a slice.
func collectSeq[T any](seq func(yield func(T) bool)) []T {
	var out []T
	seq(func(v T) bool {
		out = append(out, v)
		return true
	})
	return out
}

// sortedUniqueInts returns n distinct ints in random insertion order.
func sortedUniqueInts(rng *randv2.Rand, n int) []int {
	seen := make(map[int]bool, n)
	out := make([]int, 0, n)
	for len(out) < n {
		k := int(rng.Int64N(1 << 30))
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

// sortedCopy returns a sorted copy of s.
func sortedCopy[T interface{ ~int | ~uint64 | ~string }](s []T) []T {
	out := slices.Clone(s)
	slices.Sort(out)
	return out
}
