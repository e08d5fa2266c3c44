package ordmap

import (
	"cmp"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/zeebo/xxh3"
)

// Structural hashing: the hash of a container is the hash of its live
// entries in order, so two equal containers always hash equally. The
// caller supplies the entry encoding; xxh3 does the mixing.

// Sum64 returns a structural hash of the map. app must append a
// deterministic encoding of the entry to dst and return the extended
// slice; see AppendKey for ordered keys.
func (m *Map[K, V]) Sum64(app func(dst []byte, e Entry[K, V]) []byte) uint64 {
	var h xxh3.Hasher
	scratch := make([]byte, 0, 64)
	for _, e := range m.buf.Slice() {
		scratch = app(scratch[:0], e)
		_, _ = h.Write(scratch)
	}
	return h.Sum64()
}

// Sum64 returns a structural hash of the set. app must append a
// deterministic encoding of the key to dst and return the extended
// slice.
func (s *Set[T]) Sum64(app func(dst []byte, key T) []byte) uint64 {
	var h xxh3.Hasher
	scratch := make([]byte, 0, 64)
	for _, e := range s.m.buf.Slice() {
		scratch = app(scratch[:0], e.Key)
		_, _ = h.Write(scratch)
	}
	return h.Sum64()
}

// AppendKey appends a deterministic encoding of an ordered key to dst,
// for use with Sum64. Strings are length-prefixed; integers and floats
// are encoded as 8 little-endian bytes.
func AppendKey[K cmp.Ordered](dst []byte, key K) []byte {
	switch k := any(key).(type) {
	case string:
		dst = binary.LittleEndian.AppendUint64(dst, uint64(len(k)))
		return append(dst, k...)
	case float32:
		return binary.LittleEndian.AppendUint64(dst, uint64(math.Float64bits(float64(k))))
	case float64:
		return binary.LittleEndian.AppendUint64(dst, math.Float64bits(k))
	case int:
		return binary.LittleEndian.AppendUint64(dst, uint64(k))
	case int8:
		return binary.LittleEndian.AppendUint64(dst, uint64(k))
	case int16:
		return binary.LittleEndian.AppendUint64(dst, uint64(k))
	case int32:
		return binary.LittleEndian.AppendUint64(dst, uint64(k))
	case int64:
		return binary.LittleEndian.AppendUint64(dst, uint64(k))
	case uint:
		return binary.LittleEndian.AppendUint64(dst, uint64(k))
	case uint8:
		return binary.LittleEndian.AppendUint64(dst, uint64(k))
	case uint16:
		return binary.LittleEndian.AppendUint64(dst, uint64(k))
	case uint32:
		return binary.LittleEndian.AppendUint64(dst, uint64(k))
	case uint64:
		return binary.LittleEndian.AppendUint64(dst, k)
	case uintptr:
		return binary.LittleEndian.AppendUint64(dst, uint64(k))
	default:
		// Named types with ordered underlying kinds land here; fall
		// back to the fmt representation.
		return fmt.Appendf(dst, "%v", key)
	}
}
