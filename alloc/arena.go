package alloc

import (
	"fmt"
	"reflect"
	"sync"
	"unsafe"

	"github.com/edsrzf/mmap-go"
)

// Arena is an allocator backed by anonymous memory mappings. Each
// Allocate call maps a fresh region sized for the request; Release
// unmaps it immediately, returning the pages to the operating system
// rather than to the Go heap.
//
// Because mapped memory is invisible to the garbage collector, Arena
// refuses element types that contain Go pointers (strings, slices,
// maps, pointers, channels, functions, interfaces). NewArena panics for
// such types.
//
// An Arena may back any number of containers. It is safe for concurrent
// use by containers on different goroutines; the containers themselves
// remain single-threaded.
type Arena[E any] struct {
	mu       sync.Mutex
	mappings map[uintptr]mmap.MMap
}

// NewArena constructs an arena allocator for E.
//
// Panics if E contains Go pointers.
func NewArena[E any]() *Arena[E] {
	var probe E
	if typeHasPointers(reflect.TypeOf(&probe).Elem()) {
		panic(fmt.Sprintf("alloc: element type %T contains Go pointers and cannot live in mapped memory", probe))
	}
	return &Arena[E]{mappings: make(map[uintptr]mmap.MMap)}
}

func (a *Arena[E]) Allocate(n int) []E {
	if n < 0 {
		panic(fmt.Sprintf("alloc: negative allocation size %d", n))
	}
	elemSize := int(unsafe.Sizeof(*new(E)))
	if n == 0 || elemSize == 0 {
		// Nothing to map. A zero-length region is not a valid mapping,
		// and zero-size elements need no memory at all.
		return make([]E, n)
	}

	m, err := mmap.MapRegion(nil, n*elemSize, mmap.RDWR, mmap.ANON, 0)
	if err != nil {
		panic(fmt.Sprintf("alloc: anonymous mmap of %d bytes failed: %v", n*elemSize, err))
	}
	adviseHuge(m)

	buf := unsafe.Slice((*E)(unsafe.Pointer(&m[0])), n)
	a.mu.Lock()
	a.mappings[uintptr(unsafe.Pointer(&m[0]))] = m
	a.mu.Unlock()
	return buf
}

func (a *Arena[E]) Grow(buf []E, n int) []E {
	if n <= len(buf) {
		panic(fmt.Sprintf("alloc: grow from %d to %d is not a growth", len(buf), n))
	}
	// Anonymous mappings cannot be grown in place portably; map a larger
	// region, copy, and drop the old one.
	next := a.Allocate(n)
	copy(next, buf)
	a.Release(buf)
	return next
}

func (a *Arena[E]) Release(buf []E) {
	if len(buf) == 0 {
		return
	}
	key := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))

	a.mu.Lock()
	m, ok := a.mappings[key]
	if ok {
		delete(a.mappings, key)
	}
	a.mu.Unlock()

	if !ok {
		// Zero-size-element allocations come from the heap; anything
		// else is a foreign or double release.
		if unsafe.Sizeof(*new(E)) == 0 {
			return
		}
		panic("alloc: release of a buffer this arena did not allocate")
	}
	if err := m.Unmap(); err != nil {
		panic(fmt.Sprintf("alloc: munmap failed: %v", err))
	}
}

// Mapped reports the number of live mappings held by the arena.
func (a *Arena[E]) Mapped() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.mappings)
}

// typeHasPointers walks t and reports whether any reachable field is a
// pointer-carrying kind.
func typeHasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return t.Len() > 0 && typeHasPointers(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if typeHasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return true
	}
}
