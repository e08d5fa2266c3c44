// Bench is a benchmarking tool for measuring ordmap insert, lookup,
// iteration, and drain performance under the heap and arena
// allocators.
//
// Usage:
//
//	go run ./cmd/bench -keys 1000000 -allocator arena
//
// Flags:
//
//	-keys       Number of keys to insert (default: 1,000,000)
//	-allocator  Storage backend: heap or arena (default: heap)
//	-presize    Pre-allocate capacity for all keys (default: false)
//	-seed       Workload seed (default: 1)
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"os"
	"runtime"
	"syscall"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"

	"github.com/ordbuf/ordmap"
	"github.com/ordbuf/ordmap/alloc"
)

// getMaxRSS returns the maximum resident set size in bytes.
// Uses getrusage(RUSAGE_SELF) which tracks peak RSS since process start.
func getMaxRSS() uint64 {
	var rusage syscall.Rusage
	if err := syscall.Getrusage(syscall.RUSAGE_SELF, &rusage); err != nil {
		return 0
	}
	// On macOS, MaxRss is in bytes. On Linux, it's in kilobytes.
	maxRSS := uint64(rusage.Maxrss)
	if runtime.GOOS == "linux" {
		maxRSS *= 1024
	}
	return maxRSS
}

// workload produces n pseudo-random but deterministic keys. Half the
// stream is xxhash-mixed, half murmur3-mixed, so neither hash's output
// structure dominates the key distribution.
func workload(n int, seed uint64) []uint64 {
	keys := make([]uint64, n)
	var b [8]byte
	for i := range keys {
		binary.LittleEndian.PutUint64(b[:], seed+uint64(i))
		if i%2 == 0 {
			keys[i] = xxhash.Sum64(b[:])
		} else {
			keys[i] = murmur3.Sum64(b[:])
		}
	}
	return keys
}

func main() {
	keysFlag := flag.Int("keys", 1_000_000, "number of keys")
	allocFlag := flag.String("allocator", "heap", "storage backend: heap or arena")
	presizeFlag := flag.Bool("presize", false, "pre-allocate capacity for all keys")
	seedFlag := flag.Uint64("seed", 1, "workload seed")
	flag.Parse()

	n := *keysFlag
	keys := workload(n, *seedFlag)

	var a alloc.Allocator[ordmap.Entry[uint64, uint64]]
	switch *allocFlag {
	case "heap":
		a = alloc.Heap[ordmap.Entry[uint64, uint64]]{}
	case "arena":
		a = alloc.NewArena[ordmap.Entry[uint64, uint64]]()
	default:
		fmt.Fprintf(os.Stderr, "unknown allocator %q\n", *allocFlag)
		os.Exit(1)
	}

	var m *ordmap.Map[uint64, uint64]
	if *presizeFlag {
		m = ordmap.WithCapacityIn[uint64, uint64](n, a)
	} else {
		m = ordmap.NewIn[uint64, uint64](a)
	}

	fmt.Printf("ordmap bench: keys=%d allocator=%s presize=%v\n", n, *allocFlag, *presizeFlag)

	start := time.Now()
	for i, k := range keys {
		m.Insert(k, uint64(i))
	}
	insertDur := time.Since(start)
	fmt.Printf("insert:  %12v  (%.0f ns/op, len=%d cap=%d)\n",
		insertDur, float64(insertDur.Nanoseconds())/float64(n), m.Len(), m.Cap())

	start = time.Now()
	var hits int
	for _, k := range keys {
		if _, ok := m.Get(k); ok {
			hits++
		}
	}
	lookupDur := time.Since(start)
	fmt.Printf("lookup:  %12v  (%.0f ns/op, hits=%d)\n",
		lookupDur, float64(lookupDur.Nanoseconds())/float64(n), hits)

	start = time.Now()
	var sum uint64
	for k := range m.Keys() {
		sum += k
	}
	iterDur := time.Since(start)
	fmt.Printf("iterate: %12v  (%.1f ns/op, checksum=%x)\n",
		iterDur, float64(iterDur.Nanoseconds())/float64(m.Len()), sum)

	start = time.Now()
	var drained int
	for range m.DrainAll() {
		drained++
	}
	drainDur := time.Since(start)
	fmt.Printf("drain:   %12v  (%.1f ns/op, drained=%d)\n",
		drainDur, float64(drainDur.Nanoseconds())/float64(max(drained, 1)), drained)

	m.Release()
	fmt.Printf("max RSS: %d MiB\n", getMaxRSS()>>20)
}
