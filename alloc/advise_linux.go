//go:build linux

package alloc

import "golang.org/x/sys/unix"

// hugePageThreshold is the smallest mapping worth backing with
// transparent huge pages (one 2 MiB page).
const hugePageThreshold = 2 << 20

// adviseHuge hints to the kernel that a large mapping should use
// transparent huge pages. Best-effort: errors are silently ignored.
func adviseHuge(b []byte) {
	if len(b) < hugePageThreshold {
		return
	}
	_ = unix.Madvise(b, unix.MADV_HUGEPAGE)
}
