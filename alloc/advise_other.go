//go:build !linux

package alloc

// adviseHuge is a no-op on non-Linux platforms.
// MADV_HUGEPAGE is Linux-specific.
func adviseHuge(b []byte) {
	// No-op
}
