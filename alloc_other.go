//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly && !solaris
// +build !linux,!darwin,!freebsd,!netbsd,!openbsd,!dragonfly,!solaris

package memhold

func mmapAllocator() (Allocator, bool) {
	return nil, false
}
