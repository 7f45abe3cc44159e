//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly || solaris
// +build linux darwin freebsd netbsd openbsd dragonfly solaris

package memhold

import (
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// MmapAllocator backs a block with an anonymous private mapping, outside
// the Go heap. Without MAP_NORESERVE the kernel's overcommit policy may
// refuse a request up front with ENOMEM.
type MmapAllocator struct{}

func (MmapAllocator) Allocate(n int64) (*Block, error) {
	size, err := byteSize(n)
	if err != nil {
		return nil, err
	}

	var (
		prot = unix.PROT_READ | unix.PROT_WRITE
		flag = unix.MAP_PRIVATE | unix.MAP_ANON
	)
	buf, err := unix.Mmap(-1, 0, size, prot, flag)
	if err != nil {
		return nil, mmapError(n, size, err)
	}

	data := unsafe.Slice((*int64)(unsafe.Pointer(&buf[0])), n)
	fill(data)

	return &Block{
		data: data,
		release: func() error {
			return errors.Wrap(unix.Munmap(buf), "munmap")
		},
	}, nil
}

// mmapError classifies a failed mmap. ENOMEM and EAGAIN are the kernel
// refusing memory, EINVAL an oversized length on some systems; byteSize has
// already ruled out a bad request.
func mmapError(n int64, size int, err error) error {
	switch {
	case errors.Is(err, unix.ENOMEM), errors.Is(err, unix.EAGAIN), errors.Is(err, unix.EINVAL):
		return newAllocationError(n, err)
	default:
		return errors.Wrapf(err, "mmap %d bytes", size)
	}
}

func mmapAllocator() (Allocator, bool) {
	return MmapAllocator{}, true
}
