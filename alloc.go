package memhold

import (
	"math"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// Allocator performs the one bulk allocation of a job.
type Allocator interface {
	// Allocate returns a resident block of n elements. Requests the system
	// can't satisfy fail with an error matching ErrAllocationFailed.
	Allocate(n int64) (*Block, error)
}

// Block is an ordered sequence of int64 values, element i holding i.
// It stays resident until Release.
type Block struct {
	data    []int64
	release func() error
}

func (b *Block) Len() int64 {
	return int64(len(b.data))
}

// Bytes is the memory backing the elements.
func (b *Block) Bytes() uint64 {
	return uint64(len(b.data)) * ElementSize
}

func (b *Block) At(i int64) int64 {
	return b.data[i]
}

// Release hands the memory back. Calling it more than once is a no-op.
func (b *Block) Release() error {
	if b == nil || b.data == nil {
		return nil
	}
	release := b.release
	b.data, b.release = nil, nil
	if release == nil {
		return nil
	}
	return release()
}

// fill writes every element so each page of the block becomes resident.
func fill(data []int64) {
	for i := range data {
		data[i] = int64(i)
	}
}

// byteSize checks that n elements can be addressed on this platform.
func byteSize(n int64) (int, error) {
	if n <= 0 {
		return 0, newAllocationError(n, errors.New("element count must be positive"))
	}
	if n > math.MaxInt/ElementSize {
		return 0, newAllocationError(n, errors.New("size exceeds the address space"))
	}
	return int(n) * ElementSize, nil
}

// HeapAllocator allocates on the Go heap.
type HeapAllocator struct{}

func (HeapAllocator) Allocate(n int64) (b *Block, err error) {
	if _, err := byteSize(n); err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			// only a refused make is an allocation failure
			if re, ok := r.(runtime.Error); ok && strings.Contains(re.Error(), "makeslice") {
				b, err = nil, newAllocationError(n, re)
				return
			}
			panic(r)
		}
	}()

	data := make([]int64, n)
	fill(data)
	return &Block{data: data}, nil
}

// NewAllocator returns the allocator called name: "mmap" or "heap". An
// empty name selects the platform default.
func NewAllocator(name string) (Allocator, error) {
	switch name {
	case "":
		return defaultAllocator(), nil
	case "heap":
		return HeapAllocator{}, nil
	case "mmap":
		if a, ok := mmapAllocator(); ok {
			return a, nil
		}
		return nil, errors.Errorf("mmap allocator is not supported on %s", runtime.GOOS)
	}
	return nil, errors.Errorf("unknown allocator %q", name)
}

func defaultAllocator() Allocator {
	if a, ok := mmapAllocator(); ok {
		return a
	}
	return HeapAllocator{}
}
