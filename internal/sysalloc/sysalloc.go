// Package sysalloc is the system allocator boundary spec.md §6 describes:
// "obtain n bytes", "grow/shrink a live region to n bytes, returning a
// possibly new address", and "release a region". It is implemented with
// anonymous mmap/mremap/munmap (golang.org/x/sys/unix), the same mechanism
// the alexlewtschuk/balloc buddy allocator in the retrieval pack uses to
// get raw memory whose address is stable across Go safepoints — unlike
// heap memory, anonymous mmap'd pages are never scanned or relocated by
// the garbage collector, so they may be carried around as a bare uintptr
// the way the original carried a void*.
package sysalloc

import (
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Obtain maps n anonymous, zero-filled bytes and returns their base
// address. The caller is responsible for remembering n; Resize and
// Release both require it.
func Obtain(n uint64) (uintptr, error) {
	if n == 0 {
		return 0, errors.New("sysalloc: cannot obtain zero bytes")
	}
	data, err := unix.Mmap(-1, 0, int(n), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return 0, errors.Wrap(err, "sysalloc: mmap failed")
	}
	return uintptr(unsafe.Pointer(&data[0])), nil
}

// Resize grows or shrinks the region at addr (currently oldSize bytes) to
// newSize bytes, returning the (possibly new) base address. The region may
// move; old contents up to min(oldSize, newSize) bytes are preserved.
func Resize(addr uintptr, oldSize, newSize uint64) (uintptr, error) {
	if newSize == 0 {
		return 0, errors.New("sysalloc: cannot resize to zero bytes")
	}
	old := bytesAt(addr, oldSize)
	data, err := unix.Mremap(old, int(newSize), unix.MREMAP_MAYMOVE)
	if err != nil {
		return 0, errors.Wrap(err, "sysalloc: mremap failed")
	}
	return uintptr(unsafe.Pointer(&data[0])), nil
}

// Release unmaps the region at addr sized size bytes.
func Release(addr uintptr, size uint64) error {
	if err := unix.Munmap(bytesAt(addr, size)); err != nil {
		return errors.Wrap(err, "sysalloc: munmap failed")
	}
	return nil
}

// bytesAt reconstructs the []byte mmap handed back for a region so it can
// be passed back into Mremap/Munmap, which key off the slice rather than
// the bare address.
func bytesAt(addr uintptr, n uint64) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), int(n))
}
