// Package dataptr implements C1 from spec.md: a data pointer packs a 48-bit
// address and a 16-bit user payload into a single machine word. It is the
// one performance-critical contract in this module, since these operations
// run on every mempool allocation path — callers must never leak payload
// bits into a dereferenced address.
package dataptr

import "github.com/RAO-29/carbon-mempool/poolerr"

// Ptr is the opaque 64-bit data pointer. The zero value is the null
// sentinel (both address and payload zero).
type Ptr uint64

const addrMask = uint64(1)<<48 - 1

// Create builds a data pointer from a raw address with a zero payload.
// It fails if addr is null.
func Create(addr uintptr) (Ptr, error) {
	if addr == 0 {
		return 0, poolerr.New(poolerr.NullPointer)
	}
	return Ptr(uint64(addr) & addrMask), nil
}

// Update returns a value whose address becomes addr while the payload
// carried by ptr is preserved.
func Update(ptr Ptr, addr uintptr) (Ptr, error) {
	if ptr == 0 || addr == 0 {
		return 0, poolerr.New(poolerr.NullPointer)
	}
	payload := ptr.Payload()
	return Ptr((uint64(addr) & addrMask) | (uint64(payload) << 48)), nil
}

// GetPayload extracts the 16-bit payload. It fails if ptr is null.
func GetPayload(ptr Ptr) (uint16, error) {
	if ptr == 0 {
		return 0, poolerr.New(poolerr.NullPointer)
	}
	return ptr.Payload(), nil
}

// SetPayload returns a value with the given payload and the same address.
// It fails if ptr is null.
func SetPayload(ptr Ptr, payload uint16) (Ptr, error) {
	if ptr == 0 {
		return 0, poolerr.New(poolerr.NullPointer)
	}
	return Ptr((uint64(ptr) & addrMask) | (uint64(payload) << 48)), nil
}

// HasPayload reports whether the payload is non-zero.
func HasPayload(ptr Ptr) bool {
	return ptr.Payload() != 0
}

// GetAddress strips the payload and returns the raw address. It is
// null-safe: a null ptr yields 0 rather than an error.
func GetAddress(ptr Ptr) uintptr {
	return ptr.Address()
}

// Payload is the unchecked accessor used internally where ptr is already
// known non-null (e.g. decoding a slot index out of a freshly-registered
// pointer).
func (p Ptr) Payload() uint16 {
	return uint16(uint64(p) >> 48)
}

// Address is the unchecked accessor mirroring Payload.
func (p Ptr) Address() uintptr {
	return uintptr(uint64(p) & addrMask)
}
