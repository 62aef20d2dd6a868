// Package taggedptr implements C2 from spec.md: a tagged pointer packs a
// small tag into the low bits of an aligned address.
//
// spec.md's public contract allows a 3-bit tag in signatures, but per the
// design note in spec.md §9 this implementation uses a 2-bit mask — tags
// are restricted to [0, 4) and addresses passed in are assumed to be at
// least 4-byte aligned; this package does not check alignment, the caller
// is responsible for it (spec.md §4.2).
package taggedptr

import "github.com/RAO-29/carbon-mempool/poolerr"

// Ptr is the opaque tagged pointer. The zero value is the null sentinel.
type Ptr uintptr

const tagMask = uintptr(0x3)

// Create builds a tagged pointer from an aligned address with tag 0.
// It fails if addr is null.
func Create(addr uintptr) (Ptr, error) {
	if addr == 0 {
		return 0, poolerr.New(poolerr.NullPointer)
	}
	return Ptr(addr &^ tagMask), nil
}

// Update returns a value whose address becomes addr while the tag carried
// by ptr is preserved. It fails if either ptr or addr is null.
func Update(ptr Ptr, addr uintptr) (Ptr, error) {
	if ptr == 0 || addr == 0 {
		return 0, poolerr.New(poolerr.NullPointer)
	}
	tag := GetTag(ptr)
	return Ptr(addr&^tagMask) | Ptr(tag), nil
}

// GetTag extracts the 2-bit tag. Null-safe: a null ptr yields 0.
func GetTag(ptr Ptr) uint8 {
	return uint8(uintptr(ptr) & tagMask)
}

// SetTag returns a value with the given tag and the same address. It
// fails if ptr is null or tag is out of the representable [0, 4) range.
func SetTag(ptr Ptr, tag uint8) (Ptr, error) {
	if ptr == 0 {
		return 0, poolerr.New(poolerr.NullPointer)
	}
	if tag > 3 {
		return 0, poolerr.Newf(poolerr.IllegalArgument, "tag %d exceeds the 2-bit range [0, 4)", tag)
	}
	return Ptr(uintptr(ptr)&^tagMask) | Ptr(tag), nil
}

// IsTagged reports whether the tag is non-zero.
func IsTagged(ptr Ptr) bool {
	return GetTag(ptr) != 0
}

// GetAddress strips the tag bits and returns the raw address. Null-safe:
// a null ptr yields 0.
func GetAddress(ptr Ptr) uintptr {
	return uintptr(ptr) &^ tagMask
}
