package mempool

import "github.com/RAO-29/carbon-mempool/dataptr"

// ImplTag is the closed set of strategy implementation discriminants.
// Each strategy reports its own constant through Strategy.Tag. Neither the
// façade nor the strategies compare tags: no tag-mismatch check is made,
// and Go's interface dispatch already runs each method only against its
// own receiver type.
type ImplTag int

const (
	TagNone ImplTag = iota
	TagMagic
)

// Strategy is the pluggable allocator implementation the façade dispatches
// to (spec.md §4.5/§4.6, C5/C6/C7). spec.md's original models this as a
// record of six function pointers plus an opaque state slot; per the
// redesign note in §9 this implementation uses a plain Go interface
// instead — callers may add a strategy by writing a type that satisfies
// this interface and calling Register, with no change to the façade.
type Strategy interface {
	// Name is the human-readable implementation name, e.g. "mempool/none".
	Name() string

	// Tag identifies the concrete implementation. Nothing in this package
	// checks it.
	Tag() ImplTag

	Alloc(nbytes uint64) (dataptr.Ptr, error)
	Realloc(ptr dataptr.Ptr, nbytes uint64) (dataptr.Ptr, error)
	Free(ptr dataptr.Ptr) error
	GC() error

	RefreshCounters()
	ResetCounters()
	Counters() Counters
}
