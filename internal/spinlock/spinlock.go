// Package spinlock is the mempool façade's mutual-exclusion primitive
// (C10 in spec.md): a user-space busy-wait lock, not a blocking mutex, to
// keep the cost floor of the short critical section the façade wraps every
// operation in (spec.md §5, §9 "Spinlock, not mutex").
package spinlock

import (
	"runtime"
	"sync/atomic"
)

// Spinlock is a busy-wait mutual exclusion lock. The zero value is an
// unlocked spinlock, ready to use. It must not be copied after first use.
type Spinlock struct {
	_      noCopy
	locked atomic.Bool
}

// noCopy is embedded to let `go vet`'s copylocks check flag accidental
// copies of a Spinlock (and, by extension, anything that embeds one) after
// first use, the same guard the teacher applies to its generic Pool.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Lock acquires the spinlock, busy-waiting with a scheduler yield between
// attempts so a contended lock doesn't starve other goroutines on the same
// P.
func (s *Spinlock) Lock() {
	for !s.locked.CompareAndSwap(false, true) {
		runtime.Gosched()
	}
}

// Unlock releases the spinlock. Unlocking an already-unlocked spinlock is
// a programming error and is not guarded against, matching the original's
// unchecked spin_release.
func (s *Spinlock) Unlock() {
	s.locked.Store(false)
}

// TryLock attempts to acquire the lock without blocking, reporting whether
// it succeeded.
func (s *Spinlock) TryLock() bool {
	return s.locked.CompareAndSwap(false, true)
}
