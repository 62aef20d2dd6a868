// Package mempool implements the pool framework spec.md §4 describes: a
// process-wide registry of pluggable allocation strategies (C3), a façade
// that dispatches every public operation through a single short critical
// section (C5), and the handle table (C4) each strategy uses to track its
// live allocations. Strategies themselves live in strategy_none.go and
// strategy_magic.go (C6/C7).
package mempool

import (
	"go.uber.org/zap"

	"github.com/RAO-29/carbon-mempool/dataptr"
	"github.com/RAO-29/carbon-mempool/internal/spinlock"
	"github.com/RAO-29/carbon-mempool/poolerr"
)

// Pool is the façade spec.md §4.5 describes: every public method acquires
// the spinlock, delegates to the active strategy, and releases it before
// returning. The zero value is not usable; construct with New or NewByName.
type Pool struct {
	mu       spinlock.Spinlock
	err      poolerr.Error
	handles  handleTable
	strategy Strategy
	logger   *zap.Logger
}

// New selects a strategy by capability bitset, matching pool_create /
// strategy_by_options in the original: the registry is scanned in
// registration order and the first entry whose declared Capabilities
// equals caps exactly is instantiated.
func New(caps Capabilities, opts ...Option) (*Pool, error) {
	p := &Pool{}
	for _, o := range opts {
		o(p)
	}

	for _, entry := range snapshotRegistry() {
		if entry.caps != caps {
			continue
		}
		p.strategy = entry.factory(p)
		p.strategy.ResetCounters()
		p.logf("pool created", zap.String("impl", p.strategy.Name()))
		return p, nil
	}
	return nil, poolerr.New(poolerr.NotImplemented)
}

// NewByName selects a strategy by its advertised Name, matching
// pool_create_by_name: every registered factory is instantiated in turn
// until one reports the requested name; factories that don't match are
// discarded via their optional destroy hook.
func NewByName(name string, opts ...Option) (*Pool, error) {
	p := &Pool{}
	for _, o := range opts {
		o(p)
	}

	for _, entry := range snapshotRegistry() {
		candidate := entry.factory(p)
		if candidate.Name() == name {
			p.strategy = candidate
			p.strategy.ResetCounters()
			p.logf("pool created by name", zap.String("impl", name))
			return p, nil
		}
		if entry.destroy != nil {
			entry.destroy(candidate)
		}
	}
	return nil, poolerr.Newf(poolerr.NotFound, "no memory pool found by name %q", name)
}

// ImplName is the active strategy's advertised name, or "" if p is nil.
func (p *Pool) ImplName() string {
	if p == nil || p.strategy == nil {
		return ""
	}
	return p.strategy.Name()
}

// Err returns the last error recorded against this pool, or nil if none is
// set.
func (p *Pool) Err() error {
	if !p.err.IsSet() {
		return nil
	}
	return p.err
}

func (p *Pool) setErr(err error) error {
	if pe, ok := err.(poolerr.Error); ok {
		p.err = pe
	}
	return err
}

// Alloc reserves nbytes through the active strategy.
func (p *Pool) Alloc(nbytes uint64) (dataptr.Ptr, error) {
	if nbytes == 0 {
		return 0, p.setErr(poolerr.New(poolerr.IllegalArgument))
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	ptr, err := p.strategy.Alloc(nbytes)
	if err != nil {
		return 0, p.setErr(err)
	}
	return ptr, nil
}

// AllocArray is Alloc(howMany * nbytes), with an explicit overflow check the
// original leaves to undefined u64 wraparound: a howMany*nbytes product
// that would overflow is reported as IllegalArgument rather than silently
// under-allocating.
func (p *Pool) AllocArray(howMany uint32, nbytes uint64) (dataptr.Ptr, error) {
	if howMany == 0 || nbytes == 0 {
		return 0, p.setErr(poolerr.New(poolerr.IllegalArgument))
	}
	total := uint64(howMany) * nbytes
	if nbytes != 0 && total/nbytes != uint64(howMany) {
		return 0, p.setErr(poolerr.Newf(poolerr.IllegalArgument, "alloc array overflow: %d * %d", howMany, nbytes))
	}
	return p.Alloc(total)
}

// Realloc resizes the allocation at ptr to nbytes, returning the (possibly
// new) pointer.
func (p *Pool) Realloc(ptr dataptr.Ptr, nbytes uint64) (dataptr.Ptr, error) {
	if ptr == 0 {
		return 0, p.setErr(poolerr.New(poolerr.NullPointer))
	}
	if nbytes == 0 {
		return ptr, p.setErr(poolerr.New(poolerr.IllegalArgument))
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	result, err := p.strategy.Realloc(ptr, nbytes)
	if err != nil {
		// A failed reallocation must leave the input pointer valid: hand
		// the caller back the same pointer it passed in, not a zero one,
		// so the idiomatic `p = Realloc(p, n)` doesn't lose a live handle.
		return ptr, p.setErr(err)
	}
	return result, nil
}

// Free releases the allocation at ptr.
func (p *Pool) Free(ptr dataptr.Ptr) error {
	if ptr == 0 {
		return p.setErr(poolerr.New(poolerr.NullPointer))
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.strategy.Free(ptr); err != nil {
		return p.setErr(err)
	}
	return nil
}

// FreeAll releases every live allocation still registered in the handle
// table, matching pool_free_all's full sweep, and then empties the table.
func (p *Pool) FreeAll() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for pos := range p.handles.entries {
		info := &p.handles.entries[pos]
		if info.free {
			continue
		}
		if err := p.strategy.Free(info.ptr); err != nil {
			return p.setErr(poolerr.New(poolerr.FreeFailed))
		}
	}
	p.handles.reset()
	return nil
}

// GC runs the active strategy's (possibly no-op) garbage collection pass.
func (p *Pool) GC() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.strategy.GC(); err != nil {
		return p.setErr(err)
	}
	return nil
}

// Counters returns a snapshot of the active strategy's counters, refreshing
// the implementation-footprint field first.
func (p *Pool) Counters() Counters {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.strategy.RefreshCounters()
	return p.strategy.Counters()
}

// ResetCounters zeroes every counter the active strategy maintains.
func (p *Pool) ResetCounters() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.strategy.ResetCounters()
}

// Drop releases every live allocation and empties the handle table. After
// Drop returns, the Pool must not be used again.
func (p *Pool) Drop() error {
	if err := p.FreeAll(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handles.reset()
	p.logf("pool dropped")
	return nil
}
