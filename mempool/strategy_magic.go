package mempool

import (
	"github.com/RAO-29/carbon-mempool/dataptr"
	"github.com/RAO-29/carbon-mempool/internal/sysalloc"
	"github.com/RAO-29/carbon-mempool/poolerr"
)

// magicName is the strategy's advertised name (POOL_STRATEGY_MAGIC_NAME in
// the original).
const magicName = "mempool/magic"

func init() {
	Register(Pooled, newMagicStrategy, nil)
}

// magicStrategy is C7: identical alloc/realloc/free mechanics to the none
// strategy (the original's magic.c is, line for line, the same calls into
// malloc/realloc/free as none.c), but it advertises the Pooled capability
// and is the one strategy that exercises the counters block's "managed"
// fields — distinguishing calls a capability-aware caller routed here on
// purpose from calls that merely fell through to the unpooled baseline.
type magicStrategy struct {
	pool     *Pool
	counters Counters
}

func newMagicStrategy(p *Pool) Strategy {
	return &magicStrategy{pool: p}
}

func (s *magicStrategy) Name() string { return magicName }
func (s *magicStrategy) Tag() ImplTag { return TagMagic }

func (s *magicStrategy) Alloc(nbytes uint64) (dataptr.Ptr, error) {
	addr, err := sysalloc.Obtain(nbytes)
	if err != nil {
		panic(poolerr.Newf(poolerr.AllocFailed, "mempool/magic: alloc %d bytes: %v", nbytes, err))
	}

	ptr, err := s.pool.handles.register(addr, uint32(nbytes), uint32(nbytes))
	if err != nil {
		sysalloc.Release(addr, nbytes)
		return 0, err
	}

	s.counters.NumAllocCalls++
	s.counters.NumManagedAllocCalls++
	s.counters.NumBytesAllocd += uint32(nbytes)
	return ptr, nil
}

func (s *magicStrategy) Realloc(ptr dataptr.Ptr, nbytes uint64) (dataptr.Ptr, error) {
	info, err := s.pool.handles.info(ptr)
	if err != nil {
		return 0, err
	}

	s.counters.NumBytesReallocd += uint32(nbytes)
	s.counters.NumBytesAllocd += absDiff(info.bytesTotal, uint32(nbytes))

	oldAddr := dataptr.GetAddress(ptr)
	newAddr, rerr := sysalloc.Resize(oldAddr, uint64(info.bytesTotal), nbytes)
	if rerr != nil {
		// Failed realloc is only reported, not fatal: bookkeeping is left
		// untouched and the caller gets back its still-valid pointer.
		return ptr, poolerr.Newf(poolerr.ReallocFailed, "mempool/magic: realloc %d bytes: %v", nbytes, rerr)
	}

	newPtr, err := dataptr.Update(ptr, newAddr)
	if err != nil {
		return 0, err
	}
	info.ptr = newPtr
	info.bytesUsed = uint32(nbytes)
	info.bytesTotal = uint32(nbytes)
	s.counters.NumReallocCalls++
	s.counters.NumManagedReallocCalls++
	return newPtr, nil
}

func (s *magicStrategy) Free(ptr dataptr.Ptr) error {
	info, err := s.pool.handles.info(ptr)
	if err != nil {
		return err
	}
	addr := dataptr.GetAddress(ptr)
	size := uint64(info.bytesTotal)
	freed := info.bytesTotal

	if err := sysalloc.Release(addr, size); err != nil {
		return poolerr.Newf(poolerr.FreeFailed, "mempool/magic: free: %v", err)
	}
	if err := s.pool.handles.unregister(ptr); err != nil {
		return err
	}

	s.counters.NumFreeCalls++
	s.counters.NumManagedFreeCalls++
	s.counters.NumBytesFreed += freed
	return nil
}

// GC is a no-op, matching spec.md §4.6: magic does not defer release, so
// there is nothing for a collection pass to reclaim.
func (s *magicStrategy) GC() error { return nil }

func (s *magicStrategy) RefreshCounters() {
	s.counters.ImplMemFootprint = 0
}

func (s *magicStrategy) ResetCounters() {
	s.counters = Counters{}
}

func (s *magicStrategy) Counters() Counters {
	return s.counters
}
