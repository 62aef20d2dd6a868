package mempool

import (
	"github.com/RAO-29/carbon-mempool/dataptr"
	"github.com/RAO-29/carbon-mempool/internal/sysalloc"
	"github.com/RAO-29/carbon-mempool/poolerr"
)

// noneName is the strategy's advertised name (POOL_STRATEGY_NONE_NAME in
// the original).
const noneName = "mempool/none"

func init() {
	Register(Unpooled, newNoneStrategy, nil)
}

// noneStrategy is C6: every Alloc maps a fresh system region directly,
// every Free releases it immediately. It does no pooling whatsoever —
// spec.md §4.6 describes it as the baseline every other strategy is
// measured against.
type noneStrategy struct {
	pool     *Pool
	counters Counters
}

func newNoneStrategy(p *Pool) Strategy {
	return &noneStrategy{pool: p}
}

func (s *noneStrategy) Name() string { return noneName }
func (s *noneStrategy) Tag() ImplTag { return TagNone }

func (s *noneStrategy) Alloc(nbytes uint64) (dataptr.Ptr, error) {
	addr, err := sysalloc.Obtain(nbytes)
	if err != nil {
		// Matches the original's assert(ptr) after malloc: an allocation
		// failure here is treated as fatal, not merely reported.
		panic(poolerr.Newf(poolerr.AllocFailed, "mempool/none: alloc %d bytes: %v", nbytes, err))
	}

	ptr, err := s.pool.handles.register(addr, uint32(nbytes), uint32(nbytes))
	if err != nil {
		sysalloc.Release(addr, nbytes)
		return 0, err
	}

	s.counters.NumAllocCalls++
	s.counters.NumBytesAllocd += uint32(nbytes)
	return ptr, nil
}

func (s *noneStrategy) Realloc(ptr dataptr.Ptr, nbytes uint64) (dataptr.Ptr, error) {
	info, err := s.pool.handles.info(ptr)
	if err != nil {
		return 0, err
	}

	s.counters.NumBytesReallocd += uint32(nbytes)
	s.counters.NumBytesAllocd += absDiff(info.bytesTotal, uint32(nbytes))

	oldAddr := dataptr.GetAddress(ptr)
	newAddr, rerr := sysalloc.Resize(oldAddr, uint64(info.bytesTotal), nbytes)
	if rerr != nil {
		// Unlike alloc, a failed realloc is only reported: the original
		// memory block and the pool's bookkeeping are left untouched, and
		// the caller gets back the same still-valid pointer it passed in.
		return ptr, poolerr.Newf(poolerr.ReallocFailed, "mempool/none: realloc %d bytes: %v", nbytes, rerr)
	}

	newPtr, err := dataptr.Update(ptr, newAddr)
	if err != nil {
		return 0, err
	}
	info.ptr = newPtr
	info.bytesUsed = uint32(nbytes)
	info.bytesTotal = uint32(nbytes)
	s.counters.NumReallocCalls++
	return newPtr, nil
}

func (s *noneStrategy) Free(ptr dataptr.Ptr) error {
	info, err := s.pool.handles.info(ptr)
	if err != nil {
		return err
	}
	addr := dataptr.GetAddress(ptr)
	size := uint64(info.bytesTotal)
	freed := info.bytesTotal

	if err := sysalloc.Release(addr, size); err != nil {
		return poolerr.Newf(poolerr.FreeFailed, "mempool/none: free: %v", err)
	}
	if err := s.pool.handles.unregister(ptr); err != nil {
		return err
	}

	s.counters.NumFreeCalls++
	s.counters.NumBytesFreed += freed
	return nil
}

// GC is a no-op: spec.md §4.6 states it explicitly for every strategy in
// this module, since none of them defer release in a way a collection
// pass could act on.
func (s *noneStrategy) GC() error { return nil }

func (s *noneStrategy) RefreshCounters() {
	s.counters.ImplMemFootprint = 0
}

func (s *noneStrategy) ResetCounters() {
	s.counters = Counters{}
}

func (s *noneStrategy) Counters() Counters {
	return s.counters
}
