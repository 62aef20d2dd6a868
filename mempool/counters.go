package mempool

// Counters is the fixed-shape block of monotonic counters and byte totals
// every strategy maintains (spec.md §3 "Pool counters", mirroring struct
// pool_counters in the original). All fields are zeroed by ResetCounters;
// RefreshCounters recomputes only ImplMemFootprint from strategy state.
type Counters struct {
	NumAllocCalls   uint32
	NumReallocCalls uint32
	NumFreeCalls    uint32
	NumGCCalls      uint32

	NumManagedAllocCalls   uint32
	NumManagedReallocCalls uint32
	NumManagedFreeCalls    uint32

	ImplMemFootprint uint32

	NumBytesAllocd   uint32
	NumBytesReallocd uint32
	NumBytesFreed    uint32

	NumBytesAllocCache   uint32
	NumBytesReallocCache uint32
	NumBytesFreeCache    uint32

	NumBytesAllocBlocked   uint32
	NumBytesReallocBlocked uint32
	NumBytesFreeBlocked    uint32
}

// absDiff is the |total - n| helper spec.md §4.6 uses when accounting
// bytes moved during a reallocation.
func absDiff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}
