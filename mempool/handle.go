package mempool

import (
	"math"

	"github.com/RAO-29/carbon-mempool/dataptr"
	"github.com/RAO-29/carbon-mempool/poolerr"
)

// handleInfo is one tracked live allocation (spec.md §3 "Pool handle
// info"): the data pointer encoding the raw address and its own slot
// index, a free flag, and the byte accounting a strategy needs to drive a
// realloc or free.
type handleInfo struct {
	free       bool
	bytesUsed  uint32
	bytesTotal uint32
	ptr        dataptr.Ptr
}

// maxLiveSlot mirrors the original's `pos + 1 == UINT16_MAX` guard: slot
// index 0xFFFE (the 65535th slot, 0-indexed 65534) is refused, reserving
// 0xFFFF as a distinguished "no data" slot index.
const maxLiveSlot = math.MaxUint16 - 1

// handleTable is the pool's directory of currently-live allocations (C4):
// a contiguous slice of entries with a parallel LIFO freelist of released
// slot indices, reused before the table is grown.
type handleTable struct {
	entries  []handleInfo
	freelist []uint16
}

// register turns a raw (address, used, total) allocation into a data
// pointer carrying the slot index it was stored at, per spec.md §4.4.
func (t *handleTable) register(addr uintptr, used, total uint32) (dataptr.Ptr, error) {
	var pos uint16
	var info *handleInfo

	if n := len(t.freelist); n > 0 {
		pos = t.freelist[n-1]
		t.freelist = t.freelist[:n-1]
		info = &t.entries[pos]
		if !info.free {
			return 0, poolerr.New(poolerr.InternalError)
		}
	} else {
		// Refuse before growing: unlike the original (which appends first
		// and only then rejects, leaking a zeroed, untracked slot), a slot
		// index that would land on maxLiveSlot is turned away without
		// mutating the table at all.
		if len(t.entries) >= maxLiveSlot {
			return 0, poolerr.New(poolerr.PoolLimitReached)
		}
		pos = uint16(len(t.entries))
		t.entries = append(t.entries, handleInfo{})
		info = &t.entries[pos]
	}

	ptr, err := dataptr.Create(addr)
	if err != nil {
		return 0, err
	}
	ptr, err = dataptr.SetPayload(ptr, pos)
	if err != nil {
		return 0, err
	}

	*info = handleInfo{free: false, bytesUsed: used, bytesTotal: total, ptr: ptr}
	return ptr, nil
}

// unregister releases the slot a data pointer was registered at, per
// spec.md §4.4 "Unregister".
func (t *handleTable) unregister(ptr dataptr.Ptr) error {
	pos, err := dataptr.GetPayload(ptr)
	if err != nil {
		return err
	}
	if int(pos) >= len(t.entries) {
		return poolerr.New(poolerr.OutOfBounds)
	}
	info := &t.entries[pos]
	if info.free || dataptr.GetAddress(info.ptr) != dataptr.GetAddress(ptr) {
		return poolerr.New(poolerr.InternalError)
	}
	info.free = true
	t.freelist = append(t.freelist, pos)
	return nil
}

// info looks up the handleInfo for a live data pointer, per spec.md §4.4
// "Lookup info by data pointer".
func (t *handleTable) info(ptr dataptr.Ptr) (*handleInfo, error) {
	pos, err := dataptr.GetPayload(ptr)
	if err != nil {
		return nil, err
	}
	if int(pos) >= len(t.entries) {
		return nil, poolerr.New(poolerr.OutOfBounds)
	}
	info := &t.entries[pos]
	if info.free || dataptr.GetAddress(info.ptr) != dataptr.GetAddress(ptr) {
		return nil, poolerr.New(poolerr.InternalError)
	}
	return info, nil
}

// liveCount returns the number of non-free slots (used by PH1 tests).
func (t *handleTable) liveCount() int {
	n := 0
	for i := range t.entries {
		if !t.entries[i].free {
			n++
		}
	}
	return n
}

// reset empties the table, per the postcondition of pool façade FreeAll:
// "After completion, the table is empty."
func (t *handleTable) reset() {
	t.entries = nil
	t.freelist = nil
}
