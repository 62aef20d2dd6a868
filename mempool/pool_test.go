package mempool

import (
	"math"
	"testing"

	"github.com/RAO-29/carbon-mempool/dataptr"
	"github.com/RAO-29/carbon-mempool/poolerr"
)

func TestAllocFreeRoundTrip(t *testing.T) {
	p, err := New(Unpooled)
	if err != nil {
		t.Fatal(err)
	}

	ptr, err := p.Alloc(128)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if dataptr.GetAddress(ptr) == 0 {
		t.Fatal("expected non-zero address")
	}
	if pl, _ := dataptr.GetPayload(ptr); pl != 0 {
		t.Fatalf("payload = %d, want 0", pl)
	}

	if err := p.Free(ptr); err != nil {
		t.Fatalf("Free: %v", err)
	}

	c := p.Counters()
	if c.NumAllocCalls != 1 || c.NumFreeCalls != 1 {
		t.Fatalf("counters = %+v, want NumAllocCalls=1 NumFreeCalls=1", c)
	}
	if c.NumBytesAllocd != 128 || c.NumBytesFreed != 128 {
		t.Fatalf("counters = %+v, want 128 bytes allocated and freed", c)
	}
}

func TestAllocSlotReuse(t *testing.T) {
	p, err := New(Unpooled)
	if err != nil {
		t.Fatal(err)
	}

	p1, err := p.Alloc(8)
	if err != nil {
		t.Fatal(err)
	}
	p2, err := p.Alloc(8)
	if err != nil {
		t.Fatal(err)
	}

	if pl1, _ := dataptr.GetPayload(p1); pl1 != 0 {
		t.Fatalf("p1 payload = %d, want 0", pl1)
	}
	if pl2, _ := dataptr.GetPayload(p2); pl2 != 1 {
		t.Fatalf("p2 payload = %d, want 1", pl2)
	}

	if err := p.Free(p1); err != nil {
		t.Fatal(err)
	}

	p3, err := p.Alloc(8)
	if err != nil {
		t.Fatal(err)
	}
	if pl3, _ := dataptr.GetPayload(p3); pl3 != 0 {
		t.Fatalf("p3 payload = %d, want 0 (freed slot reused)", pl3)
	}
}

func TestReallocPreservesSlot(t *testing.T) {
	p, err := New(Unpooled)
	if err != nil {
		t.Fatal(err)
	}

	p1, err := p.Alloc(16)
	if err != nil {
		t.Fatal(err)
	}
	if pl, _ := dataptr.GetPayload(p1); pl != 0 {
		t.Fatalf("p1 payload = %d, want 0", pl)
	}

	p1b, err := p.Realloc(p1, 64)
	if err != nil {
		t.Fatalf("Realloc: %v", err)
	}
	if pl, _ := dataptr.GetPayload(p1b); pl != 0 {
		t.Fatalf("reallocated payload = %d, want 0", pl)
	}

	if c := p.Counters(); c.NumReallocCalls != 1 {
		t.Fatalf("NumReallocCalls = %d, want 1", c.NumReallocCalls)
	}
}

func TestReallocFailurePreservesInputPointer(t *testing.T) {
	// spec.md §4.5/§7/§9: a failed reallocation must leave the input
	// pointer valid and returned, unlike a failed alloc.
	p, err := New(Unpooled)
	if err != nil {
		t.Fatal(err)
	}

	p1, err := p.Alloc(16)
	if err != nil {
		t.Fatal(err)
	}

	// A resize this large fails in any real environment (mremap ENOMEM),
	// exercising the report-only failure path.
	got, err := p.Realloc(p1, 1<<62)
	if err == nil {
		t.Fatal("expected an unreasonably large realloc to fail")
	}
	if got != p1 {
		t.Fatalf("Realloc on failure returned %v, want the original pointer %v", got, p1)
	}

	var pe poolerr.Error
	if e, ok := err.(poolerr.Error); ok {
		pe = e
	} else {
		t.Fatalf("expected a poolerr.Error, got %T", err)
	}
	if pe.Code != poolerr.ReallocFailed {
		t.Fatalf("error code = %v, want ReallocFailed", pe.Code)
	}

	// The original allocation must still be freeable: bookkeeping wasn't
	// disturbed by the failed realloc.
	if err := p.Free(p1); err != nil {
		t.Fatalf("Free after failed realloc: %v", err)
	}
}

func TestReallocRejectsZeroSize(t *testing.T) {
	p, err := New(Unpooled)
	if err != nil {
		t.Fatal(err)
	}

	p1, err := p.Alloc(16)
	if err != nil {
		t.Fatal(err)
	}

	got, err := p.Realloc(p1, 0)
	if err == nil {
		t.Fatal("expected Realloc(ptr, 0) to fail")
	}
	if got != p1 {
		t.Fatalf("Realloc(ptr, 0) returned %v, want the original pointer %v", got, p1)
	}

	var pe poolerr.Error
	if e, ok := err.(poolerr.Error); ok {
		pe = e
	} else {
		t.Fatalf("expected a poolerr.Error, got %T", err)
	}
	if pe.Code != poolerr.IllegalArgument {
		t.Fatalf("error code = %v, want IllegalArgument", pe.Code)
	}

	// Rejected up front, before ever reaching the strategy: no realloc was
	// counted.
	if c := p.Counters(); c.NumReallocCalls != 0 {
		t.Fatalf("NumReallocCalls = %d, want 0", c.NumReallocCalls)
	}
}

func TestCreateByNameLookup(t *testing.T) {
	p, err := NewByName("mempool/none")
	if err != nil {
		t.Fatalf("NewByName: %v", err)
	}
	if got := p.ImplName(); got != "mempool/none" {
		t.Fatalf("ImplName() = %q, want mempool/none", got)
	}

	_, err = NewByName("does-not-exist")
	if err == nil {
		t.Fatal("expected lookup of an unknown name to fail")
	}
	var pe poolerr.Error
	if e, ok := err.(poolerr.Error); ok {
		pe = e
	} else {
		t.Fatalf("expected a poolerr.Error, got %T", err)
	}
	if pe.Code != poolerr.NotFound {
		t.Fatalf("error code = %v, want NotFound", pe.Code)
	}
}

func TestAllocArrayRejectsOverflow(t *testing.T) {
	p, err := New(Unpooled)
	if err != nil {
		t.Fatal(err)
	}
	// howMany * nbytes overflows uint64.
	_, err = p.AllocArray(math.MaxUint32, 1<<40)
	if err == nil {
		t.Fatal("expected AllocArray overflow to be rejected")
	}
}

func TestFreeAllEmptiesHandleTable(t *testing.T) {
	p, err := New(Unpooled)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		if _, err := p.Alloc(32); err != nil {
			t.Fatal(err)
		}
	}
	if err := p.FreeAll(); err != nil {
		t.Fatalf("FreeAll: %v", err)
	}
	if c := p.Counters(); c.NumFreeCalls != 4 {
		t.Fatalf("NumFreeCalls = %d, want 4", c.NumFreeCalls)
	}
	if n := len(p.handles.entries); n != 0 {
		t.Fatalf("handle table length after FreeAll = %d, want 0", n)
	}
}
