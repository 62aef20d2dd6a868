package taggedptr

import "testing"

func TestRoundTripAddressAndTag(t *testing.T) {
	// TP1: for all 4-byte-aligned addresses a and tags in [0, 4), GetAddress
	// and GetTag recover exactly what was packed in.
	addrs := []uintptr{4, 8, 0x1000, 0xDEADBE00}
	for _, a := range addrs {
		for tag := uint8(0); tag < 4; tag++ {
			ptr, err := Create(a)
			if err != nil {
				t.Fatalf("Create(%x): %v", a, err)
			}
			ptr, err = SetTag(ptr, tag)
			if err != nil {
				t.Fatalf("SetTag: %v", err)
			}
			if got := GetAddress(ptr); got != a {
				t.Fatalf("GetAddress = %x, want %x", got, a)
			}
			if got := GetTag(ptr); got != tag {
				t.Fatalf("GetTag = %d, want %d", got, tag)
			}
		}
	}
}

func TestSetTagRejectsOutOfRange(t *testing.T) {
	ptr, _ := Create(0x1000)
	if _, err := SetTag(ptr, 4); err == nil {
		t.Fatal("expected error for tag >= 4")
	}
}

func TestCreateRejectsNull(t *testing.T) {
	if _, err := Create(0); err == nil {
		t.Fatal("expected error creating from a null address")
	}
}

func TestIsTagged(t *testing.T) {
	ptr, _ := Create(0x1000)
	if IsTagged(ptr) {
		t.Fatal("freshly created pointer should be untagged")
	}
	ptr, _ = SetTag(ptr, 2)
	if !IsTagged(ptr) {
		t.Fatal("expected IsTagged after SetTag(2)")
	}
}

func TestUpdatePreservesTag(t *testing.T) {
	ptr, _ := Create(0x1000)
	ptr, _ = SetTag(ptr, 3)

	ptr, err := Update(ptr, 0x2000)
	if err != nil {
		t.Fatal(err)
	}
	ptr, err = Update(ptr, 0x3000)
	if err != nil {
		t.Fatal(err)
	}
	if got := GetAddress(ptr); got != 0x3000 {
		t.Fatalf("GetAddress = %x, want %x", got, 0x3000)
	}
	if got := GetTag(ptr); got != 3 {
		t.Fatalf("GetTag = %d, want 3", got)
	}
}
