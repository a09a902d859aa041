package mipsvm

import "testing"

func TestMapRamReadWriteRoundTrips(t *testing.T) {
	ram := NewMapRam()
	ram.Write(0x1000, 0xdeadbeef)
	got, ok := ram.Read(0x1000)
	if !ok || got != 0xdeadbeef {
		t.Fatalf("expected (0xdeadbeef, true), got (0x%x, %v)", got, ok)
	}
}

func TestMapRamReadDefaultsToZero(t *testing.T) {
	ram := NewMapRam()
	if got := ram.ReadOrDefault(0x2000); got != 0 {
		t.Errorf("expected 0 for unwritten address, got %d", got)
	}
	if _, ok := ram.Read(0x2000); ok {
		t.Error("expected ok=false for unwritten address")
	}
}

func TestMapRamWriteAligns(t *testing.T) {
	ram := NewMapRam()
	ram.Write(0x1003, 7)
	if got := ram.ReadOrDefault(0x1000); got != 7 {
		t.Errorf("expected write to 0x1003 to land on aligned word 0x1000, got %d", got)
	}
}

func TestMapRamLoadDataPacksBigEndian(t *testing.T) {
	ram := NewMapRam()
	ram.LoadData([]byte{0x01, 0x02, 0x03, 0x04, 0xff}, 0x100)
	if got := ram.ReadOrDefault(0x100); got != 0x01020304 {
		t.Errorf("expected 0x01020304, got 0x%x", got)
	}
	if got := ram.ReadOrDefault(0x104); got != 0xff000000 {
		t.Errorf("expected zero-padded final word 0xff000000, got 0x%x", got)
	}
}

func TestMapRamZeroRegistersCoversWholeWindow(t *testing.T) {
	ram := NewMapRam()
	ram.Write(PCAddr, 0x1234)
	ram.ZeroRegisters()
	for i := uint32(0); i < registerWindowWords; i++ {
		if got := ram.ReadOrDefault(RegisterBase + 4*i); got != 0 {
			t.Errorf("register word %d not zeroed: got %d", i, got)
		}
	}
}

func TestMapRamCommitDeterministicRegardlessOfWriteOrder(t *testing.T) {
	a := NewMapRam()
	a.Write(0x10, 1)
	a.Write(0x20, 2)
	a.Write(0x30, 3)

	b := NewMapRam()
	b.Write(0x30, 3)
	b.Write(0x10, 1)
	b.Write(0x20, 2)

	rootA, err := a.Commit()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rootB, err := b.Commit()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rootA != rootB {
		t.Error("expected commitment to be independent of write order")
	}
}

func TestMapRamCommitChangesWithContent(t *testing.T) {
	a := NewMapRam()
	a.Write(0x10, 1)
	rootA, err := a.Commit()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b := NewMapRam()
	b.Write(0x10, 2)
	rootB, err := b.Commit()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rootA == rootB {
		t.Error("expected different content to produce different roots")
	}
}

func TestMapRamCommitEmptyIsStable(t *testing.T) {
	a := NewMapRam()
	b := NewMapRam()
	rootA, err := a.Commit()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rootB, err := b.Commit()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rootA != rootB {
		t.Error("expected two empty RAMs to commit to the same root")
	}
}

func TestMapRamLen(t *testing.T) {
	ram := NewMapRam()
	if ram.Len() != 0 {
		t.Fatalf("expected 0, got %d", ram.Len())
	}
	ram.Write(0x10, 1)
	ram.Write(0x10, 2) // overwrite, not a new entry
	ram.Write(0x20, 3)
	if ram.Len() != 2 {
		t.Fatalf("expected 2, got %d", ram.Len())
	}
}
