package consensus

import "testing"

func mkShuffleData(n int) ShuffleData {
	indices := make([]ValidatorIndex, n)
	for i := range indices {
		indices[i] = ValidatorIndex(i)
	}
	return ShuffleData{
		Seed:                   [32]byte{1, 2, 3},
		ActiveValidatorIndices: indices,
		LenTotalValidators:     uint64(n),
	}
}

func TestNewCommitteeCacheRejectsEmptyActiveSet(t *testing.T) {
	_, err := NewCommitteeCache(ShuffleData{LenTotalValidators: 10}, 5, MinimalSpec())
	if err != ErrCCInsufficientValidators {
		t.Fatalf("expected ErrCCInsufficientValidators, got %v", err)
	}
}

func TestNewCommitteeCacheRejectsZeroSlotsPerEpoch(t *testing.T) {
	spec := MinimalSpec()
	spec.SlotsPerEpoch = 0
	_, err := NewCommitteeCache(mkShuffleData(10), 5, spec)
	if err != ErrCCZeroSlotsPerEpoch {
		t.Fatalf("expected ErrCCZeroSlotsPerEpoch, got %v", err)
	}
}

func TestCommitteeCacheShufflingIsPermutation(t *testing.T) {
	spec := MinimalSpec()
	data := mkShuffleData(64)
	cache, err := NewCommitteeCache(data, 5, spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seen := make(map[ValidatorIndex]bool)
	for _, v := range cache.Shuffling() {
		if seen[v] {
			t.Fatalf("duplicate validator index %d in shuffling", v)
		}
		seen[v] = true
	}
	if len(seen) != len(data.ActiveValidatorIndices) {
		t.Fatalf("expected %d distinct indices, got %d", len(data.ActiveValidatorIndices), len(seen))
	}
}

func TestCommitteeCacheGetBeaconCommitteeCoversEveryValidatorExactlyOnce(t *testing.T) {
	spec := MinimalSpec()
	data := mkShuffleData(64)
	cache, err := NewCommitteeCache(data, 5, spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seen := make(map[ValidatorIndex]int)
	for slot := Slot(0); slot < Slot(spec.SlotsPerEpoch); slot++ {
		for ci := uint64(0); ci < cache.CommitteesPerSlot(); ci++ {
			committee, err := cache.GetBeaconCommittee(slot, ci, 5)
			if err != nil {
				t.Fatalf("unexpected error at slot %d index %d: %v", slot, ci, err)
			}
			for _, v := range committee {
				seen[v]++
			}
		}
	}
	for v, count := range seen {
		if count != 1 {
			t.Errorf("validator %d assigned to %d committees, want 1", v, count)
		}
	}
	if len(seen) != len(data.ActiveValidatorIndices) {
		t.Fatalf("expected every validator assigned, got %d of %d", len(seen), len(data.ActiveValidatorIndices))
	}
}

func TestCommitteeCacheWrongEpochErrors(t *testing.T) {
	spec := MinimalSpec()
	cache, err := NewCommitteeCache(mkShuffleData(32), 5, spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := cache.GetBeaconCommittee(0, 0, 6); err != ErrCCNotInitializedAtEpoch {
		t.Fatalf("expected ErrCCNotInitializedAtEpoch, got %v", err)
	}
}

func TestComputeCommitteeCountPerSlotBounds(t *testing.T) {
	spec := MainnetSpec()
	if got := ComputeCommitteeCountPerSlot(1, spec); got != 1 {
		t.Errorf("expected floor of 1, got %d", got)
	}
	if got := ComputeCommitteeCountPerSlot(spec.SlotsPerEpoch*spec.TargetCommitteeSize*1000, spec); got != spec.MaxCommitteesPerSlot {
		t.Errorf("expected cap at MaxCommitteesPerSlot, got %d", got)
	}
}
