package consensus

import "testing"

func TestMainnetSpecValidatorsGindexConsistentWithDepth(t *testing.T) {
	s := MainnetSpec()
	// Validators0Gindex must be reachable within ValidatorTreeDepth bits:
	// i.e. Validators0Gindex >> ValidatorTreeDepth must be a small constant
	// (the subtree root's own gindex within BeaconState), not zero and not
	// overflowing a 64-bit gindex.
	if s.Validators0Gindex>>s.ValidatorTreeDepth == 0 {
		t.Error("Validators0Gindex does not encode ValidatorTreeDepth worth of low bits")
	}
}

func TestMainnetSpecRandaoGindexFoldsDepth(t *testing.T) {
	s := MainnetSpec()
	want := s.RandaoMixesRootGindex << s.RandaoMixesDepth
	if s.RandaoMixes0Gindex != want {
		t.Errorf("RandaoMixes0Gindex = %d, want %d (RandaoMixesRootGindex << RandaoMixesDepth)", s.RandaoMixes0Gindex, want)
	}
}

func TestMinimalSpecOverridesTiming(t *testing.T) {
	s := MinimalSpec()
	if s.SlotsPerEpoch != 8 {
		t.Errorf("expected SlotsPerEpoch 8, got %d", s.SlotsPerEpoch)
	}
	if s.MaxDeposits != MainnetSpec().MaxDeposits {
		t.Error("expected MaxDeposits to be inherited from MainnetSpec")
	}
}

func TestSpecTestSpecDiffersFromMinimalOnlyInForkVersion(t *testing.T) {
	min := MinimalSpec()
	st := SpecTestSpec()
	st.ForkVersion = min.ForkVersion
	if st != min {
		t.Error("expected SpecTestSpec to equal MinimalSpec once fork version is normalized")
	}
}

func TestGetRandaoIndexWrapsAround(t *testing.T) {
	// epoch=0, lookahead=1, vector=64 -> (0 + 64 - 1 - 1) % 64 = 62
	if got := GetRandaoIndex(0, 64, 1); got != 62 {
		t.Errorf("expected 62, got %d", got)
	}
}

func TestGetValidatorChurnLimit(t *testing.T) {
	spec := MainnetSpec()
	if got := GetValidatorChurnLimit(1, spec); got != 0 {
		// MinPerEpochChurnLimit(4) / ChurnLimitQuotient(65536) floors to 0.
		t.Errorf("expected 0 for tiny active set, got %d", got)
	}
	big := spec.ChurnLimitQuotient * 100
	if got := GetValidatorChurnLimit(big, spec); got != 100 {
		t.Errorf("expected 100, got %d", got)
	}
}
