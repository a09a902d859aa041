package mipsvm

import "testing"

func TestDissectExecutionRejectsTooManySections(t *testing.T) {
	if _, err := DissectExecution(0, 4, 5, nil); err != ErrTraceBadDissection {
		t.Errorf("expected ErrTraceBadDissection, got %v", err)
	}
}

func TestDissectExecutionRejectsEmptyRange(t *testing.T) {
	if _, err := DissectExecution(10, 10, 1, nil); err != ErrTraceBadDissection {
		t.Errorf("expected ErrTraceBadDissection, got %v", err)
	}
}

func TestDissectExecutionSectionBoundariesEvenlySpaced(t *testing.T) {
	cfg, err := DissectExecution(0, 9, 3, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bounds := cfg.sectionBoundaries()
	want := []uint64{0, 3, 6, 9}
	if len(bounds) != len(want) {
		t.Fatalf("expected %d boundaries, got %d", len(want), len(bounds))
	}
	for i, b := range bounds {
		if b != want[i] {
			t.Errorf("boundary %d: expected %d, got %d", i, want[i], b)
		}
	}
}

func TestDissectExecutionSectionBoundariesWithOffsetStart(t *testing.T) {
	cfg, err := DissectExecution(5, 15, 2, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bounds := cfg.sectionBoundaries()
	want := []uint64{5, 10, 15}
	for i, b := range bounds {
		if b != want[i] {
			t.Errorf("boundary %d: expected %d, got %d", i, want[i], b)
		}
	}
}

func TestTurboAndNewChallengeKinds(t *testing.T) {
	if Turbo().Kind != TraceTurbo {
		t.Error("expected Turbo to produce TraceTurbo")
	}
	if NewChallengeTrace().Kind != TraceNewChallenge {
		t.Error("expected NewChallengeTrace to produce TraceNewChallenge")
	}
}

func TestOneStepProofCarriesStep(t *testing.T) {
	cfg := OneStepProof(42)
	if cfg.Kind != TraceOneStepProof || cfg.Step != 42 {
		t.Errorf("expected OneStepProof kind with step 42, got %+v", cfg)
	}
}
