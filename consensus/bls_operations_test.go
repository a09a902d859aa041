package consensus

import (
	"math/big"
	"testing"
)

// testForkVersion is a test fork version.
var testForkVersion = [4]byte{0x01, 0x00, 0x00, 0x00}

// testGenesisRoot is a test genesis validators root.
var testGenesisRoot = [32]byte{0xAA, 0xBB, 0xCC, 0xDD}

func TestDomainSeparation(t *testing.T) {
	domain := DomainSeparation(DomainBeaconProposer, testForkVersion, testGenesisRoot)

	// The first 4 bytes should be the domain type.
	if domain[0] != 0x00 || domain[1] != 0x00 || domain[2] != 0x00 || domain[3] != 0x00 {
		t.Fatalf("domain type mismatch: got %x", domain[:4])
	}

	// The remaining 28 bytes should come from the fork data root.
	allZero := true
	for _, b := range domain[4:] {
		if b != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		t.Fatal("fork data root portion is all zeros")
	}
}

func TestDomainSeparationDifferentTypes(t *testing.T) {
	d1 := DomainSeparation(DomainBeaconProposer, testForkVersion, testGenesisRoot)
	d2 := DomainSeparation(DomainBeaconAttester, testForkVersion, testGenesisRoot)
	d3 := DomainSeparation(DomainSyncCommittee, testForkVersion, testGenesisRoot)

	if d1 == d2 || d1 == d3 || d2 == d3 {
		t.Fatal("different domain types should produce different domains")
	}
}

func TestDomainSeparationDifferentForks(t *testing.T) {
	fork1 := [4]byte{0x01, 0x00, 0x00, 0x00}
	fork2 := [4]byte{0x02, 0x00, 0x00, 0x00}

	d1 := DomainSeparation(DomainBeaconProposer, fork1, testGenesisRoot)
	d2 := DomainSeparation(DomainBeaconProposer, fork2, testGenesisRoot)

	if d1 == d2 {
		t.Fatal("different fork versions should produce different domains")
	}
}

func TestDomainSeparationDifferentGenesis(t *testing.T) {
	gen1 := [32]byte{0x01}
	gen2 := [32]byte{0x02}

	d1 := DomainSeparation(DomainBeaconProposer, testForkVersion, gen1)
	d2 := DomainSeparation(DomainBeaconProposer, testForkVersion, gen2)

	if d1 == d2 {
		t.Fatal("different genesis roots should produce different domains")
	}
}

func TestComputeSigningRoot(t *testing.T) {
	objectRoot := [32]byte{0x01, 0x02, 0x03}
	domain := [32]byte{0x04, 0x05, 0x06}

	root := ComputeSigningRoot(objectRoot, domain)

	// Should be deterministic.
	root2 := ComputeSigningRoot(objectRoot, domain)
	if root != root2 {
		t.Fatal("signing root is not deterministic")
	}

	// Different object root should give different signing root.
	otherObjectRoot := [32]byte{0x07, 0x08, 0x09}
	root3 := ComputeSigningRoot(otherObjectRoot, domain)
	if root == root3 {
		t.Fatal("different object roots should produce different signing roots")
	}

	// Different domain should give different signing root.
	otherDomain := [32]byte{0x0A, 0x0B, 0x0C}
	root4 := ComputeSigningRoot(objectRoot, otherDomain)
	if root == root4 {
		t.Fatal("different domains should produce different signing roots")
	}
}

func TestSignWithDomain(t *testing.T) {
	secret := big.NewInt(42)
	objectRoot := [32]byte{0x01}
	domain := [32]byte{0x02}

	sig := SignWithDomain(secret.Bytes(), objectRoot, domain)

	// Verify deterministic.
	sig2 := SignWithDomain(secret.Bytes(), objectRoot, domain)
	if sig != sig2 {
		t.Fatal("SignWithDomain is not deterministic")
	}

	// Should not be all zeros.
	allZero := true
	for _, b := range sig {
		if b != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		t.Fatal("signature is all zeros")
	}
}

func TestDomainConstants(t *testing.T) {
	// Verify domain types match the spec values.
	if DomainBeaconProposer != [4]byte{0x00, 0x00, 0x00, 0x00} {
		t.Fatal("DomainBeaconProposer mismatch")
	}
	if DomainBeaconAttester != [4]byte{0x01, 0x00, 0x00, 0x00} {
		t.Fatal("DomainBeaconAttester mismatch")
	}
	if DomainRandao != [4]byte{0x02, 0x00, 0x00, 0x00} {
		t.Fatal("DomainRandao mismatch")
	}
	if DomainDeposit != [4]byte{0x03, 0x00, 0x00, 0x00} {
		t.Fatal("DomainDeposit mismatch")
	}
	if DomainVoluntaryExit != [4]byte{0x04, 0x00, 0x00, 0x00} {
		t.Fatal("DomainVoluntaryExit mismatch")
	}
	if DomainSyncCommittee != [4]byte{0x07, 0x00, 0x00, 0x00} {
		t.Fatal("DomainSyncCommittee mismatch")
	}
}
