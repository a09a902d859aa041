package consensus

import (
	"github.com/eth2030/eth2030/core/types"
	"github.com/eth2030/eth2030/ssz"
)

// Wire types for the finality fraud-proof pipeline. These predate
// EIP-7549's AttestationData (the committee index is still part of the
// signed payload here, per the upstream fraud-proof format).

// ZiplineAttestationData is the signed payload of a fraud-proof
// attestation: slot, committee index, beacon block root, and the
// source/target checkpoint link.
type ZiplineAttestationData struct {
	Slot            Slot
	CommitteeIndex  uint64
	BeaconBlockRoot types.Hash
	Source          Checkpoint
	Target          Checkpoint
}

// Link returns the CasperLink this attestation votes for.
func (d ZiplineAttestationData) Link() CasperLink {
	return CasperLink{Source: d.Source, Target: d.Target}
}

// ZiplineAttestation is a validator committee's vote, bounded to at most
// maxCommittee bits.
type ZiplineAttestation struct {
	AggregationBits ssz.Bitlist
	Data            ZiplineAttestationData
	Signature       [96]byte
}

// CasperLink is a (source, target) checkpoint pair: the key of the
// attesting-balance accumulator. It has a total order so it can be used
// as the key of a deterministic ordered map.
type CasperLink struct {
	Source Checkpoint
	Target Checkpoint
}

// Less implements a total order over CasperLink by (source.epoch,
// source.root, target.epoch, target.root), matching the ordering
// requirement for deterministic accumulation.
func (l CasperLink) Less(o CasperLink) bool {
	if l.Source.Epoch != o.Source.Epoch {
		return l.Source.Epoch < o.Source.Epoch
	}
	if l.Source.Root != o.Source.Root {
		return lessHash(l.Source.Root, o.Source.Root)
	}
	if l.Target.Epoch != o.Target.Epoch {
		return l.Target.Epoch < o.Target.Epoch
	}
	return lessHash(l.Target.Root, o.Target.Root)
}

func lessHash(a, b types.Hash) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// StatePatch is a per-epoch delta over a beacon state, bounded by churn
// rules, that allows the verifier to shuffle one epoch ahead of what the
// base state reader can natively answer.
type StatePatch struct {
	Epoch              Epoch
	Activations        []uint32
	Exits              []uint32
	NDepositsProcessed uint32
	RandaoNext         types.Hash
}

// IsValid checks the churn and deposit bounds for a patch given the
// number of currently active validators, per:
//
//	churn_limit = max(MIN_PER_EPOCH_CHURN, n_active) / CHURN_QUOTIENT
func (p StatePatch) IsValid(nActiveValidators uint64, spec Spec) bool {
	churnLimit := GetValidatorChurnLimit(nActiveValidators, spec)
	if uint64(len(p.Activations)) > churnLimit || uint64(len(p.Exits)) > churnLimit {
		return false
	}
	if uint64(p.NDepositsProcessed) > spec.MaxDeposits*spec.SlotsPerEpoch {
		return false
	}
	return true
}

// GetValidatorChurnLimit computes the churn limit for a validator set of
// the given size.
func GetValidatorChurnLimit(nActiveValidators uint64, spec Spec) uint64 {
	limit := nActiveValidators
	if spec.MinPerEpochChurnLimit > limit {
		limit = spec.MinPerEpochChurnLimit
	}
	return limit / spec.ChurnLimitQuotient
}

// ZiplineInput is the full SSZ input blob the verifier consumes: trusted
// and candidate checkpoints, the state root they are read against, the
// patch sequence extending the reader one epoch ahead, the attestations
// to accumulate, and the Merkle branch proving state_root against
// trusted_cp.root.
type ZiplineInput struct {
	TrustedCheckpoint   Checkpoint
	CandidateCheckpoint Checkpoint
	StateRoot           types.Hash
	Patches             []StatePatch
	Attestations        []ZiplineAttestation
	StateProof          [3]types.Hash
}
