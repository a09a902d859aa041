package consensus

import (
	"errors"

	"github.com/eth2030/eth2030/core/types"
	"github.com/eth2030/eth2030/crypto"
	"github.com/eth2030/eth2030/log"
	"github.com/eth2030/eth2030/ssz"
)

var verifierLog = log.Default().Module("verifier")

// Verifier preconditions/state errors. These are fatal: the caller should
// treat a returned error (as opposed to a false bool with nil error) as an
// unverifiable input, distinct from "verified and false".
var (
	ErrVerifierEpochMismatch      = errors.New("verifier: candidate epoch must be trusted epoch + 1")
	ErrVerifierNoPatches          = errors.New("verifier: at least one patch required")
	ErrVerifierFirstPatchEpoch    = errors.New("verifier: patches[0].epoch must equal candidate epoch")
	ErrVerifierNonContiguousPatch = errors.New("verifier: patches must be contiguous by epoch")
	ErrVerifierBadPatch           = errors.New("verifier: patch violates churn or deposit bounds")
	ErrVerifierBadStateProof      = errors.New("verifier: state_proof does not match trusted checkpoint root")
)

// StateProofDepth and StateProofGindex locate the state_root field within
// the beacon-block-header Merkle tree: depth 3, gindex 11.
const (
	StateProofDepth  = 3
	StateProofGindex = 11
)

// VerifierStateReader is the read surface the verifier needs from a beacon
// state reader. It mirrors sszstate.StateReader structurally (duck-typed,
// not an import of that package) so the verifier has no dependency on the
// SSZ/oracle machinery -- any reader satisfying this shape, production or
// in-memory, can be verified against.
type VerifierStateReader interface {
	Root() (types.Hash, error)
	ValidatorCount() (uint64, error)
	ActiveValidatorIndices(epoch Epoch) ([]ValidatorIndex, error)
	Randao(epoch Epoch) (types.Hash, error)
	TotalActiveBalance(epoch Epoch) (uint64, error)
	AggregateValidatorKeysAndBalance(indices []ValidatorIndex) ([][48]byte, uint64, error)
	ValidatorActivationAndExitEpochs(i ValidatorIndex) (activation, exit Epoch, err error)
}

// PatchedReaderLike is a VerifierStateReader that additionally supports
// applying one more StatePatch, returning the further-extended reader.
// sszstate.PatchedStateReader satisfies this (structurally); the verifier
// never imports sszstate directly.
type PatchedReaderLike interface {
	VerifierStateReader
	WithPatch(patch StatePatch) PatchedReaderLike
}

// checkStateProof verifies the 3-level Merkle branch input.StateProof
// proves that stateRoot is the state_root field (depth 3, gindex 11) of
// the block identified by trustedRoot.
func checkStateProof(stateRoot types.Hash, proof [3]types.Hash, trustedRoot types.Hash) bool {
	branch := make([][32]byte, StateProofDepth)
	for i, h := range proof {
		branch[i] = [32]byte(h)
	}
	return ssz.IsValidMerkleBranch([32]byte(stateRoot), branch, StateProofDepth, StateProofGindex, [32]byte(trustedRoot))
}

// Verify implements the §4.7 finality-verifier algorithm: accumulate
// attesting balance per Casper link across the patched epoch range,
// compute supermajority links, and walk justified epochs forward from
// candidate looking for a chain that finalizes it.
func Verify(reader PatchedReaderLike, input ZiplineInput, spec Spec) (bool, error) {
	if input.CandidateCheckpoint.Epoch != input.TrustedCheckpoint.Epoch+1 {
		return false, ErrVerifierEpochMismatch
	}
	if len(input.Patches) == 0 {
		return false, ErrVerifierNoPatches
	}
	if input.Patches[0].Epoch != input.CandidateCheckpoint.Epoch {
		return false, ErrVerifierFirstPatchEpoch
	}
	for i := 1; i < len(input.Patches); i++ {
		if input.Patches[i].Epoch != input.Patches[i-1].Epoch+1 {
			return false, ErrVerifierNonContiguousPatch
		}
	}
	if !checkStateProof(input.StateRoot, input.StateProof, input.TrustedCheckpoint.Root) {
		return false, ErrVerifierBadStateProof
	}

	attested := NewOrderedLinkMap()

	var cur VerifierStateReader = reader
	trustedEpoch := input.TrustedCheckpoint.Epoch

	for i, patch := range input.Patches {
		e := trustedEpoch + Epoch(i) + 1

		activeForChurn, err := cur.ActiveValidatorIndices(e)
		if err != nil {
			return false, err
		}
		if !patch.IsValid(uint64(len(activeForChurn)), spec) {
			return false, ErrVerifierBadPatch
		}

		patched := reader.WithPatch(patch)
		cur = patched
		reader = patched

		nextEpoch := e + 1
		activeNext, err := cur.ActiveValidatorIndices(nextEpoch)
		if err != nil {
			return false, err
		}
		randaoNext, err := cur.Randao(nextEpoch)
		if err != nil {
			return false, err
		}
		validatorCount, err := cur.ValidatorCount()
		if err != nil {
			return false, err
		}

		seed := CommitteeShuffleSeedFromRandao(randaoNext, nextEpoch, spec.DomainBeaconAttester)
		cache, err := NewCommitteeCache(ShuffleData{
			Seed:                    seed,
			ActiveValidatorIndices:  activeNext,
			LenTotalValidators:      validatorCount,
		}, nextEpoch, spec)
		if err != nil {
			return false, err
		}

		domain := DomainSeparation([4]byte{byte(spec.DomainBeaconAttester), 0, 0, 0}, spec.ForkVersion, spec.GenesisValidatorsRoot)

		for _, att := range input.Attestations {
			if SlotToEpoch(att.Data.Slot, spec.SlotsPerEpoch) != nextEpoch {
				continue
			}

			committee, err := cache.GetBeaconCommittee(att.Data.Slot, att.Data.CommitteeIndex, nextEpoch)
			if err != nil {
				verifierLog.Warn("skipping attestation: committee lookup failed", "err", err)
				continue
			}

			indices := make([]ValidatorIndex, 0, len(committee))
			for bi, vi := range committee {
				if att.AggregationBits.Get(bi) {
					indices = append(indices, vi)
				}
			}
			if len(indices) == 0 {
				continue
			}

			pubkeys, balance, err := cur.AggregateValidatorKeysAndBalance(indices)
			if err != nil {
				verifierLog.Warn("skipping attestation: aggregation failed", "err", err)
				continue
			}

			signingRoot := ComputeSigningRoot(att.Data.HashTreeRoot(), domain)
			if !crypto.FastAggregateVerify(pubkeys, signingRoot[:], att.Signature) {
				verifierLog.Warn("skipping attestation: signature verification failed",
					"slot", att.Data.Slot, "committee_index", att.Data.CommitteeIndex)
				continue
			}

			attested.Add(att.Data.Link(), balance)
		}
	}

	totalActiveBalance, err := reader.TotalActiveBalance(trustedEpoch)
	if err != nil {
		return false, err
	}

	var supermajority []CasperLink
	for _, link := range attested.Links() {
		if attested.Get(link)*SupermajorityDenominator >= totalActiveBalance*SupermajorityNumerator {
			supermajority = append(supermajority, link)
		}
	}

	highestJustified := input.CandidateCheckpoint.Epoch
	for {
		next := highestJustified + 1
		extended := false
		for _, link := range supermajority {
			if link.Source.Epoch <= highestJustified && link.Target.Epoch == next {
				highestJustified = next
				extended = true
				break
			}
		}
		if !extended {
			return false, nil
		}
		for _, link := range supermajority {
			if link.Source == input.CandidateCheckpoint && link.Target.Epoch <= highestJustified {
				return true, nil
			}
		}
	}
}
