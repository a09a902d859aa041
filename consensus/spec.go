package consensus

import "github.com/eth2030/eth2030/core/types"

// Spec carries the compile-time beacon-chain constants the finality
// verifier, committee shuffler, and SSZ state reader are parameterized
// over. Three concrete presets are provided (Mainnet, Minimal,
// SpecTest); there is no dynamic chain configuration (out of scope).
type Spec struct {
	// Timing.
	SlotsPerEpoch uint64

	// Committee shuffling.
	MaxCommitteesPerSlot     uint64
	TargetCommitteeSize      uint64
	ShuffleRounds            int
	MinSeedLookahead         uint64
	EpochsPerHistoricalVector uint64

	// Validator churn.
	MinPerEpochChurnLimit uint64
	ChurnLimitQuotient    uint64
	MaxDeposits           uint64

	// Signing domain.
	DomainBeaconAttester  uint32
	ForkVersion           [4]byte
	GenesisValidatorsRoot types.Hash

	// SSZ generalized indices into BeaconState, fixed by the container
	// layout of the chain spec variant.
	Validators0Gindex       uint64
	ValidatorTreeDepth      uint
	ValidatorsLengthGindex  uint64
	PubkeyGindex            uint64
	EffectiveBalanceGindex  uint64
	ActivationEpochGindex   uint64
	ExitEpochGindex         uint64
	RandaoMixesRootGindex   uint64
	RandaoMixesDepth        uint
	RandaoMixes0Gindex      uint64
	JustificationBitsGindex uint64
	PreviousJustifiedCheckpointGindex uint64
	CurrentJustifiedCheckpointGindex  uint64
	FinalizedCheckpointGindex         uint64
}

// MainnetSpec returns the production beacon-chain spec constants.
func MainnetSpec() Spec {
	return Spec{
		SlotsPerEpoch:             32,
		MaxCommitteesPerSlot:      64,
		TargetCommitteeSize:       128,
		ShuffleRounds:             90,
		MinSeedLookahead:          1,
		EpochsPerHistoricalVector: 65536,
		MinPerEpochChurnLimit:     4,
		ChurnLimitQuotient:        65536,
		MaxDeposits:               16,
		DomainBeaconAttester:      1,
		ForkVersion:               [4]byte{0x03, 0x00, 0x00, 0x00},

		Validators0Gindex:      94557999988736,
		ValidatorTreeDepth:     46,
		ValidatorsLengthGindex: 87,
		PubkeyGindex:           8,
		EffectiveBalanceGindex: 10,
		ActivationEpochGindex:  13,
		ExitEpochGindex:        14,
		RandaoMixesRootGindex:  45,
		RandaoMixesDepth:       16,
		RandaoMixes0Gindex:     2949120,

		JustificationBitsGindex:           49,
		PreviousJustifiedCheckpointGindex: 50,
		CurrentJustifiedCheckpointGindex:  51,
		FinalizedCheckpointGindex:         52,
	}
}

// MinimalSpec returns the reduced-size spec used for fast local testing.
func MinimalSpec() Spec {
	s := MainnetSpec()
	s.SlotsPerEpoch = 8
	s.MaxCommitteesPerSlot = 4
	s.TargetCommitteeSize = 4
	s.EpochsPerHistoricalVector = 64
	s.MinPerEpochChurnLimit = 2
	s.ForkVersion = [4]byte{0x02, 0x00, 0x00, 0x01}
	return s
}

// SpecTestSpec returns the preset used by the consensus-spec-tests vector
// suite, distinct from Minimal in its fork version only.
func SpecTestSpec() Spec {
	s := MinimalSpec()
	s.ForkVersion = [4]byte{0x02, 0x00, 0x00, 0x00}
	return s
}

// GetRandaoIndex computes the index into the RANDAO mixes vector used to
// derive the shuffling seed for epoch, per:
//
//	(epoch + EPOCHS_PER_HISTORICAL_VECTOR - MIN_SEED_LOOKAHEAD - 1) mod EPOCHS_PER_HISTORICAL_VECTOR
func GetRandaoIndex(epoch Epoch, epochsPerHistoricalVector, minSeedLookahead uint64) uint64 {
	return (uint64(epoch) + epochsPerHistoricalVector - minSeedLookahead - 1) % epochsPerHistoricalVector
}
