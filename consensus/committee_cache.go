package consensus

import "errors"

// Committee cache errors.
var (
	ErrCCNotInitialized          = errors.New("committee_cache: not initialized")
	ErrCCNotInitializedAtEpoch   = errors.New("committee_cache: not initialized at requested epoch")
	ErrCCZeroSlotsPerEpoch       = errors.New("committee_cache: zero slots per epoch")
	ErrCCInsufficientValidators  = errors.New("committee_cache: insufficient active validators")
	ErrCCTooManyValidators       = errors.New("committee_cache: too many validators for index encoding")
	ErrCCShuffleIndexOutOfBounds = errors.New("committee_cache: shuffle index out of bounds")
)

// ShuffleData is the minimal input needed to build a CommitteeCache: the
// shuffling seed, the active validator index set, and the size of the
// full (not just active) validator registry.
type ShuffleData struct {
	Seed                 [32]byte
	ActiveValidatorIndices []ValidatorIndex
	LenTotalValidators   uint64
}

// CommitteeCache holds the shuffled validator ordering for a single epoch
// and answers get_beacon_committee queries against it.
type CommitteeCache struct {
	initializedEpoch Epoch
	hasEpoch         bool

	shuffling         []ValidatorIndex
	shufflingPositions []uint64 // 1-based; 0 means "not present"

	committeesPerSlot uint64
	slotsPerEpoch     uint64
}

// NewCommitteeCache builds a CommitteeCache for epoch from data, per spec:
// committeesPerSlot is computed from the active-set size, the shuffling
// is the swap-or-not permutation of the active indices, and
// shufflingPositions maps an absolute validator index back to its
// position in the shuffling (offset by one so zero means "absent").
func NewCommitteeCache(data ShuffleData, epoch Epoch, spec Spec) (*CommitteeCache, error) {
	if spec.SlotsPerEpoch == 0 {
		return nil, ErrCCZeroSlotsPerEpoch
	}
	if len(data.ActiveValidatorIndices) == 0 {
		return nil, ErrCCInsufficientValidators
	}
	if data.LenTotalValidators == ^uint64(0) {
		return nil, ErrCCTooManyValidators
	}

	committeesPerSlot := ComputeCommitteeCountPerSlot(uint64(len(data.ActiveValidatorIndices)), spec)

	raw := make([]uint64, len(data.ActiveValidatorIndices))
	for i, v := range data.ActiveValidatorIndices {
		raw[i] = uint64(v)
	}
	shuffledRaw, err := ShuffleList(raw, data.Seed, spec.ShuffleRounds)
	if err != nil {
		return nil, err
	}
	shuffling := make([]ValidatorIndex, len(shuffledRaw))
	for i, v := range shuffledRaw {
		shuffling[i] = ValidatorIndex(v)
	}

	positions := make([]uint64, data.LenTotalValidators)
	for i, v := range shuffling {
		if uint64(v) >= data.LenTotalValidators {
			return nil, ErrCCShuffleIndexOutOfBounds
		}
		positions[v] = uint64(i) + 1
	}

	return &CommitteeCache{
		initializedEpoch:   epoch,
		hasEpoch:           true,
		shuffling:          shuffling,
		shufflingPositions: positions,
		committeesPerSlot:  committeesPerSlot,
		slotsPerEpoch:      spec.SlotsPerEpoch,
	}, nil
}

// ComputeCommitteeCountPerSlot returns the number of committees per slot
// for an active-validator-set size, bounded to [1, MaxCommitteesPerSlot].
func ComputeCommitteeCountPerSlot(activeCount uint64, spec Spec) uint64 {
	count := activeCount / spec.SlotsPerEpoch / spec.TargetCommitteeSize
	if count < 1 {
		count = 1
	}
	if count > spec.MaxCommitteesPerSlot {
		count = spec.MaxCommitteesPerSlot
	}
	return count
}

// IsInitializedAt reports whether the cache was built for epoch.
func (c *CommitteeCache) IsInitializedAt(epoch Epoch) bool {
	return c.hasEpoch && c.initializedEpoch == epoch
}

// CommitteesPerSlot returns the committee count per slot for this cache.
func (c *CommitteeCache) CommitteesPerSlot() uint64 { return c.committeesPerSlot }

// ComputeCommitteeIndexInEpoch computes the linear committee index within
// an epoch from a slot and in-slot committee index.
func ComputeCommitteeIndexInEpoch(slot Slot, slotsPerEpoch, committeesPerSlot, committeeIndex uint64) uint64 {
	return (uint64(slot)%slotsPerEpoch)*committeesPerSlot + committeeIndex
}

// ComputeCommitteeRangeInEpoch returns the [start, end) slice range within
// the shuffling for the indexInEpoch'th of epochCommitteeCount equally
// sized committees, or ok=false if out of range.
func ComputeCommitteeRangeInEpoch(epochCommitteeCount, indexInEpoch, shufflingLen uint64) (start, end uint64, ok bool) {
	if epochCommitteeCount == 0 || indexInEpoch >= epochCommitteeCount {
		return 0, 0, false
	}
	start = shufflingLen * indexInEpoch / epochCommitteeCount
	end = shufflingLen * (indexInEpoch + 1) / epochCommitteeCount
	return start, end, true
}

// GetBeaconCommittee returns the committee for (slot, committeeIndex),
// per:
//
//	committee_index_in_epoch = (slot mod slots_per_epoch) * committees_per_slot + index
//	range = [len*i/total, len*(i+1)/total), total = committees_per_slot * slots_per_epoch
func (c *CommitteeCache) GetBeaconCommittee(slot Slot, committeeIndex uint64, epoch Epoch) ([]ValidatorIndex, error) {
	if !c.hasEpoch {
		return nil, ErrCCNotInitialized
	}
	if !c.IsInitializedAt(epoch) {
		return nil, ErrCCNotInitializedAtEpoch
	}

	total := c.committeesPerSlot * c.slotsPerEpoch
	idxInEpoch := ComputeCommitteeIndexInEpoch(slot, c.slotsPerEpoch, c.committeesPerSlot, committeeIndex)
	start, end, ok := ComputeCommitteeRangeInEpoch(total, idxInEpoch, uint64(len(c.shuffling)))
	if !ok {
		return nil, ErrCCShuffleIndexOutOfBounds
	}
	return c.shuffling[start:end], nil
}

// Shuffling returns the full shuffled active-validator-index ordering.
func (c *CommitteeCache) Shuffling() []ValidatorIndex { return c.shuffling }
