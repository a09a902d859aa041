// Package consensus implements the consensus-layer pieces of the finality
// fraud-proof verifier: epoch/slot timing, committee shuffling, signing
// domains, and the Casper FFG finality check.
package consensus

import (
	"github.com/eth2030/eth2030/core/types"
)

// Epoch is a consensus-layer epoch number.
type Epoch uint64

// Slot is a consensus-layer slot number.
type Slot uint64

// ValidatorIndex is a beacon-chain validator index.
type ValidatorIndex uint64

// Checkpoint represents a finality checkpoint (epoch + block root).
type Checkpoint struct {
	Epoch Epoch
	Root  types.Hash
}

// SlotToEpoch returns the epoch number for a given slot.
func SlotToEpoch(slot Slot, slotsPerEpoch uint64) Epoch {
	if slotsPerEpoch == 0 {
		return 0
	}
	return Epoch(uint64(slot) / slotsPerEpoch)
}

// EpochStartSlot returns the first slot of a given epoch.
func EpochStartSlot(epoch Epoch, slotsPerEpoch uint64) Slot {
	return Slot(uint64(epoch) * slotsPerEpoch)
}
