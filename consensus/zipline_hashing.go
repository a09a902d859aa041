package consensus

import "github.com/eth2030/eth2030/ssz"

// HashTreeRoot computes the SSZ hash tree root of ZiplineAttestationData,
// a 5-field container: slot, committee_index, beacon_block_root, source,
// target.
func (d ZiplineAttestationData) HashTreeRoot() [32]byte {
	fields := [][32]byte{
		ssz.HashTreeRootUint64(uint64(d.Slot)),
		ssz.HashTreeRootUint64(d.CommitteeIndex),
		ssz.HashTreeRootBytes32(d.BeaconBlockRoot),
		hashCheckpoint(d.Source),
		hashCheckpoint(d.Target),
	}
	return ssz.HashTreeRootContainer(fields)
}

// hashCheckpoint computes the SSZ hash tree root of a Checkpoint, a
// 2-field container: epoch, root.
func hashCheckpoint(cp Checkpoint) [32]byte {
	fields := [][32]byte{
		ssz.HashTreeRootUint64(uint64(cp.Epoch)),
		ssz.HashTreeRootBytes32(cp.Root),
	}
	return ssz.HashTreeRootContainer(fields)
}
