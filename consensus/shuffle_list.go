package consensus

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
)

// Shuffling errors.
var (
	ErrCSZeroIndexCount = errors.New("committee_selection: index count is zero")
	ErrCSInvalidIndex   = errors.New("committee_selection: index out of range")
)

// ComputeShuffledIndexRounds computes the swap-or-not shuffled position of
// a single index, parameterized over the round count so Spec.ShuffleRounds
// can drive it.
func ComputeShuffledIndexRounds(index, indexCount uint64, seed [32]byte, rounds int) (uint64, error) {
	if indexCount == 0 {
		return 0, ErrCSZeroIndexCount
	}
	if index >= indexCount {
		return 0, ErrCSInvalidIndex
	}
	if indexCount == 1 {
		return 0, nil
	}

	cur := index
	for round := 0; round < rounds; round++ {
		var pivotInput [33]byte
		copy(pivotInput[:32], seed[:])
		pivotInput[32] = byte(round)
		pivotHash := sha256.Sum256(pivotInput[:])
		pivot := binary.LittleEndian.Uint64(pivotHash[:8]) % indexCount

		flip := (pivot + indexCount - cur) % indexCount
		position := flip
		if cur > flip {
			position = cur
		}

		var srcInput [37]byte
		copy(srcInput[:32], seed[:])
		srcInput[32] = byte(round)
		binary.LittleEndian.PutUint32(srcInput[33:], uint32(position/256))
		source := sha256.Sum256(srcInput[:])

		byteIdx := (position % 256) / 8
		bitIdx := position % 8
		if (source[byteIdx]>>bitIdx)&1 != 0 {
			cur = flip
		}
	}
	return cur, nil
}

// ShuffleList applies the swap-or-not permutation to every element of
// indices in one pass, returning a newly allocated, shuffled slice.
// Semantically equivalent to shuffling each index independently via
// ComputeShuffledIndexRounds: the element at position i is placed at
// ComputeShuffledIndexRounds(i).
func ShuffleList(indices []uint64, seed [32]byte, rounds int) ([]uint64, error) {
	n := uint64(len(indices))
	out := make([]uint64, n)
	for i, v := range indices {
		shuffledPos, err := ComputeShuffledIndexRounds(uint64(i), n, seed, rounds)
		if err != nil {
			return nil, err
		}
		out[shuffledPos] = v
	}
	return out, nil
}

// CommitteeShuffleSeedFromRandao derives the committee-shuffling seed for
// an epoch from a RANDAO mix, per:
//
//	seed = hash(domain_type(4 LE) || epoch(8 LE) || mix(32))
func CommitteeShuffleSeedFromRandao(mix [32]byte, epoch Epoch, domainType uint32) [32]byte {
	var input [4 + 8 + 32]byte
	binary.LittleEndian.PutUint32(input[0:4], domainType)
	binary.LittleEndian.PutUint64(input[4:12], uint64(epoch))
	copy(input[12:], mix[:])
	return sha256.Sum256(input[:])
}
