// Package mipsvm implements the deterministic execution engine that
// replays a single MIPS32 big-endian program step (or a whole run) for
// the fraud-proof pipeline. The instruction decoder itself is supplied
// externally through the Decoder interface: this package owns the RAM
// model, the syscall/memory-write hooks, trace-mode stepping, and the
// Merkle commitment of machine state, not instruction semantics.
package mipsvm

import (
	"sort"

	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/trie"
	"github.com/ethereum/go-ethereum/triedb"
	"github.com/holiman/uint256"

	"github.com/eth2030/eth2030/core/types"
)

// Ram is a random-access word store addressed by 4-byte-aligned uint32
// addresses, with a Merkle commitment over its live contents.
type Ram interface {
	Write(addr uint32, value uint32)
	Read(addr uint32) (uint32, bool)
	ReadOrDefault(addr uint32) uint32
	LoadData(data []byte, base uint32)
	ZeroRegisters()
	Commit() (types.Hash, error)
	Len() int
}

// MapRam is the default Ram implementation: an in-memory map of
// word-aligned addresses to values, matching the BTreeMap<u32,u32>
// backing store of the reference emulator.
type MapRam struct {
	words map[uint32]uint32
}

// NewMapRam creates an empty RAM.
func NewMapRam() *MapRam {
	return &MapRam{words: make(map[uint32]uint32)}
}

// Write stores value at the word-aligned address addr (low 2 bits ignored).
func (r *MapRam) Write(addr uint32, value uint32) {
	r.words[addr&^uint32(3)] = value
}

// Read returns the word at addr and whether it has ever been written.
func (r *MapRam) Read(addr uint32) (uint32, bool) {
	v, ok := r.words[addr&^uint32(3)]
	return v, ok
}

// ReadOrDefault returns the word at addr, or 0 if it was never written.
func (r *MapRam) ReadOrDefault(addr uint32) uint32 {
	return r.words[addr&^uint32(3)]
}

// LoadData writes data into RAM starting at base, packing 4 bytes per
// word big-endian and zero-padding the final partial word.
func (r *MapRam) LoadData(data []byte, base uint32) {
	for i := 0; i < len(data); i += 4 {
		var word uint32
		for j := 0; j < 4; j++ {
			word <<= 8
			if i+j < len(data) {
				word |= uint32(data[i+j])
			}
		}
		r.Write(base+uint32(i), word)
	}
}

// ZeroRegisters zeroes the 36-word register window: 32 general-purpose
// registers followed by PC, HI, LO, HEAP, starting at RegisterBase.
func (r *MapRam) ZeroRegisters() {
	for i := uint32(0); i < registerWindowWords; i++ {
		r.Write(RegisterBase+4*i, 0)
	}
}

// Len returns the number of distinct live words.
func (r *MapRam) Len() int {
	return len(r.words)
}

// Commit builds a hexary Merkle-Patricia trie over the RAM's live
// (addr>>2 -> value) pairs and returns its root hash. Entries are first
// collected and sorted by the combined (addr<<32)|value key so the
// commitment is a deterministic, order-independent function of the
// live word set, never of map iteration order.
func (r *MapRam) Commit() (types.Hash, error) {
	combined := make([]uint64, 0, len(r.words))
	byCombined := make(map[uint64]uint32, len(r.words))
	for addr, value := range r.words {
		key := (uint64(addr) << 32) | uint64(value)
		combined = append(combined, key)
		byCombined[key] = addr
	}
	sort.Slice(combined, func(i, j int) bool { return combined[i] < combined[j] })

	db := rawdb.NewMemoryDatabase()
	tdb := triedb.NewDatabase(db, nil)
	tr := trie.NewEmpty(tdb)

	for _, key := range combined {
		addr := byCombined[key]
		value := uint32(key)
		wordKey := uint256.NewInt(uint64(addr >> 2)).PaddedBytes(4)
		wordVal := uint256.NewInt(uint64(value)).PaddedBytes(4)
		if err := tr.Update(wordKey, wordVal); err != nil {
			return types.Hash{}, err
		}
	}

	root, _, err := tr.Commit(false)
	if err != nil {
		return types.Hash{}, err
	}
	return types.Hash(root), nil
}

const registerWindowWords = 36
