// Package sszstate implements navigation of a Merkleized beacon state
// through a preimage oracle, and the state-reader / patched-state-reader
// abstractions the finality verifier consumes.
//
// A generalized index (gindex) is a 1-based binary-tree coordinate: the
// root is 1, a node's left child is 2n and its right child is 2n+1. The
// Navigator walks a gindex's bit pattern from the most significant bit
// (after the leading 1, which selects the root) down to the least
// significant, resolving one 64-byte node preimage (a pair of 32-byte
// children) per step.
package sszstate

import (
	"encoding/binary"
	"errors"
	"math/bits"

	"github.com/eth2030/eth2030/oracle"
)

// Gindex is a generalized index into a Merkle tree.
type Gindex = uint64

// Navigator resolves Merkle paths over a state root via a preimage oracle.
type Navigator struct {
	Oracle oracle.Oracle
}

// NewNavigator builds a Navigator over the given oracle.
func NewNavigator(o oracle.Oracle) *Navigator {
	return &Navigator{Oracle: o}
}

// Errors returned while walking a Merkle path.
var (
	ErrNavigatorZeroGindex = errors.New("sszstate: gindex must be >= 1")
)

// pathBits returns the gindex's path bits, most-significant first, with
// the leading 1 bit (which selects the root itself) already stripped.
func pathBits(g Gindex) []bool {
	if g == 0 {
		return nil
	}
	n := bits.Len64(g) // position of the leading 1, 1-based
	out := make([]bool, 0, n-1)
	for i := n - 2; i >= 0; i-- {
		out = append(out, (g>>uint(i))&1 == 1)
	}
	return out
}

// MapChunk resolves the 32-byte chunk at gindex g under root and applies f
// to it.
func (n *Navigator) MapChunk(root oracle.Hash, g Gindex, f func([32]byte) (any, error)) (any, error) {
	if g == 0 {
		return nil, ErrNavigatorZeroGindex
	}
	if g == 1 {
		return f(root)
	}

	node := root
	for _, goRight := range pathBits(g) {
		left, right, err := oracle.MapChildren(n.Oracle, node)
		if err != nil {
			return nil, err
		}
		if goRight {
			node = right
		} else {
			node = left
		}
	}
	return f(node)
}

// CopyChunk returns a copy of the 32-byte chunk at gindex g under root.
func (n *Navigator) CopyChunk(root oracle.Hash, g Gindex) ([32]byte, error) {
	v, err := n.MapChunk(root, g, func(b [32]byte) (any, error) { return b, nil })
	if err != nil {
		return [32]byte{}, err
	}
	return v.([32]byte), nil
}

// MapAsUint64 resolves the chunk at gindex g and decodes its first 8 bytes
// as a little-endian uint64, per SSZ basic-type encoding.
func (n *Navigator) MapAsUint64(root oracle.Hash, g Gindex) (uint64, error) {
	chunk, err := n.CopyChunk(root, g)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(chunk[:8]), nil
}

// isLeftNode reports whether, at the given tree depth, index's path bit
// at that depth selects the left child (bit clear).
func isLeftNode(depth uint, index uint64) bool {
	return index&(1<<depth) == 0
}

// IterateNodesAtDepth streams count consecutive leaf chunks at tree depth
// depth, starting at startIndex, in ascending index order. It maintains a
// parent-node stack of size depth so that advancing to the next leaf only
// re-descends from the shallowest ancestor shared with the previous leaf --
// at most depth oracle calls are amortized across the whole iteration
// rather than charged per leaf.
func (n *Navigator) IterateNodesAtDepth(root oracle.Hash, depth uint, startIndex uint64, count uint64) ([][32]byte, error) {
	if count == 0 {
		return nil, nil
	}

	parents := make([]oracle.Hash, depth+1)
	parents[depth] = root

	descendTo := func(index uint64, from uint) error {
		for d := from; d > 0; d-- {
			left, right, err := oracle.MapChildren(n.Oracle, parents[d])
			if err != nil {
				return err
			}
			if isLeftNode(d-1, index) {
				parents[d-1] = left
			} else {
				parents[d-1] = right
			}
		}
		return nil
	}

	if err := descendTo(startIndex, depth); err != nil {
		return nil, err
	}

	out := make([][32]byte, 0, count)
	out = append(out, parents[0])

	prevIndex := startIndex
	for i := uint64(1); i < count; i++ {
		index := startIndex + i

		// Find the shallowest depth at which the path to index diverges
		// from the path to prevIndex: the first depth (from the leaves
		// up) where the previous index's bit was 0 (a left node) --
		// cached ancestors above that depth are still valid.
		resumeDepth := depth
		for d := uint(0); d < depth; d++ {
			if isLeftNode(d, prevIndex) {
				resumeDepth = d + 1
				break
			}
		}

		if err := descendTo(index, resumeDepth); err != nil {
			return nil, err
		}

		out = append(out, parents[0])
		prevIndex = index
	}

	return out, nil
}
