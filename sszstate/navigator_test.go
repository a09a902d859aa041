package sszstate

import (
	"testing"

	"github.com/eth2030/eth2030/oracle"
)

// gindexHash encodes a generalized index as a 32-byte mock "hash", purely
// for test fixtures: node(g)'s preimage is node(2g) || node(2g+1).
func gindexHash(g uint64) oracle.Hash {
	var h oracle.Hash
	h[24] = byte(g >> 56)
	h[25] = byte(g >> 48)
	h[26] = byte(g >> 40)
	h[27] = byte(g >> 32)
	h[28] = byte(g >> 24)
	h[29] = byte(g >> 16)
	h[30] = byte(g >> 8)
	h[31] = byte(g)
	return h
}

// newMockTreeOracle builds an oracle whose node preimages are defined for
// every gindex from 1 up to maxDepth levels below the root.
func newMockTreeOracle(maxDepth uint) *oracle.MemoryOracle {
	preimages := make(map[oracle.Hash][]byte)
	var walk func(g uint64, depth uint)
	walk = func(g uint64, depth uint) {
		if depth == maxDepth {
			return
		}
		left, right := gindexHash(2*g), gindexHash(2*g+1)
		var blob [64]byte
		copy(blob[:32], left[:])
		copy(blob[32:], right[:])
		preimages[gindexHash(g)] = blob[:]
		walk(2*g, depth+1)
		walk(2*g+1, depth+1)
	}
	walk(1, 0)
	return oracle.NewMemoryOracle(preimages)
}

func TestMapChunkEmptyPath(t *testing.T) {
	o := newMockTreeOracle(3)
	nav := NewNavigator(o)
	root := gindexHash(1)

	got, err := nav.CopyChunk(root, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != root {
		t.Errorf("gindex 1 should return the root unchanged")
	}
}

func TestMapChunkSingleLeft(t *testing.T) {
	o := newMockTreeOracle(3)
	nav := NewNavigator(o)
	root := gindexHash(1)

	got, err := nav.CopyChunk(root, 0b10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := gindexHash(2); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMapChunkLeftLeft(t *testing.T) {
	o := newMockTreeOracle(3)
	nav := NewNavigator(o)
	root := gindexHash(1)

	got, err := nav.CopyChunk(root, 0b100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := gindexHash(4); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMapChunkLeftRight(t *testing.T) {
	o := newMockTreeOracle(3)
	nav := NewNavigator(o)
	root := gindexHash(1)

	got, err := nav.CopyChunk(root, 0b101)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := gindexHash(5); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestIterateNodesAtDepthOrderMatchesDirectLookup(t *testing.T) {
	const depth = 4
	o := newMockTreeOracle(depth + 1)
	nav := NewNavigator(o)
	root := gindexHash(1)

	const start, count = 2, 5
	got, err := nav.IterateNodesAtDepth(root, depth, start, count)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != count {
		t.Fatalf("got %d leaves, want %d", len(got), count)
	}

	for i := uint64(0); i < count; i++ {
		wantGindex := (uint64(1) << depth) + start + i
		want := gindexHash(wantGindex)
		if got[i] != want {
			t.Errorf("leaf %d: got %v, want %v (gindex %d)", i, got[i], want, wantGindex)
		}
	}
}

func TestMapAsUint64(t *testing.T) {
	var root oracle.Hash
	root[0] = 0x2a // little-endian 42

	nav := NewNavigator(oracle.NewMemoryOracle(nil))

	// gindex 1 is the root chunk itself -- no oracle lookup required.
	got, err := nav.MapAsUint64(root, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Errorf("got %d, want 42", got)
	}
}
