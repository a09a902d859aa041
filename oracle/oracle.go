// Package oracle implements the preimage oracle: a content-addressed
// key-value store mapping a 32-byte hash to the byte blob it is the hash
// of. The SSZ navigator in sszstate walks a Merkle tree purely through
// oracle lookups, so every backend here must be deterministic and
// idempotent -- repeated requests for the same key return identical bytes.
package oracle

import (
	"errors"

	"github.com/eth2030/eth2030/core/types"
)

// Hash is a 32-byte content hash used as both Merkle node and oracle key.
type Hash = types.Hash

// Errors returned by oracle backends.
var (
	ErrPreimageNotFound = errors.New("oracle: preimage not found")
	ErrBadPreimageLen   = errors.New("oracle: preimage has unexpected length")
)

// Oracle maps a hash to its preimage bytes and lets a caller fold over
// those bytes without copying out of the backend where possible.
type Oracle interface {
	// Map resolves key's preimage and applies f to it, returning f's
	// result. Returns ErrPreimageNotFound if key is unknown.
	Map(key Hash, f func([]byte) (any, error)) (any, error)

	// GetCached returns a preimage already resolved by this oracle
	// instance, if any backend-specific caching has retained it.
	GetCached(key Hash) ([]byte, bool)
}

// MapBytes resolves key and returns a copy of its raw preimage bytes.
func MapBytes(o Oracle, key Hash) ([]byte, error) {
	v, err := o.Map(key, func(b []byte) (any, error) {
		out := make([]byte, len(b))
		copy(out, b)
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// MapChildren resolves key as a 64-byte pair of child hashes and returns
// them split as (left, right). Used by the SSZ navigator to descend a
// Merkle path one bit at a time.
func MapChildren(o Oracle, key Hash) (left, right Hash, err error) {
	v, err := o.Map(key, func(b []byte) (any, error) {
		if len(b) != 64 {
			return nil, ErrBadPreimageLen
		}
		var l, r Hash
		copy(l[:], b[:32])
		copy(r[:], b[32:])
		return [2]Hash{l, r}, nil
	})
	if err != nil {
		return Hash{}, Hash{}, err
	}
	pair := v.([2]Hash)
	return pair[0], pair[1], nil
}
