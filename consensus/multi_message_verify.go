package consensus

import "errors"

// ErrMultiMessageVerifyUnimplemented is returned by MultiMessageVerify.
// Batch verification across distinct signed messages (as opposed to
// aggregate verification of one message under many keys) needs a
// different pairing-based batching scheme than the one-message check
// crypto.FastAggregateVerify provides, and no fraud-proof path in this pipeline currently needs it:
// every attestation in a ZiplineInput is verified as its own aggregate.
var ErrMultiMessageVerifyUnimplemented = errors.New("consensus: multi-message verify not implemented")

// MultiMessageVerify would verify a batch of (pubkey, message, signature)
// triples more cheaply than one-at-a-time BLS verification. Left
// unimplemented; see ErrMultiMessageVerifyUnimplemented.
func MultiMessageVerify(pubkeys [][48]byte, messages [][32]byte, signatures [][96]byte) (bool, error) {
	return false, ErrMultiMessageVerifyUnimplemented
}
