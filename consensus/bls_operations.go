package consensus

// BLS domain separation and signing-root computation for the Ethereum
// consensus layer.
//
// Domain types from the beacon chain spec:
//   - DOMAIN_BEACON_PROPOSER  = 0x00000000
//   - DOMAIN_BEACON_ATTESTER  = 0x01000000
//   - DOMAIN_SYNC_COMMITTEE   = 0x07000000

import (
	"crypto/sha256"
	"math/big"

	"github.com/eth2030/eth2030/crypto"
)

// Domain type constants per the beacon chain specification.
var (
	DomainBeaconProposer              = [4]byte{0x00, 0x00, 0x00, 0x00}
	DomainBeaconAttester              = [4]byte{0x01, 0x00, 0x00, 0x00}
	DomainRandao                      = [4]byte{0x02, 0x00, 0x00, 0x00}
	DomainDeposit                     = [4]byte{0x03, 0x00, 0x00, 0x00}
	DomainVoluntaryExit               = [4]byte{0x04, 0x00, 0x00, 0x00}
	DomainSelectionProof              = [4]byte{0x05, 0x00, 0x00, 0x00}
	DomainAggregateAndProof           = [4]byte{0x06, 0x00, 0x00, 0x00}
	DomainSyncCommittee               = [4]byte{0x07, 0x00, 0x00, 0x00}
	DomainSyncCommitteeSelectionProof = [4]byte{0x08, 0x00, 0x00, 0x00}
	DomainContributionAndProof        = [4]byte{0x09, 0x00, 0x00, 0x00}
)

// DomainSeparation computes the signing domain per the beacon chain spec.
//
// The domain is a 32-byte value computed as:
//
//	domain = domain_type || fork_data_root[:28]
//
// where fork_data_root = sha256(fork_version || genesis_validators_root).
//
// Per spec: compute_domain(domain_type, fork_version, genesis_validators_root).
func DomainSeparation(domainType [4]byte, forkVersion [4]byte, genesisRoot [32]byte) [32]byte {
	forkDataRoot := computeForkDataRoot(forkVersion, genesisRoot)

	var domain [32]byte
	copy(domain[:4], domainType[:])
	copy(domain[4:], forkDataRoot[:28])
	return domain
}

// computeForkDataRoot computes the hash tree root of the ForkData object:
//
//	ForkData { current_version: Version, genesis_validators_root: Root }
//
// SSZ hash tree root = sha256(current_version_padded || genesis_validators_root).
func computeForkDataRoot(forkVersion [4]byte, genesisRoot [32]byte) [32]byte {
	var versionPadded [32]byte
	copy(versionPadded[:4], forkVersion[:])

	var combined [64]byte
	copy(combined[:32], versionPadded[:])
	copy(combined[32:], genesisRoot[:])
	return sha256.Sum256(combined[:])
}

// ComputeSigningRoot computes the signing root for a given object hash
// and domain. Per the spec:
//
//	signing_root = sha256(object_root || domain)
//
// This is what validators actually sign.
func ComputeSigningRoot(objectRoot [32]byte, domain [32]byte) [32]byte {
	var combined [64]byte
	copy(combined[:32], objectRoot[:])
	copy(combined[32:], domain[:])
	return sha256.Sum256(combined[:])
}

// sha256Hash combines two 32-byte values using SHA-256. Used by the
// finality verifier's tests to build Merkle branches that match the
// verifier's state-proof check.
func sha256Hash(a, b [32]byte) [32]byte {
	var combined [64]byte
	copy(combined[:32], a[:])
	copy(combined[32:], b[:])
	return sha256.Sum256(combined[:])
}

// SignWithDomain creates a BLS signature over an object root with the
// given domain. Used by validators to sign blocks, attestations, etc.
func SignWithDomain(
	secret []byte,
	objectRoot [32]byte,
	domain [32]byte,
) [96]byte {
	signingRoot := ComputeSigningRoot(objectRoot, domain)
	sk := new(big.Int).SetBytes(secret)
	return crypto.BLSSign(sk, signingRoot[:])
}
