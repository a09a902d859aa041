package sszstate

import (
	"errors"
	"fmt"

	"github.com/eth2030/eth2030/consensus"
	"github.com/eth2030/eth2030/log"
	"github.com/eth2030/eth2030/oracle"
)

// Errors returned by state readers.
var (
	ErrStateReaderUntrusted       = errors.New("sszstate: state root not trusted (patches applied)")
	ErrStateReaderRandaoRange     = errors.New("sszstate: randao mix index out of range")
	ErrStateReaderNoActive        = errors.New("sszstate: no active validators")
	ErrStateReaderValidatorIndex  = errors.New("sszstate: validator index out of range")
)

// ValidatorInfo is the subset of a beacon validator record the finality
// verifier needs.
type ValidatorInfo struct {
	Pubkey          [48]byte
	EffectiveBalance uint64
	ActivationEpoch  consensus.Epoch
	ExitEpoch        consensus.Epoch
}

// StateReader is the capability-based read interface over a beacon state.
// Two implementations exist: SSZStateReader (oracle-backed, production)
// and DirectStateReader (in-memory, used by tests). Avoid growing this
// into an inheritance hierarchy -- a reader is just this fixed bag of
// typed reads.
type StateReader interface {
	Root() (oracle.Hash, error)
	ValidatorCount() (uint64, error)
	ActiveValidatorIndices(epoch consensus.Epoch) ([]consensus.ValidatorIndex, error)
	Randao(epoch consensus.Epoch) (oracle.Hash, error)
	TotalActiveBalance(epoch consensus.Epoch) (uint64, error)
	AggregateValidatorKeysAndBalance(indices []consensus.ValidatorIndex) ([][48]byte, uint64, error)
	ValidatorActivationAndExitEpochs(i consensus.ValidatorIndex) (activation, exit consensus.Epoch, err error)
}

// SSZStateReader reads a beacon state through a Navigator over the
// gindex layout fixed in consensus.Spec. It eagerly builds a validator
// cache at construction time, amortizing the O(depth) oracle-walk cost
// per validator across every subsequent read; this dominates construction
// cost and is surfaced in progress logs.
type SSZStateReader struct {
	nav  *Navigator
	root oracle.Hash
	spec consensus.Spec

	validators []ValidatorInfo
}

// NewSSZStateReader builds a reader rooted at root, eagerly populating the
// validator cache.
func NewSSZStateReader(nav *Navigator, root oracle.Hash, spec consensus.Spec) (*SSZStateReader, error) {
	r := &SSZStateReader{nav: nav, root: root, spec: spec}
	if err := r.buildValidatorCache(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *SSZStateReader) buildValidatorCache() error {
	logger := log.Default().Module("sszstate")

	count, err := r.nav.MapAsUint64(r.root, r.spec.ValidatorsLengthGindex)
	if err != nil {
		return fmt.Errorf("sszstate: reading validator count: %w", err)
	}

	// Validators0Gindex is already an absolute gindex from the state
	// root at tree depth ValidatorTreeDepth (46 on mainnet); only its low
	// ValidatorTreeDepth bits participate in path selection, so it is
	// passed directly as the starting index without masking.
	leaves, err := r.nav.IterateNodesAtDepth(r.root, r.spec.ValidatorTreeDepth, r.spec.Validators0Gindex, count)
	if err != nil {
		return fmt.Errorf("sszstate: walking validator nodes: %w", err)
	}

	r.validators = make([]ValidatorInfo, count)
	for i, validatorRoot := range leaves {
		info, err := r.readValidator(validatorRoot)
		if err != nil {
			return fmt.Errorf("sszstate: reading validator %d: %w", i, err)
		}
		r.validators[i] = info

		if (i+1)%5000 == 0 {
			logger.Info("validator cache progress", "validators", i+1, "total", count)
		}
	}

	logger.Info("validator cache built", "validators", len(r.validators))
	return nil
}

// readValidator reads one validator's fields given the root of its own
// container subtree. The pubkey field is 48 bytes -- larger than one
// 32-byte chunk -- so it is itself merkleized into 2 leaves and requires a
// nested oracle read: first the pubkey subtree root (at PubkeyGindex under
// the validator), then its two child chunks.
func (r *SSZStateReader) readValidator(validatorRoot oracle.Hash) (ValidatorInfo, error) {
	pubkeyRoot, err := r.nav.CopyChunk(validatorRoot, r.spec.PubkeyGindex)
	if err != nil {
		return ValidatorInfo{}, err
	}
	left, right, err := oracle.MapChildren(r.nav.Oracle, pubkeyRoot)
	if err != nil {
		return ValidatorInfo{}, err
	}

	var pubkey [48]byte
	copy(pubkey[:32], left[:])
	copy(pubkey[32:], right[:16])

	balance, err := r.nav.MapAsUint64(validatorRoot, r.spec.EffectiveBalanceGindex)
	if err != nil {
		return ValidatorInfo{}, err
	}
	activation, err := r.nav.MapAsUint64(validatorRoot, r.spec.ActivationEpochGindex)
	if err != nil {
		return ValidatorInfo{}, err
	}
	exit, err := r.nav.MapAsUint64(validatorRoot, r.spec.ExitEpochGindex)
	if err != nil {
		return ValidatorInfo{}, err
	}

	return ValidatorInfo{
		Pubkey:           pubkey,
		EffectiveBalance: balance,
		ActivationEpoch:  consensus.Epoch(activation),
		ExitEpoch:        consensus.Epoch(exit),
	}, nil
}

// Root implements StateReader.
func (r *SSZStateReader) Root() (oracle.Hash, error) { return r.root, nil }

// ValidatorCount implements StateReader.
func (r *SSZStateReader) ValidatorCount() (uint64, error) { return uint64(len(r.validators)), nil }

// ActiveValidatorIndices implements StateReader. A validator is active at
// epoch e iff activation_epoch <= e < exit_epoch.
func (r *SSZStateReader) ActiveValidatorIndices(epoch consensus.Epoch) ([]consensus.ValidatorIndex, error) {
	var out []consensus.ValidatorIndex
	for i, v := range r.validators {
		if v.ActivationEpoch <= epoch && epoch < v.ExitEpoch {
			out = append(out, consensus.ValidatorIndex(i))
		}
	}
	return out, nil
}

// Randao implements StateReader. RandaoMixes0Gindex already folds the
// randao_mixes field's container gindex together with its vector depth
// (RandaoMixes0Gindex == randao_mixes_field_gindex << RandaoMixesDepth),
// so the mix for a given epoch is one direct chunk read away.
func (r *SSZStateReader) Randao(epoch consensus.Epoch) (oracle.Hash, error) {
	idx := consensus.GetRandaoIndex(epoch, r.spec.EpochsPerHistoricalVector, r.spec.MinSeedLookahead)
	return r.nav.CopyChunk(r.root, r.spec.RandaoMixes0Gindex+idx)
}

// TotalActiveBalance implements StateReader by aggregating the balances of
// every active validator.
func (r *SSZStateReader) TotalActiveBalance(epoch consensus.Epoch) (uint64, error) {
	active, err := r.ActiveValidatorIndices(epoch)
	if err != nil {
		return 0, err
	}
	_, balance, err := r.AggregateValidatorKeysAndBalance(active)
	return balance, err
}

// AggregateValidatorKeysAndBalance implements StateReader, reading
// straight from the eager cache.
func (r *SSZStateReader) AggregateValidatorKeysAndBalance(indices []consensus.ValidatorIndex) ([][48]byte, uint64, error) {
	pubkeys := make([][48]byte, 0, len(indices))
	var balance uint64
	for _, i := range indices {
		if int(i) >= len(r.validators) {
			return nil, 0, ErrStateReaderValidatorIndex
		}
		v := r.validators[i]
		pubkeys = append(pubkeys, v.Pubkey)
		balance += v.EffectiveBalance
	}
	return pubkeys, balance, nil
}

// ValidatorActivationAndExitEpochs implements StateReader.
func (r *SSZStateReader) ValidatorActivationAndExitEpochs(i consensus.ValidatorIndex) (consensus.Epoch, consensus.Epoch, error) {
	if int(i) >= len(r.validators) {
		return 0, 0, ErrStateReaderValidatorIndex
	}
	v := r.validators[i]
	return v.ActivationEpoch, v.ExitEpoch, nil
}

// DirectStateReader is an in-memory StateReader implementation used by
// tests in place of an oracle-backed SSZStateReader.
type DirectStateReader struct {
	RootHash   oracle.Hash
	Validators []ValidatorInfo
	RandaoMix  map[consensus.Epoch]oracle.Hash
}

// Root implements StateReader.
func (d *DirectStateReader) Root() (oracle.Hash, error) { return d.RootHash, nil }

// ValidatorCount implements StateReader.
func (d *DirectStateReader) ValidatorCount() (uint64, error) { return uint64(len(d.Validators)), nil }

// ActiveValidatorIndices implements StateReader.
func (d *DirectStateReader) ActiveValidatorIndices(epoch consensus.Epoch) ([]consensus.ValidatorIndex, error) {
	var out []consensus.ValidatorIndex
	for i, v := range d.Validators {
		if v.ActivationEpoch <= epoch && epoch < v.ExitEpoch {
			out = append(out, consensus.ValidatorIndex(i))
		}
	}
	return out, nil
}

// Randao implements StateReader.
func (d *DirectStateReader) Randao(epoch consensus.Epoch) (oracle.Hash, error) {
	mix, ok := d.RandaoMix[epoch]
	if !ok {
		return oracle.Hash{}, ErrStateReaderRandaoRange
	}
	return mix, nil
}

// TotalActiveBalance implements StateReader.
func (d *DirectStateReader) TotalActiveBalance(epoch consensus.Epoch) (uint64, error) {
	active, _ := d.ActiveValidatorIndices(epoch)
	_, balance, err := d.AggregateValidatorKeysAndBalance(active)
	return balance, err
}

// AggregateValidatorKeysAndBalance implements StateReader.
func (d *DirectStateReader) AggregateValidatorKeysAndBalance(indices []consensus.ValidatorIndex) ([][48]byte, uint64, error) {
	pubkeys := make([][48]byte, 0, len(indices))
	var balance uint64
	for _, i := range indices {
		if int(i) >= len(d.Validators) {
			return nil, 0, ErrStateReaderValidatorIndex
		}
		v := d.Validators[i]
		pubkeys = append(pubkeys, v.Pubkey)
		balance += v.EffectiveBalance
	}
	return pubkeys, balance, nil
}

// ValidatorActivationAndExitEpochs implements StateReader.
func (d *DirectStateReader) ValidatorActivationAndExitEpochs(i consensus.ValidatorIndex) (consensus.Epoch, consensus.Epoch, error) {
	if int(i) >= len(d.Validators) {
		return 0, 0, ErrStateReaderValidatorIndex
	}
	v := d.Validators[i]
	return v.ActivationEpoch, v.ExitEpoch, nil
}
