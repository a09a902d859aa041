package sszstate

import (
	"errors"

	"github.com/eth2030/eth2030/consensus"
	"github.com/eth2030/eth2030/oracle"
)

// ErrPatchedReaderRootUndefined is returned by Root once any patch has
// been applied: a patched reader no longer corresponds to a single
// committed state root.
var ErrPatchedReaderRootUndefined = errors.New("sszstate: root undefined with patches applied")

// PatchedStateReader overlays an ordered sequence of consensus.StatePatch
// values on a base StateReader, extending it one epoch into the future.
// It is immutable: WithPatch returns a new wrapper rather than mutating
// the receiver, matching the read/write split of the base StateReader
// interface (read methods compose, "write" produces a new value).
type PatchedStateReader struct {
	base    StateReader
	patches []consensus.StatePatch
}

// NewPatchedStateReader wraps base with no patches applied.
func NewPatchedStateReader(base StateReader) *PatchedStateReader {
	return &PatchedStateReader{base: base}
}

// WithPatch returns a new PatchedStateReader with patch appended to the
// existing patch sequence. Returns consensus.PatchedReaderLike (rather
// than the concrete type) so the verifier's epoch loop can keep extending
// the reader without importing sszstate.
func (p *PatchedStateReader) WithPatch(patch consensus.StatePatch) consensus.PatchedReaderLike {
	next := make([]consensus.StatePatch, len(p.patches)+1)
	copy(next, p.patches)
	next[len(p.patches)] = patch
	return &PatchedStateReader{base: p.base, patches: next}
}

// Patches returns the currently applied patch sequence.
func (p *PatchedStateReader) Patches() []consensus.StatePatch {
	return p.patches
}

// Root implements StateReader. Only defined when no patches are applied.
func (p *PatchedStateReader) Root() (oracle.Hash, error) {
	if len(p.patches) != 0 {
		return oracle.Hash{}, ErrPatchedReaderRootUndefined
	}
	return p.base.Root()
}

// ValidatorCount implements StateReader: base count plus every patch's
// processed-deposit count.
func (p *PatchedStateReader) ValidatorCount() (uint64, error) {
	base, err := p.base.ValidatorCount()
	if err != nil {
		return 0, err
	}
	for _, patch := range p.patches {
		base += uint64(patch.NDepositsProcessed)
	}
	return base, nil
}

// Randao implements StateReader. If any patch has epoch+1 == epoch,
// return its randao_next -- this is the only mechanism that permits
// shuffling one epoch ahead of what the base reader can natively answer.
func (p *PatchedStateReader) Randao(epoch consensus.Epoch) (oracle.Hash, error) {
	for _, patch := range p.patches {
		if patch.Epoch+1 == epoch {
			return patch.RandaoNext, nil
		}
	}
	return p.base.Randao(epoch)
}

// ActiveValidatorIndices implements StateReader. Patches intentionally
// cannot change set membership for the base epoch -- delegate.
func (p *PatchedStateReader) ActiveValidatorIndices(epoch consensus.Epoch) ([]consensus.ValidatorIndex, error) {
	return p.base.ActiveValidatorIndices(epoch)
}

// TotalActiveBalance implements StateReader; delegates for the same
// reason as ActiveValidatorIndices.
func (p *PatchedStateReader) TotalActiveBalance(epoch consensus.Epoch) (uint64, error) {
	return p.base.TotalActiveBalance(epoch)
}

// AggregateValidatorKeysAndBalance implements StateReader. Patches cannot
// change balances or pubkeys -- delegate straight to the base reader.
func (p *PatchedStateReader) AggregateValidatorKeysAndBalance(indices []consensus.ValidatorIndex) ([][48]byte, uint64, error) {
	return p.base.AggregateValidatorKeysAndBalance(indices)
}

// ValidatorActivationAndExitEpochs implements StateReader. The base value
// is overridden by patch.Epoch for activation/exit if the validator index
// appears in the patch's Activations/Exits list; later patches win over
// earlier ones (last occurrence wins).
func (p *PatchedStateReader) ValidatorActivationAndExitEpochs(i consensus.ValidatorIndex) (consensus.Epoch, consensus.Epoch, error) {
	activation, exit, err := p.base.ValidatorActivationAndExitEpochs(i)
	if err != nil {
		return 0, 0, err
	}

	for _, patch := range p.patches {
		for _, idx := range patch.Activations {
			if consensus.ValidatorIndex(idx) == i {
				activation = patch.Epoch
			}
		}
		for _, idx := range patch.Exits {
			if consensus.ValidatorIndex(idx) == i {
				exit = patch.Epoch
			}
		}
	}

	return activation, exit, nil
}
