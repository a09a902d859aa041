package mipsvm

import "errors"

// ErrTraceBadDissection is returned by DissectExecution when the section
// count is zero, the [Start, End) step range is empty, or the section
// count exceeds the number of steps in the range.
var ErrTraceBadDissection = errors.New("mipsvm: dissection section count exceeds step range")

// TraceConfig selects how Engine.Run steps the machine and what it
// records along the way. It is a closed set of variants, mirroring the
// reference emulator's trace-mode enum: only the fields of the variant
// selected by Kind are meaningful per instance.
type TraceConfig struct {
	Kind TraceKind

	// DissectExecution fields.
	Start       uint64
	End         uint64
	NSections   uint64
	FuckupStep  *uint64 // nil means no induced fault

	// OneStepProof field.
	Step uint64
}

// TraceKind identifies which TraceConfig variant is populated.
type TraceKind int

const (
	// TraceTurbo runs to completion with no intermediate snapshots,
	// recording only the final state root.
	TraceTurbo TraceKind = iota

	// TraceNewChallenge runs to completion but snapshots the state
	// root after every step, seeding a fresh bisection game.
	TraceNewChallenge

	// TraceDissectExecution runs the [Start, End) step range and
	// records NSections+1 evenly spaced snapshot roots, optionally
	// setting the first root byte of every snapshot at or after
	// FuckupStep to 0xff to produce an invalid dissection for
	// adversarial tests.
	TraceDissectExecution

	// TraceOneStepProof runs exactly to Step and records the
	// single-step pre/post state needed for an on-chain one-step proof.
	TraceOneStepProof
)

// Turbo returns a TraceConfig that runs to completion with no snapshots.
func Turbo() TraceConfig { return TraceConfig{Kind: TraceTurbo} }

// NewChallengeTrace returns a TraceConfig that snapshots every step.
func NewChallengeTrace() TraceConfig { return TraceConfig{Kind: TraceNewChallenge} }

// DissectExecution returns a TraceConfig bisecting [start, end) into
// nSections evenly spaced snapshots, optionally corrupting every snapshot
// from fuckupStep on.
func DissectExecution(start, end, nSections uint64, fuckupStep *uint64) (TraceConfig, error) {
	if nSections == 0 || end <= start || nSections > end-start {
		return TraceConfig{}, ErrTraceBadDissection
	}
	return TraceConfig{
		Kind:       TraceDissectExecution,
		Start:      start,
		End:        end,
		NSections:  nSections,
		FuckupStep: fuckupStep,
	}, nil
}

// OneStepProof returns a TraceConfig that runs to exactly step.
func OneStepProof(step uint64) TraceConfig {
	return TraceConfig{Kind: TraceOneStepProof, Step: step}
}

// sectionBoundaries returns the NSections+1 step indices at which
// DissectExecution records a snapshot, evenly spaced across [Start, End).
func (c TraceConfig) sectionBoundaries() []uint64 {
	bounds := make([]uint64, c.NSections+1)
	span := c.End - c.Start
	for i := range bounds {
		bounds[i] = c.Start + (span*uint64(i))/c.NSections
	}
	return bounds
}
