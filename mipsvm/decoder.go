package mipsvm

// Decoder executes a single instruction against regs/ram and returns the
// next program counter. The real MIPS32 big-endian instruction set is an
// external collaborator of this package: production deployments plug in
// a faithful decoder/emulator; this package only needs the hook surface
// (memory writes, syscalls) that decoder invokes while it runs.
//
// Decoder implementations call Engine.OnMemoryWrite and Engine.OnSyscall
// from within Step so the engine's RMW and dispatch logic observes every
// guest-visible side effect regardless of which decoder is plugged in.
type Decoder interface {
	// Step executes one instruction at the given PC and returns the
	// next PC. Implementations read/write registers through e
	// (GetReg/SetReg), and must report memory writes and syscalls via
	// the Engine's hook methods.
	Step(e *Engine, pc uint32) (nextPC uint32, err error)
}

// NopDecoder steps the PC forward by one instruction word without
// altering any other state. It drives deterministic engine/hook tests
// without depending on real MIPS semantics.
type NopDecoder struct{}

func (NopDecoder) Step(e *Engine, pc uint32) (uint32, error) {
	return pc + 4, nil
}

// ScriptedDecoder replays a fixed sequence of callbacks, one per step,
// useful for driving specific hook sequences (memory writes, syscalls)
// from a test without hand-rolling instruction encodings.
type ScriptedDecoder struct {
	Steps []func(e *Engine, pc uint32) (uint32, error)
	pos   int
}

func (d *ScriptedDecoder) Step(e *Engine, pc uint32) (uint32, error) {
	if d.pos >= len(d.Steps) {
		return pc + 4, nil
	}
	fn := d.Steps[d.pos]
	d.pos++
	return fn(e, pc)
}
