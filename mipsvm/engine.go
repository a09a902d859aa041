package mipsvm

import (
	"encoding/binary"
	"errors"

	"github.com/eth2030/eth2030/core/types"
	"github.com/eth2030/eth2030/log"
	"github.com/eth2030/eth2030/oracle"
)

var engineLog = log.Default().Module("mipsvm")

// ErrEngineAlreadyExited is returned by Step once the guest has executed
// its exit-group syscall; the machine is frozen at exitPC from then on.
var ErrEngineAlreadyExited = errors.New("mipsvm: engine already exited")

// Snapshot pairs a step count with the RAM commitment taken at that step.
type Snapshot struct {
	Step uint64
	Root types.Hash
}

// Result is everything a Run call produces: the step-indexed snapshots
// a given TraceConfig records, plus the final state root.
type Result struct {
	Snapshots []Snapshot
	FinalRoot types.Hash
	Steps     uint64
	Exited    bool
}

// Engine drives a MIPS32 big-endian guest program against a RAM model
// and preimage oracle, delegating instruction semantics to a Decoder.
// It owns everything the guest can observe through memory-mapped I/O:
// register sync, memory-write RMW, syscalls, and interrupts.
type Engine struct {
	ram     Ram
	oracle  oracle.Oracle
	decoder Decoder

	gprs [32]uint32
	pc   uint32
	hi   uint32
	lo   uint32

	heapStart uint32

	// OutputFault, when true, corrupts the next write to PtrOutputHash
	// with outputFaultValue instead of the decoder-supplied value.
	OutputFault bool

	exited bool
	steps  uint64
}

// NewEngine builds an Engine over ram using decoder to step instructions
// and o to resolve preimage-oracle syscalls.
func NewEngine(ram Ram, o oracle.Oracle, decoder Decoder) *Engine {
	ram.ZeroRegisters()
	return &Engine{ram: ram, oracle: o, decoder: decoder}
}

// WriteProgram loads code into RAM starting at base.
func (e *Engine) WriteProgram(code []byte, base uint32) {
	e.ram.LoadData(code, base)
}

// WriteInput writes the 32-byte input hash at PtrInputHash and stamps
// PtrMagic with MagicValue, the guest-visible signal that its input is
// ready to read.
func (e *Engine) WriteInput(inputHash types.Hash) {
	for i := 0; i < 32; i += 4 {
		e.ram.Write(PtrInputHash+uint32(i), binary.BigEndian.Uint32(inputHash[i:i+4]))
	}
	e.ram.Write(PtrMagic, MagicValue)
}

// GetReg returns general-purpose register i (0-31).
func (e *Engine) GetReg(i int) uint32 { return e.gprs[i] }

// SetReg sets general-purpose register i (0-31) and mirrors it into RAM.
func (e *Engine) SetReg(i int, v uint32) {
	e.gprs[i] = v
	e.ram.Write(RegisterBase+4*uint32(i), v)
}

// PC returns the current program counter.
func (e *Engine) PC() uint32 { return e.pc }

// SetPC sets the program counter and mirrors it into RAM.
func (e *Engine) SetPC(pc uint32) {
	e.pc = pc
	e.ram.Write(PCAddr, pc)
}

// Exited reports whether the guest has executed its exit-group syscall.
func (e *Engine) Exited() bool { return e.exited }

// Step executes exactly one instruction via the configured Decoder.
func (e *Engine) Step() error {
	if e.exited {
		return ErrEngineAlreadyExited
	}
	next, err := e.decoder.Step(e, e.pc)
	if err != nil {
		return err
	}
	e.steps++
	if !e.exited {
		e.SetPC(next)
	}
	return nil
}

// Snapshot commits the current RAM contents and returns the root paired
// with the current step count.
func (e *Engine) Snapshot() (Snapshot, error) {
	root, err := e.ram.Commit()
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Step: e.steps, Root: root}, nil
}

// Run steps the machine under the given trace configuration, recording
// whatever snapshots that configuration calls for, until the guest exits
// or maxSteps is reached (whichever comes first).
func (e *Engine) Run(maxSteps uint64, cfg TraceConfig) (Result, error) {
	switch cfg.Kind {
	case TraceTurbo:
		return e.runTurbo(maxSteps)
	case TraceNewChallenge:
		return e.runRecordingEveryStep(maxSteps)
	case TraceDissectExecution:
		return e.runDissection(cfg)
	case TraceOneStepProof:
		return e.runOneStepProof(cfg.Step)
	default:
		return e.runTurbo(maxSteps)
	}
}

func (e *Engine) runTurbo(maxSteps uint64) (Result, error) {
	for e.steps < maxSteps && !e.exited {
		if err := e.Step(); err != nil {
			return Result{}, err
		}
	}
	root, err := e.ram.Commit()
	if err != nil {
		return Result{}, err
	}
	return Result{FinalRoot: root, Steps: e.steps, Exited: e.exited}, nil
}

func (e *Engine) runRecordingEveryStep(maxSteps uint64) (Result, error) {
	var snapshots []Snapshot
	snap, err := e.Snapshot()
	if err != nil {
		return Result{}, err
	}
	snapshots = append(snapshots, snap)

	for e.steps < maxSteps && !e.exited {
		if err := e.Step(); err != nil {
			return Result{}, err
		}
		snap, err := e.Snapshot()
		if err != nil {
			return Result{}, err
		}
		snapshots = append(snapshots, snap)
	}
	return Result{Snapshots: snapshots, FinalRoot: snapshots[len(snapshots)-1].Root, Steps: e.steps, Exited: e.exited}, nil
}

func (e *Engine) runDissection(cfg TraceConfig) (Result, error) {
	for e.steps < cfg.Start {
		if err := e.Step(); err != nil {
			return Result{}, err
		}
	}

	bounds := cfg.sectionBoundaries()
	snapshots := make([]Snapshot, 0, len(bounds))
	for _, bound := range bounds {
		for e.steps < bound && !e.exited {
			if err := e.Step(); err != nil {
				return Result{}, err
			}
		}
		snap, err := e.Snapshot()
		if err != nil {
			return Result{}, err
		}
		if cfg.FuckupStep != nil && snap.Step >= *cfg.FuckupStep {
			snap.Root[0] = 0xff
		}
		snapshots = append(snapshots, snap)
	}
	return Result{Snapshots: snapshots, FinalRoot: snapshots[len(snapshots)-1].Root, Steps: e.steps, Exited: e.exited}, nil
}

func (e *Engine) runOneStepProof(step uint64) (Result, error) {
	for e.steps < step {
		if err := e.Step(); err != nil {
			return Result{}, err
		}
	}
	pre, err := e.Snapshot()
	if err != nil {
		return Result{}, err
	}
	if err := e.Step(); err != nil {
		return Result{}, err
	}
	post, err := e.Snapshot()
	if err != nil {
		return Result{}, err
	}
	return Result{Snapshots: []Snapshot{pre, post}, FinalRoot: post.Root, Steps: e.steps, Exited: e.exited}, nil
}
