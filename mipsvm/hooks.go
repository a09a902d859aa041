package mipsvm

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/eth2030/eth2030/log"
	"github.com/eth2030/eth2030/oracle"
)

var hooksLog = log.Default().Module("mipsvm")

// Fatal trap errors. Unlike every other guest-visible condition these
// abort the run entirely: the engine returns them from Run rather than
// continuing to step.
var (
	ErrBreakTrap       = errors.New("mipsvm: break interrupt is fatal")
	ErrUnknownInterrupt = errors.New("mipsvm: unhandled interrupt is fatal")
)

const (
	syscallPreimageRequest = 4020
	syscallWrite           = 4004
	syscallMmap            = 4090
	syscallBrk             = 4045
	syscallUnknownOK       = 4120
	syscallExitGroup       = 4246

	mmapBase  = 0x20000000
	brkResult = 0x40000000
	exitPC    = 0x5ead0000

	interruptBreak = 18
)

// OnMemoryWrite applies the exact read-modify-write a partial store
// performs against an aligned RAM word. size is the store width in
// bytes (1, 2, or 4); addr is the (possibly unaligned) byte address the
// guest targeted; value holds the new bytes right-justified in the low
// bits, matching a MIPS SB/SH/SW's register operand.
//
// A write to PtrOutputHash is replaced with outputFaultValue whenever
// the engine's OutputFault flag is set, so adversarial traces can
// deliberately commit to a wrong output hash.
func (e *Engine) OnMemoryWrite(addr uint32, size int, value uint32) {
	aligned := addr &^ uint32(3)
	if e.OutputFault && aligned == PtrOutputHash {
		e.ram.Write(aligned, outputFaultValue)
		return
	}

	switch size {
	case 4:
		e.ram.Write(aligned, value)
	case 2:
		shift := 16 - (addr&2)*8
		mask := uint32(0xffff) << shift
		existing := e.ram.ReadOrDefault(aligned)
		e.ram.Write(aligned, (existing &^ mask) | ((value & 0xffff) << shift))
	case 1:
		shift := 24 - (addr&3)*8
		mask := uint32(0xff) << shift
		existing := e.ram.ReadOrDefault(aligned)
		e.ram.Write(aligned, (existing &^ mask) | ((value & 0xff) << shift))
	default:
		// Unreachable for a faithful MIPS32 decoder; widen to a full
		// word rather than silently drop bytes.
		e.ram.Write(aligned, value)
	}
}

// OnSyscall dispatches one guest syscall using the reference ABI's
// register conventions: v0 holds the syscall number, a0-a3 the first
// four arguments. It returns the value to install in v0; err is non-nil
// only when a preimage request cannot be resolved by the oracle.
func (e *Engine) OnSyscall(v0 uint64, a0, a1, a2 uint32) (result uint32, err error) {
	switch v0 {
	case syscallPreimageRequest:
		return e.handlePreimageRequest()

	case syscallWrite:
		data := make([]byte, a2)
		for i := uint32(0); i < a2; i++ {
			word := e.ram.ReadOrDefault((a1 + i) &^ uint32(3))
			shift := 24 - ((a1+i)&3)*8
			data[i] = byte(word >> shift)
		}
		hooksLog.Debug("guest write", "bytes", len(data))
		return 0, nil

	case syscallMmap:
		if a0 == 0 {
			addr := mmapBase + e.heapStart
			e.heapStart += a1
			return addr, nil
		}
		return a0, nil

	case syscallBrk:
		return brkResult, nil

	case syscallUnknownOK:
		return 1, nil

	case syscallExitGroup:
		e.pc = exitPC
		e.exited = true
		return 0, nil

	default:
		hooksLog.Warn("unrecognized syscall", "number", v0)
		return 0, nil
	}
}

// OnInterrupt handles a non-syscall trap. Break (18) and any other
// interrupt number are unconditionally fatal per the guest ABI.
func (e *Engine) OnInterrupt(number uint32) error {
	if number == interruptBreak {
		return ErrBreakTrap
	}
	return fmt.Errorf("%w: interrupt %d", ErrUnknownInterrupt, number)
}

// handlePreimageRequest implements syscall 4020: read the 32-byte
// request hash at PtrPreimageOracleHash, resolve it through the oracle,
// write the preimage length at PtrPreimageOracleSize and the preimage
// bytes at PtrPreimageOracleData, mirrored word-aligned big-endian.
func (e *Engine) handlePreimageRequest() (uint32, error) {
	var hash oracle.Hash
	for i := 0; i < 32; i += 4 {
		word := e.ram.ReadOrDefault(PtrPreimageOracleHash + uint32(i))
		binary.BigEndian.PutUint32(hash[i:i+4], word)
	}

	data, err := oracle.MapBytes(e.oracle, hash)
	if err != nil {
		return 0, err
	}

	e.ram.Write(PtrPreimageOracleSize, uint32(len(data)))
	for i := 0; i < len(data); i += 4 {
		var word uint32
		for j := 0; j < 4; j++ {
			word <<= 8
			if i+j < len(data) {
				word |= uint32(data[i+j])
			}
		}
		e.ram.Write(PtrPreimageOracleData+uint32(i), word)
	}
	return 0, nil
}
