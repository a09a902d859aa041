package mipsvm

// Host-guest memory-mapped I/O addresses. A guest program written against
// this ABI reads/writes these addresses to exchange the program's input
// hash, its output hash, and preimage-oracle requests with the host.
const (
	SpecialMemBase = 0x30000000

	PtrInputHash           = 0x30000000
	PtrMagic               = 0x30000800
	PtrOutputHash          = 0x30000804
	PtrPreimageOracleHash  = 0x30001000
	PtrPreimageOracleSize  = 0x31000000
	PtrPreimageOracleData  = 0x31000004

	MagicValue = 0x1337f00d
)

// Register sync window. The host mirrors the guest's MIPS registers into
// RAM at these addresses so that snapshots capture the full machine state
// in a single Merkle commitment, rather than as a side channel.
const (
	RegisterBase = 0xc0000000

	pcRegWord   = 0x20
	hiRegWord   = 0x21
	loRegWord   = 0x22
	heapRegWord = 0x23
)

// PC, HI, LO, HEAP addresses within the register window.
const (
	PCAddr   = RegisterBase + 4*pcRegWord
	HIAddr   = RegisterBase + 4*hiRegWord
	LOAddr   = RegisterBase + 4*loRegWord
	HeapAddr = RegisterBase + 4*heapRegWord
)

// outputFaultValue is written to PtrOutputHash instead of the real value
// while the engine's OutputFault flag is set, to exercise an
// output-mismatch trace.
const outputFaultValue = 0xbabababa
