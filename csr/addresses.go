// Package csr implements the machine-mode control/status register file
// (spec section 4.D): a sparse address-to-cell mapping plus the trap-entry
// and mret bookkeeping that section describes. Grounded on the teacher's
// registers package in spirit — each architectural register is a small,
// independently testable unit rather than a single monolithic struct field
// bag — adapted here to the RISC-V CSR address space instead of the 6507's
// A/X/Y/SP/Status registers.
package csr

// Address is a 12-bit CSR address.
type Address = uint16

// List of mandatory machine-mode CSR addresses (spec section 3).
const (
	MVendorID Address = 0xF11
	MArchID   Address = 0xF12
	MImpID    Address = 0xF13
	MHartID   Address = 0xF14
	MISA      Address = 0x301
	MStatus   Address = 0x300
	MTVec     Address = 0x305
	MEPC      Address = 0x341
	MCause    Address = 0x342
	MTVal     Address = 0x343
	MIE       Address = 0x304
	MIP       Address = 0x344
	MCycle    Address = 0xB00
	MInstret  Address = 0xB02
	MCycleH   Address = 0xB80
	MInstretH Address = 0xB82
)

// List of defined trap cause codes (spec section 7).
const (
	CauseInstructionAccessFault uint32 = 1
	CauseIllegalInstruction     uint32 = 2
	CauseMisalignedLoad         uint32 = 4
	CauseLoadAccessFault        uint32 = 5
	CauseMisalignedStore        uint32 = 6
	CauseStoreAccessFault       uint32 = 7
	CauseEnvironmentCallFromM   uint32 = 11

	// CauseMachineTimerInterrupt is mcause for a taken timer interrupt:
	// the MSB marks it as an interrupt rather than an exception, with
	// exception code 7 (machine timer) in the low bits.
	CauseMachineTimerInterrupt uint32 = 1<<31 | 7
)

// mstatus bit positions relevant to machine mode (others left at zero;
// privilege modes beyond M are out of scope per spec section 1).
const (
	mstatusMIEBit  = 3
	mstatusMPIEBit = 7
	mstatusMPPLow  = 11 // MPP is bits [12:11], hardwired to 0b11 (M-mode) per non-goals
)

// mie/mip bit positions.
const (
	mieMTIEBit = 7
	mipMTIPBit = 7
)

// misaRV32IMZicsr is the misa bitmap for RV32 with the I, M and (implicit,
// unnumbered) Zicsr extensions: MXL=1 (RV32) in bits [31:30], bit 8 (I) and
// bit 12 (M) set.
const misaRV32IMZicsr uint32 = (1 << 30) | (1 << 8) | (1 << 12)
