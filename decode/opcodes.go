// Package decode turns a 32-bit instruction word and its PC into a Microop
// (spec section 4.E). It is grounded on the teacher's
// disassembly/decode.go, which builds a similarly-shaped Entry from a raw
// instruction byte stream by opcode dispatch, and on user-none/go-chip-m68k's
// decode.go, which drives its dispatch from funct-field bit slices the same
// way RV32I's funct3/funct7 fields do.
package decode

// RV32I/M/Zicsr base opcodes (the full word bits [6:0], whose low two bits
// are always 0b11 for the 32-bit-wide instructions this core supports).
const (
	opLoad    = 0x03
	opMiscMem = 0x0F
	opOpImm   = 0x13
	opAuipc   = 0x17
	opStore   = 0x23
	opOp      = 0x33
	opLui     = 0x37
	opBranch  = 0x63
	opJalr    = 0x67
	opJal     = 0x6F
	opSystem  = 0x73
)
