// Package alu implements the combinational 32-bit arithmetic/logic unit
// (spec section 4.A). The unit is stateless: Eval computes its result from
// its inputs alone, in a single call, the same way the teacher's
// instruction-execution helpers are pure functions of operand bytes rather
// than methods that mutate shared state.
package alu

import "github.com/hdl2go/rv32pipe/isa"

// Eval computes op(a, b) for the given ALU operation. Shift amounts are
// masked to the low 5 bits per spec. SLT/SLTU produce exactly 0 or 1. SRA
// performs an arithmetic (sign-filling) shift; SRL fills with zero.
func Eval(op isa.AluOp, a, b uint32) uint32 {
	shamt := b & 0x1f

	switch op {
	case isa.ADD:
		return a + b
	case isa.SUB:
		return a - b
	case isa.SLL:
		return a << shamt
	case isa.SLT:
		if int32(a) < int32(b) {
			return 1
		}
		return 0
	case isa.SLTU:
		if a < b {
			return 1
		}
		return 0
	case isa.XOR:
		return a ^ b
	case isa.SRL:
		return a >> shamt
	case isa.SRA:
		return uint32(int32(a) >> shamt)
	case isa.OR:
		return a | b
	case isa.AND:
		return a & b
	}

	return 0
}
