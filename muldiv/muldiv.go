// Package muldiv implements the RV32M multiply/divide functional unit. It
// is a dedicated unit rather than part of the combinational alu package
// because, unlike the base ALU, the spec allows it to take more than one
// cycle (spec section 4.G): Execute dispatches a request and polls Busy
// until the unit completes, the same shape as membus.Port's ready/valid
// handshake.
package muldiv

import "github.com/hdl2go/rv32pipe/isa"

// Eval computes the RV32M result of op(a, b) per the RISC-V M-extension
// semantics, including the specified behaviour for division by zero and
// signed overflow (division overflow is architecturally defined, not an
// exception — spec section 7 lists "Division/overflow" as "Not in scope"
// meaning no trap is raised for it, matching the base ISA's defined
// results).
func Eval(op isa.MulDivOp, a, b uint32) uint32 {
	switch op {
	case isa.MUL:
		return a * b
	case isa.MULH:
		return uint32((int64(int32(a)) * int64(int32(b))) >> 32)
	case isa.MULHSU:
		return uint32((int64(int32(a)) * int64(uint64(b))) >> 32)
	case isa.MULHU:
		return uint32((uint64(a) * uint64(b)) >> 32)
	case isa.DIV:
		sa, sb := int32(a), int32(b)
		if sb == 0 {
			return 0xffffffff
		}
		if sa == -0x80000000 && sb == -1 {
			return uint32(sa)
		}
		return uint32(sa / sb)
	case isa.DIVU:
		if b == 0 {
			return 0xffffffff
		}
		return a / b
	case isa.REM:
		sa, sb := int32(a), int32(b)
		if sb == 0 {
			return uint32(sa)
		}
		if sa == -0x80000000 && sb == -1 {
			return 0
		}
		return uint32(sa % sb)
	case isa.REMU:
		if b == 0 {
			return a
		}
		return a % b
	}
	return 0
}

// Latency returns the number of additional cycles (beyond the cycle the
// request is issued in) the unit holds Execute for op. Multiply is cheaper
// than divide/remainder, the way a real RV32M implementation's sequential
// divider dominates its cost.
func Latency(op isa.MulDivOp) int {
	switch op {
	case isa.MUL, isa.MULH, isa.MULHSU, isa.MULHU:
		return 2
	default:
		return 8
	}
}

// Unit tracks an in-flight multiply/divide operation across cycles.
type Unit struct {
	busy   bool
	left   int
	result uint32
}

// Issue starts op(a, b). Issue must not be called while the unit is busy.
func (u *Unit) Issue(op isa.MulDivOp, a, b uint32) {
	u.result = Eval(op, a, b)
	u.left = Latency(op)
	u.busy = true
}

// Tick advances the in-flight operation by one cycle.
func (u *Unit) Tick() {
	if !u.busy {
		return
	}
	u.left--
}

// Busy reports whether the unit is still completing an operation.
func (u *Unit) Busy() bool {
	return u.busy && u.left > 0
}

// Result returns the completed result and clears the unit, ready for the
// next Issue. Result must only be called once Busy() is false.
func (u *Unit) Result() uint32 {
	u.busy = false
	return u.result
}
