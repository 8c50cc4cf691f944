package decode_test

import (
	"testing"

	"github.com/hdl2go/rv32pipe/decode"
	"github.com/hdl2go/rv32pipe/isa"
)

func rType(opcode, funct3, funct7 uint32, rd, rs1, rs2 uint8) uint32 {
	return funct7<<25 | uint32(rs2)<<20 | uint32(rs1)<<15 | funct3<<12 | uint32(rd)<<7 | opcode
}

func iType(opcode, funct3 uint32, rd, rs1 uint8, imm int32) uint32 {
	return uint32(imm)<<20 | uint32(rs1)<<15 | funct3<<12 | uint32(rd)<<7 | opcode
}

// TestS1AddImmediate covers scenario S1: ADDI x1, x0, 5.
func TestS1AddImmediate(t *testing.T) {
	word := iType(0x13, 0b000, 1, 0, 5)
	m := decode.Decode(0x1000, word)
	if m.OpType != isa.ALU || m.AluOp != isa.ADD {
		t.Fatalf("got OpType=%v AluOp=%v, want ALU/ADD", m.OpType, m.AluOp)
	}
	if m.Imm != 5 || m.Rd != 1 || m.Rs1 != 0 || !m.UsesRs1 || !m.RegWrite {
		t.Fatalf("unexpected fields: %+v", m)
	}
}

// TestS4Load covers the load half of scenario S4: LW x2, 0(x1).
func TestS4Load(t *testing.T) {
	word := iType(0x03, 0b010, 2, 1, 0)
	m := decode.Decode(0x1004, word)
	if m.OpType != isa.LOAD || m.MemWidth != isa.WORD || m.MemUnsigned {
		t.Fatalf("got %+v", m)
	}
	if !m.UsesRs1 || m.UsesRs2 || !m.RegWrite {
		t.Fatalf("wrong hazard flags: %+v", m)
	}
}

// TestS4Store covers the store half of scenario S4: SW x2, 0(x1).
func TestS4Store(t *testing.T) {
	word := funct7sType(0x23, 0b010, 1, 2, 0)
	m := decode.Decode(0x1008, word)
	if m.OpType != isa.STORE || m.MemWidth != isa.WORD {
		t.Fatalf("got %+v", m)
	}
	if !m.UsesRs1 || !m.UsesRs2 || m.RegWrite {
		t.Fatalf("wrong hazard flags: %+v", m)
	}
}

func funct7sType(opcode, funct3 uint32, rs1, rs2 uint8, imm int32) uint32 {
	hi := (uint32(imm) >> 5) & 0x7f
	lo := uint32(imm) & 0x1f
	return hi<<25 | uint32(rs2)<<20 | uint32(rs1)<<15 | funct3<<12 | lo<<7 | opcode
}

// TestS2BranchTaken covers the branch decoded in scenario S2: BEQ x1, x2,
// offset.
func TestS2BranchTaken(t *testing.T) {
	word := branchWord(0b000, 1, 2, 8)
	m := decode.Decode(0x100c, word)
	if m.OpType != isa.BRANCH || m.BranchFunc != isa.BEQ {
		t.Fatalf("got %+v", m)
	}
	if m.Imm != 8 || !m.UsesRs1 || !m.UsesRs2 {
		t.Fatalf("got %+v", m)
	}
}

func branchWord(funct3 uint32, rs1, rs2 uint8, imm int32) uint32 {
	u := uint32(imm)
	bit12 := (u >> 12) & 0x1
	bit11 := (u >> 11) & 0x1
	bits10_5 := (u >> 5) & 0x3f
	bits4_1 := (u >> 1) & 0xf
	return bit12<<31 | bits10_5<<25 | uint32(rs2)<<20 | uint32(rs1)<<15 | funct3<<12 | bits4_1<<8 | bit11<<7 | 0x63
}

// TestS5Mret covers the MRET that returns from the scenario S5 trap.
func TestS5Mret(t *testing.T) {
	word := iType(0x73, 0b000, 0, 0, 0x302)
	m := decode.Decode(0x2000, word)
	if m.OpType != isa.MRET || !m.IsMret {
		t.Fatalf("got %+v", m)
	}
}

// TestS6CsrrwImmediate covers the CSR-instruction decoding behind scenario
// S6, using the immediate form CSRRWI.
func TestS6CsrrwImmediate(t *testing.T) {
	const csrAddr = 0x300 // mstatus
	word := iType(0x73, 0b101, 1, 17, int32(csrAddr))
	m := decode.Decode(0x2004, word)
	if m.OpType != isa.CSRRW || !m.IsCsrOp {
		t.Fatalf("got %+v", m)
	}
	if m.CsrAddr != csrAddr || m.CsrImm != 17 || m.UsesRs1 {
		t.Fatalf("CSR immediate form must not read rs1 as a register: %+v", m)
	}
}

func TestAllZeroWordIsInvalid(t *testing.T) {
	m := decode.Decode(0, 0)
	if m.OpType != isa.INVALID || !m.IsInvalid {
		t.Fatalf("want INVALID for all-zero word, got %+v", m)
	}
}

func TestUnrecognizedOpcodeIsInvalid(t *testing.T) {
	m := decode.Decode(0, 0x7f) // opcode bits all 1, not a defined opcode
	if m.OpType != isa.INVALID {
		t.Fatalf("want INVALID, got %+v", m)
	}
}

func TestEcallDecodesButFlagsIsEcall(t *testing.T) {
	word := iType(0x73, 0b000, 0, 0, 0)
	m := decode.Decode(0, word)
	if !m.IsEcall {
		t.Fatalf("want IsEcall, got %+v", m)
	}
}

func TestSubVsAddFunct7Disambiguation(t *testing.T) {
	add := rType(0x33, 0b000, 0x00, 1, 2, 3)
	sub := rType(0x33, 0b000, 0x20, 1, 2, 3)
	if got := decode.Decode(0, add).AluOp; got != isa.ADD {
		t.Fatalf("ADD: got %v", got)
	}
	if got := decode.Decode(0, sub).AluOp; got != isa.SUB {
		t.Fatalf("SUB: got %v", got)
	}
}

func TestSraVsSrlFunct7Disambiguation(t *testing.T) {
	srl := rType(0x33, 0b101, 0x00, 1, 2, 3)
	sra := rType(0x33, 0b101, 0x20, 1, 2, 3)
	if got := decode.Decode(0, srl).AluOp; got != isa.SRL {
		t.Fatalf("SRL: got %v", got)
	}
	if got := decode.Decode(0, sra).AluOp; got != isa.SRA {
		t.Fatalf("SRA: got %v", got)
	}
}

func TestShiftImmediateUsesShamtNotSignExtendedImm(t *testing.T) {
	// SLLI x1, x1, 31 — imm[11:5] must be zero for a valid shift encoding
	// and the shift amount is imm[4:0], not the full sign-extended I-imm.
	word := rType(0x13, 0b001, 0x00, 1, 1, 31)
	m := decode.Decode(0, word)
	if m.OpType != isa.ALU || m.AluOp != isa.SLL {
		t.Fatalf("got %+v", m)
	}
	if m.Imm != 31 {
		t.Fatalf("shamt = %d, want 31", m.Imm)
	}
}

func TestJalrClearsNothingAtDecodeTime(t *testing.T) {
	// Bit-0 clearing of the computed target happens in Execute (spec
	// section 4.G); Decode just carries the raw sign-extended immediate.
	word := iType(0x67, 0b000, 1, 2, -2)
	m := decode.Decode(0, word)
	if m.OpType != isa.JALR || m.Imm != -2 {
		t.Fatalf("got %+v", m)
	}
}

func TestMulDivDispatch(t *testing.T) {
	word := rType(0x33, 0b100, 0x01, 1, 2, 3) // DIV
	m := decode.Decode(0, word)
	if m.OpType != isa.MULDIV || m.MulDivOp != isa.DIV {
		t.Fatalf("got %+v", m)
	}
	if !m.UsesRs1 || !m.UsesRs2 || !m.RegWrite {
		t.Fatalf("wrong hazard flags: %+v", m)
	}
}

func TestFenceDecodesAsNop(t *testing.T) {
	word := uint32(0x0ff0000f) // FENCE, predecessor/successor bits irrelevant
	m := decode.Decode(0, word)
	if m.OpType != isa.NOP {
		t.Fatalf("got %+v", m)
	}
}

func TestLuiAndAuipcUseUFormatAndNeverReadRegisters(t *testing.T) {
	lui := uint32(0x12345)<<12&0xfffff000 | uint32(1)<<7 | 0x37
	m := decode.Decode(0, lui)
	if m.OpType != isa.LUI || m.UsesRs1 || m.UsesRs2 || m.Imm != 0x12345000 {
		t.Fatalf("got %+v", m)
	}

	auipc := uint32(0x12345)<<12 | uint32(1)<<7 | 0x17
	m = decode.Decode(0, auipc)
	if m.OpType != isa.AUIPC || m.UsesRs1 || m.UsesRs2 || m.Imm != 0x12345000 {
		t.Fatalf("got %+v", m)
	}
}
