package decode

import (
	"github.com/hdl2go/rv32pipe/immgen"
	"github.com/hdl2go/rv32pipe/isa"
)

// Decode turns a raw instruction word, fetched at pc, into a Microop. An
// all-zero word, and any encoding this core does not recognise, decodes to
// an INVALID microop (spec section 4.E: "all-zero word is illegal").
func Decode(pc uint32, word uint32) isa.Microop {
	if word == 0 {
		return invalid(pc, word)
	}

	opcode := word & 0x7f
	rd := uint8((word >> 7) & 0x1f)
	funct3 := (word >> 12) & 0x7
	rs1 := uint8((word >> 15) & 0x1f)
	rs2 := uint8((word >> 20) & 0x1f)
	funct7 := (word >> 25) & 0x7f

	m := isa.Microop{PC: pc, RawWord: word, Rd: rd, Rs1: rs1, Rs2: rs2}

	switch opcode {
	case opLui:
		m.OpType = isa.LUI
		m.HasImm = true
		m.Imm = immgen.Extract(word, immgen.U)
		m.RegWrite = rd != 0

	case opAuipc:
		m.OpType = isa.AUIPC
		m.HasImm = true
		m.Imm = immgen.Extract(word, immgen.U)
		m.RegWrite = rd != 0

	case opJal:
		m.OpType = isa.JAL
		m.HasImm = true
		m.Imm = immgen.Extract(word, immgen.J)
		m.RegWrite = rd != 0

	case opJalr:
		if funct3 != 0 {
			return invalid(pc, word)
		}
		m.OpType = isa.JALR
		m.HasImm = true
		m.Imm = immgen.Extract(word, immgen.I)
		m.UsesRs1 = true
		m.RegWrite = rd != 0

	case opBranch:
		bf, ok := branchFunc(funct3)
		if !ok {
			return invalid(pc, word)
		}
		m.OpType = isa.BRANCH
		m.BranchFunc = bf
		m.HasImm = true
		m.Imm = immgen.Extract(word, immgen.B)
		m.UsesRs1 = true
		m.UsesRs2 = true

	case opLoad:
		width, unsigned, ok := loadWidth(funct3)
		if !ok {
			return invalid(pc, word)
		}
		m.OpType = isa.LOAD
		m.MemWidth = width
		m.MemUnsigned = unsigned
		m.HasImm = true
		m.Imm = immgen.Extract(word, immgen.I)
		m.UsesRs1 = true
		m.RegWrite = rd != 0

	case opStore:
		width, ok := storeWidth(funct3)
		if !ok {
			return invalid(pc, word)
		}
		m.OpType = isa.STORE
		m.MemWidth = width
		m.HasImm = true
		m.Imm = immgen.Extract(word, immgen.S)
		m.UsesRs1 = true
		m.UsesRs2 = true

	case opOpImm:
		aluOp, ok := opImmAluOp(funct3, funct7)
		if !ok {
			return invalid(pc, word)
		}
		m.OpType = isa.ALU
		m.AluOp = aluOp
		m.HasImm = true
		if aluOp == isa.SLL || aluOp == isa.SRL || aluOp == isa.SRA {
			m.Imm = int32(rs2) // shamt = imm[4:0], carried in the rs2 field
		} else {
			m.Imm = immgen.Extract(word, immgen.I)
		}
		m.UsesRs1 = true
		m.RegWrite = rd != 0

	case opOp:
		if funct7 == 0x01 {
			op, ok := mulDivOp(funct3)
			if !ok {
				return invalid(pc, word)
			}
			m.OpType = isa.MULDIV
			m.MulDivOp = op
			m.UsesRs1 = true
			m.UsesRs2 = true
			m.RegWrite = rd != 0
			break
		}
		aluOp, ok := opAluOp(funct3, funct7)
		if !ok {
			return invalid(pc, word)
		}
		m.OpType = isa.ALU
		m.AluOp = aluOp
		m.UsesRs1 = true
		m.UsesRs2 = true
		m.RegWrite = rd != 0

	case opMiscMem:
		// FENCE: no ordering is required by a single in-order hart, so it
		// decodes as an architectural no-op (spec section 1 scopes fences
		// out "unless explicitly supported"; this core supports them by
		// treating them as NOP rather than trapping, matching the common
		// single-hart in-order convention).
		m.OpType = isa.NOP

	case opSystem:
		return decodeSystem(pc, word, funct3, rs1, rd, m)

	default:
		return invalid(pc, word)
	}

	return m
}

func decodeSystem(pc, word uint32, funct3 uint32, rs1, rd uint8, m isa.Microop) isa.Microop {
	if funct3 == 0 {
		switch word >> 20 {
		case 0x000: // ECALL: imm == 0
			m.OpType = isa.INVALID
			m.IsEcall = true
			return m
		case 0x302: // MRET
			m.OpType = isa.MRET
			m.IsMret = true
			return m
		default:
			return invalid(pc, word)
		}
	}

	csrAddr := uint16(word >> 20)
	switch funct3 {
	case 1:
		m.OpType = isa.CSRRW
	case 2:
		m.OpType = isa.CSRRS
	case 3:
		m.OpType = isa.CSRRC
	case 5:
		m.OpType = isa.CSRRW
		m.CsrImm = rs1
		m.IsCsrOp = true
		m.CsrAddr = csrAddr
		m.RegWrite = rd != 0
		return m
	case 6:
		m.OpType = isa.CSRRS
		m.CsrImm = rs1
		m.IsCsrOp = true
		m.CsrAddr = csrAddr
		m.RegWrite = rd != 0
		return m
	case 7:
		m.OpType = isa.CSRRC
		m.CsrImm = rs1
		m.IsCsrOp = true
		m.CsrAddr = csrAddr
		m.RegWrite = rd != 0
		return m
	default:
		return invalid(pc, word)
	}

	// register forms (funct3 in {1,2,3})
	m.UsesRs1 = true
	m.IsCsrOp = true
	m.CsrAddr = csrAddr
	m.RegWrite = rd != 0
	return m
}

func invalid(pc, word uint32) isa.Microop {
	return isa.Microop{PC: pc, RawWord: word, OpType: isa.INVALID, IsInvalid: true}
}

func branchFunc(funct3 uint32) (isa.BranchFunc, bool) {
	switch funct3 {
	case 0b000:
		return isa.BEQ, true
	case 0b001:
		return isa.BNE, true
	case 0b100:
		return isa.BLT, true
	case 0b101:
		return isa.BGE, true
	case 0b110:
		return isa.BLTU, true
	case 0b111:
		return isa.BGEU, true
	}
	return 0, false
}

func loadWidth(funct3 uint32) (isa.MemWidth, bool, bool) {
	switch funct3 {
	case 0b000:
		return isa.BYTE, false, true
	case 0b001:
		return isa.HALF, false, true
	case 0b010:
		return isa.WORD, false, true
	case 0b100:
		return isa.BYTE, true, true
	case 0b101:
		return isa.HALF, true, true
	}
	return 0, false, false
}

func storeWidth(funct3 uint32) (isa.MemWidth, bool) {
	switch funct3 {
	case 0b000:
		return isa.BYTE, true
	case 0b001:
		return isa.HALF, true
	case 0b010:
		return isa.WORD, true
	}
	return 0, false
}

func opImmAluOp(funct3, funct7 uint32) (isa.AluOp, bool) {
	switch funct3 {
	case 0b000:
		return isa.ADD, true
	case 0b010:
		return isa.SLT, true
	case 0b011:
		return isa.SLTU, true
	case 0b100:
		return isa.XOR, true
	case 0b110:
		return isa.OR, true
	case 0b111:
		return isa.AND, true
	case 0b001:
		if funct7 != 0 {
			return 0, false
		}
		return isa.SLL, true
	case 0b101:
		switch funct7 >> 5 {
		case 0:
			return isa.SRL, true
		case 1:
			return isa.SRA, true
		}
		return 0, false
	}
	return 0, false
}

func opAluOp(funct3, funct7 uint32) (isa.AluOp, bool) {
	if funct7 != 0 && funct7 != 0x20 {
		return 0, false
	}
	switch funct3 {
	case 0b000:
		if funct7 == 0x20 {
			return isa.SUB, true
		}
		return isa.ADD, true
	case 0b001:
		return isa.SLL, true
	case 0b010:
		return isa.SLT, true
	case 0b011:
		return isa.SLTU, true
	case 0b100:
		return isa.XOR, true
	case 0b101:
		if funct7 == 0x20 {
			return isa.SRA, true
		}
		return isa.SRL, true
	case 0b110:
		return isa.OR, true
	case 0b111:
		return isa.AND, true
	}
	return 0, false
}

func mulDivOp(funct3 uint32) (isa.MulDivOp, bool) {
	switch funct3 {
	case 0b000:
		return isa.MUL, true
	case 0b001:
		return isa.MULH, true
	case 0b010:
		return isa.MULHSU, true
	case 0b011:
		return isa.MULHU, true
	case 0b100:
		return isa.DIV, true
	case 0b101:
		return isa.DIVU, true
	case 0b110:
		return isa.REM, true
	case 0b111:
		return isa.REMU, true
	}
	return 0, false
}
