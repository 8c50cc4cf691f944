package isa

// Microop is the decoded form of a single instruction word, produced by the
// decoder and consumed by Execute. It is destroyed when Writeback commits
// it (spec section 3, "Lifecycles").
type Microop struct {
	OpType   OpType
	AluOp    AluOp
	MulDivOp MulDivOp

	Rd  uint8
	Rs1 uint8
	Rs2 uint8

	HasImm bool
	Imm    int32

	MemWidth    MemWidth
	MemUnsigned bool

	BranchFunc BranchFunc

	RegWrite bool

	PC uint32

	CsrAddr uint16
	CsrImm  uint8 // the rs1 field, reused as an unsigned immediate for CSR*I forms
	IsCsrOp bool

	IsEcall   bool
	IsMret    bool
	IsInvalid bool

	// UsesRs1/UsesRs2 record whether the two source fields are actually
	// read, for hazard detection; Rs1/Rs2 are always populated from the
	// instruction word's bit fields even when unused (e.g. LUI's rs1).
	UsesRs1 bool
	UsesRs2 bool

	// RawWord is the original 32-bit instruction, kept for trap mtval and
	// disassembly.
	RawWord uint32

	// PredictedTaken/PredictedTarget record what the branch predictor
	// guessed when this word was fetched, so Execute can tell a
	// misprediction from a correctly-followed prediction (spec section
	// 4.L). Unused (always false/zero) for anything but a BRANCH op.
	PredictedTaken  bool
	PredictedTarget uint32
}

// NOPMicrop returns a Microop that performs no architectural update. The
// core package does not call it: a flush or a taken branch empties the
// pipeline registers instead of filling them with NOPs.
func NOPMicrop(pc uint32) Microop {
	return Microop{OpType: NOP, PC: pc}
}
