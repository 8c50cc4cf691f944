package core

import (
	"github.com/hdl2go/rv32pipe/alu"
	"github.com/hdl2go/rv32pipe/csr"
	"github.com/hdl2go/rv32pipe/isa"
	"github.com/hdl2go/rv32pipe/muldiv"
	"github.com/hdl2go/rv32pipe/regfile"
)

// executeUnit implements the Execute stage (spec section 4.G). Most
// opTypes complete combinationally in one cycle; MULDIV is the one
// exception, held across multiple cycles by an internal muldiv.Unit (spec
// section 4.G's "if added, occupies a dedicated functional unit").
type executeUnit struct {
	regs      *regfile.File
	csrs      *csr.File
	predictor *predictor
	mul       muldiv.Unit

	mulActive   isa.Microop
	mulBusy     bool
	mulComplete *isa.ExecResult
}

func newExecuteUnit(regs *regfile.File, csrs *csr.File, pred *predictor) *executeUnit {
	return &executeUnit{regs: regs, csrs: csrs, predictor: pred}
}

// executeEval is everything Execute computes this cycle from sampled
// inputs, before any state (registers, the muldiv unit) is mutated.
type executeEval struct {
	haveOutput bool
	result     isa.ExecResult
	branch     redirect
	mulIssue   *mulIssue

	// drainsInput reports whether this cycle consumes the microop
	// currently buffered in Decode→Execute, freeing that register for a
	// new enqueue. It is false while Execute is producing output recycled
	// from an earlier, already-drained microop (the completed muldiv
	// result) or while it remains busy.
	drainsInput bool

	// predictorUpdate is non-nil for a resolved BRANCH, carrying what
	// commit should train the predictor with (spec section 4.L); kept out
	// of eval's direct effects to honour the eval→commit split.
	predictorUpdate *predictorUpdate

	// mret reports that this cycle's output is an MRET, so commit must
	// perform the mstatus.MPIE->MIE bookkeeping there instead of in eval
	// (spec section 4.D's MRet() mutates the CSR file; eval must not).
	mret bool
}

type predictorUpdate struct {
	pc     uint32
	taken  bool
	target uint32
}

type mulIssue struct {
	op   isa.MulDivOp
	a, b uint32
}

// bypassInput is the Writeback-to-Execute forwarding path (spec section
// 4.G): Writeback's this-cycle GPR commit, substituted into Execute's
// register reads in place of the pre-commit register-file contents.
type bypassInput struct {
	RegWrite bool
	Rd       uint8
	Data     uint32
}

// eval samples m (the microop Decode handed over) and produces this
// cycle's ExecResult and branch feedback, without mutating the register
// file, CSR file, or the multiply/divide unit. e2mReady reports whether
// Memory can accept a new ExecResult this cycle.
func (e *executeUnit) eval(m isa.Microop, valid bool, wb bypassInput, e2mReady bool) executeEval {
	if e.mulComplete != nil {
		if !e2mReady {
			return executeEval{}
		}
		return executeEval{haveOutput: true, result: *e.mulComplete}
	}

	if e.mulBusy {
		// the unit is still completing a previously issued op; Execute
		// produces no output and accepts no new microop until it drains.
		return executeEval{}
	}

	if !valid {
		return executeEval{}
	}

	rs1 := e.regs.ReadWithBypass(m.Rs1, wb.RegWrite, wb.Rd, wb.Data)
	rs2 := e.regs.ReadWithBypass(m.Rs2, wb.RegWrite, wb.Rd, wb.Data)

	res := isa.ExecResult{
		OpType:    m.OpType,
		Rd:        m.Rd,
		PC:        m.PC,
		RawWord:   m.RawWord,
		IsInvalid: m.IsInvalid,
		IsEcall:   m.IsEcall,
	}

	var branch redirect

	switch m.OpType {
	case isa.ALU:
		b := rs2
		if m.HasImm {
			b = uint32(m.Imm)
		}
		res.GprResult = alu.Eval(m.AluOp, rs1, b)
		res.GprWrite = m.RegWrite

	case isa.LUI:
		res.GprResult = uint32(m.Imm)
		res.GprWrite = m.RegWrite

	case isa.AUIPC:
		res.GprResult = m.PC + uint32(m.Imm)
		res.GprWrite = m.RegWrite

	case isa.LOAD:
		res.MemAddress = rs1 + uint32(m.Imm)
		res.MemWidth = m.MemWidth
		res.MemUnsigned = m.MemUnsigned
		res.GprWrite = m.RegWrite

	case isa.STORE:
		res.MemAddress = rs1 + uint32(m.Imm)
		res.MemWidth = m.MemWidth
		res.StoreData = rs2
		res.IsStore = true

	case isa.BRANCH:
		taken := branchTaken(m.BranchFunc, rs1, rs2)
		target := m.PC + uint32(m.Imm)
		if taken {
			branch = redirect{Valid: true, Target: target}
		} else if m.PredictedTaken {
			// the predictor sent Fetch down the wrong path; recover to
			// the sequential successor.
			branch = redirect{Valid: true, Target: m.PC + 4}
		}
		if !e2mReady {
			return executeEval{}
		}
		return executeEval{
			haveOutput:      true,
			result:          res,
			branch:          branch,
			drainsInput:     true,
			predictorUpdate: &predictorUpdate{pc: m.PC, taken: taken, target: target},
		}

	case isa.JAL:
		branch = redirect{Valid: true, Target: m.PC + uint32(m.Imm)}
		res.GprResult = m.PC + 4
		res.GprWrite = m.RegWrite

	case isa.JALR:
		branch = redirect{Valid: true, Target: (rs1 + uint32(m.Imm)) &^ 1}
		res.GprResult = m.PC + 4
		res.GprWrite = m.RegWrite

	case isa.CSRRW, isa.CSRRS, isa.CSRRC:
		operand := rs1
		zeroSource := m.Rs1 == 0
		if isImmediateCsrForm(m) {
			operand = uint32(m.CsrImm)
			zeroSource = m.CsrImm == 0
		}
		current := e.csrs.Read(m.CsrAddr)
		newVal, modifies := csrNextValue(m.OpType, current, operand, zeroSource)
		res.GprResult = current
		res.GprWrite = m.RegWrite
		res.CsrAddr = m.CsrAddr
		res.CsrWrite = e.csrs.Exists(m.CsrAddr) && modifies
		res.CsrData = newVal

	case isa.MRET:
		// peek mepc without mutating mstatus; the actual MPIE->MIE
		// bookkeeping happens in commit, once e2mReady confirms this
		// cycle's output is really accepted downstream.
		branch = redirect{Valid: true, Target: e.csrs.Read(csr.MEPC)}

	case isa.MULDIV:
		return executeEval{mulIssue: &mulIssue{op: m.MulDivOp, a: rs1, b: rs2}, drainsInput: true}

	case isa.INVALID, isa.NOP:
		// nothing to compute; INVALID propagates for Writeback's trap
		// commit, NOP produces no writes.
	}

	if !e2mReady {
		return executeEval{}
	}
	return executeEval{haveOutput: true, result: res, branch: branch, drainsInput: true, mret: m.OpType == isa.MRET}
}

// commit applies the mutations eval decided on: issuing the muldiv unit,
// ticking it while busy, latching its completed result, or releasing that
// result once Memory has accepted it.
func (e *executeUnit) commit(m isa.Microop, ev executeEval) {
	if ev.predictorUpdate != nil {
		u := ev.predictorUpdate
		e.predictor.update(u.pc, u.taken, u.target)
	}
	if ev.mret {
		e.csrs.MRet()
	}
	if e.mulComplete != nil {
		if ev.haveOutput {
			e.mulComplete = nil
		}
		return
	}
	if ev.mulIssue != nil {
		e.mul.Issue(ev.mulIssue.op, ev.mulIssue.a, ev.mulIssue.b)
		e.mulActive = m
		e.mulBusy = true
		return
	}
	if e.mulBusy {
		e.mul.Tick()
		if !e.mul.Busy() {
			e.mulBusy = false
			res := isa.ExecResult{
				OpType:    isa.MULDIV,
				Rd:        e.mulActive.Rd,
				GprWrite:  e.mulActive.RegWrite,
				GprResult: e.mul.Result(),
				PC:        e.mulActive.PC,
				RawWord:   e.mulActive.RawWord,
			}
			e.mulComplete = &res
		}
	}
}

// hazard is the (rd, regWrite) broadcast Execute makes to the hazard unit
// this cycle: the microop currently occupying the stage, whether that's a
// fresh Decode→Execute arrival, a multi-cycle MULDIV still busy, or its
// just-completed result awaiting Memory (spec section 4.J).
func (e *executeUnit) hazard(m isa.Microop, valid bool) isa.HazardInfo {
	if e.mulComplete != nil {
		return isa.HazardInfo{Rd: e.mulComplete.Rd, RegWrite: e.mulComplete.GprWrite}
	}
	if e.mulBusy {
		return isa.HazardInfo{Rd: e.mulActive.Rd, RegWrite: e.mulActive.RegWrite}
	}
	if !valid {
		return isa.HazardInfo{}
	}
	return isa.HazardInfo{Rd: m.Rd, RegWrite: m.RegWrite}
}

// csrHazard is the CSR analogue of hazard. The write decision for a CSR op
// is only known once Execute actually evaluates it (CSRRS/C with a zero
// source suppresses the write); rather than re-derive that here, this
// reports conservatively: any CSR op occupying Execute is treated as
// writing its target address, which only ever causes a spurious extra
// stall cycle, never a missed hazard.
func (e *executeUnit) csrHazard(m isa.Microop, valid bool) isa.CsrHazardInfo {
	if !valid || !m.IsCsrOp {
		return isa.CsrHazardInfo{}
	}
	return isa.CsrHazardInfo{CsrAddr: m.CsrAddr, IsWrite: true}
}

// squash abandons any in-flight or completed multiply/divide without
// handing its result to Memory. Used when an older instruction's
// exception or a debug PC override invalidates everything younger still
// buffered in the pipeline (spec section 4.N).
func (e *executeUnit) squash() {
	e.mulBusy = false
	e.mulComplete = nil
}

func branchTaken(f isa.BranchFunc, a, b uint32) bool {
	switch f {
	case isa.BEQ:
		return a == b
	case isa.BNE:
		return a != b
	case isa.BLT:
		return int32(a) < int32(b)
	case isa.BGE:
		return int32(a) >= int32(b)
	case isa.BLTU:
		return a < b
	case isa.BGEU:
		return a >= b
	}
	return false
}

// isImmediateCsrForm reports whether m is a CSRRWI/CSRRSI/CSRRCI, whose
// operand is the zero-extended rs1 field treated as an immediate rather
// than a register read (decode carries this via CsrImm + !UsesRs1).
func isImmediateCsrForm(m isa.Microop) bool {
	return !m.UsesRs1
}

// csrNextValue computes the post-image CSR value and whether the write
// actually modifies architectural state (spec section 4.G: CSRRW always
// writes; CSRRS/CSRRC only write when the source (rs1 register number, or
// the immediate) is non-zero).
func csrNextValue(op isa.OpType, current, operand uint32, zeroSource bool) (uint32, bool) {
	switch op {
	case isa.CSRRW:
		return operand, true
	case isa.CSRRS:
		return current | operand, !zeroSource
	case isa.CSRRC:
		return current &^ operand, !zeroSource
	}
	return current, false
}
