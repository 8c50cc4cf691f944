package core

import (
	"github.com/hdl2go/rv32pipe/csr"
	"github.com/hdl2go/rv32pipe/isa"
	"github.com/hdl2go/rv32pipe/regfile"
)

// trapPhase numbers the three cycles of Writeback's trap-commit state
// machine (spec section 4.I).
type trapPhase int

const (
	trapIdle trapPhase = iota
	trapWriteMepc
	trapWriteMcause
	trapWriteMtval
)

// writebackUnit implements the Writeback stage (spec section 4.I): GPR/CSR
// commit for ordinary instructions, and a three-cycle back-pressuring state
// machine for trap entry.
type writebackUnit struct {
	regs *regfile.File
	csrs *csr.File

	phase   trapPhase
	trapped isa.MemResult
	cause   uint32
}

func newWritebackUnit(regs *regfile.File, csrs *csr.File) *writebackUnit {
	return &writebackUnit{regs: regs, csrs: csrs}
}

// writebackEval is what Writeback computes this cycle.
type writebackEval struct {
	ready bool // whether Writeback can accept a new MemResult this cycle

	gprHazard isa.HazardInfo
	csrHazard isa.CsrHazardInfo

	debugPC       uint32
	debugPCValid  bool
	debugStore    uint32
	debugStoreHit bool

	retired bool // a non-trap commit happened: minstret increments

	// exceptionRedirect fires on the cycle the three-cycle trap commit
	// finishes (spec section 4.N: "redirect fetch to mtvec on the cycle
	// after the exception was emitted" — modelled here as the cycle the
	// commit sequence completes).
	exceptionRedirect redirect
}

// eval samples in (the MemResult presented by Memory this cycle, if any)
// and this stage's own trap-commit phase, without mutating state.
// interruptPending reports the timer interrupt line as seen by the CSR
// file this cycle (spec section 6: delivered "at the earliest
// architectural instruction boundary"), which Writeback is, being the one
// place instructions retire.
func (w *writebackUnit) eval(in isa.MemResult, valid bool, mtvec uint32, halted bool, interruptPending bool) writebackEval {
	if w.phase != trapIdle {
		ev := writebackEval{ready: false}
		if w.phase == trapWriteMtval {
			ev.exceptionRedirect = redirect{Valid: true, Target: mtvec}
		}
		return ev
	}

	if !valid {
		return writebackEval{ready: true}
	}

	if in.IsInvalid || in.IsEcall || in.IsMemFault {
		// Writeback drains this MemResult into its own trap-commit state
		// this same cycle (spec section 4.I); it just does not retire it
		// as an ordinary GPR/CSR commit.
		return writebackEval{ready: true, debugPC: in.PC, debugPCValid: true}
	}

	if interruptPending && !halted {
		// the pending instruction is held at the boundary rather than
		// retired; mepc is set to its PC so mret resumes it.
		return writebackEval{ready: true, debugPC: in.PC, debugPCValid: true}
	}

	ev := writebackEval{
		ready:        true,
		gprHazard:    isa.HazardInfo{Rd: in.Rd, RegWrite: in.GprWrite},
		csrHazard:    isa.CsrHazardInfo{CsrAddr: in.CsrAddr, IsWrite: in.CsrWrite},
		debugPC:      in.PC,
		debugPCValid: true,
		retired:      !halted,
	}
	if in.IsStore {
		ev.debugStore = in.StoreAddr
		ev.debugStoreHit = true
	}
	return ev
}

// commit applies this cycle's writes and advances the trap-commit state
// machine, one CSR field per cycle (spec section 4.I): mepc, then mcause,
// then mtval.
func (w *writebackUnit) commit(in isa.MemResult, valid bool, mtvec uint32, halted bool, interruptPending bool) {
	switch w.phase {
	case trapWriteMepc:
		w.csrs.TrapEnterMEPC(w.trapped.PC)
		w.phase = trapWriteMcause
		return
	case trapWriteMcause:
		w.csrs.TrapEnterMCause(w.cause)
		w.phase = trapWriteMtval
		return
	case trapWriteMtval:
		_, tval := classifyTrap(w.trapped)
		w.csrs.TrapEnterMTval(tval)
		w.phase = trapIdle
		return
	}

	if !valid || halted {
		return
	}

	if in.IsInvalid || in.IsEcall || in.IsMemFault {
		w.beginTrap(in)
		return
	}

	if interruptPending {
		w.beginInterrupt(in)
		return
	}

	w.regs.Write(in.GprWrite, in.Rd, in.GprData)
	w.csrs.Write(in.CsrWrite, in.CsrAddr, in.CsrData)
	w.csrs.TickInstret()
}

func (w *writebackUnit) beginTrap(in isa.MemResult) {
	cause, _ := classifyTrap(in)
	w.trapped = in
	w.cause = cause
	w.phase = trapWriteMepc
}

// beginInterrupt stashes just the PC of the instruction held at the
// boundary; mtval is architecturally zero for this interrupt source.
func (w *writebackUnit) beginInterrupt(in isa.MemResult) {
	w.trapped = isa.MemResult{PC: in.PC}
	w.cause = csr.CauseMachineTimerInterrupt
	w.phase = trapWriteMepc
}

// classifyTrap maps a faulting MemResult to its mcause and mtval (spec
// section 7's taxonomy table), deferring the cause mapping itself to
// csr.CauseForFault.
func classifyTrap(in isa.MemResult) (cause uint32, tval uint32) {
	loadFault := in.IsMemFault && in.MemFaultIsLoad
	storeFault := in.IsMemFault && !in.MemFaultIsLoad
	illegal := !in.IsEcall && !in.IsMemFault

	cause, err := csr.CauseForFault(illegal, in.IsEcall, loadFault, storeFault)
	if err != nil {
		cause = csr.CauseIllegalInstruction
	}

	switch {
	case in.IsEcall:
		tval = 0
	case in.IsMemFault:
		tval = in.FaultAddress
	default:
		tval = in.InstructionBits
	}
	return cause, tval
}
