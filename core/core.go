// Package core wires the Fetch, Decode, Execute, Memory and Writeback
// stages together into a single-hart RV32IM_Zicsr pipeline, following the
// two-phase eval→commit schedule spec section 5 calls for: every component
// computes its next output from state sampled at the start of the cycle,
// and only Core.Step's commit half actually mutates the pipeline registers,
// the register file, and the CSR file. This mirrors the way the teacher's
// own VCS.Step drives television/CPU/memory sub-systems through a single
// clocked entry point rather than letting each one free-run.
package core

import (
	"github.com/hdl2go/rv32pipe/config"
	"github.com/hdl2go/rv32pipe/csr"
	"github.com/hdl2go/rv32pipe/decode"
	"github.com/hdl2go/rv32pipe/isa"
	"github.com/hdl2go/rv32pipe/membus"
	"github.com/hdl2go/rv32pipe/pipeline"
	"github.com/hdl2go/rv32pipe/regfile"
	"github.com/hdl2go/rv32pipe/viz"
)

// DebugHooks is the narrow surface Core needs from the debug module (spec
// section 4.M), kept as an interface here so core never imports the debug
// package: debug imports core's public accessors instead, avoiding a cycle.
type DebugHooks interface {
	// Halted reports the latched halt state sampled at the start of the
	// cycle.
	Halted() bool
	// ConsumeSetPC returns a pending one-shot PC override, if any, and
	// clears it.
	ConsumeSetPC() (target uint32, valid bool)
	// NotifyCommit is called once per cycle with whatever Writeback
	// published this cycle (spec section 4.I: debugPC/debugStore), so the
	// module can check breakpoints/watchpoints and drive single-step.
	NotifyCommit(pcValid bool, pc uint32, isStore bool, storeAddr uint32)
	// WatchpointHit reports whether a previously matched watchpoint is
	// still asserted, routed through the hazard unit to stop fetch (spec
	// section 4.J, 4.M).
	WatchpointHit() bool
}

// noDebug is the default DebugHooks implementation used when no debug
// module is attached: the hart never halts and nothing is latched.
type noDebug struct{}

func (noDebug) Halted() bool                           { return false }
func (noDebug) ConsumeSetPC() (uint32, bool)            { return 0, false }
func (noDebug) NotifyCommit(bool, uint32, bool, uint32) {}
func (noDebug) WatchpointHit() bool                     { return false }

// Core is the assembled five-stage pipeline.
type Core struct {
	cfg config.Config

	regs *regfile.File
	csrs *csr.File

	fetch *fetchUnit
	mem   *memoryUnit
	exec  *executeUnit
	wb    *writebackUnit
	pred  *predictor
	hz    hazardUnit
	glue  redirectGlue

	d2e *pipeline.Register[isa.Microop]
	e2m *pipeline.Register[isa.ExecResult]
	m2w *pipeline.Register[isa.MemResult]

	debug DebugHooks

	cycles uint64
}

// New returns an assembled Core using iport for instruction fetch and dport
// for load/store, configured by cfg.
func New(cfg config.Config, iport, dport membus.Port) *Core {
	regs := regfile.New()
	csrs := csr.New(cfg.HartID)
	pred := newPredictor(cfg)

	return &Core{
		cfg:   cfg,
		regs:  regs,
		csrs:  csrs,
		fetch: newFetchUnit(iport, pred, cfg.ResetVector),
		mem:   newMemoryUnit(dport),
		exec:  newExecuteUnit(regs, csrs, pred),
		wb:    newWritebackUnit(regs, csrs),
		pred:  pred,
		d2e:   pipeline.New[isa.Microop](),
		e2m:   pipeline.New[isa.ExecResult](),
		m2w:   pipeline.New[isa.MemResult](),
		debug: noDebug{},
	}
}

// AttachDebug wires a debug module into the core's per-cycle halt/PC-
// override/breakpoint machinery. Must be called before the first Step if
// debug control is wanted at all; a core with no debug module attached
// simply never halts.
func (c *Core) AttachDebug(h DebugHooks) {
	if h == nil {
		h = noDebug{}
	}
	c.debug = h
}

// Regs exposes the register file for the debug module's GPR peek/poke.
func (c *Core) Regs() *regfile.File { return c.regs }

// CSRs exposes the CSR file for the debug module's CSR peek/poke.
func (c *Core) CSRs() *csr.File { return c.csrs }

// Cycles returns the number of Step calls that ran with the hart unhalted,
// i.e. mcycle's value, for diagnostics that don't want to go through a CSR
// read.
func (c *Core) Cycles() uint64 { return c.cycles }

// Snapshot captures the core's current architectural and pipeline-
// occupancy state for the viz package and cmd/rv32sim's final report.
func (c *Core) Snapshot() viz.Snapshot {
	return viz.Snapshot{
		PC:           c.fetch.PC(),
		GPRs:         c.regs.Snapshot(),
		MStatus:      c.csrs.Read(csr.MStatus),
		MEPC:         c.csrs.Read(csr.MEPC),
		MCause:       c.csrs.Read(csr.MCause),
		MTVec:        c.csrs.Read(csr.MTVec),
		DecodeValid:  c.d2e.Valid(),
		ExecuteValid: c.e2m.Valid(),
		MemoryValid:  c.m2w.Valid(),
		Cycles:       c.cycles,
		Instret:      uint64(c.csrs.Read(csr.MInstret)),
		Halted:       c.debug.Halted(),
	}
}

// Step advances the core by exactly one clock cycle.
func (c *Core) Step() {
	haltedNow := c.debug.Halted()

	// ---------------------------------------------------------------
	// eval phase: every stage computes its output from state sampled at
	// the top of the cycle. Nothing here may mutate regs, csrs, the
	// pipeline registers, or a stage's own internal state.
	// ---------------------------------------------------------------
	fOut, fValid := c.fetch.eval()

	var candidate isa.Microop
	if fValid {
		candidate = decode.Decode(fOut.PC, fOut.Word)
		candidate.PredictedTaken = fOut.PredictedTaken
		candidate.PredictedTarget = fOut.PredictedTarget
	}

	wbIn, wbInValid := c.m2w.Value(), c.m2w.Valid()
	interruptPending := c.csrs.InterruptPending()
	wbEval := c.wb.eval(wbIn, wbInValid, c.csrs.Read(csr.MTVec), haltedNow, interruptPending)
	// Writeback must accept no new work while halted, so that whatever sits
	// in the pipeline freezes in place rather than being silently dropped
	// (spec section 4.M: "pending state is preserved"; section 8, property
	// 7: "no architectural state changes except via explicit debug writes").
	m2wReady := wbEval.ready && !haltedNow

	memIn, memInValid := c.e2m.Value(), c.e2m.Valid()
	memEval := c.mem.eval(memIn, memInValid, m2wReady)
	e2mReady := !c.e2m.Valid() || memEval.drainsInput

	execIn, execInValid := c.d2e.Value(), c.d2e.Valid()
	bypass := bypassInput{
		RegWrite: wbEval.gprHazard.RegWrite,
		Rd:       wbEval.gprHazard.Rd,
		Data:     wbIn.GprData,
	}
	execEval := c.exec.eval(execIn, execInValid, bypass, e2mReady)
	d2eReady := !c.d2e.Valid() || execEval.drainsInput

	execHz := c.exec.hazard(execIn, execInValid)
	memHz := c.mem.hazard(memIn, memInValid)
	execCsrHz := c.exec.csrHazard(execIn, execInValid)
	memCsrHz := c.mem.csrHazard(memIn, memInValid)

	watchpointHit := c.debug.WatchpointHit()

	stall := false
	if fValid {
		dh := decodeHazardInput{
			Rs1: candidate.Rs1, Rs2: candidate.Rs2,
			UsesRs1: candidate.UsesRs1, UsesRs2: candidate.UsesRs2,
			CsrAddr: candidate.CsrAddr, IsCsrOp: candidate.IsCsrOp,
		}
		stall = c.hz.stall(dh, execHz, memHz, wbEval.gprHazard, execCsrHz, memCsrHz, wbEval.csrHazard, watchpointHit)
	} else if watchpointHit {
		stall = true
	}

	decodeAdvances := fValid && !stall && d2eReady

	// ---------------------------------------------------------------
	// commit phase: apply every mutation eval decided on.
	// ---------------------------------------------------------------
	setPCTarget, setPCValid := c.debug.ConsumeSetPC()
	debugSetPC := redirect{Valid: setPCValid, Target: setPCTarget}

	scope := c.glue.scope(wbEval.exceptionRedirect, execEval.branch, debugSetPC)

	c.fetch.commit(wbEval.exceptionRedirect, execEval.branch, debugSetPC, decodeAdvances, haltedNow)

	if scope.flushDecodeToExecute {
		c.d2e.Flush()
	} else {
		if execEval.drainsInput && c.d2e.Valid() {
			c.d2e.Commit()
		}
		if decodeAdvances {
			c.d2e.Enqueue(candidate)
		}
	}

	if scope.flushExecuteToMemory {
		c.e2m.Flush()
		c.exec.squash()
	} else {
		if memEval.drainsInput && c.e2m.Valid() {
			c.e2m.Commit()
		}
		if execEval.haveOutput {
			c.e2m.Enqueue(execEval.result)
		}
	}

	if scope.flushMemoryToWriteback {
		c.m2w.Flush()
		c.mem.squash()
	} else {
		if m2wReady && c.m2w.Valid() {
			c.m2w.Commit()
		}
		if memEval.haveOutput {
			c.m2w.Enqueue(memEval.result)
		}
	}

	c.exec.commit(execIn, execEval)
	c.mem.commit(memEval)
	c.wb.commit(wbIn, wbInValid, c.csrs.Read(csr.MTVec), haltedNow, interruptPending)

	if !haltedNow {
		c.csrs.TickCycle()
		c.cycles++
	}

	c.debug.NotifyCommit(wbEval.debugPCValid, wbEval.debugPC, wbEval.debugStoreHit, wbEval.debugStore)
}
