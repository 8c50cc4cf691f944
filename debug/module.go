// Package debug implements the out-of-band control surface spec section
// 4.M describes: halt/resume/step latching, a breakpoint set matched
// against the PC Writeback commits, a watchpoint set matched against the
// address of a committed store, and direct GPR/CSR/memory peek-poke that
// takes priority over Writeback's own commit while the hart is halted.
//
// Grounded on the teacher's debugger package, simplified the way spec
// section 4.M's own simplification calls for: the teacher's breakpoints.go
// composes arbitrary target/value conditions into linked-list ANDed
// breakers addressable by label (PC, bank, a TIA register...); this module
// only ever needs one kind of condition (an exact PC or store-address
// match), so a plain set replaces the breaker machinery. watches.go's
// mirrored-address and read/write/either distinction likewise collapses to
// "does this store address match," since only stores are observable at
// Writeback. dbgmem.go's Peek/Poke pair, and its AddressInfo wrapping, is
// kept in spirit via the membus.DebugBus dependency and the bare value
// returns below — this core has no symbol table to resolve against.
package debug

import (
	"github.com/hdl2go/rv32pipe/coreerr"
	"github.com/hdl2go/rv32pipe/csr"
	"github.com/hdl2go/rv32pipe/membus"
	"github.com/hdl2go/rv32pipe/regfile"
)

// Module is the debug control surface for a single core.Core. It satisfies
// core.DebugHooks; Core never imports this package, so wiring goes through
// Core.AttachDebug at construction time in the caller (cmd/rv32sim or a
// test harness), not here.
type Module struct {
	regs *regfile.File
	csrs *csr.File
	mem  membus.DebugBus

	halted   bool
	stepping bool

	breakpoints map[uint32]bool
	watchpoints map[uint32]bool

	// lastWatchHit latches once a watchpoint fires and stays asserted until
	// the hart resumes, covering the one cycle of slack between Writeback
	// publishing the matching store (at the end of a cycle's commit phase)
	// and Halted() being sampled at the top of the next one (spec section
	// 4.J routes this into the hazard unit so Fetch stops immediately
	// rather than issuing one more request before the halt takes effect).
	lastWatchHit bool

	pendingPC      uint32
	pendingPCValid bool
}

// New returns a Module operating on the given register file, CSR file, and
// data-bus debug interface. The hart starts running (not halted).
func New(regs *regfile.File, csrs *csr.File, mem membus.DebugBus) *Module {
	return &Module{
		regs:        regs,
		csrs:        csrs,
		mem:         mem,
		breakpoints: make(map[uint32]bool),
		watchpoints: make(map[uint32]bool),
	}
}

// Halt latches the halt state. The pipeline freezes starting the next Step.
func (m *Module) Halt() {
	m.halted = true
	m.stepping = false
}

// Resume clears the halt state.
func (m *Module) Resume() {
	m.halted = false
	m.stepping = false
	m.lastWatchHit = false
}

// Step resumes the hart for exactly one committed instruction, then
// re-asserts halt the moment Writeback publishes a commit (spec section
// 4.M: "resume for exactly one committed instruction, then re-assert halt
// on the next Writeback").
func (m *Module) Step() {
	m.halted = false
	m.stepping = true
	m.lastWatchHit = false
}

// Halted reports the latched halt state.
func (m *Module) Halted() bool {
	return m.halted
}

// SetPC arms a one-shot PC override, consumed by the next Core.Step. Fetch
// ranks it below an exception or branch redirect raised in the same cycle
// (spec section 4.N), but it flushes every pipeline register regardless.
// Only meaningful while halted; callers should Halt first.
func (m *Module) SetPC(target uint32) {
	m.pendingPC = target
	m.pendingPCValid = true
}

// ConsumeSetPC returns and clears the pending PC override, if any.
func (m *Module) ConsumeSetPC() (uint32, bool) {
	if !m.pendingPCValid {
		return 0, false
	}
	m.pendingPCValid = false
	return m.pendingPC, true
}

// WatchpointHit reports whether a watchpoint matched and is still latched.
func (m *Module) WatchpointHit() bool {
	return m.lastWatchHit
}

// NotifyCommit is called once per cycle with whatever Writeback published
// (spec section 4.I's debugPC/debugStore), and drives breakpoint,
// watchpoint, and single-step detection.
func (m *Module) NotifyCommit(pcValid bool, pc uint32, isStore bool, storeAddr uint32) {
	if isStore && m.watchpoints[storeAddr] {
		m.halted = true
		m.lastWatchHit = true
	}

	if !pcValid {
		return
	}

	if m.stepping {
		m.stepping = false
		m.halted = true
	}

	if m.breakpoints[pc] {
		m.halted = true
	}
}

// AddBreakpoint arms a breakpoint on pc: the next commit at that address
// halts the hart.
func (m *Module) AddBreakpoint(pc uint32) {
	m.breakpoints[pc] = true
}

// RemoveBreakpoint disarms a previously set breakpoint. Returns an error if
// none was set at pc.
func (m *Module) RemoveBreakpoint(pc uint32) error {
	if !m.breakpoints[pc] {
		return coreerr.Errorf(coreerr.UnknownBreakpoint, "%#x", pc)
	}
	delete(m.breakpoints, pc)
	return nil
}

// Breakpoints returns the currently armed breakpoint addresses.
func (m *Module) Breakpoints() []uint32 {
	out := make([]uint32, 0, len(m.breakpoints))
	for pc := range m.breakpoints {
		out = append(out, pc)
	}
	return out
}

// AddWatchpoint arms a watchpoint on a store address.
func (m *Module) AddWatchpoint(addr uint32) {
	m.watchpoints[addr] = true
}

// RemoveWatchpoint disarms a previously set watchpoint. Returns an error if
// none was set at addr.
func (m *Module) RemoveWatchpoint(addr uint32) error {
	if !m.watchpoints[addr] {
		return coreerr.Errorf(coreerr.UnknownWatchpoint, "%#x", addr)
	}
	delete(m.watchpoints, addr)
	return nil
}

// Watchpoints returns the currently armed watchpoint addresses.
func (m *Module) Watchpoints() []uint32 {
	out := make([]uint32, 0, len(m.watchpoints))
	for addr := range m.watchpoints {
		out = append(out, addr)
	}
	return out
}

// ReadGPR returns the contents of register addr (0-31).
func (m *Module) ReadGPR(addr uint8) (uint32, error) {
	if addr > 31 {
		return 0, coreerr.Errorf(coreerr.InvalidRegisterAddress, "x%d", addr)
	}
	return m.regs.DebugRead(addr), nil
}

// WriteGPR writes register addr (0-31) while halted (spec section 4.M:
// debug writes take priority over Writeback commit while halted).
func (m *Module) WriteGPR(addr uint8, value uint32) error {
	if !m.halted {
		return coreerr.Errorf(coreerr.DebugChannelBusy, "core must be halted to write x%d", addr)
	}
	if addr > 31 {
		return coreerr.Errorf(coreerr.InvalidRegisterAddress, "x%d", addr)
	}
	m.regs.DebugWrite(addr, value)
	return nil
}

// ReadCSR returns the contents of the CSR at addr, or an error if addr
// names no defined CSR.
func (m *Module) ReadCSR(addr csr.Address) (uint32, error) {
	if !m.csrs.Exists(addr) {
		return 0, coreerr.Errorf(coreerr.UnknownCSR, "%#x", addr)
	}
	return m.csrs.Read(addr), nil
}

// WriteCSR writes the CSR at addr while halted, bypassing its normal
// read-only check (spec section 4.M).
func (m *Module) WriteCSR(addr csr.Address, value uint32) error {
	if !m.halted {
		return coreerr.Errorf(coreerr.DebugChannelBusy, "core must be halted to write csr %#x", addr)
	}
	m.csrs.DebugWrite(addr, value)
	return nil
}

// PeekMemory reads one byte from the data bus out of band.
func (m *Module) PeekMemory(address uint32) (byte, error) {
	return m.mem.Peek(address)
}

// PokeMemory writes one byte to the data bus out of band, while halted.
func (m *Module) PokeMemory(address uint32, value byte) error {
	if !m.halted {
		return coreerr.Errorf(coreerr.DebugChannelBusy, "core must be halted to poke memory %#x", address)
	}
	return m.mem.Poke(address, value)
}
