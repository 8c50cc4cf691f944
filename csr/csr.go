package csr

import "github.com/hdl2go/rv32pipe/coreerr"

type cell struct {
	value    uint32
	writable bool
	// onWrite, if set, computes the value actually stored (e.g. masking
	// read-only bit fields within an otherwise writable register such as
	// mstatus). Returns the new stored value.
	onWrite func(old, written uint32) uint32
}

// File is the machine-mode CSR file.
type File struct {
	hartID uint32
	cells  map[Address]*cell
}

// New returns a File with all mandatory CSRs present (spec section 3),
// mvendorid/marchid/mimpid read-only zero, mhartid read-only hartID, misa
// read-only RV32IMZicsr.
func New(hartID uint32) *File {
	f := &File{
		hartID: hartID,
		cells:  make(map[Address]*cell),
	}

	f.define(MVendorID, 0, false, nil)
	f.define(MArchID, 0, false, nil)
	f.define(MImpID, 0, false, nil)
	f.define(MHartID, hartID, false, nil)
	f.define(MISA, misaRV32IMZicsr, false, nil)

	f.define(MStatus, 0, true, maskMStatus)
	f.define(MTVec, 0, true, nil)
	f.define(MEPC, 0, true, maskEPC)
	f.define(MCause, 0, true, nil)
	f.define(MTVal, 0, true, nil)
	f.define(MIE, 0, true, nil)
	f.define(MIP, 0, true, maskMIP)
	f.define(MCycle, 0, true, nil)
	f.define(MInstret, 0, true, nil)
	f.define(MCycleH, 0, true, nil)
	f.define(MInstretH, 0, true, nil)

	return f
}

func (f *File) define(addr Address, reset uint32, writable bool, onWrite func(old, written uint32) uint32) {
	f.cells[addr] = &cell{value: reset, writable: writable, onWrite: onWrite}
}

// maskEPC clears the two low bits of mepc: RISC-V instructions are 4-byte aligned and
// IALIGN=32 for the base ISA without the C extension (out of scope).
func maskEPC(_, written uint32) uint32 {
	return written &^ 0x3
}

// maskMStatus keeps only the bit fields this core implements (MIE, MPIE,
// MPP hardwired to M-mode); everything else reads and writes as zero.
func maskMStatus(_, written uint32) uint32 {
	kept := written & ((1 << mstatusMIEBit) | (1 << mstatusMPIEBit))
	kept |= 0x3 << mstatusMPPLow // MPP is hardwired to M-mode (0b11)
	return kept
}

// maskMIP keeps only MTIP, which is driven by the timer line rather than
// software (spec section 6); software writes to other bits are discarded.
func maskMIP(old, written uint32) uint32 {
	mtip := old & (1 << mipMTIPBit)
	return (written &^ (1 << mipMTIPBit)) | mtip
}

// Read returns the value of the CSR at addr. Reading an address with no
// defined cell returns 0; the decoder/execute stage is responsible for
// deciding whether that's an error (this core treats an unknown CSR number
// used by software as read-zero/write-discarded, matching "writes to
// read-only registers are silently discarded" generalised to unknown
// registers, since privilege-mode CSR faulting is out of scope).
func (f *File) Read(addr Address) uint32 {
	c, ok := f.cells[addr]
	if !ok {
		return 0
	}
	return c.value
}

// Exists reports whether addr names a defined CSR, for the debug module and
// diagnostics.
func (f *File) Exists(addr Address) bool {
	_, ok := f.cells[addr]
	return ok
}

// Write stores data into the CSR at addr when en is true. Writes to a
// read-only CSR, or to an undefined address, are silently discarded per
// spec section 7 ("CSR write to RO... silently discarded; no trap").
func (f *File) Write(en bool, addr Address, data uint32) {
	if !en {
		return
	}
	c, ok := f.cells[addr]
	if !ok || !c.writable {
		return
	}
	if c.onWrite != nil {
		data = c.onWrite(c.value, data)
	}
	c.value = data
}

// DebugWrite bypasses the writable check, for the debug module's register
// poke while halted (spec section 4.M); it still respects field masking
// (e.g. mstatus.MPP) so the CSR file never holds a value it could not
// architecturally reach.
func (f *File) DebugWrite(addr Address, data uint32) {
	c, ok := f.cells[addr]
	if !ok {
		f.define(addr, data, true, nil)
		return
	}
	if c.onWrite != nil {
		data = c.onWrite(c.value, data)
	}
	c.value = data
}

// MStatusMIE reports the current value of mstatus.MIE.
func (f *File) MStatusMIE() bool {
	return f.Read(MStatus)&(1<<mstatusMIEBit) != 0
}

// MIEMTIE reports the current value of mie.MTIE.
func (f *File) MIEMTIE() bool {
	return f.Read(MIE)&(1<<mieMTIEBit) != 0
}

// SetTimerInterruptLine latches the external mtime comparator line into
// mip.MTIP (spec section 6).
func (f *File) SetTimerInterruptLine(asserted bool) {
	c := f.cells[MIP]
	if asserted {
		c.value |= 1 << mipMTIPBit
	} else {
		c.value &^= 1 << mipMTIPBit
	}
}

// InterruptPending reports whether a timer interrupt should be taken at the
// next instruction boundary (spec section 6: mstatus.MIE && mie.MTIE, and
// mip.MTIP asserted).
func (f *File) InterruptPending() bool {
	mtip := f.Read(MIP)&(1<<mipMTIPBit) != 0
	return mtip && f.MStatusMIE() && f.MIEMTIE()
}

// TickCycle increments mcycle (and its h companion on overflow) by one.
// Called once per clock cycle regardless of halt state is NOT correct per
// spec section 4.M ("while halted... pending state is preserved"); the
// core only calls this while running.
func (f *File) TickCycle() {
	f.increment(MCycle, MCycleH)
}

// TickInstret increments minstret by one for a committed, non-trap
// retirement (spec section 4.D, 4.I; spec section 9 resolves that traps do
// not retire).
func (f *File) TickInstret() {
	f.increment(MInstret, MInstretH)
}

func (f *File) increment(lo, hi Address) {
	c := f.cells[lo]
	c.value++
	if c.value == 0 {
		f.cells[hi].value++
	}
}

// TrapEnterMEPC performs the first cycle of the machine-mode trap-entry
// sequence (spec section 4.D, 4.I): writes mepc and immediately updates
// mstatus.MPIE/MIE per the RISC-V privileged spec's trap rules (MPIE <-
// MIE, MIE <- 0; MPP stays hardwired to M-mode since no other privilege
// mode exists here). The remaining two fields are written by
// TrapEnterMCause/TrapEnterMTval on the following cycles, preserving the
// externally observable mepc-then-mcause-then-mtval order (spec section 8,
// property 6).
func (f *File) TrapEnterMEPC(pc uint32) {
	f.cells[MEPC].value = pc &^ 0x3

	status := f.cells[MStatus].value
	mie := status & (1 << mstatusMIEBit)
	status &^= 1 << mstatusMPIEBit
	status |= (mie >> mstatusMIEBit) << mstatusMPIEBit
	status &^= 1 << mstatusMIEBit
	f.cells[MStatus].value = status
}

// TrapEnterMCause writes mcause, the second cycle of trap entry.
func (f *File) TrapEnterMCause(cause uint32) {
	f.cells[MCause].value = cause
}

// TrapEnterMTval writes mtval, the third and final cycle of trap entry.
func (f *File) TrapEnterMTval(tval uint32) {
	f.cells[MTVal].value = tval
}

// MRet performs the mret bookkeeping (spec section 4.D): copies
// mstatus.MPIE back into MIE and returns the value mepc holds for Fetch to
// redirect to. mepc itself is left untouched (spec section 8, scenario S5:
// "hardware leaves mepc at the faulting PC"; software is responsible for
// advancing it if it wants to skip the faulting instruction).
func (f *File) MRet() uint32 {
	status := f.cells[MStatus].value
	mpie := status & (1 << mstatusMPIEBit)
	status &^= 1 << mstatusMIEBit
	status |= (mpie >> mstatusMPIEBit) << mstatusMIEBit
	status |= 1 << mstatusMPIEBit
	f.cells[MStatus].value = status

	return f.cells[MEPC].value
}

// CauseForFault maps a fault classification to its mcause code.
func CauseForFault(illegal, ecall, loadFault, storeFault bool) (uint32, error) {
	switch {
	case illegal:
		return CauseIllegalInstruction, nil
	case ecall:
		return CauseEnvironmentCallFromM, nil
	case loadFault:
		return CauseLoadAccessFault, nil
	case storeFault:
		return CauseStoreAccessFault, nil
	}
	return 0, coreerr.Errorf(coreerr.IllegalInstruction, "no fault classification set")
}
