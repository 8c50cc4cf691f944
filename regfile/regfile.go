// Package regfile implements the 32x32-bit general-purpose register file
// (spec section 4.C). x0 is hardwired to zero: reads of x0 always yield 0,
// and writes to x0 are silently discarded. A same-cycle write and read of
// the same non-zero address observes the write (write-through), the way the
// teacher's register type folds load and store into the same cycle rather
// than modelling a port-contention hazard.
package regfile

// File is the 32-entry general-purpose register file.
type File struct {
	regs [32]uint32
}

// New returns a File with all registers, including x0, initialised to zero.
func New() *File {
	return &File{}
}

// Read returns the contents of register addr. Reading x0 always returns 0.
func (f *File) Read(addr uint8) uint32 {
	if addr == 0 {
		return 0
	}
	return f.regs[addr&0x1f]
}

// Read2 is a convenience for the common two-port read Execute performs each
// cycle.
func (f *File) Read2(a1, a2 uint8) (uint32, uint32) {
	return f.Read(a1), f.Read(a2)
}

// Write stores data into register addr when en is true. Writing x0 is a
// no-op; the value is simply discarded.
func (f *File) Write(en bool, addr uint8, data uint32) {
	if !en || addr == 0 {
		return
	}
	f.regs[addr&0x1f] = data
}

// ReadWithBypass behaves like Read, except that if a same-cycle write to
// addr is in flight (en && addr == writeAddr, addr != 0) it returns the
// value being written instead of the pre-write contents. This is the
// write-through contract required by spec section 4.C and tested by
// invariant 2 in section 8; it models a register file whose write port
// forwards directly into its own read ports within the same cycle.
func (f *File) ReadWithBypass(addr uint8, writeEn bool, writeAddr uint8, writeData uint32) uint32 {
	if addr == 0 {
		return 0
	}
	if writeEn && writeAddr == addr {
		return writeData
	}
	return f.Read(addr)
}

// Snapshot returns a copy of all 32 registers, used by core.Core.Snapshot
// and by tests.
func (f *File) Snapshot() [32]uint32 {
	return f.regs
}

// DebugWrite writes directly to a register, bypassing nothing, for use by
// the debug module while the hart is halted (spec section 4.M: "writes take
// priority over Writeback commit while halted"). It takes no enable flag;
// like Write, it discards a write to x0, so x0 keeps reading zero and the
// debug write/read round trip holds for every register except x0.
func (f *File) DebugWrite(addr uint8, data uint32) {
	if addr == 0 {
		return
	}
	f.regs[addr&0x1f] = data
}

// DebugRead reads a register directly, for use by the debug module.
func (f *File) DebugRead(addr uint8) uint32 {
	return f.Read(addr)
}
