package csr_test

import (
	"testing"

	"github.com/hdl2go/rv32pipe/csr"
)

func TestMandatoryReadOnlyCells(t *testing.T) {
	f := csr.New(7)
	if got := f.Read(csr.MVendorID); got != 0 {
		t.Errorf("mvendorid = %#x, want 0", got)
	}
	if got := f.Read(csr.MHartID); got != 7 {
		t.Errorf("mhartid = %d, want 7", got)
	}
}

func TestWriteToReadOnlyDiscarded(t *testing.T) {
	f := csr.New(0)
	f.Write(true, csr.MHartID, 0xff)
	if got := f.Read(csr.MHartID); got != 0 {
		t.Errorf("mhartid after write attempt = %d, want 0 (RO discard)", got)
	}
}

func TestWritableRoundTrip(t *testing.T) {
	f := csr.New(0)
	f.Write(true, csr.MTVec, 0x80001000)
	if got := f.Read(csr.MTVec); got != 0x80001000 {
		t.Errorf("mtvec = %#x, want 0x80001000", got)
	}
}

func TestTrapEnterOrder(t *testing.T) {
	f := csr.New(0)
	f.TrapEnterMEPC(0x80000000)
	f.TrapEnterMCause(csr.CauseIllegalInstruction)
	f.TrapEnterMTval(0)

	if got := f.Read(csr.MEPC); got != 0x80000000 {
		t.Errorf("mepc = %#x, want 0x80000000", got)
	}
	if got := f.Read(csr.MCause); got != csr.CauseIllegalInstruction {
		t.Errorf("mcause = %d, want %d", got, csr.CauseIllegalInstruction)
	}
	if got := f.Read(csr.MTVal); got != 0 {
		t.Errorf("mtval = %d, want 0", got)
	}
}

func TestMretRestoresMIE(t *testing.T) {
	f := csr.New(0)
	// enable MIE, then take a trap which should stash it in MPIE and clear MIE
	f.Write(true, csr.MStatus, 1<<3)
	if !f.MStatusMIE() {
		t.Fatalf("expected MIE set before trap")
	}

	f.TrapEnterMEPC(0x1000)
	f.TrapEnterMCause(csr.CauseEnvironmentCallFromM)
	f.TrapEnterMTval(0)
	if f.MStatusMIE() {
		t.Errorf("MIE should be cleared on trap entry")
	}

	target := f.MRet()
	if target != 0x1000 {
		t.Errorf("mret target = %#x, want 0x1000", target)
	}
	if !f.MStatusMIE() {
		t.Errorf("MIE should be restored from MPIE after mret")
	}
}

func TestInstretCounting(t *testing.T) {
	f := csr.New(0)
	f.TickInstret()
	f.TickInstret()
	if got := f.Read(csr.MInstret); got != 2 {
		t.Errorf("minstret = %d, want 2", got)
	}
}

func TestCycleCounting(t *testing.T) {
	f := csr.New(0)
	for i := 0; i < 5; i++ {
		f.TickCycle()
	}
	if got := f.Read(csr.MCycle); got != 5 {
		t.Errorf("mcycle = %d, want 5", got)
	}
}

func TestTimerInterruptLatched(t *testing.T) {
	f := csr.New(0)
	f.Write(true, csr.MStatus, 1<<3)
	f.Write(true, csr.MIE, 1<<7)
	if f.InterruptPending() {
		t.Fatalf("interrupt should not be pending before line asserted")
	}
	f.SetTimerInterruptLine(true)
	if !f.InterruptPending() {
		t.Errorf("interrupt should be pending once MTIP, MIE, MTIE all set")
	}
}
