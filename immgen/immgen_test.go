package immgen_test

import (
	"testing"

	"github.com/hdl2go/rv32pipe/immgen"
)

func TestITypeSignExtend(t *testing.T) {
	// addi x1, x0, -1  -> imm field is all ones
	word := uint32(0xfff00093)
	got := immgen.Extract(word, immgen.I)
	if got != -1 {
		t.Errorf("I-imm = %d, want -1", got)
	}
}

func TestUTypeLowBitsZero(t *testing.T) {
	// lui x5, 0x12345 -> 0x123452b7
	word := uint32(0x123452b7)
	got := immgen.Extract(word, immgen.U)
	if got != 0x12345000 {
		t.Errorf("U-imm = %#x, want %#x", got, 0x12345000)
	}
	if got&0xfff != 0 {
		t.Errorf("U-imm low 12 bits must be zero, got %#x", got)
	}
}

func TestBTypeBitZero(t *testing.T) {
	// beq x1, x2, +12 -> 0x00208663
	word := uint32(0x00208663)
	got := immgen.Extract(word, immgen.B)
	if got != 12 {
		t.Errorf("B-imm = %d, want 12", got)
	}
	if got&1 != 0 {
		t.Errorf("B-imm bit 0 must be zero")
	}
}

func TestSType(t *testing.T) {
	// sw x1, 0(x0) -> 0x00102023
	word := uint32(0x00102023)
	got := immgen.Extract(word, immgen.S)
	if got != 0 {
		t.Errorf("S-imm = %d, want 0", got)
	}
}

func TestJTypeBitZero(t *testing.T) {
	// jal x1, 0x1000 -> imm[20]=0 imm[19:12]=0x01 imm[11]=0 imm[10:1]=0
	const opcodeJAL = 0x6f
	const rd1 = 1
	word := uint32(0x01<<12) | uint32(rd1<<7) | opcodeJAL
	got := immgen.Extract(word, immgen.J)
	if got != 0x1000 {
		t.Errorf("J-imm = %#x, want %#x", got, 0x1000)
	}
	if got&1 != 0 {
		t.Errorf("J-imm bit 0 must be zero")
	}
}
