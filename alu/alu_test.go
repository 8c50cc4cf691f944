package alu_test

import (
	"testing"

	"github.com/hdl2go/rv32pipe/alu"
	"github.com/hdl2go/rv32pipe/isa"
)

func TestArithmetic(t *testing.T) {
	cases := []struct {
		op   isa.AluOp
		a, b uint32
		want uint32
	}{
		{isa.ADD, 5, 3, 8},
		{isa.SUB, 5, 3, 2},
		{isa.SUB, 0, 1, 0xffffffff},
		{isa.AND, 0xf0, 0x0f, 0},
		{isa.OR, 0xf0, 0x0f, 0xff},
		{isa.XOR, 0xff, 0x0f, 0xf0},
	}
	for _, c := range cases {
		if got := alu.Eval(c.op, c.a, c.b); got != c.want {
			t.Errorf("%s(%#x, %#x) = %#x, want %#x", c.op, c.a, c.b, got, c.want)
		}
	}
}

func TestCompare(t *testing.T) {
	if got := alu.Eval(isa.SLT, 0xffffffff, 1); got != 1 {
		t.Errorf("SLT(-1, 1) signed = %d, want 1", got)
	}
	if got := alu.Eval(isa.SLTU, 0xffffffff, 1); got != 0 {
		t.Errorf("SLTU(-1, 1) unsigned = %d, want 0", got)
	}
}

func TestShiftAmountMasking(t *testing.T) {
	// shift amount takes only the low 5 bits: a shift by 32 is a shift by 0
	if got := alu.Eval(isa.SLL, 1, 32); got != 1 {
		t.Errorf("SLL by 32 = %#x, want 1 (masked to 0)", got)
	}
	if got := alu.Eval(isa.SLL, 1, 33); got != 2 {
		t.Errorf("SLL by 33 = %#x, want 2 (masked to 1)", got)
	}
}

func TestShiftSignFill(t *testing.T) {
	if got := alu.Eval(isa.SRA, 0x80000000, 4); got != 0xf8000000 {
		t.Errorf("SRA sign-fill = %#x, want %#x", got, uint32(0xf8000000))
	}
	if got := alu.Eval(isa.SRL, 0x80000000, 4); got != 0x08000000 {
		t.Errorf("SRL zero-fill = %#x, want %#x", got, uint32(0x08000000))
	}
}
