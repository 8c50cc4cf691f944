package regfile_test

import (
	"testing"

	"github.com/hdl2go/rv32pipe/regfile"
)

func TestX0ReadAsZero(t *testing.T) {
	f := regfile.New()
	f.Write(true, 0, 0xdeadbeef)
	if got := f.Read(0); got != 0 {
		t.Errorf("x0 = %#x after attempted write, want 0", got)
	}
}

func TestWriteThenRead(t *testing.T) {
	f := regfile.New()
	f.Write(true, 5, 42)
	if got := f.Read(5); got != 42 {
		t.Errorf("x5 = %d, want 42", got)
	}
}

func TestWriteThroughSameCycle(t *testing.T) {
	f := regfile.New()
	f.Write(true, 3, 100)

	// cycle boundary: register file already holds 100 in x3. Now simulate a
	// same-cycle write+read of x3 via the bypass helper.
	got := f.ReadWithBypass(3, true, 3, 7)
	if got != 7 {
		t.Errorf("write-through read = %d, want 7", got)
	}

	// a read of a different register in the same cycle is unaffected.
	f.Write(true, 4, 55)
	got4 := f.ReadWithBypass(4, true, 3, 7)
	if got4 != 55 {
		t.Errorf("unrelated register read = %d, want 55", got4)
	}
}

func TestX0NeverWritable(t *testing.T) {
	f := regfile.New()
	got := f.ReadWithBypass(0, true, 0, 123)
	if got != 0 {
		t.Errorf("x0 bypass read = %d, want 0", got)
	}
}
