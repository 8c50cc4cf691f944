package pipeline_test

import (
	"testing"

	"github.com/hdl2go/rv32pipe/pipeline"
)

func TestEmptyRegisterIsReadyAndInvalid(t *testing.T) {
	r := pipeline.New[int]()
	if !r.Ready() {
		t.Fatal("empty register should be ready")
	}
	if r.Valid() {
		t.Fatal("empty register should not be valid")
	}
}

func TestEnqueueThenDequeue(t *testing.T) {
	r := pipeline.New[int]()
	r.Enqueue(42)
	if r.Ready() {
		t.Fatal("occupied register should not be ready")
	}
	if !r.Valid() || r.Value() != 42 {
		t.Fatalf("got valid=%v value=%d", r.Valid(), r.Value())
	}
	r.Commit()
	if !r.Ready() || r.Valid() {
		t.Fatal("register should be empty after Commit")
	}
}

func TestFlushDropsBufferedValue(t *testing.T) {
	r := pipeline.New[string]()
	r.Enqueue("in flight")
	r.Flush()
	if r.Valid() {
		t.Fatal("flush must drop deq.valid in the same cycle")
	}
	if !r.Ready() {
		t.Fatal("flush must free the slot for enqueue")
	}
}

func TestEnqueueOnOccupiedRegisterPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on double enqueue")
		}
	}()
	r := pipeline.New[int]()
	r.Enqueue(1)
	r.Enqueue(2)
}
