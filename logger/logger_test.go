package logger_test

import (
	"strings"
	"testing"

	"github.com/hdl2go/rv32pipe/internal/rvtest"
	"github.com/hdl2go/rv32pipe/logger"
)

func TestCentralLogger(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Write(w)
	expectEquality(t, w.String(), "")

	log.Log("test", "this is a test")
	log.Write(w)
	expectEquality(t, w.String(), "test: this is a test\n")

	w.Reset()

	log.Log("test2", "this is another test")
	log.Write(w)
	expectEquality(t, w.String(), "test: this is a test\ntest2: this is another test\n")

	w.Reset()
	log.Tail(w, 100)
	expectEquality(t, w.String(), "test: this is a test\ntest2: this is another test\n")

	w.Reset()
	log.Tail(w, 2)
	expectEquality(t, w.String(), "test: this is a test\ntest2: this is another test\n")

	w.Reset()
	log.Tail(w, 1)
	expectEquality(t, w.String(), "test2: this is another test\n")

	w.Reset()
	log.Tail(w, 0)
	expectEquality(t, w.String(), "")
}

func TestCapacity(t *testing.T) {
	log := logger.NewLogger(2)
	log.Log("a", "1")
	log.Log("b", "2")
	log.Log("c", "3")

	w := &strings.Builder{}
	log.Write(w)
	expectEquality(t, w.String(), "b: 2\nc: 3\n")
}

// Unlike strings.Builder above, a RingWriter only keeps a bounded tail:
// logging more bytes than its capacity must drop the oldest ones rather
// than grow without bound.
func TestRingWriterCapturesBoundedTail(t *testing.T) {
	log := logger.NewLogger(100)
	log.Log("a", "first entry")
	log.Log("b", "second entry")

	ring := rvtest.NewRingWriter(8)
	log.Write(ring)

	rvtest.Equate(t, ring.String(), "d entry\n")

	ring.Reset()
	log.Tail(ring, 1)
	rvtest.Equate(t, ring.String(), "d entry\n")
}

func expectEquality(t *testing.T, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
