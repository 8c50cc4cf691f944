// Package rvtest collects the small test-assertion helpers shared across
// this module's _test.go files, grounded on the teacher's own test
// package (test.Equate, test.ExpectSuccess, test.NewRingWriter), whose
// call shape is visible in its test/*_test.go consumers even though the
// package itself lives outside the retrieved source.
package rvtest

import "testing"

// Equate fails the test, without stopping it, if got != want.
func Equate(t *testing.T, got, want interface{}) {
	t.Helper()
	if got != want {
		t.Errorf("unexpected value: got %v, wanted %v", got, want)
	}
}

// ExpectSuccess fails the test if v is a non-nil error or a false bool.
func ExpectSuccess(t *testing.T, v interface{}) {
	t.Helper()
	switch v := v.(type) {
	case nil:
		return
	case bool:
		if !v {
			t.Errorf("expected success, got false")
		}
	case error:
		t.Errorf("expected success, got error: %v", v)
	}
}

// ExpectFailure fails the test if v is nil, a true bool, or a nil error.
func ExpectFailure(t *testing.T, v interface{}) {
	t.Helper()
	switch v := v.(type) {
	case nil:
		t.Errorf("expected failure, got nil")
	case bool:
		if v {
			t.Errorf("expected failure, got true")
		}
	case error:
		if v == nil {
			t.Errorf("expected failure, got nil error")
		}
	}
}

// RingWriter is a fixed-capacity io.Writer that keeps only the most
// recently written bytes, used to capture a bounded tail of logger output
// in tests without growing without bound.
type RingWriter struct {
	buf   []byte
	cap   int
	start int
	size  int
}

// NewRingWriter returns a RingWriter retaining at most capacity bytes.
func NewRingWriter(capacity int) *RingWriter {
	return &RingWriter{buf: make([]byte, capacity), cap: capacity}
}

// Write implements io.Writer, overwriting the oldest bytes once full.
func (r *RingWriter) Write(p []byte) (int, error) {
	for _, b := range p {
		r.buf[(r.start+r.size)%r.cap] = b
		if r.size < r.cap {
			r.size++
		} else {
			r.start = (r.start + 1) % r.cap
		}
	}
	return len(p), nil
}

// String returns the currently retained bytes in write order.
func (r *RingWriter) String() string {
	out := make([]byte, r.size)
	for i := 0; i < r.size; i++ {
		out[i] = r.buf[(r.start+i)%r.cap]
	}
	return string(out)
}

// Reset empties the buffer.
func (r *RingWriter) Reset() {
	r.start = 0
	r.size = 0
}
