// Package membus defines the memory bus concept used by both the
// instruction and data ports (spec section 6): a byte-addressable,
// 4-byte-word-granularity port with per-byte write enables and an explicit
// ready/valid handshake on both the request and the response, modelled as
// an owned actor with its own latency rather than assumed to respond in a
// fixed number of cycles (Design Notes section 9).
//
// This mirrors the split the teacher draws between its CPUBus (the normal
// read/write path) and its DebuggerBus (out-of-band Peek/Poke for
// inspection tools) in hardware/memory/bus.
package membus

// Request is issued master (Fetch or Memory) to slave (a Device).
type Request struct {
	Address uint32
	Write   bool
	Data    [4]byte
	Mask    [4]bool
}

// Response is returned slave to master, one cycle or more after Request was
// accepted.
type Response struct {
	Data  [4]byte
	Valid bool
}

// Port is the ready/valid memory port interface a stage drives. A stage
// issues at most one outstanding request at a time (spec section 4.H:
// "one request in flight at a time").
type Port interface {
	// TryRequest attempts to issue req this cycle. It returns false if the
	// port cannot accept a new request yet (one is already outstanding).
	TryRequest(req Request) bool

	// Poll returns the buffered response, if one became ready this cycle,
	// and clears it. The second return value is false if nothing is ready
	// yet.
	Poll() (Response, bool)
}

// DebugBus defines the meta-operations used by the debug module and test
// harnesses: byte-granular peek/poke outside of the normal request/response
// pipeline (spec section 4.M, "Memory access").
type DebugBus interface {
	Peek(address uint32) (byte, error)
	Poke(address uint32, value byte) error
}
