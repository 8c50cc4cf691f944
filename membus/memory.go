package membus

// Device is a reference, flat, byte-addressable memory implementing Port
// and DebugBus. It models variable response latency explicitly so that
// nothing downstream may assume a fixed-latency memory (Design Notes
// section 9): a request accepted in cycle C becomes visible to Poll only
// after Latency subsequent calls to Tick.
type Device struct {
	bytes   []byte
	latency func() int

	pending     *Request
	pendingLeft int
	ready       *Response
}

// NewDevice returns a Device of the given size with a fixed response
// latency (in cycles, minimum 1).
func NewDevice(size int, latency int) *Device {
	if latency < 1 {
		latency = 1
	}
	return &Device{
		bytes:   make([]byte, size),
		latency: func() int { return latency },
	}
}

// NewDeviceWithJitter returns a Device whose per-request latency is chosen
// by calling jitter() each time a request is accepted, so tests never
// accidentally depend on a constant memory latency.
func NewDeviceWithJitter(size int, jitter func() int) *Device {
	return &Device{
		bytes:   make([]byte, size),
		latency: jitter,
	}
}

// TryRequest implements Port.
func (d *Device) TryRequest(req Request) bool {
	if d.pending != nil {
		return false
	}
	r := req
	d.pending = &r
	d.pendingLeft = d.latency()
	if d.pendingLeft < 1 {
		d.pendingLeft = 1
	}
	return true
}

// Tick advances the outstanding request by one cycle, servicing it once its
// latency has elapsed. core.Core does not call it: whoever constructed the
// Device (cmd/rv32sim or a test harness) calls it once per cycle, after
// core.Core.Step has issued that cycle's requests.
func (d *Device) Tick() {
	if d.pending == nil {
		return
	}
	d.pendingLeft--
	if d.pendingLeft > 0 {
		return
	}

	req := *d.pending
	d.pending = nil

	resp := Response{Valid: d.inRange(req.Address)}
	if resp.Valid {
		if req.Write {
			d.store(req.Address, req.Data, req.Mask)
		} else {
			resp.Data = d.load(req.Address)
		}
	}
	d.ready = &resp
}

// Poll implements Port.
func (d *Device) Poll() (Response, bool) {
	if d.ready == nil {
		return Response{}, false
	}
	resp := *d.ready
	d.ready = nil
	return resp, true
}

func (d *Device) inRange(addr uint32) bool {
	return int(addr)+4 <= len(d.bytes)
}

func (d *Device) load(addr uint32) [4]byte {
	var out [4]byte
	base := addr &^ 0x3
	for i := 0; i < 4; i++ {
		out[i] = d.bytes[int(base)+i]
	}
	return out
}

func (d *Device) store(addr uint32, data [4]byte, mask [4]bool) {
	base := addr &^ 0x3
	for i := 0; i < 4; i++ {
		if mask[i] {
			d.bytes[int(base)+i] = data[i]
		}
	}
}

// Peek implements DebugBus.
func (d *Device) Peek(address uint32) (byte, error) {
	if int(address) >= len(d.bytes) {
		return 0, errOutOfRange(address)
	}
	return d.bytes[address], nil
}

// Poke implements DebugBus.
func (d *Device) Poke(address uint32, value byte) error {
	if int(address) >= len(d.bytes) {
		return errOutOfRange(address)
	}
	d.bytes[address] = value
	return nil
}

// LoadProgram copies words (already in target byte order) into memory
// starting at base, for test harnesses and cmd/rv32sim.
func (d *Device) LoadProgram(base uint32, words []uint32) {
	for i, w := range words {
		addr := int(base) + i*4
		d.bytes[addr+0] = byte(w)
		d.bytes[addr+1] = byte(w >> 8)
		d.bytes[addr+2] = byte(w >> 16)
		d.bytes[addr+3] = byte(w >> 24)
	}
}
