package core

import (
	"github.com/hdl2go/rv32pipe/isa"
	"github.com/hdl2go/rv32pipe/membus"
)

// memoryUnit implements the Memory stage (spec section 4.H): stores are
// fire-and-forget, loads hold the stage across however many cycles the
// data port takes to respond, one request in flight at a time.
type memoryUnit struct {
	port membus.Port

	pendingLoad   bool
	pendingResult isa.ExecResult

	// completed holds a decoded load result once its response has arrived
	// but Writeback was not yet ready to accept it, so it is not lost when
	// the (one-shot) port response is polled.
	completed *isa.MemResult
}

func newMemoryUnit(port membus.Port) *memoryUnit {
	return &memoryUnit{port: port}
}

// memoryEval is what Memory produces this cycle from sampled state, before
// any request is issued or internal state advances (commit does that).
type memoryEval struct {
	haveOutput bool
	result     isa.MemResult

	// drainsInput reports whether this cycle consumes the ExecResult
	// currently buffered in Execute→Memory, freeing that register for a
	// new enqueue.
	drainsInput bool

	// completesLoad reports whether this cycle hands a load's result
	// straight to Writeback the same cycle its response arrived (as
	// opposed to buffering it in completed first), so commit knows to
	// clear pendingLoad here too.
	completesLoad bool

	issueLoad       *isa.ExecResult
	issueStore      *isa.ExecResult
	bufferCompleted *isa.MemResult
}

// eval samples in (Execute→Memory's buffered ExecResult, if valid) and the
// stage's own in-flight/completed load state. m2wReady tells Memory
// whether Writeback can accept a new MemResult this cycle.
func (mu *memoryUnit) eval(in isa.ExecResult, valid bool, m2wReady bool) memoryEval {
	if mu.completed != nil {
		if !m2wReady {
			return memoryEval{}
		}
		return memoryEval{haveOutput: true, result: *mu.completed}
	}

	if mu.pendingLoad {
		resp, ok := mu.port.Poll()
		if !ok {
			return memoryEval{}
		}
		res := loadMemResult(mu.pendingResult, resp)
		if !m2wReady {
			return memoryEval{bufferCompleted: &res}
		}
		return memoryEval{haveOutput: true, result: res, completesLoad: true}
	}

	if !valid {
		return memoryEval{}
	}

	switch in.OpType {
	case isa.LOAD:
		snapshot := in
		return memoryEval{issueLoad: &snapshot, drainsInput: true}
	case isa.STORE:
		if !m2wReady {
			return memoryEval{}
		}
		snapshot := in
		return memoryEval{haveOutput: true, result: storeMemResult(in), issueStore: &snapshot, drainsInput: true}
	default:
		if !m2wReady {
			return memoryEval{}
		}
		return memoryEval{haveOutput: true, result: passthroughMemResult(in), drainsInput: true}
	}
}

// commit applies the mutations eval decided on.
func (mu *memoryUnit) commit(ev memoryEval) {
	if ev.bufferCompleted != nil {
		mu.completed = ev.bufferCompleted
		mu.pendingLoad = false
		return
	}
	if mu.completed != nil && ev.haveOutput {
		mu.completed = nil
		return
	}
	if ev.completesLoad {
		mu.pendingLoad = false
		return
	}
	if ev.issueLoad != nil {
		req := membus.Request{Address: ev.issueLoad.MemAddress}
		if mu.port.TryRequest(req) {
			mu.pendingLoad = true
			mu.pendingResult = *ev.issueLoad
		}
		return
	}
	if ev.issueStore != nil {
		req := storeRequest(*ev.issueStore)
		mu.port.TryRequest(req)
		return
	}
}

// hazard is the (rd, regWrite) broadcast Memory makes to the hazard unit
// this cycle: valid whenever Memory currently holds an instruction destined
// to write a register, including while a load is in flight or completed
// but not yet handed to Writeback.
func (mu *memoryUnit) hazard(in isa.ExecResult, valid bool) isa.HazardInfo {
	if mu.completed != nil {
		return isa.HazardInfo{Rd: mu.completed.Rd, RegWrite: mu.completed.GprWrite}
	}
	if mu.pendingLoad {
		return isa.HazardInfo{Rd: mu.pendingResult.Rd, RegWrite: true}
	}
	if !valid {
		return isa.HazardInfo{}
	}
	return isa.HazardInfo{Rd: in.Rd, RegWrite: in.GprWrite}
}

func (mu *memoryUnit) csrHazard(in isa.ExecResult, valid bool) isa.CsrHazardInfo {
	if mu.completed != nil || mu.pendingLoad || !valid {
		return isa.CsrHazardInfo{}
	}
	return isa.CsrHazardInfo{CsrAddr: in.CsrAddr, IsWrite: in.CsrWrite}
}

// squash drops any load this unit is tracking, in flight or already
// completed, without handing it to Writeback. Used when an older
// instruction's exception or a debug PC override invalidates everything
// younger still buffered in the pipeline (spec section 4.N): the load's
// bus response, if it later arrives, is simply never polled.
func (mu *memoryUnit) squash() {
	mu.pendingLoad = false
	mu.completed = nil
}

func storeRequest(in isa.ExecResult) membus.Request {
	req := membus.Request{Address: in.MemAddress, Write: true}
	offset := in.MemAddress & 0x3
	n := in.MemWidth.Bytes()
	for i := 0; i < n; i++ {
		pos := offset + uint32(i)
		if pos >= 4 {
			break
		}
		req.Mask[pos] = true
		req.Data[pos] = byte(in.StoreData >> (8 * uint(i)))
	}
	return req
}

func storeMemResult(in isa.ExecResult) isa.MemResult {
	return isa.MemResult{
		OpType:    isa.STORE,
		PC:        in.PC,
		IsStore:   true,
		StoreAddr: in.MemAddress,
	}
}

func loadMemResult(in isa.ExecResult, resp membus.Response) isa.MemResult {
	offset := in.MemAddress & 0x3
	n := in.MemWidth.Bytes()
	var raw uint32
	for i := 0; i < n; i++ {
		pos := offset + uint32(i)
		if pos >= 4 {
			break
		}
		raw |= uint32(resp.Data[pos]) << (8 * uint(i))
	}

	if !resp.Valid {
		return isa.MemResult{
			OpType:         isa.LOAD,
			PC:             in.PC,
			IsMemFault:     true,
			MemFaultIsLoad: true,
			FaultAddress:   in.MemAddress,
		}
	}

	data := extendLoad(raw, in.MemWidth, in.MemUnsigned)
	return isa.MemResult{
		OpType:   isa.LOAD,
		Rd:       in.Rd,
		GprWrite: in.GprWrite,
		GprData:  data,
		PC:       in.PC,
	}
}

func extendLoad(raw uint32, width isa.MemWidth, unsigned bool) uint32 {
	switch width {
	case isa.BYTE:
		if unsigned {
			return raw & 0xff
		}
		return uint32(int32(int8(raw)))
	case isa.HALF:
		if unsigned {
			return raw & 0xffff
		}
		return uint32(int32(int16(raw)))
	default:
		return raw
	}
}

func passthroughMemResult(in isa.ExecResult) isa.MemResult {
	return isa.MemResult{
		OpType:          in.OpType,
		Rd:              in.Rd,
		GprWrite:        in.GprWrite,
		GprData:         in.GprResult,
		CsrAddr:         in.CsrAddr,
		CsrWrite:        in.CsrWrite,
		CsrData:         in.CsrData,
		PC:              in.PC,
		InstructionBits: in.RawWord,
		IsInvalid:       in.IsInvalid,
		IsEcall:         in.IsEcall,
	}
}
