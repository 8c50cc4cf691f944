package core

import "github.com/hdl2go/rv32pipe/membus"

// fetchOutput is what Fetch hands to Decode (spec section 4.F point 5):
// the buffered response word, its PC, and whatever the predictor guessed
// when the request for it was issued.
type fetchOutput struct {
	PC              uint32
	Word            uint32
	PredictedTaken  bool
	PredictedTarget uint32
}

// redirect is a priority-ordered request to change Fetch's PC (spec
// section 4.N): exception > branch > debug-set-PC > sequential.
type redirect struct {
	Valid  bool
	Target uint32
}

// fetchUnit implements the Fetch stage (spec section 4.F). It owns the
// instruction memory port and the single buffered-response slot that
// doubles as the Fetch→Decode pipeline register (spec section 4.K): its
// respPending flag is that register's valid bit, and a redirect clears it
// the same cycle, matching the flush contract described there.
//
// Grounded on the teacher's hardware/memory/bus request/response exchange:
// one outstanding request, an explicit "ignore the next response" flag for
// squash-in-flight, polled rather than callback-driven.
type fetchUnit struct {
	port      membus.Port
	predictor *predictor

	pc     uint32
	respPC uint32

	reqPending   bool
	respPending  bool
	dropResponse bool

	bufferedWord            uint32
	bufferedPredictedTaken  bool
	bufferedPredictedTarget uint32

	halted bool

	reqPredictedTaken  bool
	reqPredictedTarget uint32
}

func newFetchUnit(port membus.Port, pred *predictor, resetVector uint32) *fetchUnit {
	return &fetchUnit{port: port, predictor: pred, pc: resetVector}
}

// PC returns the address Fetch will request next, for diagnostics.
func (f *fetchUnit) PC() uint32 {
	return f.pc
}

// eval samples the buffered response without mutating any state, per the
// two-phase eval→commit schedule (spec section 5).
func (f *fetchUnit) eval() (out fetchOutput, valid bool) {
	if f.halted || !f.respPending {
		return fetchOutput{}, false
	}
	return fetchOutput{
		PC:              f.respPC,
		Word:            f.bufferedWord,
		PredictedTaken:  f.bufferedPredictedTaken,
		PredictedTarget: f.bufferedPredictedTarget,
	}, true
}

// commit advances Fetch by one cycle: applies the highest-priority pending
// redirect, retires the buffered response if Decode consumed it this
// cycle, drains an arriving memory response, and issues a new request when
// the single-entry pipe is empty.
func (f *fetchUnit) commit(exception, branch, debugSetPC redirect, consumedByDecode bool, debugHalt bool) {
	f.halted = debugHalt

	switch {
	case exception.Valid:
		f.redirectTo(exception.Target)
	case branch.Valid:
		f.redirectTo(branch.Target)
	case debugSetPC.Valid:
		f.redirectTo(debugSetPC.Target)
	}

	if consumedByDecode {
		f.respPending = false
	}

	if f.reqPending {
		if resp, ok := f.port.Poll(); ok {
			f.reqPending = false
			if !f.dropResponse && !f.halted {
				f.bufferedWord = wordFromResponse(resp)
				f.bufferedPredictedTaken = f.reqPredictedTaken
				f.bufferedPredictedTarget = f.reqPredictedTarget
				f.respPending = true
			}
			f.dropResponse = false
		}
	}

	if f.halted {
		return
	}

	if !f.reqPending && !f.respPending {
		req := membus.Request{Address: f.pc}
		if f.port.TryRequest(req) {
			f.respPC = f.pc
			f.reqPending = true

			taken, target := f.predictor.predict(f.pc)
			f.reqPredictedTaken = taken
			f.reqPredictedTarget = target
			if taken {
				f.pc = target
			} else {
				f.pc += 4
			}
		}
	}
}

// redirectTo flushes any in-flight request/response and restarts fetch at
// target (spec section 4.K: a redirect flush clears the buffer the same
// cycle it is asserted).
func (f *fetchUnit) redirectTo(target uint32) {
	if f.reqPending {
		f.dropResponse = true
	}
	f.respPending = false
	f.pc = target
}

func wordFromResponse(r membus.Response) uint32 {
	return uint32(r.Data[0]) | uint32(r.Data[1])<<8 | uint32(r.Data[2])<<16 | uint32(r.Data[3])<<24
}
