package core

import "github.com/hdl2go/rv32pipe/isa"

// hazardUnit implements spec section 4.J: it decides whether the microop
// currently sitting in Decode must stall rather than proceed into Execute.
// It is a pure function of the snapshot each stage broadcasts this cycle;
// it holds no state of its own (grounded on the teacher's
// debugger/breakpoints.go, which is likewise a stateless membership test
// over a small, explicit set).
type hazardUnit struct{}

// decodeHazardInput carries the fields of the microop sitting in Decode
// that the hazard unit needs.
type decodeHazardInput struct {
	Rs1     uint8
	Rs2     uint8
	UsesRs1 bool
	UsesRs2 bool
	CsrAddr uint16
	IsCsrOp bool
}

// stall reports whether decode must hold its microop rather than advance,
// per spec section 4.J: RAW on a downstream producer's destination
// register, a same-CSR hazard against a downstream CSR write, or an
// asserted watchpoint.
func (hazardUnit) stall(d decodeHazardInput, execute, memory, writeback isa.HazardInfo, executeCsr, memoryCsr, writebackCsr isa.CsrHazardInfo, watchpointHit bool) bool {
	if watchpointHit {
		return true
	}

	producers := [...]isa.HazardInfo{execute, memory, writeback}
	for _, p := range producers {
		if !p.RegWrite || p.Rd == 0 {
			continue
		}
		// UsesRs1/UsesRs2 gate the comparison: LUI/AUIPC/JAL carry a
		// populated but meaningless Rs1 field (decode never sets
		// UsesRs1 for them), and stalling on it would be spurious.
		if d.UsesRs1 && p.Rd == d.Rs1 {
			return true
		}
		if d.UsesRs2 && p.Rd == d.Rs2 {
			return true
		}
	}

	if !d.IsCsrOp {
		return false
	}
	csrWriters := [...]isa.CsrHazardInfo{executeCsr, memoryCsr, writebackCsr}
	for _, c := range csrWriters {
		if c.IsWrite && c.CsrAddr == d.CsrAddr {
			return true
		}
	}
	return false
}
