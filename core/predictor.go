package core

import "github.com/hdl2go/rv32pipe/config"

// predictor implements spec section 4.L: the static not-taken contract by
// default, with an optional 2-bit saturating-counter BHT plus a
// direct-mapped BTB selectable via config.PredictorMode.
type predictor struct {
	mode    config.PredictorMode
	entries []bhtEntry
}

type bhtEntry struct {
	valid   bool
	counter uint8 // 2-bit saturating counter, 0..3; >=2 predicts taken
	target  uint32
}

func newPredictor(cfg config.Config) *predictor {
	p := &predictor{mode: cfg.Predictor}
	if p.mode == config.PredictorBTB {
		n := cfg.BTBEntries
		if n <= 0 {
			n = 64
		}
		p.entries = make([]bhtEntry, n)
	}
	return p
}

// predict returns whether pc is predicted taken, and to what target. Static
// mode always predicts not-taken, matching the "contract" default in spec
// section 4.L.
func (p *predictor) predict(pc uint32) (taken bool, target uint32) {
	if p.mode != config.PredictorBTB {
		return false, 0
	}
	e := &p.entries[p.index(pc)]
	if !e.valid || e.counter < 2 {
		return false, 0
	}
	return true, e.target
}

// update trains the predictor with the actual outcome of the branch at pc
// (spec section 4.L: "On Execute, update the indexed entry with the actual
// outcome and target").
func (p *predictor) update(pc uint32, taken bool, target uint32) {
	if p.mode != config.PredictorBTB {
		return
	}
	e := &p.entries[p.index(pc)]
	e.valid = true
	e.target = target
	if taken {
		if e.counter < 3 {
			e.counter++
		}
	} else if e.counter > 0 {
		e.counter--
	}
}

func (p *predictor) index(pc uint32) uint32 {
	return (pc >> 2) % uint32(len(p.entries))
}
