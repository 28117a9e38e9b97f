package emu

import "github.com/sarchlab/svesim/insts"

// predTest computes the First/None/NotLast flags for a generated
// predicate pd under governing predicate pg. Every predicate-generating
// instruction funnels through here so the flag rules live in one place.
//
//	First (N):   pd is active at pg's lowest active lane
//	None (Z):    no lane is active in both pg and pd
//	NotLast (C): pg has no active lane, or pd is inactive at pg's
//	             highest active lane
//
// V is always cleared.
func (e *Emulator) predTest(pg, pd uint8, size insts.LaneSize) {
	p := e.pregFile
	ps := &e.regFile.PSTATE

	first := false
	none := true
	notLast := true

	lanes := p.vlBytes / size.Bytes()
	lowest, highest := -1, -1
	for i := 0; i < lanes; i++ {
		if !p.IsActive(pg, i, size) {
			continue
		}
		if lowest < 0 {
			lowest = i
		}
		highest = i
		if p.IsActive(pd, i, size) {
			none = false
		}
	}
	if lowest >= 0 {
		first = p.IsActive(pd, lowest, size)
		notLast = !p.IsActive(pd, highest, size)
	}

	ps.N = first
	ps.Z = none
	ps.C = notLast
	ps.V = false
}
