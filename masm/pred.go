package masm

import "github.com/sarchlab/svesim/insts"

// MovP copies predicate pn into pd.
func (m *MacroAssembler) MovP(pd, pn uint8) error {
	return m.emitAll([]insts.Instruction{movP(pd, pn)})
}

// The architectural predicate move is an orr governed by the source
// itself.
func movP(pd, pn uint8) insts.Instruction {
	return insts.Instruction{
		Op: insts.OpORR, Format: insts.FormatPredLogical,
		Pd: pd, Pn: pn, Pm: pn, Pg: pn, Size: insts.LaneB,
	}
}

// Pfirst computes pd = pfirst(pn, pg): pn with the lowest active lane
// of pg set. The hardware form is destructive, so distinct registers
// get a move first, and a pd that aliases the mask goes through a
// scratch predicate. Flags reflect the final value under pg on every
// path.
func (m *MacroAssembler) Pfirst(pd, pg, pn uint8) error {
	return m.destructivePred(insts.OpPFIRST, pd, pg, pn, insts.LaneB)
}

// Pnext computes pd = pnext(pn, pg) at the given lane size, with the
// same aliasing treatment as Pfirst.
func (m *MacroAssembler) Pnext(pd, pg, pn uint8, size insts.LaneSize) error {
	return m.destructivePred(insts.OpPNEXT, pd, pg, pn, size)
}

func predOp(op insts.Op, pd, pg uint8, size insts.LaneSize) insts.Instruction {
	return insts.Instruction{
		Op: op, Format: insts.FormatPredicate,
		Pd: pd, Pg: pg, Size: size,
	}
}

func (m *MacroAssembler) destructivePred(
	op insts.Op,
	pd, pg, pn uint8,
	size insts.LaneSize,
) error {
	switch {
	case pd == pn:
		return m.emitAll([]insts.Instruction{predOp(op, pd, pg, size)})

	case pd != pg:
		return m.emitAll([]insts.Instruction{
			movP(pd, pn),
			predOp(op, pd, pg, size),
		})

	default:
		// pd aliases the mask: work in a scratch predicate, then move
		// the result over. The move leaves the flags from the
		// predicate-generating op intact.
		scope := m.Scope()
		defer scope.Close()
		pt, err := scope.AcquireP()
		if err != nil {
			return err
		}
		return m.emitAll([]insts.Instruction{
			movP(pt, pn),
			predOp(op, pt, pg, size),
			movP(pd, pt),
		})
	}
}
