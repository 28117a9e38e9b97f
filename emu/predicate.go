package emu

import "github.com/sarchlab/svesim/insts"

func (e *Emulator) executePredicate(inst *insts.Instruction) StepResult {
	p := e.pregFile
	size := inst.Size
	lanes := p.vlBytes / size.Bytes()

	switch inst.Op {
	case insts.OpPTRUE, insts.OpPTRUES:
		count := inst.Pattern.LaneCount(lanes)
		for i := 0; i < lanes; i++ {
			p.SetLane(inst.Pd, i, size, i < count)
		}
		if inst.Op == insts.OpPTRUES {
			e.predTest(inst.Pd, inst.Pd, size)
		}

	case insts.OpPFALSE:
		p.Clear(inst.Pd)

	case insts.OpPTEST:
		e.predTest(inst.Pg, inst.Pn, insts.LaneB)

	case insts.OpPFIRST:
		// Sets the lowest active lane of pg in pdn; everything else is
		// left alone. With no active lane pdn is unchanged.
		if first := p.FirstActive(inst.Pg, size); first >= 0 {
			p.SetBit(inst.Pd, first*size.Bytes(), true)
		}
		e.predTest(inst.Pg, inst.Pd, size)

	case insts.OpPNEXT:
		// Advances pdn to the next active lane of pg past its current
		// (single) lane, or to all-false when none remain.
		next := p.LastActive(inst.Pd, size) + 1
		p.Clear(inst.Pd)
		for i := next; i < lanes; i++ {
			if p.IsActive(inst.Pg, i, size) {
				p.SetLane(inst.Pd, i, size, true)
				break
			}
		}
		e.predTest(inst.Pg, inst.Pd, size)

	case insts.OpCNTP:
		var n uint64
		for i := 0; i < lanes; i++ {
			if p.IsActive(inst.Pg, i, size) && p.IsActive(inst.Pn, i, size) {
				n++
			}
		}
		e.regFile.WriteReg(inst.Rd, n)

	case insts.OpINCP:
		n := uint64(p.CountActive(inst.Pm, size))
		e.regFile.WriteReg(inst.Rd, e.regFile.ReadReg(inst.Rd)+n)

	case insts.OpDECP:
		n := uint64(p.CountActive(inst.Pm, size))
		e.regFile.WriteReg(inst.Rd, e.regFile.ReadReg(inst.Rd)-n)

	case insts.OpSQINCP, insts.OpUQINCP, insts.OpSQDECP, insts.OpUQDECP:
		e.executeSatCntp(inst)

	default:
		return e.unimplemented(inst)
	}
	return StepResult{}
}

// executeSatCntp handles the saturating predicate-count accumulators. The
// 32-bit forms compute and saturate at 32 bits, then extend the result to
// the full register: sign-extend for the signed ops, zero-extend for the
// unsigned ones.
func (e *Emulator) executeSatCntp(inst *insts.Instruction) {
	n := int64(e.pregFile.CountActive(inst.Pm, inst.Size))
	if inst.Op == insts.OpSQDECP || inst.Op == insts.OpUQDECP {
		n = -n
	}
	signed := inst.Op == insts.OpSQINCP || inst.Op == insts.OpSQDECP

	old := e.regFile.ReadReg(inst.Rd)
	var result uint64

	switch {
	case inst.Is64Bit && signed:
		v := int64(old) + n
		if n > 0 && v < int64(old) {
			v = 1<<63 - 1
		} else if n < 0 && v > int64(old) {
			v = -1 << 63
		}
		result = uint64(v)

	case inst.Is64Bit:
		if n >= 0 {
			v := old + uint64(n)
			if v < old {
				v = ^uint64(0)
			}
			result = v
		} else {
			d := uint64(-n)
			if old < d {
				result = 0
			} else {
				result = old - d
			}
		}

	case signed:
		v := int64(int32(old)) + n
		if v > 1<<31-1 {
			v = 1<<31 - 1
		} else if v < -1<<31 {
			v = -1 << 31
		}
		result = uint64(v)

	default:
		v := int64(uint32(old)) + n
		if v > 1<<32-1 {
			v = 1<<32 - 1
		} else if v < 0 {
			v = 0
		}
		result = uint64(uint32(v))
	}

	e.regFile.WriteReg(inst.Rd, result)
}

func (e *Emulator) executePredLogical(inst *insts.Instruction) StepResult {
	p := e.pregFile
	for i := 0; i < p.NumBits(); i++ {
		g := p.Bit(inst.Pg, i)
		n := p.Bit(inst.Pn, i)
		m := p.Bit(inst.Pm, i)

		var v bool
		switch inst.Op {
		case insts.OpAND:
			v = g && n && m
		case insts.OpORR:
			v = g && (n || m)
		case insts.OpEOR:
			v = g && (n != m)
		case insts.OpSEL:
			if g {
				v = n
			} else {
				v = m
			}
		default:
			return e.unimplemented(inst)
		}
		p.SetBit(inst.Pd, i, v)
	}
	return StepResult{}
}

// executeCterm updates N and V only. When the termination condition holds
// it sets N and clears V; otherwise it clears N and sets V to the inverse
// of C. Z and C are preserved.
func (e *Emulator) executeCterm(inst *insts.Instruction) StepResult {
	a := e.regFile.ReadReg(inst.Rn)
	b := e.regFile.ReadReg(inst.Rm)
	if !inst.Is64Bit {
		a = uint64(uint32(a))
		b = uint64(uint32(b))
	}

	hold := a == b
	if inst.Op == insts.OpCTERMNE {
		hold = !hold
	}

	ps := &e.regFile.PSTATE
	if hold {
		ps.N = true
		ps.V = false
	} else {
		ps.N = false
		ps.V = !ps.C
	}
	return StepResult{}
}
