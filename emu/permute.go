package emu

import "github.com/sarchlab/svesim/insts"

func (e *Emulator) executeZPermute(inst *insts.Instruction) StepResult {
	z := e.zregFile
	size := inst.Size
	lanes := z.Lanes(size)

	switch inst.Op {
	case insts.OpTBL:
		// Each index selects a lane of Zn; out-of-range indices produce
		// zero. A temporary guards against Zd aliasing a source.
		result := make([]uint64, lanes)
		for i := 0; i < lanes; i++ {
			idx := z.ReadLane(inst.Zm, i, size)
			if idx < uint64(lanes) {
				result[i] = z.ReadLane(inst.Zn, int(idx), size)
			}
		}
		for i, v := range result {
			z.WriteLane(inst.Zd, i, size, v)
		}

	case insts.OpINSR:
		// Shift every lane up by one and insert the scalar at lane 0.
		// The top lane falls off.
		for i := lanes - 1; i > 0; i-- {
			z.WriteLane(inst.Zd, i, size, z.ReadLane(inst.Zd, i-1, size))
		}
		z.WriteLane(inst.Zd, 0, size, e.regFile.ReadReg(inst.Rn))

	case insts.OpINDEX:
		start := uint64(inst.Imm)
		step := uint64(inst.Imm2)
		for i := 0; i < lanes; i++ {
			z.WriteLane(inst.Zd, i, size, start+uint64(i)*step)
		}

	case insts.OpDUP:
		v := e.regFile.ReadReg(inst.Rn)
		for i := 0; i < lanes; i++ {
			z.WriteLane(inst.Zd, i, size, v)
		}

	case insts.OpSEL:
		for i := 0; i < lanes; i++ {
			src := inst.Zm
			if e.pregFile.IsActive(inst.Pg, i, size) {
				src = inst.Zn
			}
			z.WriteLane(inst.Zd, i, size, z.ReadLane(src, i, size))
		}

	case insts.OpCPY:
		v := e.regFile.ReadReg(inst.Rn)
		for i := 0; i < lanes; i++ {
			if e.pregFile.IsActive(inst.Pg, i, size) {
				z.WriteLane(inst.Zd, i, size, v)
			}
		}

	case insts.OpMOVPRFX:
		if !inst.Predicated {
			z.Copy(inst.Zd, inst.Zn)
			break
		}
		for i := 0; i < lanes; i++ {
			if e.pregFile.IsActive(inst.Pg, i, size) {
				z.WriteLane(inst.Zd, i, size, z.ReadLane(inst.Zn, i, size))
			} else if !inst.Merging {
				z.WriteLane(inst.Zd, i, size, 0)
			}
		}

	default:
		return e.unimplemented(inst)
	}
	return StepResult{}
}
