package emu

import "github.com/sarchlab/svesim/insts"

func (e *Emulator) executeZReduce(inst *insts.Instruction) StepResult {
	z := e.zregFile
	p := e.pregFile
	size := inst.Size
	lanes := z.Lanes(size)

	// The scalar result lands in lane 0 of the destination vector and the
	// bytes above it are cleared. The wide adds produce a doubleword;
	// every other reduction produces a lane-sized value.
	resultSize := size
	var acc uint64

	switch inst.Op {
	case insts.OpSADDV, insts.OpUADDV:
		resultSize = insts.LaneD
		for i := 0; i < lanes; i++ {
			if !p.IsActive(inst.Pg, i, size) {
				continue
			}
			if inst.Op == insts.OpSADDV {
				acc += uint64(z.ReadLaneSigned(inst.Zn, i, size))
			} else {
				acc += z.ReadLane(inst.Zn, i, size)
			}
		}

	case insts.OpANDV:
		acc = sizeMask(size)
		for i := 0; i < lanes; i++ {
			if p.IsActive(inst.Pg, i, size) {
				acc &= z.ReadLane(inst.Zn, i, size)
			}
		}

	case insts.OpORV:
		for i := 0; i < lanes; i++ {
			if p.IsActive(inst.Pg, i, size) {
				acc |= z.ReadLane(inst.Zn, i, size)
			}
		}

	case insts.OpEORV:
		for i := 0; i < lanes; i++ {
			if p.IsActive(inst.Pg, i, size) {
				acc ^= z.ReadLane(inst.Zn, i, size)
			}
		}

	case insts.OpSMAXV:
		best := int64(-1) << (uint(size.Bits()) - 1)
		for i := 0; i < lanes; i++ {
			if p.IsActive(inst.Pg, i, size) {
				if v := z.ReadLaneSigned(inst.Zn, i, size); v > best {
					best = v
				}
			}
		}
		acc = uint64(best) & sizeMask(size)

	case insts.OpSMINV:
		best := int64(1)<<(uint(size.Bits())-1) - 1
		for i := 0; i < lanes; i++ {
			if p.IsActive(inst.Pg, i, size) {
				if v := z.ReadLaneSigned(inst.Zn, i, size); v < best {
					best = v
				}
			}
		}
		acc = uint64(best) & sizeMask(size)

	case insts.OpUMAXV:
		for i := 0; i < lanes; i++ {
			if p.IsActive(inst.Pg, i, size) {
				if v := z.ReadLane(inst.Zn, i, size); v > acc {
					acc = v
				}
			}
		}

	case insts.OpUMINV:
		acc = sizeMask(size)
		for i := 0; i < lanes; i++ {
			if p.IsActive(inst.Pg, i, size) {
				if v := z.ReadLane(inst.Zn, i, size); v < acc {
					acc = v
				}
			}
		}

	default:
		return e.unimplemented(inst)
	}

	z.WriteScalar(inst.Rd, resultSize, acc)
	return StepResult{}
}
