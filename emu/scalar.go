package emu

import (
	"math/bits"

	"github.com/sarchlab/svesim/insts"
)

func (e *Emulator) executeDPImm(inst *insts.Instruction) StepResult {
	rf := e.regFile
	a := rf.ReadReg(inst.Rn)
	imm := uint64(inst.Imm) << inst.Shift

	op2 := imm
	carryIn := uint64(0)
	if inst.Op == insts.OpSUB {
		op2 = ^imm
		carryIn = 1
	}

	if inst.Is64Bit {
		result, c1 := bits.Add64(a, op2, carryIn)
		if inst.SetFlags {
			rf.PSTATE.N = int64(result) < 0
			rf.PSTATE.Z = result == 0
			rf.PSTATE.C = c1 != 0
			rf.PSTATE.V = (a^op2^1<<63)&(a^result)>>63 != 0
		}
		rf.WriteReg(inst.Rd, result)
		return StepResult{}
	}

	a32 := uint32(a)
	op232 := uint32(op2)
	result, c1 := bits.Add32(a32, op232, uint32(carryIn))
	if inst.SetFlags {
		rf.PSTATE.N = int32(result) < 0
		rf.PSTATE.Z = result == 0
		rf.PSTATE.C = c1 != 0
		rf.PSTATE.V = (a32^op232^1<<31)&(a32^result)>>31 != 0
	}
	rf.WriteReg32(inst.Rd, result)
	return StepResult{}
}

func (e *Emulator) executeMoveWide(inst *insts.Instruction) StepResult {
	rf := e.regFile
	imm := uint64(inst.Imm) << inst.Shift

	var v uint64
	switch inst.Op {
	case insts.OpMOVZ:
		v = imm
	case insts.OpMOVN:
		v = ^imm
	case insts.OpMOVK:
		mask := uint64(0xFFFF) << inst.Shift
		v = rf.ReadReg(inst.Rd)&^mask | imm
	default:
		return e.unimplemented(inst)
	}

	if inst.Is64Bit {
		rf.WriteReg(inst.Rd, v)
	} else {
		rf.WriteReg32(inst.Rd, uint32(v))
	}
	return StepResult{}
}

func (e *Emulator) executeVLoad(inst *insts.Instruction) StepResult {
	addr := e.regFile.ReadReg(inst.Rn) + uint64(inst.Imm)

	var v uint64
	switch inst.Size {
	case insts.LaneB:
		v = uint64(e.memory.Read8(addr))
	case insts.LaneH:
		v = uint64(e.memory.Read16(addr))
	case insts.LaneS:
		v = uint64(e.memory.Read32(addr))
	case insts.LaneQ:
		e.zregFile.WriteQuad(inst.Rd, e.memory.Read64(addr), e.memory.Read64(addr+8))
		return StepResult{}
	default:
		v = e.memory.Read64(addr)
	}

	e.zregFile.WriteScalar(inst.Rd, inst.Size, v)
	return StepResult{}
}

func (e *Emulator) executeSystem(inst *insts.Instruction) StepResult {
	rf := e.regFile
	switch inst.Op {
	case insts.OpNOP:
	case insts.OpHLT:
		return StepResult{Exited: true, ExitCode: inst.Imm}
	case insts.OpMSR:
		rf.PSTATE.SetBits(rf.ReadReg(inst.Rn))
	case insts.OpMRS:
		rf.WriteReg(inst.Rd, rf.PSTATE.Bits())
	case insts.OpRDVL:
		rf.WriteReg(inst.Rd, uint64(int64(e.zregFile.VLBytes())*inst.Imm))
	default:
		return e.unimplemented(inst)
	}
	return StepResult{}
}
