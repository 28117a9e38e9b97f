package emu

import (
	"math/bits"

	"github.com/sarchlab/svesim/insts"
)

// laneOp is a binary operation on two lane values. Inputs and output are
// lane-sized values held in the low bits of a uint64.
type laneOp func(a, b uint64, size insts.LaneSize) uint64

func (e *Emulator) executeZArith(inst *insts.Instruction) StepResult {
	op, ok := arithOps[inst.Op]
	if !ok {
		return e.unimplemented(inst)
	}

	z := e.zregFile
	lanes := z.Lanes(inst.Size)
	for i := 0; i < lanes; i++ {
		a := z.ReadLane(inst.Zn, i, inst.Size)
		b := z.ReadLane(inst.Zm, i, inst.Size)
		z.WriteLane(inst.Zd, i, inst.Size, op(a, b, inst.Size))
	}
	return StepResult{}
}

func (e *Emulator) executeZLogical(inst *insts.Instruction) StepResult {
	var op func(a, b byte) byte
	switch inst.Op {
	case insts.OpAND:
		op = func(a, b byte) byte { return a & b }
	case insts.OpORR:
		op = func(a, b byte) byte { return a | b }
	case insts.OpEOR:
		op = func(a, b byte) byte { return a ^ b }
	case insts.OpBIC:
		op = func(a, b byte) byte { return a &^ b }
	default:
		return e.unimplemented(inst)
	}

	z := e.zregFile
	dst := z.Bytes(inst.Zd)
	srcN := z.Bytes(inst.Zn)
	srcM := z.Bytes(inst.Zm)
	for i := range dst {
		dst[i] = op(srcN[i], srcM[i])
	}
	return StepResult{}
}

func (e *Emulator) executeZPred(inst *insts.Instruction) StepResult {
	op, ok := predArithOps[inst.Op]
	if !ok {
		return e.unimplemented(inst)
	}

	z := e.zregFile
	lanes := z.Lanes(inst.Size)
	for i := 0; i < lanes; i++ {
		// Merging form: inactive lanes keep the accumulator value, which
		// is already in Zd for the destructive encoding.
		if !e.pregFile.IsActive(inst.Pg, i, inst.Size) {
			continue
		}
		a := z.ReadLane(inst.Zd, i, inst.Size)
		b := z.ReadLane(inst.Zm, i, inst.Size)
		z.WriteLane(inst.Zd, i, inst.Size, op(a, b, inst.Size))
	}
	return StepResult{}
}

func (e *Emulator) executeZWideImm(inst *insts.Instruction) StepResult {
	imm := uint64(inst.Imm) << inst.Shift

	if inst.Op == insts.OpDUP {
		imm = uint64(inst.Imm<<inst.Shift) & sizeMask(inst.Size)
		z := e.zregFile
		lanes := z.Lanes(inst.Size)
		for i := 0; i < lanes; i++ {
			z.WriteLane(inst.Zd, i, inst.Size, imm)
		}
		return StepResult{}
	}

	var op laneOp
	switch inst.Op {
	case insts.OpADD:
		op = addWrap
	case insts.OpSUB:
		op = subWrap
	case insts.OpSUBR:
		op = func(a, b uint64, s insts.LaneSize) uint64 { return subWrap(b, a, s) }
	case insts.OpSQADD:
		op = addSatSignedImm
	case insts.OpUQADD:
		op = addSatUnsigned
	case insts.OpSQSUB:
		op = subSatSignedImm
	case insts.OpUQSUB:
		op = subSatUnsigned
	case insts.OpSMAX, insts.OpSMIN:
		imm = uint64(inst.Imm) & sizeMask(inst.Size)
		if inst.Op == insts.OpSMAX {
			op = smax
		} else {
			op = smin
		}
	case insts.OpUMAX:
		op = umax
	case insts.OpUMIN:
		op = umin
	case insts.OpMUL:
		imm = uint64(inst.Imm) & sizeMask(inst.Size)
		op = mulWrap
	default:
		return e.unimplemented(inst)
	}

	z := e.zregFile
	lanes := z.Lanes(inst.Size)
	for i := 0; i < lanes; i++ {
		a := z.ReadLane(inst.Zd, i, inst.Size)
		z.WriteLane(inst.Zd, i, inst.Size, op(a, imm, inst.Size))
	}
	return StepResult{}
}

var arithOps = map[insts.Op]laneOp{
	insts.OpADD:   addWrap,
	insts.OpSUB:   subWrap,
	insts.OpSQADD: addSatSigned,
	insts.OpUQADD: addSatUnsigned,
	insts.OpSQSUB: subSatSigned,
	insts.OpUQSUB: subSatUnsigned,
}

var predArithOps = map[insts.Op]laneOp{
	insts.OpADD:   addWrap,
	insts.OpSUB:   subWrap,
	insts.OpSUBR:  func(a, b uint64, s insts.LaneSize) uint64 { return subWrap(b, a, s) },
	insts.OpMUL:   mulWrap,
	insts.OpSMAX:  smax,
	insts.OpUMAX:  umax,
	insts.OpSMIN:  smin,
	insts.OpUMIN:  umin,
	insts.OpSMULH: smulh,
	insts.OpUMULH: umulh,
	insts.OpSDIV:  sdiv,
	insts.OpUDIV:  udiv,
	insts.OpORR:   func(a, b uint64, s insts.LaneSize) uint64 { return a | b },
	insts.OpEOR:   func(a, b uint64, s insts.LaneSize) uint64 { return a ^ b },
	insts.OpAND:   func(a, b uint64, s insts.LaneSize) uint64 { return a & b },
	insts.OpBIC:   func(a, b uint64, s insts.LaneSize) uint64 { return a &^ b },
}

func sizeMask(size insts.LaneSize) uint64 {
	if size == insts.LaneD {
		return ^uint64(0)
	}
	return 1<<uint(size.Bits()) - 1
}

// signExtend interprets the low size bits of v as a signed value.
func signExtend(v uint64, size insts.LaneSize) int64 {
	shift := 64 - uint(size.Bits())
	return int64(v<<shift) >> shift
}

func addWrap(a, b uint64, size insts.LaneSize) uint64 {
	return (a + b) & sizeMask(size)
}

func subWrap(a, b uint64, size insts.LaneSize) uint64 {
	return (a - b) & sizeMask(size)
}

func mulWrap(a, b uint64, size insts.LaneSize) uint64 {
	return (a * b) & sizeMask(size)
}

func addSatSigned(a, b uint64, size insts.LaneSize) uint64 {
	sa, sb := signExtend(a, size), signExtend(b, size)
	if size == insts.LaneD {
		sum := sa + sb
		if sa >= 0 && sb >= 0 && sum < 0 {
			return 1<<63 - 1
		}
		if sa < 0 && sb < 0 && sum >= 0 {
			return 1 << 63
		}
		return uint64(sum)
	}
	return clampSigned(sa+sb, size)
}

func subSatSigned(a, b uint64, size insts.LaneSize) uint64 {
	sa, sb := signExtend(a, size), signExtend(b, size)
	if size == insts.LaneD {
		diff := sa - sb
		if sa >= 0 && sb < 0 && diff < 0 {
			return 1<<63 - 1
		}
		if sa < 0 && sb >= 0 && diff >= 0 {
			return 1 << 63
		}
		return uint64(diff)
	}
	return clampSigned(sa-sb, size)
}

// clampSigned saturates v to the signed range of a lane narrower than 64
// bits and returns the truncated two's-complement pattern.
func clampSigned(v int64, size insts.LaneSize) uint64 {
	max := int64(1)<<(uint(size.Bits())-1) - 1
	min := -max - 1
	if v > max {
		v = max
	} else if v < min {
		v = min
	}
	return uint64(v) & sizeMask(size)
}

// addSatSignedImm saturates a signed lane plus an unsigned immediate.
// The immediate is never sign-extended, unlike the register form.
func addSatSignedImm(a, imm uint64, size insts.LaneSize) uint64 {
	sa := signExtend(a, size)
	if size == insts.LaneD {
		sum := sa + int64(imm)
		if sum < sa {
			return 1<<63 - 1
		}
		return uint64(sum)
	}
	return clampSigned(sa+int64(imm), size)
}

func subSatSignedImm(a, imm uint64, size insts.LaneSize) uint64 {
	sa := signExtend(a, size)
	if size == insts.LaneD {
		diff := sa - int64(imm)
		if diff > sa {
			return 1 << 63
		}
		return uint64(diff)
	}
	return clampSigned(sa-int64(imm), size)
}

func addSatUnsigned(a, b uint64, size insts.LaneSize) uint64 {
	if size == insts.LaneD {
		sum, carry := bits.Add64(a, b, 0)
		if carry != 0 {
			return ^uint64(0)
		}
		return sum
	}
	sum := a + b
	if sum > sizeMask(size) {
		return sizeMask(size)
	}
	return sum
}

func subSatUnsigned(a, b uint64, size insts.LaneSize) uint64 {
	if a < b {
		return 0
	}
	return a - b
}

func smax(a, b uint64, size insts.LaneSize) uint64 {
	if signExtend(a, size) >= signExtend(b, size) {
		return a
	}
	return b
}

func smin(a, b uint64, size insts.LaneSize) uint64 {
	if signExtend(a, size) <= signExtend(b, size) {
		return a
	}
	return b
}

func umax(a, b uint64, size insts.LaneSize) uint64 {
	if a >= b {
		return a
	}
	return b
}

func umin(a, b uint64, size insts.LaneSize) uint64 {
	if a <= b {
		return a
	}
	return b
}

func smulh(a, b uint64, size insts.LaneSize) uint64 {
	sa, sb := signExtend(a, size), signExtend(b, size)
	if size == insts.LaneD {
		hi, _ := bits.Mul64(uint64(sa), uint64(sb))
		// Correct the unsigned high half for negative operands.
		if sa < 0 {
			hi -= uint64(sb)
		}
		if sb < 0 {
			hi -= uint64(sa)
		}
		return hi
	}
	prod := sa * sb
	return uint64(prod>>uint(size.Bits())) & sizeMask(size)
}

func umulh(a, b uint64, size insts.LaneSize) uint64 {
	if size == insts.LaneD {
		hi, _ := bits.Mul64(a, b)
		return hi
	}
	return (a * b) >> uint(size.Bits()) & sizeMask(size)
}

// sdiv rounds toward zero. Division by zero yields zero; the most
// negative value divided by -1 wraps to itself.
func sdiv(a, b uint64, size insts.LaneSize) uint64 {
	sa, sb := signExtend(a, size), signExtend(b, size)
	if sb == 0 {
		return 0
	}
	min := int64(-1) << (uint(size.Bits()) - 1)
	if sa == min && sb == -1 {
		return uint64(min) & sizeMask(size)
	}
	return uint64(sa/sb) & sizeMask(size)
}

func udiv(a, b uint64, size insts.LaneSize) uint64 {
	if b == 0 {
		return 0
	}
	return a / b
}
