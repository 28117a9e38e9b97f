package masm

import (
	"fmt"

	"github.com/sarchlab/svesim/insts"
)

// AddImm computes zd = zn + imm in every lane. It tries the immediate
// form at shift 0, then at shift 8, then materializes the immediate
// into a scratch register and uses the register form. The observable
// result is the same on every path.
func (m *MacroAssembler) AddImm(zd, zn uint8, imm int64, size insts.LaneSize) error {
	return m.arithImm(insts.OpADD, insts.OpSUB, zd, zn, imm, size)
}

// SubImm computes zd = zn - imm in every lane, with the same fallback
// chain as AddImm.
func (m *MacroAssembler) SubImm(zd, zn uint8, imm int64, size insts.LaneSize) error {
	return m.arithImm(insts.OpSUB, insts.OpADD, zd, zn, imm, size)
}

func immOp(op insts.Op, zd uint8, imm int64, shift uint8, size insts.LaneSize) insts.Instruction {
	return insts.Instruction{
		Op: op, Format: insts.FormatZWideImm,
		Zd: zd, Imm: imm, Shift: shift, Size: size,
	}
}

func (m *MacroAssembler) arithImm(
	op, negOp insts.Op,
	zd, zn uint8,
	imm int64,
	size insts.LaneSize,
) error {
	var prefix []insts.Instruction
	if zd != zn {
		prefix = []insts.Instruction{movZ(zd, zn)}
	}

	// Only the lane-width view of the immediate matters.
	imm = truncImm(imm, size)

	// A negative immediate becomes the opposite operation on its
	// magnitude.
	if imm < 0 {
		op = negOp
		imm = -imm
	}

	candidates := [][]insts.Instruction{
		append(prefix[:len(prefix):len(prefix)], immOp(op, zd, imm, 0, size)),
		append(prefix[:len(prefix):len(prefix)], immOp(op, zd, imm>>8, 8, size)),
	}
	if imm&0xFF != 0 {
		candidates = candidates[:1]
	}

	for _, seq := range candidates {
		if err := m.emitAll(seq); err == nil {
			return nil
		}
	}

	// Register-form fallback through a scratch vector.
	scope := m.Scope()
	defer scope.Close()
	zt, err := scope.AcquireZ()
	if err != nil {
		return err
	}

	mark := len(m.program)
	if err := m.DupImm(zt, imm, size); err != nil {
		return err
	}
	arith := insts.Instruction{
		Op: op, Format: insts.FormatZArith,
		Zd: zd, Zn: zn, Zm: zt, Size: size,
	}
	if err := m.Emit(&arith); err != nil {
		m.program = m.program[:mark]
		return err
	}
	return nil
}

// DupImm broadcasts an immediate to every lane of zd. Immediates beyond
// the direct dup encodings are synthesized as a shifted dup plus an
// add, or moved into a scalar scratch register and broadcast from
// there.
func (m *MacroAssembler) DupImm(zd uint8, imm int64, size insts.LaneSize) error {
	imm = truncImm(imm, size)

	if err := m.emitAll([]insts.Instruction{
		immOp(insts.OpDUP, zd, imm, 0, size),
	}); err == nil {
		return nil
	}

	if imm&0xFF == 0 {
		if err := m.emitAll([]insts.Instruction{
			immOp(insts.OpDUP, zd, imm>>8, 8, size),
		}); err == nil {
			return nil
		}
	}

	lo := imm & 0xFF
	hi := (imm - lo) >> 8
	if err := m.emitAll([]insts.Instruction{
		immOp(insts.OpDUP, zd, hi, 8, size),
		immOp(insts.OpADD, zd, lo, 0, size),
	}); err == nil {
		return nil
	}

	scope := m.Scope()
	defer scope.Close()
	xt, err := scope.AcquireX()
	if err != nil {
		return fmt.Errorf("cannot materialize immediate %d at size %v: %w",
			imm, size, err)
	}
	seq := append(moveWideSeq(xt, imm, size), insts.Instruction{
		Op: insts.OpDUP, Format: insts.FormatZPermute,
		Zd: zd, Rn: xt, Size: size,
	})
	if err := m.emitAll(seq); err != nil {
		return fmt.Errorf("cannot materialize immediate %d at size %v: %w",
			imm, size, err)
	}
	return nil
}

// moveWideSeq builds xt = imm with movz plus movk per nonzero 16-bit
// chunk. Only the lane-width view of imm matters to the callers, so
// chunks above it are skipped.
func moveWideSeq(xt uint8, imm int64, size insts.LaneSize) []insts.Instruction {
	v := uint64(imm)
	chunks := size.Bytes() / 2
	if chunks == 0 {
		chunks = 1
	}
	seq := []insts.Instruction{{
		Op: insts.OpMOVZ, Format: insts.FormatMoveWide,
		Rd: xt, Imm: int64(v & 0xFFFF), Is64Bit: true,
	}}
	for c := 1; c < chunks; c++ {
		chunk := (v >> (16 * uint(c))) & 0xFFFF
		if chunk == 0 {
			continue
		}
		seq = append(seq, insts.Instruction{
			Op: insts.OpMOVK, Format: insts.FormatMoveWide,
			Rd: xt, Imm: int64(chunk), Shift: uint8(16 * c), Is64Bit: true,
		})
	}
	return seq
}

// truncImm reduces imm to its signed lane-width view.
func truncImm(imm int64, size insts.LaneSize) int64 {
	if size == insts.LaneD {
		return imm
	}
	shift := 64 - uint(size.Bits())
	return imm << shift >> shift
}
