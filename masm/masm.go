// Package masm provides a macro assembler on top of the instruction
// encoder. It picks among equivalent encodings based on register
// aliasing and immediate encodability, so callers state intent
// ("zd = zn + zm under pg") without caring which form carries it.
package masm

import (
	"encoding/binary"
	"fmt"

	"github.com/sarchlab/svesim/insts"
)

// MacroAssembler accumulates encoded instructions. Macros either append
// a value-correct sequence or append nothing and return an error.
type MacroAssembler struct {
	enc     *insts.Encoder
	program []uint32

	zPool *regPool
	pPool *regPool
	xPool *regPool
}

// Option configures a MacroAssembler.
type Option func(*MacroAssembler)

// WithZScratch overrides the vector scratch registers available to
// macros. Callers must not use these registers themselves.
func WithZScratch(regs ...uint8) Option {
	return func(m *MacroAssembler) {
		m.zPool = newRegPool("z", regs)
	}
}

// WithPScratch overrides the predicate scratch registers available to
// macros.
func WithPScratch(regs ...uint8) Option {
	return func(m *MacroAssembler) {
		m.pPool = newRegPool("p", regs)
	}
}

// WithXScratch overrides the scalar scratch registers available to
// macros.
func WithXScratch(regs ...uint8) Option {
	return func(m *MacroAssembler) {
		m.xPool = newRegPool("x", regs)
	}
}

// NewMacroAssembler creates a macro assembler. By default z30, z31,
// p14, p15, x16, and x17 are reserved as scratch.
func NewMacroAssembler(opts ...Option) *MacroAssembler {
	m := &MacroAssembler{
		enc:   insts.NewEncoder(),
		zPool: newRegPool("z", []uint8{30, 31}),
		pPool: newRegPool("p", []uint8{14, 15}),
		xPool: newRegPool("x", []uint8{16, 17}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Program returns the encoded words emitted so far.
func (m *MacroAssembler) Program() []uint32 {
	return m.program
}

// Bytes returns the program as little-endian bytes, ready for loading.
func (m *MacroAssembler) Bytes() []byte {
	buf := make([]byte, 0, 4*len(m.program))
	for _, w := range m.program {
		buf = binary.LittleEndian.AppendUint32(buf, w)
	}
	return buf
}

// Len returns the number of instructions emitted.
func (m *MacroAssembler) Len() int {
	return len(m.program)
}

// Reset discards the emitted program. Scratch pools keep their
// configuration.
func (m *MacroAssembler) Reset() {
	m.program = m.program[:0]
}

// Emit encodes a single instruction and appends it.
func (m *MacroAssembler) Emit(inst *insts.Instruction) error {
	word, err := m.enc.Encode(inst)
	if err != nil {
		return err
	}
	m.program = append(m.program, word)
	return nil
}

// emitAll appends a sequence atomically: on any failure nothing is
// appended.
func (m *MacroAssembler) emitAll(seq []insts.Instruction) error {
	mark := len(m.program)
	for i := range seq {
		if err := m.Emit(&seq[i]); err != nil {
			m.program = m.program[:mark]
			return err
		}
	}
	return nil
}

// Binary predicated macros. All of them compute
//
//	zd = merge(pg, zd, zn <op> zm)
//
// regardless of how zd aliases the sources.

func (m *MacroAssembler) Add(zd, pg, zn, zm uint8, size insts.LaneSize) error {
	return m.binaryPred(insts.OpADD, zd, pg, zn, zm, size, commutative)
}

func (m *MacroAssembler) Sub(zd, pg, zn, zm uint8, size insts.LaneSize) error {
	return m.binaryPred(insts.OpSUB, zd, pg, zn, zm, size, hasReverse)
}

func (m *MacroAssembler) Mul(zd, pg, zn, zm uint8, size insts.LaneSize) error {
	return m.binaryPred(insts.OpMUL, zd, pg, zn, zm, size, commutative)
}

func (m *MacroAssembler) Smax(zd, pg, zn, zm uint8, size insts.LaneSize) error {
	return m.binaryPred(insts.OpSMAX, zd, pg, zn, zm, size, commutative)
}

func (m *MacroAssembler) Umax(zd, pg, zn, zm uint8, size insts.LaneSize) error {
	return m.binaryPred(insts.OpUMAX, zd, pg, zn, zm, size, commutative)
}

func (m *MacroAssembler) Smin(zd, pg, zn, zm uint8, size insts.LaneSize) error {
	return m.binaryPred(insts.OpSMIN, zd, pg, zn, zm, size, commutative)
}

func (m *MacroAssembler) Umin(zd, pg, zn, zm uint8, size insts.LaneSize) error {
	return m.binaryPred(insts.OpUMIN, zd, pg, zn, zm, size, commutative)
}

func (m *MacroAssembler) Sdiv(zd, pg, zn, zm uint8, size insts.LaneSize) error {
	return m.binaryPred(insts.OpSDIV, zd, pg, zn, zm, size, plain)
}

func (m *MacroAssembler) Udiv(zd, pg, zn, zm uint8, size insts.LaneSize) error {
	return m.binaryPred(insts.OpUDIV, zd, pg, zn, zm, size, plain)
}

func (m *MacroAssembler) And(zd, pg, zn, zm uint8, size insts.LaneSize) error {
	return m.binaryPred(insts.OpAND, zd, pg, zn, zm, size, commutative)
}

func (m *MacroAssembler) Orr(zd, pg, zn, zm uint8, size insts.LaneSize) error {
	return m.binaryPred(insts.OpORR, zd, pg, zn, zm, size, commutative)
}

func (m *MacroAssembler) Eor(zd, pg, zn, zm uint8, size insts.LaneSize) error {
	return m.binaryPred(insts.OpEOR, zd, pg, zn, zm, size, commutative)
}

func (m *MacroAssembler) Bic(zd, pg, zn, zm uint8, size insts.LaneSize) error {
	return m.binaryPred(insts.OpBIC, zd, pg, zn, zm, size, plain)
}

type opTrait uint8

const (
	plain opTrait = iota
	commutative
	hasReverse
)

func destructive(op insts.Op, zd, pg, zm uint8, size insts.LaneSize) insts.Instruction {
	return insts.Instruction{
		Op: op, Format: insts.FormatZPred,
		Zd: zd, Zn: zd, Zm: zm, Pg: pg,
		Size: size, Predicated: true, Merging: true,
	}
}

func movprfxMerge(zd, pg, zn uint8, size insts.LaneSize) insts.Instruction {
	return insts.Instruction{
		Op: insts.OpMOVPRFX, Format: insts.FormatZPermute,
		Zd: zd, Zn: zn, Pg: pg,
		Size: size, Predicated: true, Merging: true,
	}
}

func movZ(zd, zn uint8) insts.Instruction {
	return insts.Instruction{
		Op: insts.OpMOVPRFX, Format: insts.FormatZPermute,
		Zd: zd, Zn: zn, Size: insts.LaneD,
	}
}

// binaryPred selects the cheapest correct form for a merging predicated
// binary operation:
//
//	zd == zn             destructive form directly
//	zd == zm, commutative   swapped destructive form
//	zd == zm, reverse    reverse form (subr)
//	zd == zm otherwise   save zm to scratch, prefix, destructive
//	no alias             movprfx prefix, destructive form
func (m *MacroAssembler) binaryPred(
	op insts.Op,
	zd, pg, zn, zm uint8,
	size insts.LaneSize,
	trait opTrait,
) error {
	switch {
	case zd == zn:
		return m.emitAll([]insts.Instruction{
			destructive(op, zd, pg, zm, size),
		})

	case zd == zm && trait == commutative:
		return m.emitAll([]insts.Instruction{
			destructive(op, zd, pg, zn, size),
		})

	case zd == zm && trait == hasReverse:
		return m.emitAll([]insts.Instruction{
			destructive(reverseOf(op), zd, pg, zn, size),
		})

	case zd == zm:
		scope := m.Scope()
		defer scope.Close()
		zt, err := scope.AcquireZ()
		if err != nil {
			return err
		}
		return m.emitAll([]insts.Instruction{
			movZ(zt, zm),
			movprfxMerge(zd, pg, zn, size),
			destructive(op, zd, pg, zt, size),
		})

	default:
		return m.emitAll([]insts.Instruction{
			movprfxMerge(zd, pg, zn, size),
			destructive(op, zd, pg, zm, size),
		})
	}
}

func reverseOf(op insts.Op) insts.Op {
	if op == insts.OpSUB {
		return insts.OpSUBR
	}
	panic(fmt.Sprintf("no reverse form for %v", op))
}
