package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/svesim/emu"
	"github.com/sarchlab/svesim/insts"
)

var _ = Describe("Predicate instructions", func() {
	var (
		e *emu.Emulator
		p *emu.PRegFile
	)

	BeforeEach(func() {
		e = emu.NewEmulator()
		p = e.PRegFile()
	})

	run := func(prog ...insts.Instruction) {
		e.LoadProgram(0, assemble(prog...))
		result := e.Run()
		ExpectWithOffset(1, result.Err).ToNot(HaveOccurred())
	}

	Context("with ptrue", func() {
		It("should activate every lane for the all pattern", func() {
			run(insts.Instruction{
				Op: insts.OpPTRUE, Format: insts.FormatPredicate,
				Pd: 0, Pattern: insts.PatternALL, Size: insts.LaneS,
			})
			Expect(p.CountActive(0, insts.LaneS)).To(Equal(8))
		})

		It("should activate the largest power of two", func() {
			// 8 d lanes at VL 512: POW2 keeps all 8; VL 256 has 4.
			wide := emu.NewEmulator(emu.WithVectorLength(512))
			wide.LoadProgram(0, assemble(insts.Instruction{
				Op: insts.OpPTRUE, Format: insts.FormatPredicate,
				Pd: 1, Pattern: insts.PatternPOW2, Size: insts.LaneD,
			}))
			Expect(wide.Run().Err).ToNot(HaveOccurred())
			Expect(wide.PRegFile().CountActive(1, insts.LaneD)).To(Equal(8))
		})

		It("should activate a fixed count when it fits", func() {
			run(insts.Instruction{
				Op: insts.OpPTRUE, Format: insts.FormatPredicate,
				Pd: 2, Pattern: insts.PatternVL3, Size: insts.LaneS,
			})
			Expect(p.CountActive(2, insts.LaneS)).To(Equal(3))
			Expect(p.IsActive(2, 0, insts.LaneS)).To(BeTrue())
			Expect(p.IsActive(2, 3, insts.LaneS)).To(BeFalse())
		})

		It("should activate no lanes when a fixed count does not fit", func() {
			// Only 4 d lanes exist at VL 256.
			run(insts.Instruction{
				Op: insts.OpPTRUE, Format: insts.FormatPredicate,
				Pd: 3, Pattern: insts.PatternVL16, Size: insts.LaneD,
			})
			Expect(p.AnyActive(3, insts.LaneD)).To(BeFalse())
		})

		It("should round down to a multiple for mul3 and mul4", func() {
			// 8 s lanes: MUL3 keeps 6.
			run(insts.Instruction{
				Op: insts.OpPTRUE, Format: insts.FormatPredicate,
				Pd: 4, Pattern: insts.PatternMUL3, Size: insts.LaneS,
			})
			Expect(p.CountActive(4, insts.LaneS)).To(Equal(6))
		})

		It("should set the condition flags for the s form", func() {
			run(insts.Instruction{
				Op: insts.OpPTRUES, Format: insts.FormatPredicate,
				Pd: 0, Pattern: insts.PatternALL, Size: insts.LaneB,
			})
			Expect(e.RegFile().PSTATE.First()).To(BeTrue())
			Expect(e.RegFile().PSTATE.None()).To(BeFalse())
			Expect(e.RegFile().PSTATE.NotLast()).To(BeFalse())
			Expect(e.RegFile().PSTATE.V).To(BeFalse())
		})
	})

	Context("with pfalse and ptest", func() {
		It("should clear the register and report none", func() {
			p.SetLane(1, 0, insts.LaneB, true)
			run(
				insts.Instruction{
					Op: insts.OpPFALSE, Format: insts.FormatPredicate,
					Pd: 1, Size: insts.LaneB,
				},
				insts.Instruction{
					Op: insts.OpPTRUE, Format: insts.FormatPredicate,
					Pd: 2, Pattern: insts.PatternALL, Size: insts.LaneB,
				},
				insts.Instruction{
					Op: insts.OpPTEST, Format: insts.FormatPredicate,
					Pg: 2, Pn: 1, Size: insts.LaneB,
				},
			)
			Expect(p.AnyActive(1, insts.LaneB)).To(BeFalse())
			Expect(e.RegFile().PSTATE.None()).To(BeTrue())
			Expect(e.RegFile().PSTATE.First()).To(BeFalse())
			Expect(e.RegFile().PSTATE.NotLast()).To(BeTrue())
		})

		It("should report none and notlast under an empty mask", func() {
			// pg has no active lane: the tested register's content is
			// irrelevant.
			for i := 0; i < 32; i++ {
				p.SetLane(1, i, insts.LaneB, true)
			}

			run(insts.Instruction{
				Op: insts.OpPTEST, Format: insts.FormatPredicate,
				Pg: 2, Pn: 1, Size: insts.LaneB,
			})

			Expect(e.RegFile().PSTATE.None()).To(BeTrue())
			Expect(e.RegFile().PSTATE.NotLast()).To(BeTrue())
			Expect(e.RegFile().PSTATE.First()).To(BeFalse())
		})

		It("should report first and last relative to the mask", func() {
			p.SetLane(2, 1, insts.LaneB, true) // governing: lanes 1 and 30
			p.SetLane(2, 30, insts.LaneB, true)
			p.SetLane(1, 1, insts.LaneB, true) // tested: lane 1 only

			run(insts.Instruction{
				Op: insts.OpPTEST, Format: insts.FormatPredicate,
				Pg: 2, Pn: 1, Size: insts.LaneB,
			})

			Expect(e.RegFile().PSTATE.First()).To(BeTrue())
			Expect(e.RegFile().PSTATE.None()).To(BeFalse())
			Expect(e.RegFile().PSTATE.NotLast()).To(BeTrue())
		})
	})

	Context("with pfirst and pnext", func() {
		It("should set the mask's lowest active lane", func() {
			p.SetLane(1, 5, insts.LaneB, true)
			p.SetLane(1, 9, insts.LaneB, true)

			run(insts.Instruction{
				Op: insts.OpPFIRST, Format: insts.FormatPredicate,
				Pd: 0, Pg: 1, Size: insts.LaneB,
			})

			Expect(p.IsActive(0, 5, insts.LaneB)).To(BeTrue())
			Expect(p.CountActive(0, insts.LaneB)).To(Equal(1))
			Expect(e.RegFile().PSTATE.First()).To(BeTrue())
		})

		It("should leave the register alone with an empty mask", func() {
			p.SetLane(0, 3, insts.LaneB, true)

			run(insts.Instruction{
				Op: insts.OpPFIRST, Format: insts.FormatPredicate,
				Pd: 0, Pg: 1, Size: insts.LaneB,
			})

			Expect(p.IsActive(0, 3, insts.LaneB)).To(BeTrue())
			Expect(e.RegFile().PSTATE.None()).To(BeTrue())
		})

		It("should walk active lanes one at a time", func() {
			p.SetLane(1, 2, insts.LaneS, true)
			p.SetLane(1, 6, insts.LaneS, true)
			p.SetLane(0, 2, insts.LaneS, true) // current position

			run(insts.Instruction{
				Op: insts.OpPNEXT, Format: insts.FormatPredicate,
				Pd: 0, Pg: 1, Size: insts.LaneS,
			})

			Expect(p.IsActive(0, 6, insts.LaneS)).To(BeTrue())
			Expect(p.CountActive(0, insts.LaneS)).To(Equal(1))
		})

		It("should go empty past the last active lane", func() {
			p.SetLane(1, 6, insts.LaneS, true)
			p.SetLane(0, 6, insts.LaneS, true)

			run(insts.Instruction{
				Op: insts.OpPNEXT, Format: insts.FormatPredicate,
				Pd: 0, Pg: 1, Size: insts.LaneS,
			})

			Expect(p.AnyActive(0, insts.LaneS)).To(BeFalse())
			Expect(e.RegFile().PSTATE.None()).To(BeTrue())
		})
	})

	Context("with counting", func() {
		It("should count lanes active in both predicates", func() {
			p.SetLane(1, 0, insts.LaneD, true)
			p.SetLane(1, 1, insts.LaneD, true)
			p.SetLane(2, 1, insts.LaneD, true)
			p.SetLane(2, 3, insts.LaneD, true)

			run(insts.Instruction{
				Op: insts.OpCNTP, Format: insts.FormatPredicate,
				Rd: 0, Pg: 1, Pn: 2, Size: insts.LaneD, Is64Bit: true,
			})

			Expect(e.RegFile().ReadReg(0)).To(Equal(uint64(1)))
		})

		It("should increment and decrement by the active count", func() {
			p.SetLane(1, 0, insts.LaneH, true)
			p.SetLane(1, 1, insts.LaneH, true)
			p.SetLane(1, 2, insts.LaneH, true)
			e.RegFile().WriteReg(3, 10)

			run(
				insts.Instruction{
					Op: insts.OpINCP, Format: insts.FormatPredicate,
					Rd: 3, Pm: 1, Size: insts.LaneH, Is64Bit: true,
				},
				insts.Instruction{
					Op: insts.OpDECP, Format: insts.FormatPredicate,
					Rd: 3, Pm: 1, Size: insts.LaneH, Is64Bit: true,
				},
				insts.Instruction{
					Op: insts.OpDECP, Format: insts.FormatPredicate,
					Rd: 3, Pm: 1, Size: insts.LaneH, Is64Bit: true,
				},
			)

			Expect(e.RegFile().ReadReg(3)).To(Equal(uint64(7)))
		})
	})

	Context("with saturating counts", func() {
		BeforeEach(func() {
			for i := 0; i < 4; i++ {
				p.SetLane(1, i, insts.LaneD, true)
			}
		})

		It("should saturate a signed 64-bit increment", func() {
			e.RegFile().WriteReg(0, uint64(1<<63-2))

			run(insts.Instruction{
				Op: insts.OpSQINCP, Format: insts.FormatPredicate,
				Rd: 0, Pm: 1, Size: insts.LaneD, Is64Bit: true,
			})

			Expect(e.RegFile().ReadReg(0)).To(Equal(uint64(1<<63 - 1)))
		})

		It("should floor an unsigned 64-bit decrement at zero", func() {
			e.RegFile().WriteReg(0, 2)

			run(insts.Instruction{
				Op: insts.OpUQDECP, Format: insts.FormatPredicate,
				Rd: 0, Pm: 1, Size: insts.LaneD, Is64Bit: true,
			})

			Expect(e.RegFile().ReadReg(0)).To(BeZero())
		})

		It("should saturate at 32 bits and sign extend for the w form", func() {
			e.RegFile().WriteReg(0, uint64(0x7FFFFFFE))

			run(insts.Instruction{
				Op: insts.OpSQINCP, Format: insts.FormatPredicate,
				Rd: 0, Pm: 1, Size: insts.LaneD,
			})

			Expect(e.RegFile().ReadReg(0)).To(Equal(uint64(0x7FFFFFFF)))
		})

		It("should sign extend a negative 32-bit result", func() {
			e.RegFile().WriteReg(0, uint64(0xFFFFFFFF)) // w view: -1

			run(insts.Instruction{
				Op: insts.OpSQDECP, Format: insts.FormatPredicate,
				Rd: 0, Pm: 1, Size: insts.LaneD,
			})

			Expect(e.RegFile().ReadReg(0)).To(Equal(uint64(0xFFFFFFFFFFFFFFFB)))
		})

		It("should preserve untouched high bits of the accumulator", func() {
			nine := emu.NewEmulator()
			for i := 0; i < 9; i++ {
				nine.PRegFile().SetLane(1, i, insts.LaneB, true)
			}
			nine.RegFile().WriteReg(0, 0x123456780000002A)

			nine.LoadProgram(0, assemble(insts.Instruction{
				Op: insts.OpSQDECP, Format: insts.FormatPredicate,
				Rd: 0, Pm: 1, Size: insts.LaneB, Is64Bit: true,
			}))
			Expect(nine.Run().Err).ToNot(HaveOccurred())

			Expect(nine.RegFile().ReadReg(0)).
				To(Equal(uint64(0x123456780000002A - 9)))
		})

		It("should zero extend for the unsigned w form", func() {
			e.RegFile().WriteReg(0, uint64(0xFFFFFFFD))

			run(insts.Instruction{
				Op: insts.OpUQINCP, Format: insts.FormatPredicate,
				Rd: 0, Pm: 1, Size: insts.LaneD,
			})

			Expect(e.RegFile().ReadReg(0)).To(Equal(uint64(0xFFFFFFFF)))
		})
	})

	Context("with predicate logic", func() {
		It("should zero lanes outside the governing predicate", func() {
			p.SetLane(1, 0, insts.LaneB, true) // Pn
			p.SetLane(1, 5, insts.LaneB, true)
			p.SetLane(2, 0, insts.LaneB, true) // Pm
			p.SetLane(2, 5, insts.LaneB, true)
			p.SetLane(3, 0, insts.LaneB, true) // Pg

			run(insts.Instruction{
				Op: insts.OpAND, Format: insts.FormatPredLogical,
				Pd: 0, Pn: 1, Pm: 2, Pg: 3, Size: insts.LaneB,
			})

			Expect(p.IsActive(0, 0, insts.LaneB)).To(BeTrue())
			Expect(p.IsActive(0, 5, insts.LaneB)).To(BeFalse())
		})

		It("should select per lane with sel", func() {
			p.SetLane(1, 0, insts.LaneB, true) // Pn
			p.SetLane(2, 1, insts.LaneB, true) // Pm
			p.SetLane(3, 0, insts.LaneB, true) // Pg covers lane 0 only

			run(insts.Instruction{
				Op: insts.OpSEL, Format: insts.FormatPredLogical,
				Pd: 0, Pn: 1, Pm: 2, Pg: 3, Size: insts.LaneB,
			})

			Expect(p.IsActive(0, 0, insts.LaneB)).To(BeTrue())
			Expect(p.IsActive(0, 1, insts.LaneB)).To(BeTrue())
			Expect(p.CountActive(0, insts.LaneB)).To(Equal(2))
		})
	})

	Context("with compare and terminate", func() {
		It("should set n and clear v when the condition holds", func() {
			e.RegFile().WriteReg(0, 7)
			e.RegFile().WriteReg(1, 7)
			e.RegFile().PSTATE.Z = true
			e.RegFile().PSTATE.C = true

			run(insts.Instruction{
				Op: insts.OpCTERMEQ, Format: insts.FormatCterm,
				Rn: 0, Rm: 1, Is64Bit: true,
			})

			ps := e.RegFile().PSTATE
			Expect(ps.N).To(BeTrue())
			Expect(ps.V).To(BeFalse())
			Expect(ps.Z).To(BeTrue(), "z must be preserved")
			Expect(ps.C).To(BeTrue(), "c must be preserved")
		})

		It("should set v to the inverse of c when it does not hold", func() {
			e.RegFile().WriteReg(0, 7)
			e.RegFile().WriteReg(1, 8)
			e.RegFile().PSTATE.C = false

			run(insts.Instruction{
				Op: insts.OpCTERMEQ, Format: insts.FormatCterm,
				Rn: 0, Rm: 1, Is64Bit: true,
			})

			ps := e.RegFile().PSTATE
			Expect(ps.N).To(BeFalse())
			Expect(ps.V).To(BeTrue())
		})

		It("should compare only the low words in the 32-bit form", func() {
			e.RegFile().WriteReg(0, 0x100000007)
			e.RegFile().WriteReg(1, 0x200000007)

			run(insts.Instruction{
				Op: insts.OpCTERMNE, Format: insts.FormatCterm,
				Rn: 0, Rm: 1,
			})

			// Low words match, so ctermne does not hold.
			Expect(e.RegFile().PSTATE.N).To(BeFalse())
		})
	})
})
