package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/svesim/emu"
	"github.com/sarchlab/svesim/insts"
)

var _ = Describe("Permutes and moves", func() {
	var (
		e *emu.Emulator
		z *emu.ZRegFile
		p *emu.PRegFile
	)

	BeforeEach(func() {
		e = emu.NewEmulator()
		z = e.ZRegFile()
		p = e.PRegFile()
	})

	run := func(prog ...insts.Instruction) {
		e.LoadProgram(0, assemble(prog...))
		result := e.Run()
		ExpectWithOffset(1, result.Err).ToNot(HaveOccurred())
	}

	Context("with tbl", func() {
		It("should gather lanes by index", func() {
			for i := 0; i < 8; i++ {
				z.WriteLane(1, i, insts.LaneS, uint64(100+i))
			}
			z.WriteLane(2, 0, insts.LaneS, 7)
			z.WriteLane(2, 1, insts.LaneS, 0)

			run(insts.Instruction{
				Op: insts.OpTBL, Format: insts.FormatZPermute,
				Zd: 0, Zn: 1, Zm: 2, Size: insts.LaneS,
			})

			Expect(z.ReadLane(0, 0, insts.LaneS)).To(Equal(uint64(107)))
			Expect(z.ReadLane(0, 1, insts.LaneS)).To(Equal(uint64(100)))
		})

		It("should not wrap a byte index past the lane count", func() {
			// 32 b lanes at VL 256: index 255 is far out of range and
			// must read as zero, not alias lane 255 mod 32.
			z.WriteLane(1, 31, insts.LaneB, 0x55)
			z.WriteLane(2, 0, insts.LaneB, 255)
			z.WriteLane(0, 0, insts.LaneB, 0x77)

			run(insts.Instruction{
				Op: insts.OpTBL, Format: insts.FormatZPermute,
				Zd: 0, Zn: 1, Zm: 2, Size: insts.LaneB,
			})

			Expect(z.ReadLane(0, 0, insts.LaneB)).To(BeZero())
		})

		It("should produce zero for out-of-range indices", func() {
			z.WriteLane(1, 0, insts.LaneS, 0xAAAA)
			z.WriteLane(2, 0, insts.LaneS, 8) // only 8 s lanes, 0-7
			z.WriteLane(0, 0, insts.LaneS, 0xBBBB)

			run(insts.Instruction{
				Op: insts.OpTBL, Format: insts.FormatZPermute,
				Zd: 0, Zn: 1, Zm: 2, Size: insts.LaneS,
			})

			Expect(z.ReadLane(0, 0, insts.LaneS)).To(BeZero())
		})

		It("should tolerate the destination aliasing a source", func() {
			for i := 0; i < 8; i++ {
				z.WriteLane(1, i, insts.LaneS, uint64(10*i))
				z.WriteLane(2, i, insts.LaneS, uint64(7-i))
			}

			run(insts.Instruction{
				Op: insts.OpTBL, Format: insts.FormatZPermute,
				Zd: 2, Zn: 1, Zm: 2, Size: insts.LaneS,
			})

			for i := 0; i < 8; i++ {
				Expect(z.ReadLane(2, i, insts.LaneS)).To(Equal(uint64(10 * (7 - i))))
			}
		})
	})

	Context("with insr", func() {
		It("should build a byte vector lane by lane", func() {
			values := []uint64{1, 2, 0xEF, 0xD6, 0}
			prog := make([]insts.Instruction, 0, 2*len(values))
			for _, v := range values {
				prog = append(prog,
					insts.Instruction{
						Op: insts.OpMOVZ, Format: insts.FormatMoveWide,
						Rd: 5, Imm: int64(v), Is64Bit: true,
					},
					insts.Instruction{
						Op: insts.OpINSR, Format: insts.FormatZPermute,
						Zd: 0, Rn: 5, Size: insts.LaneB,
					},
				)
			}
			run(prog...)

			// The last value inserted sits in the lowest lane.
			Expect(z.ReadLane(0, 0, insts.LaneB)).To(Equal(uint64(0)))
			Expect(z.ReadLane(0, 1, insts.LaneB)).To(Equal(uint64(0xD6)))
			Expect(z.ReadLane(0, 2, insts.LaneB)).To(Equal(uint64(0xEF)))
			Expect(z.ReadLane(0, 3, insts.LaneB)).To(Equal(uint64(2)))
			Expect(z.ReadLane(0, 4, insts.LaneB)).To(Equal(uint64(1)))
		})

		It("should shift lanes up and insert at the bottom", func() {
			for i := 0; i < 4; i++ {
				z.WriteLane(0, i, insts.LaneD, uint64(i+1))
			}
			e.RegFile().WriteReg(5, 99)

			run(insts.Instruction{
				Op: insts.OpINSR, Format: insts.FormatZPermute,
				Zd: 0, Rn: 5, Size: insts.LaneD,
			})

			Expect(z.ReadLane(0, 0, insts.LaneD)).To(Equal(uint64(99)))
			Expect(z.ReadLane(0, 1, insts.LaneD)).To(Equal(uint64(1)))
			Expect(z.ReadLane(0, 3, insts.LaneD)).To(Equal(uint64(3)))
		})
	})

	Context("with index", func() {
		It("should fill an arithmetic sequence", func() {
			run(insts.Instruction{
				Op: insts.OpINDEX, Format: insts.FormatZPermute,
				Zd: 0, Imm: 3, Imm2: 2, Size: insts.LaneH,
			})

			Expect(z.ReadLane(0, 0, insts.LaneH)).To(Equal(uint64(3)))
			Expect(z.ReadLane(0, 5, insts.LaneH)).To(Equal(uint64(13)))
		})

		It("should wrap a descending sequence at the lane width", func() {
			run(insts.Instruction{
				Op: insts.OpINDEX, Format: insts.FormatZPermute,
				Zd: 0, Imm: 1, Imm2: -1, Size: insts.LaneB,
			})

			Expect(z.ReadLane(0, 0, insts.LaneB)).To(Equal(uint64(1)))
			Expect(z.ReadLane(0, 1, insts.LaneB)).To(BeZero())
			Expect(z.ReadLane(0, 2, insts.LaneB)).To(Equal(uint64(0xFF)))
		})
	})

	Context("with dup and cpy", func() {
		It("should broadcast a scalar register", func() {
			e.RegFile().WriteReg(3, 0x42)

			run(insts.Instruction{
				Op: insts.OpDUP, Format: insts.FormatZPermute,
				Zd: 1, Rn: 3, Size: insts.LaneB,
			})

			Expect(z.ReadLane(1, 0, insts.LaneB)).To(Equal(uint64(0x42)))
			Expect(z.ReadLane(1, 31, insts.LaneB)).To(Equal(uint64(0x42)))
		})

		It("should copy only to active lanes", func() {
			e.RegFile().WriteReg(3, 7)
			for i := 0; i < 8; i++ {
				z.WriteLane(1, i, insts.LaneS, 100)
			}
			p.SetLane(2, 4, insts.LaneS, true)

			run(insts.Instruction{
				Op: insts.OpCPY, Format: insts.FormatZPermute,
				Zd: 1, Rn: 3, Pg: 2, Size: insts.LaneS,
				Predicated: true, Merging: true,
			})

			Expect(z.ReadLane(1, 4, insts.LaneS)).To(Equal(uint64(7)))
			Expect(z.ReadLane(1, 3, insts.LaneS)).To(Equal(uint64(100)))
		})
	})

	Context("with sel", func() {
		It("should pick between vectors per lane", func() {
			for i := 0; i < 4; i++ {
				z.WriteLane(1, i, insts.LaneD, 1)
				z.WriteLane(2, i, insts.LaneD, 2)
			}
			p.SetLane(3, 0, insts.LaneD, true)
			p.SetLane(3, 2, insts.LaneD, true)

			run(insts.Instruction{
				Op: insts.OpSEL, Format: insts.FormatZPermute,
				Zd: 0, Zn: 1, Zm: 2, Pg: 3, Size: insts.LaneD,
			})

			Expect(z.ReadLane(0, 0, insts.LaneD)).To(Equal(uint64(1)))
			Expect(z.ReadLane(0, 1, insts.LaneD)).To(Equal(uint64(2)))
			Expect(z.ReadLane(0, 2, insts.LaneD)).To(Equal(uint64(1)))
			Expect(z.ReadLane(0, 3, insts.LaneD)).To(Equal(uint64(2)))
		})
	})

	Context("with movprfx", func() {
		BeforeEach(func() {
			for i := 0; i < 4; i++ {
				z.WriteLane(1, i, insts.LaneD, uint64(10+i))
				z.WriteLane(0, i, insts.LaneD, 0xFF)
			}
			p.SetLane(2, 1, insts.LaneD, true)
		})

		It("should copy the whole register unpredicated", func() {
			run(insts.Instruction{
				Op: insts.OpMOVPRFX, Format: insts.FormatZPermute,
				Zd: 0, Zn: 1, Size: insts.LaneD,
			})

			for i := 0; i < 4; i++ {
				Expect(z.ReadLane(0, i, insts.LaneD)).To(Equal(uint64(10 + i)))
			}
		})

		It("should zero inactive lanes in the z form", func() {
			run(insts.Instruction{
				Op: insts.OpMOVPRFX, Format: insts.FormatZPermute,
				Zd: 0, Zn: 1, Pg: 2, Size: insts.LaneD, Predicated: true,
			})

			Expect(z.ReadLane(0, 0, insts.LaneD)).To(BeZero())
			Expect(z.ReadLane(0, 1, insts.LaneD)).To(Equal(uint64(11)))
		})

		It("should keep inactive lanes in the m form", func() {
			run(insts.Instruction{
				Op: insts.OpMOVPRFX, Format: insts.FormatZPermute,
				Zd: 0, Zn: 1, Pg: 2, Size: insts.LaneD,
				Predicated: true, Merging: true,
			})

			Expect(z.ReadLane(0, 0, insts.LaneD)).To(Equal(uint64(0xFF)))
			Expect(z.ReadLane(0, 1, insts.LaneD)).To(Equal(uint64(11)))
		})
	})
})
