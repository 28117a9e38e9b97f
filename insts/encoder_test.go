package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/svesim/insts"
)

var _ = Describe("Encoder", func() {
	var enc *insts.Encoder

	BeforeEach(func() {
		enc = insts.NewEncoder()
	})

	Describe("Unpredicated vector arithmetic", func() {
		// add z0.s, z1.s, z2.s
		// Encoding: 00000100 size=10 1 Zm=2 000000 Zn=1 Zd=0
		It("should encode add z0.s, z1.s, z2.s", func() {
			word, err := enc.Encode(&insts.Instruction{
				Op: insts.OpADD, Format: insts.FormatZArith,
				Size: insts.LaneS, Zd: 0, Zn: 1, Zm: 2,
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(word).To(Equal(uint32(0x04A20020)))
		})

		// sqadd z3.b, z4.b, z5.b
		It("should encode sqadd z3.b, z4.b, z5.b", func() {
			word, err := enc.Encode(&insts.Instruction{
				Op: insts.OpSQADD, Format: insts.FormatZArith,
				Size: insts.LaneB, Zd: 3, Zn: 4, Zm: 5,
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(word).To(Equal(uint32(0x04251083)))
		})

		It("should reject out-of-range registers", func() {
			_, err := enc.Encode(&insts.Instruction{
				Op: insts.OpADD, Format: insts.FormatZArith,
				Size: insts.LaneS, Zd: 32,
			})
			Expect(err).To(HaveOccurred())
			Expect(err).To(BeAssignableToTypeOf(&insts.EncodingError{}))
		})
	})

	Describe("Unpredicated vector logical", func() {
		// and z1.d, z2.d, z3.d
		It("should encode and z1.d, z2.d, z3.d", func() {
			word, err := enc.Encode(&insts.Instruction{
				Op: insts.OpAND, Format: insts.FormatZLogical,
				Size: insts.LaneD, Zd: 1, Zn: 2, Zm: 3,
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(word).To(Equal(uint32(0x04233041)))
		})

		It("should reject sized qualifiers on the bitwise form", func() {
			_, err := enc.Encode(&insts.Instruction{
				Op: insts.OpEOR, Format: insts.FormatZLogical,
				Size: insts.LaneS, Zd: 0, Zn: 1, Zm: 2,
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Predicated binary", func() {
		// add z0.h, p1/m, z0.h, z2.h
		It("should encode add z0.h, p1/m, z0.h, z2.h", func() {
			word, err := enc.Encode(&insts.Instruction{
				Op: insts.OpADD, Format: insts.FormatZPred,
				Size: insts.LaneH, Zd: 0, Zn: 0, Zm: 2,
				Pg: 1, Predicated: true, Merging: true,
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(word).To(Equal(uint32(0x04400440)))
		})

		It("should reject non-destructive operand patterns", func() {
			_, err := enc.Encode(&insts.Instruction{
				Op: insts.OpADD, Format: insts.FormatZPred,
				Size: insts.LaneH, Zd: 0, Zn: 1, Zm: 2,
				Pg: 1, Predicated: true, Merging: true,
			})
			Expect(err).To(HaveOccurred())
		})

		It("should reject governing predicates above p7", func() {
			_, err := enc.Encode(&insts.Instruction{
				Op: insts.OpADD, Format: insts.FormatZPred,
				Size: insts.LaneH, Zd: 0, Zn: 0, Zm: 2,
				Pg: 8, Predicated: true, Merging: true,
			})
			Expect(err).To(HaveOccurred())
		})

		It("should reject byte-lane divides", func() {
			_, err := enc.Encode(&insts.Instruction{
				Op: insts.OpSDIV, Format: insts.FormatZPred,
				Size: insts.LaneB, Zd: 0, Zn: 0, Zm: 2,
				Pg: 1, Predicated: true, Merging: true,
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Wide immediates", func() {
		// sub z1.b, z1.b, #37
		It("should encode sub z1.b, z1.b, #37", func() {
			word, err := enc.Encode(&insts.Instruction{
				Op: insts.OpSUB, Format: insts.FormatZWideImm,
				Size: insts.LaneB, Zd: 1, Zn: 1, Imm: 37,
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(word).To(Equal(uint32(0x2521C4A1)))
		})

		It("should reject immediates above 255", func() {
			_, err := enc.Encode(&insts.Instruction{
				Op: insts.OpADD, Format: insts.FormatZWideImm,
				Size: insts.LaneS, Zd: 0, Zn: 0, Imm: 256,
			})
			Expect(err).To(HaveOccurred())
		})

		It("should reject lsl #8 on byte lanes", func() {
			_, err := enc.Encode(&insts.Instruction{
				Op: insts.OpADD, Format: insts.FormatZWideImm,
				Size: insts.LaneB, Zd: 0, Zn: 0, Imm: 1, Shift: 8,
			})
			Expect(err).To(HaveOccurred())
		})

		It("should accept lsl #8 on halfword lanes", func() {
			word, err := enc.Encode(&insts.Instruction{
				Op: insts.OpADD, Format: insts.FormatZWideImm,
				Size: insts.LaneH, Zd: 0, Zn: 0, Imm: 1, Shift: 8,
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(word & (1 << 13)).ToNot(BeZero())
		})
	})

	Describe("Predicate group", func() {
		It("should encode ptrue p0.b, all", func() {
			word, err := enc.Encode(&insts.Instruction{
				Op: insts.OpPTRUE, Format: insts.FormatPredicate,
				Size: insts.LaneB, Pd: 0, Pattern: insts.PatternALL,
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(word).To(Equal(uint32(0x2518E3E0)))
		})

		It("should encode ptrue p2.s, vl3", func() {
			word, err := enc.Encode(&insts.Instruction{
				Op: insts.OpPTRUE, Format: insts.FormatPredicate,
				Size: insts.LaneS, Pd: 2, Pattern: insts.PatternVL3,
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(word).To(Equal(uint32(0x2598E062)))
		})

		It("should encode pfalse p5.b", func() {
			word, err := enc.Encode(&insts.Instruction{
				Op: insts.OpPFALSE, Format: insts.FormatPredicate,
				Size: insts.LaneB, Pd: 5,
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(word).To(Equal(uint32(0x2518E405)))
		})

		It("should encode ptest p1, p3.b", func() {
			word, err := enc.Encode(&insts.Instruction{
				Op: insts.OpPTEST, Format: insts.FormatPredicate,
				Size: insts.LaneB, Pg: 1, Pn: 3,
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(word).To(Equal(uint32(0x2550C460)))
		})

		It("should encode cntp x3, p2, p4.d", func() {
			word, err := enc.Encode(&insts.Instruction{
				Op: insts.OpCNTP, Format: insts.FormatPredicate,
				Size: insts.LaneD, Rd: 3, Pg: 2, Pn: 4, Is64Bit: true,
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(word).To(Equal(uint32(0x25E08883)))
		})

		It("should reject pfirst on non-byte lanes", func() {
			_, err := enc.Encode(&insts.Instruction{
				Op: insts.OpPFIRST, Format: insts.FormatPredicate,
				Size: insts.LaneS, Pd: 0, Pg: 1,
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("System", func() {
		It("should encode rdvl x0, #1", func() {
			word, err := enc.Encode(&insts.Instruction{
				Op: insts.OpRDVL, Format: insts.FormatSystem,
				Rd: 0, Imm: 1, Is64Bit: true,
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(word).To(Equal(uint32(0x04BF5020)))
		})

		It("should encode ldr q2, [x1, #32]", func() {
			word, err := enc.Encode(&insts.Instruction{
				Op: insts.OpLDR, Format: insts.FormatVLoad,
				Size: insts.LaneQ, Rd: 2, Rn: 1, Imm: 32,
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(word).To(Equal(uint32(0x3DC00822)))
		})

		It("should reject q lanes outside the scalar load", func() {
			_, err := enc.Encode(&insts.Instruction{
				Op: insts.OpADD, Format: insts.FormatZArith,
				Zd: 0, Zn: 1, Zm: 2, Size: insts.LaneQ,
			})
			Expect(err).To(HaveOccurred())
		})

		It("should encode hlt #0", func() {
			word, err := enc.Encode(&insts.Instruction{
				Op: insts.OpHLT, Format: insts.FormatSystem,
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(word).To(Equal(uint32(0xD4400000)))
		})

		It("should encode nop", func() {
			word, err := enc.Encode(&insts.Instruction{
				Op: insts.OpNOP, Format: insts.FormatSystem,
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(word).To(Equal(uint32(0xD503201F)))
		})
	})
})
