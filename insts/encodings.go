package insts

// Shared bit-pattern bases. The encoder ORs operand fields into these and
// the decoder masks them back out, so the two stay in lockstep.
const (
	// Unpredicated vector arithmetic:
	// 00000100 size 1 Zm opc(6) Zn Zd, opc in bits [15:10]
	baseZArith = 0x04200000

	// Unpredicated vector logical:
	// 00000100 opc(2) 1 Zm 001100 Zn Zd, opc in bits [23:22]
	baseZLogical = 0x04203000

	// Predicated destructive binary:
	// 00000100 size 0 opc(6) 000 Pg Zm Zdn, opc in bits [21:16]
	baseZPred = 0x04000000

	// Wide immediate, arithmetic group:
	// 00100101 size 1 opc(3) 00 11 sh imm8 Zdn, opc in bits [18:16]
	baseZWideImm = 0x2520C000

	// Wide immediate, min/max/mul group:
	// 00100101 size 101 opc(3) 110 0 imm8 Zdn
	baseZMinMaxImm = 0x2528C000
	baseZMulImm    = 0x2530C000

	// dup (immediate): 00100101 size 11100011 sh imm8 Zd
	baseDupImm = 0x2538C000

	// Permute group
	baseTbl       = 0x05203000 // 00000101 size 1 Zm 001100 Zn Zd
	baseInsr      = 0x05243800 // 00000101 size 100100 001110 Rm Zdn
	baseIndexImm  = 0x04204000 // 00000100 size 1 imm5b 010000 imm5 Zd
	baseDupScalar = 0x05203800 // 00000101 size 100000 001110 Rn Zd
	baseSel       = 0x0520C000 // 00000101 size 1 Zm 11 Pv Zn Zd
	baseCpy       = 0x0528A000 // 00000101 size 101000 101 Pg Rn Zd

	// movprfx
	baseMovprfx     = 0x0420BC00 // 00000100 00100000 101111 Zn Zd
	baseMovprfxPred = 0x04102000 // 00000100 size 01000 M 001 Pg Zn Zd

	// Reductions: 00000100 size 0 opc(6) 001 Pg Zn Vd, opc in bits [21:16]
	baseZReduce = 0x04002000

	// Predicate group
	basePtrue  = 0x2518E000 // 00100101 size 011000 111000 pattern 0 Pd
	basePtrues = 0x2519E000
	basePfalse = 0x2518E400
	basePtest  = 0x2550C000 // 00100101 01 010000 11 Pg 0 Pn 0 0000
	basePfirst = 0x2558C000 // 00100101 01 011000 11000 0 Pg 0 Pdn
	basePnext  = 0x2519C400 // 00100101 size 011001 110001 0 Pg 0 Pdn
	baseCntp   = 0x25208000 // 00100101 size 100000 10 Pg 0 Pn Rd
	baseIncp   = 0x252C8800 // 00100101 size 101100 10001 0 00 Pm Rdn
	baseDecp   = 0x252D8800
	// Saturating counts: 00100101 size 1010 D U 10001 sf 00 Pm Rdn
	baseSatCntp = 0x25288800

	// Predicate logical: 00100101 op S 00 Pm 01 Pg o2 Pn o3 Pd
	basePredAnd = 0x25004000
	basePredOrr = 0x25804000
	basePredEor = 0x25004200
	basePredSel = 0x25004210

	// Compare and terminate: 00100101 1 sz 1 Rm 001000 Rn ne 0000
	baseCterm = 0x25A02000

	// Scalar support
	baseRdvl     = 0x04BF5000 // 00000100 1011111101010 imm6 Rd
	baseMoveWide = 0x12800000 // sf opc(2) 100101 hw imm16 Rd
	baseDPImm    = 0x11000000 // sf op S 100010 sh imm12 Rn Rd
	baseVLoad    = 0x3D400000 // size 111101 01 imm12 Rn Rt
	baseVLoadQ   = 0x3DC00000 // 00 111101 11 imm12 Rn Rt (128-bit)
	encNOP       = 0xD503201F
	baseHlt      = 0xD4400000 // 11010100 010 imm16 00000
	encMsrNzcv   = 0xD51B4200 // msr nzcv, Xt
	encMrsNzcv   = 0xD53B4200 // mrs Xt, nzcv
)

// T32 halfword patterns.
const (
	baseT16It  = 0xBF00 // 10111111 cond mask
	baseT16Cmn = 0x42C0 // 0100001011 Rm Rdn
)

// zArithOpc maps unpredicated vector arithmetic ops to bits [15:10].
var zArithOpc = map[Op]uint32{
	OpADD:   0b000000,
	OpSUB:   0b000001,
	OpSQADD: 0b000100,
	OpUQADD: 0b000101,
	OpSQSUB: 0b000110,
	OpUQSUB: 0b000111,
}

// zLogicalOpc maps unpredicated vector logical ops to bits [23:22].
var zLogicalOpc = map[Op]uint32{
	OpAND: 0b00,
	OpORR: 0b01,
	OpEOR: 0b10,
	OpBIC: 0b11,
}

// zPredOpc maps predicated destructive binary ops to bits [21:16].
var zPredOpc = map[Op]uint32{
	OpADD:   0b000000,
	OpSUB:   0b000001,
	OpSUBR:  0b000011,
	OpSMAX:  0b001000,
	OpUMAX:  0b001001,
	OpSMIN:  0b001010,
	OpUMIN:  0b001011,
	OpMUL:   0b010000,
	OpSMULH: 0b010010,
	OpUMULH: 0b010011,
	OpSDIV:  0b010100,
	OpUDIV:  0b010101,
	OpORR:   0b011000,
	OpEOR:   0b011001,
	OpAND:   0b011010,
	OpBIC:   0b011011,
}

// zWideImmOpc maps the arithmetic wide-immediate ops to bits [18:16].
var zWideImmOpc = map[Op]uint32{
	OpADD:   0b000,
	OpSUB:   0b001,
	OpSUBR:  0b011,
	OpSQADD: 0b100,
	OpUQADD: 0b101,
	OpSQSUB: 0b110,
	OpUQSUB: 0b111,
}

// zMinMaxImmOpc maps min/max wide-immediate ops to bits [18:16].
var zMinMaxImmOpc = map[Op]uint32{
	OpSMAX: 0b000,
	OpUMAX: 0b001,
	OpSMIN: 0b010,
	OpUMIN: 0b011,
}

// zReduceOpc maps reduction ops to bits [21:16].
var zReduceOpc = map[Op]uint32{
	OpSADDV: 0b000000,
	OpUADDV: 0b000001,
	OpSMAXV: 0b001000,
	OpUMAXV: 0b001001,
	OpSMINV: 0b001010,
	OpUMINV: 0b001011,
	OpORV:   0b011000,
	OpEORV:  0b011001,
	OpANDV:  0b011010,
}

// satCntpBits maps the saturating count ops to the D (bit 17) and U
// (bit 16) fields.
var satCntpBits = map[Op]uint32{
	OpSQINCP: 0b00,
	OpUQINCP: 0b01,
	OpSQDECP: 0b10,
	OpUQDECP: 0b11,
}

// predLogicalBase maps predicate logical ops to their full fixed pattern.
var predLogicalBase = map[Op]uint32{
	OpAND: basePredAnd,
	OpORR: basePredOrr,
	OpEOR: basePredEor,
	OpSEL: basePredSel,
}

func reverseOpc(m map[Op]uint32) map[uint32]Op {
	r := make(map[uint32]Op, len(m))
	for op, bits := range m {
		r[bits] = op
	}
	return r
}

var (
	zArithOps     = reverseOpc(zArithOpc)
	zLogicalOps   = reverseOpc(zLogicalOpc)
	zPredOps      = reverseOpc(zPredOpc)
	zWideImmOps   = reverseOpc(zWideImmOpc)
	zMinMaxImmOps = reverseOpc(zMinMaxImmOpc)
	zReduceOps    = reverseOpc(zReduceOpc)
	satCntpOps    = reverseOpc(satCntpBits)
)
