package insts

import "fmt"

// Op identifies a mnemonic. The same Op may appear in several formats,
// e.g. OpADD exists in vector, predicated, and wide-immediate forms.
type Op uint16

// Opcodes.
const (
	OpUnknown Op = iota

	// Vector arithmetic and logical
	OpADD
	OpSUB
	OpSUBR
	OpSQADD
	OpUQADD
	OpSQSUB
	OpUQSUB
	OpAND
	OpORR
	OpEOR
	OpBIC
	OpMUL
	OpSMULH
	OpUMULH
	OpSMAX
	OpUMAX
	OpSMIN
	OpUMIN
	OpSDIV
	OpUDIV

	// Permute and move
	OpTBL
	OpINSR
	OpINDEX
	OpDUP
	OpSEL
	OpCPY
	OpMOVPRFX

	// Reductions
	OpANDV
	OpEORV
	OpORV
	OpSADDV
	OpUADDV
	OpSMAXV
	OpUMAXV
	OpSMINV
	OpUMINV

	// Predicate group
	OpPTRUE
	OpPTRUES
	OpPFALSE
	OpPTEST
	OpPFIRST
	OpPNEXT
	OpCNTP
	OpINCP
	OpDECP
	OpSQINCP
	OpUQINCP
	OpSQDECP
	OpUQDECP

	// Compare and terminate
	OpCTERMEQ
	OpCTERMNE

	// Scalar support
	OpMOVZ
	OpMOVN
	OpMOVK
	OpRDVL
	OpLDR
	OpMSR
	OpMRS
	OpNOP
	OpHLT

	// T32
	OpIT
	OpCMN
)

var opNames = map[Op]string{
	OpADD: "add", OpSUB: "sub", OpSUBR: "subr",
	OpSQADD: "sqadd", OpUQADD: "uqadd", OpSQSUB: "sqsub", OpUQSUB: "uqsub",
	OpAND: "and", OpORR: "orr", OpEOR: "eor", OpBIC: "bic",
	OpMUL: "mul", OpSMULH: "smulh", OpUMULH: "umulh",
	OpSMAX: "smax", OpUMAX: "umax", OpSMIN: "smin", OpUMIN: "umin",
	OpSDIV: "sdiv", OpUDIV: "udiv",
	OpTBL: "tbl", OpINSR: "insr", OpINDEX: "index", OpDUP: "dup",
	OpSEL: "sel", OpCPY: "cpy", OpMOVPRFX: "movprfx",
	OpANDV: "andv", OpEORV: "eorv", OpORV: "orv",
	OpSADDV: "saddv", OpUADDV: "uaddv",
	OpSMAXV: "smaxv", OpUMAXV: "umaxv", OpSMINV: "sminv", OpUMINV: "uminv",
	OpPTRUE: "ptrue", OpPTRUES: "ptrues", OpPFALSE: "pfalse",
	OpPTEST: "ptest", OpPFIRST: "pfirst", OpPNEXT: "pnext",
	OpCNTP: "cntp", OpINCP: "incp", OpDECP: "decp",
	OpSQINCP: "sqincp", OpUQINCP: "uqincp",
	OpSQDECP: "sqdecp", OpUQDECP: "uqdecp",
	OpCTERMEQ: "ctermeq", OpCTERMNE: "ctermne",
	OpMOVZ: "movz", OpMOVN: "movn", OpMOVK: "movk",
	OpRDVL: "rdvl", OpLDR: "ldr", OpMSR: "msr", OpMRS: "mrs",
	OpNOP: "nop", OpHLT: "hlt",
	OpIT: "it", OpCMN: "cmn",
}

func (op Op) String() string {
	if s, ok := opNames[op]; ok {
		return s
	}
	return "unknown"
}

// Format represents an instruction encoding format.
type Format uint8

// Instruction formats.
const (
	FormatUnknown     Format = iota
	FormatDPImm              // scalar add/sub immediate
	FormatMoveWide           // movz/movn/movk
	FormatZArith             // unpredicated Zd = Zn op Zm, sized
	FormatZLogical           // unpredicated bitwise Zd = Zn op Zm, untyped
	FormatZPred              // predicated destructive Zdn = op(Pg/M, Zdn, Zm)
	FormatZWideImm           // destructive Zdn = op(Zdn, #imm8 {, lsl #8})
	FormatZPermute           // tbl, insr, index, dup, sel, cpy, movprfx
	FormatZReduce            // reduction of Zn's active lanes into Vd
	FormatPredicate          // ptrue family, ptest, pfirst, pnext, counts
	FormatPredLogical        // Pd = op(Pg/Z, Pn, Pm)
	FormatCterm              // compare and terminate
	FormatVLoad              // scalar SIMD&FP load
	FormatSystem             // nop, hlt, msr/mrs nzcv, rdvl
	FormatT16                // 16-bit T32 halfword
)

// Cond represents a condition code (shared by A64 and T32).
type Cond uint8

// Condition codes.
const (
	CondEQ Cond = 0b0000 // Equal (Z == 1)
	CondNE Cond = 0b0001 // Not Equal (Z == 0)
	CondCS Cond = 0b0010 // Carry Set / Unsigned higher or same (C == 1)
	CondCC Cond = 0b0011 // Carry Clear / Unsigned lower (C == 0)
	CondMI Cond = 0b0100 // Minus / Negative (N == 1)
	CondPL Cond = 0b0101 // Plus / Positive or zero (N == 0)
	CondVS Cond = 0b0110 // Overflow (V == 1)
	CondVC Cond = 0b0111 // No overflow (V == 0)
	CondHI Cond = 0b1000 // Unsigned higher (C == 1 && Z == 0)
	CondLS Cond = 0b1001 // Unsigned lower or same (C == 0 || Z == 1)
	CondGE Cond = 0b1010 // Signed greater than or equal (N == V)
	CondLT Cond = 0b1011 // Signed less than (N != V)
	CondGT Cond = 0b1100 // Signed greater than (Z == 0 && N == V)
	CondLE Cond = 0b1101 // Signed less than or equal (Z == 1 || N != V)
	CondAL Cond = 0b1110 // Always (unconditional)
	CondNV Cond = 0b1111 // Always (unconditional, reserved)
)

var condNames = [16]string{
	"eq", "ne", "cs", "cc", "mi", "pl", "vs", "vc",
	"hi", "ls", "ge", "lt", "gt", "le", "al", "nv",
}

func (c Cond) String() string {
	return condNames[c&0xF]
}

// ParseCond maps a condition mnemonic such as "eq" to its code.
func ParseCond(name string) (Cond, error) {
	for i, n := range condNames {
		if n == name {
			return Cond(i), nil
		}
	}
	return 0, fmt.Errorf("unknown condition %q", name)
}

// Instruction represents one decoded or to-be-encoded instruction.
type Instruction struct {
	Op     Op     // Operation code
	Format Format // Encoding format

	Size LaneSize // Element size for vector and predicate forms

	// Scalar fields
	Is64Bit  bool  // true for X-register forms (e.g. sqincp x0 vs. w0)
	SetFlags bool  // true if the instruction sets condition flags
	Rd       uint8 // Destination general register
	Rn       uint8 // First source general register
	Rm       uint8 // Second source general register

	// Vector fields
	Zd uint8 // Destination Z register (also Zdn for destructive forms)
	Zn uint8 // First source Z register
	Zm uint8 // Second source Z register
	Pd uint8 // Destination predicate (also Pdn)
	Pn uint8 // First source predicate
	Pm uint8 // Second source predicate
	Pg uint8 // Governing predicate

	// Predication mode for cpy and predicated movprfx
	Predicated bool // governing predicate present
	Merging    bool // true = merging, false = zeroing

	// Immediates
	Imm   int64 // primary immediate
	Imm2  int64 // second immediate (index start/step)
	Shift uint8 // immediate left shift in bits (0, 8, 12, or 16)

	Pattern Pattern // predicate constraint pattern
	Cond    Cond    // condition code (T32 it/cmn)
}
