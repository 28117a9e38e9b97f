package insts

import (
	"fmt"
	"strings"
)

// String renders the instruction in assembly-like syntax.
func (i *Instruction) String() string {
	var b strings.Builder
	b.WriteString(i.Op.String())
	b.WriteByte(' ')

	t := i.Size.String()
	switch i.Format {
	case FormatZArith, FormatZLogical:
		fmt.Fprintf(&b, "z%d.%s, z%d.%s, z%d.%s", i.Zd, t, i.Zn, t, i.Zm, t)
	case FormatZPred:
		fmt.Fprintf(&b, "z%d.%s, p%d/m, z%d.%s, z%d.%s", i.Zd, t, i.Pg, i.Zn, t, i.Zm, t)
	case FormatZWideImm:
		fmt.Fprintf(&b, "z%d.%s, ", i.Zd, t)
		if i.Op != OpDUP {
			fmt.Fprintf(&b, "z%d.%s, ", i.Zn, t)
		}
		fmt.Fprintf(&b, "#%d", i.Imm)
		if i.Shift != 0 {
			fmt.Fprintf(&b, ", lsl #%d", i.Shift)
		}
	case FormatZPermute:
		i.permuteString(&b, t)
	case FormatZReduce:
		fmt.Fprintf(&b, "%s%d, p%d, z%d.%s", vregPrefix(i.Size), i.Rd, i.Pg, i.Zn, t)
	case FormatPredicate:
		i.predicateString(&b, t)
	case FormatPredLogical:
		if i.Op == OpSEL {
			fmt.Fprintf(&b, "p%d.b, p%d, p%d.b, p%d.b", i.Pd, i.Pg, i.Pn, i.Pm)
		} else {
			fmt.Fprintf(&b, "p%d.b, p%d/z, p%d.b, p%d.b", i.Pd, i.Pg, i.Pn, i.Pm)
		}
	case FormatCterm:
		r := "w"
		if i.Is64Bit {
			r = "x"
		}
		fmt.Fprintf(&b, "%s%d, %s%d", r, i.Rn, r, i.Rm)
	case FormatVLoad:
		fmt.Fprintf(&b, "%s%d, [x%d, #%d]", vregPrefix(i.Size), i.Rd, i.Rn, i.Imm)
	case FormatDPImm:
		r := "w"
		if i.Is64Bit {
			r = "x"
		}
		fmt.Fprintf(&b, "%s%d, %s%d, #%d", r, i.Rd, r, i.Rn, i.Imm)
		if i.Shift != 0 {
			fmt.Fprintf(&b, ", lsl #%d", i.Shift)
		}
	case FormatMoveWide:
		r := "w"
		if i.Is64Bit {
			r = "x"
		}
		fmt.Fprintf(&b, "%s%d, #%d", r, i.Rd, i.Imm)
		if i.Shift != 0 {
			fmt.Fprintf(&b, ", lsl #%d", i.Shift)
		}
	case FormatSystem:
		i.systemString(&b)
	case FormatT16:
		if i.Op == OpIT {
			return "it " + i.Cond.String()
		}
		fmt.Fprintf(&b, "r%d, r%d", i.Rn, i.Rm)
	default:
		return i.Op.String()
	}
	return strings.TrimRight(b.String(), " ")
}

func (i *Instruction) permuteString(b *strings.Builder, t string) {
	switch i.Op {
	case OpTBL:
		fmt.Fprintf(b, "z%d.%s, z%d.%s, z%d.%s", i.Zd, t, i.Zn, t, i.Zm, t)
	case OpINSR:
		fmt.Fprintf(b, "z%d.%s, %s%d", i.Zd, t, gregPrefix(i.Size), i.Rn)
	case OpINDEX:
		fmt.Fprintf(b, "z%d.%s, #%d, #%d", i.Zd, t, i.Imm, i.Imm2)
	case OpDUP:
		fmt.Fprintf(b, "z%d.%s, %s%d", i.Zd, t, gregPrefix(i.Size), i.Rn)
	case OpSEL:
		fmt.Fprintf(b, "z%d.%s, p%d, z%d.%s, z%d.%s", i.Zd, t, i.Pg, i.Zn, t, i.Zm, t)
	case OpCPY:
		fmt.Fprintf(b, "z%d.%s, p%d/m, %s%d", i.Zd, t, i.Pg, gregPrefix(i.Size), i.Rn)
	case OpMOVPRFX:
		if !i.Predicated {
			fmt.Fprintf(b, "z%d, z%d", i.Zd, i.Zn)
			return
		}
		mz := "z"
		if i.Merging {
			mz = "m"
		}
		fmt.Fprintf(b, "z%d.%s, p%d/%s, z%d.%s", i.Zd, t, i.Pg, mz, i.Zn, t)
	}
}

func (i *Instruction) predicateString(b *strings.Builder, t string) {
	switch i.Op {
	case OpPTRUE, OpPTRUES:
		fmt.Fprintf(b, "p%d.%s, %s", i.Pd, t, i.Pattern)
	case OpPFALSE:
		fmt.Fprintf(b, "p%d.b", i.Pd)
	case OpPTEST:
		fmt.Fprintf(b, "p%d, p%d.b", i.Pg, i.Pn)
	case OpPFIRST:
		fmt.Fprintf(b, "p%d.b, p%d, p%d.b", i.Pd, i.Pg, i.Pd)
	case OpPNEXT:
		fmt.Fprintf(b, "p%d.%s, p%d, p%d.%s", i.Pd, t, i.Pg, i.Pd, t)
	case OpCNTP:
		fmt.Fprintf(b, "x%d, p%d, p%d.%s", i.Rd, i.Pg, i.Pn, t)
	case OpINCP, OpDECP:
		fmt.Fprintf(b, "x%d, p%d.%s", i.Rd, i.Pm, t)
	case OpSQINCP, OpUQINCP, OpSQDECP, OpUQDECP:
		if i.Is64Bit {
			fmt.Fprintf(b, "x%d, p%d.%s", i.Rd, i.Pm, t)
		} else {
			fmt.Fprintf(b, "x%d, p%d.%s, w%d", i.Rd, i.Pm, t, i.Rd)
		}
	}
}

func (i *Instruction) systemString(b *strings.Builder) {
	switch i.Op {
	case OpNOP:
		b.Reset()
		b.WriteString("nop")
	case OpHLT:
		fmt.Fprintf(b, "#%d", i.Imm)
	case OpMSR:
		fmt.Fprintf(b, "nzcv, x%d", i.Rn)
	case OpMRS:
		fmt.Fprintf(b, "x%d, nzcv", i.Rd)
	case OpRDVL:
		fmt.Fprintf(b, "x%d, #%d", i.Rd, i.Imm)
	}
}

func vregPrefix(s LaneSize) string {
	switch s {
	case LaneB:
		return "b"
	case LaneH:
		return "h"
	case LaneS:
		return "s"
	case LaneQ:
		return "q"
	}
	return "d"
}

func gregPrefix(s LaneSize) string {
	if s == LaneD {
		return "x"
	}
	return "w"
}
