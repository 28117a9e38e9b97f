package insts

// Decoder decodes 32-bit instruction words back into canonical
// instructions. It accepts exactly the words the Encoder produces;
// anything else yields a DecodingError.
type Decoder struct{}

// NewDecoder creates a new instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a 32-bit instruction word.
func (d *Decoder) Decode(word uint32) (*Instruction, error) {
	inst := &Instruction{}

	var err error
	switch word >> 24 {
	case 0x04:
		err = d.decodeSVE04(word, inst)
	case 0x05:
		err = d.decodeSVE05(word, inst)
	case 0x25:
		err = d.decodeSVE25(word, inst)
	default:
		switch {
		case d.isDPImm(word):
			d.decodeDPImm(word, inst)
		case d.isMoveWide(word):
			d.decodeMoveWide(word, inst)
		case d.isVLoad(word):
			d.decodeVLoad(word, inst)
		case d.isSystem(word):
			err = d.decodeSystem(word, inst)
		default:
			err = unallocated(word)
		}
	}

	if err != nil {
		return nil, err
	}
	return inst, nil
}

// decodeSVE04 handles the 00000100 opcode space: unpredicated and
// predicated vector arithmetic, reductions, movprfx, index, and rdvl.
func (d *Decoder) decodeSVE04(word uint32, inst *Instruction) error {
	if word&(1<<21) != 0 {
		opc := (word >> 10) & 0x3F // bits [15:10]
		switch {
		case zArithOps[opc] != OpUnknown || opc == 0:
			if op, ok := zArithOps[opc]; ok {
				inst.Op = op
				inst.Format = FormatZArith
				inst.Size = LaneSize((word >> 22) & 0x3)
				inst.Zm = uint8((word >> 16) & 0x1F)
				inst.Zn = uint8((word >> 5) & 0x1F)
				inst.Zd = uint8(word & 0x1F)
				return nil
			}
			return unallocated(word)
		case opc == 0b001100:
			inst.Op = zLogicalOps[(word>>22)&0x3]
			inst.Format = FormatZLogical
			inst.Size = LaneD
			inst.Zm = uint8((word >> 16) & 0x1F)
			inst.Zn = uint8((word >> 5) & 0x1F)
			inst.Zd = uint8(word & 0x1F)
			return nil
		case opc == 0b010000:
			inst.Op = OpINDEX
			inst.Format = FormatZPermute
			inst.Size = LaneSize((word >> 22) & 0x3)
			inst.Imm2 = int64(signed5((word >> 16) & 0x1F))
			inst.Imm = int64(signed5((word >> 5) & 0x1F))
			inst.Zd = uint8(word & 0x1F)
			return nil
		case word&0xFFFFF800 == baseRdvl&0xFFFFF800:
			inst.Op = OpRDVL
			inst.Format = FormatSystem
			inst.Imm = int64(signed6((word >> 5) & 0x3F))
			inst.Rd = uint8(word & 0x1F)
			inst.Is64Bit = true
			return nil
		case word&0xFFFFFC00 == baseMovprfx:
			inst.Op = OpMOVPRFX
			inst.Format = FormatZPermute
			inst.Size = LaneD
			inst.Zn = uint8((word >> 5) & 0x1F)
			inst.Zd = uint8(word & 0x1F)
			return nil
		}
		return unallocated(word)
	}

	opc := (word >> 16) & 0x3F // bits [21:16]
	switch (word >> 13) & 0x7 {
	case 0b000:
		op, ok := zPredOps[opc]
		if !ok {
			return unallocated(word)
		}
		inst.Op = op
		inst.Format = FormatZPred
		inst.Size = LaneSize((word >> 22) & 0x3)
		if (op == OpSDIV || op == OpUDIV) &&
			inst.Size != LaneS && inst.Size != LaneD {
			return unallocated(word)
		}
		inst.Pg = uint8((word >> 10) & 0x7)
		inst.Zm = uint8((word >> 5) & 0x1F)
		inst.Zd = uint8(word & 0x1F)
		inst.Zn = inst.Zd
		inst.Predicated = true
		inst.Merging = true
		return nil
	case 0b001:
		if opc&0b111110 == 0b010000 {
			inst.Op = OpMOVPRFX
			inst.Format = FormatZPermute
			inst.Size = LaneSize((word >> 22) & 0x3)
			inst.Predicated = true
			inst.Merging = opc&1 == 1
			inst.Pg = uint8((word >> 10) & 0x7)
			inst.Zn = uint8((word >> 5) & 0x1F)
			inst.Zd = uint8(word & 0x1F)
			return nil
		}
		op, ok := zReduceOps[opc]
		if !ok {
			return unallocated(word)
		}
		inst.Size = LaneSize((word >> 22) & 0x3)
		if op == OpSADDV && inst.Size == LaneD {
			return unallocated(word)
		}
		inst.Op = op
		inst.Format = FormatZReduce
		inst.Pg = uint8((word >> 10) & 0x7)
		inst.Zn = uint8((word >> 5) & 0x1F)
		inst.Rd = uint8(word & 0x1F)
		return nil
	}
	return unallocated(word)
}

// decodeSVE05 handles the 00000101 opcode space: permutes and moves.
func (d *Decoder) decodeSVE05(word uint32, inst *Instruction) error {
	inst.Size = LaneSize((word >> 22) & 0x3)
	inst.Zd = uint8(word & 0x1F)

	switch {
	case word&(1<<21) != 0 && (word>>10)&0x3F == 0b001100:
		inst.Op = OpTBL
		inst.Format = FormatZPermute
		inst.Zm = uint8((word >> 16) & 0x1F)
		inst.Zn = uint8((word >> 5) & 0x1F)
		return nil
	case word&(1<<21) != 0 && (word>>14)&0x3 == 0b11:
		inst.Op = OpSEL
		inst.Format = FormatZPermute
		inst.Zm = uint8((word >> 16) & 0x1F)
		inst.Pg = uint8((word >> 10) & 0xF)
		inst.Zn = uint8((word >> 5) & 0x1F)
		return nil
	case (word>>16)&0x3F == 0b100000 && (word>>10)&0x3F == 0b001110:
		inst.Op = OpDUP
		inst.Format = FormatZPermute
		inst.Rn = uint8((word >> 5) & 0x1F)
		return nil
	case (word>>16)&0x3F == 0b100100 && (word>>10)&0x3F == 0b001110:
		inst.Op = OpINSR
		inst.Format = FormatZPermute
		inst.Rn = uint8((word >> 5) & 0x1F)
		return nil
	case (word>>16)&0x3F == 0b101000 && (word>>13)&0x7 == 0b101:
		inst.Op = OpCPY
		inst.Format = FormatZPermute
		inst.Predicated = true
		inst.Merging = true
		inst.Pg = uint8((word >> 10) & 0x7)
		inst.Rn = uint8((word >> 5) & 0x1F)
		return nil
	}
	return unallocated(word)
}

// decodeSVE25 handles the 00100101 opcode space: the predicate group,
// wide immediates, and compare-and-terminate.
func (d *Decoder) decodeSVE25(word uint32, inst *Instruction) error {
	size := LaneSize((word >> 22) & 0x3)

	// cterm: bit 23 and bit 21 set with 001000 in bits [15:10]
	if word&(1<<23) != 0 && word&(1<<21) != 0 && (word>>10)&0x3F == 0b001000 {
		if word&0xF != 0 {
			return reserved(word)
		}
		inst.Op = OpCTERMEQ
		if word&(1<<4) != 0 {
			inst.Op = OpCTERMNE
		}
		inst.Format = FormatCterm
		inst.Is64Bit = word&(1<<22) != 0
		inst.Rm = uint8((word >> 16) & 0x1F)
		inst.Rn = uint8((word >> 5) & 0x1F)
		return nil
	}

	// Wide immediates: bit 21 set with 11 in bits [15:14]
	if word&(1<<21) != 0 && (word>>14)&0x3 == 0b11 {
		return d.decodeWideImm(word, inst, size)
	}

	// Predicate logical: 00 in bits [21:20] with 01 in bits [15:14]
	if (word>>20)&0x3 == 0 && (word>>14)&0x3 == 0b01 {
		return d.decodePredLogical(word, inst)
	}

	opc := (word >> 16) & 0x3F // bits [21:16]
	hi6 := (word >> 10) & 0x3F // bits [15:10]

	switch {
	case opc == 0b011000 && hi6 == 0b111000:
		if word&(1<<4) != 0 {
			return reserved(word)
		}
		inst.Op = OpPTRUE
		inst.Format = FormatPredicate
		inst.Size = size
		inst.Pattern = Pattern((word >> 5) & 0x1F)
		inst.Pd = uint8(word & 0xF)
		return nil
	case opc == 0b011001 && hi6 == 0b111000:
		if word&(1<<4) != 0 {
			return reserved(word)
		}
		inst.Op = OpPTRUES
		inst.Format = FormatPredicate
		inst.Size = size
		inst.Pattern = Pattern((word >> 5) & 0x1F)
		inst.Pd = uint8(word & 0xF)
		return nil
	case opc == 0b011000 && hi6 == 0b111001:
		if size != LaneB {
			return unallocated(word)
		}
		if word&0x3F0 != 0 {
			return reserved(word)
		}
		inst.Op = OpPFALSE
		inst.Format = FormatPredicate
		inst.Size = LaneB
		inst.Pd = uint8(word & 0xF)
		return nil
	case opc == 0b011000 && hi6 == 0b110000:
		if size != LaneH { // the 01 size field is part of the pfirst pattern
			return unallocated(word)
		}
		if word&(1<<9) != 0 || word&(1<<4) != 0 {
			return reserved(word)
		}
		inst.Op = OpPFIRST
		inst.Format = FormatPredicate
		inst.Size = LaneB
		inst.Pg = uint8((word >> 5) & 0xF)
		inst.Pd = uint8(word & 0xF)
		return nil
	case opc == 0b011001 && hi6 == 0b110001:
		if word&(1<<9) != 0 || word&(1<<4) != 0 {
			return reserved(word)
		}
		inst.Op = OpPNEXT
		inst.Format = FormatPredicate
		inst.Size = size
		inst.Pg = uint8((word >> 5) & 0xF)
		inst.Pd = uint8(word & 0xF)
		return nil
	case opc == 0b010000 && (word>>14)&0x3 == 0b11 && (word>>22)&0x3 == 0b01:
		if word&(1<<9) != 0 || word&0x1F != 0 {
			return reserved(word)
		}
		inst.Op = OpPTEST
		inst.Format = FormatPredicate
		inst.Size = LaneB
		inst.Pg = uint8((word >> 10) & 0xF)
		inst.Pn = uint8((word >> 5) & 0xF)
		return nil
	case opc == 0b100000 && (word>>14)&0x3 == 0b10:
		if word&(1<<9) != 0 {
			return reserved(word)
		}
		inst.Op = OpCNTP
		inst.Format = FormatPredicate
		inst.Size = size
		inst.Is64Bit = true
		inst.Pg = uint8((word >> 10) & 0xF)
		inst.Pn = uint8((word >> 5) & 0xF)
		inst.Rd = uint8(word & 0x1F)
		return nil
	case (word>>18)&0xF == 0b1010 && (word>>11)&0x1F == 0b10001:
		if word&(1<<9) != 0 {
			return reserved(word)
		}
		inst.Op = satCntpOps[(word>>16)&0x3]
		inst.Format = FormatPredicate
		inst.Size = size
		inst.Is64Bit = word&(1<<10) != 0
		inst.Pm = uint8((word >> 5) & 0xF)
		inst.Rd = uint8(word & 0x1F)
		return nil
	case (word>>18)&0xF == 0b1011 && (word>>10)&0x3F == 0b100010:
		switch (word >> 16) & 0x3 {
		case 0b00:
			inst.Op = OpINCP
		case 0b01:
			inst.Op = OpDECP
		default:
			return unallocated(word)
		}
		if word&(1<<9) != 0 {
			return reserved(word)
		}
		inst.Format = FormatPredicate
		inst.Size = size
		inst.Is64Bit = true
		inst.Pm = uint8((word >> 5) & 0xF)
		inst.Rd = uint8(word & 0x1F)
		return nil
	}
	return unallocated(word)
}

func (d *Decoder) decodeWideImm(word uint32, inst *Instruction, size LaneSize) error {
	imm8 := (word >> 5) & 0xFF
	sh := (word >> 13) & 0x1
	inst.Format = FormatZWideImm
	inst.Size = size
	inst.Zd = uint8(word & 0x1F)
	inst.Zn = inst.Zd

	switch (word >> 19) & 0x3 { // bits [20:19]
	case 0b00:
		op, ok := zWideImmOps[(word>>16)&0x7]
		if !ok {
			return unallocated(word)
		}
		if sh == 1 && size == LaneB {
			return unallocated(word)
		}
		inst.Op = op
		inst.Imm = int64(imm8)
		inst.Shift = uint8(sh * 8)
		return nil
	case 0b01:
		op, ok := zMinMaxImmOps[(word>>16)&0x7]
		if !ok || sh != 0 {
			return unallocated(word)
		}
		inst.Op = op
		if op == OpSMAX || op == OpSMIN {
			inst.Imm = int64(int8(imm8))
		} else {
			inst.Imm = int64(imm8)
		}
		return nil
	case 0b10:
		if (word>>16)&0x7 != 0 || sh != 0 {
			return unallocated(word)
		}
		inst.Op = OpMUL
		inst.Imm = int64(int8(imm8))
		return nil
	case 0b11:
		if (word>>16)&0x7 != 0 {
			return unallocated(word)
		}
		if sh == 1 && size == LaneB {
			return unallocated(word)
		}
		inst.Op = OpDUP
		inst.Imm = int64(int8(imm8))
		inst.Shift = uint8(sh * 8)
		return nil
	}
	return unallocated(word)
}

func (d *Decoder) decodePredLogical(word uint32, inst *Instruction) error {
	op := word & (1 << 23)
	s := word & (1 << 22)
	o2 := word & (1 << 9)
	o3 := word & (1 << 4)

	switch {
	case op == 0 && s == 0 && o2 == 0 && o3 == 0:
		inst.Op = OpAND
	case op != 0 && s == 0 && o2 == 0 && o3 == 0:
		inst.Op = OpORR
	case op == 0 && s == 0 && o2 != 0 && o3 == 0:
		inst.Op = OpEOR
	case op == 0 && s == 0 && o2 != 0 && o3 != 0:
		inst.Op = OpSEL
	default:
		return unallocated(word)
	}
	inst.Format = FormatPredLogical
	inst.Size = LaneB
	inst.Pm = uint8((word >> 16) & 0xF)
	inst.Pg = uint8((word >> 10) & 0xF)
	inst.Pn = uint8((word >> 5) & 0xF)
	inst.Pd = uint8(word & 0xF)
	return nil
}

// isDPImm checks for add/sub immediate: bits [28:23] == 100010.
func (d *Decoder) isDPImm(word uint32) bool {
	return (word>>23)&0x3F == 0b100010
}

// decodeDPImm decodes add/sub immediate.
// Format: sf | op | S | 100010 | sh | imm12 | Rn | Rd
func (d *Decoder) decodeDPImm(word uint32, inst *Instruction) {
	inst.Format = FormatDPImm
	inst.Is64Bit = word>>31 == 1
	inst.SetFlags = (word>>29)&0x1 == 1
	inst.Imm = int64((word >> 10) & 0xFFF)
	inst.Rn = uint8((word >> 5) & 0x1F)
	inst.Rd = uint8(word & 0x1F)
	if (word>>22)&0x1 == 1 {
		inst.Shift = 12
	}
	inst.Op = OpADD
	if (word>>30)&0x1 == 1 {
		inst.Op = OpSUB
	}
}

// isMoveWide checks for movn/movz/movk: bits [28:23] == 100101.
func (d *Decoder) isMoveWide(word uint32) bool {
	return (word>>23)&0x3F == 0b100101
}

// decodeMoveWide decodes movn/movz/movk.
// Format: sf | opc | 100101 | hw | imm16 | Rd
func (d *Decoder) decodeMoveWide(word uint32, inst *Instruction) {
	inst.Format = FormatMoveWide
	inst.Is64Bit = word>>31 == 1
	inst.Imm = int64((word >> 5) & 0xFFFF)
	inst.Shift = uint8((word>>21)&0x3) * 16
	inst.Rd = uint8(word & 0x1F)
	switch (word >> 29) & 0x3 {
	case 0b00:
		inst.Op = OpMOVN
	case 0b10:
		inst.Op = OpMOVZ
	case 0b11:
		inst.Op = OpMOVK
	default:
		inst.Op = OpUnknown
		inst.Format = FormatUnknown
	}
}

// isVLoad checks for a scalar SIMD&FP load with unsigned offset:
// bits [29:24] == 111101 with opc == 01, or the 128-bit form with
// size == 00 and opc == 11.
func (d *Decoder) isVLoad(word uint32) bool {
	if (word>>24)&0x3F != 0b111101 {
		return false
	}
	opc := (word >> 22) & 0x3
	return opc == 0b01 || (opc == 0b11 && word>>30 == 0)
}

// decodeVLoad decodes ldr (scalar SIMD&FP, unsigned offset).
// Format: size | 111101 | opc | imm12 | Rn | Vt
func (d *Decoder) decodeVLoad(word uint32, inst *Instruction) {
	inst.Op = OpLDR
	inst.Format = FormatVLoad
	if (word>>22)&0x3 == 0b11 {
		inst.Size = LaneQ
	} else {
		inst.Size = LaneSize(word >> 30)
	}
	inst.Imm = int64((word>>10)&0xFFF) * int64(inst.Size.Bytes())
	inst.Rn = uint8((word >> 5) & 0x1F)
	inst.Rd = uint8(word & 0x1F)
}

func (d *Decoder) isSystem(word uint32) bool {
	return word == encNOP ||
		word&0xFFFFFFE0 == encMsrNzcv ||
		word&0xFFFFFFE0 == encMrsNzcv ||
		word&0xFFE0001F == baseHlt
}

func (d *Decoder) decodeSystem(word uint32, inst *Instruction) error {
	inst.Format = FormatSystem
	switch {
	case word == encNOP:
		inst.Op = OpNOP
	case word&0xFFFFFFE0 == encMsrNzcv:
		inst.Op = OpMSR
		inst.Rn = uint8(word & 0x1F)
	case word&0xFFFFFFE0 == encMrsNzcv:
		inst.Op = OpMRS
		inst.Rd = uint8(word & 0x1F)
	case word&0xFFE0001F == baseHlt:
		inst.Op = OpHLT
		inst.Imm = int64((word >> 5) & 0xFFFF)
	default:
		return unallocated(word)
	}
	return nil
}

func signed5(v uint32) int8 {
	if v&0x10 != 0 {
		return int8(v | 0xE0)
	}
	return int8(v)
}

func signed6(v uint32) int8 {
	if v&0x20 != 0 {
		return int8(v | 0xC0)
	}
	return int8(v)
}
