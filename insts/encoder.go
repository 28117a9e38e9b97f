package insts

// Encoder produces canonical 32-bit instruction words. It is a pure
// function of the instruction: no state, no defaulting beyond the
// canonical field values the decoder reproduces.
type Encoder struct{}

// NewEncoder creates a new instruction encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Encode validates inst and returns its instruction word. The returned
// word decodes back to an instruction equal to the canonical form of
// inst; operand combinations without an encoding yield an EncodingError.
func (e *Encoder) Encode(inst *Instruction) (uint32, error) {
	if inst.Size > LaneD && !(inst.Size == LaneQ && inst.Format == FormatVLoad) {
		return 0, encodingErr(inst.Op, "lane size %v not encodable here", inst.Size)
	}
	switch inst.Format {
	case FormatZArith:
		return e.encodeZArith(inst)
	case FormatZLogical:
		return e.encodeZLogical(inst)
	case FormatZPred:
		return e.encodeZPred(inst)
	case FormatZWideImm:
		return e.encodeZWideImm(inst)
	case FormatZPermute:
		return e.encodeZPermute(inst)
	case FormatZReduce:
		return e.encodeZReduce(inst)
	case FormatPredicate:
		return e.encodePredicate(inst)
	case FormatPredLogical:
		return e.encodePredLogical(inst)
	case FormatCterm:
		return e.encodeCterm(inst)
	case FormatVLoad:
		return e.encodeVLoad(inst)
	case FormatDPImm:
		return e.encodeDPImm(inst)
	case FormatMoveWide:
		return e.encodeMoveWide(inst)
	case FormatSystem:
		return e.encodeSystem(inst)
	}
	return 0, encodingErr(inst.Op, "unsupported format %d", inst.Format)
}

func checkZReg(op Op, name string, z uint8) error {
	if z >= NumZRegs {
		return encodingErr(op, "%s: z%d out of range", name, z)
	}
	return nil
}

func checkPReg(op Op, name string, p uint8) error {
	if p >= NumPRegs {
		return encodingErr(op, "%s: p%d out of range", name, p)
	}
	return nil
}

// checkGovPReg validates a governing predicate carried in a 3-bit field.
func checkGovPReg(op Op, p uint8) error {
	if p >= 8 {
		return encodingErr(op, "governing predicate p%d: only p0-p7 allowed", p)
	}
	return nil
}

func checkGPReg(op Op, name string, r uint8) error {
	if r >= NumGPRegs {
		return encodingErr(op, "%s: register %d out of range", name, r)
	}
	return nil
}

func (e *Encoder) encodeZArith(inst *Instruction) (uint32, error) {
	opc, ok := zArithOpc[inst.Op]
	if !ok {
		return 0, encodingErr(inst.Op, "not an unpredicated vector arithmetic op")
	}
	for _, c := range []error{
		checkZReg(inst.Op, "Zd", inst.Zd),
		checkZReg(inst.Op, "Zn", inst.Zn),
		checkZReg(inst.Op, "Zm", inst.Zm),
	} {
		if c != nil {
			return 0, c
		}
	}
	return baseZArith | uint32(inst.Size)<<22 | uint32(inst.Zm)<<16 |
		opc<<10 | uint32(inst.Zn)<<5 | uint32(inst.Zd), nil
}

func (e *Encoder) encodeZLogical(inst *Instruction) (uint32, error) {
	opc, ok := zLogicalOpc[inst.Op]
	if !ok {
		return 0, encodingErr(inst.Op, "not an unpredicated vector logical op")
	}
	if inst.Size != LaneD {
		return 0, encodingErr(inst.Op, "bitwise form is untyped; use the d qualifier")
	}
	for _, c := range []error{
		checkZReg(inst.Op, "Zd", inst.Zd),
		checkZReg(inst.Op, "Zn", inst.Zn),
		checkZReg(inst.Op, "Zm", inst.Zm),
	} {
		if c != nil {
			return 0, c
		}
	}
	return baseZLogical | opc<<22 | uint32(inst.Zm)<<16 |
		uint32(inst.Zn)<<5 | uint32(inst.Zd), nil
}

func (e *Encoder) encodeZPred(inst *Instruction) (uint32, error) {
	opc, ok := zPredOpc[inst.Op]
	if !ok {
		return 0, encodingErr(inst.Op, "no predicated destructive form")
	}
	if inst.Zn != inst.Zd {
		return 0, encodingErr(inst.Op,
			"destructive form requires Zd == Zn (z%d != z%d)", inst.Zd, inst.Zn)
	}
	if !inst.Merging {
		return 0, encodingErr(inst.Op, "predicated form is merging only")
	}
	if (inst.Op == OpSDIV || inst.Op == OpUDIV) &&
		inst.Size != LaneS && inst.Size != LaneD {
		return 0, encodingErr(inst.Op, "divide defined for s and d lanes only")
	}
	if err := checkGovPReg(inst.Op, inst.Pg); err != nil {
		return 0, err
	}
	for _, c := range []error{
		checkZReg(inst.Op, "Zdn", inst.Zd),
		checkZReg(inst.Op, "Zm", inst.Zm),
	} {
		if c != nil {
			return 0, c
		}
	}
	return baseZPred | uint32(inst.Size)<<22 | opc<<16 |
		uint32(inst.Pg)<<10 | uint32(inst.Zm)<<5 | uint32(inst.Zd), nil
}

func (e *Encoder) encodeZWideImm(inst *Instruction) (uint32, error) {
	if err := checkZReg(inst.Op, "Zdn", inst.Zd); err != nil {
		return 0, err
	}

	if opc, ok := zWideImmOpc[inst.Op]; ok {
		if inst.Imm < 0 || inst.Imm > 255 {
			return 0, encodingErr(inst.Op, "immediate %d out of range 0-255", inst.Imm)
		}
		sh, err := shiftBit(inst)
		if err != nil {
			return 0, err
		}
		return baseZWideImm | uint32(inst.Size)<<22 | opc<<16 | sh<<13 |
			uint32(inst.Imm)<<5 | uint32(inst.Zd), nil
	}

	if opc, ok := zMinMaxImmOpc[inst.Op]; ok {
		if err := checkImm8(inst, inst.Op == OpSMAX || inst.Op == OpSMIN); err != nil {
			return 0, err
		}
		if inst.Shift != 0 {
			return 0, encodingErr(inst.Op, "immediate form takes no shift")
		}
		return baseZMinMaxImm | uint32(inst.Size)<<22 | opc<<16 |
			uint32(uint8(inst.Imm))<<5 | uint32(inst.Zd), nil
	}

	switch inst.Op {
	case OpMUL:
		if err := checkImm8(inst, true); err != nil {
			return 0, err
		}
		if inst.Shift != 0 {
			return 0, encodingErr(inst.Op, "immediate form takes no shift")
		}
		return baseZMulImm | uint32(inst.Size)<<22 |
			uint32(uint8(inst.Imm))<<5 | uint32(inst.Zd), nil
	case OpDUP:
		if err := checkImm8(inst, true); err != nil {
			return 0, err
		}
		sh, err := shiftBit(inst)
		if err != nil {
			return 0, err
		}
		return baseDupImm | uint32(inst.Size)<<22 | sh<<13 |
			uint32(uint8(inst.Imm))<<5 | uint32(inst.Zd), nil
	}
	return 0, encodingErr(inst.Op, "no wide-immediate form")
}

func shiftBit(inst *Instruction) (uint32, error) {
	switch inst.Shift {
	case 0:
		return 0, nil
	case 8:
		if inst.Size == LaneB {
			return 0, encodingErr(inst.Op, "lsl #8 not available for b lanes")
		}
		return 1, nil
	}
	return 0, encodingErr(inst.Op, "shift must be 0 or 8, got %d", inst.Shift)
}

func checkImm8(inst *Instruction, signed bool) error {
	if signed {
		if inst.Imm < -128 || inst.Imm > 127 {
			return encodingErr(inst.Op, "immediate %d out of range -128..127", inst.Imm)
		}
		return nil
	}
	if inst.Imm < 0 || inst.Imm > 255 {
		return encodingErr(inst.Op, "immediate %d out of range 0-255", inst.Imm)
	}
	return nil
}

func (e *Encoder) encodeZPermute(inst *Instruction) (uint32, error) {
	switch inst.Op {
	case OpTBL:
		for _, c := range []error{
			checkZReg(inst.Op, "Zd", inst.Zd),
			checkZReg(inst.Op, "Zn", inst.Zn),
			checkZReg(inst.Op, "Zm", inst.Zm),
		} {
			if c != nil {
				return 0, c
			}
		}
		return baseTbl | uint32(inst.Size)<<22 | uint32(inst.Zm)<<16 |
			uint32(inst.Zn)<<5 | uint32(inst.Zd), nil

	case OpINSR:
		if err := checkZReg(inst.Op, "Zdn", inst.Zd); err != nil {
			return 0, err
		}
		if err := checkGPReg(inst.Op, "Rm", inst.Rn); err != nil {
			return 0, err
		}
		return baseInsr | uint32(inst.Size)<<22 |
			uint32(inst.Rn)<<5 | uint32(inst.Zd), nil

	case OpINDEX:
		if err := checkZReg(inst.Op, "Zd", inst.Zd); err != nil {
			return 0, err
		}
		if inst.Imm < -16 || inst.Imm > 15 {
			return 0, encodingErr(inst.Op, "start %d out of range -16..15", inst.Imm)
		}
		if inst.Imm2 < -16 || inst.Imm2 > 15 {
			return 0, encodingErr(inst.Op, "step %d out of range -16..15", inst.Imm2)
		}
		return baseIndexImm | uint32(inst.Size)<<22 |
			uint32(uint8(inst.Imm2)&0x1F)<<16 |
			uint32(uint8(inst.Imm)&0x1F)<<5 | uint32(inst.Zd), nil

	case OpDUP:
		if err := checkZReg(inst.Op, "Zd", inst.Zd); err != nil {
			return 0, err
		}
		if err := checkGPReg(inst.Op, "Rn", inst.Rn); err != nil {
			return 0, err
		}
		return baseDupScalar | uint32(inst.Size)<<22 |
			uint32(inst.Rn)<<5 | uint32(inst.Zd), nil

	case OpSEL:
		if err := checkPReg(inst.Op, "Pv", inst.Pg); err != nil {
			return 0, err
		}
		for _, c := range []error{
			checkZReg(inst.Op, "Zd", inst.Zd),
			checkZReg(inst.Op, "Zn", inst.Zn),
			checkZReg(inst.Op, "Zm", inst.Zm),
		} {
			if c != nil {
				return 0, c
			}
		}
		return baseSel | uint32(inst.Size)<<22 | uint32(inst.Zm)<<16 |
			uint32(inst.Pg)<<10 | uint32(inst.Zn)<<5 | uint32(inst.Zd), nil

	case OpCPY:
		if !inst.Merging {
			return 0, encodingErr(inst.Op, "scalar form is merging only")
		}
		if err := checkGovPReg(inst.Op, inst.Pg); err != nil {
			return 0, err
		}
		if err := checkZReg(inst.Op, "Zd", inst.Zd); err != nil {
			return 0, err
		}
		if err := checkGPReg(inst.Op, "Rn", inst.Rn); err != nil {
			return 0, err
		}
		return baseCpy | uint32(inst.Size)<<22 | uint32(inst.Pg)<<10 |
			uint32(inst.Rn)<<5 | uint32(inst.Zd), nil

	case OpMOVPRFX:
		for _, c := range []error{
			checkZReg(inst.Op, "Zd", inst.Zd),
			checkZReg(inst.Op, "Zn", inst.Zn),
		} {
			if c != nil {
				return 0, c
			}
		}
		if !inst.Predicated {
			if inst.Size != LaneD {
				return 0, encodingErr(inst.Op, "unpredicated form is untyped; use the d qualifier")
			}
			return baseMovprfx | uint32(inst.Zn)<<5 | uint32(inst.Zd), nil
		}
		if err := checkGovPReg(inst.Op, inst.Pg); err != nil {
			return 0, err
		}
		m := uint32(0)
		if inst.Merging {
			m = 1
		}
		return baseMovprfxPred | uint32(inst.Size)<<22 | m<<16 |
			uint32(inst.Pg)<<10 | uint32(inst.Zn)<<5 | uint32(inst.Zd), nil
	}
	return 0, encodingErr(inst.Op, "not a permute/move op")
}

func (e *Encoder) encodeZReduce(inst *Instruction) (uint32, error) {
	opc, ok := zReduceOpc[inst.Op]
	if !ok {
		return 0, encodingErr(inst.Op, "not a reduction op")
	}
	if inst.Op == OpSADDV && inst.Size == LaneD {
		return 0, encodingErr(inst.Op, "no d-lane form; use uaddv")
	}
	if err := checkGovPReg(inst.Op, inst.Pg); err != nil {
		return 0, err
	}
	if err := checkZReg(inst.Op, "Zn", inst.Zn); err != nil {
		return 0, err
	}
	if err := checkGPReg(inst.Op, "Vd", inst.Rd); err != nil {
		return 0, err
	}
	return baseZReduce | uint32(inst.Size)<<22 | opc<<16 |
		uint32(inst.Pg)<<10 | uint32(inst.Zn)<<5 | uint32(inst.Rd), nil
}

func (e *Encoder) encodePredicate(inst *Instruction) (uint32, error) {
	switch inst.Op {
	case OpPTRUE, OpPTRUES:
		if err := checkPReg(inst.Op, "Pd", inst.Pd); err != nil {
			return 0, err
		}
		base := uint32(basePtrue)
		if inst.Op == OpPTRUES {
			base = basePtrues
		}
		return base | uint32(inst.Size)<<22 |
			uint32(inst.Pattern)<<5 | uint32(inst.Pd), nil

	case OpPFALSE:
		if inst.Size != LaneB {
			return 0, encodingErr(inst.Op, "b lanes only")
		}
		if err := checkPReg(inst.Op, "Pd", inst.Pd); err != nil {
			return 0, err
		}
		return basePfalse | uint32(inst.Pd), nil

	case OpPTEST:
		if inst.Size != LaneB {
			return 0, encodingErr(inst.Op, "b lanes only")
		}
		if err := checkPReg(inst.Op, "Pg", inst.Pg); err != nil {
			return 0, err
		}
		if err := checkPReg(inst.Op, "Pn", inst.Pn); err != nil {
			return 0, err
		}
		return basePtest | uint32(inst.Pg)<<10 | uint32(inst.Pn)<<5, nil

	case OpPFIRST:
		if inst.Size != LaneB {
			return 0, encodingErr(inst.Op, "b lanes only")
		}
		if err := checkPReg(inst.Op, "Pdn", inst.Pd); err != nil {
			return 0, err
		}
		if err := checkPReg(inst.Op, "Pg", inst.Pg); err != nil {
			return 0, err
		}
		return basePfirst | uint32(inst.Pg)<<5 | uint32(inst.Pd), nil

	case OpPNEXT:
		if err := checkPReg(inst.Op, "Pdn", inst.Pd); err != nil {
			return 0, err
		}
		if err := checkPReg(inst.Op, "Pg", inst.Pg); err != nil {
			return 0, err
		}
		return basePnext | uint32(inst.Size)<<22 |
			uint32(inst.Pg)<<5 | uint32(inst.Pd), nil

	case OpCNTP:
		if err := checkPReg(inst.Op, "Pg", inst.Pg); err != nil {
			return 0, err
		}
		if err := checkPReg(inst.Op, "Pn", inst.Pn); err != nil {
			return 0, err
		}
		if err := checkGPReg(inst.Op, "Rd", inst.Rd); err != nil {
			return 0, err
		}
		if !inst.Is64Bit {
			return 0, encodingErr(inst.Op, "destination must be an X register")
		}
		return baseCntp | uint32(inst.Size)<<22 |
			uint32(inst.Pg)<<10 | uint32(inst.Pn)<<5 | uint32(inst.Rd), nil

	case OpINCP, OpDECP:
		if err := checkPReg(inst.Op, "Pm", inst.Pm); err != nil {
			return 0, err
		}
		if err := checkGPReg(inst.Op, "Rdn", inst.Rd); err != nil {
			return 0, err
		}
		if !inst.Is64Bit {
			return 0, encodingErr(inst.Op, "accumulator must be an X register")
		}
		base := uint32(baseIncp)
		if inst.Op == OpDECP {
			base = baseDecp
		}
		return base | uint32(inst.Size)<<22 |
			uint32(inst.Pm)<<5 | uint32(inst.Rd), nil

	case OpSQINCP, OpUQINCP, OpSQDECP, OpUQDECP:
		if err := checkPReg(inst.Op, "Pm", inst.Pm); err != nil {
			return 0, err
		}
		if err := checkGPReg(inst.Op, "Rdn", inst.Rd); err != nil {
			return 0, err
		}
		du := satCntpBits[inst.Op]
		sf := uint32(0)
		if inst.Is64Bit {
			sf = 1
		}
		return baseSatCntp | uint32(inst.Size)<<22 | du<<16 | sf<<10 |
			uint32(inst.Pm)<<5 | uint32(inst.Rd), nil
	}
	return 0, encodingErr(inst.Op, "not a predicate op")
}

func (e *Encoder) encodePredLogical(inst *Instruction) (uint32, error) {
	base, ok := predLogicalBase[inst.Op]
	if !ok {
		return 0, encodingErr(inst.Op, "no predicate logical form")
	}
	if inst.Size != LaneB {
		return 0, encodingErr(inst.Op, "b lanes only")
	}
	for _, c := range []error{
		checkPReg(inst.Op, "Pd", inst.Pd),
		checkPReg(inst.Op, "Pn", inst.Pn),
		checkPReg(inst.Op, "Pm", inst.Pm),
		checkPReg(inst.Op, "Pg", inst.Pg),
	} {
		if c != nil {
			return 0, c
		}
	}
	return base | uint32(inst.Pm)<<16 | uint32(inst.Pg)<<10 |
		uint32(inst.Pn)<<5 | uint32(inst.Pd), nil
}

func (e *Encoder) encodeCterm(inst *Instruction) (uint32, error) {
	if inst.Op != OpCTERMEQ && inst.Op != OpCTERMNE {
		return 0, encodingErr(inst.Op, "not a compare-and-terminate op")
	}
	if err := checkGPReg(inst.Op, "Rn", inst.Rn); err != nil {
		return 0, err
	}
	if err := checkGPReg(inst.Op, "Rm", inst.Rm); err != nil {
		return 0, err
	}
	word := uint32(baseCterm) | uint32(inst.Rm)<<16 | uint32(inst.Rn)<<5
	if inst.Is64Bit {
		word |= 1 << 22
	}
	if inst.Op == OpCTERMNE {
		word |= 1 << 4
	}
	return word, nil
}

func (e *Encoder) encodeVLoad(inst *Instruction) (uint32, error) {
	if inst.Op != OpLDR {
		return 0, encodingErr(inst.Op, "not a vector load")
	}
	if err := checkGPReg(inst.Op, "Rn", inst.Rn); err != nil {
		return 0, err
	}
	if err := checkGPReg(inst.Op, "Vt", inst.Rd); err != nil {
		return 0, err
	}
	scale := int64(inst.Size.Bytes())
	if inst.Imm < 0 || inst.Imm%scale != 0 || inst.Imm/scale > 0xFFF {
		return 0, encodingErr(inst.Op,
			"offset %d not a multiple of %d in range", inst.Imm, scale)
	}
	if inst.Size == LaneQ {
		return baseVLoadQ | uint32(inst.Imm/scale)<<10 |
			uint32(inst.Rn)<<5 | uint32(inst.Rd), nil
	}
	return baseVLoad | uint32(inst.Size)<<30 | uint32(inst.Imm/scale)<<10 |
		uint32(inst.Rn)<<5 | uint32(inst.Rd), nil
}

func (e *Encoder) encodeDPImm(inst *Instruction) (uint32, error) {
	if inst.Op != OpADD && inst.Op != OpSUB {
		return 0, encodingErr(inst.Op, "not an add/sub immediate")
	}
	if inst.Imm < 0 || inst.Imm > 0xFFF {
		return 0, encodingErr(inst.Op, "immediate %d out of range 0-4095", inst.Imm)
	}
	if inst.Shift != 0 && inst.Shift != 12 {
		return 0, encodingErr(inst.Op, "shift must be 0 or 12")
	}
	if err := checkGPReg(inst.Op, "Rd", inst.Rd); err != nil {
		return 0, err
	}
	if err := checkGPReg(inst.Op, "Rn", inst.Rn); err != nil {
		return 0, err
	}
	word := uint32(baseDPImm) | uint32(inst.Imm)<<10 |
		uint32(inst.Rn)<<5 | uint32(inst.Rd)
	if inst.Is64Bit {
		word |= 1 << 31
	}
	if inst.Op == OpSUB {
		word |= 1 << 30
	}
	if inst.SetFlags {
		word |= 1 << 29
	}
	if inst.Shift == 12 {
		word |= 1 << 22
	}
	return word, nil
}

func (e *Encoder) encodeMoveWide(inst *Instruction) (uint32, error) {
	var opc uint32
	switch inst.Op {
	case OpMOVN:
		opc = 0b00
	case OpMOVZ:
		opc = 0b10
	case OpMOVK:
		opc = 0b11
	default:
		return 0, encodingErr(inst.Op, "not a move-wide op")
	}
	if inst.Imm < 0 || inst.Imm > 0xFFFF {
		return 0, encodingErr(inst.Op, "immediate %d out of range 0-65535", inst.Imm)
	}
	if inst.Shift%16 != 0 || inst.Shift > 48 || (!inst.Is64Bit && inst.Shift > 16) {
		return 0, encodingErr(inst.Op, "invalid hw shift %d", inst.Shift)
	}
	if err := checkGPReg(inst.Op, "Rd", inst.Rd); err != nil {
		return 0, err
	}
	word := uint32(baseMoveWide) | opc<<29 | uint32(inst.Shift/16)<<21 |
		uint32(inst.Imm)<<5 | uint32(inst.Rd)
	if inst.Is64Bit {
		word |= 1 << 31
	}
	return word, nil
}

func (e *Encoder) encodeSystem(inst *Instruction) (uint32, error) {
	switch inst.Op {
	case OpNOP:
		return encNOP, nil
	case OpHLT:
		if inst.Imm < 0 || inst.Imm > 0xFFFF {
			return 0, encodingErr(inst.Op, "immediate %d out of range 0-65535", inst.Imm)
		}
		return baseHlt | uint32(inst.Imm)<<5, nil
	case OpMSR:
		if err := checkGPReg(inst.Op, "Rn", inst.Rn); err != nil {
			return 0, err
		}
		return encMsrNzcv | uint32(inst.Rn), nil
	case OpMRS:
		if err := checkGPReg(inst.Op, "Rd", inst.Rd); err != nil {
			return 0, err
		}
		return encMrsNzcv | uint32(inst.Rd), nil
	case OpRDVL:
		if err := checkGPReg(inst.Op, "Rd", inst.Rd); err != nil {
			return 0, err
		}
		if inst.Imm < -32 || inst.Imm > 31 {
			return 0, encodingErr(inst.Op, "multiplier %d out of range -32..31", inst.Imm)
		}
		return baseRdvl | uint32(uint8(inst.Imm)&0x3F)<<5 | uint32(inst.Rd), nil
	}
	return 0, encodingErr(inst.Op, "not a system op")
}
