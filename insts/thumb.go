package insts

// T32 support: the IT instruction opening a one-instruction conditional
// block, and the 16-bit CMN (register) it guards. Halfwords are stored
// little-endian, so "it eq; cmn r0, r0" assembles to 08 bf c0 42.

// EncodeIT returns the halfword for an IT instruction with a
// single-instruction block.
// Format: 10111111 | firstcond | 1000
func EncodeIT(cond Cond) (uint16, error) {
	if cond == CondAL || cond == CondNV {
		return 0, encodingErr(OpIT, "condition %s not allowed", cond)
	}
	return baseT16It | uint16(cond)<<4 | 0b1000, nil
}

// EncodeCMN returns the halfword for CMN (register, T1).
// Format: 0100001011 | Rm | Rn
func EncodeCMN(rn, rm uint8) (uint16, error) {
	if rn > 7 {
		return 0, encodingErr(OpCMN, "r%d: only r0-r7 encodable", rn)
	}
	if rm > 7 {
		return 0, encodingErr(OpCMN, "r%d: only r0-r7 encodable", rm)
	}
	return baseT16Cmn | uint16(rm)<<3 | uint16(rn), nil
}

// EncodeConditionalCMN assembles "it <cond>; cmn <rn>, <rm>" into four
// little-endian bytes.
func EncodeConditionalCMN(cond Cond, rn, rm uint8) ([]byte, error) {
	it, err := EncodeIT(cond)
	if err != nil {
		return nil, err
	}
	cmn, err := EncodeCMN(rn, rm)
	if err != nil {
		return nil, err
	}
	return []byte{
		byte(it), byte(it >> 8),
		byte(cmn), byte(cmn >> 8),
	}, nil
}

// DecodeT16 decodes a single 16-bit T32 halfword.
func DecodeT16(hw uint16) (*Instruction, error) {
	inst := &Instruction{Format: FormatT16}

	switch {
	case hw&0xFF0F == baseT16It|0b1000:
		cond := Cond(hw >> 4 & 0xF)
		if cond == CondAL || cond == CondNV {
			return nil, unallocated(uint32(hw))
		}
		inst.Op = OpIT
		inst.Cond = cond
		return inst, nil
	case hw&0xFFC0 == baseT16Cmn:
		inst.Op = OpCMN
		inst.SetFlags = true
		inst.Rn = uint8(hw & 0x7)
		inst.Rm = uint8(hw >> 3 & 0x7)
		return inst, nil
	}
	return nil, unallocated(uint32(hw))
}

// DecodeConditionalCMN decodes the four-byte it/cmn pair produced by
// EncodeConditionalCMN.
func DecodeConditionalCMN(b []byte) (cond Cond, rn, rm uint8, err error) {
	if len(b) != 4 {
		return 0, 0, 0, unallocated(0)
	}
	it, err := DecodeT16(uint16(b[0]) | uint16(b[1])<<8)
	if err != nil {
		return 0, 0, 0, err
	}
	if it.Op != OpIT {
		return 0, 0, 0, unallocated(uint32(uint16(b[0]) | uint16(b[1])<<8))
	}
	cmn, err := DecodeT16(uint16(b[2]) | uint16(b[3])<<8)
	if err != nil {
		return 0, 0, 0, err
	}
	if cmn.Op != OpCMN {
		return 0, 0, 0, unallocated(uint32(uint16(b[2]) | uint16(b[3])<<8))
	}
	return it.Cond, cmn.Rn, cmn.Rm, nil
}
