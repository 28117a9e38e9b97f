package insts

import "strconv"

// Register file dimensions.
const (
	NumGPRegs = 32 // X0-X30 plus XZR/SP as register 31
	NumZRegs  = 32 // scalable vector registers Z0-Z31
	NumPRegs  = 16 // predicate registers P0-P15
)

// Vector length limits in bits. VL is any multiple of 128.
const (
	MinVL = 128
	MaxVL = 2048
)

// ValidVL reports whether vl is a legal vector length in bits.
func ValidVL(vl int) bool {
	return vl >= MinVL && vl <= MaxVL && vl%128 == 0
}

// LaneSize is the element size of a vector or predicate operand.
type LaneSize uint8

// Lane sizes. B through D are encoded as the two-bit size field; Q only
// exists for the scalar SIMD load.
const (
	LaneB LaneSize = 0b00  // 8-bit
	LaneH LaneSize = 0b01  // 16-bit
	LaneS LaneSize = 0b10  // 32-bit
	LaneD LaneSize = 0b11  // 64-bit
	LaneQ LaneSize = 0b100 // 128-bit
)

// Bytes returns the lane width in bytes.
func (s LaneSize) Bytes() int {
	return 1 << s
}

// Bits returns the lane width in bits.
func (s LaneSize) Bits() int {
	return 8 << s
}

func (s LaneSize) String() string {
	switch s {
	case LaneB:
		return "b"
	case LaneH:
		return "h"
	case LaneS:
		return "s"
	case LaneD:
		return "d"
	case LaneQ:
		return "q"
	}
	return "?"
}

// Pattern is a predicate constraint pattern for PTRUE and friends.
type Pattern uint8

// Predicate patterns. Unlisted encodings (14..28 except MUL4/MUL3) set
// zero lanes.
const (
	PatternPOW2  Pattern = 0b00000
	PatternVL1   Pattern = 0b00001
	PatternVL2   Pattern = 0b00010
	PatternVL3   Pattern = 0b00011
	PatternVL4   Pattern = 0b00100
	PatternVL5   Pattern = 0b00101
	PatternVL6   Pattern = 0b00110
	PatternVL7   Pattern = 0b00111
	PatternVL8   Pattern = 0b01000
	PatternVL16  Pattern = 0b01001
	PatternVL32  Pattern = 0b01010
	PatternVL64  Pattern = 0b01011
	PatternVL128 Pattern = 0b01100
	PatternVL256 Pattern = 0b01101
	PatternMUL4  Pattern = 0b11101
	PatternMUL3  Pattern = 0b11110
	PatternALL   Pattern = 0b11111
)

// LaneCount returns how many of the available lanes the pattern selects.
// avail is the number of lanes the vector holds at the current VL.
func (p Pattern) LaneCount(avail int) int {
	switch {
	case p == PatternPOW2:
		n := 1
		for n*2 <= avail {
			n *= 2
		}
		return n
	case p >= PatternVL1 && p <= PatternVL8:
		n := int(p)
		if n > avail {
			return 0
		}
		return n
	case p >= PatternVL16 && p <= PatternVL256:
		n := 16 << (p - PatternVL16)
		if n > avail {
			return 0
		}
		return n
	case p == PatternMUL4:
		return avail &^ 3
	case p == PatternMUL3:
		return avail - avail%3
	case p == PatternALL:
		return avail
	}
	return 0
}

func (p Pattern) String() string {
	switch {
	case p == PatternPOW2:
		return "pow2"
	case p >= PatternVL1 && p <= PatternVL8:
		return "vl" + strconv.Itoa(int(p))
	case p >= PatternVL16 && p <= PatternVL256:
		return "vl" + strconv.Itoa(16<<(p-PatternVL16))
	case p == PatternMUL4:
		return "mul4"
	case p == PatternMUL3:
		return "mul3"
	case p == PatternALL:
		return "all"
	}
	return "#" + strconv.Itoa(int(p))
}
