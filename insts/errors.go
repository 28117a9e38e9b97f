package insts

import "fmt"

// EncodingError reports an operand combination the encoder cannot express.
type EncodingError struct {
	Mnemonic string
	Reason   string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("cannot encode %s: %s", e.Mnemonic, e.Reason)
}

func encodingErr(op Op, format string, args ...any) error {
	return &EncodingError{
		Mnemonic: op.String(),
		Reason:   fmt.Sprintf(format, args...),
	}
}

// DecodeKind classifies a decoding failure.
type DecodeKind uint8

// Decoding failure kinds.
const (
	// KindUnallocated means the word matches no known encoding.
	KindUnallocated DecodeKind = iota
	// KindReserved means the word matches a known pattern but sets bits
	// the encoding defines as zero.
	KindReserved
)

func (k DecodeKind) String() string {
	if k == KindReserved {
		return "reserved"
	}
	return "unallocated"
}

// DecodingError reports a word that does not correspond to any canonical
// instruction.
type DecodingError struct {
	Word uint32
	Kind DecodeKind
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("%s encoding 0x%08X", e.Kind, e.Word)
}

func unallocated(word uint32) error {
	return &DecodingError{Word: word, Kind: KindUnallocated}
}

func reserved(word uint32) error {
	return &DecodingError{Word: word, Kind: KindReserved}
}
