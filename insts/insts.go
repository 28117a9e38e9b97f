// Package insts provides instruction definitions, encoding, and decoding
// for the A64 SVE subset and the T32 conditional-compare pair.
//
// Encoding and decoding share one table of bit patterns, so the decoder is
// an exact inverse of the encoder: for any instruction the encoder accepts,
// decoding the produced word yields the same canonical instruction.
//
// Usage:
//
//	enc := insts.NewEncoder()
//	word, err := enc.Encode(&insts.Instruction{
//		Op: insts.OpADD, Format: insts.FormatZArith,
//		Size: insts.LaneS, Zd: 0, Zn: 1, Zm: 2,
//	})
//
//	dec := insts.NewDecoder()
//	inst, err := dec.Decode(word)
package insts
