package emu

import (
	"encoding/binary"

	"github.com/sarchlab/svesim/insts"
)

// MaxVLBytes is the storage reserved per Z register (2048 bits).
const MaxVLBytes = insts.MaxVL / 8

// PRegBytes is the storage reserved per predicate register: one bit per
// byte of a Z register.
const PRegBytes = MaxVLBytes / 8

// ZRegFile holds the scalable vector registers. Only the low VL bits of
// each register are architecturally visible; the file is created with a
// fixed vector length.
type ZRegFile struct {
	data    [insts.NumZRegs][MaxVLBytes]byte
	vlBytes int
}

// NewZRegFile creates a vector register file with the given vector
// length in bits. vl must satisfy insts.ValidVL.
func NewZRegFile(vl int) *ZRegFile {
	return &ZRegFile{vlBytes: vl / 8}
}

// VL returns the vector length in bits.
func (z *ZRegFile) VL() int { return z.vlBytes * 8 }

// VLBytes returns the vector length in bytes.
func (z *ZRegFile) VLBytes() int { return z.vlBytes }

// Lanes returns the number of lanes a vector holds at the given size.
func (z *ZRegFile) Lanes(size insts.LaneSize) int {
	return z.vlBytes / size.Bytes()
}

// Bytes returns the visible bytes of register zr. The slice aliases the
// register storage.
func (z *ZRegFile) Bytes(zr uint8) []byte {
	return z.data[zr][:z.vlBytes]
}

// ReadLane reads the lane at the given index, zero-extended to 64 bits.
func (z *ZRegFile) ReadLane(zr uint8, lane int, size insts.LaneSize) uint64 {
	off := lane * size.Bytes()
	switch size {
	case insts.LaneB:
		return uint64(z.data[zr][off])
	case insts.LaneH:
		return uint64(binary.LittleEndian.Uint16(z.data[zr][off:]))
	case insts.LaneS:
		return uint64(binary.LittleEndian.Uint32(z.data[zr][off:]))
	}
	return binary.LittleEndian.Uint64(z.data[zr][off:])
}

// ReadLaneSigned reads the lane at the given index, sign-extended to 64
// bits.
func (z *ZRegFile) ReadLaneSigned(zr uint8, lane int, size insts.LaneSize) int64 {
	v := z.ReadLane(zr, lane, size)
	shift := 64 - uint(size.Bits())
	return int64(v<<shift) >> shift
}

// WriteLane writes the low size bits of value into the lane at the given
// index.
func (z *ZRegFile) WriteLane(zr uint8, lane int, size insts.LaneSize, value uint64) {
	off := lane * size.Bytes()
	switch size {
	case insts.LaneB:
		z.data[zr][off] = byte(value)
	case insts.LaneH:
		binary.LittleEndian.PutUint16(z.data[zr][off:], uint16(value))
	case insts.LaneS:
		binary.LittleEndian.PutUint32(z.data[zr][off:], uint32(value))
	default:
		binary.LittleEndian.PutUint64(z.data[zr][off:], value)
	}
}

// WriteScalar writes value into lane 0 at the given size and clears every
// byte above it up to VL. This models the fixed-width view of the
// register: a V-register write zeroes the scalable tail.
func (z *ZRegFile) WriteScalar(zr uint8, size insts.LaneSize, value uint64) {
	for i := size.Bytes(); i < z.vlBytes; i++ {
		z.data[zr][i] = 0
	}
	z.WriteLane(zr, 0, size, value)
}

// WriteQuad writes a 128-bit value, low doubleword first, into the
// bottom of zr and clears the scalable tail.
func (z *ZRegFile) WriteQuad(zr uint8, lo, hi uint64) {
	for i := 16; i < z.vlBytes; i++ {
		z.data[zr][i] = 0
	}
	binary.LittleEndian.PutUint64(z.data[zr][0:8], lo)
	binary.LittleEndian.PutUint64(z.data[zr][8:16], hi)
}

// Copy copies the visible bytes of src into dst.
func (z *ZRegFile) Copy(dst, src uint8) {
	copy(z.data[dst][:z.vlBytes], z.data[src][:z.vlBytes])
}

// PRegFile holds the predicate registers. Bit i of a predicate governs
// byte i of a Z register; a lane of 2^s bytes is active when the lowest
// bit of its segment is set.
type PRegFile struct {
	data    [insts.NumPRegs][PRegBytes]byte
	vlBytes int
}

// NewPRegFile creates a predicate register file matching a vector length
// in bits.
func NewPRegFile(vl int) *PRegFile {
	return &PRegFile{vlBytes: vl / 8}
}

// NumBits returns the number of architecturally visible predicate bits.
func (p *PRegFile) NumBits() int { return p.vlBytes }

// Bit reads predicate bit i.
func (p *PRegFile) Bit(pr uint8, i int) bool {
	return p.data[pr][i/8]&(1<<(i%8)) != 0
}

// SetBit writes predicate bit i.
func (p *PRegFile) SetBit(pr uint8, i int, v bool) {
	if v {
		p.data[pr][i/8] |= 1 << (i % 8)
	} else {
		p.data[pr][i/8] &^= 1 << (i % 8)
	}
}

// IsActive reports whether the lane at the given index is active. Only
// the lowest bit of the lane's segment matters; the rest are ignored.
func (p *PRegFile) IsActive(pr uint8, lane int, size insts.LaneSize) bool {
	return p.Bit(pr, lane*size.Bytes())
}

// SetLane marks a lane active or inactive. The canonical form sets the
// segment's low bit and clears the remainder.
func (p *PRegFile) SetLane(pr uint8, lane int, size insts.LaneSize, active bool) {
	base := lane * size.Bytes()
	p.SetBit(pr, base, active)
	for i := 1; i < size.Bytes(); i++ {
		p.SetBit(pr, base+i, false)
	}
}

// Clear deactivates every bit of register pr.
func (p *PRegFile) Clear(pr uint8) {
	for i := range p.data[pr] {
		p.data[pr][i] = 0
	}
}

// Copy copies the visible bits of src into dst.
func (p *PRegFile) Copy(dst, src uint8) {
	copy(p.data[dst][:], p.data[src][:])
}

// AnyActive reports whether pr has any active lane at the given size.
func (p *PRegFile) AnyActive(pr uint8, size insts.LaneSize) bool {
	lanes := p.vlBytes / size.Bytes()
	for i := 0; i < lanes; i++ {
		if p.IsActive(pr, i, size) {
			return true
		}
	}
	return false
}

// CountActive returns the number of active lanes at the given size.
func (p *PRegFile) CountActive(pr uint8, size insts.LaneSize) int {
	lanes := p.vlBytes / size.Bytes()
	n := 0
	for i := 0; i < lanes; i++ {
		if p.IsActive(pr, i, size) {
			n++
		}
	}
	return n
}

// FirstActive returns the lowest active lane index, or -1.
func (p *PRegFile) FirstActive(pr uint8, size insts.LaneSize) int {
	lanes := p.vlBytes / size.Bytes()
	for i := 0; i < lanes; i++ {
		if p.IsActive(pr, i, size) {
			return i
		}
	}
	return -1
}

// LastActive returns the highest active lane index, or -1.
func (p *PRegFile) LastActive(pr uint8, size insts.LaneSize) int {
	lanes := p.vlBytes / size.Bytes()
	for i := lanes - 1; i >= 0; i-- {
		if p.IsActive(pr, i, size) {
			return i
		}
	}
	return -1
}
