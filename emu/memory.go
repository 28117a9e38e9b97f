package emu

import "encoding/binary"

const pageSize = 4096

// Memory is a sparse, paged, little-endian byte-addressable memory.
// Unmapped locations read as zero.
type Memory struct {
	pages map[uint64]*[pageSize]byte
}

// NewMemory creates an empty memory.
func NewMemory() *Memory {
	return &Memory{pages: make(map[uint64]*[pageSize]byte)}
}

func (m *Memory) page(addr uint64, create bool) (*[pageSize]byte, uint64) {
	base := addr &^ uint64(pageSize-1)
	p, ok := m.pages[base]
	if !ok && create {
		p = &[pageSize]byte{}
		m.pages[base] = p
	}
	return p, addr - base
}

// Read8 reads one byte.
func (m *Memory) Read8(addr uint64) uint8 {
	p, off := m.page(addr, false)
	if p == nil {
		return 0
	}
	return p[off]
}

// Write8 writes one byte.
func (m *Memory) Write8(addr uint64, v uint8) {
	p, off := m.page(addr, true)
	p[off] = v
}

// ReadBytes reads n bytes starting at addr.
func (m *Memory) ReadBytes(addr uint64, n int) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = m.Read8(addr + uint64(i))
	}
	return buf
}

// WriteBytes writes data starting at addr.
func (m *Memory) WriteBytes(addr uint64, data []byte) {
	for i, b := range data {
		m.Write8(addr+uint64(i), b)
	}
}

// Read16 reads a little-endian halfword.
func (m *Memory) Read16(addr uint64) uint16 {
	return binary.LittleEndian.Uint16(m.ReadBytes(addr, 2))
}

// Write16 writes a little-endian halfword.
func (m *Memory) Write16(addr uint64, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	m.WriteBytes(addr, b[:])
}

// Read32 reads a little-endian word.
func (m *Memory) Read32(addr uint64) uint32 {
	return binary.LittleEndian.Uint32(m.ReadBytes(addr, 4))
}

// Write32 writes a little-endian word.
func (m *Memory) Write32(addr uint64, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	m.WriteBytes(addr, b[:])
}

// Read64 reads a little-endian doubleword.
func (m *Memory) Read64(addr uint64) uint64 {
	return binary.LittleEndian.Uint64(m.ReadBytes(addr, 8))
}

// Write64 writes a little-endian doubleword.
func (m *Memory) Write64(addr uint64, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	m.WriteBytes(addr, b[:])
}

// LoadProgram copies a flat program image to addr.
func (m *Memory) LoadProgram(addr uint64, program []byte) {
	m.WriteBytes(addr, program)
}
