// Package emu provides architectural emulation of the SVE subset.
package emu

// RegFile represents the scalar register file.
type RegFile struct {
	// X holds general-purpose registers X0-X30.
	// X[31] is the zero register (XZR) which always reads as 0.
	X [32]uint64

	// PC is the program counter.
	PC uint64

	// PSTATE holds the processor state flags.
	PSTATE PSTATE
}

// PSTATE represents the processor state flags. For predicate-generating
// instructions the N, Z, and C flags double as the First, None, and
// NotLast conditions.
type PSTATE struct {
	// N is the negative flag.
	N bool
	// Z is the zero flag.
	Z bool
	// C is the carry flag.
	C bool
	// V is the overflow flag.
	V bool
}

// First reports the SVE First condition (alias of N).
func (p *PSTATE) First() bool { return p.N }

// None reports the SVE None condition (alias of Z).
func (p *PSTATE) None() bool { return p.Z }

// NotLast reports the SVE NotLast condition (alias of C).
func (p *PSTATE) NotLast() bool { return p.C }

// Bits packs the flags into NZCV bit positions [31:28].
func (p *PSTATE) Bits() uint64 {
	var v uint64
	if p.N {
		v |= 1 << 31
	}
	if p.Z {
		v |= 1 << 30
	}
	if p.C {
		v |= 1 << 29
	}
	if p.V {
		v |= 1 << 28
	}
	return v
}

// SetBits unpacks NZCV bit positions [31:28] into the flags.
func (p *PSTATE) SetBits(v uint64) {
	p.N = v&(1<<31) != 0
	p.Z = v&(1<<30) != 0
	p.C = v&(1<<29) != 0
	p.V = v&(1<<28) != 0
}

// ReadReg reads a register value. Register 31 returns 0 (XZR).
func (r *RegFile) ReadReg(reg uint8) uint64 {
	if reg >= 31 {
		return 0
	}
	return r.X[reg]
}

// WriteReg writes a value to a register. Writes to register 31 are ignored.
func (r *RegFile) WriteReg(reg uint8, value uint64) {
	if reg >= 31 {
		return
	}
	r.X[reg] = value
}

// ReadReg32 reads the lower 32 bits of a register.
func (r *RegFile) ReadReg32(reg uint8) uint32 {
	return uint32(r.ReadReg(reg))
}

// WriteReg32 writes to the lower 32 bits and zero-extends.
func (r *RegFile) WriteReg32(reg uint8, value uint32) {
	r.WriteReg(reg, uint64(value))
}
