package masm

import "fmt"

// regPool hands out scratch registers. Registers go back to the pool
// when the owning scope closes, never one by one.
type regPool struct {
	kind string
	free []uint8
}

func newRegPool(kind string, regs []uint8) *regPool {
	free := make([]uint8, len(regs))
	copy(free, regs)
	return &regPool{kind: kind, free: free}
}

func (p *regPool) acquire() (uint8, error) {
	if len(p.free) == 0 {
		return 0, fmt.Errorf("out of %s scratch registers", p.kind)
	}
	r := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	return r, nil
}

func (p *regPool) release(r uint8) {
	p.free = append(p.free, r)
}

// ScratchScope tracks scratch registers acquired by one macro. Closing
// the scope returns every register to its pool; macros close their
// scope on all paths, including errors.
type ScratchScope struct {
	m      *MacroAssembler
	takenZ []uint8
	takenP []uint8
	takenX []uint8
}

// Scope opens a scratch scope.
func (m *MacroAssembler) Scope() *ScratchScope {
	return &ScratchScope{m: m}
}

// AcquireZ takes a vector scratch register for the lifetime of the
// scope.
func (s *ScratchScope) AcquireZ() (uint8, error) {
	r, err := s.m.zPool.acquire()
	if err != nil {
		return 0, err
	}
	s.takenZ = append(s.takenZ, r)
	return r, nil
}

// AcquireP takes a predicate scratch register for the lifetime of the
// scope.
func (s *ScratchScope) AcquireP() (uint8, error) {
	r, err := s.m.pPool.acquire()
	if err != nil {
		return 0, err
	}
	s.takenP = append(s.takenP, r)
	return r, nil
}

// AcquireX takes a scalar scratch register for the lifetime of the
// scope.
func (s *ScratchScope) AcquireX() (uint8, error) {
	r, err := s.m.xPool.acquire()
	if err != nil {
		return 0, err
	}
	s.takenX = append(s.takenX, r)
	return r, nil
}

// Close releases everything the scope acquired. Safe to call more than
// once.
func (s *ScratchScope) Close() {
	for _, r := range s.takenZ {
		s.m.zPool.release(r)
	}
	for _, r := range s.takenP {
		s.m.pPool.release(r)
	}
	for _, r := range s.takenX {
		s.m.xPool.release(r)
	}
	s.takenZ = nil
	s.takenP = nil
	s.takenX = nil
}
