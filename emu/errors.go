package emu

import "fmt"

// SimKind classifies a simulation failure.
type SimKind uint8

// Simulation failure kinds.
const (
	// KindUnimplemented means the instruction decoded but the engine has
	// no handler for it.
	KindUnimplemented SimKind = iota
	// KindIllegalState means execution reached a state the program
	// cannot recover from, such as an undecodable word at PC.
	KindIllegalState
)

func (k SimKind) String() string {
	if k == KindIllegalState {
		return "illegal state"
	}
	return "unimplemented"
}

// SimulationError is a fatal execution error. The engine stops at the
// failing instruction and reports it.
type SimulationError struct {
	Kind   SimKind
	PC     uint64
	Detail string
	Cause  error
}

func (e *SimulationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s at pc=0x%X: %s: %v", e.Kind, e.PC, e.Detail, e.Cause)
	}
	return fmt.Sprintf("%s at pc=0x%X: %s", e.Kind, e.PC, e.Detail)
}

func (e *SimulationError) Unwrap() error {
	return e.Cause
}
