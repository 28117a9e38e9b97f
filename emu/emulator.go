package emu

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/svesim/insts"
)

// DefaultVL is the vector length used when no option overrides it.
const DefaultVL = 256

// StepResult represents the result of executing a single instruction.
type StepResult struct {
	// Exited is true if the program terminated (via hlt).
	Exited bool

	// ExitCode is the halt immediate if Exited is true.
	ExitCode int64

	// Err is set if a fatal error occurred during execution.
	Err error
}

// Emulator executes instructions architecturally: state is exact, time
// is not modeled.
type Emulator struct {
	regFile  *RegFile
	zregFile *ZRegFile
	pregFile *PRegFile
	memory   *Memory
	decoder  *insts.Decoder

	vl  int
	log *logrus.Logger

	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithVectorLength sets the vector length in bits. Invalid lengths fall
// back to DefaultVL.
func WithVectorLength(vl int) EmulatorOption {
	return func(e *Emulator) {
		if insts.ValidVL(vl) {
			e.vl = vl
		}
	}
}

// WithLogger sets a logger for per-instruction tracing.
func WithLogger(log *logrus.Logger) EmulatorOption {
	return func(e *Emulator) {
		e.log = log
	}
}

// WithMaxInstructions sets the maximum number of instructions to execute.
// A value of 0 means no limit.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxInstructions = max
	}
}

// NewEmulator creates a new emulator.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		regFile: &RegFile{},
		memory:  NewMemory(),
		decoder: insts.NewDecoder(),
		vl:      DefaultVL,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.zregFile = NewZRegFile(e.vl)
	e.pregFile = NewPRegFile(e.vl)

	if e.log == nil {
		e.log = logrus.New()
		e.log.SetOutput(io.Discard)
	}

	return e
}

// RegFile returns the emulator's scalar register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// ZRegFile returns the emulator's vector register file.
func (e *Emulator) ZRegFile() *ZRegFile {
	return e.zregFile
}

// PRegFile returns the emulator's predicate register file.
func (e *Emulator) PRegFile() *PRegFile {
	return e.pregFile
}

// Memory returns the emulator's memory.
func (e *Emulator) Memory() *Memory {
	return e.memory
}

// VL returns the configured vector length in bits.
func (e *Emulator) VL() int {
	return e.vl
}

// InstructionCount returns the number of instructions retired. A
// faulting instruction is not counted.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// LoadProgram loads a flat program image into memory and sets the entry
// point.
func (e *Emulator) LoadProgram(entry uint64, program []byte) {
	e.memory.LoadProgram(entry, program)
	e.regFile.PC = entry
}

// Reset resets the emulator to its initial state. The vector length is
// kept.
func (e *Emulator) Reset() {
	e.regFile = &RegFile{}
	e.zregFile = NewZRegFile(e.vl)
	e.pregFile = NewPRegFile(e.vl)
	e.memory = NewMemory()
	e.instructionCount = 0
}

// Step executes a single instruction.
func (e *Emulator) Step() StepResult {
	if e.maxInstructions > 0 && e.instructionCount >= e.maxInstructions {
		return StepResult{
			Err: fmt.Errorf("max instructions reached"),
		}
	}

	pc := e.regFile.PC
	word := e.memory.Read32(pc)

	inst, err := e.decoder.Decode(word)
	if err != nil {
		return StepResult{Err: &SimulationError{
			Kind:   KindIllegalState,
			PC:     pc,
			Detail: fmt.Sprintf("cannot decode 0x%08X", word),
			Cause:  err,
		}}
	}

	e.log.WithFields(logrus.Fields{
		"pc":   fmt.Sprintf("0x%X", pc),
		"word": fmt.Sprintf("0x%08X", word),
	}).Debug(inst.String())

	result := e.execute(inst)
	if result.Err == nil {
		e.instructionCount++
	}

	if !result.Exited && result.Err == nil {
		e.regFile.PC = pc + 4
	}
	return result
}

// Run executes instructions until the program halts or fails.
func (e *Emulator) Run() StepResult {
	for {
		result := e.Step()
		if result.Exited || result.Err != nil {
			return result
		}
	}
}

// execute dispatches an instruction to its handler.
func (e *Emulator) execute(inst *insts.Instruction) StepResult {
	switch inst.Format {
	case insts.FormatZArith:
		return e.executeZArith(inst)
	case insts.FormatZLogical:
		return e.executeZLogical(inst)
	case insts.FormatZPred:
		return e.executeZPred(inst)
	case insts.FormatZWideImm:
		return e.executeZWideImm(inst)
	case insts.FormatZPermute:
		return e.executeZPermute(inst)
	case insts.FormatZReduce:
		return e.executeZReduce(inst)
	case insts.FormatPredicate:
		return e.executePredicate(inst)
	case insts.FormatPredLogical:
		return e.executePredLogical(inst)
	case insts.FormatCterm:
		return e.executeCterm(inst)
	case insts.FormatVLoad:
		return e.executeVLoad(inst)
	case insts.FormatDPImm:
		return e.executeDPImm(inst)
	case insts.FormatMoveWide:
		return e.executeMoveWide(inst)
	case insts.FormatSystem:
		return e.executeSystem(inst)
	}
	return e.unimplemented(inst)
}

func (e *Emulator) unimplemented(inst *insts.Instruction) StepResult {
	return StepResult{Err: &SimulationError{
		Kind:   KindUnimplemented,
		PC:     e.regFile.PC,
		Detail: inst.String(),
	}}
}
