// Package emu provides functional E20 emulation.
package emu

import (
	"context"
	"fmt"
	"io"

	"github.com/sarchlab/e20sim/insts"
)

// StepResult represents the result of executing a single instruction.
type StepResult struct {
	// Halted is true if the instruction was a jump to itself.
	Halted bool

	// Err is set if an error occurred during execution.
	Err error
}

// Snapshot is a copy of the program-visible machine state.
type Snapshot struct {
	PC     uint16
	Regs   [NumRegs]uint16
	Memory [MemSize]uint16
}

// Emulator executes E20 instructions functionally.
type Emulator struct {
	regFile *RegFile
	memory  *Memory
	decoder *insts.Decoder

	// Execution units
	alu        *ALU
	lsu        *LoadStoreUnit
	branchUnit *BranchUnit

	observer     AccessObserver
	trace        io.Writer
	strictDecode bool

	// Execution state
	halted           bool
	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithAccessObserver attaches an observer that sees every lw and sw access.
func WithAccessObserver(observer AccessObserver) EmulatorOption {
	return func(e *Emulator) {
		e.observer = observer
	}
}

// WithMaxInstructions sets the maximum number of instructions to execute.
// A value of 0 means no limit.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxInstructions = max
	}
}

// WithStrictDecode makes undefined instruction words an error instead of a
// no-op.
func WithStrictDecode() EmulatorOption {
	return func(e *Emulator) {
		e.strictDecode = true
	}
}

// WithTrace writes one disassembled line per executed instruction to w.
func WithTrace(w io.Writer) EmulatorOption {
	return func(e *Emulator) {
		e.trace = w
	}
}

// NewEmulator creates a new E20 emulator with zeroed registers and memory.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		regFile: &RegFile{},
		memory:  NewMemory(),
		decoder: insts.NewDecoder(),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.createUnits()

	return e
}

func (e *Emulator) createUnits() {
	e.alu = NewALU(e.regFile)
	e.lsu = NewLoadStoreUnit(e.regFile, e.memory, e.observer)
	e.branchUnit = NewBranchUnit(e.regFile)
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Memory returns the emulator's memory.
func (e *Emulator) Memory() *Memory {
	return e.memory
}

// InstructionCount returns the number of instructions executed.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// Halted reports whether the program has executed its halting jump.
func (e *Emulator) Halted() bool {
	return e.halted
}

// LoadProgram loads a program at address 0 and resets the PC. Memory beyond
// the program is left as it was.
func (e *Emulator) LoadProgram(words []uint16) error {
	if err := e.memory.Load(words); err != nil {
		return err
	}
	e.regFile.PC = 0
	e.halted = false
	return nil
}

// Reset resets the emulator to its initial state.
func (e *Emulator) Reset() {
	e.regFile = &RegFile{}
	e.memory = NewMemory()
	e.halted = false
	e.instructionCount = 0

	e.createUnits()
}

// Snapshot returns a copy of PC, registers and memory.
func (e *Emulator) Snapshot() Snapshot {
	return Snapshot{
		PC:     e.regFile.PC,
		Regs:   e.regFile.R,
		Memory: e.memory.Words(),
	}
}

// Step executes a single instruction.
// Returns a StepResult indicating whether execution should continue.
func (e *Emulator) Step() StepResult {
	if e.halted {
		return StepResult{Halted: true}
	}

	// Check instruction limit before executing
	if e.maxInstructions > 0 && e.instructionCount >= e.maxInstructions {
		return StepResult{
			Err: fmt.Errorf("%w: %d", ErrMaxInstructions, e.maxInstructions),
		}
	}

	// 1. Fetch: only the low 13 bits of the PC index memory
	pc := e.regFile.PC
	word := e.memory.Read(pc)

	// 2. Decode
	inst := e.decoder.Decode(word)

	if e.trace != nil {
		_, _ = fmt.Fprintf(e.trace, "pc:%5d  %04x  %v\n", pc, word, inst)
	}

	// 3. Execute
	result := e.execute(inst)
	if result.Err != nil {
		return result
	}

	e.instructionCount++
	e.halted = result.Halted

	return result
}

// Run executes instructions until the program halts or an error occurs.
func (e *Emulator) Run() error {
	for {
		result := e.Step()
		if result.Err != nil {
			return result.Err
		}
		if result.Halted {
			return nil
		}
	}
}

// RunContext is Run with cancellation checked between instructions.
func (e *Emulator) RunContext(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		result := e.Step()
		if result.Err != nil {
			return result.Err
		}
		if result.Halted {
			return nil
		}
	}
}

// execute dispatches and executes a decoded instruction.
func (e *Emulator) execute(inst *insts.Instruction) StepResult {
	switch inst.Format {
	case insts.FormatReg:
		return e.executeReg(inst)
	case insts.FormatJump:
		return e.executeJump(inst)
	case insts.FormatImm:
		return e.executeImm(inst)
	default:
		return e.executeUnknown(inst)
	}
}

// executeReg executes register format instructions.
func (e *Emulator) executeReg(inst *insts.Instruction) StepResult {
	switch inst.Op {
	case insts.OpADD:
		e.alu.ADD(inst.RegDst, inst.RegA, inst.RegB)
	case insts.OpSUB:
		e.alu.SUB(inst.RegDst, inst.RegA, inst.RegB)
	case insts.OpOR:
		e.alu.OR(inst.RegDst, inst.RegA, inst.RegB)
	case insts.OpAND:
		e.alu.AND(inst.RegDst, inst.RegA, inst.RegB)
	case insts.OpSLT:
		e.alu.SLT(inst.RegDst, inst.RegA, inst.RegB)
	case insts.OpJR:
		e.branchUnit.JR(inst.RegA)
		return StepResult{} // PC already updated by branch
	default:
		return e.executeUnknown(inst)
	}

	e.regFile.PC++
	return StepResult{}
}

// executeJump executes j and jal.
func (e *Emulator) executeJump(inst *insts.Instruction) StepResult {
	if inst.Op == insts.OpJAL {
		e.branchUnit.JAL(inst.Target())
		return StepResult{}
	}
	return StepResult{Halted: e.branchUnit.J(inst.Target())}
}

// executeImm executes immediate format instructions.
func (e *Emulator) executeImm(inst *insts.Instruction) StepResult {
	switch inst.Op {
	case insts.OpADDI:
		e.alu.ADDI(inst.RegDst, inst.RegA, inst.Imm)
	case insts.OpSLTI:
		e.alu.SLTI(inst.RegDst, inst.RegA, inst.Imm)
	case insts.OpLW:
		e.lsu.LW(inst.RegDst, inst.RegA, inst.Imm)
	case insts.OpSW:
		e.lsu.SW(inst.RegDst, inst.RegA, inst.Imm)
	case insts.OpJEQ:
		e.branchUnit.JEQ(inst.RegA, inst.RegDst, inst.Imm)
		return StepResult{} // PC already updated by branch
	default:
		return e.executeUnknown(inst)
	}

	e.regFile.PC++
	return StepResult{}
}

// executeUnknown treats an undefined word as a no-op, or rejects it in
// strict mode.
func (e *Emulator) executeUnknown(inst *insts.Instruction) StepResult {
	if e.strictDecode {
		return StepResult{
			Err: fmt.Errorf("%w: word 0x%04X at PC=%d", ErrIllegalInstruction, inst.Word, e.regFile.PC),
		}
	}
	e.regFile.PC++
	return StepResult{}
}
