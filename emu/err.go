package emu

import "errors"

var (
	// ErrProgramTooLarge is returned when a program does not fit in memory.
	ErrProgramTooLarge = errors.New("program too big for memory")

	// ErrIllegalInstruction is returned in strict decode mode for words
	// that match no instruction.
	ErrIllegalInstruction = errors.New("illegal instruction")

	// ErrMaxInstructions is returned when the instruction bound is reached
	// before the program halts.
	ErrMaxInstructions = errors.New("max instructions reached")
)
