package asm

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownOpcode   = errors.New("unknown opcode")
	ErrOperandCount    = errors.New("wrong number of operands")
	ErrRegister        = errors.New("invalid register")
	ErrImmediateRange  = errors.New("immediate out of range")
	ErrDuplicateLabel  = errors.New("label duplicated")
	ErrUndefinedLabel  = errors.New("label undefined")
	ErrInvalidLabel    = errors.New("label invalid")
	ErrExpression      = errors.New("invalid expression")
	ErrProgramTooLarge = errors.New("program too big for memory")
)

// SyntaxError locates an assembly failure in the source.
type SyntaxError struct {
	LineNo int
	Line   string
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d '%v' %v", e.LineNo, e.Line, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}
