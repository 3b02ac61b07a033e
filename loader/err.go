package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax is returned for a line that is not a machine-code record.
	ErrSyntax = errors.New("can't parse line")

	// ErrOutOfSequence is returned when addresses are not contiguous from 0.
	ErrOutOfSequence = errors.New("memory addresses encountered out of sequence")

	// ErrProgramTooLarge is returned when an address does not fit in memory.
	ErrProgramTooLarge = errors.New("program too big for memory")
)

// LineError locates a load failure in the input.
type LineError struct {
	LineNo int
	Line   string
	Err    error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v: %s", e.LineNo, e.Err, e.Line)
}

func (e *LineError) Unwrap() error {
	return e.Err
}
