package asm

import (
	"io"

	"github.com/sarchlab/e20sim/insts"
	"github.com/sarchlab/e20sim/loader"
)

// Statement is one assembled source line.
type Statement struct {
	LineNo int      // Source line number, from 1.
	Addr   int      // Memory address of the generated word.
	Line   string   // Source text.
	Words  []string // Mnemonic and operands, lower case.
	Code   uint16   // Generated machine word.
}

// Program is the output of the assembler.
type Program struct {
	Statements []Statement
	Labels     map[string]int
}

// Words returns the machine words in address order.
func (p *Program) Words() []uint16 {
	words := make([]uint16, len(p.Statements))
	for i, st := range p.Statements {
		words[i] = st.Code
	}
	return words
}

// WriteMachineCode writes the program in machine-code file format.
func (p *Program) WriteMachineCode(w io.Writer) error {
	return loader.Write(w, p.Words())
}

// Disassemble returns the decoded form of each generated word.
func (p *Program) Disassemble() []string {
	decoder := insts.NewDecoder()
	lines := make([]string, len(p.Statements))
	for i, st := range p.Statements {
		lines[i] = decoder.Decode(st.Code).String()
	}
	return lines
}
