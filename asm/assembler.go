package asm

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/sarchlab/e20sim/emu"
	"github.com/sarchlab/e20sim/insts"
)

// Assembler is a two pass assembler for E20. The first pass assigns an
// address to every statement and label; the second generates the words.
type Assembler struct {
	predefine    map[string]int
	strictSigned bool
}

// NewAssembler creates an Assembler with no predefined symbols.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Predefine defines a symbol usable wherever an immediate is expected.
// Labels in the source take precedence.
func (a *Assembler) Predefine(name string, value int) {
	if a.predefine == nil {
		a.predefine = make(map[string]int)
	}
	a.predefine[strings.ToLower(name)] = value
}

// StrictImmediates rejects 64..127 for addi, movi, lw and sw. Those fields
// are sign-extended by the machine, so such values would run as negative
// numbers. By default they are accepted and masked to 7 bits.
func (a *Assembler) StrictImmediates() {
	a.strictSigned = true
}

// Assemble is a shorthand for NewAssembler().Parse(input).Words().
func Assemble(input io.Reader) ([]uint16, error) {
	prog, err := NewAssembler().Parse(input)
	if err != nil {
		return nil, err
	}
	return prog.Words(), nil
}

// Parse assembles an input stream into a Program.
func (a *Assembler) Parse(input io.Reader) (*Program, error) {
	prog := &Program{Labels: make(map[string]int)}

	scanner := bufio.NewScanner(input)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		labels, words, err := tokenize(line)
		if err != nil {
			return nil, &SyntaxError{LineNo: lineNo, Line: line, Err: err}
		}

		addr := len(prog.Statements)
		for _, label := range labels {
			if _, ok := prog.Labels[label]; ok {
				return nil, &SyntaxError{
					LineNo: lineNo,
					Line:   line,
					Err:    fmt.Errorf("%w: %s", ErrDuplicateLabel, label),
				}
			}
			prog.Labels[label] = addr
		}

		if len(words) == 0 {
			continue
		}
		if addr >= emu.MemSize {
			return nil, &SyntaxError{LineNo: lineNo, Line: line, Err: ErrProgramTooLarge}
		}

		prog.Statements = append(prog.Statements, Statement{
			LineNo: lineNo,
			Addr:   addr,
			Line:   line,
			Words:  words,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read assembly: %w", err)
	}

	symbols := maps.Clone(a.predefine)
	if symbols == nil {
		symbols = make(map[string]int, len(prog.Labels))
	}
	maps.Copy(symbols, prog.Labels)

	for i := range prog.Statements {
		st := &prog.Statements[i]

		code, err := a.encode(st, symbols)
		if err != nil {
			return nil, &SyntaxError{LineNo: st.LineNo, Line: st.Line, Err: err}
		}
		st.Code = code
	}

	return prog, nil
}

var regFuncs = map[string]uint16{
	"add": insts.FuncADD,
	"sub": insts.FuncSUB,
	"or":  insts.FuncOR,
	"and": insts.FuncAND,
	"slt": insts.FuncSLT,
}

// operandCount is the number of operands each mnemonic takes.
var operandCount = map[string]int{
	"add":   3,
	"sub":   3,
	"or":    3,
	"and":   3,
	"slt":   3,
	"jr":    1,
	"addi":  3,
	"slti":  3,
	"lw":    3,
	"sw":    3,
	"jeq":   3,
	"j":     1,
	"jal":   1,
	"movi":  2,
	"nop":   0,
	"halt":  0,
	".fill": 1,
}

// encode generates the machine word for one statement.
func (a *Assembler) encode(st *Statement, symbols map[string]int) (uint16, error) {
	mnemonic, operands := st.Words[0], st.Words[1:]

	want, ok := operandCount[mnemonic]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownOpcode, mnemonic)
	}
	if len(operands) != want {
		return 0, fmt.Errorf("%w: %s takes %d, got %d",
			ErrOperandCount, mnemonic, want, len(operands))
	}

	ops := &operandReader{
		words:        operands,
		symbols:      symbols,
		addr:         st.Addr,
		strictSigned: a.strictSigned,
	}

	var code uint16
	switch mnemonic {
	case "add", "sub", "or", "and", "slt":
		dst, srcA, srcB := ops.reg(0), ops.reg(1), ops.reg(2)
		code = insts.EncodeReg(regFuncs[mnemonic], srcA, srcB, dst)
	case "jr":
		code = insts.EncodeJR(ops.reg(0))
	case "addi":
		code = insts.EncodeADDI(ops.reg(0), ops.reg(1), ops.simm7(2))
	case "slti":
		code = insts.EncodeSLTI(ops.reg(0), ops.reg(1), ops.imm7(2))
	case "lw":
		code = insts.EncodeLW(ops.reg(0), ops.reg(2), ops.simm7(1))
	case "sw":
		code = insts.EncodeSW(ops.reg(0), ops.reg(2), ops.simm7(1))
	case "jeq":
		code = insts.EncodeJEQ(ops.reg(0), ops.reg(1), ops.rel7(2))
	case "j":
		code = insts.EncodeJ(ops.imm13(0))
	case "jal":
		code = insts.EncodeJAL(ops.imm13(0))
	case "movi":
		code = insts.EncodeADDI(ops.reg(0), 0, ops.simm7(1))
	case "nop":
		code = insts.EncodeADD(0, 0, 0)
	case "halt":
		code = insts.EncodeJ(uint16(st.Addr))
	case ".fill":
		code = ops.word(0)
	}

	return code, ops.err
}

// operandReader converts operand words, keeping the first error.
type operandReader struct {
	words        []string
	symbols      map[string]int
	addr         int
	strictSigned bool
	err          error
}

func (r *operandReader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *operandReader) reg(i int) uint8 {
	word := r.words[i]
	if len(word) != 2 || word[0] != '$' || word[1] < '0' || word[1] > '7' {
		r.fail(fmt.Errorf("%w: %s", ErrRegister, word))
		return 0
	}
	return word[1] - '0'
}

// value resolves a number, a label, or a $(...) expression.
func (r *operandReader) value(i int) (int, bool) {
	word := r.words[i]

	if strings.HasPrefix(word, "$(") {
		v, err := r.eval(word[2 : len(word)-1])
		if err != nil {
			r.fail(err)
			return 0, false
		}
		return v, true
	}

	if v, ok := r.symbols[word]; ok {
		return v, true
	}

	v, err := strconv.ParseInt(word, 0, 32)
	if err == nil {
		return int(v), true
	}

	if labelRe.MatchString(word) {
		r.fail(fmt.Errorf("%w: %s", ErrUndefinedLabel, word))
	} else {
		r.fail(fmt.Errorf("%w: %s", ErrExpression, word))
	}
	return 0, false
}

// eval evaluates a compile-time expression with starlark. The address of
// the current statement is visible as pc unless a label shadows it.
func (r *operandReader) eval(expr string) (int, error) {
	thread := &starlark.Thread{Name: "asm"}
	opts := syntax.FileOptions{}

	predeclared := starlark.StringDict{"pc": starlark.MakeInt(r.addr)}
	for name, v := range r.symbols {
		predeclared[name] = starlark.MakeInt(v)
	}

	globals, err := starlark.ExecFileOptions(&opts, thread, "expr", "rc = "+expr+"\n", predeclared)
	if err != nil {
		return 0, fmt.Errorf("%w: $(%s): %w", ErrExpression, expr, err)
	}

	rc, ok := globals["rc"].(starlark.Int)
	if !ok {
		return 0, fmt.Errorf("%w: $(%s) is not an integer", ErrExpression, expr)
	}
	v, ok := rc.Int64()
	if !ok {
		return 0, fmt.Errorf("%w: $(%s) overflows", ErrExpression, expr)
	}

	return int(v), nil
}

func (r *operandReader) checked(i int, ok func(int) bool) int {
	v, resolved := r.value(i)
	if !resolved {
		return 0
	}
	if !ok(v) {
		r.fail(fmt.Errorf("%w: %d", ErrImmediateRange, v))
		return 0
	}
	return v
}

// imm7 accepts values that fit a 7-bit field read either signed or unsigned.
func (r *operandReader) imm7(i int) int {
	return r.checked(i, func(v int) bool {
		return insts.FitsSigned(v, 7) || insts.FitsUnsigned(v, 7)
	})
}

// simm7 reads an immediate the machine sign-extends.
func (r *operandReader) simm7(i int) int {
	if !r.strictSigned {
		return r.imm7(i)
	}
	return r.checked(i, func(v int) bool {
		return insts.FitsSigned(v, 7)
	})
}

// rel7 turns a target address into an offset from the next instruction.
func (r *operandReader) rel7(i int) int {
	target, resolved := r.value(i)
	if !resolved {
		return 0
	}

	rel := target - r.addr - 1
	if !insts.FitsSigned(rel, 7) {
		r.fail(fmt.Errorf("%w: branch offset %d", ErrImmediateRange, rel))
		return 0
	}
	return rel
}

func (r *operandReader) imm13(i int) uint16 {
	return uint16(r.checked(i, func(v int) bool {
		return insts.FitsUnsigned(v, 13)
	}))
}

func (r *operandReader) word(i int) uint16 {
	return uint16(r.checked(i, func(v int) bool {
		return insts.FitsSigned(v, 16) || insts.FitsUnsigned(v, 16)
	}))
}
