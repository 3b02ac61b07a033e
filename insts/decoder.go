// Package insts provides E20 instruction definitions and decoding.
package insts

import "fmt"

// Op represents an E20 operation.
type Op uint8

// E20 operations.
const (
	OpUnknown Op = iota
	OpADD
	OpSUB
	OpOR
	OpAND
	OpSLT
	OpJR
	OpJ
	OpJAL
	OpADDI
	OpLW
	OpSW
	OpJEQ
	OpSLTI
)

var opNames = [...]string{
	OpUnknown: "unknown",
	OpADD:     "add",
	OpSUB:     "sub",
	OpOR:      "or",
	OpAND:     "and",
	OpSLT:     "slt",
	OpJR:      "jr",
	OpJ:       "j",
	OpJAL:     "jal",
	OpADDI:    "addi",
	OpLW:      "lw",
	OpSW:      "sw",
	OpJEQ:     "jeq",
	OpSLTI:    "slti",
}

// String returns the assembly mnemonic of the operation.
func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", uint8(o))
}

// Format represents an instruction encoding format.
type Format uint8

// Instruction formats.
const (
	FormatUnknown Format = iota
	FormatReg            // Three registers and a function code
	FormatJump           // 13-bit absolute address
	FormatImm            // Two registers and a 7-bit immediate
)

// Primary opcodes, bits [15:13].
const (
	OpcodeReg  uint16 = 0b000
	OpcodeADDI uint16 = 0b001
	OpcodeJ    uint16 = 0b010
	OpcodeJAL  uint16 = 0b011
	OpcodeLW   uint16 = 0b100
	OpcodeSW   uint16 = 0b101
	OpcodeJEQ  uint16 = 0b110
	OpcodeSLTI uint16 = 0b111
)

// Function codes of the register format, bits [3:0].
const (
	FuncADD uint16 = 0
	FuncSUB uint16 = 1
	FuncOR  uint16 = 2
	FuncAND uint16 = 3
	FuncSLT uint16 = 4
	FuncJR  uint16 = 8
)

// Field masks.
const (
	Imm7Mask  uint16 = 0x007F
	Imm13Mask uint16 = 0x1FFF
	regMask   uint16 = 0x7
	funcMask  uint16 = 0xF
)

// Instruction represents a decoded E20 instruction.
//
// The register fields are positional. For the immediate format RegA is the
// src field (bits 12-10) and RegDst the dst field (bits 9-7); sw stores RegDst
// and jeq compares RegA with RegDst.
type Instruction struct {
	Op     Op     // Operation
	Format Format // Encoding format
	Word   uint16 // Raw machine word

	RegA   uint8 // srcA (register format) or src (immediate format)
	RegB   uint8 // srcB, register format only
	RegDst uint8 // dst
	Func   uint8 // Function code, register format only

	// Imm is the raw immediate field: 7 bits for the immediate format,
	// 13 bits for the jump format.
	Imm uint16
}

// SignedImm returns the immediate interpreted as a two's-complement value of
// the instruction's field width.
func (inst *Instruction) SignedImm() int {
	if inst.Format == FormatJump {
		return SignedValue(inst.Imm, 13)
	}
	return SignedValue(inst.Imm, 7)
}

// Target returns the absolute address of a jump-format instruction.
func (inst *Instruction) Target() uint16 {
	return inst.Imm & Imm13Mask
}

// String renders the instruction in assembly syntax.
func (inst *Instruction) String() string {
	switch inst.Op {
	case OpADD, OpSUB, OpOR, OpAND, OpSLT:
		return fmt.Sprintf("%v $%d,$%d,$%d", inst.Op, inst.RegDst, inst.RegA, inst.RegB)
	case OpJR:
		return fmt.Sprintf("jr $%d", inst.RegA)
	case OpJ, OpJAL:
		return fmt.Sprintf("%v %d", inst.Op, inst.Target())
	case OpADDI:
		return fmt.Sprintf("addi $%d,$%d,%d", inst.RegDst, inst.RegA, inst.SignedImm())
	case OpSLTI:
		return fmt.Sprintf("slti $%d,$%d,%d", inst.RegDst, inst.RegA, inst.Imm)
	case OpLW, OpSW:
		return fmt.Sprintf("%v $%d,%d($%d)", inst.Op, inst.RegDst, inst.SignedImm(), inst.RegA)
	case OpJEQ:
		return fmt.Sprintf("jeq $%d,$%d,%d", inst.RegA, inst.RegDst, inst.SignedImm())
	default:
		return fmt.Sprintf(".fill 0x%04x", inst.Word)
	}
}

// Decoder decodes E20 machine words into instructions.
type Decoder struct{}

// NewDecoder creates a new E20 instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a 16-bit E20 instruction word. Words whose function code
// matches no register-format operation decode with Op == OpUnknown; the
// operand fields are still populated.
func (d *Decoder) Decode(word uint16) *Instruction {
	inst := &Instruction{Op: OpUnknown, Format: FormatUnknown, Word: word}

	opcode := word >> 13 // bits [15:13]

	switch opcode {
	case OpcodeReg:
		d.decodeReg(word, inst)
	case OpcodeJ, OpcodeJAL:
		d.decodeJump(word, opcode, inst)
	default:
		d.decodeImm(word, opcode, inst)
	}

	return inst
}

// decodeReg decodes the register format.
// Format: 000 | srcA | srcB | dst | func
func (d *Decoder) decodeReg(word uint16, inst *Instruction) {
	inst.Format = FormatReg

	inst.RegA = uint8((word >> 10) & regMask)  // bits [12:10]
	inst.RegB = uint8((word >> 7) & regMask)   // bits [9:7]
	inst.RegDst = uint8((word >> 4) & regMask) // bits [6:4]
	inst.Func = uint8(word & funcMask)         // bits [3:0]

	switch uint16(inst.Func) {
	case FuncADD:
		inst.Op = OpADD
	case FuncSUB:
		inst.Op = OpSUB
	case FuncOR:
		inst.Op = OpOR
	case FuncAND:
		inst.Op = OpAND
	case FuncSLT:
		inst.Op = OpSLT
	case FuncJR:
		inst.Op = OpJR
	}
}

// decodeJump decodes the jump format.
// Format: 01x | imm13
func (d *Decoder) decodeJump(word, opcode uint16, inst *Instruction) {
	inst.Format = FormatJump
	inst.Imm = word & Imm13Mask

	if opcode == OpcodeJ {
		inst.Op = OpJ
	} else {
		inst.Op = OpJAL
	}
}

// decodeImm decodes the immediate format.
// Format: opcode | src | dst | imm7
func (d *Decoder) decodeImm(word, opcode uint16, inst *Instruction) {
	inst.Format = FormatImm

	inst.RegA = uint8((word >> 10) & regMask)  // bits [12:10]
	inst.RegDst = uint8((word >> 7) & regMask) // bits [9:7]
	inst.Imm = word & Imm7Mask                 // bits [6:0]

	switch opcode {
	case OpcodeADDI:
		inst.Op = OpADDI
	case OpcodeLW:
		inst.Op = OpLW
	case OpcodeSW:
		inst.Op = OpSW
	case OpcodeJEQ:
		inst.Op = OpJEQ
	case OpcodeSLTI:
		inst.Op = OpSLTI
	}
}
