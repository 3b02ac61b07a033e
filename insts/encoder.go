package insts

// EncodeReg builds a register-format word.
func EncodeReg(fn uint16, srcA, srcB, dst uint8) uint16 {
	return OpcodeReg<<13 |
		(uint16(srcA)&regMask)<<10 |
		(uint16(srcB)&regMask)<<7 |
		(uint16(dst)&regMask)<<4 |
		fn&funcMask
}

// EncodeJump builds a jump-format word. The target is truncated to 13 bits.
func EncodeJump(opcode, target uint16) uint16 {
	return opcode<<13 | target&Imm13Mask
}

// EncodeImm builds an immediate-format word. The immediate is truncated to
// its low 7 bits, so negative values are stored in two's complement.
func EncodeImm(opcode uint16, src, dst uint8, imm int) uint16 {
	return opcode<<13 |
		(uint16(src)&regMask)<<10 |
		(uint16(dst)&regMask)<<7 |
		uint16(imm)&Imm7Mask
}

// EncodeADD encodes add $dst,$srcA,$srcB.
func EncodeADD(dst, srcA, srcB uint8) uint16 {
	return EncodeReg(FuncADD, srcA, srcB, dst)
}

// EncodeSUB encodes sub $dst,$srcA,$srcB.
func EncodeSUB(dst, srcA, srcB uint8) uint16 {
	return EncodeReg(FuncSUB, srcA, srcB, dst)
}

// EncodeOR encodes or $dst,$srcA,$srcB.
func EncodeOR(dst, srcA, srcB uint8) uint16 {
	return EncodeReg(FuncOR, srcA, srcB, dst)
}

// EncodeAND encodes and $dst,$srcA,$srcB.
func EncodeAND(dst, srcA, srcB uint8) uint16 {
	return EncodeReg(FuncAND, srcA, srcB, dst)
}

// EncodeSLT encodes slt $dst,$srcA,$srcB.
func EncodeSLT(dst, srcA, srcB uint8) uint16 {
	return EncodeReg(FuncSLT, srcA, srcB, dst)
}

// EncodeJR encodes jr $reg.
func EncodeJR(reg uint8) uint16 {
	return EncodeReg(FuncJR, reg, 0, 0)
}

// EncodeJ encodes j target.
func EncodeJ(target uint16) uint16 {
	return EncodeJump(OpcodeJ, target)
}

// EncodeJAL encodes jal target.
func EncodeJAL(target uint16) uint16 {
	return EncodeJump(OpcodeJAL, target)
}

// EncodeADDI encodes addi $dst,$src,imm.
func EncodeADDI(dst, src uint8, imm int) uint16 {
	return EncodeImm(OpcodeADDI, src, dst, imm)
}

// EncodeSLTI encodes slti $dst,$src,imm.
func EncodeSLTI(dst, src uint8, imm int) uint16 {
	return EncodeImm(OpcodeSLTI, src, dst, imm)
}

// EncodeLW encodes lw $dst,imm($addr).
func EncodeLW(dst, addr uint8, imm int) uint16 {
	return EncodeImm(OpcodeLW, addr, dst, imm)
}

// EncodeSW encodes sw $value,imm($addr).
func EncodeSW(value, addr uint8, imm int) uint16 {
	return EncodeImm(OpcodeSW, addr, value, imm)
}

// EncodeJEQ encodes jeq $a,$b with an offset relative to the next
// instruction.
func EncodeJEQ(a, b uint8, rel int) uint16 {
	return EncodeImm(OpcodeJEQ, a, b, rel)
}
