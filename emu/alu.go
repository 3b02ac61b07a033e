// Package emu provides functional E20 emulation.
package emu

import "github.com/sarchlab/e20sim/insts"

// ALU implements E20 arithmetic and logic operations. All arithmetic wraps
// modulo 2^16.
type ALU struct {
	regFile *RegFile
}

// NewALU creates a new ALU connected to the given register file.
func NewALU(regFile *RegFile) *ALU {
	return &ALU{regFile: regFile}
}

// ADD performs $dst = $a + $b
func (a *ALU) ADD(dst, ra, rb uint8) {
	a.regFile.WriteReg(dst, a.regFile.ReadReg(ra)+a.regFile.ReadReg(rb))
}

// SUB performs $dst = $a - $b
func (a *ALU) SUB(dst, ra, rb uint8) {
	a.regFile.WriteReg(dst, a.regFile.ReadReg(ra)-a.regFile.ReadReg(rb))
}

// OR performs $dst = $a | $b
func (a *ALU) OR(dst, ra, rb uint8) {
	a.regFile.WriteReg(dst, a.regFile.ReadReg(ra)|a.regFile.ReadReg(rb))
}

// AND performs $dst = $a & $b
func (a *ALU) AND(dst, ra, rb uint8) {
	a.regFile.WriteReg(dst, a.regFile.ReadReg(ra)&a.regFile.ReadReg(rb))
}

// SLT performs $dst = ($a < $b), comparing unsigned.
func (a *ALU) SLT(dst, ra, rb uint8) {
	a.regFile.WriteReg(dst, lessThan(a.regFile.ReadReg(ra), a.regFile.ReadReg(rb)))
}

// ADDI performs $dst = $src + sext(imm7)
func (a *ALU) ADDI(dst, src uint8, imm uint16) {
	a.regFile.WriteReg(dst, a.regFile.ReadReg(src)+insts.SignExtend7(imm))
}

// SLTI performs $dst = ($src < imm7). Unlike the other immediate
// instructions the immediate is zero-extended.
func (a *ALU) SLTI(dst, src uint8, imm uint16) {
	a.regFile.WriteReg(dst, lessThan(a.regFile.ReadReg(src), insts.ZeroExtend7(imm)))
}

func lessThan(op1, op2 uint16) uint16 {
	if op1 < op2 {
		return 1
	}
	return 0
}
