// Package emu provides functional E20 emulation.
package emu

import "github.com/sarchlab/e20sim/insts"

// BranchUnit implements E20 jumps and branches. Every method leaves the
// register file's PC at the next instruction to execute.
type BranchUnit struct {
	regFile *RegFile
}

// NewBranchUnit creates a new BranchUnit connected to the given register file.
func NewBranchUnit(regFile *RegFile) *BranchUnit {
	return &BranchUnit{regFile: regFile}
}

// J jumps to an absolute 13-bit target. A jump to its own address is the
// machine's halt; J reports it.
func (b *BranchUnit) J(target uint16) (halted bool) {
	halted = target == b.regFile.PC
	b.regFile.PC = target
	return halted
}

// JAL saves PC + 1 to $7, then jumps to an absolute 13-bit target.
func (b *BranchUnit) JAL(target uint16) {
	b.regFile.WriteReg(LinkReg, b.regFile.PC+1)
	b.regFile.PC = target
}

// JR jumps to the address held in a register.
func (b *BranchUnit) JR(reg uint8) {
	b.regFile.PC = b.regFile.ReadReg(reg)
}

// JEQ branches to PC + 1 + sext(imm7) when $a == $b, and falls through to
// PC + 1 otherwise.
func (b *BranchUnit) JEQ(ra, rb uint8, imm uint16) (taken bool) {
	next := b.regFile.PC + 1
	if b.regFile.ReadReg(ra) == b.regFile.ReadReg(rb) {
		b.regFile.PC = next + insts.SignExtend7(imm)
		return true
	}
	b.regFile.PC = next
	return false
}
