// Package emu provides functional E20 emulation.
package emu

// NumRegs is the number of general-purpose registers.
const NumRegs = 8

// LinkReg is the register jal writes its return address to.
const LinkReg uint8 = 7

// RegFile represents the E20 register file.
// It contains 8 general-purpose 16-bit registers ($0-$7) and the program
// counter (PC).
type RegFile struct {
	// R holds the general-purpose registers.
	// R[0] is hard-wired to zero; writes to it are discarded.
	R [NumRegs]uint16

	// PC is the program counter. Only its low 13 bits are used for fetch.
	PC uint16
}

// ReadReg reads a register value.
func (r *RegFile) ReadReg(reg uint8) uint16 {
	return r.R[reg&(NumRegs-1)]
}

// WriteReg writes a value to a register. Writes to register 0 are ignored.
func (r *RegFile) WriteReg(reg uint8, value uint16) {
	reg &= NumRegs - 1
	if reg == 0 {
		return
	}
	r.R[reg] = value
}
