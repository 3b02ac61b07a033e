// Package emu provides functional E20 emulation.
package emu

import "fmt"

// MemSize is the number of addressable 16-bit words.
const MemSize = 1 << 13

// AddrMask selects the low 13 bits of an address.
const AddrMask uint16 = MemSize - 1

// Memory is the E20 word-addressed main memory. Every address is masked to
// 13 bits before use, so out-of-range accesses wrap.
type Memory struct {
	words [MemSize]uint16
}

// NewMemory creates a zero-filled memory.
func NewMemory() *Memory {
	return &Memory{}
}

// Read returns the word at addr.
func (m *Memory) Read(addr uint16) uint16 {
	return m.words[addr&AddrMask]
}

// Write stores value at addr.
func (m *Memory) Write(addr uint16, value uint16) {
	m.words[addr&AddrMask] = value
}

// Load copies a program into memory starting at address 0. The rest of
// memory is left untouched.
func (m *Memory) Load(words []uint16) error {
	if len(words) > MemSize {
		return fmt.Errorf("%w: %d words", ErrProgramTooLarge, len(words))
	}
	copy(m.words[:], words)
	return nil
}

// Words returns a copy of the whole memory.
func (m *Memory) Words() [MemSize]uint16 {
	return m.words
}

// Reset clears memory to zero.
func (m *Memory) Reset() {
	m.words = [MemSize]uint16{}
}
