// Package insts provides E20 instruction definitions and decoding.
//
// This package implements decoding of 16-bit E20 machine words into
// structured instruction representations. The three most-significant bits
// select one of three encodings:
//   - Register format (opcode 000): add, sub, or, and, slt, jr
//   - Jump format (opcode 010, 011): j, jal
//   - Immediate format (opcode 001, 100-111): addi, lw, sw, jeq, slti
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(0x2085) // addi $1, $0, 5
//	fmt.Printf("Op: %v, Dst: %d, Imm: %d\n", inst.Op, inst.RegDst, inst.SignedImm())
package insts
