// Package asm assembles E20 assembly text into machine words.
//
// Source is case-insensitive. A '#' starts a comment. Labels end with ':'
// and may precede an instruction on the same line or stand alone. Operands
// are separated by commas or spaces:
//
//	loop:   addi $1, $1, -1
//	        lw   $2, table($1)
//	        jeq  $1, $0, done
//	        j    loop
//	done:   halt
//	table:  .fill 7
//
// Besides the machine instructions the assembler accepts the pseudo-ops
// movi, nop, halt and .fill. An immediate may be a number (decimal, 0x, 0o
// or 0b), a label, or a $(...) expression evaluated at assembly time with
// every label and predefined symbol in scope:
//
//	movi $3, $(table + 2*4)
package asm
