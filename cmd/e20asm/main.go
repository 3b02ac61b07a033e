// Command e20asm assembles E20 assembly into machine code.
//
// Usage:
//
//	e20asm [flags] <program.s>
//
// Flags:
//
//	-o FILE           Write machine code to FILE instead of stdout
//	-D NAME=VALUE     Predefine a symbol (repeatable)
//	-listing          Print an address/word/disassembly listing instead
//	-strict-imm       Reject 64..127 where the machine sign-extends
//
// Example:
//
//	e20asm -D BASE=64 prog.s > prog.bin
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sarchlab/e20sim/asm"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	assembler := asm.NewAssembler()

	fs := flag.NewFlagSet("e20asm", flag.ContinueOnError)
	fs.SetOutput(stderr)
	output := fs.String("o", "", "Output file (default: stdout)")
	listing := fs.Bool("listing", false, "Print a listing instead of machine code")
	strictImm := fs.Bool("strict-imm", false, "Reject 64..127 for addi, movi, lw and sw")
	fs.Func("D", "Predefine a symbol as NAME=VALUE", func(s string) error {
		name, value, ok := strings.Cut(s, "=")
		if !ok || name == "" {
			return errors.New("expected NAME=VALUE")
		}
		v, err := strconv.ParseInt(value, 0, 32)
		if err != nil {
			return fmt.Errorf("bad value for %s: %w", name, err)
		}
		assembler.Predefine(name, int(v))
		return nil
	})
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: e20asm [options] <program.s>\n")
		fmt.Fprintf(stderr, "\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 1
	}

	if *strictImm {
		assembler.StrictImmediates()
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "Can't open file %s: %v\n", fs.Arg(0), err)
		return 1
	}
	defer func() { _ = f.Close() }()

	prog, err := assembler.Parse(f)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	out := stdout
	if *output != "" {
		file, err := os.Create(*output)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		defer func() { _ = file.Close() }()
		out = file
	}

	if *listing {
		err = writeListing(out, prog)
	} else {
		err = prog.WriteMachineCode(out)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

func writeListing(w io.Writer, prog *asm.Program) error {
	disasm := prog.Disassemble()
	for i, st := range prog.Statements {
		_, err := fmt.Fprintf(w, "%5d  %04x  %-20s %s\n",
			st.Addr, st.Code, disasm[i], strings.TrimSpace(st.Line))
		if err != nil {
			return err
		}
	}
	return nil
}
