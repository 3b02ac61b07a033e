// Package loader reads and writes E20 machine-code files.
//
// A machine-code file holds one record per line:
//
//	ram[0] = 16'b0010000010000101;
//
// Addresses must start at 0 and increase by one. Anything after the
// semicolon is ignored.
package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"

	"github.com/sarchlab/e20sim/emu"
)

var recordRe = regexp.MustCompile(`^ram\[(\d+)\] = 16'b([01]{1,16});.*$`)

// Load reads a machine-code file from disk.
func Load(path string) ([]uint16, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open machine code file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Parse(f)
}

// Parse reads machine-code records from r and returns the program words in
// address order.
func Parse(r io.Reader) ([]uint16, error) {
	var words []uint16

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		m := recordRe.FindStringSubmatch(line)
		if m == nil {
			return nil, &LineError{LineNo: lineNo, Line: line, Err: ErrSyntax}
		}

		addr, err := strconv.ParseUint(m[1], 10, 64)
		if err != nil {
			return nil, &LineError{LineNo: lineNo, Line: line, Err: ErrSyntax}
		}
		if addr != uint64(len(words)) {
			return nil, &LineError{LineNo: lineNo, Line: line, Err: ErrOutOfSequence}
		}
		if addr >= emu.MemSize {
			return nil, &LineError{LineNo: lineNo, Line: line, Err: ErrProgramTooLarge}
		}

		word, err := strconv.ParseUint(m[2], 2, 16)
		if err != nil {
			return nil, &LineError{LineNo: lineNo, Line: line, Err: ErrSyntax}
		}

		words = append(words, uint16(word))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read machine code: %w", err)
	}

	return words, nil
}

// Write emits words as machine-code records starting at address 0.
func Write(w io.Writer, words []uint16) error {
	bw := bufio.NewWriter(w)
	for addr, word := range words {
		if _, err := fmt.Fprintf(bw, "ram[%d] = 16'b%016b;\n", addr, word); err != nil {
			return err
		}
	}
	return bw.Flush()
}
