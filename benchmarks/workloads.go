package benchmarks

import (
	"fmt"
	"strings"

	"github.com/sarchlab/e20sim/emu"
)

// GetWorkloads returns the standard set of E20 workloads. Each one stresses a
// different access pattern.
func GetWorkloads() []Benchmark {
	return []Benchmark{
		arithmeticLoop(),
		arraySum(),
		stridedStores(),
		callReturn(),
		matrixMultiply2x2(),
	}
}

// GetCoreBenchmarks returns a minimal set for quick validation: a loop, a
// memory sweep and a matrix multiply.
func GetCoreBenchmarks() []Benchmark {
	return []Benchmark{
		arithmeticLoop(),
		arraySum(),
		matrixMultiply2x2(),
	}
}

func expectReg(snap emu.Snapshot, reg int, want uint16) error {
	if got := snap.Regs[reg]; got != want {
		return fmt.Errorf("$%d = %d, want %d", reg, got, want)
	}
	return nil
}

func expectMem(snap emu.Snapshot, addr int, want uint16) error {
	if got := snap.Memory[addr]; got != want {
		return fmt.Errorf("mem[%d] = %d, want %d", addr, got, want)
	}
	return nil
}

// 1. Arithmetic loop - no memory traffic at all
func arithmeticLoop() Benchmark {
	return Benchmark{
		Name:        "arithmetic_loop",
		Description: "50 iterations of addi with a counted loop - no cache traffic",
		Source: `
        movi $1, 50         # counter
        movi $2, 0
loop:   addi $2, $2, 3
        addi $1, $1, -1
        jeq  $1, $0, done
        j    loop
done:   halt
`,
		Check: func(snap emu.Snapshot, _ map[string]int) error {
			return expectReg(snap, 2, 150)
		},
	}
}

// arraySumBase must be even; the program builds it by doubling.
const arraySumBase = 100

// 2. Array sum - sequential loads, spatial locality
func arraySum() Benchmark {
	return Benchmark{
		Name:        "array_sum",
		Description: "Sum of 32 consecutive words - sequential loads",
		Source: fmt.Sprintf(`
        movi $1, 32         # remaining
        movi $3, $(%d // 2)
        add  $3, $3, $3     # pointer
        movi $2, 0          # sum
loop:   lw   $4, 0($3)
        add  $2, $2, $4
        addi $3, $3, 1
        addi $1, $1, -1
        jeq  $1, $0, done
        j    loop
done:   halt
`, arraySumBase),
		Setup: func(_ *emu.RegFile, memory *emu.Memory) {
			for i := range 32 {
				memory.Write(uint16(arraySumBase+i), uint16(i+1))
			}
		},
		Check: func(snap emu.Snapshot, _ map[string]int) error {
			return expectReg(snap, 2, 528)
		},
	}
}

// 3. Strided stores - one word per block, then read back
func stridedStores() Benchmark {
	return Benchmark{
		Name:        "strided_stores",
		Description: "32 stores with stride 8 then 32 loads of the same words - conflict misses",
		Source: `
        movi $5, 32
        add  $5, $5, $5
        add  $5, $5, $5     # base = 128
        add  $3, $5, $0
        movi $1, 32
store:  sw   $1, 0($3)
        addi $3, $3, 8
        addi $1, $1, -1
        jeq  $1, $0, reload
        j    store
reload: add  $3, $5, $0
        movi $1, 32
        movi $2, 0
sum:    lw   $4, 0($3)
        add  $2, $2, $4
        addi $3, $3, 8
        addi $1, $1, -1
        jeq  $1, $0, done
        j    sum
done:   halt
`,
		Check: func(snap emu.Snapshot, _ map[string]int) error {
			if err := expectReg(snap, 2, 528); err != nil {
				return err
			}
			if err := expectMem(snap, 128, 32); err != nil {
				return err
			}
			return expectMem(snap, 128+8*31, 1)
		},
	}
}

// 4. Call/return - jal and jr through the link register
func callReturn() Benchmark {
	return Benchmark{
		Name:        "call_return",
		Description: "10 calls to a leaf subroutine - jal/jr overhead",
		Source: `
        movi $1, 0
        movi $6, 10
loop:   jal  incr
        addi $6, $6, -1
        jeq  $6, $0, done
        j    loop
done:   halt
incr:   addi $1, $1, 2
        jr   $7
`,
		Check: func(snap emu.Snapshot, _ map[string]int) error {
			if err := expectReg(snap, 1, 20); err != nil {
				return err
			}
			return expectReg(snap, 6, 0)
		},
	}
}

// 5. Matrix multiply - 2x2 by repeated addition
func matrixMultiply2x2() Benchmark {
	return Benchmark{
		Name:        "matrix_multiply_2x2",
		Description: "2x2 matrix multiply, products by repeated addition - mixed loads and stores",
		Source:      buildMatmulSource(),
		Check: func(snap emu.Snapshot, labels map[string]int) error {
			c := labels["c"]
			for i, want := range []uint16{19, 22, 43, 50} {
				if err := expectMem(snap, c+i, want); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// buildMatmulSource emits C = A x B for row-major 2x2 matrices at labels a,
// b and c. mul is a leaf routine computing $3 = $1 * $2.
func buildMatmulSource() string {
	var sb strings.Builder

	for i := range 2 {
		for j := range 2 {
			for k := range 2 {
				fmt.Fprintf(&sb, "        lw   $1, $(a + %d)($0)\n", 2*i+k)
				fmt.Fprintf(&sb, "        lw   $2, $(b + %d)($0)\n", 2*k+j)
				sb.WriteString("        jal  mul\n")
				if k == 0 {
					sb.WriteString("        add  $5, $3, $0\n")
				} else {
					sb.WriteString("        add  $5, $5, $3\n")
				}
			}
			fmt.Fprintf(&sb, "        sw   $5, $(c + %d)($0)\n", 2*i+j)
		}
	}

	sb.WriteString(`        halt
mul:    movi $3, 0
        add  $4, $2, $0
mloop:  jeq  $4, $0, mdone
        add  $3, $3, $1
        addi $4, $4, -1
        j    mloop
mdone:  jr   $7
a:      .fill 1
        .fill 2
        .fill 3
        .fill 4
b:      .fill 5
        .fill 6
        .fill 7
        .fill 8
c:      .fill 0
        .fill 0
        .fill 0
        .fill 0
`)

	return sb.String()
}
