// Package report formats simulator output: the final machine state, the
// cache configuration banner, the cache access log and a statistics summary.
package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/sarchlab/e20sim/cache"
	"github.com/sarchlab/e20sim/emu"
)

// DefaultStateWords is how many memory words WriteState dumps by default.
const DefaultStateWords = 128

// WriteState writes the final PC, the registers and the first words of
// memory, eight hexadecimal words per line.
func WriteState(w io.Writer, snap emu.Snapshot, words int) error {
	words = min(max(words, 0), emu.MemSize)

	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "Final state:")
	fmt.Fprintf(bw, "\tpc=%5d\n", snap.PC)
	for i, r := range snap.Regs {
		fmt.Fprintf(bw, "\t$%d=%5d\n", i, r)
	}

	for i := 0; i < words; i++ {
		fmt.Fprintf(bw, "%04x ", snap.Memory[i])
		if i%8 == 7 {
			fmt.Fprintln(bw)
		}
	}
	if words%8 != 0 {
		fmt.Fprintln(bw)
	}

	return bw.Flush()
}

// WriteCacheConfig writes the one-line description of a cache level.
func WriteCacheConfig(w io.Writer, name string, config cache.Config) error {
	_, err := fmt.Fprintf(w, "Cache %s has size %d, associativity %d, blocksize %d, rows %d\n",
		name, config.Size, config.Associativity, config.BlockSize, config.Rows())
	return err
}

// WriteHierarchyConfig writes the description of every level, L1 first.
func WriteHierarchyConfig(w io.Writer, h *cache.Hierarchy) error {
	for i, c := range h.Levels() {
		if err := WriteCacheConfig(w, cache.LevelName(i), c.Config()); err != nil {
			return err
		}
	}
	return nil
}

// WriteStats writes a per-level summary of cache statistics.
func WriteStats(w io.Writer, stats []cache.LevelStats) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%-6s %10s %10s %10s %10s %10s %8s\n",
		"Cache", "Reads", "Writes", "Hits", "Misses", "Evictions", "HitRate")
	for _, s := range stats {
		fmt.Fprintf(bw, "%-6s %10d %10d %10d %10d %10d %7.2f%%\n",
			s.Name, s.Stats.Reads, s.Stats.Writes, s.Stats.Hits,
			s.Stats.Misses, s.Stats.Evictions, s.Stats.HitRate()*100)
	}

	return bw.Flush()
}
