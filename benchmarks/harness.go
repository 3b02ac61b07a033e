// Package benchmarks runs E20 workloads under cache configurations and
// reports how each configuration behaves.
package benchmarks

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sarchlab/e20sim/asm"
	"github.com/sarchlab/e20sim/cache"
	"github.com/sarchlab/e20sim/emu"
)

// LevelResult holds the statistics of one cache level after a run.
type LevelResult struct {
	Name      string  `json:"name"`
	Reads     uint64  `json:"reads"`
	Writes    uint64  `json:"writes"`
	Hits      uint64  `json:"hits"`
	Misses    uint64  `json:"misses"`
	Evictions uint64  `json:"evictions"`
	HitRate   float64 `json:"hit_rate"`
}

// BenchmarkResult holds the results for a single benchmark run.
type BenchmarkResult struct {
	// Name identifies the benchmark
	Name string `json:"name"`

	// Description explains what the benchmark measures
	Description string `json:"description"`

	// Instructions is the number of executed instructions, including the halt
	Instructions uint64 `json:"instructions"`

	// Halted is true if the program reached its halt instruction
	Halted bool `json:"halted"`

	// FinalPC is the program counter after the run
	FinalPC uint16 `json:"final_pc"`

	// Caches holds per-level statistics, L1 first
	Caches []LevelResult `json:"caches,omitempty"`

	// Error is set if the benchmark failed to assemble, run or validate
	Error string `json:"error,omitempty"`

	// WallTime is the actual time taken to run the simulation
	WallTime time.Duration `json:"wall_time_ns"`
}

// Passed reports whether the benchmark halted and validated.
func (r BenchmarkResult) Passed() bool {
	return r.Halted && r.Error == ""
}

// Benchmark defines a single benchmark program.
type Benchmark struct {
	// Name identifies the benchmark
	Name string

	// Description explains what the benchmark measures
	Description string

	// Source is the E20 assembly text
	Source string

	// Setup prepares the machine after the program is loaded
	Setup func(regFile *emu.RegFile, memory *emu.Memory)

	// Check validates the final state; labels maps source labels to addresses
	Check func(snap emu.Snapshot, labels map[string]int) error
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// Caches is the cache hierarchy, L1 first. Empty means no caches.
	Caches []cache.Config

	// MaxInstructions bounds each run; 0 means no limit
	MaxInstructions uint64

	// Output is where to write results (default: os.Stdout)
	Output io.Writer

	// Verbose writes every cache event to Output while running
	Verbose bool
}

// DefaultConfig returns a default harness configuration with an L1 and an
// L2 cache.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		Caches: []cache.Config{
			{Size: 16, Associativity: 2, BlockSize: 2},
			{Size: 64, Associativity: 4, BlockSize: 4},
		},
		MaxInstructions: 1_000_000,
		Output:          os.Stdout,
	}
}

// Harness runs benchmarks and reports results.
type Harness struct {
	config     HarnessConfig
	benchmarks []Benchmark
}

// NewHarness creates a new benchmark harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	return &Harness{
		config:     config,
		benchmarks: []Benchmark{},
	}
}

// AddBenchmark adds a benchmark to the harness.
func (h *Harness) AddBenchmark(b Benchmark) {
	h.benchmarks = append(h.benchmarks, b)
}

// AddBenchmarks adds multiple benchmarks to the harness.
func (h *Harness) AddBenchmarks(benchmarks []Benchmark) {
	h.benchmarks = append(h.benchmarks, benchmarks...)
}

// RunAll executes all benchmarks and returns results.
func (h *Harness) RunAll() []BenchmarkResult {
	results := make([]BenchmarkResult, 0, len(h.benchmarks))

	for _, bench := range h.benchmarks {
		results = append(results, h.runBenchmark(bench))
	}

	return results
}

// runBenchmark executes a single benchmark on a fresh machine and cache
// hierarchy.
func (h *Harness) runBenchmark(bench Benchmark) BenchmarkResult {
	result := BenchmarkResult{
		Name:        bench.Name,
		Description: bench.Description,
	}

	prog, err := asm.NewAssembler().Parse(strings.NewReader(bench.Source))
	if err != nil {
		result.Error = fmt.Sprintf("assemble: %v", err)
		return result
	}

	hierarchy, err := cache.NewHierarchy(h.config.Caches...)
	if err != nil {
		result.Error = fmt.Sprintf("caches: %v", err)
		return result
	}
	if h.config.Verbose {
		hierarchy.AcceptHook(cache.NewEventLogger(h.config.Output))
	}

	e := emu.NewEmulator(
		emu.WithAccessObserver(hierarchy),
		emu.WithMaxInstructions(h.config.MaxInstructions),
	)
	if err := e.LoadProgram(prog.Words()); err != nil {
		result.Error = fmt.Sprintf("load: %v", err)
		return result
	}
	if bench.Setup != nil {
		bench.Setup(e.RegFile(), e.Memory())
	}

	start := time.Now()
	runErr := e.Run()
	result.WallTime = time.Since(start)

	result.Instructions = e.InstructionCount()
	result.Halted = e.Halted()
	result.FinalPC = e.RegFile().PC

	for _, s := range hierarchy.Stats() {
		result.Caches = append(result.Caches, LevelResult{
			Name:      s.Name,
			Reads:     s.Stats.Reads,
			Writes:    s.Stats.Writes,
			Hits:      s.Stats.Hits,
			Misses:    s.Stats.Misses,
			Evictions: s.Stats.Evictions,
			HitRate:   s.Stats.HitRate(),
		})
	}

	switch {
	case runErr != nil:
		result.Error = fmt.Sprintf("run: %v", runErr)
	case bench.Check != nil:
		if err := bench.Check(e.Snapshot(), prog.Labels); err != nil {
			result.Error = fmt.Sprintf("check: %v", err)
		}
	}

	return result
}

// PrintResults outputs benchmark results in a human-readable format.
func (h *Harness) PrintResults(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output, "=== E20Sim Cache Benchmark Results ===")
	_, _ = fmt.Fprintln(h.config.Output, "")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "Benchmark: %s\n", r.Name)
		_, _ = fmt.Fprintf(h.config.Output, "  Description: %s\n", r.Description)
		_, _ = fmt.Fprintf(h.config.Output, "  Halted: %v (pc=%d)\n", r.Halted, r.FinalPC)
		_, _ = fmt.Fprintf(h.config.Output, "  Instructions: %d\n", r.Instructions)

		for _, c := range r.Caches {
			_, _ = fmt.Fprintf(h.config.Output, "  --- %s ---\n", c.Name)
			_, _ = fmt.Fprintf(h.config.Output, "  Reads:     %d\n", c.Reads)
			_, _ = fmt.Fprintf(h.config.Output, "  Writes:    %d\n", c.Writes)
			_, _ = fmt.Fprintf(h.config.Output, "  Hits:      %d\n", c.Hits)
			_, _ = fmt.Fprintf(h.config.Output, "  Misses:    %d\n", c.Misses)
			_, _ = fmt.Fprintf(h.config.Output, "  Evictions: %d\n", c.Evictions)
			_, _ = fmt.Fprintf(h.config.Output, "  Hit Rate:  %.1f%%\n", c.HitRate*100)
		}

		if r.Error != "" {
			_, _ = fmt.Fprintf(h.config.Output, "  Error: %s\n", r.Error)
		}

		_, _ = fmt.Fprintf(h.config.Output, "  Wall Time: %v\n", r.WallTime)
		_, _ = fmt.Fprintln(h.config.Output, "")
	}
}

// PrintCSV outputs benchmark results in CSV format, one row per cache level.
// Runs without caches produce a single row with empty level columns.
func (h *Harness) PrintCSV(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output,
		"name,instructions,halted,level,reads,writes,hits,misses,evictions,hit_rate")

	for _, r := range results {
		if len(r.Caches) == 0 {
			_, _ = fmt.Fprintf(h.config.Output, "%s,%d,%v,,,,,,,\n",
				r.Name, r.Instructions, r.Halted)
			continue
		}

		for _, c := range r.Caches {
			_, _ = fmt.Fprintf(h.config.Output, "%s,%d,%v,%s,%d,%d,%d,%d,%d,%.3f\n",
				r.Name,
				r.Instructions,
				r.Halted,
				c.Name,
				c.Reads,
				c.Writes,
				c.Hits,
				c.Misses,
				c.Evictions,
				c.HitRate,
			)
		}
	}
}

// BenchmarkReport is the complete output format for benchmark results.
type BenchmarkReport struct {
	// Metadata about the benchmark run
	Metadata ReportMetadata `json:"metadata"`

	// Results is the list of individual benchmark results
	Results []BenchmarkResult `json:"results"`

	// Summary contains aggregate statistics
	Summary ReportSummary `json:"summary"`
}

// ReportMetadata contains information about the benchmark run.
type ReportMetadata struct {
	// Timestamp when the benchmark was run
	Timestamp string `json:"timestamp"`

	// Caches is the hierarchy every benchmark ran with
	Caches []cache.Config `json:"caches"`
}

// ReportSummary contains aggregate statistics across all benchmarks.
type ReportSummary struct {
	// TotalBenchmarks is the number of benchmarks run
	TotalBenchmarks int `json:"total_benchmarks"`

	// Passed is the number of benchmarks that halted and validated
	Passed int `json:"passed"`

	// TotalInstructions is the sum of all executed instructions
	TotalInstructions uint64 `json:"total_instructions"`

	// TotalWallTime is the total wall clock time for all benchmarks
	TotalWallTime time.Duration `json:"total_wall_time_ns"`
}

// PrintJSON outputs benchmark results in JSON format for automated comparison.
func (h *Harness) PrintJSON(results []BenchmarkResult) error {
	summary := ReportSummary{TotalBenchmarks: len(results)}
	for _, r := range results {
		if r.Passed() {
			summary.Passed++
		}
		summary.TotalInstructions += r.Instructions
		summary.TotalWallTime += r.WallTime
	}

	report := BenchmarkReport{
		Metadata: ReportMetadata{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Caches:    h.config.Caches,
		},
		Results: results,
		Summary: summary,
	}

	encoder := json.NewEncoder(h.config.Output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
