// Package main provides the entry point for E20Sim.
// E20Sim runs E20 machine code and optionally simulates an L1 or L1+L2
// cache hierarchy, logging every cache access.
//
// Usage:
//
//	e20sim [options] <program.bin>
//
// Without caches the final machine state is printed after the program
// halts. With caches the cache configuration and access log are printed
// instead; -state prints the final state as well.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/sarchlab/e20sim/asm"
	"github.com/sarchlab/e20sim/cache"
	"github.com/sarchlab/e20sim/emu"
	"github.com/sarchlab/e20sim/loader"
	"github.com/sarchlab/e20sim/report"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	cacheSpec  string
	configPath string
	saveConfig string
	assemble   bool
	maxSteps   uint64
	strict     bool
	trace      bool
	state      bool
	words      int
	stats      bool
	verbose    bool
}

func parseFlags(args []string, stderr io.Writer) (*options, string, error) {
	opts := &options{}

	fs := flag.NewFlagSet("e20sim", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.cacheSpec, "cache", "",
		"Cache configuration: size,associativity,blocksize (one cache) or "+
			"size,associativity,blocksize,size,associativity,blocksize (two caches)")
	fs.StringVar(&opts.configPath, "config", "", "Path to cache hierarchy JSON file")
	fs.StringVar(&opts.saveConfig, "save-config", "", "Write the cache hierarchy to a JSON file")
	fs.BoolVar(&opts.assemble, "asm", false, "Treat the input as assembly source")
	fs.Uint64Var(&opts.maxSteps, "max-steps", 0, "Stop after this many instructions (0 = no limit)")
	fs.BoolVar(&opts.strict, "strict", false, "Fail on undefined instruction words")
	fs.BoolVar(&opts.trace, "trace", false, "Trace every executed instruction to stderr")
	fs.BoolVar(&opts.state, "state", false, "Print the final state even when caches are simulated")
	fs.IntVar(&opts.words, "words", report.DefaultStateWords, "Memory words in the final state dump")
	fs.BoolVar(&opts.stats, "stats", false, "Print cache statistics to stderr")
	fs.BoolVar(&opts.verbose, "v", false, "Verbose output")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: e20sim [options] <program.bin>\n")
		fmt.Fprintf(stderr, "\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, "", err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, "", errors.New("expected exactly one program file")
	}
	if opts.cacheSpec != "" && opts.configPath != "" {
		return nil, "", errors.New("-cache and -config are mutually exclusive")
	}

	return opts, fs.Arg(0), nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, programPath, err := parseFlags(args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}

	words, err := loadProgram(programPath, opts.assemble)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading program: %v\n", err)
		return 1
	}

	configs, err := cacheConfigs(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error configuring caches: %v\n", err)
		return 1
	}

	hierarchy, err := cache.NewHierarchy(configs...)
	if err != nil {
		fmt.Fprintf(stderr, "Error configuring caches: %v\n", err)
		return 1
	}

	if opts.verbose {
		fmt.Fprintf(stderr, "Loaded: %s\n", programPath)
		fmt.Fprintf(stderr, "Words: %d\n", len(words))
		fmt.Fprintf(stderr, "Caches: %d\n", len(configs))
	}

	emuOpts := []emu.EmulatorOption{emu.WithMaxInstructions(opts.maxSteps)}
	if opts.strict {
		emuOpts = append(emuOpts, emu.WithStrictDecode())
	}
	if opts.trace {
		emuOpts = append(emuOpts, emu.WithTrace(stderr))
	}
	if len(configs) > 0 {
		if err := report.WriteHierarchyConfig(stdout, hierarchy); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		hierarchy.AcceptHook(cache.NewEventLogger(stdout))
		emuOpts = append(emuOpts, emu.WithAccessObserver(hierarchy))
	}

	emulator := emu.NewEmulator(emuOpts...)
	if err := emulator.LoadProgram(words); err != nil {
		fmt.Fprintf(stderr, "Error loading program: %v\n", err)
		return 1
	}

	if err := emulator.RunContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error running program: %v\n", err)
		return 1
	}

	if len(configs) == 0 || opts.state {
		if err := report.WriteState(stdout, emulator.Snapshot(), opts.words); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}

	if opts.stats && len(configs) > 0 {
		_ = report.WriteStats(stderr, hierarchy.Stats())
	}
	if opts.verbose {
		fmt.Fprintf(stderr, "Instructions executed: %d\n", emulator.InstructionCount())
	}

	return 0
}

// loadProgram reads machine code, or assembles source when asked to.
func loadProgram(path string, assemble bool) ([]uint16, error) {
	if !assemble {
		return loader.Load(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open assembly file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return asm.Assemble(f)
}

// cacheConfigs resolves the hierarchy from -cache or -config and saves it if
// -save-config is set.
func cacheConfigs(opts *options) ([]cache.Config, error) {
	var hc *cache.HierarchyConfig

	switch {
	case opts.configPath != "":
		loaded, err := cache.LoadConfig(opts.configPath)
		if err != nil {
			return nil, err
		}
		hc = loaded
	case opts.cacheSpec != "":
		configs, err := cache.ParseConfigs(opts.cacheSpec)
		if err != nil {
			return nil, err
		}
		hc = &cache.HierarchyConfig{L1: &configs[0]}
		if len(configs) > 1 {
			hc.L2 = &configs[1]
		}
	default:
		hc = &cache.HierarchyConfig{}
	}

	if opts.saveConfig != "" {
		if err := hc.SaveConfig(opts.saveConfig); err != nil {
			return nil, err
		}
	}

	return hc.Configs(), nil
}
