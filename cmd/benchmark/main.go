// Command benchmark runs the E20Sim cache benchmark harness.
//
// Usage:
//
//	go run ./cmd/benchmark [flags]
//
// Flags:
//
//	-csv        Output results in CSV format (default: human-readable)
//	-json       Output results in JSON format
//	-cache      Cache configuration, as for e20sim (default: 16,2,2,64,4,4)
//	-config     Cache hierarchy JSON file
//	-no-cache   Run without caches
//	-core       Run only the core benchmarks
//	-v          Log every cache event
//
// Example:
//
//	# Compare a direct-mapped L1 against the default hierarchy
//	go run ./cmd/benchmark -cache 16,1,2 -csv > direct.csv
//	go run ./cmd/benchmark -csv > default.csv
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/e20sim/benchmarks"
	"github.com/sarchlab/e20sim/cache"
)

func main() {
	// Parse flags
	csvOutput := flag.Bool("csv", false, "Output results in CSV format")
	jsonOutput := flag.Bool("json", false, "Output results in JSON format")
	cacheSpec := flag.String("cache", "", "Cache configuration: size,assoc,blocksize[,size,assoc,blocksize]")
	configPath := flag.String("config", "", "Path to cache hierarchy JSON file")
	noCache := flag.Bool("no-cache", false, "Run without caches")
	core := flag.Bool("core", false, "Run only the core benchmarks")
	verbose := flag.Bool("v", false, "Log every cache event")
	flag.Parse()

	// Configure harness
	config := benchmarks.DefaultConfig()
	config.Output = os.Stdout
	config.Verbose = *verbose

	switch {
	case *noCache:
		config.Caches = nil
	case *configPath != "":
		hc, err := cache.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading cache config: %v\n", err)
			os.Exit(1)
		}
		config.Caches = hc.Configs()
	case *cacheSpec != "":
		configs, err := cache.ParseConfigs(*cacheSpec)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing cache config: %v\n", err)
			os.Exit(1)
		}
		config.Caches = configs
	}

	// Create harness and add benchmarks
	harness := benchmarks.NewHarness(config)
	if *core {
		harness.AddBenchmarks(benchmarks.GetCoreBenchmarks())
	} else {
		harness.AddBenchmarks(benchmarks.GetWorkloads())
	}

	// Print configuration
	if !*csvOutput && !*jsonOutput {
		fmt.Println("E20Sim Cache Benchmark Harness")
		fmt.Println("==============================")
		if len(config.Caches) == 0 {
			fmt.Println("Caches: none")
		}
		for i, c := range config.Caches {
			fmt.Printf("%s: size %d, associativity %d, blocksize %d, rows %d\n",
				cache.LevelName(i), c.Size, c.Associativity, c.BlockSize, c.Rows())
		}
		fmt.Println("")
	}

	// Run benchmarks
	results := harness.RunAll()

	// Output results
	switch {
	case *jsonOutput:
		if err := harness.PrintJSON(results); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing JSON: %v\n", err)
			os.Exit(1)
		}
	case *csvOutput:
		harness.PrintCSV(results)
	default:
		harness.PrintResults(results)
	}

	for _, r := range results {
		if !r.Passed() {
			os.Exit(1)
		}
	}
}
