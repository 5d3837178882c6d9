package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/joshuapare/poolkit/pool"
	"github.com/joshuapare/poolkit/trace"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose   bool
	quiet     bool
	jsonOut   bool
	poolSize  int
	maxBlocks int
)

var rootCmd = &cobra.Command{
	Use:   "poolctl",
	Short: "Replay and inspect pool allocation traces",
	Long: `poolctl replays JSON operation traces against a fixed-capacity pool
allocator and reports the resulting layout, statistics, and invariant checks.
Traces are deterministic: the same trace against the same pool size always
produces the same offsets.`,
	Version: "0.1.0",
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().IntVar(&poolSize, "size", 1<<20, "Pool arena size in bytes")
	rootCmd.PersistentFlags().
		IntVar(&maxBlocks, "max-blocks", 0, "Cap on block descriptors, 0 for no cap")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// loadTrace reads and validates a trace file
func loadTrace(path string) ([]trace.Op, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace: %w", err)
	}
	defer f.Close()

	ops, err := trace.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return ops, nil
}

// newTracePool builds the pool the global flags describe. Usage warnings go
// to stderr unless quiet mode suppresses them.
func newTracePool() (*pool.Pool, error) {
	cfg := &pool.Config{MaxBlocks: maxBlocks}
	if quiet {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	p, err := pool.New(poolSize, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	return p, nil
}
