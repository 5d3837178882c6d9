package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult represents a parsed benchmark result.
type BenchmarkResult struct {
	Name        string
	Operation   string
	Scenario    string
	Iterations  int
	NsPerOp     float64
	BytesPerOp  int64
	AllocsPerOp int64
}

var (
	inputFile = flag.String(
		"input",
		"",
		"Input file with benchmark output (stdin if not specified)",
	)
	outputFile = flag.String("output", "", "Output markdown file (stdout if not specified)")
	quiet      = flag.Bool("quiet", false, "Suppress progress output")
)

func main() {
	flag.Parse()

	// Read benchmark output
	var scanner *bufio.Scanner
	var inputF *os.File
	if *inputFile != "" {
		f, err := os.Open(*inputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening input file: %v\n", err)
			os.Exit(1)
		}
		inputF = f
		scanner = bufio.NewScanner(f)
	} else {
		scanner = bufio.NewScanner(os.Stdin)
	}

	// Parse benchmarks
	results := parseBenchmarks(scanner)

	if !*quiet {
		fmt.Fprintf(os.Stderr, "Parsed %d benchmark results\n", len(results))
	}

	// Generate markdown report
	report := generateMarkdownReport(results)

	// Write output
	if *outputFile != "" {
		err := os.WriteFile(*outputFile, []byte(report), 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			if inputF != nil {
				inputF.Close()
			}
			os.Exit(1)
		}
		if !*quiet {
			fmt.Fprintf(os.Stderr, "Report written to %s\n", *outputFile)
		}
	} else {
		fmt.Fprint(os.Stdout, report)
	}

	// Close input file if opened
	if inputF != nil {
		inputF.Close()
	}
}

func parseBenchmarks(scanner *bufio.Scanner) []BenchmarkResult {
	var results []BenchmarkResult

	// Regex to parse benchmark output lines
	// Benchmark_AllocFree_SteadyState-8    10000    124.5 ns/op    0 B/op    0 allocs/op
	benchmarkRegex := regexp.MustCompile(
		`^(Benchmark\S+)\s+(\d+)\s+([\d.]+)\s+ns/op(?:\s+([\d.]+)\s+(?:B|MB)/op)?(?:\s+([\d.]+)\s+allocs/op)?`,
	)

	for scanner.Scan() {
		line := scanner.Text()

		// Try to parse as JSON (from -json flag)
		var testEvent map[string]any
		if err := json.Unmarshal([]byte(line), &testEvent); err == nil {
			if output, ok := testEvent["Output"].(string); ok {
				line = output
			}
		}

		// Parse benchmark line
		matches := benchmarkRegex.FindStringSubmatch(strings.TrimSpace(line))
		if matches == nil {
			continue
		}

		name := matches[1]
		iterations, _ := strconv.Atoi(matches[2])
		nsPerOp, _ := strconv.ParseFloat(matches[3], 64)

		var bytesPerOp int64
		var allocsPerOp int64

		if matches[4] != "" {
			bytesPerOp, _ = strconv.ParseInt(matches[4], 10, 64)
		}
		if matches[5] != "" {
			allocsPerOp, _ = strconv.ParseInt(matches[5], 10, 64)
		}

		operation, scenario := splitBenchmarkName(name)

		results = append(results, BenchmarkResult{
			Name:        name,
			Operation:   operation,
			Scenario:    scenario,
			Iterations:  iterations,
			NsPerOp:     nsPerOp,
			BytesPerOp:  bytesPerOp,
			AllocsPerOp: allocsPerOp,
		})
	}

	return results
}

// splitBenchmarkName breaks Benchmark_Alloc_FragmentedScan-8 into its
// operation (Alloc) and scenario (FragmentedScan) parts.
func splitBenchmarkName(name string) (string, string) {
	name = strings.TrimPrefix(name, "Benchmark")
	name = strings.TrimPrefix(name, "_")

	// Remove the -N GOMAXPROCS suffix
	if dashIdx := strings.LastIndex(name, "-"); dashIdx > 0 {
		name = name[:dashIdx]
	}

	parts := strings.SplitN(name, "_", 2)
	operation := parts[0]
	scenario := ""
	if len(parts) == 2 {
		scenario = parts[1]
	}
	return operation, scenario
}

func generateMarkdownReport(results []BenchmarkResult) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Benchmark Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05")))

	// Sort by operation then scenario
	sorted := make([]BenchmarkResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Operation != sorted[j].Operation {
			return sorted[i].Operation < sorted[j].Operation
		}
		return sorted[i].Scenario < sorted[j].Scenario
	})

	// Summary statistics
	zeroAlloc := 0
	for _, r := range sorted {
		if r.AllocsPerOp == 0 {
			zeroAlloc++
		}
	}

	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("- **Total benchmarks**: %d\n", len(sorted)))
	sb.WriteString(fmt.Sprintf("- **Zero-allocation operations**: %d\n", zeroAlloc))
	sb.WriteString("\n")

	// Detailed results table
	sb.WriteString("## Detailed Results\n\n")
	sb.WriteString("| Operation | Scenario | ns/op | Memory (B/op) | Allocs |\n")
	sb.WriteString("|-----------|----------|-------|---------------|--------|\n")

	for _, r := range sorted {
		allocIndicator := ""
		if r.AllocsPerOp == 0 {
			allocIndicator = " ✓"
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s%s |\n",
			r.Operation,
			r.Scenario,
			formatNumber(r.NsPerOp),
			formatBytes(r.BytesPerOp),
			formatNumber(float64(r.AllocsPerOp)),
			allocIndicator,
		))
	}

	sb.WriteString("\n")

	// Category summaries
	sb.WriteString("## Performance by Category\n\n")

	categories := categorizeOperations(sorted)
	names := make([]string, 0, len(categories))
	for category := range categories {
		names = append(names, category)
	}
	sort.Strings(names)

	for _, category := range names {
		comps := categories[category]
		if len(comps) == 0 {
			continue
		}

		avgNs := 0.0
		for _, r := range comps {
			avgNs += r.NsPerOp
		}
		avgNs /= float64(len(comps))

		sb.WriteString(fmt.Sprintf("- **%s**: %d benchmark(s), %s ns/op average\n",
			category, len(comps), formatNumber(avgNs)))
	}

	sb.WriteString("\n")

	// Notes
	sb.WriteString("## Notes\n\n")
	sb.WriteString("- **ns/op**: Lower is better\n")
	sb.WriteString("- **Memory**: Bytes allocated per operation, lower is better\n")
	sb.WriteString("- **Allocs ✓**: Operation completes without heap allocation\n")

	return sb.String()
}

func categorizeOperations(results []BenchmarkResult) map[string][]BenchmarkResult {
	categories := map[string][]BenchmarkResult{}

	for _, r := range results {
		op := strings.ToLower(r.Operation)

		var category string
		switch {
		case strings.Contains(op, "resize"):
			category = "Resize"
		case strings.Contains(op, "alloc"):
			category = "Allocation"
		case strings.Contains(op, "free"):
			category = "Release"
		default:
			category = "Other"
		}
		categories[category] = append(categories[category], r)
	}

	return categories
}

func formatNumber(n float64) string {
	if n >= 1000000 {
		return fmt.Sprintf("%.2fM", n/1000000)
	} else if n >= 1000 {
		return fmt.Sprintf("%.1fK", n/1000)
	}
	return fmt.Sprintf("%.0f", n)
}

func formatBytes(b int64) string {
	if b >= 1024*1024 {
		return fmt.Sprintf("%.2fMB", float64(b)/(1024*1024))
	} else if b >= 1024 {
		return fmt.Sprintf("%.1fKB", float64(b)/1024)
	}
	return fmt.Sprintf("%dB", b)
}
