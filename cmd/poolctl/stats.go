package main

import (
	"fmt"
	"strings"

	"github.com/joshuapare/poolkit/trace"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newStatsCmd())
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <trace.json>",
		Short: "Show pool statistics after replaying a trace",
		Long: `The stats command replays a trace and shows detailed statistics about
the resulting pool: occupancy, fragmentation, and operation counters.

Example:
  poolctl stats ops.json
  poolctl stats ops.json --size 65536
  poolctl stats ops.json --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(args)
		},
	}
	return cmd
}

func runStats(args []string) error {
	tracePath := args[0]

	ops, err := loadTrace(tracePath)
	if err != nil {
		return err
	}

	p, err := newTracePool()
	if err != nil {
		return err
	}
	defer p.Close()

	printVerbose("Replaying %d operation(s)\n", len(ops))
	rep, err := trace.Run(p, ops)
	if err != nil {
		return fmt.Errorf("failed to replay trace: %w", err)
	}
	s := rep.Stats

	// Output as JSON if requested
	if jsonOut {
		return printJSON(s)
	}

	// Text output
	printInfo("\nPool Statistics: %s\n", tracePath)
	printInfo("%s\n\n", strings.Repeat("═", 40))

	printInfo("Occupancy:\n")
	printInfo("  Total: %s (%s bytes)\n",
		formatBytes(int64(s.TotalSize)), formatNumber(int64(s.TotalSize)))
	printInfo("  Used: %s in %s block(s)\n",
		formatBytes(int64(s.UsedBytes)), formatNumber(int64(s.UsedBlocks)))
	printInfo("  Free: %s in %s range(s)\n",
		formatBytes(int64(s.FreeBytes)), formatNumber(int64(s.FreeBlocks)))
	printInfo("  Largest free block: %s\n", formatBytes(int64(s.LargestFree)))
	printInfo("  Utilization: %.1f%%\n\n", s.Utilization()*100)

	printInfo("Activity:\n")
	printInfo("  Allocs: %s (%s failed)\n",
		formatNumber(int64(s.AllocCalls)), formatNumber(int64(s.FailedAllocs)))
	printInfo("  Frees: %s\n", formatNumber(int64(s.FreeCalls)))
	printInfo("  Resizes: %s (%s moved)\n",
		formatNumber(int64(s.ResizeCalls)), formatNumber(int64(s.Moves)))
	printInfo("  Splits: %s\n", formatNumber(int64(s.Splits)))
	printInfo("  Coalesces: %s\n", formatNumber(int64(s.Coalesces)))

	return nil
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func formatNumber(n int64) string {
	str := fmt.Sprintf("%d", n)
	if len(str) <= 3 {
		return str
	}

	// Add commas
	var result strings.Builder
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(c)
	}
	return result.String()
}
