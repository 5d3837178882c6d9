package main

import (
	"fmt"

	"github.com/joshuapare/poolkit/trace"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newReplayCmd())
}

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <trace.json>",
		Short: "Replay a trace and report every operation",
		Long: `The replay command plays a JSON operation trace against a fresh pool
and reports the offset or error of every operation together with the final
pool statistics. Failed operations are reported but do not stop the replay.

Example:
  poolctl replay ops.json
  poolctl replay ops.json --size 65536
  poolctl replay ops.json --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(args)
		},
	}
	return cmd
}

func runReplay(args []string) error {
	tracePath := args[0]

	printVerbose("Loading trace: %s\n", tracePath)
	ops, err := loadTrace(tracePath)
	if err != nil {
		return err
	}

	p, err := newTracePool()
	if err != nil {
		return err
	}
	defer p.Close()

	printVerbose("Replaying %d operation(s) against a %d byte pool\n", len(ops), poolSize)
	rep, err := trace.Run(p, ops)
	if err != nil {
		return fmt.Errorf("failed to replay trace: %w", err)
	}

	// Output as JSON if requested
	if jsonOut {
		return printJSON(rep)
	}

	// Text output
	printInfo("\nReplay Report: %s\n", tracePath)
	failed := 0
	for _, r := range rep.Results {
		if r.Err != "" {
			failed++
			printInfo("  op %3d  %-6s  failed: %s\n", r.Seq, r.Kind, r.Err)
			continue
		}
		printInfo("  op %3d  %-6s  offset %d\n", r.Seq, r.Kind, r.Offset)
	}

	printInfo("\nSummary:\n")
	printInfo("  Operations: %s (%s failed)\n",
		formatNumber(int64(len(rep.Results))), formatNumber(int64(failed)))
	printInfo("  Used: %s in %s block(s)\n",
		formatBytes(int64(rep.Stats.UsedBytes)), formatNumber(int64(rep.Stats.UsedBlocks)))
	printInfo("  Free: %s in %s range(s)\n",
		formatBytes(int64(rep.Stats.FreeBytes)), formatNumber(int64(rep.Stats.FreeBlocks)))
	printInfo("  Utilization: %.1f%%\n", rep.Stats.Utilization()*100)

	return nil
}
