package main

import (
	"fmt"
	"os"

	"github.com/joshuapare/poolkit/trace"
	"github.com/spf13/cobra"
)

var dumpFreeOnly bool

func init() {
	cmd := newDumpCmd()
	cmd.Flags().BoolVar(&dumpFreeOnly, "free-only", false, "Show only free ranges")
	rootCmd.AddCommand(cmd)
}

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <trace.json>",
		Short: "Dump the block layout after replaying a trace",
		Long: `The dump command replays a trace and prints the resulting block map in
address order. With --json the map is streamed as a machine-readable document.

Example:
  poolctl dump ops.json
  poolctl dump ops.json --free-only
  poolctl dump ops.json --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args)
		},
	}
	return cmd
}

func runDump(args []string) error {
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
	if _, err := trace.Run(p, ops); err != nil {
		return fmt.Errorf("failed to replay trace: %w", err)
	}

	// Output as JSON if requested
	if jsonOut {
		return p.WriteBlockMap(os.Stdout)
	}

	// Text output
	printInfo("\nBlock Map: %s\n", tracePath)
	printInfo("  %-12s %-12s %s\n", "OFFSET", "SIZE", "STATE")
	return p.VisitBlocks(func(off, size uint32, free bool) error {
		if dumpFreeOnly && !free {
			return nil
		}
		state := "used"
		if free {
			state = "free"
		}
		printInfo("  %-12d %-12d %s\n", off, size, state)
		return nil
	})
}
