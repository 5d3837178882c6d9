package main

import (
	"fmt"

	"github.com/joshuapare/poolkit/trace"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newCheckCmd())
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <trace.json>",
		Short: "Validate a trace and the pool invariants after replaying it",
		Long: `The check command validates that a trace file is well formed, replays
it, and verifies the structural invariants of the resulting pool: blocks tile
the arena in address order and no two adjacent blocks are both free.

Example:
  poolctl check ops.json
  poolctl check ops.json --size 65536`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(args)
		},
	}
	return cmd
}

func runCheck(args []string) error {
	tracePath := args[0]

	ops, err := loadTrace(tracePath)
	if err != nil {
		return err
	}
	printInfo("✓ Trace well formed (%d operations)\n", len(ops))

	p, err := newTracePool()
	if err != nil {
		return err
	}
	defer p.Close()

	rep, err := trace.Run(p, ops)
	if err != nil {
		return fmt.Errorf("failed to replay trace: %w", err)
	}

	failed := 0
	for _, r := range rep.Results {
		if r.Err != "" {
			failed++
			printVerbose("  op %d %s failed: %s\n", r.Seq, r.Kind, r.Err)
		}
	}
	printInfo("✓ Replayed %d operation(s), %d failed\n", len(rep.Results), failed)

	if err := p.Validate(); err != nil {
		return fmt.Errorf("pool invariants violated after replay: %w", err)
	}
	printInfo("✓ Pool invariants hold after replay\n")

	return nil
}
