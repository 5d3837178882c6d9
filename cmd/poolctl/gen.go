package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/joshuapare/poolkit/trace"
	"github.com/spf13/cobra"
)

var (
	genOps     int
	genSeed    int64
	genMaxSize int
)

func init() {
	cmd := newGenCmd()
	cmd.Flags().IntVar(&genOps, "ops", 100, "Number of operations to generate")
	cmd.Flags().Int64Var(&genSeed, "seed", 1, "Seed for the operation sequence")
	cmd.Flags().IntVar(&genMaxSize, "max-size", 4096, "Largest allocation size")
	rootCmd.AddCommand(cmd)
}

func newGenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen <out.json>",
		Short: "Generate a random allocation trace",
		Long: `The gen command writes a random but well-formed trace of allocs, frees,
and resizes. The same seed always produces the same trace, so generated
traces can serve as reproducible fixtures.

Example:
  poolctl gen ops.json
  poolctl gen ops.json --ops 500 --seed 42`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen(args)
		},
	}
	return cmd
}

func runGen(args []string) error {
	outPath := args[0]

	rng := rand.New(rand.NewSource(genSeed))
	ops := make([]trace.Op, 0, genOps)
	var live []int // indices of ops whose blocks are still allocated

	for i := 0; i < genOps; i++ {
		kind := rng.Intn(4)
		if len(live) == 0 {
			kind = 0
		}
		switch kind {
		case 0, 1: // lean towards allocations
			ops = append(ops, trace.Op{Kind: trace.KindAlloc, Size: 1 + rng.Intn(genMaxSize)})
			live = append(live, i)
		case 2: // free a live block
			j := rng.Intn(len(live))
			ops = append(ops, trace.Op{Kind: trace.KindFree, Target: live[j]})
			live = append(live[:j], live[j+1:]...)
		case 3: // resize a live block; its handle follows the move
			j := rng.Intn(len(live))
			ops = append(ops, trace.Op{
				Kind:   trace.KindResize,
				Size:   1 + rng.Intn(genMaxSize),
				Target: live[j],
			})
		}
	}

	if err := trace.Validate(ops); err != nil {
		return fmt.Errorf("generated an invalid trace: %w", err)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	defer f.Close()

	if err := trace.Encode(f, ops); err != nil {
		return err
	}

	printInfo("Wrote %d operation(s) to %s\n", len(ops), outPath)
	return nil
}
