package main

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/gitrdm/gokangeost/internal/parallel"
)

var (
	workersFlag  int
	batchFixFlag bool
)

func init() {
	batchCmd := &cobra.Command{
		Use:   "batch <model.json>...",
		Short: "Solve several models concurrently",
		Long: `Batch runs one independent constraint per model file on a worker pool and
prints a JSON array of results in argument order. Models that fail to load
are reported with status "error" and make the command exit non-zero after
all results are printed.

Examples:
  geost batch models/*.json
  geost batch --workers 2 --fix a.json b.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: runBatch,
	}
	batchCmd.Flags().IntVarP(&workersFlag, "workers", "w", 0, "number of workers (0 = one per CPU)")
	batchCmd.Flags().BoolVar(&batchFixFlag, "fix", false, "fix every object after propagating")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	pool := parallel.NewWorkerPool(workersFlag)
	defer pool.Shutdown()

	results := make([]result, len(args))
	errs, err := pool.Run(cmd.Context(), len(args), func(ctx context.Context, i int) error {
		res, err := solveFile(ctx, args[i], cfg, batchFixFlag)
		if err != nil {
			res.Status, res.Error = statusError, err.Error()
		}
		results[i] = res
		return err
	})
	if err != nil {
		return fmt.Errorf("batch: %w", err)
	}
	if werr := writeJSON(cmd.OutOrStdout(), results); werr != nil {
		return werr
	}
	if failed := lo.CountBy(errs, func(e error) bool { return e != nil }); failed > 0 {
		return fmt.Errorf("batch: %d of %d models failed", failed, len(args))
	}
	return nil
}
