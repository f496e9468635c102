package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	propagateCmd := &cobra.Command{
		Use:   "propagate <model.json>",
		Short: "Narrow every object's domains to a fixpoint",
		Long: `Propagate runs the geost constraint once over the model and prints the
narrowed domains of every object. A model with no feasible placement is
reported with status "infeasible".

Examples:
  geost propagate model.json
  geost propagate --mode prop --stats model.json
  geost propagate --clip=false model.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig()
			if err != nil {
				return err
			}
			res, err := solveFile(cmd.Context(), args[0], cfg, false)
			if err != nil {
				return fmt.Errorf("propagate %s: %w", args[0], err)
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
	rootCmd.AddCommand(propagateCmd)
}
