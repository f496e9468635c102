package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	fixCmd := &cobra.Command{
		Use:   "fix <model.json>",
		Short: "Place every object at its first feasible position",
		Long: `Fix propagates the model, then instantiates the objects one by one in
file order. Object i is placed by controlVectors[i mod n]; without control
vectors every dimension is swept upwards, dimension 0 first.

Examples:
  geost fix model.json
  geost fix --memo=false model.json
  geost fix --incremental --mode delta model.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig()
			if err != nil {
				return err
			}
			res, err := solveFile(cmd.Context(), args[0], cfg, true)
			if err != nil {
				return fmt.Errorf("fix %s: %w", args[0], err)
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
	rootCmd.AddCommand(fixCmd)
}
