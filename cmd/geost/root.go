package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitrdm/gokangeost/pkg/geost"
)

var (
	modeFlag        string
	clipFlag        bool
	memoFlag        bool
	memoDepthFlag   int
	incrementalFlag bool
	traceFlag       bool
	debugFlag       bool
	statsFlag       bool
)

var rootCmd = &cobra.Command{
	Use:   "geost",
	Short: "Geometric placement with the sweep-point kernel",
	Long: `geost narrows and fixes the positions of k-dimensional objects made of
boxes, subject to non-overlapping and distance constraints.

Models are JSON files:

  {
    "k": 2,
    "shapes": {"0": [{"offset": [0, 0], "size": [10, 10]}]},
    "objects": [{"id": 0, "coords": [[0, 40], [0, 0]], "shapes": [0]}],
    "constraints": [{"kind": "non_overlapping", "objects": [0]}],
    "controlVectors": [[-1, -2, -3]]
  }

Results are printed as JSON on standard output.`,
	SilenceUsage: true,
}

func init() {
	def := geost.DefaultConfig()
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&modeFlag, "mode", "m", def.Mode.String(), "sweep strategy: box, prop or delta")
	pf.BoolVar(&clipFlag, "clip", def.Clipping, "clip generated outboxes to the object's domain")
	pf.BoolVar(&memoFlag, "memo", def.Memo, "reuse earlier fix positions of equivalent objects")
	pf.IntVar(&memoDepthFlag, "memo-depth", def.MemoDepth, "memo entries kept per control vector")
	pf.BoolVar(&incrementalFlag, "incremental", def.IncrementalFix, "reuse internal constraints between consecutive fixes")
	pf.BoolVar(&traceFlag, "trace", false, "log sweeps and frame updates to stderr")
	pf.BoolVar(&debugFlag, "debug", false, "check kernel invariants while sweeping")
	pf.BoolVar(&statsFlag, "stats", false, "include kernel statistics in the output")
}

// buildConfig turns the persistent flags into a validated geost.Config.
func buildConfig() (geost.Config, error) {
	cfg := geost.DefaultConfig()
	mode, err := geost.ParsePruneMode(modeFlag)
	if err != nil {
		return cfg, err
	}
	cfg.Mode = mode
	cfg.Clipping = clipFlag
	cfg.Memo = memoFlag
	cfg.MemoDepth = memoDepthFlag
	cfg.IncrementalFix = incrementalFlag
	cfg.Trace = traceFlag
	cfg.Debug = debugFlag
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}
