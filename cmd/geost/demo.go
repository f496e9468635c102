package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/gitrdm/gokangeost/pkg/geost"
)

var (
	demoObjectsFlag int
	demoWidthFlag   int
	demoHeightFlag  int
)

func init() {
	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Pack a few rotatable pieces into a strip with every sweep mode",
		Long: `Demo builds a strip of the given size and a set of pieces: rotatable
4x2 bars and L-shaped corners. It fixes every piece with each sweep mode,
prints the kernel counters side by side and draws the box-mode packing.

Examples:
  geost demo
  geost demo --objects 8 --width 20`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig()
			if err != nil {
				return err
			}
			return runDemo(cmd, cfg)
		},
	}
	demoCmd.Flags().IntVarP(&demoObjectsFlag, "objects", "n", 6, "number of pieces")
	demoCmd.Flags().IntVar(&demoWidthFlag, "width", 16, "strip width")
	demoCmd.Flags().IntVar(&demoHeightFlag, "height", 8, "strip height")
	rootCmd.AddCommand(demoCmd)
}

// demoModel builds the strip. Every piece fits in a 4x4 square, so origins
// are kept 4 cells away from the far edges.
func demoModel(n, width, height int) (*geost.Model, error) {
	if width < 4 || height < 4 {
		return nil, fmt.Errorf("demo: strip must be at least 4x4, got %dx%d", width, height)
	}
	m := geost.NewModel(2)
	shapes := map[int][]geost.ShiftedBox{
		0: {geost.NewShiftedBox([]int{0, 0}, []int{4, 2})},
		1: {geost.NewShiftedBox([]int{0, 0}, []int{2, 4})},
		2: {
			geost.NewShiftedBox([]int{0, 0}, []int{3, 1}),
			geost.NewShiftedBox([]int{0, 1}, []int{1, 2}),
		},
	}
	for sid := 0; sid < len(shapes); sid++ {
		if err := m.AddShape(sid, shapes[sid]...); err != nil {
			return nil, err
		}
	}
	ids := make([]int, n)
	for i := 0; i < n; i++ {
		coords := []geost.IntervalDomain{
			geost.NewIntervalDomain(0, width-4),
			geost.NewIntervalDomain(0, height-4),
		}
		sids := geost.NewIntervalDomain(0, 1)
		if i%2 == 1 {
			sids = geost.NewIntervalDomain(2, 2)
		}
		if _, err := m.AddObject(i, coords, sids, 0); err != nil {
			return nil, err
		}
		ids[i] = i
	}
	if _, err := m.AddNonOverlapping(ids...); err != nil {
		return nil, err
	}
	return m, nil
}

func runDemo(cmd *cobra.Command, cfg geost.Config) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "=== Packing %d pieces into a %dx%d strip ===\n\n", demoObjectsFlag, demoWidthFlag, demoHeightFlag)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "mode\tstatus\tgetFR\tprunes\tjumps\tmemo hits\ttime")

	var picture string
	for _, mode := range []geost.PruneMode{geost.BoxMode, geost.PropMode, geost.DeltaMode} {
		m, err := demoModel(demoObjectsFlag, demoWidthFlag, demoHeightFlag)
		if err != nil {
			return err
		}
		store := geost.NewStore(m)
		modeCfg := cfg
		modeCfg.Mode = mode
		c, err := geost.NewConstraint(m, store, modeCfg)
		if err != nil {
			return err
		}
		start := time.Now()
		status := statusFixed
		if err := c.FixAll(cmd.Context(), nil); err != nil {
			if !errors.Is(err, geost.ErrInfeasible) {
				return err
			}
			status = statusInfeasible
		} else if mode == geost.BoxMode {
			picture = drawPacking(m, store, demoWidthFlag, demoHeightFlag)
		}
		s := c.Stats()
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%v\n",
			mode, status, s.GetFRCalls, s.Prunes, s.Jumps, s.MemoHits, time.Since(start).Round(time.Microsecond))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if picture != "" {
		fmt.Fprintf(out, "\n%s", picture)
	}
	return nil
}

// drawPacking renders fixed objects as letters, row height-1 on top.
func drawPacking(m *geost.Model, doms geost.Domains, width, height int) string {
	grid := make([][]byte, height)
	for y := range grid {
		grid[y] = []byte(strings.Repeat(".", width))
	}
	for _, o := range m.Objects() {
		shape, _ := m.Shape(doms.Inf(o.Shape))
		x0, y0 := doms.Inf(o.Coords[0]), doms.Inf(o.Coords[1])
		mark := byte('A' + o.ID%26)
		for _, b := range shape {
			paintBox(grid, x0+b.Offset[0], y0+b.Offset[1], b.Size[0], b.Size[1], mark)
		}
	}
	var sb strings.Builder
	for y := height - 1; y >= 0; y-- {
		sb.Write(grid[y])
		sb.WriteByte('\n')
	}
	return sb.String()
}

func paintBox(grid [][]byte, x, y, w, h int, mark byte) {
	for j := y; j < y+h && j < len(grid); j++ {
		for i := x; i < x+w && i < len(grid[j]); i++ {
			grid[j][i] = mark
		}
	}
}
