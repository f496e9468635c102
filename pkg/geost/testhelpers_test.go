package geost

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// shouldRunHeavy returns true when heavy/long-running tests should run even
// if the Go test suite is invoked in short mode. Set GOKANGEOST_FORCE_HEAVY=1
// (or "true") to override short-mode skips.
func shouldRunHeavy() bool {
	v := os.Getenv("GOKANGEOST_FORCE_HEAVY")
	return v == "1" || v == "true" || v == "TRUE" || v == "True"
}

func span2(lo, hi int) []IntervalDomain {
	return []IntervalDomain{NewIntervalDomain(lo, hi), NewIntervalDomain(lo, hi)}
}

func at(coords ...int) []IntervalDomain {
	out := make([]IntervalDomain, len(coords))
	for i, v := range coords {
		out[i] = NewIntervalDomain(v, v)
	}
	return out
}

func box2(w, h int) ShiftedBox {
	return NewShiftedBox([]int{0, 0}, []int{w, h})
}

func mustObject(t *testing.T, m *Model, id int, coords []IntervalDomain, shapes IntervalDomain) *Object {
	t.Helper()
	o, err := m.AddObject(id, coords, shapes, 0)
	require.NoError(t, err)
	return o
}

func newTestKernel(t *testing.T, m *Model, cfg Config) (*Kernel, *Store) {
	t.Helper()
	require.NoError(t, cfg.Validate())
	s := NewStore(m)
	return NewKernel(m, s, cfg, nil), s
}

func modeConfig(mode PruneMode) Config {
	cfg := DefaultConfig()
	cfg.Mode = mode
	cfg.Debug = true
	return cfg
}

var allModes = []PruneMode{BoxMode, PropMode, DeltaMode}

// hullGap is the gap along one dimension between [p+t1, p+t1+l1) and
// [q+t2, q+t2+l2).
func hullGap(p, t1, l1, q, t2, l2 int) int {
	return max(0, (q+t2)-(p+t1+l1), (p+t1)-(q+t2+l2))
}
