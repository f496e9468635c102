package geost

import (
	"fmt"
)

// PruneMode selects the sweep strategy used by the kernel. Exactly one mode
// is active per constraint.
type PruneMode int

const (
	// BoxMode jumps past the first forbidden box found.
	BoxMode PruneMode = iota
	// PropMode picks the best of several candidate boxes once the sweep
	// starts advancing by unit steps.
	PropMode
	// DeltaMode adapts a speculative jump length and switches strategy when
	// forbidden boxes stay thin.
	DeltaMode
)

func (m PruneMode) String() string {
	switch m {
	case BoxMode:
		return "box"
	case PropMode:
		return "prop"
	case DeltaMode:
		return "delta"
	default:
		return fmt.Sprintf("PruneMode(%d)", int(m))
	}
}

// ParsePruneMode maps "box", "prop" and "delta" to a PruneMode.
func ParsePruneMode(s string) (PruneMode, error) {
	switch s {
	case "box":
		return BoxMode, nil
	case "prop":
		return PropMode, nil
	case "delta":
		return DeltaMode, nil
	}
	return BoxMode, fmt.Errorf("ParsePruneMode: unknown mode %q (want box, prop or delta)", s)
}

// Config holds per-constraint options. It is read once when the Constraint
// is built.
type Config struct {
	Mode PruneMode

	// Clipping shrinks generated outboxes to the object's live domain.
	Clipping bool

	// Memo enables the fix-time cache of previously fixed objects, keeping
	// at most MemoDepth entries per controlling vector.
	Memo      bool
	MemoDepth int

	// Proportions lists the fractions used to build proportional candidate
	// boxes in PropMode. Each vector has one entry per non-pruned dimension
	// (k-1 entries); missing entries count as 1.
	Proportions [][]float64

	// IncrementalFix makes FixAll reuse the internal constraints of the
	// previous object when shape and domain are unchanged.
	IncrementalFix bool

	// Debug enables invariant assertions in the kernel.
	Debug bool
	// Trace enables the [GEOST] log output.
	Trace bool
}

// DefaultConfig returns box mode with clipping and memoization on.
func DefaultConfig() Config {
	return Config{
		Mode:        BoxMode,
		Clipping:    true,
		Memo:        true,
		MemoDepth:   4,
		Proportions: [][]float64{{0.5}, {0.25}},
	}
}

// Validate checks the option values.
func (c Config) Validate() error {
	switch c.Mode {
	case BoxMode, PropMode, DeltaMode:
	default:
		return fmt.Errorf("Config: unknown prune mode %d", int(c.Mode))
	}
	if c.Memo && c.MemoDepth < 1 {
		return fmt.Errorf("Config: MemoDepth must be at least 1 when Memo is set, got %d", c.MemoDepth)
	}
	for i, prop := range c.Proportions {
		for j, f := range prop {
			if f <= 0 || f > 1 {
				return fmt.Errorf("Config: Proportions[%d][%d] = %g is outside (0,1]", i, j, f)
			}
		}
	}
	return nil
}

// effectiveMode applies the dimensionality guard: best-box and delta sweeps
// only exist for k = 2 and k = 3.
func (c Config) effectiveMode(k int) PruneMode {
	if c.Mode != BoxMode && k != 2 && k != 3 {
		return BoxMode
	}
	return c.Mode
}
