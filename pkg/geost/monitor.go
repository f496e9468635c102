package geost

// monitor.go: statistics for the geometric kernel

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/samber/lo"
)

// KernelStats holds counters collected while the kernel sweeps.
type KernelStats struct {
	// Oracle statistics
	GetFRCalls int // forbidden-region queries issued by the sweeps

	// Propagation statistics
	PropagationCount int           // Propagate calls
	PropagationTime  time.Duration // time spent in Propagate
	FixCount         int           // objects fixed by FixAll
	MemoHits         int           // fix sweeps restarted from a memoized position

	// Sweep statistics
	Prunes          int   // bound-pruning sweeps
	Jumps           int   // jumps over all sweeps
	MaxJumps        int   // most jumps in a single sweep
	SumJumps        int64 // sum of per-sweep jump counts
	SumSquaredJumps int64 // sum of squared per-sweep jump counts

	// JumpHistogram[d][delta] counts jumps of length delta along the
	// pruned dimension d.
	JumpHistogram []map[int]int
	// SuccessiveRuns[n] counts runs of n consecutive jumps of equal length.
	SuccessiveRuns map[int]int

	// Shape choice
	ShapeTrials   int
	ShapesRemoved int

	// Delta mode trashing detector transitions
	TrashingSuspect   int
	TrashingConfirmed int
}

// MeanJumps returns the average number of jumps per sweep.
func (s *KernelStats) MeanJumps() float64 {
	if s.Prunes == 0 {
		return 0
	}
	return float64(s.SumJumps) / float64(s.Prunes)
}

// StdDevJumps returns the standard deviation of the per-sweep jump count.
func (s *KernelStats) StdDevJumps() float64 {
	if s.Prunes == 0 {
		return 0
	}
	mean := s.MeanJumps()
	v := float64(s.SumSquaredJumps)/float64(s.Prunes) - mean*mean
	return math.Sqrt(math.Max(v, 0))
}

// String returns a formatted summary of the statistics
func (s *KernelStats) String() string {
	return fmt.Sprintf(
		"Kernel Statistics:\n"+
			"  Propagation: %d ops, %v time, %d getFR calls\n"+
			"  Sweeps: %d prunes, %d jumps (max %d, mean %.2f, sd %.2f)\n"+
			"  Fix: %d objects, %d memo hits\n"+
			"  Shapes: %d trials, %d removed\n"+
			"  Trashing: %d suspect, %d confirmed",
		s.PropagationCount, s.PropagationTime, s.GetFRCalls,
		s.Prunes, s.Jumps, s.MaxJumps, s.MeanJumps(), s.StdDevJumps(),
		s.FixCount, s.MemoHits,
		s.ShapeTrials, s.ShapesRemoved,
		s.TrashingSuspect, s.TrashingConfirmed,
	)
}

// KernelMonitor collects KernelStats. It is safe for concurrent use so a
// single monitor can aggregate several constraints.
type KernelMonitor struct {
	mu        sync.Mutex
	stats     *KernelStats
	propStart time.Time
}

// NewKernelMonitor creates a monitor for k-dimensional models.
func NewKernelMonitor(k int) *KernelMonitor {
	return &KernelMonitor{
		stats: &KernelStats{
			JumpHistogram:  lo.Times(k, func(int) map[int]int { return make(map[int]int) }),
			SuccessiveRuns: make(map[int]int),
		},
	}
}

// GetStats returns a copy of the current statistics
func (m *KernelMonitor) GetStats() *KernelStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := *m.stats
	stats.JumpHistogram = lo.Map(m.stats.JumpHistogram, func(h map[int]int, _ int) map[int]int { return lo.Assign(h) })
	stats.SuccessiveRuns = lo.Assign(m.stats.SuccessiveRuns)
	return &stats
}

// StartPropagation marks the beginning of a propagation operation
func (m *KernelMonitor) StartPropagation() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.propStart = time.Now()
}

// EndPropagation marks the end of a propagation operation
func (m *KernelMonitor) EndPropagation() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.propStart.IsZero() {
		m.stats.PropagationTime += time.Since(m.propStart)
		m.stats.PropagationCount++
		m.propStart = time.Time{}
	}
}

// RecordGetFR records one forbidden-region query
func (m *KernelMonitor) RecordGetFR() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.GetFRCalls++
}

// RecordPrune records a finished sweep and the jumps it took
func (m *KernelMonitor) RecordPrune(jumps int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.Prunes++
	m.stats.Jumps += jumps
	m.stats.SumJumps += int64(jumps)
	m.stats.SumSquaredJumps += int64(jumps) * int64(jumps)
	if jumps > m.stats.MaxJumps {
		m.stats.MaxJumps = jumps
	}
}

// RecordJumpLength records a jump of the given length along dimension d
func (m *KernelMonitor) RecordJumpLength(d, length int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d < len(m.stats.JumpHistogram) {
		m.stats.JumpHistogram[d][length]++
	}
}

// RecordSuccessiveRun records a run of n jumps of equal length
func (m *KernelMonitor) RecordSuccessiveRun(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.SuccessiveRuns[n]++
}

// RecordFix records an object fixed by FixAll
func (m *KernelMonitor) RecordFix(memoHit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.FixCount++
	if memoHit {
		m.stats.MemoHits++
	}
}

// RecordShapeTrial records a speculative shape trial and whether the shape
// was removed
func (m *KernelMonitor) RecordShapeTrial(removed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.ShapeTrials++
	if removed {
		m.stats.ShapesRemoved++
	}
}

// RecordTrashing records a transition of the trashing detector
func (m *KernelMonitor) RecordTrashing(to trashMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch to {
	case trashSuspect:
		m.stats.TrashingSuspect++
	case trashConfirmed:
		m.stats.TrashingConfirmed++
	}
}
