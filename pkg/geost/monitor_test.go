package geost

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKernelMonitor_JumpStatistics(t *testing.T) {
	mon := NewKernelMonitor(2)
	for _, j := range []int{1, 3, 5} {
		mon.RecordPrune(j)
	}
	mon.RecordJumpLength(0, 4)
	mon.RecordJumpLength(0, 4)
	mon.RecordJumpLength(1, 2)
	mon.RecordJumpLength(5, 1)
	mon.RecordSuccessiveRun(3)

	stats := mon.GetStats()
	assert.Equal(t, 3, stats.Prunes)
	assert.Equal(t, 9, stats.Jumps)
	assert.Equal(t, 5, stats.MaxJumps)
	assert.InDelta(t, 3.0, stats.MeanJumps(), 1e-9)
	assert.InDelta(t, 1.632993, stats.StdDevJumps(), 1e-6)
	assert.Equal(t, 2, stats.JumpHistogram[0][4])
	assert.Equal(t, 1, stats.JumpHistogram[1][2])
	assert.Equal(t, 1, stats.SuccessiveRuns[3])

	// the snapshot is independent of later recordings
	mon.RecordJumpLength(0, 4)
	assert.Equal(t, 2, stats.JumpHistogram[0][4])
	assert.Contains(t, stats.String(), "3 prunes, 9 jumps (max 5")
}

func TestKernelMonitor_EmptyStats(t *testing.T) {
	stats := NewKernelMonitor(3).GetStats()
	assert.Zero(t, stats.MeanJumps())
	assert.Zero(t, stats.StdDevJumps())
	assert.Len(t, stats.JumpHistogram, 3)
}

func TestKernelMonitor_PropagationTiming(t *testing.T) {
	mon := NewKernelMonitor(2)
	mon.EndPropagation()
	assert.Zero(t, mon.GetStats().PropagationCount, "end without start is ignored")
	mon.StartPropagation()
	mon.EndPropagation()
	assert.Equal(t, 1, mon.GetStats().PropagationCount)

	mon.RecordFix(true)
	mon.RecordFix(false)
	mon.RecordShapeTrial(true)
	mon.RecordTrashing(trashSuspect)
	mon.RecordTrashing(trashConfirmed)
	mon.RecordTrashing(trashNormal)
	stats := mon.GetStats()
	assert.Equal(t, 2, stats.FixCount)
	assert.Equal(t, 1, stats.MemoHits)
	assert.Equal(t, 1, stats.ShapesRemoved)
	assert.Equal(t, 1, stats.TrashingSuspect)
	assert.Equal(t, 1, stats.TrashingConfirmed)
}

func TestKernelMonitor_SharedAcrossConstraints(t *testing.T) {
	if testing.Short() && !shouldRunHeavy() {
		t.Skip("skipping concurrent constraints in short mode")
	}
	mon := NewKernelMonitor(2)
	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	models := make([]*Model, workers)
	for i := range models {
		models[i] = mixedModel(t)
	}
	for i, m := range models {
		i, m := i, m
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := NewStore(m)
			g := NewKernel(m, s, modeConfig(allModes[i%len(allModes)]), mon)
			if !g.FilterAllConstraints(m.ObjectIDs(), m.Constraints()) {
				errs <- ErrInfeasible
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
	assert.Positive(t, mon.GetStats().Prunes)
}
