package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitrdm/gokangeost/pkg/geost"
)

// execute runs the root command with args after restoring every flag to
// its default, and returns what was written to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	def := geost.DefaultConfig()
	modeFlag, clipFlag, memoFlag, memoDepthFlag = def.Mode.String(), def.Clipping, def.Memo, def.MemoDepth
	incrementalFlag, traceFlag, debugFlag, statsFlag = false, false, false, false
	workersFlag, batchFixFlag = 0, false
	demoObjectsFlag, demoWidthFlag, demoHeightFlag = 6, 16, 8

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func decodeResult(t *testing.T, out string) result {
	t.Helper()
	var res result
	require.NoError(t, json.Unmarshal([]byte(out), &res), out)
	return res
}

func TestPropagateCommand(t *testing.T) {
	for _, mode := range []string{"box", "prop", "delta"} {
		t.Run(mode, func(t *testing.T) {
			out, err := execute(t, "propagate", "--mode", mode, "testdata/pair.json")
			require.NoError(t, err)
			res := decodeResult(t, out)
			assert.Equal(t, statusConsistent, res.Status)
			require.Len(t, res.Objects, 2)
			assert.Equal(t, []string{"{10..99}", "{0..5}"}, res.Objects[1].Coords)
			assert.False(t, res.Objects[1].Fixed)
			assert.Nil(t, res.Stats)
		})
	}
}

func TestPropagateCommand_Infeasible(t *testing.T) {
	out, err := execute(t, "propagate", "testdata/boxed_in.json")
	require.NoError(t, err, "infeasibility is reported, not returned")
	res := decodeResult(t, out)
	assert.Equal(t, statusInfeasible, res.Status)
	assert.Empty(t, res.Objects)
}

func TestPropagateCommand_Stats(t *testing.T) {
	out, err := execute(t, "propagate", "--stats", "--clip=false", "testdata/pair.json")
	require.NoError(t, err)
	res := decodeResult(t, out)
	require.NotNil(t, res.Stats)
	assert.Positive(t, res.Stats.GetFRCalls)
	assert.Positive(t, res.Stats.Prunes)
}

func TestFixCommand(t *testing.T) {
	out, err := execute(t, "fix", "testdata/pair.json")
	require.NoError(t, err)
	res := decodeResult(t, out)
	assert.Equal(t, statusFixed, res.Status)
	require.Len(t, res.Objects, 2)
	assert.Equal(t, []string{"{10}", "{0}"}, res.Objects[1].Coords)
	assert.True(t, res.Objects[1].Fixed)
}

func TestBatchCommand(t *testing.T) {
	files := []string{"testdata/pair.json", "testdata/boxed_in.json", "testdata/broken.json", "testdata/missing.json"}
	out, err := execute(t, append([]string{"batch", "--workers", "2", "--fix"}, files...)...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 4 models failed")

	var results []result
	require.NoError(t, json.Unmarshal([]byte(out), &results), out)
	require.Len(t, results, 4)
	for i, res := range results {
		assert.Equal(t, files[i], res.Model, "results keep argument order")
	}
	assert.Equal(t, statusFixed, results[0].Status)
	assert.Equal(t, statusInfeasible, results[1].Status)
	assert.Equal(t, statusError, results[2].Status)
	assert.Contains(t, results[2].Error, "bogus")
	assert.Equal(t, statusError, results[3].Status)
}

func TestInvalidFlags(t *testing.T) {
	_, err := execute(t, "propagate", "--mode", "spiral", "testdata/pair.json")
	assert.ErrorContains(t, err, "unknown mode")

	_, err = execute(t, "fix", "--memo-depth", "0", "testdata/pair.json")
	assert.ErrorContains(t, err, "MemoDepth")

	_, err = execute(t, "propagate")
	assert.Error(t, err)
}

func TestDemoCommand(t *testing.T) {
	out, err := execute(t, "demo", "--objects", "4")
	require.NoError(t, err)
	for _, want := range []string{"Packing 4 pieces into a 16x8 strip", "box", "prop", "delta", "A"} {
		assert.Contains(t, out, want)
	}

	_, err = execute(t, "demo", "--width", "3")
	assert.ErrorContains(t, err, "at least 4x4")
}

func TestDrawPacking(t *testing.T) {
	m, err := demoModel(2, 8, 4)
	require.NoError(t, err)
	store := geost.NewStore(m)
	a, _ := m.Object(0)
	b, _ := m.Object(1)
	require.NoError(t, store.Instantiate(a.Shape, 0))
	require.NoError(t, store.Instantiate(a.Coords[0], 0))
	require.NoError(t, store.Instantiate(a.Coords[1], 0))
	require.NoError(t, store.Instantiate(b.Coords[0], 4))
	require.NoError(t, store.Instantiate(b.Coords[1], 0))

	want := "........\n" +
		"....B...\n" +
		"AAAAB...\n" +
		"AAAABBB.\n"
	assert.Equal(t, want, drawPacking(m, store, 8, 4))
}
