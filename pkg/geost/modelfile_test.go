package geost

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadModelFile(t *testing.T) {
	m, cvs, err := LoadModelFile("testdata/row.json")
	require.NoError(t, err)
	assert.Equal(t, 2, m.K())
	assert.Equal(t, []int{0, 1}, m.ShapeIDs())
	assert.Equal(t, []int{0, 1, 2}, m.ObjectIDs())
	require.Len(t, m.Constraints(), 5)
	assert.Equal(t, DistanceGeq, m.Constraints()[2].Kind)
	assert.NotEqual(t, NoVar, m.Constraints()[2].DistanceVar)
	assert.Equal(t, Visible, m.Constraints()[4].Kind)

	require.Len(t, cvs, 2)
	assert.Equal(t, []int{-1, -2, -3}, cvs[0].Encode())
	assert.Equal(t, DimOrder{Dim: 1, Increasing: false}, cvs[1].Order[0])

	o2, ok := m.Object(2)
	require.True(t, ok)
	assert.Len(t, o2.static, 1)

	s := NewStore(m)
	c, err := NewConstraint(m, s, DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, c.Propagate(context.Background()))
	snap := Snapshot(m, s)
	require.Len(t, snap, 3)
	assert.True(t, snap[0].Fixed)
	assert.Equal(t, []string{"{0}", "{0}"}, snap[0].Coords)
	// the inbox keeps object 2 in [5,34] x [5,24]
	assert.GreaterOrEqual(t, s.Inf(o2.Coords[0]), 5)
	assert.LessOrEqual(t, s.Sup(o2.Coords[1]), 24)
}

func TestReadModelFile_Errors(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"unknown field", `{"k": 2, "dims": 3}`},
		{"not json", `k=2`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadModelFile(strings.NewReader(tt.json))
			assert.Error(t, err)
		})
	}

	_, _, err := LoadModelFile("testdata/missing.json")
	assert.Error(t, err)
}

func TestModelFile_BuildErrors(t *testing.T) {
	base := func() *ModelFile {
		return &ModelFile{
			K:      2,
			Shapes: map[int][]BoxSpec{0: {{Offset: []int{0, 0}, Size: []int{1, 1}}}},
			Objects: []ObjectSpec{
				{ID: 0, Coords: [][2]int{{0, 9}, {0, 9}}, Shapes: []int{0}},
				{ID: 1, Coords: [][2]int{{0, 9}, {0, 9}}, Shapes: []int{0}},
			},
		}
	}
	_, _, err := base().Build()
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(mf *ModelFile)
	}{
		{"zero k", func(mf *ModelFile) { mf.K = 0 }},
		{"empty shape", func(mf *ModelFile) { mf.Shapes[1] = nil }},
		{"undefined shape", func(mf *ModelFile) { mf.Objects[1].Shapes = []int{7} }},
		{"empty range", func(mf *ModelFile) { mf.Objects[0].Coords[0] = [2]int{5, 4} }},
		{"unknown kind", func(mf *ModelFile) {
			mf.Constraints = []ConstraintSpec{{Kind: "touching", Objects: []int{0, 1}}}
		}},
		{"distance arity", func(mf *ModelFile) {
			mf.Constraints = []ConstraintSpec{{Kind: "distance_leq", Objects: []int{0}}}
		}},
		{"linear arity", func(mf *ModelFile) {
			mf.Constraints = []ConstraintSpec{{Kind: "distance_linear", Objects: []int{0, 1}, Coefficients: []int{1, 1}}}
		}},
		{"linear coefficients", func(mf *ModelFile) {
			mf.Constraints = []ConstraintSpec{{Kind: "distance_linear", Objects: []int{0}, Coefficients: []int{1}}}
		}},
		{"bad control vector", func(mf *ModelFile) { mf.ControlVectors = [][]int{{-1, -2}} }},
		{"bad inbox", func(mf *ModelFile) {
			mf.Objects[0].Inbox = []InboxSpec{{Origin: []int{0, 0}, Length: []int{0, 3}}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mf := base()
			tt.mutate(mf)
			_, _, err := mf.Build()
			assert.Error(t, err)
		})
	}
}
