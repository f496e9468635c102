package geost

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegerSqrt(t *testing.T) {
	tests := []struct {
		n           int64
		floor, ceil int64
	}{
		{0, 0, 0},
		{1, 1, 1},
		{2, 1, 2},
		{24, 4, 5},
		{25, 5, 5},
		{26, 5, 6},
		{1 << 40, 1 << 20, 1 << 20},
		{(1 << 40) + 1, 1 << 20, (1 << 20) + 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.floor, isqrt(tt.n), "isqrt(%d)", tt.n)
		assert.Equal(t, tt.ceil, ceilSqrt(tt.n), "ceilSqrt(%d)", tt.n)
	}
	assert.Equal(t, int64(0), isqrt(-4))
	assert.Equal(t, int64(-2), floorDiv(-3, 2))
	assert.Equal(t, int64(1), floorDiv(3, 2))
	assert.Equal(t, int64(-2), floorDiv(3, -2))
}

// lineModel places a fixed 1x1 object 0 at the origin and a free 1x1 object 1
// with x in [lo, hi] and y pinned at 0.
func lineModel(t *testing.T, lo, hi int) *Model {
	t.Helper()
	m := NewModel(2)
	require.NoError(t, m.AddShape(0, box2(1, 1)))
	mustObject(t, m, 0, at(0, 0), NewIntervalDomain(0, 0))
	mustObject(t, m, 1, []IntervalDomain{NewIntervalDomain(lo, hi), NewIntervalDomain(0, 0)}, NewIntervalDomain(0, 0))
	return m
}

func TestUpdateDistance(t *testing.T) {
	m := lineModel(t, 10, 20)
	near := m.NewVariable("near", NewIntervalDomain(0, 100))
	far := m.NewVariable("far", NewIntervalDomain(0, 100))
	leq, err := m.AddDistanceLeq(0, 1, 0, near)
	require.NoError(t, err)
	geq, err := m.AddDistanceGeq(0, 1, 0, far)
	require.NoError(t, err)
	plain, err := m.AddDistanceLeq(0, 1, 50, NoVar)
	require.NoError(t, err)
	s := NewStore(m)

	changed, err := UpdateDistance(m, s, leq)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 9, s.Inf(near))

	changed, err = UpdateDistance(m, s, geq)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 19, s.Sup(far))

	changed, err = UpdateDistance(m, s, leq)
	require.NoError(t, err)
	assert.False(t, changed, "second update is a no-op")

	changed, err = UpdateDistance(m, s, plain)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestUpdateDistance_WipeOut(t *testing.T) {
	m := lineModel(t, 10, 20)
	dv := m.NewVariable("d", NewIntervalDomain(0, 5))
	leq, err := m.AddDistanceLeq(0, 1, 0, dv)
	require.NoError(t, err)
	s := NewStore(m)

	_, err = UpdateDistance(m, s, leq)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInconsistent)
	assert.True(t, IsInfeasible(err))

	c, err := NewConstraint(m, NewStore(m), DefaultConfig())
	require.NoError(t, err)
	assert.ErrorIs(t, c.Propagate(context.Background()), ErrInfeasible)
}

func TestDistanceGeq_ExactBoundary(t *testing.T) {
	m := NewModel(2)
	require.NoError(t, m.AddShape(0, box2(1, 1)))
	a := mustObject(t, m, 0, at(0, 0), NewIntervalDomain(0, 0))
	b := mustObject(t, m, 1, span2(0, 30), NewIntervalDomain(0, 0))
	geq, err := m.AddDistanceGeq(b.ID, a.ID, 15, NoVar)
	require.NoError(t, err)
	s := NewStore(m)
	ic := NewExternalLayer(m, s, true).GenInternalConstraints(geq, b)[0]

	// gaps 9 and 12: exactly 15 apart
	assert.False(t, ic.InsideForbidden(Point{10, 13}))
	assert.True(t, ic.InsideForbidden(Point{10, 12}))
	assert.False(t, ic.InsideForbidden(Point{16, 0}))
	assert.True(t, ic.InsideForbidden(Point{15, 0}))
}

func TestDistanceGeq_PrunesAlongLine(t *testing.T) {
	for _, mode := range allModes {
		t.Run(mode.String(), func(t *testing.T) {
			m := lineModel(t, 0, 30)
			_, err := m.AddDistanceGeq(1, 0, 15, NoVar)
			require.NoError(t, err)
			s := NewStore(m)
			c, err := NewConstraint(m, s, modeConfig(mode))
			require.NoError(t, err)
			require.NoError(t, c.Propagate(context.Background()))
			b, _ := m.Object(1)
			assert.Equal(t, 16, s.Inf(b.Coords[0]))
			assert.Equal(t, 30, s.Sup(b.Coords[0]))
		})
	}
}

func TestDistanceVariable_BoundsPlacement(t *testing.T) {
	m := lineModel(t, 0, 40)
	dv := m.NewVariable("d", NewIntervalDomain(3, 12))
	_, err := m.AddDistanceLeq(1, 0, 0, dv)
	require.NoError(t, err)
	s := NewStore(m)
	c, err := NewConstraint(m, s, DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, c.Propagate(context.Background()))

	b, _ := m.Object(1)
	// gap = x - 1 must stay within 12
	assert.Equal(t, 0, s.Inf(b.Coords[0]))
	assert.Equal(t, 13, s.Sup(b.Coords[0]))
	assert.Equal(t, 3, s.Inf(dv), "the nearest placement touches, so the lower bound stays")
}

// shapeChoiceModel pins object 1 at the origin with two candidate unit
// shapes, one at offset 0 and one at offset 5 along x, and lets object 0
// slide over x in [8,9].
func shapeChoiceModel(t *testing.T) (*Model, *Object, *Object) {
	t.Helper()
	m := NewModel(2)
	require.NoError(t, m.AddShape(0, box2(1, 1)))
	require.NoError(t, m.AddShape(1, NewShiftedBox([]int{5, 0}, []int{1, 1})))
	b := mustObject(t, m, 0, []IntervalDomain{NewIntervalDomain(8, 9), NewIntervalDomain(0, 0)}, NewIntervalDomain(0, 0))
	a := mustObject(t, m, 1, at(0, 0), NewIntervalDomain(0, 1))
	return m, b, a
}

func TestDistanceGeq_UndecidedShapeKeepsSupport(t *testing.T) {
	for _, mode := range allModes {
		t.Run(mode.String(), func(t *testing.T) {
			m, b, a := shapeChoiceModel(t)
			_, err := m.AddDistanceGeq(b.ID, a.ID, 3, NoVar)
			require.NoError(t, err)
			s := NewStore(m)
			c, err := NewConstraint(m, s, modeConfig(mode))
			require.NoError(t, err)
			require.NoError(t, c.Propagate(context.Background()))

			// x=8 is 7 away from shape 0 and only 2 away from shape 1
			assert.Equal(t, 8, s.Inf(b.Coords[0]))
			assert.Equal(t, 9, s.Sup(b.Coords[0]))
			assert.Equal(t, 2, s.Domain(a.Shape).Count(), "both shapes of the pinned object stay possible")
		})
	}
}

func TestUpdateDistance_GeqUndecidedShape(t *testing.T) {
	m, b, a := shapeChoiceModel(t)
	dv := m.NewVariable("d", NewIntervalDomain(3, 20))
	geq, err := m.AddDistanceGeq(b.ID, a.ID, 0, dv)
	require.NoError(t, err)
	s := NewStore(m)

	changed, err := UpdateDistance(m, s, geq)
	require.NoError(t, err)
	assert.True(t, changed)
	// x=9 with shape 0 leaves a gap of 8
	assert.Equal(t, 8, s.Sup(dv))
	assert.Equal(t, 3, s.Inf(dv))
}
