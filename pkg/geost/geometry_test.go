package geost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoint_LexCompare(t *testing.T) {
	p, q := Point{1, 5}, Point{2, 3}
	assert.Equal(t, -1, p.LexCompare(q, []int{0, 1}))
	assert.Equal(t, 1, p.LexCompare(q, []int{1, 0}))
	assert.Equal(t, 0, p.LexCompare(p.Clone(), sweepOrder(1, 2)))
	assert.Equal(t, []int{2, 0, 1}, sweepOrder(2, 3))
}

func TestPoint_LexGreaterThan(t *testing.T) {
	up := DefaultControlVector(2)
	assert.True(t, Point{2, 0}.LexGreaterThan(Point{1, 9}, up))
	assert.False(t, Point{1, 9}.LexGreaterThan(Point{1, 9}, up))

	cv, err := ParseControlVector([]int{1, 2, -3}, 2)
	require.NoError(t, err)
	assert.False(t, cv.ShapeAscending)
	assert.Equal(t, []DimOrder{{Dim: 0, Increasing: false}, {Dim: 1, Increasing: true}}, cv.Order)
	// x is swept downwards, so a smaller x comes later
	assert.True(t, Point{1, 0}.LexGreaterThan(Point{2, 0}, cv))
	assert.True(t, Point{2, 4}.LexGreaterThan(Point{2, 3}, cv))
}

func TestParseControlVector(t *testing.T) {
	cv, err := ParseControlVector([]int{-1, -3, 2}, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{-1, -3, 2}, cv.Encode())
	assert.Equal(t, 1, cv.Order[0].Dim)

	for _, bad := range [][]int{{-1, -2}, {-1, -2, -2}, {-1, 5, -2}, {-1, 1, -2}} {
		_, err := ParseControlVector(bad, 2)
		assert.Error(t, err, "vector %v", bad)
	}
}

func TestRegion_Operations(t *testing.T) {
	r := Region{Min: []int{0, 0}, Max: []int{9, 4}}
	assert.Equal(t, int64(50), r.Volume())
	assert.InDelta(t, 0.5, r.Ratio(), 1e-9)
	assert.True(t, r.Contains(Point{9, 4}))
	assert.False(t, r.Contains(Point{10, 4}))

	inner := Region{Min: []int{2, 2}, Max: []int{3, 3}}
	assert.True(t, r.Includes(inner))
	assert.False(t, inner.Includes(r))

	o := Region{Min: []int{9, 4}, Max: []int{12, 8}}
	got, ok := r.Intersect(o)
	require.True(t, ok)
	assert.True(t, got.Equal(Region{Min: []int{9, 4}, Max: []int{9, 4}}))

	_, ok = r.Intersect(Region{Min: []int{10, 0}, Max: []int{11, 1}})
	assert.False(t, ok)

	assert.True(t, Region{Min: []int{1, 0}, Max: []int{0, 0}}.IsEmpty())
	assert.Equal(t, "[0..9 x 0..4]", r.String())
	assert.True(t, BoxBetween(Point{5, 1}, Point{2, 3}).Equal(Region{Min: []int{2, 1}, Max: []int{5, 3}}))
}

func TestShape_HullAndInclusion(t *testing.T) {
	l := Shape{box2(3, 1), NewShiftedBox([]int{0, 1}, []int{1, 2})}
	h := l.Hull()
	assert.Equal(t, []int{0, 0}, h.Offset)
	assert.Equal(t, []int{3, 3}, h.Size)

	big := Shape{box2(3, 3)}
	assert.True(t, big.Includes(l))
	assert.False(t, l.Includes(big))
}

func TestModel_ShapeInclusionAndEquivalence(t *testing.T) {
	m := NewModel(2)
	require.NoError(t, m.AddShape(0, box2(5, 5)))
	require.NoError(t, m.AddShape(1, box2(3, 3)))
	a := mustObject(t, m, 0, span2(0, 9), NewIntervalDomain(0, 1))
	b := mustObject(t, m, 1, span2(0, 9), NewIntervalDomain(0, 1))
	c := mustObject(t, m, 2, span2(0, 9), NewIntervalDomain(0, 1))
	_, err := m.AddNonOverlapping(a.ID, b.ID, c.ID)
	require.NoError(t, err)
	_, err = m.AddDistanceLeq(a.ID, c.ID, 4, NoVar)
	require.NoError(t, err)

	assert.True(t, m.shapeIncluded(0, 1))
	assert.False(t, m.shapeIncluded(1, 0))
	assert.False(t, m.equivalentObjects(0, 1))
	assert.True(t, m.equivalentObjects(1, 1))
}

func TestModel_Validation(t *testing.T) {
	m := NewModel(2)
	assert.Error(t, m.AddShape(0))
	assert.Error(t, m.AddShape(0, NewShiftedBox([]int{0}, []int{1})))
	assert.Error(t, m.AddShape(0, box2(0, 1)))
	require.NoError(t, m.AddShape(0, box2(1, 1)))
	assert.Error(t, m.AddShape(0, box2(1, 1)))

	_, err := m.AddObject(0, span2(0, 9), NewIntervalDomain(3, 3), 0)
	assert.Error(t, err, "undefined shape")
	_, err = m.AddObject(0, span2(0, 9)[:1], NewIntervalDomain(0, 0), 0)
	assert.Error(t, err)
	mustObject(t, m, 0, span2(0, 9), NewIntervalDomain(0, 0))
	_, err = m.AddObject(0, span2(0, 9), NewIntervalDomain(0, 0), 0)
	assert.Error(t, err, "duplicate id")

	_, err = m.AddNonOverlapping(0, 42)
	assert.Error(t, err)
	_, err = m.AddExternal(NonOverlapping, 0)
	assert.Error(t, err)
	ec, err := m.AddExternal(Visible, 0)
	require.NoError(t, err)
	assert.Equal(t, "visible", ec.Kind.String())
	assert.Error(t, m.AddInbox(0, []int{0, 0}, []int{0, 1}))
}
