package geost

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Point is a k-dimensional integer coordinate vector. Points are mutable;
// use Clone before handing one out.
type Point []int

// NewPoint returns the origin of a k-dimensional space.
func NewPoint(k int) Point {
	return make(Point, k)
}

// Clone returns an independent copy of p.
func (p Point) Clone() Point {
	q := make(Point, len(p))
	copy(q, p)
	return q
}

// Equal reports whether p and q have the same coordinates.
func (p Point) Equal(q Point) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// LexCompare compares p and q lexicographically, visiting dimensions in the
// given priority order (most significant first). It returns -1, 0 or +1.
func (p Point) LexCompare(q Point, order []int) int {
	for _, d := range order {
		switch {
		case p[d] < q[d]:
			return -1
		case p[d] > q[d]:
			return 1
		}
	}
	return 0
}

// LexGreaterThan reports whether p comes strictly after q when sweeping in
// the order described by cv: for increasing dimensions a larger coordinate
// is later, for decreasing ones a smaller coordinate is.
func (p Point) LexGreaterThan(q Point, cv ControlVector) bool {
	for _, o := range cv.Order {
		a, b := p[o.Dim], q[o.Dim]
		if a == b {
			continue
		}
		if o.Increasing {
			return a > b
		}
		return a < b
	}
	return false
}

func (p Point) String() string {
	return "(" + strings.Join(lo.Map(p, func(v int, _ int) string { return strconv.Itoa(v) }), ",") + ")"
}

// sweepOrder returns the dimension priority rooted at d: d, d+1, ..., d-1.
func sweepOrder(d, k int) []int {
	return lo.Times(k, func(i int) int { return (d + i) % k })
}

// DimOrder is one entry of a controlling vector.
type DimOrder struct {
	Dim        int
	Increasing bool
}

// ControlVector fixes the order in which an object's coordinates are chosen
// when the object is instantiated in one shot: the shape direction and, most
// significant first, the visiting order and direction of every dimension.
type ControlVector struct {
	// ShapeAscending selects the smallest remaining shape id; otherwise the
	// largest one is used.
	ShapeAscending bool
	Order          []DimOrder
}

// ParseControlVector decodes the signed integer encoding used by model files:
// v[0] < 0 selects the smallest shape, and v[i] (i >= 1) is ±(dim+2), negative
// meaning the dimension is swept in increasing order. v[1] is the most
// significant dimension.
func ParseControlVector(v []int, k int) (ControlVector, error) {
	if len(v) != k+1 {
		return ControlVector{}, fmt.Errorf("ParseControlVector: expected %d entries, got %d", k+1, len(v))
	}
	cv := ControlVector{ShapeAscending: v[0] < 0, Order: make([]DimOrder, k)}
	seen := make(map[int]bool, k)
	for i := 1; i <= k; i++ {
		enc := v[i]
		if enc < 0 {
			enc = -enc
		}
		d := enc - 2
		if d < 0 || d >= k {
			return ControlVector{}, fmt.Errorf("ParseControlVector: entry %d (%d) does not name a dimension", i, v[i])
		}
		if seen[d] {
			return ControlVector{}, fmt.Errorf("ParseControlVector: dimension %d listed twice", d)
		}
		seen[d] = true
		cv.Order[i-1] = DimOrder{Dim: d, Increasing: v[i] < 0}
	}
	return cv, nil
}

// DefaultControlVector sweeps every dimension in increasing order, dimension
// 0 most significant, and picks the smallest shape.
func DefaultControlVector(k int) ControlVector {
	return ControlVector{
		ShapeAscending: true,
		Order:          lo.Times(k, func(i int) DimOrder { return DimOrder{Dim: i, Increasing: true} }),
	}
}

// Encode returns the signed integer encoding understood by ParseControlVector.
func (cv ControlVector) Encode() []int {
	v := make([]int, len(cv.Order)+1)
	v[0] = lo.Ternary(cv.ShapeAscending, -1, 1)
	for i, o := range cv.Order {
		v[i+1] = lo.Ternary(o.Increasing, -(o.Dim + 2), o.Dim+2)
	}
	return v
}

func (cv ControlVector) key() string {
	return fmt.Sprint(cv.Encode())
}

func (cv ControlVector) String() string {
	return cv.key()
}
