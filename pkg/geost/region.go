package geost

import (
	"fmt"
	"strings"
)

// Region is an axis-aligned box with inclusive bounds in every dimension.
type Region struct {
	Min []int
	Max []int
	// Source names the construction that produced the box. It is only used
	// in traces and tie-break diagnostics.
	Source string
}

// NewRegion returns a k-dimensional region with all bounds at zero.
func NewRegion(k int) Region {
	return Region{Min: make([]int, k), Max: make([]int, k)}
}

// RegionFromPoint returns the degenerate box [p, p].
func RegionFromPoint(p Point) Region {
	r := Region{Min: make([]int, len(p)), Max: make([]int, len(p))}
	copy(r.Min, p)
	copy(r.Max, p)
	return r
}

// BoxBetween returns the smallest box containing both corners.
func BoxBetween(p, q Point) Region {
	r := NewRegion(len(p))
	for i := range p {
		r.Min[i], r.Max[i] = min(p[i], q[i]), max(p[i], q[i])
	}
	return r
}

// Dim returns the dimension count of r.
func (r Region) Dim() int { return len(r.Min) }

// Clone returns an independent copy of r.
func (r Region) Clone() Region {
	c := Region{Min: make([]int, len(r.Min)), Max: make([]int, len(r.Max)), Source: r.Source}
	copy(c.Min, r.Min)
	copy(c.Max, r.Max)
	return c
}

// Size returns the number of integer coordinates covered along dimension i.
func (r Region) Size(i int) int {
	return r.Max[i] - r.Min[i] + 1
}

// Volume returns the number of integer points in r.
func (r Region) Volume() int64 {
	v := int64(1)
	for i := range r.Min {
		v *= int64(r.Size(i))
	}
	return v
}

// Ratio returns the aspect ratio of r: smallest size over largest size.
// A ratio close to 0 marks a thin box.
func (r Region) Ratio() float64 {
	lo, hi := r.Size(0), r.Size(0)
	for i := 1; i < r.Dim(); i++ {
		s := r.Size(i)
		lo, hi = min(lo, s), max(hi, s)
	}
	return float64(lo) / float64(hi)
}

// IsEmpty reports whether some dimension has min > max.
func (r Region) IsEmpty() bool {
	for i := range r.Min {
		if r.Min[i] > r.Max[i] {
			return true
		}
	}
	return false
}

// Contains reports whether p lies inside r.
func (r Region) Contains(p Point) bool {
	for i := range r.Min {
		if p[i] < r.Min[i] || p[i] > r.Max[i] {
			return false
		}
	}
	return true
}

// Includes reports whether o lies entirely inside r.
func (r Region) Includes(o Region) bool {
	for i := range r.Min {
		if o.Min[i] < r.Min[i] || o.Max[i] > r.Max[i] {
			return false
		}
	}
	return true
}

// Intersects reports whether r and o share at least one point.
func (r Region) Intersects(o Region) bool {
	for i := range r.Min {
		if r.Max[i] < o.Min[i] || o.Max[i] < r.Min[i] {
			return false
		}
	}
	return true
}

// Intersect returns r ∩ o. The boolean is false when they are disjoint.
func (r Region) Intersect(o Region) (Region, bool) {
	if !r.Intersects(o) {
		return Region{}, false
	}
	res := NewRegion(r.Dim())
	for i := range r.Min {
		res.Min[i] = max(r.Min[i], o.Min[i])
		res.Max[i] = min(r.Max[i], o.Max[i])
	}
	res.Source = r.Source
	return res, true
}

// Equal compares bounds only; Source is ignored.
func (r Region) Equal(o Region) bool {
	if r.Dim() != o.Dim() {
		return false
	}
	for i := range r.Min {
		if r.Min[i] != o.Min[i] || r.Max[i] != o.Max[i] {
			return false
		}
	}
	return true
}

// sameSizes reports whether r and o have identical sizes in every dimension.
func (r Region) sameSizes(o Region) bool {
	for i := range r.Min {
		if r.Size(i) != o.Size(i) {
			return false
		}
	}
	return true
}

func (r Region) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i := range r.Min {
		if i > 0 {
			sb.WriteString(" x ")
		}
		fmt.Fprintf(&sb, "%d..%d", r.Min[i], r.Max[i])
	}
	sb.WriteString("]")
	if r.Source != "" {
		sb.WriteString("<" + r.Source + ">")
	}
	return sb.String()
}
