package geost

import (
	"fmt"
	"math"

	"github.com/samber/lo"
)

// distanceGeometry evaluates the Euclidean distance exclusions exactly on
// integers. The distance between two objects is the distance between the
// hulls of their shapes: per dimension the gap between the two hulls (0
// when they overlap or touch), combined with the 2-norm.
//
// For the constrained object o1 at origin p and the other object o2 free in
// its domain, the gap along dimension i is
//
//	gap_i(p) = max(0, lo_i - p, p - hi_i)
//	lo_i = inf2 + t2 - t1 - l1
//	hi_i = sup2 + t2 + l2 - t1
//
// for the closest placement of o2, and
//
//	far_i(p) = max(0, u_i - p, p - v_i)
//	u_i = sup2 + t2 - t1 - l1
//	v_i = inf2 + t2 + l2 - t1
//
// for the farthest one.
//
// While a shape variable is undecided, box1 and box2 stand for every
// candidate shape at once. Nearest gaps (≤) use the hull of all candidate
// boxes, which can only shrink a gap. Farthest gaps (≥) use the core: per
// dimension the largest hull offset and the smallest hull end over the
// candidates, which can only widen a gap. The core may have a negative size.
type distanceGeometry struct {
	o1, o2     *Object
	box1, box2 ShiftedBox
	d          int

	// linear: a·x ≤ b
	a []int
	b int

	doms Domains
}

func (g *distanceGeometry) String() string {
	if g.o2 == nil {
		return fmt.Sprintf("o%d a=%v b=%d", g.o1.ID, g.a, g.b)
	}
	return fmt.Sprintf("o%d,o%d D=%d", g.o1.ID, g.o2.ID, g.d)
}

func (g *distanceGeometry) near(i int) (lo, hi int) {
	inf2, sup2 := g.doms.Inf(g.o2.Coords[i]), g.doms.Sup(g.o2.Coords[i])
	lo = inf2 + g.box2.Offset[i] - g.box1.Offset[i] - g.box1.Size[i]
	hi = sup2 + g.box2.Offset[i] + g.box2.Size[i] - g.box1.Offset[i]
	return lo, hi
}

func (g *distanceGeometry) far(i int) (u, v int) {
	inf2, sup2 := g.doms.Inf(g.o2.Coords[i]), g.doms.Sup(g.o2.Coords[i])
	u = sup2 + g.box2.Offset[i] - g.box1.Offset[i] - g.box1.Size[i]
	v = inf2 + g.box2.Offset[i] + g.box2.Size[i] - g.box1.Offset[i]
	return u, v
}

// minGap is the smallest gap along i for origins in [a, b].
func (g *distanceGeometry) minGap(i, a, b int) int64 {
	lo, hi := g.near(i)
	switch {
	case b < lo:
		return int64(lo - b)
	case a > hi:
		return int64(a - hi)
	}
	return 0
}

// maxFar is the largest farthest-placement gap along i for origins in [a, b].
func (g *distanceGeometry) maxFar(i, a, b int) int64 {
	u, v := g.far(i)
	return int64(max(0, u-a, b-v))
}

// linearMin is the smallest value of a_i·x_i for x_i in [lo, hi].
func (g *distanceGeometry) linearMin(i, lo, hi int) int64 {
	if g.a[i] >= 0 {
		return int64(g.a[i]) * int64(lo)
	}
	return int64(g.a[i]) * int64(hi)
}

func (g *distanceGeometry) sumExcept(skip int, box Region, term func(i, a, b int) int64, square bool) int64 {
	var s int64
	for i := range box.Min {
		if i == skip {
			continue
		}
		t := term(i, box.Min[i], box.Max[i])
		if square {
			t *= t
		}
		s += t
	}
	return s
}

func (g *distanceGeometry) forbidsBox(kind InternalKind, box Region) bool {
	d2 := int64(g.d) * int64(g.d)
	switch kind {
	case DistLeqIC:
		return g.sumExcept(-1, box, g.minGap, true) > d2
	case DistGeqIC:
		return g.sumExcept(-1, box, g.maxFar, true) < d2
	default:
		return g.sumExcept(-1, box, g.linearMin, false) > int64(g.b)
	}
}

func (g *distanceGeometry) insideForbidden(kind InternalKind, p Point) bool {
	return g.forbidsBox(kind, RegionFromPoint(p))
}

func (g *distanceGeometry) maximize(kind InternalKind, increase bool, d int, box Region) int {
	inf1, sup1 := g.doms.Inf(g.o1.Coords[d]), g.doms.Sup(g.o1.Coords[d])
	top, bottom := max(sup1, box.Max[d]), min(inf1, box.Min[d])
	d2 := int64(g.d) * int64(g.d)
	switch kind {
	case DistLeqIC:
		s := g.sumExcept(d, box, g.minGap, true)
		lo, hi := g.near(d)
		if increase {
			if s > d2 || box.Min[d] >= lo {
				return top
			}
			return lo - int(isqrt(d2-s)+1)
		}
		if s > d2 || box.Max[d] <= hi {
			return bottom
		}
		return hi + int(isqrt(d2-s)+1)
	case DistGeqIC:
		r := d2 - g.sumExcept(d, box, g.maxFar, true)
		if r <= 0 {
			panic(contractViolation("distanceGeometry.maximize", "box %v is not excluded by %s", box, g))
		}
		reach := int(ceilSqrt(r) - 1)
		u, v := g.far(d)
		if increase {
			return max(min(v+reach, top), box.Max[d])
		}
		return min(max(u-reach, bottom), box.Min[d])
	default:
		s := g.sumExcept(d, box, g.linearMin, false)
		ad := int64(g.a[d])
		if increase {
			if ad >= 0 {
				return top
			}
			return max(int(floorDiv(s-int64(g.b)-1, -ad)), box.Max[d])
		}
		if ad <= 0 {
			return bottom
		}
		return min(int(floorDiv(int64(g.b)-s, ad)+1), box.Min[d])
	}
}

// isqrt returns ⌊√n⌋ for n ≥ 0.
func isqrt(n int64) int64 {
	if n <= 0 {
		return 0
	}
	r := int64(math.Sqrt(float64(n)))
	for r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}

// ceilSqrt returns ⌈√n⌉ for n ≥ 0.
func ceilSqrt(n int64) int64 {
	r := isqrt(n)
	if r*r < n {
		r++
	}
	return r
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// candidateHull returns the hull of every box of every shape o may still take.
func candidateHull(m *Model, doms Domains, o *Object) ShiftedBox {
	var boxes Shape
	for _, sid := range doms.Domain(o.Shape).Values() {
		boxes = append(boxes, m.shape(sid)...)
	}
	return boxes.Hull()
}

// candidateCore returns, per dimension, the largest hull offset and the
// smallest hull end over the shapes o may still take. Every candidate hull
// contains [Offset, Offset+Size) when Size is positive.
func candidateCore(m *Model, doms Domains, o *Object) ShiftedBox {
	hulls := lo.Map(doms.Domain(o.Shape).Values(), func(sid int, _ int) ShiftedBox { return m.shape(sid).Hull() })
	k := len(o.Coords)
	core := ShiftedBox{Offset: make([]int, k), Size: make([]int, k)}
	for i := 0; i < k; i++ {
		off := lo.Max(lo.Map(hulls, func(h ShiftedBox, _ int) int { return h.Offset[i] }))
		end := lo.Min(lo.Map(hulls, func(h ShiftedBox, _ int) int { return h.end(i) }))
		core.Offset[i], core.Size[i] = off, end-off
	}
	return core
}

// hullDistances returns the squared smallest and largest Euclidean distance
// between o1 and o2 over their current domains and candidate shapes.
func hullDistances(m *Model, doms Domains, o1, o2 *Object) (nearest, farthest int64) {
	h1, h2 := candidateHull(m, doms, o1), candidateHull(m, doms, o2)
	c1, c2 := candidateCore(m, doms, o1), candidateCore(m, doms, o2)
	for i := range o1.Coords {
		inf1, sup1 := doms.Inf(o1.Coords[i]), doms.Sup(o1.Coords[i])
		inf2, sup2 := doms.Inf(o2.Coords[i]), doms.Sup(o2.Coords[i])
		gap := int64(max(0, inf2+h2.Offset[i]-(sup1+h1.end(i)), inf1+h1.Offset[i]-(sup2+h2.end(i))))
		wide := int64(max(0, sup2+c2.Offset[i]-(inf1+c1.end(i)), sup1+c1.Offset[i]-(inf2+c2.end(i))))
		nearest += gap * gap
		farthest += wide * wide
	}
	return nearest, farthest
}

// UpdateDistance narrows the distance variable of a DistanceLeq or
// DistanceGeq constraint from the objects' current domains: for ≤ its lower
// bound becomes the smallest possible distance (rounded up), for ≥ its upper
// bound becomes the largest possible distance (rounded down). It reports
// whether the variable changed. Constraints without a distance variable are
// left alone.
func UpdateDistance(m *Model, doms Domains, ec *ExternalConstraint) (bool, error) {
	if ec.DistanceVar == NoVar || (ec.Kind != DistanceLeq && ec.Kind != DistanceGeq) {
		return false, nil
	}
	o1, o2 := m.object(ec.Objects[0]), m.object(ec.Objects[1])
	nearest, farthest := hullDistances(m, doms, o1, o2)
	before := doms.Size(ec.DistanceVar)
	var err error
	if ec.Kind == DistanceLeq {
		err = doms.UpdateInf(ec.DistanceVar, int(ceilSqrt(nearest)))
	} else {
		err = doms.UpdateSup(ec.DistanceVar, int(isqrt(farthest)))
	}
	if err != nil {
		return false, fmt.Errorf("UpdateDistance %s: %w", ec, err)
	}
	return doms.Size(ec.DistanceVar) != before, nil
}
