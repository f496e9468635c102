package geost

import (
	"github.com/samber/lo"
)

// Best-box sweeps. Once the plain sweep starts crawling along the pruned
// dimension one unit at a time, every covering internal constraint is asked
// for several candidate boxes and the one pruning most is kept.

const (
	bandHigh = 1.20
	bandLow  = 0.80

	thinRatio = 0.1
)

// newPruneMin is pruneMin with best-box selection.
func (g *Kernel) newPruneMin(o *Object, d int, ictrs []*InternalConstraint) bool {
	c, n := o.lower(g.doms), g.upperJump(o)
	mode, jumps := false, 0
	defer func() { g.monitor.RecordPrune(jumps) }()
	for fr := g.getBestFR(d, o, c, n, ictrs, true, mode); fr.Excluded; fr = g.getBestFR(d, o, c, n, ictrs, true, mode) {
		shrinkJumpUp(n, fr.Region)
		prev := c[d]
		if !adjustUp(c, n, o, g.doms, d, g.k) {
			return false
		}
		jumps++
		g.recordJump(d, c[d]-prev)
		mode = mode || c[d] == prev+1
	}
	return g.doms.UpdateInf(o.Coords[d], c[d]) == nil
}

// newPruneMax is pruneMax with best-box selection.
func (g *Kernel) newPruneMax(o *Object, d int, ictrs []*InternalConstraint) bool {
	c, n := o.upper(g.doms), g.lowerJump(o)
	mode, jumps := false, 0
	defer func() { g.monitor.RecordPrune(jumps) }()
	for fr := g.getBestFR(d, o, c, n, ictrs, false, mode); fr.Excluded; fr = g.getBestFR(d, o, c, n, ictrs, false, mode) {
		shrinkJumpDown(n, fr.Region)
		prev := c[d]
		if !adjustDown(c, n, o, g.doms, d, g.k) {
			return false
		}
		jumps++
		g.recordJump(d, prev-c[d])
		mode = mode || c[d] == prev-1
	}
	return g.doms.UpdateSup(o.Coords[d], c[d]) == nil
}

// coveringConstraints returns the internal constraints excluding p.
func coveringConstraints(ictrs []*InternalConstraint, p Point) []*InternalConstraint {
	return lo.Filter(ictrs, func(ic *InternalConstraint, _ int) bool { return ic.InsideForbidden(p) })
}

// volumeBand keeps the candidate boxes whose volume is within the band
// around the best volume seen so far.
type volumeBand struct {
	best  int64
	boxes []Region
}

func (b *volumeBand) offer(r Region) {
	if r.Dim() == 0 || r.IsEmpty() {
		return
	}
	v := float64(r.Volume())
	switch {
	case len(b.boxes) == 0 || v > float64(b.best)*bandHigh:
		b.best = r.Volume()
		b.boxes = []Region{r}
	case v >= float64(b.best)*bandLow:
		if r.Volume() > b.best {
			b.best = r.Volume()
			b.boxes = lo.Filter(b.boxes, func(x Region, _ int) bool { return float64(x.Volume()) >= float64(b.best)*bandLow })
		}
		b.boxes = append(b.boxes, r)
	}
}

// getBestFR returns the best forbidden box containing c. Without mode it is
// getFR. Otherwise the candidates are, for every covering constraint, its
// maximal box and its proportional boxes, and for k = 2 the chain and
// triangle boxes covered jointly by two constraints.
func (g *Kernel) getBestFR(d int, o *Object, c, n Point, ictrs []*InternalConstraint, increase, mode bool) Feasibility {
	if !mode {
		return g.getFR(d, o, c, n, ictrs, increase)
	}
	g.monitor.RecordGetFR()
	covering := coveringConstraints(ictrs, c)
	if len(covering) == 0 {
		return feasible
	}
	var band volumeBand
	for _, ic := range covering {
		band.offer(IsFeasible(ic, increase, d, g.k, o, g.doms, c, n).Region)
		for _, prop := range g.cfg.Proportions {
			r := growBox(ic, increase, d, g.k, c, n, prop)
			r.Source = "proportional"
			band.offer(r)
		}
	}
	if g.k == 2 {
		for i, a := range covering {
			for j, b := range covering {
				if i == j {
					continue
				}
				if r, ok := g.chainBox(d, c, n, a, b, increase); ok {
					band.offer(r)
				}
				if r, ok := g.triangleBox(d, c, n, a, b, increase); ok {
					band.offer(r)
				}
			}
		}
	}
	best := band.boxes[0]
	for _, r := range band.boxes[1:] {
		best = g.preferBox(d, increase, r, best)
	}
	g.assertRegion("getBestFR", best, c)
	return Feasibility{Excluded: true, Region: best}
}

// preferBox picks the better of two candidate boxes.
func (g *Kernel) preferBox(d int, increase bool, box, best Region) Region {
	if g.k == 2 {
		return selectionCriteria(d, g.k, increase, box, best)
	}
	return lexMoreVolume(box, best, d, g.k, increase)
}

// chainExtend stretches box along d past its current extent, one slab at a
// time: each slab (the box's extent in the other dimensions, one unit along
// d) must be excluded by one of ics, which then extends the covered range as
// far as it can. It returns the farthest covered coordinate, capped by limit
// (exclusive), or the coordinate just before the box when its first slab is
// not excluded.
func (g *Kernel) chainExtend(box Region, d, limit int, increase bool, ics ...*InternalConstraint) int {
	slab := box.Clone()
	if increase {
		edge := box.Min[d] - 1
		for edge+1 <= limit-1 {
			slab.Min[d], slab.Max[d] = edge+1, edge+1
			next := edge
			for _, ic := range ics {
				if ic.ForbidsBox(slab) {
					next = max(next, min(limit-1, ic.MaximizeSizeOfFBox(true, d, g.k, slab)))
				}
			}
			if next == edge {
				break
			}
			edge = next
		}
		return edge
	}
	edge := box.Max[d] + 1
	for edge-1 >= limit+1 {
		slab.Min[d], slab.Max[d] = edge-1, edge-1
		next := edge
		for _, ic := range ics {
			if ic.ForbidsBox(slab) {
				next = min(next, max(limit+1, ic.MaximizeSizeOfFBox(false, d, g.k, slab)))
			}
		}
		if next == edge {
			break
		}
		edge = next
	}
	return edge
}

// stretch sets the far boundary of f along j (max when increase, min
// otherwise).
func stretch(f *Region, j, v int, increase bool) {
	if increase {
		f.Max[j] = v
	} else {
		f.Min[j] = v
	}
}

// chainBox extends c along d_least = d-1 with a alone, then along d with a
// chain of slabs excluded by a or b.
func (g *Kernel) chainBox(d int, c, n Point, a, b *InternalConstraint, increase bool) (Region, bool) {
	dl := (d + g.k - 1) % g.k
	f := RegionFromPoint(c)
	if increase {
		f.Max[dl] = min(n[dl]-1, a.MaximizeSizeOfFBox(true, dl, g.k, f))
	} else {
		f.Min[dl] = max(n[dl]+1, a.MaximizeSizeOfFBox(false, dl, g.k, f))
	}
	edge := g.chainExtend(f, d, n[d], increase, a, b)
	if edge == lo.Ternary(increase, c[d]-1, c[d]+1) {
		return Region{}, false
	}
	stretch(&f, d, edge, increase)
	f.Source = "chain"
	return f, true
}

// triangleBox finds, by bisection over the extent along d_least, the widest
// box that still reaches as far along d as the thinnest strip at c does,
// covering it with slabs excluded by a or b. Near a diagonal boundary
// between two exclusions this box is larger than either constraint's own
// maximal box.
func (g *Kernel) triangleBox(d int, c, n Point, a, b *InternalConstraint, increase bool) (Region, bool) {
	dl := (d + g.k - 1) % g.k
	point := RegionFromPoint(c)
	top := c[dl]
	for _, ic := range []*InternalConstraint{a, b} {
		if !ic.InsideForbidden(c) {
			continue
		}
		if increase {
			top = max(top, min(n[dl]-1, ic.MaximizeSizeOfFBox(true, dl, g.k, point)))
		} else {
			top = min(top, max(n[dl]+1, ic.MaximizeSizeOfFBox(false, dl, g.k, point)))
		}
	}
	reachAt := func(h int) int {
		f := point.Clone()
		stretch(&f, dl, h, increase)
		return g.chainExtend(f, d, n[d], increase, a, b)
	}
	full := reachAt(c[dl])
	if full == lo.Ternary(increase, c[d]-1, c[d]+1) {
		return Region{}, false
	}
	keeps := func(h int) bool { return keepsReach(reachAt(h), full, increase) }
	// keeps(c[dl]) holds; look for the farthest h that keeps it.
	near, far := c[dl], top
	for near != far {
		var mid int
		if increase {
			mid = near + (far-near+1)/2
		} else {
			mid = near - (near-far+1)/2
		}
		if keeps(mid) {
			near = mid
		} else {
			far = lo.Ternary(increase, mid-1, mid+1)
		}
	}
	f := point.Clone()
	stretch(&f, dl, near, increase)
	stretch(&f, d, full, increase)
	f.Source = "triangle"
	if g.cfg.Debug {
		probe := f.Clone()
		stretch(&probe, d, c[d], increase)
		if !keepsReach(g.chainExtend(probe, d, n[d], increase, a, b), full, increase) {
			panic(contractViolation("triangleBox", "box %v is not covered by %v and %v", f, a, b))
		}
	}
	return f, true
}

func keepsReach(reach, full int, increase bool) bool {
	if increase {
		return reach >= full
	}
	return reach <= full
}

// selectionCriteria returns the better of two candidate boxes for k = 2.
// Two thin boxes neither of which contains the other are compared by
// position only. Otherwise each box scores a point for a larger volume, for
// a farther boundary in the order rooted at d, and for a better aspect
// ratio; ties go to the farther boundary.
func selectionCriteria(d, k int, increase bool, b1, b2 Region) Region {
	if b1.Dim() == 0 {
		return b2
	}
	if b2.Dim() == 0 {
		return b1
	}
	if k != 2 {
		panic(contractViolation("selectionCriteria", "only defined for k = 2, got k = %d", k))
	}
	r1, r2 := b1.Ratio(), b2.Ratio()
	if r1 <= thinRatio && r2 <= thinRatio && !b1.Includes(b2) && !b2.Includes(b1) {
		return lexMoreNormal(b1, b2, d, k, increase)
	}
	s1, s2 := 0, 0
	if v1, v2 := b1.Volume(), b2.Volume(); v1 != v2 {
		if v1 > v2 {
			s1++
		} else {
			s2++
		}
	}
	if !b1.sameSizes(b2) {
		if largestInverseLex(b1, b2, d, k, increase) {
			s1++
		} else {
			s2++
		}
	}
	if r1 != r2 {
		if r1 > r2 {
			s1++
		} else {
			s2++
		}
	}
	switch {
	case s1 > s2:
		return b1
	case s2 > s1:
		return b2
	}
	if largestInverseLex(b1, b2, d, k, increase) {
		return b1
	}
	return b2
}

// largestInverseLex reports whether b reaches farther than bb, comparing the
// far boundaries in the order d, d+1, ...; equal boxes favour b.
func largestInverseLex(b, bb Region, d, k int, increase bool) bool {
	for i := 0; i < k; i++ {
		j := (d + i) % k
		if increase && b.Max[j] != bb.Max[j] {
			return b.Max[j] > bb.Max[j]
		}
		if !increase && b.Min[j] != bb.Min[j] {
			return b.Min[j] < bb.Min[j]
		}
	}
	return true
}

// lexMore compares far boundaries in the order d, d-1, d-2, ... and returns
// the box reaching farther; ties return box.
func lexMore(box, best Region, d, k int, increase bool) Region {
	for i := 0; i < k; i++ {
		j := ((d-i)%k + k) % k
		if r, decided := compareFar(box, best, j, increase); decided {
			return r
		}
	}
	return box
}

// lexMoreNormal is lexMore visiting d-1, d-2, ..., d.
func lexMoreNormal(box, best Region, d, k int, increase bool) Region {
	for i := k - 1; i >= 0; i-- {
		j := (d + i) % k
		if r, decided := compareFar(box, best, j, increase); decided {
			return r
		}
	}
	return box
}

// lexMoreVolume prefers the larger box and falls back to lexMoreNormal.
func lexMoreVolume(box, best Region, d, k int, increase bool) Region {
	switch vb, vx := box.Volume(), best.Volume(); {
	case vb > vx:
		return box
	case vx > vb:
		return best
	}
	return lexMoreNormal(box, best, d, k, increase)
}

func compareFar(box, best Region, j int, increase bool) (Region, bool) {
	if increase {
		switch {
		case box.Max[j] > best.Max[j]:
			return box, true
		case box.Max[j] < best.Max[j]:
			return best, true
		}
		return Region{}, false
	}
	switch {
	case box.Min[j] < best.Min[j]:
		return box, true
	case box.Min[j] > best.Min[j]:
		return best, true
	}
	return Region{}, false
}
