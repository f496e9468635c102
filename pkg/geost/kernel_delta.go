package geost

import (
	"github.com/samber/lo"
)

// trashMode is the state of the trashing detector used by delta sweeps.
// Persistently thin forbidden boxes mean the sweep is crawling along a
// curved boundary; the sweep then stops combining constraints and answers
// with single-constraint boxes until the detector settles.
type trashMode int

const (
	trashNormal trashMode = iota
	trashSuspect
	trashConfirmed
)

const (
	suspectAfter   = 3
	confirmedAfter = 100
)

func (t trashMode) String() string {
	switch t {
	case trashSuspect:
		return "suspect"
	case trashConfirmed:
		return "confirmed"
	default:
		return "normal"
	}
}

// trashDetector counts thin boxes, one step per move of the sweep point
// along d-2.
type trashDetector struct {
	mode  trashMode
	steps int
	// coordinate of the sweep point along d-2 at the last step
	anchor int
}

// observe feeds the box f returned at sweep point c and reports the new
// mode when it changed.
func (t *trashDetector) observe(c Point, d, k int, f Region) (trashMode, bool) {
	dpl := (k - 2 + d) % k
	if c[dpl] == t.anchor {
		return t.mode, false
	}
	t.anchor = c[dpl]
	bad := f.Ratio() < thinRatio
	prev := t.mode
	switch t.mode {
	case trashNormal:
		if !bad {
			t.steps = 0
		} else if t.steps++; t.steps >= suspectAfter {
			t.mode, t.steps = trashSuspect, 0
		}
	case trashSuspect:
		if t.steps++; t.steps >= confirmedAfter {
			t.mode = trashConfirmed
		}
	case trashConfirmed:
		t.steps = 0
		t.mode = lo.Ternary(bad, trashSuspect, trashNormal)
	}
	return t.mode, t.mode != prev
}

// succTracker follows runs of equal-length jumps along the most significant
// dimension that moved.
type succTracker struct {
	lastDiff int
	lastDim  int
	run      int
}

func newSuccTracker() *succTracker { return &succTracker{lastDiff: -1, lastDim: -1} }

// step records the move from prev to c.
func (s *succTracker) step(g *Kernel, d int, prev, c Point) {
	cur, diff := d, 0
	for i := 0; i < g.k; i++ {
		cur = (d + i) % g.k
		if diff = abs(c[cur] - prev[cur]); diff != 0 {
			break
		}
	}
	if diff == 0 {
		return
	}
	g.monitor.RecordJumpLength(cur, diff)
	if diff == s.lastDiff && cur == s.lastDim {
		s.run++
		return
	}
	s.flush(g)
	s.lastDiff, s.lastDim = diff, cur
}

func (s *succTracker) flush(g *Kernel) {
	if s.run > 0 {
		g.monitor.RecordSuccessiveRun(s.run + 1)
	}
	s.run = 0
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// deltaTuner maintains the speculative jump distance. After each move along
// d it estimates the remaining work as the number of delta-sized steps left
// times the queries spent per step; delta doubles while that estimate
// shrinks and moves halfway back to its previous value otherwise.
type deltaTuner struct {
	delta, deltaPrev int
	queries          int
	queriesPrev      int
	first            bool
	ceiling          int
}

func newDeltaTuner(ceiling int) *deltaTuner {
	return &deltaTuner{delta: 1, deltaPrev: 1, first: true, ceiling: max(1, ceiling)}
}

// moved records a move of length step along d with remaining coordinates
// still to sweep.
func (t *deltaTuner) moved(step, remaining int) {
	step = max(1, step)
	est := ceilDiv(remaining, step) * t.queries
	estPrev := ceilDiv(remaining, t.deltaPrev) * t.queriesPrev
	t.queriesPrev, t.queries = t.queries, 0
	if t.first || est < estPrev {
		t.deltaPrev = step
		t.delta = min(2*step, t.ceiling)
		t.first = false
	} else {
		next := min((step+t.deltaPrev)/2, t.ceiling)
		t.deltaPrev = step
		t.delta = next
	}
	t.delta = max(1, t.delta)
}

func (t *deltaTuner) stayed() { t.queries++ }

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

// newDeltaPruneMin is pruneMin with delta-limited boxes and the trashing
// detector.
func (g *Kernel) newDeltaPruneMin(o *Object, d int, ictrs []*InternalConstraint) bool {
	return g.deltaPrune(o, d, ictrs, true)
}

// newDeltaPruneMax is pruneMax with delta-limited boxes and the trashing
// detector.
func (g *Kernel) newDeltaPruneMax(o *Object, d int, ictrs []*InternalConstraint) bool {
	return g.deltaPrune(o, d, ictrs, false)
}

func (g *Kernel) deltaPrune(o *Object, d int, ictrs []*InternalConstraint, increase bool) bool {
	var c, n Point
	if increase {
		c, n = o.lower(g.doms), g.upperJump(o)
	} else {
		c, n = o.upper(g.doms), g.lowerJump(o)
	}
	tuner := newDeltaTuner(o.Radius + g.maxDiameter[d])
	succ := newSuccTracker()
	trash := trashDetector{anchor: c[(g.k-2+d)%g.k]}
	cd, jumps := c[d], 0
	defer func() {
		succ.flush(g)
		g.monitor.RecordPrune(jumps)
	}()
	limit := func() int { return lo.Ternary(increase, c[d]+tuner.delta, c[d]-tuner.delta) }

	for fr := g.getDeltaFR(d, o, c, n, ictrs, increase, limit(), trash.mode); fr.Excluded; fr = g.getDeltaFR(d, o, c, n, ictrs, increase, limit(), trash.mode) {
		prev := c.Clone()
		if increase {
			shrinkJumpUp(n, fr.Region)
			if !adjustUp(c, n, o, g.doms, d, g.k) {
				g.trace.printf("deltaPruneMin o%d d=%d: no feasible point", o.ID, d)
				return false
			}
		} else {
			shrinkJumpDown(n, fr.Region)
			if !adjustDown(c, n, o, g.doms, d, g.k) {
				g.trace.printf("deltaPruneMax o%d d=%d: no feasible point", o.ID, d)
				return false
			}
		}
		jumps++
		if to, changed := trash.observe(c, d, g.k, fr.Region); changed {
			g.monitor.RecordTrashing(to)
			g.trace.printf("o%d d=%d: trashing detector now %s", o.ID, d, to)
		}
		succ.step(g, d, prev, c)
		if c[d] != cd {
			remaining := lo.Ternary(increase, g.doms.Sup(o.Coords[d])-c[d], c[d]-g.doms.Inf(o.Coords[d]))
			tuner.moved(abs(c[d]-cd), remaining)
			cd = c[d]
		} else {
			tuner.stayed()
		}
	}
	if increase {
		return g.doms.UpdateInf(o.Coords[d], c[d]) == nil
	}
	return g.doms.UpdateSup(o.Coords[d], c[d]) == nil
}

// getDeltaFR returns a forbidden box containing c. While the trashing
// detector suspects a crawl it only considers single-constraint boxes;
// otherwise it also offers boxes covered jointly by two constraints and
// trims the result along d-1 so that the next sweep point lands where two
// constraints overlap.
func (g *Kernel) getDeltaFR(d int, o *Object, c, n Point, ictrs []*InternalConstraint, increase bool, limit int, mode trashMode) Feasibility {
	if mode == trashSuspect {
		return g.getDeltaFRSingle(d, o, c, n, ictrs, increase, limit)
	}
	fr := g.getDeltaFRMultiple(d, o, c, n, ictrs, increase, limit)
	if !fr.Excluded {
		return fr
	}
	b := fr.Region
	dl := (d + g.k - 1) % g.k
	if b.Max[dl]-b.Min[dl] < 2 {
		return fr
	}
	next, edge := c.Clone(), c.Clone()
	if increase {
		next[dl], edge[dl] = b.Max[dl]+1, b.Max[dl]
		if next[dl] <= g.doms.Sup(o.Coords[dl]) && CardinalityInfeasible(ictrs, next) == 1 && CardinalityInfeasible(ictrs, edge) > 1 {
			b.Max[dl]--
		}
	} else {
		next[dl], edge[dl] = b.Min[dl]-1, b.Min[dl]
		if next[dl] >= g.doms.Inf(o.Coords[dl]) && CardinalityInfeasible(ictrs, next) == 1 && CardinalityInfeasible(ictrs, edge) > 1 {
			b.Min[dl]++
		}
	}
	g.assertRegion("getDeltaFR", b, c)
	return Feasibility{Excluded: true, Region: b}
}

// getDeltaFRSingle tries, for each constraint excluding c, the segment from
// c along d-1 up to that constraint's edge; a segment followed by a free
// point is returned at once. Otherwise the best greedy box wins.
func (g *Kernel) getDeltaFRSingle(d int, o *Object, c, n Point, ictrs []*InternalConstraint, increase bool, limit int) Feasibility {
	g.monitor.RecordGetFR()
	covering := coveringConstraints(ictrs, c)
	if len(covering) == 0 {
		return feasible
	}
	dl := (d + g.k - 1) % g.k
	var best Region
	for _, ic := range covering {
		if seg, free := g.segment(ic, dl, o, c, n, ictrs, increase); free {
			return Feasibility{Excluded: true, Region: seg}
		}
		best = g.pickDelta(d, increase, g.greedyBox(ic, d, c, n, increase, limit), best)
	}
	g.assertRegion("getDeltaFRSingle", best, c)
	return Feasibility{Excluded: true, Region: best}
}

// getDeltaFRMultiple is getDeltaFRSingle that also offers, for every second
// constraint excluding the end of a segment, the chain box of the pair.
func (g *Kernel) getDeltaFRMultiple(d int, o *Object, c, n Point, ictrs []*InternalConstraint, increase bool, limit int) Feasibility {
	g.monitor.RecordGetFR()
	covering := coveringConstraints(ictrs, c)
	if len(covering) == 0 {
		return feasible
	}
	dl := (d + g.k - 1) % g.k
	var best Region
	for _, ic := range covering {
		seg, free := g.segment(ic, dl, o, c, n, ictrs, increase)
		if free {
			return Feasibility{Excluded: true, Region: seg}
		}
		best = g.pickDelta(d, increase, g.greedyBox(ic, d, c, n, increase, limit), best)
		end := Point(lo.Ternary(increase, seg.Max, seg.Min))
		for _, other := range coveringConstraints(ictrs, end) {
			if other == ic {
				continue
			}
			if r, ok := g.chainBox(d, c, n, ic, other, increase); ok {
				best = g.pickDelta(d, increase, r, best)
			}
		}
	}
	g.assertRegion("getDeltaFRMultiple", best, c)
	return Feasibility{Excluded: true, Region: best}
}

func (g *Kernel) pickDelta(d int, increase bool, box, best Region) Region {
	switch {
	case best.Dim() == 0:
		return box
	case g.k == 2:
		return selectionCriteria(d, g.k, increase, box, best)
	}
	return lexMore(box, best, d, g.k, increase)
}

// segment extends c along dl as far as ic excludes it. free reports whether
// the point right after the segment lies in o's domain and is excluded by
// no constraint.
func (g *Kernel) segment(ic *InternalConstraint, dl int, o *Object, c, n Point, ictrs []*InternalConstraint, increase bool) (Region, bool) {
	seg := RegionFromPoint(c)
	after := c.Clone()
	if increase {
		seg.Max[dl] = min(n[dl]-1, ic.MaximizeSizeOfFBox(true, dl, g.k, seg))
		after[dl] = seg.Max[dl] + 1
	} else {
		seg.Min[dl] = max(n[dl]+1, ic.MaximizeSizeOfFBox(false, dl, g.k, seg))
		after[dl] = seg.Min[dl] - 1
	}
	seg.Source = "single"
	inside := o.domainBox(g.doms).Contains(after)
	return seg, inside && CardinalityInfeasible(ictrs, after) == 0
}

// greedyBox grows a box from c with ic alone: first along d up to the delta
// limit, then along d-1, d-2, ..., d+1.
func (g *Kernel) greedyBox(ic *InternalConstraint, d int, c, n Point, increase bool, limit int) Region {
	f := RegionFromPoint(c)
	if increase {
		f.Max[d] = min(limit, n[d]-1, ic.MaximizeSizeOfFBox(true, d, g.k, f))
	} else {
		f.Min[d] = max(limit, n[d]+1, ic.MaximizeSizeOfFBox(false, d, g.k, f))
	}
	for i := g.k - 1; i >= 1; i-- {
		j := (d + i) % g.k
		if increase {
			f.Max[j] = min(n[j]-1, ic.MaximizeSizeOfFBox(true, j, g.k, f))
		} else {
			f.Min[j] = max(n[j]+1, ic.MaximizeSizeOfFBox(false, j, g.k, f))
		}
	}
	f.Source = "greedy"
	return f
}
