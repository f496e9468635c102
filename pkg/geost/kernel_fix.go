package geost

import (
	"github.com/samber/lo"
)

// memoEntry remembers where an object was fixed and under which domain.
type memoEntry struct {
	id    int
	shape int
	at    Point
	dom   Region
}

// memoCache keeps, per controlling vector, the most recently fixed objects,
// newest first.
type memoCache struct {
	depth int
	lists map[string][]memoEntry
}

func newMemoCache(depth int) *memoCache {
	return &memoCache{depth: max(1, depth), lists: make(map[string][]memoEntry)}
}

func (m *memoCache) push(cv ControlVector, e memoEntry) {
	key := cv.key()
	l := append([]memoEntry{e}, m.lists[key]...)
	if len(l) > m.depth {
		l = l[:m.depth]
	}
	m.lists[key] = l
}

func (m *memoCache) entries(cv ControlVector) []memoEntry { return m.lists[cv.key()] }

// memoJump returns the position of the most recent memoized object that
// dominates o at c: an object under the same constraints, with the same
// domain and a shape included in o's, fixed beyond c. Every point before
// that position was already found infeasible for it.
func (g *Kernel) memoJump(o *Object, cv ControlVector, c Point, dom Region) (Point, bool) {
	if !g.cfg.Memo {
		return c, false
	}
	sid := g.doms.Inf(o.Shape)
	for _, e := range g.memo.entries(cv) {
		if e.id == o.ID || !g.model.equivalentObjects(e.id, o.ID) || !g.model.shapeIncluded(sid, e.shape) {
			continue
		}
		if e.dom.Equal(dom) && e.at.LexGreaterThan(c, cv) {
			return e.at.Clone(), true
		}
	}
	return c, false
}

// fixStart returns the first sweep point and jump vector of cv over dom.
func fixStart(cv ControlVector, dom Region) (c, n Point) {
	k := dom.Dim()
	c, n = NewPoint(k), NewPoint(k)
	for _, od := range cv.Order {
		if od.Increasing {
			c[od.Dim], n[od.Dim] = dom.Min[od.Dim], dom.Max[od.Dim]+1
		} else {
			c[od.Dim], n[od.Dim] = dom.Max[od.Dim], dom.Min[od.Dim]-1
		}
	}
	return c, n
}

// resumeJump is the jump vector for a sweep resumed at c in the middle of a
// row. Only the least significant dimension of cv may reach the domain
// bound; every other dimension is limited to the row of c, since the points
// of the following rows lying before c were never visited.
func resumeJump(cv ControlVector, c Point, dom Region) Point {
	n := NewPoint(dom.Dim())
	last := len(cv.Order) - 1
	for i, od := range cv.Order {
		switch {
		case i == last && od.Increasing:
			n[od.Dim] = dom.Max[od.Dim] + 1
		case i == last:
			n[od.Dim] = dom.Min[od.Dim] - 1
		case od.Increasing:
			n[od.Dim] = c[od.Dim] + 1
		default:
			n[od.Dim] = c[od.Dim] - 1
		}
	}
	return n
}

// fixObject instantiates o's shape as cv asks, compiles o's internal
// constraints and fixes o's origin at the first feasible point in cv order.
func (g *Kernel) fixObject(o *Object, cv ControlVector) bool {
	sh := g.doms.Domain(o.Shape)
	if sh.IsEmpty() {
		return false
	}
	sid := lo.Ternary(cv.ShapeAscending, sh.Min(), sh.Max())
	if g.doms.Instantiate(o.Shape, sid) != nil {
		return false
	}
	return g.pruneFix(o, cv, g.compileInternal(o))
}

// pruneFix sweeps o's domain in the order of cv and instantiates o's
// coordinates at the first point no constraint in ictrs excludes.
func (g *Kernel) pruneFix(o *Object, cv ControlVector, ictrs []*InternalConstraint) bool {
	dom := o.domainBox(g.doms)
	c, n := fixStart(cv, dom)
	d := cv.Order[0].Dim
	hit := false
	jump := func() {
		if at, ok := g.memoJump(o, cv, c, dom); ok {
			copy(c, at)
			n = resumeJump(cv, c, dom)
			hit = true
		}
	}
	jump()
	for {
		fr := g.getFR(d, o, c, g.fixJump(cv, n, dom), ictrs, true)
		if !fr.Excluded {
			break
		}
		for _, od := range cv.Order {
			if od.Increasing {
				n[od.Dim] = min(n[od.Dim], fr.Region.Max[od.Dim]+1)
			} else {
				n[od.Dim] = max(n[od.Dim], fr.Region.Min[od.Dim]-1)
			}
		}
		if !nextFixCandidate(cv, c, n, dom) {
			g.trace.printf("pruneFix o%d %s: no feasible point", o.ID, cv)
			return false
		}
		jump()
	}
	for i, v := range o.Coords {
		if g.doms.Instantiate(v, c[i]) != nil {
			return false
		}
	}
	g.monitor.RecordFix(hit)
	if g.cfg.Memo {
		g.memo.push(cv, memoEntry{id: o.ID, shape: g.doms.Inf(o.Shape), at: c.Clone(), dom: dom})
	}
	g.trace.printf("fixed o%d at %v (memo hit: %v)", o.ID, c, hit)
	return true
}

// fixJump is the jump vector handed to the oracle, which grows boxes
// upwards only: decreasing dimensions are capped by the domain instead.
func (g *Kernel) fixJump(cv ControlVector, n Point, dom Region) Point {
	up := n.Clone()
	for _, od := range cv.Order {
		if !od.Increasing {
			up[od.Dim] = dom.Max[od.Dim] + 1
		}
	}
	return up
}

// nextFixCandidate moves c past the box bounded by n, least significant
// dimension of cv first.
func nextFixCandidate(cv ControlVector, c, n Point, dom Region) bool {
	for i := len(cv.Order) - 1; i >= 0; i-- {
		od := cv.Order[i]
		j := od.Dim
		c[j] = n[j]
		if od.Increasing {
			n[j] = dom.Max[j] + 1
			if c[j] <= dom.Max[j] {
				return true
			}
			c[j] = dom.Min[j]
		} else {
			n[j] = dom.Min[j] - 1
			if c[j] >= dom.Min[j] {
				return true
			}
			c[j] = dom.Max[j]
		}
	}
	return false
}

// refreshFixed updates the pairwise frames o takes part in after o was
// fixed.
func (g *Kernel) refreshFixed(o *Object) {
	for _, ec := range o.external {
		if ec.pairwise() && ec.frame != nil {
			g.ext.RefreshObject(ec, o.ID)
		}
	}
}

// FixAllObjects fixes the listed objects that are still free one after the
// other, the i-th free object using controlling vector cvs[i mod len(cvs)].
// Each fixed object becomes an obstacle for the following ones. It returns
// false as soon as an object cannot be placed.
func (g *Kernel) FixAllObjects(ids []int, ectrs []*ExternalConstraint, cvs []ControlVector) bool {
	if len(cvs) == 0 {
		panic(contractViolation("FixAllObjects", "no controlling vector"))
	}
	for _, ec := range ectrs {
		g.ext.InitFrame(ec, ids)
	}
	i := 0
	for _, id := range ids {
		o := g.model.object(id)
		if o.IsFixed(g.doms) {
			continue
		}
		if !g.fixObject(o, cvs[i%len(cvs)]) {
			return false
		}
		i++
		g.refreshFixed(o)
	}
	return true
}

// FixAllObjectsIncremental is FixAllObjects that reuses the previous
// object's internal constraints when both objects carry the same
// non-overlapping constraints only, get the same shape and share their
// domain: the previous list is extended with the outboxes of the object just
// fixed instead of being recompiled from the frames.
func (g *Kernel) FixAllObjectsIncremental(ids []int, ectrs []*ExternalConstraint, cvs []ControlVector) bool {
	if len(cvs) == 0 {
		panic(contractViolation("FixAllObjectsIncremental", "no controlling vector"))
	}
	for _, ec := range ectrs {
		g.ext.InitFrame(ec, ids)
	}
	var (
		prev   *Object
		ictrs  []*InternalConstraint
		prevSh = -1
		prevDm Region
	)
	i := 0
	for _, id := range ids {
		o := g.model.object(id)
		if o.IsFixed(g.doms) {
			continue
		}
		cv := cvs[i%len(cvs)]
		i++
		sh := g.doms.Domain(o.Shape)
		if sh.IsEmpty() {
			return false
		}
		sid := lo.Ternary(cv.ShapeAscending, sh.Min(), sh.Max())
		if g.doms.Instantiate(o.Shape, sid) != nil {
			return false
		}
		dom := o.domainBox(g.doms)
		// o's own compulsory part was an obstacle for prev
		reuse := prev != nil && sid == prevSh && dom.Equal(prevDm) && g.incrementalCompatible(prev, o) &&
			len(g.ext.compulsoryRegions(o)) == 0
		if !reuse {
			ictrs = g.compileInternal(o)
		} else {
			o.internal = ictrs
		}
		if !g.pruneFix(o, cv, ictrs) {
			return false
		}
		g.refreshFixed(o)
		added := g.ext.outboxesFromRegions(g.ext.compulsoryRegions(o), sid, dom)
		ictrs = appendMerged(ictrs, added)
		prev, prevSh, prevDm = o, sid, dom
	}
	return true
}

// incrementalCompatible reports whether b can reuse a's internal
// constraints.
func (g *Kernel) incrementalCompatible(a, b *Object) bool {
	if len(a.static) > 0 || len(b.static) > 0 {
		return false
	}
	only := func(o *Object) bool {
		return !lo.SomeBy(o.external, func(ec *ExternalConstraint) bool { return ec.Kind != NonOverlapping })
	}
	return only(a) && only(b) && sameConstraintSet(a.external, b.external)
}

// appendMerged returns list followed by added, merging the seam when the
// two boxes there are adjacent. list is not modified.
func appendMerged(list, added []*InternalConstraint) []*InternalConstraint {
	out := make([]*InternalConstraint, len(list), len(list)+len(added))
	copy(out, list)
	if len(out) > 0 && len(added) > 0 {
		if merged, ok := MergeAdjacent(added[0], out[len(out)-1]); ok {
			out[len(out)-1] = merged
			added = added[1:]
		}
	}
	return append(out, added...)
}
