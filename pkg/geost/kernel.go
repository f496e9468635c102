package geost

import (
	"github.com/samber/lo"
)

// Kernel is the sweep-point pruning engine. For one object and one
// dimension it moves a candidate point through the object's domain in
// lexicographic order rooted at the pruned dimension, jumping past forbidden
// boxes until the first feasible point is reached; that point's coordinate
// is the new bound.
//
// A Kernel belongs to one constraint instance and is not safe for
// concurrent use.
type Kernel struct {
	model   *Model
	doms    Domains
	cfg     Config
	ext     *ExternalLayer
	monitor *KernelMonitor
	k       int
	mode    PruneMode

	// round-robin start positions into the internal constraint list for
	// increasing (A) and decreasing (B) sweeps
	frPtrA, frPtrB int

	memo  *memoCache
	trace tracer
	// maxDiameter[d] is the largest offset+size along d over every shape.
	maxDiameter []int
}

// NewKernel creates a kernel for model m over doms. monitor may be nil.
func NewKernel(m *Model, doms Domains, cfg Config, monitor *KernelMonitor) *Kernel {
	if monitor == nil {
		monitor = NewKernelMonitor(m.k)
	}
	g := &Kernel{
		model:   m,
		doms:    doms,
		cfg:     cfg,
		ext:     NewExternalLayer(m, doms, cfg.Clipping),
		monitor: monitor,
		k:       m.k,
		mode:    cfg.effectiveMode(m.k),
		memo:    newMemoCache(cfg.MemoDepth),
		trace:   tracer(cfg.Trace),
	}
	g.ext.trace = g.trace
	g.maxDiameter = make([]int, m.k)
	for _, s := range m.shapes {
		for _, b := range s {
			for i := range g.maxDiameter {
				g.maxDiameter[i] = max(g.maxDiameter[i], b.end(i))
			}
		}
	}
	if g.mode != cfg.Mode {
		g.trace.printf("mode %s unavailable for k=%d, sweeping in %s", cfg.Mode, m.k, g.mode)
	}
	return g
}

// ExternalLayer returns the kernel's external layer.
func (g *Kernel) ExternalLayer() *ExternalLayer { return g.ext }

// compileInternal regenerates o's internal constraint list from its external
// constraints and static placement windows.
func (g *Kernel) compileInternal(o *Object) []*InternalConstraint {
	var out []*InternalConstraint
	for _, ec := range o.external {
		out = append(out, g.ext.GenInternalConstraints(ec, o)...)
	}
	for _, ic := range o.static {
		out = append(out, ic.bind(g.doms))
	}
	o.internal = out
	return out
}

// getFR returns the first forbidden region containing c, scanning the
// internal constraints round-robin from where the previous hit was found.
func (g *Kernel) getFR(d int, o *Object, c, n Point, ictrs []*InternalConstraint, increase bool) Feasibility {
	g.monitor.RecordGetFR()
	ptr := lo.Ternary(increase, &g.frPtrA, &g.frPtrB)
	nb := len(ictrs)
	if *ptr >= nb {
		*ptr = 0
	}
	for step := 0; step < nb; step++ {
		i := (*ptr + step) % nb
		if fr := IsFeasible(ictrs[i], increase, d, g.k, o, g.doms, c, n); fr.Excluded {
			*ptr = i
			g.assertRegion("getFR", fr.Region, c)
			return fr
		}
	}
	*ptr = 0
	return feasible
}

// assertRegion checks, in debug mode, that a returned region contains the
// query point.
func (g *Kernel) assertRegion(op string, r Region, c Point) {
	if g.cfg.Debug && (r.IsEmpty() || !r.Contains(c)) {
		panic(contractViolation(op, "forbidden region %v does not contain %v", r, c))
	}
}

// adjustUp moves c to the next candidate after the box bounded by n,
// rolling dimensions d-1, d-2, ..., d in turn. Exhausted dimensions wrap to
// their domain start. It returns false when no candidate is left.
func adjustUp(c, n Point, o *Object, doms Domains, d, k int) bool {
	for j := k - 1; j >= 0; j-- {
		jp := (j + d) % k
		sup := doms.Sup(o.Coords[jp])
		c[jp] = n[jp]
		n[jp] = sup + 1
		if c[jp] <= sup {
			return true
		}
		c[jp] = doms.Inf(o.Coords[jp])
	}
	return false
}

// adjustDown is adjustUp for sweeps towards smaller coordinates.
func adjustDown(c, n Point, o *Object, doms Domains, d, k int) bool {
	for j := k - 1; j >= 0; j-- {
		jp := (j + d) % k
		inf := doms.Inf(o.Coords[jp])
		c[jp] = n[jp]
		n[jp] = inf - 1
		if c[jp] >= inf {
			return true
		}
		c[jp] = doms.Sup(o.Coords[jp])
	}
	return false
}

func (g *Kernel) upperJump(o *Object) Point {
	return lo.Map(o.Coords, func(v VarID, _ int) int { return g.doms.Sup(v) + 1 })
}

func (g *Kernel) lowerJump(o *Object) Point {
	return lo.Map(o.Coords, func(v VarID, _ int) int { return g.doms.Inf(v) - 1 })
}

func shrinkJumpUp(n Point, r Region) {
	for i := range n {
		n[i] = min(n[i], r.Max[i]+1)
	}
}

func shrinkJumpDown(n Point, r Region) {
	for i := range n {
		n[i] = max(n[i], r.Min[i]-1)
	}
}

// pruneMin raises the lower bound of o along d to the first feasible point.
func (g *Kernel) pruneMin(o *Object, d int, ictrs []*InternalConstraint) bool {
	c, n := o.lower(g.doms), g.upperJump(o)
	jumps := 0
	defer func() { g.monitor.RecordPrune(jumps) }()
	for fr := g.getFR(d, o, c, n, ictrs, true); fr.Excluded; fr = g.getFR(d, o, c, n, ictrs, true) {
		shrinkJumpUp(n, fr.Region)
		prev := c[d]
		if !adjustUp(c, n, o, g.doms, d, g.k) {
			g.trace.printf("pruneMin o%d d=%d: no feasible point", o.ID, d)
			return false
		}
		jumps++
		g.recordJump(d, c[d]-prev)
	}
	return g.doms.UpdateInf(o.Coords[d], c[d]) == nil
}

// pruneMax lowers the upper bound of o along d to the last feasible point.
func (g *Kernel) pruneMax(o *Object, d int, ictrs []*InternalConstraint) bool {
	c, n := o.upper(g.doms), g.lowerJump(o)
	jumps := 0
	defer func() { g.monitor.RecordPrune(jumps) }()
	for fr := g.getFR(d, o, c, n, ictrs, false); fr.Excluded; fr = g.getFR(d, o, c, n, ictrs, false) {
		shrinkJumpDown(n, fr.Region)
		prev := c[d]
		if !adjustDown(c, n, o, g.doms, d, g.k) {
			g.trace.printf("pruneMax o%d d=%d: no feasible point", o.ID, d)
			return false
		}
		jumps++
		g.recordJump(d, prev-c[d])
	}
	return g.doms.UpdateSup(o.Coords[d], c[d]) == nil
}

func (g *Kernel) recordJump(d, length int) {
	if length > 0 {
		g.monitor.RecordJumpLength(d, length)
	}
}

// filterObject compiles o's internal constraints and prunes both bounds of
// every dimension with the configured strategy.
func (g *Kernel) filterObject(o *Object) bool {
	ictrs := g.compileInternal(o)
	if len(ictrs) == 0 {
		return true
	}
	for d := 0; d < g.k; d++ {
		var ok bool
		switch g.mode {
		case PropMode:
			ok = g.newPruneMin(o, d, ictrs) && g.newPruneMax(o, d, ictrs)
		case DeltaMode:
			ok = g.newDeltaPruneMin(o, d, ictrs) && g.newDeltaPruneMax(o, d, ictrs)
		default:
			ok = g.pruneMin(o, d, ictrs) && g.pruneMax(o, d, ictrs)
		}
		if !ok {
			return false
		}
	}
	return true
}

// filterObjectWithShapeChoice filters o once per candidate shape, each time
// under a checkpoint that is rolled back afterwards. Shapes leaving o with no
// feasible placement are removed; the coordinate bounds become the envelope
// of the surviving trials.
func (g *Kernel) filterObjectWithShapeChoice(o *Object) bool {
	if g.doms.Size(o.Shape) == 1 {
		return g.filterObject(o)
	}
	envMin := lo.Map(o.Coords, func(v VarID, _ int) int { return g.doms.Sup(v) + 1 })
	envMax := lo.Map(o.Coords, func(v VarID, _ int) int { return g.doms.Inf(v) - 1 })
	survivors := 0
	for _, sid := range g.doms.Domain(o.Shape).Values() {
		lower, upper, ok := g.tryShape(o, sid)
		g.monitor.RecordShapeTrial(!ok)
		if !ok {
			g.trace.printf("o%d: shape %d has no feasible placement", o.ID, sid)
			if err := g.doms.RemoveValue(o.Shape, sid); err != nil {
				return false
			}
			continue
		}
		survivors++
		for i := range o.Coords {
			envMin[i] = min(envMin[i], lower[i])
			envMax[i] = max(envMax[i], upper[i])
		}
	}
	if survivors == 0 {
		return false
	}
	for i, v := range o.Coords {
		if g.doms.UpdateInf(v, envMin[i]) != nil || g.doms.UpdateSup(v, envMax[i]) != nil {
			return false
		}
	}
	return true
}

// tryShape fixes o's shape to sid, filters o and reports the resulting
// bounds. Every narrowing is undone before it returns, panics included.
func (g *Kernel) tryShape(o *Object, sid int) (lower, upper Point, ok bool) {
	mark := g.doms.Checkpoint()
	defer g.doms.Rollback(mark)
	if g.doms.Instantiate(o.Shape, sid) != nil || !g.filterObject(o) {
		return nil, nil, false
	}
	return o.lower(g.doms), o.upper(g.doms), true
}

// propagateDistances narrows every distance variable once. UpdateDistance
// reads only object domains, so one pass is a fixpoint.
func (g *Kernel) propagateDistances(ectrs []*ExternalConstraint) (changed, ok bool) {
	for _, ec := range ectrs {
		ch, err := UpdateDistance(g.model, g.doms, ec)
		if err != nil {
			g.trace.printf("%v", err)
			return changed, false
		}
		if ch && ec.frame != nil {
			g.ext.RefreshObject(ec, ec.Objects[0])
		}
		changed = changed || ch
	}
	return changed, true
}

// FilterAllConstraints propagates ectrs over the listed objects to a
// fixpoint. It returns false as soon as some object has no feasible
// placement.
func (g *Kernel) FilterAllConstraints(ids []int, ectrs []*ExternalConstraint) bool {
	if _, ok := g.propagateDistances(ectrs); !ok {
		return false
	}
	for _, ec := range ectrs {
		g.ext.InitFrame(ec, ids)
	}
	for round, nonFix := 1, true; nonFix; round++ {
		nonFix = false
		for _, id := range ids {
			o := g.model.object(id)
			before := o.domainSize(g.doms)
			if !g.filterObjectWithShapeChoice(o) {
				g.trace.printf("round %d: o%d has no feasible placement", round, id)
				return false
			}
			if o.domainSize(g.doms) == before {
				continue
			}
			nonFix = true
			for _, ec := range o.external {
				if ec.pairwise() && lo.Contains(ectrs, ec) {
					g.ext.RefreshObject(ec, id)
				}
			}
		}
		changed, ok := g.propagateDistances(ectrs)
		if !ok {
			return false
		}
		nonFix = nonFix || changed
		g.trace.printf("round %d done (changed=%v)", round, nonFix)
	}
	return true
}
