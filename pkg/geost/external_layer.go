package geost

import (
	"github.com/samber/lo"
)

// ExternalLayer builds frames for external constraints and compiles them
// into internal constraints for one object at a time.
type ExternalLayer struct {
	model    *Model
	doms     Domains
	clipping bool
	trace    tracer
}

// NewExternalLayer creates an external layer over model m and domains doms.
// With clipping set, generated outboxes are shrunk to the object's domain.
func NewExternalLayer(m *Model, doms Domains, clipping bool) *ExternalLayer {
	return &ExternalLayer{model: m, doms: doms, clipping: clipping}
}

// InitFrame rebuilds the frame of ec for the listed objects (objects not
// mentioned by ec are ignored) and stores it in ec.
func (el *ExternalLayer) InitFrame(ec *ExternalConstraint, ids []int) *Frame {
	f := newFrame(el.model.k)
	members := lo.Filter(ids, func(id int, _ int) bool { return lo.Contains(ec.Objects, id) })
	switch ec.Kind {
	case NonOverlapping:
		for _, id := range members {
			f.SetRegions(id, el.compulsoryRegions(el.model.object(id)))
		}
	case DistanceLeq, DistanceGeq:
		el.setDistanceParams(ec, f)
		for _, id := range members {
			f.SetRegions(id, nil)
		}
	case DistanceLinear:
		f.Q, f.O1 = ec.Q, ec.Objects[0]
		f.Coefficients, f.Bound = ec.Coefficients, ec.Bound
		for _, id := range members {
			f.SetRegions(id, nil)
		}
	case Compatible, Included, Visible, NonOverlappingCircle:
		for _, id := range members {
			f.SetRegions(id, nil)
		}
	default:
		panic(contractViolation("ExternalLayer.InitFrame", "unsupported external constraint kind %s", ec.Kind))
	}
	ec.frame = f
	el.trace.printf("frame %s: %d regions over %d objects", ec, f.RegionCount(), len(members))
	return f
}

func (el *ExternalLayer) setDistanceParams(ec *ExternalConstraint, f *Frame) {
	f.Q, f.O1, f.O2 = ec.Q, ec.Objects[0], ec.Objects[1]
	f.D = ec.Distance
	if ec.DistanceVar != NoVar {
		if ec.Kind == DistanceLeq {
			f.D = el.doms.Sup(ec.DistanceVar)
		} else {
			f.D = el.doms.Inf(ec.DistanceVar)
		}
	}
	f.S1, f.S2 = el.fixedShape(f.O1), el.fixedShape(f.O2)
}

// fixedShape returns the shape id of object id, or -1 while it is free.
func (el *ExternalLayer) fixedShape(id int) int {
	o := el.model.object(id)
	if el.doms.Size(o.Shape) != 1 {
		return -1
	}
	return el.doms.Inf(o.Shape)
}

// RefreshObject recomputes the regions object id contributes to the frame of
// ec, leaving the other objects' regions untouched.
func (el *ExternalLayer) RefreshObject(ec *ExternalConstraint, id int) {
	if ec.frame == nil {
		el.InitFrame(ec, ec.Objects)
		return
	}
	switch ec.Kind {
	case NonOverlapping:
		ec.frame.SetRegions(id, el.compulsoryRegions(el.model.object(id)))
	case DistanceLeq, DistanceGeq:
		el.setDistanceParams(ec, ec.frame)
	}
}

// compulsoryRegions returns, for every combination of one box per candidate
// shape of o, the cells covered by o wherever it is placed in its domain:
// along each dimension [sup + max(offset), inf + min(offset+size) - 1].
// Empty combinations are dropped.
func (el *ExternalLayer) compulsoryRegions(o *Object) []Region {
	k := el.model.k
	shapes := lo.Map(el.doms.Domain(o.Shape).Values(), func(sid int, _ int) Shape { return el.model.shape(sid) })
	inf, sup := o.lower(el.doms), o.upper(el.doms)
	var out []Region
	pick := make([]ShiftedBox, len(shapes))
	var walk func(s int)
	walk = func(s int) {
		if s == len(shapes) {
			r := NewRegion(k)
			for i := 0; i < k; i++ {
				maxOff := lo.Max(lo.Map(pick, func(b ShiftedBox, _ int) int { return b.Offset[i] }))
				minEnd := lo.Min(lo.Map(pick, func(b ShiftedBox, _ int) int { return b.end(i) }))
				r.Min[i] = sup[i] + maxOff
				r.Max[i] = inf[i] + minEnd - 1
			}
			if !r.IsEmpty() {
				r.Source = "compulsory"
				out = append(out, r)
			}
			return
		}
		for _, b := range shapes[s] {
			pick[s] = b
			walk(s + 1)
		}
	}
	walk(0)
	return out
}

// GenInternalConstraints compiles ec into the internal constraints it
// imposes on object o. ec's frame must have been built.
func (el *ExternalLayer) GenInternalConstraints(ec *ExternalConstraint, o *Object) []*InternalConstraint {
	switch ec.Kind {
	case NonOverlapping:
		if ec.frame == nil {
			panic(contractViolation("ExternalLayer.GenInternalConstraints", "%s has no frame", ec))
		}
		return el.outboxesFromFrame(ec.frame, o)
	case DistanceLeq, DistanceGeq:
		f := el.frameOf(ec)
		var other *Object
		switch o.ID {
		case f.O1:
			other = el.model.object(f.O2)
		case f.O2:
			other = el.model.object(f.O1)
		default:
			return nil
		}
		measure := lo.Ternary(ec.Kind == DistanceLeq, candidateHull, candidateCore)
		g := &distanceGeometry{
			o1: o, o2: other,
			box1: measure(el.model, el.doms, o), box2: measure(el.model, el.doms, other),
			d: f.D, doms: el.doms,
		}
		kind := lo.Ternary(ec.Kind == DistanceLeq, DistLeqIC, DistGeqIC)
		return []*InternalConstraint{{Kind: kind, dist: g, obj: o, doms: el.doms}}
	case DistanceLinear:
		f := el.frameOf(ec)
		if o.ID != f.O1 {
			return nil
		}
		g := &distanceGeometry{o1: o, a: f.Coefficients, b: f.Bound, doms: el.doms}
		return []*InternalConstraint{{Kind: DistLinearIC, dist: g, obj: o, doms: el.doms}}
	case Compatible, Included, Visible, NonOverlappingCircle:
		return nil
	default:
		panic(contractViolation("ExternalLayer.GenInternalConstraints", "unsupported external constraint kind %s", ec.Kind))
	}
}

func (el *ExternalLayer) frameOf(ec *ExternalConstraint) *Frame {
	if ec.frame == nil {
		return el.InitFrame(ec, ec.Objects)
	}
	return ec.frame
}

// outboxesFromFrame turns the regions of every other object in f into
// outboxes for o's current shape.
func (el *ExternalLayer) outboxesFromFrame(f *Frame, o *Object) []*InternalConstraint {
	var out []*InternalConstraint
	dom := o.domainBox(el.doms)
	for _, b := range el.model.shape(el.doms.Inf(o.Shape)) {
		q := NewRegion(el.model.k)
		for i := range q.Min {
			q.Min[i] = dom.Min[i] + b.Offset[i]
			q.Max[i] = dom.Max[i] + b.end(i) - 1
		}
		for _, e := range f.search(q, o.ID) {
			out = el.appendOutbox(out, e.region, b, dom)
		}
	}
	return out
}

// outboxesFromRegions turns absolute regions into outboxes for an object of
// shape sid whose origin ranges over dom, without consulting any frame.
func (el *ExternalLayer) outboxesFromRegions(regions []Region, sid int, dom Region) []*InternalConstraint {
	var out []*InternalConstraint
	for _, b := range el.model.shape(sid) {
		for _, r := range regions {
			out = el.appendOutbox(out, r, b, dom)
		}
	}
	return out
}

// appendOutbox adds the outbox that region r induces on the origin of an
// object whose box b must avoid r: [r.min - t - l + 1, r.max - t].
func (el *ExternalLayer) appendOutbox(out []*InternalConstraint, r Region, b ShiftedBox, dom Region) []*InternalConstraint {
	ob := NewRegion(r.Dim())
	for i := range ob.Min {
		ob.Min[i] = r.Min[i] - b.end(i) + 1
		ob.Max[i] = r.Max[i] - b.Offset[i]
	}
	if !ob.Intersects(dom) {
		return out
	}
	if el.clipping {
		ob, _ = ob.Intersect(dom)
	}
	ic := NewOutbox(ob.Min, lo.Times(ob.Dim(), ob.Size))
	if n := len(out); n > 0 {
		if merged, ok := MergeAdjacent(ic, out[n-1]); ok {
			out[n-1] = merged
			return out
		}
	}
	return append(out, ic)
}

// MergeAdjacent merges two outboxes that touch along exactly one dimension
// and have equal extents along all others. The result is their union; the
// boolean is false (and nothing is merged) otherwise.
func MergeAdjacent(ic, last *InternalConstraint) (*InternalConstraint, bool) {
	if ic.Kind != OutboxIC || last.Kind != OutboxIC || len(ic.Origin) != len(last.Origin) {
		return nil, false
	}
	dim := -1
	for i := range ic.Origin {
		if ic.Origin[i] == last.Origin[i] && ic.Length[i] == last.Length[i] {
			continue
		}
		if dim >= 0 {
			return nil, false
		}
		dim = i
	}
	if dim < 0 {
		return nil, false
	}
	touching := ic.Origin[dim]+ic.Length[dim] == last.Origin[dim] || last.Origin[dim]+last.Length[dim] == ic.Origin[dim]
	if !touching {
		return nil, false
	}
	merged := NewOutbox(last.Origin, last.Length)
	merged.Origin[dim] = min(ic.Origin[dim], last.Origin[dim])
	merged.Length[dim] = ic.Length[dim] + last.Length[dim]
	return merged, true
}
