package geost

// Feasibility is the answer of a forbidden-region query: whether the point
// is excluded and, if so, a box of excluded points containing it.
type Feasibility struct {
	Excluded bool
	Region   Region
}

var feasible = Feasibility{}

// IsFeasible asks one internal constraint about point p of object o while
// sweeping dimension d (upwards when increase). jump is the current jump
// vector: the returned region never reaches it, so min(jump, region edge)
// stays a valid bound for the sweep.
func IsFeasible(ic *InternalConstraint, increase bool, d, k int, o *Object, doms Domains, p, jump Point) Feasibility {
	switch ic.Kind {
	case OutboxIC:
		if !ic.InsideForbidden(p) {
			return feasible
		}
		r, _ := ic.boxRegion().Intersect(o.domainBox(doms))
		r.Source = "outbox"
		return Feasibility{Excluded: true, Region: r}
	case InboxIC:
		b := ic.boxRegion()
		for _, j := range sweepOrder(d, k) {
			if p[j] >= b.Min[j] && p[j] <= b.Max[j] {
				continue
			}
			r := o.domainBox(doms)
			if p[j] < b.Min[j] {
				r.Max[j] = b.Min[j] - 1
			} else {
				r.Min[j] = b.Max[j] + 1
			}
			r.Source = "inbox"
			return Feasibility{Excluded: true, Region: r}
		}
		return feasible
	case DistLeqIC, DistGeqIC, DistLinearIC:
		if !ic.InsideForbidden(p) {
			return feasible
		}
		r := growBox(ic, increase, d, k, p, jump, nil)
		r.Source = ic.Kind.String()
		return Feasibility{Excluded: true, Region: r}
	default:
		panic(contractViolation("IsFeasible", "unsupported internal constraint kind %s", ic.Kind))
	}
}

// growBox starts from the excluded point p and stretches the box along every
// dimension, least significant first (d-1, d-2, ..., d), capping each
// dimension at the jump vector. prop, when given, scales the stretch along
// the non-pruned dimensions: prop[m] applies to the m-th dimension visited.
func growBox(ic *InternalConstraint, increase bool, d, k int, p, jump Point, prop []float64) Region {
	f := RegionFromPoint(p)
	m := 0
	for i := k - 1; i >= 0; i-- {
		j := (d + i) % k
		frac := 1.0
		if i != 0 {
			if m < len(prop) {
				frac = prop[m]
			}
			m++
		}
		if increase {
			size := int(float64(ic.MaximizeSizeOfFBox(true, j, k, f)-f.Min[j]) * frac)
			f.Max[j] = min(jump[j]-1, f.Min[j]+size)
		} else {
			size := int(float64(f.Max[j]-ic.MaximizeSizeOfFBox(false, j, k, f)) * frac)
			f.Min[j] = max(jump[j]+1, f.Max[j]-size)
		}
	}
	return f
}

// CardinalityInfeasible counts the internal constraints excluding p.
func CardinalityInfeasible(ictrs []*InternalConstraint, p Point) int {
	n := 0
	for _, ic := range ictrs {
		if ic.InsideForbidden(p) {
			n++
		}
	}
	return n
}

// LexInfeasible returns the first point after p, in the sweep order rooted
// at d, that is not inside the region ic excludes around p. A feasible p is
// returned unchanged. The boolean is false when the domain is exhausted.
func LexInfeasible(ic *InternalConstraint, increase bool, d int, o *Object, doms Domains, p, jump Point) (Point, bool) {
	k := len(p)
	fr := IsFeasible(ic, increase, d, k, o, doms, p, jump)
	if !fr.Excluded {
		return p.Clone(), true
	}
	c, n := p.Clone(), jump.Clone()
	for i := range n {
		if increase {
			n[i] = min(n[i], fr.Region.Max[i]+1)
		} else {
			n[i] = max(n[i], fr.Region.Min[i]-1)
		}
	}
	if increase {
		return c, adjustUp(c, n, o, doms, d, k)
	}
	return c, adjustDown(c, n, o, doms, d, k)
}
