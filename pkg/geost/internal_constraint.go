package geost

import (
	"fmt"
)

// InternalKind enumerates the elementary exclusion shapes.
type InternalKind int

const (
	// InboxIC keeps the object's origin inside a box.
	InboxIC InternalKind = iota
	// OutboxIC keeps the object's origin outside a box.
	OutboxIC
	// DistLeqIC excludes origins farther than D from another object.
	DistLeqIC
	// DistGeqIC excludes origins closer than D to another object.
	DistGeqIC
	// DistLinearIC excludes origins outside a half-space.
	DistLinearIC
	// AvoidHolesIC is reserved; it is never generated and dispatching on it
	// is a contract violation.
	AvoidHolesIC
)

func (k InternalKind) String() string {
	switch k {
	case InboxIC:
		return "inbox"
	case OutboxIC:
		return "outbox"
	case DistLeqIC:
		return "dist_leq"
	case DistGeqIC:
		return "dist_geq"
	case DistLinearIC:
		return "dist_linear"
	case AvoidHolesIC:
		return "avoid_holes"
	default:
		return fmt.Sprintf("InternalKind(%d)", int(k))
	}
}

// InternalConstraint is one elementary exclusion for one object's origin.
// It is a closed sum type: Kind selects which fields are meaningful.
type InternalConstraint struct {
	Kind InternalKind

	// Inbox and Outbox: the box starts at Origin and spans Length
	// coordinates along each dimension.
	Origin []int
	Length []int

	// Distance kinds.
	dist *distanceGeometry

	// obj and doms give the constrained object's domain, used as the
	// unbounded extent by Inbox and the distance kinds.
	obj  *Object
	doms Domains
}

// NewOutbox returns an Outbox starting at t with sizes l.
func NewOutbox(t, l []int) *InternalConstraint {
	return &InternalConstraint{Kind: OutboxIC, Origin: append([]int(nil), t...), Length: append([]int(nil), l...)}
}

func newInbox(o *Object, t, l []int) *InternalConstraint {
	return &InternalConstraint{Kind: InboxIC, Origin: append([]int(nil), t...), Length: append([]int(nil), l...), obj: o}
}

// NewInbox returns an Inbox for object o bound to doms.
func NewInbox(o *Object, doms Domains, t, l []int) *InternalConstraint {
	return newInbox(o, t, l).bind(doms)
}

// bind returns a copy of ic evaluated against doms.
func (ic *InternalConstraint) bind(doms Domains) *InternalConstraint {
	c := *ic
	c.doms = doms
	return &c
}

// boxRegion returns the Inbox/Outbox box as a region.
func (ic *InternalConstraint) boxRegion() Region {
	r := NewRegion(len(ic.Origin))
	for i := range ic.Origin {
		r.Min[i] = ic.Origin[i]
		r.Max[i] = ic.Origin[i] + ic.Length[i] - 1
	}
	return r
}

func (ic *InternalConstraint) domainInf(d int) int { return ic.doms.Inf(ic.obj.Coords[d]) }
func (ic *InternalConstraint) domainSup(d int) int { return ic.doms.Sup(ic.obj.Coords[d]) }

// InsideForbidden reports whether p is excluded.
func (ic *InternalConstraint) InsideForbidden(p Point) bool {
	switch ic.Kind {
	case OutboxIC:
		return ic.boxRegion().Contains(p)
	case InboxIC:
		return !ic.boxRegion().Contains(p)
	case DistLeqIC, DistGeqIC, DistLinearIC:
		return ic.dist.insideForbidden(ic.Kind, p)
	default:
		panic(contractViolation("InternalConstraint.InsideForbidden", "unsupported internal constraint kind %s", ic.Kind))
	}
}

// ForbidsBox reports whether every point of r is excluded.
func (ic *InternalConstraint) ForbidsBox(r Region) bool {
	switch ic.Kind {
	case OutboxIC:
		return ic.boxRegion().Includes(r)
	case InboxIC:
		b := ic.boxRegion()
		for i := range r.Min {
			if r.Max[i] < b.Min[i] || r.Min[i] > b.Max[i] {
				return true
			}
		}
		return false
	case DistLeqIC, DistGeqIC, DistLinearIC:
		return ic.dist.forbidsBox(ic.Kind, r)
	default:
		panic(contractViolation("InternalConstraint.ForbidsBox", "unsupported internal constraint kind %s", ic.Kind))
	}
}

// MaximizeSizeOfFBox returns how far box, which must be fully excluded, can
// be stretched along dimension d (upwards when increase, downwards
// otherwise) while staying fully excluded. The result is the new max (resp.
// min) boundary along d; the object's domain bound stands for "unbounded".
func (ic *InternalConstraint) MaximizeSizeOfFBox(increase bool, d, k int, box Region) int {
	switch ic.Kind {
	case OutboxIC:
		if increase {
			return ic.Origin[d] + ic.Length[d] - 1
		}
		return ic.Origin[d]
	case InboxIC:
		return ic.maximizeInbox(increase, d, box)
	case DistLeqIC, DistGeqIC, DistLinearIC:
		return ic.dist.maximize(ic.Kind, increase, d, box)
	default:
		panic(contractViolation("InternalConstraint.MaximizeSizeOfFBox", "unsupported internal constraint kind %s", ic.Kind))
	}
}

func (ic *InternalConstraint) maximizeInbox(increase bool, d int, box Region) int {
	b := ic.boxRegion()
	for i := range box.Min {
		if i == d {
			continue
		}
		if box.Max[i] < b.Min[i] || box.Min[i] > b.Max[i] {
			return ic.unbounded(increase, d, box)
		}
	}
	switch {
	case box.Max[d] < b.Min[d]:
		if increase {
			return b.Min[d] - 1
		}
		return ic.unbounded(false, d, box)
	case box.Min[d] > b.Max[d]:
		if increase {
			return ic.unbounded(true, d, box)
		}
		return b.Max[d] + 1
	}
	panic(contractViolation("InternalConstraint.MaximizeSizeOfFBox", "box %v is not excluded by inbox %v", box, b))
}

// unbounded returns the domain bound along d, never inside box.
func (ic *InternalConstraint) unbounded(increase bool, d int, box Region) int {
	if increase {
		return max(ic.domainSup(d), box.Max[d])
	}
	return min(ic.domainInf(d), box.Min[d])
}

func (ic *InternalConstraint) String() string {
	switch ic.Kind {
	case InboxIC, OutboxIC:
		return fmt.Sprintf("%s(t=%v,l=%v)", ic.Kind, ic.Origin, ic.Length)
	case DistLeqIC, DistGeqIC, DistLinearIC:
		return fmt.Sprintf("%s(%s)", ic.Kind, ic.dist)
	default:
		return ic.Kind.String()
	}
}
