package geost

// Object is a placed object: one coordinate variable per dimension, a shape
// variable indexing the model's shape table, and a radius used by distance
// reasoning.
type Object struct {
	ID     int
	Coords []VarID
	Shape  VarID
	Radius int

	external []*ExternalConstraint
	// static holds internal constraints attached directly to the object
	// (placement windows); they are appended to every compiled list.
	static []*InternalConstraint
	// internal is the list compiled by the last filtering round.
	internal []*InternalConstraint
}

// K returns the dimension count of o.
func (o *Object) K() int { return len(o.Coords) }

// ExternalConstraints returns the external constraints mentioning o.
func (o *Object) ExternalConstraints() []*ExternalConstraint { return o.external }

// InternalConstraints returns the internal constraints compiled for o by the
// last propagation round.
func (o *Object) InternalConstraints() []*InternalConstraint { return o.internal }

func (o *Object) lower(doms Domains) Point {
	p := make(Point, len(o.Coords))
	for i, v := range o.Coords {
		p[i] = doms.Inf(v)
	}
	return p
}

func (o *Object) upper(doms Domains) Point {
	p := make(Point, len(o.Coords))
	for i, v := range o.Coords {
		p[i] = doms.Sup(v)
	}
	return p
}

// domainBox returns the bounding box of o's coordinate domains.
func (o *Object) domainBox(doms Domains) Region {
	return Region{Min: o.lower(doms), Max: o.upper(doms)}
}

// IsFixed reports whether every coordinate and the shape are instantiated.
func (o *Object) IsFixed(doms Domains) bool {
	if doms.Size(o.Shape) != 1 {
		return false
	}
	for _, v := range o.Coords {
		if doms.Size(v) != 1 {
			return false
		}
	}
	return true
}

// domainSize sums the domain sizes of every variable of o. A change means
// some variable of o was narrowed.
func (o *Object) domainSize(doms Domains) int {
	n := doms.Size(o.Shape)
	for _, v := range o.Coords {
		n += doms.Size(v)
	}
	return n
}
