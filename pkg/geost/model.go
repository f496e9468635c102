package geost

import (
	"fmt"
	"sort"
	"sync"

	"github.com/samber/lo"
)

type variableDecl struct {
	name   string
	domain IntervalDomain
}

// Model describes a placement problem: the dimension count, the shape table,
// the objects with their initial domains and the external constraints.
//
// A Model is built once and is read-only during propagation; the per-solve
// mutable state lives in a Store (domains) and in the constraints' frames.
type Model struct {
	mu sync.RWMutex

	k           int
	vars        []variableDecl
	shapes      map[int]Shape
	objects     []*Object
	byID        map[int]*Object
	constraints []*ExternalConstraint

	// tables used by the fix-time memo, computed on first use
	tablesOnce sync.Once
	inclusion  map[[2]int]bool
	equivalent map[[2]int]bool
}

// NewModel creates an empty k-dimensional model.
func NewModel(k int) *Model {
	return &Model{
		k:      k,
		shapes: make(map[int]Shape),
		byID:   make(map[int]*Object),
	}
}

// K returns the dimension count.
func (m *Model) K() int { return m.k }

// NewVariable declares a free variable (for instance a distance variable).
func (m *Model) NewVariable(name string, dom IntervalDomain) VarID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.newVariable(name, dom)
}

func (m *Model) newVariable(name string, dom IntervalDomain) VarID {
	m.vars = append(m.vars, variableDecl{name: name, domain: dom})
	return VarID(len(m.vars) - 1)
}

// VariableCount returns the number of declared variables.
func (m *Model) VariableCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.vars)
}

// AddShape registers shape id sid made of the given boxes.
func (m *Model) AddShape(sid int, boxes ...ShiftedBox) error {
	if len(boxes) == 0 {
		return fmt.Errorf("AddShape: shape %d has no boxes", sid)
	}
	for i, b := range boxes {
		if err := b.validate(m.k); err != nil {
			return fmt.Errorf("AddShape: shape %d box %d: %v", sid, i, err)
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.shapes[sid]; dup {
		return fmt.Errorf("AddShape: shape %d already defined", sid)
	}
	m.shapes[sid] = lo.Map(boxes, func(b ShiftedBox, _ int) ShiftedBox { return NewShiftedBox(b.Offset, b.Size) })
	return nil
}

// Shape returns the boxes of shape sid.
func (m *Model) Shape(sid int) (Shape, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.shapes[sid]
	return s, ok
}

func (m *Model) shape(sid int) Shape {
	s, ok := m.shapes[sid]
	if !ok {
		panic(contractViolation("Model.shape", "shape %d is not defined", sid))
	}
	return s
}

// ShapeIDs returns the declared shape ids in ascending order.
func (m *Model) ShapeIDs() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := lo.Keys(m.shapes)
	sort.Ints(ids)
	return ids
}

// AddObject declares object id with one domain per dimension, a shape domain
// over declared shape ids, and a radius.
func (m *Model) AddObject(id int, coords []IntervalDomain, shapes IntervalDomain, radius int) (*Object, error) {
	if len(coords) != m.k {
		return nil, fmt.Errorf("AddObject: object %d needs %d coordinate domains, got %d", id, m.k, len(coords))
	}
	for i, d := range coords {
		if d.IsEmpty() {
			return nil, fmt.Errorf("AddObject: object %d has an empty domain along dimension %d", id, i)
		}
	}
	if shapes.IsEmpty() {
		return nil, fmt.Errorf("AddObject: object %d has no candidate shape", id)
	}
	if radius < 0 {
		return nil, fmt.Errorf("AddObject: object %d has negative radius %d", id, radius)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.byID[id]; dup {
		return nil, fmt.Errorf("AddObject: object %d already defined", id)
	}
	for _, sid := range shapes.Values() {
		if _, ok := m.shapes[sid]; !ok {
			return nil, fmt.Errorf("AddObject: object %d refers to undefined shape %d", id, sid)
		}
	}
	o := &Object{ID: id, Radius: radius, Coords: make([]VarID, m.k)}
	for i, d := range coords {
		o.Coords[i] = m.newVariable(fmt.Sprintf("o%d.x%d", id, i), d)
	}
	o.Shape = m.newVariable(fmt.Sprintf("o%d.sid", id), shapes)
	m.objects = append(m.objects, o)
	m.byID[id] = o
	return o, nil
}

// Object returns the object with the given id.
func (m *Model) Object(id int) (*Object, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.byID[id]
	return o, ok
}

func (m *Model) object(id int) *Object {
	o, ok := m.byID[id]
	if !ok {
		panic(contractViolation("Model.object", "object %d is not defined", id))
	}
	return o
}

// Objects returns the objects in declaration order.
func (m *Model) Objects() []*Object {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.objects
}

// ObjectIDs returns the object ids in declaration order.
func (m *Model) ObjectIDs() []int {
	return lo.Map(m.Objects(), func(o *Object, _ int) int { return o.ID })
}

// Constraints returns the external constraints in declaration order.
func (m *Model) Constraints() []*ExternalConstraint {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.constraints
}

func (m *Model) addConstraint(ec *ExternalConstraint, related ...int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range related {
		if _, ok := m.byID[id]; !ok {
			return fmt.Errorf("%s: object %d is not defined", ec.Kind, id)
		}
	}
	m.constraints = append(m.constraints, ec)
	for _, id := range lo.Uniq(related) {
		o := m.byID[id]
		o.external = append(o.external, ec)
	}
	return nil
}

// AddNonOverlapping forbids every pair of the listed objects to overlap.
func (m *Model) AddNonOverlapping(ids ...int) (*ExternalConstraint, error) {
	if len(ids) < 2 {
		return nil, fmt.Errorf("AddNonOverlapping: need at least two objects, got %d", len(ids))
	}
	if len(lo.Uniq(ids)) != len(ids) {
		return nil, fmt.Errorf("AddNonOverlapping: duplicate object in %v", ids)
	}
	ec := &ExternalConstraint{Kind: NonOverlapping, Objects: append([]int(nil), ids...), DistanceVar: NoVar}
	if err := m.addConstraint(ec, ids...); err != nil {
		return nil, err
	}
	return ec, nil
}

// AddDistanceLeq requires the Euclidean distance between o1 and o2 to be at
// most d. When dvar is not NoVar the bound is read from dvar's upper bound
// and dvar's lower bound is propagated from the objects' positions.
func (m *Model) AddDistanceLeq(o1, o2, d int, dvar VarID) (*ExternalConstraint, error) {
	return m.addDistance(DistanceLeq, o1, o2, d, dvar)
}

// AddDistanceGeq requires the Euclidean distance between o1 and o2 to be at
// least d (or dvar's lower bound).
func (m *Model) AddDistanceGeq(o1, o2, d int, dvar VarID) (*ExternalConstraint, error) {
	return m.addDistance(DistanceGeq, o1, o2, d, dvar)
}

func (m *Model) addDistance(kind ExternalKind, o1, o2, d int, dvar VarID) (*ExternalConstraint, error) {
	if o1 == o2 {
		return nil, fmt.Errorf("%s: o1 and o2 must differ (both %d)", kind, o1)
	}
	if d < 0 {
		return nil, fmt.Errorf("%s: distance must be non-negative, got %d", kind, d)
	}
	if dvar != NoVar && (dvar < 0 || int(dvar) >= m.VariableCount()) {
		return nil, fmt.Errorf("%s: distance variable %d is not declared", kind, dvar)
	}
	ec := &ExternalConstraint{Kind: kind, Objects: []int{o1, o2}, Q: 2, Distance: d, DistanceVar: dvar}
	if err := m.addConstraint(ec, o1, o2); err != nil {
		return nil, err
	}
	return ec, nil
}

// AddDistanceLinear restricts o1's origin to the half-space a·x ≤ b.
func (m *Model) AddDistanceLinear(o1 int, a []int, b int) (*ExternalConstraint, error) {
	if len(a) != m.k {
		return nil, fmt.Errorf("AddDistanceLinear: need %d coefficients, got %d", m.k, len(a))
	}
	ec := &ExternalConstraint{Kind: DistanceLinear, Objects: []int{o1}, Q: 2, Coefficients: append([]int(nil), a...), Bound: b, DistanceVar: NoVar}
	if err := m.addConstraint(ec, o1); err != nil {
		return nil, err
	}
	return ec, nil
}

// AddExternal registers a constraint of one of the kinds that are accepted
// but do not generate forbidden regions yet (Compatible, Included, Visible,
// NonOverlappingCircle).
func (m *Model) AddExternal(kind ExternalKind, ids ...int) (*ExternalConstraint, error) {
	if kind.supported() {
		return nil, fmt.Errorf("AddExternal: use the dedicated builder for %s", kind)
	}
	if _, known := externalKindNames[kind]; !known {
		return nil, fmt.Errorf("AddExternal: unknown kind %d", int(kind))
	}
	ec := &ExternalConstraint{Kind: kind, Objects: append([]int(nil), ids...), DistanceVar: NoVar}
	if err := m.addConstraint(ec, ids...); err != nil {
		return nil, err
	}
	return ec, nil
}

// AddInbox restricts the origin of object id to the box starting at t with
// l coordinates along each dimension.
func (m *Model) AddInbox(id int, t, l []int) error {
	if len(t) != m.k || len(l) != m.k {
		return fmt.Errorf("AddInbox: need %d offsets and sizes", m.k)
	}
	if lo.SomeBy(l, func(v int) bool { return v <= 0 }) {
		return fmt.Errorf("AddInbox: sizes must be positive, got %v", l)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.byID[id]
	if !ok {
		return fmt.Errorf("AddInbox: object %d is not defined", id)
	}
	o.static = append(o.static, newInbox(o, t, l))
	return nil
}

// shapeIncluded reports whether shape inner lies inside shape outer.
func (m *Model) shapeIncluded(outer, inner int) bool {
	m.buildTables()
	return m.inclusion[[2]int{outer, inner}]
}

// equivalentObjects reports whether a and b are mentioned by exactly the
// same external constraints.
func (m *Model) equivalentObjects(a, b int) bool {
	if a == b {
		return true
	}
	m.buildTables()
	return m.equivalent[[2]int{min(a, b), max(a, b)}]
}

func (m *Model) buildTables() {
	m.tablesOnce.Do(func() {
		m.mu.RLock()
		defer m.mu.RUnlock()
		m.inclusion = make(map[[2]int]bool)
		for outer, so := range m.shapes {
			for inner, si := range m.shapes {
				m.inclusion[[2]int{outer, inner}] = so.Includes(si)
			}
		}
		m.equivalent = make(map[[2]int]bool)
		for i, a := range m.objects {
			for _, b := range m.objects[i+1:] {
				if sameConstraintSet(a.external, b.external) {
					m.equivalent[[2]int{min(a.ID, b.ID), max(a.ID, b.ID)}] = true
				}
			}
		}
	})
}

func sameConstraintSet(a, b []*ExternalConstraint) bool {
	if len(a) != len(b) {
		return false
	}
	for _, ec := range a {
		if !lo.Contains(b, ec) {
			return false
		}
	}
	return true
}
