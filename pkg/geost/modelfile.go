package geost

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
)

// BoxSpec is a shifted box in a model file.
type BoxSpec struct {
	Offset []int `json:"offset"`
	Size   []int `json:"size"`
}

// InboxSpec is a placement window in a model file.
type InboxSpec struct {
	Origin []int `json:"origin"`
	Length []int `json:"length"`
}

// ObjectSpec is an object in a model file. Coords holds one [lo, hi] range
// per dimension.
type ObjectSpec struct {
	ID     int         `json:"id"`
	Coords [][2]int    `json:"coords"`
	Shapes []int       `json:"shapes"`
	Radius int         `json:"radius,omitempty"`
	Inbox  []InboxSpec `json:"inbox,omitempty"`
}

// ConstraintSpec is an external constraint in a model file. Kind is one of
// the ExternalKind names (non_overlapping, distance_leq, ...).
// DistanceVar, when given, is the [lo, hi] domain of a distance variable.
type ConstraintSpec struct {
	Kind         string  `json:"kind"`
	Objects      []int   `json:"objects"`
	Distance     int     `json:"distance,omitempty"`
	DistanceVar  *[2]int `json:"distanceVar,omitempty"`
	Coefficients []int   `json:"coefficients,omitempty"`
	Bound        int     `json:"bound,omitempty"`
}

// ModelFile is the JSON description of a placement problem.
type ModelFile struct {
	K              int               `json:"k"`
	Shapes         map[int][]BoxSpec `json:"shapes"`
	Objects        []ObjectSpec      `json:"objects"`
	Constraints    []ConstraintSpec  `json:"constraints"`
	ControlVectors [][]int           `json:"controlVectors,omitempty"`
}

// ReadModelFile decodes a model file from r. Unknown fields are rejected.
func ReadModelFile(r io.Reader) (*ModelFile, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var mf ModelFile
	if err := dec.Decode(&mf); err != nil {
		return nil, fmt.Errorf("ReadModelFile: %w", err)
	}
	return &mf, nil
}

// LoadModelFile reads and builds the model file at path.
func LoadModelFile(path string) (*Model, []ControlVector, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	mf, err := ReadModelFile(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	m, cvs, err := mf.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, cvs, nil
}

// Build turns the file into a model and its controlling vectors.
func (mf *ModelFile) Build() (*Model, []ControlVector, error) {
	if mf.K < 1 {
		return nil, nil, fmt.Errorf("Build: k must be positive, got %d", mf.K)
	}
	m := NewModel(mf.K)
	sids := make([]int, 0, len(mf.Shapes))
	for sid := range mf.Shapes {
		sids = append(sids, sid)
	}
	sort.Ints(sids)
	for _, sid := range sids {
		boxes := make([]ShiftedBox, len(mf.Shapes[sid]))
		for i, b := range mf.Shapes[sid] {
			boxes[i] = NewShiftedBox(b.Offset, b.Size)
		}
		if err := m.AddShape(sid, boxes...); err != nil {
			return nil, nil, err
		}
	}
	for _, spec := range mf.Objects {
		coords := make([]IntervalDomain, len(spec.Coords))
		for i, r := range spec.Coords {
			coords[i] = NewIntervalDomain(r[0], r[1])
		}
		if _, err := m.AddObject(spec.ID, coords, NewDomainFromValues(spec.Shapes...), spec.Radius); err != nil {
			return nil, nil, err
		}
		for _, ib := range spec.Inbox {
			if err := m.AddInbox(spec.ID, ib.Origin, ib.Length); err != nil {
				return nil, nil, err
			}
		}
	}
	for i, cs := range mf.Constraints {
		if err := mf.addConstraint(m, cs); err != nil {
			return nil, nil, fmt.Errorf("constraint %d: %w", i, err)
		}
	}
	cvs := make([]ControlVector, 0, len(mf.ControlVectors))
	for _, v := range mf.ControlVectors {
		cv, err := ParseControlVector(v, mf.K)
		if err != nil {
			return nil, nil, err
		}
		cvs = append(cvs, cv)
	}
	return m, cvs, nil
}

func (mf *ModelFile) addConstraint(m *Model, cs ConstraintSpec) error {
	kind, err := ParseExternalKind(cs.Kind)
	if err != nil {
		return err
	}
	switch kind {
	case NonOverlapping:
		_, err = m.AddNonOverlapping(cs.Objects...)
	case DistanceLeq, DistanceGeq:
		if len(cs.Objects) != 2 {
			return fmt.Errorf("%s: needs exactly 2 objects, got %d", kind, len(cs.Objects))
		}
		dvar := NoVar
		if cs.DistanceVar != nil {
			dvar = m.NewVariable(fmt.Sprintf("dist(o%d,o%d)", cs.Objects[0], cs.Objects[1]), NewIntervalDomain(cs.DistanceVar[0], cs.DistanceVar[1]))
		}
		if kind == DistanceLeq {
			_, err = m.AddDistanceLeq(cs.Objects[0], cs.Objects[1], cs.Distance, dvar)
		} else {
			_, err = m.AddDistanceGeq(cs.Objects[0], cs.Objects[1], cs.Distance, dvar)
		}
	case DistanceLinear:
		if len(cs.Objects) != 1 {
			return fmt.Errorf("%s: needs exactly 1 object, got %d", kind, len(cs.Objects))
		}
		_, err = m.AddDistanceLinear(cs.Objects[0], cs.Coefficients, cs.Bound)
	default:
		_, err = m.AddExternal(kind, cs.Objects...)
	}
	return err
}

// ObjectState is the current domain of one object, as reported by the CLI.
type ObjectState struct {
	ID     int      `json:"id"`
	Coords []string `json:"coords"`
	Shapes string   `json:"shapes"`
	Fixed  bool     `json:"fixed"`
}

// Snapshot reports the current domains of every object of m.
func Snapshot(m *Model, doms Domains) []ObjectState {
	out := make([]ObjectState, 0, len(m.Objects()))
	for _, o := range m.Objects() {
		st := ObjectState{ID: o.ID, Shapes: doms.Domain(o.Shape).String(), Fixed: o.IsFixed(doms)}
		for _, v := range o.Coords {
			st.Coords = append(st.Coords, doms.Domain(v).String())
		}
		out = append(out, st)
	}
	return out
}
