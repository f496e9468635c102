package geost

import (
	"fmt"
)

// ExternalKind enumerates the external constraint variants.
type ExternalKind int

const (
	NonOverlapping ExternalKind = iota
	Compatible
	Included
	Visible
	DistanceLeq
	DistanceGeq
	DistanceLinear
	NonOverlappingCircle
)

var externalKindNames = map[ExternalKind]string{
	NonOverlapping:       "non_overlapping",
	Compatible:           "compatible",
	Included:             "included",
	Visible:              "visible",
	DistanceLeq:          "distance_leq",
	DistanceGeq:          "distance_geq",
	DistanceLinear:       "distance_linear",
	NonOverlappingCircle: "non_overlapping_circle",
}

func (k ExternalKind) String() string {
	if s, ok := externalKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ExternalKind(%d)", int(k))
}

// ParseExternalKind maps a model-file name to an ExternalKind.
func ParseExternalKind(s string) (ExternalKind, error) {
	for k, name := range externalKindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("ParseExternalKind: unknown constraint kind %q", s)
}

// isDistance reports whether the kind is one of the distance variants.
func (k ExternalKind) isDistance() bool {
	return k == DistanceLeq || k == DistanceGeq || k == DistanceLinear
}

// supported reports whether the kind produces forbidden regions. Compatible,
// Included, Visible and NonOverlappingCircle are accepted by the model but
// generate nothing yet.
func (k ExternalKind) supported() bool {
	return k == NonOverlapping || k.isDistance()
}

// ExternalConstraint is a user-level constraint over objects. It owns its
// Frame; the frame is rebuilt by the external layer and read by the kernel.
type ExternalConstraint struct {
	Kind    ExternalKind
	Objects []int

	// Distance variants: o1 = Objects[0], o2 = Objects[1] (Leq/Geq only).
	// Q is the norm (only 2 is supported). Distance is the fixed bound used
	// when DistanceVar is NoVar.
	Q           int
	Distance    int
	DistanceVar VarID

	// DistanceLinear: Σ Coefficients[i]·x_i ≤ Bound over o1's origin.
	Coefficients []int
	Bound        int

	frame *Frame
}

// Frame returns the constraint's last built frame, or nil.
func (ec *ExternalConstraint) Frame() *Frame { return ec.frame }

// pairwise reports whether the constraint induces relative forbidden regions
// between every pair of its objects (as opposed to the distance variants).
func (ec *ExternalConstraint) pairwise() bool {
	return !ec.Kind.isDistance()
}

func (ec *ExternalConstraint) String() string {
	switch ec.Kind {
	case DistanceLeq, DistanceGeq:
		d := fmt.Sprint(ec.Distance)
		if ec.DistanceVar != NoVar {
			d = fmt.Sprintf("var#%d", ec.DistanceVar)
		}
		return fmt.Sprintf("%s(o%d,o%d,q=%d,D=%s)", ec.Kind, ec.Objects[0], ec.Objects[1], ec.Q, d)
	case DistanceLinear:
		return fmt.Sprintf("%s(o%d,a=%v,b=%d)", ec.Kind, ec.Objects[0], ec.Coefficients, ec.Bound)
	default:
		return fmt.Sprintf("%s%v", ec.Kind, ec.Objects)
	}
}
