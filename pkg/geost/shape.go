package geost

import (
	"fmt"
	"strings"
)

// ShiftedBox is one box of a shape: its origin is offset from the object's
// origin and it spans Size[i] integer coordinates along dimension i.
type ShiftedBox struct {
	Offset []int
	Size   []int
}

// NewShiftedBox copies offset and size into a new ShiftedBox.
func NewShiftedBox(offset, size []int) ShiftedBox {
	return ShiftedBox{Offset: append([]int(nil), offset...), Size: append([]int(nil), size...)}
}

func (b ShiftedBox) validate(k int) error {
	if len(b.Offset) != k || len(b.Size) != k {
		return fmt.Errorf("box must have %d offsets and sizes, got %d and %d", k, len(b.Offset), len(b.Size))
	}
	for i, s := range b.Size {
		if s <= 0 {
			return fmt.Errorf("box size along dimension %d must be positive, got %d", i, s)
		}
	}
	return nil
}

// end returns Offset[i] + Size[i].
func (b ShiftedBox) end(i int) int { return b.Offset[i] + b.Size[i] }

// includes reports whether o lies inside b.
func (b ShiftedBox) includes(o ShiftedBox) bool {
	for i := range b.Offset {
		if o.Offset[i] < b.Offset[i] || o.end(i) > b.end(i) {
			return false
		}
	}
	return true
}

func (b ShiftedBox) String() string {
	return fmt.Sprintf("t=%v l=%v", b.Offset, b.Size)
}

// Shape is an alternative decomposition of an object into shifted boxes.
type Shape []ShiftedBox

// Hull returns the smallest shifted box covering every box of s.
func (s Shape) Hull() ShiftedBox {
	k := len(s[0].Offset)
	h := ShiftedBox{Offset: make([]int, k), Size: make([]int, k)}
	for i := 0; i < k; i++ {
		lo, hi := s[0].Offset[i], s[0].end(i)
		for _, b := range s[1:] {
			lo, hi = min(lo, b.Offset[i]), max(hi, b.end(i))
		}
		h.Offset[i], h.Size[i] = lo, hi-lo
	}
	return h
}

// Includes reports whether every box of o lies inside some box of s.
func (s Shape) Includes(o Shape) bool {
	for _, ob := range o {
		found := false
		for _, sb := range s {
			if sb.includes(ob) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, b := range s {
		parts[i] = b.String()
	}
	return "{" + strings.Join(parts, "; ") + "}"
}
