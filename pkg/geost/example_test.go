package geost_test

import (
	"context"
	"fmt"

	"github.com/gitrdm/gokangeost/pkg/geost"
)

// ExampleConstraint_Propagate pushes a small object out of the way of a
// fixed obstacle.
func ExampleConstraint_Propagate() {
	m := geost.NewModel(2)
	_ = m.AddShape(0, geost.NewShiftedBox([]int{0, 0}, []int{10, 10}))
	_ = m.AddShape(1, geost.NewShiftedBox([]int{0, 0}, []int{1, 1}))

	fixed := []geost.IntervalDomain{geost.NewIntervalDomain(0, 0), geost.NewIntervalDomain(0, 0)}
	free := []geost.IntervalDomain{geost.NewIntervalDomain(0, 99), geost.NewIntervalDomain(0, 5)}
	a, _ := m.AddObject(0, fixed, geost.NewIntervalDomain(0, 0), 0)
	b, _ := m.AddObject(1, free, geost.NewIntervalDomain(1, 1), 0)
	_, _ = m.AddNonOverlapping(a.ID, b.ID)

	store := geost.NewStore(m)
	c, err := geost.NewConstraint(m, store, geost.DefaultConfig())
	if err != nil {
		fmt.Println(err)
		return
	}
	if err := c.Propagate(context.Background()); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("x:", store.Domain(b.Coords[0]))
	fmt.Println("y:", store.Domain(b.Coords[1]))

	// Output:
	// x: {10..99}
	// y: {0..5}
}

// ExampleConstraint_FixAll places three equal boxes side by side.
func ExampleConstraint_FixAll() {
	m := geost.NewModel(2)
	_ = m.AddShape(0, geost.NewShiftedBox([]int{0, 0}, []int{10, 10}))
	for id := 0; id < 3; id++ {
		row := []geost.IntervalDomain{geost.NewIntervalDomain(0, 20), geost.NewIntervalDomain(0, 0)}
		_, _ = m.AddObject(id, row, geost.NewIntervalDomain(0, 0), 0)
	}
	_, _ = m.AddNonOverlapping(0, 1, 2)

	store := geost.NewStore(m)
	c, _ := geost.NewConstraint(m, store, geost.DefaultConfig())
	if err := c.FixAll(context.Background(), nil); err != nil {
		fmt.Println(err)
		return
	}
	for _, st := range geost.Snapshot(m, store) {
		fmt.Printf("o%d at %v fixed=%v\n", st.ID, st.Coords, st.Fixed)
	}

	// Output:
	// o0 at [{0} {0}] fixed=true
	// o1 at [{10} {0}] fixed=true
	// o2 at [{20} {0}] fixed=true
}

// ExampleParseControlVector decodes the signed encoding used by model files:
// a negative entry sweeps its dimension upwards.
func ExampleParseControlVector() {
	cv, err := geost.ParseControlVector([]int{-1, 2, -3}, 2)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("smallest shape first:", cv.ShapeAscending)
	for _, o := range cv.Order {
		fmt.Printf("dim %d increasing=%v\n", o.Dim, o.Increasing)
	}

	// Output:
	// smallest shape first: true
	// dim 0 increasing=false
	// dim 1 increasing=true
}
