// Package geost implements the propagation core of the geost placement
// constraint: k-dimensional objects with alternative shapes that must not
// overlap, must stay inside (or outside) given boxes and must respect
// pairwise distance relations.
//
// The package is organised in three layers.
//
//   - The external layer turns an ExternalConstraint into a Frame, a cache of
//     forbidden regions per object, and compiles an object's external
//     constraints into elementary InternalConstraints (outboxes, inboxes and
//     distance exclusions).
//   - The intermediate layer (IsFeasible) answers point queries against one
//     internal constraint: is the point excluded and, if so, what is the
//     maximal box around it that is excluded as well.
//   - The geometric kernel sweeps a candidate point through an object's
//     domain, jumping past forbidden boxes until a feasible point is found.
//     The first feasible point in sweep order is the new bound. The kernel
//     offers plain box jumps, best-box selection among several candidate
//     boxes (including boxes covered by two constraints together), and
//     delta-adaptive jumps with a trashing detector.
//
// Domains are read and narrowed only through the Domains interface. Store is
// the shipped implementation: a copy-on-write chain of single-variable
// modifications with cheap checkpoints, so speculative narrowing (such as
// trying each candidate shape of an object) is undone by a rollback.
//
// Typical use:
//
//	m := geost.NewModel(2)
//	_ = m.AddShape(0, geost.NewShiftedBox([]int{0, 0}, []int{10, 10}))
//	a, _ := m.AddObject(0, []geost.IntervalDomain{geost.NewIntervalDomain(0, 0), geost.NewIntervalDomain(0, 0)}, geost.NewIntervalDomain(0, 0), 0)
//	b, _ := m.AddObject(1, []geost.IntervalDomain{geost.NewIntervalDomain(0, 99), geost.NewIntervalDomain(0, 5)}, geost.NewIntervalDomain(0, 0), 0)
//	_, _ = m.AddNonOverlapping(a.ID, b.ID)
//	c, _ := geost.NewConstraint(m, geost.NewStore(m), geost.DefaultConfig())
//	err := c.Propagate(context.Background())
//
// Propagate returns nil when a consistent reduction was applied and an error
// wrapping ErrInfeasible when no feasible placement exists.
//
// Tracing is opt-in: set GOKANGEOST_TRACE=1 or Config.Trace.
package geost
