package geost

import (
	"context"
	"fmt"
)

// Constraint is one geost constraint instance: a model, the domains it
// narrows and the kernel that does the narrowing. Independent instances may
// run concurrently; a single instance may not.
type Constraint struct {
	model   *Model
	doms    Domains
	cfg     Config
	monitor *KernelMonitor
	kernel  *Kernel
}

// NewConstraint validates cfg and builds a constraint over m and doms.
// doms must hold at least the variables declared in m, under the same ids.
func NewConstraint(m *Model, doms Domains, cfg Config) (*Constraint, error) {
	if m == nil || doms == nil {
		return nil, fmt.Errorf("NewConstraint: model and domains are required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("NewConstraint: %w", err)
	}
	if len(m.Objects()) == 0 {
		return nil, fmt.Errorf("NewConstraint: model has no objects")
	}
	for _, o := range m.Objects() {
		for _, sid := range doms.Domain(o.Shape).Values() {
			if _, ok := m.Shape(sid); !ok {
				return nil, fmt.Errorf("NewConstraint: object %d may take undefined shape %d", o.ID, sid)
			}
		}
	}
	monitor := NewKernelMonitor(m.K())
	return &Constraint{
		model:   m,
		doms:    doms,
		cfg:     cfg,
		monitor: monitor,
		kernel:  NewKernel(m, doms, cfg, monitor),
	}, nil
}

// Propagate narrows every object's domains to a fixpoint of the model's
// constraints. It returns nil when a consistent reduction was applied and an
// error wrapping ErrInfeasible when some object has no feasible placement;
// the domains are then left partially narrowed and the caller is expected to
// roll them back. A contract violation is returned as a *ContractError.
func (c *Constraint) Propagate(ctx context.Context) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer recoverContract(&err)
	c.monitor.StartPropagation()
	defer c.monitor.EndPropagation()
	if !c.kernel.FilterAllConstraints(c.model.ObjectIDs(), c.model.Constraints()) {
		return fmt.Errorf("propagate: %w", ErrInfeasible)
	}
	return nil
}

// FixAll instantiates every object that is not fixed yet, in declaration
// order, each at the first feasible position of its controlling vector
// (object i uses cvs[i mod len(cvs)]). Without vectors every dimension is
// swept upwards.
func (c *Constraint) FixAll(ctx context.Context, cvs []ControlVector) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(cvs) == 0 {
		cvs = []ControlVector{DefaultControlVector(c.model.K())}
	}
	for i, cv := range cvs {
		if len(cv.Order) != c.model.K() {
			return fmt.Errorf("FixAll: control vector %d has %d entries, want %d", i, len(cv.Order), c.model.K())
		}
	}
	defer recoverContract(&err)
	fix := c.kernel.FixAllObjects
	if c.cfg.IncrementalFix {
		fix = c.kernel.FixAllObjectsIncremental
	}
	if !fix(c.model.ObjectIDs(), c.model.Constraints(), cvs) {
		return fmt.Errorf("fix: %w", ErrInfeasible)
	}
	return nil
}

// Stats returns a snapshot of the kernel statistics.
func (c *Constraint) Stats() *KernelStats { return c.monitor.GetStats() }

// Kernel returns the underlying kernel.
func (c *Constraint) Kernel() *Kernel { return c.kernel }

// Config returns the configuration the constraint was built with.
func (c *Constraint) Config() Config { return c.cfg }
