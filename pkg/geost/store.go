package geost

import (
	"fmt"
)

// VarID identifies a domain variable in a Store.
type VarID int

// NoVar marks an absent optional variable (for instance a distance
// constraint without a distance variable).
const NoVar VarID = -1

// Domains is the host-side domain interface the kernel reads and narrows.
// Narrowing operations are monotonic and return an error wrapping
// ErrInconsistent when they would empty a domain.
type Domains interface {
	Inf(v VarID) int
	Sup(v VarID) int
	Size(v VarID) int
	Contains(v VarID, val int) bool
	// Next returns the smallest value of v strictly greater than val.
	Next(v VarID, val int) (int, bool)
	Domain(v VarID) IntervalDomain

	UpdateInf(v VarID, val int) error
	UpdateSup(v VarID, val int) error
	Instantiate(v VarID, val int) error
	RemoveValue(v VarID, val int) error

	// Checkpoint captures the current state; Rollback restores it and
	// discards every narrowing performed since.
	Checkpoint() Mark
	Rollback(m Mark)
}

// Mark is an opaque checkpoint returned by Domains.Checkpoint.
type Mark struct {
	node  *storeNode
	depth int
}

// storeNode is one link of the modification chain: a single variable whose
// domain changed relative to the parent node. previous keeps the domain it
// replaced so a rollback can restore the flat view without walking the
// whole chain.
type storeNode struct {
	parent   *storeNode
	varID    VarID
	domain   IntervalDomain
	previous IntervalDomain
	depth    int
}

// Store is the shipped Domains implementation.
//
// Modifications are recorded as a persistent chain of storeNodes, the same
// copy-on-write layout the solver state uses: a checkpoint is the current
// chain head, and rolling back drops every node created after it. A flat
// slice mirrors the newest domain of each variable so reads are O(1) on the
// sweep's hot path.
//
// A Store is not safe for concurrent use.
type Store struct {
	names     []string
	initial   []IntervalDomain
	current   []IntervalDomain
	head      *storeNode
	peakDepth int
}

// NewStore creates a store holding the initial domains declared in m.
func NewStore(m *Model) *Store {
	s := &Store{}
	for _, v := range m.vars {
		s.declare(v.name, v.domain)
	}
	return s
}

// NewStoreWithDomains creates a store over anonymous variables; variable i
// gets domains[i]. It is mostly useful in tests.
func NewStoreWithDomains(domains ...IntervalDomain) *Store {
	s := &Store{}
	for i, d := range domains {
		s.declare(fmt.Sprintf("v%d", i), d)
	}
	return s
}

func (s *Store) declare(name string, d IntervalDomain) VarID {
	s.names = append(s.names, name)
	s.initial = append(s.initial, d)
	s.current = append(s.current, d)
	return VarID(len(s.names) - 1)
}

// NumVariables returns the number of variables in the store.
func (s *Store) NumVariables() int { return len(s.current) }

// Name returns the declared name of v.
func (s *Store) Name(v VarID) string { return s.names[v] }

// Domain returns the current domain of v.
func (s *Store) Domain(v VarID) IntervalDomain { return s.current[v] }

// InitialDomain returns the domain v was declared with.
func (s *Store) InitialDomain(v VarID) IntervalDomain { return s.initial[v] }

// Inf returns the smallest value of v.
func (s *Store) Inf(v VarID) int { return s.current[v].Min() }

// Sup returns the largest value of v.
func (s *Store) Sup(v VarID) int { return s.current[v].Max() }

// Size returns the number of values left in v.
func (s *Store) Size(v VarID) int { return s.current[v].Count() }

// Contains reports whether val is still in v's domain.
func (s *Store) Contains(v VarID, val int) bool { return s.current[v].Has(val) }

// Next returns the smallest value of v strictly greater than val.
func (s *Store) Next(v VarID, val int) (int, bool) { return s.current[v].Next(val) }

// UpdateInf removes every value below val.
func (s *Store) UpdateInf(v VarID, val int) error {
	return s.set(v, s.current[v].RemoveBelow(val))
}

// UpdateSup removes every value above val.
func (s *Store) UpdateSup(v VarID, val int) error {
	return s.set(v, s.current[v].RemoveAbove(val))
}

// Instantiate reduces v to {val}.
func (s *Store) Instantiate(v VarID, val int) error {
	if !s.current[v].Has(val) {
		return fmt.Errorf("%w: %s cannot take %d (domain %s)", ErrInconsistent, s.names[v], val, s.current[v])
	}
	return s.set(v, NewIntervalDomain(val, val))
}

// RemoveValue removes val from v.
func (s *Store) RemoveValue(v VarID, val int) error {
	return s.set(v, s.current[v].Remove(val))
}

func (s *Store) set(v VarID, d IntervalDomain) error {
	old := s.current[v]
	if old.Equal(d) {
		return nil
	}
	if d.IsEmpty() {
		return fmt.Errorf("%w: domain of %s wiped out", ErrInconsistent, s.names[v])
	}
	depth := 1
	if s.head != nil {
		depth = s.head.depth + 1
	}
	s.head = &storeNode{parent: s.head, varID: v, domain: d, previous: old, depth: depth}
	s.current[v] = d
	if depth > s.peakDepth {
		s.peakDepth = depth
	}
	return nil
}

// Checkpoint returns a mark for the current state.
func (s *Store) Checkpoint() Mark {
	if s.head == nil {
		return Mark{}
	}
	return Mark{node: s.head, depth: s.head.depth}
}

// Rollback restores the state captured by m. m must have been taken on this
// store and must not have been discarded by an earlier rollback.
func (s *Store) Rollback(m Mark) {
	for s.head != m.node {
		if s.head == nil || s.head.depth <= m.depth {
			panic(contractViolation("Store.Rollback", "mark at depth %d is not an ancestor of the current state", m.depth))
		}
		s.current[s.head.varID] = s.head.previous
		s.head = s.head.parent
	}
}

// Depth returns the length of the modification chain.
func (s *Store) Depth() int {
	if s.head == nil {
		return 0
	}
	return s.head.depth
}

// PeakDepth returns the longest chain seen since the store was created.
func (s *Store) PeakDepth() int { return s.peakDepth }

// DomainAt walks the chain from m back to the root and returns the domain v
// had when m was taken.
func (s *Store) DomainAt(m Mark, v VarID) IntervalDomain {
	for n := m.node; n != nil; n = n.parent {
		if n.varID == v {
			return n.domain
		}
	}
	return s.initial[v]
}
