package geost

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInfeasible reports that some object has no feasible placement.
	ErrInfeasible = errors.New("geost: no feasible placement")

	// ErrInconsistent reports that a narrowing would have emptied a domain.
	ErrInconsistent = errors.New("geost: domain wipe-out")
)

// ContractError signals a programming error: dispatch on an unknown
// constraint kind or a failed internal invariant. It carries the stack of
// the violation site (print it with %+v).
type ContractError struct {
	Op    string
	cause error
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("geost: contract violation in %s: %v", e.Op, e.cause)
}

func (e *ContractError) Unwrap() error { return e.cause }

// Format prints the stack trace of the violation for %+v.
func (e *ContractError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "geost: contract violation in %s: %+v", e.Op, e.cause)
		return
	}
	fmt.Fprint(s, e.Error())
}

// contractViolation builds the value panicked by invariant checks.
func contractViolation(op, format string, args ...any) *ContractError {
	return &ContractError{Op: op, cause: errors.Errorf(format, args...)}
}

// recoverContract converts a ContractError panic into an error. Any other
// panic is re-raised. Use as: defer recoverContract(&err).
func recoverContract(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if ce, ok := r.(*ContractError); ok {
		*err = ce
		return
	}
	panic(r)
}

// IsInfeasible reports whether err means "no feasible placement", either
// from the sweep itself or from a domain wipe-out.
func IsInfeasible(err error) bool {
	return errors.Is(err, ErrInfeasible) || errors.Is(err, ErrInconsistent)
}
