package finance

import "fmt"

// DomainError reports invalid numeric input reaching a formula
type DomainError struct {
	Op     string
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// MissingDependencyError reports a policy that needs a collaborator which
// was not supplied
type MissingDependencyError struct {
	Dependency string
	Lease      string
}

func (e *MissingDependencyError) Error() string {
	if e.Lease == "" {
		return fmt.Sprintf("missing %s", e.Dependency)
	}
	return fmt.Sprintf("lease %q: missing %s", e.Lease, e.Dependency)
}

// NoConvergenceError means the IRR is undefined for the cash-flow pattern
type NoConvergenceError struct {
	Reason     string
	Iterations int
}

func (e *NoConvergenceError) Error() string {
	return fmt.Sprintf("irr undefined for this cash-flow pattern: %s (after %d iterations)", e.Reason, e.Iterations)
}

func domainErr(op, format string, args ...interface{}) error {
	return &DomainError{Op: op, Reason: fmt.Sprintf(format, args...)}
}
