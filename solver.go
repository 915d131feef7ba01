package yulsmt

import "fmt"

// CheckResult represents the outcome of a satisfiability check.
type CheckResult int

const (
	Unknown CheckResult = iota
	Satisfiable
	Unsatisfiable
)

// String returns the SMT-LIB name of the result.
func (r CheckResult) String() string {
	switch r {
	case Satisfiable:
		return "sat"
	case Unsatisfiable:
		return "unsat"
	case Unknown:
		return "unknown"
	default:
		return fmt.Sprintf("CheckResult<%d>", r)
	}
}

// Solver represents an incremental SMT solver session.
//
// A solver is exclusively owned by a single Encoder and is not safe for
// concurrent use.
type Solver interface {
	// Adds a boolean assertion to the current scope.
	Assert(expr Expr) error

	// Opens and closes assertion scopes.
	Push() error
	Pop() error

	// Checks satisfiability of all assertions in scope. An Unknown result
	// is not an error.
	Check() (CheckResult, error)

	// Returns values for the free variables after a satisfiable check.
	Model() (Model, error)

	// Releases the underlying solver resources.
	Close() error
}
