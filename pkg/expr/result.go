package expr

import (
	"errors"
	"fmt"

	"github.com/srl-lang/srl/pkg/rdfterm"
)

// ErrUnbound is the sentinel error produced when EBV or a built-in is
// asked to treat an unbound variable as a value. BOUND() is the only
// construct that distinguishes Unbound from Error and never itself
// raises this.
var ErrUnbound = errors.New("expr: unbound variable")

// ErrType marks a built-in or operator type-contract violation, per
// spec.md §4.1 ("violations produce a type error, which is neither true
// nor false"). Use errors.Is(err, ErrType) to discriminate.
var ErrType = errors.New("expr: type error")

// ResultKind discriminates the outcome of evaluating an Expr.
type ResultKind uint8

const (
	// ResultTerm holds a concrete RDF term value.
	ResultTerm ResultKind = iota
	// ResultUnbound means the expression referenced a variable not in
	// the mapping's domain.
	ResultUnbound
	// ResultError means evaluation hit a type error or similar fault.
	ResultError
)

// Result is the outcome of eval(expr, μ): a term, "unbound", or a typed
// error — never all three, per spec.md §4.1's contract.
type Result struct {
	Kind ResultKind
	Term rdfterm.Term
	Err  error
}

// Ok builds a successful term result.
func Ok(t rdfterm.Term) Result { return Result{Kind: ResultTerm, Term: t} }

// Unbound builds the "not bound" result.
func Unbound() Result { return Result{Kind: ResultUnbound, Err: ErrUnbound} }

// Errorf builds a type-error result wrapping ErrType.
func Errorf(format string, args ...any) Result {
	return Result{Kind: ResultError, Err: errors.Join(ErrType, fmt.Errorf(format, args...))}
}
