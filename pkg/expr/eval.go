package expr

import (
	"math/rand"
	"time"

	"github.com/srl-lang/srl/pkg/mapping"
	"github.com/srl-lang/srl/pkg/rdfterm"
)

// Context carries the evaluation-round state that must stay pure and
// stable across a single fixpoint iteration, per spec.md §4.1 and §5:
// NOW() is captured once per round rather than read from the wall clock
// on every call, and RAND() draws from a single generator so repeated
// test runs with a seeded Context are deterministic.
type Context struct {
	Now  time.Time
	Rand *rand.Rand
}

// NewContext builds an evaluation context with NOW() pinned to now and a
// deterministic random source seeded from it. Tests that need a fixed
// RAND() sequence should construct Context directly with their own *rand.Rand.
func NewContext(now time.Time) *Context {
	return &Context{Now: now, Rand: rand.New(rand.NewSource(now.UnixNano()))}
}

// Evaluate computes eval(expr, μ) → Result, per spec.md §4.1. It is pure
// except for the NOW/RAND effects captured by ctx.
func Evaluate(ctx *Context, mu mapping.Mapping, e Expr) Result {
	switch e.kind {
	case KindIRI, KindLiteral, KindBlank:
		return Ok(e.AsTerm())
	case KindVariable:
		if t, ok := mu.Lookup(e.VariableName()); ok {
			return Ok(t)
		}
		return Unbound()
	case KindUnary:
		return evalUnary(ctx, mu, e)
	case KindBinary:
		return evalBinary(ctx, mu, e)
	case KindCall:
		return evalCall(ctx, mu, e)
	default:
		return Errorf("expr: unknown expression kind %d", e.kind)
	}
}

func evalUnary(ctx *Context, mu mapping.Mapping, e Expr) Result {
	arg := e.LHS()
	switch e.op {
	case "!":
		v, err := EBV(ctx, mu, arg)
		if err != nil {
			return Result{Kind: ResultError, Err: err}
		}
		return Ok(rdfterm.NewLiteral(boolLex(!v), "", xsdNS+"boolean"))
	case "+", "-":
		r := Evaluate(ctx, mu, arg)
		if r.Kind != ResultTerm {
			return r
		}
		n, ok := parseNumeric(r.Term)
		if !ok {
			return Errorf("unary %s: operand is not numeric", e.op)
		}
		if e.op == "-" {
			n.v = -n.v
		}
		return Ok(formatNumeric(n))
	default:
		return Errorf("unary: unknown operator %q", e.op)
	}
}

func evalBinary(ctx *Context, mu mapping.Mapping, e Expr) Result {
	switch e.op {
	case "&&":
		return evalAnd(ctx, mu, e.LHS(), e.RHS())
	case "||":
		return evalOr(ctx, mu, e.LHS(), e.RHS())
	case "=", "!=", "<", ">", "<=", ">=":
		return evalComparison(ctx, mu, e.op, e.LHS(), e.RHS())
	case "+", "-", "*", "/":
		return evalArithmetic(ctx, mu, e.op, e.LHS(), e.RHS())
	default:
		return Errorf("binary: unknown operator %q", e.op)
	}
}

// evalAnd implements the three-valued semantics of spec.md §4.1: returns
// false if either operand's EBV is false, even if the other operand
// errors; otherwise propagates the first error, else the boolean AND.
func evalAnd(ctx *Context, mu mapping.Mapping, lhs, rhs Expr) Result {
	lv, lerr := EBV(ctx, mu, lhs)
	rv, rerr := EBV(ctx, mu, rhs)
	if lerr == nil && !lv {
		return boolResult(false)
	}
	if rerr == nil && !rv {
		return boolResult(false)
	}
	if lerr != nil {
		return Result{Kind: ResultError, Err: lerr}
	}
	if rerr != nil {
		return Result{Kind: ResultError, Err: rerr}
	}
	return boolResult(lv && rv)
}

// evalOr implements the symmetric three-valued OR: true if either operand
// is true, even if the other errors; otherwise propagates the error.
func evalOr(ctx *Context, mu mapping.Mapping, lhs, rhs Expr) Result {
	lv, lerr := EBV(ctx, mu, lhs)
	rv, rerr := EBV(ctx, mu, rhs)
	if lerr == nil && lv {
		return boolResult(true)
	}
	if rerr == nil && rv {
		return boolResult(true)
	}
	if lerr != nil {
		return Result{Kind: ResultError, Err: lerr}
	}
	if rerr != nil {
		return Result{Kind: ResultError, Err: rerr}
	}
	return boolResult(lv || rv)
}

func boolResult(b bool) Result {
	return Ok(rdfterm.NewLiteral(boolLex(b), "", xsdNS+"boolean"))
}

func boolLex(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func evalArithmetic(ctx *Context, mu mapping.Mapping, op string, lhsExpr, rhsExpr Expr) Result {
	lr := Evaluate(ctx, mu, lhsExpr)
	if lr.Kind != ResultTerm {
		return propagateNonTerm(lr, "arithmetic")
	}
	rr := Evaluate(ctx, mu, rhsExpr)
	if rr.Kind != ResultTerm {
		return propagateNonTerm(rr, "arithmetic")
	}
	ln, ok := parseNumeric(lr.Term)
	if !ok {
		return Errorf("arithmetic %s: left operand is not numeric", op)
	}
	rn, ok := parseNumeric(rr.Term)
	if !ok {
		return Errorf("arithmetic %s: right operand is not numeric", op)
	}

	resultTier := promote(ln, rn)
	var v float64
	switch op {
	case "+":
		v = ln.v + rn.v
	case "-":
		v = ln.v - rn.v
	case "*":
		v = ln.v * rn.v
	case "/":
		if rn.v == 0 {
			return Errorf("arithmetic /: division by zero")
		}
		v = ln.v / rn.v
		if resultTier == tierInteger {
			resultTier = tierDecimal
		}
	}
	return Ok(formatNumeric(numeric{t: resultTier, v: v}))
}

func propagateNonTerm(r Result, context string) Result {
	if r.Kind == ResultError {
		return r
	}
	return Errorf("%s: operand is unbound", context)
}
