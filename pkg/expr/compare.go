package expr

import (
	"time"

	"github.com/srl-lang/srl/pkg/mapping"
	"github.com/srl-lang/srl/pkg/rdfterm"
)

const xsdBoolean = xsdNS + "boolean"
const xsdDateTime = xsdNS + "dateTime"
const xsdString = rdfterm.XSDString

func evalComparison(ctx *Context, mu mapping.Mapping, op string, lhsExpr, rhsExpr Expr) Result {
	lr := Evaluate(ctx, mu, lhsExpr)
	if lr.Kind != ResultTerm {
		return propagateNonTerm(lr, "comparison")
	}
	rr := Evaluate(ctx, mu, rhsExpr)
	if rr.Kind != ResultTerm {
		return propagateNonTerm(rr, "comparison")
	}

	cmp, err := compareTerms(lr.Term, rr.Term, op)
	if err != nil {
		return Result{Kind: ResultError, Err: err}
	}
	return boolResult(cmp)
}

// compareTerms implements spec.md §4.1's comparison operators: value
// comparison over numerics, booleans, strings, and dateTimes, plus term
// equality for IRIs and blank nodes (only = and != are legal there).
func compareTerms(l, r rdfterm.Term, op string) (bool, error) {
	if ln, lok := parseNumeric(l); lok {
		if rn, rok := parseNumeric(r); rok {
			return applyOrder(ln.v, rn.v, op)
		}
	}
	if l.IsLiteral() && l.Datatype() == xsdBoolean && r.IsLiteral() && r.Datatype() == xsdBoolean {
		lb := l.Lexical() == "true"
		rb := r.Lexical() == "true"
		return applyOrderBool(lb, rb, op)
	}
	if lt, lok := parseDateTime(l); lok {
		if rt, rok := parseDateTime(r); rok {
			return applyOrderTime(lt, rt, op)
		}
	}
	if l.IsLiteral() && r.IsLiteral() {
		return applyOrderString(l.Lexical(), r.Lexical(), op)
	}
	// IRIs and blank nodes: only term equality is defined.
	switch op {
	case "=":
		return l.Equal(r), nil
	case "!=":
		return !l.Equal(r), nil
	default:
		return false, ErrType
	}
}

func applyOrder(l, r float64, op string) (bool, error) {
	switch op {
	case "=":
		return l == r, nil
	case "!=":
		return l != r, nil
	case "<":
		return l < r, nil
	case ">":
		return l > r, nil
	case "<=":
		return l <= r, nil
	case ">=":
		return l >= r, nil
	default:
		return false, ErrType
	}
}

func applyOrderBool(l, r bool, op string) (bool, error) {
	li, ri := 0, 0
	if l {
		li = 1
	}
	if r {
		ri = 1
	}
	return applyOrder(float64(li), float64(ri), op)
}

func applyOrderTime(l, r time.Time, op string) (bool, error) {
	switch op {
	case "=":
		return l.Equal(r), nil
	case "!=":
		return !l.Equal(r), nil
	case "<":
		return l.Before(r), nil
	case ">":
		return l.After(r), nil
	case "<=":
		return !l.After(r), nil
	case ">=":
		return !l.Before(r), nil
	default:
		return false, ErrType
	}
}

func applyOrderString(l, r string, op string) (bool, error) {
	switch op {
	case "=":
		return l == r, nil
	case "!=":
		return l != r, nil
	case "<":
		return l < r, nil
	case ">":
		return l > r, nil
	case "<=":
		return l <= r, nil
	case ">=":
		return l >= r, nil
	default:
		return false, ErrType
	}
}

func parseDateTime(t rdfterm.Term) (time.Time, bool) {
	if !t.IsLiteral() || t.Datatype() != xsdDateTime {
		return time.Time{}, false
	}
	parsed, err := time.Parse(time.RFC3339, t.Lexical())
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// EBV computes the effective boolean value of expr under μ, per
// spec.md §4.1. IRI, blank node, other-literal, unbound, and error all
// resolve to an error rather than false.
func EBV(ctx *Context, mu mapping.Mapping, e Expr) (bool, error) {
	r := Evaluate(ctx, mu, e)
	return ebvOfResult(r)
}

func ebvOfResult(r Result) (bool, error) {
	switch r.Kind {
	case ResultError:
		return false, r.Err
	case ResultUnbound:
		return false, ErrUnbound
	case ResultTerm:
		return ebvOfTerm(r.Term)
	default:
		return false, ErrType
	}
}

func ebvOfTerm(t rdfterm.Term) (bool, error) {
	if n, ok := parseNumeric(t); ok {
		return numericIsTruthy(n), nil
	}
	if t.IsLiteral() && t.Datatype() == xsdBoolean {
		return t.Lexical() == "true", nil
	}
	if t.IsLiteral() && t.Datatype() == xsdString {
		return t.Lexical() != "", nil
	}
	return false, ErrType
}
