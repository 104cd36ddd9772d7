// Package pattern evaluates a rule body — an ordered sequence of triple
// patterns, FILTER, BIND, and NOT elements — against a working graph,
// producing the multiset of solution mappings described by spec.md §4.3.
//
// The triple-pattern/FILTER/BIND/NOT composition here mirrors the
// clause-sequencing style of the teacher's Matche/Matcha pattern
// operators (pkg/minikanren/pattern.go) and its fact-store scan-then-join
// shape (pkg/minikanren/fact_store.go Query), adapted from miniKanren's
// unification over logic terms to compatibility-join over solution
// mappings.
package pattern

import (
	"github.com/srl-lang/srl/pkg/expr"
	"github.com/srl-lang/srl/pkg/graph"
	"github.com/srl-lang/srl/pkg/mapping"
	"github.com/srl-lang/srl/pkg/rdfterm"
	"github.com/srl-lang/srl/pkg/rule"
)

// blankScopePrefix distinguishes a pattern-scoped blank-node label from a
// genuine rule variable when both are stored as mapping keys — per
// spec.md §4.3 point 1, "blank-node slots in the pattern are variables
// scoped to the pattern" (same label within one pattern, same variable).
const blankScopePrefix = "\x00blank:"

// Eval runs eval_body(pattern, graph) per spec.md §4.3: it evaluates body
// left to right against g and returns the resulting multiset of solution
// mappings. An empty body yields mapping.Seed(), the multiset containing
// only the empty mapping.
func Eval(ctx *expr.Context, body []rule.BodyElement, g graph.Graph) mapping.Omega {
	return evalFrom(ctx, body, g, mapping.Seed())
}

// evalFrom evaluates body starting from a caller-supplied Ω rather than
// the canonical seed. NOT uses this to continue from the enclosing
// pattern's current bindings, per spec.md §4.3 point 4 ("seeded with
// current Ω, not {∅}").
func evalFrom(ctx *expr.Context, body []rule.BodyElement, g graph.Graph, start mapping.Omega) mapping.Omega {
	omega := start
	for _, el := range body {
		switch el.Kind() {
		case rule.KindTriplePattern:
			omega = evalTriplePattern(el.Triple(), g, omega)
		case rule.KindFilter:
			omega = evalFilter(ctx, el.FilterExpr(), omega)
		case rule.KindBind:
			omega = evalBind(ctx, el.BindVar(), el.BindExpr(), omega)
		case rule.KindNot:
			sub := evalFrom(ctx, el.NotBody(), g, omega)
			omega = mapping.Minus(omega, sub)
		}
	}
	return omega
}

// evalTriplePattern matches tt against g's working graph and joins the
// resulting trial bindings into omega. Slots that are constant (IRI or
// literal) constrain the scan; slots that are variables or pattern-scoped
// blank nodes bind from the matched triple.
func evalTriplePattern(tt rule.TripleTemplate, g graph.Graph, omega mapping.Omega) mapping.Omega {
	sArg, sVar := slotQuery(tt.Subject)
	pArg, pVar := slotQuery(tt.Predicate)
	oArg, oVar := slotQuery(tt.Object)

	candidates := g.Match(sArg, pArg, oArg)

	trials := make(mapping.Omega, 0, len(candidates))
	for _, triple := range candidates {
		mu := mapping.Empty
		ok := true
		if sVar != "" {
			mu, ok = mu.Extend(sVar, triple.Subject)
		}
		if ok && pVar != "" {
			mu, ok = mu.Extend(pVar, triple.Predicate)
		}
		if ok && oVar != "" {
			mu, ok = mu.Extend(oVar, triple.Object)
		}
		if ok {
			trials = append(trials, mu)
		}
	}

	return mapping.Join(omega, trials)
}

// slotQuery classifies one pattern slot: a constant slot yields a
// non-nil term pointer to constrain graph.Match and an empty variable
// name; a variable or scoped-blank slot yields a nil term pointer (match
// anything in that position) and the mapping key it binds to.
func slotQuery(slot expr.Expr) (term *rdfterm.Term, varName string) {
	switch slot.Kind() {
	case expr.KindIRI, expr.KindLiteral:
		t := slot.AsTerm()
		return &t, ""
	case expr.KindVariable:
		return nil, slot.VariableName()
	case expr.KindBlank:
		return nil, blankScopePrefix + slot.BlankLabel()
	default:
		// Patterns never carry BinaryOp/UnaryOp/Call slots.
		return nil, ""
	}
}

func evalFilter(ctx *expr.Context, e expr.Expr, omega mapping.Omega) mapping.Omega {
	return mapping.Filter(omega, func(mu mapping.Mapping) bool {
		ok, err := expr.EBV(ctx, mu, e)
		return err == nil && ok
	})
}

// evalBind implements the default Extend policy of spec.md §4.2: a
// target variable already bound in μ makes that μ an error, which this
// engine resolves by dropping μ (the same resolution §7 gives TypeError
// under FILTER, applied here because re-binding is a stronger violation
// than an ordinary evaluation error). An expression that errors or is
// unbound passes μ through unchanged.
func evalBind(ctx *expr.Context, v string, e expr.Expr, omega mapping.Omega) mapping.Omega {
	return mapping.Extend(omega, func(mu mapping.Mapping) (mapping.Mapping, bool) {
		if _, already := mu.Lookup(v); already {
			return mu, false
		}
		res := expr.Evaluate(ctx, mu, e)
		if res.Kind != expr.ResultTerm {
			return mu, true
		}
		extended, ok := mu.Extend(v, res.Term)
		if !ok {
			return mu, true
		}
		return extended, true
	})
}
