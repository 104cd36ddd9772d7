package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/srl-lang/srl/pkg/expr"
	"github.com/srl-lang/srl/pkg/fixpoint"
	"github.com/srl-lang/srl/pkg/graph"
	"github.com/srl-lang/srl/pkg/rdfterm"
	"github.com/srl-lang/srl/pkg/rule"
)

func v(name string) expr.Expr  { return expr.Variable(name) }
func iri(val string) expr.Expr { return expr.IRI(val) }

// TestSimpleInference implements scenario S1 of spec.md §8.
func TestSimpleInference(t *testing.T) {
	g := graph.New()
	g.Insert(rdfterm.Triple{Subject: rdfterm.NewIRI("Alice"), Predicate: rdfterm.NewIRI("parent"), Object: rdfterm.NewIRI("Bob")})
	g.Insert(rdfterm.Triple{Subject: rdfterm.NewIRI("Bob"), Predicate: rdfterm.NewIRI("parent"), Object: rdfterm.NewIRI("Charlie")})

	rs := rule.RuleSet{Rules: []rule.Rule{
		{
			Head: []rule.TripleTemplate{rule.NewTripleTemplate(v("x"), iri("ancestor"), v("y"))},
			Body: []rule.BodyElement{rule.TriplePattern(v("x"), iri("parent"), v("y"))},
		},
	}}

	result, err := Evaluate(rs, g, Options{Inplace: true})
	require.NoError(t, err)

	ancestor := rdfterm.NewIRI("ancestor")
	require.Len(t, result.Graph.Match(nil, &ancestor, nil), 2)
	require.Equal(t, 2, result.Stats.TotalDerived())
}

// TestFilterOverAges implements scenario S3 of spec.md §8.
func TestFilterOverAges(t *testing.T) {
	g := graph.New()
	ages := map[string]string{"p1": "25", "p2": "16", "p3": "30", "p4": "12"}
	for p, age := range ages {
		g.Insert(rdfterm.Triple{
			Subject:   rdfterm.NewIRI(p),
			Predicate: rdfterm.NewIRI("age"),
			Object:    rdfterm.NewLiteral(age, "", "http://www.w3.org/2001/XMLSchema#integer"),
		})
	}

	rs := rule.RuleSet{Rules: []rule.Rule{
		{
			Head: []rule.TripleTemplate{rule.NewTripleTemplate(v("p"), iri("isAdult"), expr.Literal("true", "", "http://www.w3.org/2001/XMLSchema#boolean"))},
			Body: []rule.BodyElement{
				rule.TriplePattern(v("p"), iri("age"), v("a")),
				rule.Filter(expr.Binary(">=", v("a"), expr.Literal("18", "", "http://www.w3.org/2001/XMLSchema#integer"))),
			},
		},
	}}

	result, err := Evaluate(rs, g, Options{Inplace: true})
	require.NoError(t, err)

	isAdult := rdfterm.NewIRI("isAdult")
	require.Len(t, result.Graph.Match(nil, &isAdult, nil), 2)
}

// TestBindConcat implements scenario S4 of spec.md §8.
func TestBindConcat(t *testing.T) {
	g := graph.New()
	g.Insert(rdfterm.Triple{Subject: rdfterm.NewIRI("P1"), Predicate: rdfterm.NewIRI("first"), Object: rdfterm.NewLiteral("John", "", "")})
	g.Insert(rdfterm.Triple{Subject: rdfterm.NewIRI("P1"), Predicate: rdfterm.NewIRI("last"), Object: rdfterm.NewLiteral("Doe", "", "")})

	rs := rule.RuleSet{Rules: []rule.Rule{
		{
			Head: []rule.TripleTemplate{rule.NewTripleTemplate(v("p"), iri("fullName"), v("n"))},
			Body: []rule.BodyElement{
				rule.TriplePattern(v("p"), iri("first"), v("f")),
				rule.TriplePattern(v("p"), iri("last"), v("l")),
				rule.Bind("n", expr.Call("CONCAT", v("f"), expr.Literal(" ", "", ""), v("l"))),
			},
		},
	}}

	result, err := Evaluate(rs, g, Options{Inplace: true})
	require.NoError(t, err)

	fullName := rdfterm.NewIRI("fullName")
	matches := result.Graph.Match(nil, &fullName, nil)
	require.Len(t, matches, 1)
	require.Equal(t, "John Doe", matches[0].Object.Lexical())
}

// TestUnsafeNegationFailsBeforeAnyRuleRuns implements scenario S6 of
// spec.md §8.
func TestUnsafeNegationFailsBeforeAnyRuleRuns(t *testing.T) {
	g := graph.New()
	seed := rdfterm.Triple{Subject: rdfterm.NewIRI("s"), Predicate: rdfterm.NewIRI("seed"), Object: rdfterm.NewLiteral("1", "", "")}
	g.Insert(seed)

	rs := rule.RuleSet{Rules: []rule.Rule{
		{
			Head: []rule.TripleTemplate{rule.NewTripleTemplate(v("x"), iri("a"), expr.Literal("1", "", ""))},
			Body: []rule.BodyElement{
				rule.TriplePattern(v("x"), iri("seed"), expr.Literal("1", "", "")),
				rule.Not([]rule.BodyElement{rule.TriplePattern(v("x"), iri("b"), expr.Literal("1", "", ""))}),
			},
		},
		{
			Head: []rule.TripleTemplate{rule.NewTripleTemplate(v("x"), iri("b"), expr.Literal("1", "", ""))},
			Body: []rule.BodyElement{
				rule.TriplePattern(v("x"), iri("seed"), expr.Literal("1", "", "")),
				rule.Not([]rule.BodyElement{rule.TriplePattern(v("x"), iri("a"), expr.Literal("1", "", ""))}),
			},
		},
	}}

	_, err := Evaluate(rs, g, Options{Inplace: true})
	require.Error(t, err)
	require.Equal(t, 1, g.Count(), "no rule may run once stratification fails")
}

func TestEmptyRuleSetLeavesGraphUnchanged(t *testing.T) {
	g := graph.New()
	g.Insert(rdfterm.Triple{Subject: rdfterm.NewIRI("a"), Predicate: rdfterm.NewIRI("p"), Object: rdfterm.NewIRI("b")})

	result, err := Evaluate(rule.RuleSet{}, g, Options{Inplace: true})
	require.NoError(t, err)
	require.Equal(t, 1, result.Graph.Count())
}

func TestNonInplaceLeavesInputGraphUntouched(t *testing.T) {
	g := graph.New()
	g.Insert(rdfterm.Triple{Subject: rdfterm.NewIRI("Alice"), Predicate: rdfterm.NewIRI("parent"), Object: rdfterm.NewIRI("Bob")})

	rs := rule.RuleSet{Rules: []rule.Rule{
		{
			Head: []rule.TripleTemplate{rule.NewTripleTemplate(v("x"), iri("ancestor"), v("y"))},
			Body: []rule.BodyElement{rule.TriplePattern(v("x"), iri("parent"), v("y"))},
		},
	}}

	result, err := Evaluate(rs, g, Options{})
	require.NoError(t, err)
	require.Equal(t, 1, g.Count(), "the caller's graph is untouched without Inplace")
	require.Equal(t, 2, result.Graph.Count())
}

func TestBudgetExhaustedReturnsPartialGraphAndError(t *testing.T) {
	g := graph.New()
	g.Insert(rdfterm.Triple{Subject: rdfterm.NewBlank("seed"), Predicate: rdfterm.NewIRI("link"), Object: rdfterm.NewBlank("seed")})

	rs := rule.RuleSet{Rules: []rule.Rule{
		{
			Head: []rule.TripleTemplate{rule.NewTripleTemplate(v("x"), iri("link"), expr.Blank("fresh"))},
			Body: []rule.BodyElement{rule.TriplePattern(v("x"), iri("link"), v("y"))},
		},
	}}

	result, err := Evaluate(rs, g, Options{Inplace: true, MaxIterations: 2})
	require.ErrorIs(t, err, fixpoint.ErrBudgetExhausted)
	require.NotNil(t, result.Graph)
	require.Greater(t, result.Graph.Count(), 1, "partial derivations remain visible despite the error")
}
