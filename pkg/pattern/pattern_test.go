package pattern

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/srl-lang/srl/pkg/expr"
	"github.com/srl-lang/srl/pkg/graph"
	"github.com/srl-lang/srl/pkg/rdfterm"
	"github.com/srl-lang/srl/pkg/rule"
)

func newCtx() *expr.Context {
	return expr.NewContext(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
}

func lit(s string) expr.Expr { return expr.Literal(s, "", "") }

func intLit(s string) expr.Expr {
	return expr.Literal(s, "", "http://www.w3.org/2001/XMLSchema#integer")
}

func TestEvalEmptyBodyYieldsSeed(t *testing.T) {
	g := graph.New()
	omega := Eval(newCtx(), nil, g)
	require.Len(t, omega, 1)
	require.Equal(t, 0, omega[0].Len())
}

func TestEvalTriplePatternJoinsOnSharedVariable(t *testing.T) {
	g := graph.New()
	g.Insert(rdfterm.Triple{Subject: rdfterm.NewIRI("alice"), Predicate: rdfterm.NewIRI("parent"), Object: rdfterm.NewIRI("bob")})
	g.Insert(rdfterm.Triple{Subject: rdfterm.NewIRI("bob"), Predicate: rdfterm.NewIRI("parent"), Object: rdfterm.NewIRI("carol")})

	body := []rule.BodyElement{
		rule.TriplePattern(expr.Variable("x"), expr.IRI("parent"), expr.Variable("y")),
		rule.TriplePattern(expr.Variable("y"), expr.IRI("parent"), expr.Variable("z")),
	}

	omega := Eval(newCtx(), body, g)
	require.Len(t, omega, 1)
	x, _ := omega[0].Lookup("x")
	z, _ := omega[0].Lookup("z")
	require.Equal(t, rdfterm.NewIRI("alice"), x)
	require.Equal(t, rdfterm.NewIRI("carol"), z)
}

func TestEvalFilterDropsBelowThreshold(t *testing.T) {
	g := graph.New()
	ages := map[string]string{"p1": "25", "p2": "16", "p3": "30", "p4": "12"}
	for p, age := range ages {
		g.Insert(rdfterm.Triple{
			Subject:   rdfterm.NewIRI(p),
			Predicate: rdfterm.NewIRI("age"),
			Object:    rdfterm.NewLiteral(age, "", "http://www.w3.org/2001/XMLSchema#integer"),
		})
	}

	body := []rule.BodyElement{
		rule.TriplePattern(expr.Variable("p"), expr.IRI("age"), expr.Variable("a")),
		rule.Filter(expr.Binary(">=", expr.Variable("a"), intLit("18"))),
	}

	omega := Eval(newCtx(), body, g)
	require.Len(t, omega, 2)
}

func TestEvalBindConcat(t *testing.T) {
	g := graph.New()
	g.Insert(rdfterm.Triple{Subject: rdfterm.NewIRI("p1"), Predicate: rdfterm.NewIRI("first"), Object: rdfterm.NewLiteral("John", "", "")})
	g.Insert(rdfterm.Triple{Subject: rdfterm.NewIRI("p1"), Predicate: rdfterm.NewIRI("last"), Object: rdfterm.NewLiteral("Doe", "", "")})

	body := []rule.BodyElement{
		rule.TriplePattern(expr.Variable("p"), expr.IRI("first"), expr.Variable("f")),
		rule.TriplePattern(expr.Variable("p"), expr.IRI("last"), expr.Variable("l")),
		rule.Bind("n", expr.Call("CONCAT", expr.Variable("f"), lit(" "), expr.Variable("l"))),
	}

	omega := Eval(newCtx(), body, g)
	require.Len(t, omega, 1)
	n, ok := omega[0].Lookup("n")
	require.True(t, ok)
	require.Equal(t, "John Doe", n.Lexical())
}

func TestEvalBindToAlreadyBoundVariableDropsMapping(t *testing.T) {
	g := graph.New()
	g.Insert(rdfterm.Triple{Subject: rdfterm.NewIRI("p1"), Predicate: rdfterm.NewIRI("age"), Object: rdfterm.NewLiteral("25", "", "")})

	body := []rule.BodyElement{
		rule.TriplePattern(expr.Variable("p"), expr.IRI("age"), expr.Variable("a")),
		rule.Bind("a", lit("99")),
	}

	omega := Eval(newCtx(), body, g)
	require.Empty(t, omega, "BIND to an already-bound variable drops the mapping per the error policy")
}

func TestEvalNotExcludesCompatibleSharedVariableMatches(t *testing.T) {
	g := graph.New()
	g.Insert(rdfterm.Triple{Subject: rdfterm.NewIRI("p1"), Predicate: rdfterm.NewIRI("type"), Object: rdfterm.NewIRI("Person")})
	g.Insert(rdfterm.Triple{Subject: rdfterm.NewIRI("p2"), Predicate: rdfterm.NewIRI("type"), Object: rdfterm.NewIRI("Person")})
	g.Insert(rdfterm.Triple{Subject: rdfterm.NewIRI("p1"), Predicate: rdfterm.NewIRI("hasChild"), Object: rdfterm.NewIRI("k")})

	body := []rule.BodyElement{
		rule.TriplePattern(expr.Variable("p"), expr.IRI("type"), expr.IRI("Person")),
		rule.Not([]rule.BodyElement{
			rule.TriplePattern(expr.Variable("p"), expr.IRI("hasChild"), expr.Variable("c")),
		}),
	}

	omega := Eval(newCtx(), body, g)
	require.Len(t, omega, 1)
	p, _ := omega[0].Lookup("p")
	require.Equal(t, rdfterm.NewIRI("p2"), p)
}

func TestEvalNotOverEmptyOmegaIsEmpty(t *testing.T) {
	g := graph.New()
	body := []rule.BodyElement{
		rule.TriplePattern(expr.Variable("p"), expr.IRI("type"), expr.IRI("Person")),
		rule.Not([]rule.BodyElement{
			rule.TriplePattern(expr.Variable("p"), expr.IRI("hasChild"), expr.Variable("c")),
		}),
	}

	omega := Eval(newCtx(), body, g)
	require.Empty(t, omega)
}

func TestEvalBlankNodeScopedAsVariable(t *testing.T) {
	g := graph.New()
	g.Insert(rdfterm.Triple{Subject: rdfterm.NewIRI("a"), Predicate: rdfterm.NewIRI("knows"), Object: rdfterm.NewIRI("a")})
	g.Insert(rdfterm.Triple{Subject: rdfterm.NewIRI("a"), Predicate: rdfterm.NewIRI("knows"), Object: rdfterm.NewIRI("b")})

	body := []rule.BodyElement{
		rule.TriplePattern(expr.Blank("x"), expr.IRI("knows"), expr.Blank("x")),
	}

	omega := Eval(newCtx(), body, g)
	require.Len(t, omega, 1, "reusing the same blank-node label twice requires the same bound value")
}
