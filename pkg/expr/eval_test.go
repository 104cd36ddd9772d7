package expr

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/srl-lang/srl/pkg/mapping"
	"github.com/srl-lang/srl/pkg/rdfterm"
)

func ctxAt(t *testing.T, rfc3339 string) *Context {
	t.Helper()
	when, err := time.Parse(time.RFC3339, rfc3339)
	require.NoError(t, err)
	return NewContext(when)
}

func intLit(v string) Expr { return Literal(v, "", xsdNS+"integer") }

func TestArithmeticPromotion(t *testing.T) {
	ctx := ctxAt(t, "2024-01-01T00:00:00Z")

	t.Run("integer + integer stays integer", func(t *testing.T) {
		r := Evaluate(ctx, mapping.Empty, Binary("+", intLit("2"), intLit("3")))
		require.Equal(t, ResultTerm, r.Kind)
		require.Equal(t, xsdNS+"integer", r.Term.Datatype())
		require.Equal(t, "5", r.Term.Lexical())
	})

	t.Run("division always promotes past integer", func(t *testing.T) {
		r := Evaluate(ctx, mapping.Empty, Binary("/", intLit("1"), intLit("2")))
		require.Equal(t, ResultTerm, r.Kind)
		require.NotEqual(t, xsdNS+"integer", r.Term.Datatype())
	})

	t.Run("division by zero is a type error", func(t *testing.T) {
		r := Evaluate(ctx, mapping.Empty, Binary("/", intLit("1"), intLit("0")))
		require.Equal(t, ResultError, r.Kind)
	})

	t.Run("mixed tier promotes to the higher tier", func(t *testing.T) {
		dec := Literal("1.5", "", xsdNS+"decimal")
		r := Evaluate(ctx, mapping.Empty, Binary("+", intLit("1"), dec))
		require.Equal(t, xsdNS+"decimal", r.Term.Datatype())
	})
}

func TestThreeValuedLogical(t *testing.T) {
	ctx := ctxAt(t, "2024-01-01T00:00:00Z")
	boolE := func(b bool) Expr { return Literal(boolLex(b), "", xsdBoolean) }
	errorE := Variable("unbound")

	t.Run("AND short-circuits to false even if the other side errors", func(t *testing.T) {
		r := Evaluate(ctx, mapping.Empty, Binary("&&", boolE(false), errorE))
		require.Equal(t, ResultTerm, r.Kind)
		require.Equal(t, "false", r.Term.Lexical())
	})

	t.Run("OR short-circuits to true even if the other side errors", func(t *testing.T) {
		r := Evaluate(ctx, mapping.Empty, Binary("||", boolE(true), errorE))
		require.Equal(t, ResultTerm, r.Kind)
		require.Equal(t, "true", r.Term.Lexical())
	})

	t.Run("AND propagates error when neither side is false", func(t *testing.T) {
		r := Evaluate(ctx, mapping.Empty, Binary("&&", boolE(true), errorE))
		require.Equal(t, ResultError, r.Kind)
	})

	t.Run("OR propagates error when neither side is true", func(t *testing.T) {
		r := Evaluate(ctx, mapping.Empty, Binary("||", boolE(false), errorE))
		require.Equal(t, ResultError, r.Kind)
	})
}

func TestEBV(t *testing.T) {
	ctx := ctxAt(t, "2024-01-01T00:00:00Z")

	cases := []struct {
		name    string
		e       Expr
		wantErr bool
		want    bool
	}{
		{"zero integer is false", intLit("0"), false, false},
		{"nonzero integer is true", intLit("1"), false, true},
		{"empty string is false", Literal("", "", xsdString), false, false},
		{"nonempty string is true", Literal("x", "", xsdString), false, true},
		{"IRI is an error", IRI("http://ex/a"), true, false},
		{"unbound variable is an error", Variable("missing"), true, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v, err := EBV(ctx, mapping.Empty, c.e)
			if c.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, c.want, v)
		})
	}
}

func TestBuiltinConcatAndStrlen(t *testing.T) {
	ctx := ctxAt(t, "2024-01-01T00:00:00Z")
	r := Evaluate(ctx, mapping.Empty, Call("CONCAT", Literal("John", "", ""), Literal(" ", "", ""), Literal("Doe", "", "")))
	require.Equal(t, ResultTerm, r.Kind)
	require.Equal(t, "John Doe", r.Term.Lexical())

	r2 := Evaluate(ctx, mapping.Empty, Call("STRLEN", Literal("hello", "", "")))
	require.Equal(t, "5", r2.Term.Lexical())
}

func TestBuiltinBoundNeverErrors(t *testing.T) {
	ctx := ctxAt(t, "2024-01-01T00:00:00Z")
	r := Evaluate(ctx, mapping.Empty, Call("BOUND", Variable("x")))
	require.Equal(t, ResultTerm, r.Kind)
	require.Equal(t, "false", r.Term.Lexical())

	mu, ok := mapping.Empty.Extend("x", rdfterm.NewIRI("http://ex/a"))
	require.True(t, ok)
	r2 := Evaluate(ctx, mu, Call("BOUND", Variable("x")))
	require.Equal(t, "true", r2.Term.Lexical())
}

func TestRoundTripLaws(t *testing.T) {
	ctx := ctxAt(t, "2024-01-01T00:00:00Z")

	t.Run("STR(IRI(s)) = s", func(t *testing.T) {
		s := "http://example.org/thing"
		r := Evaluate(ctx, mapping.Empty, Call("STR", Call("IRI", Literal(s, "", ""))))
		require.Equal(t, s, r.Term.Lexical())
	})

	t.Run("DATATYPE(STRDT(lex, dt)) = dt", func(t *testing.T) {
		dt := "http://example.org/myType"
		r := Evaluate(ctx, mapping.Empty, Call("DATATYPE", Call("STRDT", Literal("42", "", ""), IRI(dt))))
		require.Equal(t, dt, r.Term.IRI())
	})

	t.Run("LANG(STRLANG(lex, tag)) lowercases the tag", func(t *testing.T) {
		r := Evaluate(ctx, mapping.Empty, Call("LANG", Call("STRLANG", Literal("bonjour", "", ""), Literal("FR", "", ""))))
		require.Equal(t, "fr", r.Term.Lexical())
	})
}

func TestNowIsStablePerContext(t *testing.T) {
	ctx := ctxAt(t, "2024-06-15T10:30:00Z")
	r1 := Evaluate(ctx, mapping.Empty, Call("NOW"))
	r2 := Evaluate(ctx, mapping.Empty, Call("NOW"))
	require.Equal(t, r1.Term.Lexical(), r2.Term.Lexical())
}
