package rdfterm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLiteralDatatypeDefaults(t *testing.T) {
	t.Run("plain string defaults to xsd:string", func(t *testing.T) {
		l := NewLiteral("hello", "", "")
		require.Equal(t, XSDString, l.Datatype())
		require.Empty(t, l.Lang())
	})

	t.Run("language tag forces xsd:string and lowercases", func(t *testing.T) {
		l := NewLiteral("bonjour", "FR-ca", "")
		require.Equal(t, "fr-ca", l.Lang())
		require.Equal(t, XSDString, l.Datatype())
	})

	t.Run("explicit datatype is preserved", func(t *testing.T) {
		l := NewLiteral("42", "", "http://www.w3.org/2001/XMLSchema#integer")
		require.Equal(t, "http://www.w3.org/2001/XMLSchema#integer", l.Datatype())
	})
}

func TestTermEquality(t *testing.T) {
	t.Run("literals compare all three components", func(t *testing.T) {
		a := NewLiteral("1", "", "http://www.w3.org/2001/XMLSchema#integer")
		b := NewLiteral("1", "", "http://www.w3.org/2001/XMLSchema#decimal")
		require.False(t, a.Equal(b))

		c := NewLiteral("1", "", "http://www.w3.org/2001/XMLSchema#integer")
		require.True(t, a.Equal(c))
	})

	t.Run("different kinds never equal", func(t *testing.T) {
		iri := NewIRI("http://example.org/x")
		blank := NewBlank("x")
		require.False(t, iri.Equal(blank))
	})

	t.Run("blank nodes compare by label", func(t *testing.T) {
		require.True(t, NewBlank("b1").Equal(NewBlank("b1")))
		require.False(t, NewBlank("b1").Equal(NewBlank("b2")))
	})
}

func TestTripleKeyDedup(t *testing.T) {
	tr1 := Triple{Subject: NewIRI("http://ex/a"), Predicate: NewIRI("http://ex/p"), Object: NewLiteral("v", "", "")}
	tr2 := Triple{Subject: NewIRI("http://ex/a"), Predicate: NewIRI("http://ex/p"), Object: NewLiteral("v", "", "")}
	require.Equal(t, tr1.Key(), tr2.Key())
	require.True(t, tr1.Equal(tr2))
}
