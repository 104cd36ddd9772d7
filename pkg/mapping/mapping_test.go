package mapping

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/srl-lang/srl/pkg/rdfterm"
)

func mustExtend(t *testing.T, m Mapping, name string, term rdfterm.Term) Mapping {
	t.Helper()
	out, ok := m.Extend(name, term)
	require.True(t, ok)
	return out
}

func TestExtendRejectsConflictingRebind(t *testing.T) {
	m := mustExtend(t, Empty, "x", rdfterm.NewIRI("http://ex/a"))

	_, ok := m.Extend("x", rdfterm.NewIRI("http://ex/b"))
	require.False(t, ok, "rebinding x to a different term must fail")

	same, ok := m.Extend("x", rdfterm.NewIRI("http://ex/a"))
	require.True(t, ok, "rebinding x to an equal term is a no-op success")
	require.Equal(t, 1, same.Len())
}

func TestCompatibleAndMerge(t *testing.T) {
	a := mustExtend(t, Empty, "x", rdfterm.NewIRI("http://ex/a"))
	b := mustExtend(t, Empty, "y", rdfterm.NewIRI("http://ex/b"))
	require.True(t, a.Compatible(b))

	merged := a.Merge(b)
	require.Equal(t, 2, merged.Len())
	xv, ok := merged.Lookup("x")
	require.True(t, ok)
	require.True(t, xv.Equal(rdfterm.NewIRI("http://ex/a")))

	conflicting := mustExtend(t, Empty, "x", rdfterm.NewIRI("http://ex/other"))
	require.False(t, a.Compatible(conflicting))
}

func TestJoinSeedIsIdentity(t *testing.T) {
	left := Omega{mustExtend(t, Empty, "x", rdfterm.NewIRI("http://ex/a"))}
	joined := Join(left, Seed())
	require.Len(t, joined, 1)
	xv, ok := joined[0].Lookup("x")
	require.True(t, ok)
	require.True(t, xv.Equal(rdfterm.NewIRI("http://ex/a")))
}

func TestJoinDropsIncompatible(t *testing.T) {
	left := Omega{mustExtend(t, Empty, "x", rdfterm.NewIRI("http://ex/a"))}
	right := Omega{mustExtend(t, Empty, "x", rdfterm.NewIRI("http://ex/b"))}
	require.Empty(t, Join(left, right))
}

func TestMinusRequiresSharedVariable(t *testing.T) {
	left := Omega{mustExtend(t, Empty, "x", rdfterm.NewIRI("http://ex/a"))}
	// right shares no variable with left, so MINUS must not exclude left's mapping.
	right := Omega{mustExtend(t, Empty, "y", rdfterm.NewIRI("http://ex/a"))}
	require.Equal(t, left, Minus(left, right))

	// right shares x and is compatible: excludes left's mapping.
	sharing := Omega{mustExtend(t, Empty, "x", rdfterm.NewIRI("http://ex/a"))}
	require.Empty(t, Minus(left, sharing))
}

func TestMinusOverEmptyRightIsIdentity(t *testing.T) {
	left := Omega{mustExtend(t, Empty, "x", rdfterm.NewIRI("http://ex/a"))}
	require.Equal(t, left, Minus(left, nil))
}

func TestMinusOverEmptyLeftIsEmpty(t *testing.T) {
	right := Omega{mustExtend(t, Empty, "x", rdfterm.NewIRI("http://ex/a"))}
	require.Empty(t, Minus(nil, right))
}
