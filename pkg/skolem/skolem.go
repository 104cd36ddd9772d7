// Package skolem deterministically allocates the fresh blank nodes a rule
// head introduces, per spec.md §9's termination requirement: "the
// generated fresh node for (rule, label B, μ) is deterministic... This is
// equivalent to Skolemizing head blank nodes by (rule-id, label,
// μ-signature)". Without this, a recursive rule with an existential head
// could mint a new blank node on every iteration and the fixpoint loop of
// §4.6 would never reach Δ = ∅.
//
// The signature hash is grounded on mitchellh/hashstructure — part of
// the example pack via dolthub-go-mysql-server, which leans on it for
// stable cache keys over arbitrary struct values; here it plays the same
// role over a solution mapping's bindings.
package skolem

import (
	"fmt"

	"github.com/mitchellh/hashstructure"

	"github.com/srl-lang/srl/pkg/mapping"
	"github.com/srl-lang/srl/pkg/rdfterm"
)

// signaturePart mirrors one binding of a Mapping in a form hashstructure
// can walk; Mapping itself keeps its bindings unexported.
type signaturePart struct {
	Name     string
	Kind     rdfterm.Kind
	Value    string
	Lang     string
	Datatype string
}

// Allocate returns the fresh blank node for head label label, instantiated
// under ruleID's rule and solution mapping mu. Calling Allocate again with
// the same (ruleID, label, mu) — even across fixpoint iterations — yields
// an Equal blank node, satisfying the determinism requirement of
// spec.md §9. Distinct μ (differing in any binding relevant to the rule)
// yield distinct nodes, so genuinely new derivations still get fresh
// identities.
func Allocate(ruleID int, label string, mu mapping.Mapping) rdfterm.Term {
	sig := signature(mu)
	hash, err := hashstructure.Hash(sig, nil)
	if err != nil {
		// hashstructure only fails on unhashable types (channels, funcs);
		// signaturePart never contains either, so this path is unreachable
		// in practice. Fall back to a label that is still deterministic.
		hash = 0
	}
	return rdfterm.NewBlank(fmt.Sprintf("skolem:%d:%s:%x", ruleID, label, hash))
}

func signature(mu mapping.Mapping) []signaturePart {
	names := mu.Domain()
	out := make([]signaturePart, len(names))
	for i, name := range names {
		t, _ := mu.Lookup(name)
		out[i] = signaturePart{
			Name:     name,
			Kind:     t.Kind(),
			Value:    termValue(t),
			Lang:     t.Lang(),
			Datatype: t.Datatype(),
		}
	}
	return out
}

// termValue extracts the component of t that distinguishes it within its
// Kind, so two different-kind terms with the same raw string never hash
// to the same signature part by coincidence (Kind is already part of the
// struct, but keeping the string distinct too avoids relying on that
// alone to disambiguate, e.g. an IRI "x" vs. a variable named "x").
func termValue(t rdfterm.Term) string {
	switch t.Kind() {
	case rdfterm.KindIRI:
		return t.IRI()
	case rdfterm.KindBlank:
		return t.BlankLabel()
	case rdfterm.KindVariable:
		return t.VariableName()
	case rdfterm.KindLiteral:
		return t.Lexical()
	default:
		return ""
	}
}
