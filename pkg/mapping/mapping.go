// Package mapping implements solution mappings (μ) and multisets of
// solution mappings (Ω), the join/filter/extend/minus algebra the pattern
// engine is built from. See spec.md §4.2.
//
// A Mapping is a small-map-optimized partial function from variable name
// to rdfterm.Term: most μ carry only a handful of bindings, so a
// sorted-by-name slice beats a hash map in practice, mirroring the
// teacher's *Substitution design in pkg/minikanren/core.go while dropping
// its mutex (mappings here are value types, never mutated in place once
// emitted, per spec.md §3 invariants).
package mapping

import (
	"sort"

	"github.com/srl-lang/srl/pkg/rdfterm"
)

type binding struct {
	name string
	term rdfterm.Term
}

// Mapping is an immutable partial function from variable names to terms.
type Mapping struct {
	bindings []binding // sorted by name
}

// Empty is the mapping with empty domain (∅ binding nothing), the seed
// value for Join's identity multiset {∅}.
var Empty = Mapping{}

// Lookup returns the term bound to name and true, or the zero Term and
// false if name is not in the mapping's domain.
func (m Mapping) Lookup(name string) (rdfterm.Term, bool) {
	i := m.search(name)
	if i < len(m.bindings) && m.bindings[i].name == name {
		return m.bindings[i].term, true
	}
	return rdfterm.Term{}, false
}

func (m Mapping) search(name string) int {
	return sort.Search(len(m.bindings), func(i int) bool { return m.bindings[i].name >= name })
}

// Domain returns the sorted list of bound variable names.
func (m Mapping) Domain() []string {
	names := make([]string, len(m.bindings))
	for i, b := range m.bindings {
		names[i] = b.name
	}
	return names
}

// Len returns the number of bindings in the mapping.
func (m Mapping) Len() int { return len(m.bindings) }

// Extend returns a new mapping with name bound to term. If name is
// already bound to an unequal term, ok is false and the receiver is
// returned unchanged (callers that need error semantics, e.g. BIND to an
// already-bound variable, check this explicitly rather than relying on
// silent overwrite).
func (m Mapping) Extend(name string, term rdfterm.Term) (Mapping, bool) {
	if existing, found := m.Lookup(name); found {
		return m, existing.Equal(term)
	}
	nb := make([]binding, len(m.bindings)+1)
	i := m.search(name)
	copy(nb, m.bindings[:i])
	nb[i] = binding{name: name, term: term}
	copy(nb[i+1:], m.bindings[i:])
	return Mapping{bindings: nb}, true
}

// Compatible reports whether m and other agree on every variable in the
// intersection of their domains.
func (m Mapping) Compatible(other Mapping) bool {
	i, j := 0, 0
	for i < len(m.bindings) && j < len(other.bindings) {
		a, b := m.bindings[i], other.bindings[j]
		switch {
		case a.name < b.name:
			i++
		case a.name > b.name:
			j++
		default:
			if !a.term.Equal(b.term) {
				return false
			}
			i++
			j++
		}
	}
	return true
}

// Merge unions m and other, which must already be known Compatible; the
// result's domain is the union of both domains. Callers must check
// Compatible first — Merge does not re-validate.
func (m Mapping) Merge(other Mapping) Mapping {
	out := make([]binding, 0, len(m.bindings)+len(other.bindings))
	i, j := 0, 0
	for i < len(m.bindings) && j < len(other.bindings) {
		a, b := m.bindings[i], other.bindings[j]
		switch {
		case a.name < b.name:
			out = append(out, a)
			i++
		case a.name > b.name:
			out = append(out, b)
			j++
		default:
			out = append(out, a)
			i++
			j++
		}
	}
	out = append(out, m.bindings[i:]...)
	out = append(out, other.bindings[j:]...)
	return Mapping{bindings: out}
}

// SharesVariable reports whether m and other have at least one variable
// name in common, used by Minus to implement SPARQL MINUS semantics.
func (m Mapping) SharesVariable(other Mapping) bool {
	i, j := 0, 0
	for i < len(m.bindings) && j < len(other.bindings) {
		a, b := m.bindings[i].name, other.bindings[j].name
		switch {
		case a < b:
			i++
		case a > b:
			j++
		default:
			return true
		}
	}
	return false
}
