// Package graph defines the RDF graph interface consumed by the pattern
// engine and fixpoint driver (spec.md §6.2), and provides an in-memory,
// predicate/subject-indexed implementation.
//
// The indexing scheme is adapted from the teacher's FactIndex/FactStore
// (pkg/minikanren/fact_store.go): position→term→set-of-IDs maps, here
// specialized to the two positions spec.md §4.3 calls out (predicate and
// subject) instead of FactStore's generic configurable positions, since a
// Triple's shape is fixed (unlike FactStore's arbitrary-arity facts).
package graph

import "github.com/srl-lang/srl/pkg/rdfterm"

// Graph is the adapter the engine requires, per spec.md §6.2. Any type
// satisfying this contract (in-memory hash-indexed being the natural
// choice) may be used as the working graph.
type Graph interface {
	// Contains reports whether t is already present, by term equality.
	Contains(t rdfterm.Triple) bool
	// Insert adds t, returning true iff it was not already present.
	Insert(t rdfterm.Triple) bool
	// Iter returns every triple currently in the graph. The returned
	// slice is a snapshot; mutating the graph afterward does not affect it.
	Iter() []rdfterm.Triple
	// Match returns every triple whose subject/predicate/object equals
	// the corresponding non-nil argument; a nil argument is a wildcard.
	Match(s, p, o *rdfterm.Term) []rdfterm.Triple
	// Count returns the number of triples in the graph.
	Count() int
}

// Memory is an in-memory Graph indexed by predicate and by subject, the
// two lookup keys spec.md §4.3 requires ("scan the working graph
// (indexed by predicate when p is concrete; by subject when only s is
// concrete)").
type Memory struct {
	triples map[string]rdfterm.Triple // key -> triple, for membership + iteration
	byPred  map[string][]string       // predicate IRI -> triple keys
	bySubj  map[string][]string       // subject term string -> triple keys
}

// New creates an empty in-memory graph.
func New() *Memory {
	return &Memory{
		triples: make(map[string]rdfterm.Triple),
		byPred:  make(map[string][]string),
		bySubj:  make(map[string][]string),
	}
}

// NewFromSlice builds a graph preloaded with the given triples (set
// semantics: duplicates collapse), used by callers that compose the
// working graph as "input ∪ derivations" per spec.md §5.
func NewFromSlice(triples []rdfterm.Triple) *Memory {
	g := New()
	for _, t := range triples {
		g.Insert(t)
	}
	return g
}

func (g *Memory) Contains(t rdfterm.Triple) bool {
	_, ok := g.triples[t.Key()]
	return ok
}

func (g *Memory) Insert(t rdfterm.Triple) bool {
	key := t.Key()
	if _, exists := g.triples[key]; exists {
		return false
	}
	g.triples[key] = t
	g.byPred[t.Predicate.String()] = append(g.byPred[t.Predicate.String()], key)
	g.bySubj[t.Subject.String()] = append(g.bySubj[t.Subject.String()], key)
	return true
}

func (g *Memory) Iter() []rdfterm.Triple {
	out := make([]rdfterm.Triple, 0, len(g.triples))
	for _, t := range g.triples {
		out = append(out, t)
	}
	return out
}

func (g *Memory) Count() int { return len(g.triples) }

// Match implements the indexed lookup spec.md §4.3 requires: prefer the
// predicate index when p is concrete, else the subject index when s is
// concrete, else a full scan.
func (g *Memory) Match(s, p, o *rdfterm.Term) []rdfterm.Triple {
	var candidates []string
	switch {
	case p != nil:
		candidates = g.byPred[p.String()]
	case s != nil:
		candidates = g.bySubj[s.String()]
	default:
		out := make([]rdfterm.Triple, 0, len(g.triples))
		for _, t := range g.triples {
			if matches(t, s, p, o) {
				out = append(out, t)
			}
		}
		return out
	}

	out := make([]rdfterm.Triple, 0, len(candidates))
	for _, key := range candidates {
		t := g.triples[key]
		if matches(t, s, p, o) {
			out = append(out, t)
		}
	}
	return out
}

func matches(t rdfterm.Triple, s, p, o *rdfterm.Term) bool {
	if s != nil && !t.Subject.Equal(*s) {
		return false
	}
	if p != nil && !t.Predicate.Equal(*p) {
		return false
	}
	if o != nil && !t.Object.Equal(*o) {
		return false
	}
	return true
}
