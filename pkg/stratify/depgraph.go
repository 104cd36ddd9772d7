// Package stratify builds the predicate dependency graph from a rule
// set, detects unsafe negation via strongly connected components, and
// computes the stratum ordering the fixpoint driver iterates over, per
// spec.md §4.5.
//
// SCCs are computed with Tarjan's index/lowlink depth-first search, whose
// state-map style is adapted from the three-color (white/gray/black)
// traversal used by the katalvlaran-lvlath example's dfs package
// (dfs/cycle.go, dfs/topological.go); strata are ordered with Kahn's
// algorithm over the condensed DAG (stratify.go) — the teacher
// repo (gitrdm-gokando) has no graph-SCC utilities of its own, so this
// component is grounded on that sibling example instead, per the rule
// that lets a spec need be learned from elsewhere in the pack when the
// teacher doesn't cover it.
package stratify

import (
	"sort"

	"github.com/srl-lang/srl/pkg/expr"
	"github.com/srl-lang/srl/pkg/rule"
)

// edgeKind distinguishes a positive dependency edge from a negative one.
type edgeKind uint8

const (
	edgePositive edgeKind = iota
	edgeNegative
)

// depGraph is the predicate dependency graph of spec.md §4.5: nodes are
// predicate IRIs, edges run from a referenced predicate to the
// referencing rule's head predicate.
type depGraph struct {
	nodes map[string]struct{}
	// positive[p][q] / negative[p][q] record an edge of that kind from p
	// to q. Keeping two separate adjacency sets means a negative edge is
	// never hidden by a positive reference between the same pair.
	positive map[string]map[string]struct{}
	negative map[string]map[string]struct{}
}

func newDepGraph() *depGraph {
	return &depGraph{
		nodes:    map[string]struct{}{},
		positive: map[string]map[string]struct{}{},
		negative: map[string]map[string]struct{}{},
	}
}

func (g *depGraph) addNode(p string) {
	g.nodes[p] = struct{}{}
}

func (g *depGraph) addEdge(from, to string, kind edgeKind) {
	g.addNode(from)
	g.addNode(to)
	set := g.positive
	if kind == edgeNegative {
		set = g.negative
	}
	if set[from] == nil {
		set[from] = map[string]struct{}{}
	}
	set[from][to] = struct{}{}
}

// buildDepGraph constructs the predicate dependency graph for an entire
// rule set: every head predicate is a node, and every predicate
// referenced in a positive or negated body element contributes an edge
// into each of the rule's head predicates.
func buildDepGraph(rs rule.RuleSet) *depGraph {
	g := newDepGraph()
	for _, r := range rs.Rules {
		heads := r.HeadPredicates()
		for _, h := range heads {
			g.addNode(h)
		}
		positiveRefs, negativeRefs := bodyPredicateRefs(r.Body)
		for _, h := range heads {
			for p := range positiveRefs {
				g.addEdge(p, h, edgePositive)
			}
			for p := range negativeRefs {
				g.addEdge(p, h, edgeNegative)
			}
		}
	}
	return g
}

// bodyPredicateRefs walks a rule body and returns the set of predicate
// IRIs referenced positively (triple patterns outside any NOT) and the
// set referenced negatively (triple patterns inside a NOT, at any
// nesting depth — this engine does not special-case double negation).
func bodyPredicateRefs(body []rule.BodyElement) (positive, negative map[string]struct{}) {
	positive = map[string]struct{}{}
	negative = map[string]struct{}{}
	collectBodyPredicateRefs(body, false, positive, negative)
	return
}

func collectBodyPredicateRefs(body []rule.BodyElement, negated bool, positive, negative map[string]struct{}) {
	for _, el := range body {
		switch el.Kind() {
		case rule.KindTriplePattern:
			pred := el.Triple().Predicate
			if pred.Kind() == expr.KindIRI {
				if negated {
					negative[pred.IRIValue()] = struct{}{}
				} else {
					positive[pred.IRIValue()] = struct{}{}
				}
			}
		case rule.KindNot:
			collectBodyPredicateRefs(el.NotBody(), true, positive, negative)
		case rule.KindFilter, rule.KindBind:
			// Expressions don't reference predicates.
		}
	}
}

// sccOf runs Tarjan's strongly connected components algorithm over the
// union of positive and negative edges (safety depends on which SCC a
// predicate lands in, regardless of edge kind).
func (g *depGraph) sccOf() [][]string {
	t := &tarjan{
		graph:   g,
		index:   map[string]int{},
		low:     map[string]int{},
		onStack: map[string]bool{},
	}
	nodes := g.sortedNodes()
	for _, n := range nodes {
		if _, visited := t.index[n]; !visited {
			t.strongConnect(n)
		}
	}
	return t.components
}

func (g *depGraph) sortedNodes() []string {
	out := make([]string, 0, len(g.nodes))
	for n := range g.nodes {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func (g *depGraph) neighbors(p string) []string {
	seen := map[string]struct{}{}
	var out []string
	for q := range g.positive[p] {
		if _, ok := seen[q]; !ok {
			seen[q] = struct{}{}
			out = append(out, q)
		}
	}
	for q := range g.negative[p] {
		if _, ok := seen[q]; !ok {
			seen[q] = struct{}{}
			out = append(out, q)
		}
	}
	sort.Strings(out)
	return out
}

// tarjan holds the working state of one Tarjan SCC run: a monotonic DFS
// index per node, the lowlink value, the recursion stack, and the
// completed components list, following the standard algorithm structure
// (mirrors the state-map + explicit path slice idiom of
// katalvlaran-lvlath's dfs.dfsVisit, adapted from three-color cycle
// detection to SCC lowlink computation).
type tarjan struct {
	graph      *depGraph
	index      map[string]int
	low        map[string]int
	onStack    map[string]bool
	stack      []string
	counter    int
	components [][]string
}

func (t *tarjan) strongConnect(v string) {
	t.index[v] = t.counter
	t.low[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.graph.neighbors(v) {
		if _, visited := t.index[w]; !visited {
			t.strongConnect(w)
			t.low[v] = min(t.low[v], t.low[w])
		} else if t.onStack[w] {
			t.low[v] = min(t.low[v], t.index[w])
		}
	}

	if t.low[v] == t.index[v] {
		var component []string
		for {
			n := len(t.stack) - 1
			w := t.stack[n]
			t.stack = t.stack[:n]
			t.onStack[w] = false
			component = append(component, w)
			if w == v {
				break
			}
		}
		sort.Strings(component)
		t.components = append(t.components, component)
	}
}
