package stratify

import (
	"fmt"
	"sort"

	"github.com/srl-lang/srl/pkg/expr"
	"github.com/srl-lang/srl/pkg/rule"
)

// NumberedRule pairs a rule with its position in the original rule set.
// The ID is stable across stratification and is what skolem.Allocate
// uses as the rule-id component of a head blank node's signature, so it
// must never be recomputed from a rule's position within its stratum.
type NumberedRule struct {
	ID   int
	Rule rule.Rule
}

// Stratum is one layer of the evaluation plan: a set of rules whose
// relative order does not matter for semantics (spec.md §4.5 step 5).
type Stratum struct {
	// Predicates lists the (sorted) predicates assigned to this stratum,
	// body-only predicates included, for diagnostics/logging.
	Predicates []string
	Rules      []NumberedRule
}

// Plan is the stratifier's output: a totally ordered list of strata.
type Plan struct {
	Strata []Stratum
}

// Stratify computes the layered evaluation plan for rs, per spec.md
// §4.5. It returns ErrUnsafeNegation if any strongly connected component
// of the predicate dependency graph contains a negative edge, or
// ErrUnsafeRule if any rule's head references a variable never bound by
// a positive body element.
func Stratify(rs rule.RuleSet) (Plan, error) {
	for i, r := range rs.Rules {
		if err := checkRuleSafety(r); err != nil {
			return Plan{}, fmt.Errorf("rule %d: %w", i, err)
		}
	}

	g := buildDepGraph(rs)
	components := g.sccOf()

	sccIndex := map[string]int{}
	for i, comp := range components {
		for _, p := range comp {
			sccIndex[p] = i
		}
	}

	for from, tos := range g.negative {
		for to := range tos {
			if sccIndex[from] == sccIndex[to] {
				return Plan{}, fmt.Errorf("%w: predicate %q negatively depended on within its own cycle (via %q)", ErrUnsafeNegation, to, from)
			}
		}
	}

	order := topologicalOrder(len(components), condense(components, sccIndex, g))

	// A component's layer is at least that of every component it depends
	// on positively, and strictly above every one it depends on negatively.
	stratumOfPredicate := map[string]int{}
	compLayer := make([]int, len(components))
	numStrata := 0
	for _, compIdx := range order {
		layer := compLayer[compIdx]
		numStrata = max(numStrata, layer+1)
		for _, p := range components[compIdx] {
			stratumOfPredicate[p] = layer
			for q := range g.positive[p] {
				compLayer[sccIndex[q]] = max(compLayer[sccIndex[q]], layer)
			}
			for q := range g.negative[p] {
				compLayer[sccIndex[q]] = max(compLayer[sccIndex[q]], layer+1)
			}
		}
	}

	strata := make([]Stratum, numStrata)
	for compIdx, comp := range components {
		layer := compLayer[compIdx]
		strata[layer].Predicates = append(strata[layer].Predicates, comp...)
		sort.Strings(strata[layer].Predicates)
	}

	for id, r := range rs.Rules {
		layer := 0
		for _, h := range r.HeadPredicates() {
			if l, ok := stratumOfPredicate[h]; ok && l > layer {
				layer = l
			}
		}
		strata[layer].Rules = append(strata[layer].Rules, NumberedRule{ID: id, Rule: r})
	}

	return Plan{Strata: strata}, nil
}

// condense builds the condensation DAG over SCC indices: edge i->j
// exists iff some predicate in component i has an edge (of either kind)
// to some predicate in component j, and i != j.
func condense(components [][]string, sccIndex map[string]int, g *depGraph) map[int]map[int]struct{} {
	dag := make(map[int]map[int]struct{}, len(components))
	for i := range components {
		dag[i] = map[int]struct{}{}
	}
	addCondensed := func(from, to string) {
		fi, ti := sccIndex[from], sccIndex[to]
		if fi != ti {
			dag[fi][ti] = struct{}{}
		}
	}
	for from, tos := range g.positive {
		for to := range tos {
			addCondensed(from, to)
		}
	}
	for from, tos := range g.negative {
		for to := range tos {
			addCondensed(from, to)
		}
	}
	return dag
}

// topologicalOrder runs Kahn's algorithm over the condensation DAG so
// that for every edge i->j, i appears before j in the result — i.e. a
// predicate's stratum is always <= the stratum of anything depending on
// it, per spec.md §4.5 step 4.
func topologicalOrder(n int, dag map[int]map[int]struct{}) []int {
	indegree := make([]int, n)
	for _, tos := range dag {
		for to := range tos {
			indegree[to]++
		}
	}

	var ready []int
	for i := 0; i < n; i++ {
		if indegree[i] == 0 {
			ready = append(ready, i)
		}
	}
	sort.Ints(ready)

	order := make([]int, 0, n)
	for len(ready) > 0 {
		sort.Ints(ready)
		cur := ready[0]
		ready = ready[1:]
		order = append(order, cur)
		next := make([]int, 0, len(dag[cur]))
		for to := range dag[cur] {
			indegree[to]--
			if indegree[to] == 0 {
				next = append(next, to)
			}
		}
		sort.Ints(next)
		ready = append(ready, next...)
	}
	return order
}

// checkRuleSafety implements the additional safety check of spec.md
// §4.5: every variable in r's head must appear in some positive
// (non-NOT, non-BIND-RHS) body element.
func checkRuleSafety(r rule.Rule) error {
	bound := positivelyBoundVariables(r.Body)
	for _, tt := range r.Head {
		for _, slot := range []rule.Slot{tt.Subject, tt.Predicate, tt.Object} {
			if slot.Kind() != expr.KindVariable {
				continue
			}
			name := slot.VariableName()
			if _, ok := bound[name]; !ok {
				return fmt.Errorf("%w: head variable ?%s is never bound by a positive body element", ErrUnsafeRule, name)
			}
		}
	}
	return nil
}

// positivelyBoundVariables returns the set of variable names that body
// binds outside of any NOT: the subject/predicate/object of a triple
// pattern, or the target of a BIND. Variables that appear only inside a
// NOT sub-pattern, only as a BIND's right-hand side, or only in a
// FILTER, do not count — per spec.md §4.5's rule-safety requirement.
func positivelyBoundVariables(body []rule.BodyElement) map[string]struct{} {
	bound := map[string]struct{}{}
	for _, el := range body {
		switch el.Kind() {
		case rule.KindTriplePattern:
			tt := el.Triple()
			for _, slot := range []rule.Slot{tt.Subject, tt.Predicate, tt.Object} {
				if slot.Kind() == expr.KindVariable {
					bound[slot.VariableName()] = struct{}{}
				}
			}
		case rule.KindBind:
			bound[el.BindVar()] = struct{}{}
		case rule.KindFilter, rule.KindNot:
			// FILTER binds nothing; NOT's interior bindings don't escape it.
		}
	}
	return bound
}
