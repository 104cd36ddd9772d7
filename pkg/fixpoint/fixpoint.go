// Package fixpoint drives per-stratum evaluation to closure, per
// spec.md §4.6: for each stratum, repeatedly evaluate every rule against
// the current working graph, instantiate heads, and union in the
// resulting delta until it is empty.
//
// The iterate-until-no-new-answers shape, including the budget-exceeded
// failure mode, is grounded on the teacher's SCC re-evaluation loop in
// pkg/minikanren/slg_engine.go (evaluateCyclicSCC): a fixed iteration cap
// with a named sentinel error when the cap is hit rather than looping
// forever.
package fixpoint

import (
	"errors"
	"fmt"
	"time"

	"github.com/srl-lang/srl/pkg/expr"
	"github.com/srl-lang/srl/pkg/graph"
	"github.com/srl-lang/srl/pkg/mapping"
	"github.com/srl-lang/srl/pkg/pattern"
	"github.com/srl-lang/srl/pkg/rdfterm"
	"github.com/srl-lang/srl/pkg/rule"
	"github.com/srl-lang/srl/pkg/skolem"
	"github.com/srl-lang/srl/pkg/stratify"
)

// ErrBudgetExhausted marks a stratum that failed to converge within the
// configured iteration or derived-triple budget, per spec.md §7.
var ErrBudgetExhausted = errors.New("fixpoint: budget exhausted before convergence")

// DiagnosticKind discriminates the non-fatal conditions fixpoint
// evaluation can record while still producing a result, per spec.md §7's
// InvalidTripleConstruction row.
type DiagnosticKind uint8

const (
	DiagnosticInvalidTripleConstruction DiagnosticKind = iota
)

// Diagnostic records one non-fatal event raised during head instantiation.
type Diagnostic struct {
	Kind    DiagnosticKind
	RuleID  int
	Stratum int
	Detail  string
}

// StratumStats reports how many semi-naive rounds one stratum took to
// reach its fixpoint, how many triples it derived in total, and how long
// it took wall-clock — per spec.md §6.3's "per-stratum iteration counts,
// derived triple totals, time". Iterations counts the rounds that derived
// at least one new triple; the final round that finds nothing new still
// runs (and counts toward Options.MaxIterations) but is not included.
type StratumStats struct {
	Iterations int
	Derived    int
	Elapsed    time.Duration
}

// Options bounds the driver's work, per spec.md §5's optional budget.
// A zero value for MaxIterations/MaxDerived means unlimited. Clock, if
// nil, defaults to time.Now — tests that need a reproducible NOW() seed
// should set it explicitly.
type Options struct {
	MaxIterations int
	MaxDerived    int
	Clock         func() time.Time
}

func (o Options) clock() func() time.Time {
	if o.Clock != nil {
		return o.Clock
	}
	return time.Now
}

// Run evaluates every stratum of plan against g in order, mutating g in
// place, per spec.md §4.6 and §6.3 ("evaluate(ruleset, graph) → graph").
// It returns per-stratum statistics and any diagnostics collected during
// head instantiation. Evaluation stops and returns ErrBudgetExhausted if
// a stratum fails to converge within opts.
//
// NOW() is captured once per fixpoint iteration — not once for the whole
// run — so every rule evaluated within one round sees the same instant,
// per spec.md §4.1's stability requirement, while successive rounds (and
// successive calls to Run) can observe the clock advancing.
func Run(plan stratify.Plan, g graph.Graph, opts Options) ([]StratumStats, []Diagnostic, error) {
	stats := make([]StratumStats, len(plan.Strata))
	var diagnostics []Diagnostic
	totalDerived := 0
	clock := opts.clock()

	for i, stratum := range plan.Strata {
		iterations := 0
		start := time.Now()
		for {
			if opts.MaxIterations > 0 && iterations >= opts.MaxIterations {
				return stats, diagnostics, fmt.Errorf("%w: stratum %d exceeded %d iterations", ErrBudgetExhausted, i, opts.MaxIterations)
			}
			iterations++

			ctx := expr.NewContext(clock())
			candidates, stratumDiags := evaluateStratum(ctx, i, stratum, g)
			diagnostics = append(diagnostics, stratumDiags...)

			newCount := 0
			for _, t := range candidates {
				if g.Insert(t) {
					newCount++
				}
			}

			if newCount > 0 {
				stats[i].Iterations = iterations
			}
			stats[i].Derived += newCount
			stats[i].Elapsed = time.Since(start)
			totalDerived += newCount

			if opts.MaxDerived > 0 && totalDerived > opts.MaxDerived {
				return stats, diagnostics, fmt.Errorf("%w: exceeded %d derived triples", ErrBudgetExhausted, opts.MaxDerived)
			}

			if newCount == 0 {
				break
			}
		}
	}

	return stats, diagnostics, nil
}

// evaluateStratum computes the candidate triples for one stratum by
// evaluating every rule's body against the current snapshot of g and
// instantiating its head templates, per spec.md §4.4 and §4.6 step a.
// All rules in the stratum see the same snapshot; none of this round's
// candidates are visible to each other until the next iteration.
func evaluateStratum(ctx *expr.Context, stratumIdx int, stratum stratify.Stratum, g graph.Graph) ([]rdfterm.Triple, []Diagnostic) {
	var candidates []rdfterm.Triple
	var diagnostics []Diagnostic

	for _, nr := range stratum.Rules {
		omega := pattern.Eval(ctx, nr.Rule.Body, g)
		for _, mu := range omega {
			triples, diags := instantiateHead(stratumIdx, nr, mu)
			candidates = append(candidates, triples...)
			diagnostics = append(diagnostics, diags...)
		}
	}

	return candidates, diagnostics
}

// instantiateHead implements spec.md §4.4 for one (rule, μ) pair: for
// each head template, substitute μ's bindings, Skolemize head blank
// nodes deterministically, validate subject/predicate shape, and emit
// the resulting triple or a diagnostic.
func instantiateHead(stratumIdx int, nr stratify.NumberedRule, mu mapping.Mapping) ([]rdfterm.Triple, []Diagnostic) {
	var triples []rdfterm.Triple
	var diagnostics []Diagnostic

	for _, tt := range nr.Rule.Head {
		s, sOK := instantiateSlot(nr.ID, mu, tt.Subject)
		p, pOK := instantiateSlot(nr.ID, mu, tt.Predicate)
		o, oOK := instantiateSlot(nr.ID, mu, tt.Object)
		if !sOK || !pOK || !oOK {
			// A variable slot unbound in μ: skip this template for this μ,
			// but keep evaluating the rule's other head templates.
			continue
		}

		if !(s.Kind() == rdfterm.KindIRI || s.Kind() == rdfterm.KindBlank) {
			diagnostics = append(diagnostics, Diagnostic{
				Kind:    DiagnosticInvalidTripleConstruction,
				RuleID:  nr.ID,
				Stratum: stratumIdx,
				Detail:  fmt.Sprintf("subject %s is neither an IRI nor a blank node", s),
			})
			continue
		}
		if p.Kind() != rdfterm.KindIRI {
			diagnostics = append(diagnostics, Diagnostic{
				Kind:    DiagnosticInvalidTripleConstruction,
				RuleID:  nr.ID,
				Stratum: stratumIdx,
				Detail:  fmt.Sprintf("predicate %s is not an IRI", p),
			})
			continue
		}

		triples = append(triples, rdfterm.Triple{Subject: s, Predicate: p, Object: o})
	}

	return triples, diagnostics
}

// instantiateSlot resolves one head-template slot under μ. A constant
// IRI/literal slot passes through unchanged. A variable slot substitutes
// μ's binding, or reports ok=false if unbound. A blank-node slot is
// Skolemized via skolem.Allocate so repeated derivation of the same
// (rule, label, μ) never mints a second fresh node.
func instantiateSlot(ruleID int, mu mapping.Mapping, slot rule.Slot) (rdfterm.Term, bool) {
	switch slot.Kind() {
	case expr.KindIRI, expr.KindLiteral:
		return slot.AsTerm(), true
	case expr.KindVariable:
		return mu.Lookup(slot.VariableName())
	case expr.KindBlank:
		return skolem.Allocate(ruleID, slot.BlankLabel(), mu), true
	default:
		return rdfterm.Term{}, false
	}
}
