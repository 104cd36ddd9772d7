// Package engine exposes the single top-level entry point of the rule
// evaluator, wiring the stratifier, the fixpoint driver, and the
// diagnostics/stats surface together per spec.md §6.3: "evaluate(graph,
// options) → {graph, stats, diagnostics}".
package engine

import (
	"time"

	"github.com/srl-lang/srl/internal/obslog"
	"github.com/srl-lang/srl/pkg/fixpoint"
	"github.com/srl-lang/srl/pkg/graph"
	"github.com/srl-lang/srl/pkg/rule"
	"github.com/srl-lang/srl/pkg/stratify"
)

// Options controls one evaluation run, per spec.md §6.3.
type Options struct {
	// Inplace mutates the input graph directly when true; otherwise
	// Evaluate copies it first and leaves the caller's graph untouched.
	Inplace bool
	// MaxIterations caps semi-naive rounds per stratum. Zero means
	// unlimited.
	MaxIterations int
	// MaxDerived caps the total number of newly derived triples across
	// the whole run. Zero means unlimited.
	MaxDerived int
	// Clock overrides NOW() for testing. Nil defaults to time.Now,
	// captured once per fixpoint iteration (see fixpoint.Options).
	Clock func() time.Time
	// Logger receives structured progress events. Nil discards them.
	Logger *obslog.Logger
}

// Result is evaluate's output triple, per spec.md §6.3.
type Result struct {
	Graph       graph.Graph
	Stats       Stats
	Diagnostics []Diagnostic
}

// Evaluate runs rs to a fixed point over g and returns the resulting
// graph, per-stratum stats, and any non-fatal diagnostics. It returns an
// error without touching g if rs fails stratification (stratify.
// ErrUnsafeNegation / stratify.ErrUnsafeRule), or if a stratum exhausts
// its budget (fixpoint.ErrBudgetExhausted) — in the latter case the
// partial graph and stats so far are still returned alongside the error,
// per spec.md §7's "Budget errors... return the partial graph plus
// stats for observability".
func Evaluate(rs rule.RuleSet, g graph.Graph, opts Options) (Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = obslog.Discard()
	}

	plan, err := stratify.Stratify(rs)
	if err != nil {
		logger.Error("stratification failed", "error", err)
		return Result{}, err
	}

	working := g
	if !opts.Inplace {
		working = graph.NewFromSlice(g.Iter())
	}

	diagnostics := layeringDiagnostics(plan)

	fpStats, fpDiags, err := fixpoint.Run(plan, working, fixpoint.Options{
		MaxIterations: opts.MaxIterations,
		MaxDerived:    opts.MaxDerived,
		Clock:         opts.Clock,
	})
	diagnostics = append(diagnostics, fromFixpointDiagnostics(fpDiags)...)

	stats := Stats{Strata: make([]StratumStats, len(plan.Strata))}
	for i, s := range fpStats {
		stats.Strata[i] = StratumStats{
			Predicates: plan.Strata[i].Predicates,
			Iterations: s.Iterations,
			Derived:    s.Derived,
			Elapsed:    s.Elapsed,
		}
		logger.Info("stratum converged",
			"stratum", i,
			"predicates", plan.Strata[i].Predicates,
			"iterations", s.Iterations,
			"derived", s.Derived,
			"elapsed", s.Elapsed,
		)
	}

	if err != nil {
		logger.Error("evaluation budget exhausted", "error", err)
		return Result{Graph: working, Stats: stats, Diagnostics: diagnostics}, err
	}

	return Result{Graph: working, Stats: stats, Diagnostics: diagnostics}, nil
}
