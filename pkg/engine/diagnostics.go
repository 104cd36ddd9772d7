package engine

import (
	"fmt"

	"github.com/srl-lang/srl/pkg/fixpoint"
	"github.com/srl-lang/srl/pkg/stratify"
)

// DiagnosticKind names the category of a non-fatal Diagnostic, per
// spec.md §6.3's "structured list" requirement and §7's
// InvalidTripleConstruction row.
type DiagnosticKind string

const (
	// DiagnosticInvalidTripleConstruction records a head instantiation
	// whose subject or predicate failed validation (spec.md §4.4 step 3).
	DiagnosticInvalidTripleConstruction DiagnosticKind = "invalid_triple_construction"
	// DiagnosticRuleLayering reports the stratifier's non-fatal layering
	// decision for one stratum, useful for tooling that wants to show
	// how a rule set was stratified without treating it as an error.
	DiagnosticRuleLayering DiagnosticKind = "rule_layering"
)

// Diagnostic is one structured, non-fatal event recorded during
// evaluation.
type Diagnostic struct {
	Kind DiagnosticKind
	// Rule is the originating rule's position in the rule set, or -1 if
	// the diagnostic is not attributable to a single rule.
	Rule   int
	Detail string
}

func layeringDiagnostics(plan stratify.Plan) []Diagnostic {
	out := make([]Diagnostic, 0, len(plan.Strata))
	for i, stratum := range plan.Strata {
		out = append(out, Diagnostic{
			Kind:   DiagnosticRuleLayering,
			Rule:   -1,
			Detail: fmt.Sprintf("stratum %d: predicates %v, %d rule(s)", i, stratum.Predicates, len(stratum.Rules)),
		})
	}
	return out
}

func fromFixpointDiagnostics(in []fixpoint.Diagnostic) []Diagnostic {
	out := make([]Diagnostic, 0, len(in))
	for _, d := range in {
		out = append(out, Diagnostic{
			Kind:   DiagnosticInvalidTripleConstruction,
			Rule:   d.RuleID,
			Detail: fmt.Sprintf("stratum %d: %s", d.Stratum, d.Detail),
		})
	}
	return out
}
