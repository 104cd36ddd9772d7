// Package rule defines the Rule AST consumed by the engine, per
// spec.md §6.1. The grammar/parser that produces this AST is out of
// scope (spec.md §1); this package only specifies the shape the parser
// must hand to the stratifier and fixpoint driver.
//
// Slots and expressions share node kinds: a Slot is any leaf expr.Expr
// (IRI, Literal, BlankNode, or Variable) — the engine never constructs a
// slot from a BinaryOp/UnaryOp/Call, but reusing expr.Expr avoids a
// parallel type hierarchy for what is structurally the same closed set
// of leaf kinds.
package rule

import "github.com/srl-lang/srl/pkg/expr"

// Slot is a triple-pattern or triple-template position: an IRI, Literal,
// BlankNode, or Variable expr.Expr leaf.
type Slot = expr.Expr

// TripleTemplate is a head triple to be instantiated per solution
// mapping, or (in a body) a triple pattern to be matched.
type TripleTemplate struct {
	Subject   Slot
	Predicate Slot
	Object    Slot
}

// NewTripleTemplate builds a triple template/pattern from three slots.
func NewTripleTemplate(s, p, o Slot) TripleTemplate {
	return TripleTemplate{Subject: s, Predicate: p, Object: o}
}

// BodyElementKind discriminates the four body-element variants of
// spec.md §6.1.
type BodyElementKind uint8

const (
	KindTriplePattern BodyElementKind = iota
	KindFilter
	KindBind
	KindNot
)

// BodyElement is one ordered step of a rule body: a triple pattern,
// FILTER, BIND, or NOT, per spec.md §4.3.
type BodyElement struct {
	kind     BodyElementKind
	triple   TripleTemplate
	filter   expr.Expr
	bindVar  string
	bindExpr expr.Expr
	notBody  []BodyElement
}

// TriplePattern builds a body element that matches a triple pattern.
func TriplePattern(s, p, o Slot) BodyElement {
	return BodyElement{kind: KindTriplePattern, triple: NewTripleTemplate(s, p, o)}
}

// Filter builds a FILTER(e) body element.
func Filter(e expr.Expr) BodyElement {
	return BodyElement{kind: KindFilter, filter: e}
}

// Bind builds a BIND(e AS ?v) body element.
func Bind(variable string, e expr.Expr) BodyElement {
	return BodyElement{kind: KindBind, bindVar: variable, bindExpr: e}
}

// Not builds a NOT { pattern } body element wrapping a sub-pattern.
func Not(body []BodyElement) BodyElement {
	return BodyElement{kind: KindNot, notBody: body}
}

func (b BodyElement) Kind() BodyElementKind { return b.kind }
func (b BodyElement) Triple() TripleTemplate { return b.triple }
func (b BodyElement) FilterExpr() expr.Expr  { return b.filter }
func (b BodyElement) BindVar() string        { return b.bindVar }
func (b BodyElement) BindExpr() expr.Expr    { return b.bindExpr }
func (b BodyElement) NotBody() []BodyElement { return b.notBody }

// Rule is one `RULE { head } WHERE { body }` declaration. Per spec.md
// §3, Head must be non-empty and Body must have at least one element.
type Rule struct {
	Head []TripleTemplate
	Body []BodyElement
}

// HeadPredicates returns the set of distinct predicate IRIs appearing in
// the rule's head, used by the stratifier to build dependency edges.
// A head predicate slot that is a Variable rather than a constant IRI
// contributes no edge (the stratifier only tracks IRI-named predicates).
func (r Rule) HeadPredicates() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, tt := range r.Head {
		if tt.Predicate.Kind() == expr.KindIRI {
			p := tt.Predicate.IRIValue()
			if _, ok := seen[p]; !ok {
				seen[p] = struct{}{}
				out = append(out, p)
			}
		}
	}
	return out
}

// RuleSet is the parser's top-level output, per spec.md §6.1.
type RuleSet struct {
	// Prefixes is informational; the AST itself uses resolved IRIs.
	Prefixes map[string]string
	Rules    []Rule
}
