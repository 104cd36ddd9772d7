// Package expr implements the SPARQL-style expression evaluator required
// by spec.md §4.1: a closed expression AST, value/boolean semantics with
// effective boolean value (EBV), and the built-in function registry.
//
// Like rdfterm.Term, Expr is a sealed tagged variant rather than an open
// interface hierarchy — the parser builds a closed set of node kinds and
// every use site switches on Kind exhaustively, per spec.md §9's guidance
// on dynamic dispatch over closed variants.
package expr

import "github.com/srl-lang/srl/pkg/rdfterm"

// Kind identifies which variant of Expr a value holds.
type Kind uint8

const (
	KindIRI Kind = iota
	KindLiteral
	KindBlank
	KindVariable
	KindBinary
	KindUnary
	KindCall
)

// Expr is an immutable expression-tree node. All AST nodes are immutable
// after construction, per spec.md §6.1.
type Expr struct {
	kind Kind

	// leaf terms
	iriOrVar string
	lex      string
	lang     string
	datatype string
	blank    string

	// BinaryOp / UnaryOp
	op  string
	lhs *Expr
	rhs *Expr // nil for UnaryOp

	// Call
	name string
	args []Expr
}

func (e Expr) Kind() Kind { return e.kind }

// IRI builds a constant IRI leaf.
func IRI(iri string) Expr { return Expr{kind: KindIRI, iriOrVar: iri} }

// Literal builds a constant literal leaf. See rdfterm.NewLiteral for the
// datatype-default rules.
func Literal(lex, lang, datatype string) Expr {
	return Expr{kind: KindLiteral, lex: lex, lang: lang, datatype: datatype}
}

// Blank builds a constant blank-node leaf (rare in expressions, but part
// of the shared node-kind vocabulary per spec.md §6.1).
func Blank(label string) Expr { return Expr{kind: KindBlank, blank: label} }

// Variable builds a reference to a bound (or possibly unbound) variable.
func Variable(name string) Expr { return Expr{kind: KindVariable, iriOrVar: name} }

// Binary builds a binary operator node. Supported ops: = != < > <= >=
// + - * / && ||.
func Binary(op string, lhs, rhs Expr) Expr {
	return Expr{kind: KindBinary, op: op, lhs: &lhs, rhs: &rhs}
}

// Unary builds a unary operator node. Supported ops: + - !.
func Unary(op string, arg Expr) Expr {
	return Expr{kind: KindUnary, op: op, lhs: &arg}
}

// Call builds a built-in function invocation by name (case-sensitive,
// matching the names in spec.md §4.1's built-in table, e.g. "CONCAT").
func Call(name string, args ...Expr) Expr {
	return Expr{kind: KindCall, name: name, args: args}
}

// IRIValue returns the constant IRI string. Valid only for KindIRI.
func (e Expr) IRIValue() string { return e.iriOrVar }

// VariableName returns the variable name. Valid only for KindVariable.
func (e Expr) VariableName() string { return e.iriOrVar }

// LiteralParts returns (lex, lang, datatype). Valid only for KindLiteral.
func (e Expr) LiteralParts() (string, string, string) { return e.lex, e.lang, e.datatype }

// BlankLabel returns the constant blank-node label. Valid only for KindBlank.
func (e Expr) BlankLabel() string { return e.blank }

// Op returns the operator symbol. Valid for KindBinary and KindUnary.
func (e Expr) Op() string { return e.op }

// LHS returns the left (or sole, for unary) operand.
func (e Expr) LHS() Expr { return *e.lhs }

// RHS returns the right operand. Valid only for KindBinary.
func (e Expr) RHS() Expr { return *e.rhs }

// CallName returns the built-in function name. Valid only for KindCall.
func (e Expr) CallName() string { return e.name }

// CallArgs returns the call's argument expressions. Valid only for KindCall.
func (e Expr) CallArgs() []Expr { return e.args }

// AsTerm converts a constant leaf expression (IRI, Literal, or Blank) to
// its equivalent rdfterm.Term. Panics if e is not a constant leaf; callers
// in the evaluator only call this after checking Kind.
func (e Expr) AsTerm() rdfterm.Term {
	switch e.kind {
	case KindIRI:
		return rdfterm.NewIRI(e.iriOrVar)
	case KindLiteral:
		return rdfterm.NewLiteral(e.lex, e.lang, e.datatype)
	case KindBlank:
		return rdfterm.NewBlank(e.blank)
	default:
		panic("expr: AsTerm called on non-leaf expression")
	}
}
