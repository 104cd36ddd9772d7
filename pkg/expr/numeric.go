package expr

import (
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/srl-lang/srl/pkg/rdfterm"
)

// tier is a position in the standard numeric-type promotion lattice:
// integer ⊂ decimal ⊂ float ⊂ double, per spec.md §4.1.
type tier int

const (
	tierInteger tier = iota
	tierDecimal
	tierFloat
	tierDouble
)

const xsdNS = "http://www.w3.org/2001/XMLSchema#"

var tierByLocalName = map[string]tier{
	"integer":            tierInteger,
	"int":                tierInteger,
	"long":               tierInteger,
	"short":              tierInteger,
	"byte":               tierInteger,
	"nonNegativeInteger": tierInteger,
	"positiveInteger":    tierInteger,
	"decimal":            tierDecimal,
	"float":              tierFloat,
	"double":             tierDouble,
}

var localNameByTier = map[tier]string{
	tierInteger: "integer",
	tierDecimal: "decimal",
	tierFloat:   "float",
	tierDouble:  "double",
}

// numeric is the engine's internal numeric value: a tier tag (for
// promotion) plus a float64 magnitude. Representing decimal as float64
// is a deliberate simplification — this engine targets the relational
// and boolean semantics of SRL rules, not arbitrary-precision arithmetic.
type numeric struct {
	t tier
	v float64
}

func isNumericDatatype(datatype string) bool {
	_, ok := tierByLocalName[localName(datatype)]
	return ok
}

func localName(datatype string) string {
	if strings.HasPrefix(datatype, xsdNS) {
		return strings.TrimPrefix(datatype, xsdNS)
	}
	return datatype
}

// parseNumeric extracts a numeric value from a literal term using the
// datatype's lexical form. Numeric coercion itself is delegated to
// spf13/cast, which parses a string lexical form as a float64 (accepting
// variants such as a leading "+" or trailing zeros).
func parseNumeric(t rdfterm.Term) (numeric, bool) {
	if !t.IsLiteral() {
		return numeric{}, false
	}
	tr, ok := tierByLocalName[localName(t.Datatype())]
	if !ok {
		return numeric{}, false
	}
	f, err := cast.ToFloat64E(t.Lexical())
	if err != nil {
		return numeric{}, false
	}
	return numeric{t: tr, v: f}, true
}

func promote(a, b numeric) tier {
	if a.t > b.t {
		return a.t
	}
	return b.t
}

func formatNumeric(n numeric) rdfterm.Term {
	var lex string
	if n.t == tierInteger {
		lex = strconv.FormatInt(int64(n.v), 10)
	} else {
		lex = strconv.FormatFloat(n.v, 'g', -1, 64)
	}
	return rdfterm.NewLiteral(lex, "", xsdNS+localNameByTier[n.t])
}

func numericIsTruthy(n numeric) bool {
	return n.v != 0 && !math.IsNaN(n.v)
}
