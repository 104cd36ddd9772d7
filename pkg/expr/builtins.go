package expr

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"math"
	"strconv"
	"strings"

	uuid "github.com/satori/go.uuid"

	"github.com/srl-lang/srl/pkg/mapping"
	"github.com/srl-lang/srl/pkg/rdfterm"
)

// builtin is a registry entry: an arity check, and an invocation callback
// over already-evaluated argument Results. BOUND is handled separately in
// evalCall because it must see the raw argument expression, not its
// evaluated Result. Per spec.md §9, new built-ins are just new registry
// entries — the Call dispatch path itself never changes.
type builtin struct {
	arity func(n int) bool
	fn    func(ctx *Context, args []Result) Result
}

func exactly(n int) func(int) bool { return func(got int) bool { return got == n } }

var registry = map[string]builtin{
	// --- string ---
	"CONCAT":     {arity: func(int) bool { return true }, fn: biConcat},
	"STRLEN":     {arity: exactly(1), fn: biStrlen},
	"SUBSTR":     {arity: func(n int) bool { return n == 2 || n == 3 }, fn: biSubstr},
	"UCASE":      {arity: exactly(1), fn: biUcase},
	"LCASE":      {arity: exactly(1), fn: biLcase},
	"STRSTARTS":  {arity: exactly(2), fn: biStrstarts},
	"STRENDS":    {arity: exactly(2), fn: biStrends},
	"CONTAINS":   {arity: exactly(2), fn: biContains},
	"REPLACE":    {arity: exactly(3), fn: biReplace},

	// --- numeric ---
	"ABS":   {arity: exactly(1), fn: biAbs},
	"ROUND": {arity: exactly(1), fn: biRound},
	"CEIL":  {arity: exactly(1), fn: biCeil},
	"FLOOR": {arity: exactly(1), fn: biFloor},
	"RAND":  {arity: exactly(0), fn: biRand},

	// --- RDF term ---
	"STR":       {arity: exactly(1), fn: biStr},
	"LANG":      {arity: exactly(1), fn: biLang},
	"DATATYPE":  {arity: exactly(1), fn: biDatatype},
	"IRI":       {arity: exactly(1), fn: biIRI},
	"BNODE":     {arity: func(n int) bool { return n == 0 || n == 1 }, fn: biBnode},
	"STRDT":     {arity: exactly(2), fn: biStrdt},
	"STRLANG":   {arity: exactly(2), fn: biStrlang},
	"isIRI":     {arity: exactly(1), fn: biIsIRI},
	"isBLANK":   {arity: exactly(1), fn: biIsBlank},
	"isLITERAL": {arity: exactly(1), fn: biIsLiteral},
	"isNUMERIC": {arity: exactly(1), fn: biIsNumeric},

	// --- date/time ---
	"NOW":     {arity: exactly(0), fn: biNow},
	"YEAR":    {arity: exactly(1), fn: biDatePart("year")},
	"MONTH":   {arity: exactly(1), fn: biDatePart("month")},
	"DAY":     {arity: exactly(1), fn: biDatePart("day")},
	"HOURS":   {arity: exactly(1), fn: biDatePart("hour")},
	"MINUTES": {arity: exactly(1), fn: biDatePart("minute")},
	"SECONDS": {arity: exactly(1), fn: biDatePart("second")},

	// --- hash ---
	"MD5":    {arity: exactly(1), fn: biHash(md5Sum)},
	"SHA1":   {arity: exactly(1), fn: biHash(sha1Sum)},
	"SHA256": {arity: exactly(1), fn: biHash(sha256Sum)},
	"SHA384": {arity: exactly(1), fn: biHash(sha384Sum)},
	"SHA512": {arity: exactly(1), fn: biHash(sha512Sum)},
}

// evalCall dispatches a Call node: BOUND is special-cased because it
// inspects the raw argument expression rather than an evaluated Result,
// per spec.md §4.1 ("BOUND is the only built-in that distinguishes
// Unbound from Error and never itself produces error").
func evalCall(ctx *Context, mu mapping.Mapping, e Expr) Result {
	if e.name == "BOUND" {
		return evalBound(mu, e.args)
	}

	entry, ok := registry[e.name]
	if !ok {
		return Errorf("unknown built-in %q", e.name)
	}
	if !entry.arity(len(e.args)) {
		return Errorf("%s: wrong number of arguments (%d given)", e.name, len(e.args))
	}

	args := make([]Result, len(e.args))
	for i, a := range e.args {
		args[i] = Evaluate(ctx, mu, a)
	}
	return entry.fn(ctx, args)
}

func evalBound(mu mapping.Mapping, args []Expr) Result {
	if len(args) != 1 || args[0].Kind() != KindVariable {
		return Errorf("BOUND: expects exactly one variable argument")
	}
	_, ok := mu.Lookup(args[0].VariableName())
	return Ok(rdfterm.NewLiteral(boolLex(ok), "", xsdBoolean))
}

func requireStrings(args []Result) ([]string, Result, bool) {
	out := make([]string, len(args))
	for i, a := range args {
		if a.Kind != ResultTerm || !a.Term.IsLiteral() {
			return nil, Errorf("expected a literal argument at position %d", i+1), false
		}
		out[i] = a.Term.Lexical()
	}
	return out, Result{}, true
}

func biConcat(_ *Context, args []Result) Result {
	strs, errRes, ok := requireStrings(args)
	if !ok {
		return errRes
	}
	return Ok(rdfterm.NewLiteral(strings.Join(strs, ""), "", ""))
}

func biStrlen(_ *Context, args []Result) Result {
	strs, errRes, ok := requireStrings(args)
	if !ok {
		return errRes
	}
	return Ok(rdfterm.NewLiteral(strconv.Itoa(len([]rune(strs[0]))), "", xsdNS+"integer"))
}

func biSubstr(_ *Context, args []Result) Result {
	strs, errRes, ok := requireStrings(args[:2])
	if !ok {
		return errRes
	}
	runes := []rune(strs[0])
	start, err := strconv.Atoi(strs[1])
	if err != nil {
		return Errorf("SUBSTR: non-numeric start position")
	}
	start-- // SPARQL positions are 1-based
	length := len(runes) - max0(start)
	if len(args) == 3 {
		lstr, errRes2, ok2 := requireStrings(args[2:3])
		if !ok2 {
			return errRes2
		}
		l, err := strconv.Atoi(lstr[0])
		if err != nil {
			return Errorf("SUBSTR: non-numeric length")
		}
		length = l
	}
	if start < 0 {
		length += start
		start = 0
	}
	if start > len(runes) {
		start = len(runes)
	}
	end := start + length
	if end > len(runes) {
		end = len(runes)
	}
	if end < start {
		end = start
	}
	return Ok(rdfterm.NewLiteral(string(runes[start:end]), "", ""))
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func biUcase(_ *Context, args []Result) Result {
	strs, errRes, ok := requireStrings(args)
	if !ok {
		return errRes
	}
	return Ok(rdfterm.NewLiteral(strings.ToUpper(strs[0]), "", ""))
}

func biLcase(_ *Context, args []Result) Result {
	strs, errRes, ok := requireStrings(args)
	if !ok {
		return errRes
	}
	return Ok(rdfterm.NewLiteral(strings.ToLower(strs[0]), "", ""))
}

func biStrstarts(_ *Context, args []Result) Result {
	strs, errRes, ok := requireStrings(args)
	if !ok {
		return errRes
	}
	return Ok(rdfterm.NewLiteral(boolLex(strings.HasPrefix(strs[0], strs[1])), "", xsdBoolean))
}

func biStrends(_ *Context, args []Result) Result {
	strs, errRes, ok := requireStrings(args)
	if !ok {
		return errRes
	}
	return Ok(rdfterm.NewLiteral(boolLex(strings.HasSuffix(strs[0], strs[1])), "", xsdBoolean))
}

func biContains(_ *Context, args []Result) Result {
	strs, errRes, ok := requireStrings(args)
	if !ok {
		return errRes
	}
	return Ok(rdfterm.NewLiteral(boolLex(strings.Contains(strs[0], strs[1])), "", xsdBoolean))
}

func biReplace(_ *Context, args []Result) Result {
	strs, errRes, ok := requireStrings(args)
	if !ok {
		return errRes
	}
	return Ok(rdfterm.NewLiteral(strings.ReplaceAll(strs[0], strs[1], strs[2]), "", ""))
}

func requireNumeric(args []Result, idx int) (numeric, Result, bool) {
	if idx >= len(args) || args[idx].Kind != ResultTerm {
		return numeric{}, Errorf("expected a numeric argument at position %d", idx+1), false
	}
	n, ok := parseNumeric(args[idx].Term)
	if !ok {
		return numeric{}, Errorf("expected a numeric argument at position %d", idx+1), false
	}
	return n, Result{}, true
}

func biAbs(_ *Context, args []Result) Result {
	n, errRes, ok := requireNumeric(args, 0)
	if !ok {
		return errRes
	}
	n.v = math.Abs(n.v)
	return Ok(formatNumeric(n))
}

func biRound(_ *Context, args []Result) Result {
	n, errRes, ok := requireNumeric(args, 0)
	if !ok {
		return errRes
	}
	n.v = math.Round(n.v)
	if n.t == tierInteger {
		return Ok(formatNumeric(n))
	}
	return Ok(formatNumeric(n))
}

func biCeil(_ *Context, args []Result) Result {
	n, errRes, ok := requireNumeric(args, 0)
	if !ok {
		return errRes
	}
	n.v = math.Ceil(n.v)
	return Ok(formatNumeric(n))
}

func biFloor(_ *Context, args []Result) Result {
	n, errRes, ok := requireNumeric(args, 0)
	if !ok {
		return errRes
	}
	n.v = math.Floor(n.v)
	return Ok(formatNumeric(n))
}

func biRand(ctx *Context, _ []Result) Result {
	return Ok(rdfterm.NewLiteral(strconv.FormatFloat(ctx.Rand.Float64(), 'g', -1, 64), "", xsdNS+"double"))
}

func biStr(_ *Context, args []Result) Result {
	if args[0].Kind != ResultTerm {
		return Errorf("STR: argument must be a term")
	}
	t := args[0].Term
	switch t.Kind() {
	case rdfterm.KindIRI:
		return Ok(rdfterm.NewLiteral(t.IRI(), "", ""))
	case rdfterm.KindLiteral:
		return Ok(rdfterm.NewLiteral(t.Lexical(), "", ""))
	case rdfterm.KindBlank:
		return Ok(rdfterm.NewLiteral(t.BlankLabel(), "", ""))
	default:
		return Errorf("STR: unsupported term kind")
	}
}

func biLang(_ *Context, args []Result) Result {
	if args[0].Kind != ResultTerm || !args[0].Term.IsLiteral() {
		return Errorf("LANG: argument must be a literal")
	}
	return Ok(rdfterm.NewLiteral(args[0].Term.Lang(), "", ""))
}

func biDatatype(_ *Context, args []Result) Result {
	if args[0].Kind != ResultTerm || !args[0].Term.IsLiteral() {
		return Errorf("DATATYPE: argument must be a literal")
	}
	return Ok(rdfterm.NewIRI(args[0].Term.Datatype()))
}

func biIRI(_ *Context, args []Result) Result {
	if args[0].Kind != ResultTerm || !args[0].Term.IsLiteral() {
		return Errorf("IRI: argument must be a literal")
	}
	return Ok(rdfterm.NewIRI(args[0].Term.Lexical()))
}

// biBnode implements BNODE(): with a literal argument it wraps the
// lexical form as a blank-node label; with no argument it mints a fresh
// random (v4, not namespace-based) UUID label via go.uuid on every call,
// matching SPARQL's "a brand new blank node on each call" BNODE()
// semantics. The result is an ordinary term for BIND to capture and
// display — it carries no identity guarantee across calls or engine
// runs. It is not a substitute for a rule head's own `_:label` slots,
// which alone go through pkg/skolem's deterministic per-(rule, label, μ)
// Skolemization. A rule that BINDs this value into a head subject/object
// position bypasses that Skolemization (instantiateSlot's KindVariable
// case just substitutes μ's binding, whatever produced it) and, if done
// inside a recursive rule, can manufacture unboundedly many distinct
// terms across iterations — see DESIGN.md.
func biBnode(_ *Context, args []Result) Result {
	if len(args) == 1 {
		if args[0].Kind != ResultTerm || !args[0].Term.IsLiteral() {
			return Errorf("BNODE: argument must be a literal")
		}
		return Ok(rdfterm.NewBlank(args[0].Term.Lexical()))
	}
	return Ok(rdfterm.NewBlank(uuid.NewV4().String()))
}

func biStrdt(_ *Context, args []Result) Result {
	if args[0].Kind != ResultTerm || !args[0].Term.IsLiteral() || args[1].Kind != ResultTerm || !args[1].Term.IsIRI() {
		return Errorf("STRDT: expects (literal, IRI)")
	}
	return Ok(rdfterm.NewLiteral(args[0].Term.Lexical(), "", args[1].Term.IRI()))
}

func biStrlang(_ *Context, args []Result) Result {
	if args[0].Kind != ResultTerm || !args[0].Term.IsLiteral() || args[1].Kind != ResultTerm || !args[1].Term.IsLiteral() {
		return Errorf("STRLANG: expects (literal, literal)")
	}
	return Ok(rdfterm.NewLiteral(args[0].Term.Lexical(), args[1].Term.Lexical(), ""))
}

func biIsIRI(_ *Context, args []Result) Result {
	return Ok(rdfterm.NewLiteral(boolLex(args[0].Kind == ResultTerm && args[0].Term.IsIRI()), "", xsdBoolean))
}

func biIsBlank(_ *Context, args []Result) Result {
	return Ok(rdfterm.NewLiteral(boolLex(args[0].Kind == ResultTerm && args[0].Term.IsBlank()), "", xsdBoolean))
}

func biIsLiteral(_ *Context, args []Result) Result {
	return Ok(rdfterm.NewLiteral(boolLex(args[0].Kind == ResultTerm && args[0].Term.IsLiteral()), "", xsdBoolean))
}

func biIsNumeric(_ *Context, args []Result) Result {
	isNum := args[0].Kind == ResultTerm && args[0].Term.IsLiteral() && isNumericDatatype(args[0].Term.Datatype())
	return Ok(rdfterm.NewLiteral(boolLex(isNum), "", xsdBoolean))
}

func biNow(ctx *Context, _ []Result) Result {
	return Ok(rdfterm.NewLiteral(ctx.Now.Format(fmtRFC3339()), "", xsdDateTime))
}

func fmtRFC3339() string { return "2006-01-02T15:04:05Z07:00" }

func biDatePart(part string) func(*Context, []Result) Result {
	return func(_ *Context, args []Result) Result {
		t, ok := parseDateTime(firstTerm(args))
		if !ok {
			return Errorf("%s: argument must be an xsd:dateTime literal", strings.ToUpper(part))
		}
		var v int
		switch part {
		case "year":
			v = t.Year()
		case "month":
			v = int(t.Month())
		case "day":
			v = t.Day()
		case "hour":
			v = t.Hour()
		case "minute":
			v = t.Minute()
		case "second":
			v = t.Second()
		}
		return Ok(rdfterm.NewLiteral(strconv.Itoa(v), "", xsdNS+"integer"))
	}
}

func firstTerm(args []Result) rdfterm.Term {
	if len(args) == 0 || args[0].Kind != ResultTerm {
		return rdfterm.Term{}
	}
	return args[0].Term
}

func biHash(sum func(string) string) func(*Context, []Result) Result {
	return func(_ *Context, args []Result) Result {
		if args[0].Kind != ResultTerm || !args[0].Term.IsLiteral() {
			return Errorf("hash function: argument must be a literal")
		}
		return Ok(rdfterm.NewLiteral(sum(args[0].Term.Lexical()), "", ""))
	}
}

// Hashing uses the standard library directly: no example repo in this
// pack wires a non-stdlib digest implementation, and crypto/sha256 et
// al. are the idiomatic Go choice for fixed, non-performance-critical
// digests (see DESIGN.md).
func md5Sum(s string) string    { sum := md5.Sum([]byte(s)); return hex.EncodeToString(sum[:]) }
func sha1Sum(s string) string   { sum := sha1.Sum([]byte(s)); return hex.EncodeToString(sum[:]) }
func sha256Sum(s string) string { sum := sha256.Sum256([]byte(s)); return hex.EncodeToString(sum[:]) }
func sha384Sum(s string) string { sum := sha512.Sum384([]byte(s)); return hex.EncodeToString(sum[:]) }
func sha512Sum(s string) string { sum := sha512.Sum512([]byte(s)); return hex.EncodeToString(sum[:]) }
