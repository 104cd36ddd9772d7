package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/srl-lang/srl/pkg/graph"
	"github.com/srl-lang/srl/pkg/rdfterm"
)

// readGraph parses a restricted N-Triples-like format: one triple per
// line, "<subject> <predicate> object .", where object is an IRI in
// angle brackets, a blank node as "_:label", or a double-quoted literal
// optionally suffixed with "@lang" or "^^<datatype-iri>". Blank lines and
// lines starting with "#" are skipped.
//
// No third-party RDF parsing library appears anywhere in the retrieved
// reference corpus, so this reader is hand-written against the stdlib
// (bufio/strings) rather than adapted from an example; spec.md §1 places
// the grammar/parser out of scope, so this exists only to make the CLI
// runnable end-to-end, not as a conformant N-Triples implementation.
func readGraph(r io.Reader) (*graph.Memory, error) {
	g := graph.New()
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		t, err := parseTripleLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		g.Insert(t)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return g, nil
}

func parseTripleLine(line string) (rdfterm.Triple, error) {
	line = strings.TrimSuffix(strings.TrimSpace(line), ".")
	line = strings.TrimSpace(line)

	s, rest, err := parseTerm(line)
	if err != nil {
		return rdfterm.Triple{}, fmt.Errorf("subject: %w", err)
	}
	p, rest, err := parseTerm(rest)
	if err != nil {
		return rdfterm.Triple{}, fmt.Errorf("predicate: %w", err)
	}
	o, rest, err := parseTerm(rest)
	if err != nil {
		return rdfterm.Triple{}, fmt.Errorf("object: %w", err)
	}
	if strings.TrimSpace(rest) != "" {
		return rdfterm.Triple{}, fmt.Errorf("unexpected trailing content %q", rest)
	}
	if !p.IsIRI() {
		return rdfterm.Triple{}, fmt.Errorf("predicate %s is not an IRI", p)
	}
	return rdfterm.Triple{Subject: s, Predicate: p, Object: o}, nil
}

// parseTerm consumes one leading term from s and returns it along with
// the unconsumed remainder.
func parseTerm(s string) (rdfterm.Term, string, error) {
	s = strings.TrimLeft(s, " \t")
	if s == "" {
		return rdfterm.Term{}, "", fmt.Errorf("unexpected end of line")
	}
	switch s[0] {
	case '<':
		end := strings.IndexByte(s, '>')
		if end < 0 {
			return rdfterm.Term{}, "", fmt.Errorf("unterminated IRI in %q", s)
		}
		return rdfterm.NewIRI(s[1:end]), s[end+1:], nil
	case '"':
		lex, rest, err := parseQuoted(s)
		if err != nil {
			return rdfterm.Term{}, "", err
		}
		if strings.HasPrefix(rest, "@") {
			i := 1
			for i < len(rest) && !isTermBoundary(rest[i]) {
				i++
			}
			return rdfterm.NewLiteral(lex, rest[1:i], ""), rest[i:], nil
		}
		if strings.HasPrefix(rest, "^^<") {
			end := strings.IndexByte(rest, '>')
			if end < 0 {
				return rdfterm.Term{}, "", fmt.Errorf("unterminated datatype IRI in %q", rest)
			}
			return rdfterm.NewLiteral(lex, "", rest[3:end]), rest[end+1:], nil
		}
		return rdfterm.NewLiteral(lex, "", ""), rest, nil
	default:
		if strings.HasPrefix(s, "_:") {
			i := 2
			for i < len(s) && !isTermBoundary(s[i]) {
				i++
			}
			return rdfterm.NewBlank(s[2:i]), s[i:], nil
		}
		return rdfterm.Term{}, "", fmt.Errorf("unrecognized term start in %q", s)
	}
}

func isTermBoundary(c byte) bool {
	return c == ' ' || c == '\t'
}

// parseQuoted consumes a double-quoted, backslash-escaped string literal
// from the start of s and returns its unescaped contents.
func parseQuoted(s string) (string, string, error) {
	var b strings.Builder
	i := 1
	for i < len(s) {
		c := s[i]
		if c == '"' {
			return b.String(), s[i+1:], nil
		}
		if c == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			default:
				b.WriteByte(s[i+1])
			}
			i += 2
			continue
		}
		b.WriteByte(c)
		i++
	}
	return "", "", fmt.Errorf("unterminated string literal in %q", s)
}

// writeGraph serializes every triple of g to w, one per line, in the
// same format readGraph accepts. Output order is the iteration order of
// g.Iter(), which for graph.Memory is Go's unspecified map iteration
// order and therefore not stably reproducible across runs; the CLI does
// not promise a canonical ordering, only complete and round-trippable
// output.
func writeGraph(w io.Writer, g graph.Graph) error {
	bw := bufio.NewWriter(w)
	for _, t := range g.Iter() {
		if _, err := fmt.Fprintln(bw, t.String()); err != nil {
			return err
		}
	}
	return bw.Flush()
}
