package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/srl-lang/srl/pkg/expr"
	"github.com/srl-lang/srl/pkg/rule"
)

// The full SRL grammar (prefixed IRIs, FILTER/BIND expression syntax,
// property paths) has no parser in scope here — spec.md §1 places
// grammar/parsing outside this repo's boundary. ruleDoc is a minimal
// declarative stand-in, expressive enough to drive the engine
// end-to-end from the command line: triple patterns and NOT only, no
// expressions. Slot strings use a small sigil convention:
//
//	"?name"   variable
//	"_:label" blank node
//	"\"text\"" literal (quoted)
//	anything else, after prefix expansion, an IRI
type ruleDoc struct {
	Prefixes map[string]string `yaml:"prefixes"`
	Rules    []ruleEntry        `yaml:"rules"`
}

type ruleEntry struct {
	Head []tripleDoc `yaml:"head"`
	Body []bodyDoc   `yaml:"body"`
}

type tripleDoc struct {
	Subject   string `yaml:"subject"`
	Predicate string `yaml:"predicate"`
	Object    string `yaml:"object"`
}

type bodyDoc struct {
	Pattern *tripleDoc `yaml:"pattern,omitempty"`
	Not     []bodyDoc  `yaml:"not,omitempty"`
}

// readRuleSet parses a ruleDoc from r and lowers it to a rule.RuleSet.
func readRuleSet(r io.Reader) (rule.RuleSet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return rule.RuleSet{}, err
	}

	var doc ruleDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return rule.RuleSet{}, fmt.Errorf("parsing rule document: %w", err)
	}

	prefixes := doc.Prefixes
	rules := make([]rule.Rule, 0, len(doc.Rules))
	for i, re := range doc.Rules {
		lowered, err := lowerRuleEntry(re, prefixes)
		if err != nil {
			return rule.RuleSet{}, fmt.Errorf("rule %d: %w", i, err)
		}
		rules = append(rules, lowered)
	}

	return rule.RuleSet{Prefixes: prefixes, Rules: rules}, nil
}

func lowerRuleEntry(re ruleEntry, prefixes map[string]string) (rule.Rule, error) {
	if len(re.Head) == 0 {
		return rule.Rule{}, fmt.Errorf("rule has no head")
	}
	if len(re.Body) == 0 {
		return rule.Rule{}, fmt.Errorf("rule has no body")
	}

	head := make([]rule.TripleTemplate, 0, len(re.Head))
	for _, td := range re.Head {
		tt, err := lowerTriple(td, prefixes)
		if err != nil {
			return rule.Rule{}, fmt.Errorf("head: %w", err)
		}
		head = append(head, tt)
	}

	body, err := lowerBody(re.Body, prefixes)
	if err != nil {
		return rule.Rule{}, err
	}

	return rule.Rule{Head: head, Body: body}, nil
}

func lowerBody(docs []bodyDoc, prefixes map[string]string) ([]rule.BodyElement, error) {
	body := make([]rule.BodyElement, 0, len(docs))
	for _, bd := range docs {
		switch {
		case bd.Pattern != nil:
			tt, err := lowerTriple(*bd.Pattern, prefixes)
			if err != nil {
				return nil, fmt.Errorf("pattern: %w", err)
			}
			body = append(body, rule.TriplePattern(tt.Subject, tt.Predicate, tt.Object))
		case len(bd.Not) > 0:
			sub, err := lowerBody(bd.Not, prefixes)
			if err != nil {
				return nil, fmt.Errorf("not: %w", err)
			}
			body = append(body, rule.Not(sub))
		default:
			return nil, fmt.Errorf("body element has neither pattern nor not")
		}
	}
	return body, nil
}

func lowerTriple(td tripleDoc, prefixes map[string]string) (rule.TripleTemplate, error) {
	s, err := lowerSlot(td.Subject, prefixes)
	if err != nil {
		return rule.TripleTemplate{}, fmt.Errorf("subject: %w", err)
	}
	p, err := lowerSlot(td.Predicate, prefixes)
	if err != nil {
		return rule.TripleTemplate{}, fmt.Errorf("predicate: %w", err)
	}
	o, err := lowerSlot(td.Object, prefixes)
	if err != nil {
		return rule.TripleTemplate{}, fmt.Errorf("object: %w", err)
	}
	return rule.NewTripleTemplate(s, p, o), nil
}

func lowerSlot(raw string, prefixes map[string]string) (expr.Expr, error) {
	switch {
	case strings.HasPrefix(raw, "?"):
		return expr.Variable(raw[1:]), nil
	case strings.HasPrefix(raw, "_:"):
		return expr.Blank(raw[2:]), nil
	case strings.HasPrefix(raw, `"`) && strings.HasSuffix(raw, `"`) && len(raw) >= 2:
		return expr.Literal(raw[1:len(raw)-1], "", ""), nil
	case raw == "":
		return expr.Expr{}, fmt.Errorf("empty slot")
	default:
		return expr.IRI(expandPrefix(raw, prefixes)), nil
	}
}

func expandPrefix(raw string, prefixes map[string]string) string {
	i := strings.IndexByte(raw, ':')
	if i < 0 {
		return raw
	}
	prefix, local := raw[:i], raw[i+1:]
	if base, ok := prefixes[prefix]; ok {
		return base + local
	}
	return raw
}
