package mapping

// Omega is an ordered multiset of solution mappings. Duplicates carry
// multiplicity and matter for counting; ordering is irrelevant for
// correctness but kept stable (slice order) to simplify testing, per
// spec.md §3.
type Omega []Mapping

// Seed is the identity multiset {∅} used to seed a Join chain — NOT the
// empty multiset. Evaluating an empty body pattern yields Seed().
func Seed() Omega { return Omega{Empty} }

// Join computes Ω₁ ⋈ Ω₂: the multiset of all μ₁ ∪ μ₂ where μ₁ ∈ Ω₁,
// μ₂ ∈ Ω₂, and μ₁ is compatible with μ₂.
func Join(left, right Omega) Omega {
	out := make(Omega, 0, len(left))
	for _, l := range left {
		for _, r := range right {
			if l.Compatible(r) {
				out = append(out, l.Merge(r))
			}
		}
	}
	return out
}

// Filter keeps only the mappings in Ω for which keep returns true.
// Callers pass a predicate derived from the expression evaluator's EBV
// per spec.md §4.2 (drop on false or error).
func Filter(omega Omega, keep func(Mapping) bool) Omega {
	out := make(Omega, 0, len(omega))
	for _, mu := range omega {
		if keep(mu) {
			out = append(out, mu)
		}
	}
	return out
}

// Extend applies BIND(e AS ?v) semantics: extendOne is called once per μ
// and returns the mapping to keep (possibly unchanged, per the "pass
// through unchanged on error/unbound" default policy) and whether the
// result should appear in the output Ω at all (an extendOne may also
// decide to drop μ, e.g. under a policy override).
func Extend(omega Omega, extendOne func(Mapping) (Mapping, bool)) Omega {
	out := make(Omega, 0, len(omega))
	for _, mu := range omega {
		if next, keep := extendOne(mu); keep {
			out = append(out, next)
		}
	}
	return out
}

// Minus computes the SPARQL-style anti-join Ω₁ ▷ Ω₂: keep μ₁ ∈ Ω₁ such
// that there is no μ₂ ∈ Ω₂ that is both compatible with μ₁ and shares at
// least one variable with μ₁.
func Minus(left, right Omega) Omega {
	out := make(Omega, 0, len(left))
	for _, l := range left {
		excluded := false
		for _, r := range right {
			if l.SharesVariable(r) && l.Compatible(r) {
				excluded = true
				break
			}
		}
		if !excluded {
			out = append(out, l)
		}
	}
	return out
}
