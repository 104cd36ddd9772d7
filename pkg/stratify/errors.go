package stratify

import "errors"

// ErrUnsafeNegation marks a predicate dependency graph whose strongly
// connected components contain a negative edge, per spec.md §4.5 /
// §7 ("UnsafeNegation: SCC contains a negative edge: fatal, at
// stratification").
var ErrUnsafeNegation = errors.New("stratify: unsafe negation (negative edge inside a cycle)")

// ErrUnsafeRule marks a rule whose head references a variable that is
// never bound by a positive (non-NOT, non-BIND-RHS) body element, per
// spec.md §4.5 / §7 ("UnsafeRule").
var ErrUnsafeRule = errors.New("stratify: unsafe rule (head variable not bound by positive body)")
