package engine

import "time"

// StratumStats reports one stratum's convergence behavior, per
// spec.md §6.3.
type StratumStats struct {
	Predicates []string
	Iterations int
	Derived    int
	Elapsed    time.Duration
}

// Stats is evaluate's stats output, per spec.md §6.3.
type Stats struct {
	Strata []StratumStats
}

// TotalDerived sums the derived-triple counts across every stratum.
func (s Stats) TotalDerived() int {
	total := 0
	for _, st := range s.Strata {
		total += st.Derived
	}
	return total
}

// TotalIterations sums the iteration counts across every stratum.
func (s Stats) TotalIterations() int {
	total := 0
	for _, st := range s.Strata {
		total += st.Iterations
	}
	return total
}
