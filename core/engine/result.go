package engine

import "time"

// Case statuses reported in the results table.
const (
	StatusConverged       = "converged"
	StatusBudgetExhausted = "budget-exhausted"
	StatusSkipped         = "skipped"
)

// Result is one row of the results table: the outcome of optimizing a single
// starting coefficient vector.
type Result struct {
	CaseID string `json:"case_id"`
	Index  int    `json:"index"`
	Status string `json:"status"`
	// Coefficients is the optimized vector, or the starting vector for a
	// skipped case.
	Coefficients []float64 `json:"coefficients"`
	// Revenue is the de-negated average dollar total achieved by the vector.
	Revenue float64 `json:"revenue"`
	// Cost is the raw minimized objective value (negated, penalized,
	// jittered). Kept for choosing the refinement seed.
	Cost       float64       `json:"cost"`
	Elapsed    time.Duration `json:"elapsed"`
	Refinement bool          `json:"refinement"`
}
