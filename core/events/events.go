// Package events defines the engine events emitted on the event bus.
//
// Available event types:
//   - RunStarted: optimization run begins
//   - CaseStarted: one starting point begins optimizing
//   - CaseCompleted: a case finished (optimized, skipped or budget-exhausted)
//   - EvaluationCompleted: one cost-function evaluation finished
package events

import "time"

// RunStarted is published once when the engine starts.
type RunStarted struct {
	RunID     string
	Cases     int
	Scenarios int
	Method    string
}

// CaseStarted is published before a starting point is validated.
type CaseStarted struct {
	RunID        string
	CaseID       string
	Index        int
	Coefficients []float64
}

// CaseCompleted is published when a case resolves, including skips.
type CaseCompleted struct {
	RunID        string
	CaseID       string
	Index        int
	Status       string
	Revenue      float64
	Coefficients []float64
	Elapsed      time.Duration
	Refinement   bool
}

// EvaluationCompleted is published after each cost-function call.
type EvaluationCompleted struct {
	RunID   string
	Cost    float64
	Penalty float64
	Elapsed time.Duration
}
