// Package metrics defines the sink interfaces engine observability flows
// through. Implementations live in infra/metrics.
package metrics

import "time"

// CaseOutcome is one resolved case to be recorded.
type CaseOutcome struct {
	RunID        string
	CaseID       string
	Index        int
	Status       string
	Revenue      float64
	Coefficients []float64
	Elapsed      time.Duration
	Refinement   bool
}

// EvaluationSample captures one cost-function evaluation.
type EvaluationSample struct {
	RunID   string
	Cost    float64
	Penalty float64
	Elapsed time.Duration
}

// Sink records case outcomes for observability purposes.
type Sink interface {
	RecordCaseOutcome(CaseOutcome) error
}

// EvaluationRecorder records per-evaluation samples. Sinks implement it when
// the backend can afford the volume.
type EvaluationRecorder interface {
	RecordEvaluation(EvaluationSample) error
}

// BestRevenueRecorder tracks the best de-negated revenue seen so far.
type BestRevenueRecorder interface {
	RecordBestRevenue(runID string, revenue float64) error
}

// NopSink ignores all records.
type NopSink struct{}

// RecordCaseOutcome implements Sink.
func (NopSink) RecordCaseOutcome(CaseOutcome) error { return nil }

// RecordEvaluation implements EvaluationRecorder.
func (NopSink) RecordEvaluation(EvaluationSample) error { return nil }

// RecordBestRevenue implements BestRevenueRecorder.
func (NopSink) RecordBestRevenue(string, float64) error { return nil }
