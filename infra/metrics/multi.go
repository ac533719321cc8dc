package metrics

import (
	"errors"

	coremetrics "github.com/orbitalsys/taskopt/core/metrics"
)

// MultiSink fans records out to several sinks and joins their errors.
type MultiSink struct {
	sinks []coremetrics.Sink
}

// NewMultiSink combines the given sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// RecordCaseOutcome records on every sink.
func (m *MultiSink) RecordCaseOutcome(o coremetrics.CaseOutcome) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.RecordCaseOutcome(o); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordEvaluation forwards to sinks that implement EvaluationRecorder.
func (m *MultiSink) RecordEvaluation(ev coremetrics.EvaluationSample) error {
	var errs []error
	for _, s := range m.sinks {
		if r, ok := s.(coremetrics.EvaluationRecorder); ok {
			if err := r.RecordEvaluation(ev); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// RecordBestRevenue forwards to sinks that implement BestRevenueRecorder.
func (m *MultiSink) RecordBestRevenue(runID string, revenue float64) error {
	var errs []error
	for _, s := range m.sinks {
		if r, ok := s.(coremetrics.BestRevenueRecorder); ok {
			if err := r.RecordBestRevenue(runID, revenue); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
