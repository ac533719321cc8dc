package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/orbitalsys/taskopt/core/metrics"
)

func TestPromSinkRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)

	require.NoError(t, sink.RecordCaseOutcome(coremetrics.CaseOutcome{
		RunID:   "r1",
		CaseID:  "c1",
		Status:  "converged",
		Revenue: 120.5,
		Elapsed: 250 * time.Millisecond,
	}))
	require.NoError(t, sink.RecordEvaluation(coremetrics.EvaluationSample{RunID: "r1", Cost: -120.5, Penalty: 1}))
	require.NoError(t, sink.RecordBestRevenue("r1", 120.5))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"taskopt_cases_total",
		"taskopt_case_duration_seconds",
		"taskopt_cost_evaluations_total",
		"taskopt_best_revenue_dollars",
	} {
		require.True(t, names[want], "missing metric %s", want)
	}
}

func TestPromSinkDoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)
	_, err = NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err, "re-registering must reuse existing collectors")
}
