package metrics

import (
	coremetrics "github.com/orbitalsys/taskopt/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records engine outcomes in Prometheus metrics.
type PromSink struct {
	cases       *prometheus.CounterVec
	caseSeconds prometheus.Histogram
	evaluations prometheus.Counter
	bestRevenue prometheus.Gauge
}

// NewPromSink registers engine metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	cases := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "taskopt_cases_total",
		Help: "Total number of resolved optimization cases",
	}, []string{"status"})
	caseSeconds := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "taskopt_case_duration_seconds",
		Help:    "Wall time per optimization case",
		Buckets: prometheus.ExponentialBuckets(0.01, 4, 10),
	})
	evaluations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "taskopt_cost_evaluations_total",
		Help: "Total number of cost-function evaluations",
	})
	bestRevenue := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "taskopt_best_revenue_dollars",
		Help: "Best average revenue achieved so far",
	})

	for _, c := range []prometheus.Collector{cases, caseSeconds, evaluations, bestRevenue} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return nil, err
			}
		}
	}
	return &PromSink{
		cases:       cases,
		caseSeconds: caseSeconds,
		evaluations: evaluations,
		bestRevenue: bestRevenue,
	}, nil
}

// RecordCaseOutcome increments the case counter and observes its duration.
func (s *PromSink) RecordCaseOutcome(o coremetrics.CaseOutcome) error {
	s.cases.WithLabelValues(o.Status).Inc()
	s.caseSeconds.Observe(o.Elapsed.Seconds())
	return nil
}

// RecordEvaluation counts one cost-function call.
func (s *PromSink) RecordEvaluation(coremetrics.EvaluationSample) error {
	s.evaluations.Inc()
	return nil
}

// RecordBestRevenue sets the best-revenue gauge.
func (s *PromSink) RecordBestRevenue(_ string, revenue float64) error {
	s.bestRevenue.Set(revenue)
	return nil
}
