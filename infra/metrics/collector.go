package metrics

import (
	"context"

	"github.com/orbitalsys/taskopt/core/engine"
	"github.com/orbitalsys/taskopt/core/events"
	coremetrics "github.com/orbitalsys/taskopt/core/metrics"
	"github.com/orbitalsys/taskopt/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records metrics for
// engine events. It stops when the context is canceled. The returned channel
// closes once the collector has drained its subscription.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.Sink) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || sink == nil {
		close(done)
		return done
	}
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		best := make(map[string]float64)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				switch e := ev.(type) {
				case events.CaseCompleted:
					_ = sink.RecordCaseOutcome(coremetrics.CaseOutcome{
						RunID:        e.RunID,
						CaseID:       e.CaseID,
						Index:        e.Index,
						Status:       e.Status,
						Revenue:      e.Revenue,
						Coefficients: e.Coefficients,
						Elapsed:      e.Elapsed,
						Refinement:   e.Refinement,
					})
					if r, ok := sink.(coremetrics.BestRevenueRecorder); ok && e.Status != engine.StatusSkipped {
						if prev, seen := best[e.RunID]; !seen || e.Revenue > prev {
							best[e.RunID] = e.Revenue
							_ = r.RecordBestRevenue(e.RunID, e.Revenue)
						}
					}
				case events.EvaluationCompleted:
					if r, ok := sink.(coremetrics.EvaluationRecorder); ok {
						_ = r.RecordEvaluation(coremetrics.EvaluationSample{
							RunID:   e.RunID,
							Cost:    e.Cost,
							Penalty: e.Penalty,
							Elapsed: e.Elapsed,
						})
					}
				}
			}
		}
	}()
	return done
}
